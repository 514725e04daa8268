// Copyright (c) 2013-2017 The btcsuite developers
// Copyright (c) 2017 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package log

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/btcsuite/btclog"
	"github.com/jrick/logrotate/rotator"
	"github.com/trifle-labs/kudzu-cup-sub000/ostree"
	"github.com/trifle-labs/kudzu-cup-sub000/rankdb"
	"github.com/trifle-labs/kudzu-cup-sub000/ranking"
)

// logWriter implements an io.Writer that outputs to both standard error and
// the write-end pipe of an initialized log rotator.  Standard output is left
// to command results.
type logWriter struct{}

func (logWriter) Write(p []byte) (n int, err error) {
	os.Stderr.Write(p)
	if LogRotator != nil {
		LogRotator.Write(p)
	}
	return len(p), nil
}

// Loggers per subsystem.  A single backend logger is created and all subsystem
// loggers created from it will write to the backend.  When adding new
// subsystems, add the subsystem logger variable here and to the
// subsystemLoggers map.
//
// Output only reaches the log file once the log rotator has been initialized
// with InitLogRotator.
var (
	// backendLog is the logging backend used to create all subsystem loggers.
	backendLog = btclog.NewBackend(logWriter{})

	// LogRotator is one of the logging outputs.  It should be closed on
	// application shutdown.
	LogRotator *rotator.Rotator

	ostrLog = backendLog.Logger("OSTR")
	rankLog = backendLog.Logger("RANK")
	rkdbLog = backendLog.Logger("RKDB")
	RctlLog = backendLog.Logger("RCTL")
)

// Initialize package-global logger variables.
func init() {
	ostree.UseLogger(ostrLog)
	ranking.UseLogger(rankLog)
	rankdb.UseLogger(rkdbLog)
}

// subsystemLoggers maps each subsystem identifier to its associated logger.
var subsystemLoggers = map[string]btclog.Logger{
	"OSTR": ostrLog,
	"RANK": rankLog,
	"RKDB": rkdbLog,
	"RCTL": RctlLog,
}

// InitLogRotator initializes the logging rotater to write logs to logFile and
// create roll files in the same directory.  It must be called before the
// package-global log rotater variables are used.
func InitLogRotator(logFile string) error {
	logDir, _ := filepath.Split(logFile)
	err := os.MkdirAll(logDir, 0700)
	if err != nil {
		return fmt.Errorf("failed to create log directory: %v", err)
	}
	r, err := rotator.New(logFile, 10*1024, false, 3)
	if err != nil {
		return fmt.Errorf("failed to create file rotator: %v", err)
	}

	LogRotator = r
	return nil
}

// SupportedSubsystems returns a sorted slice of the supported subsystems for
// logging purposes.
func SupportedSubsystems() []string {
	// Convert the subsystemLoggers map keys to a slice.
	subsystems := make([]string, 0, len(subsystemLoggers))
	for subsysID := range subsystemLoggers {
		subsystems = append(subsystems, subsysID)
	}

	// Sort the subsystems for stable display.
	sort.Strings(subsystems)
	return subsystems
}

// SetLogLevel sets the logging level for provided subsystem.  Invalid
// subsystems are ignored.
func SetLogLevel(subsystemID string, logLevel string) {
	// Ignore invalid subsystems.
	logger, ok := subsystemLoggers[subsystemID]
	if !ok {
		return
	}

	// Defaults to info if the log level is invalid.
	level, _ := btclog.LevelFromString(logLevel)
	logger.SetLevel(level)
}

// SetLogLevels sets the log level for all subsystem loggers to the passed
// level.
func SetLogLevels(logLevel string) {
	for subsystemID := range subsystemLoggers {
		SetLogLevel(subsystemID, logLevel)
	}
}

// ValidLogLevel returns whether or not logLevel is a valid debug log level.
func ValidLogLevel(logLevel string) bool {
	_, ok := btclog.LevelFromString(logLevel)
	return ok
}

// PickNoun returns the singular or plural form of a noun depending
// on the count n.
func PickNoun(n int64, singular, plural string) string {
	if n == 1 {
		return singular
	}
	return plural
}
