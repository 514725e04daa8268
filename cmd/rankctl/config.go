// Copyright (c) 2013-2016 The btcsuite developers
// Copyright (c) 2015-2016 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"math"
	"os"
	"os/user"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/btcsuite/btcd/btcutil"
	flags "github.com/jessevdk/go-flags"
	"github.com/trifle-labs/kudzu-cup-sub000/internal/log"
	"github.com/trifle-labs/kudzu-cup-sub000/internal/version"
	"github.com/trifle-labs/kudzu-cup-sub000/rankdb"
	"github.com/trifle-labs/kudzu-cup-sub000/ranking"
	"github.com/trifle-labs/kudzu-cup-sub000/sampleconfig"
)

const (
	defaultConfigFilename = "rankctl.conf"
	defaultDataDirname    = "data"
	defaultLogDirname     = "logs"
	defaultLogFilename    = "rankctl.log"
	defaultDbType         = rankdb.EngineLevelDB
	defaultDbCache        = 16
	defaultDbHandles      = 64
	defaultNamespace      = "default"
	defaultLogLevel       = "info"

	modeLeaderboard = "leaderboard"
	modeLedger      = "ledger"
)

var (
	defaultHomeDir    = btcutil.AppDataDir("rankctl", false)
	defaultConfigFile = filepath.Join(defaultHomeDir, defaultConfigFilename)
	defaultDataDir    = filepath.Join(defaultHomeDir, defaultDataDirname)
	defaultLogDir     = filepath.Join(defaultHomeDir, defaultLogDirname)
	knownDbTypes      = rankdb.SupportedEngines()
)

// config defines the configuration options for rankctl.
//
// See loadConfig for details on the configuration load process.
type config struct {
	ConfigFile   string `short:"C" long:"configfile" description:"Path to configuration file"`
	ShowVersion  bool   `short:"V" long:"version" description:"Display version information and exit"`
	ListCommands bool   `short:"l" long:"listcommands" description:"List all of the supported commands and exit"`
	DataDir      string `short:"b" long:"datadir" description:"Directory to store the ranking database"`
	DbType       string `long:"dbtype" description:"Database backend {leveldb, pebble, memory}"`
	DbCache      int    `long:"dbcache" description:"Database block cache size in MiB"`
	DbHandles    int    `long:"dbhandles" description:"Maximum number of database files kept open"`
	Namespace    string `short:"n" long:"namespace" description:"Namespace of the structure within the database"`
	Mode         string `short:"m" long:"mode" description:"Structure to operate on {leaderboard, ledger}"`
	Progress     int    `short:"p" long:"progress" description:"Show a progress message each time this number of seconds have passed during an import -- Use 0 to disable progress announcements"`
	Dedupe       uint   `long:"dedupe" description:"Number of recent event hashes remembered to skip replayed import events"`
	DebugLevel   string `short:"d" long:"debuglevel" description:"Logging level for all subsystems {trace, debug, info, warn, error, critical} -- You may also specify <subsystem>=<level>,<subsystem2>=<level>,... to set the log level for individual subsystems -- Use show to list available subsystems"`
	LogDir       string `long:"logdir" description:"Directory to log output"`
}

// cleanAndExpandPath expands environment variables and leading ~ in the
// passed path, cleans the result, and returns it.
func cleanAndExpandPath(path string) string {
	// NOTE: The os.ExpandEnv doesn't work with Windows cmd.exe-style
	// %VARIABLE%, but the variables can still be expanded via POSIX-style
	// $VARIABLE.
	path = os.ExpandEnv(path)

	if !strings.HasPrefix(path, "~") {
		return filepath.Clean(path)
	}

	// Expand initial ~ to the current user's home directory, or ~otheruser
	// to otheruser's home directory.  On Windows, both forward and backward
	// slashes can be used.
	path = path[1:]

	var pathSeparators string
	if runtime.GOOS == "windows" {
		pathSeparators = string(os.PathSeparator) + "/"
	} else {
		pathSeparators = string(os.PathSeparator)
	}

	userName := ""
	if i := strings.IndexAny(path, pathSeparators); i != -1 {
		userName = path[:i]
		path = path[i:]
	}

	homeDir := ""
	var u *user.User
	var err error
	if userName == "" {
		u, err = user.Current()
	} else {
		u, err = user.Lookup(userName)
	}
	if err == nil {
		homeDir = u.HomeDir
	}
	// Fallback to CWD if user lookup fails or user has no home directory.
	if homeDir == "" {
		homeDir = "."
	}

	return filepath.Join(homeDir, path)
}

// fileExists reports whether the named file or directory exists.
func fileExists(name string) bool {
	if _, err := os.Stat(name); err != nil {
		if os.IsNotExist(err) {
			return false
		}
	}
	return true
}

// validDbType returns whether or not dbType is a supported database type.
func validDbType(dbType string) bool {
	for _, knownType := range knownDbTypes {
		if dbType == knownType {
			return true
		}
	}

	return false
}

// parseAndSetDebugLevels attempts to parse the specified debug level and set
// the levels accordingly.  An appropriate error is returned if anything is
// invalid.
func parseAndSetDebugLevels(debugLevel string) error {
	// When the specified string doesn't have any delimiters, treat it as
	// the log level for all subsystems.
	if !strings.Contains(debugLevel, ",") && !strings.Contains(debugLevel, "=") {
		// Validate debug log level.
		if !log.ValidLogLevel(debugLevel) {
			str := "the specified debug level [%v] is invalid"
			return fmt.Errorf(str, debugLevel)
		}

		// Change the logging level for all subsystems.
		log.SetLogLevels(debugLevel)

		return nil
	}

	// Split the specified string into subsystem/level pairs while detecting
	// issues and update the log levels accordingly.
	for _, logLevelPair := range strings.Split(debugLevel, ",") {
		if !strings.Contains(logLevelPair, "=") {
			str := "the specified debug level contains an invalid " +
				"subsystem/level pair [%v]"
			return fmt.Errorf(str, logLevelPair)
		}

		// Extract the specified subsystem and log level.
		fields := strings.Split(logLevelPair, "=")
		subsysID, logLevel := fields[0], fields[1]

		// Validate subsystem.
		var known bool
		for _, id := range log.SupportedSubsystems() {
			if id == subsysID {
				known = true
				break
			}
		}
		if !known {
			str := "the specified subsystem [%v] is invalid -- " +
				"supported subsystems %v"
			return fmt.Errorf(str, subsysID, log.SupportedSubsystems())
		}

		// Validate log level.
		if !log.ValidLogLevel(logLevel) {
			str := "the specified debug level [%v] is invalid"
			return fmt.Errorf(str, logLevel)
		}

		log.SetLogLevel(subsysID, logLevel)
	}

	return nil
}

// createDefaultConfigFile copies the sample config to the given destination
// path.
func createDefaultConfigFile(destinationPath string) error {
	err := os.MkdirAll(filepath.Dir(destinationPath), 0700)
	if err != nil {
		return err
	}
	return os.WriteFile(destinationPath, []byte(sampleconfig.FileContents),
		0600)
}

// importConfig returns the importer tunables selected by the configuration.
// A zero progress interval silences progress messages.
func (cfg *config) importConfig() *ranking.ImportConfig {
	progress := time.Duration(cfg.Progress) * time.Second
	if progress == 0 {
		progress = time.Duration(math.MaxInt64)
	}
	return &ranking.ImportConfig{
		Progress:     progress,
		DedupeWindow: cfg.Dedupe,
	}
}

// loadConfig initializes and parses the config using a config file and command
// line options.
//
// The configuration proceeds as follows:
//  1. Start with a default config with sane settings
//  2. Pre-parse the command line to check for an alternative config file
//  3. Load configuration file overwriting defaults with any specified options
//  4. Parse CLI options and overwrite/add any specified options
//
// The above results in functioning properly without any config settings
// while still allowing the user to override settings with config files and
// command line options.  Command line options always take precedence.
func loadConfig() (*config, []string, error) {
	// Default config.
	cfg := config{
		ConfigFile: defaultConfigFile,
		DataDir:    defaultDataDir,
		DbType:     defaultDbType,
		DbCache:    defaultDbCache,
		DbHandles:  defaultDbHandles,
		Namespace:  defaultNamespace,
		Mode:       modeLeaderboard,
		Progress:   int(ranking.DefaultProgressInterval / time.Second),
		Dedupe:     ranking.DefaultDedupeWindow,
		DebugLevel: defaultLogLevel,
		LogDir:     defaultLogDir,
	}

	// Pre-parse the command line options to see if an alternative config
	// file, the version flag, or the list commands flag was specified.  Any
	// errors aside from the help message error can be ignored here since
	// they will be caught by the final parse below.
	preCfg := cfg
	preParser := flags.NewParser(&preCfg, flags.HelpFlag)
	_, err := preParser.Parse()
	if err != nil {
		if e, ok := err.(*flags.Error); ok && e.Type == flags.ErrHelp {
			fmt.Fprintln(os.Stdout, err)
			os.Exit(0)
		}
	}

	// Show the version and exit if the version flag was specified.
	appName := filepath.Base(os.Args[0])
	appName = strings.TrimSuffix(appName, filepath.Ext(appName))
	usageMessage := fmt.Sprintf("Use %s -h to show options", appName)
	if preCfg.ShowVersion {
		fmt.Println(appName, "version", version.String())
		os.Exit(0)
	}

	// Show the available commands and exit if the associated flag was
	// specified.
	if preCfg.ListCommands {
		listCommands(os.Stdout)
		os.Exit(0)
	}

	// Create the default config file when the default path is in use and
	// nothing exists there yet.
	preCfg.ConfigFile = cleanAndExpandPath(preCfg.ConfigFile)
	if preCfg.ConfigFile == defaultConfigFile && !fileExists(preCfg.ConfigFile) {
		err := createDefaultConfigFile(preCfg.ConfigFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error creating a default config "+
				"file: %v\n", err)
		}
	}

	// Load additional config from file.
	parser := flags.NewParser(&cfg, flags.Default)
	err = flags.NewIniParser(parser).ParseFile(preCfg.ConfigFile)
	if err != nil {
		if _, ok := err.(*os.PathError); !ok {
			fmt.Fprintf(os.Stderr, "Error parsing config file: %v\n",
				err)
			fmt.Fprintln(os.Stderr, usageMessage)
			return nil, nil, err
		}
	}

	// Parse command line options again to ensure they take precedence.
	remainingArgs, err := parser.Parse()
	if err != nil {
		if e, ok := err.(*flags.Error); !ok || e.Type != flags.ErrHelp {
			fmt.Fprintln(os.Stderr, usageMessage)
		}
		return nil, nil, err
	}

	// Special show command to list supported subsystems and exit.
	if cfg.DebugLevel == "show" {
		fmt.Println("Supported subsystems", log.SupportedSubsystems())
		os.Exit(0)
	}

	funcName := "loadConfig"

	// Validate database type.
	if !validDbType(cfg.DbType) {
		str := "%s: the specified database type [%v] is invalid -- " +
			"supported types %v"
		err := fmt.Errorf(str, funcName, cfg.DbType, knownDbTypes)
		fmt.Fprintln(os.Stderr, err)
		fmt.Fprintln(os.Stderr, usageMessage)
		return nil, nil, err
	}

	// Validate the structure mode.
	if cfg.Mode != modeLeaderboard && cfg.Mode != modeLedger {
		str := "%s: the specified mode [%v] is invalid -- supported " +
			"modes [%s %s]"
		err := fmt.Errorf(str, funcName, cfg.Mode, modeLeaderboard,
			modeLedger)
		fmt.Fprintln(os.Stderr, err)
		fmt.Fprintln(os.Stderr, usageMessage)
		return nil, nil, err
	}

	if cfg.Namespace == "" {
		str := "%s: the namespace may not be empty"
		err := fmt.Errorf(str, funcName)
		fmt.Fprintln(os.Stderr, err)
		fmt.Fprintln(os.Stderr, usageMessage)
		return nil, nil, err
	}

	if cfg.Progress < 0 {
		str := "%s: the progress interval may not be negative"
		err := fmt.Errorf(str, funcName)
		fmt.Fprintln(os.Stderr, err)
		fmt.Fprintln(os.Stderr, usageMessage)
		return nil, nil, err
	}

	cfg.DataDir = cleanAndExpandPath(cfg.DataDir)
	cfg.LogDir = cleanAndExpandPath(cfg.LogDir)

	// Initialize log rotation.  After log rotation has been initialized,
	// the logger variables may be used.
	err = log.InitLogRotator(filepath.Join(cfg.LogDir, defaultLogFilename))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return nil, nil, err
	}

	// Parse, validate, and set debug log level(s).
	if err := parseAndSetDebugLevels(cfg.DebugLevel); err != nil {
		err := fmt.Errorf("%s: %v", funcName, err.Error())
		fmt.Fprintln(os.Stderr, err)
		fmt.Fprintln(os.Stderr, usageMessage)
		return nil, nil, err
	}

	return &cfg, remainingArgs, nil
}
