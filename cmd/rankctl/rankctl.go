// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/trifle-labs/kudzu-cup-sub000/database/engine"
	"github.com/trifle-labs/kudzu-cup-sub000/internal/limits"
	"github.com/trifle-labs/kudzu-cup-sub000/internal/log"
	"github.com/trifle-labs/kudzu-cup-sub000/rankdb"
	"github.com/trifle-labs/kudzu-cup-sub000/ranking"
)

const (
	// rankDbNamePrefix is the prefix for the ranking database.
	rankDbNamePrefix = "ranks"

	showHelpMessage = "Specify -h to show available options"
	listCmdMessage  = "Specify -l to list available commands"
)

// usage displays the general usage when an invalid command was specified.
func usage(errorMessage string) {
	appName := filepath.Base(os.Args[0])
	appName = strings.TrimSuffix(appName, filepath.Ext(appName))
	fmt.Fprintln(os.Stderr, errorMessage)
	fmt.Fprintln(os.Stderr, "Usage:")
	fmt.Fprintf(os.Stderr, "  %s [OPTIONS] <command> <args...>\n\n",
		appName)
	fmt.Fprintln(os.Stderr, showHelpMessage)
	fmt.Fprintln(os.Stderr, listCmdMessage)
}

// loadRankDB opens the ranking database, creating it when needed.
func loadRankDB(cfg *config) (engine.Engine, error) {
	// The database name is based on the database type.
	dbName := rankDbNamePrefix + "_" + cfg.DbType
	dbPath := filepath.Join(cfg.DataDir, dbName)

	if cfg.DbType != rankdb.EngineMemory {
		if err := os.MkdirAll(cfg.DataDir, 0700); err != nil {
			return nil, err
		}
	}

	log.RctlLog.Infof("Loading ranking database from '%s'", dbPath)
	db, err := rankdb.OpenEngine(cfg.DbType, dbPath, cfg.DbCache,
		cfg.DbHandles)
	if err != nil {
		return nil, err
	}

	log.RctlLog.Info("Ranking database loaded")
	return db, nil
}

// newSession opens the structure selected by the mode within the namespace of
// db.
func newSession(cfg *config, db engine.Engine) (*session, error) {
	store, err := rankdb.New(db, cfg.Namespace)
	if err != nil {
		return nil, err
	}
	s := &session{cfg: cfg}
	rcfg := &ranking.Config{Store: store}

	switch cfg.Mode {
	case modeLedger:
		s.ledger, err = ranking.NewLedger(rcfg)
	default:
		s.lb, err = ranking.NewLeaderboard(rcfg)
	}
	if err != nil {
		return nil, err
	}
	return s, nil
}

// realMain is the real main function for the utility.  It is necessary to work
// around the fact that deferred functions do not run when os.Exit() is called.
func realMain() error {
	// Load configuration and parse command line.
	cfg, args, err := loadConfig()
	if err != nil {
		return err
	}
	defer func() {
		if log.LogRotator != nil {
			log.LogRotator.Close()
		}
	}()

	if len(args) < 1 {
		usage("No command specified")
		return fmt.Errorf("no command specified")
	}
	if _, ok := commandsFor(cfg.Mode)[args[0]]; !ok {
		fmt.Fprintf(os.Stderr, "Unrecognized %s command '%s'\n",
			cfg.Mode, args[0])
		fmt.Fprintln(os.Stderr, listCmdMessage)
		return fmt.Errorf("unrecognized command %q", args[0])
	}

	// Up some limits.
	if err := limits.SetLimits(cfg.DbHandles); err != nil {
		log.RctlLog.Errorf("Failed to raise the open file limit: %v", err)
		return err
	}

	db, err := loadRankDB(cfg)
	if err != nil {
		log.RctlLog.Errorf("Failed to load database: %v", err)
		return err
	}
	defer db.Close()

	s, err := newSession(cfg, db)
	if err != nil {
		log.RctlLog.Errorf("Failed to open %s %q: %v", cfg.Mode,
			cfg.Namespace, err)
		return err
	}

	if err := runCommand(s, os.Stdout, args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return err
	}
	return nil
}

func main() {
	// Use all processor cores.
	runtime.GOMAXPROCS(runtime.NumCPU())

	// Work around defer not working after os.Exit()
	if err := realMain(); err != nil {
		os.Exit(1)
	}
}
