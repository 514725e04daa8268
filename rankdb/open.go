// Copyright (c) 2015-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package rankdb

import (
	"fmt"
	"os"

	"github.com/trifle-labs/kudzu-cup-sub000/database/engine"
	"github.com/trifle-labs/kudzu-cup-sub000/database/engine/leveldb"
	"github.com/trifle-labs/kudzu-cup-sub000/database/engine/pebbledb"
)

// Supported engine types.
const (
	EngineLevelDB = "leveldb"
	EnginePebble  = "pebble"
	EngineMemory  = "memory"
)

// SupportedEngines returns a slice of strings that represent the engine types
// OpenEngine accepts.
func SupportedEngines() []string {
	return []string{EngineLevelDB, EnginePebble, EngineMemory}
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

// OpenEngine opens the database of the given type at path, creating it when
// it does not exist yet.  The path is ignored by the memory engine.
func OpenEngine(dbType, path string, cache, handles int) (engine.Engine, error) {
	create := !fileExists(path)
	log.Debugf("Opening %s database at %s (create %v, cache %d MiB, "+
		"%d handles)", dbType, path, create, cache, handles)

	switch dbType {
	case EngineLevelDB:
		return leveldb.NewDB(path, create, cache, handles)
	case EnginePebble:
		return pebbledb.NewDB(path, create, cache, handles)
	case EngineMemory:
		return leveldb.NewMemDB()
	}
	return nil, fmt.Errorf("unsupported database type %q", dbType)
}
