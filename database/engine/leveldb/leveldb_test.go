package leveldb

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/trifle-labs/kudzu-cup-sub000/database/engine"
)

func TestSuiteLevelDB(t *testing.T) {
	engine.TestSuiteEngine(t, func() engine.Engine {
		dbPath := filepath.Join(t.TempDir(), "leveldb-testsuite")

		leveldb, err := NewDB(dbPath, true, 0, 0)
		require.NoErrorf(t, err, "failed to create leveldb")
		return leveldb
	})
}

func TestSuiteMemDB(t *testing.T) {
	engine.TestSuiteEngine(t, func() engine.Engine {
		memdb, err := NewMemDB()
		require.NoErrorf(t, err, "failed to create memory leveldb")
		return memdb
	})
}
