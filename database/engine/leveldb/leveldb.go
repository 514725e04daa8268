package leveldb

import (
	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/filter"
	"github.com/syndtr/goleveldb/leveldb/opt"
	"github.com/syndtr/goleveldb/leveldb/storage"
	"github.com/trifle-labs/kudzu-cup-sub000/database/engine"
)

// options returns the goleveldb options shared by the on-disk and in-memory
// databases.  cache is the block cache size in MiB, zero selects the
// goleveldb default.
func options(create bool, cache, handles int) *opt.Options {
	return &opt.Options{
		ErrorIfExist:           create,
		Strict:                 opt.DefaultStrict,
		Compression:            opt.NoCompression,
		Filter:                 filter.NewBloomFilter(10),
		BlockCacheCapacity:     cache * opt.MiB,
		OpenFilesCacheCapacity: handles,
	}
}

// NewDB opens the leveldb database at dbPath.  With create set, an existing
// database is an error.
func NewDB(dbPath string, create bool, cache, handles int) (engine.Engine, error) {
	ldb, err := leveldb.OpenFile(dbPath, options(create, cache, handles))
	if err != nil {
		return nil, err
	}
	return &DB{DB: ldb}, nil
}

// NewMemDB returns a database kept entirely in memory.  It behaves like the
// on-disk database and loses its contents on Close.
func NewMemDB() (engine.Engine, error) {
	ldb, err := leveldb.Open(storage.NewMemStorage(), options(false, 0, 0))
	if err != nil {
		return nil, err
	}
	return &DB{DB: ldb}, nil
}

type DB struct {
	*leveldb.DB
}

// Transaction opens a goleveldb transaction.  Only one may be open at a time;
// a second call blocks until the first is committed or discarded.
func (d *DB) Transaction() (engine.Transaction, error) {
	tx, err := d.DB.OpenTransaction()
	if err != nil {
		return nil, err
	}
	return NewTransaction(tx), nil
}

func (d *DB) Snapshot() (engine.Snapshot, error) {
	snapshot, err := d.DB.GetSnapshot()
	if err != nil {
		return nil, err
	}
	return NewSnapshot(snapshot), nil
}

func (d *DB) Close() error {
	return d.DB.Close()
}
