package leveldb

import (
	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/util"
	"github.com/trifle-labs/kudzu-cup-sub000/database/engine"
)

func NewSnapshot(snapshot *leveldb.Snapshot) engine.Snapshot {
	return &Snapshot{Snapshot: snapshot}
}

type Snapshot struct {
	*leveldb.Snapshot
}

func (s *Snapshot) Has(key []byte) (bool, error) {
	return s.Snapshot.Has(key, nil)
}

func (s *Snapshot) Get(key []byte) ([]byte, error) {
	return s.Snapshot.Get(key, nil)
}

func (s *Snapshot) Release() {
	s.Snapshot.Release()
}

// NewIterator returns a goleveldb iterator, which already satisfies
// engine.Iterator.
func (s *Snapshot) NewIterator(r *engine.Range) engine.Iterator {
	return s.Snapshot.NewIterator(&util.Range{
		Start: r.Start,
		Limit: r.Limit,
	}, nil)
}
