package pebbledb

import (
	"github.com/cockroachdb/pebble"
	"github.com/trifle-labs/kudzu-cup-sub000/database/engine"
)

func NewSnapshot(snapshot *pebble.Snapshot) engine.Snapshot {
	return &Snapshot{Snapshot: snapshot}
}

type Snapshot struct {
	*pebble.Snapshot
	released bool
}

func (s *Snapshot) Has(key []byte) (bool, error) {
	_, err := s.Get(key)
	switch {
	case err == pebble.ErrNotFound:
		return false, nil
	case err != nil:
		return false, err
	}
	return true, nil
}

// Get returns a copy of the value, the pebble buffer is only valid until the
// closer is called.
func (s *Snapshot) Get(key []byte) ([]byte, error) {
	if s.released {
		return nil, ErrSnapshotReleased
	}

	ori, closer, err := s.Snapshot.Get(key)
	if err != nil {
		return nil, err
	}
	defer closer.Close()

	val := make([]byte, len(ori))
	copy(val, ori)
	return val, nil
}

func (s *Snapshot) Release() {
	if !s.released {
		s.released = true
		s.Snapshot.Close()
	}
}

// NewIterator returns nil once the snapshot is released or when pebble fails
// to open the iterator.
func (s *Snapshot) NewIterator(r *engine.Range) engine.Iterator {
	if s.released {
		return nil
	}

	iter, err := s.Snapshot.NewIter(&pebble.IterOptions{
		LowerBound: r.Start,
		UpperBound: r.Limit,
	})
	if err != nil {
		return nil
	}
	return NewIterator(iter)
}
