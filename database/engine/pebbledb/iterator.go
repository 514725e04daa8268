package pebbledb

import (
	"github.com/cockroachdb/pebble"
	"github.com/trifle-labs/kudzu-cup-sub000/database/engine"
)

// NewIterator wraps a pebble iterator that has not been positioned yet.
func NewIterator(iter *pebble.Iterator) engine.Iterator {
	return &Iterator{Iterator: iter}
}

// Iterator adapts pebble's iterator to the leveldb-style contract of
// engine.Iterator, where the first Next or Prev of a fresh iterator lands on
// the first or last pair.
type Iterator struct {
	*pebble.Iterator
	positioned bool
	released   bool
}

func (i *Iterator) First() bool {
	if i.released {
		return false
	}
	i.positioned = true
	return i.Iterator.First()
}

func (i *Iterator) Last() bool {
	if i.released {
		return false
	}
	i.positioned = true
	return i.Iterator.Last()
}

func (i *Iterator) Seek(key []byte) bool {
	if i.released {
		return false
	}
	i.positioned = true
	return i.Iterator.SeekGE(key)
}

func (i *Iterator) Next() bool {
	if i.released {
		return false
	}
	if !i.positioned {
		return i.First()
	}
	return i.Iterator.Next()
}

func (i *Iterator) Prev() bool {
	if i.released {
		return false
	}
	if !i.positioned {
		return i.Last()
	}
	return i.Iterator.Prev()
}

func (i *Iterator) Valid() bool {
	return !i.released && i.positioned && i.Iterator.Valid()
}

func (i *Iterator) Key() []byte {
	if !i.Valid() {
		return nil
	}
	return i.Iterator.Key()
}

func (i *Iterator) Value() []byte {
	if !i.Valid() {
		return nil
	}
	return i.Iterator.Value()
}

func (i *Iterator) Release() {
	if !i.released {
		i.released = true
		i.Iterator.Close()
	}
}

func (i *Iterator) Error() error {
	if i.released {
		return engine.ErrIterReleased
	}
	return i.Iterator.Error()
}
