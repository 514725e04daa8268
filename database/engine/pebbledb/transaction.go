package pebbledb

import (
	"github.com/cockroachdb/pebble"
	"github.com/trifle-labs/kudzu-cup-sub000/database/engine"
)

func NewTransaction(batch *pebble.Batch) engine.Transaction {
	return &Transaction{Batch: batch}
}

// Transaction buffers writes in a pebble batch that is applied with a synced
// commit.
type Transaction struct {
	*pebble.Batch
	released bool
}

func (t *Transaction) Put(key, value []byte) error {
	if t.released {
		return ErrTxClosed
	}
	return t.Batch.Set(key, value, pebble.NoSync)
}

func (t *Transaction) Delete(key []byte) error {
	if t.released {
		return ErrTxClosed
	}
	return t.Batch.Delete(key, pebble.NoSync)
}

func (t *Transaction) Discard() {
	if !t.released {
		t.released = true
		t.Batch.Close()
	}
}

// Commit applies the batch and releases it.
func (t *Transaction) Commit() error {
	if t.released {
		return ErrTxClosed
	}
	err := t.Batch.Commit(pebble.Sync)
	t.Discard()
	return err
}
