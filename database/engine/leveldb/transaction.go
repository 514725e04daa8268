package leveldb

import (
	"github.com/syndtr/goleveldb/leveldb"
	"github.com/trifle-labs/kudzu-cup-sub000/database/engine"
)

func NewTransaction(tx *leveldb.Transaction) engine.Transaction {
	return &Transaction{Transaction: tx}
}

// Transaction holds the goleveldb write lock until it is committed or
// discarded.
type Transaction struct {
	*leveldb.Transaction
}

func (t *Transaction) Put(key, value []byte) error {
	return t.Transaction.Put(key, value, nil)
}

func (t *Transaction) Delete(key []byte) error {
	return t.Transaction.Delete(key, nil)
}
