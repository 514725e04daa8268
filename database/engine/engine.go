// Package engine defines the minimal key-value storage contract the ranking
// store is written against.  Backends live in the leveldb and pebbledb
// subpackages and are exercised by the shared TestSuiteEngine.
package engine

// Engine is an ordered key-value store supporting atomic write batches and
// consistent point-in-time reads.
type Engine interface {
	// Transaction opens a write batch.  Nothing is visible to readers
	// until Commit returns successfully.
	Transaction() (Transaction, error)

	// Snapshot returns a read-only view of the store as of the call.
	Snapshot() (Snapshot, error)

	Close() error
}

// Transaction is an atomic group of writes.
type Transaction interface {
	Put(key, value []byte) error
	Delete(key []byte) error

	// Commit applies every write of the transaction or none of them.
	Commit() error

	// Discard drops the transaction.  It is safe to call more than once
	// and after Commit.
	Discard()
}

// Snapshot is a consistent read-only view of the store.
type Snapshot interface {
	// Get returns the value stored at key.  A missing key is reported as
	// an error, use Has to test for presence.
	Get(key []byte) ([]byte, error)
	Has(key []byte) (bool, error)

	// NewIterator returns an unpositioned iterator over the keys within
	// the range.  The first call to Next moves it to the first key.
	NewIterator(*Range) Iterator
	Releaser
}

type Releaser interface {
	// Release frees the resources held.  It is safe to call more than
	// once.
	Release()
}
