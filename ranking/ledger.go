// Copyright (c) 2016-2017 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package ranking

import (
	"fmt"
	"sync"

	"github.com/trifle-labs/kudzu-cup-sub000/ostree"
)

// Ledger stores keys under scores with no exclusivity: a key may be held
// under several scores, though only once per score.  Keys sharing a score are
// indexed in strict arrival order, so every score behaves as a FIFO queue.
//
// A Ledger is safe for concurrent use.  Writers are serialized and readers
// observe the state between writes.
type Ledger struct {
	mtx sync.RWMutex
	b   *book
}

// NewLedger returns a ledger configured by cfg, which may be nil.  When cfg
// names a store the persisted state is loaded first.
func NewLedger(cfg *Config) (*Ledger, error) {
	b, err := newBook(cfg, ostree.ArrivalOrder, false)
	if err != nil {
		return nil, err
	}
	return &Ledger{b: b}, nil
}

// Insert stores key at score and returns the sequence number of the new
// entry.  A key removed and inserted again joins the end of its score.
func (l *Ledger) Insert(score uint64, key string) (uint64, error) {
	l.mtx.Lock()
	defer l.mtx.Unlock()

	if score == 0 {
		return 0, ostree.MakeError(ostree.ErrInvalidScore,
			"score 0 is reserved")
	}
	// Reject duplicates before minting so no sequence number is spent.
	if l.b.tree.KeyExists(score, key) {
		str := fmt.Sprintf("key %q already exists at score %d", key,
			score)
		return 0, ostree.MakeError(ostree.ErrDuplicateEntry, str)
	}

	seq := l.b.seq.Next()
	if err := l.b.tree.Insert(score, key, seq); err != nil {
		return 0, err
	}
	if err := l.b.commit(); err != nil {
		return 0, err
	}
	return seq, nil
}

// Remove deletes key from score.
func (l *Ledger) Remove(score uint64, key string) error {
	l.mtx.Lock()
	defer l.mtx.Unlock()

	if _, err := l.b.tree.Remove(score, key); err != nil {
		return err
	}
	return l.b.commit()
}

// Exists returns whether any key is stored at score.
func (l *Ledger) Exists(score uint64) bool {
	l.mtx.RLock()
	defer l.mtx.RUnlock()

	return l.b.tree.Exists(score)
}

// KeyExists returns whether key is stored at score.
func (l *Ledger) KeyExists(score uint64, key string) bool {
	l.mtx.RLock()
	defer l.mtx.RUnlock()

	return l.b.tree.KeyExists(score, key)
}

// Keys returns the keys stored at score in arrival order.
func (l *Ledger) Keys(score uint64) []string {
	l.mtx.RLock()
	defer l.mtx.RUnlock()

	entries := l.b.tree.Entries(score)
	if len(entries) == 0 {
		return nil
	}
	keys := make([]string, len(entries))
	for i, e := range entries {
		keys[i] = e.Key
	}
	return keys
}

// Count returns the number of stored entries.
func (l *Ledger) Count() int {
	l.mtx.RLock()
	defer l.mtx.RUnlock()

	return l.b.tree.Len()
}

// EntryAtIndex returns the key and score at the 0-based index.
func (l *Ledger) EntryAtIndex(index int) (string, uint64, error) {
	l.mtx.RLock()
	defer l.mtx.RUnlock()

	score, entry, err := l.b.tree.Select(index)
	if err != nil {
		return "", 0, err
	}
	return entry.Key, score, nil
}

// IndexOf returns the 0-based index of key at score.
func (l *Ledger) IndexOf(score uint64, key string) (int, error) {
	l.mtx.RLock()
	defer l.mtx.RUnlock()

	return l.b.tree.IndexOf(score, key)
}

// Below returns the number of entries with a lower score.
func (l *Ledger) Below(score uint64) int {
	l.mtx.RLock()
	defer l.mtx.RUnlock()

	return l.b.tree.Below(score)
}

// Above returns the number of entries with a higher score.
func (l *Ledger) Above(score uint64) int {
	l.mtx.RLock()
	defer l.mtx.RUnlock()

	return l.b.tree.Above(score)
}

// First returns the lowest stored score.
func (l *Ledger) First() (uint64, error) {
	l.mtx.RLock()
	defer l.mtx.RUnlock()

	return l.b.tree.First()
}

// Last returns the highest stored score.
func (l *Ledger) Last() (uint64, error) {
	l.mtx.RLock()
	defer l.mtx.RUnlock()

	return l.b.tree.Last()
}

// Next returns the lowest stored score above score, or 0 when there is none.
func (l *Ledger) Next(score uint64) uint64 {
	l.mtx.RLock()
	defer l.mtx.RUnlock()

	return l.b.tree.Next(score)
}

// Prev returns the highest stored score below score, or 0 when there is none.
func (l *Ledger) Prev(score uint64) uint64 {
	l.mtx.RLock()
	defer l.mtx.RUnlock()

	return l.b.tree.Prev(score)
}

// Percentile returns the percentile of score in [0, 100].
func (l *Ledger) Percentile(score uint64) int {
	l.mtx.RLock()
	defer l.mtx.RUnlock()

	return l.b.tree.Percentile(score)
}

// Permil returns the permil of score in [0, 1000].
func (l *Ledger) Permil(score uint64) int {
	l.mtx.RLock()
	defer l.mtx.RUnlock()

	return l.b.tree.Permil(score)
}

// AtPercentile returns the score at percentile p.
func (l *Ledger) AtPercentile(p int) (uint64, error) {
	l.mtx.RLock()
	defer l.mtx.RUnlock()

	return l.b.tree.AtPercentile(p)
}

// AtPermil returns the score at permil p.
func (l *Ledger) AtPermil(p int) (uint64, error) {
	l.mtx.RLock()
	defer l.mtx.RUnlock()

	return l.b.tree.AtPermil(p)
}

// Median returns the score at the 50th percentile.
func (l *Ledger) Median() (uint64, error) {
	l.mtx.RLock()
	defer l.mtx.RUnlock()

	return l.b.tree.Median()
}

// DeleteMin removes the lowest score with all of its keys, which are returned
// in arrival order.
func (l *Ledger) DeleteMin() (uint64, []string, error) {
	l.mtx.Lock()
	defer l.mtx.Unlock()

	return l.deleteEdge(l.b.tree.DeleteMin)
}

// DeleteMax removes the highest score with all of its keys, which are
// returned in arrival order.
func (l *Ledger) DeleteMax() (uint64, []string, error) {
	l.mtx.Lock()
	defer l.mtx.Unlock()

	return l.deleteEdge(l.b.tree.DeleteMax)
}

func (l *Ledger) deleteEdge(del func() (uint64, []ostree.Entry, error)) (uint64, []string, error) {
	score, entries, err := del()
	if err != nil {
		return 0, nil, err
	}
	if err := l.b.commit(); err != nil {
		return 0, nil, err
	}

	keys := make([]string, len(entries))
	for i, e := range entries {
		keys[i] = e.Key
	}
	return score, keys, nil
}

// Verify checks the tree invariants.
func (l *Ledger) Verify() error {
	l.mtx.RLock()
	defer l.mtx.RUnlock()

	return l.b.tree.Verify()
}
