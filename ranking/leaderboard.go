// Copyright (c) 2015-2017 The btcsuite developers
// Copyright (c) 2016-2017 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package ranking

import (
	"fmt"
	"sync"

	"github.com/trifle-labs/kudzu-cup-sub000/ostree"
)

// Standing is one row of a leaderboard as presented to players.
type Standing struct {
	Rank     int
	Identity string
	Score    uint64
}

// Leaderboard ranks identities by score.  Every identity holds at most one
// entry.  Among equal scores the most recent arrival receives the lowest
// index, so the derived rank, which mirrors the index, favors whoever reached
// the score first.
//
// Index 0 holds the lowest score and rank 0 holds the highest.
//
// A Leaderboard is safe for concurrent use.  Writers are serialized and
// readers observe the state between writes.
type Leaderboard struct {
	mtx sync.RWMutex
	b   *book
}

// NewLeaderboard returns a leaderboard configured by cfg, which may be nil.
// When cfg names a store the persisted state is loaded first.
func NewLeaderboard(cfg *Config) (*Leaderboard, error) {
	b, err := newBook(cfg, ostree.NewestFirst, true)
	if err != nil {
		return nil, err
	}
	return &Leaderboard{b: b}, nil
}

// identityNotFound returns the error reported for an identity without an
// entry.
func identityNotFound(identity string) error {
	str := fmt.Sprintf("identity %q has no entry", identity)
	return ostree.MakeError(ostree.ErrNotFound, str)
}

// place moves identity to score with a fresh sequence number, removing its
// previous entry first.  The caller must hold the write lock and have
// validated the score.
func (lb *Leaderboard) place(score uint64, identity string) (uint64, error) {
	b := lb.b
	if rec, ok := b.reg.Lookup(identity); ok {
		if _, err := b.tree.Remove(rec.Score, identity); err != nil {
			return 0, err
		}
	}

	seq := b.seq.Next()
	if err := b.tree.Insert(score, identity, seq); err != nil {
		return 0, err
	}
	b.reg.put(Record{Identity: identity, Score: score, Seq: seq})
	b.touch(identity)

	log.Tracef("Placed %q at score %d (seq %d)", identity, score, seq)
	return seq, nil
}

// Insert places identity at score and returns the sequence number of the new
// entry.  An identity that already holds an entry loses it first, even when
// the score is unchanged.
func (lb *Leaderboard) Insert(score uint64, identity string) (uint64, error) {
	if score == 0 {
		return 0, ostree.MakeError(ostree.ErrInvalidScore,
			"score 0 is reserved")
	}

	lb.mtx.Lock()
	defer lb.mtx.Unlock()

	seq, err := lb.place(score, identity)
	if err != nil {
		return 0, err
	}
	if err := lb.b.commit(); err != nil {
		return 0, err
	}
	return seq, nil
}

// Remove deletes the entry of identity.
func (lb *Leaderboard) Remove(identity string) error {
	lb.mtx.Lock()
	defer lb.mtx.Unlock()

	b := lb.b
	rec, ok := b.reg.Lookup(identity)
	if !ok {
		return identityNotFound(identity)
	}
	if _, err := b.tree.Remove(rec.Score, identity); err != nil {
		return err
	}
	b.reg.remove(identity)
	b.touch(identity)

	log.Tracef("Removed %q from score %d", identity, rec.Score)
	return b.commit()
}

// Score returns the score held by identity.
func (lb *Leaderboard) Score(identity string) (uint64, error) {
	lb.mtx.RLock()
	defer lb.mtx.RUnlock()

	rec, ok := lb.b.reg.Lookup(identity)
	if !ok {
		return 0, identityNotFound(identity)
	}
	return rec.Score, nil
}

// SequenceNumber returns the sequence number of the entry held by identity.
func (lb *Leaderboard) SequenceNumber(identity string) (uint64, error) {
	lb.mtx.RLock()
	defer lb.mtx.RUnlock()

	rec, ok := lb.b.reg.Lookup(identity)
	if !ok {
		return 0, identityNotFound(identity)
	}
	return rec.Seq, nil
}

// Count returns the number of entries, which is the number of live
// identities.
func (lb *Leaderboard) Count() int {
	lb.mtx.RLock()
	defer lb.mtx.RUnlock()

	return lb.b.tree.Len()
}

// EntryAtIndex returns the identity and score at the 0-based index.
func (lb *Leaderboard) EntryAtIndex(index int) (string, uint64, error) {
	lb.mtx.RLock()
	defer lb.mtx.RUnlock()

	score, entry, err := lb.b.tree.Select(index)
	if err != nil {
		return "", 0, err
	}
	return entry.Key, score, nil
}

// IndexOf returns the 0-based index of the entry held by identity.
func (lb *Leaderboard) IndexOf(identity string) (int, error) {
	lb.mtx.RLock()
	defer lb.mtx.RUnlock()

	return lb.indexOf(identity)
}

func (lb *Leaderboard) indexOf(identity string) (int, error) {
	rec, ok := lb.b.reg.Lookup(identity)
	if !ok {
		return 0, identityNotFound(identity)
	}
	return lb.b.tree.IndexOf(rec.Score, identity)
}

// EntryAtRank returns the identity holding rank, where rank 0 is the best.
func (lb *Leaderboard) EntryAtRank(rank int) (string, error) {
	lb.mtx.RLock()
	defer lb.mtx.RUnlock()

	n := lb.b.tree.Len()
	if rank < 0 || rank >= n {
		str := fmt.Sprintf("rank %d is out of bounds for %d entries",
			rank, n)
		return "", ostree.MakeError(ostree.ErrIndexOutOfBounds, str)
	}
	_, entry, err := lb.b.tree.Select(n - 1 - rank)
	if err != nil {
		return "", err
	}
	return entry.Key, nil
}

// RankOf returns the rank of identity, where rank 0 is the best.
func (lb *Leaderboard) RankOf(identity string) (int, error) {
	lb.mtx.RLock()
	defer lb.mtx.RUnlock()

	index, err := lb.indexOf(identity)
	if err != nil {
		return 0, err
	}
	return lb.b.tree.Len() - 1 - index, nil
}

// First returns the lowest score held.
func (lb *Leaderboard) First() (uint64, error) {
	lb.mtx.RLock()
	defer lb.mtx.RUnlock()

	return lb.b.tree.First()
}

// Last returns the highest score held.
func (lb *Leaderboard) Last() (uint64, error) {
	lb.mtx.RLock()
	defer lb.mtx.RUnlock()

	return lb.b.tree.Last()
}

// Next returns the lowest held score above score, or 0 when there is none.
func (lb *Leaderboard) Next(score uint64) uint64 {
	lb.mtx.RLock()
	defer lb.mtx.RUnlock()

	return lb.b.tree.Next(score)
}

// Prev returns the highest held score below score, or 0 when there is none.
func (lb *Leaderboard) Prev(score uint64) uint64 {
	lb.mtx.RLock()
	defer lb.mtx.RUnlock()

	return lb.b.tree.Prev(score)
}

// PercentileOf returns the percentile of score in [0, 100].
func (lb *Leaderboard) PercentileOf(score uint64) int {
	lb.mtx.RLock()
	defer lb.mtx.RUnlock()

	return lb.b.tree.Percentile(score)
}

// Top returns up to n standings, best first.
func (lb *Leaderboard) Top(n int) []Standing {
	lb.mtx.RLock()
	defer lb.mtx.RUnlock()

	if n > lb.b.tree.Len() {
		n = lb.b.tree.Len()
	}
	if n <= 0 {
		return nil
	}

	standings := make([]Standing, 0, n)
	lb.b.tree.ForEachReverse(func(score uint64, e ostree.Entry) bool {
		standings = append(standings, Standing{
			Rank:     len(standings),
			Identity: e.Key,
			Score:    score,
		})
		return len(standings) < n
	})
	return standings
}

// Verify checks the tree invariants and that the registry and the tree hold
// exactly the same identities, scores and sequence numbers.
func (lb *Leaderboard) Verify() error {
	lb.mtx.RLock()
	defer lb.mtx.RUnlock()

	b := lb.b
	if err := b.tree.Verify(); err != nil {
		return err
	}
	return verifyRegistry(b.tree, b.reg)
}
