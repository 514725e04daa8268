// Copyright (c) 2015-2017 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package ranking

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/trifle-labs/kudzu-cup-sub000/ostree"
)

// memStore is a Store kept in maps.  It can be told to reject the next
// commit.
type memStore struct {
	root     ostree.Handle
	nodes    map[ostree.Handle]ostree.NodeRecord
	records  map[string]Record
	lastSeq  uint64
	failNext bool
	commits  int
}

func newMemStore() *memStore {
	return &memStore{
		nodes:   make(map[ostree.Handle]ostree.NodeRecord),
		records: make(map[string]Record),
	}
}

func (s *memStore) Load(tieBreak ostree.TieBreak) (*State, error) {
	nodes := make(map[ostree.Handle]ostree.NodeRecord, len(s.nodes))
	for h, rec := range s.nodes {
		nodes[h] = rec
	}
	tree, err := ostree.Restore(tieBreak, s.root, nodes)
	if err != nil {
		return nil, err
	}
	state := &State{Tree: tree, LastSeq: s.lastSeq}
	for _, rec := range s.records {
		state.Records = append(state.Records, rec)
	}
	return state, nil
}

func (s *memStore) Commit(b *Batch) error {
	if s.failNext {
		s.failNext = false
		return errors.New("disk full")
	}

	s.root = b.Changes.Root
	for h, rec := range b.Changes.Updated {
		s.nodes[h] = rec
	}
	for _, h := range b.Changes.Freed {
		delete(s.nodes, h)
	}
	for _, rec := range b.Put {
		s.records[rec.Identity] = rec
	}
	for _, id := range b.Deleted {
		delete(s.records, id)
	}
	s.lastSeq = b.LastSeq
	s.commits++
	return nil
}

// TestLeaderboardPersistence ensures a leaderboard reopened over the same
// store observes every committed mutation and continues the sequence.
func TestLeaderboardPersistence(t *testing.T) {
	t.Parallel()

	store := newMemStore()
	lb, err := NewLeaderboard(&Config{Store: store})
	require.NoError(t, err)

	for i, id := range []string{"A", "B", "C", "D", "E", "F"} {
		_, err := lb.Insert(uint64(i%3+1)*10, id)
		require.NoError(t, err)
	}
	require.NoError(t, lb.Remove("B"))
	_, err = lb.Insert(5, "C")
	require.NoError(t, err)
	_, err = lb.AdjustBatch([]string{"A", "G"}, []int64{7, 3})
	require.NoError(t, err)
	require.Equal(t, 9, store.commits)

	reopened, err := NewLeaderboard(&Config{Store: store})
	require.NoError(t, err)
	require.NoError(t, reopened.Verify())
	require.Equal(t, lb.Count(), reopened.Count())
	for i := 0; i < lb.Count(); i++ {
		wantID, wantScore, err := lb.EntryAtIndex(i)
		require.NoError(t, err)
		gotID, gotScore, err := reopened.EntryAtIndex(i)
		require.NoError(t, err)
		require.Equal(t, wantID, gotID)
		require.Equal(t, wantScore, gotScore)
	}

	seq, err := reopened.Insert(100, "H")
	require.NoError(t, err)
	require.Equal(t, store.lastSeq, seq)
	require.Equal(t, uint64(10), seq)

	// A ledger refuses state holding identity records.
	_, err = NewLedger(&Config{Store: store})
	require.Error(t, err)
}

// TestCommitFailure ensures a rejected commit unwinds the mutation that
// produced it while keeping sequence numbers unique.
func TestCommitFailure(t *testing.T) {
	t.Parallel()

	store := newMemStore()
	lb, err := NewLeaderboard(&Config{Store: store})
	require.NoError(t, err)
	_, err = lb.InsertBatch([]uint64{10, 20, 30}, []string{"A", "B", "C"})
	require.NoError(t, err)

	store.failNext = true
	_, err = lb.Insert(40, "D")
	require.Error(t, err)
	require.Equal(t, 3, lb.Count())
	_, err = lb.Score("D")
	require.True(t, ostree.IsErrorCode(err, ostree.ErrNotFound), "Score: %v", err)
	require.NoError(t, lb.Verify())

	store.failNext = true
	require.Error(t, lb.Remove("B"))
	score, err := lb.Score("B")
	require.NoError(t, err)
	require.Equal(t, uint64(20), score)

	store.failNext = true
	_, err = lb.AdjustBatch([]string{"A", "C"}, []int64{100, 100})
	require.Error(t, err)
	requireOrder(t, lb, []Record{{"A", 10, 0}, {"B", 20, 0}, {"C", 30, 0}})

	// The failed insert spent sequence 4 and the failed batch 5 and 6.
	seq, err := lb.Insert(40, "D")
	require.NoError(t, err)
	require.Equal(t, uint64(7), seq)
	require.NoError(t, lb.Verify())
}

// TestLedgerPersistence ensures ledgers persist and unwind like leaderboards.
func TestLedgerPersistence(t *testing.T) {
	t.Parallel()

	store := newMemStore()
	l, err := NewLedger(&Config{Store: store})
	require.NoError(t, err)
	for _, key := range []string{"x", "y", "z"} {
		_, err := l.Insert(7, key)
		require.NoError(t, err)
	}
	_, err = l.Insert(9, "x")
	require.NoError(t, err)

	store.failNext = true
	_, _, err = l.DeleteMin()
	require.Error(t, err)
	require.Equal(t, []string{"x", "y", "z"}, l.Keys(7))

	reopened, err := NewLedger(&Config{Store: store})
	require.NoError(t, err)
	require.Equal(t, 4, reopened.Count())
	require.Equal(t, []string{"x", "y", "z"}, reopened.Keys(7))
	require.NoError(t, reopened.Verify())
}

// TestLoadMismatchedRegistry ensures a leaderboard refuses stored identity
// records that disagree with the stored tree.
func TestLoadMismatchedRegistry(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		mutate func(records map[string]Record)
	}{{
		name: "stray identity",
		mutate: func(records map[string]Record) {
			records["ghost"] = Record{"ghost", 7, 99}
		},
	}, {
		name: "missing identity",
		mutate: func(records map[string]Record) {
			delete(records, "B")
		},
	}, {
		name: "wrong score",
		mutate: func(records map[string]Record) {
			rec := records["A"]
			rec.Score++
			records["A"] = rec
		},
	}, {
		name: "wrong sequence",
		mutate: func(records map[string]Record) {
			rec := records["C"]
			rec.Seq += 10
			records["C"] = rec
		},
	}, {
		name: "renamed identity",
		mutate: func(records map[string]Record) {
			rec := records["A"]
			delete(records, "A")
			rec.Identity = "Z"
			records["Z"] = rec
		},
	}}

	for _, test := range tests {
		test := test
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()

			store := newMemStore()
			lb, err := NewLeaderboard(&Config{Store: store})
			require.NoError(t, err)
			_, err = lb.InsertBatch([]uint64{10, 20, 30},
				[]string{"A", "B", "C"})
			require.NoError(t, err)

			_, err = NewLeaderboard(&Config{Store: store})
			require.NoError(t, err)

			test.mutate(store.records)
			_, err = NewLeaderboard(&Config{Store: store})
			require.Error(t, err)
		})
	}
}
