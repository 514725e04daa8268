// Copyright (c) 2016-2017 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package ranking

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/trifle-labs/kudzu-cup-sub000/ostree"
)

// TestInsertBatch ensures a batch of placements is applied in order and that
// invalid batches leave the leaderboard untouched.
func TestInsertBatch(t *testing.T) {
	t.Parallel()

	lb := newTestLeaderboard(t)
	seqs, err := lb.InsertBatch([]uint64{10, 20, 30, 15}, []string{"A", "B", "C", "A"})
	require.NoError(t, err)
	require.Equal(t, []uint64{1, 2, 3, 4}, seqs)
	requireOrder(t, lb, []Record{{"A", 15, 0}, {"B", 20, 0}, {"C", 30, 0}})

	_, err = lb.InsertBatch([]uint64{10, 20}, []string{"D"})
	require.True(t, ostree.IsErrorCode(err, ostree.ErrArityMismatch), "InsertBatch: %v", err)

	_, err = lb.InsertBatch([]uint64{10, 0}, []string{"D", "E"})
	require.True(t, ostree.IsErrorCode(err, ostree.ErrInvalidScore), "InsertBatch: %v", err)
	require.Equal(t, 3, lb.Count())
	_, err = lb.Score("D")
	require.True(t, ostree.IsErrorCode(err, ostree.ErrNotFound), "Score: %v", err)
}

// TestAdjustBatch ensures rewards and punishments move scores, that absent
// identities start from zero and that a batch driving any score to zero or
// below is rejected as a whole.
func TestAdjustBatch(t *testing.T) {
	t.Parallel()

	lb := newTestLeaderboard(t)
	_, err := lb.InsertBatch([]uint64{10, 20}, []string{"A", "B"})
	require.NoError(t, err)

	_, err = lb.AdjustBatch([]string{"A", "B", "C", "A"}, []int64{5, -15, 7, 1})
	require.NoError(t, err)
	requireOrder(t, lb, []Record{{"B", 5, 0}, {"C", 7, 0}, {"A", 16, 0}})

	tests := []struct {
		name   string
		ids    []string
		deltas []int64
		code   ostree.ErrorCode
	}{{
		name:   "arity",
		ids:    []string{"A", "B"},
		deltas: []int64{1},
		code:   ostree.ErrArityMismatch,
	}, {
		name:   "to zero",
		ids:    []string{"A", "B"},
		deltas: []int64{1, -5},
		code:   ostree.ErrInvalidScore,
	}, {
		name:   "cumulative below zero",
		ids:    []string{"C", "C"},
		deltas: []int64{-3, -4},
		code:   ostree.ErrInvalidScore,
	}, {
		name:   "absent punished",
		ids:    []string{"Z"},
		deltas: []int64{-1},
		code:   ostree.ErrInvalidScore,
	}, {
		name:   "absent unchanged",
		ids:    []string{"Z"},
		deltas: []int64{0},
		code:   ostree.ErrInvalidScore,
	}, {
		name:   "most negative delta",
		ids:    []string{"A"},
		deltas: []int64{math.MinInt64},
		code:   ostree.ErrInvalidScore,
	}}

	for _, test := range tests {
		_, err := lb.AdjustBatch(test.ids, test.deltas)
		require.True(t, ostree.IsErrorCode(err, test.code), "%s: %v",
			test.name, err)
		requireOrder(t, lb, []Record{{"B", 5, 0}, {"C", 7, 0}, {"A", 16, 0}})
	}
}

// TestAdjust ensures the score arithmetic at its boundaries.
func TestAdjust(t *testing.T) {
	t.Parallel()

	tests := []struct {
		score uint64
		delta int64
		want  uint64
		valid bool
	}{
		{score: 10, delta: 5, want: 15, valid: true},
		{score: 10, delta: -9, want: 1, valid: true},
		{score: 10, delta: -10, valid: false},
		{score: 10, delta: 0, want: 10, valid: true},
		{score: 0, delta: 0, valid: false},
		{score: 0, delta: 3, want: 3, valid: true},
		{score: math.MaxUint64, delta: 1, valid: false},
		{score: math.MaxUint64, delta: math.MinInt64, want: math.MaxUint64 - 1<<63, valid: true},
	}
	for i, test := range tests {
		got, valid := adjust(test.score, test.delta)
		require.Equal(t, test.valid, valid, "test #%d", i)
		if valid {
			require.Equal(t, test.want, got, "test #%d", i)
		}
	}
}
