// Copyright (c) 2016-2017 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package ranking

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/trifle-labs/kudzu-cup-sub000/ostree"
)

// TestLedgerArrivalOrder ensures keys sharing a score are indexed in arrival
// order, that a key may live under several scores and that a re-inserted key
// joins the end of its score.
func TestLedgerArrivalOrder(t *testing.T) {
	t.Parallel()

	l, err := NewLedger(nil)
	require.NoError(t, err)

	for _, key := range []string{"a", "b", "c"} {
		_, err := l.Insert(100, key)
		require.NoError(t, err)
	}
	_, err = l.Insert(200, "a")
	require.NoError(t, err)
	require.Equal(t, 4, l.Count())
	require.Equal(t, []string{"a", "b", "c"}, l.Keys(100))

	index, err := l.IndexOf(100, "a")
	require.NoError(t, err)
	require.Equal(t, 0, index)
	index, err = l.IndexOf(200, "a")
	require.NoError(t, err)
	require.Equal(t, 3, index)

	_, err = l.Insert(100, "b")
	require.True(t, ostree.IsErrorCode(err, ostree.ErrDuplicateEntry), "Insert: %v", err)
	_, err = l.Insert(0, "z")
	require.True(t, ostree.IsErrorCode(err, ostree.ErrInvalidScore), "Insert: %v", err)

	require.NoError(t, l.Remove(100, "a"))
	seq, err := l.Insert(100, "a")
	require.NoError(t, err)
	require.Equal(t, uint64(5), seq)
	require.Equal(t, []string{"b", "c", "a"}, l.Keys(100))

	key, score, err := l.EntryAtIndex(2)
	require.NoError(t, err)
	require.Equal(t, "a", key)
	require.Equal(t, uint64(100), score)

	err = l.Remove(100, "zz")
	require.True(t, ostree.IsErrorCode(err, ostree.ErrNotFound), "Remove: %v", err)
	err = l.Remove(300, "a")
	require.True(t, ostree.IsErrorCode(err, ostree.ErrNotFound), "Remove: %v", err)
	require.NoError(t, l.Verify())
}

// TestLedgerQueries ensures the neighbor, count and percentile queries.
func TestLedgerQueries(t *testing.T) {
	t.Parallel()

	l, err := NewLedger(nil)
	require.NoError(t, err)
	_, err = l.Median()
	require.True(t, ostree.IsErrorCode(err, ostree.ErrEmptyStructure), "Median: %v", err)
	require.Nil(t, l.Keys(10))

	for _, score := range []uint64{10, 20, 20, 30, 40, 50, 60, 70, 80, 90} {
		_, err := l.Insert(score, "k"+string(rune('0'+l.Count())))
		require.NoError(t, err)
	}

	require.True(t, l.Exists(20))
	require.False(t, l.Exists(25))
	require.True(t, l.KeyExists(20, "k1"))
	require.False(t, l.KeyExists(30, "k1"))
	require.Equal(t, 1, l.Below(20))
	require.Equal(t, 7, l.Above(20))

	first, err := l.First()
	require.NoError(t, err)
	require.Equal(t, uint64(10), first)
	last, err := l.Last()
	require.NoError(t, err)
	require.Equal(t, uint64(90), last)
	require.Equal(t, uint64(30), l.Next(20))
	require.Equal(t, uint64(10), l.Prev(20))

	// Ten entries, 30 is at position 4.
	require.Equal(t, 40, l.Percentile(30))
	require.Equal(t, 400, l.Permil(30))

	// Position ((50*10)/10+5)/10 = 5 holds 40.
	median, err := l.Median()
	require.NoError(t, err)
	require.Equal(t, uint64(40), median)
	at, err := l.AtPercentile(90)
	require.NoError(t, err)
	require.Equal(t, uint64(80), at)
	at, err = l.AtPermil(100)
	require.NoError(t, err)
	require.Equal(t, uint64(10), at)

	score, keys, err := l.DeleteMin()
	require.NoError(t, err)
	require.Equal(t, uint64(10), score)
	require.Equal(t, []string{"k0"}, keys)

	score, keys, err = l.DeleteMax()
	require.NoError(t, err)
	require.Equal(t, uint64(90), score)
	require.Equal(t, []string{"k9"}, keys)

	score, keys, err = l.DeleteMin()
	require.NoError(t, err)
	require.Equal(t, uint64(20), score)
	require.Equal(t, []string{"k1", "k2"}, keys)
	require.Equal(t, 6, l.Count())
	require.NoError(t, l.Verify())
}
