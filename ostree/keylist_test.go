// Copyright (c) 2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package ostree

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// TestKeyList ensures entries are stored by sequence, read back in the
// direction of the tie-break policy and removed without disturbing the order
// of the survivors.
func TestKeyList(t *testing.T) {
	t.Parallel()

	var l keyList
	l.add(Entry{"b", 2})
	l.add(Entry{"d", 4})
	l.add(Entry{"a", 1})
	l.add(Entry{"c", 3})
	require.Equal(t, 4, l.len())
	require.Equal(t, []Entry{{"a", 1}, {"b", 2}, {"c", 3}, {"d", 4}},
		l.ordered(ArrivalOrder))
	require.Equal(t, []Entry{{"d", 4}, {"c", 3}, {"b", 2}, {"a", 1}},
		l.ordered(NewestFirst))

	require.Equal(t, 2, l.find("c"))
	require.Equal(t, -1, l.find("z"))

	// The offset mapping is its own inverse.
	for i := 0; i < l.len(); i++ {
		require.Equal(t, i, l.offset(l.offset(i, NewestFirst), NewestFirst))
		require.Equal(t, i, l.offset(i, ArrivalOrder))
	}
	require.Equal(t, Entry{"c", 3}, l.at(1, NewestFirst))

	removed := l.removeAt(l.find("b"))
	require.Equal(t, Entry{"b", 2}, removed)
	require.Equal(t, []Entry{{"a", 1}, {"c", 3}, {"d", 4}},
		l.ordered(ArrivalOrder))
	require.NoError(t, l.verify())

	l.removeAt(0)
	l.removeAt(0)
	l.removeAt(0)
	require.Equal(t, 0, l.len())
	require.Error(t, l.verify())
}
