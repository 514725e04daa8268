// Copyright (c) 2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package ostree

import (
	"sort"
)

// keyList is the ordered collection of entries that share a single score.
// Entries are always stored in ascending sequence order; the tie-break policy
// only decides the direction in which they are read.
type keyList struct {
	entries []Entry
}

// len returns the number of entries in the list.
func (l *keyList) len() int {
	return len(l.entries)
}

// add places the entry according to its sequence number.  Entries minted by
// a monotonic counter always land at the end.
func (l *keyList) add(e Entry) {
	n := len(l.entries)
	if n == 0 || l.entries[n-1].Seq < e.Seq {
		l.entries = append(l.entries, e)
		return
	}

	i := sort.Search(n, func(i int) bool {
		return l.entries[i].Seq > e.Seq
	})
	l.entries = append(l.entries, Entry{})
	copy(l.entries[i+1:], l.entries[i:])
	l.entries[i] = e
}

// find returns the storage position of key or -1 when it is not present.
func (l *keyList) find(key string) int {
	for i := range l.entries {
		if l.entries[i].Key == key {
			return i
		}
	}
	return -1
}

// removeAt removes the entry at storage position i while preserving the
// relative order of the remaining entries.
func (l *keyList) removeAt(i int) Entry {
	e := l.entries[i]
	copy(l.entries[i:], l.entries[i+1:])
	l.entries[len(l.entries)-1] = Entry{}
	l.entries = l.entries[:len(l.entries)-1]
	return e
}

// offset converts between a storage position and the offset in tie-break
// order.  The mapping is its own inverse.
func (l *keyList) offset(i int, tb TieBreak) int {
	if tb == NewestFirst {
		return len(l.entries) - 1 - i
	}
	return i
}

// at returns the entry at the given offset in tie-break order.
func (l *keyList) at(offset int, tb TieBreak) Entry {
	return l.entries[l.offset(offset, tb)]
}

// ordered returns a copy of the entries in tie-break order.
func (l *keyList) ordered(tb TieBreak) []Entry {
	entries := make([]Entry, len(l.entries))
	for i := range l.entries {
		entries[i] = l.at(i, tb)
	}
	return entries
}
