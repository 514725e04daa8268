// Copyright (c) 2015-2016 The btcsuite developers
// Copyright (c) 2016-2017 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package ostree

import (
	"fmt"
)

// Select returns the score and entry at the provided 0-based global index.
// Entries are indexed by ascending score and, within a score, by the tree's
// tie-break policy.
func (t *Tree) Select(index int) (uint64, Entry, error) {
	if index < 0 || index >= t.Len() {
		str := fmt.Sprintf("index %d is out of bounds for %d entries",
			index, t.Len())
		return 0, Entry{}, rankError(ErrIndexOutOfBounds, str)
	}

	for h := t.root; h != nilHandle; {
		n := &t.nodes[h]
		leftSize := t.size(n.left)
		if index < leftSize {
			h = n.left
			continue
		}
		index -= leftSize
		if index < n.keys.len() {
			return n.score, n.keys.at(index, t.tieBreak), nil
		}
		index -= n.keys.len()
		h = n.right
	}

	// The counts are exact, so the walk always lands on a node.
	panic("subtree counts do not match the tree shape")
}

// IndexOf returns the global 0-based index of key at score.
func (t *Tree) IndexOf(score uint64, key string) (int, error) {
	var index int
	for h := t.root; h != nilHandle; {
		n := &t.nodes[h]
		switch {
		case score < n.score:
			h = n.left
		case score > n.score:
			index += t.size(n.left) + n.keys.len()
			h = n.right
		default:
			pos := n.keys.find(key)
			if pos < 0 {
				str := fmt.Sprintf("key %q does not exist at "+
					"score %d", key, score)
				return 0, rankError(ErrNotFound, str)
			}
			return index + t.size(n.left) + n.keys.offset(pos, t.tieBreak), nil
		}
	}

	str := fmt.Sprintf("no entries at score %d", score)
	return 0, rankError(ErrNotFound, str)
}

// Below returns the number of entries with a score lower than the provided
// one.  It equals the index of the first entry at score when score exists.
func (t *Tree) Below(score uint64) int {
	var below int
	for h := t.root; h != nilHandle; {
		n := &t.nodes[h]
		switch {
		case score < n.score:
			h = n.left
		case score > n.score:
			below += t.size(n.left) + n.keys.len()
			h = n.right
		default:
			return below + t.size(n.left)
		}
	}
	return below
}

// Above returns the number of entries with a score higher than the provided
// one.
func (t *Tree) Above(score uint64) int {
	var above int
	for h := t.root; h != nilHandle; {
		n := &t.nodes[h]
		switch {
		case score > n.score:
			h = n.right
		case score < n.score:
			above += t.size(n.right) + n.keys.len()
			h = n.left
		default:
			return above + t.size(n.right)
		}
	}
	return above
}

// KeyCount returns the number of entries stored at score.
func (t *Tree) KeyCount(score uint64) int {
	h := t.find(score)
	if h == nilHandle {
		return 0
	}
	return t.nodes[h].keys.len()
}

// Exists returns whether at least one entry is stored at score.
func (t *Tree) Exists(score uint64) bool {
	return t.find(score) != nilHandle
}

// KeyExists returns whether key is stored at score.
func (t *Tree) KeyExists(score uint64, key string) bool {
	h := t.find(score)
	return h != nilHandle && t.nodes[h].keys.find(key) >= 0
}

// Entries returns a copy of the entries stored at score in tie-break order.
func (t *Tree) Entries(score uint64) []Entry {
	h := t.find(score)
	if h == nilHandle {
		return nil
	}
	return t.nodes[h].keys.ordered(t.tieBreak)
}

// First returns the lowest score in the tree.
func (t *Tree) First() (uint64, error) {
	if t.root == nilHandle {
		return 0, rankError(ErrEmptyStructure, "first of empty tree")
	}
	h := t.root
	for t.nodes[h].left != nilHandle {
		h = t.nodes[h].left
	}
	return t.nodes[h].score, nil
}

// Last returns the highest score in the tree.
func (t *Tree) Last() (uint64, error) {
	if t.root == nilHandle {
		return 0, rankError(ErrEmptyStructure, "last of empty tree")
	}
	h := t.root
	for t.nodes[h].right != nilHandle {
		h = t.nodes[h].right
	}
	return t.nodes[h].score, nil
}

// Next returns the lowest score strictly greater than the provided one, or 0
// when there is none.  The score itself does not need to exist.
func (t *Tree) Next(score uint64) uint64 {
	var next uint64
	for h := t.root; h != nilHandle; {
		n := &t.nodes[h]
		if score < n.score {
			next = n.score
			h = n.left
		} else {
			h = n.right
		}
	}
	return next
}

// Prev returns the highest score strictly lower than the provided one, or 0
// when there is none.  The score itself does not need to exist.
func (t *Tree) Prev(score uint64) uint64 {
	var prev uint64
	for h := t.root; h != nilHandle; {
		n := &t.nodes[h]
		if score > n.score {
			prev = n.score
			h = n.right
		} else {
			h = n.left
		}
	}
	return prev
}

// fraction returns the rounded share of entries at or below the position of
// score, at the provided scale.  The position is Below(score)+1 clamped to the
// number of entries, so a score above every entry maps to the full scale.
func (t *Tree) fraction(score uint64, scale int) int {
	n := t.Len()
	if n == 0 {
		return 0
	}
	pos := t.Below(score) + 1
	if pos > n {
		pos = n
	}
	return ((scale*10*pos)/n + 5) / 10
}

// Percentile returns the percentile of score in the range [0, 100].  An empty
// tree yields 0.
func (t *Tree) Percentile(score uint64) int {
	return t.fraction(score, 100)
}

// Permil returns the permil of score in the range [0, 1000].  An empty tree
// yields 0.
func (t *Tree) Permil(score uint64) int {
	return t.fraction(score, 1000)
}

// at returns the score at the 1-based position derived from p at the provided
// scale.
func (t *Tree) at(p, scale int) (uint64, error) {
	n := t.Len()
	if n == 0 {
		return 0, rankError(ErrEmptyStructure, "position lookup on empty tree")
	}
	if p < 0 || p > scale {
		str := fmt.Sprintf("position %d is outside [0, %d]", p, scale)
		return 0, rankError(ErrIndexOutOfBounds, str)
	}

	pos := ((p*n)/(scale/10) + 5) / 10
	if pos < 1 {
		pos = 1
	}
	if pos > n {
		pos = n
	}
	score, _, err := t.Select(pos - 1)
	return score, err
}

// AtPercentile returns the score found at percentile p of the entries.
func (t *Tree) AtPercentile(p int) (uint64, error) {
	return t.at(p, 100)
}

// AtPermil returns the score found at permil p of the entries.
func (t *Tree) AtPermil(p int) (uint64, error) {
	return t.at(p, 1000)
}

// Median returns the score at the 50th percentile.
func (t *Tree) Median() (uint64, error) {
	return t.at(50, 100)
}

// ForEach invokes the passed function with every score and entry in
// ascending index order.  Iteration stops early when the function returns
// false.
func (t *Tree) ForEach(fn func(score uint64, e Entry) bool) {
	var parents parentStack
	for h := t.root; h != nilHandle; h = t.nodes[h].left {
		parents.Push(h)
	}

	for parents.Len() > 0 {
		h := parents.Pop()
		n := &t.nodes[h]
		for i := 0; i < n.keys.len(); i++ {
			if !fn(n.score, n.keys.at(i, t.tieBreak)) {
				return
			}
		}

		for c := n.right; c != nilHandle; c = t.nodes[c].left {
			parents.Push(c)
		}
	}
}

// ForEachReverse invokes the passed function with every score and entry in
// descending index order.  Iteration stops early when the function returns
// false.
func (t *Tree) ForEachReverse(fn func(score uint64, e Entry) bool) {
	var parents parentStack
	for h := t.root; h != nilHandle; h = t.nodes[h].right {
		parents.Push(h)
	}

	for parents.Len() > 0 {
		h := parents.Pop()
		n := &t.nodes[h]
		for i := n.keys.len() - 1; i >= 0; i-- {
			if !fn(n.score, n.keys.at(i, t.tieBreak)) {
				return
			}
		}

		for c := n.left; c != nilHandle; c = t.nodes[c].right {
			parents.Push(c)
		}
	}
}
