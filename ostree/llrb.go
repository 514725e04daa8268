// Copyright (c) 2015-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package ostree

import (
	"fmt"
)

// Tree is a left-leaning red-black tree keyed by score and augmented with
// subtree entry counts.  Each node owns the list of entries sharing its score,
// so the tree answers positional queries over entries rather than scores.
//
// Nodes live in an arena and reference each other through handles, which
// keeps them addressable by an external store.
//
// A Tree is not safe for concurrent access.  Callers must serialize
// mutations and must not read while a mutation is in progress.
type Tree struct {
	nodes    []node // nodes[0] is the sentinel and is never written.
	free     []Handle
	root     Handle
	tieBreak TieBreak

	// dirty holds the handles modified since the last call to Changes.  It
	// is nil unless change tracking has been enabled.
	dirty map[Handle]struct{}
}

// New returns a new empty tree that orders equal scores with the provided
// tie-break policy.
func New(tieBreak TieBreak) *Tree {
	return &Tree{
		nodes:    make([]node, 1),
		tieBreak: tieBreak,
	}
}

// TieBreak returns the policy the tree uses to order entries of equal score.
func (t *Tree) TieBreak() TieBreak {
	return t.tieBreak
}

// Root returns the handle of the root node, or zero for an empty tree.
func (t *Tree) Root() Handle {
	return t.root
}

// Len returns the number of entries stored in the tree.
func (t *Tree) Len() int {
	return t.size(t.root)
}

// size returns the entry count of the subtree rooted at h.
func (t *Tree) size(h Handle) int {
	if h == nilHandle {
		return 0
	}
	return t.nodes[h].count
}

// find returns the handle of the node holding score or nilHandle.
func (t *Tree) find(score uint64) Handle {
	for h := t.root; h != nilHandle; {
		n := &t.nodes[h]
		switch {
		case score < n.score:
			h = n.left
		case score > n.score:
			h = n.right
		default:
			return h
		}
	}
	return nilHandle
}

// Insert adds key at score with the given sequence number.
//
// A score that already has a node only gains an entry in that node's list and
// the counts along its path grow by one; otherwise a new red node is linked in
// and the tree is rebalanced on the way back to the root.
func (t *Tree) Insert(score uint64, key string, seq uint64) error {
	if score == 0 {
		return rankError(ErrInvalidScore, "score 0 is reserved")
	}

	entry := Entry{Key: key, Seq: seq}
	if h := t.find(score); h != nilHandle {
		if t.nodes[h].keys.find(key) >= 0 {
			str := fmt.Sprintf("key %q already exists at score %d",
				key, score)
			return rankError(ErrDuplicateEntry, str)
		}
		t.adjustPath(score, 1)
		t.nodes[h].keys.add(entry)
		return nil
	}

	t.root = t.insert(t.root, score, entry)
	t.blackenRoot()
	return nil
}

// adjustPath adds delta to the count of every node from the root down to and
// including the node holding score, which must exist.
func (t *Tree) adjustPath(score uint64, delta int) {
	for h := t.root; h != nilHandle; {
		n := &t.nodes[h]
		n.count += delta
		t.touch(h)
		switch {
		case score < n.score:
			h = n.left
		case score > n.score:
			h = n.right
		default:
			return
		}
	}
}

func (t *Tree) insert(h Handle, score uint64, entry Entry) Handle {
	if h == nilHandle {
		// The arena may grow here, so no node pointers may be held by
		// callers across this call.
		h = t.alloc(score)
		t.nodes[h].keys.add(entry)
		t.nodes[h].count = 1
		return h
	}

	if score < t.nodes[h].score {
		left := t.insert(t.nodes[h].left, score, entry)
		t.nodes[h].left = left
	} else {
		right := t.insert(t.nodes[h].right, score, entry)
		t.nodes[h].right = right
	}

	if t.isRed(t.nodes[h].right) && !t.isRed(t.nodes[h].left) {
		h = t.rotateLeft(h)
	}
	if t.isRed(t.nodes[h].left) && t.isRed(t.nodes[t.nodes[h].left].left) {
		h = t.rotateRight(h)
	}
	if t.isRed(t.nodes[h].left) && t.isRed(t.nodes[h].right) {
		t.flip(h)
	}
	t.update(h)
	return h
}

// Remove deletes key from score and returns the removed entry.
//
// When other entries share the score only the entry is dropped and the
// counts along the path shrink by one.  Removing the last entry destroys the
// node with the usual left-leaning red-black deletion.
func (t *Tree) Remove(score uint64, key string) (Entry, error) {
	h := t.find(score)
	if h == nilHandle {
		str := fmt.Sprintf("no entries at score %d", score)
		return Entry{}, rankError(ErrNotFound, str)
	}
	pos := t.nodes[h].keys.find(key)
	if pos < 0 {
		str := fmt.Sprintf("key %q does not exist at score %d", key,
			score)
		return Entry{}, rankError(ErrNotFound, str)
	}

	if t.nodes[h].keys.len() > 1 {
		t.adjustPath(score, -1)
		return t.nodes[h].keys.removeAt(pos), nil
	}

	entry := t.nodes[h].keys.entries[pos]
	t.root = t.delete(t.root, score)
	t.blackenRoot()
	return entry, nil
}

// delete removes the node holding score, which must exist, from the subtree
// rooted at h and returns the new subtree root.
func (t *Tree) delete(h Handle, score uint64) Handle {
	if score < t.nodes[h].score {
		left := t.nodes[h].left
		if !t.isRed(left) && !t.isRed(t.nodes[left].left) {
			h = t.moveRedLeft(h)
		}
		left = t.delete(t.nodes[h].left, score)
		t.nodes[h].left = left
	} else {
		if t.isRed(t.nodes[h].left) {
			h = t.rotateRight(h)
		}
		if score == t.nodes[h].score && t.nodes[h].right == nilHandle {
			t.release(h)
			return nilHandle
		}
		right := t.nodes[h].right
		if right != nilHandle && !t.isRed(right) && !t.isRed(t.nodes[right].left) {
			h = t.moveRedRight(h)
		}
		if score == t.nodes[h].score {
			// Take over the in-order successor and drop its slot.
			right, min := t.deleteMin(t.nodes[h].right)
			n := &t.nodes[h]
			n.right = right
			n.score = t.nodes[min].score
			n.keys = t.nodes[min].keys
			t.nodes[min].keys = keyList{}
			t.release(min)
		} else {
			right = t.delete(t.nodes[h].right, score)
			t.nodes[h].right = right
		}
	}
	return t.fixUp(h)
}

// deleteMin detaches the node with the lowest score from the subtree rooted at
// h.  It returns the new subtree root and the detached node, which has not
// been released yet so the caller can take over its contents.
func (t *Tree) deleteMin(h Handle) (Handle, Handle) {
	if t.nodes[h].left == nilHandle {
		return nilHandle, h
	}

	left := t.nodes[h].left
	if !t.isRed(left) && !t.isRed(t.nodes[left].left) {
		h = t.moveRedLeft(h)
	}
	left, min := t.deleteMin(t.nodes[h].left)
	t.nodes[h].left = left
	return t.fixUp(h), min
}

// deleteMax is the mirror of deleteMin.
func (t *Tree) deleteMax(h Handle) (Handle, Handle) {
	if t.isRed(t.nodes[h].left) {
		h = t.rotateRight(h)
	}
	if t.nodes[h].right == nilHandle {
		return nilHandle, h
	}

	right := t.nodes[h].right
	if !t.isRed(right) && !t.isRed(t.nodes[right].left) {
		h = t.moveRedRight(h)
	}
	right, max := t.deleteMax(t.nodes[h].right)
	t.nodes[h].right = right
	return t.fixUp(h), max
}

// DeleteMin removes the node with the lowest score along with all of its
// entries, which are returned in tie-break order.
func (t *Tree) DeleteMin() (uint64, []Entry, error) {
	if t.root == nilHandle {
		return 0, nil, rankError(ErrEmptyStructure, "deleteMin on empty tree")
	}

	root, min := t.deleteMin(t.root)
	t.root = root
	score, entries := t.nodes[min].score, t.nodes[min].keys.ordered(t.tieBreak)
	t.release(min)
	t.blackenRoot()
	return score, entries, nil
}

// DeleteMax removes the node with the highest score along with all of its
// entries, which are returned in tie-break order.
func (t *Tree) DeleteMax() (uint64, []Entry, error) {
	if t.root == nilHandle {
		return 0, nil, rankError(ErrEmptyStructure, "deleteMax on empty tree")
	}

	root, max := t.deleteMax(t.root)
	t.root = root
	score, entries := t.nodes[max].score, t.nodes[max].keys.ordered(t.tieBreak)
	t.release(max)
	t.blackenRoot()
	return score, entries, nil
}

// blackenRoot paints the root black after a mutation.
func (t *Tree) blackenRoot() {
	if t.root != nilHandle && !t.nodes[t.root].black {
		t.nodes[t.root].black = true
		t.touch(t.root)
	}
}

// update recomputes the entry count of h from its children.
func (t *Tree) update(h Handle) {
	n := &t.nodes[h]
	n.count = n.keys.len() + t.size(n.left) + t.size(n.right)
	t.touch(h)
}

func (t *Tree) rotateLeft(h Handle) Handle {
	x := t.nodes[h].right
	if t.nodes[x].black {
		panic("rotating a black link")
	}
	t.nodes[h].right = t.nodes[x].left
	t.nodes[x].left = h
	t.nodes[x].black = t.nodes[h].black
	t.nodes[h].black = false
	t.update(h)
	t.update(x)
	return x
}

func (t *Tree) rotateRight(h Handle) Handle {
	x := t.nodes[h].left
	if t.nodes[x].black {
		panic("rotating a black link")
	}
	t.nodes[h].left = t.nodes[x].right
	t.nodes[x].right = h
	t.nodes[x].black = t.nodes[h].black
	t.nodes[h].black = false
	t.update(h)
	t.update(x)
	return x
}

func (t *Tree) moveRedLeft(h Handle) Handle {
	t.flip(h)
	if t.isRed(t.nodes[t.nodes[h].right].left) {
		right := t.rotateRight(t.nodes[h].right)
		t.nodes[h].right = right
		h = t.rotateLeft(h)
		t.flip(h)
	}
	return h
}

func (t *Tree) moveRedRight(h Handle) Handle {
	t.flip(h)
	if t.isRed(t.nodes[t.nodes[h].left].left) {
		h = t.rotateRight(h)
		t.flip(h)
	}
	return h
}

func (t *Tree) fixUp(h Handle) Handle {
	if t.isRed(t.nodes[h].right) {
		h = t.rotateLeft(h)
	}
	if t.isRed(t.nodes[h].left) && t.isRed(t.nodes[t.nodes[h].left].left) {
		h = t.rotateRight(h)
	}
	if t.isRed(t.nodes[h].left) && t.isRed(t.nodes[h].right) {
		t.flip(h)
	}
	t.update(h)
	return h
}

func (t *Tree) isRed(h Handle) bool {
	if h == nilHandle {
		return false
	}
	return !t.nodes[h].black
}

func (t *Tree) flip(h Handle) {
	n := &t.nodes[h]
	n.black = !n.black
	t.touch(h)
	for _, child := range []Handle{n.left, n.right} {
		if child != nilHandle {
			t.nodes[child].black = !t.nodes[child].black
			t.touch(child)
		}
	}
}
