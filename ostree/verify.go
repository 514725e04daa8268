// Copyright (c) 2015-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package ostree

import (
	"fmt"
)

// Height returns the number of nodes on the longest path from the root to a
// leaf.  An empty tree has height 0.
func (t *Tree) Height() int {
	return t.height(t.root, 0)
}

func (t *Tree) height(h Handle, depth int) int {
	if h == nilHandle {
		return 0
	}
	// A cycle in restored records would otherwise never terminate.
	if depth > len(t.nodes) {
		return depth
	}
	left := t.height(t.nodes[h].left, depth+1)
	right := t.height(t.nodes[h].right, depth+1)
	if left > right {
		return left + 1
	}
	return right + 1
}

// bounds limits the scores allowed within a subtree.  A zero bound means
// unbounded.
type bounds struct {
	low, high uint64
}

// Verify checks every structural invariant of the tree and returns an error
// describing the first violation found.  The checks are:
//
//   - the root is black
//   - scores are strictly ordered and nonzero
//   - red links lean left and are never consecutive
//   - every path from the root to an empty link has the same black height
//   - every subtree count is exact
//   - every key list is non-empty with strictly ascending sequence numbers
//     and unique keys
//   - every allocated node is reachable from the root
func (t *Tree) Verify() error {
	if t.root == nilHandle {
		if live := t.liveNodes(); live != 0 {
			return fmt.Errorf("empty tree holds %d allocated nodes", live)
		}
		return nil
	}
	if int(t.root) >= len(t.nodes) {
		return fmt.Errorf("root handle %d is outside the arena", t.root)
	}
	if !t.nodes[t.root].black {
		return fmt.Errorf("root node %d is red", t.root)
	}

	visited := make(map[Handle]struct{})
	if _, _, err := t.verify(t.root, bounds{}, visited); err != nil {
		return err
	}
	if live := t.liveNodes(); live != len(visited) {
		return fmt.Errorf("%d nodes allocated but %d reachable", live,
			len(visited))
	}
	return nil
}

// verify checks the subtree rooted at h and returns its black height and
// entry count.
func (t *Tree) verify(h Handle, b bounds, visited map[Handle]struct{}) (int, int, error) {
	if h == nilHandle {
		return 0, 0, nil
	}
	if int(h) >= len(t.nodes) {
		return 0, 0, fmt.Errorf("handle %d is outside the arena", h)
	}
	if _, ok := visited[h]; ok {
		return 0, 0, fmt.Errorf("node %d is linked more than once", h)
	}
	visited[h] = struct{}{}

	n := &t.nodes[h]
	if n.score == 0 {
		return 0, 0, fmt.Errorf("node %d is linked but free", h)
	}
	if b.low != 0 && n.score <= b.low {
		return 0, 0, fmt.Errorf("node %d score %d is not above %d", h,
			n.score, b.low)
	}
	if b.high != 0 && n.score >= b.high {
		return 0, 0, fmt.Errorf("node %d score %d is not below %d", h,
			n.score, b.high)
	}
	if t.isRed(n.right) {
		return 0, 0, fmt.Errorf("node %d has a right-leaning red link", h)
	}
	if !n.black && t.isRed(n.left) {
		return 0, 0, fmt.Errorf("node %d and its left child are both red", h)
	}
	if err := n.keys.verify(); err != nil {
		return 0, 0, fmt.Errorf("node %d: %v", h, err)
	}

	leftBlack, leftCount, err := t.verify(n.left, bounds{b.low, n.score}, visited)
	if err != nil {
		return 0, 0, err
	}
	rightBlack, rightCount, err := t.verify(n.right, bounds{n.score, b.high}, visited)
	if err != nil {
		return 0, 0, err
	}
	if leftBlack != rightBlack {
		return 0, 0, fmt.Errorf("node %d has black heights %d (left) and "+
			"%d (right)", h, leftBlack, rightBlack)
	}

	count := n.keys.len() + leftCount + rightCount
	if n.count != count {
		return 0, 0, fmt.Errorf("node %d count is %d, expected %d", h,
			n.count, count)
	}

	if n.black {
		leftBlack++
	}
	return leftBlack, count, nil
}

// liveNodes returns the number of allocated nodes in the arena.
func (t *Tree) liveNodes() int {
	var live int
	for h := 1; h < len(t.nodes); h++ {
		if t.nodes[h].score != 0 {
			live++
		}
	}
	return live
}

// verify checks that the list is non-empty, that sequence numbers strictly
// ascend and that no key appears twice.
func (l *keyList) verify() error {
	if len(l.entries) == 0 {
		return fmt.Errorf("empty key list")
	}
	seen := make(map[string]struct{}, len(l.entries))
	for i, e := range l.entries {
		if i > 0 && l.entries[i-1].Seq >= e.Seq {
			return fmt.Errorf("sequence %d follows %d", e.Seq,
				l.entries[i-1].Seq)
		}
		if _, ok := seen[e.Key]; ok {
			return fmt.Errorf("key %q appears twice", e.Key)
		}
		seen[e.Key] = struct{}{}
	}
	return nil
}
