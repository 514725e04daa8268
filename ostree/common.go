// Copyright (c) 2015-2016 The btcsuite developers
// Copyright (c) 2016-2017 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package ostree

import (
	"fmt"
	"sort"
)

const (
	// staticDepth is the size of the static array to use for keeping track
	// of the parent stack during tree iteration.  The height of a left-leaning
	// red-black tree is bounded by 2*log2(n+1), so the parent stack will
	// never exceed this size for any tree that fits in memory.
	staticDepth = 128

	// nilHandle is the handle of the reserved sentinel slot.  It never
	// addresses a live node.
	nilHandle Handle = 0
)

// Handle addresses a node slot in the arena of a tree.  A handle is stable for
// the lifetime of the node it addresses and is recycled once that node is
// destroyed.  The zero handle means no node, mirroring the reserved zero
// score.
type Handle uint32

// TieBreak defines the order in which entries sharing a score are assigned
// global indexes.
type TieBreak uint8

const (
	// ArrivalOrder assigns the lowest index to the entry with the lowest
	// sequence number, turning every score into a FIFO queue.
	ArrivalOrder TieBreak = iota

	// NewestFirst assigns the lowest index to the entry with the highest
	// sequence number.  When rank is reported as the mirror of index, the
	// oldest entry at a score holds the best rank.
	NewestFirst
)

// String returns the TieBreak as a human-readable name.
func (tb TieBreak) String() string {
	switch tb {
	case ArrivalOrder:
		return "ArrivalOrder"
	case NewestFirst:
		return "NewestFirst"
	}
	return fmt.Sprintf("Unknown TieBreak (%d)", uint8(tb))
}

// Entry is a single key stored at a score along with the sequence number that
// was assigned when it was inserted.
type Entry struct {
	Key string
	Seq uint64
}

// node is a slot in the arena.  A slot with a zero score is free.
type node struct {
	score uint64
	black bool
	left  Handle
	right Handle
	count int // Count of entries within this subtree - the node itself counts len(keys).
	keys  keyList
}

// NodeRecord is the exported view of a node used to persist and restore a
// tree through an external key-value store addressed by handle.
type NodeRecord struct {
	Score   uint64
	Black   bool
	Left    Handle
	Right   Handle
	Count   int
	Entries []Entry // Ascending sequence order.
}

// ChangeSet describes the nodes written and released since change tracking
// was enabled or the previous call to Changes.
type ChangeSet struct {
	Root    Handle
	Updated map[Handle]NodeRecord
	Freed   []Handle
}

// Empty returns whether the change set carries no node changes.
func (cs ChangeSet) Empty() bool {
	return len(cs.Updated) == 0 && len(cs.Freed) == 0
}

// alloc returns the handle of a fresh red node holding the given score,
// reusing a released slot when one is available.
func (t *Tree) alloc(score uint64) Handle {
	var h Handle
	if n := len(t.free); n > 0 {
		h = t.free[n-1]
		t.free = t.free[:n-1]
	} else {
		t.nodes = append(t.nodes, node{})
		h = Handle(len(t.nodes) - 1)
	}
	t.nodes[h] = node{score: score}
	t.touch(h)

	log.Tracef("allocated node %d for score %d", h, score)
	return h
}

// release clears the slot addressed by h and makes it available for reuse.
func (t *Tree) release(h Handle) {
	log.Tracef("released node %d (score %d)", h, t.nodes[h].score)

	t.nodes[h] = node{}
	t.free = append(t.free, h)
	t.touch(h)
}

// touch records h as modified when change tracking is enabled.
func (t *Tree) touch(h Handle) {
	if t.dirty != nil {
		t.dirty[h] = struct{}{}
	}
}

// TrackChanges enables recording of the nodes modified by every mutation so
// they can be collected with Changes.
func (t *Tree) TrackChanges() {
	if t.dirty == nil {
		t.dirty = make(map[Handle]struct{})
	}
}

// Changes returns the nodes modified since the previous call and resets the
// record.  The result is empty when change tracking is disabled.
func (t *Tree) Changes() ChangeSet {
	cs := ChangeSet{Root: t.root, Updated: make(map[Handle]NodeRecord)}
	for h := range t.dirty {
		if int(h) >= len(t.nodes) || t.nodes[h].score == 0 {
			cs.Freed = append(cs.Freed, h)
		} else {
			cs.Updated[h] = t.record(h)
		}
		delete(t.dirty, h)
	}
	sort.Slice(cs.Freed, func(i, j int) bool {
		return cs.Freed[i] < cs.Freed[j]
	})
	return cs
}

// record returns a copy of the node addressed by h.
func (t *Tree) record(h Handle) NodeRecord {
	n := &t.nodes[h]
	entries := make([]Entry, len(n.keys.entries))
	copy(entries, n.keys.entries)
	return NodeRecord{
		Score:   n.score,
		Black:   n.black,
		Left:    n.left,
		Right:   n.right,
		Count:   n.count,
		Entries: entries,
	}
}

// Node returns the record of the live node addressed by h.
func (t *Tree) Node(h Handle) (NodeRecord, bool) {
	if h == nilHandle || int(h) >= len(t.nodes) || t.nodes[h].score == 0 {
		return NodeRecord{}, false
	}
	return t.record(h), true
}

// sparseSlack is the number of released slots beyond one per live node a
// restored arena may carry before Restore compacts it.
const sparseSlack = 64

// Restore rebuilds a tree from the node records previously collected through
// Changes.  The resulting tree is verified before it is returned so a
// corrupted record set is reported instead of silently producing wrong
// answers.
//
// The arena is sized from the number of records, never from the stored
// handles alone.  When the handles are sparse, the live nodes are renumbered
// densely and every renumbered or vacated handle is reported by the next call
// to Changes, so a store applying that change set converges on the compact
// layout.
func Restore(tieBreak TieBreak, root Handle, records map[Handle]NodeRecord) (*Tree, error) {
	var maxHandle Handle
	for h, rec := range records {
		if h == nilHandle {
			return nil, fmt.Errorf("record stored at reserved handle 0")
		}
		if rec.Score == 0 {
			return nil, fmt.Errorf("record %d holds the reserved score 0", h)
		}
		for _, child := range []Handle{rec.Left, rec.Right} {
			if child == nilHandle {
				continue
			}
			if _, ok := records[child]; !ok {
				return nil, fmt.Errorf("record %d references "+
					"missing child %d", h, child)
			}
		}
		if h > maxHandle {
			maxHandle = h
		}
	}
	if root != nilHandle {
		if _, ok := records[root]; !ok {
			return nil, fmt.Errorf("root %d has no record", root)
		}
	}

	// Renumber the handles in ascending order when the stored layout would
	// leave most of the arena empty.
	var remap map[Handle]Handle
	if uint64(maxHandle) > 2*uint64(len(records))+sparseSlack {
		old := make([]Handle, 0, len(records))
		for h := range records {
			old = append(old, h)
		}
		sort.Slice(old, func(i, j int) bool { return old[i] < old[j] })
		remap = make(map[Handle]Handle, len(old)+1)
		remap[nilHandle] = nilHandle
		for i, h := range old {
			remap[h] = Handle(i + 1)
		}
		log.Debugf("compacting %d restored nodes spread over %d slots",
			len(old), maxHandle)

		maxHandle = Handle(len(old))
		root = remap[root]
	}

	t := &Tree{
		nodes:    make([]node, int(maxHandle)+1),
		root:     root,
		tieBreak: tieBreak,
	}
	for h, rec := range records {
		if remap != nil {
			h = remap[h]
			rec.Left, rec.Right = remap[rec.Left], remap[rec.Right]
		}
		entries := make([]Entry, len(rec.Entries))
		copy(entries, rec.Entries)
		t.nodes[h] = node{
			score: rec.Score,
			black: rec.Black,
			left:  rec.Left,
			right: rec.Right,
			count: rec.Count,
			keys:  keyList{entries: entries},
		}
	}
	for h := maxHandle; h > nilHandle; h-- {
		if t.nodes[h].score == 0 {
			t.free = append(t.free, h)
		}
	}

	if err := t.Verify(); err != nil {
		return nil, err
	}

	// Record the new layout so it reaches the store with the next change
	// set.  Stored handles beyond the compact arena are reported freed.
	if remap != nil {
		t.dirty = make(map[Handle]struct{}, 2*len(remap))
		for oldHandle, newHandle := range remap {
			if oldHandle == nilHandle {
				continue
			}
			t.dirty[oldHandle] = struct{}{}
			t.dirty[newHandle] = struct{}{}
		}
	}

	log.Debugf("restored tree with %d entries in %d nodes", t.Len(),
		int(maxHandle)-len(t.free))
	return t, nil
}

// parentStack represents a stack of parent tree nodes that are used during
// iteration.  It consists of a static array for holding the parents and a
// dynamic overflow slice.  It is extremely unlikely the overflow will ever be
// hit during normal operation, however, the overflow case is handled so a
// tree restored from damaged records still iterates.
type parentStack struct {
	index    int
	items    [staticDepth]Handle
	overflow []Handle
}

// Len returns the current number of items in the stack.
func (s *parentStack) Len() int {
	return s.index
}

// Pop removes the top item from the stack.  It returns nilHandle if the stack
// is empty.
func (s *parentStack) Pop() Handle {
	if s.index == 0 {
		return nilHandle
	}

	s.index--
	if s.index < staticDepth {
		h := s.items[s.index]
		s.items[s.index] = nilHandle
		return h
	}

	h := s.overflow[s.index-staticDepth]
	s.overflow[s.index-staticDepth] = nilHandle
	return h
}

// Push pushes the passed item onto the top of the stack.
func (s *parentStack) Push(h Handle) {
	if s.index < staticDepth {
		s.items[s.index] = h
		s.index++
		return
	}

	index := s.index - staticDepth
	if index+1 > cap(s.overflow) {
		overflow := make([]Handle, index+1)
		copy(overflow, s.overflow)
		s.overflow = overflow
	}
	s.overflow[index] = h
	s.index++
}
