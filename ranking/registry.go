// Copyright (c) 2016-2017 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package ranking

import (
	"fmt"

	"github.com/trifle-labs/kudzu-cup-sub000/ostree"
)

// Record is the registry entry of a live identity: the score it currently
// holds and the sequence number of the entry it holds it with.
type Record struct {
	Identity string
	Score    uint64
	Seq      uint64
}

// Registry maps every live identity to its record.  An identity is live
// exactly when the registry holds a record for it.
//
// The registry is not safe for concurrent access.  The owning facade guards
// it together with the tree.
type Registry struct {
	records map[string]Record
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{records: make(map[string]Record)}
}

// Lookup returns the record of identity and whether it is live.
func (r *Registry) Lookup(identity string) (Record, bool) {
	rec, ok := r.records[identity]
	return rec, ok
}

// Len returns the number of live identities.
func (r *Registry) Len() int {
	return len(r.records)
}

// ForEach calls fn with every record in unspecified order.  Iteration stops
// early when fn returns false.
func (r *Registry) ForEach(fn func(rec Record) bool) {
	for _, rec := range r.records {
		if !fn(rec) {
			return
		}
	}
}

func (r *Registry) put(rec Record) {
	r.records[rec.Identity] = rec
}

func (r *Registry) remove(identity string) {
	delete(r.records, identity)
}

// verifyRegistry checks that reg and tree describe the same set of identities:
// every entry of the tree is registered at its score and sequence number and
// the registry holds nothing else.
func verifyRegistry(tree *ostree.Tree, reg *Registry) error {
	if reg.Len() != tree.Len() {
		return fmt.Errorf("registry holds %d identities but the tree "+
			"holds %d entries", reg.Len(), tree.Len())
	}

	var err error
	tree.ForEach(func(score uint64, e ostree.Entry) bool {
		rec, ok := reg.Lookup(e.Key)
		switch {
		case !ok:
			err = fmt.Errorf("identity %q at score %d is not "+
				"registered", e.Key, score)
		case rec.Score != score || rec.Seq != e.Seq:
			err = fmt.Errorf("identity %q registered at (%d, %d) "+
				"but stored at (%d, %d)", e.Key, rec.Score,
				rec.Seq, score, e.Seq)
		}
		return err == nil
	})
	return err
}
