// Copyright (c) 2015-2017 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package ranking

import (
	"github.com/pkg/errors"
	"github.com/trifle-labs/kudzu-cup-sub000/ostree"
)

// Batch is the durable effect of one facade mutation.
type Batch struct {
	// Changes holds the tree nodes written and released by the mutation.
	Changes ostree.ChangeSet

	// LastSeq is the highest sequence number minted so far.
	LastSeq uint64

	// Put and Deleted hold the identity records created or updated and the
	// identities removed.  Both are empty for a ledger.
	Put     []Record
	Deleted []string
}

// State is the persisted state of a facade as returned by Store.Load.
type State struct {
	Tree    *ostree.Tree
	Records []Record
	LastSeq uint64
}

// Store persists facade state.  The rankdb package provides an
// implementation over the database engines.
type Store interface {
	// Load returns the last committed state.  A store that was never
	// committed to returns an empty tree with the provided tie-break.
	Load(tieBreak ostree.TieBreak) (*State, error)

	// Commit durably applies the batch or nothing of it.
	Commit(b *Batch) error
}

// Config is a descriptor which specifies the facade instance configuration.
type Config struct {
	// Sequencer mints the sequence numbers of new entries.  Facades that
	// must agree on one order share a sequencer.  A private sequencer is
	// created when nil.
	Sequencer *Sequencer

	// Store persists every mutation when set.  The facade loads its
	// initial state from the store.
	Store Store
}

// book is the state shared by both facades: the tree, the optional identity
// registry and the persistence bookkeeping.
type book struct {
	tree  *ostree.Tree
	reg   *Registry // nil for ledgers
	seq   *Sequencer
	store Store

	// touched holds the identities modified since the last commit.
	touched map[string]struct{}
}

// newBook builds a book from the configuration, loading persisted state when
// a store is configured.
func newBook(cfg *Config, tieBreak ostree.TieBreak, withRegistry bool) (*book, error) {
	b := &book{
		tree:    ostree.New(tieBreak),
		touched: make(map[string]struct{}),
	}
	if withRegistry {
		b.reg = NewRegistry()
	}
	if cfg != nil {
		b.seq = cfg.Sequencer
		b.store = cfg.Store
	}
	if b.seq == nil {
		b.seq = NewSequencer(0)
	}

	if b.store != nil {
		if err := b.load(); err != nil {
			return nil, err
		}
	}
	return b, nil
}

// load replaces the in-memory state with the last committed state.
func (b *book) load() error {
	state, err := b.store.Load(b.tree.TieBreak())
	if err != nil {
		return errors.Wrap(err, "load ranking state")
	}
	if state.Tree.TieBreak() != b.tree.TieBreak() {
		return errors.Errorf("stored tie-break %v does not match %v",
			state.Tree.TieBreak(), b.tree.TieBreak())
	}

	var reg *Registry
	if b.reg != nil {
		reg = NewRegistry()
		for _, rec := range state.Records {
			reg.put(rec)
		}
		if err := verifyRegistry(state.Tree, reg); err != nil {
			return errors.Wrap(err, "stored identities do not match "+
				"the stored tree")
		}
	} else if len(state.Records) != 0 {
		return errors.Errorf("ledger state holds %d identity records",
			len(state.Records))
	}

	b.tree = state.Tree
	b.tree.TrackChanges()
	b.reg = reg
	b.seq.Advance(state.LastSeq)
	for id := range b.touched {
		delete(b.touched, id)
	}

	log.Debugf("Loaded %d entries (last sequence %d)", b.tree.Len(),
		state.LastSeq)
	return nil
}

// touch records identity as modified by the current mutation.
func (b *book) touch(identity string) {
	if b.store != nil && b.reg != nil {
		b.touched[identity] = struct{}{}
	}
}

// commit persists the changes made since the previous commit.  When the store
// rejects them, the last committed state is reloaded so the mutation unwinds.
func (b *book) commit() error {
	if b.store == nil {
		return nil
	}

	batch := &Batch{
		Changes: b.tree.Changes(),
		LastSeq: b.seq.Last(),
	}
	for id := range b.touched {
		if rec, ok := b.reg.Lookup(id); ok {
			batch.Put = append(batch.Put, rec)
		} else {
			batch.Deleted = append(batch.Deleted, id)
		}
		delete(b.touched, id)
	}

	err := b.store.Commit(batch)
	if err == nil {
		return nil
	}

	log.Warnf("Commit failed, reloading committed state: %v", err)
	if lerr := b.load(); lerr != nil {
		return errors.Wrapf(err, "commit failed and reload failed (%v)",
			lerr)
	}
	return errors.Wrap(err, "commit")
}
