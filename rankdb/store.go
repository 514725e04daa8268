// Copyright (c) 2015-2017 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package rankdb

import (
	"fmt"
	"sync"

	"github.com/pkg/errors"
	"github.com/trifle-labs/kudzu-cup-sub000/database/engine"
	"github.com/trifle-labs/kudzu-cup-sub000/ostree"
	"github.com/trifle-labs/kudzu-cup-sub000/ranking"
)

// Store persists the state of one ranking facade within a namespace of a
// database engine.  It implements ranking.Store.  The engine is owned by the
// caller.
type Store struct {
	mtx       sync.Mutex
	db        engine.Engine
	namespace string

	// prefix starts every key of the store.  It is the namespace preceded
	// by its length.
	prefix []byte

	// tieBreak is learned by Load and written with every commit.
	tieBreak ostree.TieBreak
	loaded   bool
}

// Ensure Store implements ranking.Store.
var _ ranking.Store = (*Store)(nil)

// MaxNamespaceLen is the maximum length of a namespace in bytes.
const MaxNamespaceLen = 255

// New returns a store keeping its records under the given namespace of db.
// Stores with distinct namespaces never observe each other's records.
func New(db engine.Engine, namespace string) (*Store, error) {
	if len(namespace) > MaxNamespaceLen {
		str := fmt.Sprintf("namespace is %d bytes, the maximum is %d",
			len(namespace), MaxNamespaceLen)
		return nil, rankDBError(ErrNamespaceTooLong, str)
	}

	prefix := make([]byte, 0, 1+len(namespace))
	prefix = append(prefix, byte(len(namespace)))
	prefix = append(prefix, namespace...)
	return &Store{db: db, namespace: namespace, prefix: prefix}, nil
}

// key returns the database key of a record of the given kind.
func (s *Store) key(kind byte, suffix []byte) []byte {
	key := make([]byte, 0, len(s.prefix)+1+len(suffix))
	key = append(key, s.prefix...)
	key = append(key, kind)
	return append(key, suffix...)
}

// nodeKey returns the database key of the node addressed by h.
func (s *Store) nodeKey(h ostree.Handle) []byte {
	var suffix [4]byte
	byteOrder.PutUint32(suffix[:], uint32(h))
	return s.key(nodeKind, suffix[:])
}

// Load returns the last committed state.  A namespace that was never
// committed to yields an empty tree with the provided tie-break.
//
// This function is part of the ranking.Store interface.
func (s *Store) Load(tieBreak ostree.TieBreak) (*ranking.State, error) {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	snap, err := s.db.Snapshot()
	if err != nil {
		return nil, errors.Wrap(err, "open snapshot")
	}
	defer snap.Release()

	metaKey := s.key(metaKind, nil)
	exists, err := snap.Has(metaKey)
	if err != nil {
		return nil, errors.Wrap(err, "read metadata")
	}
	if !exists {
		s.tieBreak, s.loaded = tieBreak, true
		log.Debugf("Namespace %q is empty", s.namespace)
		return &ranking.State{Tree: ostree.New(tieBreak)}, nil
	}

	serialized, err := snap.Get(metaKey)
	if err != nil {
		return nil, errors.Wrap(err, "read metadata")
	}
	m, err := deserializeMeta(serialized)
	if err != nil {
		return nil, err
	}
	if m.tieBreak != tieBreak {
		return nil, rankDBError(ErrTieBreakMismatch, fmt.Sprintf(
			"namespace %q holds %v state, requested %v",
			s.namespace, m.tieBreak, tieBreak))
	}

	nodePrefix := s.key(nodeKind, nil)
	nodes := make(map[ostree.Handle]ostree.NodeRecord)
	err = engine.ForEach(snap, engine.BytesPrefix(nodePrefix), func(k, v []byte) error {
		suffix := k[len(nodePrefix):]
		if len(suffix) != 4 {
			return rankDBError(ErrNodeCorrupt, fmt.Sprintf("bad node "+
				"key %x", k))
		}
		h := ostree.Handle(byteOrder.Uint32(suffix))
		rec, err := deserializeNode(v)
		if err != nil {
			return err
		}
		nodes[h] = *rec
		return nil
	})
	if err != nil {
		return nil, err
	}

	tree, err := ostree.Restore(tieBreak, m.root, nodes)
	if err != nil {
		return nil, rankDBError(ErrLoadState, fmt.Sprintf("namespace %q: %v",
			s.namespace, err))
	}

	state := &ranking.State{Tree: tree, LastSeq: m.lastSeq}
	idPrefix := s.key(identityKind, nil)
	err = engine.ForEach(snap, engine.BytesPrefix(idPrefix), func(k, v []byte) error {
		rec, err := deserializeIdentity(string(k[len(idPrefix):]), v)
		if err != nil {
			return err
		}
		state.Records = append(state.Records, *rec)
		return nil
	})
	if err != nil {
		return nil, err
	}
	if err := matchRecords(tree, state.Records); err != nil {
		return nil, rankDBError(ErrLoadState, fmt.Sprintf("namespace %q: %v",
			s.namespace, err))
	}

	s.tieBreak, s.loaded = tieBreak, true
	log.Infof("Loaded namespace %q: %d entries in %d nodes, %d identities",
		s.namespace, tree.Len(), len(nodes), len(state.Records))
	return state, nil
}

// matchRecords returns an error unless records is empty or holds exactly one
// record per tree entry at the score and sequence number of that entry.
func matchRecords(tree *ostree.Tree, records []ranking.Record) error {
	if len(records) == 0 {
		return nil
	}
	if len(records) != tree.Len() {
		return fmt.Errorf("%d identities for %d tree entries",
			len(records), tree.Len())
	}

	byID := make(map[string]ranking.Record, len(records))
	for _, rec := range records {
		byID[rec.Identity] = rec
	}
	var err error
	tree.ForEach(func(score uint64, e ostree.Entry) bool {
		rec, ok := byID[e.Key]
		if !ok || rec.Score != score || rec.Seq != e.Seq {
			err = fmt.Errorf("entry %q at (%d, %d) has no matching "+
				"identity", e.Key, score, e.Seq)
		}
		return err == nil
	})
	return err
}

// Commit writes the batch within a single engine transaction.
//
// This function is part of the ranking.Store interface.
func (s *Store) Commit(b *ranking.Batch) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	if !s.loaded {
		return errors.Errorf("commit to namespace %q before load",
			s.namespace)
	}

	tx, err := s.db.Transaction()
	if err != nil {
		return errors.Wrap(err, "open transaction")
	}
	defer tx.Discard()

	m := &meta{
		version:  currentVersion,
		tieBreak: s.tieBreak,
		root:     b.Changes.Root,
		lastSeq:  b.LastSeq,
	}
	if err := tx.Put(s.key(metaKind, nil), serializeMeta(m)); err != nil {
		return errors.Wrap(err, "write metadata")
	}
	for h, rec := range b.Changes.Updated {
		rec := rec
		if err := tx.Put(s.nodeKey(h), serializeNode(&rec)); err != nil {
			return errors.Wrapf(err, "write node %d", h)
		}
	}
	for _, h := range b.Changes.Freed {
		if err := tx.Delete(s.nodeKey(h)); err != nil {
			return errors.Wrapf(err, "delete node %d", h)
		}
	}
	for i := range b.Put {
		rec := &b.Put[i]
		key := s.key(identityKind, []byte(rec.Identity))
		if err := tx.Put(key, serializeIdentity(rec)); err != nil {
			return errors.Wrapf(err, "write identity %q", rec.Identity)
		}
	}
	for _, id := range b.Deleted {
		if err := tx.Delete(s.key(identityKind, []byte(id))); err != nil {
			return errors.Wrapf(err, "delete identity %q", id)
		}
	}

	if err := tx.Commit(); err != nil {
		return errors.Wrap(err, "commit transaction")
	}
	log.Tracef("Committed %d nodes, %d freed, %d identities to %q",
		len(b.Changes.Updated), len(b.Changes.Freed),
		len(b.Put)+len(b.Deleted), s.namespace)
	return nil
}
