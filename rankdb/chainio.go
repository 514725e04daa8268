// Copyright (c) 2015-2016 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package rankdb

import (
	"encoding/binary"
	"fmt"

	"github.com/trifle-labs/kudzu-cup-sub000/ostree"
	"github.com/trifle-labs/kudzu-cup-sub000/ranking"
)

const (
	// currentVersion is the serialization version written to the store
	// metadata.
	currentVersion = 1
)

// Database structure -------------------------------------------------------------
//
// Every key of a store starts with the length of its namespace (1), the
// namespace itself and a single byte naming the record kind, so several
// facades may share one engine.
//
// 1. Metadata
//
//     k: <ns length><namespace>m
//     v: version (1) | tie-break (1) | root handle (4) | last sequence (8)
//
// 2. Nodes
//
//     k: <ns length><namespace>n<handle (4)>
//     v: score (8) | black (1) | left (4) | right (4) | count (4) |
//        entry count (4) | entries
//
//     entry: sequence (8) | key length (4) | key
//
// 3. Identities
//
//     k: <ns length><namespace>i<identity>
//     v: score (8) | sequence (8)
//
// All integers are big endian.

var (
	// byteOrder is the preferred byte order used for serializing numeric
	// fields for storage in the database.
	byteOrder = binary.BigEndian

	metaKind     = byte('m')
	nodeKind     = byte('n')
	identityKind = byte('i')
)

const (
	metaSize      = 1 + 1 + 4 + 8
	nodeHeadSize  = 8 + 1 + 4 + 4 + 4 + 4
	entryHeadSize = 8 + 4
	identitySize  = 8 + 8
)

// meta is the deserialized store metadata.
type meta struct {
	version  uint8
	tieBreak ostree.TieBreak
	root     ostree.Handle
	lastSeq  uint64
}

// serializeMeta returns the serialization of the passed metadata.
func serializeMeta(m *meta) []byte {
	serialized := make([]byte, metaSize)
	serialized[0] = m.version
	serialized[1] = uint8(m.tieBreak)
	byteOrder.PutUint32(serialized[2:6], uint32(m.root))
	byteOrder.PutUint64(serialized[6:14], m.lastSeq)
	return serialized
}

// deserializeMeta deserializes the passed serialized store metadata.
func deserializeMeta(serialized []byte) (*meta, error) {
	if len(serialized) != metaSize {
		return nil, rankDBError(ErrMetaShortRead, fmt.Sprintf("wrong "+
			"size for serialized metadata: got %d, want %d",
			len(serialized), metaSize))
	}
	m := &meta{
		version:  serialized[0],
		tieBreak: ostree.TieBreak(serialized[1]),
		root:     ostree.Handle(byteOrder.Uint32(serialized[2:6])),
		lastSeq:  byteOrder.Uint64(serialized[6:14]),
	}
	if m.version != currentVersion {
		return nil, rankDBError(ErrMetaVersion, fmt.Sprintf("unknown "+
			"store version %d", m.version))
	}
	return m, nil
}

// serializeNode returns the serialization of the passed node record.
func serializeNode(rec *ostree.NodeRecord) []byte {
	size := nodeHeadSize
	for _, e := range rec.Entries {
		size += entryHeadSize + len(e.Key)
	}

	serialized := make([]byte, size)
	byteOrder.PutUint64(serialized[0:8], rec.Score)
	if rec.Black {
		serialized[8] = 1
	}
	byteOrder.PutUint32(serialized[9:13], uint32(rec.Left))
	byteOrder.PutUint32(serialized[13:17], uint32(rec.Right))
	byteOrder.PutUint32(serialized[17:21], uint32(rec.Count))
	byteOrder.PutUint32(serialized[21:25], uint32(len(rec.Entries)))
	offset := nodeHeadSize
	for _, e := range rec.Entries {
		byteOrder.PutUint64(serialized[offset:offset+8], e.Seq)
		offset += 8
		byteOrder.PutUint32(serialized[offset:offset+4], uint32(len(e.Key)))
		offset += 4
		copy(serialized[offset:], e.Key)
		offset += len(e.Key)
	}
	return serialized
}

// deserializeNode deserializes the passed serialized node record.
func deserializeNode(serialized []byte) (*ostree.NodeRecord, error) {
	if len(serialized) < nodeHeadSize {
		return nil, rankDBError(ErrNodeShortRead, fmt.Sprintf("short "+
			"read of serialized node (got %d, min %d)",
			len(serialized), nodeHeadSize))
	}

	rec := &ostree.NodeRecord{
		Score: byteOrder.Uint64(serialized[0:8]),
		Left:  ostree.Handle(byteOrder.Uint32(serialized[9:13])),
		Right: ostree.Handle(byteOrder.Uint32(serialized[13:17])),
		Count: int(byteOrder.Uint32(serialized[17:21])),
	}
	switch serialized[8] {
	case 0:
	case 1:
		rec.Black = true
	default:
		return nil, rankDBError(ErrNodeCorrupt, fmt.Sprintf("bad color "+
			"flag %d", serialized[8]))
	}

	numEntries := int(byteOrder.Uint32(serialized[21:25]))
	offset := nodeHeadSize
	if numEntries > (len(serialized)-offset)/entryHeadSize {
		return nil, rankDBError(ErrNodeShortRead, fmt.Sprintf("node "+
			"claims %d entries in %d bytes", numEntries,
			len(serialized)-offset))
	}
	rec.Entries = make([]ostree.Entry, 0, numEntries)
	for i := 0; i < numEntries; i++ {
		if len(serialized)-offset < entryHeadSize {
			return nil, rankDBError(ErrNodeShortRead, fmt.Sprintf(
				"short read of entry %d", i))
		}
		seq := byteOrder.Uint64(serialized[offset : offset+8])
		offset += 8
		keyLen := int(byteOrder.Uint32(serialized[offset : offset+4]))
		offset += 4
		if keyLen > len(serialized)-offset {
			return nil, rankDBError(ErrNodeShortRead, fmt.Sprintf(
				"short read of key for entry %d", i))
		}
		key := string(serialized[offset : offset+keyLen])
		offset += keyLen
		rec.Entries = append(rec.Entries, ostree.Entry{Key: key, Seq: seq})
	}
	if offset != len(serialized) {
		return nil, rankDBError(ErrNodeCorrupt, fmt.Sprintf("%d trailing "+
			"bytes after node entries", len(serialized)-offset))
	}
	return rec, nil
}

// serializeIdentity returns the serialization of the score and sequence
// number of an identity record.
func serializeIdentity(rec *ranking.Record) []byte {
	serialized := make([]byte, identitySize)
	byteOrder.PutUint64(serialized[0:8], rec.Score)
	byteOrder.PutUint64(serialized[8:16], rec.Seq)
	return serialized
}

// deserializeIdentity deserializes the passed serialized identity record.
func deserializeIdentity(identity string, serialized []byte) (*ranking.Record, error) {
	if len(serialized) != identitySize {
		return nil, rankDBError(ErrRecordShortRead, fmt.Sprintf("wrong "+
			"size for identity %q: got %d, want %d", identity,
			len(serialized), identitySize))
	}
	return &ranking.Record{
		Identity: identity,
		Score:    byteOrder.Uint64(serialized[0:8]),
		Seq:      byteOrder.Uint64(serialized[8:16]),
	}, nil
}
