// Copyright (c) 2015-2016 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package rankdb

import (
	"testing"

	"github.com/davecgh/go-spew/spew"
	"github.com/stretchr/testify/require"
	"github.com/trifle-labs/kudzu-cup-sub000/ostree"
	"github.com/trifle-labs/kudzu-cup-sub000/ranking"
)

// isDBErrorCode returns whether err is a DBError with the given code.
func isDBErrorCode(err error, code ErrorCode) bool {
	dbErr, ok := err.(DBError)
	return ok && dbErr.ErrorCode == code
}

// TestMetaSerialization ensures the metadata layout and that malformed
// metadata is rejected.
func TestMetaSerialization(t *testing.T) {
	t.Parallel()

	m := &meta{
		version:  currentVersion,
		tieBreak: ostree.NewestFirst,
		root:     0x01020304,
		lastSeq:  0x1122334455667788,
	}
	serialized := serializeMeta(m)
	require.Equal(t, []byte{
		0x01, 0x01, 0x01, 0x02, 0x03, 0x04,
		0x11, 0x22, 0x33, 0x44, 0x55, 0x66, 0x77, 0x88,
	}, serialized)
	got, err := deserializeMeta(serialized)
	require.NoError(t, err)
	require.Equal(t, m, got)

	_, err = deserializeMeta(serialized[:metaSize-1])
	require.True(t, isDBErrorCode(err, ErrMetaShortRead), "%v", err)

	serialized[0] = 9
	_, err = deserializeMeta(serialized)
	require.True(t, isDBErrorCode(err, ErrMetaVersion), "%v", err)
}

// TestNodeSerialization ensures node records survive serialization and that
// truncated or padded nodes are rejected.
func TestNodeSerialization(t *testing.T) {
	t.Parallel()

	rec := &ostree.NodeRecord{
		Score: 100,
		Black: true,
		Left:  3,
		Right: 7,
		Count: 12,
		Entries: []ostree.Entry{
			{Key: "alice", Seq: 4},
			{Key: "", Seq: 9},
			{Key: "bob", Seq: 11},
		},
	}
	serialized := serializeNode(rec)
	require.Len(t, serialized, nodeHeadSize+3*entryHeadSize+len("alicebob"))
	got, err := deserializeNode(serialized)
	require.NoError(t, err)
	if !assertNodeEqual(rec, got) {
		t.Fatalf("mismatched node: got %s want %s", spew.Sdump(got),
			spew.Sdump(rec))
	}

	tests := []struct {
		name       string
		serialized []byte
		code       ErrorCode
	}{{
		name:       "short head",
		serialized: serialized[:nodeHeadSize-1],
		code:       ErrNodeShortRead,
	}, {
		name:       "truncated entry",
		serialized: serialized[:len(serialized)-1],
		code:       ErrNodeShortRead,
	}, {
		name:       "trailing bytes",
		serialized: append(append([]byte{}, serialized...), 0),
		code:       ErrNodeCorrupt,
	}, {
		name: "bad color",
		serialized: func() []byte {
			b := append([]byte{}, serialized...)
			b[8] = 2
			return b
		}(),
		code: ErrNodeCorrupt,
	}, {
		name: "huge entry count",
		serialized: func() []byte {
			b := append([]byte{}, serialized...)
			byteOrder.PutUint32(b[21:25], 0xffffffff)
			return b
		}(),
		code: ErrNodeShortRead,
	}}
	for _, test := range tests {
		_, err := deserializeNode(test.serialized)
		require.True(t, isDBErrorCode(err, test.code), "%s: %v", test.name,
			err)
	}
}

// assertNodeEqual returns whether two node records hold the same fields.
func assertNodeEqual(a, b *ostree.NodeRecord) bool {
	if a.Score != b.Score || a.Black != b.Black || a.Left != b.Left ||
		a.Right != b.Right || a.Count != b.Count ||
		len(a.Entries) != len(b.Entries) {

		return false
	}
	for i := range a.Entries {
		if a.Entries[i] != b.Entries[i] {
			return false
		}
	}
	return true
}

// TestIdentitySerialization ensures identity records survive serialization.
func TestIdentitySerialization(t *testing.T) {
	t.Parallel()

	rec := &ranking.Record{Identity: "carol", Score: 42, Seq: 7}
	got, err := deserializeIdentity("carol", serializeIdentity(rec))
	require.NoError(t, err)
	require.Equal(t, rec, got)

	_, err = deserializeIdentity("carol", []byte{1, 2, 3})
	require.True(t, isDBErrorCode(err, ErrRecordShortRead), "%v", err)
}
