// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package ranking

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// eventHash returns a bracketed event hash built from a repeated hex byte.
func eventHash(b string) string {
	return "[" + strings.Repeat(b, 32) + "]"
}

// TestParseEvent ensures well-formed lines parse and malformed ones are
// rejected with their line number.
func TestParseEvent(t *testing.T) {
	t.Parallel()

	tests := []struct {
		line    string
		wantNil bool
		wantErr bool
		op      eventOp
		id      string
		score   uint64
		hashed  bool
	}{
		{line: "", wantNil: true},
		{line: "   # exported 2024-05-01", wantNil: true},
		{line: "insert alice 100", op: opInsert, id: "alice", score: 100},
		{line: eventHash("0a") + " insert bob 7", op: opInsert, id: "bob", score: 7, hashed: true},
		{line: eventHash("ff") + "  remove  carol ", op: opRemove, id: "carol", hashed: true},
		{line: "insert alice", wantErr: true},
		{line: "insert alice -3", wantErr: true},
		{line: "insert alice 1 2", wantErr: true},
		{line: "remove", wantErr: true},
		{line: "rename alice bob", wantErr: true},
		{line: "[zz] insert alice 1", wantErr: true},
		{line: "[0a insert alice 1", wantErr: true},
		{line: eventHash("0a"), wantErr: true},
	}

	for i, test := range tests {
		ev, err := parseEvent(i+1, test.line)
		if test.wantErr {
			require.Error(t, err, "line %q", test.line)
			continue
		}
		require.NoError(t, err, "line %q", test.line)
		if test.wantNil {
			require.Nil(t, ev, "line %q", test.line)
			continue
		}
		require.Equal(t, test.op, ev.op, "line %q", test.line)
		require.Equal(t, test.id, ev.identity, "line %q", test.line)
		require.Equal(t, test.score, ev.score, "line %q", test.line)
		require.Equal(t, test.hashed, ev.hash != nil, "line %q", test.line)
		require.Equal(t, i+1, ev.line)
	}
}

// TestImport ensures a stream is replayed in order, duplicated hashed events
// are skipped and unhashed events are always applied.
func TestImport(t *testing.T) {
	t.Parallel()

	stream := strings.Join([]string{
		"# round 1",
		eventHash("01") + " insert alice 100",
		eventHash("02") + " insert bob 200",
		eventHash("03") + " insert carol 100",
		"",
		"# overlapping export",
		eventHash("02") + " insert bob 200",
		eventHash("03") + " insert carol 100",
		eventHash("04") + " remove bob",
		"insert dave 50",
		"insert dave 50",
	}, "\n")

	lb := newTestLeaderboard(t)
	imp := NewImporter(lb, strings.NewReader(stream), &ImportConfig{
		Progress:     time.Millisecond,
		DedupeWindow: 16,
	})

	var result *ImportResult
	select {
	case result = <-imp.Import():
	case <-time.After(10 * time.Second):
		t.Fatal("import did not finish")
	}
	require.NoError(t, result.Err)
	require.Equal(t, int64(8), result.EventsProcessed)
	require.Equal(t, int64(6), result.EventsApplied)
	require.Equal(t, int64(2), result.Duplicates)

	requireOrder(t, lb, []Record{{"dave", 50, 0}, {"carol", 100, 0},
		{"alice", 100, 0}})

	// Alice reached 100 first, so she leads carol.
	rank, err := lb.RankOf("alice")
	require.NoError(t, err)
	require.Equal(t, 0, rank)
}

// TestImportErrors ensures parse and apply failures stop the import and are
// reported.
func TestImportErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		stream string

		// The reader may fail before the applier drained the queue,
		// so only an upper bound holds for applied events.
		maxApplied int64
	}{{
		name:       "malformed line",
		stream:     "insert alice 1\ninsert bob\ninsert carol 3\n",
		maxApplied: 1,
	}, {
		name:       "remove absent",
		stream:     "insert alice 1\nremove bob\ninsert carol 3\n",
		maxApplied: 1,
	}, {
		name:       "reserved score",
		stream:     "insert alice 0\n",
		maxApplied: 0,
	}}

	for _, test := range tests {
		lb := newTestLeaderboard(t)
		imp := NewImporter(lb, strings.NewReader(test.stream), nil)
		result := <-imp.Import()
		require.Error(t, result.Err, test.name)
		require.LessOrEqual(t, result.EventsApplied, test.maxApplied, test.name)
	}
}
