// Copyright (c) 2015-2016 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/trifle-labs/kudzu-cup-sub000/database/engine"
	"github.com/trifle-labs/kudzu-cup-sub000/rankdb"
)

// newTestSession opens a session of the given mode over an in-memory
// database.
func newTestSession(t *testing.T, mode string) (*session, engine.Engine) {
	t.Helper()

	db, err := rankdb.OpenEngine(rankdb.EngineMemory, "", 0, 0)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	cfg := &config{Mode: mode, Namespace: "test", Dedupe: 16}
	s, err := newSession(cfg, db)
	require.NoError(t, err)
	return s, db
}

// run runs a command line and returns its output.
func run(t *testing.T, s *session, line string) (string, error) {
	t.Helper()

	var buf bytes.Buffer
	err := runCommand(s, &buf, strings.Fields(line))
	return buf.String(), err
}

// mustRun runs a command line that must succeed and ensures its output.
func mustRun(t *testing.T, s *session, line, want string) {
	t.Helper()

	got, err := run(t, s, line)
	require.NoError(t, err, line)
	require.Equal(t, want, got, line)
}

// TestLeaderboardCommands walks a leaderboard through the command set.
func TestLeaderboardCommands(t *testing.T) {
	t.Parallel()

	s, db := newTestSession(t, modeLeaderboard)
	mustRun(t, s, "insert 100 alice", "1\n")
	mustRun(t, s, "insertbatch bob 100 carol 300 dave 50", "bob 2\ncarol 3\ndave 4\n")
	mustRun(t, s, "count", "4\n")
	mustRun(t, s, "score carol", "300\n")
	mustRun(t, s, "seq bob", "2\n")

	// Ascending index puts newer ties first, rank mirrors it.
	mustRun(t, s, "atindex 1", "bob 100\n")
	mustRun(t, s, "index alice", "2\n")
	mustRun(t, s, "rank alice", "1\n")
	mustRun(t, s, "at 0", "carol\n")
	mustRun(t, s, "top 3", "0 carol 300\n1 alice 100\n2 bob 100\n")
	mustRun(t, s, "first", "50\n")
	mustRun(t, s, "last", "300\n")
	mustRun(t, s, "next 100", "300\n")
	mustRun(t, s, "prev 50", "0\n")
	mustRun(t, s, "percentile 100", "50\n")

	mustRun(t, s, "reward dave 60 erin 5", "dave 110\nerin 5\n")
	mustRun(t, s, "punish carol 299", "carol 1\n")
	_, err := run(t, s, "punish carol 1")
	require.Error(t, err)
	mustRun(t, s, "top 2", "0 dave 110\n1 alice 100\n")

	mustRun(t, s, "remove bob", "")
	_, err = run(t, s, "score bob")
	require.Error(t, err)
	mustRun(t, s, "verify", "ok 4\n")

	// A new session over the same database observes every commit.
	reopened, err := newSession(s.cfg, db)
	require.NoError(t, err)
	mustRun(t, reopened, "top 10", "0 dave 110\n1 alice 100\n2 erin 5\n3 carol 1\n")
	mustRun(t, reopened, "insert 7 frank", "8\n")
}

// TestCommandArguments ensures malformed invocations are rejected before they
// reach the structure.
func TestCommandArguments(t *testing.T) {
	t.Parallel()

	s, _ := newTestSession(t, modeLeaderboard)
	for _, line := range []string{
		"bogus",
		"insert 100",
		"insert 100 a b",
		"insert -1 a",
		"insert x a",
		"insert 0 a",
		"insertbatch a 1 b",
		"reward a",
		"reward a 0",
		"reward a -5",
		"punish a x",
		"at x",
		"top 1 2",
		"count extra",
		"keys 10",
	} {
		_, err := run(t, s, line)
		require.Error(t, err, line)
	}
	mustRun(t, s, "count", "0\n")
}

// TestImportCommand ensures a stream file is replayed and reported.
func TestImportCommand(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "events.txt")
	hash := "[" + strings.Repeat("ab", 32) + "]"
	stream := "insert alice 10\n" + hash + " insert bob 20\n" + hash +
		" insert bob 20\nremove alice\n"
	require.NoError(t, os.WriteFile(path, []byte(stream), 0600))

	s, _ := newTestSession(t, modeLeaderboard)
	mustRun(t, s, "import "+path, "4 3 1\n")
	mustRun(t, s, "top", "0 bob 20\n")

	_, err := run(t, s, "import "+filepath.Join(t.TempDir(), "missing"))
	require.Error(t, err)
}

// TestLedgerCommands walks a ledger through the command set.
func TestLedgerCommands(t *testing.T) {
	t.Parallel()

	s, _ := newTestSession(t, modeLedger)
	for _, line := range []string{"insert 10 a", "insert 10 b",
		"insert 20 a", "insert 30 c", "insert 40 d"} {

		_, err := run(t, s, line)
		require.NoError(t, err, line)
	}
	_, err := run(t, s, "insert 10 a")
	require.Error(t, err)

	mustRun(t, s, "keys 10", "a b\n")
	mustRun(t, s, "keys 15", "\n")
	mustRun(t, s, "exists 20", "true\n")
	mustRun(t, s, "exists 20 b", "false\n")
	mustRun(t, s, "count", "5\n")
	mustRun(t, s, "index 10 b", "1\n")
	mustRun(t, s, "atindex 2", "a 20\n")
	mustRun(t, s, "below 20", "2\n")
	mustRun(t, s, "above 20", "2\n")
	mustRun(t, s, "first", "10\n")
	mustRun(t, s, "last", "40\n")
	mustRun(t, s, "next 20", "30\n")
	mustRun(t, s, "prev 10", "0\n")

	// 20 sits at position 3 of 5.
	mustRun(t, s, "percentile 20", "60\n")
	mustRun(t, s, "permil 20", "600\n")
	mustRun(t, s, "median", "20\n")
	mustRun(t, s, "atpercentile 100", "40\n")
	mustRun(t, s, "atpermil 0", "10\n")
	_, err = run(t, s, "atpercentile 101")
	require.Error(t, err)

	mustRun(t, s, "popmin", "10 a b\n")
	mustRun(t, s, "popmax", "40 d\n")
	mustRun(t, s, "remove 20 a", "")
	mustRun(t, s, "verify", "ok 1\n")

	_, err = run(t, s, "top")
	require.Error(t, err)
}

// TestListCommands ensures every command of both modes is listed.
func TestListCommands(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	listCommands(&buf)
	out := buf.String()
	for _, mode := range []string{modeLeaderboard, modeLedger} {
		for _, cmd := range commandsFor(mode) {
			require.Contains(t, out, cmd.usage)
		}
	}
}

// TestSessionNamespaces ensures sessions over one database stay isolated when
// one namespace extends another.
func TestSessionNamespaces(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		first string
		other string
	}{
		{name: "identity kind", first: "a", other: "ai"},
		{name: "separator", first: "a", other: "a/i"},
		{name: "nested", first: "season", other: "season/2"},
	}

	for _, test := range tests {
		test := test
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()

			db, err := rankdb.OpenEngine(rankdb.EngineMemory, "", 0, 0)
			require.NoError(t, err)
			defer db.Close()

			open := func(namespace string) *session {
				cfg := &config{Mode: modeLeaderboard,
					Namespace: namespace, Dedupe: 16}
				s, err := newSession(cfg, db)
				require.NoError(t, err, namespace)
				return s
			}

			first := open(test.first)
			mustRun(t, first, "insert 5 X", "1\n")
			mustRun(t, first, "insert 6 /m", "2\n")
			other := open(test.other)
			mustRun(t, other, "insert 9 Y", "1\n")

			mustRun(t, open(test.first), "count", "2\n")
			mustRun(t, open(test.other), "count", "1\n")
			mustRun(t, open(test.other), "score Y", "9\n")
		})
	}
}
