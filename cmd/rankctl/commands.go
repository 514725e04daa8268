// Copyright (c) 2015-2016 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"

	"github.com/pkg/errors"
	"github.com/trifle-labs/kudzu-cup-sub000/internal/log"
	"github.com/trifle-labs/kudzu-cup-sub000/ranking"
)

const (
	// defaultTopCount is the number of standings shown by top when no count
	// is given.
	defaultTopCount = 10
)

// session holds the structure the commands of one invocation operate on.
// Exactly one of lb and ledger is set, depending on the mode.
type session struct {
	cfg    *config
	lb     *ranking.Leaderboard
	ledger *ranking.Ledger
}

// command describes a single rankctl command.  maxArgs is -1 when the command
// takes any number of arguments.
type command struct {
	usage   string
	help    string
	minArgs int
	maxArgs int
	handler func(s *session, w io.Writer, args []string) error
}

// leaderboardCommands are the commands available with --mode=leaderboard.
var leaderboardCommands = map[string]*command{
	"insert":      {"insert <score> <identity>", "Place identity at score, replacing its previous score", 2, 2, lbInsert},
	"insertbatch": {"insertbatch <identity> <score> [<identity> <score>...]", "Place several identities in one commit", 2, -1, lbInsertBatch},
	"remove":      {"remove <identity>", "Remove identity", 1, 1, lbRemove},
	"score":       {"score <identity>", "Show the score of identity", 1, 1, lbScore},
	"seq":         {"seq <identity>", "Show the sequence number of identity", 1, 1, lbSeq},
	"count":       {"count", "Show the number of identities", 0, 0, lbCount},
	"index":       {"index <identity>", "Show the ascending index of identity", 1, 1, lbIndex},
	"rank":        {"rank <identity>", "Show the rank of identity, 0 being the best", 1, 1, lbRank},
	"at":          {"at <rank>", "Show the identity holding rank", 1, 1, lbAt},
	"atindex":     {"atindex <index>", "Show the identity and score at index", 1, 1, lbAtIndex},
	"top":         {"top [count]", "Show the best standings", 0, 1, lbTop},
	"first":       {"first", "Show the lowest score", 0, 0, lbFirst},
	"last":        {"last", "Show the highest score", 0, 0, lbLast},
	"next":        {"next <score>", "Show the next higher score, 0 when none", 1, 1, lbNext},
	"prev":        {"prev <score>", "Show the next lower score, 0 when none", 1, 1, lbPrev},
	"percentile":  {"percentile <score>", "Show the percentile of score", 1, 1, lbPercentile},
	"reward":      {"reward <identity> <amount> [<identity> <amount>...]", "Raise the scores of identities in one commit", 2, -1, lbReward},
	"punish":      {"punish <identity> <amount> [<identity> <amount>...]", "Lower the scores of identities in one commit", 2, -1, lbPunish},
	"import":      {"import <file>", "Replay an event stream, - reads standard input", 1, 1, lbImport},
	"verify":      {"verify", "Check every structural invariant", 0, 0, lbVerify},
}

// ledgerCommands are the commands available with --mode=ledger.
var ledgerCommands = map[string]*command{
	"insert":       {"insert <score> <key>", "Add key at score", 2, 2, lgInsert},
	"remove":       {"remove <score> <key>", "Remove key from score", 2, 2, lgRemove},
	"keys":         {"keys <score>", "Show the keys at score in arrival order", 1, 1, lgKeys},
	"exists":       {"exists <score> [key]", "Show whether score, or key at score, exists", 1, 2, lgExists},
	"count":        {"count", "Show the number of entries", 0, 0, lgCount},
	"index":        {"index <score> <key>", "Show the ascending index of key at score", 2, 2, lgIndex},
	"atindex":      {"atindex <index>", "Show the key and score at index", 1, 1, lgAtIndex},
	"below":        {"below <score>", "Show the number of entries below score", 1, 1, lgBelow},
	"above":        {"above <score>", "Show the number of entries above score", 1, 1, lgAbove},
	"first":        {"first", "Show the lowest score", 0, 0, lgFirst},
	"last":         {"last", "Show the highest score", 0, 0, lgLast},
	"next":         {"next <score>", "Show the next higher score, 0 when none", 1, 1, lgNext},
	"prev":         {"prev <score>", "Show the next lower score, 0 when none", 1, 1, lgPrev},
	"percentile":   {"percentile <score>", "Show the percentile of score", 1, 1, lgPercentile},
	"permil":       {"permil <score>", "Show the permil of score", 1, 1, lgPermil},
	"atpercentile": {"atpercentile <percentile>", "Show the score at percentile", 1, 1, lgAtPercentile},
	"atpermil":     {"atpermil <permil>", "Show the score at permil", 1, 1, lgAtPermil},
	"median":       {"median", "Show the median score", 0, 0, lgMedian},
	"popmin":       {"popmin", "Remove the lowest score and show its keys", 0, 0, lgPopMin},
	"popmax":       {"popmax", "Remove the highest score and show its keys", 0, 0, lgPopMax},
	"verify":       {"verify", "Check every structural invariant", 0, 0, lgVerify},
}

// listCommands lists the commands of both modes along with their one-line
// usage.
func listCommands(w io.Writer) {
	for _, mode := range []string{modeLeaderboard, modeLedger} {
		fmt.Fprintf(w, "%s commands (--mode=%s):\n", mode, mode)
		cmds := commandsFor(mode)
		for _, name := range sortedNames(cmds) {
			fmt.Fprintf(w, "  %-55s %s\n", cmds[name].usage,
				cmds[name].help)
		}
		fmt.Fprintln(w)
	}
}

// sortedNames returns the names of cmds in lexicographical order.
func sortedNames(cmds map[string]*command) []string {
	names := make([]string, 0, len(cmds))
	for name := range cmds {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// commandsFor returns the command table of mode.
func commandsFor(mode string) map[string]*command {
	if mode == modeLedger {
		return ledgerCommands
	}
	return leaderboardCommands
}

// runCommand validates the arguments of the named command and runs it.
func runCommand(s *session, w io.Writer, args []string) error {
	name, args := args[0], args[1:]
	cmd, ok := commandsFor(s.cfg.Mode)[name]
	if !ok {
		return fmt.Errorf("unrecognized %s command '%s'", s.cfg.Mode, name)
	}
	if len(args) < cmd.minArgs || (cmd.maxArgs >= 0 && len(args) > cmd.maxArgs) {
		return fmt.Errorf("usage: %s", cmd.usage)
	}

	log.RctlLog.Debugf("Running %s %v", name, args)
	return cmd.handler(s, w, args)
}

// parseScore parses a score argument.
func parseScore(arg string) (uint64, error) {
	score, err := strconv.ParseUint(arg, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid score %q", arg)
	}
	return score, nil
}

// parseInt parses an index, rank, count or percentile argument.
func parseInt(arg string) (int, error) {
	v, err := strconv.Atoi(arg)
	if err != nil {
		return 0, fmt.Errorf("invalid number %q", arg)
	}
	return v, nil
}

// parsePairs splits alternating identity and value arguments.
func parsePairs(args []string) ([]string, []string, error) {
	if len(args)%2 != 0 {
		return nil, nil, errors.New("arguments must come in pairs")
	}
	ids := make([]string, 0, len(args)/2)
	values := make([]string, 0, len(args)/2)
	for i := 0; i < len(args); i += 2 {
		ids = append(ids, args[i])
		values = append(values, args[i+1])
	}
	return ids, values, nil
}

// parseAdjustments parses identity and amount pairs into score deltas.
// Amounts must be positive and are negated when punishing.
func parseAdjustments(args []string, punish bool) ([]string, []int64, error) {
	ids, values, err := parsePairs(args)
	if err != nil {
		return nil, nil, err
	}
	deltas := make([]int64, len(values))
	for i, value := range values {
		amount, err := strconv.ParseInt(value, 10, 64)
		if err != nil || amount <= 0 {
			return nil, nil, fmt.Errorf("invalid amount %q", value)
		}
		if punish {
			amount = -amount
		}
		deltas[i] = amount
	}
	return ids, deltas, nil
}

func lbInsert(s *session, w io.Writer, args []string) error {
	score, err := parseScore(args[0])
	if err != nil {
		return err
	}
	seq, err := s.lb.Insert(score, args[1])
	if err != nil {
		return err
	}
	fmt.Fprintln(w, seq)
	return nil
}

func lbInsertBatch(s *session, w io.Writer, args []string) error {
	ids, values, err := parsePairs(args)
	if err != nil {
		return err
	}
	scores := make([]uint64, len(values))
	for i, value := range values {
		if scores[i], err = parseScore(value); err != nil {
			return err
		}
	}
	seqs, err := s.lb.InsertBatch(scores, ids)
	if err != nil {
		return err
	}
	for i, seq := range seqs {
		fmt.Fprintf(w, "%s %d\n", ids[i], seq)
	}
	return nil
}

func lbRemove(s *session, w io.Writer, args []string) error {
	return s.lb.Remove(args[0])
}

func lbScore(s *session, w io.Writer, args []string) error {
	score, err := s.lb.Score(args[0])
	if err != nil {
		return err
	}
	fmt.Fprintln(w, score)
	return nil
}

func lbSeq(s *session, w io.Writer, args []string) error {
	seq, err := s.lb.SequenceNumber(args[0])
	if err != nil {
		return err
	}
	fmt.Fprintln(w, seq)
	return nil
}

func lbCount(s *session, w io.Writer, args []string) error {
	fmt.Fprintln(w, s.lb.Count())
	return nil
}

func lbIndex(s *session, w io.Writer, args []string) error {
	index, err := s.lb.IndexOf(args[0])
	if err != nil {
		return err
	}
	fmt.Fprintln(w, index)
	return nil
}

func lbRank(s *session, w io.Writer, args []string) error {
	rank, err := s.lb.RankOf(args[0])
	if err != nil {
		return err
	}
	fmt.Fprintln(w, rank)
	return nil
}

func lbAt(s *session, w io.Writer, args []string) error {
	rank, err := parseInt(args[0])
	if err != nil {
		return err
	}
	id, err := s.lb.EntryAtRank(rank)
	if err != nil {
		return err
	}
	fmt.Fprintln(w, id)
	return nil
}

func lbAtIndex(s *session, w io.Writer, args []string) error {
	index, err := parseInt(args[0])
	if err != nil {
		return err
	}
	id, score, err := s.lb.EntryAtIndex(index)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "%s %d\n", id, score)
	return nil
}

func lbTop(s *session, w io.Writer, args []string) error {
	n := defaultTopCount
	if len(args) > 0 {
		var err error
		if n, err = parseInt(args[0]); err != nil {
			return err
		}
	}
	for _, st := range s.lb.Top(n) {
		fmt.Fprintf(w, "%d %s %d\n", st.Rank, st.Identity, st.Score)
	}
	return nil
}

func lbFirst(s *session, w io.Writer, args []string) error {
	score, err := s.lb.First()
	if err != nil {
		return err
	}
	fmt.Fprintln(w, score)
	return nil
}

func lbLast(s *session, w io.Writer, args []string) error {
	score, err := s.lb.Last()
	if err != nil {
		return err
	}
	fmt.Fprintln(w, score)
	return nil
}

func lbNext(s *session, w io.Writer, args []string) error {
	score, err := parseScore(args[0])
	if err != nil {
		return err
	}
	fmt.Fprintln(w, s.lb.Next(score))
	return nil
}

func lbPrev(s *session, w io.Writer, args []string) error {
	score, err := parseScore(args[0])
	if err != nil {
		return err
	}
	fmt.Fprintln(w, s.lb.Prev(score))
	return nil
}

func lbPercentile(s *session, w io.Writer, args []string) error {
	score, err := parseScore(args[0])
	if err != nil {
		return err
	}
	fmt.Fprintln(w, s.lb.PercentileOf(score))
	return nil
}

// lbAdjust applies a reward or punishment batch and shows the resulting
// scores.
func lbAdjust(s *session, w io.Writer, args []string, punish bool) error {
	ids, deltas, err := parseAdjustments(args, punish)
	if err != nil {
		return err
	}
	if _, err := s.lb.AdjustBatch(ids, deltas); err != nil {
		return err
	}
	for _, id := range ids {
		score, err := s.lb.Score(id)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "%s %d\n", id, score)
	}
	return nil
}

func lbReward(s *session, w io.Writer, args []string) error {
	return lbAdjust(s, w, args, false)
}

func lbPunish(s *session, w io.Writer, args []string) error {
	return lbAdjust(s, w, args, true)
}

func lbImport(s *session, w io.Writer, args []string) error {
	r := io.Reader(os.Stdin)
	if args[0] != "-" {
		fi, err := os.Open(args[0])
		if err != nil {
			return err
		}
		defer fi.Close()
		r = fi
	}

	// Perform the import asynchronously.  This allows events to be read
	// and applied in parallel.
	log.RctlLog.Infof("Starting import from %s", args[0])
	results := <-ranking.NewImporter(s.lb, r, s.cfg.importConfig()).Import()
	if results.Err != nil {
		return results.Err
	}

	log.RctlLog.Infof("Processed a total of %d %s (%d applied, %d "+
		"duplicate)", results.EventsProcessed,
		log.PickNoun(results.EventsProcessed, "event", "events"),
		results.EventsApplied, results.Duplicates)
	fmt.Fprintf(w, "%d %d %d\n", results.EventsProcessed,
		results.EventsApplied, results.Duplicates)
	return nil
}

func lbVerify(s *session, w io.Writer, args []string) error {
	if err := s.lb.Verify(); err != nil {
		return err
	}
	fmt.Fprintf(w, "ok %d\n", s.lb.Count())
	return nil
}

func lgInsert(s *session, w io.Writer, args []string) error {
	score, err := parseScore(args[0])
	if err != nil {
		return err
	}
	seq, err := s.ledger.Insert(score, args[1])
	if err != nil {
		return err
	}
	fmt.Fprintln(w, seq)
	return nil
}

func lgRemove(s *session, w io.Writer, args []string) error {
	score, err := parseScore(args[0])
	if err != nil {
		return err
	}
	return s.ledger.Remove(score, args[1])
}

// writeKeys writes keys on one line separated by spaces.
func writeKeys(w io.Writer, keys []string) {
	for i, key := range keys {
		if i > 0 {
			fmt.Fprint(w, " ")
		}
		fmt.Fprint(w, key)
	}
	fmt.Fprintln(w)
}

func lgKeys(s *session, w io.Writer, args []string) error {
	score, err := parseScore(args[0])
	if err != nil {
		return err
	}
	writeKeys(w, s.ledger.Keys(score))
	return nil
}

func lgExists(s *session, w io.Writer, args []string) error {
	score, err := parseScore(args[0])
	if err != nil {
		return err
	}
	if len(args) == 2 {
		fmt.Fprintln(w, s.ledger.KeyExists(score, args[1]))
		return nil
	}
	fmt.Fprintln(w, s.ledger.Exists(score))
	return nil
}

func lgCount(s *session, w io.Writer, args []string) error {
	fmt.Fprintln(w, s.ledger.Count())
	return nil
}

func lgIndex(s *session, w io.Writer, args []string) error {
	score, err := parseScore(args[0])
	if err != nil {
		return err
	}
	index, err := s.ledger.IndexOf(score, args[1])
	if err != nil {
		return err
	}
	fmt.Fprintln(w, index)
	return nil
}

func lgAtIndex(s *session, w io.Writer, args []string) error {
	index, err := parseInt(args[0])
	if err != nil {
		return err
	}
	key, score, err := s.ledger.EntryAtIndex(index)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "%s %d\n", key, score)
	return nil
}

func lgBelow(s *session, w io.Writer, args []string) error {
	score, err := parseScore(args[0])
	if err != nil {
		return err
	}
	fmt.Fprintln(w, s.ledger.Below(score))
	return nil
}

func lgAbove(s *session, w io.Writer, args []string) error {
	score, err := parseScore(args[0])
	if err != nil {
		return err
	}
	fmt.Fprintln(w, s.ledger.Above(score))
	return nil
}

func lgFirst(s *session, w io.Writer, args []string) error {
	score, err := s.ledger.First()
	if err != nil {
		return err
	}
	fmt.Fprintln(w, score)
	return nil
}

func lgLast(s *session, w io.Writer, args []string) error {
	score, err := s.ledger.Last()
	if err != nil {
		return err
	}
	fmt.Fprintln(w, score)
	return nil
}

func lgNext(s *session, w io.Writer, args []string) error {
	score, err := parseScore(args[0])
	if err != nil {
		return err
	}
	fmt.Fprintln(w, s.ledger.Next(score))
	return nil
}

func lgPrev(s *session, w io.Writer, args []string) error {
	score, err := parseScore(args[0])
	if err != nil {
		return err
	}
	fmt.Fprintln(w, s.ledger.Prev(score))
	return nil
}

func lgPercentile(s *session, w io.Writer, args []string) error {
	score, err := parseScore(args[0])
	if err != nil {
		return err
	}
	fmt.Fprintln(w, s.ledger.Percentile(score))
	return nil
}

func lgPermil(s *session, w io.Writer, args []string) error {
	score, err := parseScore(args[0])
	if err != nil {
		return err
	}
	fmt.Fprintln(w, s.ledger.Permil(score))
	return nil
}

func lgAtPercentile(s *session, w io.Writer, args []string) error {
	p, err := parseInt(args[0])
	if err != nil {
		return err
	}
	score, err := s.ledger.AtPercentile(p)
	if err != nil {
		return err
	}
	fmt.Fprintln(w, score)
	return nil
}

func lgAtPermil(s *session, w io.Writer, args []string) error {
	p, err := parseInt(args[0])
	if err != nil {
		return err
	}
	score, err := s.ledger.AtPermil(p)
	if err != nil {
		return err
	}
	fmt.Fprintln(w, score)
	return nil
}

func lgMedian(s *session, w io.Writer, args []string) error {
	score, err := s.ledger.Median()
	if err != nil {
		return err
	}
	fmt.Fprintln(w, score)
	return nil
}

func lgPopMin(s *session, w io.Writer, args []string) error {
	score, keys, err := s.ledger.DeleteMin()
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "%d ", score)
	writeKeys(w, keys)
	return nil
}

func lgPopMax(s *session, w io.Writer, args []string) error {
	score, keys, err := s.ledger.DeleteMax()
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "%d ", score)
	writeKeys(w, keys)
	return nil
}

func lgVerify(s *session, w io.Writer, args []string) error {
	if err := s.ledger.Verify(); err != nil {
		return err
	}
	fmt.Fprintf(w, "ok %d\n", s.ledger.Count())
	return nil
}
