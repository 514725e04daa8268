// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package ranking

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/decred/dcrd/lru"
)

const (
	// DefaultDedupeWindow is the number of recent event hashes remembered
	// to skip duplicated events.
	DefaultDedupeWindow = 10000

	// DefaultProgressInterval is the minimum time between two progress
	// messages.
	DefaultProgressInterval = 10 * time.Second
)

// eventOp is the kind of change an event applies.
type eventOp uint8

const (
	opInsert eventOp = iota
	opRemove
)

// event is a parsed line of an event stream.
type event struct {
	line     int
	hash     *chainhash.Hash // nil when the line carries no hash
	op       eventOp
	identity string
	score    uint64
}

// parseEvent parses a single line of an event stream.  The accepted forms are
//
//	[<event hash>] insert <identity> <score>
//	[<event hash>] remove <identity>
//
// where the bracketed hash is optional.  Blank lines and lines starting with
// '#' yield a nil event.
func parseEvent(lineNum int, line string) (*event, error) {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "#") {
		return nil, nil
	}

	ev := &event{line: lineNum}
	fields := strings.Fields(line)
	if strings.HasPrefix(fields[0], "[") {
		if !strings.HasSuffix(fields[0], "]") {
			return nil, fmt.Errorf("line %d: malformed event hash %q",
				lineNum, fields[0])
		}
		hash, err := chainhash.NewHashFromStr(fields[0][1 : len(fields[0])-1])
		if err != nil {
			return nil, fmt.Errorf("line %d: %v", lineNum, err)
		}
		ev.hash = hash
		fields = fields[1:]
	}

	if len(fields) == 0 {
		return nil, fmt.Errorf("line %d: missing operation", lineNum)
	}
	switch fields[0] {
	case "insert":
		if len(fields) != 3 {
			return nil, fmt.Errorf("line %d: insert takes an identity "+
				"and a score", lineNum)
		}
		score, err := strconv.ParseUint(fields[2], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: invalid score %q: %v",
				lineNum, fields[2], err)
		}
		ev.op, ev.identity, ev.score = opInsert, fields[1], score

	case "remove":
		if len(fields) != 2 {
			return nil, fmt.Errorf("line %d: remove takes an identity",
				lineNum)
		}
		ev.op, ev.identity = opRemove, fields[1]

	default:
		return nil, fmt.Errorf("line %d: unknown operation %q", lineNum,
			fields[0])
	}
	return ev, nil
}

// ImportConfig holds the tunables of an Importer.
type ImportConfig struct {
	// Progress is the minimum time between progress messages.  Zero
	// selects DefaultProgressInterval.
	Progress time.Duration

	// DedupeWindow is the number of recent event hashes remembered.  Zero
	// selects DefaultDedupeWindow.
	DedupeWindow uint
}

// ImportResult houses the stats and result of an import operation.
type ImportResult struct {
	EventsProcessed int64
	EventsApplied   int64
	Duplicates      int64
	Err             error
}

// Importer replays an event stream into a leaderboard.  Reading and parsing
// run in parallel with applying.
type Importer struct {
	lb           *Leaderboard
	r            io.Reader
	progress     time.Duration
	seen         lru.Cache
	processQueue chan *event
	doneChan     chan struct{}
	errChan      chan error
	quit         chan struct{}
	wg           sync.WaitGroup

	eventsProcessed int64
	eventsApplied   int64
	duplicates      int64
	receivedLog     int64
	lastLine        int
	lastLogTime     time.Time
}

// NewImporter returns an importer that replays the events read from r into
// lb.  cfg may be nil.
func NewImporter(lb *Leaderboard, r io.Reader, cfg *ImportConfig) *Importer {
	progress, window := DefaultProgressInterval, uint(DefaultDedupeWindow)
	if cfg != nil {
		if cfg.Progress > 0 {
			progress = cfg.Progress
		}
		if cfg.DedupeWindow > 0 {
			window = cfg.DedupeWindow
		}
	}

	return &Importer{
		lb:           lb,
		r:            r,
		progress:     progress,
		seen:         lru.NewCache(window),
		processQueue: make(chan *event, 64),
		doneChan:     make(chan struct{}),
		errChan:      make(chan error, 2),
		quit:         make(chan struct{}),
		lastLogTime:  time.Now(),
	}
}

// readHandler is the main handler for reading events from the stream.  This
// allows parsing to take place in parallel with applying.  It must be run as
// a goroutine.
func (imp *Importer) readHandler() {
	defer imp.wg.Done()
	defer close(imp.processQueue)

	scanner := bufio.NewScanner(imp.r)
	var lineNum int
	for scanner.Scan() {
		lineNum++
		ev, err := parseEvent(lineNum, scanner.Text())
		if err != nil {
			imp.errChan <- err
			return
		}
		if ev == nil {
			continue
		}

		// Send the event or quit if we've been signalled to exit by
		// the status handler due to an error elsewhere.
		select {
		case imp.processQueue <- ev:
		case <-imp.quit:
			return
		}
	}
	if err := scanner.Err(); err != nil {
		imp.errChan <- fmt.Errorf("error reading event stream: %v", err)
	}
}

// processEvent applies the event unless its hash was already seen.  It
// returns whether the event was applied.
func (imp *Importer) processEvent(ev *event) (bool, error) {
	if ev.hash != nil {
		if imp.seen.Contains(*ev.hash) {
			log.Debugf("Skipping duplicate event %v on line %d",
				ev.hash, ev.line)
			return false, nil
		}
		imp.seen.Add(*ev.hash)
	}

	var err error
	switch ev.op {
	case opInsert:
		_, err = imp.lb.Insert(ev.score, ev.identity)
	case opRemove:
		err = imp.lb.Remove(ev.identity)
	}
	if err != nil {
		return false, fmt.Errorf("line %d: %v", ev.line, err)
	}
	return true, nil
}

// logProgress logs import progress as an information message.  In order to
// prevent spam, it limits logging to one message every progress interval with
// duration and totals included.
func (imp *Importer) logProgress() {
	imp.receivedLog++

	now := time.Now()
	duration := now.Sub(imp.lastLogTime)
	if duration < imp.progress {
		return
	}

	// Truncate the duration to 10s of milliseconds.
	durationMillis := int64(duration / time.Millisecond)
	tDuration := 10 * time.Millisecond * time.Duration(durationMillis/10)

	eventStr := "events"
	if imp.receivedLog == 1 {
		eventStr = "event"
	}
	log.Infof("Processed %d %s in the last %s (line %d, %d entries)",
		imp.receivedLog, eventStr, tDuration, imp.lastLine,
		imp.lb.Count())

	imp.receivedLog = 0
	imp.lastLogTime = now
}

// processHandler is the main handler for applying events.  It must be run as
// a goroutine.
func (imp *Importer) processHandler() {
	defer imp.wg.Done()

	for {
		select {
		case ev, ok := <-imp.processQueue:
			// We're done when the channel is closed.
			if !ok {
				return
			}

			imp.eventsProcessed++
			imp.lastLine = ev.line
			applied, err := imp.processEvent(ev)
			if err != nil {
				imp.errChan <- err
				return
			}
			if applied {
				imp.eventsApplied++
			} else {
				imp.duplicates++
			}

			imp.logProgress()

		case <-imp.quit:
			return
		}
	}
}

// statusHandler waits for the import to finish and sends the results.  An
// error from either goroutine signals the other one to quit.
func (imp *Importer) statusHandler(resultsChan chan *ImportResult) {
	var err error
	select {
	case err = <-imp.errChan:
		close(imp.quit)
		<-imp.doneChan

	case <-imp.doneChan:
		select {
		case err = <-imp.errChan:
		default:
		}
	}

	resultsChan <- &ImportResult{
		EventsProcessed: imp.eventsProcessed,
		EventsApplied:   imp.eventsApplied,
		Duplicates:      imp.duplicates,
		Err:             err,
	}
}

// Import starts the import and returns a channel on which the results will be
// sent when the operation has completed.
func (imp *Importer) Import() chan *ImportResult {
	imp.wg.Add(2)
	go imp.readHandler()
	go imp.processHandler()

	go func() {
		imp.wg.Wait()
		close(imp.doneChan)
	}()

	resultChan := make(chan *ImportResult, 1)
	go imp.statusHandler(resultChan)
	return resultChan
}
