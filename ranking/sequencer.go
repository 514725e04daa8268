// Copyright (c) 2016-2017 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package ranking

import (
	"sync"
)

// Sequencer mints the sequence numbers that order entries sharing a score.
// Numbers start at 1, strictly increase and are never reused, even when the
// operation that minted one is rolled back.  Facades sharing a sequencer share
// a single order.
type Sequencer struct {
	mtx  sync.Mutex
	last uint64
}

// NewSequencer returns a sequencer whose next number follows last.  Pass 0
// for a fresh sequence.
func NewSequencer(last uint64) *Sequencer {
	return &Sequencer{last: last}
}

// Next mints a new sequence number.
func (s *Sequencer) Next() uint64 {
	s.mtx.Lock()
	s.last++
	seq := s.last
	s.mtx.Unlock()
	return seq
}

// Last returns the most recently minted sequence number or 0.
func (s *Sequencer) Last() uint64 {
	s.mtx.Lock()
	last := s.last
	s.mtx.Unlock()
	return last
}

// Advance ensures future numbers follow last.  It is used after loading
// persisted state so restored entries never collide with new ones.
func (s *Sequencer) Advance(last uint64) {
	s.mtx.Lock()
	if last > s.last {
		s.last = last
	}
	s.mtx.Unlock()
}
