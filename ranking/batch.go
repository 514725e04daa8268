// Copyright (c) 2016-2017 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package ranking

import (
	"fmt"

	"github.com/trifle-labs/kudzu-cup-sub000/ostree"
)

// arityMismatch returns the error reported for parallel slices of different
// lengths.
func arityMismatch(what string, ids, values int) error {
	str := fmt.Sprintf("%d identities but %d %s", ids, values, what)
	return ostree.MakeError(ostree.ErrArityMismatch, str)
}

// applyBatch places every identity at the matching score in order and
// commits once.  The scores must already be validated.
func (lb *Leaderboard) applyBatch(ids []string, scores []uint64) ([]uint64, error) {
	seqs := make([]uint64, len(ids))
	for i, id := range ids {
		seq, err := lb.place(scores[i], id)
		if err != nil {
			return nil, err
		}
		seqs[i] = seq
	}
	if err := lb.b.commit(); err != nil {
		return nil, err
	}

	log.Debugf("Applied batch of %d placements", len(ids))
	return seqs, nil
}

// InsertBatch places ids[i] at scores[i] for every i, in order, and returns
// the minted sequence numbers.  The whole batch is validated before anything
// is modified.
func (lb *Leaderboard) InsertBatch(scores []uint64, ids []string) ([]uint64, error) {
	if len(scores) != len(ids) {
		return nil, arityMismatch("scores", len(ids), len(scores))
	}
	for i, score := range scores {
		if score == 0 {
			str := fmt.Sprintf("score 0 for identity %q is reserved",
				ids[i])
			return nil, ostree.MakeError(ostree.ErrInvalidScore, str)
		}
	}

	lb.mtx.Lock()
	defer lb.mtx.Unlock()

	return lb.applyBatch(ids, scores)
}

// adjust returns score moved by delta and whether the result is a valid,
// positive score.
func adjust(score uint64, delta int64) (uint64, bool) {
	if delta >= 0 {
		adjusted := score + uint64(delta)
		return adjusted, adjusted > score || (delta == 0 && score != 0)
	}

	// Negate without overflowing on the most negative delta.
	dec := uint64(-(delta + 1)) + 1
	if dec >= score {
		return 0, false
	}
	return score - dec, true
}

// AdjustBatch moves every ids[i] by deltas[i], in order, rewarding with
// positive deltas and punishing with negative ones.  An identity without an
// entry starts from 0.  The whole batch is rejected with ErrInvalidScore if
// any step would leave an identity at zero or below.
func (lb *Leaderboard) AdjustBatch(ids []string, deltas []int64) ([]uint64, error) {
	if len(deltas) != len(ids) {
		return nil, arityMismatch("deltas", len(ids), len(deltas))
	}

	lb.mtx.Lock()
	defer lb.mtx.Unlock()

	// Resolve every step first so a rejected batch changes nothing.
	running := make(map[string]uint64, len(ids))
	scores := make([]uint64, len(ids))
	for i, id := range ids {
		old, ok := running[id]
		if !ok {
			if rec, live := lb.b.reg.Lookup(id); live {
				old = rec.Score
			}
		}
		adjusted, valid := adjust(old, deltas[i])
		if !valid {
			str := fmt.Sprintf("adjusting identity %q at score %d "+
				"by %d does not leave a positive score", id, old,
				deltas[i])
			return nil, ostree.MakeError(ostree.ErrInvalidScore, str)
		}
		running[id] = adjusted
		scores[i] = adjusted
	}

	return lb.applyBatch(ids, scores)
}
