// Copyright (c) 2016-2017 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

/*
Package ranking provides the two ranking facades built on the ostree
order-statistics tree.

A Leaderboard holds at most one entry per identity.  Re-inserting an identity
moves it to the new score with a fresh sequence number.  Entries sharing a
score are indexed newest first, and rank is reported as the mirror of the
index (rank = Count()-1-index), so rank 0 is the best score and the identity
that reached a score first ranks ahead of later arrivals.

A Ledger stores any number of keys per score, each at most once, indexed in
strict arrival order.

Both facades may be attached to a Store, in which case every mutation is
committed as a single Batch and a rejected commit reloads the last committed
state.  The rankdb package provides such a store.

The Importer replays line-oriented event streams into a Leaderboard,
skipping events whose hash was recently seen.
*/
package ranking
