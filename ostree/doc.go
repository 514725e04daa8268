// Copyright (c) 2015-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

/*
Package ostree implements an order-statistics tree over unsigned integer
scores.

The tree is a left-leaning red-black tree in which every node stores one
score and the list of entries sharing that score.  Each node is augmented with
the number of entries in its subtree, which allows selecting the entry at any
global index and computing the index of any entry in logarithmic time.

Entries sharing a score are kept in the order of their sequence numbers.  The
tie-break policy of the tree decides whether the earliest (ArrivalOrder) or
the latest (NewestFirst) entry receives the lowest index.

The score 0 is reserved and may not be inserted.  Nodes are kept in an arena
and linked by handles so a tree can be written to and restored from an
external store one node at a time.

Errors

Errors returned by this package are of type ostree.RankError and carry an
ErrorCode which callers can examine to programmatically determine the failure
without parsing the description.
*/
package ostree
