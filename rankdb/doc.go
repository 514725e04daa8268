// Copyright (c) 2015-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

/*
Package rankdb persists leaderboards and ledgers in a key-value database.

A Store implements ranking.Store over any database/engine backend.  Each
facade mutation is written as a single transaction holding the tree nodes it
touched, the identity records it changed and the store metadata, so a crash
never leaves a half-applied mutation behind.  Loading reads every node back,
rebuilds the tree and verifies all of its invariants before handing it out.

Several stores may share an engine as long as their namespaces differ.  Keys
carry the length of their namespace, so a namespace extending another never
observes its records.

	db, err := rankdb.OpenEngine(rankdb.EnginePebble, path, 16, 64)
	if err != nil {
		return err
	}
	defer db.Close()

	store, err := rankdb.New(db, "season1")
	if err != nil {
		return err
	}
	lb, err := ranking.NewLeaderboard(&ranking.Config{Store: store})
*/
package rankdb
