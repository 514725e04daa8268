// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

/*
Rankctl operates on the leaderboards and ledgers kept in a ranking database.

Each invocation opens the structure of one namespace, runs a single command
and commits its effect before exiting.  Scores are positive integers.  In a
leaderboard every identity holds one score and rank 0 goes to the highest
score, ties going to whoever reached the score first.  In a ledger a score
holds any number of keys kept in arrival order.

Usage:

	rankctl [OPTIONS] <command> <args...>

Examples:

	rankctl insert 1200 alice
	rankctl reward alice 50 bob 20
	rankctl top 3
	rankctl import events.txt
	rankctl --mode=ledger --namespace=orders insert 10 o-17

Import streams hold one event per line, optionally prefixed by a bracketed
event hash used to skip events replayed by overlapping exports:

	[<hash>] insert <identity> <score>
	[<hash>] remove <identity>

Use rankctl -l to list the commands of both modes and rankctl -h to show the
options.  Options may also be set in the config file, rankctl.conf in the
application data directory by default.
*/
package main
