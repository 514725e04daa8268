// Copyright (c) 2017 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package sampleconfig

// FileContents is a string containing the commented example config for
// rankctl.
const FileContents = `[Application Options]

; ------------------------------------------------------------------------------
; Data settings
; ------------------------------------------------------------------------------

; The directory to store the ranking database in.  The default is ~/.rankctl
; on POSIX OSes, $LOCALAPPDATA/Rankctl on Windows and
; ~/Library/Application Support/Rankctl on macOS.  Environment variables are
; expanded so they may be used.
; datadir=~/.rankctl

; Database backend.  One of leveldb, pebble or memory.  The memory backend
; keeps nothing between runs.
; dbtype=leveldb

; Block cache size of the database in MiB and the number of files it may keep
; open.
; dbcache=16
; dbhandles=64

; Namespace within the database.  Several leaderboards and ledgers may live in
; one database under distinct namespaces.
; namespace=default


; ------------------------------------------------------------------------------
; Ranking settings
; ------------------------------------------------------------------------------

; Structure to operate on.  A leaderboard holds one score per identity and
; gives the best rank to the first identity to reach a score.  A ledger holds
; any number of keys per score in arrival order.
; mode=leaderboard


; ------------------------------------------------------------------------------
; Import settings
; ------------------------------------------------------------------------------

; Seconds between progress messages while importing.  0 disables them.
; progress=10

; Number of recent event hashes remembered to skip replayed events.
; dedupe=10000


; ------------------------------------------------------------------------------
; Debug
; ------------------------------------------------------------------------------

; Debug logging level.
; Valid levels are {trace, debug, info, warn, error, critical}
; You may also specify <subsystem>=<level>,<subsystem2>=<level>,... to set
; log level for individual subsystems.  Use rankctl --debuglevel=show to list
; available subsystems.
; debuglevel=info

; Directory to write the log file to.
; logdir=~/.rankctl/logs
`
