// Copyright (c) 2015-2016 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package rankdb

import (
	"fmt"
)

// ErrorCode identifies a kind of error.
type ErrorCode int

// These constants are used to identify a specific DBError.
const (
	// ErrMetaShortRead indicates that the serialized store metadata was
	// too small.
	ErrMetaShortRead ErrorCode = iota

	// ErrMetaVersion indicates the store was written with an unknown
	// serialization version.
	ErrMetaVersion

	// ErrTieBreakMismatch indicates the store holds state written with
	// another tie-break policy than the one requested.
	ErrTieBreakMismatch

	// ErrNodeShortRead indicates that a serialized node was too small.
	ErrNodeShortRead

	// ErrNodeCorrupt indicates that a serialized node or its key was
	// malformed.
	ErrNodeCorrupt

	// ErrRecordShortRead indicates that a serialized identity record was
	// too small.
	ErrRecordShortRead

	// ErrLoadState indicates the stored nodes do not form a valid tree or
	// the stored identity records disagree with it.
	ErrLoadState

	// ErrNamespaceTooLong indicates a namespace exceeds MaxNamespaceLen
	// bytes.
	ErrNamespaceTooLong
)

// Map of ErrorCode values back to their constant names for pretty printing.
var errorCodeStrings = map[ErrorCode]string{
	ErrMetaShortRead:    "ErrMetaShortRead",
	ErrMetaVersion:      "ErrMetaVersion",
	ErrTieBreakMismatch: "ErrTieBreakMismatch",
	ErrNodeShortRead:    "ErrNodeShortRead",
	ErrNodeCorrupt:      "ErrNodeCorrupt",
	ErrRecordShortRead:  "ErrRecordShortRead",
	ErrLoadState:        "ErrLoadState",
	ErrNamespaceTooLong: "ErrNamespaceTooLong",
}

// String returns the ErrorCode as a human-readable name.
func (e ErrorCode) String() string {
	if s := errorCodeStrings[e]; s != "" {
		return s
	}
	return fmt.Sprintf("Unknown ErrorCode (%d)", int(e))
}

// DBError identifies an error in the ranking store.  The caller can use type
// assertions to determine if a failure was specifically due to a known
// condition and access the ErrorCode field to ascertain the specific reason.
type DBError struct {
	ErrorCode   ErrorCode // Describes the kind of error
	Description string    // Human readable description of the issue
}

// Error satisfies the error interface and prints human-readable errors.
func (e DBError) Error() string {
	return e.Description
}

// rankDBError creates a DBError given a set of arguments.
func rankDBError(c ErrorCode, desc string) DBError {
	return DBError{ErrorCode: c, Description: desc}
}
