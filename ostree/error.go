// Copyright (c) 2014-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package ostree

import (
	"fmt"
)

// ErrorCode identifies a kind of error.
type ErrorCode int

// These constants are used to identify a specific RankError.
const (
	// ErrEmptyStructure indicates an operation that needs at least one
	// entry, such as First, Last, DeleteMin or DeleteMax, was invoked on an
	// empty tree.
	ErrEmptyStructure ErrorCode = iota

	// ErrNotFound indicates the requested score, key or identity does not
	// hold a live entry.
	ErrNotFound

	// ErrInvalidScore indicates an insert attempted to use the reserved
	// zero score or a batch adjustment would drive a score to zero or
	// below.
	ErrInvalidScore

	// ErrIndexOutOfBounds indicates a positional query referenced an index,
	// rank, percentile or permil outside of the valid range.
	ErrIndexOutOfBounds

	// ErrArityMismatch indicates a batch call was supplied parallel
	// slices of different lengths.
	ErrArityMismatch

	// ErrDuplicateEntry indicates the score and key pair already exists.
	ErrDuplicateEntry
)

// Map of ErrorCode values back to their constant names for pretty printing.
var errorCodeStrings = map[ErrorCode]string{
	ErrEmptyStructure:   "ErrEmptyStructure",
	ErrNotFound:         "ErrNotFound",
	ErrInvalidScore:     "ErrInvalidScore",
	ErrIndexOutOfBounds: "ErrIndexOutOfBounds",
	ErrArityMismatch:    "ErrArityMismatch",
	ErrDuplicateEntry:   "ErrDuplicateEntry",
}

// String returns the ErrorCode as a human-readable name.
func (e ErrorCode) String() string {
	if s := errorCodeStrings[e]; s != "" {
		return s
	}
	return fmt.Sprintf("Unknown ErrorCode (%d)", int(e))
}

// RankError identifies a failed ranking operation.  The caller can use type
// assertions to determine if a failure was specifically due to one of the
// conditions above and access the ErrorCode field to ascertain the specific
// reason.  A RankError is always returned before any state was modified.
type RankError struct {
	ErrorCode   ErrorCode // Describes the kind of error
	Description string    // Human readable description of the issue
}

// Error satisfies the error interface and prints human-readable errors.
func (e RankError) Error() string {
	return e.Description
}

// rankError creates a RankError given a set of arguments.
func rankError(c ErrorCode, desc string) RankError {
	return RankError{ErrorCode: c, Description: desc}
}

// MakeError creates a RankError for packages layered on top of the tree that
// share its error taxonomy.
func MakeError(c ErrorCode, desc string) RankError {
	return rankError(c, desc)
}

// IsErrorCode returns whether or not the provided error is a RankError with
// the provided error code.
func IsErrorCode(err error, c ErrorCode) bool {
	rerr, ok := err.(RankError)
	return ok && rerr.ErrorCode == c
}
