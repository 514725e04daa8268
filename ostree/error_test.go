// Copyright (c) 2014-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package ostree_test

import (
	"errors"
	"testing"

	"github.com/trifle-labs/kudzu-cup-sub000/ostree"
)

// TestErrorCodeStringer tests the stringized output for the ErrorCode type.
func TestErrorCodeStringer(t *testing.T) {
	tests := []struct {
		in   ostree.ErrorCode
		want string
	}{
		{ostree.ErrEmptyStructure, "ErrEmptyStructure"},
		{ostree.ErrNotFound, "ErrNotFound"},
		{ostree.ErrInvalidScore, "ErrInvalidScore"},
		{ostree.ErrIndexOutOfBounds, "ErrIndexOutOfBounds"},
		{ostree.ErrArityMismatch, "ErrArityMismatch"},
		{ostree.ErrDuplicateEntry, "ErrDuplicateEntry"},
		{0xffff, "Unknown ErrorCode (65535)"},
	}

	t.Logf("Running %d tests", len(tests))
	for i, test := range tests {
		result := test.in.String()
		if result != test.want {
			t.Errorf("String #%d\n got: %s want: %s", i, result,
				test.want)
			continue
		}
	}
}

// TestRankError tests the error output for the RankError type.
func TestRankError(t *testing.T) {
	tests := []struct {
		in   ostree.RankError
		want string
	}{
		{ostree.RankError{Description: "score 0 is reserved"},
			"score 0 is reserved",
		},
		{ostree.MakeError(ostree.ErrNotFound, "human-readable error"),
			"human-readable error",
		},
	}

	t.Logf("Running %d tests", len(tests))
	for i, test := range tests {
		result := test.in.Error()
		if result != test.want {
			t.Errorf("Error #%d\n got: %s want: %s", i, result,
				test.want)
			continue
		}
	}
}

// TestIsErrorCode ensures IsErrorCode only matches rank errors carrying the
// requested code.
func TestIsErrorCode(t *testing.T) {
	err := ostree.MakeError(ostree.ErrArityMismatch, "3 ids, 2 deltas")
	if !ostree.IsErrorCode(err, ostree.ErrArityMismatch) {
		t.Fatalf("IsErrorCode: code %v not matched", ostree.ErrArityMismatch)
	}
	if ostree.IsErrorCode(err, ostree.ErrNotFound) {
		t.Fatalf("IsErrorCode: unexpected match for %v", ostree.ErrNotFound)
	}
	if ostree.IsErrorCode(errors.New("plain"), ostree.ErrEmptyStructure) {
		t.Fatal("IsErrorCode: unexpected match for a plain error")
	}
}
