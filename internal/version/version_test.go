// Copyright (c) 2013-2014 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package version

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// TestFormat ensures versions are assembled with invalid characters stripped.
func TestFormat(t *testing.T) {
	t.Parallel()

	tests := []struct {
		preRel, build string
		want          string
	}{
		{"", "", "1.2.3"},
		{"beta", "", "1.2.3-beta"},
		{"", "abc.1", "1.2.3+abc.1"},
		{"rc.1", "a_b", "1.2.3-rc1+ab"},
		{"!!", "??", "1.2.3"},
	}
	for _, test := range tests {
		got := format(1, 2, 3, test.preRel, test.build)
		require.Equal(t, test.want, got)
	}
}
