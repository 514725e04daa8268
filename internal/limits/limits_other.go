// Copyright (c) 2013-2014 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

//go:build !linux && !darwin

package limits

// SetLimits is a no-op where the open file limit is not adjusted.
func SetLimits(dbHandles int) error {
	return nil
}
