// Copyright (c) 2013-2014 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

//go:build linux || darwin

package limits

import (
	"fmt"
	"syscall"
)

const (
	// fileLimitSlack is the number of descriptors reserved beyond the
	// database handles for the log rotator, the import stream and
	// standard streams.
	fileLimitSlack = 64

	fileLimitMin = 256
)

// SetLimits raises the soft open file limit so the database may keep the
// requested number of handles open.
func SetLimits(dbHandles int) error {
	var rLimit syscall.Rlimit

	err := syscall.Getrlimit(syscall.RLIMIT_NOFILE, &rLimit)
	if err != nil {
		return err
	}
	want := uint64(dbHandles + fileLimitSlack)
	if rLimit.Cur >= want {
		return nil
	}
	if rLimit.Max < fileLimitMin {
		return fmt.Errorf("need at least %v file descriptors",
			fileLimitMin)
	}
	if rLimit.Max < want {
		rLimit.Cur = rLimit.Max
	} else {
		rLimit.Cur = want
	}
	err = syscall.Setrlimit(syscall.RLIMIT_NOFILE, &rLimit)
	if err != nil {
		// try min value
		rLimit.Cur = fileLimitMin
		err = syscall.Setrlimit(syscall.RLIMIT_NOFILE, &rLimit)
		if err != nil {
			return err
		}
	}

	return nil
}
