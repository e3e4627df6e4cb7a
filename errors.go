// Copyright 2015 Google Inc. All Rights Reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package winmap

import (
	"errors"
	"fmt"
	"syscall"
)

// errnoError pairs a human-readable message with the syscall.Errno it
// stands in for, so that callers can use errors.Is against either the
// sentinel itself or the underlying errno.
type errnoError struct {
	msg   string
	errno syscall.Errno
}

func (e *errnoError) Error() string {
	return e.msg
}

func (e *errnoError) Unwrap() error {
	return e.errno
}

var (
	// ErrNoMemory is returned when a window could not be mapped because the
	// system is out of memory, even after the cache attempted to evict its
	// least recently used window and retry.
	ErrNoMemory = &errnoError{"winmap: out of memory", syscall.ENOMEM}

	// ErrAddrNotAvailable is returned when a requested range starts at or
	// past the file's current end, as reported by the optional Stat passed
	// to Get.
	ErrAddrNotAvailable = &errnoError{"winmap: address not available", syscall.EADDRNOTAVAIL}

	// ErrIO is returned for any access to a file handle that has been
	// poisoned by a prior SIGBUS, per (*Cache).ProcessSigbus.
	ErrIO = &errnoError{"winmap: file handle poisoned by a prior SIGBUS", syscall.EIO}
)

// ErrInvalidArgument is returned by Get and GetContext when ctxID is out of
// [0, MaxContexts) or size is not positive. It signals a programming error
// in the caller, not a runtime condition.
var ErrInvalidArgument = errors.New("winmap: invalid context id or size")

// wrapMmapErr wraps an mmap(2) failure that isn't the specifically handled
// ENOMEM so that errors.Is(err,
// syscall.Errno(...)) still works against the original errno.
func wrapMmapErr(err error) error {
	return fmt.Errorf("winmap: mmap: %w", err)
}
