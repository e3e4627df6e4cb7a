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

// Package testutil provides small helpers shared by the winmap test suite:
// building backing files of an exact size, and a fake SigbusPopper that
// doesn't require installing a real signal handler.
package testutil

import (
	"os"

	fallocate "github.com/detailyang/go-fallocate"
)

// CreateFileOfSize creates a new temporary file, preallocated to exactly
// size bytes via fallocate(2), and returns it open for reading and
// writing. The caller is responsible for closing and removing it.
func CreateFileOfSize(size int64) (*os.File, error) {
	f, err := os.CreateTemp("", "winmap_test_")
	if err != nil {
		return nil, err
	}

	if err := fallocate.Fallocate(f, 0, size); err != nil {
		f.Close()
		os.Remove(f.Name())
		return nil, err
	}

	return f, nil
}

// FakePopper is a fake winmap.SigbusPopper: a plain FIFO queue of
// addresses, filled directly by test code instead of by a real SIGBUS
// handler.
type FakePopper struct {
	pending []uintptr
	err     error
}

// Push appends addr to the queue, to be returned by a later Pop.
func (p *FakePopper) Push(addr uintptr) {
	p.pending = append(p.pending, addr)
}

// SetErr makes every subsequent Pop return err instead of draining the
// queue, simulating a popper-level failure.
func (p *FakePopper) SetErr(err error) {
	p.err = err
}

// Pop implements winmap.SigbusPopper.
func (p *FakePopper) Pop() (uintptr, bool, error) {
	if p.err != nil {
		return 0, false, p.err
	}
	if len(p.pending) == 0 {
		return 0, false, nil
	}
	addr := p.pending[0]
	p.pending = p.pending[1:]
	return addr, true, nil
}
