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

package winmap_test

import (
	"errors"
	"os"
	"testing"
	"unsafe"

	"github.com/jacobsa/winmap"
	"github.com/jacobsa/winmap/internal/testutil"
)

func TestSigbusPoisonsFileAndFailsFurtherReads(t *testing.T) {
	f, err := testutil.CreateFileOfSize(4096)
	if err != nil {
		t.Fatalf("CreateFileOfSize: %v", err)
	}
	defer f.Close()
	defer os.Remove(f.Name())

	popper := &testutil.FakePopper{}
	c, err := winmap.New(winmap.WithSigbusPopper(popper))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer c.Unref()

	fd, err := c.AddFD(int(f.Fd()), winmap.ProtRead)
	if err != nil {
		t.Fatalf("AddFD: %v", err)
	}

	data, err := c.Get(fd, 0, false, 0, 10, nil)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}

	// Simulate a fault landing inside the window we just got back.
	addr := uintptr(unsafe.Pointer(&data[0]))
	popper.Push(addr)

	poisoned, err := fd.GotSigbus()
	if err != nil {
		t.Fatalf("GotSigbus: %v", err)
	}
	if !poisoned {
		t.Fatalf("expected GotSigbus to report true")
	}

	_, err = c.Get(fd, 0, false, 0, 10, nil)
	if !errors.Is(err, winmap.ErrIO) {
		t.Fatalf("Get after poisoning: got %v, want ErrIO", err)
	}

	// A fresh context on the same poisoned file should also fail: the
	// poison is per-FD, not per-context.
	_, err = c.Get(fd, 1, false, 0, 10, nil)
	if !errors.Is(err, winmap.ErrIO) {
		t.Fatalf("Get with new context after poisoning: got %v, want ErrIO", err)
	}
}

func TestProcessSigbusIsANoOpWithoutAPopper(t *testing.T) {
	c, err := winmap.New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer c.Unref()

	if err := c.ProcessSigbus(); err != nil {
		t.Fatalf("ProcessSigbus: %v", err)
	}
}

func TestPopperErrorPropagates(t *testing.T) {
	popper := &testutil.FakePopper{}
	wantErr := errors.New("boom")
	popper.SetErr(wantErr)

	c, err := winmap.New(winmap.WithSigbusPopper(popper))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer c.Unref()

	if err := c.ProcessSigbus(); !errors.Is(err, wantErr) {
		t.Fatalf("ProcessSigbus: got %v, want %v", err, wantErr)
	}
}
