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
	"os"
	"testing"

	. "github.com/jacobsa/ogletest"
	"github.com/jacobsa/winmap"
	"github.com/jacobsa/winmap/internal/testutil"
)

func TestCache(t *testing.T) { RunTests(t) }

////////////////////////////////////////////////////////////////////////
// Helpers
////////////////////////////////////////////////////////////////////////

const pageSize = 4096

type CacheTest struct {
	c *winmap.Cache
	f *os.File
}

func init() { RegisterTestSuite(&CacheTest{}) }

func (t *CacheTest) SetUp(ti *TestInfo) {
	var err error
	t.c, err = winmap.New(winmap.WithWindowSize(8 * pageSize))
	AssertEq(nil, err)
}

func (t *CacheTest) TearDown() {
	if t.f != nil {
		t.f.Close()
		os.Remove(t.f.Name())
	}
	t.c.Unref()
}

func (t *CacheTest) createFile(size int64) *winmap.FD {
	f, err := testutil.CreateFileOfSize(size)
	AssertEq(nil, err)
	t.f = f

	fd, err := t.c.AddFD(int(f.Fd()), winmap.ProtRead)
	AssertEq(nil, err)

	return fd
}

////////////////////////////////////////////////////////////////////////
// Basic hit
////////////////////////////////////////////////////////////////////////

func (t *CacheTest) BasicGetReturnsRequestedBytes() {
	fd := t.createFile(64 * pageSize)

	data, err := t.c.Get(fd, 0, false, 100, 50, nil)
	AssertEq(nil, err)
	ExpectEq(50, len(data))
}

func (t *CacheTest) RepeatedGetWithSameContextHitsFastPath() {
	fd := t.createFile(64 * pageSize)

	_, err := t.c.Get(fd, 0, false, 100, 50, nil)
	AssertEq(nil, err)
	ExpectEq(0, t.c.Stats().ContextCacheHits)
	ExpectEq(1, t.c.Stats().Misses)

	_, err = t.c.Get(fd, 0, false, 120, 10, nil)
	AssertEq(nil, err)
	ExpectEq(1, t.c.Stats().ContextCacheHits)
}

////////////////////////////////////////////////////////////////////////
// Windowing
////////////////////////////////////////////////////////////////////////

func (t *CacheTest) SmallRequestIsPaddedToWindowSize() {
	fd := t.createFile(64 * pageSize)

	data, err := t.c.Get(fd, 0, false, 0, 1, nil)
	AssertEq(nil, err)
	ExpectEq(1, len(data))

	// A second request elsewhere within the same padded window should not
	// cause a second mapping.
	_, err = t.c.Get(fd, 1, false, 4*pageSize, 1, nil)
	AssertEq(nil, err)
	ExpectEq(1, t.c.Stats().WindowListHits)
	ExpectEq(1, t.c.Stats().Misses)
}

////////////////////////////////////////////////////////////////////////
// Cross-context sharing
////////////////////////////////////////////////////////////////////////

func (t *CacheTest) TwoContextsShareOneWindow() {
	fd := t.createFile(64 * pageSize)

	_, err := t.c.Get(fd, 0, false, 0, 10, nil)
	AssertEq(nil, err)
	ExpectEq(1, t.c.Stats().Misses)

	_, err = t.c.Get(fd, 1, false, 0, 10, nil)
	AssertEq(nil, err)
	ExpectEq(1, t.c.Stats().Misses)
	ExpectEq(1, t.c.Stats().WindowListHits)
}

////////////////////////////////////////////////////////////////////////
// Eviction
////////////////////////////////////////////////////////////////////////

func (t *CacheTest) WindowsAboveMinWindowsAreReusedOnceUnused() {
	c, err := winmap.New(
		winmap.WithWindowSize(pageSize),
		winmap.WithMinWindows(1),
		winmap.WithImmediateFree(false))
	AssertEq(nil, err)
	defer c.Unref()

	f, err := testutil.CreateFileOfSize(16 * pageSize)
	AssertEq(nil, err)
	defer f.Close()
	defer os.Remove(f.Name())

	fd, err := c.AddFD(int(f.Fd()), winmap.ProtRead)
	AssertEq(nil, err)

	// Fill one window beyond the floor, then let it become unused by
	// moving the same context elsewhere.
	_, err = c.Get(fd, 0, false, 0, 1, nil)
	AssertEq(nil, err)

	_, err = c.Get(fd, 0, false, 2*pageSize, 1, nil)
	AssertEq(nil, err)

	statsBefore := c.Stats()
	ExpectEq(2, statsBefore.Misses)

	// Go back to the first window. The second window was mapped fresh
	// because the cache was still at its floor, so the first one was only
	// parked on the unused list and is found again by the window-list scan.
	_, err = c.Get(fd, 0, false, 0, 1, nil)
	AssertEq(nil, err)
	ExpectEq(1, c.Stats().WindowListHits)
	ExpectEq(2, c.Stats().Misses)

	// Now above the floor with the second window unused: a request for a
	// new range reuses that window instead of mapping a third one.
	_, err = c.Get(fd, 0, false, 4*pageSize, 1, nil)
	AssertEq(nil, err)
	ExpectEq(3, c.Stats().Misses)

	// The second window's old range is therefore no longer mapped, so
	// asking for it again is a miss rather than a window-list hit.
	_, err = c.Get(fd, 1, false, 2*pageSize, 1, nil)
	AssertEq(nil, err)
	ExpectEq(4, c.Stats().Misses)
	ExpectEq(1, c.Stats().WindowListHits)
}

////////////////////////////////////////////////////////////////////////
// Past-EOF
////////////////////////////////////////////////////////////////////////

func (t *CacheTest) RequestAtOrPastEOFFailsWithStat() {
	fd := t.createFile(pageSize)

	stat := &winmap.Stat{Size: pageSize}
	_, err := t.c.Get(fd, 0, false, pageSize, 1, stat)
	ExpectEq(winmap.ErrAddrNotAvailable, err)
}

func (t *CacheTest) RequestExtendingPastEOFIsClamped() {
	fd := t.createFile(pageSize + 10)

	stat := &winmap.Stat{Size: pageSize + 10}
	data, err := t.c.Get(fd, 0, false, pageSize, 10, stat)
	AssertEq(nil, err)
	ExpectEq(10, len(data))
}

////////////////////////////////////////////////////////////////////////
// Argument validation
////////////////////////////////////////////////////////////////////////

func (t *CacheTest) InvalidContextIDIsRejected() {
	fd := t.createFile(pageSize)

	_, err := t.c.Get(fd, winmap.MaxContexts, false, 0, 1, nil)
	ExpectEq(winmap.ErrInvalidArgument, err)

	_, err = t.c.Get(fd, -1, false, 0, 1, nil)
	ExpectEq(winmap.ErrInvalidArgument, err)
}

func (t *CacheTest) ZeroSizeIsRejected() {
	fd := t.createFile(pageSize)

	_, err := t.c.Get(fd, 0, false, 0, 0, nil)
	ExpectEq(winmap.ErrInvalidArgument, err)
}
