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

import "golang.org/x/sys/unix"

// Prot is the protection with which a file descriptor is mapped: the same
// bits accepted by mmap(2)'s prot argument.
type Prot int

const (
	ProtRead      Prot = unix.PROT_READ
	ProtReadWrite Prot = unix.PROT_READ | unix.PROT_WRITE
)

// Stat carries just enough information about a file's current size for Get
// to clamp windows at EOF. Callers that don't track file size can pass nil,
// in which case the cache never clamps or rejects past-EOF requests on its
// own.
type Stat struct {
	Size int64
}

// Cache is the root of a windowed mmap cache: a bounded pool of mmap'd
// windows shared across a set of registered file descriptors.
//
// INVARIANT: nWindows equals the number of Window values reachable from
// fds[*].windowsHead chains. Windows on the unused list stay on their FD's
// chain, so they are already part of that count.
// INVARIANT: every Window on the unused list has contextsHead == nil and
// keepAlways == false.
// INVARIANT: contexts[i] is either nil or has id == i.
//
// A Cache has NO internal locking. Every exported method must be called
// from a single logical thread of control at a time; the caller is
// responsible for serializing access (see the package comment). This
// mirrors the single-threaded-cooperative model spec'd for this component
// and is a deliberate departure from the mutex-guarded style the rest of
// this dependency's ecosystem favors (see samples/memfs's
// GUARDED_BY(mu)-style structs in the wider jacobsa/fuse tree): here, the
// mutex would have had to guard a critical section spanning an mmap(2)
// syscall, which is exactly the kind of long hold the cache is trying to
// avoid.
type Cache struct {
	refCount int

	minWindows int
	windowSize int64

	// immediateFree is the policy a winmap.smallwindows build turns on by
	// default (see defaultImmediateFree): rather than parking a
	// newly-unreferenced window on the unused list for later reuse, unmap
	// it immediately. Exposed as a runtime option so tests can exercise the
	// policy deterministically without a build tag.
	immediateFree bool

	popper SigbusPopper
	abort  func(format string, args ...interface{})

	fds map[int]*FD

	contexts [MaxContexts]*Context

	unusedHead *Window // most recently unused
	unusedTail *Window // least recently used; next eviction victim

	nWindows int

	nContextCacheHits uint64
	nWindowListHits   uint64
	nMisses           uint64
}

// New creates a Cache with the given options applied over the documented
// defaults (MinWindows windows before eviction kicks in, WindowSize bytes
// per window, no SIGBUS popper, an abort hook that calls log.Fatalf).
//
// The returned Cache starts with a reference count of one; call Ref/Unref
// to share it across owners, and call Unref when done with it to release
// every window it holds.
func New(opts ...Option) (*Cache, error) {
	c := &Cache{
		refCount:      1,
		minWindows:    MinWindows,
		windowSize:    WindowSize,
		immediateFree: defaultImmediateFree,
		abort:         defaultAbort,
		fds:           make(map[int]*FD),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// Ref increments the cache's reference count.
func (c *Cache) Ref() {
	c.refCount++
}

// Unref decrements the cache's reference count. When it reaches zero every
// remaining window is unmapped and every file handle is forgotten.
func (c *Cache) Unref() {
	c.refCount--
	if c.refCount > 0 {
		return
	}

	for i := range c.contexts {
		c.contexts[i] = nil
	}

	for raw, fd := range c.fds {
		c.destroyFDWindows(fd)
		delete(c.fds, raw)
	}

	c.unusedHead = nil
	c.unusedTail = nil
}

func defaultAbort(format string, args ...interface{}) {
	fatalLogger.Printf(format, args...)
	fatalExit()
}
