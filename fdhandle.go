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

// FD is a file descriptor registered with a Cache. It owns every Window
// mapped over it; freeing it (or dropping the Cache's last reference)
// unmaps them all.
//
// FD carries no lock of its own; see the Cache comment for the concurrency
// contract.
type FD struct {
	cache *Cache

	raw  int
	prot Prot

	// sigbus is latched true the first time ProcessSigbus attributes a
	// fault to a window on this handle. Once true it never goes false
	// again; the handle is poisoned until Free.
	sigbus bool

	// windowsHead is the head of the doubly linked list of windows mapped
	// over this file descriptor, threaded through Window.fdPrev/fdNext.
	windowsHead *Window
}

// AddFD registers rawFD with the cache under the given protection and
// returns a handle for it. Calling AddFD again with the same rawFD returns
// the existing handle; prot is ignored on that second call; the protection
// in effect is whichever was passed the first time a given rawFD was
// registered (first-writer-wins). Callers that need to re-map an fd under
// different protection must Free the old handle first.
func (c *Cache) AddFD(rawFD int, prot Prot) (*FD, error) {
	if fd, ok := c.fds[rawFD]; ok {
		return fd, nil
	}

	fd := &FD{
		cache: c,
		raw:   rawFD,
		prot:  prot,
	}
	c.fds[rawFD] = fd

	return fd, nil
}

// Free unmaps every window held on this handle and forgets it. The handle
// must not be used again afterward.
func (fd *FD) Free() error {
	c := fd.cache

	// Drain any pending faults before tearing down windows, so a bus fault
	// that landed on this handle's own memory doesn't leak past Free as an
	// attributable-to-nothing abort later.
	if err := c.ProcessSigbus(); err != nil {
		return err
	}

	c.destroyFDWindows(fd)
	delete(c.fds, fd.raw)

	return nil
}

// destroyFDWindows unmaps every window on fd's list, detaching any
// contexts still pointing at them, and clears fd.windowsHead. It does not
// remove fd from c.fds.
func (c *Cache) destroyFDWindows(fd *FD) {
	w := fd.windowsHead
	for w != nil {
		next := w.fdNext

		for ctx := w.contextsHead; ctx != nil; {
			nextCtx := ctx.byWindowNext
			ctx.window = nil
			ctx.byWindowNext = nil
			ctx = nextCtx
		}
		w.contextsHead = nil

		if w.inUnused {
			c.removeFromUnused(w)
		}
		if w.mapping != nil {
			munmap(w.mapping)
			w.mapping = nil
		}
		c.nWindows--

		w = next
	}

	fd.windowsHead = nil
}

// addWindowToFD links w onto the head of fd's window list.
func addWindowToFD(fd *FD, w *Window) {
	w.fd = fd
	w.fdPrev = nil
	w.fdNext = fd.windowsHead
	if fd.windowsHead != nil {
		fd.windowsHead.fdPrev = w
	}
	fd.windowsHead = w
}

// removeWindowFromFD unlinks w from its owning fd's window list.
func removeWindowFromFD(fd *FD, w *Window) {
	if w.fdPrev != nil {
		w.fdPrev.fdNext = w.fdNext
	} else if fd.windowsHead == w {
		fd.windowsHead = w.fdNext
	}
	if w.fdNext != nil {
		w.fdNext.fdPrev = w.fdPrev
	}
	w.fdPrev = nil
	w.fdNext = nil
}
