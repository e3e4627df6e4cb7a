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

// Window is a single mmap'd region over some [offset, offset+size) range of
// an FD's file. Windows are created on demand by Get and reused across
// calls whose ranges fall within one.
type Window struct {
	fd      *FD
	offset  int64
	size    int64
	mapping []byte

	// invalidated is set once ProcessSigbus has replaced this window's
	// backing pages with an anonymous mapping, after its fd was poisoned.
	invalidated bool

	// keepAlways is sticky: once any caller asks to keep a window alive, it
	// never returns to the unused list on its own, even after every
	// context referencing it detaches.
	keepAlways bool

	// inUnused is true while this window sits on the cache's unused
	// (LRU-ordered) list.
	inUnused bool

	// fdPrev/fdNext thread this window onto its owning FD's window list.
	fdPrev, fdNext *Window

	// unusedPrev/unusedNext thread this window onto the cache's unused
	// list. Only meaningful while inUnused is true.
	unusedPrev, unusedNext *Window

	// contextsHead is the head of the singly linked list of Contexts
	// currently pointing at this window, threaded through
	// Context.byWindowNext. A window is "active" (ineligible for the
	// unused list) while this is non-nil, or while keepAlways is true.
	contextsHead *Context
}

// contains reports whether the half-open range [offset, offset+size) lies
// entirely within the window.
func (w *Window) contains(offset, size int64) bool {
	return offset >= w.offset && offset+size <= w.offset+w.size
}

// slice returns the sub-slice of the window's mapping corresponding to
// [offset, offset+size). The caller must have already checked contains.
func (w *Window) slice(offset, size int64) []byte {
	start := offset - w.offset
	return w.mapping[start : start+size]
}

// pushUnused inserts w at the head (most-recently-unused end) of the
// cache's unused list.
func (c *Cache) pushUnused(w *Window) {
	w.inUnused = true
	w.unusedPrev = nil
	w.unusedNext = c.unusedHead
	if c.unusedHead != nil {
		c.unusedHead.unusedPrev = w
	}
	c.unusedHead = w
	if c.unusedTail == nil {
		c.unusedTail = w
	}
}

// removeFromUnused unlinks w from the cache's unused list. w must be on it.
func (c *Cache) removeFromUnused(w *Window) {
	if w.unusedPrev != nil {
		w.unusedPrev.unusedNext = w.unusedNext
	} else {
		c.unusedHead = w.unusedNext
	}
	if w.unusedNext != nil {
		w.unusedNext.unusedPrev = w.unusedPrev
	} else {
		c.unusedTail = w.unusedPrev
	}
	w.unusedPrev = nil
	w.unusedNext = nil
	w.inUnused = false
}

// popUnusedTail removes and returns the least-recently-used window, or nil
// if the unused list is empty.
func (c *Cache) popUnusedTail() *Window {
	w := c.unusedTail
	if w == nil {
		return nil
	}
	c.removeFromUnused(w)
	return w
}

// destroyWindowNow unmaps w immediately rather than parking it on the
// unused list. Used when immediateFree is set; tearing down an FD or the
// whole cache goes through destroyFDWindows instead.
func (c *Cache) destroyWindowNow(w *Window) {
	if w.fd != nil {
		removeWindowFromFD(w.fd, w)
	}
	if w.mapping != nil {
		munmap(w.mapping)
		w.mapping = nil
	}
	c.nWindows--
}
