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

// Context is a small-integer caller-identity slot (0 <= id < MaxContexts)
// that lets a repeat caller skip straight to its last window instead of
// scanning the owning FD's window list. Callers never construct one
// directly; they're allocated lazily by Get/GetContext as contexts are
// named by their integer IDs.
type Context struct {
	id int

	// window is the Window this context currently points at, or nil if it
	// doesn't point at one (e.g. freshly allocated, or just detached).
	window *Window

	// byWindowNext threads this context onto its window's singly linked
	// list of referencing contexts (Window.contextsHead). Detaching
	// requires a linear scan of that list, which is fine: it is bounded by
	// MaxContexts.
	byWindowNext *Context
}

// ensureContext returns the Context for id, allocating it on first use.
func (c *Cache) ensureContext(id int) *Context {
	ctx := c.contexts[id]
	if ctx == nil {
		ctx = &Context{id: id}
		c.contexts[id] = ctx
	}
	return ctx
}

// removeContextFromWindowList unlinks ctx from w's singly linked list of
// referencing contexts.
func removeContextFromWindowList(w *Window, ctx *Context) {
	if w.contextsHead == ctx {
		w.contextsHead = ctx.byWindowNext
		return
	}
	prev := w.contextsHead
	for prev != nil && prev.byWindowNext != ctx {
		prev = prev.byWindowNext
	}
	if prev != nil {
		prev.byWindowNext = ctx.byWindowNext
	}
}

// detachContextFromWindow removes ctx's reference to its current window, if
// any, and parks the window on the unused list (or unmaps it immediately,
// under immediateFree) once no context or keepAlways flag holds it active.
func (c *Cache) detachContextFromWindow(ctx *Context) {
	w := ctx.window
	if w == nil {
		return
	}

	removeContextFromWindowList(w, ctx)
	ctx.window = nil
	ctx.byWindowNext = nil

	if w.contextsHead == nil && !w.keepAlways {
		if c.immediateFree {
			c.destroyWindowNow(w)
		} else {
			c.pushUnused(w)
		}
	}
}

// attachContextToWindow points ctx at w, detaching it from any window it
// previously pointed at and removing w from the unused list if it was
// sitting there.
func (c *Cache) attachContextToWindow(ctx *Context, w *Window) {
	if ctx.window != nil {
		c.detachContextFromWindow(ctx)
	}
	if w.inUnused {
		c.removeFromUnused(w)
	}

	ctx.window = w
	ctx.byWindowNext = w.contextsHead
	w.contextsHead = ctx
}
