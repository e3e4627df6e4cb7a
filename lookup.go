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

// getImpl is the three-tier lookup algorithm shared by Get and GetContext.
func (c *Cache) getImpl(
	fd *FD,
	ctxID int,
	keepAlways bool,
	offset, size int64,
	stat *Stat) ([]byte, error) {
	if ctxID < 0 || ctxID >= MaxContexts || size <= 0 {
		return nil, ErrInvalidArgument
	}

	// Tier 1: the context fast path.
	ctx := c.contexts[ctxID]
	if ctx != nil && ctx.window != nil {
		w := ctx.window
		if w.fd == fd && w.contains(offset, size) {
			if fd.sigbus {
				return nil, ErrIO
			}
			if keepAlways {
				w.keepAlways = true
			}
			c.nContextCacheHits++
			return w.slice(offset, size), nil
		}
		c.detachContextFromWindow(ctx)
	}

	if fd.sigbus {
		return nil, ErrIO
	}

	// Tier 2: a linear scan of every window already mapped over this file.
	for w := fd.windowsHead; w != nil; w = w.fdNext {
		if w.contains(offset, size) {
			ctx = c.ensureContext(ctxID)
			c.attachContextToWindow(ctx, w)
			if keepAlways {
				w.keepAlways = true
			}
			c.nWindowListHits++
			return w.slice(offset, size), nil
		}
	}

	// Tier 3: miss. Compute a padded, page-aligned, EOF-clamped window and
	// map it fresh (or by reusing the LRU tail of the unused list).
	c.nMisses++

	woffset, wsize, err := c.computeWindowBounds(offset, size, stat)
	if err != nil {
		return nil, err
	}

	w, err := c.allocateWindow(fd, woffset, wsize)
	if err != nil {
		return nil, err
	}

	ctx = c.ensureContext(ctxID)
	c.attachContextToWindow(ctx, w)
	if keepAlways {
		w.keepAlways = true
	}

	return w.slice(offset, size), nil
}
