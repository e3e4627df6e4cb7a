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

// computeWindowBounds works out the page-aligned, padded (woffset, wsize)
// that should back a request for [offset, offset+size), clamping to stat
// when one is supplied.
func (c *Cache) computeWindowBounds(offset, size int64, stat *Stat) (woffset, wsize int64, err error) {
	if stat != nil && offset >= stat.Size {
		return 0, 0, ErrAddrNotAvailable
	}

	pageSize := systemPageSize()

	woffset = pageAlignDown(offset, pageSize)
	wsize = pageAlignUp(size+(offset-woffset), pageSize)

	if wsize < c.windowSize {
		pad := pageAlignUp((c.windowSize-wsize)/2, pageSize)
		woffset -= pad
		if woffset < 0 {
			woffset = 0
		}
		wsize = c.windowSize
	}

	// woffset <= offset < stat.Size (checked above) always holds here, so
	// there's nothing left to do but clamp the far edge.
	if stat != nil && woffset+wsize > stat.Size {
		wsize = pageAlignUp(stat.Size-woffset, pageSize)
	}

	return woffset, wsize, nil
}

// newOrReusedWindow returns a Window struct to map a fresh range into:
// either a brand new one (when the cache is at or below minWindows or has
// nothing unused to reclaim) or the LRU tail of the unused list, already
// unmapped and detached from its previous FD. fresh reports which case
// happened, for nWindows bookkeeping.
func (c *Cache) newOrReusedWindow() (w *Window, fresh bool) {
	if c.unusedTail == nil || c.nWindows <= c.minWindows {
		return &Window{}, true
	}

	w = c.popUnusedTail()
	if w.mapping != nil {
		munmap(w.mapping)
		w.mapping = nil
	}
	if w.fd != nil {
		removeWindowFromFD(w.fd, w)
	}

	return w, false
}

// allocateWindow maps [woffset, woffset+wsize) of fd into a Window, reusing
// an evicted struct when the cache is above its soft floor, and links the
// result onto fd's window list.
func (c *Cache) allocateWindow(fd *FD, woffset, wsize int64) (*Window, error) {
	w, fresh := c.newOrReusedWindow()

	mapping, err := c.mmapWithRetry(fd, woffset, wsize)
	if err != nil {
		// w was already popped from the unused list, unmapped, and detached
		// from its old FD when !fresh; that window is gone for good, so
		// nWindows must drop even though allocation failed.
		if !fresh {
			c.nWindows--
		}
		return nil, err
	}

	if fresh {
		c.nWindows++
	}

	w.offset = woffset
	w.size = wsize
	w.mapping = mapping
	w.invalidated = false
	w.keepAlways = false
	w.inUnused = false
	w.contextsHead = nil

	addWindowToFD(fd, w)

	return w, nil
}

// mmapWithRetry maps [offset, offset+size) of fd. On ENOMEM it evicts the
// current LRU tail of the unused list, if any, and retries exactly once
// before giving up with ErrNoMemory.
func (c *Cache) mmapWithRetry(fd *FD, offset, size int64) ([]byte, error) {
	data, err := mmap(fd.raw, offset, size, int(fd.prot))
	if err == nil {
		return data, nil
	}
	if err != unix.ENOMEM {
		return nil, wrapMmapErr(err)
	}

	victim := c.popUnusedTail()
	if victim == nil {
		return nil, ErrNoMemory
	}
	if victim.mapping != nil {
		munmap(victim.mapping)
		victim.mapping = nil
	}
	if victim.fd != nil {
		removeWindowFromFD(victim.fd, victim)
	}
	c.nWindows--

	data, err = mmap(fd.raw, offset, size, int(fd.prot))
	if err == unix.ENOMEM {
		return nil, ErrNoMemory
	}
	if err != nil {
		return nil, wrapMmapErr(err)
	}
	return data, nil
}

// mmap is a thin wrapper over unix.Mmap with the one flag this package ever
// uses for live file-backed windows: MAP_SHARED, so writes through a
// ProtReadWrite window are visible to other mappers of the same file.
func mmap(rawFD int, offset, size int64, prot int) ([]byte, error) {
	return unix.Mmap(rawFD, offset, int(size), prot, unix.MAP_SHARED)
}

// munmap unmaps a previously mapped window, discarding any error: by the
// time a window is torn down the cache has nothing further to do with the
// mapping whether or not the kernel was able to unmap cleanly.
func munmap(mapping []byte) {
	_ = unix.Munmap(mapping)
}
