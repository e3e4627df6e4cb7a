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
	"fmt"
	"unsafe"

	"golang.org/x/sys/unix"
)

// SigbusPopper is the capability a Cache needs in order to recover from
// SIGBUS faults caused by reading a truncated file through one of its
// windows. It is the cache's only point of contact with signal handling;
// installing the actual handler, and deciding which faulting addresses are
// this cache's problem, are entirely up to the implementation supplied
// here. See package sigbus for a reference implementation built on
// runtime/debug.SetPanicOnFault.
type SigbusPopper interface {
	// Pop returns the next recorded faulting address, if any. ok is false
	// when the queue is currently empty; err is non-nil only if the popper
	// itself failed in some way unrelated to "queue empty".
	Pop() (addr uintptr, ok bool, err error)
}

// ProcessSigbus drains every pending fault from the cache's configured
// SigbusPopper (a no-op if none was configured via WithSigbusPopper) and,
// for each one, walks every registered file descriptor's windows looking
// for the one containing the faulting address.
//
// A fault attributed to a window poisons that window's owning FD: every
// call to Get against it fails with ErrIO from then on, and every window
// currently mapped over it is replaced with an anonymous, zero-filled
// mapping at the same address so that further reads return zeroes
// instead of raising SIGBUS again.
//
// A fault that cannot be attributed to any window is, by construction,
// something this cache cannot safely recover from — continuing to run
// risks silently handing out corrupted memory to some other window — so it
// is reported to the configured abort hook (log.Fatalf by default; see
// WithAbortHook) rather than returned as an error.
func (c *Cache) ProcessSigbus() error {
	if c.popper == nil {
		return nil
	}

	anyPoisoned := false

	for {
		addr, ok, err := c.popper.Pop()
		if err != nil {
			return err
		}
		if !ok {
			break
		}

		matched := false
		for _, fd := range c.fds {
			for w := fd.windowsHead; w != nil; w = w.fdNext {
				if windowContainsAddr(w, addr) {
					fd.sigbus = true
					matched = true
					anyPoisoned = true
					break
				}
			}
			if matched {
				break
			}
		}

		if !matched {
			c.abort("winmap: SIGBUS at %#x attributable to no known window", addr)
		}
	}

	if !anyPoisoned {
		return nil
	}

	for _, fd := range c.fds {
		if !fd.sigbus {
			continue
		}
		for w := fd.windowsHead; w != nil; w = w.fdNext {
			if w.invalidated {
				continue
			}
			if err := invalidateWindow(w); err != nil {
				return err
			}
		}
	}

	return nil
}

// GotSigbus drains the cache's pending faults and reports whether fd has
// been poisoned, either by this call or by an earlier one.
func (fd *FD) GotSigbus() (bool, error) {
	if err := fd.cache.ProcessSigbus(); err != nil {
		return fd.sigbus, err
	}
	return fd.sigbus, nil
}

func windowContainsAddr(w *Window, addr uintptr) bool {
	if len(w.mapping) == 0 {
		return false
	}
	base := uintptr(unsafe.Pointer(&w.mapping[0]))
	return addr >= base && addr < base+uintptr(len(w.mapping))
}

// invalidateWindow replaces w's backing pages with an anonymous, zeroed
// mapping at the same address and length, so that further reads succeed
// (returning zeroes) instead of raising SIGBUS again.
func invalidateWindow(w *Window) error {
	base := uintptr(unsafe.Pointer(&w.mapping[0]))
	if err := mmapFixedAnon(base, len(w.mapping), int(w.fd.prot)); err != nil {
		return err
	}
	w.invalidated = true
	return nil
}

// mmapFixedAnon maps length bytes of anonymous, zero-filled memory at the
// exact address addr (MAP_FIXED), replacing whatever was mapped there
// before. unix.Mmap has no way to request a specific address, so this goes
// through the raw syscall directly, the same way unix.Kill is used directly
// for process-signaling elsewhere in this dependency's ecosystem.
func mmapFixedAnon(addr uintptr, length int, prot int) error {
	const noFD = ^uintptr(0) // -1, required by MAP_ANON

	r1, _, errno := unix.Syscall6(
		unix.SYS_MMAP,
		addr,
		uintptr(length),
		uintptr(prot),
		uintptr(unix.MAP_FIXED|unix.MAP_PRIVATE|unix.MAP_ANON),
		noFD,
		0)
	if errno != 0 {
		return errno
	}
	if r1 != addr {
		return fmt.Errorf("winmap: anonymous remap landed at %#x, wanted %#x", r1, addr)
	}
	return nil
}
