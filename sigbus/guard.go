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

package sigbus

import "runtime/debug"

// Guard runs fn with the current goroutine's panic-on-fault behavior
// enabled (see runtime/debug.SetPanicOnFault) and recovers a resulting
// fault instead of letting it crash the process. fn should do nothing more
// than the memory access being guarded: a window read or a copy out of
// one, for example. If the access faults, the faulting address is recorded
// on q and faulted is true; otherwise faulted is false and any panic
// unrelated to a memory fault propagates normally.
//
// Guard must be called on every goroutine that dereferences bytes backed
// by a winmap window if that window's fault is to be recoverable at all:
// SetPanicOnFault's effect is scoped to the calling goroutine.
func Guard(q *Queue, fn func()) (faulted bool) {
	old := debug.SetPanicOnFault(true)
	defer debug.SetPanicOnFault(old)

	defer func() {
		r := recover()
		if r == nil {
			return
		}

		if addressable, ok := r.(interface{ Addr() uintptr }); ok {
			q.push(addressable.Addr())
			faulted = true
			return
		}

		panic(r)
	}()

	fn()
	return false
}
