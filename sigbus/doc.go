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

// Package sigbus is a reference implementation of winmap.SigbusPopper.
//
// The original C design this is adapted from installs a sigaction(2)
// handler and reads the faulting address straight out of siginfo_t.si_addr.
// Go cannot portably register a raw SA_SIGINFO handler without cgo — there
// is no way to hand the kernel a C function pointer into Go code — so this
// package instead leans on runtime/debug.SetPanicOnFault: with it enabled,
// an invalid memory access that would otherwise crash the process is
// delivered to the accessing goroutine as a recoverable panic whose value
// implements interface{ Addr() uintptr }, which is exactly the address this
// package needs.
//
// Create a Queue with NewQueue. Wrap every piece of code that dereferences
// a winmap-backed slice in Guard, which turns on SetPanicOnFault for the
// duration of that access; a fault during it is recorded on the Queue
// instead of propagating. Pass the Queue itself to
// winmap.WithSigbusPopper.
package sigbus
