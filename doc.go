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

// Package winmap implements a windowed mmap cache: bounded-size pool of
// shared mmap'd regions ("windows") over a set of registered file
// descriptors, with a small-integer "context" fast path for repeat callers
// and SIGBUS-driven fault invalidation.
//
// The primary elements of interest are:
//
//   - Cache, the root object. Create one with New.
//
//   - FD, a registered file descriptor, created with (*Cache).AddFD.
//
//   - (*Cache).Get, which returns a []byte window into a file for some
//     (offset, size), reusing an existing mapping when possible.
//
//   - SigbusPopper, the interface a caller supplies (see package sigbus for
//     a reference implementation) so that (*Cache).ProcessSigbus can turn
//     asynchronous bus faults into ordinary errors.
//
// A Cache is not safe for concurrent use; see the package-level comment on
// Cache for the exact concurrency contract.
package winmap
