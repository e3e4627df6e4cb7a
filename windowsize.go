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

// WindowSize is the default padded width of a window, in bytes. A build
// tagged winmap.smallwindows (see windowsize_smallwindows.go) shrinks this
// to a single page, which makes windowing and eviction behavior easy to
// exercise in tests without mapping megabytes of file per case.
var WindowSize int64 = 8 * 1024 * 1024

// defaultImmediateFree is New's default for Cache.immediateFree. Under a
// winmap.smallwindows build it flips to true, so that detaching the last
// context from a window destroys it immediately instead of parking it on
// the LRU, surfacing caller use-after-unmap bugs as a synchronous fault
// instead of letting them hide behind a warm cache.
var defaultImmediateFree = false
