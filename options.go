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

// Option configures a Cache at construction time. See New.
type Option func(*Cache)

// WithMinWindows overrides the soft floor at or below which New's Cache
// always allocates a fresh window rather than reusing its LRU tail. The
// default is MinWindows.
func WithMinWindows(n int) Option {
	return func(c *Cache) {
		c.minWindows = n
	}
}

// WithWindowSize overrides the padded width of newly allocated windows. The
// default is WindowSize. Values smaller than a page are rounded up when
// windows are actually sized; see (*Cache).computeWindowBounds.
func WithWindowSize(n int64) Option {
	return func(c *Cache) {
		c.windowSize = n
	}
}

// WithSigbusPopper configures the capability ProcessSigbus uses to drain
// pending fault addresses. Without one, ProcessSigbus and GotSigbus are
// no-ops and no file handle is ever poisoned automatically.
func WithSigbusPopper(p SigbusPopper) Option {
	return func(c *Cache) {
		c.popper = p
	}
}

// WithAbortHook overrides what ProcessSigbus calls when it observes a
// fault it cannot attribute to any known window. The default logs to
// stderr and exits the process; tests that want to observe this condition
// without dying should install their own hook (e.g. one that records the
// message and panics, so the surrounding test can recover() it).
func WithAbortHook(f func(format string, args ...interface{})) Option {
	return func(c *Cache) {
		c.abort = f
	}
}

// WithImmediateFree makes the cache unmap a window the instant its last
// referencing context detaches, rather than parking it on the unused list
// for possible reuse. This trades away reuse of recently-touched windows
// for a much smaller live footprint and deterministic teardown timing,
// which is particularly useful in tests that want to assert a window was
// actually unmapped rather than merely idle.
func WithImmediateFree(b bool) Option {
	return func(c *Cache) {
		c.immediateFree = b
	}
}
