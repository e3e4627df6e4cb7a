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

// Stats is a snapshot of a Cache's lookup counters.
type Stats struct {
	// ContextCacheHits counts Get calls served by tier 1, the per-context
	// fast path.
	ContextCacheHits uint64

	// WindowListHits counts Get calls served by tier 2, a scan of the
	// target file's already-mapped windows.
	WindowListHits uint64

	// Misses counts Get calls that found no existing window covering the
	// request and so went on to map a new one, including calls whose
	// sizing or mapping then failed.
	Misses uint64
}

// Stats returns a snapshot of the cache's lookup counters.
func (c *Cache) Stats() Stats {
	return Stats{
		ContextCacheHits: c.nContextCacheHits,
		WindowListHits:   c.nWindowListHits,
		Misses:           c.nMisses,
	}
}
