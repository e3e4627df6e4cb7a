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

import "os"

const (
	// MaxContexts is the number of small-integer context slots a Cache
	// maintains for O(1) repeat lookups.
	MaxContexts = 32

	// MinWindows is the soft floor: while the cache holds at most this many
	// windows it always allocates a fresh window rather than reusing the LRU
	// tail of the unused list.
	MinWindows = 64
)

func systemPageSize() int64 {
	return int64(os.Getpagesize())
}

// pageAlignDown rounds n down to the nearest multiple of pageSize. pageSize
// must be a power of two.
func pageAlignDown(n, pageSize int64) int64 {
	return n &^ (pageSize - 1)
}

// pageAlignUp rounds n up to the nearest multiple of pageSize. pageSize must
// be a power of two.
func pageAlignUp(n, pageSize int64) int64 {
	return (n + pageSize - 1) &^ (pageSize - 1)
}
