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
	"context"

	"github.com/jacobsa/reqtrace"
)

// Get returns a []byte view of [offset, offset+size) of fd's file, reusing
// an existing window when one already covers the range and creating a new
// one otherwise.
//
// ctxID identifies the caller for the purposes of the fast-path cache; it
// must satisfy 0 <= ctxID < MaxContexts. Two calls with the same ctxID are
// assumed to come from the same logical caller and may race each other's
// cached window if used concurrently — see the Cache concurrency contract.
//
// If keepAlways is true, the window backing the returned slice is pinned:
// it will not return to the cache's unused (evictable) list even after
// every context referencing it detaches, until the owning FD is freed.
//
// stat, if non-nil, is used to clamp the window to the file's current
// size; passing nil disables EOF-aware clamping and rejection.
//
// The returned slice is only valid until the next call that might evict
// its backing window (any Get/GetContext/ProcessSigbus/Free/Unref call).
//
// Get is a thin, context-free wrapper around GetContext; nothing in the
// lookup algorithm itself ever suspends (see the Cache concurrency
// contract), so the only thing GetContext adds is an optional trace span.
func (c *Cache) Get(
	fd *FD,
	ctxID int,
	keepAlways bool,
	offset, size int64,
	stat *Stat) ([]byte, error) {
	return c.GetContext(context.Background(), fd, ctxID, keepAlways, offset, size, stat)
}

// GetContext is Get, wrapped in a reqtrace span named "winmap.Get" when
// tracing is enabled for ctx. Use this from callers that already carry a
// context.Context through their call chain and want window lookups to show
// up in the resulting trace; plain Get is equivalent otherwise.
func (c *Cache) GetContext(
	ctx context.Context,
	fd *FD,
	ctxID int,
	keepAlways bool,
	offset, size int64,
	stat *Stat) (data []byte, err error) {
	var report reqtrace.ReportFunc
	if reqtrace.Enabled() {
		_, report = reqtrace.StartSpan(ctx, "winmap.Get")
	}

	data, err = c.getImpl(fd, ctxID, keepAlways, offset, size, stat)

	if report != nil {
		report(err)
	}

	return data, err
}
