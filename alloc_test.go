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
	"testing"

	"github.com/kylelemons/godebug/pretty"
)

func TestComputeWindowBounds(t *testing.T) {
	const ps = 4096

	testCases := []struct {
		name       string
		windowSize int64
		offset     int64
		size       int64
		stat       *Stat
		wantOffset int64
		wantSize   int64
		wantErr    error
	}{
		{
			name:       "smaller than window size is padded",
			windowSize: 8 * ps,
			offset:     100,
			size:       10,
			wantOffset: 0,
			wantSize:   8 * ps,
		},
		{
			name:       "request already page aligned and window-sized",
			windowSize: ps,
			offset:     ps,
			size:       ps,
			wantOffset: ps,
			wantSize:   ps,
		},
		{
			name:       "padding never goes negative",
			windowSize: 8 * ps,
			offset:     0,
			size:       1,
			wantOffset: 0,
			wantSize:   8 * ps,
		},
		{
			name:       "clamped to EOF",
			windowSize: 8 * ps,
			offset:     0,
			size:       1,
			stat:       &Stat{Size: 2 * ps},
			wantOffset: 0,
			wantSize:   2 * ps,
		},
		{
			name:       "starting at or past EOF fails",
			windowSize: 8 * ps,
			offset:     4 * ps,
			size:       1,
			stat:       &Stat{Size: 4 * ps},
			wantErr:    ErrAddrNotAvailable,
		},
	}

	for _, tc := range testCases {
		c := &Cache{windowSize: tc.windowSize}

		gotOffset, gotSize, err := c.computeWindowBounds(tc.offset, tc.size, tc.stat)
		if err != tc.wantErr {
			t.Errorf("%s: err = %v, want %v", tc.name, err, tc.wantErr)
			continue
		}
		if tc.wantErr != nil {
			continue
		}

		want := struct{ Offset, Size int64 }{tc.wantOffset, tc.wantSize}
		got := struct{ Offset, Size int64 }{gotOffset, gotSize}
		if diff := pretty.Compare(want, got); diff != "" {
			t.Errorf("%s: bounds mismatch (-want +got):\n%s", tc.name, diff)
		}
	}
}
