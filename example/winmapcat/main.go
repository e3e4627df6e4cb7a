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

// winmapcat is a small demo tool: it opens a file, registers it with a
// winmap.Cache, and copies a requested range of it to stdout via Get,
// printing the cache's debug stats as of the moment it finished.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/jacobsa/timeutil"
	"github.com/jacobsa/winmap"
	"github.com/jacobsa/winmap/sigbus"
)

var fPath = flag.String("path", "", "Path to the file to read from.")
var fOffset = flag.Int64("offset", 0, "Byte offset to start reading at.")
var fSize = flag.Int64("size", 0, "Number of bytes to read.")

func main() {
	flag.Parse()

	if *fPath == "" || *fSize <= 0 {
		log.Fatalf("You must set --path and a positive --size.")
	}

	f, err := os.Open(*fPath)
	if err != nil {
		log.Fatalf("Open: %v", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		log.Fatalf("Stat: %v", err)
	}

	queue := sigbus.NewQueue(256)
	c, err := winmap.New(winmap.WithSigbusPopper(queue))
	if err != nil {
		log.Fatalf("New: %v", err)
	}

	fd, err := c.AddFD(int(f.Fd()), winmap.ProtRead)
	if err != nil {
		log.Fatalf("AddFD: %v", err)
	}

	stat := &winmap.Stat{Size: info.Size()}

	data, err := c.Get(fd, 0, false, *fOffset, *fSize, stat)
	if err != nil {
		log.Fatalf("Get: %v", err)
	}

	// The Get call above only hands back a slice header; the actual
	// dereference of mapped memory happens here, so this is what needs
	// guarding against a SIGBUS raised by a concurrent truncation.
	var writeErr error
	faulted := sigbus.Guard(queue, func() {
		_, writeErr = os.Stdout.Write(data)
	})
	if faulted {
		log.Fatalf("write faulted; file was likely truncated out from under us.")
	}
	if writeErr != nil {
		log.Fatalf("Write: %v", writeErr)
	}

	clock := timeutil.RealClock()
	fmt.Fprintf(os.Stderr, "winmapcat: done as of %v\n", clock.Now())
	c.LogDebugStats()

	c.Unref()
}
