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
	"flag"
	"io"
	"io/ioutil"
	"log"
	"os"
	"sync"
)

var fEnableDebug = flag.Bool(
	"winmap.debug",
	false,
	"Write winmap debugging messages to stderr.")

var gLogger *log.Logger
var gLoggerOnce sync.Once

func initLogger() {
	if !flag.Parsed() {
		panic("initLogger called before flags available.")
	}

	var writer io.Writer = ioutil.Discard
	if *fEnableDebug {
		writer = os.Stderr
	}

	const flags = log.Ldate | log.Ltime | log.Lmicroseconds | log.Lshortfile
	gLogger = log.New(writer, "winmap: ", flags)
}

func getLogger() *log.Logger {
	gLoggerOnce.Do(initLogger)
	return gLogger
}

// LogDebugStats writes a one-line summary of the cache's current window
// count and lookup counters to the debug logger (see the winmap.debug
// flag). It is a no-op, aside from the cost of formatting, unless that
// flag is set.
func (c *Cache) LogDebugStats() {
	s := c.Stats()
	getLogger().Printf(
		"windows=%d context_hits=%d window_hits=%d misses=%d",
		c.nWindows, s.ContextCacheHits, s.WindowListHits, s.Misses)
}

// fatalLogger always writes to stderr, independent of the winmap.debug
// flag: an abort is happening whether or not the caller asked for verbose
// logging.
var fatalLogger = log.New(os.Stderr, "winmap: fatal: ", log.Ldate|log.Ltime|log.Lmicroseconds)

// fatalExit terminates the process; defaultAbort calls it after logging.
// WithAbortHook replaces defaultAbort as a whole, so a cache with its own
// hook never reaches this.
var fatalExit = func() {
	os.Exit(1)
}
