// Copyright 2018 The gVisor Authors.
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

package cco

import "unsafe"

// entryTrampoline is implemented in entry_$GOARCH.s. It reads the
// *Coroutine Prepare stashed as this Context's hidden argument out of
// the architecture's designated register and calls coroutineEntry with
// it, using the ordinary ABI0 stack-argument convention the Go
// compiler accepts from hand-written assembly.
func entryTrampoline()

// funcPC recovers the code address backing a Go function value. It
// relies on a funcval's first word being its entry point, true of
// every Go toolchain version this module has been built against but
// not a committed-stable detail of the runtime. Nothing checks the
// recovered address: Prepare stores it as is, and a wrong value only
// shows up when a coroutine is first switched into.
func funcPC(f func()) uintptr {
	return **(**uintptr)(unsafe.Pointer(&f))
}

func entryTrampolineAddr() uintptr {
	return funcPC(entryTrampoline)
}

// coroutineEntry is the first Go code a freshly started coroutine
// executes. It is called from entryTrampoline, never directly.
func coroutineEntry(c *Coroutine) {
	c.state = StateRunning
	c.callback(c.arg)
	returnFrom(c, nil)
}
