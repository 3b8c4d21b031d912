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

//go:build amd64
// +build amd64

package arch

// switchRaw saves the calling goroutine's callee-saved registers and
// stack pointer into prev's buffer, then loads the same register set
// from next's buffer and transfers control there. Implemented in
// switch_amd64.s; it must not be inlined, reordered, or have its
// register usage second-guessed by the compiler, hence go:noescape
// and go:nosplit rather than an ordinary Go function body.
//
//go:noescape
//go:nosplit
func switchRaw(prev, next *Context)

// Switch performs a symmetric context switch: it suspends the caller
// into prev and resumes execution at next. It returns only once some
// later Switch names prev as its destination again.
func Switch(prev, next *Context) {
	switchRaw(prev, next)
}

// currentSP is implemented in switch_amd64.s; it returns the calling
// goroutine's current stack pointer, used only for stack-usage
// introspection (cco.StackUsage).
//
//go:noescape
func currentSP() uintptr

// CurrentStackPointer returns the calling goroutine's current stack
// pointer.
func CurrentStackPointer() uintptr { return currentSP() }
