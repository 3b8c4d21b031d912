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

//go:build arm64
// +build arm64

package arch

//go:noescape
//go:nosplit
func switchRaw(prev, next *Context)

// Switch performs a symmetric context switch: it suspends the caller
// into prev and resumes execution at next.
func Switch(prev, next *Context) {
	switchRaw(prev, next)
}

//go:noescape
func currentSP() uintptr

// CurrentStackPointer returns the calling goroutine's current stack
// pointer.
func CurrentStackPointer() uintptr { return currentSP() }
