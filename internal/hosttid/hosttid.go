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

// Package hosttid gives the calling goroutine's underlying OS thread
// identity. Every cco operation is scoped to a single OS thread: a
// coroutine started on one thread must be suspended and resumed from
// that same thread (runtime.LockOSThread is the caller's
// responsibility, not this package's).
package hosttid

import "golang.org/x/sys/unix"

// Current returns the Linux thread ID of the OS thread the calling
// goroutine is currently running on.
//
// The result is only stable across calls if the goroutine has called
// runtime.LockOSThread; cco relies on that precondition and does not
// enforce it itself.
func Current() int32 {
	return int32(unix.Gettid())
}
