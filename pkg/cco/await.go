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

// AwaitAlwaysReady is an AwaitFunc that is always ready; Await never
// suspends with it installed.
func AwaitAlwaysReady(*Coroutine, unsafe.Pointer) bool { return true }

// AwaitNeverReady is an AwaitFunc that is never ready; it is the
// default a freshly Started coroutine carries, and is only useful
// paired with a real onSuspend hook via AwaitWith or
// RegisterAwaitable.
func AwaitNeverReady(*Coroutine, unsafe.Pointer) bool { return false }

// RegisterAwaitable installs the ready/onSuspend pair Await uses for
// the calling coroutine until the next call to RegisterAwaitable. It
// must be called from inside a coroutine.
func RegisterAwaitable(ready, onSuspend AwaitFunc) error {
	c := current()
	if c.isMain {
		return setLastError(ErrInvalidContext)
	}
	c.awaitReady = ready
	c.awaitOnSuspend = onSuspend
	return setLastError(ErrOK)
}

// Await suspends the calling coroutine until the ready/onSuspend pair
// last installed with RegisterAwaitable reports readiness. It is
// shorthand for AwaitWith using that pair.
func Await(arg unsafe.Pointer) error {
	c := current()
	if c.isMain {
		return setLastError(ErrInvalidContext)
	}
	return awaitWith(c, c.awaitReady, c.awaitOnSuspend, arg)
}

// AwaitWith is Await with an explicit ready/onSuspend pair instead of
// the one last registered. At least one of ready, onSuspend must be
// non-nil.
func AwaitWith(ready, onSuspend AwaitFunc, arg unsafe.Pointer) error {
	c := current()
	if c.isMain {
		return setLastError(ErrInvalidContext)
	}
	if ready == nil && onSuspend == nil {
		return setLastError(ErrInvalidArgument)
	}
	return awaitWith(c, ready, onSuspend, arg)
}

// awaitWith implements the ready/on_suspend double-chance poll loop:
// check readiness; if not ready, mark the coroutine suspended and give
// the caller (a scheduler, typically) one chance to either complete
// the wait synchronously or register the coroutine for a later
// Resume. The state transition to StateSuspended happens before
// onSuspend runs so a scheduler inspecting c's state from another
// context never observes a stale StateRunning.
func awaitWith(c *Coroutine, ready, onSuspend AwaitFunc, arg unsafe.Pointer) error {
	for {
		if ready != nil && ready(c, arg) {
			return setLastError(ErrOK)
		}
		c.state = StateSuspended
		if onSuspend == nil || onSuspend(c, arg) {
			// No onSuspend hook at all, or the hook asked for a
			// genuine suspend: switch back to the caller. Resume will
			// bring us back here.
			if err := Suspend(); err != nil {
				return err
			}
			continue
		}
		// onSuspend declined to suspend (it resolved the wait itself,
		// e.g. a poll that became ready between the two checks):
		// restore StateRunning and re-poll readiness.
		c.state = StateRunning
	}
}
