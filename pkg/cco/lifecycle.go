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

import (
	"unsafe"

	"github.com/talismancer/cco-go/internal/arch"
)

// Start begins executing callback(arg) inside c on the calling
// thread. c must be in StateUnscheduled. Start does not return until c
// has suspended, yielded, or returned.
func Start(c *Coroutine, callback func(arg unsafe.Pointer), arg unsafe.Pointer) error {
	if c == nil || c.isMain {
		return setLastError(ErrInvalidArgument)
	}
	if callback == nil {
		return setLastError(ErrInvalidArgument)
	}
	if c.state != StateUnscheduled {
		return setLastError(ErrScheduled)
	}

	caller := current()
	c.callback = callback
	c.arg = arg
	c.caller = caller
	c.returnValue = nil
	c.awaitReady = AwaitNeverReady
	c.awaitOnSuspend = nil

	setCurrent(c)
	arch.Switch(caller.ctx, c.ctx)
	// c switched back to caller.ctx via Suspend/Yield/Return; we are the
	// caller again once this returns.
	setCurrent(caller)

	return setLastError(ErrOK)
}

// Resume continues a suspended coroutine c from where it last called
// Suspend, Yield, or Await. c must be in StateSuspended.
func Resume(c *Coroutine) error {
	if c == nil {
		return setLastError(ErrInvalidArgument)
	}
	if c.isMain {
		return setLastError(ErrInvalidContext)
	}
	if c.state != StateSuspended {
		return setLastError(ErrNotSuspended)
	}

	caller := current()
	c.caller = caller
	c.state = StateRunning

	setCurrent(c)
	arch.Switch(caller.ctx, c.ctx)
	setCurrent(caller)

	return setLastError(ErrOK)
}

// Suspend pauses the calling coroutine and switches back to its
// caller. It must be called from inside a coroutine, not from a
// thread's main context. The coroutine resumes where Suspend returns
// once some later Resume names it.
func Suspend() error {
	c := current()
	if c.isMain {
		return setLastError(ErrInvalidContext)
	}
	c.state = StateSuspended
	arch.Switch(c.ctx, c.caller.ctx)
	return setLastError(ErrOK)
}

// Yield is Suspend with a value attached: the value becomes c's
// ReturnValue as observed by the caller immediately after the matching
// Resume or Start call returns, exactly as if the coroutine had
// returned and would run again from the same point on its next Resume.
func Yield(value unsafe.Pointer) error {
	c := current()
	if c.isMain {
		return setLastError(ErrInvalidContext)
	}
	c.returnValue = value
	c.state = StateSuspended
	arch.Switch(c.ctx, c.caller.ctx)
	return setLastError(ErrOK)
}

// Return ends the calling coroutine's current run with the given
// value and switches back to its caller. The coroutine returns to
// StateUnscheduled and may be Started again. It must be called from
// inside a coroutine, not from a thread's main context.
func Return(value unsafe.Pointer) error {
	c := current()
	if c.isMain {
		return setLastError(ErrInvalidContext)
	}
	returnFrom(c, value)
	return setLastError(ErrOK)
}

// returnFrom is Return's body, factored out so the entry trampoline
// (which has no error to propagate and must never fail this call) can
// share it without going through the public, validated entry point.
func returnFrom(c *Coroutine, value unsafe.Pointer) {
	c.returnValue = value
	c.state = StateUnscheduled
	arch.Switch(c.ctx, c.caller.ctx)
}
