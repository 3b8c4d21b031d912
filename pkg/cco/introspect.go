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

// GetState returns c's current lifecycle state.
func GetState(c *Coroutine) (State, error) {
	if c == nil {
		setLastError(ErrInvalidArgument)
		return StateNone, ErrInvalidArgument
	}
	setLastError(ErrOK)
	return c.state, nil
}

// StackSize returns the size, in bytes, of the stack c was created
// with. c must not be a thread's main context.
func StackSize(c *Coroutine) (int, error) {
	if c == nil {
		setLastError(ErrInvalidArgument)
		return 0, ErrInvalidArgument
	}
	if c.isMain {
		setLastError(ErrInvalidContext)
		return 0, ErrInvalidContext
	}
	setLastError(ErrOK)
	return len(c.stack), nil
}

// StackUsage returns the number of bytes of c's stack that are
// currently in use: 0 for an unscheduled coroutine, otherwise computed
// from c's saved stack pointer, or from the live stack pointer when c
// is the coroutine calling it. It is only meaningful while c is
// suspended; calling it on the running coroutine (including from
// inside itself) returns a snapshot that keeps changing underneath the
// caller.
func StackUsage(c *Coroutine) (int, error) {
	if c == nil {
		setLastError(ErrInvalidArgument)
		return 0, ErrInvalidArgument
	}
	if c.isMain {
		setLastError(ErrInvalidContext)
		return 0, ErrInvalidContext
	}
	if c.state == StateUnscheduled {
		setLastError(ErrOK)
		return 0, nil
	}
	base := uintptr(unsafe.Pointer(&c.stack[0]))
	top := base + uintptr(len(c.stack))
	sp := contextSP(c)
	if sp < base || sp > top {
		setLastError(ErrInvalidContext)
		return 0, ErrInvalidContext
	}
	setLastError(ErrOK)
	return int(top - sp), nil
}

func contextSP(c *Coroutine) uintptr {
	if c.state == StateRunning && c == current() {
		return arch.CurrentStackPointer()
	}
	return c.ctx.SP()
}

// ReturnValue returns the value passed to the most recent Return,
// Yield, or (if c has never run) nil. c must not be a thread's main
// context.
func ReturnValue(c *Coroutine) (unsafe.Pointer, error) {
	if c == nil {
		setLastError(ErrInvalidArgument)
		return nil, ErrInvalidArgument
	}
	if c.isMain {
		setLastError(ErrInvalidContext)
		return nil, ErrInvalidContext
	}
	setLastError(ErrOK)
	return c.returnValue, nil
}
