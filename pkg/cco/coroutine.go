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

// Package cco implements a user-space stackful coroutine: an object
// that owns a private stack and a saved CPU register snapshot and can
// be entered, suspended, resumed, and finalized by cooperative control
// transfers within a single OS thread.
//
// Every operation in this package is scoped to the calling OS thread.
// Go's scheduler is free to migrate a goroutine between OS threads
// between any two function calls, which would silently violate that
// scoping; callers that start or resume a coroutine from a goroutine
// must bracket the coroutine's lifetime with runtime.LockOSThread and
// runtime.UnlockOSThread themselves. This package does not call either
// for you, the same way the reference C implementation leaves thread
// affinity to its caller.
package cco

import (
	"unsafe"

	"github.com/talismancer/cco-go/internal/arch"
	"github.com/talismancer/cco-go/internal/hosttid"
	"github.com/talismancer/cco-go/internal/machine"
	"github.com/talismancer/cco-go/internal/stackalloc"
)

// State is a coroutine's position in its lifecycle.
type State uint

const (
	// StateNone is the zero value and never observed on a live
	// Coroutine; it exists so a State read from a freed or
	// never-initialized record is visibly invalid rather than
	// coincidentally equal to StateUnscheduled.
	StateNone State = iota
	// StateUnscheduled is a coroutine that has never run, or that has
	// run to completion (Return) and not been Started again.
	StateUnscheduled
	// StateSuspended is a coroutine that has called Suspend or Yield
	// and is waiting to be Resumed.
	StateSuspended
	// StateRunning is a coroutine presently executing, or a main
	// context while it holds the CPU.
	StateRunning
)

var stateStrings = [...]string{
	StateNone:        "none",
	StateUnscheduled: "unscheduled",
	StateSuspended:   "suspended",
	StateRunning:     "running",
}

// String implements fmt.Stringer.
func (s State) String() string {
	if int(s) < len(stateStrings) {
		return stateStrings[s]
	}
	return "invalid"
}

// AwaitFunc is a predicate or suspend hook registered with
// RegisterAwaitable; see await.go.
type AwaitFunc func(c *Coroutine, arg unsafe.Pointer) bool

// Coroutine is a single user-space stackful coroutine. The zero value
// is not a valid Coroutine; obtain one from Create.
type Coroutine struct {
	ctx      *arch.Context
	settings arch.Settings
	stack    stackalloc.Stack

	caller   *Coroutine
	callback func(arg unsafe.Pointer)
	arg      unsafe.Pointer

	returnValue unsafe.Pointer
	state       State

	awaitReady     AwaitFunc
	awaitOnSuspend AwaitFunc

	isMain bool
}

var registry = machine.NewRegistry[*Coroutine]()

func currentSlot() *machine.Slot[*Coroutine] {
	return registry.Slot(hosttid.Current())
}

// current returns the calling thread's current Coroutine, creating and
// installing that thread's main-context sentinel on first use. It is
// never nil.
func current() *Coroutine {
	slot := currentSlot()
	if c := slot.Current(); c != nil {
		return c
	}
	settings := arch.DefaultSettings()
	ctx, err := arch.NewContext(settings)
	if err != nil {
		// The main sentinel's register snapshot is load-bearing for
		// every Start on this thread; there is no degraded mode to
		// fall back to.
		panic("cco: allocating main context: " + err.Error())
	}
	main := &Coroutine{ctx: ctx, settings: settings, state: StateRunning, isMain: true}
	slot.SetCurrent(main)
	return main
}

func setCurrent(c *Coroutine) { currentSlot().SetCurrent(c) }

// ThisCoroutine returns the coroutine presently running on the calling
// thread, or nil if the thread is running its main context.
func ThisCoroutine() *Coroutine {
	c := current()
	_ = setLastError(ErrOK)
	if c.isMain {
		return nil
	}
	return c
}

// Create allocates a new coroutine with the given stack size (in
// bytes) and optional register Settings (nil selects the arch
// package's defaults). stackSize must be greater than zero. The
// returned coroutine starts in StateUnscheduled.
func Create(stackSize int, settings *arch.Settings) (*Coroutine, error) {
	if stackSize <= 0 {
		return nil, setLastError(ErrInvalidArgument)
	}
	s := arch.DefaultSettings()
	if settings != nil {
		s = *settings
	}

	stack, err := stackalloc.Allocate(stackSize)
	if err != nil {
		setLastError(ErrNoMemory)
		return nil, ErrNoMemory
	}

	c := &Coroutine{stack: stack, settings: s, state: StateUnscheduled}

	ctx, err := arch.Prepare(stack, entryTrampolineAddr(), unsafe.Pointer(c), s)
	if err != nil {
		stackalloc.Free(stack)
		setLastError(ErrNoMemory)
		return nil, ErrNoMemory
	}
	c.ctx = ctx

	setLastError(ErrOK)
	return c, nil
}

// Destroy releases a coroutine's stack and saved context. c must not
// be nil, must not be a thread's main context, and must not be the
// coroutine presently running on the calling thread.
func Destroy(c *Coroutine) error {
	if c == nil || c.isMain {
		return setLastError(ErrInvalidArgument)
	}
	if c == current() {
		return setLastError(ErrInvalidContext)
	}
	stackalloc.Free(c.stack)
	c.stack = nil
	c.ctx.Free()
	c.ctx = nil
	return setLastError(ErrOK)
}
