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

// Package machine is the per-OS-thread bookkeeping every cco operation
// consults: which coroutine (if any) is currently running on this
// thread, and the last error this thread's calls produced. It is
// generic over the coroutine record type so it carries no dependency
// on package cco, which is itself built on top of it.
package machine

import "sync"

// Slot is one OS thread's bookkeeping. A zero Slot has no current
// coroutine set; callers use Current's zero value to mean "the main
// context", exactly like cco's main-context sentinel.
type Slot[T any] struct {
	mu      sync.Mutex
	current T
	lastErr uint
}

// Current returns the coroutine this thread is presently running.
func (s *Slot[T]) Current() T {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// SetCurrent updates the coroutine this thread is presently running.
func (s *Slot[T]) SetCurrent(v T) {
	s.mu.Lock()
	s.current = v
	s.mu.Unlock()
}

// LastError returns the last error code recorded on this thread.
func (s *Slot[T]) LastError() uint {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

// SetLastError records an error code on this thread. Every public cco
// operation calls this, success included, so LastError always reflects
// the most recent call.
func (s *Slot[T]) SetLastError(code uint) {
	s.mu.Lock()
	s.lastErr = code
	s.mu.Unlock()
}

// Registry hands out one Slot per OS thread ID, creating it lazily on
// first use and keeping the same pointer alive for the thread's
// lifetime.
type Registry[T any] struct {
	mu    sync.Mutex
	slots map[int32]*Slot[T]
}

// NewRegistry constructs an empty Registry.
func NewRegistry[T any]() *Registry[T] {
	return &Registry[T]{slots: make(map[int32]*Slot[T])}
}

// Slot returns the Slot for the given OS thread ID, creating it if
// this is the thread's first call into the registry.
func (r *Registry[T]) Slot(tid int32) *Slot[T] {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.slots[tid]; ok {
		return s
	}
	s := &Slot[T]{}
	r.slots[tid] = s
	return s
}
