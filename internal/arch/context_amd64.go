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

import (
	"unsafe"

	"github.com/talismancer/cco-go/internal/cpuid"
	"github.com/talismancer/cco-go/internal/stackalloc"
)

// Buffer layout (offsets in bytes). Every group has a fixed slot
// regardless of Settings so the hand-written assembly in
// switch_amd64.s can address each field without a per-call offset
// table; Settings only controls whether a slot's save/restore
// instruction executes, the same bitmask-gated approach the reference
// C implementation's cco_cswitch uses. ContextSize, by contrast,
// reports the variable size a packed buffer would need, per the
// original sizer contract.
const (
	offSettings = 0
	offRSP      = 8
	offRBX      = 16
	offRBP      = 24
	offR12      = 32
	offR13      = 40
	offR14      = 48
	offR15      = 56
	offFlags    = 64
	offFXSAVE   = 80 // 16-byte aligned
	offFSBase   = 592
	offGSBase   = 600
	offDR0      = 608

	maxContextSize = 656
	contextAlign   = 16
)

const fxsaveSize = 512

// ContextSize reports the number of bytes a packed register image
// needs for the given Settings: the unconditional general-purpose
// group plus whichever optional groups are requested and, for
// FPU|SSE, actually supported by the host CPU.
//
// Segment and Debug contribute their documented byte counts to this
// sizer for parity with the reference implementation even though
// Switch does not exchange them on amd64 (see the Settings doc
// comments).
func ContextSize(s Settings) int {
	size := offFlags // settings + rsp + 6 callee-saved registers
	if s.has(Flags) {
		size += 8
	}
	if s.has(FPU) && s.has(SSE) && cpuid.HasFXSAVE() {
		size = roundUp16(size) + fxsaveSize
	}
	if s.has(Segment) {
		size += 16
	}
	if s.has(Debug) {
		size += 48
	}
	// Control is accepted but never contributes: see Settings docs.
	return size
}

func roundUp16(n int) int { return (n + 15) &^ 15 }

// DefaultSettings is the Settings amd64 coroutines use unless the
// caller overrides them: flags and the combined FPU/SSE block when the
// host CPU supports FXSAVE.
func DefaultSettings() Settings {
	s := Flags
	if cpuid.HasFXSAVE() {
		s |= FPU | SSE
	}
	return s
}

// Prepare allocates a saved-register buffer and primes it so that a
// Switch into this Context lands inside entryTrampoline running on top
// of stack, with arg recoverable as the trampoline's hidden argument.
//
// entryTrampoline must never return through the normal Go call/ret
// sequence; it is reached by Switch's RET instruction popping the
// synthesized return address this function writes to the top of
// stack, exactly as a live coroutine's own suspend/resume cycle
// reaches its resume point.
func Prepare(stack []byte, entryTrampoline uintptr, arg unsafe.Pointer, settings Settings) (*Context, error) {
	if len(stack) < 256 {
		return nil, errInvalidStack
	}
	buf, err := stackalloc.AllocateAligned(maxContextSize, contextAlign)
	if err != nil {
		return nil, err
	}
	b := buf.Bytes()

	// Carve the synthesized call frame off the top of the stack: the
	// return address entryTrampoline is reached through, at 16-byte
	// alignment as the amd64 ABI requires at a function's entry point.
	sp := uintptr(unsafe.Pointer(&stack[len(stack)-1])) &^ 0xf
	sp -= 8
	*(*uintptr)(unsafe.Pointer(sp)) = entryTrampoline

	putUintptr(b, offRSP, sp)
	// The entry trampoline recovers arg from RBX, the first
	// callee-saved register Switch restores before its RET.
	putUintptr(b, offRBX, uintptr(arg))
	putUintptr(b, offSettings, uintptr(settings))

	return &Context{buf: b, settings: settings, alloc: buf}, nil
}

func putUintptr(b []byte, off int, v uintptr) {
	*(*uintptr)(unsafe.Pointer(&b[off])) = v
}

// NewContext allocates a bare saved-register buffer with no primed
// entry point or stack, for a Context that is only ever a Switch
// destination to save into — the main-context sentinel's own
// register snapshot.
func NewContext(settings Settings) (*Context, error) {
	buf, err := stackalloc.AllocateAligned(maxContextSize, contextAlign)
	if err != nil {
		return nil, err
	}
	b := buf.Bytes()
	putUintptr(b, offSettings, uintptr(settings))
	return &Context{buf: b, settings: settings, alloc: buf}, nil
}

// Arg returns the value Prepare stashed for the entry trampoline. Only
// meaningful on a Context that has not yet been switched into.
func (c *Context) Arg() unsafe.Pointer {
	return unsafe.Pointer(*(*uintptr)(unsafe.Pointer(&c.buf[offRBX])))
}

// SP returns the stack pointer a suspended Context will resume with.
func (c *Context) SP() uintptr { return *(*uintptr)(unsafe.Pointer(&c.buf[offRSP])) }
