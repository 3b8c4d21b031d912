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

import (
	"unsafe"

	"github.com/talismancer/cco-go/internal/stackalloc"
)

// arm64 has no segment, debug, or control register groups analogous to
// x86's; FPU and SSE collapse into a single NEON group, and flags maps
// to NZCV. The layout reserves slots for NZCV and V8-V15, but
// switch_arm64.s exchanges only SP, LR, FP and X19-X28: no Settings bit
// changes what Switch does here, and NZCV and the NEON registers are
// not saved or restored.
const (
	offSettings = 0
	offSP       = 8
	offLR       = 16
	offFP       = 24 // x29
	offX19      = 32
	offX20      = 40
	offX21      = 48
	offX22      = 56
	offX23      = 64
	offX24      = 72
	offX25      = 80
	offX26      = 88
	offX27      = 96
	offX28      = 104
	offNZCV     = 112
	offNEON     = 128 // 16-byte aligned, V8-V15, 16 bytes each

	maxContextSize = 128 + 16*8
	contextAlign   = 16
)

// ContextSize reports the number of bytes a packed register image
// needs. The general-purpose set and the NZCV slot are always counted;
// Settings.FPU and Settings.SSE both gate the same NEON block. The
// count covers the layout's slots, not what Switch exchanges (see
// above).
func ContextSize(s Settings) int {
	size := offNZCV + 8
	if s.has(FPU) || s.has(SSE) {
		size = maxContextSize
	}
	return size
}

// DefaultSettings selects Flags, FPU and SSE. On arm64 these only
// affect ContextSize; Switch exchanges the same registers either way.
func DefaultSettings() Settings {
	return Flags | FPU | SSE
}

// Prepare allocates a saved-register buffer and primes it so that a
// Switch into this Context lands inside entryTrampoline with arg
// recoverable as its hidden argument, running on top of stack.
func Prepare(stack []byte, entryTrampoline uintptr, arg unsafe.Pointer, settings Settings) (*Context, error) {
	if len(stack) < 256 {
		return nil, errInvalidStack
	}
	buf, err := stackalloc.AllocateAligned(maxContextSize, contextAlign)
	if err != nil {
		return nil, err
	}
	b := buf.Bytes()

	sp := uintptr(unsafe.Pointer(&stack[len(stack)-1])) &^ 0xf

	putUintptr(b, offSP, sp)
	putUintptr(b, offLR, entryTrampoline)
	putUintptr(b, offX19, uintptr(arg))
	putUintptr(b, offSettings, uintptr(settings))

	return &Context{buf: b, settings: settings, alloc: buf}, nil
}

func putUintptr(b []byte, off int, v uintptr) {
	*(*uintptr)(unsafe.Pointer(&b[off])) = v
}

// NewContext allocates a bare saved-register buffer with no primed
// entry point or stack, for a Context that is only ever a Switch
// destination to save into — the main-context sentinel's own register
// snapshot.
func NewContext(settings Settings) (*Context, error) {
	buf, err := stackalloc.AllocateAligned(maxContextSize, contextAlign)
	if err != nil {
		return nil, err
	}
	b := buf.Bytes()
	putUintptr(b, offSettings, uintptr(settings))
	return &Context{buf: b, settings: settings, alloc: buf}, nil
}

// Arg returns the value Prepare stashed for the entry trampoline.
func (c *Context) Arg() unsafe.Pointer {
	return unsafe.Pointer(*(*uintptr)(unsafe.Pointer(&c.buf[offX19])))
}

// SP returns the stack pointer a suspended Context will resume with.
func (c *Context) SP() uintptr { return *(*uintptr)(unsafe.Pointer(&c.buf[offSP])) }
