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

// Package stackalloc owns every raw memory allocation a coroutine
// needs: its execution stack and its saved-register buffer. Both are
// mmap'd directly rather than carved out of the Go heap, so the Go
// garbage collector and stack-growth machinery never observe or move
// them — required because the saved register image is switched into
// directly by assembly and a stack walked by foreign (non-Go) frames
// would otherwise confuse the collector's stack scanner.
package stackalloc

import (
	"fmt"
	"unsafe"

	"golang.org/x/sys/unix"
)

const pageSize = 4096

func roundUp(n, multiple int) int {
	if multiple <= 0 {
		return n
	}
	return (n + multiple - 1) / multiple * multiple
}

// Stack is a raw, page-aligned block of memory suitable for use as a
// coroutine's execution stack.
type Stack []byte

// Allocate reserves a zeroed, page-aligned block of at least size
// bytes for use as a coroutine stack.
func Allocate(size int) (Stack, error) {
	if size <= 0 {
		return nil, fmt.Errorf("stackalloc: invalid size %d", size)
	}
	size = roundUp(size, pageSize)
	b, err := unix.Mmap(-1, 0, size, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_PRIVATE|unix.MAP_ANONYMOUS)
	if err != nil {
		return nil, fmt.Errorf("stackalloc: mmap %d bytes: %w", size, err)
	}
	return Stack(b), nil
}

// Free releases a Stack obtained from Allocate.
func Free(s Stack) error {
	if len(s) == 0 {
		return nil
	}
	if err := unix.Munmap(s); err != nil {
		return fmt.Errorf("stackalloc: munmap: %w", err)
	}
	return nil
}

// AlignedBuffer is a raw memory block guaranteed to start at an address
// that is a multiple of the alignment it was requested with.
type AlignedBuffer struct {
	raw    []byte
	offset int
	size   int
}

// Bytes returns the aligned sub-slice of the buffer, exactly size bytes
// long.
func (a *AlignedBuffer) Bytes() []byte { return a.raw[a.offset : a.offset+a.size] }

// AllocateAligned reserves a zeroed block of size bytes whose first
// byte is aligned to align bytes, via a single mmap sized with enough
// slack to guarantee the alignment regardless of where the kernel
// places the mapping. align must be a power of two.
func AllocateAligned(size, align int) (*AlignedBuffer, error) {
	if size <= 0 {
		return nil, fmt.Errorf("stackalloc: invalid size %d", size)
	}
	if align <= 0 || align&(align-1) != 0 {
		return nil, fmt.Errorf("stackalloc: invalid alignment %d", align)
	}
	mapSize := roundUp(size+align, pageSize)
	raw, err := unix.Mmap(-1, 0, mapSize, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_PRIVATE|unix.MAP_ANONYMOUS)
	if err != nil {
		return nil, fmt.Errorf("stackalloc: mmap %d bytes: %w", mapSize, err)
	}
	base := uintptr(unsafe.Pointer(&raw[0]))
	aligned := roundUpUintptr(base, uintptr(align))
	offset := int(aligned - base)
	return &AlignedBuffer{raw: raw, offset: offset, size: size}, nil
}

// FreeAligned releases a buffer obtained from AllocateAligned.
func FreeAligned(a *AlignedBuffer) error {
	if a == nil || len(a.raw) == 0 {
		return nil
	}
	if err := unix.Munmap(a.raw); err != nil {
		return fmt.Errorf("stackalloc: munmap: %w", err)
	}
	return nil
}

func roundUpUintptr(n, multiple uintptr) uintptr {
	return (n + multiple - 1) / multiple * multiple
}
