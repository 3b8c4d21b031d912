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

// Package arch isolates every piece of code that knows the layout of a
// CPU register file. Nothing outside this package, and nothing outside
// the per-GOARCH files within it, may read or write a register.
package arch

import (
	"fmt"

	"github.com/talismancer/cco-go/internal/stackalloc"
)

// Settings is a bitmask selecting which optional register groups a
// Context saves and restores across a Switch. The unconditional groups
// (general-purpose, instruction pointer, stack pointer) are always
// exchanged regardless of Settings.
type Settings uint32

// Optional register groups. Not every group is meaningful on every
// GOARCH; a group with no equivalent on the running architecture is
// accepted by Settings but contributes nothing to ContextSize.
const (
	// Flags exchanges the CPU flags register (RFLAGS on amd64). The
	// arm64 Switch does not exchange NZCV.
	Flags Settings = 1 << iota

	// FPU exchanges the x87/MMX register file.
	FPU

	// SSE exchanges the vector register file (XMM0-15 on amd64).
	// Combined with FPU on amd64 into a single FXSAVE area when both bits
	// are set and the CPU supports FXSAVE. The arm64 Switch does not
	// exchange the vector registers.
	SSE

	// Segment selects the segment/thread-pointer group (FS.base/GS.base
	// on amd64). It is accepted and, on amd64, counted by ContextSize,
	// but no Switch exchanges it: FS.base, GS.base and the arm64 TLS
	// register are left untouched.
	Segment

	// Debug exchanges hardware breakpoint/watchpoint registers.
	// Accepted for API symmetry; the debug registers are not readable
	// or writable from user space on any Go-supported GOARCH, so, like
	// Segment, this bit is never actually exchanged.
	Debug

	// Control exchanges privileged control registers. Accepted for API
	// symmetry with the reference C implementation this package's
	// design is ported from; unprivileged user-space code cannot read
	// or write these registers, so this bit costs nothing and is
	// never actually exchanged on any Go-supported GOARCH.
	Control
)

func (s Settings) has(bit Settings) bool { return s&bit != 0 }

// String implements fmt.Stringer.
func (s Settings) String() string {
	if s == 0 {
		return "none"
	}
	names := []struct {
		bit  Settings
		name string
	}{
		{Flags, "flags"}, {FPU, "fpu"}, {SSE, "sse"},
		{Segment, "segment"}, {Debug, "debug"}, {Control, "control"},
	}
	out := ""
	for _, n := range names {
		if s.has(n.bit) {
			if out != "" {
				out += "|"
			}
			out += n.name
		}
	}
	return out
}

// Context is an opaque saved CPU register image plus the Settings it
// was prepared with. Its memory layout is entirely GOARCH-specific;
// callers only ever move a *Context between Prepare and Switch.
type Context struct {
	// buf holds the raw register image. It is always maxContextSize
	// bytes, the fixed per-GOARCH layout, whatever the settings, and
	// starts at a contextAlign boundary.
	buf []byte

	settings Settings

	// alloc is the mmap'd block buf is a sub-slice of. Retained only so
	// Free can hand it back to stackalloc; nothing else may touch it.
	alloc *stackalloc.AlignedBuffer
}

// Settings returns the register groups this Context was prepared with.
func (c *Context) Settings() Settings { return c.settings }

// Free releases the saved-register buffer backing c. c must not be
// used again afterwards.
func (c *Context) Free() error {
	return stackalloc.FreeAligned(c.alloc)
}

// errInvalidStack is returned by Prepare when the supplied stack is too
// small to hold the architecture's minimum call frame.
var errInvalidStack = fmt.Errorf("arch: stack too small")
