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

package stackalloc

import (
	"testing"
	"unsafe"

	"gotest.tools/v3/assert"
)

func TestAllocateRejectsNonPositiveSize(t *testing.T) {
	_, err := Allocate(0)
	assert.Assert(t, err != nil)
	_, err = Allocate(-1)
	assert.Assert(t, err != nil)
}

func TestAllocateRoundsUpToPageSize(t *testing.T) {
	s, err := Allocate(1)
	assert.NilError(t, err)
	defer Free(s)
	assert.Equal(t, len(s), pageSize)
}

func TestAllocateAlignedIsAligned(t *testing.T) {
	buf, err := AllocateAligned(700, 16)
	assert.NilError(t, err)
	defer FreeAligned(buf)

	addr := uintptr(unsafe.Pointer(&buf.Bytes()[0]))
	assert.Equal(t, addr%16, uintptr(0))
	assert.Equal(t, len(buf.Bytes()), 700)
}

func TestAllocateAlignedRejectsBadAlignment(t *testing.T) {
	_, err := AllocateAligned(64, 3)
	assert.Assert(t, err != nil)
}
