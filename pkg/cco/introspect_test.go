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

package cco_test

import (
	"testing"
	"unsafe"

	"gotest.tools/v3/assert"

	"github.com/talismancer/cco-go/pkg/cco"
)

func TestStackSizeRejectsNil(t *testing.T) {
	lockThread(t)
	_, err := cco.StackSize(nil)
	assert.ErrorIs(t, err, cco.ErrInvalidArgument)
}

func TestStackSizeMatchesRequested(t *testing.T) {
	lockThread(t)
	c, err := cco.Create(128*1024, nil)
	assert.NilError(t, err)
	defer cco.Destroy(c)

	size, err := cco.StackSize(c)
	assert.NilError(t, err)
	assert.Assert(t, size >= 128*1024)
}

func TestStackUsageWhileSuspended(t *testing.T) {
	lockThread(t)
	c, err := cco.Create(256*1024, nil)
	assert.NilError(t, err)
	defer cco.Destroy(c)

	cco.Start(c, func(arg unsafe.Pointer) {
		cco.Suspend()
	}, nil)

	usage, err := cco.StackUsage(c)
	assert.NilError(t, err)
	assert.Assert(t, usage > 0)

	assert.NilError(t, cco.Resume(c))
}

func TestStackUsageUnscheduledIsZero(t *testing.T) {
	lockThread(t)
	c, err := cco.Create(64*1024, nil)
	assert.NilError(t, err)
	defer cco.Destroy(c)

	state, err := cco.GetState(c)
	assert.NilError(t, err)
	assert.Equal(t, state, cco.StateUnscheduled)

	usage, err := cco.StackUsage(c)
	assert.NilError(t, err)
	assert.Equal(t, usage, 0)

	// Still zero after a full run-to-completion leaves it unscheduled
	// again, even though the saved stack pointer sits wherever the last
	// Return happened to leave it.
	cco.Start(c, func(arg unsafe.Pointer) {}, nil)
	state, err = cco.GetState(c)
	assert.NilError(t, err)
	assert.Equal(t, state, cco.StateUnscheduled)

	usage, err = cco.StackUsage(c)
	assert.NilError(t, err)
	assert.Equal(t, usage, 0)
}

func TestReturnValueDefaultsToNil(t *testing.T) {
	lockThread(t)
	c, err := cco.Create(64*1024, nil)
	assert.NilError(t, err)
	defer cco.Destroy(c)

	v, err := cco.ReturnValue(c)
	assert.NilError(t, err)
	assert.Assert(t, v == nil)
}

func TestGetStateInvalidArgument(t *testing.T) {
	lockThread(t)
	_, err := cco.GetState(nil)
	assert.ErrorIs(t, err, cco.ErrInvalidArgument)
}
