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

func TestStartRunsToCompletion(t *testing.T) {
	lockThread(t)
	c, err := cco.Create(64*1024, nil)
	assert.NilError(t, err)
	defer cco.Destroy(c)

	ran := false
	err = cco.Start(c, func(arg unsafe.Pointer) {
		ran = true
	}, nil)
	assert.NilError(t, err)
	assert.Assert(t, ran)

	state, err := cco.GetState(c)
	assert.NilError(t, err)
	assert.Equal(t, state, cco.StateUnscheduled)
}

func TestStartTwiceWhileScheduledIsScheduledError(t *testing.T) {
	lockThread(t)
	c, err := cco.Create(64*1024, nil)
	assert.NilError(t, err)
	defer cco.Destroy(c)

	var inner error
	cco.Start(c, func(arg unsafe.Pointer) {
		inner = cco.Start(c, func(unsafe.Pointer) {}, nil)
		cco.Suspend()
	}, nil)

	assert.ErrorIs(t, inner, cco.ErrScheduled)
	assert.NilError(t, cco.Resume(c))
}

func TestResumeUnscheduledIsNotSuspended(t *testing.T) {
	lockThread(t)
	c, err := cco.Create(64*1024, nil)
	assert.NilError(t, err)
	defer cco.Destroy(c)

	err = cco.Resume(c)
	assert.ErrorIs(t, err, cco.ErrNotSuspended)
}

func TestSuspendAndResumeRoundTrip(t *testing.T) {
	lockThread(t)
	c, err := cco.Create(64*1024, nil)
	assert.NilError(t, err)
	defer cco.Destroy(c)

	steps := 0
	cco.Start(c, func(arg unsafe.Pointer) {
		steps++
		cco.Suspend()
		steps++
		cco.Suspend()
		steps++
	}, nil)
	assert.Equal(t, steps, 1)

	assert.NilError(t, cco.Resume(c))
	assert.Equal(t, steps, 2)

	assert.NilError(t, cco.Resume(c))
	assert.Equal(t, steps, 3)

	state, err := cco.GetState(c)
	assert.NilError(t, err)
	assert.Equal(t, state, cco.StateUnscheduled)
}

func TestYieldCarriesReturnValue(t *testing.T) {
	lockThread(t)
	c, err := cco.Create(64*1024, nil)
	assert.NilError(t, err)
	defer cco.Destroy(c)

	var want int = 42
	cco.Start(c, func(arg unsafe.Pointer) {
		cco.Yield(unsafe.Pointer(&want))
	}, nil)

	got, err := cco.ReturnValue(c)
	assert.NilError(t, err)
	assert.Equal(t, *(*int)(got), want)

	assert.NilError(t, cco.Resume(c))
}

func TestReturnResetsToUnscheduledAndAllowsRestart(t *testing.T) {
	lockThread(t)
	c, err := cco.Create(64*1024, nil)
	assert.NilError(t, err)
	defer cco.Destroy(c)

	runs := 0
	body := func(arg unsafe.Pointer) { runs++ }

	assert.NilError(t, cco.Start(c, body, nil))
	assert.NilError(t, cco.Start(c, body, nil))
	assert.Equal(t, runs, 2)
}

func TestSuspendFromMainContextIsInvalidContext(t *testing.T) {
	lockThread(t)
	err := cco.Suspend()
	assert.ErrorIs(t, err, cco.ErrInvalidContext)
}

func TestYieldFromMainContextIsInvalidContext(t *testing.T) {
	lockThread(t)
	err := cco.Yield(nil)
	assert.ErrorIs(t, err, cco.ErrInvalidContext)
}

func TestReturnFromMainContextIsInvalidContext(t *testing.T) {
	lockThread(t)
	err := cco.Return(nil)
	assert.ErrorIs(t, err, cco.ErrInvalidContext)
}

func TestThisCoroutineInsideVsOutside(t *testing.T) {
	lockThread(t)
	assert.Assert(t, cco.ThisCoroutine() == nil)

	c, err := cco.Create(64*1024, nil)
	assert.NilError(t, err)
	defer cco.Destroy(c)

	var self *cco.Coroutine
	cco.Start(c, func(arg unsafe.Pointer) {
		self = cco.ThisCoroutine()
	}, nil)

	assert.Equal(t, self, c)
	assert.Assert(t, cco.ThisCoroutine() == nil)
}
