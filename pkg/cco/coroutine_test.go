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
	"runtime"
	"testing"
	"unsafe"

	"gotest.tools/v3/assert"

	"github.com/talismancer/cco-go/pkg/cco"
)

func lockThread(t *testing.T) {
	t.Helper()
	runtime.LockOSThread()
	t.Cleanup(runtime.UnlockOSThread)
}

func TestCreateInvalidStackSizeIsInvalidArgument(t *testing.T) {
	lockThread(t)
	for name, size := range map[string]int{"zero": 0, "negative": -1} {
		t.Run(name, func(t *testing.T) {
			c, err := cco.Create(size, nil)
			assert.ErrorIs(t, err, cco.ErrInvalidArgument)
			assert.Assert(t, c == nil)
		})
	}
}

func TestDestroyNilIsInvalidArgument(t *testing.T) {
	lockThread(t)
	err := cco.Destroy(nil)
	assert.ErrorIs(t, err, cco.ErrInvalidArgument)
}

func TestDestroyRunningIsInvalidContext(t *testing.T) {
	lockThread(t)
	c, err := cco.Create(64*1024, nil)
	assert.NilError(t, err)
	defer cco.Destroy(c)

	var destroyErr error
	cco.Start(c, func(arg unsafe.Pointer) {
		destroyErr = cco.Destroy(c)
		cco.Suspend()
	}, nil)

	assert.ErrorIs(t, destroyErr, cco.ErrInvalidContext)
	assert.NilError(t, cco.Resume(c))
}

func TestDestroySuspendedIsLegal(t *testing.T) {
	lockThread(t)
	c, err := cco.Create(64*1024, nil)
	assert.NilError(t, err)

	cco.Start(c, func(arg unsafe.Pointer) {
		cco.Suspend()
	}, nil)

	state, err := cco.GetState(c)
	assert.NilError(t, err)
	assert.Equal(t, state, cco.StateSuspended)

	assert.NilError(t, cco.Destroy(c))
}
