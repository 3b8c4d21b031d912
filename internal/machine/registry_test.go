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

package machine

import (
	"testing"

	"gotest.tools/v3/assert"
)

func TestSlotIsPerThreadAndStable(t *testing.T) {
	r := NewRegistry[int]()
	a := r.Slot(1)
	b := r.Slot(1)
	assert.Assert(t, a == b)

	c := r.Slot(2)
	assert.Assert(t, a != c)
}

func TestSlotCurrentAndLastError(t *testing.T) {
	r := NewRegistry[string]()
	s := r.Slot(42)

	assert.Equal(t, s.Current(), "")
	s.SetCurrent("running")
	assert.Equal(t, s.Current(), "running")

	assert.Equal(t, s.LastError(), uint(0))
	s.SetLastError(7)
	assert.Equal(t, s.LastError(), uint(7))
}
