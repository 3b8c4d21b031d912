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

// Package cpuid probes the host CPU once at first use and caches the
// result, mirroring the reference C implementation's ctor-time feature
// probe (cco_x86_retrieve_has_fxsr).
package cpuid

import "sync"

var (
	once      sync.Once
	hasFXSAVE bool
)

// HasFXSAVE reports whether the host CPU supports the FXSAVE/FXRSTOR
// instruction pair used to exchange the combined FPU+SSE register
// block. The probe is implemented for amd64 and arm64 only; on arm64,
// which has no FXSAVE-shaped instruction, this always reports false.
func HasFXSAVE() bool {
	once.Do(func() {
		hasFXSAVE = probeFXSAVE()
	})
	return hasFXSAVE
}
