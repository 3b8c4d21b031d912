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

package cpuid

// cpuid is implemented in cpuid_amd64.s. It executes the CPUID
// instruction for the given leaf and returns eax, ebx, ecx, edx.
//
//go:noescape
func cpuid(leafAndSubleaf uint32) (eax, ebx, ecx, edx uint32)

// fxsrBit is bit 24 of EDX for CPUID leaf 1, the standard feature bit
// for FXSAVE/FXRSTOR support.
const fxsrBit = 1 << 24

func probeFXSAVE() bool {
	_, _, _, edx := cpuid(1)
	return edx&fxsrBit != 0
}
