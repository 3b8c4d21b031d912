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

package cco

import "fmt"

// LibraryVersion identifies a release of this package using the same
// major.minor.patch scheme the reference C implementation reports via
// cco_lib_version.
type LibraryVersion struct {
	Major, Minor, Patch int
}

// String implements fmt.Stringer.
func (v LibraryVersion) String() string {
	return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
}

// Version is this build's LibraryVersion.
var Version = LibraryVersion{Major: 0, Minor: 1, Patch: 0}
