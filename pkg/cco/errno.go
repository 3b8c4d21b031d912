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

// Error is a cco operation failure code. It implements the standard
// error interface and is comparable with errors.Is.
type Error uint

// Error codes, mirroring the reference C implementation's cco_error
// enum one for one.
const (
	// ErrOK is the zero value. Operations never return it as an error
	// (they return nil on success); it only ever appears as the result
	// of LastError, after a successful call or before any call.
	ErrOK Error = iota
	ErrNoMemory
	ErrInvalidContext
	ErrInvalidArgument
	ErrScheduled
	ErrUnscheduled
	ErrNotSuspended
	ErrNotRunning
)

var errStrings = [...]string{
	ErrOK:              "no error",
	ErrNoMemory:        "memory allocation failed",
	ErrInvalidContext:  "invalid context",
	ErrInvalidArgument: "invalid argument",
	ErrScheduled:       "coroutine was scheduled",
	ErrUnscheduled:     "coroutine was not scheduled",
	ErrNotSuspended:    "coroutine was not suspended",
	ErrNotRunning:      "coroutine was not running",
}

// Error implements the error interface.
func (e Error) Error() string {
	if int(e) < len(errStrings) && errStrings[e] != "" {
		return errStrings[e]
	}
	return "unknown error"
}

// setLastError records code on the calling thread and returns nil if
// code is ErrOK, or code otherwise. Every public operation routes its
// return through this so LastError always reflects the most recent
// call, success included.
func setLastError(code Error) error {
	currentSlot().SetLastError(uint(code))
	if code == ErrOK {
		return nil
	}
	return code
}

// LastError returns the error code set by the calling thread's most
// recent cco operation. Most callers should prefer the error value a
// function returns directly; LastError exists for parity with the
// reference C API's errno-style contract and for use from contexts,
// like the coroutine entry trampoline, that cannot return an error
// across a raw context switch.
func LastError() Error {
	return Error(currentSlot().LastError())
}
