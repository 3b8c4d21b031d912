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

package main

import (
	"context"
	"flag"
	"fmt"
	"runtime"
	"time"
	"unsafe"

	"github.com/google/subcommands"
	"github.com/sirupsen/logrus"

	"github.com/talismancer/cco-go/pkg/cco"
)

type benchCommand struct {
	iterations int
}

func (*benchCommand) Name() string    { return "bench" }
func (*benchCommand) Synopsis() string { return "measure the cost of a suspend/resume round trip." }
func (*benchCommand) Usage() string    { return "bench [-iterations N]\n" }

func (b *benchCommand) SetFlags(f *flag.FlagSet) {
	f.IntVar(&b.iterations, "iterations", 1_000_000, "number of suspend/resume round trips to measure.")
}

func (b *benchCommand) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cfg, err := loadConfig(*configPath)
	if err != nil {
		logrus.WithError(err).Error("loading configuration")
		return subcommands.ExitFailure
	}

	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	c, err := cco.Create(cfg.StackSize, nil)
	if err != nil {
		logrus.WithError(err).Error("creating coroutine")
		return subcommands.ExitFailure
	}
	defer cco.Destroy(c)

	start := time.Now()
	if err := cco.Start(c, func(unsafe.Pointer) {
		for i := 0; i < b.iterations; i++ {
			cco.Suspend()
		}
	}, nil); err != nil {
		logrus.WithError(err).Error("starting coroutine")
		return subcommands.ExitFailure
	}
	// b.iterations Suspend calls happened inside the loop above (the
	// first one during Start itself); it takes exactly b.iterations
	// Resumes to walk through the remaining suspends and the implicit
	// Return that ends the loop.
	for i := 0; i < b.iterations; i++ {
		if err := cco.Resume(c); err != nil {
			logrus.WithError(err).Error("resuming coroutine")
			return subcommands.ExitFailure
		}
	}
	elapsed := time.Since(start)

	fmt.Printf("%d round trips in %s (%s/round trip)\n", b.iterations, elapsed, elapsed/time.Duration(b.iterations))
	return subcommands.ExitSuccess
}
