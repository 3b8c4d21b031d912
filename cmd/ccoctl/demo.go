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
	"sync/atomic"
	"time"
	"unsafe"

	"github.com/google/subcommands"
	"github.com/sirupsen/logrus"

	"github.com/talismancer/cco-go/examples/reactor"
	"github.com/talismancer/cco-go/pkg/cco"
)

type demoCommand struct {
	rounds int
}

func (*demoCommand) Name() string    { return "demo" }
func (*demoCommand) Synopsis() string { return "run a population of coroutines against the reactor." }
func (*demoCommand) Usage() string {
	return "demo [-rounds N]\n\nStart the configured number of coroutines (workers in -config) that each\nsleep -rounds times through the reactor, logging when they finish.\n"
}

func (d *demoCommand) SetFlags(f *flag.FlagSet) {
	f.IntVar(&d.rounds, "rounds", 3, "how many sleep/wake rounds each coroutine runs.")
}

func (d *demoCommand) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cfg, err := loadConfig(*configPath)
	if err != nil {
		logrus.WithError(err).Error("loading configuration")
		return subcommands.ExitFailure
	}

	// A coroutine's caller back-link is only meaningful on the OS thread
	// it was set on, so every Start/Resume pair in this demo runs from
	// this single locked thread; the reactor's Run loop resumes
	// coroutines inline rather than from a worker pool.
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	r := reactor.New(time.Duration(cfg.PollIntervalMS) * time.Millisecond)
	coroutines := make([]*cco.Coroutine, 0, cfg.Workers)
	defer func() {
		for _, c := range coroutines {
			cco.Destroy(c)
		}
	}()

	var finished int32
	for i := 0; i < cfg.Workers; i++ {
		id := i
		c, err := cco.Create(cfg.StackSize, nil)
		if err != nil {
			logrus.WithError(err).Error("creating coroutine")
			return subcommands.ExitFailure
		}
		coroutines = append(coroutines, c)

		if err := cco.Start(c, func(unsafe.Pointer) {
			for round := 0; round < d.rounds; round++ {
				logrus.WithFields(logrus.Fields{"worker": id, "round": round}).Debug("sleeping")
				if err := r.Sleep(time.Duration(id+1) * time.Millisecond); err != nil {
					logrus.WithError(err).Error("sleep failed")
					return
				}
			}
			atomic.AddInt32(&finished, 1)
		}, nil); err != nil {
			logrus.WithError(err).Error("starting coroutine")
			return subcommands.ExitFailure
		}
	}

	runCtx, cancel := context.WithCancel(ctx)
	go func() {
		for atomic.LoadInt32(&finished) < int32(cfg.Workers) {
			time.Sleep(time.Millisecond)
		}
		cancel()
	}()

	if err := r.Run(runCtx); err != nil && runCtx.Err() == nil {
		logrus.WithError(err).Error("reactor exited early")
		return subcommands.ExitFailure
	}

	fmt.Printf("%d/%d workers finished %d rounds\n", atomic.LoadInt32(&finished), cfg.Workers, d.rounds)
	return subcommands.ExitSuccess
}
