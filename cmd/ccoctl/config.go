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
	"fmt"

	"github.com/BurntSushi/toml"
)

// Config is ccoctl's file-based configuration, loaded from the path
// named by the -config flag. Flags always take precedence over a
// loaded Config; Config only fills in values a flag didn't set.
type Config struct {
	// StackSize is the default coroutine stack size, in bytes.
	StackSize int `toml:"stack_size"`
	// Workers is how many coroutines the demo subcommand runs
	// concurrently.
	Workers int `toml:"workers"`
	// PollIntervalMS is the reactor's minimum poll backoff, in
	// milliseconds.
	PollIntervalMS int `toml:"poll_interval_ms"`
}

// defaultConfig is used whenever -config is unset.
func defaultConfig() Config {
	return Config{
		StackSize:      256 * 1024,
		Workers:        8,
		PollIntervalMS: 10,
	}
}

func loadConfig(path string) (Config, error) {
	cfg := defaultConfig()
	if path == "" {
		return cfg, nil
	}
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return Config{}, fmt.Errorf("loading %s: %w", path, err)
	}
	return cfg, nil
}
