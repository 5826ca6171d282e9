// Copyright 2026 Benoit Pereira da Silva
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

// Package probe injects faults and forced interleavings into pipeline stages
// through textual.Hooks. It is meant for tests.
//
// Injecting a fault on the third line a stage processes:
//
//	counts := probe.NewCountDowns()
//	rep, _ := textual.NewPatternReplacer("world", "mum", src,
//		textual.WithHooks(probe.FailAfter(counts, 2)))
//
// Pausing a stage around its second line, and releasing it from the test:
//
//	reg := probe.NewRegistry(ctx)
//	rep, _ := textual.NewBindingReplacer(bindings, up,
//		textual.WithHooks(probe.RendezvousAround(reg, 2)))
//	...
//	reg.Trigger(rep) // let it start line 2
//	reg.Trigger(rep) // line 2 is done
package probe

import (
	"errors"
	"sync"

	"github.com/google/uuid"

	"github.com/benoit-pereira-da-silva/textpipe/pkg/textual"
)

// ErrInjected is the fault returned by the hooks of this package.
var ErrInjected = errors.New("probe: injected fault")

// FailOnEnter faults the stage before it processes anything.
func FailOnEnter() textual.Hooks {
	return textual.Hooks{
		OnEnter: func(*textual.Stage) error { return ErrInjected },
	}
}

// FailAfter faults the stage right before it transforms line n+1. The
// countdown is created when the stage is constructed and keyed by its id.
func FailAfter(counts *CountDowns, n int) textual.Hooks {
	return textual.Hooks{
		OnAttach: func(s *textual.Stage) { counts.Create(s.ID(), n) },
		BeforeLine: func(s *textual.Stage, _ int, _ string) error {
			if counts.CountDown(s.ID()) {
				return ErrInjected
			}
			return nil
		},
	}
}

// CountDowns is a set of counters keyed by stage identity.
type CountDowns struct {
	mu     sync.Mutex
	counts map[uuid.UUID]int
}

func NewCountDowns() *CountDowns {
	return &CountDowns{counts: make(map[uuid.UUID]int)}
}

// Create installs a counter starting at n. It returns false when a counter
// already exists for key.
func (c *CountDowns) Create(key uuid.UUID, n int) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.counts[key]; ok {
		return false
	}
	c.counts[key] = n
	return true
}

// CountDown decrements the counter of key and returns false, until the counter
// is already zero: then it deletes the counter and returns true. A missing
// counter returns false.
func (c *CountDowns) CountDown(key uuid.UUID) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	n, ok := c.counts[key]
	if !ok {
		return false
	}
	if n > 0 {
		c.counts[key] = n - 1
		return false
	}
	delete(c.counts, key)
	return true
}

// Exists reports whether a counter is installed for key.
func (c *CountDowns) Exists(key uuid.UUID) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.counts[key]
	return ok
}
