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

package textual

import (
	"context"
	"errors"
)

// Runner is the lifecycle surface shared by every stage.
type Runner interface {
	Name() string
	Start() error
	Join()
	JoinContext(ctx context.Context) error
	Err() error
}

// Chain starts and joins a set of already connected stages.
//
// Usage example:
//
//	src := NewSource(text)
//	rep, _ := NewPatternReplacer("world", "mum", src)
//	sink, _ := NewSink(rep)
//
//	chain := NewChain(src, rep, sink)
//	if err := chain.Run(ctx); err != nil {
//		// a stage reported a fault, or ctx expired before every stage terminated
//	}
//	out := sink.String()
//
// Nil stages are ignored. Chain adds no ordering between stages: they are
// coordinated by their connectors only.
type Chain struct {
	stages []Runner
}

func NewChain(stages ...Runner) *Chain {
	c := &Chain{}
	for _, s := range stages {
		if s != nil {
			c.stages = append(c.stages, s)
		}
	}
	return c
}

// Stages returns the stages in the order they were given.
func (c *Chain) Stages() []Runner {
	return append([]Runner(nil), c.stages...)
}

// Start starts every stage in order and stops at the first failure.
func (c *Chain) Start() error {
	for _, s := range c.stages {
		if err := s.Start(); err != nil {
			return err
		}
	}
	return nil
}

// Join waits for every stage.
func (c *Chain) Join() {
	for _, s := range c.stages {
		s.Join()
	}
}

// JoinContext waits for every stage, giving up when ctx is done.
func (c *Chain) JoinContext(ctx context.Context) error {
	for _, s := range c.stages {
		if err := s.JoinContext(ctx); err != nil {
			return err
		}
	}
	return nil
}

// Run starts every stage, waits for all of them and returns Err.
func (c *Chain) Run(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if err := c.Start(); err != nil {
		return err
	}
	if err := c.JoinContext(ctx); err != nil {
		return err
	}
	return c.Err()
}

// Err joins the faults of every stage, nil when all ran cleanly.
func (c *Chain) Err() error {
	var errs []error
	for _, s := range c.stages {
		if err := s.Err(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
