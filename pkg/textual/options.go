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
	"time"

	"github.com/rs/zerolog"

	"github.com/benoit-pereira-da-silva/textpipe/pkg/config"
	"github.com/benoit-pereira-da-silva/textpipe/pkg/match"
	"github.com/benoit-pereira-da-silva/textpipe/pkg/pipe"
)

// DefaultReferenceSyntax matches ${name} and captures name.
const DefaultReferenceSyntax = `\$\{([^{}]+)\}`

// DefaultMaxLine is the longest line a line stage accepts by default.
const DefaultMaxLine = 1 << 20

// Option configures a stage at construction.
type Option func(*options)

type options struct {
	name      string
	capacity  int
	chunkSize int
	maxLine   int
	engine    match.Engine
	timeout   time.Duration
	syntax    string
	logger    *zerolog.Logger
	hooks     Hooks
}

func buildOptions(opts []Option) *options {
	o := &options{
		capacity: pipe.DefaultCapacity,
		maxLine:  DefaultMaxLine,
		engine:   match.RE2,
		timeout:  match.DefaultTimeout,
		syntax:   DefaultReferenceSyntax,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(o)
		}
	}
	return o
}

// WithName overrides the stage name used in logs and errors.
func WithName(name string) Option {
	return func(o *options) { o.name = name }
}

// WithCapacity sets the byte capacity of the stage's output connector.
// Non-positive values keep pipe.DefaultCapacity.
func WithCapacity(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.capacity = n
		}
	}
}

// WithChunkSize makes a source write at most n bytes at a time. Zero writes
// one line at a time.
func WithChunkSize(n int) Option {
	return func(o *options) {
		if n >= 0 {
			o.chunkSize = n
		}
	}
}

// WithMaxLine bounds the length of a line read by a line stage.
func WithMaxLine(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.maxLine = n
		}
	}
}

// WithEngine selects the regular expression engine compiling the stage patterns.
func WithEngine(e match.Engine) Option {
	return func(o *options) { o.engine = e }
}

// WithReferenceSyntax replaces the variable reference syntax of a
// BindingReplacer. The pattern must have exactly one capturing group holding
// the binding name.
func WithReferenceSyntax(pattern string) Option {
	return func(o *options) { o.syntax = pattern }
}

// WithLogger sets the logger faults and lifecycle events are reported to.
func WithLogger(l zerolog.Logger) Option {
	return func(o *options) { o.logger = &l }
}

// WithMatchTimeout bounds every backtracking search of the stage patterns.
// Zero disables the bound.
func WithMatchTimeout(d time.Duration) Option {
	return func(o *options) {
		if d >= 0 {
			o.timeout = d
		}
	}
}

// WithHooks installs hooks. Repeated calls compose in order.
func WithHooks(h Hooks) Option {
	return func(o *options) { o.hooks = o.hooks.Then(h) }
}

// WithSettings applies loaded configuration settings.
func WithSettings(s config.Settings) Option {
	return func(o *options) {
		WithCapacity(s.Capacity)(o)
		WithChunkSize(s.ChunkSize)(o)
		WithMaxLine(s.MaxLine)(o)
		o.engine = s.MatchEngine()
		WithMatchTimeout(s.MatchTimeout)(o)
	}
}
