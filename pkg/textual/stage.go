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
	"fmt"
	"runtime/debug"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/benoit-pereira-da-silva/textpipe/pkg/pipe"
)

// Upstream is anything a stage can read from: Connect hands over the read end
// of its output connector, once.
type Upstream interface {
	Connect() (*pipe.Reader, error)
}

// Stage is the execution unit shared by every pipeline stage.
//
// A Stage owns one goroutine, started by Start, that runs the stage loop until
// its input is exhausted or a fault occurs. Whatever the outcome, the
// goroutine then closes the read end of the input connector and the write end
// of the output connector, so that neither neighbor stays blocked:
//
//   - the upstream writer fails with pipe.ErrBrokenPipe and unwinds,
//   - the downstream reader drains what was written and sees end-of-stream.
//
// Faults are reported (logger and Hooks.OnFault) and kept in the stage's
// FaultStore. They never reach the caller of Start or Join.
//
// Source, Sink and LineProcessor embed *Stage.
type Stage struct {
	id   uuid.UUID
	name string

	in  *pipe.Reader    // nil for sources
	out *pipe.Connector // nil for sinks

	opts *options
	log  zerolog.Logger

	state   atomic.Int32
	started atomic.Bool
	lines   atomic.Int64
	faults  FaultStore
	done    chan struct{}

	loop func() error
}

// stageName is the name a stage of kind gets under o.
func stageName(kind string, o *options) string {
	if o.name != "" {
		return o.name
	}
	return kind
}

// connectUpstream claims the read end of upstream for a stage of kind.
// Callers validate their own configuration first so that a rejected stage
// never claims its upstream.
func connectUpstream(kind string, upstream Upstream, o *options) (*pipe.Reader, error) {
	if upstream == nil {
		return nil, fmt.Errorf("%s: nil upstream", kind)
	}
	in, err := upstream.Connect()
	if err != nil {
		return nil, fmt.Errorf("%s: connect upstream: %w", stageName(kind, o), err)
	}
	return in, nil
}

// newStage wires in (nil for sources), creates the output connector (if
// asked) and runs the OnAttach hook.
func newStage(kind string, in *pipe.Reader, withOutput bool, o *options) *Stage {
	s := &Stage{
		id:   uuid.New(),
		name: stageName(kind, o),
		in:   in,
		opts: o,
		done: make(chan struct{}),
	}
	if withOutput {
		s.out = pipe.New(o.capacity)
	}

	base := DefaultLogger()
	if o.logger != nil {
		base = *o.logger
	}
	s.log = base.With().Str("stage", s.name).Str("stage_id", s.id.String()).Logger()

	o.hooks.attach(s)
	return s
}

// ID returns the unique identity of the stage.
func (s *Stage) ID() uuid.UUID { return s.id }

// Name returns the stage name.
func (s *Stage) Name() string { return s.name }

// State returns the current lifecycle state.
func (s *Stage) State() State { return State(s.state.Load()) }

// Lines returns the number of lines (or source units) fully processed so far.
func (s *Stage) Lines() int64 { return s.lines.Load() }

// Logger returns the stage logger, tagged with the stage name and id.
func (s *Stage) Logger() *zerolog.Logger { return &s.log }

// Output returns the output connector, nil for a sink.
func (s *Stage) Output() *pipe.Connector { return s.out }

// Connect implements Upstream.
func (s *Stage) Connect() (*pipe.Reader, error) {
	if s.out == nil {
		return nil, fmt.Errorf("%s: %w", s.name, ErrNoOutput)
	}
	r, err := s.out.Attach()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", s.name, err)
	}
	return r, nil
}

// Start runs the stage loop on a new goroutine.
func (s *Stage) Start() error {
	if !s.started.CompareAndSwap(false, true) {
		return fmt.Errorf("%s: %w", s.name, ErrAlreadyStarted)
	}
	s.state.Store(int32(StateRunning))
	go s.run()
	return nil
}

// Join blocks until the stage has terminated. It returns immediately for a
// stage that was never started.
func (s *Stage) Join() {
	if !s.started.Load() {
		return
	}
	<-s.done
}

// JoinContext is Join bounded by ctx.
func (s *Stage) JoinContext(ctx context.Context) error {
	if !s.started.Load() {
		return nil
	}
	select {
	case <-s.done:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("%s: join: %w", s.name, ctx.Err())
	}
}

// Done is closed once the stage has terminated.
func (s *Stage) Done() <-chan struct{} { return s.done }

// Err returns the fault the stage terminated on, nil after a clean run.
func (s *Stage) Err() error {
	f, _ := s.faults.Load()
	return f.Err
}

// Fault returns the stored fault with its stack, if any.
func (s *Stage) Fault() (Fault, bool) { return s.faults.Load() }

func (s *Stage) run() {
	defer close(s.done)
	defer s.state.Store(int32(StateTerminated))
	defer s.release()
	defer func() {
		if r := recover(); r != nil {
			s.report(fmt.Errorf("%s: %w: %v", s.name, ErrPanic, r), debug.Stack())
		}
	}()

	s.log.Debug().Msg("stage started")
	if err := s.opts.hooks.enter(s); err != nil {
		s.report(fmt.Errorf("%s: %w", s.name, err), nil)
		return
	}
	if s.loop != nil {
		if err := s.loop(); err != nil {
			s.report(err, nil)
			return
		}
	}
	s.log.Debug().Int64("lines", s.Lines()).Msg("stage terminated")
}

// release closes the ends this stage owns.
func (s *Stage) release() {
	if s.in != nil {
		_ = s.in.Close()
	}
	if s.out != nil {
		s.out.CloseWrite()
	}
}

func (s *Stage) report(err error, stack []byte) {
	s.faults.Store(err, stack)
	s.opts.hooks.fault(s, err)
	s.log.Error().Err(err).Int64("lines", s.Lines()).Msg("stage fault")
}
