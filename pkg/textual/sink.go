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
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
)

// Sink drains its upstream connector until end-of-stream.
//
// A Sink built with NewSink accumulates the text, available through String
// once the stage has terminated (Join first). NewWriterSink streams to an
// io.Writer instead.
type Sink struct {
	*Stage
	mu  sync.Mutex
	acc strings.Builder
	w   io.Writer
}

// NewSink accumulates everything read from upstream.
func NewSink(upstream Upstream, opts ...Option) (*Sink, error) {
	return newSink("Sink", upstream, nil, buildOptions(opts))
}

// NewWriterSink copies everything read from upstream to w.
func NewWriterSink(upstream Upstream, w io.Writer, opts ...Option) (*Sink, error) {
	if w == nil {
		return nil, errors.New("Sink: nil writer")
	}
	return newSink("WriterSink", upstream, w, buildOptions(opts))
}

func newSink(kind string, upstream Upstream, w io.Writer, o *options) (*Sink, error) {
	in, err := connectUpstream(kind, upstream, o)
	if err != nil {
		return nil, err
	}
	s := newStage(kind, in, false, o)
	k := &Sink{Stage: s, w: w}
	s.loop = k.consume
	return k, nil
}

func (k *Sink) consume() error {
	dst := k.w
	if dst == nil {
		dst = accumulator{k}
	}
	if _, err := io.Copy(dst, k.in); err != nil {
		return fmt.Errorf("%s: %w", k.name, err)
	}
	return nil
}

// String returns the accumulated text. It is only meaningful after the stage
// has terminated.
func (k *Sink) String() string {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.acc.String()
}

type accumulator struct{ k *Sink }

func (a accumulator) Write(p []byte) (int, error) {
	a.k.mu.Lock()
	defer a.k.mu.Unlock()
	return a.k.acc.Write(p)
}
