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
	"bufio"
	"errors"
	"fmt"
	"io"
)

// Transformer rewrites a single line. The line never includes its
// end-of-line marker; the stage re-attaches the original marker to the result.
type Transformer interface {
	Transform(line string) (string, error)
}

// TransformerFunc is a function adapter that implements Transformer.
//
//	upper := TransformerFunc(func(line string) (string, error) {
//		return strings.ToUpper(line), nil
//	})
//	p, err := NewLineProcessor(upper, source)
type TransformerFunc func(line string) (string, error)

// Transform calls f(line).
func (f TransformerFunc) Transform(line string) (string, error) {
	return f(line)
}

// LineProcessor is the base of every line transforming stage.
//
// Its loop reads one line at a time from the upstream connector, runs the
// BeforeLine hook, transforms the line, writes it downstream and runs the
// AfterLine hook. At upstream end-of-stream it closes its own write end and
// terminates normally.
//
// Any failure (hook, transform, read or write) is a fault: the stage reports
// it, closes its upstream read end and downstream write end, and terminates.
// Lines written before the fault stay written.
//
// A Transformer is only ever called from the stage goroutine, one line at a
// time, so it may keep unsynchronized state.
type LineProcessor struct {
	*Stage
	transformer Transformer
}

// NewLineProcessor builds a line stage around t, reading from upstream.
func NewLineProcessor(t Transformer, upstream Upstream, opts ...Option) (*LineProcessor, error) {
	return newLineProcessor("LineProcessor", t, upstream, buildOptions(opts))
}

func newLineProcessor(kind string, t Transformer, upstream Upstream, o *options) (*LineProcessor, error) {
	if t == nil {
		return nil, fmt.Errorf("%s: nil transformer", kind)
	}
	in, err := connectUpstream(kind, upstream, o)
	if err != nil {
		return nil, err
	}
	s := newStage(kind, in, true, o)
	p := &LineProcessor{Stage: s, transformer: t}
	s.loop = p.process
	return p, nil
}

func (p *LineProcessor) process() error {
	sc := bufio.NewScanner(p.in)
	sc.Buffer(make([]byte, 0, min(4096, p.opts.maxLine)), p.opts.maxLine)
	sc.Split(ScanLines)
	w := p.out.Writer()

	n := 0
	for sc.Scan() {
		n++
		line := sc.Text()
		if err := p.opts.hooks.beforeLine(p.Stage, n, line); err != nil {
			return p.lineError(n, err)
		}

		body, eol := SplitTerminator(line)
		out, err := p.transformer.Transform(body)
		if err != nil {
			return p.lineError(n, err)
		}
		if _, err := io.WriteString(w, out+eol); err != nil {
			return p.lineError(n, err)
		}
		p.lines.Add(1)

		if err := p.opts.hooks.afterLine(p.Stage, n, line); err != nil {
			return p.lineError(n, err)
		}
	}
	if err := sc.Err(); err != nil {
		if errors.Is(err, bufio.ErrTooLong) {
			return p.lineError(n+1, fmt.Errorf("line longer than %d bytes: %w", p.opts.maxLine, err))
		}
		return fmt.Errorf("%s: read: %w", p.name, err)
	}
	return nil
}

func (p *LineProcessor) lineError(n int, err error) error {
	return &LineError{Stage: p.name, Line: n, Err: err}
}
