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
	"strings"
)

// Source feeds an in-memory text, or any io.Reader, into its output connector.
//
// By default it writes one line per write; WithChunkSize switches to writes of
// at most n bytes. On exhaustion it closes its write end and terminates
// normally. A write failure (typically pipe.ErrBrokenPipe when the downstream
// stage gave up) is reported as a fault.
type Source struct {
	*Stage
	r io.Reader
}

// NewSource streams text.
func NewSource(text string, opts ...Option) *Source {
	return newSource("Source", strings.NewReader(text), buildOptions(opts))
}

// NewReaderSource streams everything read from r.
func NewReaderSource(r io.Reader, opts ...Option) (*Source, error) {
	if r == nil {
		return nil, errors.New("Source: nil reader")
	}
	return newSource("ReaderSource", r, buildOptions(opts)), nil
}

func newSource(kind string, r io.Reader, o *options) *Source {
	s := newStage(kind, nil, true, o)
	src := &Source{Stage: s, r: r}
	s.loop = src.produce
	return src
}

func (src *Source) produce() error {
	w := src.out.Writer()
	if src.opts.chunkSize > 0 {
		return src.produceChunks(w, src.opts.chunkSize)
	}

	br := bufio.NewReader(src.r)
	for {
		line, err := br.ReadString('\n')
		if len(line) > 0 {
			if _, werr := io.WriteString(w, line); werr != nil {
				return fmt.Errorf("%s: write: %w", src.name, werr)
			}
			src.lines.Add(1)
		}
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("%s: read: %w", src.name, err)
		}
	}
}

func (src *Source) produceChunks(w io.Writer, size int) error {
	buf := make([]byte, size)
	for {
		n, err := src.r.Read(buf)
		if n > 0 {
			if _, werr := w.Write(buf[:n]); werr != nil {
				return fmt.Errorf("%s: write: %w", src.name, werr)
			}
			src.lines.Add(1)
		}
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("%s: read: %w", src.name, err)
		}
	}
}
