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
	"fmt"

	"github.com/benoit-pereira-da-silva/textpipe/pkg/match"
)

// PatternReplacer replaces every non-overlapping match of a pattern by a
// literal replacement, independently on each line.
type PatternReplacer struct {
	*LineProcessor
	pattern     match.Pattern
	replacement string
}

// NewPatternReplacer compiles pattern and connects the stage to upstream. An
// invalid pattern is reported here and leaves upstream untouched.
func NewPatternReplacer(pattern, replacement string, upstream Upstream, opts ...Option) (*PatternReplacer, error) {
	o := buildOptions(opts)
	p, err := compile(pattern, o)
	if err != nil {
		return nil, err
	}
	r := &PatternReplacer{pattern: p, replacement: replacement}
	if r.LineProcessor, err = newLineProcessor("PatternReplacer", r, upstream, o); err != nil {
		return nil, err
	}
	return r, nil
}

// Transform implements Transformer.
func (r *PatternReplacer) Transform(line string) (string, error) {
	return match.ReplaceAllLiteral(r.pattern, line, r.replacement)
}

func compile(expr string, o *options) (match.Pattern, error) {
	p, err := match.Compile(expr, o.engine, match.WithTimeout(o.timeout))
	if err != nil {
		return nil, fmt.Errorf("%w %q: %w", ErrInvalidPattern, expr, err)
	}
	return p, nil
}

// compileOneGroup is compile restricted to patterns with exactly one capturing group.
func compileOneGroup(expr string, o *options) (match.Pattern, error) {
	p, err := compile(expr, o)
	if err != nil {
		return nil, err
	}
	if p.Groups() != 1 {
		return nil, fmt.Errorf("%w %q: want exactly one capturing group, got %d", ErrInvalidPattern, expr, p.Groups())
	}
	return p, nil
}
