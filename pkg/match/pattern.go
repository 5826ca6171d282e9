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

// Package match abstracts the regular expression engine used by the line
// stages: match a pattern against a string, yielding capture groups and
// their byte positions.
//
// Two engines are available. RE2 relies on the standard library and runs in
// linear time. Backtracking relies on github.com/dlclark/regexp2 and accepts
// the Perl/Java flavored syntax (look-around, back references).
package match

import (
	"fmt"
	"strings"
	"time"
)

// DefaultTimeout bounds a single backtracking search.
const DefaultTimeout = time.Second

// CompileOption tunes Compile.
type CompileOption func(*compileOptions)

type compileOptions struct {
	timeout time.Duration
}

// WithTimeout bounds every search of a backtracking pattern; a search running
// longer fails with an error. Zero or less disables the bound. RE2 patterns
// run in linear time and ignore it.
func WithTimeout(d time.Duration) CompileOption {
	return func(o *compileOptions) { o.timeout = d }
}

// Engine selects the implementation behind a Pattern.
type Engine string

const (
	RE2          Engine = "re2"
	Backtracking Engine = "backtracking"
)

// ParseEngine maps a configuration value to an Engine. The empty string means RE2.
func ParseEngine(s string) (Engine, error) {
	switch Engine(strings.ToLower(strings.TrimSpace(s))) {
	case "", RE2:
		return RE2, nil
	case Backtracking:
		return Backtracking, nil
	default:
		return "", fmt.Errorf("match: unknown engine %q", s)
	}
}

// Group is one capture group of a Match. Start and End are byte offsets into
// the searched string; both are -1 when the group did not participate.
type Group struct {
	Start int
	End   int
	Value string
}

// Matched reports whether the group participated in the match.
func (g Group) Matched() bool {
	return g.Start >= 0
}

// Match is one occurrence of a Pattern. Groups[0] is the whole match.
type Match struct {
	Groups []Group
}

// Start is the byte offset of the whole match.
func (m Match) Start() int { return m.Groups[0].Start }

// End is the byte offset just past the whole match.
func (m Match) End() int { return m.Groups[0].End }

// Group returns capture group i, or an unmatched group when i is out of range.
func (m Match) Group(i int) Group {
	if i < 0 || i >= len(m.Groups) {
		return Group{Start: -1, End: -1}
	}
	return m.Groups[i]
}

// Pattern is a compiled expression.
type Pattern interface {
	// String returns the source expression.
	String() string
	// Groups returns the number of capturing groups, not counting the whole match.
	Groups() int
	// FindAll returns every non-overlapping match in s, left to right.
	FindAll(s string) ([]Match, error)
}

// Compile compiles expr with the given engine. Backtracking searches are
// bounded by DefaultTimeout unless WithTimeout says otherwise.
func Compile(expr string, engine Engine, opts ...CompileOption) (Pattern, error) {
	co := compileOptions{timeout: DefaultTimeout}
	for _, opt := range opts {
		if opt != nil {
			opt(&co)
		}
	}
	switch engine {
	case "", RE2:
		return compileRE2(expr)
	case Backtracking:
		return compileBacktracking(expr, co.timeout)
	default:
		return nil, fmt.Errorf("match: unknown engine %q", engine)
	}
}

// ReplaceAll rewrites s by calling fn for every match, left to right. The
// text between matches is copied verbatim.
func ReplaceAll(p Pattern, s string, fn func(m Match) string) (string, error) {
	matches, err := p.FindAll(s)
	if err != nil {
		return "", err
	}
	if len(matches) == 0 {
		return s, nil
	}
	var b strings.Builder
	b.Grow(len(s))
	last := 0
	for _, m := range matches {
		b.WriteString(s[last:m.Start()])
		b.WriteString(fn(m))
		last = m.End()
	}
	b.WriteString(s[last:])
	return b.String(), nil
}

// ReplaceAllLiteral replaces every match of p in s by repl, taken literally.
func ReplaceAllLiteral(p Pattern, s, repl string) (string, error) {
	return ReplaceAll(p, s, func(Match) string { return repl })
}
