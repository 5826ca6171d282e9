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
	"strconv"

	"github.com/benoit-pereira-da-silva/textpipe/pkg/binding"
	"github.com/benoit-pereira-da-silva/textpipe/pkg/match"
)

// Binder captures values from the lines it forwards and binds them under
// fresh names in a shared binding.Map. Lines pass through unchanged.
//
// For every match, left to right, the value of the single capturing group is
// bound to prefix+k, where k is the next index of this Binder (1, 2, ...).
// A value this Binder has already bound keeps its name and consumes no
// index. Indices are never reused. Values bound by other writers of the map
// do not count: two Binders sharing a map bind the same value under both
// prefixes.
type Binder struct {
	*LineProcessor
	pattern  match.Pattern
	prefix   string
	bindings *binding.Map
	next     int
	seen     map[string]struct{} // values bound by this Binder, stage goroutine only
}

// NewBinder compiles pattern, which must have exactly one capturing group.
func NewBinder(pattern, prefix string, bindings *binding.Map, upstream Upstream, opts ...Option) (*Binder, error) {
	if bindings == nil {
		return nil, errors.New("Binder: nil binding map")
	}
	o := buildOptions(opts)
	p, err := compileOneGroup(pattern, o)
	if err != nil {
		return nil, err
	}
	b := &Binder{pattern: p, prefix: prefix, bindings: bindings, seen: make(map[string]struct{})}
	if b.LineProcessor, err = newLineProcessor("Binder", b, upstream, o); err != nil {
		return nil, err
	}
	return b, nil
}

// Transform implements Transformer.
func (b *Binder) Transform(line string) (string, error) {
	matches, err := b.pattern.FindAll(line)
	if err != nil {
		return "", err
	}
	for _, m := range matches {
		g := m.Group(1)
		if !g.Matched() {
			continue
		}
		if _, ok := b.seen[g.Value]; ok {
			continue
		}
		b.seen[g.Value] = struct{}{}
		b.next++
		b.bindings.Put(b.prefix+strconv.Itoa(b.next), g.Value)
	}
	return line, nil
}
