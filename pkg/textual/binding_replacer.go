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

	"github.com/benoit-pereira-da-silva/textpipe/pkg/binding"
	"github.com/benoit-pereira-da-silva/textpipe/pkg/match"
)

// BindingReplacer substitutes variable references (by default ${name}) with
// the values bound in a shared binding.Map.
//
// Each reference is looked up when it is reached. A name that is not bound
// at that instant is left verbatim. Whether a Binder running concurrently on
// the same map has bound it yet depends only on the relative progress of the
// two stages; nothing here waits for it.
type BindingReplacer struct {
	*LineProcessor
	syntax   match.Pattern
	bindings *binding.Map
}

// NewBindingReplacer reads references with the syntax set by
// WithReferenceSyntax, DefaultReferenceSyntax otherwise.
func NewBindingReplacer(bindings *binding.Map, upstream Upstream, opts ...Option) (*BindingReplacer, error) {
	if bindings == nil {
		return nil, errors.New("BindingReplacer: nil binding map")
	}
	o := buildOptions(opts)
	syntax, err := compileOneGroup(o.syntax, o)
	if err != nil {
		return nil, err
	}
	r := &BindingReplacer{syntax: syntax, bindings: bindings}
	if r.LineProcessor, err = newLineProcessor("BindingReplacer", r, upstream, o); err != nil {
		return nil, err
	}
	return r, nil
}

// Transform implements Transformer.
func (r *BindingReplacer) Transform(line string) (string, error) {
	return match.ReplaceAll(r.syntax, line, func(m match.Match) string {
		if v, ok := r.bindings.Get(m.Group(1).Value); ok {
			return v
		}
		return m.Group(0).Value
	})
}
