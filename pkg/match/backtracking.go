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

package match

import (
	"fmt"
	"time"

	"github.com/dlclark/regexp2"
)

type backtrackingPattern struct {
	re *regexp2.Regexp
}

func compileBacktracking(expr string, timeout time.Duration) (Pattern, error) {
	re, err := regexp2.Compile(expr, regexp2.None)
	if err != nil {
		return nil, fmt.Errorf("match: %w", err)
	}
	if timeout > 0 {
		re.MatchTimeout = timeout
	}
	return backtrackingPattern{re: re}, nil
}

func (p backtrackingPattern) String() string { return p.re.String() }

func (p backtrackingPattern) Groups() int { return len(p.re.GetGroupNumbers()) - 1 }

// FindAll converts regexp2's rune offsets into byte offsets.
func (p backtrackingPattern) FindAll(s string) ([]Match, error) {
	m, err := p.re.FindStringMatch(s)
	if err != nil {
		return nil, fmt.Errorf("match: %w", err)
	}
	if m == nil {
		return nil, nil
	}

	offsets := runeOffsets(s)
	var out []Match
	for m != nil {
		groups := m.Groups()
		converted := make([]Group, len(groups))
		for i, g := range groups {
			if len(g.Captures) == 0 {
				converted[i] = Group{Start: -1, End: -1}
				continue
			}
			start, end := offsets[g.Index], offsets[g.Index+g.Length]
			converted[i] = Group{Start: start, End: end, Value: s[start:end]}
		}
		out = append(out, Match{Groups: converted})

		if m, err = p.re.FindNextMatch(m); err != nil {
			return out, fmt.Errorf("match: %w", err)
		}
	}
	return out, nil
}

// runeOffsets returns the byte offset of every rune of s, plus len(s).
func runeOffsets(s string) []int {
	offsets := make([]int, 0, len(s)+1)
	for i := range s {
		offsets = append(offsets, i)
	}
	return append(offsets, len(s))
}
