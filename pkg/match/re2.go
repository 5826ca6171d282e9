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
	"regexp"
)

type re2Pattern struct {
	re *regexp.Regexp
}

func compileRE2(expr string) (Pattern, error) {
	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, fmt.Errorf("match: %w", err)
	}
	return re2Pattern{re: re}, nil
}

func (p re2Pattern) String() string { return p.re.String() }

func (p re2Pattern) Groups() int { return p.re.NumSubexp() }

func (p re2Pattern) FindAll(s string) ([]Match, error) {
	all := p.re.FindAllStringSubmatchIndex(s, -1)
	if len(all) == 0 {
		return nil, nil
	}
	out := make([]Match, 0, len(all))
	for _, loc := range all {
		groups := make([]Group, len(loc)/2)
		for i := range groups {
			start, end := loc[2*i], loc[2*i+1]
			if start < 0 {
				groups[i] = Group{Start: -1, End: -1}
				continue
			}
			groups[i] = Group{Start: start, End: end, Value: s[start:end]}
		}
		out = append(out, Match{Groups: groups})
	}
	return out, nil
}
