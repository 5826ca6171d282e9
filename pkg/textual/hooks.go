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

// Hooks are optional callbacks run by a stage at well-defined points of its
// life. Every field may be nil.
//
//   - OnAttach runs once, at the end of construction.
//   - OnEnter runs on the stage goroutine before the loop starts. An error
//     is a fault.
//   - BeforeLine runs after a line has been read and before it is transformed.
//     n is the 1-based line number. An error is a fault.
//   - AfterLine runs once the transformed line has been written downstream.
//     An error is a fault.
//   - OnFault runs before a fault is reported and the stage unwinds.
//
// BeforeLine and AfterLine are only called by line stages. Hooks may block:
// that is how a controlling goroutine pauses a stage at an exact line.
type Hooks struct {
	OnAttach   func(s *Stage)
	OnEnter    func(s *Stage) error
	BeforeLine func(s *Stage, n int, line string) error
	AfterLine  func(s *Stage, n int, line string) error
	OnFault    func(s *Stage, err error)
}

// Then returns hooks running h first and next second. An error returned by
// h short-circuits next.
func (h Hooks) Then(next Hooks) Hooks {
	return Hooks{
		OnAttach: func(s *Stage) {
			h.attach(s)
			next.attach(s)
		},
		OnEnter: func(s *Stage) error {
			if err := h.enter(s); err != nil {
				return err
			}
			return next.enter(s)
		},
		BeforeLine: func(s *Stage, n int, line string) error {
			if err := h.beforeLine(s, n, line); err != nil {
				return err
			}
			return next.beforeLine(s, n, line)
		},
		AfterLine: func(s *Stage, n int, line string) error {
			if err := h.afterLine(s, n, line); err != nil {
				return err
			}
			return next.afterLine(s, n, line)
		},
		OnFault: func(s *Stage, err error) {
			h.fault(s, err)
			next.fault(s, err)
		},
	}
}

func (h Hooks) attach(s *Stage) {
	if h.OnAttach != nil {
		h.OnAttach(s)
	}
}

func (h Hooks) enter(s *Stage) error {
	if h.OnEnter == nil {
		return nil
	}
	return h.OnEnter(s)
}

func (h Hooks) beforeLine(s *Stage, n int, line string) error {
	if h.BeforeLine == nil {
		return nil
	}
	return h.BeforeLine(s, n, line)
}

func (h Hooks) afterLine(s *Stage, n int, line string) error {
	if h.AfterLine == nil {
		return nil
	}
	return h.AfterLine(s, n, line)
}

func (h Hooks) fault(s *Stage, err error) {
	if h.OnFault != nil {
		h.OnFault(s, err)
	}
}
