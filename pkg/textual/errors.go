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
)

var (
	// ErrAlreadyStarted is returned by Start when the stage was started before.
	ErrAlreadyStarted = errors.New("textual: stage already started")

	// ErrNoOutput is returned when a stage without an output is used as an upstream.
	ErrNoOutput = errors.New("textual: stage has no output")

	// ErrInvalidPattern wraps every pattern configuration error.
	ErrInvalidPattern = errors.New("textual: invalid pattern")

	// ErrPanic wraps a panic recovered inside a stage.
	ErrPanic = errors.New("textual: stage panicked")
)

// LineError locates a fault at a given line of a stage. Line is 1-based.
type LineError struct {
	Stage string
	Line  int
	Err   error
}

func (e *LineError) Error() string {
	return fmt.Sprintf("%s: line %d: %v", e.Stage, e.Line, e.Err)
}

func (e *LineError) Unwrap() error {
	return e.Err
}
