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

import "sync"

// Fault is the first failure a stage swallowed before terminating.
//
// Err is the reported error. Stack is only set when the fault comes from a
// recovered panic; it is captured close to the panic site.
//
// Stages never return their fault to the caller of Start or Join: the loop
// reports it, closes both of its connector ends and terminates. Fault gives the
// pipeline supervisor a structured way to look at what happened afterwards.
type Fault struct {
	Err   error
	Stack []byte
}

// FaultStore is a write-once holder for a Fault.
//
// Concurrency contract:
//
//   - Store is write-once: the first call wins, subsequent calls are ignored.
//   - Load is safe to call concurrently with Store.
//   - Load returns a COPY of the stored stack trace.
type FaultStore struct {
	once  sync.Once
	mu    sync.Mutex
	fault Fault
	set   bool
}

// Store records the first fault. A nil err is ignored, as is a nil receiver.
func (fs *FaultStore) Store(err error, stack []byte) {
	if fs == nil || err == nil {
		return
	}
	fs.once.Do(func() {
		var stackCopy []byte
		if len(stack) > 0 {
			stackCopy = make([]byte, len(stack))
			copy(stackCopy, stack)
		}

		fs.mu.Lock()
		fs.fault = Fault{Err: err, Stack: stackCopy}
		fs.set = true
		fs.mu.Unlock()
	})
}

// Load retrieves the stored fault, if any.
func (fs *FaultStore) Load() (Fault, bool) {
	if fs == nil {
		return Fault{}, false
	}

	fs.mu.Lock()
	f := fs.fault
	ok := fs.set
	fs.mu.Unlock()

	if !ok {
		return Fault{}, false
	}
	if len(f.Stack) > 0 {
		stackCopy := make([]byte, len(f.Stack))
		copy(stackCopy, f.Stack)
		f.Stack = stackCopy
	}
	return f, true
}
