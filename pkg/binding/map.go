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

// Package binding holds the name -> value table shared by the stages of one
// pipeline run.
//
// Every single operation is atomic. Nothing spans operations: a stage that
// looks a name up and then uses the result sees whatever was bound at the
// instant of the lookup. An absent name is a legitimate answer when the
// producing stage has not reached the corresponding input yet.
package binding

import (
	"maps"
	"sync"
)

// Map is safe for concurrent use. The zero value is ready to use.
type Map struct {
	mu     sync.RWMutex
	values map[string]string
	names  map[string]string // value -> first name bound to it
}

// NewMap returns an empty Map.
func NewMap() *Map {
	return &Map{}
}

// Get returns the value bound to name.
func (m *Map) Get(name string) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.values[name]
	return v, ok
}

// Put binds name to value, replacing any previous binding of name.
func (m *Map) Put(name, value string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.values == nil {
		m.values = make(map[string]string)
		m.names = make(map[string]string)
	}
	if old, ok := m.values[name]; ok && m.names[old] == name {
		delete(m.names, old)
	}
	m.values[name] = value
	if _, ok := m.names[value]; !ok {
		m.names[value] = name
	}
}

// NameOf returns the first name bound to value, as long as that name still
// holds it.
func (m *Map) NameOf(value string) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	n, ok := m.names[value]
	return n, ok
}

// Len returns the number of bound names.
func (m *Map) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.values)
}

// Snapshot copies the current bindings.
func (m *Map) Snapshot() map[string]string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make(map[string]string, len(m.values))
	maps.Copy(out, m.values)
	return out
}
