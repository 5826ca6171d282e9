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

package pipe

import (
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConnector_DeliversEverythingBeforeEOF(t *testing.T) {
	for _, capacity := range []int{1, 3, 7, 1024} {
		c := New(capacity)
		r, err := c.Attach()
		require.NoError(t, err)

		const text = "hello world!\ngoodbye cruel world, goodbye!\n"
		go func() {
			_, _ = io.WriteString(c.Writer(), text)
			_ = c.Writer().Close()
		}()

		got, err := io.ReadAll(r)
		require.NoError(t, err, "capacity %d", capacity)
		assert.Equal(t, text, string(got), "capacity %d", capacity)
	}
}

func TestConnector_WriteBlocksWhileFull(t *testing.T) {
	c := New(4)
	r, err := c.Attach()
	require.NoError(t, err)

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = c.Write([]byte("abcdef"))
	}()

	select {
	case <-done:
		t.Fatal("write of 6 bytes into a 4 byte connector returned without a reader")
	case <-time.After(50 * time.Millisecond):
	}
	assert.Equal(t, 4, c.Len())

	buf := make([]byte, 2)
	n, err := r.Read(buf)
	require.NoError(t, err)
	assert.Equal(t, "ab", string(buf[:n]))

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("writer not released after the reader freed space")
	}
	assert.Equal(t, 4, c.Len())
}

func TestConnector_ReadBlocksWhileEmptyAndOpen(t *testing.T) {
	c := New(8)
	r, err := c.Attach()
	require.NoError(t, err)

	got := make(chan error, 1)
	go func() {
		buf := make([]byte, 8)
		_, err := r.Read(buf)
		got <- err
	}()

	select {
	case err := <-got:
		t.Fatalf("read on an empty open connector returned %v", err)
	case <-time.After(50 * time.Millisecond):
	}

	c.CloseWrite()
	select {
	case err := <-got:
		assert.ErrorIs(t, err, io.EOF)
	case <-time.After(2 * time.Second):
		t.Fatal("reader not woken by CloseWrite")
	}
}

func TestConnector_CloseReadBreaksBlockedWriter(t *testing.T) {
	c := New(2)
	r, err := c.Attach()
	require.NoError(t, err)

	got := make(chan error, 1)
	go func() {
		_, err := c.Write([]byte(strings.Repeat("x", 10)))
		got <- err
	}()

	time.Sleep(20 * time.Millisecond)
	require.NoError(t, r.Close())

	select {
	case err := <-got:
		assert.True(t, errors.Is(err, ErrBrokenPipe), "got %v", err)
	case <-time.After(2 * time.Second):
		t.Fatal("writer not woken by CloseRead")
	}

	_, err = c.Write([]byte("y"))
	assert.ErrorIs(t, err, ErrBrokenPipe)
	_, err = r.Read(make([]byte, 1))
	assert.ErrorIs(t, err, ErrClosedPipe)
}

func TestConnector_WriteAfterCloseWrite(t *testing.T) {
	c := New(0)
	assert.Equal(t, DefaultCapacity, c.Cap())

	c.CloseWrite()
	c.CloseWrite()
	_, err := c.Writer().Write([]byte("late"))
	assert.ErrorIs(t, err, ErrClosedPipe)
}

func TestConnector_AttachOnlyOnce(t *testing.T) {
	c := New(1)
	assert.False(t, c.Attached())
	_, err := c.Attach()
	require.NoError(t, err)
	assert.True(t, c.Attached())

	_, err = c.Attach()
	assert.ErrorIs(t, err, ErrAlreadyAttached)
}

func TestConnector_WrapAroundKeepsOrder(t *testing.T) {
	c := New(3)
	buf := make([]byte, 2)

	_, err := c.Write([]byte("ab"))
	require.NoError(t, err)
	n, err := c.Read(buf[:1])
	require.NoError(t, err)
	assert.Equal(t, "a", string(buf[:n]))

	_, err = c.Write([]byte("cd"))
	require.NoError(t, err)

	var out []byte
	for len(out) < 3 {
		n, err := c.Read(buf)
		require.NoError(t, err)
		out = append(out, buf[:n]...)
	}
	assert.Equal(t, "bcd", string(out))
}
