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

// Package pipe provides the bounded, blocking byte connector that links two
// adjacent pipeline stages.
//
// A Connector has exactly one producer and one consumer. The producer holds the
// Writer end, the consumer obtains the Reader end through Attach. Both ends
// close independently:
//
//   - Write blocks while the buffer is full.
//   - Read blocks while the buffer is empty and the write end is open.
//   - Read returns io.EOF once the buffer is drained and the write end is closed.
//   - Write fails with ErrBrokenPipe once the read end is closed.
//
// Everything written before the write end is closed is delivered to the reader
// before io.EOF is observed.
package pipe

import (
	"errors"
	"io"
	"sync"
	"sync/atomic"
)

// DefaultCapacity is the buffer size used when a Connector is created with a
// non-positive capacity.
const DefaultCapacity = 1024

var (
	// ErrClosedPipe is returned when an end is used after it has been closed by
	// its own owner.
	ErrClosedPipe = errors.New("pipe: closed pipe")

	// ErrBrokenPipe is returned to a writer whose reader has detached.
	ErrBrokenPipe = errors.New("pipe: broken pipe")

	// ErrAlreadyAttached is returned when a second consumer tries to attach to
	// a connector.
	ErrAlreadyAttached = errors.New("pipe: connector already attached")
)

// Connector is a fixed capacity ring buffer guarded by a mutex, with one
// condition per blocking direction.
type Connector struct {
	mu       sync.Mutex
	readable *sync.Cond // data arrived or write end closed
	writable *sync.Cond // space freed or read end closed

	buf   []byte
	start int
	size  int

	writeClosed bool
	readClosed  bool

	attached atomic.Bool
	writer   *Writer
}

// New returns a Connector able to buffer capacity bytes.
func New(capacity int) *Connector {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	c := &Connector{buf: make([]byte, capacity)}
	c.readable = sync.NewCond(&c.mu)
	c.writable = sync.NewCond(&c.mu)
	c.writer = &Writer{c: c}
	return c
}

// Cap returns the buffer capacity in bytes.
func (c *Connector) Cap() int {
	return len(c.buf)
}

// Len returns the number of buffered bytes not yet read.
func (c *Connector) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.size
}

// Writer returns the producer end.
func (c *Connector) Writer() *Writer {
	return c.writer
}

// Attach hands the consumer end to its single reader.
func (c *Connector) Attach() (*Reader, error) {
	if !c.attached.CompareAndSwap(false, true) {
		return nil, ErrAlreadyAttached
	}
	return &Reader{c: c}, nil
}

// Attached reports whether a consumer owns the read end.
func (c *Connector) Attached() bool {
	return c.attached.Load()
}

// Close closes both ends.
func (c *Connector) Close() error {
	c.CloseWrite()
	c.CloseRead()
	return nil
}

// Write appends p to the buffer, blocking whenever the buffer is full. It
// returns the number of bytes accepted before a failure.
func (c *Connector) Write(p []byte) (n int, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for n < len(p) {
		if c.writeClosed {
			return n, ErrClosedPipe
		}
		if c.readClosed {
			return n, ErrBrokenPipe
		}
		if c.size == len(c.buf) {
			c.writable.Wait()
			continue
		}
		n += c.put(p[n:])
		c.readable.Broadcast()
	}
	return n, nil
}

// Read copies buffered bytes into p. It blocks while nothing is buffered and
// the write end is still open.
func (c *Connector) Read(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	for c.size == 0 {
		if c.readClosed {
			return 0, ErrClosedPipe
		}
		if c.writeClosed {
			return 0, io.EOF
		}
		c.readable.Wait()
	}
	if c.readClosed {
		return 0, ErrClosedPipe
	}
	n := c.take(p)
	c.writable.Broadcast()
	return n, nil
}

// CloseWrite declares that no further writes will occur. The reader drains the
// remaining bytes and then observes io.EOF. Calling it more than once is a no-op.
func (c *Connector) CloseWrite() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.writeClosed {
		return
	}
	c.writeClosed = true
	c.readable.Broadcast()
	c.writable.Broadcast()
}

// CloseRead declares that the reader will not consume anything else. Buffered
// bytes are discarded and blocked or future writes fail with ErrBrokenPipe.
func (c *Connector) CloseRead() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.readClosed {
		return
	}
	c.readClosed = true
	c.start, c.size = 0, 0
	c.readable.Broadcast()
	c.writable.Broadcast()
}

// put copies as much of p as fits. Caller holds mu.
func (c *Connector) put(p []byte) int {
	free := len(c.buf) - c.size
	if len(p) > free {
		p = p[:free]
	}
	end := (c.start + c.size) % len(c.buf)
	n := copy(c.buf[end:], p)
	if n < len(p) {
		n += copy(c.buf, p[n:])
	}
	c.size += n
	return n
}

// take moves up to len(p) buffered bytes into p. Caller holds mu.
func (c *Connector) take(p []byte) int {
	if len(p) > c.size {
		p = p[:c.size]
	}
	n := copy(p, c.buf[c.start:min(c.start+c.size, len(c.buf))])
	if n < len(p) {
		n += copy(p[n:], c.buf)
	}
	c.start = (c.start + n) % len(c.buf)
	c.size -= n
	if c.size == 0 {
		c.start = 0
	}
	return n
}

// Writer is the producer end of a Connector.
type Writer struct {
	c *Connector
}

// Write implements io.Writer.
func (w *Writer) Write(p []byte) (int, error) {
	return w.c.Write(p)
}

// Close implements io.Closer by closing the write end.
func (w *Writer) Close() error {
	w.c.CloseWrite()
	return nil
}

// Connector returns the connector this end belongs to.
func (w *Writer) Connector() *Connector {
	return w.c
}

// Reader is the consumer end of a Connector.
type Reader struct {
	c *Connector
}

// Read implements io.Reader.
func (r *Reader) Read(p []byte) (int, error) {
	return r.c.Read(p)
}

// Close implements io.Closer by closing the read end.
func (r *Reader) Close() error {
	r.c.CloseRead()
	return nil
}

// Connector returns the connector this end belongs to.
func (r *Reader) Connector() *Connector {
	return r.c
}

var (
	_ io.WriteCloser = (*Writer)(nil)
	_ io.ReadCloser  = (*Reader)(nil)
)
