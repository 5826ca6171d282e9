package probe

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/benoit-pereira-da-silva/textpipe/pkg/textual"
)

// Rendezvous is a reusable two-party barrier: Meet returns once another
// goroutine has called Meet too.
type Rendezvous struct {
	mu      sync.Mutex
	waiting chan struct{}
}

// Meet blocks until the other party arrives or ctx is done.
func (r *Rendezvous) Meet(ctx context.Context) error {
	r.mu.Lock()
	if ch := r.waiting; ch != nil {
		r.waiting = nil
		r.mu.Unlock()
		close(ch)
		return nil
	}
	ch := make(chan struct{})
	r.waiting = ch
	r.mu.Unlock()

	select {
	case <-ch:
		return nil
	case <-ctx.Done():
		r.mu.Lock()
		defer r.mu.Unlock()
		if r.waiting == ch {
			r.waiting = nil
			return fmt.Errorf("probe: rendezvous: %w", ctx.Err())
		}
		// The other party arrived while we were giving up.
		return nil
	}
}

// Identified is anything carrying a stage identity; every stage type is.
type Identified interface {
	ID() uuid.UUID
}

// Registry keeps one Rendezvous per stage. Its context bounds every wait so
// that a test never hangs on a party that will not come.
type Registry struct {
	ctx context.Context
	mu  sync.Mutex
	rvs map[uuid.UUID]*Rendezvous
}

func NewRegistry(ctx context.Context) *Registry {
	if ctx == nil {
		ctx = context.Background()
	}
	return &Registry{ctx: ctx, rvs: make(map[uuid.UUID]*Rendezvous)}
}

// For returns the rendezvous of key, creating it on first use.
func (r *Registry) For(key uuid.UUID) *Rendezvous {
	r.mu.Lock()
	defer r.mu.Unlock()
	rv, ok := r.rvs[key]
	if !ok {
		rv = &Rendezvous{}
		r.rvs[key] = rv
	}
	return rv
}

// Trigger meets stage at its rendezvous, from the controlling goroutine.
func (r *Registry) Trigger(stage Identified) error {
	return r.For(stage.ID()).Meet(r.ctx)
}

// RendezvousAround makes the stage meet its rendezvous right before it
// transforms line n and right after it has written it.
func RendezvousAround(reg *Registry, n int) textual.Hooks {
	meet := func(s *textual.Stage, line int, _ string) error {
		if line != n {
			return nil
		}
		return reg.For(s.ID()).Meet(reg.ctx)
	}
	return textual.Hooks{BeforeLine: meet, AfterLine: meet}
}
