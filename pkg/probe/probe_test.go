package probe

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCountDown_FiresOnTheCallAfterZero(t *testing.T) {
	c := NewCountDowns()
	key := uuid.New()

	assert.False(t, c.CountDown(key), "missing counter never fires")
	require.True(t, c.Create(key, 2))
	assert.False(t, c.Create(key, 5), "counter already installed")

	assert.False(t, c.CountDown(key)) // 2 -> 1
	assert.False(t, c.CountDown(key)) // 1 -> 0
	assert.True(t, c.CountDown(key))  // zero: fires and deletes
	assert.False(t, c.Exists(key))
	assert.False(t, c.CountDown(key))
}

func TestRendezvous_BothOrders(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	var rv Rendezvous
	for round := 0; round < 3; round++ {
		met := make(chan error, 1)
		go func() { met <- rv.Meet(ctx) }()
		if round%2 == 0 {
			time.Sleep(10 * time.Millisecond)
		}
		require.NoError(t, rv.Meet(ctx))
		require.NoError(t, <-met)
	}
}

func TestRendezvous_GivesUpWithContext(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	var rv Rendezvous
	err := rv.Meet(ctx)
	assert.True(t, errors.Is(err, context.DeadlineExceeded), "got %v", err)

	// The barrier is reusable after a timeout.
	ctx2, cancel2 := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel2()
	met := make(chan error, 1)
	go func() { met <- rv.Meet(ctx2) }()
	require.NoError(t, rv.Meet(ctx2))
	require.NoError(t, <-met)
}

type fakeStage uuid.UUID

func (f fakeStage) ID() uuid.UUID { return uuid.UUID(f) }

func TestRegistry_KeysByStage(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	reg := NewRegistry(ctx)

	a, b := fakeStage(uuid.New()), fakeStage(uuid.New())
	assert.Same(t, reg.For(a.ID()), reg.For(a.ID()))
	assert.NotSame(t, reg.For(a.ID()), reg.For(b.ID()))

	done := make(chan error, 1)
	go func() { done <- reg.For(b.ID()).Meet(ctx) }()
	require.NoError(t, reg.Trigger(b))
	require.NoError(t, <-done)
}
