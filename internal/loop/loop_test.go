package loop

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoopRunsPostedWorkInOrder(t *testing.T) {
	l := New(zerolog.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error)
	go func() { done <- l.Run(ctx) }()

	var got []int
	finished := make(chan struct{})
	for i := 0; i < 5; i++ {
		i := i
		require.True(t, l.Post(func() { got = append(got, i) }))
	}
	l.Post(func() { close(finished) })
	<-finished
	assert.Equal(t, []int{0, 1, 2, 3, 4}, got)

	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)
	assert.False(t, l.Post(func() {}))
}

func TestEveryStops(t *testing.T) {
	l := New(zerolog.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go l.Run(ctx)

	var n atomic.Int32
	s := l.Every(time.Millisecond, func() { n.Add(1) })
	assert.Equal(t, 1, l.Active())
	require.Eventually(t, func() bool { return n.Load() >= 3 }, time.Second, time.Millisecond)

	s.Stop()
	s.Stop()
	assert.Equal(t, 0, l.Active())

	// Let any tick already queued drain, then check nothing else runs.
	flushed := make(chan struct{})
	l.Post(func() { close(flushed) })
	<-flushed
	after := n.Load()
	time.Sleep(10 * time.Millisecond)
	assert.Equal(t, after, n.Load())
}

func TestManualScheduler(t *testing.T) {
	var m Manual
	var got []string
	a := m.Every(10*time.Millisecond, func() { got = append(got, "a") })
	m.Every(25*time.Millisecond, func() { got = append(got, "b") })

	m.Advance(30 * time.Millisecond)
	assert.Equal(t, []string{"a", "a", "b", "a"}, got)
	assert.Equal(t, 30*time.Millisecond, m.Now())

	a.Stop()
	assert.Equal(t, 1, m.Active())
	got = nil
	m.Advance(20 * time.Millisecond)
	assert.Equal(t, []string{"b"}, got)
}

func TestManualStopInsideCallback(t *testing.T) {
	var m Manual
	n := 0
	var s Stopper
	s = m.Every(time.Millisecond, func() {
		n++
		if n == 2 {
			s.Stop()
		}
	})
	m.Advance(10 * time.Millisecond)
	assert.Equal(t, 2, n)
	assert.Equal(t, 0, m.Active())
}
