// Package loop runs every state change on one goroutine. Timers live on
// their own goroutines and post their callbacks to the loop.
package loop

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
)

// Stopper cancels a periodic task.
type Stopper interface {
	Stop()
}

// Scheduler starts periodic tasks whose callbacks run on the caller's
// event goroutine.
type Scheduler interface {
	Every(d time.Duration, fn func()) Stopper
}

type Loop struct {
	tasks chan func()
	done  chan struct{}
	once  sync.Once
	log   zerolog.Logger

	active atomic.Int32
}

func New(log zerolog.Logger) *Loop {
	return &Loop{
		tasks: make(chan func(), 256),
		done:  make(chan struct{}),
		log:   log.With().Str("component", "loop").Logger(),
	}
}

// Post queues fn to run on the loop. It reports false once the loop has stopped.
func (l *Loop) Post(fn func()) bool {
	select {
	case <-l.done:
		return false
	default:
	}
	select {
	case l.tasks <- fn:
		return true
	case <-l.done:
		return false
	}
}

// Run processes posted work until ctx is cancelled.
func (l *Loop) Run(ctx context.Context) error {
	defer l.once.Do(func() { close(l.done) })
	for {
		select {
		case <-ctx.Done():
			l.log.Debug().Int32("timers", l.active.Load()).Msg("loop stopped")
			return ctx.Err()
		case fn := <-l.tasks:
			fn()
		}
	}
}

// Active is the number of running periodic tasks.
func (l *Loop) Active() int { return int(l.active.Load()) }

type ticker struct {
	stop    chan struct{}
	once    sync.Once
	stopped atomic.Bool
	l       *Loop
}

func (t *ticker) Stop() {
	t.once.Do(func() {
		t.stopped.Store(true)
		close(t.stop)
		t.l.active.Add(-1)
	})
}

// Every runs fn on the loop every d until stopped. Ticks are dropped while
// the loop is busy, so a slow callback never queues a backlog.
func (l *Loop) Every(d time.Duration, fn func()) Stopper {
	t := &ticker{stop: make(chan struct{}), l: l}
	l.active.Add(1)
	run := func() {
		if !t.stopped.Load() {
			fn()
		}
	}
	go func() {
		tk := time.NewTicker(d)
		defer tk.Stop()
		for {
			select {
			case <-t.stop:
				return
			case <-l.done:
				t.Stop()
				return
			case <-tk.C:
				if !l.Post(run) {
					t.Stop()
					return
				}
			}
		}
	}()
	return t
}
