// Package playback advances the play index on a timer.
package playback

import (
	"time"

	"github.com/rs/zerolog"

	"marketswarm/internal/loop"
)

// Speeds are the playback durations, in seconds, offered to the user.
var Speeds = []float64{10, 20, 30, 40, 50, 60, 70, 80, 90, 100}

// Range is a half-open index range [Lo, Hi).
type Range struct {
	Lo, Hi int
}

// NewRange orders and clamps lo and hi into a non-empty range within [0, n).
func NewRange(lo, hi, n int) Range {
	if lo > hi {
		lo, hi = hi, lo
	}
	if lo < 0 {
		lo = 0
	}
	if hi > n {
		hi = n
	}
	if lo >= n {
		lo = n - 1
	}
	if hi <= lo {
		hi = lo + 1
	}
	return Range{Lo: lo, Hi: hi}
}

func (r Range) Len() int { return r.Hi - r.Lo }

func (r Range) Contains(i int) bool { return i >= r.Lo && i < r.Hi }

// Clamp pins i into r.
func (r Range) Clamp(i int) int {
	if i < r.Lo {
		return r.Lo
	}
	if i >= r.Hi {
		return r.Hi - 1
	}
	return i
}

// Next is the index after i, wrapping from the end of r back to its start.
func (r Range) Next(i int) int {
	next := i + 1
	if next >= r.Hi || next < r.Lo {
		return r.Lo
	}
	return next
}

// Frequency is the time between index steps so that a full pass over
// chartLen periods takes speedSeconds.
func Frequency(speedSeconds float64, chartLen int) time.Duration {
	if chartLen <= 0 {
		chartLen = 1
	}
	return time.Duration(speedSeconds / float64(chartLen) * 1000 * float64(time.Millisecond))
}

// Clock calls tick periodically while playing.
type Clock struct {
	sched    loop.Scheduler
	tick     func()
	interval time.Duration
	stopper  loop.Stopper
	log      zerolog.Logger
}

func NewClock(sched loop.Scheduler, tick func(), log zerolog.Logger) *Clock {
	return &Clock{sched: sched, tick: tick, log: log.With().Str("component", "playback").Logger()}
}

// Start begins ticking every interval, replacing any running timer.
func (c *Clock) Start(interval time.Duration) {
	c.Stop()
	if interval <= 0 {
		interval = time.Millisecond
	}
	c.interval = interval
	c.stopper = c.sched.Every(interval, c.tick)
	c.log.Debug().Dur("interval", interval).Msg("playing")
}

func (c *Clock) Stop() {
	if c.stopper == nil {
		return
	}
	c.stopper.Stop()
	c.stopper = nil
	c.log.Debug().Msg("stopped")
}

func (c *Clock) Playing() bool { return c.stopper != nil }

func (c *Clock) Interval() time.Duration { return c.interval }

// SetInterval changes the tick interval. A playing clock restarts at the new
// rate and keeps playing.
func (c *Clock) SetInterval(d time.Duration) {
	if c.Playing() {
		c.Start(d)
		return
	}
	c.interval = d
}
