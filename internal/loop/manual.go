package loop

import "time"

// Manual is a Scheduler driven by Advance instead of wall time. Callbacks
// run on the goroutine calling Advance.
type Manual struct {
	now   time.Duration
	seq   int
	tasks []*manualTask
}

type manualTask struct {
	m       *Manual
	seq     int
	every   time.Duration
	due     time.Duration
	fn      func()
	stopped bool
}

func (t *manualTask) Stop() { t.stopped = true }

func (m *Manual) Every(d time.Duration, fn func()) Stopper {
	if d <= 0 {
		d = time.Millisecond
	}
	m.seq++
	t := &manualTask{m: m, seq: m.seq, every: d, due: m.now + d, fn: fn}
	m.tasks = append(m.tasks, t)
	return t
}

// Now is the elapsed virtual time.
func (m *Manual) Now() time.Duration { return m.now }

// Active is the number of tasks not yet stopped.
func (m *Manual) Active() int {
	n := 0
	for _, t := range m.tasks {
		if !t.stopped {
			n++
		}
	}
	return n
}

// Advance moves virtual time forward by d, firing due tasks in time order.
// Ties fire in creation order.
func (m *Manual) Advance(d time.Duration) {
	end := m.now + d
	for {
		next := m.nextDue(end)
		if next == nil {
			break
		}
		m.now = next.due
		next.due += next.every
		next.fn()
	}
	m.now = end
	m.compact()
}

func (m *Manual) nextDue(end time.Duration) *manualTask {
	var best *manualTask
	for _, t := range m.tasks {
		if t.stopped || t.due > end {
			continue
		}
		if best == nil || t.due < best.due || (t.due == best.due && t.seq < best.seq) {
			best = t
		}
	}
	return best
}

func (m *Manual) compact() {
	live := m.tasks[:0]
	for _, t := range m.tasks {
		if !t.stopped {
			live = append(live, t)
		}
	}
	m.tasks = live
}
