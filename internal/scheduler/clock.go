// Package scheduler provides the recurring-timer primitive used by the timer
// and alert subsystems. Two clocks implement it: Engine for wall-clock time
// and Manual for deterministic, caller-driven time.
package scheduler

import (
	"sort"
	"sync"
	"time"
)

// Handle is a scoped periodic registration. Stop is idempotent and, once it
// returns, the registered callback never runs again.
type Handle interface {
	Stop()
}

// Clock hands out periodic callbacks.
type Clock interface {
	Now() time.Time
	Every(period time.Duration, fn func()) (Handle, error)
}

var (
	_ Clock = (*Engine)(nil)
	_ Clock = (*Manual)(nil)
)

type manualEntry struct {
	id     uint64
	next   time.Time
	period time.Duration
	fn     func()
}

// Manual is a Clock whose time only moves when Advance is called. Callbacks
// run synchronously on the goroutine calling Advance.
type Manual struct {
	mu      sync.Mutex
	now     time.Time
	nextID  uint64
	entries map[uint64]*manualEntry
}

func NewManual(start time.Time) *Manual {
	return &Manual{
		now:     start,
		entries: make(map[uint64]*manualEntry),
	}
}

func (m *Manual) Now() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now
}

func (m *Manual) Every(period time.Duration, fn func()) (Handle, error) {
	if period <= 0 || fn == nil {
		return nil, ErrInvalidPeriod
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	e := &manualEntry{id: m.nextID, next: m.now.Add(period), period: period, fn: fn}
	m.entries[e.id] = e
	return &manualHandle{clock: m, id: e.id}, nil
}

// Advance moves time forward by d, running every callback that falls due in
// trigger order. Callbacks may register or stop handles while running.
func (m *Manual) Advance(d time.Duration) {
	m.mu.Lock()
	target := m.now.Add(d)
	m.mu.Unlock()

	for {
		m.mu.Lock()
		next := m.earliestLocked()
		if next == nil || next.next.After(target) {
			m.now = target
			m.mu.Unlock()
			return
		}
		m.now = next.next
		next.next = next.next.Add(next.period)
		fn := next.fn
		m.mu.Unlock()
		fn()
	}
}

// Step advances by whole periods of d, n times.
func (m *Manual) Step(d time.Duration, n int) {
	for i := 0; i < n; i++ {
		m.Advance(d)
	}
}

// Pending reports the number of live handles.
func (m *Manual) Pending() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}

func (m *Manual) earliestLocked() *manualEntry {
	if len(m.entries) == 0 {
		return nil
	}
	ids := make([]uint64, 0, len(m.entries))
	for id := range m.entries {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	var best *manualEntry
	for _, id := range ids {
		e := m.entries[id]
		if best == nil || e.next.Before(best.next) {
			best = e
		}
	}
	return best
}

type manualHandle struct {
	clock *Manual
	id    uint64
}

func (h *manualHandle) Stop() {
	h.clock.mu.Lock()
	defer h.clock.mu.Unlock()
	delete(h.clock.entries, h.id)
}
