package scheduler

import (
	"container/heap"
	"errors"
	"sync"
	"time"
)

var (
	ErrInvalidPeriod = errors.New("scheduler: invalid period")
	ErrEngineStopped = errors.New("scheduler: engine stopped")
)

// Fire is one due occurrence of a periodic entry. It is delivered on C and
// must be handed back to Dispatch by the goroutine that owns the callbacks.
type Fire struct {
	ID uint64
	// Seq numbers the occurrences of one handle from zero.
	Seq uint64
	At  time.Time
}

type entry struct {
	id     uint64
	seq    uint64
	at     time.Time
	period time.Duration
}

type priorityQueue []entry

func (pq priorityQueue) Len() int { return len(pq) }

func (pq priorityQueue) Less(i, j int) bool {
	if pq[i].at.Equal(pq[j].at) {
		return pq[i].id < pq[j].id
	}
	return pq[i].at.Before(pq[j].at)
}

func (pq priorityQueue) Swap(i, j int) {
	pq[i], pq[j] = pq[j], pq[i]
}

func (pq *priorityQueue) Push(x any) {
	*pq = append(*pq, x.(entry))
}

func (pq *priorityQueue) Pop() any {
	old := *pq
	n := len(old)
	item := old[n-1]
	*pq = old[0 : n-1]
	return item
}

// Engine is a real-time Clock. A single goroutine keeps a heap of periodic
// entries and emits each due occurrence on C in trigger order. Callbacks run
// only inside Dispatch, so the owner decides which goroutine executes them.
type Engine struct {
	mu        sync.Mutex
	queue     priorityQueue
	callbacks map[uint64]func()
	nextID    uint64
	out       chan Fire
	wakeup    chan struct{}
	stopCh    chan struct{}
	doneCh    chan struct{}
	started   bool
	stopped   bool
	now       func() time.Time
}

func NewEngine(bufferSize int) *Engine {
	if bufferSize <= 0 {
		bufferSize = 1
	}
	return &Engine{
		queue:     make(priorityQueue, 0),
		callbacks: make(map[uint64]func()),
		out:       make(chan Fire, bufferSize),
		wakeup:    make(chan struct{}, 1),
		stopCh:    make(chan struct{}),
		doneCh:    make(chan struct{}),
		now:       time.Now,
	}
}

func (e *Engine) C() <-chan Fire {
	return e.out
}

func (e *Engine) Now() time.Time {
	return e.now()
}

func (e *Engine) Start() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.started {
		return
	}
	e.started = true
	heap.Init(&e.queue)
	go e.loop()
}

func (e *Engine) Stop() {
	e.mu.Lock()
	if !e.started || e.stopped {
		e.stopped = true
		e.mu.Unlock()
		return
	}
	e.stopped = true
	close(e.stopCh)
	e.mu.Unlock()
	<-e.doneCh
}

// Every registers fn to run once per period, first at Now()+period.
func (e *Engine) Every(period time.Duration, fn func()) (Handle, error) {
	if period <= 0 || fn == nil {
		return nil, ErrInvalidPeriod
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.stopped {
		return nil, ErrEngineStopped
	}

	e.nextID++
	id := e.nextID
	e.callbacks[id] = fn
	heap.Push(&e.queue, entry{id: id, at: e.now().Add(period), period: period})
	e.signalWakeup()
	return &engineHandle{engine: e, id: id}, nil
}

// Dispatch runs the callback behind f if its handle is still live. It
// reports whether a callback ran.
func (e *Engine) Dispatch(f Fire) bool {
	e.mu.Lock()
	fn, ok := e.callbacks[f.ID]
	e.mu.Unlock()
	if !ok {
		return false
	}
	fn()
	return true
}

// Live reports the number of handles that have not been stopped.
func (e *Engine) Live() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.callbacks)
}

func (e *Engine) cancel(id uint64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if _, ok := e.callbacks[id]; !ok {
		return
	}
	delete(e.callbacks, id)
	e.signalWakeup()
}

func (e *Engine) loop() {
	defer close(e.doneCh)
	defer close(e.out)

	var timer *time.Timer
	for {
		next, hasNext := e.peek()
		if !hasNext {
			select {
			case <-e.wakeup:
				continue
			case <-e.stopCh:
				return
			}
		}

		wait := next.at.Sub(e.now())
		if wait < 0 {
			wait = 0
		}
		timer = resetTimer(timer, wait)

		select {
		case <-timer.C:
			for _, f := range e.popDue(e.now()) {
				select {
				case e.out <- f:
				case <-e.stopCh:
					return
				}
			}
		case <-e.wakeup:
			continue
		case <-e.stopCh:
			stopTimer(timer)
			return
		}
	}
}

func (e *Engine) signalWakeup() {
	select {
	case e.wakeup <- struct{}{}:
	default:
	}
}

// peek returns the earliest live entry, discarding cancelled ones.
func (e *Engine) peek() (entry, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	for len(e.queue) > 0 {
		head := e.queue[0]
		if _, live := e.callbacks[head.id]; live {
			return head, true
		}
		heap.Pop(&e.queue)
	}
	return entry{}, false
}

// popDue removes every live entry due at or before now and re-arms it one
// period after its previous trigger time.
func (e *Engine) popDue(now time.Time) []Fire {
	e.mu.Lock()
	defer e.mu.Unlock()

	out := make([]Fire, 0)
	for len(e.queue) > 0 {
		next := e.queue[0]
		if next.at.After(now) {
			break
		}
		item := heap.Pop(&e.queue).(entry)
		if _, live := e.callbacks[item.id]; !live {
			continue
		}
		out = append(out, Fire{ID: item.id, Seq: item.seq, At: item.at})
		item.seq++
		item.at = item.at.Add(item.period)
		heap.Push(&e.queue, item)
	}
	return out
}

type engineHandle struct {
	engine *Engine
	id     uint64
}

func (h *engineHandle) Stop() {
	h.engine.cancel(h.id)
}

func resetTimer(timer *time.Timer, d time.Duration) *time.Timer {
	if timer == nil {
		return time.NewTimer(d)
	}
	stopTimer(timer)
	timer.Reset(d)
	return timer
}

func stopTimer(timer *time.Timer) {
	if timer == nil {
		return
	}
	if !timer.Stop() {
		select {
		case <-timer.C:
		default:
		}
	}
}
