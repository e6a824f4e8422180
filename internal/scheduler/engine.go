// Package scheduler emits window-boundary and task-nudge events at their wall
// clock times so the UI can re-plan without polling.
package scheduler

import (
	"container/heap"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sandeepkv93/vitalday/internal/model"
)

var (
	ErrInvalidTriggerTime = errors.New("scheduler: invalid trigger time")
	ErrStopped            = errors.New("scheduler: engine stopped")
)

type EventKind string

const (
	// KindWindow fires when a new window starts.
	KindWindow EventKind = "window"
	// KindTask nudges about a pending task with an explicit time.
	KindTask EventKind = "task"
)

// Event is one wall clock trigger. Window events carry the window that
// starts at At; task events carry the task to nudge and its window.
type Event struct {
	ID     string
	Kind   EventKind
	TaskID string
	Window model.Window
	At     time.Time
}

type queueItem struct {
	event Event
	seq   uint64
}

type priorityQueue []queueItem

func (pq priorityQueue) Len() int { return len(pq) }

// Less orders by trigger time, then by insertion so equal times stay FIFO.
func (pq priorityQueue) Less(i, j int) bool {
	if pq[i].event.At.Equal(pq[j].event.At) {
		return pq[i].seq < pq[j].seq
	}
	return pq[i].event.At.Before(pq[j].event.At)
}

func (pq priorityQueue) Swap(i, j int) {
	pq[i], pq[j] = pq[j], pq[i]
}

func (pq *priorityQueue) Push(x any) {
	*pq = append(*pq, x.(queueItem))
}

func (pq *priorityQueue) Pop() any {
	old := *pq
	n := len(old)
	item := old[n-1]
	*pq = old[0 : n-1]
	return item
}

// Engine delivers queued events on C once their time arrives. One goroutine
// owns the timer; delivery never blocks, and events a slow reader cannot
// take are counted in Dropped.
type Engine struct {
	mu      sync.Mutex
	queue   priorityQueue
	seq     uint64
	out     chan Event
	wakeup  chan struct{}
	stopCh  chan struct{}
	doneCh  chan struct{}
	started bool
	stopped bool
	dropped uint64
}

func NewEngine(bufferSize int) *Engine {
	if bufferSize <= 0 {
		bufferSize = 1
	}
	return &Engine{
		queue:  make(priorityQueue, 0),
		out:    make(chan Event, bufferSize),
		wakeup: make(chan struct{}, 1),
		stopCh: make(chan struct{}),
		doneCh: make(chan struct{}),
	}
}

// C is closed by Stop, whether or not the engine was started.
func (e *Engine) C() <-chan Event {
	return e.out
}

func (e *Engine) Start() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.started || e.stopped {
		return
	}
	e.started = true
	heap.Init(&e.queue)
	go e.loop()
}

func (e *Engine) Stop() {
	e.mu.Lock()
	if e.stopped {
		e.mu.Unlock()
		return
	}
	if !e.started {
		// No loop owns out, so close it here.
		e.stopped = true
		close(e.out)
		e.mu.Unlock()
		return
	}
	e.stopped = true
	close(e.stopCh)
	e.mu.Unlock()
	<-e.doneCh
}

func (e *Engine) Schedule(ev Event) error {
	if ev.At.IsZero() {
		return ErrInvalidTriggerTime
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.stopped {
		return ErrStopped
	}

	e.seq++
	heap.Push(&e.queue, queueItem{event: ev, seq: e.seq})
	e.signalWakeup()
	return nil
}

// Reset drops every queued event. Used when the day is reloaded and the
// events are rebuilt from fresh task state.
func (e *Engine) Reset() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.queue = e.queue[:0]
	e.signalWakeup()
}

// Pending reports how many events are queued.
func (e *Engine) Pending() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.queue)
}

func (e *Engine) Dropped() uint64 {
	return atomic.LoadUint64(&e.dropped)
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

		wait := time.Until(next.At)
		if wait < 0 {
			wait = 0
		}
		timer = resetTimer(timer, wait)

		select {
		case <-timer.C:
			for _, ev := range e.popDue(time.Now()) {
				select {
				case e.out <- ev:
				default:
					atomic.AddUint64(&e.dropped, 1)
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

func (e *Engine) peek() (Event, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if len(e.queue) == 0 {
		return Event{}, false
	}
	return e.queue[0].event, true
}

func (e *Engine) popDue(now time.Time) []Event {
	e.mu.Lock()
	defer e.mu.Unlock()

	out := make([]Event, 0)
	for len(e.queue) > 0 {
		if e.queue[0].event.At.After(now) {
			break
		}
		item := heap.Pop(&e.queue).(queueItem)
		out = append(out, item.event)
	}
	return out
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
