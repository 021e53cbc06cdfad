// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package canvas

import (
	"sync"
	"time"
)

// =============================================================================
// FRAME SCHEDULER
// =============================================================================

// FrameID identifies a requested frame callback. Zero is never issued.
type FrameID uint64

// FrameScheduler is the host's display-refresh clock. A requested callback
// runs once, on the next frame, unless it is cancelled first.
type FrameScheduler interface {
	RequestFrame(fn func(now time.Time)) FrameID
	CancelFrame(id FrameID)
}

// QueueScheduler holds frame callbacks until the host calls Flush. It lets an
// event loop (a Bubble Tea tick, a test) decide when a frame happens.
//
// Callbacks requested while a flush is running are deferred to the next
// flush, so a callback that reschedules itself runs once per frame.
type QueueScheduler struct {
	mu      sync.Mutex
	nextID  FrameID
	order   []FrameID
	pending map[FrameID]func(time.Time)
}

// NewQueueScheduler creates an empty scheduler.
func NewQueueScheduler() *QueueScheduler {
	return &QueueScheduler{pending: make(map[FrameID]func(time.Time))}
}

// RequestFrame queues fn for the next Flush.
func (q *QueueScheduler) RequestFrame(fn func(now time.Time)) FrameID {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.nextID++
	id := q.nextID
	q.pending[id] = fn
	q.order = append(q.order, id)
	return id
}

// CancelFrame drops a queued callback. Unknown or already-run ids are ignored.
func (q *QueueScheduler) CancelFrame(id FrameID) {
	q.mu.Lock()
	defer q.mu.Unlock()
	delete(q.pending, id)
}

// Pending reports how many callbacks are waiting for the next frame.
func (q *QueueScheduler) Pending() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.pending)
}

// Flush runs every callback queued before the call, in request order, and
// returns how many ran.
func (q *QueueScheduler) Flush(now time.Time) int {
	q.mu.Lock()
	order := q.order
	q.order = nil
	batch := make([]func(time.Time), 0, len(order))
	for _, id := range order {
		if fn, ok := q.pending[id]; ok {
			batch = append(batch, fn)
			delete(q.pending, id)
		}
	}
	q.mu.Unlock()

	for _, fn := range batch {
		fn(now)
	}
	return len(batch)
}

// =============================================================================
// TICKER SCHEDULER
// =============================================================================

// TickerScheduler flushes a queue at a fixed rate on its own goroutine.
// Callbacks run serially on that goroutine.
type TickerScheduler struct {
	*QueueScheduler

	interval time.Duration
	stop     chan struct{}
	done     chan struct{}
	once     sync.Once
}

// NewTickerScheduler starts a frame clock at fps frames per second.
// Non-positive rates fall back to 30.
func NewTickerScheduler(fps int) *TickerScheduler {
	if fps <= 0 {
		fps = 30
	}
	t := &TickerScheduler{
		QueueScheduler: NewQueueScheduler(),
		interval:       time.Second / time.Duration(fps),
		stop:           make(chan struct{}),
		done:           make(chan struct{}),
	}
	go t.run()
	return t
}

// Interval returns the time between frames.
func (t *TickerScheduler) Interval() time.Duration {
	return t.interval
}

func (t *TickerScheduler) run() {
	defer close(t.done)
	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()

	for {
		select {
		case <-t.stop:
			return
		case now := <-ticker.C:
			t.Flush(now)
		}
	}
}

// Close stops the clock and waits for the in-flight frame to finish.
// Pending callbacks are discarded. Safe to call more than once.
func (t *TickerScheduler) Close() error {
	t.once.Do(func() { close(t.stop) })
	<-t.done
	return nil
}
