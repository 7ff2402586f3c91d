// Copyright (c) the Warren authors. All rights reserved. Use of this
// source code is governed by the MIT license that can be found in the
// LICENSE file.

package warren

import "sync"

// eventFunc is a unit of work for the event loop.
type eventFunc func()

// eventQueue is the FIFO feeding the event loop. Producers append from
// their own goroutines; the loop is the only consumer. grab blocks until
// work arrives or the queue is interrupted.
type eventQueue struct {
	mu    sync.Mutex
	cond  *sync.Cond
	items []eventFunc

	interrupted bool
}

func newEventQueue() *eventQueue {
	q := new(eventQueue)
	q.cond = sync.NewCond(&q.mu)

	return q
}

// add appends fn and wakes the consumer.
func (q *eventQueue) add(fn eventFunc) {
	q.mu.Lock()
	q.items = append(q.items, fn)
	q.mu.Unlock()

	q.cond.Signal()
}

// grab blocks until an item is available or the queue is interrupted. The
// second return is false only on interrupt.
func (q *eventQueue) grab() (eventFunc, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	for len(q.items) == 0 && !q.interrupted {
		q.cond.Wait()
	}

	if q.interrupted {
		return nil, false
	}

	fn := q.items[0]
	q.items = q.items[1:]

	return fn, true
}

// clear drops all pending items without waking the consumer.
func (q *eventQueue) clear() {
	q.mu.Lock()
	q.items = nil
	q.mu.Unlock()
}

// interrupt permanently wakes the consumer; every grab after this returns
// false.
func (q *eventQueue) interrupt() {
	q.mu.Lock()
	q.interrupted = true
	q.mu.Unlock()

	q.cond.Broadcast()
}
