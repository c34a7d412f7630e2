package task

import (
	"sync"
)

// Queue is an unbounded FIFO safe for any number of producers and consumers.
// Push never blocks; Pop blocks until an item arrives or the queue is closed.
type Queue[T any] struct {
	closed bool
	cond   *sync.Cond
	items  []T
	mutex  sync.Mutex
}

func NewQueue[T any]() *Queue[T] {
	q := &Queue[T]{}
	q.cond = sync.NewCond(&q.mutex)
	return q
}

// Push appends items. It reports false once the queue is closed.
func (q *Queue[T]) Push(items ...T) bool {
	q.mutex.Lock()
	defer q.mutex.Unlock()

	if q.closed {
		return false
	}
	q.items = append(q.items, items...)
	if len(items) == 1 {
		q.cond.Signal()
	} else {
		q.cond.Broadcast()
	}
	return true
}

// Pop removes the oldest item, waiting while the queue is empty. The second
// return value is false when the queue was closed.
func (q *Queue[T]) Pop() (T, bool) {
	q.mutex.Lock()
	defer q.mutex.Unlock()

	for len(q.items) == 0 && !q.closed {
		q.cond.Wait()
	}
	var item T
	if q.closed {
		return item, false
	}
	item = q.items[0]
	q.items[0] = *new(T)
	q.items = q.items[1:]
	return item, true
}

// Drain removes and returns everything queued without waiting.
func (q *Queue[T]) Drain() []T {
	q.mutex.Lock()
	defer q.mutex.Unlock()

	items := q.items
	q.items = nil
	return items
}

func (q *Queue[T]) Len() int {
	q.mutex.Lock()
	defer q.mutex.Unlock()

	return len(q.items)
}

// Close wakes every waiting Pop. Items still queued are dropped.
func (q *Queue[T]) Close() {
	q.mutex.Lock()
	defer q.mutex.Unlock()

	q.closed = true
	q.items = nil
	q.cond.Broadcast()
}
