package utils

import (
	"iter"

	"github.com/oomph-ac/frontline/oerror"
)

// CircularQueue is a bounded FIFO queue. Appending to a full queue drops the oldest item.
type CircularQueue[T any] struct {
	items []T
	head  int
	tail  int
	len   int
}

// NewCircularQueue returns an empty queue holding at most capacity items.
func NewCircularQueue[T any](capacity int) *CircularQueue[T] {
	return &CircularQueue[T]{items: make([]T, max(capacity, 0))}
}

// Get returns the item at logical position index, where 0 is the oldest item.
func (q *CircularQueue[T]) Get(index int) (T, error) {
	var zero T
	if index < 0 || index >= q.len {
		return zero, oerror.New("circular queue: index %d out of range [0, %d)", index, q.len)
	}
	return q.items[(q.head+index)%len(q.items)], nil
}

// Front returns the oldest item without removing it.
func (q *CircularQueue[T]) Front() (item T, ok bool) {
	if q.len == 0 {
		return item, false
	}
	return q.items[q.head], true
}

// All iterates the items from oldest to newest.
func (q *CircularQueue[T]) All() iter.Seq[T] {
	return func(yield func(T) bool) {
		for index := range q.len {
			if !yield(q.items[(q.head+index)%len(q.items)]) {
				return
			}
		}
	}
}

// Len returns the number of items in the queue.
func (q *CircularQueue[T]) Len() int {
	return q.len
}

// Capacity returns the maximum number of items the queue can hold.
func (q *CircularQueue[T]) Capacity() int {
	return len(q.items)
}

// Pop removes and returns the oldest item. The boolean ok is false if the queue is empty.
func (q *CircularQueue[T]) Pop() (item T, ok bool) {
	if q.len == 0 {
		return item, false
	}
	var zero T
	item = q.items[q.head]
	q.items[q.head] = zero
	q.head = (q.head + 1) % len(q.items)
	q.len--
	return item, true
}

// Append adds an item at the back of the queue and returns the item dropped to make room, if any. It
// returns an error if the queue has zero capacity.
func (q *CircularQueue[T]) Append(item T) (dropped T, ok bool, err error) {
	if len(q.items) == 0 {
		return dropped, false, oerror.New("circular queue: append on zero-capacity queue")
	}
	if q.len == len(q.items) {
		dropped, ok = q.items[q.head], true
		q.head = (q.head + 1) % len(q.items)
	} else {
		q.len++
	}
	q.items[q.tail] = item
	q.tail = (q.tail + 1) % len(q.items)
	return dropped, ok, nil
}

// Clear removes every item from the queue.
func (q *CircularQueue[T]) Clear() {
	clear(q.items)
	q.head, q.tail, q.len = 0, 0, 0
}
