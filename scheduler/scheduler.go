package scheduler

import (
	"container/heap"
	"time"
)

// Kind is the kind of a deferred task. An entity has at most one pending task of every kind.
type Kind uint8

const (
	KindReload Kind = iota
	KindRespawn
	KindKillLogExpiry
	KindHitMarker
)

func (k Kind) String() string {
	switch k {
	case KindReload:
		return "reload"
	case KindRespawn:
		return "respawn"
	case KindKillLogExpiry:
		return "kill log expiry"
	case KindHitMarker:
		return "hit marker"
	}
	return "unknown"
}

// Key identifies a task by the entity it belongs to and its kind.
type Key struct {
	Entity string
	Kind   Kind
}

type task struct {
	key   Key
	at    time.Time
	seq   uint64
	fn    func()
	index int
}

// Scheduler runs deferred tasks on the goroutine calling Run. Scheduling a task for a key that already
// has one pending replaces it, and tasks can be cancelled by key or for a whole entity.
type Scheduler struct {
	queue taskQueue
	tasks map[Key]*task
	seq   uint64
}

// New returns an empty scheduler.
func New() *Scheduler {
	return &Scheduler{tasks: make(map[Key]*task)}
}

// Schedule runs fn at the given time, replacing the pending task for the key if there is one.
func (s *Scheduler) Schedule(key Key, at time.Time, fn func()) {
	s.Cancel(key)
	s.seq++
	t := &task{key: key, at: at, seq: s.seq, fn: fn}
	heap.Push(&s.queue, t)
	s.tasks[key] = t
}

// Cancel removes the pending task for the key. It returns false if there was none.
func (s *Scheduler) Cancel(key Key) bool {
	t, ok := s.tasks[key]
	if !ok {
		return false
	}
	heap.Remove(&s.queue, t.index)
	delete(s.tasks, key)
	return true
}

// CancelEntity removes every pending task of an entity and returns how many were removed.
func (s *Scheduler) CancelEntity(id string) int {
	n := 0
	for key := range s.tasks {
		if key.Entity == id && s.Cancel(key) {
			n++
		}
	}
	return n
}

// Pending returns true if a task is pending for the key.
func (s *Scheduler) Pending(key Key) bool {
	_, ok := s.tasks[key]
	return ok
}

// Deadline returns the time the pending task for the key will run.
func (s *Scheduler) Deadline(key Key) (time.Time, bool) {
	t, ok := s.tasks[key]
	if !ok {
		return time.Time{}, false
	}
	return t.at, true
}

// Len returns the number of pending tasks.
func (s *Scheduler) Len() int {
	return len(s.tasks)
}

// Run runs every task due at or before now, earliest first, and returns how many ran. Tasks due at the
// same time run in the order they were scheduled. A task scheduling another task that is already due
// has it run in the same call.
func (s *Scheduler) Run(now time.Time) int {
	n := 0
	for s.queue.Len() > 0 {
		t := s.queue[0]
		if t.at.After(now) {
			break
		}
		heap.Pop(&s.queue)
		delete(s.tasks, t.key)
		t.fn()
		n++
	}
	return n
}

// Clear drops every pending task without running it.
func (s *Scheduler) Clear() {
	s.queue = nil
	s.tasks = make(map[Key]*task)
}

type taskQueue []*task

func (q taskQueue) Len() int { return len(q) }

func (q taskQueue) Less(i, j int) bool {
	if q[i].at.Equal(q[j].at) {
		return q[i].seq < q[j].seq
	}
	return q[i].at.Before(q[j].at)
}

func (q taskQueue) Swap(i, j int) {
	q[i], q[j] = q[j], q[i]
	q[i].index = i
	q[j].index = j
}

func (q *taskQueue) Push(x any) {
	t := x.(*task)
	t.index = len(*q)
	*q = append(*q, t)
}

func (q *taskQueue) Pop() any {
	old := *q
	n := len(old)
	t := old[n-1]
	old[n-1] = nil
	t.index = -1
	*q = old[:n-1]
	return t
}
