package entity

// RingBuffer is a fixed-size circular buffer of snapshots ordered by timestamp. When full, adding a
// snapshot evicts the oldest one.
type RingBuffer struct {
	buffer   []Snapshot
	capacity int
	head     int // Points to the next write position
	size     int // Current number of elements
}

// NewRingBuffer creates a new ring buffer with the specified capacity
func NewRingBuffer(capacity int) *RingBuffer {
	capacity = max(capacity, 1)
	return &RingBuffer{
		buffer:   make([]Snapshot, capacity),
		capacity: capacity,
	}
}

// Add inserts a snapshot into the ring buffer. Timestamps never go backwards inside the buffer: a
// snapshot older than the newest one is stored with the newest timestamp.
func (rb *RingBuffer) Add(s Snapshot) {
	if latest, ok := rb.Latest(); ok && s.Timestamp < latest.Timestamp {
		s.Timestamp = latest.Timestamp
	}
	rb.buffer[rb.head] = s
	rb.head = (rb.head + 1) % rb.capacity
	if rb.size < rb.capacity {
		rb.size++
	}
}

// At returns the snapshot at logical position i, where 0 is the oldest.
func (rb *RingBuffer) At(i int) (Snapshot, bool) {
	if i < 0 || i >= rb.size {
		return Snapshot{}, false
	}
	return rb.buffer[(rb.head-rb.size+i+rb.capacity)%rb.capacity], true
}

// Bracket finds the oldest adjacent pair of snapshots such that current.Timestamp <= t <= next.Timestamp.
func (rb *RingBuffer) Bracket(t int64) (current, next Snapshot, ok bool) {
	for i := 0; i+1 < rb.size; i++ {
		current, _ = rb.At(i)
		next, _ = rb.At(i + 1)
		if current.Timestamp <= t && next.Timestamp >= t {
			return current, next, true
		}
	}
	return Snapshot{}, Snapshot{}, false
}

// Latest returns the most recently added snapshot
func (rb *RingBuffer) Latest() (Snapshot, bool) {
	if rb.size == 0 {
		return Snapshot{}, false
	}
	idx := (rb.head - 1 + rb.capacity) % rb.capacity
	return rb.buffer[idx], true
}

// Size returns the current number of elements in the buffer
func (rb *RingBuffer) Size() int {
	return rb.size
}

// Capacity returns the maximum capacity of the buffer
func (rb *RingBuffer) Capacity() int {
	return rb.capacity
}

// Clear removes all elements from the buffer
func (rb *RingBuffer) Clear() {
	rb.head = 0
	rb.size = 0
}
