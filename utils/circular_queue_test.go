package utils

import "testing"

func TestCircularQueueOverwrite(t *testing.T) {
	q := NewCircularQueue[int](3)
	for i := 1; i <= 3; i++ {
		if _, dropped, err := q.Append(i); err != nil || dropped {
			t.Fatalf("expected %d to be appended without dropping anything", i)
		}
	}
	old, dropped, _ := q.Append(4)
	if !dropped || old != 1 {
		t.Fatalf("expected 1 to be dropped, got %d (%v)", old, dropped)
	}

	var got []int
	for v := range q.All() {
		got = append(got, v)
	}
	if len(got) != 3 || got[0] != 2 || got[2] != 4 {
		t.Fatalf("expected [2 3 4], got %v", got)
	}
	if v, err := q.Get(1); err != nil || v != 3 {
		t.Fatalf("expected 3 at index 1, got %d (%v)", v, err)
	}
	if _, err := q.Get(3); err == nil {
		t.Fatalf("expected an error for an index out of range")
	}
}

func TestCircularQueuePop(t *testing.T) {
	q := NewCircularQueue[string](2)
	if _, ok := q.Pop(); ok {
		t.Fatalf("expected nothing to pop from an empty queue")
	}
	q.Append("a")
	q.Append("b")
	if v, ok := q.Front(); !ok || v != "a" {
		t.Fatalf("expected a at the front, got %q", v)
	}
	if v, _ := q.Pop(); v != "a" || q.Len() != 1 {
		t.Fatalf("expected to pop a and keep 1 item, got %q and %d", v, q.Len())
	}
	q.Clear()
	if q.Len() != 0 || q.Capacity() != 2 {
		t.Fatalf("expected an empty queue of capacity 2 after clearing")
	}
}

func TestCircularQueueZeroCapacity(t *testing.T) {
	q := NewCircularQueue[int](0)
	if _, _, err := q.Append(1); err == nil {
		t.Fatalf("expected appending to a zero-capacity queue to fail")
	}
}
