package concurrency

import "testing"

func TestRingBufferFIFOOrder(t *testing.T) {
	r := NewRingBuffer[int](4)
	for i := 0; i < 3; i++ {
		r.Enqueue(i)
	}
	for i := 0; i < 3; i++ {
		got, ok := r.Dequeue()
		if !ok || got != i {
			t.Fatalf("Dequeue() = %d,%v want %d,true", got, ok, i)
		}
	}
	if _, ok := r.Dequeue(); ok {
		t.Fatal("Dequeue on empty buffer reported ok")
	}
}

func TestRingBufferGrowsPastInitialCapacity(t *testing.T) {
	r := NewRingBuffer[int](4)
	initialCap := r.Cap()
	for i := 0; i < initialCap*3; i++ {
		r.Enqueue(i)
	}
	if r.Len() != initialCap*3 {
		t.Fatalf("Len() = %d, want %d", r.Len(), initialCap*3)
	}
	for i := 0; i < initialCap*3; i++ {
		got, ok := r.Dequeue()
		if !ok || got != i {
			t.Fatalf("Dequeue() = %d,%v want %d,true", got, ok, i)
		}
	}
}

func TestRingBufferGrowPreservesOrderAfterWraparound(t *testing.T) {
	r := NewRingBuffer[int](4)
	// Fill, drain some, refill so head/tail have wrapped before growing.
	for i := 0; i < 6; i++ {
		r.Enqueue(i)
	}
	for i := 0; i < 4; i++ {
		got, _ := r.Dequeue()
		if got != i {
			t.Fatalf("Dequeue() = %d, want %d", got, i)
		}
	}
	// Capacity is 8: 2 left + 8 more forces a grow after the tail wrapped.
	for i := 6; i < 14; i++ {
		r.Enqueue(i)
	}
	for i := 4; i < 14; i++ {
		got, ok := r.Dequeue()
		if !ok || got != i {
			t.Fatalf("Dequeue() = %d,%v want %d,true", got, ok, i)
		}
	}
}
