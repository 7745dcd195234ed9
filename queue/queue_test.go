package queue

import (
	"testing"
)

func drainAll[T any](t *testing.T, q Queue[T]) []T {
	t.Helper()
	var out []T
	for {
		v, ok := q.Poll()
		if !ok {
			return out
		}
		out = append(out, v)
	}
}

// Factory selection is verified behaviorally: by how many values a fresh
// queue accepts before the first poll.
func TestNew_HintOne_SelectsSingleSlot(t *testing.T) {
	q := New[int](1)

	if !q.Offer(1) {
		t.Fatalf("first offer rejected")
	}
	if q.Offer(2) {
		t.Fatalf("single-slot queue accepted a second value")
	}
	if got := drainAll(t, q); len(got) != 1 || got[0] != 1 {
		t.Fatalf("drained %v; want [1]", got)
	}
}

func TestNew_NegativeHint_SelectsUnbounded(t *testing.T) {
	q := New[int](-64)

	// well past several chunks
	for i := 0; i < 1000; i++ {
		if !q.Offer(i) {
			t.Fatalf("unbounded queue rejected offer %d", i)
		}
	}
	got := drainAll(t, q)
	if len(got) != 1000 {
		t.Fatalf("drained %d values; want 1000", len(got))
	}
	for i, v := range got {
		if v != i {
			t.Fatalf("value %d out of order: got %d", i, v)
		}
	}
}

func TestNew_PositiveHint_SelectsBounded(t *testing.T) {
	q := New[int](64)

	accepted := 0
	for i := 0; i < 1000; i++ {
		if !q.Offer(i) {
			break
		}
		accepted++
	}
	if accepted != 64 {
		t.Fatalf("bounded queue accepted %d values; want 64", accepted)
	}
}

func TestNew_ZeroHint_SelectsDefaultBounded(t *testing.T) {
	q := New[int](0)

	accepted := 0
	for q.Offer(accepted) {
		accepted++
	}
	if accepted != DefaultCapacity {
		t.Fatalf("default queue accepted %d values; want %d", accepted, DefaultCapacity)
	}
}

func TestSpscArray_WrapAround(t *testing.T) {
	q := NewSpscArray[int](4)

	next := 0
	for round := 0; round < 10; round++ {
		for i := 0; i < 3; i++ {
			if !q.Offer(next + i) {
				t.Fatalf("offer rejected at round %d", round)
			}
		}
		for i := 0; i < 3; i++ {
			v, ok := q.Poll()
			if !ok || v != next+i {
				t.Fatalf("poll = (%d,%v); want (%d,true)", v, ok, next+i)
			}
		}
		next += 3
	}
	if !q.IsEmpty() {
		t.Fatalf("queue not empty after balanced rounds")
	}
}

func TestOneSlot_ClearReleases(t *testing.T) {
	q := NewOneSlot[string]()
	if !q.Offer("a") {
		t.Fatalf("offer rejected")
	}
	q.Clear()
	if !q.IsEmpty() {
		t.Fatalf("expected empty after clear")
	}
	if !q.Offer("b") {
		t.Fatalf("offer after clear rejected")
	}
	v, ok := q.Poll()
	if !ok || v != "b" {
		t.Fatalf("poll = (%q,%v); want (b,true)", v, ok)
	}
}

func TestSpscLinked_ChunkBoundaries(t *testing.T) {
	// chunk size rounds up to MinChunk
	q := NewSpscLinked[int](1)

	const n = MinChunk*3 + 3
	for i := 0; i < n; i++ {
		q.Offer(i)
	}
	got := drainAll(t, q)
	if len(got) != n {
		t.Fatalf("drained %d values; want %d", len(got), n)
	}
	for i, v := range got {
		if v != i {
			t.Fatalf("value %d out of order: got %d", i, v)
		}
	}
}

func TestQueues_ClearThenReuse(t *testing.T) {
	for name, q := range map[string]Queue[int]{
		"array":  NewSpscArray[int](8),
		"slot":   NewOneSlot[int](),
		"linked": NewSpscLinked[int](8),
	} {
		q.Offer(1)
		q.Clear()
		if !q.IsEmpty() {
			t.Fatalf("%s: not empty after clear", name)
		}
		if !q.Offer(2) {
			t.Fatalf("%s: offer after clear rejected", name)
		}
		v, ok := q.Poll()
		if !ok || v != 2 {
			t.Fatalf("%s: poll = (%d,%v); want (2,true)", name, v, ok)
		}
	}
}
