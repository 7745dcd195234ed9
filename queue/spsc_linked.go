package queue

import "sync/atomic"

// SpscLinked is the unbounded growable queue: a linked list of fixed-size
// chunks. The producer appends a fresh chunk whenever it steps past a chunk
// boundary and links it before publishing the element count, so the consumer
// never observes a count pointing into an unlinked chunk.
type SpscLinked[T any] struct {
	chunk int

	// producer side
	tail  *chunkNode[T]
	pIdx  int
	total atomic.Int64

	// consumer side
	head  *chunkNode[T]
	cIdx  int
	taken atomic.Int64
}

type chunkNode[T any] struct {
	vals []T
	next atomic.Pointer[chunkNode[T]]
}

// MinChunk is the smallest chunk size; smaller requests are rounded up to
// keep allocation amortization meaningful.
const MinChunk = 8

// NewSpscLinked creates an unbounded SPSC queue growing in chunks of
// chunkSize values (rounded up to a power of two, minimum MinChunk).
func NewSpscLinked[T any](chunkSize int) *SpscLinked[T] {
	if chunkSize < MinChunk {
		chunkSize = MinChunk
	}
	n := roundPow2(chunkSize)
	first := &chunkNode[T]{vals: make([]T, n)}
	return &SpscLinked[T]{
		chunk: n,
		tail:  first,
		head:  first,
	}
}

// Offer always accepts; the queue grows as needed.
func (q *SpscLinked[T]) Offer(v T) bool {
	if q.pIdx == q.chunk {
		next := &chunkNode[T]{vals: make([]T, q.chunk)}
		q.tail.next.Store(next)
		q.tail = next
		q.pIdx = 0
	}
	q.tail.vals[q.pIdx] = v
	q.pIdx++
	q.total.Add(1)
	return true
}

func (q *SpscLinked[T]) Poll() (T, bool) {
	if q.taken.Load() == q.total.Load() {
		var zero T
		return zero, false
	}
	if q.cIdx == q.chunk {
		// total > taken guarantees the producer linked the next chunk
		// before publishing the count we just observed.
		q.head = q.head.next.Load()
		q.cIdx = 0
	}
	v := q.head.vals[q.cIdx]
	var zero T
	q.head.vals[q.cIdx] = zero
	q.cIdx++
	q.taken.Add(1)
	return v, true
}

func (q *SpscLinked[T]) IsEmpty() bool {
	return q.taken.Load() == q.total.Load()
}

func (q *SpscLinked[T]) Clear() {
	for {
		if _, ok := q.Poll(); !ok {
			return
		}
	}
}
