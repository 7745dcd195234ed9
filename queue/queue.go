// Package queue provides the single-producer/single-consumer buffering
// strategies used between an upstream producer and a draining consumer.
//
// All variants are safe for exactly one producer goroutine and one consumer
// goroutine operating concurrently without external locking. IsEmpty and
// Clear are safe but not linearizable; drain loops call them only once the
// producer side is known to have stopped or from the owning consumer.
package queue

// Queue is the contract shared by all buffering strategies.
type Queue[T any] interface {
	// Offer appends v and reports whether it was accepted. Bounded variants
	// reject when full. Producer side only.
	Offer(v T) bool

	// Poll removes and returns the head value. Consumer side only.
	Poll() (T, bool)

	// IsEmpty reports whether no value is buffered.
	IsEmpty() bool

	// Clear discards buffered values and releases element references.
	// Consumer side only.
	Clear()
}

// DefaultCapacity is the bounded capacity used when the hint carries no
// sizing information.
const DefaultCapacity = 128

// New selects a buffering strategy from a capacity hint:
//
//   - hint < 0 selects the unbounded chunked queue with chunk size -hint,
//     for elastic buffering (e.g. concatenation);
//   - hint == 1 selects the single-slot queue, the minimal-allocation choice
//     for at-most-one-buffered-value consumers;
//   - any other positive hint selects the fixed-capacity ring, the common
//     bounded-prefetch case;
//   - hint == 0 selects the fixed-capacity ring at DefaultCapacity.
func New[T any](capacityHint int) Queue[T] {
	switch {
	case capacityHint < 0:
		return NewSpscLinked[T](-capacityHint)
	case capacityHint == 1:
		return NewOneSlot[T]()
	case capacityHint == 0:
		return NewSpscArray[T](DefaultCapacity)
	default:
		return NewSpscArray[T](capacityHint)
	}
}

// roundPow2 returns the smallest power of two >= n, minimum 2.
func roundPow2(n int) int {
	c := 2
	for c < n {
		c <<= 1
	}
	return c
}
