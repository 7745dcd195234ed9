package flowcore

import (
	"math"
	"sync/atomic"
)

// RequestUnbounded is the demand value signalling effectively unlimited
// capacity. Once requested demand saturates at this value it never moves
// again; emission accounting becomes free.
const RequestUnbounded = math.MaxInt64

// addRequested adds n units of demand to requested, capping at
// RequestUnbounded, and returns the pre-add value. Non-positive n is ignored
// per the Reactive Streams contract (request(n) requires n > 0).
func addRequested(requested *atomic.Int64, n int64) int64 {
	if n <= 0 {
		return requested.Load()
	}
	for {
		cur := requested.Load()
		if cur == RequestUnbounded {
			return cur
		}
		next := cur + n
		if next < 0 {
			next = RequestUnbounded
		}
		if requested.CompareAndSwap(cur, next) {
			return cur
		}
	}
}

// producedRequested subtracts n emitted values from requested, unless demand
// is unbounded. It returns the remaining demand. The counter never goes
// negative: emitting more than was requested is a protocol violation the
// caller must have prevented.
func producedRequested(requested *atomic.Int64, n int64) int64 {
	if n <= 0 {
		return requested.Load()
	}
	for {
		cur := requested.Load()
		if cur == RequestUnbounded {
			return cur
		}
		next := cur - n
		if next < 0 {
			next = 0
		}
		if requested.CompareAndSwap(cur, next) {
			return next
		}
	}
}
