package flowcore

import "sync/atomic"

// Wip is the work-in-progress counter that serializes drain loops. The
// counter holds the number of drain requests not yet processed; the goroutine
// that moves it from 0 becomes the sole drain owner until a Leave call
// confirms no further work arrived.
//
// The zero value is ready to use. Methods are safe for concurrent use. Never
// copy a Wip after first use.
type Wip struct {
	n atomic.Int32
}

// Enter increments the counter and reports whether the caller became the
// drain owner, i.e. the pre-increment value was 0. On false the signal has
// been recorded and the active owner will observe it at its next Leave.
func (w *Wip) Enter() bool {
	return w.n.Add(1) == 1
}

// TryEnter attempts to become the drain owner without queueing work: it
// succeeds only if the counter currently reads 0. On failure the counter is
// left untouched.
func (w *Wip) TryEnter() bool {
	return w.n.CompareAndSwap(0, 1)
}

// Leave releases drain ownership for missed processed units. If the counter
// still equals missed, it is reset to 0 and Leave returns 0: ownership is
// released. If new work arrived meanwhile, the counter is left untouched and
// its current value is returned; the caller must keep draining with that
// value as the new missed count.
func (w *Wip) Leave(missed int32) int32 {
	for {
		cur := w.n.Load()
		if cur != missed {
			return cur
		}
		if w.n.CompareAndSwap(cur, 0) {
			return 0
		}
	}
}

// Value returns the current counter reading. Intended for tests and
// diagnostics; the reading may be stale by the time it is observed.
func (w *Wip) Value() int32 {
	return w.n.Load()
}
