package flowcore

import (
	"fmt"
	"sync"
	"sync/atomic"
)

// Callbacks adapts plain handler functions into a conforming Subscriber. It
// requests unbounded demand on subscription and doubles as the cancellation
// handle for the chain it terminates.
//
// Failure routing: a panic in the value handler cancels the upstream and is
// routed to the error handler; a panic in the error or completion handler is
// routed to the dropped-error hook. A missing error handler sends errors to
// the dropped-error hook as well.
type Callbacks[T any] struct {
	onNext     func(T)
	onError    func(error)
	onComplete func()

	mu       sync.Mutex
	upstream Subscription

	terminated atomic.Bool
}

// NewCallbacks builds a Subscriber from the given handlers. Any handler may
// be nil: a nil onNext ignores values, a nil onComplete ignores completion,
// and a nil onError applies the dropped-error policy.
func NewCallbacks[T any](onNext func(T), onError func(error), onComplete func()) *Callbacks[T] {
	return &Callbacks[T]{
		onNext:     onNext,
		onError:    onError,
		onComplete: onComplete,
	}
}

// OnSubscribe stores the upstream and requests unbounded demand. A duplicate
// subscription attempt cancels the incomer.
func (c *Callbacks[T]) OnSubscribe(s Subscription) {
	c.mu.Lock()
	if c.upstream != nil || c.terminated.Load() {
		c.mu.Unlock()
		s.Cancel()
		return
	}
	c.upstream = s
	c.mu.Unlock()
	s.Request(RequestUnbounded)
}

// OnNext forwards v to the value handler. A handler panic cancels the
// upstream and becomes the terminal error.
func (c *Callbacks[T]) OnNext(v T) {
	if c.terminated.Load() || c.onNext == nil {
		return
	}
	if err := c.guarded(func() { c.onNext(v) }); err != nil {
		c.cancelUpstream()
		c.OnError(err)
	}
}

// OnError delivers err to the error handler, or to the dropped-error hook if
// none was supplied or a terminal signal was already processed. A panic in
// the handler itself is routed to the dropped-error hook, never propagated.
func (c *Callbacks[T]) OnError(err error) {
	if err == nil {
		c.OnComplete()
		return
	}
	throwIfFatal(err)
	if !c.terminated.CompareAndSwap(false, true) {
		Dropped(err)
		return
	}
	if c.onError == nil {
		Dropped(err)
		return
	}
	if secondary := c.guarded(func() { c.onError(err) }); secondary != nil {
		Dropped(secondary)
	}
}

// OnComplete invokes the completion handler once; a panic in it is routed to
// the dropped-error hook.
func (c *Callbacks[T]) OnComplete() {
	if !c.terminated.CompareAndSwap(false, true) {
		return
	}
	if c.onComplete == nil {
		return
	}
	if err := c.guarded(c.onComplete); err != nil {
		Dropped(err)
	}
}

// Cancel forwards cancellation to the upstream and marks the adapter
// terminated; later signals are ignored (errors go to the dropped hook).
func (c *Callbacks[T]) Cancel() {
	c.terminated.Store(true)
	c.cancelUpstream()
}

// Dispose makes Callbacks usable as a Disposable resource.
func (c *Callbacks[T]) Dispose() { c.Cancel() }

func (c *Callbacks[T]) cancelUpstream() {
	c.mu.Lock()
	s := c.upstream
	c.mu.Unlock()
	if s != nil {
		s.Cancel()
	}
}

// guarded runs fn, converting a panic into an error. Fatal panics re-raise.
func (c *Callbacks[T]) guarded(fn func()) (err error) {
	defer func() {
		if r := recover(); r != nil {
			if e, ok := r.(error); ok {
				err = fmt.Errorf("%w: %w", ErrCallbackPanicked, e)
			} else {
				err = fmt.Errorf("%w: %v", ErrCallbackPanicked, r)
			}
			throwIfFatal(err)
		}
	}()
	fn()
	return nil
}
