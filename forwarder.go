package flowcore

import (
	"fmt"
	"strconv"
	"sync/atomic"

	"github.com/ygrebnov/errorc"

	"github.com/ygrebnov/flowcore/metrics"
	"github.com/ygrebnov/flowcore/queue"
)

// Forwarder is the serialized queue-drain consumer: it receives the signal
// protocol from one upstream (from any goroutine) and replays it to one
// downstream from exactly one goroutine at a time. It implements
// Subscriber[T] toward the upstream and Subscription toward the downstream.
//
// Values are buffered in a queue selected by the capacity hint, or in the
// upstream's own queue when async fusion is granted. Termination follows the
// immediate-error policy unless WithDelayError is configured: immediate
// surfaces a known error even while values remain buffered, delay drains all
// buffered values first.
//
// All Subscriber and Subscription methods are safe for concurrent use,
// subject to the single-producer rule for upstream signals.
type Forwarder[T any] struct {
	downstream Subscriber[T]

	wip  Wip
	errs AtomicError

	subscribed atomic.Bool
	cancelled  atomic.Bool
	done       atomic.Bool

	upstream Subscription
	q        queue.Queue[T]
	fused    bool

	requested atomic.Int64
	resource  atomic.Pointer[Disposable]

	delayError   bool
	capacityHint int
	prefetch     int64
	limit        int64
	consumed     int64 // drain-owner-only re-request accounting

	emitted metrics.Counter
	dropped metrics.Counter
	batch   metrics.Histogram
}

// NewForwarder creates a Forwarder draining into downstream. It is inert
// until the upstream delivers OnSubscribe, at which point downstream receives
// its own OnSubscribe with the Forwarder as the Subscription.
func NewForwarder[T any](downstream Subscriber[T], opts ...Option) (*Forwarder[T], error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}

	f := &Forwarder[T]{
		downstream:   downstream,
		delayError:   cfg.DelayError,
		capacityHint: cfg.CapacityHint,
		q:            queue.New[T](cfg.CapacityHint),
	}

	// An unbounded queue means elastic buffering: request everything up front
	// and never re-request. Bounded queues prefetch their capacity and top up
	// once three quarters are consumed.
	if cfg.CapacityHint < 0 {
		f.prefetch = RequestUnbounded
	} else {
		bound := int64(cfg.CapacityHint)
		if bound == 0 {
			bound = queue.DefaultCapacity
		}
		f.prefetch = bound
		f.limit = bound - (bound >> 2)
	}

	if cfg.Resource != nil {
		f.resource.Store(&cfg.Resource)
	}

	f.emitted = cfg.Metrics.Counter("flowcore.drain.emitted",
		metrics.WithDescription("Values emitted downstream"),
		metrics.WithUnit("{signal}"),
	)
	f.dropped = cfg.Metrics.Counter("flowcore.drain.dropped_errors",
		metrics.WithDescription("Errors routed to the dropped-error hook"),
		metrics.WithUnit("{error}"),
	)
	f.batch = cfg.Metrics.Histogram("flowcore.drain.batch_size",
		metrics.WithDescription("Values emitted per drain pass"),
		metrics.WithUnit("{signal}"),
	)

	return f, nil
}

// OnSubscribe wires the upstream. A second subscription attempt cancels the
// incomer, per the single-subscription rule. When the upstream grants async
// fusion, its queue replaces the factory-built one and OnNext signals become
// pure drain triggers.
func (f *Forwarder[T]) OnSubscribe(s Subscription) {
	if !f.subscribed.CompareAndSwap(false, true) {
		s.Cancel()
		return
	}
	f.upstream = s

	if qs, mode, ok := TryFusedQueue[T](s, FusionAsync); ok && mode == FusionAsync {
		f.q = fusedQueue[T]{qs: qs}
		f.fused = true
	}

	f.downstream.OnSubscribe(f)
	s.Request(f.prefetch)
}

// OnNext accepts a value from the upstream. On the fast path (no drain
// active, nothing buffered, demand available) the value goes straight
// downstream without touching the queue.
func (f *Forwarder[T]) OnNext(v T) {
	if f.done.Load() || f.cancelled.Load() {
		return
	}

	if f.fused {
		// the value already sits in the shared queue; this signal is only a
		// drain trigger
		if f.wip.Enter() {
			f.drainLoop()
		}
		return
	}

	if f.wip.TryEnter() {
		if f.requested.Load() > 0 && f.q.IsEmpty() {
			f.downstream.OnNext(v)
			producedRequested(&f.requested, 1)
			f.emitted.Add(1)
			f.countConsumed(1)
		} else if !f.q.Offer(v) {
			// ownership is already held: deliver the overflow now
			f.noteOverflow()
			f.drainLoop()
			return
		}
		if f.wip.Leave(1) == 0 {
			return
		}
	} else {
		if !f.q.Offer(v) {
			f.noteOverflow()
		}
		if !f.wip.Enter() {
			return
		}
	}
	f.drainLoop()
}

// OnError records an upstream failure. Fatal errors re-raise immediately;
// post-terminal errors go to the dropped-error hook.
func (f *Forwarder[T]) OnError(err error) {
	if err == nil {
		f.OnComplete()
		return
	}
	throwIfFatal(err)
	if f.done.Load() || f.cancelled.Load() {
		f.dropError(err)
		return
	}
	if !f.errs.Add(err) {
		f.dropError(err)
		return
	}
	f.done.Store(true)
	if f.wip.Enter() {
		f.drainLoop()
	}
}

// OnComplete records that no more values are coming.
func (f *Forwarder[T]) OnComplete() {
	if f.done.Load() || f.cancelled.Load() {
		return
	}
	f.done.Store(true)
	if f.wip.Enter() {
		f.drainLoop()
	}
}

// Request adds downstream demand and triggers a drain.
func (f *Forwarder[T]) Request(n int64) {
	if n <= 0 || f.cancelled.Load() {
		return
	}
	addRequested(&f.requested, n)
	if f.wip.Enter() {
		f.drainLoop()
	}
}

// Cancel stops the forwarder cooperatively: the upstream is cancelled, the
// owned resource released, and the queue cleared either here (if drain
// ownership is free) or by the active drain on its next termination check.
// No signal reaches the downstream after Cancel returns ownership.
func (f *Forwarder[T]) Cancel() {
	if !f.cancelled.CompareAndSwap(false, true) {
		return
	}
	if f.upstream != nil {
		f.upstream.Cancel()
	}
	f.dispose()
	if f.wip.Enter() {
		f.clearGuarded()
	}
}

// drainLoop is run only by the goroutine holding drain ownership. The missed
// count re-checked by Leave is what guarantees no signal arriving during the
// loop is lost.
func (f *Forwarder[T]) drainLoop() {
	missed := int32(1)
	for {
		if f.drainBatch() {
			// terminal: ownership is retained forever so no later Enter
			// can start another drain
			return
		}
		missed = f.wip.Leave(missed)
		if missed == 0 {
			return
		}
	}
}

// drainBatch emits up to the requested demand, consulting the termination
// checker before each value and after the batch. It reports whether a
// terminal state was reached.
func (f *Forwarder[T]) drainBatch() bool {
	var n int64
	r := f.requested.Load()

	for n != r {
		done := f.done.Load()
		v, ok, qerr := f.pollGuarded()
		if f.checkTerminated(done, !ok, qerr) {
			return true
		}
		if !ok {
			break
		}
		f.downstream.OnNext(v)
		n++
		f.countConsumed(1)
	}

	if n == r {
		done := f.done.Load()
		empty, qerr := f.isEmptyGuarded()
		if f.checkTerminated(done, empty, qerr) {
			return true
		}
	}

	if n != 0 {
		producedRequested(&f.requested, n)
		f.emitted.Add(n)
		f.batch.Record(float64(n))
	}
	return false
}

// checkTerminated decides, once per drain iteration, whether draining must
// stop and which terminal signal to emit. qerr carries a structural queue
// failure, which terminates the forwarder regardless of the delay-error
// setting.
func (f *Forwarder[T]) checkTerminated(done, empty bool, qerr error) bool {
	if f.cancelled.Load() {
		f.clearGuarded()
		return true
	}

	if qerr != nil {
		f.cancelled.Store(true)
		if f.upstream != nil {
			f.upstream.Cancel()
		}
		f.clearGuarded()
		if !f.errs.Add(qerr) {
			f.dropError(qerr)
		}
		f.signalError(f.errs.Terminate())
		return true
	}

	if !done {
		return false
	}

	if f.delayError {
		// buffered values win over a pending error
		if !empty {
			return false
		}
		if err := f.errs.Terminate(); err != nil {
			f.signalError(err)
		} else {
			f.signalComplete()
		}
		return true
	}

	// immediate: a known error preempts buffered values
	if f.errs.Load() != nil {
		f.clearGuarded()
		f.signalError(f.errs.Terminate())
		return true
	}
	if empty {
		f.signalComplete()
		return true
	}
	return false
}

func (f *Forwarder[T]) signalError(err error) {
	f.cancelled.Store(true)
	f.downstream.OnError(err)
	f.dispose()
}

func (f *Forwarder[T]) signalComplete() {
	f.cancelled.Store(true)
	f.downstream.OnComplete()
	f.dispose()
}

// countConsumed tops up the upstream request once three quarters of the
// prefetch were consumed. Called only by the drain owner.
func (f *Forwarder[T]) countConsumed(n int64) {
	if f.limit == 0 {
		return
	}
	f.consumed += n
	if f.consumed >= f.limit {
		c := f.consumed
		f.consumed = 0
		f.upstream.Request(c)
	}
}

// noteOverflow escalates a rejected Offer: the upstream ignored backpressure,
// so it is cancelled and the overflow becomes the terminal error.
func (f *Forwarder[T]) noteOverflow() {
	if f.upstream != nil {
		f.upstream.Cancel()
	}
	err := errorc.With(ErrOverflow, errorc.String("capacity_hint", strconv.Itoa(f.capacityHint)))
	if !f.errs.Add(err) {
		f.dropError(err)
	}
	f.done.Store(true)
}

func (f *Forwarder[T]) dropError(err error) {
	f.dropped.Add(1)
	Dropped(err)
}

// dispose releases the owned resource exactly once across all exit paths.
func (f *Forwarder[T]) dispose() {
	if r := f.resource.Swap(nil); r != nil {
		(*r).Dispose()
	}
}

// pollGuarded polls the queue, converting a queue panic into a structural
// failure. Fatal panics re-raise.
func (f *Forwarder[T]) pollGuarded() (v T, ok bool, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = recoveredError(r)
			throwIfFatal(err)
			ok = false
		}
	}()
	v, ok = f.q.Poll()
	return v, ok, nil
}

// isEmptyGuarded reads queue emptiness, converting a queue panic into a
// structural failure. Fatal panics re-raise.
func (f *Forwarder[T]) isEmptyGuarded() (empty bool, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = recoveredError(r)
			throwIfFatal(err)
			empty = true
		}
	}()
	return f.q.IsEmpty(), nil
}

// clearGuarded clears the queue; a non-fatal panic here is routed to the
// dropped hook since the forwarder is already terminating.
func (f *Forwarder[T]) clearGuarded() {
	defer func() {
		if r := recover(); r != nil {
			err := recoveredError(r)
			throwIfFatal(err)
			f.dropError(err)
		}
	}()
	f.q.Clear()
}

// recoveredError normalizes a recovered panic value into a structural queue
// failure, preserving the original error chain.
func recoveredError(r any) error {
	if e, ok := r.(error); ok {
		return fmt.Errorf("%w: %w", ErrQueueFailure, e)
	}
	return fmt.Errorf("%w: %v", ErrQueueFailure, r)
}

// fusedQueue exposes an async-fused upstream's queue through the queue.Queue
// contract. The producer side belongs to the upstream, so Offer is never
// reached.
type fusedQueue[T any] struct {
	qs QueueSubscription[T]
}

func (q fusedQueue[T]) Offer(T) bool { return true }

func (q fusedQueue[T]) Poll() (T, bool) { return q.qs.Poll() }

func (q fusedQueue[T]) IsEmpty() bool { return q.qs.IsEmpty() }

func (q fusedQueue[T]) Clear() { q.qs.Clear() }
