package flowcore

// Subscription is the upstream capability handed to a Subscriber: demand
// signalling and cancellation. Both methods are safe to call from any
// goroutine; Cancel is effective at most once.
type Subscription interface {
	// Request signals demand for up to n more values (n > 0). Values emitted
	// must never exceed cumulative requested demand.
	Request(n int64)

	// Cancel signals disinterest. Cancellation is cooperative: an active
	// drain observes it between emitted items and unwinds promptly.
	Cancel()
}

// Subscriber receives the four-signal protocol. Per the single-producer rule,
// signals from one upstream never arrive concurrently with each other, but
// they may arrive on any goroutine. After a terminal signal (OnError or
// OnComplete) no further signal follows.
type Subscriber[T any] interface {
	OnSubscribe(s Subscription)
	OnNext(v T)
	OnError(err error)
	OnComplete()
}

// Publisher accepts exactly one Subscribe call per subscriber and then issues
// the signal protocol to it.
type Publisher[T any] interface {
	Subscribe(s Subscriber[T])
}

// Disposable is the release contract for an external resource owned by an
// operator, invoked exactly once on terminal resolution.
type Disposable interface {
	Dispose()
}

// DisposeFunc adapts a plain function to Disposable.
type DisposeFunc func()

func (f DisposeFunc) Dispose() { f() }

// FusionMode describes how a fused upstream exposes its internal queue.
type FusionMode int

const (
	// FusionNone denies fusion; the standard request/OnNext protocol is used.
	FusionNone FusionMode = iota

	// FusionSync grants poll-driven same-thread fusion: the downstream pulls
	// values directly and OnNext is never signalled.
	FusionSync

	// FusionAsync grants queue sharing across the async boundary: values are
	// offered to the shared queue and OnNext carries only a drain trigger.
	FusionAsync
)

// QueueSubscription is the optional capability a source may implement to
// expose its internal queue directly to the downstream consumer, bypassing
// the per-value protocol. Poll, IsEmpty, and Clear follow the queue.Queue
// contract and are called only by the drain owner.
type QueueSubscription[T any] interface {
	Subscription

	// RequestFusion negotiates a fusion mode. The source returns the granted
	// mode, which may be FusionNone.
	RequestFusion(want FusionMode) FusionMode

	Poll() (T, bool)
	IsEmpty() bool
	Clear()
}

// TryFusedQueue probes s for the fusion capability and negotiates want. It
// returns the fused view and the granted mode; ok is false when s does not
// implement the capability at all.
func TryFusedQueue[T any](s Subscription, want FusionMode) (qs QueueSubscription[T], granted FusionMode, ok bool) {
	qs, ok = s.(QueueSubscription[T])
	if !ok {
		return nil, FusionNone, false
	}
	return qs, qs.RequestFusion(want), true
}
