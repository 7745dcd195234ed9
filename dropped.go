package flowcore

import (
	"log/slog"
	"sync/atomic"
)

// droppedHandler holds the process-wide hook receiving errors that can no
// longer reach a subscriber. nil means the default slog sink.
var droppedHandler atomic.Pointer[func(error)]

// SetDroppedHandler installs the process-wide hook for errors that arrive
// after a terminal signal has been delivered. Passing nil restores the
// default, which logs through slog. The handler must be safe for concurrent
// use and must not panic.
func SetDroppedHandler(fn func(error)) {
	if fn == nil {
		droppedHandler.Store(nil)
		return
	}
	droppedHandler.Store(&fn)
}

// Dropped routes err to the process-wide dropped-error hook. Terminated
// consumers call it for any error they can no longer deliver; errors are
// never silently discarded. Fatal errors re-raise instead.
func Dropped(err error) {
	if err == nil {
		return
	}
	throwIfFatal(err)
	if fn := droppedHandler.Load(); fn != nil {
		(*fn)(err)
		return
	}
	slog.Error(Namespace+": undeliverable error dropped", "error", err)
}
