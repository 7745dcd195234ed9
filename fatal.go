package flowcore

import "errors"

// fatalCapability is the probe interface distinguishing fatal errors. It is
// implemented only by fatalError; classification happens at the point an
// error is first tagged, not by inspecting concrete types downstream.
type fatalCapability interface {
	FatalSignal()
}

type fatalError struct {
	err error
}

func (f *fatalError) Error() string { return Namespace + ": fatal: " + f.err.Error() }

func (f *fatalError) Unwrap() error { return f.err }

// FatalSignal marks the error as unrecoverable. It carries no behavior; its
// presence is what IsFatal probes for.
func (f *fatalError) FatalSignal() {}

// Fatal tags err as an unrecoverable condition. Fatal errors are never
// accumulated or delivered through the normal signal path; they re-raise as
// panics wherever they are encountered, unwinding the calling goroutine.
// Tagging nil returns nil.
func Fatal(err error) error {
	if err == nil {
		return nil
	}
	return &fatalError{err: err}
}

// IsFatal reports whether err, anywhere in its chain, is tagged fatal.
func IsFatal(err error) bool {
	var f fatalCapability
	return errors.As(err, &f)
}

// throwIfFatal re-raises fatal errors instead of letting them enter the
// normal accumulation or delivery path.
func throwIfFatal(err error) {
	if IsFatal(err) {
		panic(err)
	}
}
