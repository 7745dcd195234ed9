package flowcore

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFatal_TagAndProbe(t *testing.T) {
	cause := errors.New("heap exhausted")
	err := Fatal(cause)

	require.True(t, IsFatal(err))
	require.ErrorIs(t, err, cause)
	require.False(t, IsFatal(cause))
	require.Nil(t, Fatal(nil))
}

func TestFatal_SurvivesWrapping(t *testing.T) {
	err := fmt.Errorf("while draining: %w", Fatal(errors.New("stack overflow")))
	require.True(t, IsFatal(err))
}

func TestThrowIfFatal_Reraises(t *testing.T) {
	require.NotPanics(t, func() { throwIfFatal(errors.New("recoverable")) })
	require.NotPanics(t, func() { throwIfFatal(nil) })

	fatal := Fatal(errors.New("unrecoverable"))
	require.PanicsWithValue(t, fatal, func() { throwIfFatal(fatal) })
}

func TestDropped_DefaultAndCustomHook(t *testing.T) {
	var seen []error
	SetDroppedHandler(func(err error) { seen = append(seen, err) })
	defer SetDroppedHandler(nil)

	e := errors.New("late arrival")
	Dropped(e)
	Dropped(nil) // ignored

	require.Equal(t, []error{e}, seen)
}

func TestDropped_FatalReraisesInsteadOfDropping(t *testing.T) {
	SetDroppedHandler(func(error) { t.Fatalf("fatal error must not reach the hook") })
	defer SetDroppedHandler(nil)

	fatal := Fatal(errors.New("unrecoverable"))
	require.PanicsWithValue(t, fatal, func() { Dropped(fatal) })
}
