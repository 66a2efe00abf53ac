package compare

import "errors"

// ErrDiffsFound is wrapped by the *AbortError returned by Decide.
var ErrDiffsFound = errors.New("diffs found! See above")

// AbortError means differences were found and policy says the run must fail.
type AbortError struct {
	Err error
}

func (e *AbortError) Error() string { return e.Err.Error() }

func (e *AbortError) Unwrap() error { return e.Err }

// Decide turns a run's result into the build signal: an *AbortError wrapping ErrDiffsFound if diffFound and abortOnDiff, and nil otherwise.
func Decide(diffFound, abortOnDiff bool) error {
	if diffFound && abortOnDiff {
		return &AbortError{Err: ErrDiffsFound}
	}
	return nil
}
