package source

import (
	"errors"
	"fmt"
)

// NotFoundError means a local path does not exist, or a remote server answered 404.
type NotFoundError struct {
	Ref string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s doesn't exist", e.Ref)
}

// TimeoutError means a connect or read timeout elapsed while fetching a remote reference.
type TimeoutError struct {
	Ref   string
	Phase string // "connect" or "read"
	Err   error
}

func (e *TimeoutError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s timeout fetching %s", e.Phase, e.Ref)
	}
	return fmt.Sprintf("%s timeout fetching %s: %v", e.Phase, e.Ref, e.Err)
}

func (e *TimeoutError) Unwrap() error { return e.Err }

// Timeout reports true, so TimeoutError satisfies net.Error-style checks.
func (e *TimeoutError) Timeout() bool { return true }

// UnsupportedReferenceError means a reference's scheme or format is not recognized.
type UnsupportedReferenceError struct {
	Raw    string
	Reason string
}

func (e *UnsupportedReferenceError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("unsupported uri: %s", e.Raw)
	}
	return fmt.Sprintf("unsupported uri: %s: %s", e.Raw, e.Reason)
}

// UnreachableError means a remote reference could not be fetched for a reason other than a timeout or a 404 (ex: connection refused, DNS failure, HTTP 500).
type UnreachableError struct {
	Ref string
	Err error
}

func (e *UnreachableError) Error() string {
	return fmt.Sprintf("%s is unreachable: %v", e.Ref, e.Err)
}

func (e *UnreachableError) Unwrap() error { return e.Err }

// PatternError means a FileSet include or exclude pattern is malformed.
type PatternError struct {
	Pattern string
}

func (e *PatternError) Error() string {
	return fmt.Sprintf("malformed file pattern %q", e.Pattern)
}

// IsNotFound reports whether err is or wraps a *NotFoundError.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

// IsTimeout reports whether err is or wraps a *TimeoutError.
func IsTimeout(err error) bool {
	var te *TimeoutError
	return errors.As(err, &te)
}

// IsUnsupported reports whether err is or wraps an *UnsupportedReferenceError.
func IsUnsupported(err error) bool {
	var ue *UnsupportedReferenceError
	return errors.As(err, &ue)
}
