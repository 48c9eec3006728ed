package gnio

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/Giulio2002/gnio/mmap"
)

// Error represents a gnio error with an error code
type Error struct {
	Code    ErrorCode
	Op      string // operation that failed, e.g. "put" or "open"
	Message string
	Err     error // wrapped error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("gnio: %s: %s: %v", e.Op, e.Message, e.Err)
	}
	return fmt.Sprintf("gnio: %s: %s", e.Op, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is a *Error with the same code, so that
// errors.Is(err, NewError("", ErrClosed)) matches any closed-channel error.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Code == e.Code
}

// ErrorCode classifies a failure.
type ErrorCode int

const (
	// Success indicates the operation completed successfully
	Success ErrorCode = iota

	// ErrNotFound indicates the file does not exist
	ErrNotFound

	// ErrPermissionDenied indicates the access mode forbids the operation
	ErrPermissionDenied

	// ErrAlreadyExists indicates exclusive creation hit an existing file
	ErrAlreadyExists

	// ErrInvalidArgument indicates a bad capacity, offset, length or flag set
	ErrInvalidArgument

	// ErrOverflow indicates a put past the buffer limit
	ErrOverflow

	// ErrUnderflow indicates a get past the buffer limit
	ErrUnderflow

	// ErrInvalidState indicates an undefined mark or a released mapping
	ErrInvalidState

	// ErrClosed indicates use of a closed channel
	ErrClosed

	// ErrIO indicates any other operating system failure
	ErrIO
)

var errorMessages = map[ErrorCode]string{
	Success:             "success",
	ErrNotFound:         "no such file",
	ErrPermissionDenied: "permission denied",
	ErrAlreadyExists:    "file already exists",
	ErrInvalidArgument:  "invalid argument",
	ErrOverflow:         "buffer overflow",
	ErrUnderflow:        "buffer underflow",
	ErrInvalidState:     "invalid state",
	ErrClosed:           "channel is closed",
	ErrIO:               "i/o error",
}

func (c ErrorCode) String() string {
	if msg, ok := errorMessages[c]; ok {
		return msg
	}
	return fmt.Sprintf("unknown error code %d", int(c))
}

// NewError creates a new Error with the given code
func NewError(op string, code ErrorCode) *Error {
	return &Error{Code: code, Op: op, Message: code.String()}
}

// WrapError creates a new Error wrapping another error
func WrapError(op string, code ErrorCode, err error) *Error {
	e := NewError(op, code)
	e.Err = err
	return e
}

// wrapOSError classifies an error returned by the os or mmap packages.
func wrapOSError(op string, err error) *Error {
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	code := ErrIO
	switch {
	case errors.Is(err, fs.ErrNotExist):
		code = ErrNotFound
	case errors.Is(err, fs.ErrPermission):
		code = ErrPermissionDenied
	case errors.Is(err, fs.ErrExist):
		code = ErrAlreadyExists
	case errors.Is(err, fs.ErrClosed):
		code = ErrClosed
	case errors.Is(err, mmap.ErrInvalidSize),
		errors.Is(err, mmap.ErrInvalidOffset),
		errors.Is(err, mmap.ErrInvalidRange),
		errors.Is(err, mmap.ErrInvalidMode):
		code = ErrInvalidArgument
	case errors.Is(err, mmap.ErrNotMapped):
		code = ErrInvalidState
	}
	return WrapError(op, code, err)
}

// Code returns the error code from an error, or ErrIO if not a gnio error
func Code(err error) ErrorCode {
	if err == nil {
		return Success
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ErrIO
}

func hasCode(err error, code ErrorCode) bool {
	var e *Error
	return errors.As(err, &e) && e.Code == code
}

// IsNotFound returns true if the error is ErrNotFound
func IsNotFound(err error) bool { return hasCode(err, ErrNotFound) }

// IsPermissionDenied returns true if the error is ErrPermissionDenied
func IsPermissionDenied(err error) bool { return hasCode(err, ErrPermissionDenied) }

// IsAlreadyExists returns true if the error is ErrAlreadyExists
func IsAlreadyExists(err error) bool { return hasCode(err, ErrAlreadyExists) }

// IsInvalidArgument returns true if the error is ErrInvalidArgument
func IsInvalidArgument(err error) bool { return hasCode(err, ErrInvalidArgument) }

// IsOverflow returns true if the error is ErrOverflow
func IsOverflow(err error) bool { return hasCode(err, ErrOverflow) }

// IsUnderflow returns true if the error is ErrUnderflow
func IsUnderflow(err error) bool { return hasCode(err, ErrUnderflow) }

// IsInvalidState returns true if the error is ErrInvalidState
func IsInvalidState(err error) bool { return hasCode(err, ErrInvalidState) }

// IsClosed returns true if the error is ErrClosed
func IsClosed(err error) bool { return hasCode(err, ErrClosed) }
