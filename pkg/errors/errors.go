package errors

import (
	"errors"
	"fmt"
)

// Failure taxonomy of the playback/composition core. Every one of these is
// recoverable and scoped to a single item, draft or request.
var (
	// ErrPermissionDenied means the OS refused a capture permission. The user
	// gets an explanation and must re-invoke the action themselves.
	ErrPermissionDenied = errors.New("permission denied")

	// ErrCaptureCancelled means the user backed out of a picker or capture
	// dialog. Not an error from the user's point of view, callers no-op on it.
	ErrCaptureCancelled = errors.New("capture cancelled")

	// ErrMediaLoadFailure means a player could not open a media URI. The
	// affected item degrades to a poster state, the rest of the list is fine.
	ErrMediaLoadFailure = errors.New("media load failure")

	// ErrValidation means a draft failed its required-field check.
	ErrValidation = errors.New("validation failed")

	// ErrRecordingTooShort means a recording was stopped before the minimum
	// duration and is discarded rather than offered to the user.
	ErrRecordingTooShort = errors.New("recording too short")
)

// Error represents a custom error type
type Error struct {
	Code    string
	Message string
	Err     error
}

// Error returns the error message
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the wrapped error
func (e *Error) Unwrap() error {
	return e.Err
}

// New creates a new error with a message
func New(message string) error {
	return &Error{
		Message: message,
	}
}

// Wrap wraps an error with additional message
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return &Error{
		Message: message,
		Err:     err,
	}
}

// WrapWithCode wraps an error with a code and message
func WrapWithCode(err error, code, message string) error {
	if err == nil {
		return nil
	}
	return &Error{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Is reports whether any error in err's chain matches target
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}

// GetCode returns the error code if it exists
func GetCode(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// GetMessage returns the error message
func GetMessage(err error) string {
	if err == nil {
		return ""
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}

// IsPermissionDenied returns true if the error is a permission denial
func IsPermissionDenied(err error) bool {
	return errors.Is(err, ErrPermissionDenied)
}

// IsCaptureCancelled returns true if the user cancelled a capture dialog
func IsCaptureCancelled(err error) bool {
	return errors.Is(err, ErrCaptureCancelled)
}

// IsMediaLoadFailure returns true if a player could not open a media URI
func IsMediaLoadFailure(err error) bool {
	return errors.Is(err, ErrMediaLoadFailure)
}

// IsValidation returns true if a draft failed validation
func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation)
}

// IsRecordingTooShort returns true if a recording was below the minimum duration
func IsRecordingTooShort(err error) bool {
	return errors.Is(err, ErrRecordingTooShort)
}
