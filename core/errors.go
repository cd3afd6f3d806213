package core

import "github.com/pkg/errors"

// FieldError is used to indicate an error with a specific struct field.
type FieldError struct {
	Field string
	Error string
}

// ValidationError indicates a malformed or otherwise rejected request payload.
type ValidationError struct {
	Err    error
	Fields []FieldError
}

func NewValidationError(err error, flds ...FieldError) error {
	return &ValidationError{err, flds}
}

func (err ValidationError) Error() string {
	if err.Err == nil {
		return ""
	}
	return err.Err.Error()
}

// Storage operations.
const (
	StorageOpRead  = "read"
	StorageOpWrite = "write"
)

// StorageError indicates an I/O fault at the persistence boundary.
// An absent document is NOT a StorageError; stores treat it as empty state.
type StorageError struct {
	Op  string // StorageOpRead | StorageOpWrite
	Err error
}

func NewStorageReadError(err error) error {
	return &StorageError{Op: StorageOpRead, Err: err}
}

func NewStorageWriteError(err error) error {
	return &StorageError{Op: StorageOpWrite, Err: err}
}

func (err StorageError) Error() string {
	msg := "storage " + err.Op + " fault"
	if err.Err != nil {
		msg += ": " + err.Err.Error()
	}
	return msg
}

// Unwrap intentionally absent: errors.Cause must stop here so callers can
// detect the storage fault itself.

func IsStorageError(err error) bool {
	_, ok := errors.Cause(err).(*StorageError)
	return ok
}

type shutdown struct {
	message string
}

// NewShutdownError returns an error that signals the app can no longer
// guarantee its integrity and should shut down gracefully.
func NewShutdownError(msg string) error {
	return &shutdown{message: msg}
}

func (s shutdown) Error() string {
	return s.message
}

func IsShutdown(err error) bool {
	_, ok := errors.Cause(err).(*shutdown)
	return ok
}
