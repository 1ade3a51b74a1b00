// Package apperr defines the errors the ledger reports to its callers.
//
// Errors come in two kinds: validation errors, raised when a request cannot
// be honoured as given, and IO errors, raised when reading or writing a file
// fails. Callers match them with errors.Is and errors.As.
package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies an error.
type Kind int

const (
	Unknown Kind = iota
	Validation
	IO
)

func (k Kind) String() string {
	switch k {
	case Validation:
		return "validation"
	case IO:
		return "io"
	default:
		return "unknown"
	}
}

// kinded is implemented by every error defined in this package.
type kinded interface {
	Kind() Kind
}

type validationError string

func (e validationError) Error() string { return string(e) }
func (validationError) Kind() Kind      { return Validation }

const (
	ErrDuplicateName   = validationError("an account with this name already exists")
	ErrWrongPassword   = validationError("wrong password")
	ErrUserNotFound    = validationError("account not found")
	ErrEmptyFilename   = validationError("file name is empty")
	ErrArgumentMissing = validationError("nothing selected")
	ErrWeakPassword    = validationError("password does not meet the security requirements")
	ErrNoMatch         = validationError("no records found")
	ErrNoSession       = validationError("no account is logged in")
	ErrRecordNotFound  = validationError("record not found")
	ErrInvalidText     = validationError("text contains characters that cannot be stored")
)

// Error wraps a failure of a file operation.
type Error struct {
	Op   string // "save", "load", "export", ...
	Path string
	Err  error
}

func (e *Error) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }
func (e *Error) Kind() Kind    { return IO }

// IOError wraps err as an IO error. It returns nil if err is nil.
func IOError(op, path string, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Op: op, Path: path, Err: err}
}

// NoMatchError is returned when a filter selects nothing.
type NoMatchError struct {
	Filter string
}

func (e *NoMatchError) Error() string {
	return fmt.Sprintf("%s: %s", e.Filter, ErrNoMatch)
}

func (e *NoMatchError) Unwrap() error { return ErrNoMatch }
func (e *NoMatchError) Kind() Kind    { return Validation }

// WeakPasswordError carries the outcome of a failed password check.
type WeakPasswordError struct {
	Satisfied int
	Total     int
	Message   string
}

func (e *WeakPasswordError) Error() string {
	return fmt.Sprintf("%s (%d/%d): %s", ErrWeakPassword, e.Satisfied, e.Total, e.Message)
}

func (e *WeakPasswordError) Unwrap() error { return ErrWeakPassword }
func (e *WeakPasswordError) Kind() Kind    { return Validation }

// KindOf returns the kind of the first error in err's chain that has one.
func KindOf(err error) Kind {
	var k kinded
	if errors.As(err, &k) {
		return k.Kind()
	}
	return Unknown
}
