package store

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorCode identifies the kind of failure a store operation ran into.
type ErrorCode string

const (
	CodeValidation  ErrorCode = "VALIDATION_ERROR"
	CodeNotFound    ErrorCode = "NOT_FOUND"
	CodePersistence ErrorCode = "PERSISTENCE_ERROR"
	CodeCorruption  ErrorCode = "CORRUPTION_ERROR"
)

// Sentinels for use with errors.Is. Any *Error with the same code matches.
var (
	ErrValidation  = &Error{Code: CodeValidation}
	ErrNotFound    = &Error{Code: CodeNotFound}
	ErrPersistence = &Error{Code: CodePersistence}
	ErrCorruption  = &Error{Code: CodeCorruption}
)

// Error is returned by every Store operation that fails.
//
// A persistence error leaves the in-memory state exactly as it was before
// the call, so the caller may retry the same operation.
type Error struct {
	Code    ErrorCode
	Op      string
	ID      int64
	Message string
	Err     error
}

// Error implements the error interface.
func (e *Error) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "[%s]", e.Code)
	if e.Op != "" {
		b.WriteString(" " + e.Op)
	}
	if e.ID != 0 {
		fmt.Fprintf(&b, " todo %d", e.ID)
	}
	if e.Message != "" {
		b.WriteString(": " + e.Message)
	}
	if e.Err != nil {
		b.WriteString(": " + e.Err.Error())
	}
	return b.String()
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is an *Error with the same code.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Code == e.Code
}

// CodeOf returns the code of the first *Error in err's chain, or "".
func CodeOf(err error) ErrorCode {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

func validationError(op string, id int64, err error) *Error {
	return &Error{Code: CodeValidation, Op: op, ID: id, Message: err.Error()}
}

func notFoundError(op string, id int64) *Error {
	return &Error{Code: CodeNotFound, Op: op, ID: id, Message: "todo not found"}
}

func persistenceError(op string, id int64, err error) *Error {
	return &Error{Code: CodePersistence, Op: op, ID: id, Message: "failed to persist", Err: err}
}

func corruptionError(path string, err error) *Error {
	return &Error{Code: CodeCorruption, Op: "load", Message: fmt.Sprintf("cannot decode %s", path), Err: err}
}
