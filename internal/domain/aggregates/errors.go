package aggregates

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorCode classifies a failed aggregate operation. Callers branch on the
// code, never on the message.
type ErrorCode string

const (
	// CodeValidation: input rules failed; nothing was recorded.
	CodeValidation ErrorCode = "validation"
	// CodeStateConflict: the lifecycle does not allow the call (mutating or
	// saving twice, saving before submit).
	CodeStateConflict ErrorCode = "state_conflict"
	CodeNotFound      ErrorCode = "not_found"
	// CodeConflict: another writer won; reload and redo the operation.
	CodeConflict           ErrorCode = "conflict"
	CodeInvariantViolation ErrorCode = "invariant_violation"
	// CodeRetryable: a transient storage failure or cancellation.
	CodeRetryable   ErrorCode = "retryable"
	CodePersistence ErrorCode = "persistence_failure"
	CodeInternal    ErrorCode = "internal"
)

// Error carries a code plus the operation that failed, e.g.
// "employee.save: employee version changed during update (conflict)".
type Error struct {
	Code    ErrorCode
	Op      string
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	var b strings.Builder
	if op := strings.TrimSpace(e.Op); op != "" {
		b.WriteString(op)
	}
	if msg := strings.TrimSpace(e.Message); msg != "" {
		if b.Len() > 0 {
			b.WriteString(": ")
		}
		b.WriteString(msg)
	}
	if b.Len() == 0 {
		return string(e.Code)
	}
	return fmt.Sprintf("%s (%s)", b.String(), e.Code)
}

func (e *Error) Unwrap() error { return e.Cause }

func NewError(code ErrorCode, op, message string, cause error) error {
	return &Error{
		Code:    code,
		Op:      strings.TrimSpace(op),
		Message: strings.TrimSpace(message),
		Cause:   cause,
	}
}

// Wrap keeps err's text as the message; a nil err stays nil.
func Wrap(code ErrorCode, op string, err error) error {
	if err == nil {
		return nil
	}
	return NewError(code, op, err.Error(), err)
}

func StateConflict(op, message string) error {
	return NewError(CodeStateConflict, op, message, nil)
}

// CodeOf returns the code of the first *Error in err's chain, or "".
func CodeOf(err error) ErrorCode {
	var aggErr *Error
	if errors.As(err, &aggErr) {
		return aggErr.Code
	}
	return ""
}

func IsCode(err error, code ErrorCode) bool {
	return err != nil && CodeOf(err) == code
}

// Retryable reports whether redoing the whole business operation (reload,
// mutate, submit, save) can succeed.
func Retryable(err error) bool {
	switch CodeOf(err) {
	case CodeConflict, CodeRetryable:
		return true
	}
	return false
}
