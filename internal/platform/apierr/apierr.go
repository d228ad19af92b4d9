package apierr

import (
	"errors"
	"fmt"
	"net/http"

	domainagg "github.com/yungbote/changetrack/internal/domain/aggregates"
)

type Error struct {
	Status    int
	Code      string
	Retryable bool
	Err       error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	if e.Code != "" {
		return e.Code
	}
	if e.Status != 0 {
		return fmt.Sprintf("api error (%d)", e.Status)
	}
	return "api error"
}

func (e *Error) Unwrap() error { return e.Err }

func New(status int, code string, err error) *Error {
	return &Error{Status: status, Code: code, Err: err}
}

// FromError classifies err for a client-facing response. Errors that are
// already *Error pass through; aggregate error codes map onto statuses.
func FromError(err error) *Error {
	if err == nil {
		return nil
	}
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr
	}
	code := domainagg.CodeOf(err)
	out := &Error{Code: string(code), Err: err}
	switch code {
	case domainagg.CodeValidation:
		out.Status = http.StatusBadRequest
	case domainagg.CodeStateConflict:
		out.Status = http.StatusConflict
	case domainagg.CodeNotFound:
		out.Status = http.StatusNotFound
	case domainagg.CodeConflict:
		out.Status = http.StatusConflict
		out.Retryable = true
	case domainagg.CodeRetryable:
		out.Status = http.StatusServiceUnavailable
		out.Retryable = true
	case domainagg.CodeInvariantViolation:
		out.Status = http.StatusUnprocessableEntity
	default:
		out.Status = http.StatusInternalServerError
		if out.Code == "" {
			out.Code = string(domainagg.CodeInternal)
		}
	}
	return out
}
