package api

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// ErrorCode is the short machine-readable error category.
type ErrorCode string

const (
	CodeConflict     ErrorCode = "CONFLICT"
	CodeUnauthorized ErrorCode = "UNAUTHORIZED"
	CodeForbidden    ErrorCode = "FORBIDDEN"
	CodeNotFound     ErrorCode = "NOT_FOUND"
	CodeBadRequest   ErrorCode = "BAD_REQUEST"
	CodeValidation   ErrorCode = "VALIDATION_ERROR"
	CodeInternal     ErrorCode = "INTERNAL_SERVER_ERROR"
)

// ErrorResponse is the uniform failure envelope. Every failing request
// produces exactly one of these; no failure reaches the client in any
// other shape.
type ErrorResponse struct {
	Status    int               `json:"status"`
	Error     ErrorCode         `json:"error"`
	Message   string            `json:"message"`
	Timestamp time.Time         `json:"timestamp"`
	Details   map[string]string `json:"details,omitempty"`
	Path      string            `json:"path,omitempty"`
}

// NewErrorResponse builds an envelope stamped with the current time.
func NewErrorResponse(status int, code ErrorCode, message, path string) ErrorResponse {
	return ErrorResponse{
		Status:    status,
		Error:     code,
		Message:   message,
		Timestamp: time.Now().UTC(),
		Path:      path,
	}
}

// FieldErrors collects per-field validation failures. It implements error
// so it can travel through the normal error path to the responder.
type FieldErrors map[string]string

func (e FieldErrors) Error() string {
	fields := make([]string, 0, len(e))
	for f := range e {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	return fmt.Sprintf("validation failed on: %s", strings.Join(fields, ", "))
}

// BadRequestError is a domain precondition failure whose message is safe to
// return to the client verbatim, such as an admin deleting their own account.
type BadRequestError struct {
	Message string
}

func (e *BadRequestError) Error() string { return e.Message }
