package transport

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/sigil-dev/sigil/pkg/api"
	"github.com/sigil-dev/sigil/pkg/auth"
	"github.com/sigil-dev/sigil/pkg/observability"
	"github.com/sigil-dev/sigil/pkg/store"
)

// Client-facing messages for failure kinds that must stay generic. Anything
// more specific would leak which check failed.
const (
	msgInvalidCredentials = "Invalid email or password"
	msgUnauthenticated    = "Authentication required"
	msgForbidden          = "You don't have permission to access this resource"
	msgValidation         = "Validation failed. Please check the provided data."
	msgInternal           = "An unexpected error occurred. Please try again later."
)

// WriteError is the single failure responder. It classifies err against the
// auth/validation taxonomy in priority order and writes exactly one error
// envelope. Unclassified errors become a generic 500; their detail goes to
// the server log only.
func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		status  int
		code    api.ErrorCode
		message string
		details map[string]string
	)

	var fieldErrs api.FieldErrors
	var badReq *api.BadRequestError

	switch {
	case errors.Is(err, auth.ErrAlreadyExists):
		status, code, message = http.StatusConflict, api.CodeConflict, err.Error()

	case errors.Is(err, auth.ErrInvalidCredentials):
		status, code, message = http.StatusUnauthorized, api.CodeUnauthorized, msgInvalidCredentials
		observability.AuthFailuresTotal.WithLabelValues("invalid_credentials").Inc()

	case errors.Is(err, auth.ErrUnauthenticated):
		status, code, message = http.StatusUnauthorized, api.CodeUnauthorized, msgUnauthenticated
		observability.AuthFailuresTotal.WithLabelValues("unauthenticated").Inc()

	case errors.Is(err, auth.ErrForbidden):
		status, code, message = http.StatusForbidden, api.CodeForbidden, msgForbidden
		observability.AuthFailuresTotal.WithLabelValues("forbidden").Inc()

	case errors.Is(err, auth.ErrNotFound), errors.Is(err, store.ErrNotFound):
		status, code, message = http.StatusNotFound, api.CodeNotFound, err.Error()

	case errors.As(err, &fieldErrs):
		status, code, message = http.StatusBadRequest, api.CodeValidation, msgValidation
		details = fieldErrs

	case errors.As(err, &badReq):
		status, code, message = http.StatusBadRequest, api.CodeBadRequest, badReq.Message

	default:
		status, code, message = http.StatusInternalServerError, api.CodeInternal, msgInternal
		slog.Error("unexpected error",
			"path", r.URL.Path,
			"method", r.Method,
			"error", err,
		)
	}

	envelope := api.NewErrorResponse(status, code, message, r.URL.Path)
	envelope.Details = details

	writeJSON(w, status, envelope)
}

// writeJSON writes a JSON response body with the given status code.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("writing response", "error", err)
	}
}
