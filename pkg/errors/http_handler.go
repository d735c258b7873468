package errors

import (
	"encoding/json"
	"net/http"
)

// ErrorEnvelope wraps an ErrorBody under the "error" key.
type ErrorEnvelope struct {
	Error ErrorBody `json:"error"`
}

// WriteError renders err as a JSON error envelope. The returned error is the
// encoding failure, if any, so the caller can log it.
func WriteError(w http.ResponseWriter, err error) error {
	appErr := AsAppError(err)
	w.Header().Set("Content-Type", "application/json")
	if appErr.Retryable && appErr.StatusCode() == http.StatusServiceUnavailable {
		w.Header().Set("Retry-After", "1")
	}
	w.WriteHeader(appErr.StatusCode())
	return json.NewEncoder(w).Encode(ErrorEnvelope{Error: ErrorBody{
		Code:      appErr.Code,
		Message:   appErr.Message,
		Details:   appErr.Details,
		Retryable: appErr.Retryable,
	}})
}
