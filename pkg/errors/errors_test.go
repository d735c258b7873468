package errors

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestConstructors(t *testing.T) {
	cause := errors.New("connection reset")

	tests := []struct {
		name      string
		err       *AppError
		code      string
		status    int
		retryable bool
	}{
		{"not found", NotFound("Car"), CodeNotFound, http.StatusNotFound, false},
		{"validation", Validation("bad", nil), CodeValidation, http.StatusUnprocessableEntity, false},
		{"invalid input", InvalidInput("bad json"), CodeInvalidInput, http.StatusBadRequest, false},
		{"unauthorized", Unauthorized("no token"), CodeUnauthorized, http.StatusUnauthorized, false},
		{"forbidden", Forbidden("not yours"), CodeForbidden, http.StatusForbidden, false},
		{"conflict", Conflict("busy"), CodeConflict, http.StatusConflict, false},
		{"no units", NoUnitsAvailable("sold out"), CodeNoUnitsAvailable, http.StatusConflict, false},
		{"payment", PaymentVerification("bad signature"), CodePaymentVerification, http.StatusBadRequest, false},
		{"storage", Storage("create booking", cause), CodeUnavailable, http.StatusServiceUnavailable, true},
		{"too many", TooManyRequests("slow down"), CodeTooManyRequests, http.StatusTooManyRequests, true},
		{"internal", Internal("boom", cause), CodeInternal, http.StatusInternalServerError, false},
		{"timeout", Timeout("late"), CodeTimeout, http.StatusGatewayTimeout, true},
		{"unavailable", Unavailable("Razorpay"), CodeUnavailable, http.StatusServiceUnavailable, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err.Code != tt.code {
				t.Errorf("code = %s, want %s", tt.err.Code, tt.code)
			}
			if tt.err.StatusCode() != tt.status {
				t.Errorf("status = %d, want %d", tt.err.StatusCode(), tt.status)
			}
			if tt.err.Retryable != tt.retryable {
				t.Errorf("retryable = %v, want %v", tt.err.Retryable, tt.retryable)
			}
		})
	}
}

func TestAppError_Error(t *testing.T) {
	plain := NotFound("Booking")
	if got := plain.Error(); got != "NOT_FOUND: Booking not found" {
		t.Errorf("Error() = %q", got)
	}

	wrapped := Storage("create booking", errors.New("socket closed"))
	want := "SERVICE_UNAVAILABLE: storage unavailable while trying to create booking (caused by: socket closed)"
	if got := wrapped.Error(); got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

func TestAsAppError_FollowsWrapChain(t *testing.T) {
	appErr := NoUnitsAvailable("sold out")
	wrapped := fmt.Errorf("check_availability step failed: %w", appErr)

	if !IsAppError(wrapped) {
		t.Fatal("IsAppError() should see through fmt.Errorf wrapping")
	}
	if got := AsAppError(wrapped); got != appErr {
		t.Errorf("AsAppError() = %v, want original", got)
	}
	if !HasCode(wrapped, CodeNoUnitsAvailable) {
		t.Error("HasCode() should match wrapped code")
	}

	regular := errors.New("plain")
	result := AsAppError(regular)
	if result.Code != CodeInternal || result.Err != regular {
		t.Errorf("AsAppError(plain) = %+v", result)
	}
}

func TestWithDetailsAndCause(t *testing.T) {
	cause := errors.New("dup key")
	err := Conflict("email taken").WithDetails(map[string]any{"field": "email"}).WithCause(cause)

	if err.Details["field"] != "email" {
		t.Errorf("details = %v", err.Details)
	}
	if !errors.Is(err, cause) {
		t.Error("errors.Is should reach the cause")
	}
}

func TestWriteError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		status     int
		code       string
		retryAfter bool
	}{
		{"app error", NotFoundWithID("Car", "abc"), http.StatusNotFound, CodeNotFound, false},
		{"storage error", Storage("insert", errors.New("x")), http.StatusServiceUnavailable, CodeUnavailable, true},
		{"plain error", errors.New("x"), http.StatusInternalServerError, CodeInternal, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			if err := WriteError(w, tt.err); err != nil {
				t.Fatalf("WriteError() error = %v", err)
			}
			if w.Code != tt.status {
				t.Errorf("status = %d, want %d", w.Code, tt.status)
			}
			if (w.Header().Get("Retry-After") != "") != tt.retryAfter {
				t.Errorf("Retry-After = %q", w.Header().Get("Retry-After"))
			}
			var env ErrorEnvelope
			if err := json.NewDecoder(w.Body).Decode(&env); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if env.Error.Code != tt.code {
				t.Errorf("code = %s, want %s", env.Error.Code, tt.code)
			}
		})
	}
}

func TestAppError_ToJSON(t *testing.T) {
	data := string(NotFoundWithID("Car", "12345").ToJSON())
	for _, want := range []string{"NOT_FOUND", "Car not found", "12345"} {
		if !strings.Contains(data, want) {
			t.Errorf("ToJSON() = %s, missing %q", data, want)
		}
	}
}
