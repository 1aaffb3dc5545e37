// Package drive provides an HTTP client for the Google Drive v3 API
// with automatic retry, rate-limit backoff, and error classification.
package drive

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// Sentinel errors for API error classification.
// Use errors.Is(err, drive.ErrNotFound) to check.
var (
	ErrBadRequest       = errors.New("drive: bad request")
	ErrUnauthorized     = errors.New("drive: unauthorized")
	ErrPermissionDenied = errors.New("drive: permission denied")
	ErrNotFound         = errors.New("drive: not found")
	ErrRateLimited      = errors.New("drive: rate limited")
	ErrServerError      = errors.New("drive: server error")
)

// Rate-limit reasons the Drive API returns inside a 403 error body.
// Google signals throttling both as HTTP 429 and as 403 with one of these
// reasons, so classification must look at the body, not just the status.
const (
	reasonRateLimit     = "rateLimitExceeded"
	reasonUserRateLimit = "userRateLimitExceeded"
)

// Error wraps a sentinel error with the HTTP status code and the reason and
// message fields from the Drive API error body.
type Error struct {
	StatusCode int
	Reason     string
	Message    string
	Err        error // sentinel, for errors.Is()
}

func (e *Error) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("drive: HTTP %d (%s): %s", e.StatusCode, e.Reason, e.Message)
	}

	return fmt.Sprintf("drive: HTTP %d: %s", e.StatusCode, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// apiErrorBody mirrors the Drive API error response JSON.
type apiErrorBody struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Errors  []struct {
			Domain  string `json:"domain"`
			Reason  string `json:"reason"`
			Message string `json:"message"`
		} `json:"errors"`
	} `json:"error"`
}

// parseAPIError decodes a Drive error body into status-independent parts.
// A malformed body yields empty reason/message rather than a decode error —
// classification falls back to the HTTP status alone.
func parseAPIError(body []byte) (reason, message string) {
	var parsed apiErrorBody
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", string(body)
	}

	message = parsed.Error.Message
	if len(parsed.Error.Errors) > 0 {
		reason = parsed.Error.Errors[0].Reason
	}

	return reason, message
}

// classify maps an HTTP status code plus the Drive error reason to a
// sentinel error. Returns nil for 2xx success codes.
func classify(code int, reason string) error {
	switch code {
	case http.StatusBadRequest:
		return ErrBadRequest
	case http.StatusUnauthorized:
		return ErrUnauthorized
	case http.StatusForbidden:
		if reason == reasonRateLimit || reason == reasonUserRateLimit {
			return ErrRateLimited
		}

		return ErrPermissionDenied
	case http.StatusNotFound:
		return ErrNotFound
	case http.StatusTooManyRequests:
		return ErrRateLimited
	default:
		if code >= http.StatusInternalServerError {
			return ErrServerError
		}

		return nil
	}
}

// isRetryable reports whether a request that failed with the given status
// and reason should be retried with backoff.
func isRetryable(code int, reason string) bool {
	switch code {
	case http.StatusRequestTimeout, http.StatusTooManyRequests:
		return true
	case http.StatusForbidden:
		return reason == reasonRateLimit || reason == reasonUserRateLimit
	default:
		return code >= http.StatusInternalServerError
	}
}
