package identity

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrEmptySession     = errors.New("identity provider returned an empty session")
	ErrEmptyLogoutURL   = errors.New("identity provider returned an empty logout url")
	ErrResponseTooLarge = errors.New("identity provider response too large")
)

// APIError is returned when the identity provider answers with a non-2xx status.
type APIError struct {
	StatusCode int
	// Body is the response payload. Non-JSON payloads are stored as a JSON string.
	Body json.RawMessage
}

func newAPIError(statusCode int, body []byte) *APIError {
	apiErr := &APIError{StatusCode: statusCode}

	if len(body) == 0 {
		return apiErr
	}

	if json.Valid(body) {
		apiErr.Body = json.RawMessage(body)
		return apiErr
	}

	if encoded, err := json.Marshal(string(body)); err == nil {
		apiErr.Body = encoded
	}

	return apiErr
}

func (e *APIError) Error() string {
	return fmt.Sprintf("request failed with status code %d", e.StatusCode)
}

// ResponseBody returns the provider's payload carried by err, if any.
func ResponseBody(err error) json.RawMessage {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Body
	}
	return nil
}

// IsUnauthorized reports whether the provider rejected the credentials.
func IsUnauthorized(err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == http.StatusUnauthorized || apiErr.StatusCode == http.StatusForbidden
	}
	return false
}
