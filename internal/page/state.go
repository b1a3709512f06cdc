package page

import (
	"encoding/json"

	"ory-session-page/internal/identity"
)

// State is everything one page load knows. It lives for a single request.
type State struct {
	Session   json.RawMessage `json:"session,omitempty"`
	LogoutURL string          `json:"logout_url,omitempty"`
	Error     *ErrorInfo      `json:"error,omitempty"`
}

func (s *State) HasSession() bool {
	return s != nil && len(s.Session) > 0
}

// ErrorInfo records a failed load step together with whatever the provider answered.
type ErrorInfo struct {
	Error string          `json:"error"`
	Data  json.RawMessage `json:"data,omitempty"`

	Step         string `json:"-"`
	Unauthorized bool   `json:"-"`
}

func newErrorInfo(step string, err error) *ErrorInfo {
	return &ErrorInfo{
		Error:        err.Error(),
		Data:         identity.ResponseBody(err),
		Step:         step,
		Unauthorized: identity.IsUnauthorized(err),
	}
}
