package utils

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

const HeaderSessionToken = "X-Session-Token"

var (
	ErrMissingAuthzHeader     = errors.New("missing authorization header")
	ErrInvalidAuthzHeader     = errors.New("invalid authorization header")
	ErrUnsupportedAuthzScheme = errors.New("unsupported authorization scheme")
	ErrMissingAuthzToken      = errors.New("missing authorization token")
)

func ExtractAuthorizationHeader(r *http.Request) (string, error) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return "", ErrMissingAuthzHeader
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 {
		return "", ErrInvalidAuthzHeader
	}

	scheme := parts[0]
	token := strings.TrimSpace(parts[1])

	if !strings.EqualFold(scheme, "Bearer") {
		return "", fmt.Errorf("%w: %s", ErrUnsupportedAuthzScheme, scheme)
	}

	if token == "" {
		return "", ErrMissingAuthzToken
	}

	return token, nil
}

// ExtractSessionToken returns the API session token from X-Session-Token, falling back to a bearer Authorization header.
func ExtractSessionToken(r *http.Request) (string, error) {
	if token := strings.TrimSpace(r.Header.Get(HeaderSessionToken)); token != "" {
		return token, nil
	}

	return ExtractAuthorizationHeader(r)
}
