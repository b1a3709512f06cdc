package identity

import (
	"context"
	"encoding/json"
)

//go:generate mockgen -source=provider.go -destination=../mocks/identity.go -package=mocks

// Provider is the subset of the identity provider's public API used by the session page.
type Provider interface {
	// ToSession returns the session belonging to the given credentials, verbatim.
	ToSession(ctx context.Context, creds Credentials) (json.RawMessage, error)
	// CreateBrowserLogoutFlow returns a one-time URL that ends the browser session when visited.
	CreateBrowserLogoutFlow(ctx context.Context, creds Credentials) (*LogoutFlow, error)
}
