package identity

import (
	"net/http"
	"strings"

	"ory-session-page/internal/utils"
)

// LogoutFlow is the provider's response to a browser logout flow request.
type LogoutFlow struct {
	LogoutURL   string `json:"logout_url"`
	LogoutToken string `json:"logout_token"`
}

// Credentials carry whatever the visitor presented: the browser's session cookies, an API session token, or both.
type Credentials struct {
	Cookie       string
	SessionToken string
}

func (c Credentials) IsEmpty() bool {
	return c.Cookie == "" && c.SessionToken == ""
}

// CredentialsFromRequest copies the visitor's credentials off an incoming request so they can be forwarded.
// Cookies split over several headers (HTTP/2) are joined into one.
func CredentialsFromRequest(r *http.Request) Credentials {
	creds := Credentials{
		Cookie: strings.Join(r.Header.Values("Cookie"), "; "),
	}

	if token, err := utils.ExtractSessionToken(r); err == nil {
		creds.SessionToken = token
	}

	return creds
}
