package page

import (
	"context"
	"log/slog"

	"ory-session-page/internal/identity"
	"ory-session-page/internal/metrics"
)

// Loader runs the page load sequence: session first, then the logout url.
type Loader struct {
	provider  identity.Provider
	localLink func(string) string
}

type LoaderOption func(*Loader)

// WithLinkRewriter maps provider links (the logout url) onto a local path before they are stored.
func WithLinkRewriter(rewrite func(string) string) LoaderOption {
	return func(l *Loader) {
		l.localLink = rewrite
	}
}

func NewLoader(provider identity.Provider, opts ...LoaderOption) *Loader {
	l := &Loader{
		provider:  provider,
		localLink: func(link string) string { return link },
	}

	for _, opt := range opts {
		opt(l)
	}

	return l
}

// Load fills state. It does nothing once state holds a session or an error, and the
// logout url is only requested after the session request succeeded.
func (l *Loader) Load(ctx context.Context, logger *slog.Logger, creds identity.Credentials, state *State) {
	if state.Session != nil || state.Error != nil {
		return
	}

	session, err := l.provider.ToSession(ctx, creds)
	if err != nil {
		state.Error = newErrorInfo(metrics.LoadStepSession, err)
		metrics.PageLoadErrors.WithLabelValues(metrics.LoadStepSession).Inc()

		if state.Error.Unauthorized {
			logger.Debug("no active session", "error", err)
		} else {
			logger.Warn("failed to load session", "error", err)
		}
		return
	}

	state.Session = session

	flow, err := l.provider.CreateBrowserLogoutFlow(ctx, creds)
	if err != nil {
		state.Error = newErrorInfo(metrics.LoadStepLogout, err)
		metrics.PageLoadErrors.WithLabelValues(metrics.LoadStepLogout).Inc()
		logger.Warn("failed to create logout flow", "error", err)
		return
	}

	state.LogoutURL = l.localLink(flow.LogoutURL)
}
