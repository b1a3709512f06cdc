package handlers

import (
	"io"
	"net/http"

	"ory-session-page/internal/identity"
	"ory-session-page/internal/metrics"
	"ory-session-page/internal/middlewares"
	"ory-session-page/internal/page"
)

// GETIndexHandler renders the session page: the user information panel when the visitor has a
// session, the landing view otherwise.
func GETIndexHandler(ctx *middlewares.AppContext) {
	state := loadState(ctx)

	outcome := metrics.PageOutcomeLanding
	if state.HasSession() {
		outcome = metrics.PageOutcomeSession
	}
	metrics.PageRendersTotal.WithLabelValues(outcome).Inc()

	ctx.Response.Header().Set("Cache-Control", "no-store")
	ctx.WriteHTML(http.StatusOK, func(w io.Writer) error {
		return ctx.Renderer.Render(w, state)
	})
}

func loadState(ctx *middlewares.AppContext) *page.State {
	state := &page.State{}
	ctx.Loader.Load(ctx, ctx.Logger, identity.CredentialsFromRequest(ctx.Request), state)

	if state.Error != nil && !state.Error.Unauthorized {
		ctx.Logger.Warn("page loaded with an error", "step", state.Error.Step, "error", state.Error.Error)
	}

	return state
}
