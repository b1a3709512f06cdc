package handlers

import (
	"net/http"

	"ory-session-page/internal/middlewares"
)

// GETSessionHandler exposes the same load as the page, as JSON. The stored error is only visible here.
func GETSessionHandler(ctx *middlewares.AppContext) {
	state := loadState(ctx)

	ctx.Response.Header().Set("Cache-Control", "no-store")
	if !state.HasSession() {
		ctx.WriteJSON(http.StatusUnauthorized, state)
		return
	}

	ctx.WriteJSON(http.StatusOK, state)
}
