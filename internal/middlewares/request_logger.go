package middlewares

import (
	"log/slog"
	"net/http"
	"time"

	"ory-session-page/internal/utils"

	"github.com/go-chi/chi/v5/middleware"
)

// RequestLogger writes one structured line per request.
func RequestLogger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			level := slog.LevelInfo
			status := statusOf(ww)
			if status >= http.StatusInternalServerError {
				level = slog.LevelError
			}

			ua := utils.ParseUserAgent(r.UserAgent())
			logger.LogAttrs(r.Context(), level, "request completed",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", status),
				slog.Int("bytes", ww.BytesWritten()),
				slog.Duration("duration", time.Since(start)),
				slog.String("client_ip", ClientIP(r)),
				slog.String("request_id", middleware.GetReqID(r.Context())),
				slog.Group("user_agent",
					slog.String("browser", ua.Browser),
					slog.String("browser_version", ua.BrowserVersion),
					slog.String("os", ua.OS),
					slog.String("device", ua.Device),
				),
			)
		})
	}
}
