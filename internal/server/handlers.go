package server

import (
	"net/http"
	"time"

	"ory-session-page/internal/handlers"
	"ory-session-page/internal/middlewares"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// setupRouter builds the public router. identityProxy is mounted under the configured proxy
// path when it is non-nil.
func setupRouter(ctx *middlewares.AppContext, identityProxy http.Handler) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middlewares.ClientIPMiddleware)
	r.Use(middlewares.RequestLogger(ctx.Logger))
	r.Use(middleware.Recoverer)
	r.Use(middlewares.MetricsMiddleware)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Use(middlewares.AppContextMiddleware(ctx))

	if identityProxy != nil {
		r.Mount(ctx.Config.Identity.ProxyPath, identityProxy)
	}

	r.Group(func(r chi.Router) {
		r.Use(middleware.Compress(5))

		r.Get("/", ctx.HandlerFunc(handlers.GETIndexHandler))

		r.Route("/api", func(r chi.Router) {
			r.Use(cors.Handler(cors.Options{
				AllowedOrigins:   ctx.Config.CORS.AllowedOrigins,
				AllowedMethods:   ctx.Config.CORS.AllowedMethods,
				AllowedHeaders:   ctx.Config.CORS.AllowedHeaders,
				ExposedHeaders:   ctx.Config.CORS.ExposedHeaders,
				AllowCredentials: ctx.Config.CORS.AllowCredentials,
				MaxAge:           ctx.Config.CORS.MaxAgeSeconds,
			}))

			r.Get("/session", ctx.HandlerFunc(handlers.GETSessionHandler))

			r.Route("/v1", func(r chi.Router) {
				r.Get("/health", ctx.HandlerFunc(handlers.HandlerHealth))
			})
		})
	})

	return r
}

func setupDebugRouter() *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Mount("/debug", middleware.Profiler())

	r.Get("/metrics", promhttp.Handler().ServeHTTP)

	return r
}
