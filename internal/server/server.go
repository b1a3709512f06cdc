package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"ory-session-page/internal/config"
	"ory-session-page/internal/identity"
	"ory-session-page/internal/middlewares"
	"ory-session-page/internal/page"
	"ory-session-page/internal/proxy"
	"ory-session-page/internal/version"

	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 30 * time.Second

type Server struct {
	cfg             *config.Config
	logger          *slog.Logger
	appCtx          *middlewares.AppContext
	httpServer      *http.Server
	debugServer     *http.Server
	shutdownTracing func(context.Context) error
	cancel          context.CancelFunc
}

func New(cfg *config.Config) (*Server, error) {
	logger := setupLogger(cfg)

	ctx, cancel := context.WithCancel(context.Background())

	shutdownTracing, err := setupTracing(ctx, cfg.Tracing)
	if err != nil {
		cancel()
		return nil, err
	}

	identityClient, err := identity.NewClient(cfg.Identity)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("failed to create identity client: %w", err)
	}

	renderer, err := page.NewRenderer(cfg.Identity)
	if err != nil {
		cancel()
		return nil, err
	}

	var identityProxy http.Handler
	var loaderOpts []page.LoaderOption
	if cfg.Identity.IsProxyEnabled() {
		p, err := proxy.New(cfg.Identity, logger)
		if err != nil {
			cancel()
			return nil, err
		}
		identityProxy = p
		loaderOpts = append(loaderOpts, page.WithLinkRewriter(p.LocalURL))
	}

	loader := page.NewLoader(identityClient, loaderOpts...)
	appCtx := middlewares.NewAppContext(ctx, cfg, logger, loader, renderer)

	if err := version.Register(prometheus.DefaultRegisterer); err != nil {
		logger.Debug("failed to register build info collector: already registered", "error", err)
	}

	router := setupRouter(appCtx, identityProxy)
	httpServer := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	var debugServer *http.Server
	if cfg.Server.Debug != nil && cfg.Server.Debug.Enabled {
		debugServer = &http.Server{
			Addr:              fmt.Sprintf("%s:%d", cfg.Server.Debug.Host, cfg.Server.Debug.Port),
			Handler:           setupDebugRouter(),
			ReadHeaderTimeout: 10 * time.Second,
		}
	}

	return &Server{
		cfg:             cfg,
		logger:          logger,
		appCtx:          appCtx,
		httpServer:      httpServer,
		debugServer:     debugServer,
		shutdownTracing: shutdownTracing,
		cancel:          cancel,
	}, nil
}

// Start serves until SIGINT/SIGTERM or until one of the listeners fails, then shuts down gracefully.
func (s *Server) Start() error {
	defer s.cancel()

	ctx, stop := signal.NotifyContext(s.appCtx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		s.logger.Info("Server Started", "port", s.cfg.Server.Port, "version", version.GetFullVersion())
		return listen(s.httpServer)
	})

	if s.debugServer != nil {
		g.Go(func() error {
			s.logger.Info("Debug server starting", "address", s.debugServer.Addr)
			return listen(s.debugServer)
		})
	}

	g.Go(func() error {
		<-gctx.Done()
		if ctx.Err() != nil {
			s.logger.Info("Shutdown signal received")
		}
		return s.shutdown()
	})

	if err := g.Wait(); err != nil {
		s.logger.Error("Server stopped with error", "error", err)
		return err
	}

	s.logger.Info("Server Exited")
	return nil
}

func listen(srv *http.Server) error {
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to serve on %s: %w", srv.Addr, err)
	}
	return nil
}

func (s *Server) shutdown() error {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	s.logger.Info("Shutting Down Server")

	var errs []error
	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		s.logger.Error("Server forced to shutdown", "error", err)
		errs = append(errs, err)
	}

	if s.debugServer != nil {
		if err := s.debugServer.Shutdown(shutdownCtx); err != nil {
			s.logger.Error("Debug server forced to shutdown", "error", err)
			errs = append(errs, err)
		}
	}

	if err := s.shutdownTracing(shutdownCtx); err != nil {
		s.logger.Warn("failed to flush traces", "error", err)
	}

	return errors.Join(errs...)
}

// Handler exposes the public router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}
