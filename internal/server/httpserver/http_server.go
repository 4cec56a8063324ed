// Package httpserver runs the Markview HTTP transport: listener, mux,
// middleware, timeouts and graceful shutdown.
package httpserver

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"sync"

	"golang.org/x/sync/errgroup"

	"git.home.luguber.info/inful/markview/internal/config"
	derrors "git.home.luguber.info/inful/markview/internal/foundation/errors"
	"git.home.luguber.info/inful/markview/internal/logfields"
	handlers "git.home.luguber.info/inful/markview/internal/server/handlers"
	smw "git.home.luguber.info/inful/markview/internal/server/middleware"
	"git.home.luguber.info/inful/markview/internal/site"
)

// Options configures a Server.
type Options struct {
	Logger *slog.Logger
}

// Server serves one assembled site.
type Server struct {
	cfg    *config.Config
	site   *site.Site
	logger *slog.Logger

	monitoringHandlers *handlers.MonitoringHandlers
	// middleware chain
	mchain func(http.Handler) http.Handler

	mu  sync.Mutex
	srv *http.Server
	ln  net.Listener
}

// New constructs a new HTTP server wiring instance.
func New(cfg *config.Config, st *site.Site, opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		cfg:                cfg,
		site:               st,
		logger:             logger,
		monitoringHandlers: handlers.NewMonitoringHandlers(st, logger),
		mchain:             smw.Chain(logger, derrors.NewHTTPErrorAdapter(logger)),
	}
}

// Handler returns the complete request handler: pages, stylesheets, health
// and, when enabled, metrics, wrapped in the middleware chain.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc(s.cfg.Monitoring.Health.Path, s.monitoringHandlers.HandleHealthCheck)
	if s.site.Metrics != nil {
		mux.Handle(s.cfg.Monitoring.Metrics.Path, s.site.Metrics)
	}
	s.site.Mount(mux)
	return s.mchain(mux)
}

// ListenAddr returns the configured host:port.
func (s *Server) ListenAddr() string {
	return net.JoinHostPort(s.cfg.Server.Host, strconv.Itoa(s.cfg.Server.Port))
}

// listen binds the listener and prepares the http.Server. Binding happens
// before serving so address errors surface synchronously.
func (s *Server) listen(ctx context.Context) (net.Listener, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.srv != nil {
		return nil, derrors.RuntimeError("server already started").Build()
	}

	addr := s.ListenAddr()
	lc := net.ListenConfig{}
	ln, err := lc.Listen(ctx, "tcp", addr)
	if err != nil {
		return nil, derrors.RuntimeError("failed to bind listener").
			WithCause(err).
			WithContext(logfields.KeyAddr, addr).
			Build()
	}
	s.ln = ln
	s.srv = &http.Server{
		Handler:      s.Handler(),
		ReadTimeout:  s.cfg.Server.ReadTimeout,
		WriteTimeout: s.cfg.Server.WriteTimeout,
		IdleTimeout:  s.cfg.Server.IdleTimeout,
	}
	s.logger.Info("App listening", slog.String("url", s.URL()), logfields.Addr(ln.Addr().String()))
	return ln, nil
}

func (s *Server) serve(ln net.Listener) error {
	if err := s.srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return derrors.RuntimeError("HTTP server failed").WithCause(err).Build()
	}
	return nil
}

// Start binds the listener and serves in the background.
func (s *Server) Start(ctx context.Context) error {
	ln, err := s.listen(ctx)
	if err != nil {
		return err
	}
	go func() {
		if err := s.serve(ln); err != nil {
			s.logger.Error("HTTP server error", logfields.Error(err))
		}
	}()
	return nil
}

// Stop gracefully shuts the server down, waiting for in-flight requests
// until ctx expires.
func (s *Server) Stop(ctx context.Context) error {
	s.mu.Lock()
	srv := s.srv
	s.mu.Unlock()
	if srv == nil {
		return nil
	}
	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("http server shutdown: %w", err)
	}
	s.logger.Info("HTTP server stopped")
	return nil
}

// Run serves until ctx is cancelled, then shuts down within
// server.shutdown_timeout. It returns the first serve or shutdown error.
func (s *Server) Run(ctx context.Context) error {
	ln, err := s.listen(ctx)
	if err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return s.serve(ln) })
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.cfg.Server.ShutdownTimeout)
		defer cancel()
		return s.Stop(shutdownCtx)
	})
	return g.Wait()
}

// Addr returns the bound address, or nil before the server has started.
func (s *Server) Addr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ln == nil {
		return nil
	}
	return s.ln.Addr()
}

// URL returns the browsable address of the first route. Wildcard hosts are
// shown as localhost.
func (s *Server) URL() string {
	host := s.cfg.Server.Host
	if host == "" || host == "::" || host == "0.0.0.0" {
		host = "localhost"
	}
	port := strconv.Itoa(s.cfg.Server.Port)
	if s.ln != nil {
		if tcp, ok := s.ln.Addr().(*net.TCPAddr); ok {
			port = strconv.Itoa(tcp.Port)
		}
	}
	return "http://" + net.JoinHostPort(host, port) + s.site.EntryURL()
}
