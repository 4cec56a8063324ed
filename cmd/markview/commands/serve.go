package commands

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"git.home.luguber.info/inful/markview/internal/config"
	"git.home.luguber.info/inful/markview/internal/foundation/errors"
	"git.home.luguber.info/inful/markview/internal/observability"
	"git.home.luguber.info/inful/markview/internal/server/httpserver"
	"git.home.luguber.info/inful/markview/internal/site"
	"git.home.luguber.info/inful/markview/internal/version"
)

// ServeCmd implements the default 'serve' command.
type ServeCmd struct {
	Host    string `help:"Interface to bind (overrides server.host)"`
	Port    int    `short:"p" help:"Port to listen on (overrides server.port)"`
	Root    string `short:"r" help:"Serve this directory at / instead of the configured files"`
	Metrics bool   `help:"Expose Prometheus metrics (overrides monitoring.metrics.enabled)"`
}

func (s *ServeCmd) Run(global *Global, root *CLI) error {
	cfg, err := LoadConfig(root.Config)
	if err != nil {
		return err
	}
	if err := s.apply(cfg); err != nil {
		return err
	}

	level := string(cfg.Monitoring.Logging.Level)
	if root.Verbose {
		level = string(config.LogLevelDebug)
	}
	logger, err := observability.NewLogger(os.Stderr, level, string(cfg.Monitoring.Logging.Format))
	if err != nil {
		return err
	}
	slog.SetDefault(logger)
	global.Logger = logger

	st, err := site.New(cfg, site.Options{Logger: logger})
	if err != nil {
		return err
	}
	logger.Info("Starting markview",
		slog.String("version", version.Version),
		slog.Int("routes", st.RouteCount()),
		slog.Int("stylesheets", st.StylesheetCount()))

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	srv := httpserver.New(cfg, st, httpserver.Options{Logger: logger})
	if err := srv.Run(ctx); err != nil {
		return err
	}
	logger.Info("Server stopped")
	return nil
}

// apply layers the command line flags over the loaded configuration and
// re-validates the result.
func (s *ServeCmd) apply(cfg *config.Config) error {
	if s.Host != "" {
		cfg.Server.Host = s.Host
	}
	if s.Port != 0 {
		cfg.Server.Port = s.Port
	}
	if s.Metrics {
		cfg.Monitoring.Metrics.Enabled = true
	}
	if s.Root != "" {
		dir, err := filepath.Abs(s.Root)
		if err != nil {
			return errors.WrapError(err, errors.CategoryValidation, "invalid --root").
				Fatal().
				WithContext("path", s.Root).
				Build()
		}
		cfg.Files = &config.FilesConfig{Routes: []config.FileRoute{{Path: "/", Root: dir}}}
	}
	if err := config.ApplyDefaults(cfg, ""); err != nil {
		return err
	}
	return config.Validate(cfg)
}
