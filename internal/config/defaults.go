package config

import (
	"os"
	"path/filepath"
	"slices"
	"strings"

	"git.home.luguber.info/inful/markview/internal/foundation/errors"
	"git.home.luguber.info/inful/markview/internal/markdown"
)

// ApplyDefaults fills unset keys and resolves relative paths against baseDir.
// An empty baseDir means the working directory.
func ApplyDefaults(cfg *Config, baseDir string) error {
	if baseDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return errors.WrapError(err, errors.CategoryConfig, "cannot determine working directory").Fatal().Build()
		}
		baseDir = wd
	}
	abs := func(p string) string {
		if p == "" || filepath.IsAbs(p) {
			return p
		}
		return filepath.Join(baseDir, p)
	}

	s := &cfg.Server
	if s.Port == 0 {
		s.Port = DefaultPort
	}
	if s.Title == "" {
		s.Title = DefaultTitle
	}
	if s.ReadTimeout == 0 {
		s.ReadTimeout = DefaultReadTimeout
	}
	if s.WriteTimeout == 0 {
		s.WriteTimeout = DefaultWriteTimeout
	}
	if s.IdleTimeout == 0 {
		s.IdleTimeout = DefaultIdleTimeout
	}
	if s.ShutdownTimeout == 0 {
		s.ShutdownTimeout = DefaultShutdownTimeout
	}

	if strings.TrimSpace(cfg.CSSMount) == "" {
		cfg.CSSMount = DefaultCSSMount
	}
	cfg.CSSMount = "/" + strings.Trim(cfg.CSSMount, "/")
	if cfg.CSS != nil {
		for i := range cfg.CSS.Entries {
			cfg.CSS.Entries[i].Path = abs(cfg.CSS.Entries[i].Path)
		}
	}
	cfg.Template = abs(cfg.Template)

	if cfg.Markdown.HighlightStyle == "" {
		cfg.Markdown.HighlightStyle = markdown.DefaultHighlightStyle
	}
	if cfg.Markdown.Extensions == nil {
		cfg.Markdown.Extensions = slices.Clone(markdown.DefaultExtensions)
	}

	if cfg.Files == nil {
		cfg.Files = &FilesConfig{Routes: []FileRoute{{Path: "/", Root: baseDir}}}
	}
	for i := range cfg.Files.Routes {
		r := &cfg.Files.Routes[i]
		r.File = abs(r.File)
		r.Root = abs(r.Root)
	}

	m := &cfg.Monitoring
	if m.Metrics.Path == "" {
		m.Metrics.Path = DefaultMetricsPath
	}
	if m.Health.Path == "" {
		m.Health.Path = DefaultHealthPath
	}
	if m.Logging.Level == "" {
		m.Logging.Level = LogLevelInfo
	}
	m.Logging.Level = LogLevel(strings.ToLower(string(m.Logging.Level)))
	if m.Logging.Format == "" {
		m.Logging.Format = LogFormatText
	}
	m.Logging.Format = LogFormat(strings.ToLower(string(m.Logging.Format)))
	return nil
}
