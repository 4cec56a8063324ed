// Package site assembles the Markview request handlers from a resolved
// configuration. Everything it builds is immutable once New returns.
package site

import (
	"log/slog"
	"net/http"

	prom "github.com/prometheus/client_golang/prometheus"

	"git.home.luguber.info/inful/markview/internal/config"
	"git.home.luguber.info/inful/markview/internal/css"
	"git.home.luguber.info/inful/markview/internal/markdown"
	"git.home.luguber.info/inful/markview/internal/metrics"
	"git.home.luguber.info/inful/markview/internal/pages"
	"git.home.luguber.info/inful/markview/internal/routes"
)

// Options overrides parts of the assembly. All fields are optional.
type Options struct {
	// Renderer replaces the default goldmark renderer.
	Renderer markdown.Renderer
	// Template replaces both the built-in page shell and config.Template.
	Template pages.Template
	// Registry receives the Prometheus collectors when metrics are enabled.
	Registry *prom.Registry
	// Next handles requests no route owns.
	Next   http.Handler
	Logger *slog.Logger
}

// Site is the assembled set of components serving one configuration.
type Site struct {
	Config      *config.Config
	Stylesheets *css.Registry
	Resolver    *routes.Resolver
	Renderer    markdown.Renderer
	Pages       *pages.Server
	CSS         *css.Handler
	Recorder    metrics.Recorder
	// Metrics serves the Prometheus registry; nil when metrics are disabled.
	Metrics http.Handler
}

// New builds a Site from a defaulted and validated configuration.
func New(cfg *config.Config, opts Options) (*Site, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	renderer := opts.Renderer
	if renderer == nil {
		g, err := markdown.NewGoldmark(markdownOptions(cfg.Markdown))
		if err != nil {
			return nil, err
		}
		renderer = g
	}

	stylesheets, err := buildStylesheets(cfg, logger)
	if err != nil {
		return nil, err
	}

	resolver, err := buildResolver(cfg.Files)
	if err != nil {
		return nil, err
	}

	tmpl := opts.Template
	if tmpl == nil && cfg.Template != "" {
		if tmpl, err = pages.ParseTemplateFile(cfg.Template); err != nil {
			return nil, err
		}
	}

	var recorder metrics.Recorder = metrics.NoopRecorder{}
	var metricsHandler http.Handler
	if cfg.Monitoring.Metrics.Enabled {
		reg := opts.Registry
		if reg == nil {
			reg = prom.NewRegistry()
		}
		recorder = metrics.NewPrometheusRecorder(reg)
		metricsHandler = metrics.HTTPHandler(reg)
	}

	pageServer, err := pages.NewServer(resolver, pages.Options{
		Renderer:    renderer,
		Template:    tmpl,
		Stylesheets: stylesheets,
		CSSMount:    cfg.CSSMount,
		Title:       cfg.Server.Title,
		Next:        opts.Next,
		Recorder:    recorder,
		Logger:      logger,
	})
	if err != nil {
		return nil, err
	}

	return &Site{
		Config:      cfg,
		Stylesheets: stylesheets,
		Resolver:    resolver,
		Renderer:    renderer,
		Pages:       pageServer,
		CSS:         css.NewHandler(stylesheets, recorder, logger),
		Recorder:    recorder,
		Metrics:     metricsHandler,
	}, nil
}

func markdownOptions(m config.MarkdownConfig) markdown.Options {
	return markdown.Options{
		HighlightStyle: m.HighlightStyle,
		Extensions:     m.Extensions,
		HardWraps:      m.HardWraps,
		UnsafeHTML:     m.UnsafeHTML,
	}
}

func buildStylesheets(cfg *config.Config, logger *slog.Logger) (*css.Registry, error) {
	if cfg.CSS == nil {
		highlight, err := markdown.HighlightCSS(cfg.Markdown.HighlightStyle)
		if err != nil {
			return nil, err
		}
		entries, order := css.Bundled(highlight)
		return css.New(entries, order, logger)
	}
	entries := make([]css.Entry, 0, len(cfg.CSS.Entries))
	for _, e := range cfg.CSS.Entries {
		entries = append(entries, css.FileEntry(e.Name, e.Path))
	}
	return css.New(entries, cfg.CSS.Order, logger)
}

func buildResolver(files *config.FilesConfig) (*routes.Resolver, error) {
	if files == nil {
		return routes.NewResolver()
	}
	rules := make([]routes.Rule, 0, len(files.Routes))
	for _, r := range files.Routes {
		rule, err := buildRule(r)
		if err != nil {
			return nil, err
		}
		rules = append(rules, rule)
	}
	return routes.NewResolver(rules...)
}

func buildRule(r config.FileRoute) (routes.Rule, error) {
	if !r.IsRoot() {
		return routes.NewExactFileRule(r.Path, r.File)
	}
	var filter routes.Filter
	switch {
	case r.Match != nil:
		filter = r.Match
	case r.Filter != "":
		f, err := routes.PatternFilter(r.Filter)
		if err != nil {
			return nil, err
		}
		filter = f
	}
	return routes.NewRootRule(r.Path, r.Root, filter)
}

// EntryURL returns the URL of the first configured route, used in the
// startup log line.
func (s *Site) EntryURL() string {
	rules := s.Resolver.Rules()
	if len(rules) == 0 {
		return "/"
	}
	u := routes.URLPath(rules[0].Key())
	if u != "/" {
		u += "/"
	}
	return u
}

// Mount registers the stylesheet endpoint and the page server on mux. The
// page server takes "/" and hands unowned requests to Options.Next.
func (s *Site) Mount(mux *http.ServeMux) {
	mount := s.Config.CSSMount
	mux.Handle(mount+"/", http.StripPrefix(mount, s.CSS))
	mux.Handle("/", s.Pages)
}
