// Package pages serves rendered Markdown pages.
//
// Server is the page endpoint. For each request it resolves the path, reads the
// source file, renders it and executes the page template. Every request that a
// rule owns ends with exactly one response; everything else is handed to Next.
package pages

import (
	"bytes"
	"html/template"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"path"
	"strconv"
	"time"

	"git.home.luguber.info/inful/markview/internal/css"
	ferrors "git.home.luguber.info/inful/markview/internal/foundation/errors"
	"git.home.luguber.info/inful/markview/internal/logfields"
	"git.home.luguber.info/inful/markview/internal/markdown"
	"git.home.luguber.info/inful/markview/internal/metrics"
	"git.home.luguber.info/inful/markview/internal/observability"
	"git.home.luguber.info/inful/markview/internal/routes"
)

// DefaultTitle is the page title used when none is configured.
const DefaultTitle = "Markview"

// Options configures a Server. Only Renderer is required.
type Options struct {
	Renderer    markdown.Renderer
	Template    Template
	Stylesheets *css.Registry
	CSSMount    string
	Title       string
	// Next receives requests no rule owns. Defaults to http.NotFoundHandler.
	Next     http.Handler
	Recorder metrics.Recorder
	Logger   *slog.Logger
	// ReadFile reads source files. Defaults to os.ReadFile.
	ReadFile func(name string) ([]byte, error)
}

// Server is the Markdown page handler.
type Server struct {
	resolver *routes.Resolver
	renderer markdown.Renderer
	tmpl     Template
	next     http.Handler
	recorder metrics.Recorder
	logger   *slog.Logger
	errors   *ferrors.HTTPErrorAdapter
	readFile func(string) ([]byte, error)

	title    string
	cssMount string
	css      []Stylesheet
	cssOrder []string
}

// NewServer returns a page server for resolver.
func NewServer(resolver *routes.Resolver, opts Options) (*Server, error) {
	if resolver == nil {
		return nil, ferrors.InternalError("page server requires a route resolver").Build()
	}
	if opts.Renderer == nil {
		return nil, ferrors.InternalError("page server requires a markdown renderer").Build()
	}
	if opts.Template == nil {
		opts.Template = DefaultTemplate()
	}
	if opts.Next == nil {
		opts.Next = http.NotFoundHandler()
	}
	if opts.Recorder == nil {
		opts.Recorder = metrics.NoopRecorder{}
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.ReadFile == nil {
		opts.ReadFile = os.ReadFile
	}
	if opts.Title == "" {
		opts.Title = DefaultTitle
	}

	s := &Server{
		resolver: resolver,
		renderer: opts.Renderer,
		tmpl:     opts.Template,
		next:     opts.Next,
		recorder: opts.Recorder,
		logger:   opts.Logger,
		errors:   ferrors.NewHTTPErrorAdapter(opts.Logger),
		readFile: opts.ReadFile,
		title:    opts.Title,
		cssMount: opts.CSSMount,
	}
	if opts.Stylesheets != nil {
		for _, e := range opts.Stylesheets.Ordered() {
			s.css = append(s.css, Stylesheet{Name: e.Name, Href: stylesheetHref(opts.CSSMount, e.Name)})
		}
		s.cssOrder = opts.Stylesheets.Names()
	}
	return s, nil
}

func stylesheetHref(mount, name string) string {
	return path.Join("/", mount, url.PathEscape(name))
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	res := s.resolver.Resolve(r.Method, r.URL.Path)
	if res.Outcome == routes.PassThrough {
		s.next.ServeHTTP(w, r)
		return
	}

	route := routes.URLPath(res.Key)
	ctx := observability.WithRoute(r.Context(), route)
	r = r.WithContext(ctx)
	defer func() { s.recorder.ObservePageDuration(route, time.Since(start)) }()

	if res.Outcome == routes.NotFound {
		s.fail(w, r, metrics.ResultNotFound,
			ferrors.NotFoundError("no page for path").WithContext(logfields.KeyPath, r.URL.Path).Build())
		return
	}

	src, err := s.readFile(res.SourceFile)
	if err != nil {
		cerr := Classify(err).WithContext(logfields.KeyFile, res.SourceFile)
		result := metrics.ResultReadError
		if ferrors.HasCategory(cerr, ferrors.CategoryNotFound) {
			result = metrics.ResultNotFound
		}
		s.fail(w, r, result, cerr)
		return
	}
	if ctx.Err() != nil {
		s.abandon(r, route)
		return
	}

	html, err := s.renderer.Render(ctx, src)
	if err != nil {
		if ctx.Err() != nil {
			s.abandon(r, route)
			return
		}
		s.fail(w, r, metrics.ResultRenderError,
			ferrors.RenderError("failed to render markdown").
				WithCause(err).
				WithContext(logfields.KeyFile, res.SourceFile).
				Build())
		return
	}

	data := PageData{
		Title:       s.title,
		RequestPath: r.URL.Path,
		Name:        res.DisplayName,
		CSS:         s.css,
		CSSOrder:    s.cssOrder,
		CSSMount:    s.cssMount,
		Contents:    template.HTML(html), // #nosec G203 -- renderer output is the page body
	}
	var buf bytes.Buffer
	if err := s.tmpl.Execute(&buf, data); err != nil {
		s.fail(w, r, metrics.ResultTemplate,
			ferrors.TemplateError("failed to execute page template").
				WithCause(err).
				WithContext(logfields.KeyFile, res.SourceFile).
				Build())
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	if r.Method != http.MethodHead {
		_, _ = w.Write(buf.Bytes())
	}
	s.recorder.IncPageResult(route, metrics.ResultRendered)
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, result metrics.ResultLabel, err *ferrors.ClassifiedError) {
	lc := observability.GetContext(r.Context())
	err = err.WithContext(logfields.KeyRoute, lc.Route)
	if lc.RequestID != "" {
		err = err.WithContext(logfields.KeyRequestID, lc.RequestID)
	}
	s.errors.WriteStatus(w, r, err)
	s.recorder.IncPageResult(lc.Route, result)
}

// abandon drops a request whose client went away. No response is written.
func (s *Server) abandon(r *http.Request, route string) {
	observability.Logger(r.Context(), s.logger).Debug("Request canceled before render completed",
		logfields.Path(r.URL.Path))
	s.recorder.IncPageResult(route, metrics.ResultCanceled)
}
