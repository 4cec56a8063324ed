package site

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"

	"git.home.luguber.info/inful/markview/internal/config"
	"git.home.luguber.info/inful/markview/internal/css"
	"git.home.luguber.info/inful/markview/internal/foundation/errors"
	"git.home.luguber.info/inful/markview/internal/markdown"
)

func newConfig(t *testing.T, mutate func(cfg *config.Config, dir string)) (*config.Config, string) {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "readme.md"), []byte("# Hi\n\nSome *text*.\n"), 0o600))

	cfg := &config.Config{Files: &config.FilesConfig{Routes: []config.FileRoute{{Path: "/", Root: dir}}}}
	if mutate != nil {
		mutate(cfg, dir)
	}
	require.NoError(t, config.ApplyDefaults(cfg, dir))
	require.NoError(t, config.Validate(cfg))
	return cfg, dir
}

func serve(t *testing.T, s *Site, method, target string) *httptest.ResponseRecorder {
	t.Helper()
	mux := http.NewServeMux()
	s.Mount(mux)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(method, target, nil))
	return rec
}

// pageOutline returns the text of the first h1 and the hrefs of all stylesheet links.
func pageOutline(t *testing.T, body string) (string, []string) {
	t.Helper()
	doc, err := html.Parse(strings.NewReader(body))
	require.NoError(t, err)

	var h1 string
	var links []string
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "h1":
				if h1 == "" && n.FirstChild != nil {
					h1 = n.FirstChild.Data
				}
			case "link":
				var rel, href string
				for _, a := range n.Attr {
					switch a.Key {
					case "rel":
						rel = a.Val
					case "href":
						href = a.Val
					}
				}
				if rel == "stylesheet" {
					links = append(links, href)
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return h1, links
}

func TestEndToEndBundledStylesheets(t *testing.T) {
	cfg, _ := newConfig(t, nil)
	s, err := New(cfg, Options{Logger: slog.New(slog.DiscardHandler)})
	require.NoError(t, err)

	rec := serve(t, s, http.MethodGet, "/readme.md")
	require.Equal(t, http.StatusOK, rec.Code)

	h1, links := pageOutline(t, rec.Body.String())
	assert.Equal(t, "Hi", h1)
	assert.Equal(t, []string{"/_css/markdown.css", "/_css/highlight.css", "/_css/overrides.css"}, links)

	for _, href := range links {
		css := serve(t, s, http.MethodGet, href)
		assert.Equal(t, http.StatusOK, css.Code, href)
		assert.NotEmpty(t, css.Body.String(), href)
	}
}

func TestEndToEndConfiguredOrder(t *testing.T) {
	cfg, _ := newConfig(t, func(cfg *config.Config, dir string) {
		for _, name := range []string{"a.css", "b.css"} {
			require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("/* "+name+" */"), 0o600))
		}
		cfg.CSS = &config.CSSConfig{
			Entries: []config.CSSEntry{{Name: "a.css", Path: "a.css"}, {Name: "b.css", Path: "b.css"}},
			Order:   []string{"b.css", "a.css"},
		}
		cfg.CSSMount = "/static/css"
	})
	s, err := New(cfg, Options{})
	require.NoError(t, err)

	rec := serve(t, s, http.MethodGet, "/readme.md")
	require.Equal(t, http.StatusOK, rec.Code)
	_, links := pageOutline(t, rec.Body.String())
	assert.Equal(t, []string{"/static/css/b.css", "/static/css/a.css"}, links)

	css := serve(t, s, http.MethodGet, "/static/css/a.css")
	assert.Equal(t, http.StatusOK, css.Code)
	assert.Equal(t, "/* a.css */", css.Body.String())
	assert.Equal(t, http.StatusNotFound, serve(t, s, http.MethodGet, "/static/css/c.css").Code)
}

func TestInsertionOrderWarnsOnceAtStartup(t *testing.T) {
	cfg, _ := newConfig(t, func(cfg *config.Config, dir string) {
		require.NoError(t, os.WriteFile(filepath.Join(dir, "a.css"), nil, 0o600))
		cfg.CSS = &config.CSSConfig{Entries: []config.CSSEntry{{Name: "a.css", Path: "a.css"}}}
	})
	var logs bytes.Buffer
	s, err := New(cfg, Options{Logger: slog.New(slog.NewTextHandler(&logs, nil))})
	require.NoError(t, err)

	for range 3 {
		assert.Equal(t, http.StatusOK, serve(t, s, http.MethodGet, "/readme.md").Code)
	}
	assert.Equal(t, 1, strings.Count(logs.String(), css.OrderWarning))
}

func TestEndToEndMisses(t *testing.T) {
	cfg, _ := newConfig(t, nil)
	s, err := New(cfg, Options{})
	require.NoError(t, err)

	assert.Equal(t, http.StatusNotFound, serve(t, s, http.MethodGet, "/missing.md").Code)
	assert.Equal(t, http.StatusNotFound, serve(t, s, http.MethodGet, "/readme.txt").Code)
	assert.Equal(t, http.StatusNotFound, serve(t, s, http.MethodPost, "/readme.md").Code)
}

func TestCustomRendererAndExactFile(t *testing.T) {
	cfg, dir := newConfig(t, func(cfg *config.Config, dir string) {
		cfg.Files = &config.FilesConfig{Routes: []config.FileRoute{
			{Path: "/intro", File: filepath.Join(dir, "readme.md")},
			{Path: "/notes", Root: dir, Match: func(rel string) bool { return strings.HasPrefix(rel, "read") }},
		}}
	})
	s, err := New(cfg, Options{Renderer: markdown.RenderFunc(func(_ context.Context, src []byte) (string, error) {
		return "<pre>" + string(bytes.ToUpper(src[:4])) + "</pre>", nil
	})})
	require.NoError(t, err)

	rec := serve(t, s, http.MethodGet, "/intro")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "<pre># HI</pre>")
	assert.Contains(t, rec.Body.String(), "<title>intro · Markview</title>")

	assert.Equal(t, http.StatusOK, serve(t, s, http.MethodGet, "/notes/readme.md").Code)
	assert.Equal(t, "/intro/", s.EntryURL())

	infos := s.Routes()
	require.Len(t, infos, 2)
	assert.Equal(t, RouteInfo{Path: "/intro", Kind: "file", Target: filepath.Join(dir, "readme.md")}, infos[0])
	assert.Equal(t, "root", infos[1].Kind)
}

func TestMetricsEnabled(t *testing.T) {
	cfg, _ := newConfig(t, func(cfg *config.Config, _ string) { cfg.Monitoring.Metrics.Enabled = true })
	reg := prom.NewRegistry()
	s, err := New(cfg, Options{Registry: reg})
	require.NoError(t, err)
	require.NotNil(t, s.Metrics)

	serve(t, s, http.MethodGet, "/readme.md")
	mfs, err := reg.Gather()
	require.NoError(t, err)
	assert.NotEmpty(t, mfs)
}

func TestNewRejectsBadAssembly(t *testing.T) {
	cfg, dir := newConfig(t, nil)
	cfg.Files = &config.FilesConfig{Routes: []config.FileRoute{
		{Path: "/docs", Root: dir},
		{Path: "docs/", Root: dir},
	}}
	_, err := New(cfg, Options{})
	require.Error(t, err)
	assert.True(t, errors.HasCategory(err, errors.CategoryConfig))

	cfg, _ = newConfig(t, nil)
	cfg.CSS = &config.CSSConfig{Entries: []config.CSSEntry{{Name: "a.css", Path: "/a.css"}}, Order: []string{"b.css"}}
	_, err = New(cfg, Options{})
	require.Error(t, err)
	assert.True(t, errors.HasCategory(err, errors.CategoryConfig))
}
