package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/markview/internal/foundation/errors"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "markview.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadFullConfig(t *testing.T) {
	dir := t.TempDir()
	docs := filepath.Join(dir, "docs")
	require.NoError(t, os.Mkdir(docs, 0o750))
	for _, name := range []string{"b.css", "a.css"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o600))
	}
	t.Setenv("MV_DOCS", docs)

	content := strings.Join([]string{
		"server:",
		"  host: 127.0.0.1",
		"  port: 9000",
		"  title: Handbook",
		"  read_timeout: 5s",
		"css:",
		"  b.css: " + filepath.Join(dir, "b.css"),
		"  a.css: " + filepath.Join(dir, "a.css"),
		"  _order: [a.css, b.css]",
		"css_mount: /assets/",
		"markdown:",
		"  highlight_style: monokai",
		"  extensions: [table]",
		"files:",
		"  /readme: " + filepath.Join(docs, "README.md"),
		"  /docs:",
		"    root: ${MV_DOCS}",
		"    filter: '\\.txt$'",
		"monitoring:",
		"  metrics:",
		"    enabled: true",
		"  logging:",
		"    level: DEBUG",
		"    format: json",
	}, "\n")

	cfg, err := Load(writeConfig(t, content))
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1", cfg.Server.Host)
	assert.Equal(t, 9000, cfg.Server.Port)
	assert.Equal(t, "Handbook", cfg.Server.Title)
	assert.Equal(t, 5*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, DefaultWriteTimeout, cfg.Server.WriteTimeout)

	require.NotNil(t, cfg.CSS)
	require.Len(t, cfg.CSS.Entries, 2)
	assert.Equal(t, "b.css", cfg.CSS.Entries[0].Name, "mapping order is preserved")
	assert.Equal(t, []string{"a.css", "b.css"}, cfg.CSS.Order)
	assert.Equal(t, "/assets", cfg.CSSMount)

	require.Len(t, cfg.Files.Routes, 2)
	assert.Equal(t, "/readme", cfg.Files.Routes[0].Path)
	assert.False(t, cfg.Files.Routes[0].IsRoot())
	assert.True(t, cfg.Files.Routes[1].IsRoot())
	assert.Equal(t, docs, cfg.Files.Routes[1].Root)
	assert.Equal(t, `\.txt$`, cfg.Files.Routes[1].Filter)

	assert.True(t, cfg.Monitoring.Metrics.Enabled)
	assert.Equal(t, DefaultMetricsPath, cfg.Monitoring.Metrics.Path)
	assert.Equal(t, LogLevelDebug, cfg.Monitoring.Logging.Level)
	assert.Equal(t, LogFormatJSON, cfg.Monitoring.Logging.Format)
}

func TestCSSOrderUnsetIsNil(t *testing.T) {
	cfg, err := Parse([]byte("css:\n  a.css: /a.css\n  b.css: /b.css\n"))
	require.NoError(t, err)
	require.NotNil(t, cfg.CSS)
	assert.Nil(t, cfg.CSS.Order)

	cfg, err = Parse([]byte("css:\n  a.css: /a.css\n  _order: []\n"))
	require.NoError(t, err)
	assert.NotNil(t, cfg.CSS.Order)
	assert.Empty(t, cfg.CSS.Order)
}

func TestDefault(t *testing.T) {
	cfg, err := Default()
	require.NoError(t, err)

	wd, err := os.Getwd()
	require.NoError(t, err)

	assert.Equal(t, DefaultPort, cfg.Server.Port)
	assert.Equal(t, DefaultTitle, cfg.Server.Title)
	assert.Nil(t, cfg.CSS)
	assert.Equal(t, DefaultCSSMount, cfg.CSSMount)
	assert.Equal(t, "github", cfg.Markdown.HighlightStyle)
	require.Len(t, cfg.Files.Routes, 1)
	assert.Equal(t, FileRoute{Path: "/", Root: wd}, cfg.Files.Routes[0])
	assert.Equal(t, DefaultHealthPath, cfg.Monitoring.Health.Path)
	assert.NoError(t, Validate(cfg))
}

func TestApplyDefaultsResolvesRelativePaths(t *testing.T) {
	base := t.TempDir()
	cfg := &Config{
		CSS:      &CSSConfig{Entries: []CSSEntry{{Name: "s.css", Path: "styles/s.css"}}},
		Template: "page.html",
		Files: &FilesConfig{Routes: []FileRoute{
			{Path: "/a", File: "a.md"},
			{Path: "/docs", Root: "docs"},
			{Path: "/abs", Root: "/srv/docs"},
		}},
	}
	require.NoError(t, ApplyDefaults(cfg, base))

	assert.Equal(t, filepath.Join(base, "styles/s.css"), cfg.CSS.Entries[0].Path)
	assert.Equal(t, filepath.Join(base, "page.html"), cfg.Template)
	assert.Equal(t, filepath.Join(base, "a.md"), cfg.Files.Routes[0].File)
	assert.Equal(t, filepath.Join(base, "docs"), cfg.Files.Routes[1].Root)
	assert.Equal(t, "/srv/docs", cfg.Files.Routes[2].Root)
}

func TestParseErrors(t *testing.T) {
	tests := map[string]string{
		"unknown key":        "servr:\n  port: 1\n",
		"css not a mapping":  "css: [a, b]\n",
		"css nested value":   "css:\n  a.css: {path: x}\n",
		"files list":         "files: [a]\n",
		"root without root":  "files:\n  /d: {filter: x}\n",
		"root unknown key":   "files:\n  /d: {root: /tmp, glob: x}\n",
		"duplicate file key": "files:\n  /a: /a.md\n  /a: /b.md\n",
		"bad duration":       "server:\n  read_timeout: soon\n",
	}
	for name, content := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Parse([]byte(content))
			require.Error(t, err)
			assert.True(t, errors.HasCategory(err, errors.CategoryConfig))
		})
	}
}

func TestParseEmptyDocument(t *testing.T) {
	cfg, err := Parse(nil)
	require.NoError(t, err)
	assert.Nil(t, cfg.Files)
}

func TestValidate(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "a.css")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0o600))

	tests := []struct {
		name   string
		mutate func(*Config)
		field  string
	}{
		{"port too high", func(c *Config) { c.Server.Port = 70000 }, "server"},
		{"negative timeout", func(c *Config) { c.Server.IdleTimeout = -time.Second }, "server"},
		{"mount is root", func(c *Config) { c.CSSMount = "/" }, "css_mount"},
		{"css missing file", func(c *Config) {
			c.CSS = &CSSConfig{Entries: []CSSEntry{{Name: "x.css", Path: filepath.Join(dir, "x.css")}}}
		}, "css"},
		{"css empty", func(c *Config) { c.CSS = &CSSConfig{} }, "css"},
		{"template missing", func(c *Config) { c.Template = filepath.Join(dir, "page.html") }, "template"},
		{"unknown style", func(c *Config) { c.Markdown.HighlightStyle = "sparkly" }, "markdown"},
		{"unknown extension", func(c *Config) { c.Markdown.Extensions = []string{"mermaid"} }, "markdown"},
		{"no routes", func(c *Config) { c.Files = &FilesConfig{} }, "files"},
		{"missing root", func(c *Config) { c.Files.Routes[0].Root = filepath.Join(dir, "nope") }, "files"},
		{"root is file", func(c *Config) { c.Files.Routes[0].Root = file }, "files"},
		{"bad filter", func(c *Config) { c.Files.Routes[0].Filter = "(" }, "files"},
		{"relative file", func(c *Config) { c.Files.Routes = []FileRoute{{Path: "/a", File: "a.md"}} }, "files"},
		{"file with filter", func(c *Config) {
			c.Files.Routes = []FileRoute{{Path: "/a", File: file, Filter: "x"}}
		}, "files"},
		{"bad log level", func(c *Config) { c.Monitoring.Logging.Level = "loud" }, "monitoring"},
		{"bad log format", func(c *Config) { c.Monitoring.Logging.Format = "xml" }, "monitoring"},
		{"metrics equals health", func(c *Config) {
			c.Monitoring.Metrics.Enabled = true
			c.Monitoring.Metrics.Path = c.Monitoring.Health.Path
		}, "monitoring"},
		{"health under css mount", func(c *Config) { c.Monitoring.Health.Path = "/_css/health" }, "monitoring"},
		{"health path wildcard", func(c *Config) { c.Monitoring.Health.Path = "/health/{x" }, "monitoring"},
		{"metrics path with space", func(c *Config) {
			c.Monitoring.Metrics.Enabled = true
			c.Monitoring.Metrics.Path = "/metrics /x"
		}, "monitoring"},
		{"mount with braces", func(c *Config) { c.CSSMount = "/{css}" }, "css_mount"},
		{"metrics under css mount", func(c *Config) {
			c.Monitoring.Metrics.Enabled = true
			c.CSSMount = "/metrics"
		}, "monitoring"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{Files: &FilesConfig{Routes: []FileRoute{{Path: "/", Root: dir}}}}
			require.NoError(t, ApplyDefaults(cfg, dir))
			tt.mutate(cfg)

			err := Validate(cfg)
			require.Error(t, err)
			c, ok := errors.AsClassified(err)
			require.True(t, ok)
			assert.Equal(t, errors.CategoryValidation, c.Category())
			field, _ := c.Context().GetString("field")
			assert.Equal(t, tt.field, field)
		})
	}
}

func TestValidateIgnoresDisabledMetricsPath(t *testing.T) {
	dir := t.TempDir()
	cfg := &Config{CSSMount: "/metrics", Files: &FilesConfig{Routes: []FileRoute{{Path: "/", Root: dir}}}}
	require.NoError(t, ApplyDefaults(cfg, dir))
	require.False(t, cfg.Monitoring.Metrics.Enabled)

	assert.NoError(t, Validate(cfg))
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.True(t, errors.HasCategory(err, errors.CategoryConfig))
}

func TestWriteExample(t *testing.T) {
	path := filepath.Join(t.TempDir(), "markview.yaml")
	require.NoError(t, WriteExample(path, false))

	err := WriteExample(path, false)
	require.Error(t, err)
	assert.True(t, errors.HasCategory(err, errors.CategoryConfig))
	require.NoError(t, WriteExample(path, true))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultPort, cfg.Server.Port)
	require.Len(t, cfg.Files.Routes, 1)
	assert.True(t, cfg.Files.Routes[0].IsRoot())
}
