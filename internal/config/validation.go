package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"
	"unicode"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"git.home.luguber.info/inful/markview/internal/foundation/errors"
	"git.home.luguber.info/inful/markview/internal/markdown"
)

func init() {
	// Report field names as they appear in the YAML file.
	validation.ErrorTag = "yaml"
}

// Validate checks a defaulted configuration. The first failing section is
// returned as a validation error naming the offending field.
func Validate(cfg *Config) error {
	checks := []struct {
		field string
		fn    func() error
	}{
		{"server", func() error { return validateServer(&cfg.Server) }},
		{"css_mount", func() error { return validation.Validate(cfg.CSSMount, validation.Required, validation.By(urlPrefix)) }},
		{"css", func() error { return validateCSS(cfg.CSS) }},
		{"template", func() error { return validation.Validate(cfg.Template, validation.By(optionalFile)) }},
		{"markdown", func() error { return validateMarkdown(&cfg.Markdown) }},
		{"files", func() error { return validateFiles(cfg.Files) }},
		{"monitoring", func() error { return validateMonitoring(cfg) }},
	}
	for _, c := range checks {
		if err := c.fn(); err != nil {
			return errors.ValidationError(fmt.Sprintf("invalid %s configuration", c.field)).
				WithCause(err).
				WithContext("field", c.field).
				WithContext("reason", err.Error()).
				Build()
		}
	}
	return nil
}

func validateServer(s *ServerConfig) error {
	return validation.ValidateStruct(s,
		validation.Field(&s.Port, validation.Required, validation.Min(1), validation.Max(65535)),
		validation.Field(&s.Title, validation.Required),
		validation.Field(&s.ReadTimeout, validation.Min(time.Duration(0))),
		validation.Field(&s.WriteTimeout, validation.Min(time.Duration(0))),
		validation.Field(&s.IdleTimeout, validation.Min(time.Duration(0))),
		validation.Field(&s.ShutdownTimeout, validation.Min(time.Duration(0))),
	)
}

func validateCSS(c *CSSConfig) error {
	if c == nil {
		return nil
	}
	if len(c.Entries) == 0 {
		return validation.NewError("css_empty", "must list at least one stylesheet")
	}
	for _, e := range c.Entries {
		if err := validation.Validate(e.Path, validation.Required, validation.By(existingFile)); err != nil {
			return fmt.Errorf("%s: %w", e.Name, err)
		}
	}
	return nil
}

func validateMarkdown(m *MarkdownConfig) error {
	known := make([]any, 0)
	for _, name := range markdown.KnownExtensions() {
		known = append(known, name)
	}
	return validation.ValidateStruct(m,
		validation.Field(&m.HighlightStyle, validation.Required, validation.By(func(v any) error {
			if !markdown.KnownStyle(v.(string)) {
				return validation.NewError("unknown_style", "is not a known highlight style")
			}
			return nil
		})),
		validation.Field(&m.Extensions, validation.Each(validation.In(known...))),
	)
}

func validateFiles(f *FilesConfig) error {
	if f == nil || len(f.Routes) == 0 {
		return validation.NewError("files_empty", "must contain at least one route")
	}
	for _, r := range f.Routes {
		if err := validateRoute(r); err != nil {
			return fmt.Errorf("%s: %w", r.Path, err)
		}
	}
	return nil
}

func validateRoute(r FileRoute) error {
	if r.File != "" {
		if r.Root != "" || r.Filter != "" || r.Match != nil {
			return validation.NewError("route_shape", "an exact file route cannot have root or filter")
		}
		return validation.Validate(r.File, validation.By(absolutePath))
	}
	return validation.ValidateStruct(&r,
		validation.Field(&r.Root, validation.Required, validation.By(existingDir)),
		validation.Field(&r.Filter, validation.By(compiles)),
	)
}

func validateMonitoring(cfg *Config) error {
	m := &cfg.Monitoring
	if err := validation.ValidateStruct(&m.Logging,
		validation.Field(&m.Logging.Level, validation.In(LogLevelDebug, LogLevelInfo, LogLevelWarn, LogLevelError)),
		validation.Field(&m.Logging.Format, validation.In(LogFormatText, LogFormatJSON)),
	); err != nil {
		return fmt.Errorf("logging: %w", err)
	}
	if err := validation.Validate(m.Health.Path, validation.Required, validation.By(urlPrefix)); err != nil {
		return fmt.Errorf("health.path: %w", err)
	}
	if m.Metrics.Enabled {
		if err := validation.Validate(m.Metrics.Path, validation.Required, validation.By(urlPrefix)); err != nil {
			return fmt.Errorf("metrics.path: %w", err)
		}
		if m.Metrics.Path == m.Health.Path {
			return validation.NewError("path_conflict", "metrics.path and health.path must differ")
		}
	}
	paths := []string{m.Health.Path}
	if m.Metrics.Enabled {
		paths = append(paths, m.Metrics.Path)
	}
	for _, p := range paths {
		if p == cfg.CSSMount || strings.HasPrefix(p, cfg.CSSMount+"/") {
			return validation.NewError("path_conflict", fmt.Sprintf("%s overlaps css_mount %s", p, cfg.CSSMount))
		}
	}
	return nil
}

func urlPrefix(v any) error {
	s, _ := v.(string)
	if s == "" {
		return nil
	}
	if !strings.HasPrefix(s, "/") || s == "/" {
		return validation.NewError("url_prefix", "must be an absolute URL path other than /")
	}
	// The value becomes an http.ServeMux pattern, where braces start a
	// wildcard and whitespace separates a method or host.
	if i := strings.IndexFunc(s, func(r rune) bool {
		return r == '{' || r == '}' || unicode.IsSpace(r)
	}); i >= 0 {
		return validation.NewError("url_prefix", fmt.Sprintf("must not contain %q", s[i:i+1]))
	}
	return nil
}

func absolutePath(v any) error {
	s, _ := v.(string)
	if !filepath.IsAbs(s) {
		return validation.NewError("absolute_path", "must be an absolute path")
	}
	return nil
}

func existingFile(v any) error {
	s, _ := v.(string)
	info, err := os.Stat(s)
	if err != nil {
		return validation.NewError("file_missing", fmt.Sprintf("%s does not exist", s))
	}
	if info.IsDir() {
		return validation.NewError("file_is_dir", fmt.Sprintf("%s is a directory", s))
	}
	return nil
}

func optionalFile(v any) error {
	if s, _ := v.(string); s == "" {
		return nil
	}
	return existingFile(v)
}

func existingDir(v any) error {
	s, _ := v.(string)
	if s == "" {
		return nil
	}
	info, err := os.Stat(s)
	if err != nil {
		return validation.NewError("dir_missing", fmt.Sprintf("%s does not exist", s))
	}
	if !info.IsDir() {
		return validation.NewError("not_dir", fmt.Sprintf("%s is not a directory", s))
	}
	return nil
}

func compiles(v any) error {
	s, _ := v.(string)
	if s == "" {
		return nil
	}
	if _, err := regexp.Compile(s); err != nil {
		return validation.NewError("bad_pattern", err.Error())
	}
	return nil
}
