package routes

import (
	"os"
	"path"
	"path/filepath"
	"strings"

	"git.home.luguber.info/inful/markview/internal/foundation/errors"
)

// Rule is one entry of the routing table. The set of implementations is closed:
// *ExactFileRule and *RootRule.
type Rule interface {
	// Key returns the normalized URL path or prefix of the rule.
	Key() string
	// match reports whether the rule structurally owns the normalized path and,
	// if so, the outcome for it.
	match(norm string) (Result, bool)
}

// ExactFileRule serves a single file at a single URL path.
type ExactFileRule struct {
	key  string
	file string
}

// NewExactFileRule binds urlPath to the absolute file path file.
func NewExactFileRule(urlPath, file string) (*ExactFileRule, error) {
	key, err := ruleKey(urlPath)
	if err != nil {
		return nil, err
	}
	if strings.ContainsRune(file, 0) || !filepath.IsAbs(file) {
		return nil, errors.ConfigError("route file must be an absolute path").
			WithContext("route", URLPath(key)).
			WithContext("path", file).
			Build()
	}
	return &ExactFileRule{key: key, file: filepath.Clean(file)}, nil
}

func (r *ExactFileRule) Key() string { return r.key }

// SourceFile returns the file served by the rule.
func (r *ExactFileRule) SourceFile() string { return r.file }

// match owns the rule's path and everything beneath it. Paths beneath it
// resolve to NotFound.
func (r *ExactFileRule) match(norm string) (Result, bool) {
	if norm != r.key {
		if r.key == "" || strings.HasPrefix(norm, r.key+"/") {
			return Result{Outcome: NotFound, Key: r.key}, true
		}
		return Result{}, false
	}
	name := path.Base(URLPath(r.key))
	if r.key == "" {
		name = filepath.Base(r.file)
	}
	return Result{Outcome: Match, Key: r.key, DisplayName: name, SourceFile: r.file}, true
}

// RootRule mounts a directory under a URL prefix. Only relative paths accepted
// by its filter are served.
type RootRule struct {
	key    string
	root   string
	filter Filter
}

// NewRootRule mounts the absolute directory root at prefix. A nil filter means
// DefaultFilter.
func NewRootRule(prefix, root string, filter Filter) (*RootRule, error) {
	key, err := ruleKey(prefix)
	if err != nil {
		return nil, err
	}
	if strings.ContainsRune(root, 0) || !filepath.IsAbs(root) {
		return nil, errors.ConfigError("route root must be an absolute path").
			WithContext("route", URLPath(key)).
			WithContext("path", root).
			Build()
	}
	info, err := os.Stat(root)
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryConfig, "route root is not accessible").
			Fatal().
			WithContext("route", URLPath(key)).
			WithContext("path", root).
			Build()
	}
	if !info.IsDir() {
		return nil, errors.ConfigError("route root is not a directory").
			WithContext("route", URLPath(key)).
			WithContext("path", root).
			Build()
	}
	if filter == nil {
		filter = DefaultFilter
	}
	return &RootRule{key: key, root: filepath.Clean(root), filter: filter}, nil
}

func (r *RootRule) Key() string { return r.key }

// Root returns the mounted directory.
func (r *RootRule) Root() string { return r.root }

func (r *RootRule) match(norm string) (Result, bool) {
	var rest string
	switch {
	case r.key == "":
		rest = norm
	case norm == r.key:
		rest = ""
	case strings.HasPrefix(norm, r.key+"/"):
		rest = norm[len(r.key)+1:]
	default:
		return Result{}, false
	}

	notFound := Result{Outcome: NotFound, Key: r.key}
	rel, ok := confine(rest)
	if !ok || rel == "" || !r.filter(rel) {
		return notFound, true
	}
	return Result{
		Outcome:     Match,
		Key:         r.key,
		DisplayName: path.Base(rel),
		SourceFile:  filepath.Join(r.root, filepath.FromSlash(rel)),
	}, true
}

// confine resolves "." and ".." segments of rel and reports false when rel
// would climb above its root or contains a NUL byte.
func confine(rel string) (string, bool) {
	var out []string
	for _, seg := range splitSegments(rel) {
		switch {
		case strings.ContainsRune(seg, 0):
			return "", false
		case seg == ".":
		case seg == "..":
			if len(out) == 0 {
				return "", false
			}
			out = out[:len(out)-1]
		default:
			out = append(out, seg)
		}
	}
	return strings.Join(out, "/"), true
}

// ruleKey normalizes a configured path and rejects dot segments and NUL bytes.
func ruleKey(p string) (string, error) {
	for _, seg := range splitSegments(p) {
		if seg == "." || seg == ".." || strings.ContainsRune(seg, 0) {
			return "", errors.ConfigError("route path must not contain dot segments").
				WithContext("route", p).
				Build()
		}
	}
	return Normalize(p), nil
}
