package routes

import (
	"regexp"

	"git.home.luguber.info/inful/markview/internal/foundation/errors"
)

// Filter decides whether a path relative to a root rule may be served.
type Filter func(rel string) bool

var defaultPattern = regexp.MustCompile(`\.(md|markdown)$`)

// DefaultFilter accepts paths ending in ".md" or ".markdown" (case-sensitive).
func DefaultFilter(rel string) bool {
	return defaultPattern.MatchString(rel)
}

// PatternFilter compiles expr into a Filter. The expression is matched
// unanchored against the relative path, as regexp.MatchString does.
func PatternFilter(expr string) (Filter, error) {
	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryConfig, "invalid route filter").
			Fatal().
			WithContext("field", "files.filter").
			WithContext("reason", expr).
			Build()
	}
	return re.MatchString, nil
}
