package routes

import (
	"net/http"

	"git.home.luguber.info/inful/markview/internal/foundation/errors"
)

// Outcome is the result class of a resolution.
type Outcome int

const (
	// PassThrough means no rule owns the request; it belongs to the next handler.
	PassThrough Outcome = iota
	// NotFound means a rule owns the request but no file may be served.
	NotFound
	// Match means a file was selected.
	Match
)

func (o Outcome) String() string {
	switch o {
	case PassThrough:
		return "pass_through"
	case NotFound:
		return "not_found"
	case Match:
		return "match"
	default:
		return "unknown"
	}
}

// Result describes how a request path resolved. Key is the normalized key of
// the owning rule and is empty for PassThrough.
type Result struct {
	Outcome     Outcome
	Key         string
	DisplayName string
	SourceFile  string
}

// Resolver is an ordered, immutable routing table.
type Resolver struct {
	rules []Rule
}

// NewResolver builds a resolver trying rules in the given order. Two rules
// with the same normalized key are rejected.
func NewResolver(rules ...Rule) (*Resolver, error) {
	seen := make(map[string]struct{}, len(rules))
	for _, r := range rules {
		if _, dup := seen[r.Key()]; dup {
			return nil, errors.ConfigError("duplicate route").
				WithContext("route", URLPath(r.Key())).
				Build()
		}
		seen[r.Key()] = struct{}{}
	}
	return &Resolver{rules: append([]Rule(nil), rules...)}, nil
}

// Rules returns the rules in declaration order.
func (r *Resolver) Rules() []Rule {
	return append([]Rule(nil), r.rules...)
}

// Resolve selects the backing file for a request. Only GET and HEAD requests
// are ever resolved. The first rule that structurally matches decides.
func (r *Resolver) Resolve(method, requestPath string) Result {
	if method != http.MethodGet && method != http.MethodHead {
		return Result{Outcome: PassThrough}
	}
	norm := Normalize(requestPath)
	for _, rule := range r.rules {
		if res, ok := rule.match(norm); ok {
			return res
		}
	}
	return Result{Outcome: PassThrough}
}
