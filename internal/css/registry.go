// Package css holds the stylesheet registry and the handler that serves it.
//
// A Registry is immutable after New. Its serving order is decided once, at
// construction, either from an explicit order list or from the insertion order
// of the configured entries.
package css

import (
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"git.home.luguber.info/inful/markview/internal/foundation/errors"
)

// OrderWarning is logged once by New when no explicit order is configured.
const OrderWarning = "css order not set; stylesheet link sequence not guaranteed"

// Entry is a named stylesheet. File entries carry an absolute Path; bundled
// entries carry their Content in memory.
type Entry struct {
	Name    string
	Path    string
	Content []byte
}

// FileEntry returns an entry backed by a file on disk.
func FileEntry(name, absPath string) Entry {
	return Entry{Name: name, Path: absPath}
}

// BundledEntry returns an entry served from memory.
func BundledEntry(name string, content []byte) Entry {
	return Entry{Name: name, Content: content}
}

// IsBundled reports whether the entry is served from memory.
func (e Entry) IsBundled() bool { return e.Path == "" }

// Registry is the ordered, read-only set of stylesheets.
type Registry struct {
	byName  map[string]Entry
	ordered []Entry
}

// New builds a registry from entries. A nil order means no order was configured:
// entries keep their given sequence and OrderWarning is logged. A non-nil order
// must name every entry exactly once.
func New(entries []Entry, order []string, logger *slog.Logger) (*Registry, error) {
	if logger == nil {
		logger = slog.Default()
	}

	byName := make(map[string]Entry, len(entries))
	for _, e := range entries {
		if err := validateName(e.Name); err != nil {
			return nil, err
		}
		if _, dup := byName[e.Name]; dup {
			return nil, errors.ConfigError("duplicate stylesheet name").
				WithContext("field", "css").
				WithContext("stylesheet", e.Name).
				Build()
		}
		byName[e.Name] = e
	}

	if order == nil {
		logger.Warn(OrderWarning, slog.Int("stylesheets", len(entries)))
		ordered := make([]Entry, len(entries))
		copy(ordered, entries)
		return &Registry{byName: byName, ordered: ordered}, nil
	}

	ordered, err := applyOrder(byName, order)
	if err != nil {
		return nil, err
	}
	return &Registry{byName: byName, ordered: ordered}, nil
}

func validateName(name string) error {
	switch {
	case name == "":
		return errors.ConfigError("stylesheet name must not be empty").WithContext("field", "css").Build()
	case strings.ContainsAny(name, "/\\\x00"), name == "." || name == "..":
		return errors.ConfigError("stylesheet name must be a single path segment").
			WithContext("field", "css").
			WithContext("stylesheet", name).
			Build()
	}
	return nil
}

func applyOrder(byName map[string]Entry, order []string) ([]Entry, error) {
	seen := make(map[string]struct{}, len(order))
	ordered := make([]Entry, 0, len(order))
	for _, name := range order {
		e, ok := byName[name]
		if !ok {
			return nil, errors.ConfigError("css order names an unknown stylesheet").
				WithContext("field", "css._order").
				WithContext("stylesheet", name).
				Build()
		}
		if _, dup := seen[name]; dup {
			return nil, errors.ConfigError("css order lists a stylesheet twice").
				WithContext("field", "css._order").
				WithContext("stylesheet", name).
				Build()
		}
		seen[name] = struct{}{}
		ordered = append(ordered, e)
	}
	if len(ordered) != len(byName) {
		var missing []string
		for name := range byName {
			if _, ok := seen[name]; !ok {
				missing = append(missing, name)
			}
		}
		slices.Sort(missing)
		return nil, errors.ConfigError("css order does not list every stylesheet").
			WithContext("field", "css._order").
			WithContext("reason", fmt.Sprintf("missing %s", strings.Join(missing, ", "))).
			Build()
	}
	return ordered, nil
}

// Lookup returns the entry registered under name.
func (r *Registry) Lookup(name string) (Entry, bool) {
	e, ok := r.byName[name]
	return e, ok
}

// Ordered returns the entries in serving order. The slice is a fresh copy.
func (r *Registry) Ordered() []Entry {
	out := make([]Entry, len(r.ordered))
	copy(out, r.ordered)
	return out
}

// Names returns the stylesheet names in serving order.
func (r *Registry) Names() []string {
	names := make([]string, len(r.ordered))
	for i, e := range r.ordered {
		names[i] = e.Name
	}
	return names
}

// Len returns the number of registered stylesheets.
func (r *Registry) Len() int { return len(r.ordered) }
