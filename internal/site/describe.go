package site

import "git.home.luguber.info/inful/markview/internal/routes"

// RouteInfo describes one resolved rule for display.
type RouteInfo struct {
	Path   string
	Kind   string
	Target string
}

// Routes returns the routing table in match order.
func (s *Site) Routes() []RouteInfo {
	rules := s.Resolver.Rules()
	out := make([]RouteInfo, 0, len(rules))
	for _, r := range rules {
		info := RouteInfo{Path: routes.URLPath(r.Key())}
		switch rule := r.(type) {
		case *routes.ExactFileRule:
			info.Kind = "file"
			info.Target = rule.SourceFile()
		case *routes.RootRule:
			info.Kind = "root"
			info.Target = rule.Root()
		}
		out = append(out, info)
	}
	return out
}

// RouteCount returns the number of configured routes.
func (s *Site) RouteCount() int { return len(s.Resolver.Rules()) }

// StylesheetCount returns the number of registered stylesheets.
func (s *Site) StylesheetCount() int { return s.Stylesheets.Len() }
