package config

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// orderKey is the reserved css key holding the explicit stylesheet order.
const orderKey = "_order"

// CSSEntry is one named stylesheet file.
type CSSEntry struct {
	Name string
	Path string
}

// CSSConfig is the ordered css mapping. Order is nil when no _order key was
// given, which is distinct from an explicit empty list.
type CSSConfig struct {
	Entries []CSSEntry
	Order   []string
}

// UnmarshalYAML keeps the mapping's key order.
func (c *CSSConfig) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: css must be a mapping of name to path", node.Line)
	}
	if err := uniqueKeys(node, "css"); err != nil {
		return err
	}
	for i := 0; i+1 < len(node.Content); i += 2 {
		key, val := node.Content[i], node.Content[i+1]
		if key.Value == orderKey {
			var order []string
			if err := val.Decode(&order); err != nil {
				return fmt.Errorf("line %d: css._order must be a list of names: %w", val.Line, err)
			}
			if order == nil {
				order = []string{}
			}
			c.Order = order
			continue
		}
		if val.Kind != yaml.ScalarNode {
			return fmt.Errorf("line %d: css.%s must be a file path", val.Line, key.Value)
		}
		c.Entries = append(c.Entries, CSSEntry{Name: key.Value, Path: val.Value})
	}
	return nil
}

// MarshalYAML writes entries in order followed by _order when set.
func (c CSSConfig) MarshalYAML() (any, error) {
	node := &yaml.Node{Kind: yaml.MappingNode}
	for _, e := range c.Entries {
		node.Content = append(node.Content, scalar(e.Name), scalar(e.Path))
	}
	if c.Order != nil {
		seq := &yaml.Node{Kind: yaml.SequenceNode}
		for _, name := range c.Order {
			seq.Content = append(seq.Content, scalar(name))
		}
		node.Content = append(node.Content, scalar(orderKey), seq)
	}
	return node, nil
}

// FileRoute is one entry of the files mapping. A route with a File is an exact
// file; any other route mounts Root. Filter is a regular expression; Match is a
// programmatic filter that takes precedence over it.
type FileRoute struct {
	Path   string
	File   string
	Root   string
	Filter string
	Match  func(rel string) bool `yaml:"-"`
}

// IsRoot reports whether the route mounts a directory.
func (r FileRoute) IsRoot() bool { return r.File == "" }

// FilesConfig is the ordered files mapping.
type FilesConfig struct {
	Routes []FileRoute
}

// UnmarshalYAML decides each entry's shape once: a scalar value is an exact
// file, a mapping value is a filtered root.
func (f *FilesConfig) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: files must be a mapping of URL path to file or root", node.Line)
	}
	if err := uniqueKeys(node, "files"); err != nil {
		return err
	}
	for i := 0; i+1 < len(node.Content); i += 2 {
		key, val := node.Content[i], node.Content[i+1]
		route := FileRoute{Path: key.Value}
		switch val.Kind {
		case yaml.ScalarNode:
			if val.Value == "" {
				return fmt.Errorf("line %d: files.%s must not be empty", val.Line, key.Value)
			}
			route.File = val.Value
		case yaml.MappingNode:
			if err := decodeRoot(val, &route); err != nil {
				return fmt.Errorf("files.%s: %w", key.Value, err)
			}
		default:
			return fmt.Errorf("line %d: files.%s must be a path or a {root, filter} mapping", val.Line, key.Value)
		}
		f.Routes = append(f.Routes, route)
	}
	return nil
}

func decodeRoot(node *yaml.Node, route *FileRoute) error {
	for i := 0; i+1 < len(node.Content); i += 2 {
		key, val := node.Content[i], node.Content[i+1]
		if val.Kind != yaml.ScalarNode {
			return fmt.Errorf("line %d: %s must be a string", val.Line, key.Value)
		}
		switch key.Value {
		case "root":
			route.Root = val.Value
		case "filter":
			route.Filter = val.Value
		default:
			return fmt.Errorf("line %d: unknown key %q (want root or filter)", key.Line, key.Value)
		}
	}
	if route.Root == "" {
		return fmt.Errorf("line %d: root is required", node.Line)
	}
	return nil
}

// MarshalYAML writes routes in order using the same two shapes.
func (f FilesConfig) MarshalYAML() (any, error) {
	node := &yaml.Node{Kind: yaml.MappingNode}
	for _, r := range f.Routes {
		if !r.IsRoot() {
			node.Content = append(node.Content, scalar(r.Path), scalar(r.File))
			continue
		}
		m := &yaml.Node{Kind: yaml.MappingNode, Content: []*yaml.Node{scalar("root"), scalar(r.Root)}}
		if r.Filter != "" {
			m.Content = append(m.Content, scalar("filter"), scalar(r.Filter))
		}
		node.Content = append(node.Content, scalar(r.Path), m)
	}
	return node, nil
}

// uniqueKeys rejects repeated keys. Custom unmarshalers receive the raw node,
// so yaml.v3 does not check this for us.
func uniqueKeys(node *yaml.Node, section string) error {
	seen := make(map[string]int, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		key := node.Content[i]
		if line, dup := seen[key.Value]; dup {
			return fmt.Errorf("line %d: %s key %q already defined at line %d", key.Line, section, key.Value, line)
		}
		seen[key.Value] = key.Line
	}
	return nil
}

func scalar(v string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: v}
}
