package markdown

import (
	"bytes"
	"context"
	"fmt"
	"slices"
	"sort"
	"strings"
	"sync"

	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	meta "github.com/yuin/goldmark-meta"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/renderer/html"

	"git.home.luguber.info/inful/markview/internal/foundation/errors"
)

// Renderer converts Markdown source into an HTML fragment.
type Renderer interface {
	Render(ctx context.Context, source []byte) (string, error)
}

// RenderFunc adapts an ordinary function to the Renderer interface.
type RenderFunc func(ctx context.Context, source []byte) (string, error)

// Render calls f(ctx, source).
func (f RenderFunc) Render(ctx context.Context, source []byte) (string, error) {
	return f(ctx, source)
}

// DefaultHighlightStyle is the chroma style used when none is configured.
const DefaultHighlightStyle = "github"

// DefaultExtensions is the extension set used when none is configured.
var DefaultExtensions = []string{"gfm", "footnote"}

var knownExtensions = map[string]goldmark.Extender{
	"gfm":             extension.GFM,
	"table":           extension.Table,
	"strikethrough":   extension.Strikethrough,
	"linkify":         extension.Linkify,
	"tasklist":        extension.TaskList,
	"footnote":        extension.Footnote,
	"definition_list": extension.DefinitionList,
	"typographer":     extension.Typographer,
	"cjk":             extension.CJK,
}

// KnownExtensions returns the extension names accepted in Options.Extensions.
func KnownExtensions() []string {
	names := make([]string, 0, len(knownExtensions))
	for name := range knownExtensions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// KnownStyle reports whether chroma ships a style with the given name.
func KnownStyle(name string) bool {
	_, ok := styles.Registry[name]
	return ok
}

// Options configures the Goldmark renderer.
type Options struct {
	HighlightStyle string
	Extensions     []string
	HardWraps      bool
	UnsafeHTML     bool
}

func (o Options) withDefaults() Options {
	if strings.TrimSpace(o.HighlightStyle) == "" {
		o.HighlightStyle = DefaultHighlightStyle
	}
	if o.Extensions == nil {
		o.Extensions = slices.Clone(DefaultExtensions)
	}
	return o
}

// Goldmark renders Markdown with goldmark. The engine is built on first use
// and shared by all requests afterwards.
type Goldmark struct {
	opts Options

	once sync.Once
	md   goldmark.Markdown
}

// NewGoldmark validates opts and returns a renderer. The goldmark engine itself
// is not built until the first Render call.
func NewGoldmark(opts Options) (*Goldmark, error) {
	opts = opts.withDefaults()
	if !KnownStyle(opts.HighlightStyle) {
		return nil, errors.ConfigError("unknown highlight style").
			WithContext("field", "markdown.highlight_style").
			WithContext("reason", opts.HighlightStyle).
			Build()
	}
	for _, name := range opts.Extensions {
		if _, ok := knownExtensions[name]; !ok {
			return nil, errors.ConfigError("unknown markdown extension").
				WithContext("field", "markdown.extensions").
				WithContext("reason", name).
				Build()
		}
	}
	return &Goldmark{opts: opts}, nil
}

// Options returns the effective options, defaults applied.
func (g *Goldmark) Options() Options { return g.opts }

func (g *Goldmark) engine() goldmark.Markdown {
	g.once.Do(func() {
		exts := []goldmark.Extender{
			meta.Meta,
			highlighting.NewHighlighting(
				highlighting.WithStyle(g.opts.HighlightStyle),
				highlighting.WithFormatOptions(chromahtml.WithClasses(true)),
			),
		}
		for _, name := range g.opts.Extensions {
			exts = append(exts, knownExtensions[name])
		}

		var rendererOpts []renderer.Option
		if g.opts.HardWraps {
			rendererOpts = append(rendererOpts, html.WithHardWraps())
		}
		if g.opts.UnsafeHTML {
			rendererOpts = append(rendererOpts, html.WithUnsafe())
		}

		g.md = goldmark.New(
			goldmark.WithExtensions(exts...),
			goldmark.WithRendererOptions(rendererOpts...),
		)
	})
	return g.md
}

// Render converts source to HTML. Front matter is consumed and not rendered.
func (g *Goldmark) Render(ctx context.Context, source []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := g.engine().Convert(source, &buf); err != nil {
		return "", fmt.Errorf("convert markdown: %w", err)
	}
	return buf.String(), nil
}
