package css

import "embed"

//go:embed assets/*.css
var assets embed.FS

// Bundled stylesheet names, in serving order.
const (
	MarkdownStylesheet  = "markdown.css"
	HighlightStylesheet = "highlight.css"
	OverridesStylesheet = "overrides.css"
)

// Bundled returns the default stylesheet set and its explicit order. The
// highlight stylesheet is generated for the configured syntax style and passed in.
func Bundled(highlightCSS []byte) ([]Entry, []string) {
	entries := []Entry{
		BundledEntry(MarkdownStylesheet, mustAsset(MarkdownStylesheet)),
		BundledEntry(HighlightStylesheet, highlightCSS),
		BundledEntry(OverridesStylesheet, mustAsset(OverridesStylesheet)),
	}
	return entries, []string{MarkdownStylesheet, HighlightStylesheet, OverridesStylesheet}
}

func mustAsset(name string) []byte {
	b, err := assets.ReadFile("assets/" + name)
	if err != nil {
		panic("css: missing embedded asset " + name)
	}
	return b
}
