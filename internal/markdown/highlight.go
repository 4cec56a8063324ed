package markdown

import (
	"bytes"
	"fmt"

	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/styles"

	"git.home.luguber.info/inful/markview/internal/foundation/errors"
)

// HighlightCSS returns the class-based stylesheet for a chroma style. It pairs
// with the markup produced by Goldmark, which emits classes instead of inline styles.
func HighlightCSS(style string) ([]byte, error) {
	if style == "" {
		style = DefaultHighlightStyle
	}
	if !KnownStyle(style) {
		return nil, errors.ConfigError("unknown highlight style").
			WithContext("field", "markdown.highlight_style").
			WithContext("reason", style).
			Build()
	}

	var buf bytes.Buffer
	formatter := chromahtml.New(chromahtml.WithClasses(true))
	if err := formatter.WriteCSS(&buf, styles.Get(style)); err != nil {
		return nil, fmt.Errorf("write %s stylesheet: %w", style, err)
	}
	return buf.Bytes(), nil
}
