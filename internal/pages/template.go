package pages

import (
	_ "embed"
	"html/template"
	"io"
	"os"

	"git.home.luguber.info/inful/markview/internal/foundation/errors"
)

//go:embed templates/page.html
var defaultPage string

// Stylesheet is a link to one registered stylesheet.
type Stylesheet struct {
	Name string
	Href string
}

// PageData is the value a page template is executed with.
type PageData struct {
	Title       string
	RequestPath string
	Name        string
	CSS         []Stylesheet
	CSSOrder    []string
	CSSMount    string
	Contents    template.HTML
}

// Template turns PageData into a complete response body.
type Template interface {
	Execute(w io.Writer, data PageData) error
}

type htmlTemplate struct {
	t *template.Template
}

func (h htmlTemplate) Execute(w io.Writer, data PageData) error {
	return h.t.Execute(w, data)
}

var defaultTemplate = htmlTemplate{t: template.Must(template.New("page").Parse(defaultPage))}

// DefaultTemplate returns the built-in page shell.
func DefaultTemplate() Template {
	return defaultTemplate
}

// ParseTemplate parses an html/template page shell.
func ParseTemplate(name, text string) (Template, error) {
	t, err := template.New(name).Parse(text)
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryConfig, "invalid page template").
			Fatal().
			WithContext("field", "template").
			WithContext("path", name).
			Build()
	}
	return htmlTemplate{t: t}, nil
}

// ParseTemplateFile reads and parses a page shell from disk.
func ParseTemplateFile(path string) (Template, error) {
	b, err := os.ReadFile(path) // #nosec G304 -- path comes from operator configuration
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryConfig, "cannot read page template").
			Fatal().
			WithContext("field", "template").
			WithContext("path", path).
			Build()
	}
	return ParseTemplate(path, string(b))
}
