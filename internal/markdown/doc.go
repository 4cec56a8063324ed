// Package markdown converts Markdown source into HTML fragments.
//
// The Renderer interface is the only contract the page server depends on.
// Goldmark is the default implementation. RenderFunc adapts a plain function,
// which is how callers plug in their own converter.
package markdown
