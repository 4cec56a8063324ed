// Package routes maps request paths onto Markdown source files.
//
// A Resolver holds an ordered list of rules. Each rule is either an exact file
// rule (one URL path, one file) or a root rule (a URL prefix mounted on a
// directory, narrowed by a filter). Rules are tried in declaration order and
// the first rule whose prefix or path structurally matches decides the outcome.
package routes
