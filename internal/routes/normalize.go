package routes

import "strings"

// Normalize strips leading and trailing slashes and collapses repeated
// slashes, so "/foo/", "foo" and "//foo" all become "foo". The root is "".
func Normalize(p string) string {
	segs := splitSegments(p)
	return strings.Join(segs, "/")
}

// splitSegments splits p on "/" and drops empty segments.
func splitSegments(p string) []string {
	parts := strings.Split(p, "/")
	segs := parts[:0]
	for _, s := range parts {
		if s != "" {
			segs = append(segs, s)
		}
	}
	return segs
}

// URLPath returns the display form of a normalized key: "/" + key.
func URLPath(key string) string {
	return "/" + key
}
