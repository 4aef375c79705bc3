package utils

import "strings"

// GlobMatch reports whether a file name matches a download pattern. The
// pattern language is deliberately tiny: "*" matches everything, "*.ext"
// matches by extension, "prefix*" and "*suffix" anchor one end, and anything
// else must match byte for byte. No escaping, no character classes, at most
// one star.
func GlobMatch(name, pattern string) bool {
	if pattern == "*" {
		return true
	}
	if ext, ok := strings.CutPrefix(pattern, "*."); ok {
		return strings.HasSuffix(name, "."+ext)
	}
	if prefix, ok := strings.CutSuffix(pattern, "*"); ok {
		return strings.HasPrefix(name, prefix)
	}
	if suffix, ok := strings.CutPrefix(pattern, "*"); ok {
		return strings.HasSuffix(name, suffix)
	}
	return name == pattern
}
