package changelog

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Filter transforms one rendered string. Filters chain left to right, each
// consuming the output of the previous one.
type Filter func(string) string

// Capitalize upper-cases the first rune and leaves the rest untouched.
func Capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError && size <= 1 {
		return s
	}
	up := unicode.ToUpper(r)
	if up == r {
		return s
	}
	return string(up) + s[size:]
}

// FirstLine truncates a multi-line string at its first line break.
func FirstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	return strings.TrimRight(s, "\r")
}

// SplitFirst keeps the part before the first occurrence of sep. Strings
// not containing sep pass through unchanged.
func SplitFirst(sep string) Filter {
	return func(s string) string {
		if i := strings.Index(s, sep); i >= 0 {
			return s[:i]
		}
		return s
	}
}

// SplitLast keeps the part after the last occurrence of sep. Strings not
// containing sep pass through unchanged.
func SplitLast(sep string) Filter {
	return func(s string) string {
		if i := strings.LastIndex(s, sep); i >= 0 {
			return s[i+len(sep):]
		}
		return s
	}
}

// Replace applies literal find/replace pairs in declaration order. Each
// pair makes one pass over the result of the previous pair and never
// rescans its own replacements.
func Replace(pairs ...string) Filter {
	return func(s string) string {
		for i := 0; i+1 < len(pairs); i += 2 {
			s = strings.ReplaceAll(s, pairs[i], pairs[i+1])
		}
		return s
	}
}

// RewriteRefs turns plain pull-request references such as (#42) into the
// bracketed ([#42]) form that the link-reference block resolves.
func RewriteRefs(s string) string {
	return refPattern.ReplaceAllString(s, "([#$1])")
}
