package utils

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// TitleCase canonicalizes a store or product name: the whole string is
// lowercased, split on whitespace, and every remaining token gets its first
// rune upper-cased. Tokens are joined with single spaces.
//
// TitleCase(TitleCase(s)) == TitleCase(s) for every s.
func TitleCase(s string) string {
	fields := strings.Fields(lower(s))
	for i, f := range fields {
		r, size := utf8.DecodeRuneInString(f)
		if r == utf8.RuneError && size <= 1 {
			continue
		}
		fields[i] = string(unicode.ToTitle(r)) + f[size:]
	}
	return strings.Join(fields, " ")
}

// NameKey returns the key used for case-insensitive comparisons of names.
// Two names are considered the same when their keys are equal.
func NameKey(s string) string {
	return lower(TitleCase(s))
}

// CoerceQuantity floors a requested quantity at 1.
func CoerceQuantity(q int) int {
	if q < 1 {
		return 1
	}
	return q
}

// cases.Caser keeps internal state and must not be shared between goroutines.
func lower(s string) string {
	return cases.Lower(language.Und).String(s)
}
