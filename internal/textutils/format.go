// Package textutils provides the display-formatting helpers shared by the
// vendor extractor and normalizer.
package textutils

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var whitespacePattern = regexp.MustCompile(`\s+`)

// minorWords stay lower case in titles unless they open the string.
var minorWords = map[string]bool{
	"a": true, "an": true, "the": true,
	"and": true, "but": true, "or": true, "nor": true, "so": true, "yet": true,
	"as": true, "at": true, "by": true, "for": true, "in": true,
	"of": true, "on": true, "to": true, "up": true, "via": true,
}

// CollapseWhitespace replaces runs of whitespace with one space and trims.
func CollapseWhitespace(s string) string {
	return strings.TrimSpace(whitespacePattern.ReplaceAllString(s, " "))
}

// IsMixedCase reports whether s contains both upper and lower case letters.
func IsMixedCase(s string) bool {
	hasUpper, hasLower := false, false
	for _, r := range s {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		}
		if hasUpper && hasLower {
			return true
		}
	}
	return false
}

// HasBrandPunctuation reports whether s contains one of & / - . which usually
// marks a brand spelling whose casing should not be touched ("AT&T", "NETFLIX.COM").
func HasBrandPunctuation(s string) bool {
	return strings.ContainsAny(s, "&/-.")
}

// TitleCase converts s to title case. Minor words (articles, conjunctions,
// short prepositions) are lower-cased except in first position.
func TitleCase(s string) string {
	words := strings.Fields(strings.ToLower(s))
	if len(words) == 0 {
		return ""
	}

	// Casers are stateful and must not be shared between goroutines.
	caser := cases.Title(language.English)
	for i, word := range words {
		if i > 0 && minorWords[word] {
			continue
		}
		words[i] = caser.String(word)
	}
	return strings.Join(words, " ")
}

// FormatDisplay leaves mixed-case strings alone and title-cases the rest.
func FormatDisplay(s string) string {
	s = CollapseWhitespace(s)
	if IsMixedCase(s) {
		return s
	}
	return TitleCase(s)
}
