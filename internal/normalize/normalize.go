// Package normalize canonicalizes subject and title strings so that
// catalog entries, user-typed commands, and stored sheet rows compare
// equal despite full/half-width drift, stray spacing, and capitalization.
package normalize

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
	"golang.org/x/text/width"
)

// Canon returns the canonical form of s: NFKC compatibility folding
// (which maps full-width Ａｂｃ and half-width ｶﾅ to their plain forms),
// every whitespace rune removed, and lower case. Canon("") is "".
func Canon(s string) string {
	if s == "" {
		return ""
	}
	s = width.Fold.String(s)
	s = norm.NFKC.String(s)
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if unicode.IsSpace(r) {
			continue
		}
		b.WriteRune(unicode.ToLower(r))
	}
	return b.String()
}

// Identity returns the dedup key for a (subject, title) pair.
// Completion identity deliberately excludes the date: a task once done
// stays done no matter when it was declared.
func Identity(subject, title string) string {
	return Canon(subject) + "\x00" + Canon(title)
}
