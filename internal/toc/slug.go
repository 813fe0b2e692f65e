package toc

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

// Slug turns heading text into an anchor id: lowercase, drop everything that
// is not a word character, whitespace or '-', turn each whitespace run into a
// single '-', then trim '-' from both ends.
//
// Word characters are Unicode letters, Unicode numbers and '_', so non-Latin
// headings keep their text.
//
// Text is NFC-normalized first, so a letter followed by a combining mark is
// kept as the composed letter: decomposed "e\u0301" yields "é", not a bare
// "e" with the mark stripped.
func Slug(text string) string {
	text = cases.Lower(language.Und).String(norm.NFC.String(text))

	var b strings.Builder
	b.Grow(len(text))
	pendingSpace := false
	for _, r := range text {
		switch {
		case unicode.IsSpace(r):
			pendingSpace = true
		case isWordRune(r) || r == '-':
			if pendingSpace {
				b.WriteByte('-')
				pendingSpace = false
			}
			b.WriteRune(r)
		}
	}
	if pendingSpace {
		b.WriteByte('-')
	}
	return strings.Trim(b.String(), "-")
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsNumber(r)
}
