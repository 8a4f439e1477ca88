package text

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// invisibleChars are zero-width and directional formatting codepoints that X
// strips before counting. Leaving them in would inflate the weighted length
// and can trigger the "Show more" collapse on posts that look short.
var invisibleChars = map[rune]bool{
	'\u200B': true, // zero-width space
	'\u200C': true, // zero-width non-joiner
	'\u200E': true, // left-to-right mark
	'\u200F': true, // right-to-left mark
	'\u2060': true, // word joiner
	'\uFEFF': true, // zero-width no-break space (BOM)
	'\u2028': true, // line separator
	'\u2029': true, // paragraph separator
	'\u00AD': true, // soft hyphen
}

// Normalize canonicalizes text for counting and posting.
//
// It applies Unicode NFC composition so combining sequences and precomposed
// forms count identically, strips invisible formatting characters and all
// other control/format codepoints (newline, carriage return, tab, and space
// are kept since they carry layout meaning), collapses whitespace runs, and
// trims leading and trailing whitespace.
//
// A whitespace run that contains a line break collapses to a single newline
// rather than a space, so the "summary\nURL" layout survives normalization.
// Normalize is idempotent: Normalize(Normalize(s)) == Normalize(s).
func Normalize(text string) string {
	if text == "" {
		return text
	}

	text = norm.NFC.String(text)

	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		if invisibleChars[r] {
			continue
		}
		if unicode.Is(unicode.C, r) && r != '\n' && r != '\r' && r != '\t' {
			continue
		}
		b.WriteRune(r)
	}

	return collapseWhitespace(b.String())
}

// collapseWhitespace reduces every run of whitespace to a single character:
// a newline if the run contains one, otherwise a space. The result is
// trimmed on both ends.
func collapseWhitespace(s string) string {
	var b strings.Builder
	b.Grow(len(s))

	inRun := false
	runHasNewline := false
	for _, r := range s {
		if unicode.IsSpace(r) {
			inRun = true
			if r == '\n' || r == '\r' {
				runHasNewline = true
			}
			continue
		}
		if inRun {
			if runHasNewline {
				b.WriteByte('\n')
			} else {
				b.WriteByte(' ')
			}
			inRun = false
			runHasNewline = false
		}
		b.WriteRune(r)
	}

	return strings.TrimSpace(b.String())
}
