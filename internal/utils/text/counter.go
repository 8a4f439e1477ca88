// Package text implements X's weighted character counting rules for post
// validation and truncation.
//
// X does not count Unicode scalar values one-to-one. Instead:
//   - Most Latin-script characters and common punctuation count as 1
//   - CJK characters, emoji, and other symbols count as 2
//   - Every URL counts as a fixed 23 regardless of its literal length
//
// The weight table reproduces the documented behavior, not X's private
// per-codepoint algorithm. All functions in this package are pure and safe
// for concurrent use.
package text

import "regexp"

// DefaultMaxLength is X's weighted character limit for a single post.
const DefaultMaxLength = 280

// DefaultEllipsis is appended to truncated text. U+2026 weighs 2.
const DefaultEllipsis = "…"

// urlWeight is the fixed weighted cost of a URL, matching X's t.co wrapping.
const urlWeight = 23

// urlPattern matches URL-like substrings for counting purposes. It stops at
// whitespace, angle brackets, and double quotes. No reachability check is
// performed; anything that looks like a URL is counted as one.
var urlPattern = regexp.MustCompile(`https?://[^\s<>"]+`)

// weightRange is a closed codepoint interval counted at weight 1.
type weightRange struct {
	lo, hi rune
}

// weight1Ranges lists the codepoint intervals X counts as a single character.
// Everything outside these ranges weighs 2. The list is sorted; with only
// four entries a linear scan is as fast as a binary search.
var weight1Ranges = []weightRange{
	{0x0000, 0x10FF}, // Basic Latin through Latin-1 and European scripts
	{0x2000, 0x200D}, // general punctuation, including ZWJ
	{0x2010, 0x201F}, // hyphens, dashes, curly quotes
	{0x2032, 0x2037}, // prime marks
}

// CountRunes counts the number of Unicode characters (runes) in the given
// text. It correctly handles multi-byte characters including Japanese,
// Chinese, and emoji by counting runes instead of bytes.
func CountRunes(text string) int {
	return len([]rune(text))
}

// RuneWeight returns the weighted cost of a single character: 1 for Latin
// script and common punctuation, 2 for everything else (CJK, emoji, symbols).
func RuneWeight(r rune) int {
	for _, rng := range weight1Ranges {
		if r >= rng.lo && r <= rng.hi {
			return 1
		}
	}
	return 2
}

// Breakdown reports how a weighted length decomposes by character class.
// Weight1 + 2*Weight2 + URLWeight always equals the total weighted length.
type Breakdown struct {
	// Weight1 is the count of characters weighing 1.
	Weight1 int

	// Weight2 is the count of characters weighing 2.
	Weight2 int

	// URLWeight is the total weight contributed by URLs (23 per URL).
	URLWeight int
}

// LengthInfo is the result of weighing a text.
type LengthInfo struct {
	// WeightedLength is the effective character count as X counts it.
	WeightedLength int

	// URLCount is the number of URL-like substrings found.
	URLCount int

	// Breakdown decomposes the weighted length by character class.
	Breakdown Breakdown
}

// Weigh computes the weighted length of text as X counts it.
//
// URL-like substrings are extracted first and each contributes a fixed 23;
// the remaining characters are weighed individually. The empty string weighs
// zero. Weigh does not normalize its input; callers that need NFC form and
// invisible-character stripping should pass the text through Normalize first
// (ValidatePost and Truncate do this).
func Weigh(text string) LengthInfo {
	if text == "" {
		return LengthInfo{}
	}

	urls := urlPattern.FindAllString(text, -1)
	withoutURLs := urlPattern.ReplaceAllString(text, "")

	var weight1, weight2 int
	for _, r := range withoutURLs {
		if RuneWeight(r) == 1 {
			weight1++
		} else {
			weight2++
		}
	}

	urlTotal := len(urls) * urlWeight

	return LengthInfo{
		WeightedLength: weight1 + weight2*2 + urlTotal,
		URLCount:       len(urls),
		Breakdown: Breakdown{
			Weight1:   weight1,
			Weight2:   weight2,
			URLWeight: urlTotal,
		},
	}
}

// WeightedLength returns the weighted character count of text.
// It is shorthand for Weigh(text).WeightedLength.
func WeightedLength(text string) int {
	return Weigh(text).WeightedLength
}
