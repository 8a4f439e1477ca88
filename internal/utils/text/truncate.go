package text

import "strings"

// TruncationResult is the outcome of a limit-aware truncation.
type TruncationResult struct {
	// Text is the (possibly truncated) fitting text.
	Text string

	// WasTruncated is true when the input had to be shortened.
	WasTruncated bool

	// FinalLength is the weighted length of Text.
	FinalLength int
}

// Truncate shortens text to fit within maxLength weighted characters.
//
// The input is normalized first. Text already within the limit is returned
// unchanged. Otherwise there are two modes:
//
//   - Trailing-URL mode: when the final line (or, for single-line text, the
//     final whitespace-delimited token) starts with a URL, the URL is
//     preserved intact and only the lead text is truncated. If the URL plus
//     ellipsis leave no room at all, the bare URL is returned and the lead
//     text is dropped entirely.
//   - Plain mode: the whole text is truncated and the ellipsis appended.
//
// Truncation points are found by binary search over rune indices, never byte
// offsets, so multi-byte characters are never split. A maxLength of zero or
// less means DefaultMaxLength; an empty ellipsis means DefaultEllipsis.
//
// The returned text satisfies WeightedLength(result.Text) <= maxLength on
// every path except the documented unrecoverable case: a trailing URL whose
// own fixed weight already exceeds maxLength. Callers that need a hard
// guarantee must re-check the returned FinalLength.
func Truncate(text string, maxLength int, ellipsis string) TruncationResult {
	if maxLength <= 0 {
		maxLength = DefaultMaxLength
	}
	if ellipsis == "" {
		ellipsis = DefaultEllipsis
	}

	normalized := Normalize(text)
	info := Weigh(normalized)
	if info.WeightedLength <= maxLength {
		return TruncationResult{
			Text:        normalized,
			FinalLength: info.WeightedLength,
		}
	}

	ellipsisWeight := WeightedLength(ellipsis)

	var result string
	if lead, sep, url, ok := splitTrailingURL(normalized); ok {
		urlWithSep := sep + url
		available := maxLength - WeightedLength(urlWithSep) - ellipsisWeight

		if available <= 0 {
			// Nothing fits alongside the URL; return it bare.
			return TruncationResult{
				Text:         url,
				WasTruncated: true,
				FinalLength:  WeightedLength(url),
			}
		}

		truncatedLead := truncateToBudget(lead, available)
		if truncatedLead == "" {
			result = url
		} else {
			result = truncatedLead + ellipsis + urlWithSep
		}
	} else {
		result = truncateToBudget(normalized, maxLength-ellipsisWeight) + ellipsis
	}

	return TruncationResult{
		Text:         result,
		WasTruncated: true,
		FinalLength:  WeightedLength(result),
	}
}

// TruncatePost returns text shortened to fit maxLength weighted characters,
// using the default ellipsis. A maxLength of zero or less means
// DefaultMaxLength.
func TruncatePost(text string, maxLength int) string {
	return Truncate(text, maxLength, DefaultEllipsis).Text
}

// splitTrailingURL detects a URL at the very end of normalized text.
//
// Multi-line text: the last line must start with a URL (separator "\n").
// Single-line text: the last whitespace-delimited token must start with a
// URL and be preceded by at least one other token (separator " ").
// Detection is a pattern match only; no reachability check is made.
func splitTrailingURL(normalized string) (lead, sep, url string, ok bool) {
	lines := strings.Split(normalized, "\n")
	if len(lines) >= 2 {
		candidate := strings.TrimSpace(lines[len(lines)-1])
		if loc := urlPattern.FindStringIndex(candidate); loc != nil && loc[0] == 0 {
			return strings.Join(lines[:len(lines)-1], "\n"), "\n", candidate, true
		}
		return "", "", "", false
	}

	words := strings.Fields(normalized)
	if len(words) >= 2 {
		candidate := words[len(words)-1]
		if loc := urlPattern.FindStringIndex(candidate); loc != nil && loc[0] == 0 {
			return strings.Join(words[:len(words)-1], " "), " ", candidate, true
		}
	}

	return "", "", "", false
}

// truncateToBudget finds the longest prefix of s whose weighted length does
// not exceed budget, then trims trailing whitespace from it.
//
// The search is a binary search over rune index positions. It relies on the
// weight function being monotonic non-decreasing in prefix length, which
// guarantees a unique maximal cut point.
func truncateToBudget(s string, budget int) string {
	runes := []rune(s)

	lo, hi, best := 0, len(runes), 0
	for lo <= hi {
		mid := (lo + hi) / 2
		if WeightedLength(string(runes[:mid])) <= budget {
			best = mid
			lo = mid + 1
		} else {
			hi = mid - 1
		}
	}

	return strings.TrimRight(string(runes[:best]), " \t\n\r")
}
