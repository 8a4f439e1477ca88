package publish

import (
	"strings"

	"digestpost/internal/utils/text"
)

// minLeadWeight is the smallest weighted budget worth spending on summary
// text next to the URL. Below this a truncated fragment plus ellipsis reads
// worse than the bare link.
const minLeadWeight = 6

// ComposePost builds the post text "summary\nURL" and makes it fit within
// maxLength weighted characters. It returns the final text and whether the
// summary had to be shortened.
//
// When even a minimal summary fragment cannot fit alongside the URL, the
// bare URL is posted on its own.
func ComposePost(summary, articleURL string, maxLength int) (string, bool) {
	if maxLength <= 0 {
		maxLength = text.DefaultMaxLength
	}

	candidate := strings.TrimSpace(summary) + "\n" + articleURL
	result := text.ValidatePost(candidate, maxLength)
	if result.IsValid {
		return result.NormalizedText, false
	}

	available := maxLength - text.WeightedLength("\n"+articleURL)
	if available <= minLeadWeight {
		return articleURL, true
	}

	return text.Truncate(candidate, maxLength, "").Text, true
}
