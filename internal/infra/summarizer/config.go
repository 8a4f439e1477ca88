package summarizer

import "fmt"

// SummarizerConfig is the common interface for summarizer configuration.
// Both the Claude and OpenAI implementations satisfy it so the digest prompt
// and validation behave consistently across providers.
type SummarizerConfig interface {
	// GetCharacterLimit returns the maximum number of characters allowed in
	// a digest. The limit should be within the valid range (50-2000).
	GetCharacterLimit() int

	// Validate checks all configuration fields for validity.
	Validate() error
}

const (
	// minCharLimit is the minimum allowed character limit for digests.
	minCharLimit = 50

	// maxCharLimit is the maximum allowed character limit for digests.
	// Digests are composed into 280-weighted-unit posts, so anything near
	// this ceiling will be truncated at compose time.
	maxCharLimit = 2000
)

// ValidateCharacterLimit validates that the character limit is within the
// valid range (50-2000).
func ValidateCharacterLimit(limit int) error {
	if limit < minCharLimit {
		return fmt.Errorf("character limit %d is below minimum %d", limit, minCharLimit)
	}
	if limit > maxCharLimit {
		return fmt.Errorf("character limit %d exceeds maximum %d", limit, maxCharLimit)
	}
	return nil
}

// clipForPrompt shortens text to at most maxChars characters and appends a
// clipping notice. The cut lands on a rune boundary so multi-byte characters
// are never split into invalid UTF-8.
func clipForPrompt(text string, maxChars int) (string, bool) {
	runes := []rune(text)
	if len(runes) <= maxChars {
		return text, false
	}
	return string(runes[:maxChars]) + "...\n(内容が長いため切り詰めました)", true
}

// buildDigestPrompt constructs the shared summarization prompt. The digest
// must be Japanese-only, polite form, bulleted up to three lines, and
// preserve proper nouns, numbers, and URLs from the source text.
func buildDigestPrompt(charLimit int, text string) string {
	return fmt.Sprintf(`以下の文章を要約してください。
- 出力は必ず日本語のみ。英語は使わないでください。
- です・ます調で簡潔に。
- 箇条書きで最大3行。
- 全体で%d文字以内。
- 固有名詞・数値・URLは原文を尊重。

【文章】
%s`, charLimit, text)
}
