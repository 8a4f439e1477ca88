package text

// ValidationResult describes whether a post fits within X's weighted limit.
// NormalizedText is returned so callers can reuse it without re-normalizing.
type ValidationResult struct {
	// IsValid is true when the weighted length does not exceed MaxLength.
	IsValid bool

	// NormalizedText is the input after Normalize.
	NormalizedText string

	// WeightedLength is the weighted length of NormalizedText.
	WeightedLength int

	// CharsOver is how many weighted characters exceed the limit (0 if valid).
	CharsOver int

	// MaxLength is the limit the text was validated against.
	MaxLength int

	// URLCount is the number of URLs found in the normalized text.
	URLCount int

	// Breakdown decomposes the weighted length by character class.
	Breakdown Breakdown
}

// ValidatePost normalizes text and checks it against the weighted limit.
// A maxLength of zero or less means DefaultMaxLength. Every input produces
// a well-formed result; empty and whitespace-only strings validate as
// trivially valid with length 0.
func ValidatePost(text string, maxLength int) ValidationResult {
	if maxLength <= 0 {
		maxLength = DefaultMaxLength
	}

	normalized := Normalize(text)
	info := Weigh(normalized)

	charsOver := 0
	if info.WeightedLength > maxLength {
		charsOver = info.WeightedLength - maxLength
	}

	return ValidationResult{
		IsValid:        info.WeightedLength <= maxLength,
		NormalizedText: normalized,
		WeightedLength: info.WeightedLength,
		CharsOver:      charsOver,
		MaxLength:      maxLength,
		URLCount:       info.URLCount,
		Breakdown:      info.Breakdown,
	}
}

// IsTooLong reports whether text exceeds the weighted limit after
// normalization. A maxLength of zero or less means DefaultMaxLength.
func IsTooLong(text string, maxLength int) bool {
	return !ValidatePost(text, maxLength).IsValid
}
