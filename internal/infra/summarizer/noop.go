package summarizer

import (
	"context"

	"digestpost/internal/utils/text"
)

// NoOp is a summarizer that returns the input unchanged, clipped to a short
// digest-like length. Useful for development runs without an API key.
type NoOp struct{}

// NewNoOp creates a new NoOp summarizer.
func NewNoOp() *NoOp {
	return &NoOp{}
}

// Summarize returns the original text clipped to the first 200 runes.
func (n *NoOp) Summarize(_ context.Context, input string) (string, error) {
	const maxRunes = 200
	if text.CountRunes(input) <= maxRunes {
		return input, nil
	}
	runes := []rune(input)
	return string(runes[:maxRunes]) + "...", nil
}
