package entity

import (
	"fmt"
	"time"
)

// Source types supported by the scraper factory.
const (
	SourceTypeRSS        = "RSS"
	SourceTypeNewsletter = "Newsletter"
)

// Source represents a content source to pull items from.
// FeedURL is the RSS feed URL for RSS sources and the newsletter archive
// page URL for Newsletter sources.
type Source struct {
	Name          string     `yaml:"name"`
	FeedURL       string     `yaml:"feed_url"`
	SourceType    string     `yaml:"source_type"`
	Active        bool       `yaml:"active"`
	LastCrawledAt *time.Time `yaml:"-"`
}

// Validate validates the Source entity fields.
func (s *Source) Validate() error {
	if s.Name == "" {
		return &ValidationError{Field: "name", Message: "name is required"}
	}

	// SourceTypeが空の場合はRSSとみなす（後方互換性）
	if s.SourceType == "" {
		s.SourceType = SourceTypeRSS
	}

	switch s.SourceType {
	case SourceTypeRSS, SourceTypeNewsletter:
	default:
		return fmt.Errorf("invalid source_type: %s (must be RSS or Newsletter)", s.SourceType)
	}

	return ValidateURL(s.FeedURL)
}
