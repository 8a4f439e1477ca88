package scraper

import (
	"net/http"

	"digestpost/internal/domain/entity"
	"digestpost/internal/usecase/publish"
)

// ScraperFactory creates scraper instances for non-RSS source types.
// It provides a centralized way to instantiate scrapers with consistent configuration.
type ScraperFactory struct {
	client *http.Client
}

// NewScraperFactory creates a new ScraperFactory with the given HTTP client.
// The HTTP client should be configured with appropriate timeouts and security settings.
func NewScraperFactory(client *http.Client) *ScraperFactory {
	return &ScraperFactory{client: client}
}

// CreateScrapers creates and returns a map of all available scrapers keyed
// by source type. The publish service uses it to route sources to the
// appropriate fetcher.
func (f *ScraperFactory) CreateScrapers() map[string]publish.FeedFetcher {
	return map[string]publish.FeedFetcher{
		entity.SourceTypeNewsletter: NewNewsletterScraper(f.client),
	}
}
