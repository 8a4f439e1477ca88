package scraper

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"digestpost/internal/resilience/circuitbreaker"
	"digestpost/internal/resilience/retry"
	"digestpost/internal/usecase/publish"

	"github.com/PuerkitoBio/goquery"
	"github.com/sony/gobreaker"
)

const (
	maxBodySize = 10 * 1024 * 1024 // 10MB
)

// NewsletterScraper implements FeedFetcher for Buttondown newsletter
// archives. The archive page lists issues as anchors wrapping an
// email-metadata div with the publication date; the newest issue is the
// first anchor whose metadata is non-empty.
//
// Only the latest issue is returned. Issue bodies are not extracted here;
// the content fetcher enhances them downstream.
type NewsletterScraper struct {
	client         *http.Client
	circuitBreaker *circuitbreaker.CircuitBreaker
	retryConfig    retry.Config
}

// NewNewsletterScraper creates a new NewsletterScraper with the given HTTP client.
// It automatically configures circuit breaker and retry logic for resilience.
func NewNewsletterScraper(client *http.Client) *NewsletterScraper {
	return &NewsletterScraper{
		client:         client,
		circuitBreaker: circuitbreaker.New(circuitbreaker.NewsletterConfig()),
		retryConfig:    retry.NewsletterConfig(),
	}
}

// Fetch retrieves the newest issue from a newsletter archive page.
// Returns a single-element slice, or an empty slice when the archive lists
// no issues with metadata.
func (n *NewsletterScraper) Fetch(ctx context.Context, archiveURL string) ([]publish.FeedItem, error) {
	var items []publish.FeedItem

	retryErr := retry.WithBackoff(ctx, n.retryConfig, func() error {
		cbResult, err := n.circuitBreaker.Execute(func() (interface{}, error) {
			return n.doFetch(ctx, archiveURL)
		})

		if err != nil {
			if errors.Is(err, gobreaker.ErrOpenState) {
				slog.Warn("newsletter scraper circuit breaker open, request rejected",
					slog.String("service", "newsletter-scraper"),
					slog.String("url", archiveURL),
					slog.String("state", n.circuitBreaker.State().String()))
			}
			return err
		}

		items = cbResult.([]publish.FeedItem)
		return nil
	})

	if retryErr != nil {
		return nil, retryErr
	}

	return items, nil
}

// doFetch performs the actual scraping without retry or circuit breaker.
func (n *NewsletterScraper) doFetch(ctx context.Context, archiveURL string) ([]publish.FeedItem, error) {
	if err := validateURL(archiveURL); err != nil {
		return nil, fmt.Errorf("URL validation failed: %w", err)
	}

	doc, err := n.fetchHTML(ctx, archiveURL)
	if err != nil {
		return nil, fmt.Errorf("fetch HTML failed: %w", err)
	}

	item, found := n.extractLatestIssue(doc, archiveURL)
	if !found {
		slog.Info("no newsletter issue with metadata found",
			slog.String("url", archiveURL))
		return []publish.FeedItem{}, nil
	}

	return []publish.FeedItem{item}, nil
}

// fetchHTML fetches and parses HTML from the given URL.
func (n *NewsletterScraper) fetchHTML(ctx context.Context, urlStr string) (*goquery.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, urlStr, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("User-Agent", "DigestPostBot/1.0")

	resp, err := n.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("HTTP request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, &retry.HTTPError{
			StatusCode: resp.StatusCode,
			Message:    fmt.Sprintf("unexpected status: %s", resp.Status),
		}
	}

	limitedReader := io.LimitReader(resp.Body, maxBodySize)

	doc, err := goquery.NewDocumentFromReader(limitedReader)
	if err != nil {
		return nil, fmt.Errorf("parse HTML: %w", err)
	}

	return doc, nil
}

// extractLatestIssue finds the first archive anchor carrying a non-empty
// email-metadata div and turns it into a feed item.
func (n *NewsletterScraper) extractLatestIssue(doc *goquery.Document, archiveURL string) (publish.FeedItem, bool) {
	var item publish.FeedItem
	found := false

	doc.Find("a").EachWithBreak(func(i int, anchor *goquery.Selection) bool {
		dateStr := strings.TrimSpace(anchor.Find("div.email-metadata").Text())
		if dateStr == "" {
			return true
		}

		href, exists := anchor.Attr("href")
		href = strings.TrimSpace(href)
		if !exists || href == "" {
			return true
		}

		title := strings.TrimSpace(anchor.Find("div.email-subject").Text())
		if title == "" {
			// Fall back to the anchor text minus the date line.
			title = strings.TrimSpace(strings.Replace(anchor.Text(), dateStr, "", 1))
		}

		item = publish.FeedItem{
			Title:       title,
			URL:         resolveURL(archiveURL, href),
			PublishedAt: parseDate(dateStr),
		}
		found = true
		return false
	})

	return item, found
}

// validateURL checks if a URL is safe to fetch (SSRF prevention).
// For testing purposes, URLs with port 127.0.0.1:xxxxx (httptest servers) are allowed.
func validateURL(urlStr string) error {
	u, err := url.Parse(urlStr)
	if err != nil {
		return fmt.Errorf("invalid URL format: %w", err)
	}

	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("unsupported scheme: %s (only http/https allowed)", u.Scheme)
	}

	// Allow httptest servers (127.0.0.1 with ephemeral ports for testing)
	if u.Hostname() == "127.0.0.1" && u.Port() != "" {
		portNum := 0
		if _, err := fmt.Sscanf(u.Port(), "%d", &portNum); err == nil {
			if portNum >= 32768 && portNum <= 65535 {
				return nil
			}
		}
	}

	ips, err := net.LookupIP(u.Hostname())
	if err != nil {
		return fmt.Errorf("DNS lookup failed: %w", err)
	}

	for _, ip := range ips {
		if isPrivateIP(ip) {
			return fmt.Errorf("private IP address detected: %s (SSRF prevention)", ip)
		}
	}

	return nil
}

// isPrivateIP checks if an IP address is private (RFC 1918, loopback, link-local).
func isPrivateIP(ip net.IP) bool {
	return ip.IsLoopback() || ip.IsPrivate() || ip.IsLinkLocalUnicast()
}

// parseDate parses the archive metadata date. Buttondown renders dates like
// "June 1, 2025"; a few common formats are tried before falling back to now.
func parseDate(dateStr string) time.Time {
	formats := []string{
		"January 2, 2006",
		"Jan 2, 2006",
		"2006-01-02",
		time.RFC3339,
	}

	for _, format := range formats {
		if t, err := time.Parse(format, dateStr); err == nil {
			return t
		}
	}

	slog.Warn("failed to parse newsletter date, using current time",
		slog.String("date_str", dateStr))
	return time.Now()
}

// resolveURL makes href absolute against the archive page URL.
func resolveURL(baseStr, href string) string {
	base, err := url.Parse(baseStr)
	if err != nil {
		return href
	}
	ref, err := url.Parse(href)
	if err != nil {
		return href
	}
	return base.ResolveReference(ref).String()
}
