package scraper

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"digestpost/internal/resilience/retry"
)

const archiveHTML = `<!DOCTYPE html>
<html>
<body>
  <a href="/settings">Settings</a>
  <a href="/archive/weekly-digest-42/">
    <div class="email-subject">Weekly AI Digest #42</div>
    <div class="email-metadata">June 1, 2025</div>
  </a>
  <a href="/archive/weekly-digest-41/">
    <div class="email-subject">Weekly AI Digest #41</div>
    <div class="email-metadata">May 25, 2025</div>
  </a>
</body>
</html>`

func TestNewsletterScraper_Fetch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(archiveHTML))
	}))
	defer server.Close()

	scraper := NewNewsletterScraper(server.Client())
	items, err := scraper.Fetch(context.Background(), server.URL+"/archive/")
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}

	if len(items) != 1 {
		t.Fatalf("got %d items, want 1 (latest issue only)", len(items))
	}

	item := items[0]
	if item.Title != "Weekly AI Digest #42" {
		t.Errorf("Title = %q", item.Title)
	}
	wantURL := server.URL + "/archive/weekly-digest-42/"
	if item.URL != wantURL {
		t.Errorf("URL = %q, want %q", item.URL, wantURL)
	}
	wantDate := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	if !item.PublishedAt.Equal(wantDate) {
		t.Errorf("PublishedAt = %v, want %v", item.PublishedAt, wantDate)
	}
	if item.Content != "" {
		t.Errorf("Content = %q, want empty (body is fetched downstream)", item.Content)
	}
}

func TestNewsletterScraper_FetchEmptyArchive(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html><body><a href="/about">About</a></body></html>`))
	}))
	defer server.Close()

	scraper := NewNewsletterScraper(server.Client())
	items, err := scraper.Fetch(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if len(items) != 0 {
		t.Errorf("got %d items, want 0", len(items))
	}
}

func TestNewsletterScraper_FetchNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	scraper := NewNewsletterScraper(server.Client())
	_, err := scraper.Fetch(context.Background(), server.URL)
	if err == nil {
		t.Fatal("Fetch() error = nil, want HTTP error")
	}

	var httpErr *retry.HTTPError
	if !errors.As(err, &httpErr) {
		t.Fatalf("error %v is not an HTTPError", err)
	}
	if httpErr.StatusCode != http.StatusNotFound {
		t.Errorf("StatusCode = %d, want 404", httpErr.StatusCode)
	}
}

func TestNewsletterScraper_TitleFallbackToAnchorText(t *testing.T) {
	html := `<html><body>
<a href="/archive/issue-1/">Plain Title Issue <div class="email-metadata">June 1, 2025</div></a>
</body></html>`
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(html))
	}))
	defer server.Close()

	scraper := NewNewsletterScraper(server.Client())
	items, err := scraper.Fetch(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("got %d items, want 1", len(items))
	}
	if items[0].Title != "Plain Title Issue" {
		t.Errorf("Title = %q, want anchor text fallback", items[0].Title)
	}
}

func TestNewsletterScraper_SkipsAnchorsWithoutHref(t *testing.T) {
	html := `<html><body>
<a><div class="email-metadata">June 2, 2025</div></a>
<a href="/archive/issue-2/"><div class="email-subject">Second</div><div class="email-metadata">June 1, 2025</div></a>
</body></html>`
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(html))
	}))
	defer server.Close()

	scraper := NewNewsletterScraper(server.Client())
	items, err := scraper.Fetch(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("got %d items, want 1", len(items))
	}
	if items[0].Title != "Second" {
		t.Errorf("Title = %q, want the anchor with an href", items[0].Title)
	}
}

func TestParseDate(t *testing.T) {
	tests := []struct {
		name    string
		dateStr string
		want    time.Time
		wantNow bool
	}{
		{name: "full month name", dateStr: "June 1, 2025", want: time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)},
		{name: "abbreviated month", dateStr: "Jun 1, 2025", want: time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)},
		{name: "ISO date", dateStr: "2025-06-01", want: time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)},
		{name: "unparseable falls back to now", dateStr: "last Tuesday", wantNow: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := time.Now()
			got := parseDate(tt.dateStr)
			if tt.wantNow {
				if got.Before(before) {
					t.Errorf("parseDate(%q) = %v, expected a recent timestamp", tt.dateStr, got)
				}
				return
			}
			if !got.Equal(tt.want) {
				t.Errorf("parseDate(%q) = %v, want %v", tt.dateStr, got, tt.want)
			}
		})
	}
}

func TestResolveURL(t *testing.T) {
	tests := []struct {
		name string
		base string
		href string
		want string
	}{
		{name: "relative path", base: "https://example.buttondown.com/archive/", href: "/archive/issue-1/", want: "https://example.buttondown.com/archive/issue-1/"},
		{name: "absolute href unchanged", base: "https://example.buttondown.com/archive/", href: "https://other.example.com/post", want: "https://other.example.com/post"},
		{name: "relative without leading slash", base: "https://example.buttondown.com/archive/", href: "issue-1/", want: "https://example.buttondown.com/archive/issue-1/"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := resolveURL(tt.base, tt.href); got != tt.want {
				t.Errorf("resolveURL(%q, %q) = %q, want %q", tt.base, tt.href, got, tt.want)
			}
		})
	}
}

func TestScraperFactory_CreateScrapers(t *testing.T) {
	factory := NewScraperFactory(http.DefaultClient)
	scrapers := factory.CreateScrapers()

	if _, ok := scrapers["Newsletter"]; !ok {
		t.Error("CreateScrapers() missing Newsletter scraper")
	}
	if len(scrapers) != 1 {
		t.Errorf("CreateScrapers() returned %d scrapers, want 1", len(scrapers))
	}
}
