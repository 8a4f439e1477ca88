// Package urlnorm canonicalizes article URLs before they are summarized,
// posted, or used as dedup keys. Feed entries often carry Google Alerts
// redirect wrappers, shortener hops, and tracking query parameters; the same
// article must always normalize to the same URL.
package urlnorm

import (
	"context"
	"crypto/tls"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"regexp"
	"sort"
	"strings"
	"time"

	"digestpost/internal/domain/entity"
)

// trackedParams are query parameters that identify the click, not the
// article. They are removed along with any utm_* parameter.
var trackedParams = map[string]bool{
	"gclid":  true,
	"fbclid": true,
	"gbraid": true,
	"wbraid": true,
	"yclid":  true,
	"mc_cid": true,
	"mc_eid": true,
	"igshid": true,
	"ved":    true,
	"ei":     true,
	"oq":     true,
}

// Config controls redirect resolution.
type Config struct {
	// Timeout bounds a single resolution request.
	Timeout time.Duration

	// MaxRedirects bounds the redirect chain length.
	MaxRedirects int

	// UserAgent is sent on resolution requests.
	UserAgent string

	// DenyPrivateIPs blocks resolution of URLs that point at private
	// networks. Disabled only in tests against local servers.
	DenyPrivateIPs bool
}

// DefaultConfig returns the standard normalizer configuration.
func DefaultConfig() Config {
	return Config{
		Timeout:        10 * time.Second,
		MaxRedirects:   5,
		UserAgent:      "DigestPostBot/1.0",
		DenyPrivateIPs: true,
	}
}

// Validate checks configuration values.
func (c Config) Validate() error {
	if c.Timeout <= 0 {
		return &entity.ValidationError{Field: "timeout", Message: "timeout must be positive"}
	}
	if c.MaxRedirects <= 0 {
		return &entity.ValidationError{Field: "max_redirects", Message: "max_redirects must be positive"}
	}
	return nil
}

// Normalizer resolves and cleans article URLs.
// It is safe for concurrent use.
type Normalizer struct {
	client *http.Client
	config Config
}

// New creates a Normalizer. Redirect targets are validated against private
// networks the same way fetched article URLs are.
func New(config Config) *Normalizer {
	client := &http.Client{
		Timeout: config.Timeout,
		Transport: &http.Transport{
			MaxIdleConns:        100,
			MaxIdleConnsPerHost: 10,
			IdleConnTimeout:     90 * time.Second,
			TLSClientConfig: &tls.Config{
				MinVersion: tls.VersionTLS12,
			},
		},
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) >= config.MaxRedirects {
				return fmt.Errorf("too many redirects: %d", len(via))
			}
			if config.DenyPrivateIPs {
				if err := entity.ValidateURL(req.URL.String()); err != nil {
					return fmt.Errorf("redirect target validation failed: %w", err)
				}
			}
			return nil
		},
	}

	return &Normalizer{client: client, config: config}
}

// Normalize canonicalizes rawURL: unwraps Google redirect links, follows HTTP
// redirects to the final URL, and strips tracking parameters. Resolution
// failures degrade gracefully to the unwrapped, stripped URL so a slow or
// broken redirect hop never loses the article.
func (n *Normalizer) Normalize(ctx context.Context, rawURL string) string {
	unwrapped := UnwrapGoogleRedirect(rawURL)

	resolved, err := n.resolve(ctx, unwrapped)
	if err != nil {
		slog.Debug("redirect resolution failed, using unwrapped URL",
			slog.String("url", unwrapped),
			slog.String("error", err.Error()))
		resolved = unwrapped
	}

	return StripTracking(resolved)
}

// NormalizeTextURLs rewrites every URL inside text to its normalized form.
// Longer matches are replaced first so a URL that is a prefix of another
// never clobbers it.
func (n *Normalizer) NormalizeTextURLs(ctx context.Context, text string) string {
	urls := findURLs(text)
	if len(urls) == 0 {
		return text
	}

	sort.Slice(urls, func(i, j int) bool { return len(urls[i]) > len(urls[j]) })

	for _, u := range urls {
		normalized := n.Normalize(ctx, u)
		if normalized != u {
			text = strings.ReplaceAll(text, u, normalized)
		}
	}
	return text
}

// resolve follows redirects to the canonical URL. HEAD is tried first to
// avoid transferring bodies; servers that reject HEAD get a GET.
func (n *Normalizer) resolve(ctx context.Context, rawURL string) (string, error) {
	if n.config.DenyPrivateIPs {
		if err := entity.ValidateURL(rawURL); err != nil {
			return "", err
		}
	}

	finalURL, err := n.doResolve(ctx, http.MethodHead, rawURL)
	if err == nil {
		return finalURL, nil
	}

	return n.doResolve(ctx, http.MethodGet, rawURL)
}

func (n *Normalizer) doResolve(ctx context.Context, method, rawURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, method, rawURL, nil)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", n.config.UserAgent)

	resp, err := n.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("resolve %s: %w", method, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode >= 400 {
		return "", fmt.Errorf("resolve %s: HTTP %d", method, resp.StatusCode)
	}

	if resp.Request != nil && resp.Request.URL != nil {
		return resp.Request.URL.String(), nil
	}
	return rawURL, nil
}

// UnwrapGoogleRedirect extracts the destination from a Google redirect
// wrapper. Three forms are recognized: /url?url=...|q=... (Google Alerts),
// /imgres?imgurl=...|url=... (image results), and ?url=...|q=... on any path
// of a news.google.* host. Non-Google URLs are returned unchanged.
func UnwrapGoogleRedirect(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}

	host := strings.TrimPrefix(parsed.Hostname(), "www.")
	isGoogle := host == "google.com" || strings.HasSuffix(host, ".google.com")

	var keys []string
	switch {
	case isGoogle && parsed.Path == "/url":
		keys = []string{"url", "q"}
	case isGoogle && parsed.Path == "/imgres":
		keys = []string{"imgurl", "url"}
	case strings.HasPrefix(parsed.Hostname(), "news.google."):
		keys = []string{"url", "q"}
	default:
		return rawURL
	}

	query := parsed.Query()
	for _, key := range keys {
		if target := query.Get(key); target != "" {
			if _, err := url.Parse(target); err == nil {
				return target
			}
		}
	}
	return rawURL
}

// StripTracking removes tracking query parameters and the fragment from a
// URL. Parameter order of the survivors is preserved by url.Values encoding
// (sorted keys), which keeps the result deterministic.
func StripTracking(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}

	query := parsed.Query()
	changed := false
	for key := range query {
		if trackedParams[key] || strings.HasPrefix(strings.ToLower(key), "utm_") {
			query.Del(key)
			changed = true
		}
	}

	if changed || parsed.Fragment != "" {
		parsed.RawQuery = query.Encode()
		parsed.Fragment = ""
		return parsed.String()
	}
	return rawURL
}

var urlPattern = regexp.MustCompile(`https?://[^\s<>"]+`)

// findURLs returns the distinct URLs appearing in text.
func findURLs(text string) []string {
	matches := urlPattern.FindAllString(text, -1)
	seen := make(map[string]bool, len(matches))
	urls := make([]string, 0, len(matches))
	for _, m := range matches {
		if !seen[m] {
			seen[m] = true
			urls = append(urls, m)
		}
	}
	return urls
}
