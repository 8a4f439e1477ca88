package fetcher_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"digestpost/internal/infra/fetcher"
	"digestpost/internal/usecase/publish"
)

const articleHTML = `<!DOCTYPE html>
<html>
<head><title>Test Article</title></head>
<body>
	<article>
		<h1>Test Article Title</h1>
		<p>This is the first paragraph of the article content.</p>
		<p>This is the second paragraph with more important information.</p>
		<p>This is the third paragraph to ensure we have enough content.</p>
	</article>
</body>
</html>`

func testConfig() fetcher.ContentFetchConfig {
	config := fetcher.DefaultConfig()
	// httptestサーバーはループバックなのでSSRFチェックを無効化
	config.DenyPrivateIPs = false
	return config
}

func TestFetchContent_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("User-Agent") != "DigestPostBot/1.0" {
			t.Errorf("User-Agent = %q, want DigestPostBot/1.0", r.Header.Get("User-Agent"))
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(articleHTML))
	}))
	defer server.Close()

	contentFetcher := fetcher.NewReadabilityFetcher(testConfig())

	content, err := contentFetcher.FetchContent(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("FetchContent() error = %v", err)
	}

	if !strings.Contains(content, "first paragraph") {
		t.Errorf("content missing article text: %q", content)
	}
	if strings.Contains(content, "<p>") {
		t.Errorf("content should be plain text, got %q", content)
	}
}

func TestFetchContent_InvalidURL(t *testing.T) {
	contentFetcher := fetcher.NewReadabilityFetcher(testConfig())

	tests := []struct {
		name string
		url  string
	}{
		{name: "unsupported scheme", url: "ftp://example.com/file"},
		{name: "empty hostname", url: "https:///path-only"},
		{name: "javascript scheme", url: "javascript:alert(1)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := contentFetcher.FetchContent(context.Background(), tt.url)
			if !errors.Is(err, publish.ErrInvalidURL) {
				t.Errorf("FetchContent(%q) error = %v, want ErrInvalidURL", tt.url, err)
			}
		})
	}
}

func TestFetchContent_PrivateIPBlocked(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(articleHTML))
	}))
	defer server.Close()

	config := fetcher.DefaultConfig() // DenyPrivateIPs remains true
	contentFetcher := fetcher.NewReadabilityFetcher(config)

	_, err := contentFetcher.FetchContent(context.Background(), server.URL)
	if !errors.Is(err, publish.ErrPrivateIP) {
		t.Errorf("FetchContent() error = %v, want ErrPrivateIP", err)
	}
}

func TestFetchContent_NonOKStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	contentFetcher := fetcher.NewReadabilityFetcher(testConfig())

	if _, err := contentFetcher.FetchContent(context.Background(), server.URL); err == nil {
		t.Fatal("FetchContent() error = nil, want status error")
	}
}

func TestFetchContent_BodyTooLarge(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = fmt.Fprint(w, "<html><body><p>")
		filler := strings.Repeat("x", 4096)
		for i := 0; i < 10; i++ {
			_, _ = fmt.Fprint(w, filler)
		}
		_, _ = fmt.Fprint(w, "</p></body></html>")
	}))
	defer server.Close()

	config := testConfig()
	config.MaxBodySize = 8 * 1024

	contentFetcher := fetcher.NewReadabilityFetcher(config)

	_, err := contentFetcher.FetchContent(context.Background(), server.URL)
	if !errors.Is(err, publish.ErrBodyTooLarge) {
		t.Errorf("FetchContent() error = %v, want ErrBodyTooLarge", err)
	}
}

func TestFetchContent_Timeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(500 * time.Millisecond)
		_, _ = w.Write([]byte(articleHTML))
	}))
	defer server.Close()

	config := testConfig()
	config.Timeout = 50 * time.Millisecond

	contentFetcher := fetcher.NewReadabilityFetcher(config)

	_, err := contentFetcher.FetchContent(context.Background(), server.URL)
	if !errors.Is(err, publish.ErrTimeout) {
		t.Errorf("FetchContent() error = %v, want ErrTimeout", err)
	}
}

func TestFetchContent_TooManyRedirects(t *testing.T) {
	var server *httptest.Server
	server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, server.URL+r.URL.Path+"x", http.StatusFound)
	}))
	defer server.Close()

	config := testConfig()
	config.MaxRedirects = 2

	contentFetcher := fetcher.NewReadabilityFetcher(config)

	_, err := contentFetcher.FetchContent(context.Background(), server.URL)
	if !errors.Is(err, publish.ErrTooManyRedirects) {
		t.Errorf("FetchContent() error = %v, want ErrTooManyRedirects", err)
	}
}

func TestFetchContent_FollowsRedirects(t *testing.T) {
	mux := http.NewServeMux()
	server := httptest.NewServer(mux)
	defer server.Close()

	mux.HandleFunc("/start", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, server.URL+"/article", http.StatusMovedPermanently)
	})
	mux.HandleFunc("/article", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(articleHTML))
	})

	contentFetcher := fetcher.NewReadabilityFetcher(testConfig())

	content, err := contentFetcher.FetchContent(context.Background(), server.URL+"/start")
	if err != nil {
		t.Fatalf("FetchContent() error = %v", err)
	}
	if !strings.Contains(content, "first paragraph") {
		t.Errorf("content missing article text after redirect: %q", content)
	}
}

func TestFetchContent_EmptyContent(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(`<html><head><title>t</title></head><body></body></html>`))
	}))
	defer server.Close()

	contentFetcher := fetcher.NewReadabilityFetcher(testConfig())

	_, err := contentFetcher.FetchContent(context.Background(), server.URL)
	if !errors.Is(err, publish.ErrReadabilityFailed) {
		t.Errorf("FetchContent() error = %v, want ErrReadabilityFailed", err)
	}
}

func TestFetchContent_ContextCanceled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		_, _ = w.Write([]byte(articleHTML))
	}))
	defer server.Close()

	contentFetcher := fetcher.NewReadabilityFetcher(testConfig())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := contentFetcher.FetchContent(ctx, server.URL); err == nil {
		t.Fatal("FetchContent() error = nil, want cancellation error")
	}
}
