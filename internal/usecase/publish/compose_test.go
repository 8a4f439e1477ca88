package publish

import (
	"strings"
	"testing"

	"digestpost/internal/utils/text"
)

func TestComposePost_FitsUnchanged(t *testing.T) {
	got, truncated := ComposePost("短い要約です。", "https://example.com/a", 280)

	want := "短い要約です。\nhttps://example.com/a"
	if got != want {
		t.Errorf("ComposePost() = %q, want %q", got, want)
	}
	if truncated {
		t.Error("truncated = true, expected false")
	}
}

func TestComposePost_TruncatesLongSummary(t *testing.T) {
	summary := strings.Repeat("あ", 200)
	got, truncated := ComposePost(summary, "https://example.com/x", 280)

	want := strings.Repeat("あ", 127) + "…\nhttps://example.com/x"
	if got != want {
		t.Errorf("ComposePost() = %q, want %q", got, want)
	}
	if !truncated {
		t.Error("truncated = false, expected true")
	}
	if text.WeightedLength(got) != 280 {
		t.Errorf("weighted length = %d, want 280", text.WeightedLength(got))
	}
}

func TestComposePost_BareURLWhenNoRoom(t *testing.T) {
	// available = 25 - 24 = 1, below the minimum worth showing.
	got, truncated := ComposePost("要約テキスト", "https://example.com", 25)

	if got != "https://example.com" {
		t.Errorf("ComposePost() = %q, want bare URL", got)
	}
	if !truncated {
		t.Error("truncated = false, expected true")
	}
}

func TestComposePost_MinimumLeadBoundary(t *testing.T) {
	// At 30 the lead budget is exactly 6, still not worth it; at 31 a
	// two-character fragment fits.
	got, _ := ComposePost("要約テキスト", "https://example.com", 30)
	if got != "https://example.com" {
		t.Errorf("ComposePost(max=30) = %q, want bare URL", got)
	}

	got, truncated := ComposePost("要約テキスト", "https://example.com", 31)
	want := "要約…\nhttps://example.com"
	if got != want {
		t.Errorf("ComposePost(max=31) = %q, want %q", got, want)
	}
	if !truncated {
		t.Error("truncated = false, expected true")
	}
}

func TestComposePost_EmptySummary(t *testing.T) {
	got, truncated := ComposePost("", "https://example.com/a", 280)

	if got != "https://example.com/a" {
		t.Errorf("ComposePost() = %q, want bare URL", got)
	}
	if truncated {
		t.Error("truncated = true, expected false")
	}
}

func TestComposePost_ZeroMaxLengthUsesDefault(t *testing.T) {
	summary := strings.Repeat("A", 300)
	got, truncated := ComposePost(summary, "https://example.com/a", 0)

	if !truncated {
		t.Error("truncated = false, expected true")
	}
	if l := text.WeightedLength(got); l > text.DefaultMaxLength {
		t.Errorf("weighted length = %d, exceeds default limit", l)
	}
}

func TestComposePost_AlwaysEndsWithURL(t *testing.T) {
	summaries := []string{
		"短い要約",
		strings.Repeat("詳細な要約テキスト。", 40),
		strings.Repeat("A", 400),
	}

	for _, summary := range summaries {
		got, _ := ComposePost(summary, "https://example.com/article", 280)
		if !strings.HasSuffix(got, "https://example.com/article") {
			t.Errorf("ComposePost(%.20q...) = %q does not end with the URL", summary, got)
		}
		if l := text.WeightedLength(got); l > 280 {
			t.Errorf("ComposePost(%.20q...): weighted length %d exceeds 280", summary, l)
		}
	}
}
