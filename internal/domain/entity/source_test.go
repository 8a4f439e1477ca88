package entity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSource_Validate(t *testing.T) {
	tests := []struct {
		name    string
		source  Source
		wantErr bool
	}{
		{
			name: "valid RSS source",
			source: Source{
				Name:       "Google Alerts AI",
				FeedURL:    "https://www.google.com/alerts/feeds/123/456",
				SourceType: SourceTypeRSS,
				Active:     true,
			},
			wantErr: false,
		},
		{
			name: "valid newsletter source",
			source: Source{
				Name:       "AI News",
				FeedURL:    "https://buttondown.com/ainews/archive/",
				SourceType: SourceTypeNewsletter,
				Active:     true,
			},
			wantErr: false,
		},
		{
			name: "empty source type defaults to RSS",
			source: Source{
				Name:    "Legacy Feed",
				FeedURL: "https://example.com/feed.xml",
			},
			wantErr: false,
		},
		{
			name: "unknown source type",
			source: Source{
				Name:       "Bad",
				FeedURL:    "https://example.com/feed.xml",
				SourceType: "Atom",
			},
			wantErr: true,
		},
		{
			name: "missing name",
			source: Source{
				FeedURL:    "https://example.com/feed.xml",
				SourceType: SourceTypeRSS,
			},
			wantErr: true,
		},
		{
			name: "missing feed URL",
			source: Source{
				Name:       "No URL",
				SourceType: SourceTypeRSS,
			},
			wantErr: true,
		},
		{
			name: "private feed URL",
			source: Source{
				Name:       "Internal",
				FeedURL:    "http://192.168.1.10/feed.xml",
				SourceType: SourceTypeRSS,
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.source.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestSource_ValidateDefaultsType(t *testing.T) {
	source := Source{
		Name:    "Legacy Feed",
		FeedURL: "https://example.com/feed.xml",
	}

	assert.NoError(t, source.Validate())
	assert.Equal(t, SourceTypeRSS, source.SourceType)
}

func TestSource_ZeroValue(t *testing.T) {
	var source Source

	assert.Equal(t, "", source.Name)
	assert.Equal(t, "", source.FeedURL)
	assert.Nil(t, source.LastCrawledAt)
	assert.False(t, source.Active)
}

func TestSource_LastCrawledAt(t *testing.T) {
	now := time.Now()
	source := Source{
		Name:          "Test Source",
		FeedURL:       "https://example.com/feed.xml",
		SourceType:    SourceTypeRSS,
		LastCrawledAt: &now,
	}

	assert.Equal(t, &now, source.LastCrawledAt)
}
