package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"digestpost/internal/domain/entity"
)

func writeSourcesFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sources.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadSources(t *testing.T) {
	path := writeSourcesFile(t, `
sources:
  - name: AI News
    feed_url: https://example.com/rss
    source_type: RSS
    active: true
  - name: Weekly Digest
    feed_url: https://example.com/archive/
    source_type: Newsletter
    active: true
`)

	sources, err := LoadSources(path)
	require.NoError(t, err)
	require.Len(t, sources, 2)

	assert.Equal(t, "AI News", sources[0].Name)
	assert.Equal(t, entity.SourceTypeRSS, sources[0].SourceType)
	assert.True(t, sources[0].Active)

	assert.Equal(t, "Weekly Digest", sources[1].Name)
	assert.Equal(t, entity.SourceTypeNewsletter, sources[1].SourceType)
}

func TestLoadSources_DefaultsTypeToRSS(t *testing.T) {
	path := writeSourcesFile(t, `
sources:
  - name: Untyped
    feed_url: https://example.com/feed
    active: true
`)

	sources, err := LoadSources(path)
	require.NoError(t, err)
	assert.Equal(t, entity.SourceTypeRSS, sources[0].SourceType)
}

func TestLoadSources_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		errMsg  string
	}{
		{
			name:    "empty file",
			content: "sources: []",
			errMsg:  "no sources",
		},
		{
			name: "missing name",
			content: `
sources:
  - feed_url: https://example.com/rss
`,
			errMsg: "name is required",
		},
		{
			name: "duplicate name",
			content: `
sources:
  - name: Dup
    feed_url: https://example.com/a
  - name: Dup
    feed_url: https://example.com/b
`,
			errMsg: "duplicate source name",
		},
		{
			name: "invalid source type",
			content: `
sources:
  - name: Bad
    feed_url: https://example.com/rss
    source_type: Atom
`,
			errMsg: "",
		},
		{
			name:    "malformed yaml",
			content: "sources: [unclosed",
			errMsg:  "parse sources file",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeSourcesFile(t, tt.content)
			_, err := LoadSources(path)
			require.Error(t, err)
			if tt.errMsg != "" {
				assert.Contains(t, err.Error(), tt.errMsg)
			}
		})
	}
}

func TestLoadSources_FileMissing(t *testing.T) {
	_, err := LoadSources(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read sources file")
}

func TestLoadSourcesFromEnv(t *testing.T) {
	path := writeSourcesFile(t, `
sources:
  - name: EnvSource
    feed_url: https://example.com/rss
`)
	t.Setenv("SOURCES_FILE", path)

	sources, err := LoadSourcesFromEnv()
	require.NoError(t, err)
	require.Len(t, sources, 1)
	assert.Equal(t, "EnvSource", sources[0].Name)
}
