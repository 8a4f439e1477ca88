// Package config loads application configuration that is not simple
// environment scalars, such as the crawled source list.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"digestpost/internal/domain/entity"
)

// defaultSourcesFile is used when SOURCES_FILE is not set.
const defaultSourcesFile = "sources.yaml"

// sourcesFile is the YAML document shape:
//
//	sources:
//	  - name: AI News
//	    feed_url: https://news.example.com/rss
//	    source_type: RSS
//	    active: true
type sourcesFile struct {
	Sources []entity.Source `yaml:"sources"`
}

// LoadSources reads and validates the source list from the given YAML file.
// Source names must be unique since they key the posts history.
func LoadSources(path string) ([]entity.Source, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read sources file %s: %w", path, err)
	}

	var doc sourcesFile
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse sources file %s: %w", path, err)
	}

	if len(doc.Sources) == 0 {
		return nil, fmt.Errorf("sources file %s contains no sources", path)
	}

	seen := make(map[string]bool, len(doc.Sources))
	for i := range doc.Sources {
		src := &doc.Sources[i]
		if src.Name == "" {
			return nil, fmt.Errorf("source %d: name is required", i)
		}
		if seen[src.Name] {
			return nil, fmt.Errorf("duplicate source name %q", src.Name)
		}
		seen[src.Name] = true

		if err := src.Validate(); err != nil {
			return nil, fmt.Errorf("source %q: %w", src.Name, err)
		}
	}

	return doc.Sources, nil
}

// LoadSourcesFromEnv loads the source list from the file named by the
// SOURCES_FILE environment variable, falling back to sources.yaml.
func LoadSourcesFromEnv() ([]entity.Source, error) {
	path := os.Getenv("SOURCES_FILE")
	if path == "" {
		path = defaultSourcesFile
	}
	return LoadSources(path)
}
