package summarizer

import (
	"testing"
	"time"
)

func TestLoadClaudeConfig_Defaults(t *testing.T) {
	cfg := LoadClaudeConfig()

	if cfg.CharacterLimit != 120 {
		t.Errorf("CharacterLimit = %d, want 120", cfg.CharacterLimit)
	}
	if cfg.Model == "" {
		t.Error("Model is empty")
	}
	if cfg.MaxTokens != 1024 {
		t.Errorf("MaxTokens = %d, want 1024", cfg.MaxTokens)
	}
	if cfg.Timeout != 60*time.Second {
		t.Errorf("Timeout = %v, want 60s", cfg.Timeout)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() = %v", err)
	}
}

func TestLoadClaudeConfig_EnvOverride(t *testing.T) {
	t.Setenv("SUMMARIZER_CHAR_LIMIT", "200")

	cfg := LoadClaudeConfig()
	if cfg.CharacterLimit != 200 {
		t.Errorf("CharacterLimit = %d, want 200", cfg.CharacterLimit)
	}
}

func TestLoadClaudeConfig_InvalidEnvFallsBack(t *testing.T) {
	tests := []struct {
		name  string
		value string
	}{
		{name: "non-numeric", value: "abc"},
		{name: "below range", value: "10"},
		{name: "above range", value: "9999"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("SUMMARIZER_CHAR_LIMIT", tt.value)

			cfg := LoadClaudeConfig()
			if cfg.CharacterLimit != 120 {
				t.Errorf("CharacterLimit = %d, want default 120", cfg.CharacterLimit)
			}
		})
	}
}

func TestClaudeConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*ClaudeConfig)
		wantErr bool
	}{
		{name: "valid", modify: func(c *ClaudeConfig) {}, wantErr: false},
		{name: "bad limit", modify: func(c *ClaudeConfig) { c.CharacterLimit = 10 }, wantErr: true},
		{name: "empty model", modify: func(c *ClaudeConfig) { c.Model = "" }, wantErr: true},
		{name: "zero max tokens", modify: func(c *ClaudeConfig) { c.MaxTokens = 0 }, wantErr: true},
		{name: "zero timeout", modify: func(c *ClaudeConfig) { c.Timeout = 0 }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := LoadClaudeConfig()
			tt.modify(&cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
