// Package config provides fail-open environment loading shared by the
// worker and other components: invalid values produce warnings and fall
// back to defaults instead of aborting startup, and every fallback is
// surfaced through Prometheus metrics.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// ConfigLoadResult is the outcome of loading one configuration value.
// Value holds the loaded (or fallback) value; Warnings carries one message
// per fallback applied.
type ConfigLoadResult struct {
	Value           interface{}
	Warnings        []string
	FallbackApplied bool
}

// loaded wraps a successfully loaded value.
func loaded(value interface{}) ConfigLoadResult {
	return ConfigLoadResult{Value: value}
}

// fellBack wraps a fallback to the default value with a warning describing
// what was rejected.
func fellBack(envKey, rawValue string, reason error, defaultValue interface{}) ConfigLoadResult {
	return ConfigLoadResult{
		Value: defaultValue,
		Warnings: []string{fmt.Sprintf(
			"Invalid %s='%s': %v, falling back to default '%v'",
			envKey, rawValue, reason, defaultValue)},
		FallbackApplied: true,
	}
}

// LoadEnvString returns the environment value, or defaultValue when unset.
// No validation is applied; use LoadEnvWithFallback when validation matters.
func LoadEnvString(envKey, defaultValue string) string {
	if value := os.Getenv(envKey); value != "" {
		return value
	}
	return defaultValue
}

// LoadEnvWithFallback loads a string value with validation. An unset
// variable silently yields the default; a set but invalid value yields the
// default plus a warning. It never returns an error.
func LoadEnvWithFallback(envKey, defaultValue string, validator func(string) error) ConfigLoadResult {
	value := os.Getenv(envKey)
	if value == "" {
		return loaded(defaultValue)
	}

	if validator != nil {
		if err := validator(value); err != nil {
			return fellBack(envKey, value, err, defaultValue)
		}
	}
	return loaded(value)
}

// LoadEnvDuration loads a Go duration string ("30s", "5m", "1h30m") with
// optional validation, falling back to the default on parse or validation
// failure.
func LoadEnvDuration(envKey string, defaultValue time.Duration, validator func(time.Duration) error) ConfigLoadResult {
	raw := os.Getenv(envKey)
	if raw == "" {
		return loaded(defaultValue)
	}

	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return fellBack(envKey, raw, err, defaultValue)
	}
	if validator != nil {
		if err := validator(parsed); err != nil {
			return fellBack(envKey, raw, err, defaultValue)
		}
	}
	return loaded(parsed)
}

// LoadEnvInt loads an integer with optional validation, falling back to the
// default on parse or validation failure.
func LoadEnvInt(envKey string, defaultValue int, validator func(int) error) ConfigLoadResult {
	raw := os.Getenv(envKey)
	if raw == "" {
		return loaded(defaultValue)
	}

	parsed, err := strconv.Atoi(raw)
	if err != nil {
		return fellBack(envKey, raw, fmt.Errorf("invalid integer format"), defaultValue)
	}
	if validator != nil {
		if err := validator(parsed); err != nil {
			return fellBack(envKey, raw, err, defaultValue)
		}
	}
	return loaded(parsed)
}

// LoadEnvBool loads a boolean ("true"/"false", "1"/"0", "t"/"f"), falling
// back to the default when the value does not parse.
func LoadEnvBool(envKey string, defaultValue bool) ConfigLoadResult {
	raw := os.Getenv(envKey)
	if raw == "" {
		return loaded(defaultValue)
	}

	parsed, err := strconv.ParseBool(raw)
	if err != nil {
		return fellBack(envKey, raw,
			fmt.Errorf("invalid boolean format, expected 'true' or 'false'"), defaultValue)
	}
	return loaded(parsed)
}
