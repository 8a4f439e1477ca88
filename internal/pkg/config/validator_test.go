package config

import (
	"testing"
	"time"
)

func TestValidateCronSchedule(t *testing.T) {
	tests := []struct {
		name     string
		schedule string
		wantErr  bool
	}{
		{"daily at 5:30", "30 5 * * *", false},
		{"every 6 hours", "0 */6 * * *", false},
		{"weekdays at 9:30", "30 9 * * 1-5", false},
		{"empty", "", true},
		{"not a cron", "not a cron", true},
		{"too few fields", "30 5 *", true},
		{"minute out of range", "90 5 * * *", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateCronSchedule(tt.schedule)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateCronSchedule(%q) error = %v, wantErr %v", tt.schedule, err, tt.wantErr)
			}
		})
	}
}

func TestValidateTimezone(t *testing.T) {
	tests := []struct {
		name     string
		timezone string
		wantErr  bool
	}{
		{"UTC", "UTC", false},
		{"Tokyo", "Asia/Tokyo", false},
		{"New York", "America/New_York", false},
		{"empty", "", true},
		{"nonexistent", "Mars/Olympus_Mons", true},
		{"UTC offset instead of IANA name", "+09:00", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateTimezone(tt.timezone)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateTimezone(%q) error = %v, wantErr %v", tt.timezone, err, tt.wantErr)
			}
		})
	}
}

func TestValidateDuration(t *testing.T) {
	tests := []struct {
		name     string
		duration time.Duration
		min      time.Duration
		max      time.Duration
		wantErr  bool
	}{
		{"within range", 30 * time.Minute, time.Minute, time.Hour, false},
		{"at minimum", time.Minute, time.Minute, time.Hour, false},
		{"at maximum", time.Hour, time.Minute, time.Hour, false},
		{"below minimum", 30 * time.Second, time.Minute, time.Hour, true},
		{"above maximum", 2 * time.Hour, time.Minute, time.Hour, true},
		{"inverted range", 30 * time.Minute, time.Hour, time.Minute, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateDuration(tt.duration, tt.min, tt.max)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateDuration(%v, %v, %v) error = %v, wantErr %v",
					tt.duration, tt.min, tt.max, err, tt.wantErr)
			}
		})
	}
}

func TestValidateIntRange(t *testing.T) {
	tests := []struct {
		name    string
		value   int
		min     int
		max     int
		wantErr bool
	}{
		{"within range", 8080, 1024, 65535, false},
		{"at minimum", 1024, 1024, 65535, false},
		{"at maximum", 65535, 1024, 65535, false},
		{"below minimum", 80, 1024, 65535, true},
		{"above maximum", 70000, 1024, 65535, true},
		{"inverted range", 5, 10, 1, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateIntRange(tt.value, tt.min, tt.max)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateIntRange(%d, %d, %d) error = %v, wantErr %v",
					tt.value, tt.min, tt.max, err, tt.wantErr)
			}
		})
	}
}

func TestValidatePositiveDuration(t *testing.T) {
	if err := ValidatePositiveDuration(time.Second); err != nil {
		t.Errorf("expected nil for positive duration, got %v", err)
	}
	if err := ValidatePositiveDuration(0); err == nil {
		t.Error("expected error for zero duration")
	}
	if err := ValidatePositiveDuration(-time.Second); err == nil {
		t.Error("expected error for negative duration")
	}
}
