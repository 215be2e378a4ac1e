package config

import (
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if cfg.Port != "8080" {
		t.Errorf("Expected port 8080, got %s", cfg.Port)
	}
	if cfg.SessionTTL != 24*time.Hour {
		t.Errorf("Expected 24h TTL, got %v", cfg.SessionTTL)
	}
	if cfg.RoomGracePeriod != 60*time.Second {
		t.Errorf("Expected 60s grace period, got %v", cfg.RoomGracePeriod)
	}
	if len(cfg.AllowedOrigins) != 2 {
		t.Errorf("Expected 2 default origins, got %v", cfg.AllowedOrigins)
	}
	if cfg.APILimit() != 10 || cfg.WSLimit() != 5 {
		t.Errorf("Unexpected default limits %v/%v", cfg.APILimit(), cfg.WSLimit())
	}
	if cfg.Addr() != ":8080" {
		t.Errorf("Expected :8080, got %s", cfg.Addr())
	}
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("BASE_URL", "https://meet.example.com/")
	t.Setenv("ALLOWED_ORIGINS", " https://a.example , ,https://b.example")
	t.Setenv("ROOM_GRACE_PERIOD", "5s")
	t.Setenv("LOG_LEVEL", "silent")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if cfg.Port != "9090" {
		t.Errorf("Expected port 9090, got %s", cfg.Port)
	}
	if cfg.BaseURL != "https://meet.example.com" {
		t.Errorf("Expected trailing slash trimmed, got %s", cfg.BaseURL)
	}
	if len(cfg.AllowedOrigins) != 2 || cfg.AllowedOrigins[0] != "https://a.example" {
		t.Errorf("Unexpected origins %v", cfg.AllowedOrigins)
	}
	if cfg.RoomGracePeriod != 5*time.Second {
		t.Errorf("Expected 5s, got %v", cfg.RoomGracePeriod)
	}
	if cfg.LogLevel != "silent" {
		t.Errorf("Expected silent, got %s", cfg.LogLevel)
	}
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		key, value string
	}{
		{"RATE_LIMIT_API", "0"},
		{"RATE_LIMIT_WS", "-1"},
		{"NOTIFICATION_BUFFER", "0"},
		{"SESSION_TTL", "forever"},
		{"MAX_MESSAGE_SIZE", "abc"},
		{"COOKIE_SECRET", "too-short"},
	}

	for _, tc := range tests {
		t.Run(tc.key, func(t *testing.T) {
			t.Setenv(tc.key, tc.value)
			if _, err := Load(); err == nil {
				t.Errorf("Expected error for %s=%s", tc.key, tc.value)
			}
		})
	}
}
