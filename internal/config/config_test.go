package config

import (
	"testing"
	"time"
)

func TestNewFromEnv(t *testing.T) {
	t.Run("Defaults", func(t *testing.T) {
		t.Setenv("PORT", "")
		t.Setenv("GEMINI_API_KEY", "")
		t.Setenv("DEFAULT_SCHOOL_ID", "")
		t.Setenv("VISION_TIMEOUT_SECONDS", "")
		t.Setenv("COST_ALERT_USD", "")
		t.Setenv("TELEGRAM_BOT_TOKEN", "")
		t.Setenv("TELEGRAM_STAFF_CHAT_ID", "")

		cfg, err := NewFromEnv()
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if cfg.Port != "8080" {
			t.Errorf("Expected default port 8080, got %q", cfg.Port)
		}
		if cfg.DefaultSchoolID != "school_001" {
			t.Errorf("Expected default school id, got %q", cfg.DefaultSchoolID)
		}
		if cfg.VisionTimeout != 30*time.Second {
			t.Errorf("Expected 30s vision timeout, got %v", cfg.VisionTimeout)
		}
		if cfg.CostAlertUSD != 100 {
			t.Errorf("Expected $100 cost alert, got %v", cfg.CostAlertUSD)
		}
		if cfg.DigestEnabled() {
			t.Error("Digest should be disabled without Telegram settings")
		}
	})

	t.Run("Overrides", func(t *testing.T) {
		t.Setenv("PORT", "9000")
		t.Setenv("GEMINI_API_KEY", "gemini_key")
		t.Setenv("VISION_TIMEOUT_SECONDS", "5")
		t.Setenv("COST_ALERT_USD", "42.50")
		t.Setenv("TELEGRAM_BOT_TOKEN", "bot-token")
		t.Setenv("TELEGRAM_STAFF_CHAT_ID", "-100123")

		cfg, err := NewFromEnv()
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if cfg.Port != "9000" {
			t.Errorf("Expected port 9000, got %q", cfg.Port)
		}
		if cfg.GeminiAPIKey != "gemini_key" {
			t.Errorf("Expected Gemini key, got %q", cfg.GeminiAPIKey)
		}
		if cfg.VisionTimeout != 5*time.Second {
			t.Errorf("Expected 5s timeout, got %v", cfg.VisionTimeout)
		}
		if cfg.CostAlertUSD != 42.50 {
			t.Errorf("Expected 42.50 alert, got %v", cfg.CostAlertUSD)
		}
		if !cfg.DigestEnabled() {
			t.Error("Digest should be enabled with token and chat id")
		}
		if cfg.TelegramStaffChatID != -100123 {
			t.Errorf("Expected chat id -100123, got %d", cfg.TelegramStaffChatID)
		}
	})

	t.Run("InvalidTimeout", func(t *testing.T) {
		t.Setenv("VISION_TIMEOUT_SECONDS", "soon")
		if _, err := NewFromEnv(); err == nil {
			t.Fatal("Expected an error for a non-numeric timeout")
		}
	})

	t.Run("InvalidChatID", func(t *testing.T) {
		t.Setenv("VISION_TIMEOUT_SECONDS", "")
		t.Setenv("TELEGRAM_STAFF_CHAT_ID", "staff-room")
		if _, err := NewFromEnv(); err == nil {
			t.Fatal("Expected an error for a non-numeric chat id")
		}
	})
}
