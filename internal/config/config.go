package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds the configuration for the application.
type Config struct {
	Port            string
	GeminiAPIKey    string // empty means fallback-only analysis
	VisionTimeout   time.Duration
	DefaultSchoolID string
	CostAlertUSD    float64

	// Telegram staff digest (optional)
	TelegramBotToken    string
	TelegramStaffChatID int64
}

// NewFromEnv creates a new Config object from environment variables.
func NewFromEnv() (*Config, error) {
	cfg := &Config{
		Port:             os.Getenv("PORT"),
		GeminiAPIKey:     os.Getenv("GEMINI_API_KEY"),
		DefaultSchoolID:  os.Getenv("DEFAULT_SCHOOL_ID"),
		TelegramBotToken: os.Getenv("TELEGRAM_BOT_TOKEN"),
		VisionTimeout:    30 * time.Second,
		CostAlertUSD:     100,
	}

	if cfg.Port == "" {
		cfg.Port = "8080"
	}
	if cfg.DefaultSchoolID == "" {
		cfg.DefaultSchoolID = "school_001"
	}

	if v := os.Getenv("VISION_TIMEOUT_SECONDS"); v != "" {
		secs, err := strconv.Atoi(v)
		if err != nil || secs <= 0 {
			return nil, fmt.Errorf("invalid VISION_TIMEOUT_SECONDS value %q", v)
		}
		cfg.VisionTimeout = time.Duration(secs) * time.Second
	}

	if v := os.Getenv("COST_ALERT_USD"); v != "" {
		alert, err := strconv.ParseFloat(v, 64)
		if err != nil || alert < 0 {
			return nil, fmt.Errorf("invalid COST_ALERT_USD value %q", v)
		}
		cfg.CostAlertUSD = alert
	}

	if v := os.Getenv("TELEGRAM_STAFF_CHAT_ID"); v != "" {
		chatID, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid TELEGRAM_STAFF_CHAT_ID value %q", v)
		}
		cfg.TelegramStaffChatID = chatID
	}

	return cfg, nil
}

// DigestEnabled reports whether the Telegram staff digest is configured.
func (c *Config) DigestEnabled() bool {
	return c.TelegramBotToken != "" && c.TelegramStaffChatID != 0
}
