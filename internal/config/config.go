// Package config loads application configuration from environment variables
// and an optional .env file. All validation happens once in Load; components
// receive the validated Config by explicit passing.
package config

import (
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
)

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Auth     AuthConfig
	Alert    AlertConfig
	SMTP     SMTPConfig
	Sheets   SheetsConfig
	Logging  LoggingConfig
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port string
}

// DatabaseConfig holds sqlite configuration.
type DatabaseConfig struct {
	Path string
}

// AuthConfig holds JWT and key-encryption secrets.
type AuthConfig struct {
	JWTSecret string
	// EncryptionKey is the AES-256 key used for license key material.
	// Must be exactly 32 bytes.
	EncryptionKey string
}

// AlertConfig holds expiry-alert pipeline configuration.
type AlertConfig struct {
	// LeadDays are the whole-day offsets before expiry at which an alert
	// fires, largest first.
	LeadDays []int
	// Schedule is a cron expression for the daily alert cycle.
	Schedule string
	// DispatchTimeoutSeconds bounds a single email or store call.
	DispatchTimeoutSeconds int
}

// SMTPConfig holds email transport configuration. Host may be empty, in
// which case email delivery is disabled and only in-app notifications are
// created.
type SMTPConfig struct {
	Host           string
	Port           int
	Username       string
	Password       string
	From           string
	TimeoutSeconds int
}

// SheetsConfig holds the optional Google Sheets inventory export.
type SheetsConfig struct {
	Enabled        bool
	CredentialPath string
	SpreadsheetID  string
	SheetName      string
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level string
}

// Load reads configuration from the environment (and .env if present) and
// validates it. Callers treat an error as fatal at startup.
func Load() (*Config, error) {
	// .env is optional; real environments set variables directly
	_ = godotenv.Load()

	dispatchTimeout, err := getEnvInt("ALERT_DISPATCH_TIMEOUT_SECONDS", 30)
	if err != nil {
		return nil, err
	}
	smtpPort, err := getEnvInt("SMTP_PORT", 587)
	if err != nil {
		return nil, err
	}
	smtpTimeout, err := getEnvInt("SMTP_TIMEOUT_SECONDS", 30)
	if err != nil {
		return nil, err
	}
	sheetsEnabled, err := getEnvBool("SHEETS_ENABLED", false)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Server: ServerConfig{
			Port: getEnv("PORT", "8080"),
		},
		Database: DatabaseConfig{
			Path: getEnv("DATABASE_PATH", "data/licenses.db"),
		},
		Auth: AuthConfig{
			JWTSecret:     os.Getenv("JWT_SECRET"),
			EncryptionKey: os.Getenv("LICENSE_ENC_KEY"),
		},
		Alert: AlertConfig{
			Schedule:               getEnv("ALERT_SCHEDULE", "0 9 * * *"),
			DispatchTimeoutSeconds: dispatchTimeout,
		},
		SMTP: SMTPConfig{
			Host:           os.Getenv("SMTP_HOST"),
			Port:           smtpPort,
			Username:       os.Getenv("SMTP_USERNAME"),
			Password:       os.Getenv("SMTP_PASSWORD"),
			From:           os.Getenv("SMTP_FROM"),
			TimeoutSeconds: smtpTimeout,
		},
		Sheets: SheetsConfig{
			Enabled:        sheetsEnabled,
			CredentialPath: os.Getenv("SHEETS_CREDENTIALS"),
			SpreadsheetID:  os.Getenv("SHEETS_SPREADSHEET_ID"),
			SheetName:      getEnv("SHEETS_SHEET_NAME", "Licenses"),
		},
		Logging: LoggingConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
	}

	leadDays, err := ParseLeadDays(getEnv("ALERT_DAYS", "7,3,1"))
	if err != nil {
		return nil, fmt.Errorf("invalid ALERT_DAYS: %w", err)
	}
	cfg.Alert.LeadDays = leadDays

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is not set")
	}
	if len(c.Auth.EncryptionKey) != 32 {
		return fmt.Errorf("LICENSE_ENC_KEY must be exactly 32 bytes, got %d", len(c.Auth.EncryptionKey))
	}
	if _, err := cron.ParseStandard(c.Alert.Schedule); err != nil {
		return fmt.Errorf("invalid ALERT_SCHEDULE %q: %w", c.Alert.Schedule, err)
	}
	if c.Alert.DispatchTimeoutSeconds <= 0 {
		return fmt.Errorf("ALERT_DISPATCH_TIMEOUT_SECONDS must be positive")
	}
	if c.SMTP.Host != "" && c.SMTP.From == "" {
		return fmt.Errorf("SMTP_FROM is required when SMTP_HOST is set")
	}
	if c.Sheets.Enabled {
		if c.Sheets.CredentialPath == "" || c.Sheets.SpreadsheetID == "" {
			return fmt.Errorf("SHEETS_CREDENTIALS and SHEETS_SPREADSHEET_ID are required when SHEETS_ENABLED=true")
		}
	}
	return nil
}

// ParseLeadDays parses a comma-separated list of whole-day lead times.
// Duplicates and non-positive values are rejected; the result is sorted
// largest first so scan order is stable.
func ParseLeadDays(s string) ([]int, error) {
	parts := strings.Split(s, ",")
	seen := make(map[int]bool, len(parts))
	days := make([]int, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		d, err := strconv.Atoi(p)
		if err != nil {
			return nil, fmt.Errorf("%q is not a number", p)
		}
		if d <= 0 {
			return nil, fmt.Errorf("lead time must be a positive number of days, got %d", d)
		}
		if seen[d] {
			return nil, fmt.Errorf("duplicate lead time %d", d)
		}
		seen[d] = true
		days = append(days, d)
	}
	if len(days) == 0 {
		return nil, fmt.Errorf("at least one lead time is required")
	}
	sort.Sort(sort.Reverse(sort.IntSlice(days)))
	return days, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %q is not a number", key, v)
	}
	return n, nil
}

func getEnvBool(key string, fallback bool) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("invalid %s: %q is not a boolean", key, v)
	}
	return b, nil
}
