package config

import (
	"fmt"
	"os"
	"strconv"
	"strings" // For LogLevel normalization
	"time"
	_ "time/tzdata" // TIMEZONE must resolve on hosts without a zoneinfo database

	"github.com/joho/godotenv"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// DatabaseConfig holds what the storage layer and the CLI need.
type DatabaseConfig struct {
	Driver      string
	DatabaseURL string
	LogLevel    string
	Environment string
	Location    *time.Location
}

// AppConfig holds all configuration for the bot process.
type AppConfig struct {
	DatabaseConfig
	TelegramToken         string
	AdminTelegramID       int64
	CronSpecAttention     string // Weekday digest of clients needing attention
	CronSpecReminders     string // Daily list of meetings in the next days
	CronSpecMonthlyReport string // Closure report on the first of the month
	ReminderHorizonDays   int
	ReportWindowMonths    int
}

// LoadDatabase reads the storage, logging and timezone settings from
// environment variables and .env file (if present).
func LoadDatabase() (*DatabaseConfig, error) {
	// Attempt to load .env file. Errors are ignored if the file doesn't exist.
	// godotenv.Load will not override existing env variables.
	_ = godotenv.Load()

	cfg := &DatabaseConfig{}

	cfg.Driver = strings.ToLower(os.Getenv("DATABASE_DRIVER"))
	if cfg.Driver == "" {
		cfg.Driver = DriverPostgres
	}
	if cfg.Driver != DriverPostgres && cfg.Driver != DriverSQLite {
		return nil, fmt.Errorf("invalid DATABASE_DRIVER %q: want %q or %q", cfg.Driver, DriverPostgres, DriverSQLite)
	}

	cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is not set")
	}

	cfg.LogLevel = strings.ToLower(os.Getenv("LOG_LEVEL"))
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info" // Default log level
	}

	cfg.Environment = strings.ToLower(os.Getenv("ENVIRONMENT"))
	if cfg.Environment == "" {
		cfg.Environment = "development" // Default environment
	}

	tz := os.Getenv("TIMEZONE")
	if tz == "" {
		tz = "America/Sao_Paulo"
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return nil, fmt.Errorf("invalid TIMEZONE: %w", err)
	}
	cfg.Location = loc

	return cfg, nil
}

// Load reads the full bot configuration.
func Load() (*AppConfig, error) {
	dbCfg, err := LoadDatabase()
	if err != nil {
		return nil, err
	}
	cfg := &AppConfig{DatabaseConfig: *dbCfg}

	cfg.TelegramToken = os.Getenv("TELEGRAM_TOKEN")
	if cfg.TelegramToken == "" {
		return nil, fmt.Errorf("TELEGRAM_TOKEN is not set")
	}

	adminIDStr := os.Getenv("ADMIN_TELEGRAM_ID")
	if adminIDStr == "" {
		return nil, fmt.Errorf("ADMIN_TELEGRAM_ID is not set")
	}
	cfg.AdminTelegramID, err = strconv.ParseInt(adminIDStr, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid ADMIN_TELEGRAM_ID: %w", err)
	}

	cfg.CronSpecAttention = os.Getenv("CRON_SPEC_ATTENTION")
	if cfg.CronSpecAttention == "" {
		cfg.CronSpecAttention = "0 9 * * 1-5" // Default: 9 AM on weekdays
	}

	cfg.CronSpecReminders = os.Getenv("CRON_SPEC_REMINDERS")
	if cfg.CronSpecReminders == "" {
		cfg.CronSpecReminders = "0 8 * * *" // Default: 8 AM daily
	}

	cfg.CronSpecMonthlyReport = os.Getenv("CRON_SPEC_MONTHLY_REPORT")
	if cfg.CronSpecMonthlyReport == "" {
		cfg.CronSpecMonthlyReport = "0 10 1 * *" // Default: 10 AM on the 1st
	}

	cfg.ReminderHorizonDays, err = positiveInt("REMINDER_HORIZON_DAYS", 7)
	if err != nil {
		return nil, err
	}
	cfg.ReportWindowMonths, err = positiveInt("REPORT_WINDOW_MONTHS", 12)
	if err != nil {
		return nil, err
	}

	return cfg, nil
}

func positiveInt(key string, def int) (int, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	if n <= 0 {
		return 0, fmt.Errorf("invalid %s: must be positive, got %d", key, n)
	}
	return n, nil
}
