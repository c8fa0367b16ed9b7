package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setBotEnv(t *testing.T) {
	t.Helper()
	t.Setenv("DATABASE_DRIVER", "")
	t.Setenv("DATABASE_URL", "postgres://bot@localhost/cycles?sslmode=disable")
	t.Setenv("TELEGRAM_TOKEN", "123:abc")
	t.Setenv("ADMIN_TELEGRAM_ID", "42")
	t.Setenv("LOG_LEVEL", "")
	t.Setenv("ENVIRONMENT", "")
	t.Setenv("TIMEZONE", "")
	t.Setenv("CRON_SPEC_ATTENTION", "")
	t.Setenv("CRON_SPEC_REMINDERS", "")
	t.Setenv("CRON_SPEC_MONTHLY_REPORT", "")
	t.Setenv("REMINDER_HORIZON_DAYS", "")
	t.Setenv("REPORT_WINDOW_MONTHS", "")
}

func TestLoad_Defaults(t *testing.T) {
	setBotEnv(t)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, DriverPostgres, cfg.Driver)
	assert.Equal(t, int64(42), cfg.AdminTelegramID)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, "America/Sao_Paulo", cfg.Location.String())
	assert.Equal(t, "0 9 * * 1-5", cfg.CronSpecAttention)
	assert.Equal(t, "0 8 * * *", cfg.CronSpecReminders)
	assert.Equal(t, "0 10 1 * *", cfg.CronSpecMonthlyReport)
	assert.Equal(t, 7, cfg.ReminderHorizonDays)
	assert.Equal(t, 12, cfg.ReportWindowMonths)
}

func TestLoad_Overrides(t *testing.T) {
	setBotEnv(t)
	t.Setenv("DATABASE_DRIVER", "SQLite")
	t.Setenv("DATABASE_URL", ":memory:")
	t.Setenv("LOG_LEVEL", "DEBUG")
	t.Setenv("TIMEZONE", "UTC")
	t.Setenv("REMINDER_HORIZON_DAYS", "3")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, DriverSQLite, cfg.Driver)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "UTC", cfg.Location.String())
	assert.Equal(t, 3, cfg.ReminderHorizonDays)
}

func TestLoad_MissingRequired(t *testing.T) {
	for _, key := range []string{"DATABASE_URL", "TELEGRAM_TOKEN", "ADMIN_TELEGRAM_ID"} {
		t.Run(key, func(t *testing.T) {
			setBotEnv(t)
			t.Setenv(key, "")
			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), key)
		})
	}
}

func TestLoad_InvalidValues(t *testing.T) {
	cases := map[string]string{
		"ADMIN_TELEGRAM_ID":     "admin",
		"DATABASE_DRIVER":       "mysql",
		"TIMEZONE":              "Mars/Olympus",
		"REMINDER_HORIZON_DAYS": "0",
		"REPORT_WINDOW_MONTHS":  "twelve",
	}
	for key, value := range cases {
		t.Run(key, func(t *testing.T) {
			setBotEnv(t)
			t.Setenv(key, value)
			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestLoadDatabase_DoesNotNeedBotSettings(t *testing.T) {
	setBotEnv(t)
	t.Setenv("TELEGRAM_TOKEN", "")
	t.Setenv("ADMIN_TELEGRAM_ID", "")

	cfg, err := LoadDatabase()
	require.NoError(t, err)
	assert.Equal(t, "postgres://bot@localhost/cycles?sslmode=disable", cfg.DatabaseURL)
}
