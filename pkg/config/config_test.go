package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromViper_Defaults(t *testing.T) {
	cfg, err := fromViper(viper.New())
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.App.Env)
	assert.Equal(t, "invoiceflow", cfg.App.Name)
	assert.True(t, cfg.Fiscal.StampDutyEnabled)
	assert.Equal(t, 30, cfg.Fiscal.DefaultDueDays)
	assert.Equal(t, time.Hour, cfg.Fiscal.ReminderInterval)
	assert.Equal(t, "0.0.0.0:8080", cfg.HTTP.Addr())
	assert.Equal(t, 25, cfg.DB.MaxConns)
}

func TestFromViper_Overrides(t *testing.T) {
	v := viper.New()
	v.Set("FISCAL_STAMP_DUTY_ENABLED", "false")
	v.Set("FISCAL_DEFAULT_DUE_DAYS", "45")
	v.Set("FISCAL_REMINDER_INTERVAL", "15m")
	v.Set("DB_AUTO_MIGRATE", "true")
	v.Set("DB_PORT", "6543")

	cfg, err := fromViper(v)
	require.NoError(t, err)

	assert.False(t, cfg.Fiscal.StampDutyEnabled)
	assert.Equal(t, 45, cfg.Fiscal.DefaultDueDays)
	assert.Equal(t, 15*time.Minute, cfg.Fiscal.ReminderInterval)
	assert.True(t, cfg.DB.AutoMigrate)
	assert.Equal(t, 6543, cfg.DB.Port)
}

func TestFromViper_IntervaloInvalido(t *testing.T) {
	v := viper.New()
	v.Set("FISCAL_REMINDER_INTERVAL", "cada hora")

	_, err := fromViper(v)
	assert.Error(t, err)
}

func TestDBConfig_ConnectionString(t *testing.T) {
	c := DBConfig{Host: "db", Port: 5432, User: "app", Password: "p@ss/word", DBName: "invoiceflow", SSLMode: "disable"}
	assert.Equal(t, "postgres://app:p%40ss%2Fword@db:5432/invoiceflow?sslmode=disable", c.ConnectionString())

	c.DatabaseURL = "postgres://x@y/z"
	assert.Equal(t, "postgres://x@y/z", c.ConnectionString())
}
