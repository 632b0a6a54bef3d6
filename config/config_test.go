package config

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("DB_URL", "sqlite://test.db")
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("JWT_EXPIRY_HOURS", "48")
	t.Setenv("CORS_ORIGINS", "https://app.example.com, https://admin.example.com ,")
	t.Setenv("PUBLIC_BASE_URL", "https://api.example.com/")
	t.Setenv("APP_ENV", "Production")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Same(t, cfg, App)
	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, 48, cfg.JWTExpiryHours)
	assert.Equal(t, []string{"https://app.example.com", "https://admin.example.com"}, cfg.CORSOrigins)
	assert.Equal(t, "https://api.example.com", cfg.PublicBaseURL)
	assert.True(t, cfg.IsProduction())
	assert.Equal(t, "0 0 * * *", cfg.RolloverSchedule)
	assert.NoError(t, cfg.Validate())
	assert.False(t, cfg.TwilioEnabled())

	lc := cfg.LoggerConfig()
	assert.Equal(t, "info", lc.Level)
}

func TestLoadIgnoresBadExpiry(t *testing.T) {
	t.Setenv("JWT_EXPIRY_HOURS", "-3")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, Defaults().JWTExpiryHours, cfg.JWTExpiryHours)
}

func TestValidate(t *testing.T) {
	err := Defaults().Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DB_URL")
	assert.Contains(t, err.Error(), "JWT_SECRET")
}

func TestConnectDBSQLite(t *testing.T) {
	cfg := Defaults()
	cfg.DatabaseURL = "sqlite://" + filepath.Join(t.TempDir(), "invoicehub.db")

	db, err := ConnectDB(cfg)
	require.NoError(t, err)
	assert.Same(t, db, DB)
	assert.Equal(t, "sqlite", db.Dialector.Name())

	sqlDB, err := db.DB()
	require.NoError(t, err)
	assert.Equal(t, 1, sqlDB.Stats().MaxOpenConnections)
	require.NoError(t, sqlDB.Close())
}
