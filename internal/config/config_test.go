package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

const minimal = `
[database]
host = "localhost"
user = "postgres"
password = "secret"
dbname = "courses"
`

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, minimal))
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.HTTPPort)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, 60*time.Second, cfg.Cache.TTL())
	assert.Equal(t, "@every 1m", cfg.Cache.PurgeSchedule)
	assert.Equal(t, 10.0, cfg.Pricing.DefaultInsurancePercent)
	assert.Equal(t, "EUR", cfg.Pricing.DefaultCurrency)
	assert.Equal(t, "host=localhost port=5432 user=postgres password=secret dbname=courses sslmode=disable", cfg.Database.DSN())
}

func TestLoad_ExplicitZeroInsurance(t *testing.T) {
	cfg, err := Load(writeConfig(t, minimal+"\n[pricing]\ndefault_insurance_percent = 0\n"))
	require.NoError(t, err)
	assert.Equal(t, 0.0, cfg.Pricing.DefaultInsurancePercent)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("DB_PORT", "6543")
	t.Setenv("DB_NAME", "prod")
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load(writeConfig(t, minimal))
	require.NoError(t, err)

	assert.Equal(t, "db.internal", cfg.Database.Host)
	assert.Equal(t, 6543, cfg.Database.Port)
	assert.Equal(t, "prod", cfg.Database.DBName)
	assert.Equal(t, 9090, cfg.Server.HTTPPort)
	assert.Equal(t, "debug", cfg.Logs.Level)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
		env     map[string]string
	}{
		{name: "no database", content: "[server]\nhttp_port = 8080\n"},
		{name: "negative ttl", content: minimal + "\n[cache]\nttl_seconds = -5\n"},
		{name: "negative insurance", content: minimal + "\n[pricing]\ndefault_insurance_percent = -1\n"},
		{name: "bad port env", content: minimal, env: map[string]string{"DB_PORT": "abc"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load(writeConfig(t, tt.content))
			assert.ErrorIs(t, err, ErrInvalidConfig)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	assert.Error(t, err)
}
