package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, ":3000", cfg.Addr())
	assert.False(t, cfg.Production())
}

func TestLoadMergesFileOverDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
service:
  env: production
http:
  port: 8080
  shutdown_timeout: 5s
session:
  cookie_secret: s3cret
store:
  driver: sqlite
  database_path: /var/lib/ninjacoders/shop.db
events:
  nats_url: nats://localhost:4222
`), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, 8080, cfg.HTTP.Port)
	assert.Equal(t, 5*time.Second, cfg.HTTP.ShutdownTimeout)
	assert.Equal(t, 15*time.Second, cfg.HTTP.ReadTimeout)
	assert.Equal(t, "ninjacoders", cfg.Service.Name)
	assert.True(t, cfg.Production())
	assert.Equal(t, DriverSQLite, cfg.Store.Driver)
	assert.Equal(t, "nats://localhost:4222", cfg.Events.NATSURL)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestEnvOverrides(t *testing.T) {
	env := map[string]string{
		"PORT":             "4000",
		"ENV":              "production",
		"COOKIE_SECRET":    "from-env",
		"SENDGRID_API_KEY": "SG.key",
		"MAIL_FROM":        "shop@example.com",
		"DATABASE_PATH":    "/tmp/shop.db",
		"NATS_URL":         "nats://nats:4222",
		"UPLOAD_DIR":       "/srv/uploads",
		"LOG_LEVEL":        "debug",
		"LOG_FILE":         "/var/log/shop.log",
	}
	cfg := DefaultConfig()
	require.NoError(t, cfg.applyEnv(func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	}))
	require.NoError(t, cfg.Validate())

	assert.Equal(t, 4000, cfg.HTTP.Port)
	assert.Equal(t, "from-env", cfg.Session.CookieSecret)
	assert.Equal(t, DriverSQLite, cfg.Store.Driver)
	assert.Equal(t, "/tmp/shop.db", cfg.Store.DatabasePath)
	assert.Equal(t, "/srv/uploads", cfg.Uploads.Dir)
	assert.Equal(t, "debug", cfg.Service.LogLevel)
	assert.Equal(t, "/var/log/shop.log", cfg.Service.LogFile)

	bad := DefaultConfig()
	assert.Error(t, bad.applyEnv(func(k string) (string, bool) {
		if k == "PORT" {
			return "eighty", true
		}
		return "", false
	}))
}

func TestValidateCollectsErrors(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Service.Env = "production"
	cfg.HTTP.Port = 0
	cfg.Store.Driver = "postgres"

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "http.port")
	assert.Contains(t, err.Error(), "cookie_secret must be changed")
	assert.Contains(t, err.Error(), "store.driver")
}
