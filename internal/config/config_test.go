package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{"SECRET_KEY", "USER_SOURCE", "LOG_LEVEL", "DB_HOST", "DB_USER",
		"DB_PASSWORD", "DB_NAME", "TOKEN_TTL", "PORT", "DB_PORT", "MAX_UPLOAD_BYTES"} {
		t.Setenv(k, "")
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	clearEnv(t)
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)

	assert.Equal(t, 8000, cfg.Server.Port)
	assert.Equal(t, int64(0), cfg.Server.MaxUploadBytes)
	assert.Equal(t, time.Hour, cfg.Auth.TokenTTL)
	assert.Equal(t, UserSourceConfig, cfg.Auth.UserSource)
	assert.True(t, cfg.UsesDefaultSecret())
	assert.Equal(t, []string{"*"}, cfg.CORS.AllowedOrigins)
	assert.True(t, cfg.CORS.AllowCredentials)

	users, placeholder := cfg.ConfigUsers()
	assert.True(t, placeholder)
	require.Len(t, users, 1)
	assert.Equal(t, DefaultUsername, users[0].Username)
	assert.Equal(t, DefaultPassword, users[0].Password)
}

func TestLoadYAML(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, `
server:
  port: 9090
  maxUploadBytes: 1048576
auth:
  secretKey: from-file
  tokenTTL: 30m
  users:
    - username: alice
      password: wonderland
cors:
  allowedOrigins: ["http://localhost:3000"]
  allowCredentials: false
sentiment:
  stripMarkup: true
log:
  level: debug
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, int64(1048576), cfg.Server.MaxUploadBytes)
	assert.Equal(t, "from-file", cfg.Auth.SecretKey)
	assert.False(t, cfg.UsesDefaultSecret())
	assert.Equal(t, 30*time.Minute, cfg.Auth.TokenTTL)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.CORS.AllowedOrigins)
	assert.False(t, cfg.CORS.AllowCredentials)
	assert.True(t, cfg.Sentiment.StripMarkup)
	assert.Equal(t, slog.LevelDebug, cfg.LogLevel())

	users, placeholder := cfg.ConfigUsers()
	assert.False(t, placeholder)
	require.Len(t, users, 1)
	assert.Equal(t, "alice", users[0].Username)
}

func TestEnvOverrides(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, "auth:\n  secretKey: from-file\n")

	t.Run("SECRET_KEY wins over file", func(t *testing.T) {
		t.Setenv("SECRET_KEY", "from-env")
		cfg, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, "from-env", cfg.Auth.SecretKey)
	})

	t.Run("numeric and duration values", func(t *testing.T) {
		t.Setenv("PORT", "7000")
		t.Setenv("TOKEN_TTL", "2h")
		t.Setenv("MAX_UPLOAD_BYTES", "2048")
		t.Setenv("USER_SOURCE", "MySQL")
		t.Setenv("DB_PORT", "3307")
		cfg, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, 7000, cfg.Server.Port)
		assert.Equal(t, 2*time.Hour, cfg.Auth.TokenTTL)
		assert.Equal(t, int64(2048), cfg.Server.MaxUploadBytes)
		assert.Equal(t, UserSourceMySQL, cfg.Auth.UserSource)
		assert.Equal(t, 3307, cfg.Database.Port)
	})

	t.Run("bad values are errors", func(t *testing.T) {
		for k, v := range map[string]string{"PORT": "eighty", "TOKEN_TTL": "soon", "MAX_UPLOAD_BYTES": "big"} {
			t.Setenv(k, v)
			_, err := Load(path)
			assert.Error(t, err, k)
			t.Setenv(k, "")
		}
	})
}

func TestValidate(t *testing.T) {
	clearEnv(t)
	cases := map[string]string{
		"bad port":        "server:\n  port: 70000\n",
		"empty secret":    "auth:\n  secretKey: \"\"\n",
		"bad ttl":         "auth:\n  tokenTTL: -1s\n",
		"bad user source": "auth:\n  userSource: ldap\n",
		"archive no host": "archive:\n  enabled: true\n",
		"negative cap":    "server:\n  maxUploadBytes: -1\n",
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Load(writeConfig(t, body))
			assert.Error(t, err)
		})
	}
}

func TestDSNs(t *testing.T) {
	cfg := Default()
	cfg.Database.Host = "db"
	cfg.Database.User = "svc"
	cfg.Database.Password = "pw"
	cfg.Database.Name = "sentiment"

	assert.Equal(t, "svc:pw@tcp(db:3306)/sentiment?parseTime=true&charset=utf8mb4&loc=UTC", cfg.MySQLDSN())
	assert.Equal(t, "host=db port=5432 user=svc password=pw dbname=sentiment sslmode=disable", cfg.PostgresDSN())

	cfg.Database.Port = 6000
	assert.Contains(t, cfg.MySQLDSN(), "tcp(db:6000)")
	assert.Contains(t, cfg.PostgresDSN(), "port=6000")
}

func TestLogLevel(t *testing.T) {
	cfg := Default()
	for in, want := range map[string]slog.Level{
		"debug": slog.LevelDebug, "WARN": slog.LevelWarn, "warning": slog.LevelWarn,
		"error": slog.LevelError, "info": slog.LevelInfo, "verbose": slog.LevelInfo,
	} {
		cfg.Log.Level = in
		assert.Equal(t, want, cfg.LogLevel(), in)
	}
}
