package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	t.Setenv("PORT", "")

	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)

	assert.Equal(t, DriverMySQL, cfg.DBDriver)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 30*24*time.Hour, cfg.TokenTTL)
	assert.Equal(t, int64(4<<20), cfg.MaxBodyBytes)
}

func TestLoad_FileThenEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fittracker.yaml")
	data := strings.Join([]string{
		"db_driver: sqlite",
		"sqlite_path: /tmp/ft.db",
		"jwt_secret: from-file",
		"token_ttl: 2h",
		"port: \"9000\"",
	}, "\n")
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	t.Setenv("JWT_SECRET", "from-env")
	t.Setenv("PORT", "")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, DriverSQLite, cfg.DBDriver)
	assert.Equal(t, "/tmp/ft.db", cfg.SQLitePath)
	assert.Equal(t, "from-env", cfg.JWTSecret)
	assert.Equal(t, 2*time.Hour, cfg.TokenTTL)
	assert.Equal(t, "9000", cfg.Port)
}

func TestLoad_BadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("port: [unterminated"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoad_BadEnvDuration(t *testing.T) {
	t.Setenv("TOKEN_TTL", "forever")

	_, err := Load("")
	assert.ErrorContains(t, err, "TOKEN_TTL")
}

func TestValidate(t *testing.T) {
	t.Run("requires secret", func(t *testing.T) {
		cfg := Default()
		assert.ErrorContains(t, cfg.Validate(), "JWT_SECRET")
	})

	t.Run("rejects unknown driver", func(t *testing.T) {
		cfg := Default()
		cfg.JWTSecret = "s"
		cfg.DBDriver = "postgres"
		assert.ErrorContains(t, cfg.Validate(), "DB_DRIVER")
	})

	t.Run("rejects unknown timezone", func(t *testing.T) {
		cfg := Default()
		cfg.JWTSecret = "s"
		cfg.Timezone = "Mars/Olympus"
		assert.ErrorContains(t, cfg.Validate(), "TIMEZONE")
	})

	t.Run("accepts defaults with secret", func(t *testing.T) {
		cfg := Default()
		cfg.JWTSecret = "s"
		cfg.Timezone = "UTC"
		assert.NoError(t, cfg.Validate())
	})
}

func TestDSN(t *testing.T) {
	cfg := Default()
	assert.Equal(t,
		"fittracker:fittracker_pass@tcp(localhost:3306)/fittracker?parseTime=true&loc=UTC&charset=utf8mb4",
		cfg.DSN(),
	)

	cfg.SQLitePath = ":memory:"
	dsn := cfg.SQLiteDSN()
	assert.True(t, strings.HasPrefix(dsn, "file::memory:?"))
	assert.Contains(t, dsn, "foreign_keys%281%29")
}
