package db

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yusufkecer/fittracker-backend/internal/config"
	"go.uber.org/zap"
)

func TestRunMigrations_SQLite(t *testing.T) {
	cfg := config.Default()
	cfg.DBDriver = config.DriverSQLite
	cfg.SQLitePath = ":memory:"

	database, err := Connect(cfg, zap.NewNop())
	require.NoError(t, err)
	defer database.Close()

	require.NoError(t, RunMigrations(database, cfg.DBDriver, zap.NewNop()))

	var applied int
	require.NoError(t, database.QueryRow(`SELECT COUNT(*) FROM schema_migrations`).Scan(&applied))
	assert.Equal(t, len(migrations), applied)

	for _, table := range []string{"accounts", "profiles", "workouts", "workout_exercises", "meals", "meal_foods", "password_reset_tokens"} {
		var name string
		err := database.QueryRow(`SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?`, table).Scan(&name)
		assert.NoError(t, err, table)
	}

	var attempts int
	err = database.QueryRow(`SELECT COUNT(*) FROM pragma_table_info('password_reset_tokens') WHERE name = 'attempts'`).Scan(&attempts)
	require.NoError(t, err)
	assert.Equal(t, 1, attempts)

	// A second run is a no-op.
	require.NoError(t, RunMigrations(database, cfg.DBDriver, zap.NewNop()))
	require.NoError(t, database.QueryRow(`SELECT COUNT(*) FROM schema_migrations`).Scan(&applied))
	assert.Equal(t, len(migrations), applied)
}

func TestMigrationsHaveBothDialects(t *testing.T) {
	seen := map[string]bool{}
	for _, m := range migrations {
		assert.False(t, seen[m.version], "duplicate version %s", m.version)
		seen[m.version] = true
		assert.NotEmpty(t, m.mysql, m.version)
		assert.NotEmpty(t, m.sqlite, m.version)
	}
}

// Usernames compare byte for byte on MySQL, matching SQLite's default BINARY
// collation.
func TestUsernameCollation(t *testing.T) {
	require.Equal(t, "000_create_accounts", migrations[0].version)
	assert.Contains(t, migrations[0].mysql, "username      VARCHAR(100) COLLATE utf8mb4_bin NOT NULL UNIQUE")
	assert.NotContains(t, migrations[0].sqlite, "NOCASE")
}

func TestForeignKeysEnforced(t *testing.T) {
	cfg := config.Default()
	cfg.DBDriver = config.DriverSQLite
	cfg.SQLitePath = ":memory:"

	database, err := Connect(cfg, zap.NewNop())
	require.NoError(t, err)
	defer database.Close()
	require.NoError(t, RunMigrations(database, cfg.DBDriver, zap.NewNop()))

	_, err = database.Exec(`INSERT INTO profiles (account_id) VALUES (42)`)
	assert.Error(t, err)
}
