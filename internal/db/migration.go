package db

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/yusufkecer/fittracker-backend/internal/config"
	"go.uber.org/zap"
)

// migration holds one schema step per supported dialect. Statements inside a
// step are separated by ";".
type migration struct {
	version string
	mysql   string
	sqlite  string
}

var migrations = []migration{
	{
		version: "000_create_accounts",
		mysql: `
			CREATE TABLE IF NOT EXISTS accounts (
				id            BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
				username      VARCHAR(100) COLLATE utf8mb4_bin NOT NULL UNIQUE,
				email         VARCHAR(255) NOT NULL UNIQUE,
				password_hash VARCHAR(255) NOT NULL,
				created_at    DATETIME NOT NULL
			)`,
		sqlite: `
			CREATE TABLE IF NOT EXISTS accounts (
				id            INTEGER PRIMARY KEY AUTOINCREMENT,
				username      TEXT NOT NULL UNIQUE,
				email         TEXT NOT NULL UNIQUE,
				password_hash TEXT NOT NULL,
				created_at    DATETIME NOT NULL
			)`,
	},
	{
		version: "001_create_profiles",
		mysql: `
			CREATE TABLE IF NOT EXISTS profiles (
				account_id      BIGINT UNSIGNED PRIMARY KEY,
				age             INT,
				weight          DOUBLE,
				height          DOUBLE,
				gender          VARCHAR(10),
				goal            VARCHAR(20) NOT NULL DEFAULT 'maintain',
				profile_color   VARCHAR(20) NOT NULL DEFAULT 'purple',
				profile_picture MEDIUMTEXT,
				FOREIGN KEY (account_id) REFERENCES accounts(id) ON DELETE CASCADE
			)`,
		sqlite: `
			CREATE TABLE IF NOT EXISTS profiles (
				account_id      INTEGER PRIMARY KEY,
				age             INTEGER,
				weight          REAL,
				height          REAL,
				gender          TEXT,
				goal            TEXT NOT NULL DEFAULT 'maintain',
				profile_color   TEXT NOT NULL DEFAULT 'purple',
				profile_picture TEXT,
				FOREIGN KEY (account_id) REFERENCES accounts(id) ON DELETE CASCADE
			)`,
	},
	{
		version: "002_create_workouts",
		mysql: `
			CREATE TABLE IF NOT EXISTS workouts (
				id         CHAR(36) PRIMARY KEY,
				account_id BIGINT UNSIGNED NOT NULL,
				name       VARCHAR(255) NOT NULL,
				created_at DATETIME NOT NULL,
				INDEX idx_workouts_account (account_id, created_at),
				FOREIGN KEY (account_id) REFERENCES accounts(id) ON DELETE CASCADE
			);
			CREATE TABLE IF NOT EXISTS workout_exercises (
				id         CHAR(36) PRIMARY KEY,
				workout_id CHAR(36) NOT NULL,
				position   INT NOT NULL,
				name       VARCHAR(255) NOT NULL,
				sets       INT NOT NULL,
				reps       INT NOT NULL,
				category   VARCHAR(20) NOT NULL,
				FOREIGN KEY (workout_id) REFERENCES workouts(id) ON DELETE CASCADE
			)`,
		sqlite: `
			CREATE TABLE IF NOT EXISTS workouts (
				id         TEXT PRIMARY KEY,
				account_id INTEGER NOT NULL,
				name       TEXT NOT NULL,
				created_at DATETIME NOT NULL,
				FOREIGN KEY (account_id) REFERENCES accounts(id) ON DELETE CASCADE
			);
			CREATE INDEX IF NOT EXISTS idx_workouts_account ON workouts (account_id, created_at);
			CREATE TABLE IF NOT EXISTS workout_exercises (
				id         TEXT PRIMARY KEY,
				workout_id TEXT NOT NULL,
				position   INTEGER NOT NULL,
				name       TEXT NOT NULL,
				sets       INTEGER NOT NULL,
				reps       INTEGER NOT NULL,
				category   TEXT NOT NULL,
				FOREIGN KEY (workout_id) REFERENCES workouts(id) ON DELETE CASCADE
			)`,
	},
	{
		version: "003_create_meals",
		mysql: `
			CREATE TABLE IF NOT EXISTS meals (
				id             CHAR(36) PRIMARY KEY,
				account_id     BIGINT UNSIGNED NOT NULL,
				name           VARCHAR(255) NOT NULL,
				meal_type      VARCHAR(20) NOT NULL,
				total_calories INT NOT NULL,
				eaten_at       DATETIME NOT NULL,
				INDEX idx_meals_account_eaten (account_id, eaten_at),
				FOREIGN KEY (account_id) REFERENCES accounts(id) ON DELETE CASCADE
			);
			CREATE TABLE IF NOT EXISTS meal_foods (
				id       CHAR(36) PRIMARY KEY,
				meal_id  CHAR(36) NOT NULL,
				position INT NOT NULL,
				name     VARCHAR(100) NOT NULL,
				quantity DOUBLE NOT NULL,
				unit     VARCHAR(20) NOT NULL,
				calories INT NOT NULL,
				protein  DOUBLE NOT NULL,
				carbs    DOUBLE NOT NULL,
				fats     DOUBLE NOT NULL,
				FOREIGN KEY (meal_id) REFERENCES meals(id) ON DELETE CASCADE
			)`,
		sqlite: `
			CREATE TABLE IF NOT EXISTS meals (
				id             TEXT PRIMARY KEY,
				account_id     INTEGER NOT NULL,
				name           TEXT NOT NULL,
				meal_type      TEXT NOT NULL,
				total_calories INTEGER NOT NULL,
				eaten_at       DATETIME NOT NULL,
				FOREIGN KEY (account_id) REFERENCES accounts(id) ON DELETE CASCADE
			);
			CREATE INDEX IF NOT EXISTS idx_meals_account_eaten ON meals (account_id, eaten_at);
			CREATE TABLE IF NOT EXISTS meal_foods (
				id       TEXT PRIMARY KEY,
				meal_id  TEXT NOT NULL,
				position INTEGER NOT NULL,
				name     TEXT NOT NULL,
				quantity REAL NOT NULL,
				unit     TEXT NOT NULL,
				calories INTEGER NOT NULL,
				protein  REAL NOT NULL,
				carbs    REAL NOT NULL,
				fats     REAL NOT NULL,
				FOREIGN KEY (meal_id) REFERENCES meals(id) ON DELETE CASCADE
			)`,
	},
	{
		version: "004_create_password_reset_tokens",
		mysql: `
			CREATE TABLE IF NOT EXISTS password_reset_tokens (
				id         BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
				account_id BIGINT UNSIGNED NOT NULL,
				token      VARCHAR(10) NOT NULL,
				expires_at DATETIME NOT NULL,
				used       TINYINT NOT NULL DEFAULT 0,
				FOREIGN KEY (account_id) REFERENCES accounts(id) ON DELETE CASCADE
			)`,
		sqlite: `
			CREATE TABLE IF NOT EXISTS password_reset_tokens (
				id         INTEGER PRIMARY KEY AUTOINCREMENT,
				account_id INTEGER NOT NULL,
				token      TEXT NOT NULL,
				expires_at DATETIME NOT NULL,
				used       INTEGER NOT NULL DEFAULT 0,
				FOREIGN KEY (account_id) REFERENCES accounts(id) ON DELETE CASCADE
			)`,
	},
	{
		version: "005_add_reset_code_attempts",
		mysql:   `ALTER TABLE password_reset_tokens ADD COLUMN attempts INT NOT NULL DEFAULT 0`,
		sqlite:  `ALTER TABLE password_reset_tokens ADD COLUMN attempts INTEGER NOT NULL DEFAULT 0`,
	},
}

func RunMigrations(db *sql.DB, driver string, logger *zap.Logger) error {
	if _, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version    VARCHAR(255) PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`); err != nil {
		return fmt.Errorf("failed to create schema_migrations table: %w", err)
	}

	for _, m := range migrations {
		applied, err := isMigrationApplied(db, m.version)
		if err != nil {
			return err
		}
		if applied {
			continue
		}

		if err := executeMigration(db, m.version, m.statements(driver)); err != nil {
			return err
		}

		logger.Info("applied migration", zap.String("version", m.version))
	}

	return nil
}

func (m migration) statements(driver string) string {
	if driver == config.DriverSQLite {
		return m.sqlite
	}
	return m.mysql
}

func isMigrationApplied(db *sql.DB, version string) (bool, error) {
	var count int
	err := db.QueryRow(
		"SELECT COUNT(*) FROM schema_migrations WHERE version = ?",
		version,
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to check migration %s: %w", version, err)
	}
	return count > 0, nil
}

func executeMigration(db *sql.DB, version, script string) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction for %s: %w", version, err)
	}

	for _, stmt := range strings.Split(script, ";") {
		stmt = strings.TrimSpace(stmt)
		if stmt == "" {
			continue
		}
		if _, err := tx.Exec(stmt); err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to execute migration %s: %w", version, err)
		}
	}

	if _, err := tx.Exec(
		"INSERT INTO schema_migrations (version) VALUES (?)",
		version,
	); err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to record migration %s: %w", version, err)
	}

	return tx.Commit()
}
