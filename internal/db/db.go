package db

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/yusufkecer/fittracker-backend/internal/config"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"
)

func Connect(cfg *config.Config, logger *zap.Logger) (*sql.DB, error) {
	var (
		db  *sql.DB
		err error
	)
	switch cfg.DBDriver {
	case config.DriverSQLite:
		db, err = OpenSQLite(cfg.SQLiteDSN())
	default:
		db, err = sql.Open("mysql", cfg.DSN())
		if err == nil {
			db.SetMaxOpenConns(25)
			db.SetMaxIdleConns(5)
			db.SetConnMaxLifetime(5 * time.Minute)
		}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	logger.Info("database connection established", zap.String("driver", cfg.DBDriver))
	return db, nil
}

// OpenSQLite opens an embedded database. SQLite serialises writers, so the
// pool is capped at a single connection; this also keeps ":memory:"
// databases alive across calls.
func OpenSQLite(dsn string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	return db, nil
}
