// Package db opens the gorm connection backing the symbol catalog.
package db

import (
	"fmt"
	"log/slog"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Config holds database connection settings.
type Config struct {
	Driver     string        // "sqlite" or "postgres"; empty disables the catalog
	DSN        string        // postgres DSN
	SQLitePath string        // sqlite file path
	RetryFor   time.Duration // how long to keep retrying the initial connection
}

// Enabled reports whether a catalog database is configured.
func (c Config) Enabled() bool { return c.Driver != "" }

// Dialector returns the gorm dialector for the configured driver.
func Dialector(cfg Config) (gorm.Dialector, error) {
	switch cfg.Driver {
	case DriverSQLite:
		path := cfg.SQLitePath
		if path == "" {
			path = "catalog.db"
		}
		return sqlite.Open(path), nil
	case DriverPostgres:
		if cfg.DSN == "" {
			return nil, fmt.Errorf("postgres driver requires a DSN")
		}
		return postgres.Open(cfg.DSN), nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}

// OpenDB connects with retries until cfg.RetryFor elapses, then migrates the given models.
func OpenDB(cfg Config, models ...any) (*gorm.DB, error) {
	dialector, err := Dialector(cfg)
	if err != nil {
		return nil, err
	}
	db, err := ConnectWithRetry(dialector, cfg.RetryFor, openGorm)
	if err != nil {
		return nil, err
	}

	if len(models) > 0 {
		if err := db.AutoMigrate(models...); err != nil {
			return nil, fmt.Errorf("failed to migrate: %w", err)
		}
	}
	return db, nil
}

// retryInterval is the wait between connection attempts.
const retryInterval = 3 * time.Second

func openGorm(d gorm.Dialector) (*gorm.DB, error) {
	return gorm.Open(d, &gorm.Config{Logger: logger.Default.LogMode(logger.Warn)})
}

// ConnectWithRetry calls opener until it succeeds or retryFor has elapsed.
func ConnectWithRetry(d gorm.Dialector, retryFor time.Duration, opener func(gorm.Dialector) (*gorm.DB, error)) (*gorm.DB, error) {
	deadline := time.Now().Add(retryFor)
	for {
		db, err := opener(d)
		if err == nil {
			return db, nil
		}
		if time.Now().After(deadline) {
			return nil, fmt.Errorf("DB connect failed after %v: %w", retryFor, err)
		}
		slog.Warn("DB connect failed, retrying", "error", err)
		time.Sleep(retryInterval)
	}
}
