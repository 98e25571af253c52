// internal/database/db.go
package database

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"

	"github.com/gurkanbulca/taskdeck/internal/config"
)

// Open connects to the configured database and verifies the connection.
func Open(cfg config.DatabaseConfig) (*sqlx.DB, error) {
	var db *sqlx.DB
	var err error

	switch cfg.Driver {
	case "sqlite3":
		dsn := fmt.Sprintf("file:%s?_fk=1", cfg.Path)
		db, err = sqlx.Open("sqlite3", dsn)
		if err != nil {
			return nil, fmt.Errorf("open database: %w", err)
		}
		// SQLite allows a single writer; serialize access through one
		// connection rather than racing on SQLITE_BUSY.
		db.SetMaxOpenConns(1)
	case "postgres":
		dsn := fmt.Sprintf(
			"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
			cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.DBName, cfg.SSLMode,
		)
		db, err = sqlx.Open("postgres", dsn)
		if err != nil {
			return nil, fmt.Errorf("open database: %w", err)
		}
		db.SetMaxOpenConns(25)
		db.SetMaxIdleConns(5)
		db.SetConnMaxLifetime(5 * time.Minute)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	log.Printf("Connected to %s database", cfg.Driver)
	return db, nil
}
