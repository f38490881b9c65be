package main

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
)

// setupDatabase connects, creates the schema and closes again
func setupDatabase(ctx context.Context, cfg Config, logger zerolog.Logger) error {
	db, err := openDB(ctx, cfg.DatabaseURL, logger)
	if err != nil {
		return err
	}
	defer db.Close()

	logger.Info().Msg("creating database schema")
	if err := ensureSchema(ctx, db); err != nil {
		return err
	}
	logger.Info().Msg("schema created successfully")
	return nil
}

// seedDemo applies the schema and loads the demo account
func seedDemo(ctx context.Context, cfg Config, password string, logger zerolog.Logger) error {
	db, err := openDB(ctx, cfg.DatabaseURL, logger)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := ensureSchema(ctx, db); err != nil {
		return err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hashing demo password: %w", err)
	}
	if err := seedDemoData(ctx, db, hash); err != nil {
		return err
	}
	logger.Info().Str("email", demoEmail).Msg("demo data seeded")
	return nil
}

// pingDB is used by the health check
func pingDB(ctx context.Context, db *sql.DB) error {
	if db == nil {
		return fmt.Errorf("database not configured")
	}
	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}
	return nil
}
