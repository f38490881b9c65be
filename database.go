package main

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/rs/zerolog"
)

const (
	dbMaxRetries = 60
	dbRetryDelay = 2 * time.Second
)

// normalizeDatabaseURL rewrites postgresql:// to postgres:// and adds
// sslmode=disable when no sslmode is given
func normalizeDatabaseURL(databaseURL string) string {
	if databaseURL == "" {
		return defaultDatabaseURL
	}
	if strings.HasPrefix(databaseURL, "postgresql:") {
		databaseURL = "postgres" + databaseURL[len("postgresql"):]
	}
	if !strings.Contains(databaseURL, "sslmode=") {
		separator := "?"
		if strings.Contains(databaseURL, "?") {
			separator = "&"
		}
		databaseURL = databaseURL + separator + "sslmode=disable"
	}
	return databaseURL
}

// openDB connects to PostgreSQL, waiting for it to come up
func openDB(ctx context.Context, databaseURL string, logger zerolog.Logger) (*sql.DB, error) {
	config, err := pgx.ParseConfig(normalizeDatabaseURL(databaseURL))
	if err != nil {
		return nil, fmt.Errorf("failed to parse database URL: %w", err)
	}

	var lastErr error
	for i := 0; i < dbMaxRetries; i++ {
		db := stdlib.OpenDB(*config)
		if lastErr = db.PingContext(ctx); lastErr == nil {
			logger.Info().Msg("database connection established")
			return db, nil
		}
		db.Close()

		if i == dbMaxRetries-1 {
			break
		}
		event := logger.Warn().Int("attempt", i+1).Int("max_attempts", dbMaxRetries).Dur("retry_in", dbRetryDelay)
		// the error is noisy while the container boots, only show it now and then
		if i%10 == 0 || i < 5 {
			event = event.Err(lastErr)
		}
		event.Msg("database not ready")

		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("waiting for database: %w", ctx.Err())
		case <-time.After(dbRetryDelay):
		}
	}
	return nil, fmt.Errorf("failed to connect to database after %d attempts: %w", dbMaxRetries, lastErr)
}
