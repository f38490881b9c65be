package main

import (
	"context"
	"database/sql"
	"fmt"
)

const schemaSQL = `
	CREATE TABLE IF NOT EXISTS users (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		email VARCHAR(255) NOT NULL,
		password_hash BYTEA NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
	);

	CREATE UNIQUE INDEX IF NOT EXISTS idx_users_email ON users(lower(email));

	CREATE TABLE IF NOT EXISTS transactions (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		user_id UUID NOT NULL REFERENCES users(id),
		date DATE NOT NULL,
		card_name VARCHAR(255) NOT NULL,
		type VARCHAR(20) NOT NULL CHECK (type IN ('purchase', 'sale')),
		amount NUMERIC(12,2) NOT NULL CHECK (amount >= 0),
		submitted_at TIMESTAMPTZ NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_transactions_user ON transactions(user_id, submitted_at);
`

func ensureSchema(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

const demoEmail = "demo@cards.local"

// seedDemoData gives the demo account a short trading history.
// Idempotent: runs only while the demo account has no transactions.
func seedDemoData(ctx context.Context, db *sql.DB, passwordHash []byte) error {
	var userID string
	err := db.QueryRowContext(ctx, `
		INSERT INTO users (email, password_hash) VALUES ($1, $2)
		ON CONFLICT (lower(email)) DO UPDATE SET email = EXCLUDED.email
		RETURNING id
	`, demoEmail, passwordHash).Scan(&userID)
	if err != nil {
		return fmt.Errorf("seeding demo user: %w", err)
	}

	var cnt int
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM transactions WHERE user_id = $1`, userID).Scan(&cnt); err != nil {
		return fmt.Errorf("checking transactions count: %w", err)
	}
	if cnt > 0 {
		return nil
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	// submitted_at is staggered so the store returns them in trading order
	const demoTx = `
	INSERT INTO transactions (user_id, date, card_name, type, amount, submitted_at) VALUES
	($1, CURRENT_DATE - INTERVAL '28 days', '1986 Fleer Michael Jordan #57', 'purchase', 420.00, now() - INTERVAL '28 days'),
	($1, CURRENT_DATE - INTERVAL '25 days', '2003 Topps Chrome LeBron James RC', 'purchase', 310.00, now() - INTERVAL '25 days'),
	($1, CURRENT_DATE - INTERVAL '21 days', '2018 Prizm Luka Doncic Silver', 'purchase', 185.50, now() - INTERVAL '21 days'),
	($1, CURRENT_DATE - INTERVAL '17 days', '2003 Topps Chrome LeBron James RC', 'sale', 365.00, now() - INTERVAL '17 days'),
	($1, CURRENT_DATE - INTERVAL '12 days', '1952 Topps Mickey Mantle Reprint', 'purchase', 24.99, now() - INTERVAL '12 days'),
	($1, CURRENT_DATE - INTERVAL '8 days', '2018 Prizm Luka Doncic Silver', 'sale', 240.00, now() - INTERVAL '8 days'),
	($1, CURRENT_DATE - INTERVAL '3 days', '1986 Fleer Michael Jordan #57', 'sale', 515.00, now() - INTERVAL '3 days')
	`
	if _, err := tx.ExecContext(ctx, demoTx, userID); err != nil {
		return fmt.Errorf("seeding demo transactions: %w", err)
	}

	return tx.Commit()
}
