package main

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

var (
	ErrNoSession    = errors.New("no active session")
	ErrInvalidDraft = errors.New("invalid transaction")
)

var errMissingAmount = fmt.Errorf("%w: amount is required", ErrInvalidDraft)

const maxCardNameLength = 255

// TransactionDraft holds the form fields before a transaction is submitted
type TransactionDraft struct {
	Date     string
	CardName string
	Type     TransactionType
	Amount   decimal.Decimal
}

// newDraft is the empty form: a purchase of zero
func newDraft() TransactionDraft {
	return TransactionDraft{Type: TypePurchase, Amount: decimal.Zero}
}

// Validate checks the draft and returns an error wrapping ErrInvalidDraft
func (d TransactionDraft) Validate() error {
	if _, err := time.Parse(time.DateOnly, d.Date); err != nil {
		return fmt.Errorf("%w: date must be YYYY-MM-DD", ErrInvalidDraft)
	}
	name := strings.TrimSpace(d.CardName)
	if name == "" {
		return fmt.Errorf("%w: card name is required", ErrInvalidDraft)
	}
	if utf8.RuneCountInString(name) > maxCardNameLength {
		return fmt.Errorf("%w: card name is longer than %d characters", ErrInvalidDraft, maxCardNameLength)
	}
	if !d.Type.Valid() {
		return fmt.Errorf("%w: type must be purchase or sale", ErrInvalidDraft)
	}
	if d.Amount.IsNegative() {
		return fmt.Errorf("%w: amount must not be negative", ErrInvalidDraft)
	}
	if !d.Amount.Equal(d.Amount.Round(2)) {
		return fmt.Errorf("%w: amount has more than two decimal places", ErrInvalidDraft)
	}
	return nil
}

// ledger records transactions for the signed-in user and reads them back
type ledger struct {
	store  TransactionStore
	now    func() time.Time
	logger zerolog.Logger
}

func newLedger(store TransactionStore, logger zerolog.Logger) *ledger {
	return &ledger{
		store:  store,
		now:    time.Now,
		logger: logger.With().Str("component", "ledger").Logger(),
	}
}

// List returns the user's transactions in store order
func (l *ledger) List(ctx context.Context, sess Session) ([]Transaction, error) {
	if !sess.Active() {
		return nil, ErrNoSession
	}
	transactions, err := l.store.ListTransactions(ctx, sess.UserID)
	if err != nil {
		l.logger.Error().Err(err).Str("user_id", sess.UserID).Msg("failed to fetch transactions")
		return nil, err
	}
	return transactions, nil
}

// Submit stores the draft for the session's user, stamped with the current
// time, then returns the user's full list as the store now has it.
func (l *ledger) Submit(ctx context.Context, sess Session, d TransactionDraft) ([]Transaction, error) {
	if !sess.Active() {
		return nil, ErrNoSession
	}
	if err := d.Validate(); err != nil {
		return nil, err
	}

	rec := TransactionRecord{
		UserID:    sess.UserID,
		Date:      d.Date,
		CardName:  strings.TrimSpace(d.CardName),
		Type:      d.Type,
		Amount:    d.Amount,
		Timestamp: l.now().UTC(),
	}
	id, err := l.store.InsertTransaction(ctx, rec)
	if err != nil {
		l.logger.Error().Err(err).Str("user_id", sess.UserID).Msg("error adding transaction")
		return nil, err
	}
	l.logger.Info().Str("user_id", sess.UserID).Str("transaction_id", id).Str("type", string(d.Type)).Msg("transaction added")

	return l.List(ctx, sess)
}
