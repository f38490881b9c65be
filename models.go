package main

import (
	"time"

	"github.com/shopspring/decimal"
)

func init() {
	// amounts go out as JSON numbers, the same shape the chart script expects
	decimal.MarshalJSONWithoutQuotes = true
}

// TransactionType is either a purchase (outflow) or a sale (inflow)
type TransactionType string

const (
	TypePurchase TransactionType = "purchase"
	TypeSale     TransactionType = "sale"
)

// Valid reports whether t is one of the known transaction types
func (t TransactionType) Valid() bool {
	return t == TypePurchase || t == TypeSale
}

// Transaction represents a recorded card purchase or sale
type Transaction struct {
	ID       string          `json:"id"`
	Date     string          `json:"date"`
	CardName string          `json:"cardName"`
	Type     TransactionType `json:"type"`
	Amount   decimal.Decimal `json:"amount"`
}

// SignedAmount is the amount as it moves the running total
func (t Transaction) SignedAmount() decimal.Decimal {
	if t.Type == TypeSale {
		return t.Amount
	}
	return t.Amount.Neg()
}

// TransactionRecord is what gets written to the store: the user's draft plus
// the owner and submission time attached on submit
type TransactionRecord struct {
	UserID    string
	Date      string
	CardName  string
	Type      TransactionType
	Amount    decimal.Decimal
	Timestamp time.Time
}

// User is an entry in the user directory
type User struct {
	ID           string
	Email        string
	PasswordHash []byte
	CreatedAt    time.Time
}

// ChartSeries is the cumulative profit/loss dataset handed to Chart.js
type ChartSeries struct {
	Title  string            `json:"title"`
	Label  string            `json:"label"`
	Labels []string          `json:"labels"`
	Data   []decimal.Decimal `json:"data"`
}
