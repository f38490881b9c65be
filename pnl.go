package main

import (
	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

const (
	chartTitle = "Cumulative Profit/Loss Over Time"
	chartLabel = "Cumulative Profit/Loss"
)

// cumulativePL returns the running total after each transaction, in the order
// given. Sales add to the total, purchases subtract from it.
func cumulativePL(transactions []Transaction) []decimal.Decimal {
	totals := make([]decimal.Decimal, 0, len(transactions))
	running := decimal.Zero
	for _, t := range transactions {
		running = running.Add(t.SignedAmount())
		totals = append(totals, running)
	}
	return totals
}

// buildChart pairs each running total with the date of the transaction that
// produced it
func buildChart(transactions []Transaction) ChartSeries {
	labels := make([]string, 0, len(transactions))
	for _, t := range transactions {
		labels = append(labels, t.Date)
	}
	return ChartSeries{
		Title:  chartTitle,
		Label:  chartLabel,
		Labels: labels,
		Data:   cumulativePL(transactions),
	}
}

// formatUSD renders an amount for display, e.g. "$12.50" or "-$5.00"
func formatUSD(amount decimal.Decimal) string {
	cents := amount.Round(2).Shift(2).IntPart()
	return money.New(cents, money.USD).Display()
}
