package models

import "github.com/shopspring/decimal"

// Summary totals the deposits and withdrawals still held in an account's
// bounded history. It is not a lifetime total.
type Summary struct {
	Name           string
	TotalDeposited decimal.Decimal
	TotalWithdrawn decimal.Decimal
}
