package models

import "github.com/shopspring/decimal"

// Account is a single ledger account. The access code is both the lookup
// key and the credential; ID is the stable identity that survives a rekey.
type Account struct {
	ID             string          // uuid, never shown to the account holder
	Code           string          // secret access code
	Name           string          // display label
	Balance        decimal.Decimal // never negative after a committed operation
	DailyWithdrawn decimal.Decimal // accumulated withdrawals, capped by the daily limit
	Transactions   []string        // most recent entries, oldest first
}

// Clone returns a deep copy so callers never share the Transactions slice
// with the store.
func (a Account) Clone() Account {
	cp := a
	if a.Transactions != nil {
		cp.Transactions = make([]string, len(a.Transactions))
		copy(cp.Transactions, a.Transactions)
	}
	return cp
}
