package events

import (
	"time"

	"github.com/shopspring/decimal"
)

// Topic every ledger event is published on.
const Topic = "ledger_events"

type Kind string

const (
	KindDeposit    Kind = "deposit"
	KindWithdrawal Kind = "withdrawal"
	KindTransfer   Kind = "transfer"
	KindLoan       Kind = "loan"
	KindRename     Kind = "rename"
	KindRekey      Kind = "rekey"
)

// LedgerEvent describes one committed mutation. Accounts are referenced
// by their stable ID so access codes never leave the process.
type LedgerEvent struct {
	ID             string          `json:"id"`
	Kind           Kind            `json:"kind"`
	AccountID      string          `json:"account_id"`
	CounterpartyID string          `json:"counterparty_id,omitempty"`
	Amount         decimal.Decimal `json:"amount"`
	Balance        decimal.Decimal `json:"balance"`
	OccurredAt     time.Time       `json:"occurred_at"`
}
