// Package teller is the boundary the front-end talks to. Every account
// operation is checked against the caller's session before it reaches the
// ledger, and the session follows the account through a PIN change.
package teller

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/sheikh-saqib/atm-ledger-system/internal/ledger"
	"github.com/sheikh-saqib/atm-ledger-system/internal/models"
	"github.com/sheikh-saqib/atm-ledger-system/internal/session"
)

type Teller struct {
	guard  *session.Guard
	ledger *ledger.Ledger
}

func New(guard *session.Guard, l *ledger.Ledger) *Teller {
	return &Teller{guard: guard, ledger: l}
}

func (t *Teller) Authenticate(s *models.Session, code string) models.AuthResult {
	return t.guard.Authenticate(s, code)
}

func (t *Teller) Logout(s *models.Session) {
	t.guard.Logout(s)
}

func (t *Teller) CheckBalance(s *models.Session) (decimal.Decimal, error) {
	code, err := t.guard.Require(s)
	if err != nil {
		return decimal.Zero, err
	}
	return t.ledger.CheckBalance(code)
}

func (t *Teller) Deposit(ctx context.Context, s *models.Session, amount decimal.Decimal) (models.Account, error) {
	code, err := t.guard.Require(s)
	if err != nil {
		return models.Account{}, err
	}
	return t.ledger.Deposit(ctx, code, amount)
}

func (t *Teller) Withdraw(ctx context.Context, s *models.Session, amount decimal.Decimal) (models.Account, error) {
	code, err := t.guard.Require(s)
	if err != nil {
		return models.Account{}, err
	}
	return t.ledger.Withdraw(ctx, code, amount)
}

func (t *Teller) Transfer(ctx context.Context, s *models.Session, toCode string, amount decimal.Decimal) (models.Account, error) {
	code, err := t.guard.Require(s)
	if err != nil {
		return models.Account{}, err
	}
	return t.ledger.Transfer(ctx, code, toCode, amount)
}

func (t *Teller) ViewTransactions(s *models.Session) ([]string, error) {
	code, err := t.guard.Require(s)
	if err != nil {
		return nil, err
	}
	return t.ledger.ViewTransactions(code)
}

func (t *Teller) Summary(s *models.Session) (models.Summary, error) {
	code, err := t.guard.Require(s)
	if err != nil {
		return models.Summary{}, err
	}
	return t.ledger.Summary(code)
}

func (t *Teller) ApplyLoan(ctx context.Context, s *models.Session, amount decimal.Decimal) (models.Account, error) {
	code, err := t.guard.Require(s)
	if err != nil {
		return models.Account{}, err
	}
	return t.ledger.ApplyLoan(ctx, code, amount)
}

// ChangeCode rekeys the logged-in account and moves the session with it.
func (t *Teller) ChangeCode(ctx context.Context, s *models.Session, newCode string) error {
	code, err := t.guard.Require(s)
	if err != nil {
		return err
	}
	if err := t.ledger.ChangeCode(ctx, code, newCode); err != nil {
		return err
	}
	t.guard.Follow(s, newCode)
	return nil
}

func (t *Teller) Rename(ctx context.Context, s *models.Session, newName string) error {
	code, err := t.guard.Require(s)
	if err != nil {
		return err
	}
	return t.ledger.Rename(ctx, code, newName)
}
