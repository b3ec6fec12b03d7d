package storage

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/sheikh-saqib/atm-ledger-system/internal/models"
)

// SeedAccount is the configurable part of an account created at startup.
type SeedAccount struct {
	Code    string
	Name    string
	Balance decimal.Decimal
}

// DefaultSeed is the fixed account set the ledger starts with when no
// seed file is configured.
func DefaultSeed() []SeedAccount {
	return []SeedAccount{
		{Code: "1234", Name: "Gotam Kumar", Balance: decimal.NewFromInt(5000)},
		{Code: "5678", Name: "Joint Account (Sameer & Zamin)", Balance: decimal.NewFromInt(8000)},
		{Code: "admin", Name: "Admin", Balance: decimal.Zero},
	}
}

// BuildAccounts turns seed entries into accounts with fresh IDs, a zero
// daily-withdrawal counter and an empty history.
func BuildAccounts(seed []SeedAccount) []models.Account {
	out := make([]models.Account, 0, len(seed))
	for _, s := range seed {
		out = append(out, models.Account{
			ID:             uuid.New().String(),
			Code:           s.Code,
			Name:           s.Name,
			Balance:        s.Balance,
			DailyWithdrawn: decimal.Zero,
		})
	}
	return out
}
