package interfaces

import "github.com/sheikh-saqib/atm-ledger-system/internal/models"

// AccountStore exclusively owns every Account record. Callers only ever
// receive copies; changes go back through Save, Rekey or Rename.
type AccountStore interface {
	Lookup(code string) (models.Account, error)
	Contains(code string) bool
	Rekey(oldCode, newCode string) error
	Rename(code, newName string) error
	// Save commits every given record atomically. Each record must
	// already exist under its Code.
	Save(accounts ...models.Account) error
	List() []models.Account
}
