// Package session holds the login state machine that gates every ledger
// operation, and the token registry the HTTP front-end keeps sessions in.
package session

import (
	interfaces "github.com/sheikh-saqib/atm-ledger-system/internal/interfaces"
	"github.com/sheikh-saqib/atm-ledger-system/internal/models"
)

const DefaultMaxFailedAttempts = 3

// Guard drives a caller-owned models.Session through
// LoggedOut -> LoggedIn -> LoggedOut.
//
// Reaching the failed-attempt threshold only raises the Locked warning in
// the result; the session is not blocked and a later valid code still
// logs in.
type Guard struct {
	store       interfaces.AccountStore
	maxAttempts int
}

// NewGuard creates a Guard. maxAttempts <= 0 uses DefaultMaxFailedAttempts.
func NewGuard(store interfaces.AccountStore, maxAttempts int) *Guard {
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxFailedAttempts
	}
	return &Guard{store: store, maxAttempts: maxAttempts}
}

func (g *Guard) Authenticate(s *models.Session, code string) models.AuthResult {
	if s.Authenticated {
		return models.AuthResult{Outcome: models.AuthAlreadyLoggedIn}
	}

	acct, err := g.store.Lookup(code)
	if err != nil {
		s.FailedAttempts++
		left := g.maxAttempts - s.FailedAttempts
		if left < 0 {
			left = 0
		}
		return models.AuthResult{
			Outcome:      models.AuthInvalidPin,
			AttemptsLeft: left,
			Locked:       s.FailedAttempts >= g.maxAttempts,
		}
	}

	s.Authenticated = true
	s.CurrentCode = code
	s.AccountID = acct.ID
	s.FailedAttempts = 0
	return models.AuthResult{Outcome: models.AuthSuccess, Name: acct.Name, AttemptsLeft: g.maxAttempts}
}

func (g *Guard) Logout(s *models.Session) {
	s.Authenticated = false
	s.CurrentCode = ""
	s.AccountID = ""
	s.FailedAttempts = 0
}

// Follow moves a logged-in session to the account's new code after a
// successful rekey.
func (g *Guard) Follow(s *models.Session, newCode string) {
	if s.Authenticated {
		s.CurrentCode = newCode
	}
}

// Require returns the code the session is logged in with. A session whose
// code no longer leads to the account it logged in to, because another
// session changed the pin, is logged out.
func (g *Guard) Require(s *models.Session) (string, error) {
	if s == nil || !s.Authenticated || s.CurrentCode == "" {
		return "", models.ErrNotAuthenticated
	}
	acct, err := g.store.Lookup(s.CurrentCode)
	if err != nil || acct.ID != s.AccountID {
		g.Logout(s)
		return "", models.ErrNotAuthenticated
	}
	return s.CurrentCode, nil
}
