package session

import (
	"errors"
	"testing"

	"github.com/sheikh-saqib/atm-ledger-system/internal/models"
	"github.com/sheikh-saqib/atm-ledger-system/internal/storage"
	"github.com/sheikh-saqib/atm-ledger-system/internal/storage/memory"
)

func newTestGuard() *Guard {
	store := memory.NewAccountStore(storage.BuildAccounts(storage.DefaultSeed()))
	return NewGuard(store, 0)
}

func TestAuthenticateSuccess(t *testing.T) {
	g := newTestGuard()
	s := &models.Session{FailedAttempts: 2}

	res := g.Authenticate(s, "1234")
	if res.Outcome != models.AuthSuccess || res.Name != "Gotam Kumar" {
		t.Fatalf("unexpected result: %+v", res)
	}
	if !s.Authenticated || s.CurrentCode != "1234" || s.FailedAttempts != 0 {
		t.Fatalf("unexpected session: %+v", s)
	}

	code, err := g.Require(s)
	if err != nil || code != "1234" {
		t.Fatalf("Require=%q,%v", code, err)
	}
}

func TestAuthenticateFailuresCountDown(t *testing.T) {
	g := newTestGuard()
	s := &models.Session{}

	wantLeft := []int{2, 1, 0, 0}
	for i, left := range wantLeft {
		res := g.Authenticate(s, "0000")
		if res.Outcome != models.AuthInvalidPin || res.AttemptsLeft != left {
			t.Fatalf("attempt %d: %+v want attempts left %d", i+1, res, left)
		}
		if res.Locked != (i >= 2) {
			t.Fatalf("attempt %d: locked=%v", i+1, res.Locked)
		}
		if s.Authenticated {
			t.Fatal("failed attempt logged the session in")
		}
	}
	if s.FailedAttempts != 4 {
		t.Fatalf("failed attempts=%d want=4", s.FailedAttempts)
	}
}

func TestLockIsOnlyAWarning(t *testing.T) {
	g := newTestGuard()
	s := &models.Session{}

	for i := 0; i < 3; i++ {
		g.Authenticate(s, "bad")
	}
	if res := g.Authenticate(s, "5678"); res.Outcome != models.AuthSuccess {
		t.Fatalf("valid code after lock warning: %+v", res)
	}
	if s.FailedAttempts != 0 {
		t.Fatalf("failed attempts=%d want=0", s.FailedAttempts)
	}
}

func TestAlreadyLoggedIn(t *testing.T) {
	g := newTestGuard()
	s := &models.Session{}
	g.Authenticate(s, "1234")

	if res := g.Authenticate(s, "5678"); res.Outcome != models.AuthAlreadyLoggedIn {
		t.Fatalf("unexpected result: %+v", res)
	}
	if s.CurrentCode != "1234" {
		t.Fatalf("code=%q want=1234", s.CurrentCode)
	}
}

func TestLogoutAndRequire(t *testing.T) {
	g := newTestGuard()
	s := &models.Session{}

	if _, err := g.Require(s); !errors.Is(err, models.ErrNotAuthenticated) {
		t.Fatalf("want ErrNotAuthenticated, got %v", err)
	}
	if _, err := g.Require(nil); !errors.Is(err, models.ErrNotAuthenticated) {
		t.Fatalf("want ErrNotAuthenticated for nil session, got %v", err)
	}

	g.Authenticate(s, "admin")
	g.Logout(s)
	if s.Authenticated || s.CurrentCode != "" || s.FailedAttempts != 0 {
		t.Fatalf("unexpected session after logout: %+v", s)
	}
	if _, err := g.Require(s); !errors.Is(err, models.ErrNotAuthenticated) {
		t.Fatalf("want ErrNotAuthenticated, got %v", err)
	}
}

func TestFollow(t *testing.T) {
	g := newTestGuard()
	s := &models.Session{}

	g.Follow(s, "9999")
	if s.CurrentCode != "" {
		t.Fatal("logged-out session followed a rekey")
	}

	g.Authenticate(s, "1234")
	g.Follow(s, "9999")
	if s.CurrentCode != "9999" {
		t.Fatalf("code=%q want=9999", s.CurrentCode)
	}
}

func TestStaleSessionLoggedOutAfterPinChange(t *testing.T) {
	store := memory.NewAccountStore(storage.BuildAccounts(storage.DefaultSeed()))
	g := NewGuard(store, 0)
	a, b := &models.Session{}, &models.Session{}
	g.Authenticate(a, "1234")
	g.Authenticate(b, "1234")

	if err := store.Rekey("1234", "4321"); err != nil {
		t.Fatal(err)
	}
	g.Follow(a, "4321")

	if code, err := g.Require(a); err != nil || code != "4321" {
		t.Fatalf("Require(a)=%q,%v", code, err)
	}
	if _, err := g.Require(b); !errors.Is(err, models.ErrNotAuthenticated) {
		t.Fatalf("want ErrNotAuthenticated, got %v", err)
	}
	if b.Authenticated || b.CurrentCode != "" {
		t.Fatalf("stale session still logged in: %+v", b)
	}

	// the old code now belongs to a different account
	if err := store.Rekey("5678", "1234"); err != nil {
		t.Fatal(err)
	}
	c := &models.Session{}
	g.Authenticate(c, "4321")
	if err := store.Rekey("4321", "9999"); err != nil {
		t.Fatal(err)
	}
	if err := store.Rekey("1234", "4321"); err != nil {
		t.Fatal(err)
	}
	if _, err := g.Require(c); !errors.Is(err, models.ErrNotAuthenticated) {
		t.Fatalf("session reached another account: %v", err)
	}
}
