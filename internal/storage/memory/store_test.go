package memory

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/sheikh-saqib/atm-ledger-system/internal/models"
)

func newTestStore() *AccountStore {
	return NewAccountStore([]models.Account{
		{ID: "id-a", Code: "1111", Name: "A", Balance: decimal.NewFromInt(100), Transactions: []string{"Deposited $100.00"}},
		{ID: "id-b", Code: "2222", Name: "B", Balance: decimal.NewFromInt(50)},
	})
}

func TestLookupReturnsCopy(t *testing.T) {
	s := newTestStore()

	a, err := s.Lookup("1111")
	if err != nil {
		t.Fatal(err)
	}
	a.Balance = decimal.Zero
	a.Transactions[0] = "tampered"

	again, _ := s.Lookup("1111")
	if !again.Balance.Equal(decimal.NewFromInt(100)) {
		t.Fatalf("balance=%s want=100", again.Balance)
	}
	if again.Transactions[0] != "Deposited $100.00" {
		t.Fatalf("history leaked: %v", again.Transactions)
	}

	if _, err := s.Lookup("9999"); !errors.Is(err, models.ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}

func TestContains(t *testing.T) {
	s := newTestStore()
	if !s.Contains("1111") || s.Contains("nope") {
		t.Fatal("contains mismatch")
	}
}

func TestRekey(t *testing.T) {
	tests := []struct {
		name    string
		oldCode string
		newCode string
		wantErr error
	}{
		{"empty new code", "1111", "", models.ErrInvalidOrDuplicatePin},
		{"same code", "1111", "1111", models.ErrInvalidOrDuplicatePin},
		{"unknown old code", "9999", "3333", models.ErrInvalidOrDuplicatePin},
		{"taken by another account", "1111", "2222", models.ErrInvalidOrDuplicatePin},
		{"ok", "1111", "3333", nil},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			s := newTestStore()
			err := s.Rekey(tc.oldCode, tc.newCode)
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("err=%v want=%v", err, tc.wantErr)
			}
			if tc.wantErr != nil {
				// nothing moved
				if !s.Contains("1111") || !s.Contains("2222") {
					t.Fatal("failed rekey changed the store")
				}
				return
			}
			if s.Contains(tc.oldCode) {
				t.Fatal("old code still present")
			}
			a, err := s.Lookup(tc.newCode)
			if err != nil {
				t.Fatal(err)
			}
			if a.ID != "id-a" || a.Name != "A" || a.Code != "3333" ||
				!a.Balance.Equal(decimal.NewFromInt(100)) || len(a.Transactions) != 1 {
				t.Fatalf("rekey changed account fields: %+v", a)
			}
		})
	}
}

func TestRename(t *testing.T) {
	s := newTestStore()

	if err := s.Rename("1111", "  "); !errors.Is(err, models.ErrInvalidName) {
		t.Fatalf("want ErrInvalidName, got %v", err)
	}
	if err := s.Rename("9999", "X"); !errors.Is(err, models.ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
	if err := s.Rename("1111", "Alice"); err != nil {
		t.Fatal(err)
	}
	if a, _ := s.Lookup("1111"); a.Name != "Alice" {
		t.Fatalf("name=%q want=Alice", a.Name)
	}
}

func TestSaveIsAllOrNothing(t *testing.T) {
	s := newTestStore()

	a, _ := s.Lookup("1111")
	a.Balance = decimal.NewFromInt(1)
	ghost := models.Account{Code: "ghost"}

	if err := s.Save(a, ghost); !errors.Is(err, models.ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
	if got, _ := s.Lookup("1111"); !got.Balance.Equal(decimal.NewFromInt(100)) {
		t.Fatalf("partial save: balance=%s", got.Balance)
	}

	b, _ := s.Lookup("2222")
	b.Balance = decimal.NewFromInt(149)
	if err := s.Save(a, b); err != nil {
		t.Fatal(err)
	}
	if got, _ := s.Lookup("2222"); !got.Balance.Equal(decimal.NewFromInt(149)) {
		t.Fatalf("balance=%s want=149", got.Balance)
	}
}

func TestListSortedByCode(t *testing.T) {
	s := newTestStore()
	all := s.List()
	if len(all) != 2 || all[0].Code != "1111" || all[1].Code != "2222" {
		t.Fatalf("unexpected list: %+v", all)
	}
}
