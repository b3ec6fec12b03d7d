package postgres

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/sheikh-saqib/atm-ledger-system/internal/models/events"
)

func TestNullString(t *testing.T) {
	if ns := nullString(""); ns.Valid {
		t.Fatal("empty string should be NULL")
	}
	if ns := nullString("x"); !ns.Valid || ns.String != "x" {
		t.Fatalf("unexpected %+v", ns)
	}
}

func TestPublishRejectsForeignEvents(t *testing.T) {
	j := NewJournal(nil)
	if err := j.Publish(context.Background(), events.Topic, "not an event"); err == nil {
		t.Fatal("want error for unsupported event type")
	}
}

// TestJournalRoundTrip runs only against a real database:
// POSTGRES_TEST_DSN=postgres://... go test ./internal/storage/postgres
func TestJournalRoundTrip(t *testing.T) {
	dsn := os.Getenv("POSTGRES_TEST_DSN")
	if dsn == "" {
		t.Skip("POSTGRES_TEST_DSN not set")
	}

	ctx := context.Background()
	j, err := Open(ctx, dsn)
	if err != nil {
		t.Fatal(err)
	}
	defer j.Close()

	accountID := uuid.New().String()
	e := events.LedgerEvent{
		ID:         uuid.New().String(),
		Kind:       events.KindDeposit,
		AccountID:  accountID,
		Amount:     decimal.RequireFromString("12.50"),
		Balance:    decimal.RequireFromString("112.50"),
		OccurredAt: time.Now().UTC().Truncate(time.Microsecond),
	}
	if err := j.Publish(ctx, events.Topic, e); err != nil {
		t.Fatal(err)
	}
	// duplicate id is ignored
	if err := j.Publish(ctx, events.Topic, e); err != nil {
		t.Fatal(err)
	}

	got, err := j.EventsByAccount(ctx, accountID)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].ID != e.ID || !got[0].Amount.Equal(e.Amount) || got[0].Kind != events.KindDeposit {
		t.Fatalf("unexpected events: %+v", got)
	}
}
