package rabbitmq

import (
	"testing"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/shopspring/decimal"

	"github.com/sheikh-saqib/atm-ledger-system/internal/models/events"
)

func TestBuildPublishing(t *testing.T) {
	at := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	e := events.LedgerEvent{
		ID:         "evt-9",
		Kind:       events.KindLoan,
		AccountID:  "acct-2",
		Amount:     decimal.NewFromInt(300),
		Balance:    decimal.NewFromInt(300),
		OccurredAt: at,
	}

	msg, err := buildPublishing(events.Topic, e)
	if err != nil {
		t.Fatal(err)
	}
	if msg.Type != events.Topic || msg.MessageId != "evt-9" || !msg.Timestamp.Equal(at) {
		t.Fatalf("unexpected publishing: %+v", msg)
	}
	if msg.DeliveryMode != amqp.Persistent || msg.ContentType != "application/json" {
		t.Fatalf("unexpected delivery settings: %+v", msg)
	}
	if msg.Headers["kind"] != "loan" {
		t.Fatalf("headers=%v", msg.Headers)
	}
}
