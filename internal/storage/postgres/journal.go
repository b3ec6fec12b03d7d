package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	_ "github.com/lib/pq" // registers the "postgres" driver

	interfaces "github.com/sheikh-saqib/atm-ledger-system/internal/interfaces"
	"github.com/sheikh-saqib/atm-ledger-system/internal/models/events"
)

const createJournalTable = `CREATE TABLE IF NOT EXISTS ledger_events (
	id              TEXT PRIMARY KEY,
	topic           TEXT NOT NULL,
	kind            TEXT NOT NULL,
	account_id      TEXT NOT NULL,
	counterparty_id TEXT,
	amount          NUMERIC(18,2) NOT NULL,
	balance         NUMERIC(18,2) NOT NULL,
	occurred_at     TIMESTAMPTZ NOT NULL,
	payload         JSONB NOT NULL
)`

// Journal is an append-only audit trail of ledger events. It is never read
// back into ledger state.
type Journal struct {
	db *sql.DB
}

// Open connects to dsn and makes sure the journal table exists.
func Open(ctx context.Context, dsn string) (*Journal, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres: open: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("postgres: ping: %w", err)
	}

	j := NewJournal(db)
	if err := j.EnsureSchema(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return j, nil
}

func NewJournal(db *sql.DB) *Journal {
	return &Journal{db: db}
}

func (j *Journal) EnsureSchema(ctx context.Context) error {
	if _, err := j.db.ExecContext(ctx, createJournalTable); err != nil {
		return fmt.Errorf("postgres: create ledger_events: %w", err)
	}
	return nil
}

// Publish appends a ledger event. Other event types are rejected.
// Re-publishing an event with a known ID is a no-op.
func (j *Journal) Publish(ctx context.Context, topic string, event any) error {
	e, ok := event.(events.LedgerEvent)
	if !ok {
		return fmt.Errorf("postgres: unsupported event type %T", event)
	}

	payload, err := json.Marshal(e)
	if err != nil {
		return err
	}

	const query = `INSERT INTO ledger_events
	(id, topic, kind, account_id, counterparty_id, amount, balance, occurred_at, payload)
	VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
	ON CONFLICT (id) DO NOTHING`

	_, err = j.db.ExecContext(ctx, query,
		e.ID,
		topic,
		string(e.Kind),
		e.AccountID,
		nullString(e.CounterpartyID),
		e.Amount,
		e.Balance,
		e.OccurredAt,
		string(payload),
	)
	return err
}

// EventsByAccount returns the journaled events of one account, oldest first.
func (j *Journal) EventsByAccount(ctx context.Context, accountID string) ([]events.LedgerEvent, error) {
	const query = `SELECT id, kind, account_id, COALESCE(counterparty_id, ''), amount, balance, occurred_at
	FROM ledger_events WHERE account_id = $1 ORDER BY occurred_at`

	rows, err := j.db.QueryContext(ctx, query, accountID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []events.LedgerEvent
	for rows.Next() {
		var e events.LedgerEvent
		var kind string
		if err := rows.Scan(&e.ID, &kind, &e.AccountID, &e.CounterpartyID, &e.Amount, &e.Balance, &e.OccurredAt); err != nil {
			return nil, err
		}
		e.Kind = events.Kind(kind)
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (j *Journal) Close() error {
	return j.db.Close()
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

var _ interfaces.EventPublisher = (*Journal)(nil)
