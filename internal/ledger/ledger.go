package ledger

import (
	"context"
	"fmt"
	"log"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	interfaces "github.com/sheikh-saqib/atm-ledger-system/internal/interfaces"
	"github.com/sheikh-saqib/atm-ledger-system/internal/models"
	"github.com/sheikh-saqib/atm-ledger-system/internal/models/events"
)

const DefaultHistorySize = 5

// DefaultDailyWithdrawLimit caps the cumulative withdrawals of an account.
var DefaultDailyWithdrawLimit = decimal.NewFromInt(2000)

// Config tunes the ledger rules. Zero values fall back to the defaults.
type Config struct {
	DailyWithdrawLimit decimal.Decimal
	HistorySize        int
}

// Ledger applies the account rules on top of an AccountStore. It keeps no
// account state of its own: every operation looks the account up, works
// on the copy and commits it back with a single Save.
type Ledger struct {
	store     interfaces.AccountStore
	publisher interfaces.EventPublisher // optional, nil disables events

	limit       decimal.Decimal
	historySize int

	muMap map[string]*accountLock // one mutex per access code in use
	mapMu sync.Mutex              // protects the muMap itself
}

// accountLock is dropped from muMap once no caller holds or waits on it.
type accountLock struct {
	mu   sync.Mutex
	refs int
}

// NewLedger creates a Ledger over store. publisher may be nil.
func NewLedger(store interfaces.AccountStore, publisher interfaces.EventPublisher, cfg Config) *Ledger {
	l := &Ledger{
		store:       store,
		publisher:   publisher,
		limit:       cfg.DailyWithdrawLimit,
		historySize: cfg.HistorySize,
		muMap:       make(map[string]*accountLock),
	}
	if !l.limit.IsPositive() {
		l.limit = DefaultDailyWithdrawLimit
	}
	if l.historySize <= 0 {
		l.historySize = DefaultHistorySize
	}
	return l
}

func (l *Ledger) getAccountLock(code string) *accountLock {
	l.mapMu.Lock()
	defer l.mapMu.Unlock()

	if _, exists := l.muMap[code]; !exists {
		l.muMap[code] = &accountLock{}
	}
	al := l.muMap[code]
	al.refs++
	return al
}

func (l *Ledger) putAccountLock(code string, al *accountLock) {
	l.mapMu.Lock()
	defer l.mapMu.Unlock()

	al.refs--
	if al.refs == 0 {
		delete(l.muMap, code)
	}
}

// lock acquires the mutex of every distinct code in ascending code order
// and returns the matching unlock function.
func (l *Ledger) lock(codes ...string) func() {
	ordered := make([]string, 0, len(codes))
	seen := make(map[string]bool, len(codes))
	for _, c := range codes {
		if !seen[c] {
			seen[c] = true
			ordered = append(ordered, c)
		}
	}
	sort.Strings(ordered)

	held := make([]*accountLock, 0, len(ordered))
	for _, c := range ordered {
		al := l.getAccountLock(c)
		al.mu.Lock()
		held = append(held, al)
	}
	return func() {
		for i := len(held) - 1; i >= 0; i-- {
			held[i].mu.Unlock()
			l.putAccountLock(ordered[i], held[i])
		}
	}
}

// DailyWithdrawLimit returns the limit the ledger enforces.
func (l *Ledger) DailyWithdrawLimit() decimal.Decimal {
	return l.limit
}

func (l *Ledger) CheckBalance(code string) (decimal.Decimal, error) {
	unlock := l.lock(code)
	defer unlock()

	acct, err := l.store.Lookup(code)
	if err != nil {
		return decimal.Zero, err
	}
	return acct.Balance, nil
}

// Deposit credits a positive amount and records it in the history.
func (l *Ledger) Deposit(ctx context.Context, code string, amount decimal.Decimal) (models.Account, error) {
	if !validAmount(amount) {
		return models.Account{}, models.ErrInvalidAmount
	}

	unlock := l.lock(code)
	defer unlock()

	acct, err := l.store.Lookup(code)
	if err != nil {
		return models.Account{}, err
	}

	acct.Balance = acct.Balance.Add(amount)
	acct.Transactions = appendHistory(acct.Transactions, "Deposited "+money(amount), l.historySize)
	if err := l.store.Save(acct); err != nil {
		return models.Account{}, err
	}

	l.publish(ctx, events.KindDeposit, acct, "", amount)
	return acct, nil
}

// Withdraw debits amount when it is positive, covered by the balance and
// within what is left of the daily limit. An amount above the balance is
// reported as insufficient funds even when it would also break the limit.
func (l *Ledger) Withdraw(ctx context.Context, code string, amount decimal.Decimal) (models.Account, error) {
	if !validAmount(amount) {
		return models.Account{}, models.ErrInvalidAmount
	}

	unlock := l.lock(code)
	defer unlock()

	acct, err := l.store.Lookup(code)
	if err != nil {
		return models.Account{}, err
	}
	if amount.GreaterThan(acct.Balance) {
		return models.Account{}, models.ErrInsufficientFunds
	}
	if acct.DailyWithdrawn.Add(amount).GreaterThan(l.limit) {
		return models.Account{}, models.ErrDailyLimitExceeded
	}

	acct.Balance = acct.Balance.Sub(amount)
	acct.DailyWithdrawn = acct.DailyWithdrawn.Add(amount)
	acct.Transactions = appendHistory(acct.Transactions, "Withdrew "+money(amount), l.historySize)
	if err := l.store.Save(acct); err != nil {
		return models.Account{}, err
	}

	l.publish(ctx, events.KindWithdrawal, acct, "", amount)
	return acct, nil
}

// Transfer moves amount from fromCode to toCode. Both accounts are locked
// in code order and committed with one Save, so either both balances and
// both histories change or nothing does.
func (l *Ledger) Transfer(ctx context.Context, fromCode, toCode string, amount decimal.Decimal) (models.Account, error) {
	if toCode == fromCode || !l.store.Contains(toCode) {
		return models.Account{}, models.ErrInvalidRecipient
	}
	if !validAmount(amount) {
		return models.Account{}, models.ErrInsufficientFundsOrInvalidAmount
	}

	unlock := l.lock(fromCode, toCode)
	defer unlock()

	from, err := l.store.Lookup(fromCode)
	if err != nil {
		return models.Account{}, err
	}
	to, err := l.store.Lookup(toCode)
	if err != nil {
		return models.Account{}, models.ErrInvalidRecipient
	}
	if amount.GreaterThan(from.Balance) {
		return models.Account{}, models.ErrInsufficientFundsOrInvalidAmount
	}

	from.Balance = from.Balance.Sub(amount)
	to.Balance = to.Balance.Add(amount)
	from.Transactions = appendHistory(from.Transactions,
		fmt.Sprintf("Transferred %s to %s", money(amount), to.Name), l.historySize)
	to.Transactions = appendHistory(to.Transactions,
		fmt.Sprintf("Received %s from %s", money(amount), from.Name), l.historySize)

	if err := l.store.Save(from, to); err != nil {
		return models.Account{}, err
	}

	l.publish(ctx, events.KindTransfer, from, to.ID, amount)
	return from, nil
}

// ViewTransactions returns the retained history, oldest first.
func (l *Ledger) ViewTransactions(code string) ([]string, error) {
	unlock := l.lock(code)
	defer unlock()

	acct, err := l.store.Lookup(code)
	if err != nil {
		return nil, err
	}
	out := make([]string, len(acct.Transactions))
	copy(out, acct.Transactions)
	return out, nil
}

// Summary totals the deposits and withdrawals found in the retained
// history window. Entries evicted from the window no longer count.
func (l *Ledger) Summary(code string) (models.Summary, error) {
	unlock := l.lock(code)
	defer unlock()

	acct, err := l.store.Lookup(code)
	if err != nil {
		return models.Summary{}, err
	}

	sum := models.Summary{
		Name:           acct.Name,
		TotalDeposited: decimal.Zero,
		TotalWithdrawn: decimal.Zero,
	}
	for _, tx := range acct.Transactions {
		amount, ok := entryAmount(tx)
		if !ok {
			continue
		}
		if strings.Contains(tx, depositedMarker) {
			sum.TotalDeposited = sum.TotalDeposited.Add(amount)
		}
		if strings.Contains(tx, withdrewMarker) {
			sum.TotalWithdrawn = sum.TotalWithdrawn.Add(amount)
		}
	}
	return sum, nil
}

// ApplyLoan credits any positive amount. There is no creditworthiness check.
func (l *Ledger) ApplyLoan(ctx context.Context, code string, amount decimal.Decimal) (models.Account, error) {
	if !validAmount(amount) {
		return models.Account{}, models.ErrInvalidAmount
	}

	unlock := l.lock(code)
	defer unlock()

	acct, err := l.store.Lookup(code)
	if err != nil {
		return models.Account{}, err
	}

	acct.Balance = acct.Balance.Add(amount)
	acct.Transactions = appendHistory(acct.Transactions, "Loan approved for "+money(amount), l.historySize)
	if err := l.store.Save(acct); err != nil {
		return models.Account{}, err
	}

	l.publish(ctx, events.KindLoan, acct, "", amount)
	return acct, nil
}

// ChangeCode rekeys the account. The caller must move its session to
// newCode once this returns nil.
func (l *Ledger) ChangeCode(ctx context.Context, oldCode, newCode string) error {
	if newCode == "" || newCode == oldCode {
		return models.ErrInvalidOrDuplicatePin
	}

	unlock := l.lock(oldCode, newCode)
	defer unlock()

	if err := l.store.Rekey(oldCode, newCode); err != nil {
		return err
	}

	if acct, err := l.store.Lookup(newCode); err == nil {
		l.publish(ctx, events.KindRekey, acct, "", decimal.Zero)
	}
	return nil
}

func (l *Ledger) Rename(ctx context.Context, code, newName string) error {
	unlock := l.lock(code)
	defer unlock()

	if err := l.store.Rename(code, newName); err != nil {
		return err
	}

	if acct, err := l.store.Lookup(code); err == nil {
		l.publish(ctx, events.KindRename, acct, "", decimal.Zero)
	}
	return nil
}

// publish emits the event for a committed change. A failing publisher is
// logged and never undoes the change.
func (l *Ledger) publish(ctx context.Context, kind events.Kind, acct models.Account, counterpartyID string, amount decimal.Decimal) {
	if l.publisher == nil {
		return
	}

	event := events.LedgerEvent{
		ID:             uuid.New().String(),
		Kind:           kind,
		AccountID:      acct.ID,
		CounterpartyID: counterpartyID,
		Amount:         amount,
		Balance:        acct.Balance,
		OccurredAt:     time.Now().UTC(),
	}
	if err := l.publisher.Publish(ctx, events.Topic, event); err != nil {
		log.Printf("ledger: publish %s event %s: %v", kind, event.ID, err)
	}
}
