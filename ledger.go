package ledgerxgo

import (
	"sort"
	"sync"

	"github.com/shopspring/decimal"
)

// AccountBalance is a point-in-time view of a single account.
type AccountBalance struct {
	ID      string
	Balance decimal.Decimal
}

// Ledger maps account identifiers to balances. All methods are safe for
// unrestricted concurrent use. Mutations hold the write side of a single
// map-wide guard for the whole operation, so a transfer is never observable
// half-applied and an accepted balance is never negative.
type Ledger struct {
	mu       sync.RWMutex
	accounts map[string]decimal.Decimal
}

var (
	_ Repository = (*Ledger)(nil)
)

func NewLedger() *Ledger {
	return &Ledger{
		accounts: make(map[string]decimal.Decimal),
	}
}

// CreateAccount initializes a zero-balance account. Identifiers are opaque
// and unique; a duplicate fails with no side effect.
func (l *Ledger) CreateAccount(id string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, ok := l.accounts[id]; ok {
		return ErrAlreadyExists{ID: id}
	}
	l.accounts[id] = decimal.Zero
	return nil
}

func (l *Ledger) Balance(id string) (decimal.Decimal, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	bal, ok := l.accounts[id]
	if !ok {
		return decimal.Zero, ErrNotFound{ID: id}
	}
	return bal, nil
}

func (l *Ledger) Deposit(id string, amount decimal.Decimal) (decimal.Decimal, error) {
	if amount.IsNegative() {
		return decimal.Zero, ErrInvalidAmount{Amount: amount}
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	bal, ok := l.accounts[id]
	if !ok {
		return decimal.Zero, ErrNotFound{ID: id}
	}
	bal = bal.Add(amount)
	l.accounts[id] = bal
	return bal, nil
}

func (l *Ledger) Withdraw(id string, amount decimal.Decimal) (decimal.Decimal, error) {
	if amount.IsNegative() {
		return decimal.Zero, ErrInvalidAmount{Amount: amount}
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	bal, ok := l.accounts[id]
	if !ok {
		return decimal.Zero, ErrNotFound{ID: id}
	}
	if amount.GreaterThan(bal) {
		return decimal.Zero, ErrInsufficientFunds{ID: id}
	}
	bal = bal.Sub(amount)
	l.accounts[id] = bal
	return bal, nil
}

// Transfer moves amount between two accounts under one exclusive section;
// either both balances change or neither does. Check order is fixed:
// same-account, existence of the source, existence of the destination,
// amount sign, then funds.
func (l *Ledger) Transfer(from, to string, amount decimal.Decimal) (decimal.Decimal, decimal.Decimal, error) {
	if from == to {
		return decimal.Zero, decimal.Zero, ErrSameAccount{ID: from}
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	fbal, ok := l.accounts[from]
	if !ok {
		return decimal.Zero, decimal.Zero, ErrNotFound{ID: from}
	}
	tbal, ok := l.accounts[to]
	if !ok {
		return decimal.Zero, decimal.Zero, ErrNotFound{ID: to}
	}
	if amount.IsNegative() {
		return decimal.Zero, decimal.Zero, ErrInvalidAmount{Amount: amount}
	}
	if amount.GreaterThan(fbal) {
		return decimal.Zero, decimal.Zero, ErrInsufficientFunds{ID: from}
	}
	fbal = fbal.Sub(amount)
	tbal = tbal.Add(amount)
	l.accounts[from] = fbal
	l.accounts[to] = tbal
	return fbal, tbal, nil
}

// Accounts returns a snapshot of every account sorted by identifier.
func (l *Ledger) Accounts() []AccountBalance {
	l.mu.RLock()
	defer l.mu.RUnlock()

	accts := make([]AccountBalance, 0, len(l.accounts))
	for id, bal := range l.accounts {
		accts = append(accts, AccountBalance{ID: id, Balance: bal})
	}
	sort.Slice(accts, func(i, j int) bool {
		return accts[i].ID < accts[j].ID
	})
	return accts
}
