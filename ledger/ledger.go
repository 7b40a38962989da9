package ledger

import (
	"fmt"
	"math"
	"sync"
)

// Ledger tracks balances of one fungible token. All mutations hold the
// ledger lock so balance and total-supply updates are observed atomically;
// sum(balances) == TotalSupply holds at every point.
type Ledger struct {
	mu          sync.RWMutex
	symbol      string
	balances    map[Address]uint64
	totalSupply uint64
}

// New creates an empty ledger for the token identified by symbol.
func New(symbol string) *Ledger {
	return &Ledger{
		symbol:   symbol,
		balances: make(map[Address]uint64),
	}
}

// Symbol returns the token symbol.
func (l *Ledger) Symbol() string { return l.symbol }

// TotalSupply returns the current total supply.
func (l *Ledger) TotalSupply() uint64 {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.totalSupply
}

// BalanceOf returns the balance of account. Unknown accounts hold zero.
func (l *Ledger) BalanceOf(account Address) uint64 {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.balances[account]
}

// Mint credits amount to account and grows total supply.
func (l *Ledger) Mint(account Address, amount uint64) error {
	if account.IsZero() {
		return fmt.Errorf("%w: mint to null address", ErrInvalidReceiver)
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if amount > math.MaxUint64-l.totalSupply {
		return fmt.Errorf("%w: mint %d", ErrSupplyOverflow, amount)
	}
	l.balances[account] += amount
	l.totalSupply += amount
	return nil
}

// Burn debits amount from account and shrinks total supply.
func (l *Ledger) Burn(account Address, amount uint64) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	bal := l.balances[account]
	if amount > bal {
		return fmt.Errorf("%w: burn %d exceeds balance %d", ErrInsufficientBalance, amount, bal)
	}
	l.setBalance(account, bal-amount)
	l.totalSupply -= amount
	return nil
}

// Transfer moves amount from one account to another. Supply is unchanged.
func (l *Ledger) Transfer(from, to Address, amount uint64) error {
	if to.IsZero() {
		return fmt.Errorf("%w: transfer to null address", ErrInvalidReceiver)
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	bal := l.balances[from]
	if amount > bal {
		return fmt.Errorf("%w: transfer %d exceeds balance %d", ErrInsufficientBalance, amount, bal)
	}
	l.setBalance(from, bal-amount)
	l.balances[to] += amount
	return nil
}

// Holders returns every address with a non-zero balance.
func (l *Ledger) Holders() []Address {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]Address, 0, len(l.balances))
	for addr := range l.balances {
		out = append(out, addr)
	}
	return out
}

// setBalance writes a balance, dropping emptied accounts from the map.
func (l *Ledger) setBalance(account Address, balance uint64) {
	if balance == 0 {
		delete(l.balances, account)
		return
	}
	l.balances[account] = balance
}
