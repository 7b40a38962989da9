// Package treasury holds the per-dome donation buffer and the
// beneficiary distribution rules.
package treasury

import (
	"fmt"
	"sync"
)

// Buffer is the per-dome reserve of underlying assets earmarked for
// governance funding. It only grows through donation inflows and profit
// skims, and only shrinks through project funding payouts; the reserve can
// never go negative.
type Buffer struct {
	mu      sync.Mutex
	reserve uint64
}

// NewBuffer returns an empty buffer.
func NewBuffer() *Buffer { return &Buffer{} }

// Reserve returns the current reserve balance.
func (b *Buffer) Reserve() uint64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.reserve
}

// Credit adds amount to the reserve.
func (b *Buffer) Credit(amount uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.reserve += amount
}

// Debit removes amount from the reserve. The reserve is an eligibility
// filter, not a partial-fill mechanism: a debit larger than the reserve
// fails outright.
func (b *Buffer) Debit(amount uint64) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if amount > b.reserve {
		return fmt.Errorf("%w: debit %d exceeds reserve %d", ErrInsufficientReserve, amount, b.reserve)
	}
	b.reserve -= amount
	return nil
}
