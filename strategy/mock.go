package strategy

import (
	"sync"

	"github.com/domeprotocol/dome-go/ledger"
)

// Mock simulates a yield provider with a directly controllable asset value
// and a liquidity switch. Tests use it to move the share price and to force
// redemptions into the withdrawal queue; the simulator daemon uses it as
// the default provider.
type Mock struct {
	mu                 sync.Mutex
	assets             uint64
	withdrawalsEnabled bool
}

// Compile-time interface check.
var _ Strategy = (*Mock)(nil)

// NewMock returns an empty mock strategy with withdrawals enabled.
func NewMock() *Mock {
	return &Mock{withdrawalsEnabled: true}
}

// TotalAssets returns the current simulated value of the pool.
func (m *Mock) TotalAssets() uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.assets
}

// Deposit adds amount to the pool at the current value.
func (m *Mock) Deposit(amount uint64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.assets += amount
}

// Withdraw removes amount from the pool. It fails without side effects if
// withdrawals are disabled or the pool holds less than amount.
func (m *Mock) Withdraw(amount uint64) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.withdrawalsEnabled || amount > m.assets {
		return false
	}
	m.assets -= amount
	return true
}

// CanWithdraw reports whether Withdraw(amount) would succeed.
func (m *Mock) CanWithdraw(amount uint64) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.withdrawalsEnabled && amount <= m.assets
}

// SetWithdrawalsEnabled toggles the liquidity switch.
func (m *Mock) SetWithdrawalsEnabled(enabled bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.withdrawalsEnabled = enabled
}

// SetTotalAssets overrides the simulated pool value.
func (m *Mock) SetTotalAssets(assets uint64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.assets = assets
}

// ScaleAssets multiplies the pool value by num/den, simulating yield or
// loss in the external protocol.
func (m *Mock) ScaleAssets(num, den uint64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.assets = ledger.MulDiv(m.assets, num, den)
}
