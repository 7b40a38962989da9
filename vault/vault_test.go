package vault

import (
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/domeprotocol/dome-go/events"
	"github.com/domeprotocol/dome-go/ledger"
	"github.com/domeprotocol/dome-go/strategy"
	"github.com/domeprotocol/dome-go/treasury"
)

func makeAddr(seed byte) ledger.Address {
	var addr ledger.Address
	for i := range addr {
		addr[i] = seed
	}
	return addr
}

var (
	alice        = makeAddr(0xAA)
	bob          = makeAddr(0xBB)
	bufferWallet = makeAddr(0x01)
)

type fixture struct {
	vault      *Vault
	clock      *clockwork.FakeClock
	strat      *strategy.Mock
	underlying *ledger.Ledger
	shares     *ledger.Ledger
	buffer     *treasury.Buffer
	log        *events.Log
}

func newFixture(t *testing.T, donationBps uint32) *fixture {
	t.Helper()
	f := &fixture{
		clock:      clockwork.NewFakeClockAt(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)),
		strat:      strategy.NewMock(),
		underlying: ledger.New("USDC"),
		shares:     ledger.New("DOME-SHARE"),
		buffer:     treasury.NewBuffer(),
		log:        events.NewLog(),
	}
	v, err := New(Config{
		Clock:        f.clock,
		Strategy:     f.strat,
		Underlying:   f.underlying,
		Shares:       f.shares,
		Buffer:       f.buffer,
		BufferWallet: bufferWallet,
		DonationBps:  donationBps,
		Recorder:     f.log,
	})
	require.NoError(t, err)
	f.vault = v
	return f
}

func (f *fixture) fund(t *testing.T, addr ledger.Address, amount uint64) {
	t.Helper()
	require.NoError(t, f.underlying.Mint(addr, amount))
}

func TestDeposit_Validation(t *testing.T) {
	f := newFixture(t, 1000)
	f.fund(t, alice, 100)

	require.ErrorIs(t, f.vault.Deposit(alice, alice, 0), ErrZeroAmount)
	require.ErrorIs(t, f.vault.Deposit(alice, ledger.ZeroAddress, 10), ErrInvalidReceiver)
	require.ErrorIs(t, f.vault.Deposit(alice, alice, 101), ledger.ErrInsufficientBalance)

	// Nothing moved on any failure.
	assert.Equal(t, uint64(100), f.underlying.BalanceOf(alice))
	assert.Equal(t, uint64(0), f.shares.TotalSupply())
}

func TestDeposit_BootstrapsScaledShares(t *testing.T) {
	f := newFixture(t, 1000)
	f.fund(t, alice, 100)

	require.NoError(t, f.vault.Deposit(alice, alice, 100))
	assert.Equal(t, uint64(100*ShareScalar), f.shares.BalanceOf(alice))
	assert.Equal(t, uint64(100), f.strat.TotalAssets())
	assert.Equal(t, uint64(0), f.underlying.BalanceOf(alice))
	assert.Equal(t, Accounting{Deposited: 100}, f.vault.Accounting(alice))

	deposits := f.log.ByType(events.TypeDeposit)
	require.Len(t, deposits, 1)
	assert.Equal(t, uint64(100*ShareScalar), deposits[0].(events.Deposit).Shares)
}

// Extreme deposits are rejected cleanly instead of minting a wrapped
// share count or panicking in the price arithmetic.
func TestDeposit_RejectsOverflow(t *testing.T) {
	f := newFixture(t, 1000)
	f.fund(t, alice, 1<<60)

	// Bootstrap: assets*ShareScalar would wrap uint64.
	require.ErrorIs(t, f.vault.Deposit(alice, alice, 1<<60), ErrAmountTooLarge)
	assert.Equal(t, uint64(1<<60), f.underlying.BalanceOf(alice))
	assert.Equal(t, uint64(0), f.shares.TotalSupply())

	// Collapsed valuation: supply 1000*ShareScalar against a single asset
	// unit prices the deposit beyond uint64.
	require.NoError(t, f.vault.Deposit(alice, alice, 1000))
	f.strat.SetTotalAssets(1)
	f.fund(t, bob, 1<<40)
	require.ErrorIs(t, f.vault.Deposit(bob, bob, 1<<40), ErrAmountTooLarge)
	assert.Equal(t, uint64(1<<40), f.underlying.BalanceOf(bob))
	assert.Equal(t, uint64(1000*ShareScalar), f.shares.TotalSupply())
}

func TestDeposit_ProportionalAtCurrentPrice(t *testing.T) {
	f := newFixture(t, 1000)
	f.fund(t, alice, 100)
	f.fund(t, bob, 100)

	require.NoError(t, f.vault.Deposit(alice, alice, 100))
	f.strat.ScaleAssets(2, 1) // price doubles

	// Bob's 100 buys half as many shares at the doubled price.
	require.NoError(t, f.vault.Deposit(bob, bob, 100))
	assert.Equal(t, uint64(50*ShareScalar), f.shares.BalanceOf(bob))
}

func TestShareConservation(t *testing.T) {
	f := newFixture(t, 1000)
	f.fund(t, alice, 1000)
	f.fund(t, bob, 1000)

	check := func() {
		var sum uint64
		for _, h := range f.shares.Holders() {
			sum += f.shares.BalanceOf(h)
		}
		assert.Equal(t, f.shares.TotalSupply(), sum)
	}

	require.NoError(t, f.vault.Deposit(alice, alice, 500))
	check()
	require.NoError(t, f.vault.Deposit(bob, bob, 300))
	check()
	require.NoError(t, f.shares.Transfer(alice, bob, 100*ShareScalar))
	check()
	f.strat.ScaleAssets(3, 2)
	require.NoError(t, f.vault.Redeem(bob, bob, 150*ShareScalar))
	check()
	require.NoError(t, f.vault.Redeem(alice, alice, 400*ShareScalar))
	check()
}

func TestRedeem_Validation(t *testing.T) {
	f := newFixture(t, 1000)
	f.fund(t, alice, 100)
	require.NoError(t, f.vault.Deposit(alice, alice, 100))

	require.ErrorIs(t, f.vault.Redeem(alice, alice, 0), ErrZeroAmount)
	require.ErrorIs(t, f.vault.Redeem(alice, ledger.ZeroAddress, 1), ErrInvalidReceiver)
	require.ErrorIs(t, f.vault.Redeem(alice, alice, 100*ShareScalar+1), ledger.ErrInsufficientBalance)
	require.ErrorIs(t, f.vault.Redeem(bob, bob, 1), ledger.ErrInsufficientBalance)
}

func TestRedeem_DonationOnProfit(t *testing.T) {
	f := newFixture(t, 1000) // 10%
	f.fund(t, alice, 100)
	require.NoError(t, f.vault.Deposit(alice, alice, 100))

	f.strat.ScaleAssets(2, 1) // 100 -> 200

	require.NoError(t, f.vault.Redeem(alice, alice, 100*ShareScalar))

	// gross 200, profit 100, donation 10, net 190.
	assert.Equal(t, uint64(190), f.underlying.BalanceOf(alice))
	assert.Equal(t, uint64(10), f.underlying.BalanceOf(bufferWallet))
	assert.Equal(t, uint64(10), f.buffer.Reserve())
	assert.Equal(t, Accounting{Deposited: 100, Withdrawn: 190, Donated: 10}, f.vault.Accounting(alice))
}

// No donation is taken on break-even or loss: deposit 100, price falls to
// 0.5 and then 0.4, redeem fully in two slices.
func TestRedeem_NoDonationOnLoss(t *testing.T) {
	f := newFixture(t, 1000)
	f.fund(t, alice, 100)
	require.NoError(t, f.vault.Deposit(alice, alice, 100))

	f.strat.ScaleAssets(1, 2) // price 1 -> 0.5
	require.NoError(t, f.vault.Redeem(alice, alice, 50*ShareScalar))

	f.strat.ScaleAssets(4, 5) // price 0.5 -> 0.4
	require.NoError(t, f.vault.Redeem(alice, alice, 50*ShareScalar))

	acc := f.vault.Accounting(alice)
	assert.Equal(t, uint64(0), acc.Donated)
	assert.Equal(t, uint64(45), acc.Withdrawn) // 25 + 20
	assert.Equal(t, uint64(0), f.buffer.Reserve())
}

func TestRedeem_BreakEvenNoDonation(t *testing.T) {
	f := newFixture(t, 1000)
	f.fund(t, alice, 100)
	require.NoError(t, f.vault.Deposit(alice, alice, 100))

	require.NoError(t, f.vault.Redeem(alice, alice, 100*ShareScalar))
	acc := f.vault.Accounting(alice)
	assert.Equal(t, uint64(0), acc.Donated)
	assert.Equal(t, uint64(100), acc.Withdrawn)
}

// Donation after recovery is computed only on net profit since the last
// realization: deposit 100, price to 0.5, redeem 1/5 of the shares, price
// to 1.5, redeem the remainder. The loss carried forward keeps the basis
// at 90, so the final profit is 30 and the 10% donation is 3.
func TestRedeem_DonationAfterRecovery(t *testing.T) {
	f := newFixture(t, 1000)
	f.fund(t, alice, 100)
	require.NoError(t, f.vault.Deposit(alice, alice, 100))

	f.strat.ScaleAssets(1, 2) // price 1 -> 0.5
	require.NoError(t, f.vault.Redeem(alice, alice, 20*ShareScalar))
	assert.Equal(t, uint64(10), f.vault.Accounting(alice).Withdrawn)

	f.strat.ScaleAssets(3, 1) // price 0.5 -> 1.5
	require.NoError(t, f.vault.Redeem(alice, alice, 80*ShareScalar))

	acc := f.vault.Accounting(alice)
	assert.Equal(t, uint64(3), acc.Donated)
	assert.Equal(t, acc.Withdrawn, uint64(117+10))
	assert.Equal(t, uint64(3), f.buffer.Reserve())
}

// A misconfigured donation rate above 100% is capped at gross proceeds:
// net reaches zero but never goes negative.
func TestRedeem_DonationCap(t *testing.T) {
	f := newFixture(t, 1000)
	f.fund(t, alice, 100)
	require.NoError(t, f.vault.Deposit(alice, alice, 100))

	f.vault.SetDonationBps(20000) // 200%
	f.strat.ScaleAssets(2, 1)

	require.NoError(t, f.vault.Redeem(alice, alice, 100*ShareScalar))

	acc := f.vault.Accounting(alice)
	assert.Equal(t, uint64(0), acc.Withdrawn)
	assert.Equal(t, uint64(200), acc.Donated)
	assert.Equal(t, uint64(0), f.underlying.BalanceOf(alice))
	assert.Equal(t, uint64(200), f.buffer.Reserve())
}

func TestRedeem_ToDifferentReceiver(t *testing.T) {
	f := newFixture(t, 1000)
	f.fund(t, alice, 100)
	require.NoError(t, f.vault.Deposit(alice, alice, 100))

	require.NoError(t, f.vault.Redeem(alice, bob, 40*ShareScalar))
	assert.Equal(t, uint64(40), f.underlying.BalanceOf(bob))

	// Lifetime counters belong to the owner, not the receiver.
	assert.Equal(t, uint64(40), f.vault.Accounting(alice).Withdrawn)
	assert.Equal(t, Accounting{}, f.vault.Accounting(bob))
}

func TestConfig_Validate(t *testing.T) {
	cfg := Config{
		Strategy:     strategy.NewMock(),
		Underlying:   ledger.New("USDC"),
		Shares:       ledger.New("S"),
		Buffer:       treasury.NewBuffer(),
		BufferWallet: bufferWallet,
	}
	require.NoError(t, cfg.Validate())
	assert.Equal(t, DefaultWithdrawalDelay, cfg.WithdrawalDelay)
	assert.NotNil(t, cfg.Clock)
	assert.NotNil(t, cfg.Recorder)

	require.Error(t, (&Config{}).Validate())
}
