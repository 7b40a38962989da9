// Package vault implements share-price-based deposit and redemption
// accounting against a pluggable yield strategy, with a profit-only
// donation skim and a time-delayed withdrawal queue.
package vault

import (
	"errors"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/domeprotocol/dome-go/events"
	"github.com/domeprotocol/dome-go/ledger"
	"github.com/domeprotocol/dome-go/strategy"
	"github.com/domeprotocol/dome-go/treasury"
)

// ShareScalar is the extra precision carried by share balances beyond the
// underlying asset's units. The first depositor receives
// assets*ShareScalar shares, bootstrapping the share price at 1.
const ShareScalar = 1_000_000

// DefaultWithdrawalDelay is the time a queued withdrawal must wait before
// it becomes processable.
const DefaultWithdrawalDelay = 24 * time.Hour

// Accounting holds a user's lifetime totals in asset units. All three
// counters are monotonically non-decreasing.
type Accounting struct {
	Deposited uint64
	Withdrawn uint64
	Donated   uint64
}

// account is the internal per-user record. costBasis is the unredeemed
// principal the donation skim measures profit against; realized losses
// reduce it only by the proceeds actually received, carrying the loss
// forward so later recoveries are measured against remaining principal.
type account struct {
	Accounting
	costBasis uint64
}

// QueuedWithdrawal is a delayed redemption awaiting both the withdrawal
// delay and strategy liquidity. Net and donation amounts are fixed at
// enqueue time, not re-derived at processing time. Each address has at
// most one live entry.
type QueuedWithdrawal struct {
	Shares         uint64
	NetAssets      uint64
	DonationAssets uint64
	Receiver       ledger.Address
	QueuedAt       time.Time
}

// Config wires a vault to its collaborators.
type Config struct {
	Clock    clockwork.Clock
	Strategy strategy.Strategy

	// Underlying is the asset ledger. Deposits leave it for the external
	// protocol; redemptions re-enter it at payout time.
	Underlying *ledger.Ledger

	// Shares is the vault's share token ledger.
	Shares *ledger.Ledger

	// Buffer accumulates donation skims; BufferWallet is the address the
	// skimmed assets are minted to (the dome address).
	Buffer       *treasury.Buffer
	BufferWallet ledger.Address

	DonationBps     uint32
	WithdrawalDelay time.Duration
	Recorder        events.Recorder
}

// Validate defaults optional fields and checks required collaborators.
func (c *Config) Validate() error {
	if c.Strategy == nil {
		return errors.New("vault: strategy is required")
	}
	if c.Underlying == nil {
		return errors.New("vault: underlying ledger is required")
	}
	if c.Shares == nil {
		return errors.New("vault: share ledger is required")
	}
	if c.Buffer == nil {
		return errors.New("vault: donation buffer is required")
	}
	if c.BufferWallet.IsZero() {
		return errors.New("vault: buffer wallet is required")
	}
	if c.Clock == nil {
		c.Clock = clockwork.NewRealClock()
	}
	if c.WithdrawalDelay == 0 {
		c.WithdrawalDelay = DefaultWithdrawalDelay
	}
	if c.Recorder == nil {
		c.Recorder = events.Discard{}
	}
	return nil
}

// Vault is the deposit/redeem state machine for one dome. Every public
// operation either commits all of its mutations or none; failures are
// detected before the first write.
type Vault struct {
	mu  sync.Mutex
	cfg Config

	donationBps uint32
	accounts    map[ledger.Address]*account
	queued      map[ledger.Address]*QueuedWithdrawal
}

// New creates a vault.
func New(cfg Config) (*Vault, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Vault{
		cfg:         cfg,
		donationBps: cfg.DonationBps,
		accounts:    make(map[ledger.Address]*account),
		queued:      make(map[ledger.Address]*QueuedWithdrawal),
	}, nil
}

// TotalAssets returns the strategy's current valuation of the pool.
func (v *Vault) TotalAssets() uint64 { return v.cfg.Strategy.TotalAssets() }

// TotalSupply returns the share token supply.
func (v *Vault) TotalSupply() uint64 { return v.cfg.Shares.TotalSupply() }

// ShareBalance returns the live share balance of an address.
func (v *Vault) ShareBalance(addr ledger.Address) uint64 {
	return v.cfg.Shares.BalanceOf(addr)
}

// DonationBps returns the current donation-on-profit rate.
func (v *Vault) DonationBps() uint32 {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.donationBps
}

// SetDonationBps updates the donation-on-profit rate. Values above 10000
// are accepted; the redemption path caps the skim at 100% of gross
// proceeds, so net can reach zero but never go negative.
func (v *Vault) SetDonationBps(bps uint32) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.donationBps = bps
}

// Accounting returns the lifetime totals for an address.
func (v *Vault) Accounting(addr ledger.Address) Accounting {
	v.mu.Lock()
	defer v.mu.Unlock()
	if acct, ok := v.accounts[addr]; ok {
		return acct.Accounting
	}
	return Accounting{}
}

// getAccount lazily creates the per-user record. Callers hold the lock.
func (v *Vault) getAccount(addr ledger.Address) *account {
	acct, ok := v.accounts[addr]
	if !ok {
		acct = &account{}
		v.accounts[addr] = acct
	}
	return acct
}
