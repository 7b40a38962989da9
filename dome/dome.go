// Package dome wires one protocol instance together: an underlying asset
// ledger, a share vault with its withdrawal queue, a donation buffer with
// a fixed beneficiary list, and a governance ledger funding projects from
// that buffer. The registry in this package instantiates domes at
// deterministic addresses.
package dome

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/domeprotocol/dome-go/events"
	"github.com/domeprotocol/dome-go/governance"
	"github.com/domeprotocol/dome-go/ledger"
	"github.com/domeprotocol/dome-go/strategy"
	"github.com/domeprotocol/dome-go/treasury"
	"github.com/domeprotocol/dome-go/vault"
)

// Config wires a single dome.
type Config struct {
	Clock clockwork.Clock

	// Owner may change the donation rate, the governance address and the
	// rewards pause switch.
	Owner ledger.Address

	// Address identifies the dome and doubles as the buffer wallet the
	// vault mints donation skims to.
	Address ledger.Address

	CID        string
	Underlying *ledger.Ledger

	// ShareSymbol defaults to "d" + the underlying symbol.
	ShareSymbol string

	Strategy      strategy.Strategy
	Beneficiaries []treasury.Beneficiary

	DonationBps     uint32
	WithdrawalDelay time.Duration

	// Voting carries the governance timing windows. Its clock is always
	// overwritten with the dome clock.
	Voting governance.Config

	// Events receives every committed operation. Defaults to a fresh
	// in-memory log.
	Events *events.Log
}

// Validate defaults optional fields and checks required collaborators.
func (c *Config) Validate() error {
	if c.Owner.IsZero() {
		return errors.New("dome: owner is required")
	}
	if c.Address.IsZero() {
		return errors.New("dome: address is required")
	}
	if c.Underlying == nil {
		return errors.New("dome: underlying ledger is required")
	}
	if c.Strategy == nil {
		return errors.New("dome: strategy is required")
	}
	if err := treasury.ValidateBeneficiaries(c.Beneficiaries); err != nil {
		return err
	}
	if c.Clock == nil {
		c.Clock = clockwork.NewRealClock()
	}
	if c.ShareSymbol == "" {
		c.ShareSymbol = "d" + c.Underlying.Symbol()
	}
	if c.Events == nil {
		c.Events = events.NewLog()
	}
	return nil
}

// Dome is one protocol instance. All admin state is guarded by its own
// mutex; vault and governance operations are serialized by their own.
type Dome struct {
	mu  sync.Mutex
	cfg Config

	shares *ledger.Ledger
	buffer *treasury.Buffer
	vault  *vault.Vault
	gov    *governance.Ledger
	log    *events.Log

	governanceAddr ledger.Address
	rewardsPaused  bool
}

// sharePower treats an address's live share balance as its voting weight.
type sharePower struct {
	shares *ledger.Ledger
}

var _ governance.PowerSource = sharePower{}

func (p sharePower) VotingPower(addr ledger.Address) uint64 {
	return p.shares.BalanceOf(addr)
}

// bufferTreasury adapts the donation buffer for governance payouts: a
// payout debits the reserve and moves the matching underlying balance
// from the dome address to the project wallet.
type bufferTreasury struct {
	buffer     *treasury.Buffer
	underlying *ledger.Ledger
	dome       ledger.Address
}

var _ governance.Treasury = (*bufferTreasury)(nil)

func (t *bufferTreasury) Reserve() uint64 { return t.buffer.Reserve() }

func (t *bufferTreasury) PayOut(wallet ledger.Address, amount uint64) error {
	if err := t.buffer.Debit(amount); err != nil {
		return err
	}
	if err := t.underlying.Transfer(t.dome, wallet, amount); err != nil {
		// The buffer reserve always has a matching underlying balance at
		// the dome address; restore the debit if that invariant is broken.
		t.buffer.Credit(amount)
		return fmt.Errorf("dome: funding transfer: %w", err)
	}
	return nil
}

// New creates a dome from its configuration.
func New(cfg Config) (*Dome, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	shares := ledger.New(cfg.ShareSymbol)
	buffer := treasury.NewBuffer()

	v, err := vault.New(vault.Config{
		Clock:           cfg.Clock,
		Strategy:        cfg.Strategy,
		Underlying:      cfg.Underlying,
		Shares:          shares,
		Buffer:          buffer,
		BufferWallet:    cfg.Address,
		DonationBps:     cfg.DonationBps,
		WithdrawalDelay: cfg.WithdrawalDelay,
		Recorder:        cfg.Events,
	})
	if err != nil {
		return nil, err
	}

	govCfg := cfg.Voting
	govCfg.Clock = cfg.Clock
	gov, err := governance.New(govCfg, sharePower{shares}, &bufferTreasury{
		buffer:     buffer,
		underlying: cfg.Underlying,
		dome:       cfg.Address,
	}, cfg.Events)
	if err != nil {
		return nil, err
	}

	return &Dome{
		cfg:    cfg,
		shares: shares,
		buffer: buffer,
		vault:  v,
		gov:    gov,
		log:    cfg.Events,
	}, nil
}

// Address returns the dome's deterministic address.
func (d *Dome) Address() ledger.Address { return d.cfg.Address }

// Owner returns the dome owner.
func (d *Dome) Owner() ledger.Address { return d.cfg.Owner }

// CID returns the dome's content identifier.
func (d *Dome) CID() string { return d.cfg.CID }

// Underlying returns the underlying asset ledger.
func (d *Dome) Underlying() *ledger.Ledger { return d.cfg.Underlying }

// Shares returns the dome's share token ledger.
func (d *Dome) Shares() *ledger.Ledger { return d.shares }

// Strategy returns the yield strategy backing the vault.
func (d *Dome) Strategy() strategy.Strategy { return d.cfg.Strategy }

// Beneficiaries returns a copy of the fixed beneficiary list.
func (d *Dome) Beneficiaries() []treasury.Beneficiary {
	out := make([]treasury.Beneficiary, len(d.cfg.Beneficiaries))
	copy(out, d.cfg.Beneficiaries)
	return out
}

// Events returns the dome's event log.
func (d *Dome) Events() *events.Log { return d.log }

// Reserve returns the donation buffer balance.
func (d *Dome) Reserve() uint64 { return d.buffer.Reserve() }

// GovernanceAddress returns the currently configured governance address.
func (d *Dome) GovernanceAddress() ledger.Address {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.governanceAddr
}

// RewardsPaused reports whether yield claiming is paused.
func (d *Dome) RewardsPaused() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.rewardsPaused
}

// Vault operations.

func (d *Dome) Deposit(sender, receiver ledger.Address, assets uint64) error {
	return d.vault.Deposit(sender, receiver, assets)
}

func (d *Dome) Redeem(owner, receiver ledger.Address, shares uint64) error {
	return d.vault.Redeem(owner, receiver, shares)
}

func (d *Dome) ProcessQueuedWithdrawal(user ledger.Address) error {
	return d.vault.ProcessQueuedWithdrawal(user)
}

func (d *Dome) CanProcessWithdrawal(user ledger.Address) bool {
	return d.vault.CanProcessWithdrawal(user)
}

func (d *Dome) QueuedWithdrawalFor(user ledger.Address) (vault.QueuedWithdrawal, bool) {
	return d.vault.QueuedWithdrawalFor(user)
}

func (d *Dome) QueuedUsers() []ledger.Address { return d.vault.QueuedUsers() }

func (d *Dome) WithdrawalUnlockTime(user ledger.Address) time.Time {
	return d.vault.WithdrawalUnlockTime(user)
}

func (d *Dome) Accounting(addr ledger.Address) vault.Accounting {
	return d.vault.Accounting(addr)
}

func (d *Dome) TotalAssets() uint64 { return d.vault.TotalAssets() }

func (d *Dome) TotalSupply() uint64 { return d.vault.TotalSupply() }

func (d *Dome) ShareBalance(addr ledger.Address) uint64 {
	return d.vault.ShareBalance(addr)
}

func (d *Dome) DonationBps() uint32 { return d.vault.DonationBps() }

// Governance operations.

func (d *Dome) SubmitProject(wallet ledger.Address, amountRequested uint64, description string) (uint64, error) {
	return d.gov.SubmitProject(wallet, amountRequested, description)
}

func (d *Dome) Vote(projectID uint64, voter ledger.Address) error {
	return d.gov.Vote(projectID, voter)
}

func (d *Dome) RemoveVote(projectID uint64, voter ledger.Address) error {
	return d.gov.RemoveVote(projectID, voter)
}

func (d *Dome) HasVoted(projectID uint64, voter ledger.Address) bool {
	return d.gov.HasVoted(projectID, voter)
}

func (d *Dome) ProjectVotes(projectID uint64) (uint64, error) {
	return d.gov.ProjectVotes(projectID)
}

func (d *Dome) Project(id uint64) (governance.Project, error) { return d.gov.Project(id) }

func (d *Dome) Projects() []governance.Project { return d.gov.Projects() }

func (d *Dome) FundTopProject(candidateIDs []uint64) (uint64, error) {
	return d.gov.FundTopProject(candidateIDs)
}
