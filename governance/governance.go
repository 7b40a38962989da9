// Package governance tracks community project proposals, live
// transfer-aware voting over staked value, and buffer-constrained funding.
package governance

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/domeprotocol/dome-go/events"
	"github.com/domeprotocol/dome-go/ledger"
)

// Default timing windows. VotingDuration is measured from project creation,
// not from the moment voting opens.
const (
	DefaultVotingDelay      = 24 * time.Hour
	DefaultVotingDuration   = 7 * 24 * time.Hour
	DefaultMinVotingPeriod  = 7 * 24 * time.Hour
	DefaultMaxFundingWindow = 180 * 24 * time.Hour
)

// PowerSource reports the live voting weight of an address. A dome backs
// this with its share ledger, so a voter's weight rises and falls with
// their current share balance.
type PowerSource interface {
	VotingPower(addr ledger.Address) uint64
}

// Treasury is the funding side of the donation buffer: the available
// reserve, and the payout that moves funds to a project wallet.
type Treasury interface {
	Reserve() uint64
	PayOut(wallet ledger.Address, amount uint64) error
}

// Config sets the timing windows for project voting and funding.
type Config struct {
	Clock            clockwork.Clock
	VotingDelay      time.Duration
	VotingDuration   time.Duration
	MinVotingPeriod  time.Duration
	MaxFundingWindow time.Duration
}

// Validate defaults unset fields and checks window ordering.
func (c *Config) Validate() error {
	if c.Clock == nil {
		c.Clock = clockwork.NewRealClock()
	}
	if c.VotingDelay == 0 {
		c.VotingDelay = DefaultVotingDelay
	}
	if c.VotingDuration == 0 {
		c.VotingDuration = DefaultVotingDuration
	}
	if c.MinVotingPeriod == 0 {
		c.MinVotingPeriod = DefaultMinVotingPeriod
	}
	if c.MaxFundingWindow == 0 {
		c.MaxFundingWindow = DefaultMaxFundingWindow
	}
	if c.VotingDuration <= c.VotingDelay {
		return errors.New("governance: voting duration must exceed voting delay")
	}
	if c.MaxFundingWindow <= c.MinVotingPeriod {
		return errors.New("governance: max funding window must exceed min voting period")
	}
	return nil
}

// Project is a community funding proposal. Immutable after creation except
// for the Funded flag, which is set exactly once.
type Project struct {
	ID              uint64
	Wallet          ledger.Address
	AmountRequested uint64
	Description     string
	CreatedAt       time.Time
	VotingStart     time.Time
	VotingEnd       time.Time
	Funded          bool
}

// Ledger is the governance state machine for one dome. Vote receipts store
// only who voted; the weight behind each vote is read live from the power
// source at query time.
type Ledger struct {
	mu       sync.Mutex
	cfg      Config
	power    PowerSource
	treasury Treasury
	rec      events.Recorder

	projects []*Project // id is index+1; ids are never reused
	voters   map[uint64]map[ledger.Address]bool
}

// New creates a governance ledger.
func New(cfg Config, power PowerSource, treasury Treasury, rec events.Recorder) (*Ledger, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if power == nil {
		return nil, errors.New("governance: power source is required")
	}
	if treasury == nil {
		return nil, errors.New("governance: treasury is required")
	}
	if rec == nil {
		rec = events.Discard{}
	}
	return &Ledger{
		cfg:      cfg,
		power:    power,
		treasury: treasury,
		rec:      rec,
		voters:   make(map[uint64]map[ledger.Address]bool),
	}, nil
}

// SubmitProject registers a funding proposal and returns its id. Ids are
// sequential starting at 1.
func (g *Ledger) SubmitProject(wallet ledger.Address, amountRequested uint64, description string) (uint64, error) {
	if wallet.IsZero() {
		return 0, ErrInvalidWallet
	}
	if amountRequested == 0 {
		return 0, ErrZeroAmount
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	now := g.cfg.Clock.Now()
	p := &Project{
		ID:              uint64(len(g.projects)) + 1,
		Wallet:          wallet,
		AmountRequested: amountRequested,
		Description:     description,
		CreatedAt:       now,
		VotingStart:     now.Add(g.cfg.VotingDelay),
		VotingEnd:       now.Add(g.cfg.VotingDuration),
	}
	g.projects = append(g.projects, p)
	g.voters[p.ID] = make(map[ledger.Address]bool)
	return p.ID, nil
}

// Project returns a copy of the project with the given id.
func (g *Ledger) Project(id uint64) (Project, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	p, err := g.project(id)
	if err != nil {
		return Project{}, err
	}
	return *p, nil
}

// Projects returns copies of every project in creation order.
func (g *Ledger) Projects() []Project {
	g.mu.Lock()
	defer g.mu.Unlock()
	out := make([]Project, len(g.projects))
	for i, p := range g.projects {
		out[i] = *p
	}
	return out
}

// project resolves an id under the ledger lock.
func (g *Ledger) project(id uint64) (*Project, error) {
	if id == 0 || id > uint64(len(g.projects)) {
		return nil, fmt.Errorf("%w: id %d", ErrInvalidProject, id)
	}
	return g.projects[id-1], nil
}
