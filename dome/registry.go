package dome

import (
	"fmt"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/domeprotocol/dome-go/events"
	"github.com/domeprotocol/dome-go/governance"
	"github.com/domeprotocol/dome-go/ledger"
	"github.com/domeprotocol/dome-go/strategy"
	"github.com/domeprotocol/dome-go/treasury"
)

// StrategyFactory builds the yield strategy for a new dome from its
// configured provider.
type StrategyFactory func(p strategy.Provider) (strategy.Strategy, error)

// RegistryConfig wires the dome factory.
type RegistryConfig struct {
	Clock clockwork.Clock

	// Owner is the system owner allowed to configure yield providers.
	Owner ledger.Address

	// Underlying is the asset every dome under this registry accounts in.
	Underlying *ledger.Ledger

	// CreationFee is charged in the underlying asset and sent to
	// FeeWallet. Zero disables the fee.
	CreationFee uint64
	FeeWallet   ledger.Address

	// WithdrawalDelay and Voting apply to every created dome.
	WithdrawalDelay time.Duration
	Voting          governance.Config

	// Strategies defaults to a factory returning a fresh mock strategy
	// per dome.
	Strategies StrategyFactory

	// Recorder receives registry-level events. Defaults to Discard.
	Recorder events.Recorder
}

// Validate defaults optional fields and checks required collaborators.
func (c *RegistryConfig) Validate() error {
	if c.Owner.IsZero() {
		return fmt.Errorf("dome: registry owner is required")
	}
	if c.Underlying == nil {
		return fmt.Errorf("dome: registry underlying ledger is required")
	}
	if c.CreationFee > 0 && c.FeeWallet.IsZero() {
		return fmt.Errorf("dome: fee wallet is required when a creation fee is set")
	}
	if c.Clock == nil {
		c.Clock = clockwork.NewRealClock()
	}
	if c.Strategies == nil {
		c.Strategies = func(strategy.Provider) (strategy.Strategy, error) {
			return strategy.NewMock(), nil
		}
	}
	if c.Recorder == nil {
		c.Recorder = events.Discard{}
	}
	return nil
}

// Registry is the dome factory: it validates creation requests, charges
// the creation fee, derives the dome address from the creator, cid and a
// monotonic nonce, and keeps the set of configured yield providers.
type Registry struct {
	mu  sync.Mutex
	cfg RegistryConfig

	providers map[string]strategy.Provider
	domes     map[ledger.Address]*Dome
	order     []ledger.Address
	nonce     uint64
}

// NewRegistry creates a registry.
func NewRegistry(cfg RegistryConfig) (*Registry, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Registry{
		cfg:       cfg,
		providers: make(map[string]strategy.Provider),
		domes:     make(map[ledger.Address]*Dome),
	}, nil
}

// ConfigureYieldProvider registers or updates a yield provider. System
// owner only.
func (r *Registry) ConfigureYieldProvider(caller ledger.Address, p strategy.Provider) error {
	if caller != r.cfg.Owner {
		return ErrUnauthorized
	}
	if err := p.Validate(); err != nil {
		return err
	}

	r.mu.Lock()
	r.providers[p.Name] = p
	r.mu.Unlock()

	r.cfg.Recorder.Record(events.YieldProviderConfigured{
		Provider:     p.Name,
		ProviderType: p.Type.String(),
		Enabled:      p.Enabled,
	})
	return nil
}

// Provider returns a configured provider by name.
func (r *Registry) Provider(name string) (strategy.Provider, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.providers[name]
	return p, ok
}

// NextDomeAddress predicts the address the next CreateDome call by this
// creator with this cid will produce.
func (r *Registry) NextDomeAddress(creator ledger.Address, cid string) ledger.Address {
	r.mu.Lock()
	defer r.mu.Unlock()
	return DeriveAddress(creator, cid, r.nonce+1)
}

// CreateDome instantiates a new dome owned by the creator. The creation
// fee, when configured, is charged in the underlying asset up front.
func (r *Registry) CreateDome(creator ledger.Address, cid string, beneficiaries []treasury.Beneficiary, providerName string, donationBps uint32) (*Dome, error) {
	if creator.IsZero() {
		return nil, ledger.ErrInvalidAddress
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.providers[providerName]
	if !ok || !p.Enabled {
		return nil, ErrUnsupportedYieldProvider
	}
	if err := treasury.ValidateBeneficiaries(beneficiaries); err != nil {
		return nil, err
	}
	if r.cfg.CreationFee > 0 && r.cfg.Underlying.BalanceOf(creator) < r.cfg.CreationFee {
		return nil, ErrUnpaidFee
	}

	strat, err := r.cfg.Strategies(p)
	if err != nil {
		return nil, fmt.Errorf("dome: strategy for provider %q: %w", p.Name, err)
	}

	addr := DeriveAddress(creator, cid, r.nonce+1)
	d, err := New(Config{
		Clock:           r.cfg.Clock,
		Owner:           creator,
		Address:         addr,
		CID:             cid,
		Underlying:      r.cfg.Underlying,
		Strategy:        strat,
		Beneficiaries:   beneficiaries,
		DonationBps:     donationBps,
		WithdrawalDelay: r.cfg.WithdrawalDelay,
		Voting:          r.cfg.Voting,
	})
	if err != nil {
		return nil, err
	}

	if r.cfg.CreationFee > 0 {
		if err := r.cfg.Underlying.Transfer(creator, r.cfg.FeeWallet, r.cfg.CreationFee); err != nil {
			return nil, fmt.Errorf("dome: creation fee: %w", err)
		}
	}

	r.nonce++
	r.domes[addr] = d
	r.order = append(r.order, addr)

	r.cfg.Recorder.Record(events.DomeCreated{
		Creator:       creator,
		DomeAddress:   addr,
		YieldProtocol: p.Name,
		ProviderType:  p.Type.String(),
		CID:           cid,
	})
	return d, nil
}

// Dome returns the dome at addr.
func (r *Registry) Dome(addr ledger.Address) (*Dome, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	d, ok := r.domes[addr]
	if !ok {
		return nil, ErrUnknownDome
	}
	return d, nil
}

// Domes returns every created dome in creation order.
func (r *Registry) Domes() []*Dome {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*Dome, 0, len(r.order))
	for _, addr := range r.order {
		out = append(out, r.domes[addr])
	}
	return out
}
