package indexer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/domeprotocol/dome-go/dome"
	"github.com/domeprotocol/dome-go/events"
	"github.com/domeprotocol/dome-go/ledger"
	"github.com/domeprotocol/dome-go/metrics"
)

const DefaultSyncInterval = 5 * time.Second

// Config wires the indexer.
type Config struct {
	Logger   *slog.Logger
	Clock    clockwork.Clock
	Registry *dome.Registry
	Journal  *Journal

	// SyncInterval is how often the indexer drains dome event logs and
	// retries queued withdrawals.
	SyncInterval time.Duration
}

// Validate defaults optional fields and checks required collaborators.
func (c *Config) Validate() error {
	if c.Logger == nil {
		return errors.New("indexer: logger is required")
	}
	if c.Registry == nil {
		return errors.New("indexer: registry is required")
	}
	if c.Journal == nil {
		return errors.New("indexer: journal is required")
	}
	if c.Clock == nil {
		c.Clock = clockwork.NewRealClock()
	}
	if c.SyncInterval <= 0 {
		c.SyncInterval = DefaultSyncInterval
	}
	return nil
}

// Indexer periodically drains every dome's event log into the journal,
// snapshots user accounting, and plays the permissionless-processor role
// for queued withdrawals whose gates have opened.
type Indexer struct {
	log *slog.Logger
	cfg Config

	syncMu  sync.Mutex
	offsets map[ledger.Address]int

	readyOnce sync.Once
	readyCh   chan struct{}
}

// New creates an indexer.
func New(cfg Config) (*Indexer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Indexer{
		log:     cfg.Logger,
		cfg:     cfg,
		offsets: make(map[ledger.Address]int),
		readyCh: make(chan struct{}),
	}, nil
}

// Ready reports whether the first sync pass has completed.
func (ix *Indexer) Ready() bool {
	select {
	case <-ix.readyCh:
		return true
	default:
		return false
	}
}

// WaitReady blocks until the first sync pass has completed.
func (ix *Indexer) WaitReady(ctx context.Context) error {
	select {
	case <-ix.readyCh:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("indexer: waiting for first sync: %w", ctx.Err())
	}
}

// Start launches the sync loop. It returns immediately; the loop stops
// when ctx is cancelled.
func (ix *Indexer) Start(ctx context.Context) {
	go func() {
		ix.log.Info("indexer: starting sync loop", "interval", ix.cfg.SyncInterval)

		ix.safeSync()

		ticker := ix.cfg.Clock.NewTicker(ix.cfg.SyncInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.Chan():
				ix.safeSync()
			}
		}
	}()
}

func (ix *Indexer) safeSync() {
	defer func() {
		if r := recover(); r != nil {
			ix.log.Error("indexer: sync panicked", "panic", r)
			metrics.IndexerSyncTotal.WithLabelValues("panic").Inc()
		}
	}()

	if err := ix.Sync(); err != nil {
		ix.log.Error("indexer: sync failed", "error", err)
		metrics.IndexerSyncTotal.WithLabelValues("error").Inc()
		return
	}
	metrics.IndexerSyncTotal.WithLabelValues("ok").Inc()
	ix.readyOnce.Do(func() { close(ix.readyCh) })
}

// Sync runs one full pass over every registered dome.
func (ix *Indexer) Sync() error {
	ix.syncMu.Lock()
	defer ix.syncMu.Unlock()

	for _, d := range ix.cfg.Registry.Domes() {
		if err := ix.syncDome(d); err != nil {
			return fmt.Errorf("indexer: dome %s: %w", d.Address(), err)
		}
	}
	return nil
}

func (ix *Indexer) syncDome(d *dome.Dome) error {
	addr := d.Address()

	pending := d.Events().Since(ix.offsets[addr])
	for _, e := range pending {
		if _, err := ix.cfg.Journal.Append(addr, ix.cfg.Clock.Now(), e); err != nil {
			return fmt.Errorf("append %s: %w", e.EventType(), err)
		}
		metrics.EventsJournaled.WithLabelValues(string(e.EventType())).Inc()

		if user, ok := accountingSubject(e); ok {
			if err := ix.cfg.Journal.PutAccounting(addr, user, d.Accounting(user)); err != nil {
				return fmt.Errorf("snapshot accounting for %s: %w", user, err)
			}
		}
	}
	ix.offsets[addr] += len(pending)

	ix.processQueued(d)

	metrics.QueueDepth.WithLabelValues(addr.String()).Set(float64(len(d.QueuedUsers())))
	metrics.BufferReserve.WithLabelValues(addr.String()).Set(float64(d.Reserve()))
	return nil
}

// processQueued retries every queued withdrawal whose delay has elapsed
// and whose strategy can deliver. Failures are logged, not fatal: the
// next pass retries.
func (ix *Indexer) processQueued(d *dome.Dome) {
	for _, user := range d.QueuedUsers() {
		if !d.CanProcessWithdrawal(user) {
			continue
		}
		if err := d.ProcessQueuedWithdrawal(user); err != nil {
			ix.log.Warn("indexer: process withdrawal failed",
				"dome", d.Address(), "user", user, "error", err)
			metrics.WithdrawalsProcessed.WithLabelValues("error").Inc()
			continue
		}
		ix.log.Info("indexer: processed queued withdrawal",
			"dome", d.Address(), "user", user)
		metrics.WithdrawalsProcessed.WithLabelValues("ok").Inc()
	}
}

// accountingSubject names the user whose lifetime accounting an event
// changes.
func accountingSubject(e events.Event) (ledger.Address, bool) {
	switch ev := e.(type) {
	case events.Deposit:
		return ev.Receiver, true
	case events.Withdraw:
		return ev.Owner, true
	case events.WithdrawalProcessed:
		return ev.User, true
	default:
		return ledger.ZeroAddress, false
	}
}
