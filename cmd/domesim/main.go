// domesim runs the protocol core as a local simulator: a registry with a
// mock yield provider, a demo dome, the journal-backed indexer and the
// read-only HTTP API, plus an optional yield drift applied to the mock
// strategy so share price actually moves.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/jonboulle/clockwork"
	"github.com/lmittmann/tint"
	flag "github.com/spf13/pflag"

	"github.com/domeprotocol/dome-go/dome"
	"github.com/domeprotocol/dome-go/indexer"
	"github.com/domeprotocol/dome-go/ledger"
	"github.com/domeprotocol/dome-go/metrics"
	"github.com/domeprotocol/dome-go/server"
	"github.com/domeprotocol/dome-go/strategy"
	"github.com/domeprotocol/dome-go/treasury"
)

// Set by LDFLAGS.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	_ = godotenv.Load()

	verboseFlag := flag.Bool("verbose", false, "enable verbose (debug) logging")
	listenAddrFlag := flag.String("listen-addr", "127.0.0.1:8080", "HTTP listen address (or set DOMESIM_LISTEN_ADDR env var)")
	dbPathFlag := flag.String("db-path", "data/domesim.db", "journal database path (or set DOMESIM_DB_PATH env var)")
	syncIntervalFlag := flag.Duration("sync-interval", 5*time.Second, "indexer sync interval")
	creationFeeFlag := flag.Uint64("creation-fee", 0, "dome creation fee in underlying base units")
	donationBpsFlag := flag.Uint32("donation-bps", 1000, "demo dome donation rate in basis points")
	yieldBpsFlag := flag.Uint64("yield-bps", 0, "per-interval simulated yield applied to the mock strategy, in basis points")
	yieldIntervalFlag := flag.Duration("yield-interval", time.Minute, "how often simulated yield accrues")
	flag.Parse()

	if env := os.Getenv("DOMESIM_LISTEN_ADDR"); env != "" {
		*listenAddrFlag = env
	}
	if env := os.Getenv("DOMESIM_DB_PATH"); env != "" {
		*dbPathFlag = env
	}

	log := newLogger(*verboseFlag)
	log.Info("domesim: starting", "version", version, "commit", commit, "date", date)
	metrics.BuildInfo.WithLabelValues(version).Set(1)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	clock := clockwork.NewRealClock()
	usdc := ledger.New("USDC")

	sysOwner := namedAddress("system-owner")
	feeWallet := namedAddress("fee-wallet")
	creator := namedAddress("demo-creator")
	charity := namedAddress("demo-charity")

	registry, err := dome.NewRegistry(dome.RegistryConfig{
		Clock:       clock,
		Owner:       sysOwner,
		Underlying:  usdc,
		CreationFee: *creationFeeFlag,
		FeeWallet:   feeWallet,
	})
	if err != nil {
		return fmt.Errorf("create registry: %w", err)
	}
	if err := registry.ConfigureYieldProvider(sysOwner, strategy.Provider{
		Name:    "mock",
		Type:    strategy.ProviderMock,
		Enabled: true,
	}); err != nil {
		return fmt.Errorf("configure provider: %w", err)
	}

	if *creationFeeFlag > 0 {
		if err := usdc.Mint(creator, *creationFeeFlag); err != nil {
			return fmt.Errorf("fund demo creator: %w", err)
		}
	}
	demoAddr := registry.NextDomeAddress(creator, "demo")
	demo, err := registry.CreateDome(creator, "demo", []treasury.Beneficiary{
		{CID: "buffer", Wallet: demoAddr, Percent: 2000},
		{CID: "charity", Wallet: charity, Percent: 8000},
	}, "mock", *donationBpsFlag)
	if err != nil {
		return fmt.Errorf("create demo dome: %w", err)
	}
	log.Info("domesim: demo dome created", "address", demo.Address(), "donation_bps", *donationBpsFlag)

	journal, err := indexer.OpenJournal(*dbPathFlag)
	if err != nil {
		return fmt.Errorf("open journal: %w", err)
	}
	defer func() { _ = journal.Close() }()

	ix, err := indexer.New(indexer.Config{
		Logger:       log,
		Clock:        clock,
		Registry:     registry,
		Journal:      journal,
		SyncInterval: *syncIntervalFlag,
	})
	if err != nil {
		return fmt.Errorf("create indexer: %w", err)
	}

	srv, err := server.New(server.Config{
		Logger:     log,
		ListenAddr: *listenAddrFlag,
		Registry:   registry,
		Indexer:    ix,
		Journal:    journal,
		VersionInfo: server.VersionInfo{
			Version: version,
			Commit:  commit,
			Date:    date,
		},
	})
	if err != nil {
		return fmt.Errorf("create server: %w", err)
	}

	if *yieldBpsFlag > 0 {
		go accrueYield(ctx, log, clock, registry, *yieldBpsFlag, *yieldIntervalFlag)
	}

	return srv.Run(ctx)
}

// accrueYield drifts every dome's mock strategy upward by bps per
// interval, simulating the external protocol earning yield.
func accrueYield(ctx context.Context, log *slog.Logger, clock clockwork.Clock, registry *dome.Registry, bps uint64, interval time.Duration) {
	ticker := clock.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.Chan():
			for _, d := range registry.Domes() {
				m, ok := d.Strategy().(*strategy.Mock)
				if !ok {
					continue
				}
				m.ScaleAssets(10_000+bps, 10_000)
				log.Debug("domesim: yield accrued", "dome", d.Address(), "total_assets", m.TotalAssets())
			}
		}
	}
}

// namedAddress derives a stable simulator address from a label.
func namedAddress(label string) ledger.Address {
	return dome.DeriveAddress(ledger.ZeroAddress, label, 0)
}

func newLogger(verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(tint.NewHandler(os.Stdout, &tint.Options{Level: level}))
}
