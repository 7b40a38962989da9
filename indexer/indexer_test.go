package indexer

import (
	"context"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/domeprotocol/dome-go/dome"
	"github.com/domeprotocol/dome-go/events"
	"github.com/domeprotocol/dome-go/ledger"
	"github.com/domeprotocol/dome-go/strategy"
	"github.com/domeprotocol/dome-go/treasury"
	"github.com/domeprotocol/dome-go/vault"
)

func makeAddr(seed byte) ledger.Address {
	var a ledger.Address
	a[0] = seed
	return a
}

var (
	sysOwner = makeAddr(0xF0)
	creator  = makeAddr(0xF1)
	charity  = makeAddr(0x02)
	alice    = makeAddr(0x0A)
)

func openTestJournal(t *testing.T) *Journal {
	t.Helper()
	j, err := OpenJournal(filepath.Join(t.TempDir(), "journal.db"))
	require.NoError(t, err)
	t.Cleanup(func() { require.NoError(t, j.Close()) })
	return j
}

func TestJournal_AppendAndFilter(t *testing.T) {
	j := openTestJournal(t)
	domeA := makeAddr(0xD1)
	domeB := makeAddr(0xD2)
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	seq, err := j.Append(domeA, now, events.Deposit{Sender: alice, Receiver: alice, Assets: 100, Shares: 100 * vault.ShareScalar})
	require.NoError(t, err)
	assert.Equal(t, uint64(1), seq)

	_, err = j.Append(domeA, now, events.Donate{Donor: alice, Token: "USDC", Amount: 50})
	require.NoError(t, err)
	_, err = j.Append(domeB, now, events.Deposit{Sender: alice, Receiver: alice, Assets: 7, Shares: 7 * vault.ShareScalar})
	require.NoError(t, err)

	n, err := j.Len()
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	all, err := j.Entries(nil, "", 0)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, uint64(1), all[0].Seq)
	assert.Equal(t, domeA, all[0].Dome)
	assert.Equal(t, now, all[0].Time)
	dep, ok := all[0].Event.(events.Deposit)
	require.True(t, ok, "gob round-trip must restore the concrete type")
	assert.Equal(t, uint64(100), dep.Assets)

	byDome, err := j.Entries(&domeA, "", 0)
	require.NoError(t, err)
	assert.Len(t, byDome, 2)

	byType, err := j.Entries(nil, events.TypeDonate, 0)
	require.NoError(t, err)
	require.Len(t, byType, 1)
	assert.Equal(t, uint64(50), byType[0].Event.(events.Donate).Amount)

	limited, err := j.Entries(nil, "", 2)
	require.NoError(t, err)
	assert.Len(t, limited, 2)
}

func TestJournal_AccountingSnapshot(t *testing.T) {
	j := openTestJournal(t)
	domeA := makeAddr(0xD1)

	_, found, err := j.Accounting(domeA, alice)
	require.NoError(t, err)
	assert.False(t, found)

	want := vault.Accounting{Deposited: 100, Withdrawn: 40, Donated: 2}
	require.NoError(t, j.PutAccounting(domeA, alice, want))

	got, found, err := j.Accounting(domeA, alice)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, want, got)

	// Same user under another dome is a distinct snapshot.
	_, found, err = j.Accounting(makeAddr(0xD2), alice)
	require.NoError(t, err)
	assert.False(t, found)
}

type indexerFixture struct {
	clock *clockwork.FakeClock
	usdc  *ledger.Ledger
	strat *strategy.Mock
	reg   *dome.Registry
	dome  *dome.Dome
	ix    *Indexer
}

func newIndexerFixture(t *testing.T) *indexerFixture {
	t.Helper()
	f := &indexerFixture{
		clock: clockwork.NewFakeClockAt(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)),
		usdc:  ledger.New("USDC"),
		strat: strategy.NewMock(),
	}

	reg, err := dome.NewRegistry(dome.RegistryConfig{
		Clock:      f.clock,
		Owner:      sysOwner,
		Underlying: f.usdc,
		Strategies: func(strategy.Provider) (strategy.Strategy, error) { return f.strat, nil },
	})
	require.NoError(t, err)
	require.NoError(t, reg.ConfigureYieldProvider(sysOwner, strategy.Provider{
		Name: "mock", Type: strategy.ProviderMock, Enabled: true,
	}))

	d, err := reg.CreateDome(creator, "bafy-ix", []treasury.Beneficiary{
		{CID: "charity", Wallet: charity, Percent: 10000},
	}, "mock", 1000)
	require.NoError(t, err)

	ix, err := New(Config{
		Logger:   slog.New(slog.DiscardHandler),
		Clock:    f.clock,
		Registry: reg,
		Journal:  openTestJournal(t),
	})
	require.NoError(t, err)

	f.reg = reg
	f.dome = d
	f.ix = ix
	return f
}

func TestConfig_Validate(t *testing.T) {
	_, err := New(Config{})
	require.Error(t, err)

	f := newIndexerFixture(t)
	assert.Equal(t, DefaultSyncInterval, f.ix.cfg.SyncInterval)
}

func TestSync_JournalsEventsOnce(t *testing.T) {
	f := newIndexerFixture(t)
	require.NoError(t, f.usdc.Mint(alice, 100))
	require.NoError(t, f.dome.Deposit(alice, alice, 100))

	require.NoError(t, f.ix.Sync())
	require.NoError(t, f.ix.Sync())

	deposits, err := f.ix.cfg.Journal.Entries(nil, events.TypeDeposit, 0)
	require.NoError(t, err)
	assert.Len(t, deposits, 1, "a drained event must not be re-journaled")

	acc, found, err := f.ix.cfg.Journal.Accounting(f.dome.Address(), alice)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, vault.Accounting{Deposited: 100}, acc)
}

func TestSync_ProcessesEligibleWithdrawals(t *testing.T) {
	f := newIndexerFixture(t)
	require.NoError(t, f.usdc.Mint(alice, 100))
	require.NoError(t, f.dome.Deposit(alice, alice, 100))

	f.strat.SetWithdrawalsEnabled(false)
	require.NoError(t, f.dome.Redeem(alice, alice, 100*vault.ShareScalar))

	// Still gated: nothing processed.
	require.NoError(t, f.ix.Sync())
	_, queued := f.dome.QueuedWithdrawalFor(alice)
	assert.True(t, queued)

	f.clock.Advance(vault.DefaultWithdrawalDelay)
	f.strat.SetWithdrawalsEnabled(true)
	require.NoError(t, f.ix.Sync())

	_, queued = f.dome.QueuedWithdrawalFor(alice)
	assert.False(t, queued)
	assert.Equal(t, uint64(100), f.usdc.BalanceOf(alice))

	// The WithdrawalProcessed event lands in the journal on the next
	// drain pass.
	require.NoError(t, f.ix.Sync())
	processed, err := f.ix.cfg.Journal.Entries(nil, events.TypeWithdrawalProcessed, 0)
	require.NoError(t, err)
	require.Len(t, processed, 1)
	assert.Equal(t, alice, processed[0].Event.(events.WithdrawalProcessed).User)
}

func TestStart_BecomesReady(t *testing.T) {
	f := newIndexerFixture(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	assert.False(t, f.ix.Ready())
	f.ix.Start(ctx)

	waitCtx, waitCancel := context.WithTimeout(ctx, 5*time.Second)
	defer waitCancel()
	require.NoError(t, f.ix.WaitReady(waitCtx))
	assert.True(t, f.ix.Ready())
}
