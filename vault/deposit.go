package vault

import (
	"fmt"
	"math"

	"github.com/domeprotocol/dome-go/events"
	"github.com/domeprotocol/dome-go/ledger"
)

// Deposit exchanges assets from sender for freshly minted shares credited
// to receiver, forwarding the assets into the strategy.
//
// Shares are priced at totalSupply/totalAssets; the first deposit (or a
// deposit into a fully drained vault) bootstraps at ShareScalar shares per
// asset unit.
func (v *Vault) Deposit(sender, receiver ledger.Address, assets uint64) error {
	if assets == 0 {
		return ErrZeroAmount
	}
	if receiver.IsZero() {
		return ErrInvalidReceiver
	}

	v.mu.Lock()
	defer v.mu.Unlock()

	if q, ok := v.queued[receiver]; ok && q.Shares > 0 {
		return fmt.Errorf("%w: deposit blocked for %s", ErrWithdrawalPending, receiver)
	}
	if v.cfg.Underlying.BalanceOf(sender) < assets {
		return fmt.Errorf("%w: deposit %d", ledger.ErrInsufficientBalance, assets)
	}

	totalSupply := v.cfg.Shares.TotalSupply()
	totalAssets := v.cfg.Strategy.TotalAssets()
	var shares uint64
	if totalSupply == 0 || totalAssets == 0 {
		if assets > math.MaxUint64/ShareScalar {
			return fmt.Errorf("%w: deposit %d", ErrAmountTooLarge, assets)
		}
		shares = assets * ShareScalar
	} else {
		var err error
		shares, err = ledger.MulDivChecked(assets, totalSupply, totalAssets)
		if err != nil {
			return fmt.Errorf("%w: deposit %d at current share price", ErrAmountTooLarge, assets)
		}
	}

	// Commit point: all checks passed.
	if err := v.cfg.Underlying.Burn(sender, assets); err != nil {
		return err
	}
	if err := v.cfg.Shares.Mint(receiver, shares); err != nil {
		return err
	}
	v.cfg.Strategy.Deposit(assets)

	acct := v.getAccount(receiver)
	acct.Deposited += assets
	acct.costBasis += assets

	v.cfg.Recorder.Record(events.Deposit{
		Sender:   sender,
		Receiver: receiver,
		Assets:   assets,
		Shares:   shares,
	})
	return nil
}
