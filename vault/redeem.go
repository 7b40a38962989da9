package vault

import (
	"fmt"

	"github.com/domeprotocol/dome-go/events"
	"github.com/domeprotocol/dome-go/ledger"
)

// Redeem burns shares owned by owner and pays out the proceeds to
// receiver, skimming a donation from realized profit into the buffer.
//
// If the strategy cannot supply the proceeds immediately, the shares are
// still burned and the payout amounts are frozen into a queued withdrawal;
// the owner is then blocked from deposits and further redemptions until
// the queue entry is processed.
func (v *Vault) Redeem(owner, receiver ledger.Address, shares uint64) error {
	if shares == 0 {
		return ErrZeroAmount
	}
	if receiver.IsZero() {
		return ErrInvalidReceiver
	}

	v.mu.Lock()
	defer v.mu.Unlock()

	if q, ok := v.queued[owner]; ok && q.Shares > 0 {
		return fmt.Errorf("%w: redeem blocked for %s", ErrWithdrawalPending, owner)
	}
	balance := v.cfg.Shares.BalanceOf(owner)
	if shares > balance {
		return fmt.Errorf("%w: redeem %d exceeds share balance %d", ledger.ErrInsufficientBalance, shares, balance)
	}

	totalSupply := v.cfg.Shares.TotalSupply()
	gross := ledger.MulDiv(shares, v.cfg.Strategy.TotalAssets(), totalSupply)

	acct := v.getAccount(owner)
	net, donation, newBasis := v.skim(gross, shares, balance, acct.costBasis)

	// Commit point.
	if err := v.cfg.Shares.Burn(owner, shares); err != nil {
		return err
	}
	acct.costBasis = newBasis

	if !v.cfg.Strategy.Withdraw(gross) {
		// Strategy illiquid: freeze the computed amounts and queue.
		v.queued[owner] = &QueuedWithdrawal{
			Shares:         shares,
			NetAssets:      net,
			DonationAssets: donation,
			Receiver:       receiver,
			QueuedAt:       v.cfg.Clock.Now(),
		}
		v.cfg.Recorder.Record(events.WithdrawalQueued{
			User:   owner,
			Shares: shares,
			Assets: gross,
		})
		return nil
	}

	if err := v.payOut(receiver, net, donation); err != nil {
		return err
	}
	acct.Withdrawn += net
	acct.Donated += donation

	v.cfg.Recorder.Record(events.Withdraw{
		Sender:   owner,
		Receiver: receiver,
		Owner:    owner,
		Assets:   net,
		Shares:   shares,
	})
	return nil
}

// skim computes the donation-on-profit split for a redemption of shares
// out of balance, against the owner's current cost basis.
//
// The cost basis attributable to the redeemed shares is proportional. A
// donation is taken only when gross proceeds strictly exceed that portion:
// never on break-even or loss. On a loss the basis shrinks only by the
// proceeds received, so the unrealized loss carries forward. The donation
// is capped at gross, keeping net non-negative even under a misconfigured
// rate above 100%.
func (v *Vault) skim(gross, shares, balance, costBasis uint64) (net, donation, newBasis uint64) {
	basisPortion := ledger.MulDiv(costBasis, shares, balance)

	var profit uint64
	if gross > basisPortion {
		profit = gross - basisPortion
		newBasis = costBasis - basisPortion
	} else {
		// Loss or break-even: gross <= basisPortion <= costBasis.
		newBasis = costBasis - gross
	}

	donation = ledger.MulDiv(profit, uint64(v.donationBps), 10000)
	if donation > gross {
		donation = gross
	}
	return gross - donation, donation, newBasis
}

// payOut mints the redemption proceeds back onto the asset ledger: net to
// the receiver, donation to the buffer wallet with the buffer credited.
func (v *Vault) payOut(receiver ledger.Address, net, donation uint64) error {
	if net > 0 {
		if err := v.cfg.Underlying.Mint(receiver, net); err != nil {
			return err
		}
	}
	if donation > 0 {
		if err := v.cfg.Underlying.Mint(v.cfg.BufferWallet, donation); err != nil {
			return err
		}
		v.cfg.Buffer.Credit(donation)
	}
	return nil
}
