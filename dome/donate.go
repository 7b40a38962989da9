package dome

import (
	"fmt"

	"github.com/domeprotocol/dome-go/events"
	"github.com/domeprotocol/dome-go/ledger"
	"github.com/domeprotocol/dome-go/treasury"
)

// Donate splits amount of token from the donor across the beneficiary
// list. Donations in the underlying asset credit the buffer beneficiary's
// share to the donation buffer; donations in any other token leave the
// buffer untouched and spread its share over the remaining beneficiaries.
// The operation is all-or-nothing.
func (d *Dome) Donate(donor ledger.Address, token *ledger.Ledger, amount uint64) error {
	if token == nil {
		return ErrUnknownToken
	}
	if amount == 0 {
		return ErrZeroAmount
	}

	var (
		payouts []treasury.Payout
		err     error
	)
	if token == d.cfg.Underlying {
		payouts, err = treasury.SplitUnderlying(amount, d.cfg.Beneficiaries, d.cfg.Address)
	} else {
		payouts, err = treasury.SplitForeign(amount, d.cfg.Beneficiaries, d.cfg.Address)
	}
	if err != nil {
		return err
	}
	if token.BalanceOf(donor) < amount {
		return ledger.ErrInsufficientBalance
	}

	// Payouts sum to amount exactly, so after the balance check above no
	// individual transfer can fail.
	for _, p := range payouts {
		if p.ToBuffer {
			if err := token.Transfer(donor, d.cfg.Address, p.Amount); err != nil {
				return fmt.Errorf("dome: buffer transfer: %w", err)
			}
			d.buffer.Credit(p.Amount)
			continue
		}
		if err := token.Transfer(donor, p.Wallet, p.Amount); err != nil {
			return fmt.Errorf("dome: beneficiary transfer: %w", err)
		}
	}

	d.log.Record(events.Donate{Donor: donor, Token: token.Symbol(), Amount: amount})
	return nil
}

// ClaimYield pulls amount of realized yield out of the strategy and
// distributes it across the beneficiary list like an underlying donation.
// Owner only; blocked while rewards are paused.
func (d *Dome) ClaimYield(caller ledger.Address, amount uint64) error {
	if caller != d.cfg.Owner {
		return ErrUnauthorized
	}
	d.mu.Lock()
	paused := d.rewardsPaused
	d.mu.Unlock()
	if paused {
		return ErrRewardsPaused
	}
	if amount == 0 {
		return ErrZeroAmount
	}

	payouts, err := treasury.SplitUnderlying(amount, d.cfg.Beneficiaries, d.cfg.Address)
	if err != nil {
		return err
	}
	if !d.cfg.Strategy.Withdraw(amount) {
		return ErrYieldUnavailable
	}

	for _, p := range payouts {
		if p.ToBuffer {
			if err := d.cfg.Underlying.Mint(d.cfg.Address, p.Amount); err != nil {
				return fmt.Errorf("dome: yield buffer mint: %w", err)
			}
			d.buffer.Credit(p.Amount)
			continue
		}
		if err := d.cfg.Underlying.Mint(p.Wallet, p.Amount); err != nil {
			return fmt.Errorf("dome: yield mint: %w", err)
		}
	}

	d.log.Record(events.Donate{Donor: d.cfg.Address, Token: d.cfg.Underlying.Symbol(), Amount: amount})
	return nil
}

// SetDonationBps changes the donation rate. Owner only.
func (d *Dome) SetDonationBps(caller ledger.Address, bps uint32) error {
	if caller != d.cfg.Owner {
		return ErrUnauthorized
	}
	d.vault.SetDonationBps(bps)
	d.log.Record(events.DonationBpsUpdated{NewBps: bps})
	return nil
}

// SetGovernance points the dome at a new governance address. Owner only.
func (d *Dome) SetGovernance(caller, governance ledger.Address) error {
	if caller != d.cfg.Owner {
		return ErrUnauthorized
	}
	if governance.IsZero() {
		return ErrInvalidGovernance
	}
	d.mu.Lock()
	d.governanceAddr = governance
	d.mu.Unlock()
	d.log.Record(events.GovernanceUpdated{NewAddress: governance})
	return nil
}

// PauseRewards stops yield claiming. Owner only.
func (d *Dome) PauseRewards(caller ledger.Address) error {
	if caller != d.cfg.Owner {
		return ErrUnauthorized
	}
	d.mu.Lock()
	d.rewardsPaused = true
	d.mu.Unlock()
	return nil
}

// UnpauseRewards resumes yield claiming. Owner only.
func (d *Dome) UnpauseRewards(caller ledger.Address) error {
	if caller != d.cfg.Owner {
		return ErrUnauthorized
	}
	d.mu.Lock()
	d.rewardsPaused = false
	d.mu.Unlock()
	return nil
}
