package vault

import (
	"fmt"
	"time"

	"github.com/domeprotocol/dome-go/events"
	"github.com/domeprotocol/dome-go/ledger"
)

// QueuedWithdrawalFor returns the live queue entry for user, if any.
func (v *Vault) QueuedWithdrawalFor(user ledger.Address) (QueuedWithdrawal, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if q, ok := v.queued[user]; ok && q.Shares > 0 {
		return *q, true
	}
	return QueuedWithdrawal{}, false
}

// QueuedUsers returns every address with a live queue entry.
func (v *Vault) QueuedUsers() []ledger.Address {
	v.mu.Lock()
	defer v.mu.Unlock()
	out := make([]ledger.Address, 0, len(v.queued))
	for user, q := range v.queued {
		if q.Shares > 0 {
			out = append(out, user)
		}
	}
	return out
}

// WithdrawalUnlockTime returns when user's queued withdrawal passes the
// delay gate, or the zero time if there is no queue entry.
func (v *Vault) WithdrawalUnlockTime(user ledger.Address) time.Time {
	v.mu.Lock()
	defer v.mu.Unlock()
	q, ok := v.queued[user]
	if !ok || q.Shares == 0 {
		return time.Time{}
	}
	return q.QueuedAt.Add(v.cfg.WithdrawalDelay)
}

// CanProcessWithdrawal reports whether both gates hold for user: the
// delay has elapsed and the strategy can supply the liquidity.
func (v *Vault) CanProcessWithdrawal(user ledger.Address) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	q, ok := v.queued[user]
	if !ok || q.Shares == 0 {
		return false
	}
	if v.cfg.Clock.Now().Before(q.QueuedAt.Add(v.cfg.WithdrawalDelay)) {
		return false
	}
	return v.cfg.Strategy.CanWithdraw(q.NetAssets + q.DonationAssets)
}

// ProcessQueuedWithdrawal pays out user's queued withdrawal. It is
// permissionless: anyone may call it for any user. Both gating conditions
// must hold simultaneously; a premature call fails cleanly with no state
// change, so concurrent processors racing for the same entry are safe.
func (v *Vault) ProcessQueuedWithdrawal(user ledger.Address) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	q, ok := v.queued[user]
	if !ok || q.Shares == 0 {
		return fmt.Errorf("%w: %s", ErrNoQueuedWithdrawal, user)
	}
	unlock := q.QueuedAt.Add(v.cfg.WithdrawalDelay)
	if v.cfg.Clock.Now().Before(unlock) {
		return fmt.Errorf("%w: unlocks at %s", ErrWithdrawalDelayNotMet, unlock.UTC())
	}
	if !v.cfg.Strategy.Withdraw(q.NetAssets + q.DonationAssets) {
		return fmt.Errorf("%w: strategy cannot supply %d", ErrWithdrawalLocked, q.NetAssets+q.DonationAssets)
	}

	if err := v.payOut(q.Receiver, q.NetAssets, q.DonationAssets); err != nil {
		return err
	}
	acct := v.getAccount(user)
	acct.Withdrawn += q.NetAssets
	acct.Donated += q.DonationAssets
	delete(v.queued, user)

	v.cfg.Recorder.Record(events.WithdrawalProcessed{
		User:     user,
		Receiver: q.Receiver,
		Net:      q.NetAssets,
		Donation: q.DonationAssets,
	})
	return nil
}
