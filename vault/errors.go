package vault

import "errors"

var (
	// ErrZeroAmount indicates a zero-asset deposit or zero-share redemption.
	ErrZeroAmount = errors.New("vault: zero amount")

	// ErrInvalidReceiver indicates a deposit or redemption paying out to
	// the null address.
	ErrInvalidReceiver = errors.New("vault: invalid receiver")

	// ErrAmountTooLarge indicates a deposit whose share valuation does not
	// fit in a uint64 at the current share price.
	ErrAmountTooLarge = errors.New("vault: amount too large")

	// ErrWithdrawalPending indicates a deposit or redemption attempted
	// while the address has a live queued withdrawal.
	ErrWithdrawalPending = errors.New("vault: withdrawal pending")

	// ErrNoQueuedWithdrawal indicates processing for an address with no
	// live queue entry.
	ErrNoQueuedWithdrawal = errors.New("vault: no queued withdrawal")

	// ErrWithdrawalDelayNotMet indicates processing before the withdrawal
	// delay has elapsed.
	ErrWithdrawalDelayNotMet = errors.New("vault: withdrawal delay not met")

	// ErrWithdrawalLocked indicates processing while the strategy cannot
	// supply the queued liquidity.
	ErrWithdrawalLocked = errors.New("vault: withdrawal locked")
)
