package ledger

import "errors"

var (
	// ErrInsufficientBalance indicates a burn or transfer exceeding the
	// account balance.
	ErrInsufficientBalance = errors.New("ledger: insufficient balance")

	// ErrInvalidReceiver indicates a mint or transfer to the null address.
	ErrInvalidReceiver = errors.New("ledger: invalid receiver")

	// ErrInvalidAddress indicates a malformed address string.
	ErrInvalidAddress = errors.New("ledger: invalid address")

	// ErrSupplyOverflow indicates a mint that would overflow total supply.
	ErrSupplyOverflow = errors.New("ledger: total supply overflow")

	// ErrQuotientOverflow indicates a MulDivChecked quotient that does not
	// fit in a uint64, or a zero divisor.
	ErrQuotientOverflow = errors.New("ledger: quotient overflow")
)
