package treasury

import "errors"

var (
	// ErrNoBeneficiaries indicates an empty beneficiary list.
	ErrNoBeneficiaries = errors.New("treasury: no beneficiaries")

	// ErrInvalidSplit indicates beneficiary percentages that do not sum to
	// 10000 basis points, or a zero-percent or null-wallet entry.
	ErrInvalidSplit = errors.New("treasury: invalid beneficiary split")

	// ErrInsufficientReserve indicates a buffer debit exceeding the reserve.
	ErrInsufficientReserve = errors.New("treasury: insufficient buffer reserve")

	// ErrZeroAmount indicates a zero-amount distribution.
	ErrZeroAmount = errors.New("treasury: zero amount")
)
