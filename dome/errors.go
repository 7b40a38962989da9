package dome

import "errors"

var (
	ErrUnauthorized             = errors.New("dome: caller is not the owner")
	ErrUnpaidFee                = errors.New("dome: creation fee not paid")
	ErrRewardsPaused            = errors.New("dome: rewards are paused")
	ErrUnsupportedYieldProvider = errors.New("dome: unsupported yield provider")
	ErrUnknownDome              = errors.New("dome: unknown dome address")
	ErrZeroAmount               = errors.New("dome: zero amount")
	ErrUnknownToken             = errors.New("dome: unknown token ledger")
	ErrYieldUnavailable         = errors.New("dome: strategy cannot supply yield")
	ErrInvalidGovernance        = errors.New("dome: invalid governance address")
)
