package treasury

import (
	"fmt"

	"github.com/domeprotocol/dome-go/ledger"
)

// Payout is a single beneficiary transfer produced by a distribution.
// ToBuffer marks the payout that is credited to the donation buffer rather
// than transferred out.
type Payout struct {
	Wallet   ledger.Address
	Amount   uint64
	ToBuffer bool
}

// SplitUnderlying allocates an underlying-asset donation across the
// beneficiaries by basis points. The last beneficiary absorbs the
// truncation remainder so the payouts always sum to amount exactly. The
// buffer wallet's payout, if present, is flagged ToBuffer.
func SplitUnderlying(amount uint64, list []Beneficiary, bufferWallet ledger.Address) ([]Payout, error) {
	if amount == 0 {
		return nil, ErrZeroAmount
	}
	if len(list) == 0 {
		return nil, ErrNoBeneficiaries
	}

	payouts := make([]Payout, len(list))
	var distributed uint64
	for i, b := range list {
		payouts[i].Wallet = b.Wallet
		payouts[i].ToBuffer = b.Wallet == bufferWallet
		if i == len(list)-1 {
			// Last beneficiary gets the remainder.
			payouts[i].Amount = amount - distributed
		} else {
			cut := ledger.MulDiv(amount, uint64(b.Percent), TotalBps)
			payouts[i].Amount = cut
			distributed += cut
		}
	}
	return payouts, nil
}

// SplitForeign allocates a non-underlying-token donation. The buffer only
// tracks the underlying asset, so the buffer wallet's percentage is not
// sent to it; it is redistributed evenly among the remaining beneficiaries
// (bufferPercent / (numBeneficiaries - 1) added to each) and the buffer's
// reserve is left unchanged.
func SplitForeign(amount uint64, list []Beneficiary, bufferWallet ledger.Address) ([]Payout, error) {
	if amount == 0 {
		return nil, ErrZeroAmount
	}
	if len(list) == 0 {
		return nil, ErrNoBeneficiaries
	}

	var bufferPercent uint32
	others := make([]Beneficiary, 0, len(list))
	for _, b := range list {
		if b.Wallet == bufferWallet {
			bufferPercent += b.Percent
			continue
		}
		others = append(others, b)
	}
	if len(others) == 0 {
		return nil, fmt.Errorf("%w: no non-buffer beneficiaries for foreign donation", ErrInvalidSplit)
	}
	if bufferPercent == 0 {
		// No buffer beneficiary configured; split as-is.
		return SplitUnderlying(amount, others, ledger.ZeroAddress)
	}

	additional := bufferPercent / uint32(len(list)-1)
	payouts := make([]Payout, len(others))
	var distributed uint64
	for i, b := range others {
		payouts[i].Wallet = b.Wallet
		if i == len(others)-1 {
			payouts[i].Amount = amount - distributed
		} else {
			cut := ledger.MulDiv(amount, uint64(b.Percent+additional), TotalBps)
			payouts[i].Amount = cut
			distributed += cut
		}
	}
	return payouts, nil
}
