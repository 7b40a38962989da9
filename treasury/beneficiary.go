package treasury

import (
	"fmt"

	"github.com/domeprotocol/dome-go/ledger"
)

// TotalBps is the full beneficiary allocation in basis points.
const TotalBps = 10000

// Beneficiary receives a fixed basis-point share of dome donations. The
// list is set at dome creation and never changes. One beneficiary may be
// the dome's buffer wallet; its share of underlying-asset donations goes to
// the donation buffer instead of being paid out.
type Beneficiary struct {
	CID     string
	Wallet  ledger.Address
	Percent uint32 // basis points, 0-10000
}

// ValidateBeneficiaries checks that the list is non-empty, free of null or
// duplicate wallets, and that percentages sum to exactly 10000 bps.
func ValidateBeneficiaries(list []Beneficiary) error {
	if len(list) == 0 {
		return ErrNoBeneficiaries
	}
	seen := make(map[ledger.Address]bool, len(list))
	var sum uint64
	for i, b := range list {
		if b.Wallet.IsZero() {
			return fmt.Errorf("%w: beneficiary %d has null wallet", ErrInvalidSplit, i)
		}
		if seen[b.Wallet] {
			return fmt.Errorf("%w: duplicate wallet %s", ErrInvalidSplit, b.Wallet)
		}
		seen[b.Wallet] = true
		if b.Percent > TotalBps {
			return fmt.Errorf("%w: beneficiary %d percent %d exceeds %d bps", ErrInvalidSplit, i, b.Percent, TotalBps)
		}
		sum += uint64(b.Percent)
	}
	if sum != TotalBps {
		return fmt.Errorf("%w: percentages sum to %d bps, want %d", ErrInvalidSplit, sum, TotalBps)
	}
	return nil
}
