package ledger

import "math/bits"

// MulDiv returns a*b/c with the intermediate product held at 128-bit width,
// truncating toward zero. Multiplying before dividing this way avoids the
// precision loss of (a/c)*b in share-price arithmetic.
//
// c must be non-zero and the quotient must fit in a uint64; callers guard
// both (total supply is checked before any division on it).
func MulDiv(a, b, c uint64) uint64 {
	hi, lo := bits.Mul64(a, b)
	if hi == 0 {
		return lo / c
	}
	q, _ := bits.Div64(hi, lo, c)
	return q
}

// MulDivChecked is MulDiv with the quotient range checked: it returns
// ErrQuotientOverflow instead of panicking when c is zero or a*b/c would
// exceed a uint64. Use it wherever the inputs are not already bounded,
// such as pricing a deposit against a collapsed strategy valuation.
func MulDivChecked(a, b, c uint64) (uint64, error) {
	hi, lo := bits.Mul64(a, b)
	if c == 0 || hi >= c {
		return 0, ErrQuotientOverflow
	}
	if hi == 0 {
		return lo / c, nil
	}
	q, _ := bits.Div64(hi, lo, c)
	return q, nil
}
