package ledger

import (
	"encoding/hex"
	"fmt"
	"strings"
)

// AddressSize is the length of an account address in bytes.
const AddressSize = 20

// Address identifies an account on the simulated ledger. The zero value is
// the null address and is rejected as a transfer or mint receiver.
type Address [AddressSize]byte

// ZeroAddress is the null address.
var ZeroAddress Address

// IsZero reports whether a is the null address.
func (a Address) IsZero() bool { return a == ZeroAddress }

// String returns the 0x-prefixed hex form of the address.
func (a Address) String() string { return "0x" + hex.EncodeToString(a[:]) }

// ParseAddress decodes a hex address with or without a 0x prefix.
func ParseAddress(s string) (Address, error) {
	s = strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")
	raw, err := hex.DecodeString(s)
	if err != nil {
		return ZeroAddress, fmt.Errorf("%w: %w", ErrInvalidAddress, err)
	}
	if len(raw) != AddressSize {
		return ZeroAddress, fmt.Errorf("%w: address must be %d bytes, got %d", ErrInvalidAddress, AddressSize, len(raw))
	}
	var a Address
	copy(a[:], raw)
	return a, nil
}
