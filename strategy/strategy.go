// Package strategy defines the capability interface between a dome vault
// and the external yield protocol holding its pooled assets. The vault
// treats the strategy as an opaque valuation and liquidity oracle; it never
// needs to know which protocol is behind it.
package strategy

import "fmt"

// Strategy is the interface a yield provider implementation fulfils.
type Strategy interface {
	// TotalAssets returns the current value, in underlying asset units, of
	// everything the strategy holds for the vault.
	TotalAssets() uint64

	// Deposit forwards assets into the external protocol.
	Deposit(amount uint64)

	// Withdraw pulls assets out of the external protocol. It returns false,
	// without side effects, when the protocol cannot supply the liquidity.
	Withdraw(amount uint64) bool

	// CanWithdraw reports whether Withdraw(amount) would currently succeed.
	CanWithdraw(amount uint64) bool
}

// ProviderType identifies which external protocol a provider wraps.
type ProviderType uint8

const (
	ProviderUnknown ProviderType = iota
	ProviderAave
	ProviderHyperliquid
	ProviderMock
)

// String returns the canonical provider type name.
func (t ProviderType) String() string {
	switch t {
	case ProviderAave:
		return "aave"
	case ProviderHyperliquid:
		return "hyperliquid"
	case ProviderMock:
		return "mock"
	default:
		return "unknown"
	}
}

// ParseProviderType resolves a provider type name.
func ParseProviderType(s string) (ProviderType, error) {
	switch s {
	case "aave":
		return ProviderAave, nil
	case "hyperliquid":
		return ProviderHyperliquid, nil
	case "mock":
		return ProviderMock, nil
	default:
		return ProviderUnknown, fmt.Errorf("%w: %q", ErrUnsupportedProvider, s)
	}
}

// Provider describes a yield provider the registry offers to new domes.
type Provider struct {
	Name    string
	Type    ProviderType
	Enabled bool
}

// Validate checks the provider configuration.
func (p Provider) Validate() error {
	if p.Name == "" {
		return fmt.Errorf("%w: empty provider name", ErrInvalidProviderConfig)
	}
	if p.Type == ProviderUnknown {
		return fmt.Errorf("%w: unknown provider type", ErrInvalidProviderConfig)
	}
	return nil
}
