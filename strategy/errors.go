package strategy

import "errors"

var (
	// ErrUnsupportedProvider indicates a provider type the registry does
	// not offer.
	ErrUnsupportedProvider = errors.New("strategy: unsupported yield provider")

	// ErrInvalidProviderConfig indicates a malformed provider entry.
	ErrInvalidProviderConfig = errors.New("strategy: invalid yield provider config")
)
