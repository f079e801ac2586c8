package coin

import "errors"

var (
	// ErrInvalidHex indicates an identifier string with bad hex or wrong length.
	ErrInvalidHex = errors.New("coin: invalid hex identifier")

	// ErrUnknownResource indicates a Resource implementation this package does not know.
	ErrUnknownResource = errors.New("coin: unknown resource kind")
)
