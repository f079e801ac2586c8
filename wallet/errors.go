package wallet

import (
	"errors"
	"fmt"

	"github.com/bitfsorg/libfund-go/network"
)

// MaxRecords is the largest number of coins, messages or balances a single
// query may return.
const MaxRecords = 9999

var (
	// ErrProviderNotSet indicates the account is not bound to a provider.
	ErrProviderNotSet = errors.New("wallet: provider not set")

	// ErrResourceLimitExceeded is matched by every *ResourceLimitError.
	ErrResourceLimitExceeded = errors.New("wallet: resource limit exceeded")

	// ErrDuplicateResource indicates the provider returned the same resource twice.
	ErrDuplicateResource = errors.New("wallet: duplicate resource")

	// ErrExcludedResource indicates the provider returned a resource that was excluded.
	ErrExcludedResource = errors.New("wallet: excluded resource returned")

	// ErrForeignResource indicates the provider returned a resource owned by
	// another address.
	ErrForeignResource = errors.New("wallet: resource owned by another address")

	// ErrGasPriceTooLow indicates an explicit gas price below the network minimum.
	ErrGasPriceTooLow = errors.New("wallet: gas price too low")

	// ErrGasLimitTooLow indicates an explicit gas limit below the gas the request uses.
	ErrGasLimitTooLow = errors.New("wallet: gas limit too low")

	// ErrInvalidNetwork indicates unknown network name with no custom config.
	ErrInvalidNetwork = errors.New("wallet: invalid network name")

	// ErrInsufficientFunds indicates the owner's resources do not cover the
	// requested quantities.
	ErrInsufficientFunds = network.ErrInsufficientFunds
)

// ResourceLimitError reports a query that returned more than MaxRecords
// records of Kind ("coins", "messages" or "balances").
type ResourceLimitError struct {
	Kind string
}

func (e *ResourceLimitError) Error() string {
	return fmt.Sprintf("wallet: wallets containing more than %d %s exceed the current supported limit", MaxRecords, e.Kind)
}

// Is reports whether target is ErrResourceLimitExceeded.
func (e *ResourceLimitError) Is(target error) bool {
	return target == ErrResourceLimitExceeded
}

func checkLimit(kind string, n int) error {
	if n > MaxRecords {
		return &ResourceLimitError{Kind: kind}
	}
	return nil
}
