package tx

import "errors"

var (
	// ErrNilParam indicates a required parameter is nil.
	ErrNilParam = errors.New("tx: required parameter is nil")

	// ErrInvalidParams indicates invalid parameters were provided.
	ErrInvalidParams = errors.New("tx: invalid parameters")

	// ErrUnsupportedType indicates a transaction type this package cannot build.
	ErrUnsupportedType = errors.New("tx: unsupported transaction type")

	// ErrTooManyWitnesses indicates more than MaxWitnesses distinct signers.
	ErrTooManyWitnesses = errors.New("tx: too many witnesses")

	// ErrNotWithdrawal indicates the request does not carry the withdrawal script.
	ErrNotWithdrawal = errors.New("tx: not a withdrawal request")
)
