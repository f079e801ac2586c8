package localnode

import "errors"

var (
	// ErrInputNotFound indicates an input spends a coin or message the node
	// does not hold (unknown or already spent).
	ErrInputNotFound = errors.New("localnode: input not found")

	// ErrInputMismatch indicates an input whose owner, asset or amount
	// differs from the stored resource.
	ErrInputMismatch = errors.New("localnode: input does not match stored resource")

	// ErrDuplicateInput indicates the same resource is spent twice.
	ErrDuplicateInput = errors.New("localnode: duplicate input")

	// ErrMissingWitness indicates an input references a witness slot that
	// does not exist.
	ErrMissingWitness = errors.New("localnode: missing witness")

	// ErrUnbalanced indicates inputs do not cover outputs plus fee.
	ErrUnbalanced = errors.New("localnode: inputs do not cover outputs and fee")

	// ErrGasPriceTooLow indicates a gas price below the node minimum.
	ErrGasPriceTooLow = errors.New("localnode: gas price below minimum")

	// ErrOutOfGas indicates a gas limit below the gas the request uses.
	ErrOutOfGas = errors.New("localnode: gas limit below gas used")

	// ErrInvalidAmount indicates a zero mint or deposit.
	ErrInvalidAmount = errors.New("localnode: amount must be positive")
)
