package amount

import "errors"

var (
	// ErrInvalidAmount indicates a negative or malformed amount.
	ErrInvalidAmount = errors.New("amount: invalid amount")

	// ErrUnderflow indicates a subtraction whose result would be negative.
	ErrUnderflow = errors.New("amount: subtraction underflow")
)
