package reserve

import "errors"

var (
	// ErrAlreadyReserved indicates a resource held by another lock.
	ErrAlreadyReserved = errors.New("reserve: resource already reserved")

	// ErrUnknownLock indicates a lock id that has expired or was never taken.
	ErrUnknownLock = errors.New("reserve: unknown lock")
)
