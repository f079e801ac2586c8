package indexer

import "errors"

var (
	// ErrCorruptRow indicates a stored row that does not decode.
	ErrCorruptRow = errors.New("indexer: corrupt row")

	// ErrNotFound indicates a resource that is not indexed or already spent.
	ErrNotFound = errors.New("indexer: resource not found")
)
