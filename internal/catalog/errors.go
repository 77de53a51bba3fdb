package catalog

import "errors"

var (
	// ErrNotFound indicates an id that is not part of the catalog.
	ErrNotFound = errors.New("catalog entry not found")
	// ErrInvalidDefinition indicates a definition that breaks a catalog invariant.
	ErrInvalidDefinition = errors.New("invalid catalog definition")
)
