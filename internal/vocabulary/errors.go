package vocabulary

import "errors"

// Domain errors for vocabulary operations.
var (
	ErrInvalidCategory = errors.New("invalid tag category")
	ErrTableMalformed  = errors.New("reference table malformed")
)
