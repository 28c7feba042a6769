package corpus

import "errors"

var (
	// ErrInvalidCategory is returned for a category tag outside the known
	// partitions. Callers must fix their configuration; retrying is pointless.
	ErrInvalidCategory = errors.New("invalid category")

	// ErrCorpusExhausted is returned when no candidate file remains after
	// exclusions or link constraints are applied.
	ErrCorpusExhausted = errors.New("corpus exhausted")

	ErrMalformedKey = errors.New("malformed corpus key")
)
