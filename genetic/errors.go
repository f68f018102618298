package genetic

import "errors"

var (
	// ErrInvalidConfig reports a configuration that cannot drive an experiment
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrLengthMismatch reports a comparison of genomes with different lengths
	ErrLengthMismatch = errors.New("genome length mismatch")

	// ErrInvalidSymbol reports a symbol outside the alphabet
	ErrInvalidSymbol = errors.New("symbol outside alphabet")

	// ErrPoolUnderfilled reports bins that cannot cover the requested breeding pool
	ErrPoolUnderfilled = errors.New("bins cannot fill breeding pool")

	// ErrPoolTooSmall reports a breeding pool without two distinct parents
	ErrPoolTooSmall = errors.New("breeding pool needs at least two individuals")
)
