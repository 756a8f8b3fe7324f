package schema

import "errors"

// Sentinel errors shared across packages.
var (
	ErrTargetMissing  = errors.New("render target missing")
	ErrStepOutOfRange = errors.New("step index out of range")
	ErrUnknownCommit  = errors.New("unknown commit")
)
