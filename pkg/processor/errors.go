package processor

import "errors"

// Invariant-violation errors (spec.md §7 kind (a)): internal contract
// failures that abort the run rather than being recoverable.
var (
	ErrNilLayout = errors.New("processor: layout is nil")
	ErrNilCell   = errors.New("processor: cell not found in layout")
	ErrNilOp     = errors.New("processor: local operation is nil")
)
