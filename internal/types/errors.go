package types

import (
	"errors"
	"fmt"
)

// Sentinel errors for the execution and layout paths. Per-child errors are
// recovered into failure outcomes by the executor; structural errors degrade
// the rendered output. None of these should ever crash a request.
var (
	// ErrLimitExceeded means a claim cap was already reached.
	ErrLimitExceeded = errors.New("claim limit exceeded")

	// ErrReferenceNotFound means a target action, item, or surface is missing.
	ErrReferenceNotFound = errors.New("referenced entity not found")

	// ErrBudgetOverflow means a packer/renderer invariant was violated.
	// Recovered into the renderer's fallback payload and logged as a defect.
	ErrBudgetOverflow = errors.New("structural budget exceeded")

	// ErrConcurrencyConflict means an optimistic write lost a race. Retried
	// transparently up to a small bound before surfacing as transient failure.
	ErrConcurrencyConflict = errors.New("concurrent state write conflict")
)

// ConfigError describes a malformed or ambiguous piece of surface
// configuration. Config errors are reported at validation time; at runtime
// the engine degrades (orphan attachables become standalone bundles) rather
// than failing the request.
type ConfigError struct {
	SurfaceID string
	ActionID  string
	Reason    string
}

func (e *ConfigError) Error() string {
	if e.ActionID != "" {
		return fmt.Sprintf("surface %s: action %s: %s", e.SurfaceID, e.ActionID, e.Reason)
	}
	return fmt.Sprintf("surface %s: %s", e.SurfaceID, e.Reason)
}
