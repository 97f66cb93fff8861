package models

import (
	"fmt"
	"strings"
)

// The quote pipeline distinguishes five failure classes. Handlers map them to
// HTTP status codes; nothing inside the pipeline ever inspects error strings.

// ValidationError reports a user-fixable problem with the request shape or ranges.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed on %q: %s", e.Field, e.Message)
}

// UnknownCropError is raised when a crop is neither configured nor aliased.
// Unknown zones are not an error: they fall back to the auto_detect zone.
type UnknownCropError struct {
	Crop      string
	Supported []string
}

func (e *UnknownCropError) Error() string {
	return fmt.Sprintf("unsupported crop %q, available crops: %s", e.Crop, strings.Join(e.Supported, ", "))
}

// InsufficientDataError fails a quote whose valid historical season count is
// below the regulatory minimum.
type InsufficientDataError struct {
	YearsAvailable  int
	MinimumRequired int
}

func (e *InsufficientDataError) Error() string {
	return fmt.Sprintf("insufficient historical data: %d valid seasons found, regulatory minimum is %d",
		e.YearsAvailable, e.MinimumRequired)
}

// UpstreamFetchError wraps a rainfall-source failure that survived the retry budget.
type UpstreamFetchError struct {
	Operation string
	Attempts  int
	Err       error
}

func (e *UpstreamFetchError) Error() string {
	return fmt.Sprintf("rainfall source %s failed after %d attempts: %v", e.Operation, e.Attempts, e.Err)
}

func (e *UpstreamFetchError) Unwrap() error { return e.Err }

// ComputationError signals an internal invariant violation. Always fatal,
// never silently corrected.
type ComputationError struct {
	Stage   string
	Message string
}

func (e *ComputationError) Error() string {
	return fmt.Sprintf("computation error in %s: %s", e.Stage, e.Message)
}
