package dobbi

import "github.com/iaramer/dobbi/internal/core/pattern"

// Sentinel errors surfaced by the builders. Both come wrapped with
// context; test with errors.Is.
var (
	// ErrInvalidPattern reports a custom Regexp pattern that failed to
	// compile. The failing chain call appends no step.
	ErrInvalidPattern = pattern.ErrInvalidPattern

	// ErrUnknownPattern reports a registry lookup miss. The public surface
	// only uses fixed rule names, so seeing this error indicates a bug in
	// the library rather than bad input.
	ErrUnknownPattern = pattern.ErrUnknownPattern
)
