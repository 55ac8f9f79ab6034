package domain

// Mode determines what happens to a pattern match: removal, substitution
// with a token, or extraction into a collection.
type Mode int

const (
	// ModeClean removes matched spans from the text.
	ModeClean Mode = iota
	// ModeReplace substitutes matched spans with a token.
	ModeReplace
	// ModeCollect extracts matched spans without touching the text.
	ModeCollect
)

// String returns the mode name used in logs.
func (m Mode) String() string {
	switch m {
	case ModeClean:
		return "clean"
	case ModeReplace:
		return "replace"
	case ModeCollect:
		return "collect"
	default:
		return "unknown"
	}
}

// Step is one configured stage of a pipeline: a rule bound to its
// replacement policy at append time. Steps are immutable once created and
// are applied in insertion order.
type Step struct {
	// Name is the registry identifier of the rule behind the step.
	Name string

	// Transform applies the step to the text. Nil in collect mode.
	Transform func(text string) string

	// Extract returns the step's matches in encounter order. Nil outside
	// collect mode.
	Extract func(text string) []string

	// Describe maps a raw match to its frequency-count key. Nil outside
	// collect mode.
	Describe func(match string) string
}
