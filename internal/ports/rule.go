package ports

// Rule describes one entry of the pattern registry. A rule knows how to
// produce each per-mode behavior of a pipeline step: removal, replacement
// (uniform or tokenized) and match extraction.
type Rule interface {
	// Name returns the registry identifier of the rule.
	Name() string

	// Remove returns text with every match removed. Rules whose matches can
	// glue adjacent words together substitute a single space instead of
	// deleting outright.
	Remove(text string) string

	// Replace substitutes every match with the given replacement, verbatim.
	Replace(text, replacement string) string

	// Tokenize substitutes every match with the rule's default token.
	// Catalog rules emit a per-match description token instead of a single
	// uniform one.
	Tokenize(text string) string

	// Find returns every match in encounter order.
	Find(text string) []string

	// Describe maps a raw match to the key used in frequency counts.
	Describe(match string) string
}
