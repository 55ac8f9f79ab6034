// Package pattern holds the fixed registry of built-in matching rules and
// their default replacement tokens. The registry is process-wide immutable
// state: every rule is compiled once at package initialization and shared
// read-only across all pipelines.
package pattern

import (
	"errors"
	"fmt"
	"regexp"

	"github.com/iaramer/dobbi/internal/ports"
)

// Sentinel errors for registry and custom pattern failures.
var (
	// ErrUnknownPattern is returned when a rule name is not in the registry.
	ErrUnknownPattern = errors.New("unknown pattern")
	// ErrInvalidPattern is returned when a custom regexp fails to compile.
	ErrInvalidPattern = errors.New("invalid pattern")
)

// Registry rule names.
const (
	URL         = "url"
	Hashtag     = "hashtag"
	Nickname    = "nickname"
	HTML        = "html"
	Punctuation = "punctuation"
	Whitespace  = "whitespace"
	Emoji       = "emoji"
	Emoticons   = "emoticons"
	Regexp      = "regexp"
)

// Default replacement tokens. The punctuation token is space-padded so
// substituted text does not glue onto neighbouring words.
const (
	TokenURL         = "TOKEN_URL"
	TokenHashtag     = "TOKEN_HASHTAG"
	TokenNickname    = "TOKEN_NICKNAME"
	TokenHTML        = "TOKEN_HTML"
	TokenPunctuation = " TOKEN_PUNCTUATION "
	TokenWhitespace  = " "
	TokenCustom      = "TOKEN_CUSTOM"
)

// regexRule is a registry entry backed by a compiled regular expression.
type regexRule struct {
	name string
	re   *regexp.Regexp
	// removeWith is what a match becomes in clean mode: empty for spans
	// that sit between words on their own, a single space for spans whose
	// deletion would merge adjacent words.
	removeWith string
	token      string
}

func (r *regexRule) Name() string { return r.name }

func (r *regexRule) Remove(text string) string {
	return r.re.ReplaceAllLiteralString(text, r.removeWith)
}

func (r *regexRule) Replace(text, replacement string) string {
	return r.re.ReplaceAllLiteralString(text, replacement)
}

func (r *regexRule) Tokenize(text string) string {
	return r.re.ReplaceAllLiteralString(text, r.token)
}

func (r *regexRule) Find(text string) []string {
	return r.re.FindAllString(text, -1)
}

func (r *regexRule) Describe(match string) string { return match }

// asciiPunctuation matches one character out of !"#$%&'()*+,-./:;<=>?@[\]^_`{|}~.
const asciiPunctuation = "[!-/:-@\\[-`{-~]"

var registry = map[string]ports.Rule{
	URL: &regexRule{
		name:  URL,
		re:    regexp.MustCompile(`https?://\S+`),
		token: TokenURL,
	},
	Hashtag: &regexRule{
		name:  Hashtag,
		re:    regexp.MustCompile(`#\w+`),
		token: TokenHashtag,
	},
	Nickname: &regexRule{
		name:  Nickname,
		re:    regexp.MustCompile(`@\w+`),
		token: TokenNickname,
	},
	HTML: &regexRule{
		name:  HTML,
		re:    regexp.MustCompile(`<[^>]*>`),
		token: TokenHTML,
	},
	Punctuation: &regexRule{
		name:  Punctuation,
		re:    regexp.MustCompile(asciiPunctuation),
		token: TokenPunctuation,
	},
	Whitespace: &regexRule{
		name: Whitespace,
		re:   regexp.MustCompile(`\s+`),
		// A run of whitespace collapses to one space, never to nothing.
		removeWith: " ",
		token:      TokenWhitespace,
	},
	Emoji:     newEmojiRule(),
	Emoticons: newEmoticonRule(),
}

// Lookup returns the registry rule for name. The public builder surface
// only passes fixed names, so a failed lookup indicates a programming
// error rather than bad user input; it is still reported as a wrapped
// ErrUnknownPattern instead of a panic.
func Lookup(name string) (ports.Rule, error) {
	rule, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownPattern, name)
	}
	return rule, nil
}

// Custom compiles a caller-supplied expression into a rule equivalent to
// the built-in ones. A malformed expression yields a wrapped
// ErrInvalidPattern and no rule.
func Custom(expr string) (ports.Rule, error) {
	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPattern, err)
	}
	return &regexRule{
		name:  Regexp,
		re:    re,
		token: TokenCustom,
	}, nil
}
