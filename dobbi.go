// Package dobbi provides quick, ready-to-use text cleaning and
// normalization pipelines. Hashtags, nicknames, emoji, URL addresses,
// punctuation, whitespace and custom patterns can be removed, replaced
// with tokens, or collected, by chaining operations in the order they
// should apply.
//
// Clean a twitter message:
//
//	out, err := dobbi.Clean().
//		Hashtag().
//		Nickname().
//		URL().
//		Execute(ctx, "#fun #lol    Why  @Alex33 is so funny? Check here: https://some-url.com")
//	// out: "Why is so funny? Check here:"
//
// Replace a nickname and a URL with tokens:
//
//	out, err := dobbi.Replace().
//		Hashtag("").
//		Nickname().
//		URL("CUSTOM_URL_TOKEN").
//		Execute(ctx, "#fun #lol    Why  @Alex33 is so funny? Check here: https://some-url.com")
//	// out: "Why TOKEN_NICKNAME is so funny? Check here: CUSTOM_URL_TOKEN"
//
// Build a reusable cleanup function:
//
//	fn, err := dobbi.Clean().URL().Hashtag().HTML().Punctuation().Whitespace().Function()
//	out, err := fn(ctx, "\t #fun #lol    Why  @Alex33 is so... funny? <tag> \nCheck\there: https://some-url.com")
//	// out: "Why Alex33 is so funny Check here"
//
// Steps are applied strictly in the order they were chained, and each
// step's output feeds the next. Overlapping pattern classes therefore
// interact: if punctuation removal runs before hashtag removal, the "#"
// is already gone and the remaining word is no longer a hashtag. Chain
// Punctuation as one of the last steps.
//
// A builder is a single-writer object: chain all steps first, then share.
// Once fully built, Execute and Function-returned callables are safe for
// concurrent use.
package dobbi

import (
	"context"

	"github.com/iaramer/dobbi/internal/core/domain"
	"github.com/iaramer/dobbi/internal/core/pattern"
	"github.com/iaramer/dobbi/internal/core/pipeline"
	"github.com/iaramer/dobbi/internal/ports"
)

// TransformFunc is a reusable transformation produced by Pipeline.Function.
type TransformFunc func(ctx context.Context, text string) (string, error)

// CollectFunc is a reusable match extractor produced by Collector.Function.
type CollectFunc func(ctx context.Context, text string) ([]string, error)

// job is the accumulator shared by both builder kinds: an ordered Step
// sequence, the executing engine and a sticky error. The first error
// recorded while chaining stops further appends and surfaces from the
// terminal methods.
type job struct {
	mode   domain.Mode
	steps  []domain.Step
	engine *pipeline.Engine
	logger ports.Logger
	err    error
}

// lookup resolves a registry rule, recording a sticky error on failure.
func (j *job) lookup(name string) (ports.Rule, bool) {
	if j.err != nil {
		return nil, false
	}
	rule, err := pattern.Lookup(name)
	if err != nil {
		j.err = err
		return nil, false
	}
	return rule, true
}

// snapshot copies the current Step sequence so Function-returned callables
// are immune to later appends on the builder.
func (j *job) snapshot() []domain.Step {
	steps := make([]domain.Step, len(j.steps))
	copy(steps, j.steps)
	return steps
}

// Pipeline is a chainable builder for clean and replace modes. The mode is
// fixed by the constructor; every intermediate method appends one step and
// returns the same builder.
type Pipeline struct {
	job
	fin pipeline.Finalize
}

// Clean creates a pipeline that removes matched spans from the text.
// Replacement arguments passed to intermediate methods are ignored in this
// mode.
func Clean(opts ...Option) *Pipeline {
	return newPipeline(domain.ModeClean, opts)
}

// Replace creates a pipeline that substitutes matched spans with tokens:
// the caller-supplied replacement when given, the rule's default token
// otherwise.
func Replace(opts ...Option) *Pipeline {
	return newPipeline(domain.ModeReplace, opts)
}

func newPipeline(mode domain.Mode, opts []Option) *Pipeline {
	j, cfg := newJob(mode, opts)
	return &Pipeline{
		job: j,
		fin: pipeline.Finalize{
			CollapseWhitespace: !cfg.keepWhitespace,
			Lowercase:          cfg.lowercase,
		},
	}
}

// Regexp appends a step for a caller-supplied pattern. A pattern that does
// not compile records the error on the builder and appends nothing; the
// error surfaces from Execute or Function as a wrapped ErrInvalidPattern.
func (p *Pipeline) Regexp(expr string, replacement ...string) *Pipeline {
	if p.err != nil {
		return p
	}
	rule, err := pattern.Custom(expr)
	if err != nil {
		p.err = err
		return p
	}
	return p.append(rule, replacement)
}

// URL appends a step matching http:// and https:// addresses.
func (p *Pipeline) URL(replacement ...string) *Pipeline {
	return p.registry(pattern.URL, replacement)
}

// Hashtag appends a step matching #hashtag words.
func (p *Pipeline) Hashtag(replacement ...string) *Pipeline {
	return p.registry(pattern.Hashtag, replacement)
}

// Nickname appends a step matching @nickname words.
func (p *Pipeline) Nickname(replacement ...string) *Pipeline {
	return p.registry(pattern.Nickname, replacement)
}

// HTML appends a step matching <...> spans, attributed and self-closing
// tags included.
func (p *Pipeline) HTML(replacement ...string) *Pipeline {
	return p.registry(pattern.HTML, replacement)
}

// Punctuation appends a step matching single ASCII punctuation characters
// out of !"#$%&'()*+,-./:;<=>?@[\]^_`{|}~, in every mode. Hashtags,
// nicknames and URLs contain punctuation, so chain this step after them.
func (p *Pipeline) Punctuation(replacement ...string) *Pipeline {
	return p.registry(pattern.Punctuation, replacement)
}

// Whitespace appends a step collapsing whitespace runs (tabs, newlines,
// repeated spaces) to a single space, or to the given replacement in
// replace mode. Applying it twice in a row equals applying it once.
func (p *Pipeline) Whitespace(replacement ...string) *Pipeline {
	return p.registry(pattern.Whitespace, replacement)
}

// Emoji appends a step matching pictographic emoji. Without an explicit
// replacement, replace mode substitutes each emoji with its own
// description token such as TOKEN_EMOJI_GRINNING_FACE.
func (p *Pipeline) Emoji(replacement ...string) *Pipeline {
	return p.registry(pattern.Emoji, replacement)
}

// Emoticons appends a step matching ASCII-art emoticons such as ":)".
// Without an explicit replacement, replace mode substitutes each emoticon
// with its own description token.
func (p *Pipeline) Emoticons(replacement ...string) *Pipeline {
	return p.registry(pattern.Emoticons, replacement)
}

func (p *Pipeline) registry(name string, replacement []string) *Pipeline {
	rule, ok := p.lookup(name)
	if !ok {
		return p
	}
	return p.append(rule, replacement)
}

func (p *Pipeline) append(rule ports.Rule, replacement []string) *Pipeline {
	var transform func(string) string
	switch {
	case p.mode == domain.ModeClean:
		transform = rule.Remove
	case len(replacement) > 0:
		repl := replacement[0]
		transform = func(text string) string { return rule.Replace(text, repl) }
	default:
		transform = rule.Tokenize
	}
	p.steps = append(p.steps, domain.Step{Name: rule.Name(), Transform: transform})
	return p
}

// Execute applies every chained step to text in insertion order and
// returns the final string. The pipeline is not mutated and may be
// executed repeatedly on different inputs.
func (p *Pipeline) Execute(ctx context.Context, text string) (string, error) {
	if p.err != nil {
		return "", p.err
	}
	return p.engine.Run(ctx, p.steps, text, p.fin)
}

// Function returns a callable equivalent to Execute, closed over an
// immutable snapshot of the current step sequence. Appending further steps
// to the builder afterwards does not change the returned function.
func (p *Pipeline) Function() (TransformFunc, error) {
	if p.err != nil {
		return nil, p.err
	}
	steps := p.snapshot()
	engine := p.engine
	fin := p.fin
	return func(ctx context.Context, text string) (string, error) {
		return engine.Run(ctx, steps, text, fin)
	}, nil
}

// Collector is a chainable builder for collect mode: terminal methods
// extract matches instead of transforming the text. Intermediate methods
// take no replacement because none could apply.
type Collector struct {
	job
}

// Collect creates a collector that extracts pattern matches from the text
// without modifying it.
func Collect(opts ...Option) *Collector {
	j, _ := newJob(domain.ModeCollect, opts)
	return &Collector{job: j}
}

// Regexp appends an extraction step for a caller-supplied pattern. A
// pattern that does not compile records the error on the builder and
// appends nothing.
func (c *Collector) Regexp(expr string) *Collector {
	if c.err != nil {
		return c
	}
	rule, err := pattern.Custom(expr)
	if err != nil {
		c.err = err
		return c
	}
	return c.append(rule, rule.Find)
}

// URL appends an extraction step for http:// and https:// addresses.
func (c *Collector) URL() *Collector { return c.registry(pattern.URL) }

// Hashtag appends an extraction step for #hashtag words.
func (c *Collector) Hashtag() *Collector { return c.registry(pattern.Hashtag) }

// Nickname appends an extraction step for @nickname words.
func (c *Collector) Nickname() *Collector { return c.registry(pattern.Nickname) }

// HTML appends an extraction step for <...> spans.
func (c *Collector) HTML() *Collector { return c.registry(pattern.HTML) }

// Punctuation appends an extraction step for ASCII punctuation characters.
func (c *Collector) Punctuation() *Collector { return c.registry(pattern.Punctuation) }

// Whitespace appends an extraction step for whitespace runs.
func (c *Collector) Whitespace() *Collector { return c.registry(pattern.Whitespace) }

// Emoji appends an extraction step for pictographic emoji.
func (c *Collector) Emoji() *Collector { return c.registry(pattern.Emoji) }

// Emoticons appends an extraction step for ASCII-art emoticons. URLs are
// masked before matching so "://" inside links is not counted as an
// emoticon.
func (c *Collector) Emoticons() *Collector {
	emoticons, ok := c.lookup(pattern.Emoticons)
	if !ok {
		return c
	}
	urls, ok := c.lookup(pattern.URL)
	if !ok {
		return c
	}
	extract := func(text string) []string {
		return emoticons.Find(urls.Replace(text, " "))
	}
	return c.append(emoticons, extract)
}

func (c *Collector) registry(name string) *Collector {
	rule, ok := c.lookup(name)
	if !ok {
		return c
	}
	return c.append(rule, rule.Find)
}

func (c *Collector) append(rule ports.Rule, extract func(string) []string) *Collector {
	c.steps = append(c.steps, domain.Step{
		Name:     rule.Name(),
		Extract:  extract,
		Describe: rule.Describe,
	})
	return c
}

// Execute extracts every match of every chained step from text, in step
// order then encounter order. The input is never modified.
func (c *Collector) Execute(ctx context.Context, text string) ([]string, error) {
	if c.err != nil {
		return nil, c.err
	}
	return c.engine.Collect(ctx, c.steps, text)
}

// Function returns a callable equivalent to Execute, closed over an
// immutable snapshot of the current step sequence.
func (c *Collector) Function() (CollectFunc, error) {
	if c.err != nil {
		return nil, c.err
	}
	steps := c.snapshot()
	engine := c.engine
	return func(ctx context.Context, text string) ([]string, error) {
		return engine.Collect(ctx, steps, text)
	}, nil
}

// Counts tallies match frequencies for text, keyed by step name and then
// by match. Emoji and emoticon matches are keyed by their description
// tokens.
func (c *Collector) Counts(ctx context.Context, text string) (map[string]map[string]int, error) {
	if c.err != nil {
		return nil, c.err
	}
	return c.engine.Counts(ctx, c.steps, []string{text})
}

// BatchCounts tallies match frequencies merged across multiple inputs.
func (c *Collector) BatchCounts(ctx context.Context, texts []string) (map[string]map[string]int, error) {
	if c.err != nil {
		return nil, c.err
	}
	return c.engine.Counts(ctx, c.steps, texts)
}
