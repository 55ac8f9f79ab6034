package dobbi

import (
	"context"
	"errors"
	"reflect"
	"testing"
)

func TestCleanExecute(t *testing.T) {
	tests := []struct {
		name     string
		build    func() *Pipeline
		input    string
		expected string
	}{
		{
			name: "Twitter message",
			build: func() *Pipeline {
				return Clean().Hashtag().Nickname().URL()
			},
			input:    "#fun #lol    Why  @Alex33 is so funny? Check here: https://some-url.com",
			expected: "Why is so funny? Check here:",
		},
		{
			name: "Full cleanup chain",
			build: func() *Pipeline {
				return Clean().URL().Hashtag().HTML().Punctuation().Whitespace()
			},
			input:    "\t #fun #lol    Why  @Alex33 is so... funny? <tag> \nCheck\there: https://some-url.com",
			expected: "Why Alex33 is so funny Check here",
		},
		{
			name: "HTML tags with attributes",
			build: func() *Pipeline {
				return Clean().HTML()
			},
			input:    `before <a href="x"> middle <br/> after`,
			expected: "before middle after",
		},
		{
			name: "Emoticons glued to words",
			build: func() *Pipeline {
				return Clean().Emoticons()
			},
			input:    ":)word1:Dword2:)",
			expected: "word1 word2",
		},
		{
			name: "Custom pattern",
			build: func() *Pipeline {
				return Clean().Regexp(`[A-Z]+-\d+`)
			},
			input:    "fixed in JIRA-123 finally",
			expected: "fixed in finally",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := tc.build().Execute(context.Background(), tc.input)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tc.expected {
				t.Errorf("expected %q, got %q", tc.expected, got)
			}
		})
	}
}

func TestReplaceExecute(t *testing.T) {
	tests := []struct {
		name     string
		build    func() *Pipeline
		input    string
		expected string
	}{
		{
			name: "Default and custom tokens",
			build: func() *Pipeline {
				return Replace().Hashtag("").Nickname().URL("CUSTOM_URL_TOKEN")
			},
			input:    "#fun #lol    Why  @Alex33 is so funny? Check here: https://some-url.com",
			expected: "Why TOKEN_NICKNAME is so funny? Check here: CUSTOM_URL_TOKEN",
		},
		{
			name: "Emoticon description tokens",
			build: func() *Pipeline {
				return Replace().Emoticons()
			},
			input:    ":)word1:Dword2",
			expected: "TOKEN_EMOTICON_HAPPY_FACE_OR_SMILEY word1 TOKEN_EMOTICON_LAUGHING_OR_BIG_GRIN_OR_LAUGH_WITH_GLASSES word2",
		},
		{
			name: "Uniform emoticon token overrides descriptions",
			build: func() *Pipeline {
				return Replace().Emoticons("EMO")
			},
			input:    "good :) bad :(",
			expected: "good EMO bad EMO",
		},
		{
			name: "Custom pattern default token",
			build: func() *Pipeline {
				return Replace().Regexp(`[A-Z]+-\d+`)
			},
			input:    "fixed in JIRA-123 finally",
			expected: "fixed in TOKEN_CUSTOM finally",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := tc.build().Execute(context.Background(), tc.input)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tc.expected {
				t.Errorf("expected %q, got %q", tc.expected, got)
			}
		})
	}
}

// Step N's output is step N+1's input, so removing punctuation before
// hashtags strips the "#" and breaks hashtag recognition. Both orders are
// intended behavior.
func TestStepOrderSensitivity(t *testing.T) {
	ctx := context.Background()
	input := "#tag!"

	hashtagFirst, err := Clean().Hashtag().Punctuation().Execute(ctx, input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if hashtagFirst != "" {
		t.Errorf("hashtag-then-punctuation: expected empty result, got %q", hashtagFirst)
	}

	punctuationFirst, err := Clean().Punctuation().Hashtag().Execute(ctx, input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if punctuationFirst != "tag" {
		t.Errorf("punctuation-then-hashtag: expected %q, got %q", "tag", punctuationFirst)
	}
}

func TestWhitespaceIdempotent(t *testing.T) {
	ctx := context.Background()
	input := "a\t\t b \n\n c d"

	once, err := Clean(WithKeepWhitespace()).Whitespace().Execute(ctx, input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	twice, err := Clean(WithKeepWhitespace()).Whitespace().Whitespace().Execute(ctx, input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if once != twice {
		t.Errorf("whitespace step not idempotent: %q vs %q", once, twice)
	}
	if once != "a b c d" {
		t.Errorf("expected %q, got %q", "a b c d", once)
	}
}

func TestFunctionMatchesExecute(t *testing.T) {
	ctx := context.Background()
	inputs := []string{
		"#fun #lol    Why  @Alex33 is so funny? Check here: https://some-url.com",
		"plain text without any patterns",
		"",
		":) <b>bold</b> @nick #tag https://x.io :D",
	}

	pipe := Clean().Hashtag().Nickname().URL().HTML().Emoticons()
	fn, err := pipe.Function()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, input := range inputs {
		direct, err := pipe.Execute(ctx, input)
		if err != nil {
			t.Fatalf("Execute: %v", err)
		}
		viaFn, err := fn(ctx, input)
		if err != nil {
			t.Fatalf("Function call: %v", err)
		}
		if direct != viaFn {
			t.Errorf("input %q: Execute %q != Function %q", input, direct, viaFn)
		}
	}
}

func TestFunctionSnapshot(t *testing.T) {
	ctx := context.Background()
	input := "#tag @nick"

	pipe := Clean().Hashtag()
	fn, err := pipe.Function()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	before, err := fn(ctx, input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Appending after Function must not change the captured chain.
	pipe.Nickname()

	after, err := fn(ctx, input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if before != after {
		t.Errorf("function changed after builder append: %q vs %q", before, after)
	}
	if after != "@nick" {
		t.Errorf("expected %q, got %q", "@nick", after)
	}

	// The builder itself sees the new step.
	full, err := pipe.Execute(ctx, input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if full != "" {
		t.Errorf("expected empty result from extended builder, got %q", full)
	}
}

func TestInvalidRegexp(t *testing.T) {
	ctx := context.Background()

	// Unbalanced group must surface as ErrInvalidPattern from terminals.
	_, err := Clean().Regexp(`#\w+(`).Execute(ctx, "text")
	if !errors.Is(err, ErrInvalidPattern) {
		t.Fatalf("expected ErrInvalidPattern, got %v", err)
	}

	_, err = Clean().Regexp(`#\w+(`).Function()
	if !errors.Is(err, ErrInvalidPattern) {
		t.Fatalf("expected ErrInvalidPattern from Function, got %v", err)
	}

	// A valid pattern with the same shape compiles fine.
	out, err := Clean().Regexp(`#\w+`).Execute(ctx, "#tag stays")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "stays" {
		t.Errorf("expected %q, got %q", "stays", out)
	}
}

func TestInvalidRegexpAppendsNothing(t *testing.T) {
	pipe := Clean().URL()
	pipe.Regexp(`#\w+(`)
	if len(pipe.steps) != 1 {
		t.Errorf("expected 1 step after failed Regexp, got %d", len(pipe.steps))
	}
	if pipe.err == nil {
		t.Error("expected sticky error on builder")
	}
}

func TestCollectExecute(t *testing.T) {
	ctx := context.Background()
	input := "#go #dobbi hey @reader check https://example.com and #go again"

	matches, err := Collect().Hashtag().Nickname().URL().Execute(ctx, input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Step order first, encounter order within a step.
	expected := []string{"#go", "#dobbi", "#go", "@reader", "https://example.com"}
	if !reflect.DeepEqual(matches, expected) {
		t.Errorf("expected %v, got %v", expected, matches)
	}
}

func TestCollectCounts(t *testing.T) {
	ctx := context.Background()

	counts, err := Collect().Hashtag().Counts(ctx, "#a #b #a")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	expected := map[string]map[string]int{
		"hashtag": {"#a": 2, "#b": 1},
	}
	if !reflect.DeepEqual(counts, expected) {
		t.Errorf("expected %v, got %v", expected, counts)
	}
}

func TestCollectBatchCounts(t *testing.T) {
	ctx := context.Background()
	input := ":) :D :)"

	counts, err := Collect().Emoticons().BatchCounts(ctx, []string{input, input})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	expected := map[string]map[string]int{
		"emoticons": {
			"TOKEN_EMOTICON_HAPPY_FACE_OR_SMILEY":                       4,
			"TOKEN_EMOTICON_LAUGHING_OR_BIG_GRIN_OR_LAUGH_WITH_GLASSES": 2,
		},
	}
	if !reflect.DeepEqual(counts, expected) {
		t.Errorf("expected %v, got %v", expected, counts)
	}
}

func TestCollectEmoticonsIgnoresURLs(t *testing.T) {
	ctx := context.Background()

	matches, err := Collect().Emoticons().Execute(ctx, "see https://x.io/path :)")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	expected := []string{":)"}
	if !reflect.DeepEqual(matches, expected) {
		t.Errorf("expected %v, got %v", expected, matches)
	}
}

func TestReplacementIgnoredInCleanMode(t *testing.T) {
	ctx := context.Background()

	out, err := Clean().Hashtag("SHOULD_NOT_APPEAR").Execute(ctx, "#tag text")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "text" {
		t.Errorf("expected %q, got %q", "text", out)
	}
}

func TestConstructorOptions(t *testing.T) {
	ctx := context.Background()

	lower, err := Replace(WithLowercase()).URL().Execute(ctx, "See HERE: https://x.io")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if lower != "see here: token_url" {
		t.Errorf("expected lowercased output, got %q", lower)
	}

	raw, err := Clean(WithKeepWhitespace()).Hashtag().Execute(ctx, "  #tag  text  ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if raw != "    text  " {
		t.Errorf("expected whitespace preserved, got %q", raw)
	}
}

func TestExecuteDoesNotMutatePipeline(t *testing.T) {
	ctx := context.Background()
	pipe := Clean().Hashtag()

	first, err := pipe.Execute(ctx, "#a word")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := pipe.Execute(ctx, "#a word")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if first != second {
		t.Errorf("repeated execution diverged: %q vs %q", first, second)
	}
	if len(pipe.steps) != 1 {
		t.Errorf("execution mutated the step sequence: %d steps", len(pipe.steps))
	}
}
