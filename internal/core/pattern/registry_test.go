package pattern

import (
	"errors"
	"reflect"
	"testing"
)

func TestLookup(t *testing.T) {
	for _, name := range []string{URL, Hashtag, Nickname, HTML, Punctuation, Whitespace, Emoji, Emoticons} {
		rule, err := Lookup(name)
		if err != nil {
			t.Fatalf("Lookup(%q): %v", name, err)
		}
		if rule.Name() != name {
			t.Errorf("Lookup(%q) returned rule named %q", name, rule.Name())
		}
	}
}

func TestLookupUnknown(t *testing.T) {
	_, err := Lookup("stemmer")
	if !errors.Is(err, ErrUnknownPattern) {
		t.Fatalf("expected ErrUnknownPattern, got %v", err)
	}
}

func TestCustom(t *testing.T) {
	rule, err := Custom(`#\w+`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := rule.Remove("#tag rest"); got != " rest" {
		t.Errorf("Remove: expected %q, got %q", " rest", got)
	}
	if got := rule.Tokenize("#tag rest"); got != "TOKEN_CUSTOM rest" {
		t.Errorf("Tokenize: expected %q, got %q", "TOKEN_CUSTOM rest", got)
	}
}

func TestCustomInvalid(t *testing.T) {
	_, err := Custom(`#\w+(`)
	if !errors.Is(err, ErrInvalidPattern) {
		t.Fatalf("expected ErrInvalidPattern, got %v", err)
	}
}

func TestRegexRules(t *testing.T) {
	tests := []struct {
		name     string
		rule     string
		input    string
		remove   string
		tokenize string
		find     []string
	}{
		{
			name:     "url",
			rule:     URL,
			input:    "go to https://x.io/a?b=1 now",
			remove:   "go to  now",
			tokenize: "go to TOKEN_URL now",
			find:     []string{"https://x.io/a?b=1"},
		},
		{
			name:     "url http scheme",
			rule:     URL,
			input:    "http://plain.example rest",
			remove:   " rest",
			tokenize: "TOKEN_URL rest",
			find:     []string{"http://plain.example"},
		},
		{
			name:     "hashtag",
			rule:     Hashtag,
			input:    "#a mid #b_2",
			remove:   " mid ",
			tokenize: "TOKEN_HASHTAG mid TOKEN_HASHTAG",
			find:     []string{"#a", "#b_2"},
		},
		{
			name:     "nickname",
			rule:     Nickname,
			input:    "hi @user42!",
			remove:   "hi !",
			tokenize: "hi TOKEN_NICKNAME!",
			find:     []string{"@user42"},
		},
		{
			name:     "html attributed and self-closing",
			rule:     HTML,
			input:    `x <a href="y"> z <br/> w`,
			remove:   "x  z  w",
			tokenize: "x TOKEN_HTML z TOKEN_HTML w",
			find:     []string{`<a href="y">`, "<br/>"},
		},
		{
			name:     "punctuation per character",
			rule:     Punctuation,
			input:    "so... fun?",
			remove:   "so fun",
			tokenize: "so TOKEN_PUNCTUATION  TOKEN_PUNCTUATION  TOKEN_PUNCTUATION  fun TOKEN_PUNCTUATION ",
			find:     []string{".", ".", ".", "?"},
		},
		{
			name:     "whitespace collapses to one space",
			rule:     Whitespace,
			input:    "a\t\t b\n\nc",
			remove:   "a b c",
			tokenize: "a b c",
			find:     []string{"\t\t ", "\n\n"},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rule, err := Lookup(tc.rule)
			if err != nil {
				t.Fatalf("Lookup(%q): %v", tc.rule, err)
			}
			if got := rule.Remove(tc.input); got != tc.remove {
				t.Errorf("Remove: expected %q, got %q", tc.remove, got)
			}
			if got := rule.Tokenize(tc.input); got != tc.tokenize {
				t.Errorf("Tokenize: expected %q, got %q", tc.tokenize, got)
			}
			if got := rule.Find(tc.input); !reflect.DeepEqual(got, tc.find) {
				t.Errorf("Find: expected %v, got %v", tc.find, got)
			}
		})
	}
}

func TestReplaceIsLiteral(t *testing.T) {
	rule, err := Lookup(Hashtag)
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	// Replacement strings are taken verbatim, never as templates.
	if got := rule.Replace("#tag", "$1"); got != "$1" {
		t.Errorf("expected literal replacement, got %q", got)
	}
}
