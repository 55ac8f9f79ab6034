package pattern

import (
	"sort"
	"strings"

	"github.com/forPelevin/gomoji"
)

// emojiRule matches pictographic emoji via the gomoji catalog. It is
// independent from the ASCII emoticon catalog; the two never overlap.
type emojiRule struct{}

func newEmojiRule() *emojiRule { return &emojiRule{} }

func (r *emojiRule) Name() string { return Emoji }

// Remove substitutes every emoji with a single space so that text glued
// together by emoji does not collapse into one word.
func (r *emojiRule) Remove(text string) string {
	return r.replaceEach(text, func(gomoji.Emoji) string { return " " })
}

// Replace substitutes every emoji with the caller's uniform replacement.
func (r *emojiRule) Replace(text, replacement string) string {
	return r.replaceEach(text, func(gomoji.Emoji) string { return replacement })
}

// Tokenize substitutes every emoji with its space-padded description token,
// e.g. a grinning face becomes " TOKEN_EMOJI_GRINNING_FACE ".
func (r *emojiRule) Tokenize(text string) string {
	return r.replaceEach(text, func(e gomoji.Emoji) string {
		return " " + emojiToken(e) + " "
	})
}

func (r *emojiRule) replaceEach(text string, repl func(gomoji.Emoji) string) string {
	if !gomoji.ContainsEmoji(text) {
		return text
	}
	for _, e := range gomoji.FindAll(text) {
		text = strings.ReplaceAll(text, e.Character, repl(e))
	}
	return text
}

// Find returns every emoji occurrence in encounter order. gomoji reports
// distinct emoji only, so occurrences are located by scanning for each
// distinct sequence and ordering by position.
func (r *emojiRule) Find(text string) []string {
	if !gomoji.ContainsEmoji(text) {
		return nil
	}
	type hit struct {
		pos int
		seq string
	}
	var hits []hit
	for _, e := range gomoji.FindAll(text) {
		for from := 0; ; {
			i := strings.Index(text[from:], e.Character)
			if i < 0 {
				break
			}
			hits = append(hits, hit{pos: from + i, seq: e.Character})
			from += i + len(e.Character)
		}
	}
	sort.Slice(hits, func(i, j int) bool { return hits[i].pos < hits[j].pos })
	matches := make([]string, len(hits))
	for i, h := range hits {
		matches[i] = h.seq
	}
	return matches
}

// Describe maps an emoji sequence to its description token.
func (r *emojiRule) Describe(match string) string {
	info, err := gomoji.GetInfo(match)
	if err != nil {
		return "TOKEN_EMOJI"
	}
	return emojiToken(info)
}

func emojiToken(e gomoji.Emoji) string {
	slug := strings.NewReplacer("-", "_", " ", "_").Replace(e.Slug)
	return "TOKEN_EMOJI_" + strings.ToUpper(slug)
}
