package pattern

import (
	"sort"
	"strings"
)

// emoticonEntry binds one literal ASCII-art emoticon to its description
// token.
type emoticonEntry struct {
	literal string
	token   string
}

// emoticonCatalog lists the supported western-style emoticons. Variants of
// one expression share a token. The catalog is sorted longest-literal-first
// at initialization so ":-)" is consumed before ":)" gets a chance to eat
// its tail.
var emoticonCatalog = []emoticonEntry{
	{":-)", "TOKEN_EMOTICON_HAPPY_FACE_OR_SMILEY"},
	{":)", "TOKEN_EMOTICON_HAPPY_FACE_OR_SMILEY"},
	{":-]", "TOKEN_EMOTICON_HAPPY_FACE_OR_SMILEY"},
	{":]", "TOKEN_EMOTICON_HAPPY_FACE_OR_SMILEY"},
	{":-3", "TOKEN_EMOTICON_HAPPY_FACE_OR_SMILEY"},
	{":3", "TOKEN_EMOTICON_HAPPY_FACE_OR_SMILEY"},
	{":^)", "TOKEN_EMOTICON_HAPPY_FACE_OR_SMILEY"},
	{"=)", "TOKEN_EMOTICON_HAPPY_FACE_OR_SMILEY"},
	{"=]", "TOKEN_EMOTICON_HAPPY_FACE_OR_SMILEY"},
	{":-D", "TOKEN_EMOTICON_LAUGHING_OR_BIG_GRIN_OR_LAUGH_WITH_GLASSES"},
	{":D", "TOKEN_EMOTICON_LAUGHING_OR_BIG_GRIN_OR_LAUGH_WITH_GLASSES"},
	{"8-D", "TOKEN_EMOTICON_LAUGHING_OR_BIG_GRIN_OR_LAUGH_WITH_GLASSES"},
	{"8D", "TOKEN_EMOTICON_LAUGHING_OR_BIG_GRIN_OR_LAUGH_WITH_GLASSES"},
	{"xD", "TOKEN_EMOTICON_LAUGHING_OR_BIG_GRIN_OR_LAUGH_WITH_GLASSES"},
	{"XD", "TOKEN_EMOTICON_LAUGHING_OR_BIG_GRIN_OR_LAUGH_WITH_GLASSES"},
	{"=D", "TOKEN_EMOTICON_LAUGHING_OR_BIG_GRIN_OR_LAUGH_WITH_GLASSES"},
	{":-(", "TOKEN_EMOTICON_FROWN_SAD_ANGRY_OR_POUTING"},
	{":(", "TOKEN_EMOTICON_FROWN_SAD_ANGRY_OR_POUTING"},
	{":-c", "TOKEN_EMOTICON_FROWN_SAD_ANGRY_OR_POUTING"},
	{":c", "TOKEN_EMOTICON_FROWN_SAD_ANGRY_OR_POUTING"},
	{":-<", "TOKEN_EMOTICON_FROWN_SAD_ANGRY_OR_POUTING"},
	{":-[", "TOKEN_EMOTICON_FROWN_SAD_ANGRY_OR_POUTING"},
	{":[", "TOKEN_EMOTICON_FROWN_SAD_ANGRY_OR_POUTING"},
	{">:(", "TOKEN_EMOTICON_FROWN_SAD_ANGRY_OR_POUTING"},
	{":'-(", "TOKEN_EMOTICON_CRYING"},
	{":'(", "TOKEN_EMOTICON_CRYING"},
	{":'-)", "TOKEN_EMOTICON_TEARS_OF_HAPPINESS"},
	{":')", "TOKEN_EMOTICON_TEARS_OF_HAPPINESS"},
	{"D-':", "TOKEN_EMOTICON_HORROR_DISGUST_SADNESS_GREAT_DISMAY"},
	{"D:<", "TOKEN_EMOTICON_HORROR_DISGUST_SADNESS_GREAT_DISMAY"},
	{"D8", "TOKEN_EMOTICON_HORROR_DISGUST_SADNESS_GREAT_DISMAY"},
	{"D=", "TOKEN_EMOTICON_HORROR_DISGUST_SADNESS_GREAT_DISMAY"},
	{":-O", "TOKEN_EMOTICON_SURPRISE"},
	{":O", "TOKEN_EMOTICON_SURPRISE"},
	{":-o", "TOKEN_EMOTICON_SURPRISE"},
	{":o", "TOKEN_EMOTICON_SURPRISE"},
	{"8-0", "TOKEN_EMOTICON_SURPRISE"},
	{">:O", "TOKEN_EMOTICON_SURPRISE"},
	{":-*", "TOKEN_EMOTICON_KISS"},
	{":*", "TOKEN_EMOTICON_KISS"},
	{";-)", "TOKEN_EMOTICON_WINK_OR_SMIRK"},
	{";)", "TOKEN_EMOTICON_WINK_OR_SMIRK"},
	{"*-)", "TOKEN_EMOTICON_WINK_OR_SMIRK"},
	{";-]", "TOKEN_EMOTICON_WINK_OR_SMIRK"},
	{";]", "TOKEN_EMOTICON_WINK_OR_SMIRK"},
	{";D", "TOKEN_EMOTICON_WINK_OR_SMIRK"},
	{":-P", "TOKEN_EMOTICON_TONGUE_STICKING_OUT_CHEEKY_OR_PLAYFUL"},
	{":P", "TOKEN_EMOTICON_TONGUE_STICKING_OUT_CHEEKY_OR_PLAYFUL"},
	{"X-P", "TOKEN_EMOTICON_TONGUE_STICKING_OUT_CHEEKY_OR_PLAYFUL"},
	{":-p", "TOKEN_EMOTICON_TONGUE_STICKING_OUT_CHEEKY_OR_PLAYFUL"},
	{":p", "TOKEN_EMOTICON_TONGUE_STICKING_OUT_CHEEKY_OR_PLAYFUL"},
	{"=p", "TOKEN_EMOTICON_TONGUE_STICKING_OUT_CHEEKY_OR_PLAYFUL"},
	{">:P", "TOKEN_EMOTICON_TONGUE_STICKING_OUT_CHEEKY_OR_PLAYFUL"},
	{":-/", "TOKEN_EMOTICON_SKEPTICAL_ANNOYED_UNDECIDED_OR_HESITANT"},
	{":/", "TOKEN_EMOTICON_SKEPTICAL_ANNOYED_UNDECIDED_OR_HESITANT"},
	{">:/", "TOKEN_EMOTICON_SKEPTICAL_ANNOYED_UNDECIDED_OR_HESITANT"},
	{":\\", "TOKEN_EMOTICON_SKEPTICAL_ANNOYED_UNDECIDED_OR_HESITANT"},
	{"=/", "TOKEN_EMOTICON_SKEPTICAL_ANNOYED_UNDECIDED_OR_HESITANT"},
	{"=\\", "TOKEN_EMOTICON_SKEPTICAL_ANNOYED_UNDECIDED_OR_HESITANT"},
	{":-|", "TOKEN_EMOTICON_STRAIGHT_FACE"},
	{":|", "TOKEN_EMOTICON_STRAIGHT_FACE"},
	{":$", "TOKEN_EMOTICON_EMBARRASSED_OR_BLUSHING"},
	{":-X", "TOKEN_EMOTICON_SEALED_LIPS_OR_TONGUE_TIED"},
	{":X", "TOKEN_EMOTICON_SEALED_LIPS_OR_TONGUE_TIED"},
	{":-#", "TOKEN_EMOTICON_SEALED_LIPS_OR_TONGUE_TIED"},
	{"O:-)", "TOKEN_EMOTICON_ANGEL_SAINT_OR_INNOCENT"},
	{"O:)", "TOKEN_EMOTICON_ANGEL_SAINT_OR_INNOCENT"},
	{"0:-)", "TOKEN_EMOTICON_ANGEL_SAINT_OR_INNOCENT"},
	{"0:)", "TOKEN_EMOTICON_ANGEL_SAINT_OR_INNOCENT"},
	{">:-)", "TOKEN_EMOTICON_EVIL_OR_DEVILISH"},
	{">:)", "TOKEN_EMOTICON_EVIL_OR_DEVILISH"},
	{"}:-)", "TOKEN_EMOTICON_EVIL_OR_DEVILISH"},
	{"}:)", "TOKEN_EMOTICON_EVIL_OR_DEVILISH"},
	{"3:-)", "TOKEN_EMOTICON_EVIL_OR_DEVILISH"},
	{"3:)", "TOKEN_EMOTICON_EVIL_OR_DEVILISH"},
	{"#-)", "TOKEN_EMOTICON_PARTIED_ALL_NIGHT"},
	{"%-)", "TOKEN_EMOTICON_DRUNK_OR_CONFUSED"},
	{"%)", "TOKEN_EMOTICON_DRUNK_OR_CONFUSED"},
	{"<3", "TOKEN_EMOTICON_HEART"},
	{"</3", "TOKEN_EMOTICON_BROKEN_HEART"},
}

// emoticonRule matches the ASCII-art emoticon catalog with plain literal
// search; no pattern compilation is involved.
type emoticonRule struct {
	entries []emoticonEntry
	tokens  map[string]string
}

func newEmoticonRule() *emoticonRule {
	entries := make([]emoticonEntry, len(emoticonCatalog))
	copy(entries, emoticonCatalog)
	sort.SliceStable(entries, func(i, j int) bool {
		return len(entries[i].literal) > len(entries[j].literal)
	})
	tokens := make(map[string]string, len(entries))
	for _, e := range entries {
		tokens[e.literal] = e.token
	}
	return &emoticonRule{entries: entries, tokens: tokens}
}

func (r *emoticonRule) Name() string { return Emoticons }

// Remove substitutes every emoticon with a single space so words glued
// together by emoticons stay separate.
func (r *emoticonRule) Remove(text string) string {
	return r.replaceEach(text, func(emoticonEntry) string { return " " })
}

// Replace substitutes every emoticon with the caller's uniform replacement.
func (r *emoticonRule) Replace(text, replacement string) string {
	return r.replaceEach(text, func(emoticonEntry) string { return replacement })
}

// Tokenize substitutes every emoticon with its space-padded description
// token.
func (r *emoticonRule) Tokenize(text string) string {
	return r.replaceEach(text, func(e emoticonEntry) string {
		return " " + e.token + " "
	})
}

func (r *emoticonRule) replaceEach(text string, repl func(emoticonEntry) string) string {
	for _, e := range r.entries {
		if strings.Contains(text, e.literal) {
			text = strings.ReplaceAll(text, e.literal, repl(e))
		}
	}
	return text
}

// Find returns emoticon occurrences in encounter order. Longer literals
// win over shorter ones starting at the same position, and a span consumed
// by one match is not re-matched by another.
func (r *emoticonRule) Find(text string) []string {
	type hit struct {
		pos int
		lit string
	}
	consumed := make([]bool, len(text))
	var hits []hit
	for _, e := range r.entries {
		for from := 0; ; {
			i := strings.Index(text[from:], e.literal)
			if i < 0 {
				break
			}
			start := from + i
			end := start + len(e.literal)
			if !anyConsumed(consumed, start, end) {
				for k := start; k < end; k++ {
					consumed[k] = true
				}
				hits = append(hits, hit{pos: start, lit: e.literal})
			}
			from = end
		}
	}
	sort.Slice(hits, func(i, j int) bool { return hits[i].pos < hits[j].pos })
	matches := make([]string, len(hits))
	for i, h := range hits {
		matches[i] = h.lit
	}
	return matches
}

// Describe maps an emoticon literal to its description token.
func (r *emoticonRule) Describe(match string) string {
	if token, ok := r.tokens[match]; ok {
		return token
	}
	return "TOKEN_EMOTICON"
}

func anyConsumed(consumed []bool, start, end int) bool {
	for k := start; k < end; k++ {
		if consumed[k] {
			return true
		}
	}
	return false
}
