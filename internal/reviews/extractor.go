package reviews

import (
	"regexp"
	"strings"
)

var (
	punctuation = regexp.MustCompile(`[^\w\s]`)
	spaces      = regexp.MustCompile(`\s+`)
)

func upper(s string) string { return strings.ToUpper(s) }

// Extractor matches a lexicon against free review text.
type Extractor struct {
	vocab *Vocab
}

// NewExtractor builds an extractor; a nil vocab uses the built-in one.
func NewExtractor(v *Vocab) *Extractor {
	if v == nil {
		v = DefaultVocab()
	}
	return &Extractor{vocab: v}
}

// Extract returns the lexicon keywords mentioned in the text, in lexicon
// order without duplicates. Matching is case-insensitive substring search
// over the text with punctuation stripped, so "Severe Headache!" matches
// both "headache" and "ache".
func (e *Extractor) Extract(text string) []string {
	clean := normalizeText(text)
	if clean == "" {
		return nil
	}

	var found []string
	seen := make(map[string]struct{})
	for _, kw := range e.vocab.Keywords {
		if _, dup := seen[kw]; dup {
			continue
		}
		if matchesKeyword(clean, kw) {
			seen[kw] = struct{}{}
			found = append(found, kw)
		}
	}
	return found
}

// MapTerms converts matched keywords to MedDRA preferred terms, again
// deduplicated in first-seen order since several keywords share a term.
func (e *Extractor) MapTerms(keywords []string) []string {
	var out []string
	seen := make(map[string]struct{})
	for _, kw := range keywords {
		pt := e.vocab.PreferredTerm(kw)
		if _, dup := seen[pt]; dup {
			continue
		}
		seen[pt] = struct{}{}
		out = append(out, pt)
	}
	return out
}

func normalizeText(text string) string {
	clean := strings.ToLower(text)
	clean = punctuation.ReplaceAllString(clean, " ")
	clean = spaces.ReplaceAllString(clean, " ")
	return strings.TrimSpace(clean)
}

// matchesKeyword checks the keyword and its simple inflections: plural
// or singular, and the ing/ed/er suffix forms. "cramping" still counts
// as the "cramps" lexicon entry. Matches may occur anywhere in the
// text, including inside longer words.
func matchesKeyword(clean, kw string) bool {
	for _, v := range variations(kw) {
		if strings.Contains(clean, v) {
			return true
		}
	}
	return false
}

func variations(kw string) []string {
	out := []string{kw}
	if strings.HasSuffix(kw, "s") && len(kw) > 3 {
		out = append(out, kw[:len(kw)-1])
	} else if !strings.HasSuffix(kw, "s") {
		out = append(out, kw+"s")
	}
	for _, suffix := range []string{"ing", "ed", "er"} {
		if strings.HasSuffix(kw, suffix) {
			out = append(out, kw[:len(kw)-len(suffix)])
		} else {
			out = append(out, kw+suffix)
		}
	}
	return out
}
