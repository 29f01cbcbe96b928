package domain

import (
	_ "embed"
	"fmt"
	"strings"
	"unicode"

	"gopkg.in/yaml.v3"

	"github.com/kapu/elfname-go/internal/util"
)

//go:embed data/lexicon.yaml
var defaultLexiconYAML []byte

// Lexicon is the static safety vocabulary: the ordered list of pre-vetted
// fallback names, the category blocklists and the Christmas theme words.
// It is loaded once at startup and never mutated afterwards. The order of
// FallbackNames is part of the contract: fallback selection indexes into it.
type Lexicon struct {
	Version       int                 `yaml:"version"`
	FallbackNames []string            `yaml:"fallback_names"`
	BlockedTerms  map[string][]string `yaml:"blocked_terms"`
	ThemeWords    map[string][]string `yaml:"theme_words"`
}

// LoadDefaultLexicon parses the embedded lexicon asset.
func LoadDefaultLexicon() (*Lexicon, error) {
	var lex Lexicon
	if err := yaml.Unmarshal(defaultLexiconYAML, &lex); err != nil {
		return nil, fmt.Errorf("failed to parse embedded lexicon: %w", err)
	}
	if err := lex.Validate(); err != nil {
		return nil, fmt.Errorf("embedded lexicon invalid: %w", err)
	}
	return &lex, nil
}

func (l *Lexicon) Validate() error {
	if len(l.FallbackNames) == 0 {
		return fmt.Errorf("lexicon has no fallback names")
	}
	for i, name := range l.FallbackNames {
		if strings.TrimSpace(name) == "" {
			return fmt.Errorf("fallback name at position %d is empty", i)
		}
	}
	return nil
}

// FallbackName deterministically selects a pre-vetted name for the seed.
func (l *Lexicon) FallbackName(seed Seed) string {
	return l.FallbackNames[seed.FallbackIndex(len(l.FallbackNames))]
}

// BlockedTerm reports a blocked term contained in the candidate and its
// category, or empty strings when the candidate is lexically clean.
// Single-word terms match on word boundaries so that e.g. "christ" does not
// flag "Christmas"; terms with spaces or hyphens match as substrings.
func (l *Lexicon) BlockedTerm(name string) (category, term string) {
	lower := strings.ToLower(name)
	words := wordSet(lower)

	for cat, terms := range l.BlockedTerms {
		for _, t := range terms {
			t = util.Normalize(t)
			if t == "" {
				continue
			}
			if isPlainWord(t) {
				if words[t] {
					return cat, t
				}
			} else if strings.Contains(lower, t) {
				return cat, t
			}
		}
	}
	return "", ""
}

// ContainsThemeWord reports whether the name carries any Christmas theme
// word. Used by lexicon maintenance tooling, not by the safety decision.
func (l *Lexicon) ContainsThemeWord(name string) bool {
	lower := strings.ToLower(name)
	words := wordSet(lower)

	for _, list := range l.ThemeWords {
		for _, w := range list {
			w = util.Normalize(w)
			if w == "" {
				continue
			}
			if isPlainWord(w) {
				if words[w] {
					return true
				}
			} else if strings.Contains(lower, w) {
				return true
			}
		}
	}
	return false
}

func wordSet(s string) map[string]bool {
	set := make(map[string]bool)
	for _, w := range strings.FieldsFunc(s, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	}) {
		set[w] = true
	}
	return set
}

func isPlainWord(s string) bool {
	for _, r := range s {
		if !unicode.IsLetter(r) && !unicode.IsNumber(r) {
			return false
		}
	}
	return true
}
