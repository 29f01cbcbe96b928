package domain

import (
	"strings"
	"testing"
)

func TestLoadDefaultLexicon(t *testing.T) {
	lex, err := LoadDefaultLexicon()
	if err != nil {
		t.Fatalf("expected embedded lexicon to load, got %v", err)
	}
	if lex.Version != 1 {
		t.Fatalf("expected lexicon version 1, got %d", lex.Version)
	}
	if len(lex.FallbackNames) != 25 {
		t.Fatalf("expected 25 fallback names, got %d", len(lex.FallbackNames))
	}
	if lex.FallbackNames[0] != "Sparkle Snowflake" {
		t.Fatalf("expected first fallback name Sparkle Snowflake, got %q", lex.FallbackNames[0])
	}
	if len(lex.BlockedTerms) == 0 || len(lex.ThemeWords) == 0 {
		t.Fatal("expected blocked terms and theme words to be populated")
	}
}

func TestFallbackNameBySeed(t *testing.T) {
	lex, err := LoadDefaultLexicon()
	if err != nil {
		t.Fatalf("expected embedded lexicon to load, got %v", err)
	}

	cases := []struct {
		seed Seed
		want string
	}{
		{DeriveSeed("Alice", "January"), "Sleigh Bell"},
		{DeriveSeed("Bob", "March"), "Ribbon Dancer"},
		{DeriveSeed("Alice", "February"), "Moonbeam Magic"},
		{"deadbeef", "Peppermint Twist"},
		{"", "Sparkle Snowflake"},
		{"not-a-seed", "Sparkle Snowflake"},
	}

	for _, tc := range cases {
		got := lex.FallbackName(tc.seed)
		if got != tc.want {
			t.Fatalf("FallbackName(%q) = %q, want %q", tc.seed, got, tc.want)
		}

		again := lex.FallbackName(tc.seed)
		if again != got {
			t.Fatalf("FallbackName(%q) is not deterministic: %q then %q", tc.seed, got, again)
		}
	}
}

func TestFallbackNamesAreClean(t *testing.T) {
	lex, err := LoadDefaultLexicon()
	if err != nil {
		t.Fatalf("expected embedded lexicon to load, got %v", err)
	}

	for i, name := range lex.FallbackNames {
		if category, term := lex.BlockedTerm(name); category != "" {
			t.Fatalf("fallback name %d (%q) hits blocklist %s/%s", i, name, category, term)
		}
		words := len(strings.Fields(name))
		if words < 2 || words > 3 {
			t.Fatalf("fallback name %d (%q) has %d words, expected 2-3", i, name, words)
		}
	}
}

func TestBlockedTermMatchesWholeWords(t *testing.T) {
	lex, err := LoadDefaultLexicon()
	if err != nil {
		t.Fatalf("expected embedded lexicon to load, got %v", err)
	}

	// "christ" is blocked but must not flag "Christmas".
	if category, term := lex.BlockedTerm("Christmas Sparkle"); category != "" {
		t.Fatalf("expected Christmas Sparkle to pass, blocked by %s/%s", category, term)
	}

	category, term := lex.BlockedTerm("Christ Snowflake")
	if category != "religious" || term != "christ" {
		t.Fatalf("expected religious/christ, got %s/%s", category, term)
	}
}

func TestBlockedTermIsCaseInsensitive(t *testing.T) {
	lex, err := LoadDefaultLexicon()
	if err != nil {
		t.Fatalf("expected embedded lexicon to load, got %v", err)
	}

	category, term := lex.BlockedTerm("NAUGHTY Snowflake")
	if category != "suggestive" || term != "naughty" {
		t.Fatalf("expected suggestive/naughty, got %s/%s", category, term)
	}
}

func TestBlockedTermMatchesPhrases(t *testing.T) {
	lex, err := LoadDefaultLexicon()
	if err != nil {
		t.Fatalf("expected embedded lexicon to load, got %v", err)
	}

	// Multi-word terms match as substrings.
	category, term := lex.BlockedTerm("White House Sprite")
	if category != "political" || term != "white house" {
		t.Fatalf("expected political/white house, got %s/%s", category, term)
	}
}

func TestContainsThemeWord(t *testing.T) {
	lex, err := LoadDefaultLexicon()
	if err != nil {
		t.Fatalf("expected embedded lexicon to load, got %v", err)
	}

	cases := []struct {
		name string
		want bool
	}{
		{"Sparkle Snowflake", true},
		{"Twinkle Cocoa", true},
		{"North Pole Visitor", true},
		{"Quiet Librarian", false},
		{"Plain Words", false},
	}

	for _, tc := range cases {
		if got := lex.ContainsThemeWord(tc.name); got != tc.want {
			t.Fatalf("ContainsThemeWord(%q) = %t, want %t", tc.name, got, tc.want)
		}
	}
}

func TestLexiconValidate(t *testing.T) {
	empty := &Lexicon{}
	if err := empty.Validate(); err == nil {
		t.Fatal("expected validation error for lexicon without fallback names")
	}

	blank := &Lexicon{FallbackNames: []string{"Sparkle Snowflake", "   "}}
	if err := blank.Validate(); err == nil {
		t.Fatal("expected validation error for blank fallback name")
	}

	ok := &Lexicon{FallbackNames: []string{"Sparkle Snowflake"}}
	if err := ok.Validate(); err != nil {
		t.Fatalf("expected valid lexicon, got %v", err)
	}
}
