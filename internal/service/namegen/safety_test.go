package namegen

import (
	"context"
	"errors"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/kapu/elfname-go/internal/domain"
	"github.com/kapu/elfname-go/internal/service/ai"
)

func testLexicon(t *testing.T) *domain.Lexicon {
	t.Helper()
	lex, err := domain.LoadDefaultLexicon()
	if err != nil {
		t.Fatalf("failed to load embedded lexicon: %v", err)
	}
	return lex
}

func TestCheckSafetyVerdicts(t *testing.T) {
	cases := []struct {
		verdict string
		want    bool
	}{
		{"SAFE", true},
		{" safe \n", true},
		{"The name is SAFE.", true},
		{"UNSAFE", false},
		{"unsafe", false},
		{"UNSAFE, but arguably SAFE", false},
		{"cannot judge", false},
		{"", false},
	}

	for _, tc := range cases {
		completer := &fakeCompleter{script: []scriptedCompletion{{text: tc.verdict}}}
		validator := NewSafetyValidator(completer, testLexicon(t), zap.NewNop())

		got := validator.CheckSafety(context.Background(), "Sparkle Snowflake")
		if got != tc.want {
			t.Fatalf("CheckSafety with verdict %q = %t, want %t", tc.verdict, got, tc.want)
		}
	}
}

func TestCheckSafetyUsesPrecisePresetWithoutSeed(t *testing.T) {
	completer := &fakeCompleter{script: []scriptedCompletion{{text: "SAFE"}}}
	validator := NewSafetyValidator(completer, testLexicon(t), zap.NewNop())

	validator.CheckSafety(context.Background(), "Sparkle Snowflake")

	if completer.presets[0] != ai.PresetPrecise {
		t.Fatalf("expected precise preset, got %q", completer.presets[0])
	}
	if completer.opts[0] != nil {
		t.Fatalf("expected no generation options for classification, got %+v", completer.opts[0])
	}
	if !strings.Contains(completer.prompts[0], `Elf Name: "Sparkle Snowflake"`) {
		t.Fatalf("expected candidate in classification prompt:\n%s", completer.prompts[0])
	}
}

func TestCheckSafetyFailsClosedOnError(t *testing.T) {
	completer := &fakeCompleter{script: []scriptedCompletion{{err: errors.New("classifier down")}}}
	validator := NewSafetyValidator(completer, testLexicon(t), zap.NewNop())

	if validator.CheckSafety(context.Background(), "Sparkle Snowflake") {
		t.Fatal("expected classification failure to count as unsafe")
	}
}

func TestCheckSafetyBlocklistShortCircuits(t *testing.T) {
	completer := &fakeCompleter{script: []scriptedCompletion{{text: "SAFE"}}}
	validator := NewSafetyValidator(completer, testLexicon(t), zap.NewNop())

	if validator.CheckSafety(context.Background(), "Naughty Snowflake") {
		t.Fatal("expected blocklisted candidate to be unsafe")
	}
	if completer.calls != 0 {
		t.Fatalf("expected no classifier call for blocklisted candidate, got %d", completer.calls)
	}
}

func TestValidateNameAcceptsSafeCandidate(t *testing.T) {
	completer := &fakeCompleter{script: []scriptedCompletion{{text: "SAFE"}}}
	validator := NewSafetyValidator(completer, testLexicon(t), zap.NewNop())
	regen := &fakeRegenerator{names: []string{"Cozy Cocoa"}}

	name, safe := validator.ValidateName(context.Background(), "Sparkle Snowflake", regen, "0090a3b7", testHints)
	if !safe {
		t.Fatal("expected candidate to be safe")
	}
	if name != "Sparkle Snowflake" {
		t.Fatalf("expected original candidate, got %q", name)
	}
	if regen.calls != 0 {
		t.Fatalf("expected no regeneration for a safe candidate, got %d calls", regen.calls)
	}
}

func TestValidateNameRegeneratesUnsafeCandidate(t *testing.T) {
	completer := &fakeCompleter{script: []scriptedCompletion{
		{text: "UNSAFE"},
		{text: "SAFE"},
	}}
	validator := NewSafetyValidator(completer, testLexicon(t), zap.NewNop())
	regen := &fakeRegenerator{names: []string{"Cozy Cocoa"}}

	name, safe := validator.ValidateName(context.Background(), "Sparkle Snowflake", regen, "0090a3b7", testHints)
	if !safe {
		t.Fatal("expected regenerated candidate to be safe")
	}
	if name != "Cozy Cocoa" {
		t.Fatalf("expected regenerated candidate, got %q", name)
	}
	if regen.calls != 1 {
		t.Fatalf("expected one regeneration, got %d", regen.calls)
	}
}

func TestValidateNameFallsBackAfterExhaustion(t *testing.T) {
	completer := &fakeCompleter{script: []scriptedCompletion{{text: "UNSAFE"}}}
	validator := NewSafetyValidator(completer, testLexicon(t), zap.NewNop())
	regen := &fakeRegenerator{names: []string{"Twinkle Cocoa", "Merry Mittens"}}

	seed := domain.DeriveSeed("Alice", "January")
	name, safe := validator.ValidateName(context.Background(), "Sparkle Snowflake", regen, seed, testHints)
	if safe {
		t.Fatal("expected exhausted validation to be unsafe")
	}
	if name != "Sleigh Bell" {
		t.Fatalf("expected seed-selected fallback Sleigh Bell, got %q", name)
	}
	if completer.calls != 3 {
		t.Fatalf("expected 3 classifier calls, got %d", completer.calls)
	}
	if regen.calls != 2 {
		t.Fatalf("expected 2 regenerations, got %d", regen.calls)
	}
}

func TestValidateNameWithoutRegenerator(t *testing.T) {
	completer := &fakeCompleter{script: []scriptedCompletion{{text: "UNSAFE"}}}
	validator := NewSafetyValidator(completer, testLexicon(t), zap.NewNop())

	name, safe := validator.ValidateName(context.Background(), "Sparkle Snowflake", nil, "deadbeef", testHints)
	if safe {
		t.Fatal("expected unsafe result without a regenerator")
	}
	if name != "Peppermint Twist" {
		t.Fatalf("expected fallback Peppermint Twist for seed deadbeef, got %q", name)
	}
	if completer.calls != 1 {
		t.Fatalf("expected a single classifier call without a regenerator, got %d", completer.calls)
	}
}

func TestValidateNameSkipsFailedRegeneration(t *testing.T) {
	completer := &fakeCompleter{script: []scriptedCompletion{{text: "UNSAFE"}}}
	validator := NewSafetyValidator(completer, testLexicon(t), zap.NewNop())
	regen := &fakeRegenerator{err: errors.New("generator down")}

	name, safe := validator.ValidateName(context.Background(), "Sparkle Snowflake", regen, "deadbeef", testHints)
	if safe {
		t.Fatal("expected unsafe result when regeneration keeps failing")
	}
	if name != "Peppermint Twist" {
		t.Fatalf("expected fallback name, got %q", name)
	}
	if completer.calls != 1 {
		t.Fatalf("expected only the original candidate to be classified, got %d calls", completer.calls)
	}
	if regen.calls != 2 {
		t.Fatalf("expected 2 regeneration attempts, got %d", regen.calls)
	}
}

func TestValidateNameSkipsEmptyRegeneration(t *testing.T) {
	completer := &fakeCompleter{script: []scriptedCompletion{{text: "UNSAFE"}}}
	validator := NewSafetyValidator(completer, testLexicon(t), zap.NewNop())
	regen := &fakeRegenerator{names: []string{""}}

	_, safe := validator.ValidateName(context.Background(), "Sparkle Snowflake", regen, "deadbeef", testHints)
	if safe {
		t.Fatal("expected unsafe result when regeneration yields empty names")
	}
	if completer.calls != 1 {
		t.Fatalf("expected empty regenerated candidates to skip classification, got %d calls", completer.calls)
	}
}

func TestValidateNameEmptyCandidateWithBadSeed(t *testing.T) {
	completer := &fakeCompleter{}
	validator := NewSafetyValidator(completer, testLexicon(t), zap.NewNop())

	name, safe := validator.ValidateName(context.Background(), "", nil, "", testHints)
	if safe {
		t.Fatal("expected empty candidate to be unsafe")
	}
	if name != "Sparkle Snowflake" {
		t.Fatalf("expected index-zero fallback for unparseable seed, got %q", name)
	}
	if completer.calls != 0 {
		t.Fatalf("expected no classifier calls for empty candidate, got %d", completer.calls)
	}
}

func TestValidateNameFallbackIsDeterministic(t *testing.T) {
	completer := &fakeCompleter{script: []scriptedCompletion{{text: "UNSAFE"}}}
	validator := NewSafetyValidator(completer, testLexicon(t), zap.NewNop())

	first, _ := validator.ValidateName(context.Background(), "Sparkle Snowflake", nil, "57138bea", testHints)

	completer.calls = 0
	second, _ := validator.ValidateName(context.Background(), "Sparkle Snowflake", nil, "57138bea", testHints)

	if first != second {
		t.Fatalf("expected deterministic fallback, got %q then %q", first, second)
	}
	if first != "Ribbon Dancer" {
		t.Fatalf("expected Ribbon Dancer for seed 57138bea, got %q", first)
	}
}
