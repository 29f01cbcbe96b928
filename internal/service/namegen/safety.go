package namegen

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/kapu/elfname-go/internal/constants"
	"github.com/kapu/elfname-go/internal/domain"
	"github.com/kapu/elfname-go/internal/prompt"
	"github.com/kapu/elfname-go/internal/service/ai"
)

// SafetyValidator decides whether a candidate name may be shown. Candidates
// are screened against the lexicon blocklists first, then classified by the
// model. Ambiguous verdicts and infrastructure failures both count as unsafe.
type SafetyValidator struct {
	completer Completer
	lexicon   *domain.Lexicon
	logger    *zap.Logger
}

func NewSafetyValidator(completer Completer, lexicon *domain.Lexicon, logger *zap.Logger) *SafetyValidator {
	return &SafetyValidator{
		completer: completer,
		lexicon:   lexicon,
		logger:    logger,
	}
}

// CheckSafety classifies a single candidate.
func (v *SafetyValidator) CheckSafety(ctx context.Context, name string) bool {
	if category, term := v.lexicon.BlockedTerm(name); category != "" {
		v.logger.Warn("Candidate rejected by blocklist",
			zap.String("name", name),
			zap.String("category", category),
			zap.String("term", term),
		)
		return false
	}

	result, _, err := v.completer.Complete(ctx, prompt.BuildSafetyPrompt(name), ai.PresetPrecise, nil)
	if err != nil {
		v.logger.Warn("Safety classification failed, treating candidate as unsafe",
			zap.String("name", name),
			zap.Error(err),
		)
		return false
	}

	verdict := strings.ToUpper(strings.TrimSpace(result.Text))
	return strings.Contains(verdict, "SAFE") && !strings.Contains(verdict, "UNSAFE")
}

// ValidateName returns a safe name for the candidate. Rejected candidates are
// replaced through the regenerator; when every attempt fails, a pre-vetted
// fallback selected by the seed is returned and safe is false. ValidateName
// never returns an error.
func (v *SafetyValidator) ValidateName(ctx context.Context, name string, regen Regenerator, seed domain.Seed, hints domain.StyleHints) (validated string, safe bool) {
	for attempt := 0; attempt < constants.SafetyConfig.MaxAttempts; attempt++ {
		current := name
		if attempt > 0 {
			if regen == nil {
				continue
			}

			regenerated, err := regen.GenerateName(ctx, seed, hints)
			if err != nil {
				v.logger.Warn("Regeneration during safety validation failed",
					zap.Int("attempt", attempt+1),
					zap.Error(err),
				)
				continue
			}
			current = regenerated
		}

		if current == "" {
			continue
		}

		if v.CheckSafety(ctx, current) {
			return current, true
		}

		v.logger.Warn("Candidate failed safety validation",
			zap.String("name", current),
			zap.Int("attempt", attempt+1),
		)
	}

	fallback := v.lexicon.FallbackName(seed)
	v.logger.Warn("All safety attempts exhausted, substituting fallback name",
		zap.String("seed", string(seed)),
		zap.String("fallback", fallback),
	)
	return fallback, false
}
