package namegen

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/kapu/elfname-go/internal/constants"
	"github.com/kapu/elfname-go/internal/domain"
	"github.com/kapu/elfname-go/internal/prompt"
	"github.com/kapu/elfname-go/internal/service/ai"
	"github.com/kapu/elfname-go/internal/util"
	"github.com/kapu/elfname-go/pkg/errors"
)

// Generator produces candidate elf names from a seed and style hints.
type Generator struct {
	completer Completer
	logger    *zap.Logger
}

func NewGenerator(completer Completer, logger *zap.Logger) *Generator {
	return &Generator{
		completer: completer,
		logger:    logger,
	}
}

// GenerateName asks the model for a 2-3 word name. Empty and malformed
// responses are retried. The final attempt repairs an overlong name by
// truncating it to three words; a single-word name fails generation.
func (g *Generator) GenerateName(ctx context.Context, seed domain.Seed, hints domain.StyleHints) (string, error) {
	maxRetries := constants.GenerationConfig.MaxRetries
	attempts := maxRetries + 1

	promptText := prompt.BuildNamePrompt(seed, hints)
	opts := &ai.GenerateOptions{Seed: seed.Int32Ptr()}

	var lastReason string

	for attempt := 0; attempt <= maxRetries; attempt++ {
		result, meta, err := g.completer.Complete(ctx, promptText, ai.PresetCreative, opts)
		if err != nil {
			lastReason = err.Error()
			if attempt < maxRetries {
				g.logger.Warn("Name generation attempt failed",
					zap.Int("attempt", attempt+1),
					zap.Error(err),
				)
				continue
			}
			return "", errors.NewGenerationError(
				fmt.Sprintf("unable to generate valid name after %d attempts: %s", attempts, lastReason),
				attempts, err)
		}

		name := strings.TrimSpace(result.Text)
		words := strings.Fields(name)

		switch {
		case name == "":
			lastReason = "generated name is empty"

		case len(words) > constants.GenerationConfig.MaxNameWords:
			if attempt == maxRetries {
				repaired := strings.Join(words[:constants.GenerationConfig.MaxNameWords], " ")
				g.logger.Warn("Truncating overlong generated name",
					zap.String("raw", util.TruncateString(name, 80)),
					zap.String("name", repaired),
				)
				return repaired, nil
			}
			lastReason = fmt.Sprintf("generated name has %d words (expected 2-3)", len(words))

		case len(words) < constants.GenerationConfig.MinNameWords:
			lastReason = "generated name has only 1 word"

		default:
			if meta != nil {
				g.logger.Debug("Name generated",
					zap.String("name", name),
					zap.String("provider", meta.Provider),
					zap.Bool("used_fallback", meta.UsedFallback),
					zap.Int("attempt", attempt+1),
				)
			}
			return name, nil
		}

		if attempt < maxRetries {
			g.logger.Warn("Name generation attempt rejected",
				zap.Int("attempt", attempt+1),
				zap.String("reason", lastReason),
			)
		}
	}

	return "", errors.NewGenerationError(
		fmt.Sprintf("unable to generate valid name after %d attempts: %s", attempts, lastReason),
		attempts, nil)
}
