package namegen

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/kapu/elfname-go/internal/domain"
	apperrors "github.com/kapu/elfname-go/pkg/errors"
)

// Pipeline stage names reported to observers, in execution order.
const (
	StepValidate = "validate_input"
	StepSeed     = "derive_seed"
	StepStyle    = "analyze_style"
	StepGenerate = "generate_name"
	StepSafety   = "safety_check"
)

// StepFunc observes pipeline progress. The pipeline calls it inline, so
// implementations must return quickly.
type StepFunc func(step string)

// Pipeline orchestrates the full request flow: input validation, seed
// derivation, style analysis, name generation and the safety pass.
type Pipeline struct {
	embeddings *EmbeddingService
	generator  *Generator
	safety     *SafetyValidator
	logger     *zap.Logger
}

func NewPipeline(embeddings *EmbeddingService, generator *Generator, safety *SafetyValidator, logger *zap.Logger) *Pipeline {
	return &Pipeline{
		embeddings: embeddings,
		generator:  generator,
		safety:     safety,
		logger:     logger,
	}
}

// Generate runs the pipeline for one request.
func (p *Pipeline) Generate(ctx context.Context, firstName, birthMonth string) (*domain.ElfName, error) {
	return p.GenerateObserved(ctx, firstName, birthMonth, nil)
}

// GenerateObserved runs the pipeline and reports each stage to observe.
// Validation failures propagate as *errors.ValidationError; every other
// failure surfaces as a *errors.GenerationError.
func (p *Pipeline) GenerateObserved(ctx context.Context, firstName, birthMonth string, observe StepFunc) (*domain.ElfName, error) {
	notify := func(step string) {
		if observe != nil {
			observe(step)
		}
	}

	notify(StepValidate)
	input := domain.NewUserInput(firstName, birthMonth)
	if err := input.Validate(); err != nil {
		return nil, err
	}

	notify(StepSeed)
	seed := domain.DeriveSeed(input.FirstName, input.BirthMonth)

	notify(StepStyle)
	embedding, err := p.embeddings.EmbedInput(ctx, input)
	if err != nil {
		return nil, wrapPipelineError(err)
	}
	hints := domain.StyleHintsFromEmbedding(embedding)

	notify(StepGenerate)
	candidate, err := p.generator.GenerateName(ctx, seed, hints)
	if err != nil {
		return nil, wrapPipelineError(err)
	}

	notify(StepSafety)
	name, safe := p.safety.ValidateName(ctx, candidate, p.generator, seed, hints)

	result := &domain.ElfName{
		Name:       name,
		Safe:       safe,
		Seed:       seed,
		StyleHints: hints,
	}

	p.logger.Info("Elf name generated",
		zap.String("seed", string(seed)),
		zap.String("name", name),
		zap.Bool("safe", safe),
	)

	return result, nil
}

// wrapPipelineError converts a stage failure into a GenerationError. A
// ValidationError passes through untouched; an inner GenerationError keeps
// its attempt count on the wrapper.
func wrapPipelineError(err error) error {
	var validationErr *apperrors.ValidationError
	if errors.As(err, &validationErr) {
		return err
	}

	attempts := 0
	var genErr *apperrors.GenerationError
	if errors.As(err, &genErr) {
		attempts = genErr.Attempts
	}

	return apperrors.NewGenerationError("error generating elf name", attempts, err)
}
