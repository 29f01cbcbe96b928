package ai

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/kapu/elfname-go/internal/constants"
	"github.com/kapu/elfname-go/internal/util"
	apperrors "github.com/kapu/elfname-go/pkg/errors"
)

// ModelManager fronts the configured primary provider with an optional
// fallback provider and a shared circuit breaker. Both completions and
// embeddings route through it.
type ModelManager struct {
	primary        Provider
	fallback       Provider
	logger         *zap.Logger
	enableFallback bool
	circuitBreaker *util.CircuitBreaker
}

// NewModelManager wires the fallback chain. fallback may be nil.
func NewModelManager(primary Provider, fallback Provider, logger *zap.Logger) *ModelManager {
	mm := &ModelManager{
		primary:  primary,
		fallback: fallback,
		logger:   logger,
	}
	mm.enableFallback = fallback != nil
	if mm.enableFallback {
		logger.Info("Model fallback enabled",
			zap.String("primary", primary.Name()),
			zap.String("fallback", fallback.Name()),
		)
	}

	mm.circuitBreaker = util.NewCircuitBreaker(
		constants.CircuitBreakerConfig.FailureThreshold,
		constants.CircuitBreakerConfig.ResetTimeout,
		constants.CircuitBreakerConfig.HealthCheckInterval,
		mm.healthCheckPing,
		logger,
	)

	return mm
}

func (mm *ModelManager) Complete(ctx context.Context, prompt string, preset ModelPreset, opts *GenerateOptions) (ProviderResult, *GenerateMetadata, error) {
	if err := mm.checkCircuit(); err != nil {
		return ProviderResult{}, nil, err
	}

	result, primaryErr := mm.invoke(ctx, mm.primary, prompt, preset, opts)
	if primaryErr == nil {
		mm.circuitBreaker.RecordSuccess()
		return result, &GenerateMetadata{Provider: mm.primary.Name(), Model: result.Model}, nil
	}

	if mm.enableFallback {
		mm.logger.Warn("Primary provider failed, trying fallback",
			zap.String("primary", mm.primary.Name()),
			zap.String("fallback", mm.fallback.Name()),
			zap.Error(primaryErr),
		)

		fbResult, fbErr := mm.invoke(ctx, mm.fallback, prompt, preset, opts)
		if fbErr == nil {
			mm.circuitBreaker.RecordSuccess()
			return fbResult, &GenerateMetadata{
				Provider:     mm.fallback.Name(),
				Model:        fbResult.Model,
				UsedFallback: true,
			}, nil
		}

		mm.recordFailure(primaryErr)
		mm.recordFailure(fbErr)
		return ProviderResult{}, nil, fbErr
	}

	mm.recordFailure(primaryErr)
	return ProviderResult{}, nil, primaryErr
}

func (mm *ModelManager) Embed(ctx context.Context, text string) ([]float64, *GenerateMetadata, error) {
	if err := mm.checkCircuit(); err != nil {
		return nil, nil, err
	}

	vector, primaryErr := mm.primary.Embed(ctx, text)
	if primaryErr == nil {
		mm.circuitBreaker.RecordSuccess()
		return vector, &GenerateMetadata{Provider: mm.primary.Name()}, nil
	}

	if mm.enableFallback {
		mm.logger.Warn("Primary embedding failed, trying fallback",
			zap.String("primary", mm.primary.Name()),
			zap.String("fallback", mm.fallback.Name()),
			zap.Error(primaryErr),
		)

		fbVector, fbErr := mm.fallback.Embed(ctx, text)
		if fbErr == nil {
			mm.circuitBreaker.RecordSuccess()
			return fbVector, &GenerateMetadata{Provider: mm.fallback.Name(), UsedFallback: true}, nil
		}

		mm.recordFailure(primaryErr)
		mm.recordFailure(fbErr)
		return nil, nil, fbErr
	}

	mm.recordFailure(primaryErr)
	return nil, nil, primaryErr
}

func (mm *ModelManager) invoke(ctx context.Context, provider Provider, prompt string, preset ModelPreset, opts *GenerateOptions) (ProviderResult, error) {
	if provider == nil {
		return ProviderResult{}, fmt.Errorf("model provider is not configured")
	}
	return provider.Complete(ctx, prompt, preset, opts)
}

func (mm *ModelManager) checkCircuit() error {
	if mm.circuitBreaker.CanExecute() {
		return nil
	}

	status := mm.circuitBreaker.GetStatus()
	nextRetry := "unknown"
	if status.NextRetryTime != nil {
		nextRetry = status.NextRetryTime.Format(time.RFC3339)
	}

	mm.logger.Error("Model service unavailable (circuit open)",
		zap.String("state", status.State.String()),
		zap.Int("failure_count", status.FailureCount),
		zap.String("next_retry", nextRetry),
	)

	return apperrors.NewServiceError(
		fmt.Sprintf("model service unavailable, retry after %s", nextRetry),
		"model_manager", "circuit", apperrors.ServiceKindUnknown, nil)
}

func (mm *ModelManager) recordFailure(err error) {
	if err == nil || !mm.isServiceFailure(err) {
		return
	}

	timeout := constants.CircuitBreakerConfig.ResetTimeout
	if mm.isRateLimitError(err) {
		timeout = constants.CircuitBreakerConfig.RateLimitTimeout
	}

	mm.circuitBreaker.RecordFailure(timeout)
}

func (mm *ModelManager) healthCheckPing() bool {
	mm.logger.Info("Health check: testing model providers...")

	ctx, cancel := context.WithTimeout(context.Background(), constants.CircuitBreakerConfig.HealthCheckTimeout)
	defer cancel()

	health := mm.ProviderHealth(ctx)
	healthy := false
	for _, ok := range health {
		healthy = healthy || ok
	}

	mm.logger.Info("Health check: result",
		zap.Any("providers", health),
		zap.Bool("healthy", healthy),
	)

	return healthy
}

// ProviderHealth pings each configured provider.
func (mm *ModelManager) ProviderHealth(ctx context.Context) map[string]bool {
	health := make(map[string]bool)
	if mm.primary != nil {
		health[mm.primary.Name()] = mm.primary.Ping(ctx)
	}
	if mm.enableFallback {
		health[mm.fallback.Name()] = mm.fallback.Ping(ctx)
	}
	return health
}

// isServiceFailure decides whether an error should trip the breaker. Typed
// service errors carry a kind; everything else falls back to matching the
// provider SDK error text the way their transports format it.
func (mm *ModelManager) isServiceFailure(err error) bool {
	if err == nil {
		return false
	}

	var serviceErr *apperrors.ServiceError
	if errors.As(err, &serviceErr) {
		switch serviceErr.Kind {
		case apperrors.ServiceKindRateLimit, apperrors.ServiceKindTimeout, apperrors.ServiceKindUnknown:
			return true
		default:
			return false
		}
	}

	msg := err.Error()

	if strings.Contains(msg, "timeout") || strings.Contains(msg, "ETIMEDOUT") {
		return true
	}
	if mm.isRateLimitError(err) {
		return true
	}

	statusRegex := regexp.MustCompile(`\b(5\d{2})\b`)
	if statusRegex.MatchString(msg) {
		return true
	}

	geminiCodeRegex := regexp.MustCompile(`"code":(\d{3})`)
	if matches := geminiCodeRegex.FindStringSubmatch(msg); len(matches) > 1 {
		if code, err := strconv.Atoi(matches[1]); err == nil {
			return code >= 500 && code < 600
		}
	}

	openaiCodeRegex := regexp.MustCompile(`^(\d{3})\s`)
	if matches := openaiCodeRegex.FindStringSubmatch(msg); len(matches) > 1 {
		if code, err := strconv.Atoi(matches[1]); err == nil {
			return code >= 500 && code < 600
		}
	}

	return false
}

func (mm *ModelManager) isRateLimitError(err error) bool {
	if err == nil {
		return false
	}

	var serviceErr *apperrors.ServiceError
	if errors.As(err, &serviceErr) {
		return serviceErr.Kind == apperrors.ServiceKindRateLimit
	}

	msg := err.Error()

	if strings.Contains(msg, "429") || strings.Contains(msg, "Rate limit") || strings.Contains(msg, "quota") {
		return true
	}

	geminiCodeRegex := regexp.MustCompile(`"code":(\d{3})`)
	if matches := geminiCodeRegex.FindStringSubmatch(msg); len(matches) > 1 {
		if code, err := strconv.Atoi(matches[1]); err == nil {
			return code == 429
		}
	}

	openaiCodeRegex := regexp.MustCompile(`^(\d{3})\s`)
	if matches := openaiCodeRegex.FindStringSubmatch(msg); len(matches) > 1 {
		if code, err := strconv.Atoi(matches[1]); err == nil {
			return code == 429
		}
	}

	return false
}

func (mm *ModelManager) GetCircuitStatus() util.CircuitBreakerStatus {
	return mm.circuitBreaker.GetStatus()
}

func (mm *ModelManager) ResetCircuit() {
	mm.circuitBreaker.Reset()
}
