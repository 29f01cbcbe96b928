package ai

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/kapu/elfname-go/internal/util"
	apperrors "github.com/kapu/elfname-go/pkg/errors"
)

type fakeProvider struct {
	name          string
	text          string
	completeErr   error
	vector        []float64
	embedErr      error
	pingOK        bool
	completeCalls int
	embedCalls    int
}

func (f *fakeProvider) Name() string { return f.name }

func (f *fakeProvider) Complete(_ context.Context, _ string, _ ModelPreset, _ *GenerateOptions) (ProviderResult, error) {
	f.completeCalls++
	if f.completeErr != nil {
		return ProviderResult{}, f.completeErr
	}
	return ProviderResult{Text: f.text, Model: f.name + "-model"}, nil
}

func (f *fakeProvider) Embed(_ context.Context, _ string) ([]float64, error) {
	f.embedCalls++
	if f.embedErr != nil {
		return nil, f.embedErr
	}
	return f.vector, nil
}

func (f *fakeProvider) Ping(_ context.Context) bool { return f.pingOK }

func TestCompleteUsesPrimary(t *testing.T) {
	primary := &fakeProvider{name: "Gemini", text: "Sparkle Snowflake"}
	fallback := &fakeProvider{name: "OpenAI", text: "never used"}
	manager := NewModelManager(primary, fallback, zap.NewNop())

	result, meta, err := manager.Complete(context.Background(), "prompt", PresetCreative, nil)
	if err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if result.Text != "Sparkle Snowflake" {
		t.Fatalf("unexpected text %q", result.Text)
	}
	if meta.Provider != "Gemini" || meta.UsedFallback {
		t.Fatalf("expected primary metadata, got %+v", meta)
	}
	if fallback.completeCalls != 0 {
		t.Fatalf("expected fallback untouched, got %d calls", fallback.completeCalls)
	}
}

func TestCompleteFallsBackWhenPrimaryFails(t *testing.T) {
	primary := &fakeProvider{name: "Gemini", completeErr: errors.New("boom")}
	fallback := &fakeProvider{name: "OpenAI", text: "Twinkle Toes"}
	manager := NewModelManager(primary, fallback, zap.NewNop())

	result, meta, err := manager.Complete(context.Background(), "prompt", PresetCreative, nil)
	if err != nil {
		t.Fatalf("expected fallback to rescue the call, got %v", err)
	}
	if result.Text != "Twinkle Toes" {
		t.Fatalf("unexpected text %q", result.Text)
	}
	if meta.Provider != "OpenAI" || !meta.UsedFallback {
		t.Fatalf("expected fallback metadata, got %+v", meta)
	}
	if status := manager.GetCircuitStatus(); status.State != util.CircuitStateClosed {
		t.Fatalf("a rescued call must not trip the breaker, state %s", status.State)
	}
}

func TestCompleteReturnsFallbackErrorWhenBothFail(t *testing.T) {
	fbErr := errors.New("fallback down")
	primary := &fakeProvider{name: "Gemini", completeErr: errors.New("primary down")}
	fallback := &fakeProvider{name: "OpenAI", completeErr: fbErr}
	manager := NewModelManager(primary, fallback, zap.NewNop())

	_, _, err := manager.Complete(context.Background(), "prompt", PresetCreative, nil)
	if !errors.Is(err, fbErr) {
		t.Fatalf("expected the fallback error to surface, got %v", err)
	}
	if primary.completeCalls != 1 || fallback.completeCalls != 1 {
		t.Fatalf("expected one call each, got %d and %d", primary.completeCalls, fallback.completeCalls)
	}
	if status := manager.GetCircuitStatus(); status.State != util.CircuitStateClosed {
		t.Fatalf("plain errors must not trip the breaker, state %s", status.State)
	}
}

func TestCompleteWithoutFallbackPropagatesPrimaryError(t *testing.T) {
	primaryErr := errors.New("primary down")
	primary := &fakeProvider{name: "Gemini", completeErr: primaryErr}
	manager := NewModelManager(primary, nil, zap.NewNop())

	_, _, err := manager.Complete(context.Background(), "prompt", PresetPrecise, nil)
	if !errors.Is(err, primaryErr) {
		t.Fatalf("expected the primary error, got %v", err)
	}
}

func TestCircuitOpensAfterRepeatedServiceFailures(t *testing.T) {
	primary := &fakeProvider{
		name:        "Gemini",
		completeErr: errors.New("googleapi: Error 500: Internal error encountered."),
	}
	manager := NewModelManager(primary, nil, zap.NewNop())

	for i := 0; i < 3; i++ {
		if _, _, err := manager.Complete(context.Background(), "prompt", PresetCreative, nil); err == nil {
			t.Fatalf("expected failure on call %d", i+1)
		}
	}

	if status := manager.GetCircuitStatus(); status.State != util.CircuitStateOpen {
		t.Fatalf("expected OPEN after %d service failures, got %s", 3, status.State)
	}

	_, _, err := manager.Complete(context.Background(), "prompt", PresetCreative, nil)
	var serviceErr *apperrors.ServiceError
	if !errors.As(err, &serviceErr) {
		t.Fatalf("expected *ServiceError while open, got %T", err)
	}
	if !strings.Contains(serviceErr.Message, "model service unavailable") {
		t.Fatalf("unexpected message: %s", serviceErr.Message)
	}
	if primary.completeCalls != 3 {
		t.Fatalf("expected the open circuit to block the provider, got %d calls", primary.completeCalls)
	}
}

func TestRateLimitFailuresBackOffLonger(t *testing.T) {
	primary := &fakeProvider{
		name: "Gemini",
		completeErr: apperrors.NewServiceError(
			"resource exhausted", "gemini", "complete", apperrors.ServiceKindRateLimit, nil),
	}
	manager := NewModelManager(primary, nil, zap.NewNop())

	for i := 0; i < 3; i++ {
		_, _, _ = manager.Complete(context.Background(), "prompt", PresetCreative, nil)
	}

	status := manager.GetCircuitStatus()
	if status.State != util.CircuitStateOpen {
		t.Fatalf("expected OPEN, got %s", status.State)
	}
	if status.NextRetryTime == nil {
		t.Fatal("expected a retry deadline while open")
	}
	if status.NextRetryTime.Before(time.Now().Add(30 * time.Minute)) {
		t.Fatalf("rate-limit trips must back off well past the normal reset, got %s", status.NextRetryTime)
	}
}

func TestResetCircuitRestoresService(t *testing.T) {
	primary := &fakeProvider{
		name:        "Gemini",
		completeErr: errors.New("503 Service Unavailable"),
	}
	manager := NewModelManager(primary, nil, zap.NewNop())

	for i := 0; i < 3; i++ {
		_, _, _ = manager.Complete(context.Background(), "prompt", PresetCreative, nil)
	}
	if status := manager.GetCircuitStatus(); status.State != util.CircuitStateOpen {
		t.Fatalf("expected OPEN, got %s", status.State)
	}

	manager.ResetCircuit()
	primary.completeErr = nil
	primary.text = "Merry Snowball"

	result, _, err := manager.Complete(context.Background(), "prompt", PresetCreative, nil)
	if err != nil {
		t.Fatalf("expected reset to restore service, got %v", err)
	}
	if result.Text != "Merry Snowball" {
		t.Fatalf("unexpected text %q", result.Text)
	}
}

func TestEmbedFallsBackWhenPrimaryFails(t *testing.T) {
	primary := &fakeProvider{name: "Gemini", embedErr: errors.New("boom")}
	fallback := &fakeProvider{name: "OpenAI", vector: []float64{0.1, 0.2}}
	manager := NewModelManager(primary, fallback, zap.NewNop())

	vector, meta, err := manager.Embed(context.Background(), "Alice January")
	if err != nil {
		t.Fatalf("expected fallback to rescue the call, got %v", err)
	}
	if len(vector) != 2 {
		t.Fatalf("unexpected vector %v", vector)
	}
	if meta.Provider != "OpenAI" || !meta.UsedFallback {
		t.Fatalf("expected fallback metadata, got %+v", meta)
	}
	if primary.embedCalls != 1 || fallback.embedCalls != 1 {
		t.Fatalf("expected one embed call each, got %d and %d", primary.embedCalls, fallback.embedCalls)
	}
}

func TestProviderHealth(t *testing.T) {
	primary := &fakeProvider{name: "Gemini", pingOK: true}
	fallback := &fakeProvider{name: "OpenAI", pingOK: false}
	manager := NewModelManager(primary, fallback, zap.NewNop())

	health := manager.ProviderHealth(context.Background())
	if len(health) != 2 {
		t.Fatalf("expected both providers reported, got %v", health)
	}
	if !health["Gemini"] || health["OpenAI"] {
		t.Fatalf("unexpected health map %v", health)
	}

	solo := NewModelManager(primary, nil, zap.NewNop())
	if health := solo.ProviderHealth(context.Background()); len(health) != 1 {
		t.Fatalf("expected only the primary without fallback, got %v", health)
	}
}

func TestIsServiceFailureClassification(t *testing.T) {
	manager := NewModelManager(&fakeProvider{name: "Gemini"}, nil, zap.NewNop())

	cases := []struct {
		name string
		err  error
		want bool
	}{
		{"plain error", errors.New("boom"), false},
		{"timeout text", errors.New("request timeout after 30s"), true},
		{"rate limit text", errors.New("429 Too Many Requests"), true},
		{"googleapi 500", errors.New("googleapi: Error 500: Internal error encountered."), true},
		{"gemini json 503", errors.New(`{"error":{"code":503,"message":"unavailable"}}`), true},
		{"openai 404", errors.New("404 model not found"), false},
		{"typed auth", apperrors.NewServiceError("bad key", "gemini", "complete", apperrors.ServiceKindAuth, nil), false},
		{"typed malformed", apperrors.NewServiceError("bad request", "openai", "complete", apperrors.ServiceKindMalformed, nil), false},
		{"typed timeout", apperrors.NewServiceError("deadline", "bedrock", "complete", apperrors.ServiceKindTimeout, nil), true},
		{"typed rate limit", apperrors.NewServiceError("throttled", "bedrock", "complete", apperrors.ServiceKindRateLimit, nil), true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := manager.isServiceFailure(tc.err); got != tc.want {
				t.Fatalf("isServiceFailure(%v) = %v, want %v", tc.err, got, tc.want)
			}
		})
	}
}
