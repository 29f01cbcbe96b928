package ai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/aws/smithy-go"
	"go.uber.org/zap"

	"github.com/kapu/elfname-go/internal/constants"
	apperrors "github.com/kapu/elfname-go/pkg/errors"
)

// BedrockProvider invokes Amazon Nova for completions and Titan for
// embeddings. Throttling is retried here with exponential backoff because
// the Bedrock SDK surfaces it as a terminal error.
type BedrockProvider struct {
	client       *bedrockruntime.Client
	defaultModel string
	embedModel   string
	logger       *zap.Logger
}

func NewBedrockProvider(ctx context.Context, region, defaultModel, embedModel string, logger *zap.Logger) (*BedrockProvider, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	return &BedrockProvider{
		client:       bedrockruntime.NewFromConfig(awsCfg),
		defaultModel: defaultModel,
		embedModel:   embedModel,
		logger:       logger,
	}, nil
}

func (b *BedrockProvider) Name() string {
	return "Bedrock"
}

type novaContentPart struct {
	Text string `json:"text"`
}

type novaMessage struct {
	Role    string            `json:"role"`
	Content []novaContentPart `json:"content"`
}

type novaInferenceConfig struct {
	MaxNewTokens int     `json:"max_new_tokens"`
	Temperature  float64 `json:"temperature"`
	TopP         float64 `json:"top_p"`
	Seed         *int32  `json:"seed,omitempty"`
}

type novaRequest struct {
	Messages        []novaMessage       `json:"messages"`
	InferenceConfig novaInferenceConfig `json:"inferenceConfig"`
}

type novaResponse struct {
	Output struct {
		Message struct {
			Content []novaContentPart `json:"content"`
		} `json:"message"`
	} `json:"output"`
}

func (b *BedrockProvider) Complete(ctx context.Context, prompt string, preset ModelPreset, opts *GenerateOptions) (ProviderResult, error) {
	if b.client == nil {
		return ProviderResult{}, fmt.Errorf("bedrock client not initialized")
	}

	modelName := b.getModel(opts)
	config := resolveConfig(preset, opts)

	req := novaRequest{
		Messages: []novaMessage{
			{Role: "user", Content: []novaContentPart{{Text: prompt}}},
		},
		InferenceConfig: novaInferenceConfig{
			MaxNewTokens: config.MaxOutputTokens,
			Temperature:  float64(config.Temperature),
			TopP:         float64(config.TopP),
		},
	}
	if opts != nil && opts.Seed != nil {
		req.InferenceConfig.Seed = opts.Seed
	}

	body, err := json.Marshal(req)
	if err != nil {
		return ProviderResult{}, fmt.Errorf("marshal Nova request: %w", err)
	}

	b.logger.Debug("Generating with Bedrock",
		zap.String("model", modelName),
		zap.String("preset", string(preset)),
		zap.Bool("seeded", opts != nil && opts.Seed != nil),
	)

	respBody, err := b.invoke(ctx, modelName, "complete", body)
	if err != nil {
		return ProviderResult{}, err
	}

	var parsed novaResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return ProviderResult{}, apperrors.NewServiceError(
			"unexpected Nova response body", "bedrock", "complete", apperrors.ServiceKindUnknown, err)
	}
	content := parsed.Output.Message.Content
	if len(content) == 0 {
		return ProviderResult{}, apperrors.NewServiceError(
			"no content in Nova response", "bedrock", "complete", apperrors.ServiceKindUnknown, nil)
	}

	return ProviderResult{Text: content[0].Text, Model: modelName}, nil
}

func (b *BedrockProvider) Embed(ctx context.Context, text string) ([]float64, error) {
	if b.client == nil {
		return nil, fmt.Errorf("bedrock client not initialized")
	}

	body, err := json.Marshal(map[string]string{"inputText": text})
	if err != nil {
		return nil, fmt.Errorf("marshal Titan request: %w", err)
	}

	respBody, err := b.invoke(ctx, b.embedModel, "embed", body)
	if err != nil {
		return nil, err
	}

	var parsed struct {
		Embedding []float64 `json:"embedding"`
	}
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return nil, apperrors.NewServiceError(
			"unexpected Titan response body", "bedrock", "embed", apperrors.ServiceKindUnknown, err)
	}
	if parsed.Embedding == nil {
		return nil, apperrors.NewServiceError(
			"no embedding in Titan response", "bedrock", "embed", apperrors.ServiceKindUnknown, nil)
	}

	return parsed.Embedding, nil
}

func (b *BedrockProvider) Ping(ctx context.Context) bool {
	if b.client == nil {
		return false
	}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	b.logger.Debug("Pinging Bedrock...")

	_, err := b.Complete(ctx, "ping", PresetPrecise, &GenerateOptions{
		Overrides: &ModelConfig{MaxOutputTokens: 10},
	})
	if err != nil {
		b.logger.Debug("Bedrock ping failed", zap.Error(err))
		return false
	}
	return true
}

// invoke calls InvokeModel, retrying throttled calls with exponential
// backoff (1s, 2s, then give up). All other failures map straight onto the
// service error taxonomy.
func (b *BedrockProvider) invoke(ctx context.Context, modelID, operation string, body []byte) ([]byte, error) {
	delay := constants.BackoffConfig.BaseDelay

	var lastErr error
	for attempt := 1; attempt <= constants.BackoffConfig.MaxAttempts; attempt++ {
		if attempt > 1 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(delay):
			}
			delay *= 2
		}

		out, err := b.client.InvokeModel(ctx, &bedrockruntime.InvokeModelInput{
			ModelId:     aws.String(modelID),
			Body:        body,
			ContentType: aws.String("application/json"),
			Accept:      aws.String("application/json"),
		})
		if err == nil {
			return out.Body, nil
		}

		lastErr = err
		if awsErrorCode(err) != "ThrottlingException" {
			return nil, b.wrapError(err, modelID, operation)
		}

		b.logger.Warn("Bedrock throttled, backing off",
			zap.String("model", modelID),
			zap.Int("attempt", attempt),
			zap.Duration("next_delay", delay),
		)
	}

	return nil, b.wrapError(lastErr, modelID, operation)
}

func (b *BedrockProvider) wrapError(err error, modelID, operation string) error {
	kind := apperrors.ServiceKindUnknown
	message := "Bedrock invocation failed"

	switch awsErrorCode(err) {
	case "ThrottlingException":
		kind = apperrors.ServiceKindRateLimit
		message = "Bedrock rate limit exceeded"
	case "ModelTimeoutException":
		kind = apperrors.ServiceKindTimeout
		message = "Bedrock model timed out"
	case "AccessDeniedException", "UnrecognizedClientException", "ExpiredTokenException":
		kind = apperrors.ServiceKindAuth
		message = "Bedrock access denied"
	case "ValidationException":
		kind = apperrors.ServiceKindMalformed
		message = "Bedrock rejected the request"
	}

	b.logger.Error("Bedrock invocation failed",
		zap.String("model", modelID),
		zap.String("operation", operation),
		zap.String("kind", string(kind)),
		zap.Error(err),
	)

	return apperrors.NewServiceError(message, "bedrock", operation, kind, err)
}

func (b *BedrockProvider) getModel(opts *GenerateOptions) string {
	if opts != nil && opts.Model != "" {
		return opts.Model
	}
	return b.defaultModel
}

func awsErrorCode(err error) string {
	var ae smithy.APIError
	if errors.As(err, &ae) {
		return ae.ErrorCode()
	}
	return ""
}
