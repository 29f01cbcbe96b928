package errors

import "fmt"

// Error codes
const (
	CodePipeline   = "PIPELINE_ERROR"
	CodeValidation = "VALIDATION_ERROR"
	CodeGeneration = "GENERATION_ERROR"
	CodeService    = "SERVICE_ERROR"
	CodeCache      = "CACHE_ERROR"
)

// ServiceErrorKind is the closed classification for upstream model-service
// failures. Callers branch on the kind, never on provider error strings.
type ServiceErrorKind string

const (
	ServiceKindAuth      ServiceErrorKind = "auth"
	ServiceKindRateLimit ServiceErrorKind = "rate_limited"
	ServiceKindTimeout   ServiceErrorKind = "timeout"
	ServiceKindMalformed ServiceErrorKind = "malformed_request"
	ServiceKindUnknown   ServiceErrorKind = "unknown"
)

type PipelineError struct {
	Message    string
	Code       string
	StatusCode int
	Context    map[string]any
	Cause      error
}

func (e *PipelineError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *PipelineError) Unwrap() error {
	return e.Cause
}

func NewPipelineError(message, code string, statusCode int, context map[string]any) *PipelineError {
	return &PipelineError{
		Message:    message,
		Code:       code,
		StatusCode: statusCode,
		Context:    context,
	}
}

func (e *PipelineError) WithCause(cause error) *PipelineError {
	e.Cause = cause
	return e
}

// ValidationError rejects bad user input. It is raised before any external
// call and propagates to the caller unwrapped.
type ValidationError struct {
	*PipelineError
	Field string
	Value interface{}
}

func NewValidationError(message, field string, value interface{}) *ValidationError {
	return &ValidationError{
		PipelineError: &PipelineError{
			Message:    message,
			Code:       CodeValidation,
			StatusCode: 400,
			Context: map[string]any{
				"field": field,
				"value": value,
			},
		},
		Field: field,
		Value: value,
	}
}

// GenerationError is the single failure type the pipeline surfaces for
// anything other than bad input. Attempts records how many synthesis
// attempts were spent before giving up.
type GenerationError struct {
	*PipelineError
	Attempts int
}

func NewGenerationError(message string, attempts int, cause error) *GenerationError {
	return &GenerationError{
		PipelineError: &PipelineError{
			Message:    message,
			Code:       CodeGeneration,
			StatusCode: 502,
			Context: map[string]any{
				"attempts": attempts,
			},
			Cause: cause,
		},
		Attempts: attempts,
	}
}

type ServiceError struct {
	*PipelineError
	Service   string
	Operation string
	Kind      ServiceErrorKind
}

func NewServiceError(message, service, operation string, kind ServiceErrorKind, cause error) *ServiceError {
	return &ServiceError{
		PipelineError: &PipelineError{
			Message:    message,
			Code:       CodeService,
			StatusCode: 500,
			Context: map[string]any{
				"service":   service,
				"operation": operation,
				"kind":      string(kind),
			},
			Cause: cause,
		},
		Service:   service,
		Operation: operation,
		Kind:      kind,
	}
}

type CacheError struct {
	*PipelineError
	Operation string
	Key       string
}

func NewCacheError(message, operation, key string, cause error) *CacheError {
	return &CacheError{
		PipelineError: &PipelineError{
			Message:    message,
			Code:       CodeCache,
			StatusCode: 500,
			Context: map[string]any{
				"operation": operation,
				"key":       key,
			},
			Cause: cause,
		},
		Operation: operation,
		Key:       key,
	}
}
