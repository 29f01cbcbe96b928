package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/kapu/elfname-go/internal/constants"
	"github.com/kapu/elfname-go/internal/domain"
	"github.com/kapu/elfname-go/internal/service/namegen"
	"github.com/kapu/elfname-go/internal/util"
	apperrors "github.com/kapu/elfname-go/pkg/errors"
)

// NameGenerator is the pipeline capability the HTTP layer depends on.
// *namegen.Pipeline satisfies it.
type NameGenerator interface {
	Generate(ctx context.Context, firstName, birthMonth string) (*domain.ElfName, error)
	GenerateObserved(ctx context.Context, firstName, birthMonth string, observe namegen.StepFunc) (*domain.ElfName, error)
}

// CircuitReporter exposes the model circuit state for health reporting.
// *ai.ModelManager satisfies it.
type CircuitReporter interface {
	GetCircuitStatus() util.CircuitBreakerStatus
}

// HealthCheck reports one dependency's readiness.
type HealthCheck func(ctx context.Context) error

type Handlers struct {
	names   NameGenerator
	circuit CircuitReporter
	checks  map[string]HealthCheck
	logger  *zap.Logger
}

func NewHandlers(names NameGenerator, circuit CircuitReporter, checks map[string]HealthCheck, logger *zap.Logger) *Handlers {
	return &Handlers{
		names:   names,
		circuit: circuit,
		checks:  checks,
		logger:  logger,
	}
}

type nameRequest struct {
	FirstName  string `json:"first_name"`
	BirthMonth string `json:"birth_month"`
}

type monthsResponse struct {
	Months []string `json:"months"`
}

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type errorResponse struct {
	Error     errorBody `json:"error"`
	RequestID string    `json:"request_id,omitempty"`
}

type circuitReport struct {
	State    string `json:"state"`
	Failures int    `json:"failures"`
}

type healthResponse struct {
	Status  string            `json:"status"`
	Circuit *circuitReport    `json:"circuit,omitempty"`
	Checks  map[string]string `json:"checks,omitempty"`
}

// GenerateName handles POST /api/v1/names.
func (h *Handlers) GenerateName(w http.ResponseWriter, r *http.Request) {
	var req nameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, r, apperrors.NewValidationError("request body must be valid JSON", "body", nil))
		return
	}

	firstName := util.SanitizeInput(req.FirstName, constants.InputLimits.MaxFirstNameLength)

	result, err := h.names.Generate(r.Context(), firstName, req.BirthMonth)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// Months handles GET /api/v1/months.
func (h *Handlers) Months(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, monthsResponse{Months: domain.Months})
}

// Health handles GET /healthz. The circuit state is read, not probed: health
// requests never trigger model calls.
func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	resp := healthResponse{Status: "ok"}

	if h.circuit != nil {
		status := h.circuit.GetCircuitStatus()
		resp.Circuit = &circuitReport{
			State:    status.State.String(),
			Failures: status.FailureCount,
		}
		if status.State == util.CircuitStateOpen {
			resp.Status = "degraded"
		}
	}

	if len(h.checks) > 0 {
		resp.Checks = make(map[string]string, len(h.checks))
		for name, check := range h.checks {
			if err := check(r.Context()); err != nil {
				resp.Checks[name] = err.Error()
				resp.Status = "degraded"
			} else {
				resp.Checks[name] = "ok"
			}
		}
	}

	status := http.StatusOK
	if resp.Status != "ok" {
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, resp)
}

func (h *Handlers) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status, body := classifyError(err)
	requestID := RequestIDFrom(r.Context())

	if status >= http.StatusInternalServerError {
		h.logger.Error("Request failed",
			zap.String("request_id", requestID),
			zap.Int("status", status),
			zap.Error(err),
		)
	} else {
		h.logger.Warn("Request rejected",
			zap.String("request_id", requestID),
			zap.Int("status", status),
			zap.Error(err),
		)
	}

	writeJSON(w, status, errorResponse{Error: body, RequestID: requestID})
}

// classifyError maps the error taxonomy onto HTTP responses. Only the typed
// message is exposed; cause chains stay in the logs.
func classifyError(err error) (int, errorBody) {
	var (
		validationErr *apperrors.ValidationError
		generationErr *apperrors.GenerationError
		serviceErr    *apperrors.ServiceError
		cacheErr      *apperrors.CacheError
		pipelineErr   *apperrors.PipelineError
	)

	switch {
	case errors.As(err, &validationErr):
		return validationErr.StatusCode, errorBody{Code: validationErr.Code, Message: validationErr.Message}
	case errors.As(err, &generationErr):
		return generationErr.StatusCode, errorBody{Code: generationErr.Code, Message: generationErr.Message}
	case errors.As(err, &serviceErr):
		return serviceErr.StatusCode, errorBody{Code: serviceErr.Code, Message: serviceErr.Message}
	case errors.As(err, &cacheErr):
		return cacheErr.StatusCode, errorBody{Code: cacheErr.Code, Message: cacheErr.Message}
	case errors.As(err, &pipelineErr):
		return pipelineErr.StatusCode, errorBody{Code: pipelineErr.Code, Message: pipelineErr.Message}
	}

	return http.StatusInternalServerError, errorBody{Code: apperrors.CodePipeline, Message: "internal server error"}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
