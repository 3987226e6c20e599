package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/davidbz/quill/internal/corpus"
	"github.com/davidbz/quill/internal/domain"
	"github.com/davidbz/quill/internal/observability"
)

// RunRequest is the body of POST /v1/runs.
type RunRequest struct {
	ID              string `json:"id"`
	AbstractText    string `json:"abstract_text"`
	SourceReference string `json:"source_reference,omitempty"`
}

// EmbeddingRequest is the body of POST /v1/embeddings.
type EmbeddingRequest struct {
	Text              string `json:"text"`
	Model             string `json:"model,omitempty"`
	GenerateIfMissing *bool  `json:"generate_if_missing,omitempty"`
}

// EmbeddingResponse is the body returned for a resolved embedding.
type EmbeddingResponse struct {
	Model     string    `json:"model"`
	Dimension int       `json:"dimension"`
	Embedding []float64 `json:"embedding"`
}

// ErrorBody is the structured error returned on failures.
type ErrorBody struct {
	Code     string `json:"code"`
	Message  string `json:"message"`
	Stage    string `json:"stage,omitempty"`
	Provider string `json:"provider,omitempty"`
	Reason   string `json:"reason,omitempty"`
}

type errorResponse struct {
	Error  ErrorBody              `json:"error"`
	Result *domain.PipelineResult `json:"result,omitempty"`
}

// Handler handles HTTP requests.
type Handler struct {
	runner         domain.PipelineRunner
	embeddings     domain.EmbeddingCache
	embeddingModel string
}

// NewHandler creates a new HTTP handler (DI constructor).
func NewHandler(runner domain.PipelineRunner, embeddings domain.EmbeddingCache, corpusConfig *corpus.Config) *Handler {
	return &Handler{
		runner:         runner,
		embeddings:     embeddings,
		embeddingModel: corpusConfig.EmbeddingModel,
	}
}

// HandleRun executes one generation run. Aborted runs are a normal outcome and
// return 200; stage failures return 502 with the partial result.
func (h *Handler) HandleRun(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req RunRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(ctx, w, http.StatusBadRequest, errorResponse{
			Error: ErrorBody{Code: "invalid_request", Message: fmt.Sprintf("invalid request body: %v", err)},
		})
		return
	}

	logger := observability.FromContext(ctx)
	logger.Info("run request received", observability.String("topic_id", req.ID))

	result, err := h.runner.RunTopic(ctx, domain.Topic{
		ID:              req.ID,
		AbstractText:    req.AbstractText,
		SourceReference: req.SourceReference,
	})
	if err != nil {
		h.writeRunError(ctx, w, result, err)
		return
	}

	writeJSON(ctx, w, http.StatusOK, result)
}

func (h *Handler) writeRunError(ctx context.Context, w http.ResponseWriter, result *domain.PipelineResult, err error) {
	logger := observability.FromContext(ctx)
	body := errorResponse{
		Error:  ErrorBody{Code: "internal", Message: err.Error()},
		Result: result,
	}

	var stageErr *domain.StageError
	switch {
	case errors.Is(err, domain.ErrEmptyTopic):
		body.Error.Code = "invalid_request"
		writeError(ctx, w, http.StatusBadRequest, body)
	case errors.Is(err, context.DeadlineExceeded):
		body.Error.Code = "timeout"
		logger.Warn("run timed out", observability.Error(err))
		writeError(ctx, w, http.StatusGatewayTimeout, body)
	case errors.Is(err, context.Canceled):
		logger.Info("run cancelled by client")
	case errors.As(err, &stageErr):
		body.Error.Code = "stage_failed"
		body.Error.Stage = string(stageErr.Stage)
		body.Error.Provider = stageErr.Provider
		body.Error.Reason = string(stageErr.Reason)
		logger.Error("run failed", observability.Error(err))
		writeError(ctx, w, http.StatusBadGateway, body)
	default:
		logger.Error("run failed", observability.Error(err))
		writeError(ctx, w, http.StatusInternalServerError, body)
	}
}

// HandleEmbedding resolves an embedding through the cache tiers.
func (h *Handler) HandleEmbedding(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req EmbeddingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(ctx, w, http.StatusBadRequest, errorResponse{
			Error: ErrorBody{Code: "invalid_request", Message: fmt.Sprintf("invalid request body: %v", err)},
		})
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		writeError(ctx, w, http.StatusBadRequest, errorResponse{
			Error: ErrorBody{Code: "invalid_request", Message: "text is required"},
		})
		return
	}

	model := req.Model
	if model == "" {
		model = h.embeddingModel
	}
	generate := req.GenerateIfMissing == nil || *req.GenerateIfMissing

	ctx = observability.WithModel(ctx, model)
	vector, err := h.embeddings.GetEmbedding(ctx, req.Text, model, generate)
	switch {
	case err == nil:
	case errors.Is(err, domain.ErrNoVector):
		writeError(ctx, w, http.StatusNotFound, errorResponse{
			Error: ErrorBody{Code: "no_vector", Message: err.Error()},
		})
		return
	case errors.Is(err, domain.ErrProviderFailure), errors.Is(err, domain.ErrDimensionMismatch):
		observability.FromContext(ctx).Error("embedding failed", observability.Error(err))
		writeError(ctx, w, http.StatusBadGateway, errorResponse{
			Error: ErrorBody{Code: "provider_unavailable", Message: err.Error()},
		})
		return
	default:
		observability.FromContext(ctx).Error("embedding failed", observability.Error(err))
		writeError(ctx, w, http.StatusInternalServerError, errorResponse{
			Error: ErrorBody{Code: "internal", Message: err.Error()},
		})
		return
	}

	writeJSON(ctx, w, http.StatusOK, EmbeddingResponse{
		Model:     model,
		Dimension: len(vector),
		Embedding: vector,
	})
}

// HandleHealth handles health check requests.
func (h *Handler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(r.Context(), w, http.StatusOK, map[string]string{
		"status": "healthy",
	})
}

func writeError(ctx context.Context, w http.ResponseWriter, status int, body errorResponse) {
	writeJSON(ctx, w, status, body)
}

func writeJSON(ctx context.Context, w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		// Status already written; log only.
		observability.FromContext(ctx).Error("failed to encode response", observability.Error(err))
	}
}
