package httpserver_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/davidbz/quill/internal/config"
	"github.com/davidbz/quill/internal/corpus"
	"github.com/davidbz/quill/internal/domain"
	"github.com/davidbz/quill/internal/httpserver"
	"github.com/davidbz/quill/internal/httpserver/middleware"
	"github.com/davidbz/quill/internal/mocks"
)

type errorEnvelope struct {
	Error  httpserver.ErrorBody   `json:"error"`
	Result *domain.PipelineResult `json:"result"`
}

func newTestServer(t *testing.T) (http.Handler, *mocks.MockPipelineRunner, *mocks.MockEmbeddingCache) {
	t.Helper()

	runner := mocks.NewMockPipelineRunner(t)
	cache := mocks.NewMockEmbeddingCache(t)
	handler := httpserver.NewHandler(runner, cache, &corpus.Config{EmbeddingModel: "text-embedding-3-small"})
	server := httpserver.NewServer(&config.ServerConfig{Port: 0}, handler, middleware.BuildMiddlewareChain(nil))

	return server.Routes(), runner, cache
}

func post(t *testing.T, h http.Handler, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHandleRun(t *testing.T) {
	topic := domain.Topic{ID: "t-1", AbstractText: "Pricing pages as conversations"}
	body, err := json.Marshal(topic)
	require.NoError(t, err)

	t.Run("should return the result of a finished run", func(t *testing.T) {
		h, runner, _ := newTestServer(t)
		runner.EXPECT().RunTopic(mock.Anything, topic).Return(&domain.PipelineResult{
			RunID:       "run-1",
			TopicID:     "t-1",
			Stage:       domain.StageDone,
			Deliverable: true,
			Candidates: map[domain.LengthClass]*domain.GenerationCandidate{
				domain.LengthLong: {Text: "You ship it.", LengthClass: domain.LengthLong, Origin: domain.OriginGenerated},
			},
		}, nil).Once()

		rec := post(t, h, "/v1/runs", string(body))

		require.Equal(t, http.StatusOK, rec.Code)
		require.Equal(t, "application/json", rec.Header().Get("Content-Type"))
		require.NotEmpty(t, rec.Header().Get("X-Request-Id"))

		var result domain.PipelineResult
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&result))
		require.Equal(t, "run-1", result.RunID)
		require.True(t, result.Deliverable)
		require.Equal(t, "You ship it.", result.Candidates[domain.LengthLong].Text)
	})

	t.Run("should return 200 for an aborted run", func(t *testing.T) {
		h, runner, _ := newTestServer(t)
		runner.EXPECT().RunTopic(mock.Anything, topic).Return(&domain.PipelineResult{
			Stage:       domain.StageAborted,
			AbortReason: domain.ReasonLongBelowThreshold,
		}, nil).Once()

		rec := post(t, h, "/v1/runs", string(body))

		require.Equal(t, http.StatusOK, rec.Code)
		var result domain.PipelineResult
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&result))
		require.Equal(t, domain.ReasonLongBelowThreshold, result.AbortReason)
	})

	t.Run("should map a stage failure to 502 with the partial result", func(t *testing.T) {
		h, runner, _ := newTestServer(t)
		partial := &domain.PipelineResult{RunID: "run-2", Stage: domain.StageAborted, AbortReason: domain.ReasonProviderUnavailable}
		runner.EXPECT().RunTopic(mock.Anything, topic).Return(partial, &domain.StageError{
			Stage:    domain.StageGenerateLong,
			Provider: "openai",
			Reason:   domain.ReasonProviderUnavailable,
			Err:      domain.ErrCircuitOpen,
		}).Once()

		rec := post(t, h, "/v1/runs", string(body))

		require.Equal(t, http.StatusBadGateway, rec.Code)
		var env errorEnvelope
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&env))
		require.Equal(t, "stage_failed", env.Error.Code)
		require.Equal(t, string(domain.StageGenerateLong), env.Error.Stage)
		require.Equal(t, "openai", env.Error.Provider)
		require.Equal(t, string(domain.ReasonProviderUnavailable), env.Error.Reason)
		require.NotNil(t, env.Result)
		require.Equal(t, "run-2", env.Result.RunID)
	})

	t.Run("should map an empty topic to 400", func(t *testing.T) {
		h, runner, _ := newTestServer(t)
		runner.EXPECT().RunTopic(mock.Anything, mock.Anything).Return(nil, domain.ErrEmptyTopic).Once()

		rec := post(t, h, "/v1/runs", `{"id":"t-2","abstract_text":"  "}`)

		require.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("should map a deadline to 504", func(t *testing.T) {
		h, runner, _ := newTestServer(t)
		runner.EXPECT().RunTopic(mock.Anything, topic).
			Return(&domain.PipelineResult{Stage: domain.StageAborted}, context.DeadlineExceeded).Once()

		rec := post(t, h, "/v1/runs", string(body))

		require.Equal(t, http.StatusGatewayTimeout, rec.Code)
	})

	t.Run("should map unknown failures to 500", func(t *testing.T) {
		h, runner, _ := newTestServer(t)
		runner.EXPECT().RunTopic(mock.Anything, topic).Return(nil, errors.New("boom")).Once()

		rec := post(t, h, "/v1/runs", string(body))

		require.Equal(t, http.StatusInternalServerError, rec.Code)
	})

	t.Run("should reject malformed JSON without running", func(t *testing.T) {
		h, _, _ := newTestServer(t)

		rec := post(t, h, "/v1/runs", `{"id":`)

		require.Equal(t, http.StatusBadRequest, rec.Code)
		var env errorEnvelope
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&env))
		require.Equal(t, "invalid_request", env.Error.Code)
	})

	t.Run("should reject other methods", func(t *testing.T) {
		h, _, _ := newTestServer(t)

		req := httptest.NewRequest(http.MethodGet, "/v1/runs", nil)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		require.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	})
}

func TestHandleEmbedding(t *testing.T) {
	vector := []float64{0.6, 0.8}

	t.Run("should default the model and allow generation", func(t *testing.T) {
		h, _, cache := newTestServer(t)
		cache.EXPECT().GetEmbedding(mock.Anything, "hello", "text-embedding-3-small", true).Return(vector, nil).Once()

		rec := post(t, h, "/v1/embeddings", `{"text":"hello"}`)

		require.Equal(t, http.StatusOK, rec.Code)
		var resp httpserver.EmbeddingResponse
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
		require.Equal(t, "text-embedding-3-small", resp.Model)
		require.Equal(t, 2, resp.Dimension)
		require.Equal(t, vector, resp.Embedding)
	})

	t.Run("should pass through the model and generation flag", func(t *testing.T) {
		h, _, cache := newTestServer(t)
		cache.EXPECT().GetEmbedding(mock.Anything, "hello", "echo-embed", false).Return(vector, nil).Once()

		rec := post(t, h, "/v1/embeddings", `{"text":"hello","model":"echo-embed","generate_if_missing":false}`)

		require.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("should return 404 when nothing is cached and generation is off", func(t *testing.T) {
		h, _, cache := newTestServer(t)
		cache.EXPECT().GetEmbedding(mock.Anything, "hello", "echo-embed", false).Return(nil, domain.ErrNoVector).Once()

		rec := post(t, h, "/v1/embeddings", `{"text":"hello","model":"echo-embed","generate_if_missing":false}`)

		require.Equal(t, http.StatusNotFound, rec.Code)
		var env errorEnvelope
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&env))
		require.Equal(t, "no_vector", env.Error.Code)
	})

	t.Run("should map provider failures to 502", func(t *testing.T) {
		h, _, cache := newTestServer(t)
		cache.EXPECT().GetEmbedding(mock.Anything, "hello", mock.Anything, true).
			Return(nil, &domain.ProviderError{Provider: "openai", Model: "text-embedding-3-small", Err: errors.New("timeout")}).Once()

		rec := post(t, h, "/v1/embeddings", `{"text":"hello"}`)

		require.Equal(t, http.StatusBadGateway, rec.Code)
	})

	t.Run("should reject empty text", func(t *testing.T) {
		h, _, _ := newTestServer(t)

		rec := post(t, h, "/v1/embeddings", `{"text":"   "}`)

		require.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestHandleHealth(t *testing.T) {
	h, _, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("X-Trace-Id", "trace-abc")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "trace-abc", rec.Header().Get("X-Trace-Id"))

	var body map[string]string
	require.NoError(t, json.NewDecoder(bytes.NewReader(rec.Body.Bytes())).Decode(&body))
	require.Equal(t, "healthy", body["status"])
}
