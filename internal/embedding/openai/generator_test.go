package openai_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/davidbz/quill/internal/embedding/openai"
)

func TestNewGenerator(t *testing.T) {
	t.Run("should require an api key", func(t *testing.T) {
		_, err := openai.NewGenerator(openai.Config{})
		require.Error(t, err)
	})

	t.Run("should serve only configured models", func(t *testing.T) {
		g, err := openai.NewGenerator(openai.Config{APIKey: "k", Models: []string{"text-embedding-3-small"}})
		require.NoError(t, err)

		require.Equal(t, "openai", g.Name())
		require.True(t, g.SupportsEmbeddingModel("text-embedding-3-small"))
		require.False(t, g.SupportsEmbeddingModel("text-embedding-3-large"))
	})
}

func TestGenerator_Embed(t *testing.T) {
	t.Run("should return the first embedding", func(t *testing.T) {
		var captured map[string]any
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{
				"object": "list",
				"model": "text-embedding-3-small",
				"data": [{"object": "embedding", "index": 0, "embedding": [0.5, -0.25, 1]}],
				"usage": {"prompt_tokens": 3, "total_tokens": 3}
			}`))
		}))
		defer server.Close()

		g, err := openai.NewGenerator(openai.Config{APIKey: "k", BaseURL: server.URL + "/v1/"})
		require.NoError(t, err)

		vector, err := g.Embed(context.Background(), "hello", "text-embedding-3-small")
		require.NoError(t, err)
		require.Equal(t, []float64{0.5, -0.25, 1}, vector)
		require.Equal(t, "text-embedding-3-small", captured["model"])
	})

	t.Run("should reject empty text", func(t *testing.T) {
		g, err := openai.NewGenerator(openai.Config{APIKey: "k"})
		require.NoError(t, err)

		_, err = g.Embed(context.Background(), "", "text-embedding-3-small")
		require.Error(t, err)
	})
}

func TestDimension(t *testing.T) {
	require.Equal(t, 1536, openai.Dimension("text-embedding-3-small"))
	require.Equal(t, 1536, openai.Dimension("text-embedding-ada-002"))
	require.Equal(t, 3072, openai.Dimension("text-embedding-3-large"))
}
