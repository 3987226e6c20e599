package routing_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/davidbz/quill/internal/domain"
	"github.com/davidbz/quill/internal/mocks"
	"github.com/davidbz/quill/internal/provider/registry"
	"github.com/davidbz/quill/internal/routing"
)

func providerServing(t *testing.T, name string, models ...string) *mocks.MockProvider {
	p := mocks.NewMockProvider(t)
	p.EXPECT().Name().Return(name).Maybe()
	p.EXPECT().IsModelSupported(mock.Anything, mock.Anything).
		RunAndReturn(func(_ context.Context, model string) bool {
			for _, m := range models {
				if m == model {
					return true
				}
			}
			return false
		}).Maybe()
	return p
}

func newRegistry(t *testing.T, providers ...domain.Provider) *registry.Registry {
	reg := registry.NewRegistry()
	for _, p := range providers {
		require.NoError(t, reg.Register(context.Background(), p))
	}
	return reg
}

func TestRouter_Route(t *testing.T) {
	ctx := context.Background()

	t.Run("should route to the provider supporting the model", func(t *testing.T) {
		reg := newRegistry(t, providerServing(t, "openai", "gpt-4o"), providerServing(t, "gemini", "gemini-2.0-flash"))
		router := routing.NewRouter(reg, &routing.Config{})

		names, err := router.Route(ctx, &domain.RouteRequest{Model: "gemini-2.0-flash"})
		require.NoError(t, err)
		require.Equal(t, []string{"gemini"}, names)
	})

	t.Run("should order providers by configured preference", func(t *testing.T) {
		reg := newRegistry(t,
			providerServing(t, "echo", "shared"),
			providerServing(t, "openai", "shared"),
			providerServing(t, "gemini", "shared"),
		)
		router := routing.NewRouter(reg, &routing.Config{ProviderOrder: []string{"gemini", "openai", "missing"}})

		names, err := router.Route(ctx, &domain.RouteRequest{Model: "shared"})
		require.NoError(t, err)
		require.Equal(t, []string{"gemini", "openai", "echo"}, names)
	})

	t.Run("should return error when request is nil", func(t *testing.T) {
		router := routing.NewRouter(registry.NewRegistry(), &routing.Config{})

		names, err := router.Route(ctx, nil)
		require.Error(t, err)
		require.Empty(t, names)
		require.Contains(t, err.Error(), "route request cannot be nil")
	})

	t.Run("should return error when model is empty", func(t *testing.T) {
		router := routing.NewRouter(registry.NewRegistry(), &routing.Config{})

		_, err := router.Route(ctx, &domain.RouteRequest{Model: ""})
		require.Error(t, err)
		require.Contains(t, err.Error(), "model name is required")
	})

	t.Run("should return error when no provider supports the model", func(t *testing.T) {
		reg := newRegistry(t, providerServing(t, "openai", "gpt-4o"))
		router := routing.NewRouter(reg, &routing.Config{})

		_, err := router.Route(ctx, &domain.RouteRequest{Model: "claude-3"})
		require.Error(t, err)
		require.Contains(t, err.Error(), "no provider found for model")
	})

	t.Run("should return error when no providers are available", func(t *testing.T) {
		router := routing.NewRouter(registry.NewRegistry(), &routing.Config{})

		_, err := router.Route(ctx, &domain.RouteRequest{Model: "gpt-4o"})
		require.Error(t, err)
		require.Contains(t, err.Error(), "no providers available")
	})

	t.Run("should surface registry failures", func(t *testing.T) {
		reg := mocks.NewMockProviderRegistry(t)
		reg.EXPECT().List(mock.Anything).Return(nil, errors.New("boom")).Once()
		router := routing.NewRouter(reg, &routing.Config{})

		_, err := router.Route(ctx, &domain.RouteRequest{Model: "gpt-4o"})
		require.ErrorContains(t, err, "failed to list providers")
	})
}
