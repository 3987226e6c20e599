package observability_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/davidbz/quill/internal/observability"
)

func TestEventBus_Publish(t *testing.T) {
	t.Run("should log the event with data and run context", func(t *testing.T) {
		core, logs := observer.New(zapcore.InfoLevel)
		bus := observability.NewEventBus(zap.New(core))

		ctx := observability.WithRunID(context.Background(), "run-7")
		ctx = observability.WithStage(ctx, "EVAL_LONG")
		bus.Publish(ctx, "pipeline.stage", map[string]interface{}{
			"next":    "DERIVE_VARIANTS",
			"latency": 12,
		})

		entries := logs.All()
		require.Len(t, entries, 1)
		require.Equal(t, "pipeline.stage", entries[0].Message)

		fields := entries[0].ContextMap()
		require.Equal(t, "pipeline.stage", fields["event"])
		require.Equal(t, "run-7", fields["run_id"])
		require.Equal(t, "EVAL_LONG", fields["stage"])
		require.Equal(t, "DERIVE_VARIANTS", fields["next"])
	})

	t.Run("should fall back to the global logger", func(t *testing.T) {
		core, logs := observer.New(zapcore.InfoLevel)
		observability.SetLogger(zap.New(core))
		t.Cleanup(func() { observability.SetLogger(zap.NewNop()) })

		observability.NewEventBus(nil).Publish(context.Background(), "pipeline.finished", nil)

		require.Equal(t, 1, logs.FilterMessage("pipeline.finished").Len())
	})
}

func TestContextIDs(t *testing.T) {
	ctx := observability.WithTraceID(context.Background(), "trace")
	ctx = observability.WithProvider(ctx, "openai")

	require.Equal(t, "trace", observability.GetTraceID(ctx))
	require.Equal(t, "openai", observability.GetProvider(ctx))
	require.Empty(t, observability.GetRunID(ctx))
	require.Len(t, observability.GenerateTraceID(), 32)
	require.Len(t, observability.GenerateSpanID(), 16)
	require.NotEqual(t, observability.GenerateRunID(), observability.GenerateRunID())
}
