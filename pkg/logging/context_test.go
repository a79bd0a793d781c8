package logging_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/agentstation/roster/pkg/logging"
)

func TestContextFunctions(t *testing.T) {
	t.Run("FromContext falls back to default", func(t *testing.T) {
		assert.Same(t, logging.Default(), logging.FromContext(context.Background()))
	})

	t.Run("WithLogger round trips", func(t *testing.T) {
		tl := logging.NewTestLogger(t)
		ctx := logging.WithLogger(context.Background(), tl.Logger)
		logging.FromContext(ctx).Info().Msg("hello")
		assert.True(t, tl.Contains("hello"))
	})

	t.Run("fields are attached", func(t *testing.T) {
		tl := logging.NewTestLogger(t)
		ctx := logging.WithLogger(context.Background(), tl.Logger)
		ctx = logging.WithDataset(ctx, "master.xlsx")
		ctx = logging.WithOperation(ctx, "merge")
		logging.FromContext(ctx).Info().Msg("start")

		assert.True(t, tl.Contains(`"dataset":"master.xlsx"`))
		assert.True(t, tl.Contains(`"operation":"merge"`))
		assert.Len(t, tl.Lines(), 1)
	})

	t.Run("request id", func(t *testing.T) {
		tl := logging.NewTestLogger(t)
		ctx := logging.WithLogger(context.Background(), tl.Logger)
		ctx = logging.WithRequestID(ctx, "req-42")

		assert.Equal(t, "req-42", logging.RequestID(ctx))
		logging.FromContext(ctx).Debug().Msg("traced")
		assert.True(t, tl.Contains(`"request_id":"req-42"`))
	})

	t.Run("nop logger is silent", func(t *testing.T) {
		l := logging.NewNopLogger()
		l.Error().Msg("dropped")
		assert.NotNil(t, l)
	})
}
