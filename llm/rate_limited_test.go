package llm

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRateLimitedDelegates(t *testing.T) {
	inner := &mockLLMClient{content: "ok"}
	limited := NewRateLimited(inner, 100, 2)

	assert.Equal(t, "mock", limited.GetModel())
	assert.Equal(t, NativeToolCalling, limited.Capabilities())

	text, err := Complete(context.Background(), limited, nil)
	require.NoError(t, err)
	assert.Equal(t, "ok", text)

	_, err = Respond(context.Background(), limited, nil)
	require.NoError(t, err)
	assert.Equal(t, 2, inner.calls)
}

func TestRateLimitedHonoursContext(t *testing.T) {
	inner := &mockLLMClient{content: "ok"}
	limited := NewRateLimited(inner, 0.001, 1)

	_, err := Complete(context.Background(), limited, nil)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err = Complete(ctx, limited, nil)
	require.Error(t, err)
	assert.Equal(t, 1, inner.calls)
}
