package llm

import (
	"context"
	"fmt"

	"github.com/ollama/ollama/api"
	"golang.org/x/time/rate"
)

// RateLimited wraps an LLMClient so that calls wait for a token before
// reaching the provider.
type RateLimited struct {
	inner   LLMClient
	limiter *rate.Limiter
}

func NewRateLimited(inner LLMClient, perSecond float64, burst int) *RateLimited {
	if burst < 1 {
		burst = 1
	}
	return &RateLimited{inner: inner, limiter: rate.NewLimiter(rate.Limit(perSecond), burst)}
}

func (r *RateLimited) Capabilities() Capability { return r.inner.Capabilities() }

func (r *RateLimited) GetModel() string { return r.inner.GetModel() }

func (r *RateLimited) GenerateInference(ctx context.Context, messages []Message, callback func(chunk string) error, opts ...LLMOption) error {
	if err := r.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit wait: %w", err)
	}
	return r.inner.GenerateInference(ctx, messages, callback, opts...)
}

func (r *RateLimited) GenerateInferenceWithTools(
	ctx context.Context,
	messages []Message,
	contentCallback func(chunk string) error,
	toolCallback func(toolCalls []api.ToolCall) error,
	opts ...LLMOption,
) error {
	if err := r.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit wait: %w", err)
	}
	return r.inner.GenerateInferenceWithTools(ctx, messages, contentCallback, toolCallback, opts...)
}
