// Package llmtest provides a scripted llm.LLMClient for tests.
package llmtest

import (
	"context"
	"errors"
	"sync"

	"github.com/SaiNageswarS/medbook-agent/llm"
	"github.com/ollama/ollama/api"
)

var ErrScriptExhausted = errors.New("llmtest: no scripted response left")

// Step is one scripted reply. Exactly one of Content, ToolCalls, Err or
// Block is expected.
type Step struct {
	Content   string
	ToolCalls []api.ToolCall
	Err       error
	// Block holds the call until its context is done.
	Block bool
}

// Call records what the client was asked.
type Call struct {
	Messages  []llm.Message
	WithTools bool
	Settings  llm.LLMSettings
}

// ScriptedClient replays Steps in order and records every call.
type ScriptedClient struct {
	mu    sync.Mutex
	steps []Step
	calls []Call
	caps  llm.Capability
}

func NewScriptedClient(steps ...Step) *ScriptedClient {
	return &ScriptedClient{steps: steps, caps: llm.NativeToolCalling | llm.JSONMode}
}

// WithCapabilities overrides the advertised provider capabilities.
func (c *ScriptedClient) WithCapabilities(caps llm.Capability) *ScriptedClient {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.caps = caps
	return c
}

func Text(content string) Step { return Step{Content: content} }

func Fail(err error) Step { return Step{Err: err} }

// Hang replies only once the caller gives up.
func Hang() Step { return Step{Block: true} }

func Tool(name string, args map[string]any) Step {
	return Step{ToolCalls: []api.ToolCall{{
		Function: api.ToolCallFunction{Name: name, Arguments: args},
	}}}
}

func (c *ScriptedClient) Calls() []Call {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Call(nil), c.calls...)
}

func (c *ScriptedClient) next(ctx context.Context, messages []llm.Message, withTools bool, opts []llm.LLMOption) (Step, error) {
	c.mu.Lock()
	c.calls = append(c.calls, Call{
		Messages:  append([]llm.Message(nil), messages...),
		WithTools: withTools,
		Settings:  llm.ResolveSettings("scripted", opts...),
	})
	if len(c.steps) == 0 {
		c.mu.Unlock()
		return Step{}, ErrScriptExhausted
	}
	s := c.steps[0]
	c.steps = c.steps[1:]
	c.mu.Unlock()

	if s.Block {
		<-ctx.Done()
		return Step{}, ctx.Err()
	}
	return s, nil
}

func (c *ScriptedClient) GenerateInference(ctx context.Context, messages []llm.Message, callback func(chunk string) error, opts ...llm.LLMOption) error {
	s, err := c.next(ctx, messages, false, opts)
	if err != nil {
		return err
	}
	if s.Err != nil {
		return s.Err
	}
	if s.Content != "" {
		return callback(s.Content)
	}
	return nil
}

func (c *ScriptedClient) GenerateInferenceWithTools(
	ctx context.Context,
	messages []llm.Message,
	contentCallback func(chunk string) error,
	toolCallback func(toolCalls []api.ToolCall) error,
	opts ...llm.LLMOption,
) error {
	s, err := c.next(ctx, messages, true, opts)
	if err != nil {
		return err
	}
	if s.Err != nil {
		return s.Err
	}
	if len(s.ToolCalls) > 0 {
		return toolCallback(s.ToolCalls)
	}
	if s.Content != "" {
		return contentCallback(s.Content)
	}
	return nil
}

func (c *ScriptedClient) Capabilities() llm.Capability {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.caps
}

func (c *ScriptedClient) GetModel() string { return "scripted" }
