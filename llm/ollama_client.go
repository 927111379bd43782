package llm

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ollama/ollama/api"
)

// OllamaClient runs chat inference against a local Ollama server.
type OllamaClient struct {
	client *api.Client
	model  string
}

func NewOllamaClient(client *api.Client, model string) *OllamaClient {
	return &OllamaClient{client: client, model: model}
}

func (c *OllamaClient) Capabilities() Capability {
	return NativeToolCalling | JSONMode
}

func (c *OllamaClient) GetModel() string {
	return c.model
}

func (c *OllamaClient) GenerateInference(ctx context.Context, messages []Message, callback func(chunk string) error, opts ...LLMOption) error {
	return c.GenerateInferenceWithTools(ctx, messages, callback, nil, opts...)
}

func (c *OllamaClient) GenerateInferenceWithTools(
	ctx context.Context,
	messages []Message,
	contentCallback func(chunk string) error,
	toolCallback func(toolCalls []api.ToolCall) error,
	opts ...LLMOption,
) error {
	settings := defaultSettings(c.model)
	for _, opt := range opts {
		opt(&settings)
	}

	stream := false
	req := &api.ChatRequest{
		Model:    settings.model,
		Messages: toOllamaMessages(settings.system, messages),
		Stream:   &stream,
		Options: map[string]any{
			"temperature": settings.temperature,
			"num_predict": settings.maxTokens,
		},
	}
	if settings.jsonMode {
		req.Format = json.RawMessage(`"json"`)
	}
	if toolCallback != nil && len(settings.tools) > 0 {
		req.Tools = settings.tools
	}

	var toolCalls []api.ToolCall
	err := c.client.Chat(ctx, req, func(resp api.ChatResponse) error {
		toolCalls = append(toolCalls, resp.Message.ToolCalls...)
		if resp.Message.Content != "" && contentCallback != nil {
			return contentCallback(resp.Message.Content)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("ollama chat: %w", err)
	}

	if len(toolCalls) > 0 && toolCallback != nil {
		return toolCallback(toolCalls)
	}
	return nil
}

func toOllamaMessages(system string, messages []Message) []api.Message {
	out := make([]api.Message, 0, len(messages)+1)
	if system != "" {
		out = append(out, api.Message{Role: RoleSystem, Content: system})
	}
	for _, m := range messages {
		out = append(out, api.Message{Role: m.Role, Content: m.Content})
	}
	return out
}
