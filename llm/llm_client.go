package llm

import (
	"context"

	"github.com/ollama/ollama/api"
)

type Capability uint8

const (
	NativeToolCalling Capability = 1 << iota
	JSONMode
)

func (c Capability) Has(flag Capability) bool { return c&flag == flag }

type LLMClient interface {
	GenerateInference(
		ctx context.Context,
		messages []Message,
		callback func(chunk string) error,
		opts ...LLMOption,
	) error

	// GenerateInferenceWithTools supports native tool calling
	GenerateInferenceWithTools(
		ctx context.Context,
		messages []Message,
		contentCallback func(chunk string) error,
		toolCallback func(toolCalls []api.ToolCall) error,
		opts ...LLMOption,
	) error

	Capabilities() Capability

	GetModel() string
}

type LLMSettings struct {
	model       string     // model name
	temperature float64    // randomness (0.0 to 1.0)
	maxTokens   int        // maximum tokens to generate
	system      string     // system prompt
	jsonMode    bool       // ask the provider for a single JSON object
	tools       []api.Tool // tools to use for tool calling
}

func defaultSettings(model string) LLMSettings {
	return LLMSettings{
		model:       model,
		temperature: 0.7,
		maxTokens:   1000,
	}
}

// ResolveSettings applies opts over the defaults for model.
func ResolveSettings(model string, opts ...LLMOption) LLMSettings {
	s := defaultSettings(model)
	for _, opt := range opts {
		opt(&s)
	}
	return s
}

func (s LLMSettings) JSONModeRequested() bool { return s.jsonMode }

func (s LLMSettings) Temperature() float64 { return s.temperature }

type LLMOption func(*LLMSettings)

func WithTemperature(temp float64) LLMOption {
	return func(s *LLMSettings) { s.temperature = temp }
}

func WithMaxTokens(tokens int) LLMOption {
	return func(s *LLMSettings) { s.maxTokens = tokens }
}

func WithSystemPrompt(prompt string) LLMOption {
	return func(s *LLMSettings) { s.system = prompt }
}

// WithJSONMode constrains the reply to a JSON object on providers that support it.
func WithJSONMode() LLMOption {
	return func(s *LLMSettings) { s.jsonMode = true }
}

func WithTools(tools []api.Tool) LLMOption {
	return func(s *LLMSettings) { s.tools = tools }
}

const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

type Message struct {
	Role    string `json:"role"`    // "user", "assistant", "system"
	Content string `json:"content"` // the message content
}
