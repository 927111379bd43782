package llm

import (
	"context"
	"errors"
	"strings"

	"github.com/ollama/ollama/api"
)

var ErrEmptyResponse = errors.New("llm returned neither content nor tool calls")

// Reply is the outcome of one tool-enabled inference: either a DirectAnswer
// or a ToolInvocation. Callers switch on the concrete type.
type Reply interface {
	isReply()
}

type DirectAnswer struct {
	Text string
}

// ToolInvocation carries the first tool call requested by the model.
type ToolInvocation struct {
	Name      string
	Arguments api.ToolCallFunctionArguments
}

func (DirectAnswer) isReply()   {}
func (ToolInvocation) isReply() {}

// Respond runs a tool-enabled inference and folds the callback results into a Reply.
// Tool calls take precedence over any content streamed alongside them.
func Respond(ctx context.Context, client LLMClient, messages []Message, opts ...LLMOption) (Reply, error) {
	var content strings.Builder
	var toolCalls []api.ToolCall

	err := client.GenerateInferenceWithTools(ctx, messages,
		func(chunk string) error {
			content.WriteString(chunk)
			return nil
		},
		func(calls []api.ToolCall) error {
			toolCalls = append(toolCalls, calls...)
			return nil
		},
		opts...,
	)
	if err != nil {
		return nil, err
	}

	if len(toolCalls) > 0 {
		return ToolInvocation{
			Name:      toolCalls[0].Function.Name,
			Arguments: toolCalls[0].Function.Arguments,
		}, nil
	}

	text := strings.TrimSpace(content.String())
	if text == "" {
		return nil, ErrEmptyResponse
	}
	return DirectAnswer{Text: text}, nil
}

// Complete runs a plain inference and returns the trimmed text.
func Complete(ctx context.Context, client LLMClient, messages []Message, opts ...LLMOption) (string, error) {
	var content strings.Builder
	err := client.GenerateInference(ctx, messages, func(chunk string) error {
		content.WriteString(chunk)
		return nil
	}, opts...)
	if err != nil {
		return "", err
	}

	text := strings.TrimSpace(content.String())
	if text == "" {
		return "", ErrEmptyResponse
	}
	return text, nil
}
