package intake

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/SaiNageswarS/go-api-boot/logger"
	"github.com/SaiNageswarS/medbook-agent/llm"
	"github.com/SaiNageswarS/medbook-agent/metrics"
	"github.com/SaiNageswarS/medbook-agent/prompts"
	"go.uber.org/zap"
)

// SlotExtractor turns the user's side of a conversation into Slots with
// one low-temperature JSON-mode inference.
type SlotExtractor struct {
	client  llm.LLMClient
	timeout time.Duration
	metrics *metrics.EngineMetrics
}

func NewSlotExtractor(client llm.LLMClient, timeout time.Duration, em *metrics.EngineMetrics) *SlotExtractor {
	return &SlotExtractor{client: client, timeout: timeout, metrics: em}
}

// Extract never fails: any provider or parse problem yields empty Slots.
// The result is not cleaned; see Slots.Clean.
func (e *SlotExtractor) Extract(ctx context.Context, history []Turn) Slots {
	slots, err := e.extract(ctx, history)
	if err != nil {
		logger.Error("Slot extraction failed", zap.Error(err))
		e.metrics.ObserveLLMFailure("extract")
		return Slots{}
	}
	return slots
}

func (e *SlotExtractor) extract(ctx context.Context, history []Turn) (Slots, error) {
	var userLines []string
	for _, t := range history {
		if t.fromUser() {
			userLines = append(userLines, t.Content)
		}
	}
	userMessages := strings.Join(userLines, "\n")
	if strings.TrimSpace(userMessages) == "" {
		return Slots{}, nil
	}

	instruction, err := prompts.RenderSlotExtractionPrompt(userMessages)
	if err != nil {
		return Slots{}, fmt.Errorf("render extraction prompt: %w", err)
	}

	if e.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}

	opts := []llm.LLMOption{llm.WithTemperature(0.1), llm.WithMaxTokens(500)}
	if e.client.Capabilities().Has(llm.JSONMode) {
		opts = append(opts, llm.WithJSONMode())
	}

	raw, err := llm.Complete(ctx, e.client,
		[]llm.Message{
			{Role: llm.RoleSystem, Content: instruction},
			{Role: llm.RoleUser, Content: userMessages},
		},
		opts...,
	)
	if err != nil {
		return Slots{}, fmt.Errorf("extraction inference: %w", err)
	}

	return parseSlots(raw)
}

func parseSlots(raw string) (Slots, error) {
	raw = strings.TrimSpace(raw)
	raw = strings.TrimPrefix(raw, "```json")
	raw = strings.TrimPrefix(raw, "```")
	raw = strings.TrimSuffix(raw, "```")

	var slots Slots
	if err := json.Unmarshal([]byte(strings.TrimSpace(raw)), &slots); err != nil {
		return Slots{}, fmt.Errorf("parse extraction json: %w", err)
	}
	return slots, nil
}
