package notes

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/SaiNageswarS/go-api-boot/logger"
	"github.com/SaiNageswarS/medbook-agent/llm"
	"github.com/SaiNageswarS/medbook-agent/metrics"
	"github.com/SaiNageswarS/medbook-agent/prompts"
	"go.uber.org/zap"
)

const (
	summaryQuery = "summary"
	summaryTopK  = 5
)

var ErrNoTranscript = errors.New("no transcript indexed for appointment")

// Summarizer writes the patient-facing key points of a consultation.
type Summarizer struct {
	client    llm.LLMClient
	retriever Retriever
	timeout   time.Duration
	metrics   *metrics.EngineMetrics
}

func NewSummarizer(client llm.LLMClient, retriever Retriever, timeout time.Duration, em *metrics.EngineMetrics) *Summarizer {
	return &Summarizer{client: client, retriever: retriever, timeout: timeout, metrics: em}
}

// Summarize retrieves the passages nearest to "summary" for the appointment
// and asks the model for the fixed-heading summary. ErrNoTranscript is
// returned when nothing is indexed.
func (sm *Summarizer) Summarize(ctx context.Context, appointmentID string) (string, error) {
	if sm.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, sm.timeout)
		defer cancel()
	}

	passages, err := sm.retriever.Retrieve(ctx, appointmentID, summaryQuery, summaryTopK)
	if err != nil {
		return "", err
	}
	if len(passages) == 0 {
		return "", ErrNoTranscript
	}

	texts := make([]string, len(passages))
	for i, p := range passages {
		texts[i] = p.Text
	}

	system, user, err := prompts.RenderSummaryPrompt(strings.Join(texts, "\n\n"))
	if err != nil {
		return "", err
	}

	summary, err := llm.Complete(ctx, sm.client,
		[]llm.Message{{Role: llm.RoleUser, Content: user}},
		llm.WithSystemPrompt(system),
		llm.WithTemperature(0.3),
	)
	if err != nil {
		logger.Error("Summary inference failed", zap.String("appointmentId", appointmentID), zap.Error(err))
		sm.metrics.ObserveLLMFailure("summary")
		return "", err
	}
	return summary, nil
}
