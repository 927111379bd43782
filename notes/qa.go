package notes

import (
	"context"
	"strings"
	"time"

	"github.com/SaiNageswarS/go-api-boot/logger"
	"github.com/SaiNageswarS/medbook-agent/llm"
	"github.com/SaiNageswarS/medbook-agent/memory"
	"github.com/SaiNageswarS/medbook-agent/metrics"
	"github.com/SaiNageswarS/medbook-agent/prompts"
	"github.com/SaiNageswarS/medbook-agent/transcript"
	"github.com/ollama/ollama/api"
	"go.uber.org/zap"
)

const (
	NoContextAnswer = "The context does not provide enough information to answer this question."
	ApologyAnswer   = "I'm having trouble processing your request right now. Please try again later."
)

var greetings = map[string]bool{"hi": true, "hello": true, "hey": true}

// Retriever fetches the passages of one appointment closest to a query.
type Retriever interface {
	Retrieve(ctx context.Context, appointmentID, query string, k int) ([]transcript.Passage, error)
}

// GroundedQA answers questions about a consultation from its own transcript.
type GroundedQA struct {
	client    llm.LLMClient
	retriever Retriever
	timeout   time.Duration
	metrics   *metrics.EngineMetrics
}

func NewGroundedQA(client llm.LLMClient, retriever Retriever, timeout time.Duration, em *metrics.EngineMetrics) *GroundedQA {
	return &GroundedQA{client: client, retriever: retriever, timeout: timeout, metrics: em}
}

// Ask runs one QA turn. The model either answers directly or calls the
// retrieval tool, in which case a second inference answers from the
// retrieved transcript. Retrieval is always scoped to the session's
// appointment whatever id the model asked for.
func (q *GroundedQA) Ask(ctx context.Context, s *Session, question string) string {
	start := time.Now()
	defer func() { q.metrics.ObserveTurn("notes", time.Since(start).Seconds()) }()

	s.mu.Lock()
	defer s.mu.Unlock()

	question = strings.TrimSpace(question)
	conv := s.conv
	if name := ExtractName(question); name != "" {
		conv.PatientName = name
	}

	if greetings[strings.ToLower(question)] {
		greeting := "Hello! How can I assist you today?"
		if conv.PatientName != "" {
			greeting = "Hello, " + conv.PatientName + "! How can I assist you today?"
		}
		conv.AddUserMessage(question)
		conv.AddAssistantMessage(greeting)
		return greeting
	}

	// A failed turn leaves no trace in the history.
	mark := len(conv.Messages)
	answer := q.answer(ctx, conv, question)
	if answer == ApologyAnswer {
		conv.Messages = conv.Messages[:mark]
		return answer
	}

	conv.AddAssistantMessage(answer)
	return answer
}

func (q *GroundedQA) answer(ctx context.Context, conv *memory.Conversation, question string) string {
	conv.AddUserMessage(question)
	if !conv.HasAppointmentContext() {
		conv.AddSystemMessage(memory.AppointmentContext(conv.ID))
	}

	system, err := prompts.RenderNotesSystemPrompt(conv.PatientName)
	if err != nil {
		logger.Error("Failed to render notes prompt", zap.Error(err))
		return ApologyAnswer
	}

	reply, err := q.respond(ctx, conv.Messages, llm.WithSystemPrompt(system), llm.WithTools([]api.Tool{RetrieveTool()}))
	if err != nil {
		logger.Error("Notes QA inference failed", zap.String("appointmentId", conv.ID), zap.Error(err))
		q.metrics.ObserveLLMFailure("qa")
		return ApologyAnswer
	}

	switch r := reply.(type) {
	case llm.DirectAnswer:
		return r.Text
	case llm.ToolInvocation:
		return q.answerFromTranscript(ctx, conv, question, r, system)
	}
	return ApologyAnswer
}

func (q *GroundedQA) answerFromTranscript(ctx context.Context, conv *memory.Conversation, question string, call llm.ToolInvocation, system string) string {
	if call.Name != RetrieveToolName {
		logger.Error("Model called unknown tool", zap.String("tool", call.Name))
		return NoContextAnswer
	}

	query := llm.StringArg(call.Arguments, "query")
	if query == "" {
		query = question
	}
	k := clampTopK(llm.IntArg(call.Arguments, "top_k", defaultTopK))

	if requested := llm.StringArg(call.Arguments, "appointment_id"); requested != "" && requested != conv.ID {
		logger.Info("Overriding model-supplied appointment id",
			zap.String("requested", requested), zap.String("appointmentId", conv.ID))
	}

	passages, err := q.retrieve(ctx, conv.ID, query, k)
	if err != nil {
		logger.Error("Transcript retrieval failed", zap.String("appointmentId", conv.ID), zap.Error(err))
		return ApologyAnswer
	}
	if len(passages) == 0 {
		return NoContextAnswer
	}

	texts := make([]string, len(passages))
	for i, p := range passages {
		texts[i] = p.Text
	}
	conv.AddSystemMessage("Transcript:\n" + strings.Join(texts, "\n\n"))

	answer, err := q.complete(ctx, conv.Messages, llm.WithSystemPrompt(system))
	if err != nil {
		logger.Error("Grounded answer inference failed", zap.String("appointmentId", conv.ID), zap.Error(err))
		q.metrics.ObserveLLMFailure("qa")
		return ApologyAnswer
	}
	return answer
}

func (q *GroundedQA) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if q.timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, q.timeout)
}

func (q *GroundedQA) respond(ctx context.Context, history []llm.Message, opts ...llm.LLMOption) (llm.Reply, error) {
	ctx, cancel := q.withTimeout(ctx)
	defer cancel()
	return llm.Respond(ctx, q.client, history, opts...)
}

func (q *GroundedQA) complete(ctx context.Context, history []llm.Message, opts ...llm.LLMOption) (string, error) {
	ctx, cancel := q.withTimeout(ctx)
	defer cancel()
	return llm.Complete(ctx, q.client, history, opts...)
}

func (q *GroundedQA) retrieve(ctx context.Context, appointmentID, query string, k int) ([]transcript.Passage, error) {
	ctx, cancel := q.withTimeout(ctx)
	defer cancel()
	return q.retriever.Retrieve(ctx, appointmentID, query, k)
}
