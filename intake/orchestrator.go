package intake

import (
	"context"
	"time"

	"github.com/SaiNageswarS/go-api-boot/logger"
	"github.com/SaiNageswarS/medbook-agent/directory"
	"github.com/SaiNageswarS/medbook-agent/llm"
	"github.com/SaiNageswarS/medbook-agent/metrics"
	"github.com/SaiNageswarS/medbook-agent/prompts"
	"go.uber.org/zap"
)

// DoctorMatcher is the tiered search the orchestrator delegates to.
type DoctorMatcher interface {
	Match(ctx context.Context, phrase string) directory.SearchResult
}

// Orchestrator runs one booking turn: assistant reply, slot extraction over
// the whole history, then a doctor search when the patient asks for one.
type Orchestrator struct {
	client    llm.LLMClient
	extractor *SlotExtractor
	matcher   DoctorMatcher
	timeout   time.Duration
	metrics   *metrics.EngineMetrics
}

type OrchestratorOption func(*Orchestrator)

func WithLLMTimeout(d time.Duration) OrchestratorOption {
	return func(o *Orchestrator) { o.timeout = d }
}

func WithMetrics(em *metrics.EngineMetrics) OrchestratorOption {
	return func(o *Orchestrator) { o.metrics = em }
}

func NewOrchestrator(client llm.LLMClient, matcher DoctorMatcher, opts ...OrchestratorOption) *Orchestrator {
	o := &Orchestrator{
		client:  client,
		matcher: matcher,
		timeout: 30 * time.Second,
	}
	for _, opt := range opts {
		opt(o)
	}
	o.extractor = NewSlotExtractor(client, o.timeout, o.metrics)
	return o
}

// HandleTurn is stateless: everything it knows arrives in req.
func (o *Orchestrator) HandleTurn(ctx context.Context, req ChatRequest) ChatResponse {
	start := time.Now()
	defer func() { o.metrics.ObserveTurn("booking", time.Since(start).Seconds()) }()

	userTurn := Turn{Role: llm.RoleUser, Content: req.Message, IsUser: true}
	history := append(append([]Turn(nil), req.ConversationHistory...), userTurn)

	reply, err := o.reply(ctx, history)
	if err != nil {
		logger.Error("Booking reply failed", zap.Error(err))
		o.metrics.ObserveLLMFailure("chat")
		return ChatResponse{
			Message:               ApologyMessage,
			ConversationHistory:   append(history, Turn{Role: llm.RoleAssistant, Content: ApologyMessage}),
			DoctorRecommendations: []directory.Doctor{},
			IsConfirming:          IsConfirming(req.Message),
			Error:                 ApologyMessage,
		}
	}

	st := DeriveState(o.extractor.Extract(ctx, history), req.Message)

	doctors := []directory.Doctor{}
	if st.ShouldSearch {
		specialty := SpecialtyFor(st.Slots.Condition)
		logger.Info("Searching doctors",
			zap.String("condition", st.Slots.Condition), zap.String("specialty", specialty))

		res := o.matcher.Match(ctx, specialty)
		if res.Success && len(res.Doctors) > 0 {
			doctors = res.Doctors
			reply = renderDoctorList(doctors)
		} else {
			reply = NoDoctorMessage
		}
	}

	return ChatResponse{
		Message:               reply,
		ConversationHistory:   append(history, Turn{Role: llm.RoleAssistant, Content: reply}),
		AppointmentInfo:       st.Slots,
		DoctorRecommendations: doctors,
		HasEnoughInfo:         st.HasValidCondition,
		IsConfirming:          st.IsConfirming,
	}
}

func (o *Orchestrator) reply(ctx context.Context, history []Turn) (string, error) {
	system, err := prompts.BookingSystemPrompt()
	if err != nil {
		return "", err
	}

	if o.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, o.timeout)
		defer cancel()
	}

	return llm.Complete(ctx, o.client, toMessages(history),
		llm.WithSystemPrompt(system),
		llm.WithTemperature(0.7),
		llm.WithMaxTokens(1000),
	)
}
