package notes

import (
	"context"

	"github.com/SaiNageswarS/go-api-boot/logger"
	"go.uber.org/zap"
)

// Chatbot ties live sessions to grounded QA and persists each turn.
type Chatbot struct {
	qa    *GroundedQA
	store *SessionStore
}

func NewChatbot(qa *GroundedQA, store *SessionStore) *Chatbot {
	return &Chatbot{qa: qa, store: store}
}

func (c *Chatbot) Answer(ctx context.Context, appointmentID, message string) string {
	s, release := c.store.Acquire(ctx, appointmentID)
	defer release()

	answer := c.qa.Ask(ctx, s, message)
	if err := c.store.Save(ctx, s); err != nil {
		logger.Error("Failed to persist notes conversation", zap.String("appointmentId", appointmentID), zap.Error(err))
	}
	return answer
}

func (c *Chatbot) Reset(ctx context.Context, appointmentID string) error {
	return c.store.Reset(ctx, appointmentID)
}
