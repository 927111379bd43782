package memory

import (
	"context"
	"errors"

	"github.com/SaiNageswarS/go-api-boot/logger"
	"github.com/SaiNageswarS/medbook-agent/llm"
	"go.uber.org/zap"
)

// ConversationManager handles conversation-related operations
type ConversationManager struct {
	store   Store
	maxMsgs int
}

func NewConversationManager(store Store, maxMsgs int) *ConversationManager {
	return &ConversationManager{
		store:   store,
		maxMsgs: maxMsgs,
	}
}

// LoadSession returns the stored conversation for the appointment, or a new
// empty one when none exists or the store fails.
func (cm *ConversationManager) LoadSession(ctx context.Context, appointmentID string) *Conversation {
	if cm == nil || cm.store == nil {
		return &Conversation{ID: appointmentID}
	}

	conversation, err := cm.store.FindOne(ctx, appointmentID)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			logger.Error("Failed to load conversation", zap.String("appointmentId", appointmentID), zap.Error(err))
		}
		return &Conversation{ID: appointmentID}
	}

	return conversation
}

// SaveSession trims and saves the conversation.
func (cm *ConversationManager) SaveSession(ctx context.Context, conversation *Conversation) error {
	if cm == nil || cm.store == nil {
		return nil
	}

	conversation.Messages = cm.trimForSession(conversation.Messages)

	if err := cm.store.Save(ctx, conversation); err != nil {
		logger.Error("Failed to save conversation", zap.String("appointmentId", conversation.ID), zap.Error(err))
		return err
	}

	return nil
}

func (cm *ConversationManager) DeleteSession(ctx context.Context, appointmentID string) error {
	if cm == nil || cm.store == nil {
		return nil
	}
	return cm.store.Delete(ctx, appointmentID)
}

// trimForSession keeps everything from the maxMsgs-th user message counted
// from the end. Leading system messages survive so the model keeps its
// appointment context.
func (cm *ConversationManager) trimForSession(msgs []llm.Message) []llm.Message {
	if cm.maxMsgs <= 0 || len(msgs) == 0 {
		return []llm.Message{}
	}

	usersSeen := 0
	start := 0
	for i := len(msgs) - 1; i >= 0; i-- {
		if msgs[i].Role == llm.RoleUser {
			usersSeen++
			if usersSeen == cm.maxMsgs {
				start = i
				break
			}
		}
	}
	if start == 0 {
		return msgs
	}

	var kept []llm.Message
	for _, m := range msgs[:start] {
		if m.Role == llm.RoleSystem && isAppointmentContext(m.Content) {
			kept = append(kept, m)
		}
	}
	return append(kept, msgs[start:]...)
}

func (cm *ConversationManager) GetMaxMessages() int {
	return cm.maxMsgs
}
