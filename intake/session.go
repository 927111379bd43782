package intake

import (
	"context"
	"sync"
)

// Session is the process-local conversation the console owns. It is passed
// by reference; nothing in the package keeps one globally.
type Session struct {
	mu      sync.Mutex
	history []Turn
	info    Slots
}

func NewSession() *Session {
	return &Session{}
}

func (s *Session) History() []Turn {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Turn(nil), s.history...)
}

// Info is the merged appointment information across all turns so far.
func (s *Session) Info() Slots {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.info
}

func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.history = nil
	s.info = Slots{}
}

// Converse runs one turn against the session and records its outcome. A
// failed turn is not recorded.
func (o *Orchestrator) Converse(ctx context.Context, s *Session, message string) ChatResponse {
	s.mu.Lock()
	defer s.mu.Unlock()

	resp := o.HandleTurn(ctx, ChatRequest{Message: message, ConversationHistory: s.history})
	if resp.Error != "" {
		resp.AppointmentInfo = s.info
		return resp
	}
	s.history = resp.ConversationHistory
	s.info = s.info.Merge(resp.AppointmentInfo)
	resp.AppointmentInfo = s.info
	return resp
}
