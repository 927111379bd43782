package notes

import (
	"regexp"
	"strings"
	"sync"

	"github.com/SaiNageswarS/medbook-agent/llm"
	"github.com/SaiNageswarS/medbook-agent/memory"
)

var namePattern = regexp.MustCompile(`(?i)\bi(?:'m| am)\s+([a-z]+)`)

// ExtractName finds "I'm <Name>" or "I am <Name>" and returns the name
// capitalised, or "" when the message does not introduce anyone.
func ExtractName(message string) string {
	m := namePattern.FindStringSubmatch(message)
	if m == nil {
		return ""
	}
	name := strings.ToLower(m[1])
	return strings.ToUpper(name[:1]) + name[1:]
}

// Session is one patient's QA conversation about one appointment.
type Session struct {
	mu   sync.Mutex
	conv *memory.Conversation
}

func NewSession(appointmentID string) *Session {
	return &Session{conv: &memory.Conversation{ID: appointmentID}}
}

func sessionFrom(conv *memory.Conversation) *Session {
	return &Session{conv: conv}
}

func (s *Session) AppointmentID() string { return s.conv.ID }

func (s *Session) PatientName() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.conv.PatientName
}

func (s *Session) History() []llm.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]llm.Message(nil), s.conv.Messages...)
}

// snapshot copies the conversation for persistence.
func (s *Session) snapshot() *memory.Conversation {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *s.conv
	cp.Messages = append([]llm.Message(nil), s.conv.Messages...)
	return &cp
}
