package memory

import (
	"time"

	"github.com/SaiNageswarS/medbook-agent/llm"
)

// Conversation is the persisted notes QA history of one appointment.
type Conversation struct {
	ID          string        `bson:"_id"`
	PatientName string        `bson:"patientName,omitempty"`
	Messages    []llm.Message `bson:"messages"`
	UpdatedAt   time.Time     `bson:"updatedAt"`
}

func (m Conversation) Id() string {
	return m.ID
}

func (m Conversation) CollectionName() string {
	return "note_conversations"
}

func (m *Conversation) AddUserMessage(content string) {
	m.Messages = append(m.Messages, llm.Message{Role: llm.RoleUser, Content: content})
}

func (m *Conversation) AddAssistantMessage(content string) {
	m.Messages = append(m.Messages, llm.Message{Role: llm.RoleAssistant, Content: content})
}

func (m *Conversation) AddSystemMessage(content string) {
	m.Messages = append(m.Messages, llm.Message{Role: llm.RoleSystem, Content: content})
}
