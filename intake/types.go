package intake

import (
	"github.com/SaiNageswarS/medbook-agent/directory"
	"github.com/SaiNageswarS/medbook-agent/llm"
)

// Turn is one message of a booking conversation as the client sends it.
type Turn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
	IsUser  bool   `json:"isUser,omitempty"`
}

func (t Turn) fromUser() bool {
	return t.Role == llm.RoleUser || t.IsUser
}

func toMessages(turns []Turn) []llm.Message {
	out := make([]llm.Message, 0, len(turns))
	for _, t := range turns {
		role := t.Role
		if role == "" {
			role = llm.RoleAssistant
			if t.IsUser {
				role = llm.RoleUser
			}
		}
		out = append(out, llm.Message{Role: role, Content: t.Content})
	}
	return out
}

type ChatRequest struct {
	Message             string `json:"message"`
	ConversationHistory []Turn `json:"conversationHistory"`
}

type ChatResponse struct {
	Message               string             `json:"message"`
	ConversationHistory   []Turn             `json:"conversationHistory"`
	AppointmentInfo       Slots              `json:"appointmentInfo"`
	DoctorRecommendations []directory.Doctor `json:"doctorRecommendations"`
	HasEnoughInfo         bool               `json:"hasEnoughInfo"`
	IsConfirming          bool               `json:"isConfirming"`
	Error                 string             `json:"error,omitempty"`
}
