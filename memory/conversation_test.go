package memory

import (
	"context"
	"errors"
	"testing"

	"github.com/SaiNageswarS/medbook-agent/llm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingStore struct{}

func (failingStore) FindOne(context.Context, string) (*Conversation, error) {
	return nil, errors.New("mongo unavailable")
}
func (failingStore) Save(context.Context, *Conversation) error {
	return errors.New("mongo unavailable")
}
func (failingStore) Delete(context.Context, string) error { return errors.New("mongo unavailable") }

func TestConversationManager_LoadSession(t *testing.T) {
	t.Run("nil store", func(t *testing.T) {
		cm := NewConversationManager(nil, 10)
		conversation := cm.LoadSession(context.Background(), "apt1")

		assert.Equal(t, "apt1", conversation.ID)
		assert.Empty(t, conversation.Messages)
	})

	t.Run("store failure degrades to empty", func(t *testing.T) {
		cm := NewConversationManager(failingStore{}, 10)
		conversation := cm.LoadSession(context.Background(), "apt1")

		assert.Equal(t, "apt1", conversation.ID)
		assert.Empty(t, conversation.Messages)
	})

	t.Run("round trip", func(t *testing.T) {
		cm := NewConversationManager(NewInMemoryStore(), 10)
		c := &Conversation{ID: "apt1", PatientName: "Ana"}
		c.AddUserMessage("hello")
		c.AddAssistantMessage("hi")
		require.NoError(t, cm.SaveSession(context.Background(), c))

		loaded := cm.LoadSession(context.Background(), "apt1")
		assert.Equal(t, "Ana", loaded.PatientName)
		assert.Equal(t, c.Messages, loaded.Messages)
		assert.False(t, loaded.UpdatedAt.IsZero())
	})
}

func TestConversationManager_SaveSessionError(t *testing.T) {
	cm := NewConversationManager(failingStore{}, 10)
	assert.Error(t, cm.SaveSession(context.Background(), &Conversation{ID: "apt1"}))
}

func TestConversation_AddMessages(t *testing.T) {
	c := &Conversation{ID: "apt1"}
	c.AddUserMessage("Hello")
	c.AddSystemMessage(AppointmentContext("apt1"))
	c.AddAssistantMessage("Hi there!")

	assert.Equal(t, []llm.Message{
		{Role: llm.RoleUser, Content: "Hello"},
		{Role: llm.RoleSystem, Content: "Appointment ID: apt1"},
		{Role: llm.RoleAssistant, Content: "Hi there!"},
	}, c.Messages)
	assert.True(t, c.HasAppointmentContext())
	assert.False(t, (&Conversation{}).HasAppointmentContext())
}

func TestConversationManager_trimForSession(t *testing.T) {
	user := func(s string) llm.Message { return llm.Message{Role: llm.RoleUser, Content: s} }
	asst := func(s string) llm.Message { return llm.Message{Role: llm.RoleAssistant, Content: s} }
	sys := func(s string) llm.Message { return llm.Message{Role: llm.RoleSystem, Content: s} }

	tests := []struct {
		name     string
		maxMsgs  int
		input    []llm.Message
		expected []llm.Message
	}{
		{
			name:     "empty messages",
			maxMsgs:  5,
			input:    nil,
			expected: []llm.Message{},
		},
		{
			name:     "zero limit",
			maxMsgs:  0,
			input:    []llm.Message{user("a")},
			expected: []llm.Message{},
		},
		{
			name:     "under limit",
			maxMsgs:  3,
			input:    []llm.Message{user("a"), asst("b")},
			expected: []llm.Message{user("a"), asst("b")},
		},
		{
			name:    "keeps appointment context when trimming",
			maxMsgs: 2,
			input: []llm.Message{
				user("q1"), sys(AppointmentContext("apt1")), asst("a1"),
				user("q2"), sys("Transcript:\nold"), asst("a2"),
				user("q3"), asst("a3"),
			},
			expected: []llm.Message{
				sys(AppointmentContext("apt1")),
				user("q2"), sys("Transcript:\nold"), asst("a2"),
				user("q3"), asst("a3"),
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cm := NewConversationManager(nil, tt.maxMsgs)
			assert.Equal(t, tt.expected, cm.trimForSession(tt.input))
		})
	}
}
