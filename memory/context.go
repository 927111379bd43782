package memory

import (
	"strings"

	"github.com/SaiNageswarS/medbook-agent/llm"
)

const appointmentContextPrefix = "Appointment ID: "

// AppointmentContext is the system message that pins a QA conversation to
// its appointment.
func AppointmentContext(appointmentID string) string {
	return appointmentContextPrefix + appointmentID
}

func isAppointmentContext(content string) bool {
	return strings.HasPrefix(content, appointmentContextPrefix)
}

// HasAppointmentContext reports whether the history already carries the
// appointment system message.
func (m *Conversation) HasAppointmentContext() bool {
	for _, msg := range m.Messages {
		if msg.Role == llm.RoleSystem && isAppointmentContext(msg.Content) {
			return true
		}
	}
	return false
}
