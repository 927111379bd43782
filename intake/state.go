package intake

import "strings"

var confirmationPhrases = []string{
	"yes", "sure", "okay", "please", "go ahead", "proceed", "continue", "ok", "yeah", "yep",
	"no medical history", "no history", "new issue", "first time", "no previous", "none",
	"recommend", "recommendation", "doctor", "find", "search", "show", "list",
}

// State is everything a turn decides from the extracted slots and the
// latest message. It holds no reference to the session.
type State struct {
	Slots             Slots
	HasValidCondition bool
	IsConfirming      bool
	ShouldSearch      bool
}

// DeriveState is pure: the same slots and message always give the same State.
func DeriveState(extracted Slots, message string) State {
	slots := extracted.Clean()
	lower := strings.ToLower(strings.TrimSpace(message))

	st := State{
		Slots:             slots,
		HasValidCondition: len(slots.Condition) > 2 && len(slots.Condition) < 200,
		IsConfirming:      IsConfirming(message),
	}
	st.ShouldSearch = st.HasValidCondition &&
		(st.IsConfirming || strings.Contains(lower, "recommend") || strings.Contains(lower, "doctor"))
	return st
}

// IsConfirming reports whether message contains any confirmation phrase.
func IsConfirming(message string) bool {
	lower := strings.ToLower(strings.TrimSpace(message))
	for _, p := range confirmationPhrases {
		if strings.Contains(lower, p) {
			return true
		}
	}
	return false
}
