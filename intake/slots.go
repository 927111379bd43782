package intake

import (
	"regexp"
	"strings"
)

// Slots is the structured booking intent pulled out of the chat. Every
// field is optional; empty means "not mentioned".
type Slots struct {
	Condition string `json:"condition,omitempty"`
	Date      string `json:"date,omitempty"`
	Time      string `json:"time,omitempty"`
	Urgency   string `json:"urgency,omitempty"`
}

var (
	datePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	timePattern = regexp.MustCompile(`^\d{2}:\d{2}$`)

	conditionFillers = regexp.MustCompile(`(?i)\b(doctor|recommendation|help|please|thanks|thank you|yes|no|okay|sure|proceed with recommendations)\b`)
	whitespace       = regexp.MustCompile(`\s+`)
)

// Clean drops malformed dates and times and strips conversational filler
// from the condition.
func (s Slots) Clean() Slots {
	out := Slots{
		Date:    strings.TrimSpace(s.Date),
		Time:    strings.TrimSpace(s.Time),
		Urgency: strings.TrimSpace(s.Urgency),
	}
	if !datePattern.MatchString(out.Date) {
		out.Date = ""
	}
	if !timePattern.MatchString(out.Time) {
		out.Time = ""
	}

	condition := conditionFillers.ReplaceAllString(s.Condition, "")
	out.Condition = strings.TrimSpace(whitespace.ReplaceAllString(condition, " "))
	return out
}

// Merge overlays the non-empty fields of next onto s. Last value wins.
func (s Slots) Merge(next Slots) Slots {
	if next.Condition != "" {
		s.Condition = next.Condition
	}
	if next.Date != "" {
		s.Date = next.Date
	}
	if next.Time != "" {
		s.Time = next.Time
	}
	if next.Urgency != "" {
		s.Urgency = next.Urgency
	}
	return s
}

func (s Slots) IsEmpty() bool {
	return s == Slots{}
}
