package directory

import (
	"context"
	"errors"
	"time"
)

const MaxResults = 5

const (
	StatusAvailable = "Available"
	StatusBusy      = "Busy"
	StatusOffline   = "Offline"
	StatusBooked    = "Booked"
)

// Doctor is the read-only projection of a directory record.
type Doctor struct {
	ID             string   `json:"id" bson:"_id"`
	Name           string   `json:"name" bson:"name"`
	Specialization string   `json:"specialization" bson:"specialization"`
	Location       string   `json:"location" bson:"location"`
	Contact        string   `json:"contact" bson:"contact"`
	Experience     int      `json:"experience" bson:"experience"`
	Rating         *float64 `json:"rating,omitempty" bson:"rating,omitempty"`
	Availability   string   `json:"availability" bson:"availability"`
	Description    string   `json:"description,omitempty" bson:"description,omitempty"`
}

func (m Doctor) Id() string { return m.ID }

func (m Doctor) CollectionName() string { return "doctors" }

// SearchQuery is a parsed search phrase. Location is "" when absent.
type SearchQuery struct {
	Specialty string
	Location  string
}

// SearchResult is what every matcher stage returns. It never carries a
// Go error; failures surface as Success=false with a message.
type SearchResult struct {
	Success bool     `json:"success"`
	Doctors []Doctor `json:"doctors"`
	Error   string   `json:"error,omitempty"`
}

// PatternFilter drives the synonym fallback stage. Terms match
// specialization OR description at a word start; Location is a
// case-insensitive substring. Empty fields do not constrain.
type PatternFilter struct {
	Terms    []string
	Location string
}

// TimeSlot is one bookable slot of a doctor's calendar.
type TimeSlot struct {
	ID         string `json:"id" bson:"_id"`
	DoctorID   string `json:"doctorId" bson:"doctorId"`
	DoctorName string `json:"doctorName" bson:"doctorName"`
	Date       string `json:"date" bson:"date"`           // YYYY-MM-DD
	StartTime  string `json:"startTime" bson:"startTime"` // HH:MM
	EndTime    string `json:"endTime" bson:"endTime"`
	Status     string `json:"status" bson:"status"`
}

func (m TimeSlot) Id() string { return m.ID }

func (m TimeSlot) CollectionName() string { return "time_slots" }

var (
	ErrEmptyQuery   = errors.New("full-text search needs at least one clause")
	ErrSlotNotFound = errors.New("no such time slot")
	ErrSlotTaken    = errors.New("time slot is no longer available")
)

// Directory is the doctor persistence collaborator.
type Directory interface {
	// FullTextSearch requires every non-empty clause of q to match its field.
	FullTextSearch(ctx context.Context, q SearchQuery, limit int) ([]Doctor, error)
	FindByPattern(ctx context.Context, f PatternFilter, limit int) ([]Doctor, error)
}

type AvailabilityStore interface {
	// UpcomingSlots returns Available slots strictly after now, ordered by
	// date then start time.
	UpcomingSlots(ctx context.Context, doctorID string, now time.Time, limit int) ([]TimeSlot, error)
}

// SlotBooker claims calendar slots. BookSlot must be atomic: of two
// concurrent callers for one slot exactly one succeeds.
type SlotBooker interface {
	// BookSlot flips the Available slot at date and startTime to Booked. It
	// returns ErrSlotNotFound when the doctor has no such slot and
	// ErrSlotTaken when the slot exists but is not Available.
	BookSlot(ctx context.Context, doctorID, date, startTime string) (TimeSlot, error)
	// ReleaseSlot returns a Booked slot to Available.
	ReleaseSlot(ctx context.Context, slot TimeSlot) error
}
