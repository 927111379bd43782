package directory

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"regexp"
	"sort"
	"strings"
	"sync"
	"time"
	"unicode"

	"github.com/SaiNageswarS/go-collection-boot/linq"
)

// MemoryDirectory is an in-process Directory and AvailabilityStore used by
// the console and tests. Full text follows Atlas' standard analyzer closely
// enough: a clause matches when any query word equals a word of the field.
type MemoryDirectory struct {
	mu      sync.RWMutex
	doctors []Doctor
	slots   []TimeSlot
}

func NewMemoryDirectory(doctors []Doctor, slots []TimeSlot) *MemoryDirectory {
	return &MemoryDirectory{
		doctors: append([]Doctor(nil), doctors...),
		slots:   append([]TimeSlot(nil), slots...),
	}
}

type seedFile struct {
	Doctors []Doctor   `json:"doctors"`
	Slots   []TimeSlot `json:"slots"`
}

// LoadMemoryDirectory reads a JSON seed of the form {"doctors": [...], "slots": [...]}.
func LoadMemoryDirectory(path string) (*MemoryDirectory, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read directory seed: %w", err)
	}

	var seed seedFile
	if err := json.Unmarshal(raw, &seed); err != nil {
		return nil, fmt.Errorf("parse directory seed: %w", err)
	}
	return NewMemoryDirectory(seed.Doctors, seed.Slots), nil
}

func (d *MemoryDirectory) snapshot() []Doctor {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return append([]Doctor(nil), d.doctors...)
}

func (d *MemoryDirectory) FullTextSearch(ctx context.Context, q SearchQuery, limit int) ([]Doctor, error) {
	if q.Specialty == "" && q.Location == "" {
		return nil, ErrEmptyQuery
	}

	type scored struct {
		doc   Doctor
		score int
		order int
	}

	var hits []scored
	for i, doc := range d.snapshot() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		score := 0
		if q.Specialty != "" {
			n := sharedWords(q.Specialty, doc.Specialization)
			if n == 0 {
				continue
			}
			score += n
		}
		if q.Location != "" {
			n := sharedWords(q.Location, doc.Location)
			if n == 0 {
				continue
			}
			score += n
		}
		hits = append(hits, scored{doc: doc, score: score, order: i})
	}

	sort.SliceStable(hits, func(i, j int) bool { return hits[i].score > hits[j].score })

	out := make([]Doctor, 0, min(limit, len(hits)))
	for _, h := range hits {
		if len(out) == limit {
			break
		}
		out = append(out, h.doc)
	}
	return out, nil
}

func (d *MemoryDirectory) FindByPattern(ctx context.Context, f PatternFilter, limit int) ([]Doctor, error) {
	var specialty, location *regexp.Regexp
	if pattern := specialtyPattern(f.Terms); pattern != "" {
		specialty = regexp.MustCompile("(?i)" + pattern)
	}
	if f.Location != "" {
		location = regexp.MustCompile("(?i)" + regexp.QuoteMeta(f.Location))
	}

	matched, err := linq.Pipe2(
		linq.FromSlice(ctx, d.snapshot()),

		linq.Where(func(doc Doctor) bool {
			if specialty != nil && !specialty.MatchString(doc.Specialization) && !specialty.MatchString(doc.Description) {
				return false
			}
			return location == nil || location.MatchString(doc.Location)
		}),

		linq.ToSlice[Doctor](),
	)
	if err != nil {
		return nil, err
	}

	sort.SliceStable(matched, func(i, j int) bool { return matched[i].ID < matched[j].ID })
	if len(matched) > limit {
		matched = matched[:limit]
	}
	return matched, nil
}

func (d *MemoryDirectory) UpcomingSlots(ctx context.Context, doctorID string, now time.Time, limit int) ([]TimeSlot, error) {
	now = now.UTC()
	today := now.Format("2006-01-02")
	clock := now.Format("15:04")

	d.mu.RLock()
	var out []TimeSlot
	for _, s := range d.slots {
		if s.DoctorID != doctorID || s.Status != StatusAvailable {
			continue
		}
		if s.Date > today || (s.Date == today && s.StartTime > clock) {
			out = append(out, s)
		}
	}
	d.mu.RUnlock()

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date < out[j].Date
		}
		return out[i].StartTime < out[j].StartTime
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (d *MemoryDirectory) BookSlot(ctx context.Context, doctorID, date, startTime string) (TimeSlot, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	found := false
	for i, s := range d.slots {
		if s.DoctorID != doctorID || s.Date != date || s.StartTime != startTime {
			continue
		}
		found = true
		if s.Status == StatusAvailable {
			d.slots[i].Status = StatusBooked
			return d.slots[i], nil
		}
	}
	if found {
		return TimeSlot{}, ErrSlotTaken
	}
	return TimeSlot{}, ErrSlotNotFound
}

func (d *MemoryDirectory) ReleaseSlot(ctx context.Context, slot TimeSlot) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	for i, s := range d.slots {
		if s.DoctorID == slot.DoctorID && s.Date == slot.Date && s.StartTime == slot.StartTime && s.Status == StatusBooked {
			d.slots[i].Status = StatusAvailable
			return nil
		}
	}
	return ErrSlotNotFound
}

func sharedWords(query, field string) int {
	fieldWords := make(map[string]struct{})
	for _, w := range words(field) {
		fieldWords[w] = struct{}{}
	}

	n := 0
	for _, w := range words(query) {
		if _, ok := fieldWords[w]; ok {
			n++
		}
	}
	return n
}

func words(s string) []string {
	return strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}
