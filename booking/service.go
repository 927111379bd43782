package booking

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/SaiNageswarS/go-api-boot/logger"
	"github.com/SaiNageswarS/medbook-agent/directory"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var ErrInvalidRequest = errors.New("invalid booking request")

// Request is what the chat client sends once the patient picks a doctor
// and a slot from the recommendations.
type Request struct {
	PatientID string `json:"patientId"`
	DoctorID  string `json:"doctorId"`
	Date      string `json:"date"`
	Time      string `json:"time"`
	Condition string `json:"condition"`
}

func (r Request) validate() error {
	for _, f := range []struct{ name, value string }{
		{"patientId", r.PatientID},
		{"doctorId", r.DoctorID},
		{"date", r.Date},
		{"time", r.Time},
	} {
		if strings.TrimSpace(f.value) == "" {
			return fmt.Errorf("%w: %s is required", ErrInvalidRequest, f.name)
		}
	}
	return nil
}

type Service struct {
	slots directory.SlotBooker
	store Store
	now   func() time.Time
}

func NewService(slots directory.SlotBooker, store Store) *Service {
	return &Service{slots: slots, store: store, now: time.Now}
}

// Book claims the slot and records a pending appointment on it. When the
// appointment cannot be stored the slot is handed back.
func (s *Service) Book(ctx context.Context, req Request) (Appointment, error) {
	if err := req.validate(); err != nil {
		return Appointment{}, err
	}

	slot, err := s.slots.BookSlot(ctx, strings.TrimSpace(req.DoctorID), strings.TrimSpace(req.Date), strings.TrimSpace(req.Time))
	if err != nil {
		return Appointment{}, err
	}

	condition := strings.TrimSpace(req.Condition)
	if condition == "" {
		condition = DefaultCondition
	}

	apt := Appointment{
		ID:         uuid.NewString(),
		PatientID:  strings.TrimSpace(req.PatientID),
		DoctorID:   slot.DoctorID,
		DoctorName: slot.DoctorName,
		Date:       slot.Date,
		Time:       slot.StartTime,
		EndTime:    slot.EndTime,
		Condition:  condition,
		Type:       TypeConsultation,
		Status:     StatusPending,
		CreatedAt:  s.now().UTC(),
	}

	if err := s.store.Save(ctx, apt); err != nil {
		if relErr := s.slots.ReleaseSlot(ctx, slot); relErr != nil {
			logger.Error("Failed to release slot after save failure",
				zap.String("doctorId", slot.DoctorID), zap.String("date", slot.Date),
				zap.String("startTime", slot.StartTime), zap.Error(relErr))
		}
		return Appointment{}, fmt.Errorf("save appointment: %w", err)
	}

	logger.Info("Appointment booked",
		zap.String("appointmentId", apt.ID), zap.String("doctorId", apt.DoctorID),
		zap.String("date", apt.Date), zap.String("time", apt.Time))
	return apt, nil
}
