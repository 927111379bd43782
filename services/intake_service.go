package services

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/SaiNageswarS/go-api-boot/logger"
	"github.com/SaiNageswarS/medbook-agent/directory"
	"github.com/SaiNageswarS/medbook-agent/intake"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

const maxAvailabilitySlots = 50

type TurnHandler interface {
	HandleTurn(ctx context.Context, req intake.ChatRequest) intake.ChatResponse
}

// IntakeService serves the booking conversation. The conversation history
// travels with each request; nothing is kept between calls.
type IntakeService struct {
	turns        TurnHandler
	availability directory.AvailabilityStore
	now          func() time.Time
}

func NewIntakeService(turns TurnHandler, availability directory.AvailabilityStore) *IntakeService {
	return &IntakeService{turns: turns, availability: availability, now: time.Now}
}

func (s *IntakeService) Chat(w http.ResponseWriter, r *http.Request) {
	var req intake.ChatRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Request body must be a JSON chat request."})
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Please type a message."})
		return
	}

	writeJSON(w, http.StatusOK, s.turns.HandleTurn(r.Context(), req))
}

func (s *IntakeService) ClearSession(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "message": "Session cleared"})
}

type availabilityResponse struct {
	DoctorID string               `json:"doctorId"`
	Slots    []directory.TimeSlot `json:"slots"`
}

func (s *IntakeService) Availability(w http.ResponseWriter, r *http.Request) {
	doctorID := chi.URLParam(r, "doctorID")
	if s.availability == nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "Availability is not configured."})
		return
	}

	slots, err := s.availability.UpcomingSlots(r.Context(), doctorID, s.now(), maxAvailabilitySlots)
	if err != nil {
		logger.Error("Availability lookup failed", zap.String("doctorId", doctorID), zap.Error(err))
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "Could not load availability right now. Please try again later."})
		return
	}
	if slots == nil {
		slots = []directory.TimeSlot{}
	}

	writeJSON(w, http.StatusOK, availabilityResponse{DoctorID: doctorID, Slots: slots})
}
