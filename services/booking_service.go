package services

import (
	"context"
	"errors"
	"net/http"

	"github.com/SaiNageswarS/go-api-boot/logger"
	"github.com/SaiNageswarS/medbook-agent/booking"
	"github.com/SaiNageswarS/medbook-agent/directory"
	"go.uber.org/zap"
)

type AppointmentBooker interface {
	Book(ctx context.Context, req booking.Request) (booking.Appointment, error)
}

// BookingService books the slot a patient picked from the chat
// recommendations.
type BookingService struct {
	booker AppointmentBooker
}

func NewBookingService(booker AppointmentBooker) *BookingService {
	return &BookingService{booker: booker}
}

type bookingResponse struct {
	Success     bool                 `json:"success"`
	Appointment *booking.Appointment `json:"appointment,omitempty"`
	Message     string               `json:"message,omitempty"`
	Error       string               `json:"error,omitempty"`
}

func (s *BookingService) BookFromChat(w http.ResponseWriter, r *http.Request) {
	var req booking.Request
	if err := decodeJSON(w, r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, bookingResponse{Error: "Request body must be a JSON booking request."})
		return
	}

	apt, err := s.booker.Book(r.Context(), req)
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, bookingResponse{Success: true, Appointment: &apt, Message: "Appointment booked successfully"})
	case errors.Is(err, booking.ErrInvalidRequest):
		writeJSON(w, http.StatusBadRequest, bookingResponse{Error: err.Error()})
	case errors.Is(err, directory.ErrSlotNotFound):
		writeJSON(w, http.StatusNotFound, bookingResponse{Error: "That doctor has no slot at the requested date and time."})
	case errors.Is(err, directory.ErrSlotTaken):
		writeJSON(w, http.StatusConflict, bookingResponse{Error: "That time slot is no longer available. Please pick another."})
	default:
		logger.Error("Booking failed", zap.String("doctorId", req.DoctorID), zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, bookingResponse{Error: "Could not book the appointment right now. Please try again later."})
	}
}
