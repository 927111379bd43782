package services

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/SaiNageswarS/go-api-boot/logger"
	"github.com/SaiNageswarS/medbook-agent/notes"
	"github.com/SaiNageswarS/medbook-agent/transcript"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type NotesAnswerer interface {
	Answer(ctx context.Context, appointmentID, message string) string
	Reset(ctx context.Context, appointmentID string) error
}

type NotesSummarizer interface {
	Summarize(ctx context.Context, appointmentID string) (string, error)
}

type TranscriptRebuilder interface {
	Rebuild(ctx context.Context, appointmentID string, chunks []transcript.Chunk) bool
}

// NotesService answers patient questions about a recorded consultation.
type NotesService struct {
	answerer   NotesAnswerer
	summarizer NotesSummarizer
	chunker    *transcript.Chunker
	indexer    TranscriptRebuilder
}

func NewNotesService(answerer NotesAnswerer, summarizer NotesSummarizer, chunker *transcript.Chunker, indexer TranscriptRebuilder) *NotesService {
	return &NotesService{answerer: answerer, summarizer: summarizer, chunker: chunker, indexer: indexer}
}

type notesChatRequest struct {
	Message       string `json:"message"`
	AppointmentID string `json:"appointment_id"`
}

type notesChatResponse struct {
	Response string `json:"response"`
}

func (s *NotesService) Chat(w http.ResponseWriter, r *http.Request) {
	var req notesChatRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, notesChatResponse{Response: "Request body must be JSON with message and appointment_id."})
		return
	}
	if strings.TrimSpace(req.Message) == "" || strings.TrimSpace(req.AppointmentID) == "" {
		writeJSON(w, http.StatusBadRequest, notesChatResponse{Response: "Both message and appointment_id are required."})
		return
	}

	answer := s.answerer.Answer(r.Context(), strings.TrimSpace(req.AppointmentID), req.Message)
	writeJSON(w, http.StatusOK, notesChatResponse{Response: answer})
}

func (s *NotesService) ClearConversation(w http.ResponseWriter, r *http.Request) {
	appointmentID := chi.URLParam(r, "appointmentID")
	if err := s.answerer.Reset(r.Context(), appointmentID); err != nil {
		logger.Error("Failed to clear notes conversation", zap.String("appointmentId", appointmentID), zap.Error(err))
		writeJSON(w, http.StatusServiceUnavailable, map[string]any{"success": false, "message": "Could not clear the conversation. Please try again later."})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "message": "Session cleared"})
}

type summaryResponse struct {
	Summary string `json:"summary"`
}

func (s *NotesService) Summary(w http.ResponseWriter, r *http.Request) {
	appointmentID := chi.URLParam(r, "appointmentID")

	summary, err := s.summarizer.Summarize(r.Context(), appointmentID)
	switch {
	case errors.Is(err, notes.ErrNoTranscript):
		writeJSON(w, http.StatusNotFound, summaryResponse{Summary: "No transcript has been recorded for this appointment yet."})
	case err != nil:
		logger.Error("Summary failed", zap.String("appointmentId", appointmentID), zap.Error(err))
		writeJSON(w, http.StatusServiceUnavailable, summaryResponse{Summary: notes.ApologyAnswer})
	default:
		writeJSON(w, http.StatusOK, summaryResponse{Summary: summary})
	}
}

type indexRequest struct {
	Segments []transcript.Segment `json:"segments"`
}

type indexResponse struct {
	Success bool `json:"success"`
	Chunks  int  `json:"chunks"`
}

func (s *NotesService) Index(w http.ResponseWriter, r *http.Request) {
	appointmentID := chi.URLParam(r, "appointmentID")

	var req indexRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, indexResponse{Success: false})
		return
	}

	chunks := s.chunker.Merge(appointmentID, req.Segments)
	ok := s.indexer.Rebuild(r.Context(), appointmentID, chunks)

	status := http.StatusOK
	if !ok {
		status = http.StatusInternalServerError
	}
	writeJSON(w, status, indexResponse{Success: ok, Chunks: len(chunks)})
}
