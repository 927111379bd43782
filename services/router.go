package services

import (
	"net/http"
	"time"

	"github.com/SaiNageswarS/go-api-boot/logger"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// Patterns are the server mux prefixes the router must be mounted on. The
// boot server itself answers /health and /metrics.
var Patterns = []string{"/api/", "/chatV", "/appointments/"}

// Config holds router configuration
type Config struct {
	Intake  *IntakeService
	Booking *BookingService
	Notes   *NotesService
}

// NewRouter creates a chi router with all routes configured
func NewRouter(cfg *Config) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)

	r.Route("/api", func(api chi.Router) {
		if cfg.Intake != nil {
			api.Post("/chat", cfg.Intake.Chat)
			api.Post("/clear-session", cfg.Intake.ClearSession)
			api.Get("/doctors/{doctorID}/availability", cfg.Intake.Availability)
		}
		if cfg.Booking != nil {
			api.Post("/book-appointment-from-chat", cfg.Booking.BookFromChat)
		}
	})

	if cfg.Notes != nil {
		r.Post("/chatV", cfg.Notes.Chat)
		r.Route("/appointments/{appointmentID}", func(apt chi.Router) {
			apt.Get("/summary", cfg.Notes.Summary)
			apt.Post("/index", cfg.Notes.Index)
			apt.Delete("/conversation", cfg.Notes.ClearConversation)
		})
	}

	return r
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		logger.Info("HTTP request",
			zap.String("requestId", middleware.GetReqID(r.Context())),
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Duration("duration", time.Since(start)))
	})
}
