package routers

import (
	"github.com/jaychopda/ai-interview-taking-system/internal/handlers"
	custommw "github.com/jaychopda/ai-interview-taking-system/internal/middleware"
	"github.com/jaychopda/ai-interview-taking-system/internal/models"

	"github.com/go-chi/chi/v5"
)

// SpeechRoutes are deliberately unauthenticated: the browser calls them
// during an interview with plain fetches and the responses carry nothing
// user-specific.
func SpeechRoutes(r *chi.Mux, speechHandler *handlers.SpeechHandler) {
	r.With(custommw.ValidateRequest[*models.SynthesizeRequest]()).Post("/api/text-to-speech", speechHandler.SynthesizeHandler)
	r.Post("/api/speech-to-text", speechHandler.TranscribeHandler)
}
