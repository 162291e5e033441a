package routers

import (
	"github.com/jaychopda/ai-interview-taking-system/internal/handlers"
	custommw "github.com/jaychopda/ai-interview-taking-system/internal/middleware"
	"github.com/jaychopda/ai-interview-taking-system/internal/models"
	"github.com/jaychopda/ai-interview-taking-system/internal/session"

	"github.com/go-chi/chi/v5"
)

// InterviewRoutes wires the interview lifecycle and the per-user read
// projections. Everything here requires an authenticated session.
func InterviewRoutes(r *chi.Mux, sessions *session.Store, interviewHandler *handlers.InterviewHandler, historyHandler *handlers.HistoryHandler, resumeHandler *handlers.ResumeHandler) {
	r.Group(func(r chi.Router) {
		r.Use(session.RequireAuth(sessions))

		r.With(custommw.ValidateRequest[*models.StartInterviewRequest]()).Post("/api/start-interview", interviewHandler.StartHandler)
		r.With(custommw.ValidateRequest[*models.SubmitAnswerRequest]()).Post("/api/submit-answer", interviewHandler.SubmitHandler)
		r.Post("/api/cancel-interview", interviewHandler.CancelHandler)

		r.Get("/api/user/interviews", historyHandler.ListHandler)
		r.Get("/api/user/interview/{sessionId}", historyHandler.DetailHandler)
		r.Get("/api/interview-results/{sessionId}", historyHandler.UpstreamResultsHandler)

		r.Post("/api/upload-resume", resumeHandler.UploadHandler)
		r.Get("/api/user/resume-analysis", resumeHandler.LatestHandler)
	})
}
