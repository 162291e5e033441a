package routers

import (
	"github.com/jaychopda/ai-interview-taking-system/internal/handlers"
	custommw "github.com/jaychopda/ai-interview-taking-system/internal/middleware"
	"github.com/jaychopda/ai-interview-taking-system/internal/models"

	"github.com/go-chi/chi/v5"
)

func AuthRoutes(r *chi.Mux, authHandler *handlers.AuthHandler) {
	r.Route("/api/auth", func(r chi.Router) {
		r.With(custommw.ValidateRequest[*models.RegisterRequest]()).Post("/register", authHandler.RegisterHandler)
		r.With(custommw.ValidateRequest[*models.LoginRequest]()).Post("/login", authHandler.LoginHandler)
		r.Post("/logout", authHandler.LogoutHandler)
		r.Get("/me", authHandler.MeHandler)
	})
}
