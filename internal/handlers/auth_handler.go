package handlers

import (
	"errors"
	"net/http"

	"github.com/jaychopda/ai-interview-taking-system/internal/middleware"
	"github.com/jaychopda/ai-interview-taking-system/internal/models"
	"github.com/jaychopda/ai-interview-taking-system/internal/repositories"
	"github.com/jaychopda/ai-interview-taking-system/internal/session"
	"github.com/jaychopda/ai-interview-taking-system/internal/utils"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// AuthHandler manages registration, login and the session probe.
type AuthHandler struct {
	users    repositories.UserRepository
	sessions *session.Store
	logger   *zap.Logger
}

func NewAuthHandler(users repositories.UserRepository, sessions *session.Store, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{users: users, sessions: sessions, logger: logger}
}

// RegisterHandler creates the user and logs them in immediately, matching
// the browser client's expectation of a ready session after signup.
func (h *AuthHandler) RegisterHandler(w http.ResponseWriter, r *http.Request) {
	req := middleware.GetValidatedRequest[*models.RegisterRequest](r)

	if existing, _ := h.users.GetByEmail(r.Context(), req.Email); existing != nil {
		utils.JSONError(w, http.StatusConflict, models.CodeConflict, "Email already registered")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		utils.JSONError(w, http.StatusInternalServerError, models.CodeInternalError, "Failed to hash password")
		return
	}

	user := &models.User{Email: req.Email, PasswordHash: string(hash), Name: req.Name}
	if err := h.users.Create(r.Context(), user); err != nil {
		if errors.Is(err, repositories.ErrDuplicateEmail) {
			utils.JSONError(w, http.StatusConflict, models.CodeConflict, "Email already registered")
			return
		}
		h.logger.Error("failed to create user", zap.Error(err))
		utils.JSONError(w, http.StatusInternalServerError, models.CodeInternalError, "Registration failed")
		return
	}

	h.issueSession(w, r, user)
}

func (h *AuthHandler) LoginHandler(w http.ResponseWriter, r *http.Request) {
	req := middleware.GetValidatedRequest[*models.LoginRequest](r)

	user, err := h.users.GetByEmail(r.Context(), req.Email)
	if err != nil {
		utils.JSONError(w, http.StatusUnauthorized, models.CodeUnauthorized, "Invalid credentials")
		return
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		utils.JSONError(w, http.StatusUnauthorized, models.CodeUnauthorized, "Invalid credentials")
		return
	}

	h.issueSession(w, r, user)
}

func (h *AuthHandler) LogoutHandler(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(session.CookieName); err == nil && cookie.Value != "" {
		if err := h.sessions.Destroy(r.Context(), cookie.Value); err != nil {
			h.logger.Warn("failed to destroy session", zap.Error(err))
		}
	}
	session.ClearCookie(w)
	utils.JSON(w, http.StatusOK, map[string]any{"success": true})
}

// MeHandler is a read probe: an absent session is a normal answer here, not
// an error.
func (h *AuthHandler) MeHandler(w http.ResponseWriter, r *http.Request) {
	sid, userID, err := session.Resolve(r, h.sessions)
	if err != nil {
		utils.JSON(w, http.StatusOK, map[string]any{"authenticated": false})
		return
	}

	oid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		utils.JSON(w, http.StatusOK, map[string]any{"authenticated": false})
		return
	}
	user, err := h.users.GetByID(r.Context(), oid)
	if err != nil {
		utils.JSON(w, http.StatusOK, map[string]any{"authenticated": false})
		return
	}

	_ = h.sessions.Touch(r.Context(), sid)
	utils.JSON(w, http.StatusOK, map[string]any{"authenticated": true, "user": user.Public()})
}

func (h *AuthHandler) issueSession(w http.ResponseWriter, r *http.Request, user *models.User) {
	sid, err := h.sessions.Create(r.Context(), user.ID.Hex())
	if err != nil {
		h.logger.Error("failed to create session", zap.Error(err))
		utils.JSONError(w, http.StatusInternalServerError, models.CodeInternalError, "Failed to create session")
		return
	}
	session.SetCookie(w, sid, h.sessions)
	utils.JSON(w, http.StatusOK, map[string]any{"success": true, "user": user.Public()})
}
