package handlers

import (
	"net/http"

	"github.com/jaychopda/ai-interview-taking-system/internal/metrics"
	"github.com/jaychopda/ai-interview-taking-system/internal/models"
	"github.com/jaychopda/ai-interview-taking-system/internal/repositories"
	"github.com/jaychopda/ai-interview-taking-system/internal/session"
	"github.com/jaychopda/ai-interview-taking-system/internal/upstream/interviewer"
	"github.com/jaychopda/ai-interview-taking-system/internal/utils"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// HistoryHandler serves read-only projections of a user's interviews.
type HistoryHandler struct {
	interviews repositories.InterviewRepository
	ai         *interviewer.Client
	logger     *zap.Logger
}

func NewHistoryHandler(interviews repositories.InterviewRepository, ai *interviewer.Client, logger *zap.Logger) *HistoryHandler {
	return &HistoryHandler{interviews: interviews, ai: ai, logger: logger}
}

// ListHandler returns all interviews owned by the caller. Zero interviews is
// an empty list, never an error.
func (h *HistoryHandler) ListHandler(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := authenticatedOwner(r)
	if !ok {
		utils.JSONError(w, http.StatusUnauthorized, models.CodeUnauthorized, "Authentication required")
		return
	}

	interviews, err := h.interviews.ListByUser(r.Context(), ownerID)
	if err != nil {
		h.logger.Error("failed to list interviews", zap.Error(err))
		utils.JSONError(w, http.StatusInternalServerError, models.CodeInternalError, "Failed to fetch interview history")
		return
	}

	utils.JSON(w, http.StatusOK, map[string]any{"interviews": interviews})
}

// DetailHandler returns one interview, rounds included. A session owned by a
// different user answers 404 so its existence is not confirmed.
func (h *HistoryHandler) DetailHandler(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := authenticatedOwner(r)
	if !ok {
		utils.JSONError(w, http.StatusUnauthorized, models.CodeUnauthorized, "Authentication required")
		return
	}

	sessionID := chi.URLParam(r, "sessionId")
	interview, err := h.interviews.GetBySessionID(r.Context(), sessionID)
	if err != nil || interview.UserID != ownerID {
		utils.JSONError(w, http.StatusNotFound, models.CodeNotFound, "Interview not found")
		return
	}

	payload := map[string]any{"success": true, "interview": interview}
	if interview.IsComplete {
		payload["results"] = map[string]any{
			"finalScore":    interview.FinalScore,
			"suggestions":   interview.Suggestions,
			"overallAdvice": interview.OverallAdvice,
			"rounds":        interview.Rounds,
		}
	}
	utils.JSON(w, http.StatusOK, payload)
}

// UpstreamResultsHandler relays the AI service's own view of a finished
// session. Ownership is checked against the local record before forwarding.
func (h *HistoryHandler) UpstreamResultsHandler(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := authenticatedOwner(r)
	if !ok {
		utils.JSONError(w, http.StatusUnauthorized, models.CodeUnauthorized, "Authentication required")
		return
	}

	sessionID := chi.URLParam(r, "sessionId")
	interview, err := h.interviews.GetBySessionID(r.Context(), sessionID)
	if err != nil || interview.UserID != ownerID {
		utils.JSONError(w, http.StatusNotFound, models.CodeNotFound, "Interview not found")
		return
	}

	results, err := h.ai.FetchResults(r.Context(), sessionID)
	metrics.RecordUpstream("interviewer", err)
	if err != nil {
		h.logger.Error("failed to fetch upstream results", zap.Error(err), zap.String("session_id", sessionID))
		utils.JSONError(w, http.StatusBadGateway, models.CodeUpstreamUnavailable, "Failed to get interview results")
		return
	}

	utils.JSON(w, http.StatusOK, map[string]any{"success": true, "results": results})
}

// authenticatedOwner converts the context identity into an owner object id.
func authenticatedOwner(r *http.Request) (primitive.ObjectID, bool) {
	userID, ok := session.UserID(r)
	if !ok {
		return primitive.NilObjectID, false
	}
	oid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return primitive.NilObjectID, false
	}
	return oid, true
}
