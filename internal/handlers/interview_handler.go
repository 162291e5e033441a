package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/jaychopda/ai-interview-taking-system/internal/metrics"
	"github.com/jaychopda/ai-interview-taking-system/internal/middleware"
	"github.com/jaychopda/ai-interview-taking-system/internal/models"
	"github.com/jaychopda/ai-interview-taking-system/internal/repositories"
	"github.com/jaychopda/ai-interview-taking-system/internal/session"
	"github.com/jaychopda/ai-interview-taking-system/internal/upstream/interviewer"
	"github.com/jaychopda/ai-interview-taking-system/internal/utils"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// InterviewHandler mediates the lifecycle of one interview attempt between
// the authenticated client and the external AI service.
type InterviewHandler struct {
	interviews repositories.InterviewRepository
	ai         *interviewer.Client
	logger     *zap.Logger
}

func NewInterviewHandler(interviews repositories.InterviewRepository, ai *interviewer.Client, logger *zap.Logger) *InterviewHandler {
	return &InterviewHandler{interviews: interviews, ai: ai, logger: logger}
}

// StartHandler obtains a new session from the AI service and persists the
// interview record. Nothing is persisted when the upstream call fails, so a
// failed start leaves no partial session behind.
func (h *InterviewHandler) StartHandler(w http.ResponseWriter, r *http.Request) {
	req := middleware.GetValidatedRequest[*models.StartInterviewRequest](r)

	userID, ok := session.UserID(r)
	if !ok {
		utils.JSONError(w, http.StatusUnauthorized, models.CodeUnauthorized, "Authentication required")
		return
	}
	ownerID, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		utils.JSONError(w, http.StatusUnauthorized, models.CodeUnauthorized, "Authentication required")
		return
	}

	started, err := h.ai.StartInterview(r.Context(), req.Position, req.Difficulty, req.Skills, req.TotalQuestions, req.ResumeAnalysis)
	metrics.RecordUpstream("interviewer", err)
	if err != nil {
		h.logger.Error("start-interview upstream call failed", zap.Error(err))
		utils.JSONError(w, http.StatusBadGateway, models.CodeUpstreamUnavailable, "Failed to start interview")
		return
	}

	interview := &models.Interview{
		SessionID:           started.SessionID,
		UserID:              ownerID,
		Position:            req.Position,
		Difficulty:          req.Difficulty,
		Skills:              req.Skills,
		TotalQuestions:      req.TotalQuestions,
		CurrentQuestion:     1,
		CurrentQuestionText: started.Question,
	}
	if err := h.interviews.Create(r.Context(), interview); err != nil {
		h.logger.Error("failed to persist interview", zap.Error(err), zap.String("session_id", started.SessionID))
		// the upstream session exists but we cannot track it; release it
		go h.cancelUpstream(started.SessionID)
		utils.JSONError(w, http.StatusInternalServerError, models.CodeInternalError, "Failed to start interview")
		return
	}

	utils.JSON(w, http.StatusOK, map[string]any{
		"success":        true,
		"sessionId":      started.SessionID,
		"firstQuestion":  started.Question,
		"questionNumber": 1,
		"totalQuestions": req.TotalQuestions,
	})
}

// SubmitHandler forwards an answer for scoring and advances the local
// record. The upstream decides completion; this handler only enforces that a
// terminal session stays terminal and that question numbers arrive in order.
func (h *InterviewHandler) SubmitHandler(w http.ResponseWriter, r *http.Request) {
	req := middleware.GetValidatedRequest[*models.SubmitAnswerRequest](r)

	userID, ok := session.UserID(r)
	if !ok {
		utils.JSONError(w, http.StatusUnauthorized, models.CodeUnauthorized, "Authentication required")
		return
	}

	interview, err := h.interviews.GetBySessionID(r.Context(), req.SessionID)
	if err != nil {
		utils.JSONError(w, http.StatusNotFound, models.CodeNotFound, "Unknown interview session")
		return
	}
	// ownership check deliberately answers 404, not 403, to avoid confirming
	// that a foreign session id exists
	if interview.UserID.Hex() != userID {
		utils.JSONError(w, http.StatusNotFound, models.CodeNotFound, "Unknown interview session")
		return
	}
	if interview.IsComplete {
		utils.JSONError(w, http.StatusConflict, models.CodeConflict, "Interview is already complete")
		return
	}
	if req.QuestionNumber != interview.CurrentQuestion {
		utils.JSONError(w, http.StatusConflict, models.CodeConflict, "Question number does not match the current question")
		return
	}

	result, err := h.ai.SubmitAnswer(r.Context(), req.SessionID, req.Answer, req.QuestionNumber)
	metrics.RecordUpstream("interviewer", err)
	if err != nil {
		h.logger.Error("submit-answer upstream call failed", zap.Error(err), zap.String("session_id", req.SessionID))
		utils.JSONError(w, http.StatusBadGateway, models.CodeUpstreamUnavailable, "Failed to process answer")
		return
	}

	round := models.InterviewRound{
		QuestionNumber: req.QuestionNumber,
		Question:       interview.CurrentQuestionText,
		Answer:         req.Answer,
		Feedback:       result.Feedback,
		Score:          result.Score,
	}

	if result.IsComplete {
		err = h.interviews.Complete(r.Context(), req.SessionID, req.QuestionNumber, round, *result.FinalScore, result.Suggestions, result.OverallAdvice)
	} else {
		err = h.interviews.Advance(r.Context(), req.SessionID, req.QuestionNumber, round, result.NextQuestion)
	}
	if err != nil {
		switch {
		case errors.Is(err, repositories.ErrInterviewComplete), errors.Is(err, repositories.ErrStaleSubmission):
			// a concurrent duplicate won the race; answer was already scored
			utils.JSONError(w, http.StatusConflict, models.CodeConflict, "Answer for this question was already submitted")
		default:
			h.logger.Error("failed to record submission", zap.Error(err), zap.String("session_id", req.SessionID))
			utils.JSONError(w, http.StatusInternalServerError, models.CodeInternalError, "Failed to record answer")
		}
		return
	}

	if result.IsComplete {
		utils.JSON(w, http.StatusOK, map[string]any{
			"success":        true,
			"feedback":       result.Feedback,
			"isComplete":     true,
			"finalScore":     *result.FinalScore,
			"totalQuestions": interview.TotalQuestions,
			"suggestions":    result.Suggestions,
			"overallAdvice":  result.OverallAdvice,
		})
		return
	}

	utils.JSON(w, http.StatusOK, map[string]any{
		"success":        true,
		"feedback":       result.Feedback,
		"nextQuestion":   result.NextQuestion,
		"questionNumber": req.QuestionNumber + 1,
		"isComplete":     false,
	})
}

// CancelHandler absorbs the unload-time beacon. It is advisory and
// idempotent: every outcome, including an unknown or completed session,
// answers 204 and never disturbs persisted results.
func (h *InterviewHandler) CancelHandler(w http.ResponseWriter, r *http.Request) {
	defer w.WriteHeader(http.StatusNoContent)

	var req models.CancelInterviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.SessionID == "" {
		return
	}

	userID, ok := session.UserID(r)
	if !ok {
		return
	}
	interview, err := h.interviews.GetBySessionID(r.Context(), req.SessionID)
	if err != nil || interview.UserID.Hex() != userID || interview.IsComplete {
		return
	}

	if err := h.interviews.MarkCancelled(r.Context(), req.SessionID); err != nil {
		h.logger.Warn("failed to mark interview cancelled", zap.Error(err), zap.String("session_id", req.SessionID))
	}
	go h.cancelUpstream(req.SessionID)
}

// cancelUpstream releases the upstream session without the request context,
// since the beacon sender has usually navigated away already.
func (h *InterviewHandler) cancelUpstream(sessionID string) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := h.ai.CancelSession(ctx, sessionID); err != nil {
		h.logger.Debug("upstream cancel failed", zap.Error(err), zap.String("session_id", sessionID))
	}
}
