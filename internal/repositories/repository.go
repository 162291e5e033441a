package repositories

import (
	"context"
	"errors"

	"github.com/jaychopda/ai-interview-taking-system/internal/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	ErrNotFound       = errors.New("record not found")
	ErrDuplicateEmail = errors.New("email already registered")

	// ErrInterviewComplete is returned when a mutation targets a record that
	// already reached its terminal state.
	ErrInterviewComplete = errors.New("interview already complete")

	// ErrStaleSubmission is returned when the submitted question number does
	// not match the expected current question.
	ErrStaleSubmission = errors.New("stale or duplicate submission")
)

type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
}

type InterviewRepository interface {
	Create(ctx context.Context, interview *models.Interview) error
	GetBySessionID(ctx context.Context, sessionID string) (*models.Interview, error)
	ListByUser(ctx context.Context, userID primitive.ObjectID) ([]models.Interview, error)

	// Advance appends the round and moves the current question forward by one.
	// The expected question number guards against duplicate and out-of-order
	// submissions: a mismatch yields ErrStaleSubmission.
	Advance(ctx context.Context, sessionID string, expected int, round models.InterviewRound, nextQuestion string) error

	// Complete appends the final round and flips the record to its terminal
	// state with the upstream-reported final score.
	Complete(ctx context.Context, sessionID string, expected int, round models.InterviewRound, finalScore float64, suggestions []string, overallAdvice string) error

	// MarkCancelled stamps an in-progress record as abandoned. Completed and
	// unknown sessions are safe no-ops.
	MarkCancelled(ctx context.Context, sessionID string) error
}

type ResumeRepository interface {
	Create(ctx context.Context, analysis *models.ResumeAnalysis) error
	LatestByUser(ctx context.Context, userID primitive.ObjectID) (*models.ResumeAnalysis, error)
}
