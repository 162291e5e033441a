package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// InterviewRound is one question/answer exchange within an interview.
type InterviewRound struct {
	QuestionNumber int     `bson:"questionNumber" json:"questionNumber"`
	Question       string  `bson:"question" json:"question"`
	Answer         string  `bson:"answer" json:"answer"`
	Feedback       string  `bson:"feedback" json:"feedback"`
	Score          float64 `bson:"score" json:"score"`
}

// Interview tracks one interview attempt. The session id is issued by the
// external AI service and is stable for the lifetime of the record.
//
// A record is either in progress (IsComplete false, CurrentQuestion <= total)
// or complete (IsComplete true, FinalScore set). Completed records are never
// mutated again.
type Interview struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	SessionID       string             `bson:"sessionId" json:"sessionId"`
	UserID          primitive.ObjectID `bson:"userId" json:"-"`
	Position        string             `bson:"position" json:"position"`
	Difficulty      Difficulty         `bson:"difficulty" json:"difficulty"`
	Skills          []string           `bson:"skills" json:"skills"`
	TotalQuestions  int                `bson:"totalQuestions" json:"totalQuestions"`
	CurrentQuestion int                `bson:"currentQuestion" json:"currentQuestion"`
	// CurrentQuestionText is the question awaiting an answer, relayed from
	// the AI service. Meaningless once the record is complete.
	CurrentQuestionText string           `bson:"currentQuestionText,omitempty" json:"-"`
	IsComplete          bool             `bson:"isComplete" json:"isComplete"`
	FinalScore          *float64         `bson:"finalScore,omitempty" json:"finalScore,omitempty"`
	Suggestions         []string         `bson:"suggestions,omitempty" json:"suggestions,omitempty"`
	OverallAdvice       string           `bson:"overallAdvice,omitempty" json:"overallAdvice,omitempty"`
	Rounds              []InterviewRound `bson:"rounds" json:"rounds"`
	CreatedAt           time.Time        `bson:"createdAt" json:"createdAt"`
	CompletedAt         *time.Time       `bson:"completedAt,omitempty" json:"completedAt,omitempty"`
	CancelledAt         *time.Time       `bson:"cancelledAt,omitempty" json:"cancelledAt,omitempty"`
}
