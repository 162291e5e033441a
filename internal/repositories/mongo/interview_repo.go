package mongo

import (
	"context"
	"time"

	"github.com/jaychopda/ai-interview-taking-system/internal/models"
	"github.com/jaychopda/ai-interview-taking-system/internal/repositories"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// InterviewRepo wraps the interviews collection.
type InterviewRepo struct{ col *mongo.Collection }

func NewInterviewRepo(c *Client) (*InterviewRepo, error) {
	db, err := c.DB()
	if err != nil {
		return nil, err
	}
	col := db.Collection("interviews")
	r := &InterviewRepo{col: col}

	_, _ = r.col.Indexes().CreateOne(context.Background(), mongo.IndexModel{
		Keys:    bson.D{{Key: "sessionId", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	_, _ = r.col.Indexes().CreateOne(context.Background(), mongo.IndexModel{
		Keys: bson.D{{Key: "userId", Value: 1}, {Key: "createdAt", Value: -1}},
	})

	return r, nil
}

func (r *InterviewRepo) Create(ctx context.Context, interview *models.Interview) error {
	if interview.CreatedAt.IsZero() {
		interview.CreatedAt = time.Now().UTC()
	}
	if interview.Rounds == nil {
		interview.Rounds = []models.InterviewRound{}
	}
	res, err := r.col.InsertOne(ctx, interview)
	if err != nil {
		return err
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		interview.ID = oid
	}
	return nil
}

func (r *InterviewRepo) GetBySessionID(ctx context.Context, sessionID string) (*models.Interview, error) {
	var interview models.Interview
	err := r.col.FindOne(ctx, bson.M{"sessionId": sessionID}).Decode(&interview)
	if err == mongo.ErrNoDocuments {
		return nil, repositories.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &interview, nil
}

func (r *InterviewRepo) ListByUser(ctx context.Context, userID primitive.ObjectID) ([]models.Interview, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cur, err := r.col.Find(ctx, bson.M{"userId": userID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []models.Interview{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Advance moves an in-progress interview to the next question. The filter
// pins both the completion flag and the expected question number, so a
// duplicate or out-of-order submission matches nothing.
func (r *InterviewRepo) Advance(ctx context.Context, sessionID string, expected int, round models.InterviewRound, nextQuestion string) error {
	res, err := r.col.UpdateOne(ctx,
		bson.M{"sessionId": sessionID, "isComplete": false, "currentQuestion": expected},
		bson.M{
			"$push": bson.M{"rounds": round},
			"$set":  bson.M{"currentQuestion": expected + 1, "currentQuestionText": nextQuestion},
		},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return r.classifyMiss(ctx, sessionID)
	}
	return nil
}

func (r *InterviewRepo) Complete(ctx context.Context, sessionID string, expected int, round models.InterviewRound, finalScore float64, suggestions []string, overallAdvice string) error {
	now := time.Now().UTC()
	res, err := r.col.UpdateOne(ctx,
		bson.M{"sessionId": sessionID, "isComplete": false, "currentQuestion": expected},
		bson.M{
			"$push": bson.M{"rounds": round},
			"$set": bson.M{
				"isComplete":    true,
				"finalScore":    finalScore,
				"suggestions":   suggestions,
				"overallAdvice": overallAdvice,
				"completedAt":   now,
			},
		},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return r.classifyMiss(ctx, sessionID)
	}
	return nil
}

// MarkCancelled stamps an abandoned session. Cancellation is advisory, so a
// completed or unknown session simply matches nothing.
func (r *InterviewRepo) MarkCancelled(ctx context.Context, sessionID string) error {
	_, err := r.col.UpdateOne(ctx,
		bson.M{"sessionId": sessionID, "isComplete": false},
		bson.M{"$set": bson.M{"cancelledAt": time.Now().UTC()}},
	)
	return err
}

// classifyMiss distinguishes why a guarded update matched nothing.
func (r *InterviewRepo) classifyMiss(ctx context.Context, sessionID string) error {
	interview, err := r.GetBySessionID(ctx, sessionID)
	if err != nil {
		return err
	}
	if interview.IsComplete {
		return repositories.ErrInterviewComplete
	}
	return repositories.ErrStaleSubmission
}
