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

// ResumeRepo wraps the resume analyses collection.
type ResumeRepo struct{ col *mongo.Collection }

func NewResumeRepo(c *Client) (*ResumeRepo, error) {
	db, err := c.DB()
	if err != nil {
		return nil, err
	}
	col := db.Collection("resumeanalyses")
	r := &ResumeRepo{col: col}

	_, _ = r.col.Indexes().CreateOne(context.Background(), mongo.IndexModel{
		Keys: bson.D{{Key: "userId", Value: 1}, {Key: "createdAt", Value: -1}},
	})

	return r, nil
}

func (r *ResumeRepo) Create(ctx context.Context, analysis *models.ResumeAnalysis) error {
	if analysis.CreatedAt.IsZero() {
		analysis.CreatedAt = time.Now().UTC()
	}
	res, err := r.col.InsertOne(ctx, analysis)
	if err != nil {
		return err
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		analysis.ID = oid
	}
	return nil
}

// LatestByUser returns the most recent analysis; older records stay around as
// history but are not surfaced here.
func (r *ResumeRepo) LatestByUser(ctx context.Context, userID primitive.ObjectID) (*models.ResumeAnalysis, error) {
	opts := options.FindOne().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	var analysis models.ResumeAnalysis
	err := r.col.FindOne(ctx, bson.M{"userId": userID}, opts).Decode(&analysis)
	if err == mongo.ErrNoDocuments {
		return nil, repositories.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &analysis, nil
}
