package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ResumeInsights is the structured extraction produced by the AI service.
// Field names on the wire follow the analyzer's JSON schema.
type ResumeInsights struct {
	Name            string   `bson:"name" json:"name"`
	Email           string   `bson:"email" json:"email"`
	Phone           string   `bson:"phone" json:"phone"`
	ExperienceYears string   `bson:"experienceYears" json:"experience_years"`
	Skills          []string `bson:"skills" json:"skills"`
	Education       string   `bson:"education" json:"education"`
	PreviousRoles   []string `bson:"previousRoles" json:"previous_roles"`
	KeyProjects     []string `bson:"keyProjects" json:"key_projects"`
	Summary         string   `bson:"summary" json:"summary"`
}

// ResumeAnalysis is one stored analysis for a user. History is retained but
// only the most recent record is surfaced by default.
type ResumeAnalysis struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	UserID    primitive.ObjectID `bson:"userId" json:"-"`
	Analysis  ResumeInsights     `bson:"analysis" json:"analysis"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
}
