package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type EnrollmentStatus string

const (
	EnrollmentActive    EnrollmentStatus = "active"
	EnrollmentCompleted EnrollmentStatus = "completed"
	EnrollmentCancelled EnrollmentStatus = "cancelled"
)

// Enrollment links one user to one course. A unique compound index on
// (user_id, course_id) enforces at most one row per pair. CompletedLessons
// has set semantics: updates go through $addToSet only.
type Enrollment struct {
	ID               primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	UserID           primitive.ObjectID   `bson:"user_id" json:"user_id"`
	CourseID         primitive.ObjectID   `bson:"course_id" json:"course_id"`
	PricePaid        float64              `bson:"price_paid" json:"price_paid"`
	Status           EnrollmentStatus     `bson:"status" json:"status"`
	CompletedLessons []primitive.ObjectID `bson:"completed_lessons" json:"completed_lessons"`
	Progress         int                  `bson:"progress" json:"progress"`
	CompletedAt      *time.Time           `bson:"completed_at,omitempty" json:"completed_at,omitempty"`
	CreatedAt        time.Time            `bson:"created_at" json:"created_at"`
	UpdatedAt        time.Time            `bson:"updated_at" json:"updated_at"`
}
