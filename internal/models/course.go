package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type CourseLevel string

const (
	LevelBeginner     CourseLevel = "beginner"
	LevelIntermediate CourseLevel = "intermediate"
	LevelAdvanced     CourseLevel = "advanced"
)

// Course is owned by one instructor. Publishing is gated on the lesson count
// (see services.CourseService.TogglePublish).
type Course struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	InstructorID primitive.ObjectID `bson:"instructor_id" json:"instructor_id"`
	CategoryID   primitive.ObjectID `bson:"category_id,omitempty" json:"category_id,omitempty"`
	Title        string             `bson:"title" json:"title"`
	Slug         string             `bson:"slug" json:"slug"`
	Description  string             `bson:"description" json:"description"`
	Price        float64            `bson:"price" json:"price"`
	Level        CourseLevel        `bson:"level" json:"level"`
	Published    bool               `bson:"published" json:"published"`
	PublishedAt  *time.Time         `bson:"published_at,omitempty" json:"published_at,omitempty"`
	CreatedAt    time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt    time.Time          `bson:"updated_at" json:"updated_at"`
}
