package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ResourceType string

const (
	ResourceVideo ResourceType = "video"
	ResourceText  ResourceType = "text"
	ResourceFile  ResourceType = "file"
)

type Resource struct {
	Type    ResourceType `bson:"type" json:"type"`
	Title   string       `bson:"title" json:"title"`
	URL     string       `bson:"url,omitempty" json:"url,omitempty"`
	Content string       `bson:"content,omitempty" json:"content,omitempty"`
}

// Lesson belongs to exactly one course. Position is the sort index within it.
type Lesson struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	CourseID  primitive.ObjectID `bson:"course_id" json:"course_id"`
	Title     string             `bson:"title" json:"title"`
	Position  int                `bson:"position" json:"position"`
	Resources []Resource         `bson:"resources" json:"resources"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at" json:"updated_at"`
}
