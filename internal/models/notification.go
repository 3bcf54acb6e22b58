package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type NotificationType string

const (
	NotifyGeneral    NotificationType = "general"
	NotifySystem     NotificationType = "system"
	NotifyEnrollment NotificationType = "enrollment"
	NotifyCourse     NotificationType = "course"
	NotifyAccount    NotificationType = "account"
)

// Notification belongs to one user. Records are never hard-deleted; the
// recipient only flips IsRead.
type Notification struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID    primitive.ObjectID `bson:"user_id" json:"user_id"`
	Type      NotificationType   `bson:"type" json:"type"`
	Title     string             `bson:"title" json:"title"`
	Message   string             `bson:"message" json:"message"`
	IsRead    bool               `bson:"is_read" json:"is_read"`
	ReadAt    *time.Time         `bson:"read_at,omitempty" json:"read_at,omitempty"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
}
