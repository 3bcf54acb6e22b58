package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Role string

const (
	RoleStudent    Role = "student"
	RoleInstructor Role = "instructor"
	RoleAdmin      Role = "admin"
	RoleSuperadmin Role = "superadmin"
)

func (r Role) Valid() bool {
	switch r {
	case RoleStudent, RoleInstructor, RoleAdmin, RoleSuperadmin:
		return true
	}
	return false
}

type UserStatus string

const (
	UserActive UserStatus = "active"
	UserBanned UserStatus = "banned"
)

type InstructorRequest string

const (
	InstructorNone      InstructorRequest = "none"
	InstructorRequested InstructorRequest = "requested"
	InstructorApproved  InstructorRequest = "approved"
)

// User is an account in the marketplace. OTP codes live in Redis with a TTL,
// not on the document.
type User struct {
	ID                primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Username          string             `bson:"username" json:"username"`
	Email             string             `bson:"email" json:"email"`
	PasswordHash      string             `bson:"password_hash" json:"-"`
	Role              Role               `bson:"role" json:"role"`
	Status            UserStatus         `bson:"status" json:"status"`
	InstructorRequest InstructorRequest  `bson:"instructor_request" json:"instructor_request"`
	Verified          bool               `bson:"verified" json:"verified"`
	CreatedAt         time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt         time.Time          `bson:"updated_at" json:"updated_at"`
}
