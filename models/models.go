package models

import (
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

type User struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Email     string             `bson:"email" json:"email"`
	Password  string             `bson:"password" json:"-"`
	Role      string             `bson:"role" json:"role"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
}

type Note struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title     string             `bson:"title" json:"title"`
	Content   string             `bson:"content" json:"content"`
	Priority  string             `bson:"priority" json:"priority"`
	Category  string             `bson:"category" json:"category"`
	UserID    primitive.ObjectID `bson:"userId" json:"userId"`
	Author    string             `bson:"author" json:"author"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// Session maps an opaque cookie token to the identity it was issued for.
type Session struct {
	Token     string             `bson:"_id" json:"token"`
	UserID    primitive.ObjectID `bson:"userId" json:"userId"`
	Role      string             `bson:"role" json:"role"`
	Email     string             `bson:"email" json:"email"`
	ExpiresAt time.Time          `bson:"expiresAt" json:"expiresAt"`
}

type ContactMessage struct {
	Email       string    `json:"email"`
	Message     string    `json:"message"`
	SubmittedAt time.Time `json:"submittedAt"`
}

// Caller is the resolved identity of the party making a request.
type Caller struct {
	ID    primitive.ObjectID
	Role  string
	Email string
}

func (c Caller) IsAdmin() bool {
	return c.Role == RoleAdmin
}

// AuthorName returns the local part of the caller's email, used as the
// display author on notes.
func (c Caller) AuthorName() string {
	if i := strings.Index(c.Email, "@"); i >= 0 {
		return c.Email[:i]
	}
	return c.Email
}
