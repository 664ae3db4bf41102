package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Session is an opaque-token login session for a profile. Expires 24 hours
// after creation; lastActiveAt is touched on every authenticated request.
type Session struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	UserID       primitive.ObjectID `bson:"userId" json:"userId"`
	Token        string             `bson:"token" json:"token"`
	ExpiresAt    time.Time          `bson:"expiresAt" json:"expiresAt"`
	UserAgent    string             `bson:"userAgent,omitempty" json:"userAgent,omitempty"`
	IPAddress    string             `bson:"ipAddress,omitempty" json:"ipAddress,omitempty"`
	LastActiveAt time.Time          `bson:"lastActiveAt" json:"lastActiveAt"`
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`
}

// IsExpired reports whether the session is past its expiry.
func (s *Session) IsExpired() bool {
	return s.ExpiresAt.Before(time.Now())
}
