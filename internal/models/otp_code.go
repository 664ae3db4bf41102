package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// OtpCode is a one-time verification code sent to a phone number.
// A code is consumed on successful verification or invalidated when a
// newer code is issued for the same phone.
type OtpCode struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Phone     string             `bson:"phone" json:"phone"`
	Code      string             `bson:"code" json:"-"`
	Attempts  int                `bson:"attempts" json:"attempts"`
	Used      bool               `bson:"used" json:"used"`
	ExpiresAt time.Time          `bson:"expiresAt" json:"expiresAt"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
}
