package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Profile represents a participant account in the stamp exchange.
// Points, level and tier are derived by the gamification formulas and
// rewritten on every ledger mutation.
type Profile struct {
	ID                    primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Phone                 string             `bson:"phone" json:"phone"`
	DisplayName           string             `bson:"displayName,omitempty" json:"displayName,omitempty"`
	Email                 string             `bson:"email,omitempty" json:"email,omitempty"`
	District              string             `bson:"district,omitempty" json:"district,omitempty"`
	RegistrationComplete  bool               `bson:"registrationComplete" json:"registrationComplete"`
	IsAdmin               bool               `bson:"isAdmin" json:"isAdmin"`
	Points                int                `bson:"points" json:"points"`
	Level                 int                `bson:"level" json:"level"`
	Tier                  int                `bson:"tier" json:"tier"`
	StampBalance          int                `bson:"stampBalance" json:"stampBalance"`
	WeeklyStampsRequested int                `bson:"weeklyStampsRequested" json:"weeklyStampsRequested"`
	WeeklyResetAt         time.Time          `bson:"weeklyResetAt" json:"weeklyResetAt"`
	TotalOffered          int                `bson:"totalOffered" json:"totalOffered"`
	TotalRequested        int                `bson:"totalRequested" json:"totalRequested"`
	CreatedAt             time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt             time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// ProfileSummary is the public subset of a profile embedded in listing responses.
type ProfileSummary struct {
	ID          primitive.ObjectID `bson:"_id" json:"id"`
	DisplayName string             `bson:"displayName,omitempty" json:"displayName,omitempty"`
	Phone       string             `bson:"phone,omitempty" json:"phone,omitempty"`
	Level       int                `bson:"level" json:"level"`
	Tier        int                `bson:"tier" json:"tier"`
	Points      int                `bson:"points" json:"points"`
}

// Summary projects the public fields of a profile. Phone is included only
// when withPhone is set (admin views).
func (p *Profile) Summary(withPhone bool) *ProfileSummary {
	s := &ProfileSummary{
		ID:          p.ID,
		DisplayName: p.DisplayName,
		Level:       p.Level,
		Tier:        p.Tier,
		Points:      p.Points,
	}
	if withPhone {
		s.Phone = p.Phone
	}
	return s
}

// UpdateProfileRequest defines the structure for profile update requests
type UpdateProfileRequest struct {
	DisplayName          *string `json:"displayName,omitempty" binding:"omitempty,min=2"`
	Email                *string `json:"email,omitempty" binding:"omitempty,email"`
	District             *string `json:"district,omitempty"`
	RegistrationComplete *bool   `json:"registrationComplete,omitempty"`
}

// QuotaStatus reports a profile's remaining weekly request allowance.
type QuotaStatus struct {
	Allowance     int       `json:"allowance"`
	Used          int       `json:"used"`
	Remaining     int       `json:"remaining"`
	ResetAt       time.Time `json:"resetAt"`
	MaxPerRequest int       `json:"maxPerRequest"`
}

// LeaderboardEntry is a profile row in the points leaderboard.
type LeaderboardEntry struct {
	ID             primitive.ObjectID `bson:"_id" json:"id"`
	DisplayName    string             `bson:"displayName,omitempty" json:"displayName,omitempty"`
	District       string             `bson:"district,omitempty" json:"district,omitempty"`
	Points         int                `bson:"points" json:"points"`
	Level          int                `bson:"level" json:"level"`
	Tier           int                `bson:"tier" json:"tier"`
	TotalOffered   int                `bson:"totalOffered" json:"totalOffered"`
	TotalRequested int                `bson:"totalRequested" json:"totalRequested"`
}
