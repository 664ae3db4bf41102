package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SendOtpRequest defines the structure for OTP send requests
type SendOtpRequest struct {
	Phone string `json:"phone" binding:"required,min=9"`
}

// SendOtpResponse reports the normalized phone the code was issued for.
// DevCode is only populated when the SMS gateway runs in mock mode.
type SendOtpResponse struct {
	Success bool   `json:"success"`
	Phone   string `json:"phone"`
	DevCode string `json:"devCode,omitempty"`
}

// VerifyOtpRequest defines the structure for OTP verification requests
type VerifyOtpRequest struct {
	Phone string `json:"phone" binding:"required,min=9"`
	Code  string `json:"code" binding:"required,len=6"`
}

// VerifyOtpResponse carries the session token and the (possibly newly
// created) profile after a successful verification.
type VerifyOtpResponse struct {
	Success   bool      `json:"success"`
	IsNewUser bool      `json:"isNewUser"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
	Profile   *Profile  `json:"profile"`
}

// LoginRequest defines the structure for back-office login requests
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// AdminUser represents a back-office operator account (separate from
// marketplace profiles). Passwords are stored as bcrypt hashes.
type AdminUser struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Name         string             `bson:"name" json:"name"`
	Email        string             `bson:"email" json:"email"`
	PasswordHash string             `bson:"passwordHash" json:"-"`
	Role         string             `bson:"role" json:"role"`
	IsActive     bool               `bson:"isActive" json:"isActive"`
	LastLoginAt  *time.Time         `bson:"lastLoginAt,omitempty" json:"lastLoginAt,omitempty"`
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// CreateAdminUserRequest defines the structure for back-office account creation
type CreateAdminUserRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	Role     string `json:"role,omitempty"`
}
