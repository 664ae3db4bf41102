package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ListingType distinguishes offers (owner supplies stamps) from requests
// (owner asks to receive stamps).
type ListingType string

const (
	ListingTypeOffer   ListingType = "offer"
	ListingTypeRequest ListingType = "request"
)

// ListingStatus is the state of a listing in its lifecycle.
// Offers start at pending_send and move through pending_validation;
// requests start directly at active. Terminal states are immutable.
type ListingStatus string

const (
	StatusPendingSend       ListingStatus = "pending_send"
	StatusPendingValidation ListingStatus = "pending_validation"
	StatusActive            ListingStatus = "active"
	StatusFulfilled         ListingStatus = "fulfilled"
	StatusCancelled         ListingStatus = "cancelled"
	StatusRejected          ListingStatus = "rejected"
	StatusExpired           ListingStatus = "expired"
)

// NonTerminalStatuses are the statuses that count against the
// one-listing-per-user invariant.
var NonTerminalStatuses = []ListingStatus{StatusPendingSend, StatusPendingValidation, StatusActive}

// IsTerminal reports whether a listing in this status can never transition again.
func (s ListingStatus) IsTerminal() bool {
	switch s {
	case StatusFulfilled, StatusCancelled, StatusRejected, StatusExpired:
		return true
	}
	return false
}

// StampListing represents a single offer or request posted by a profile.
type StampListing struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	UserID          primitive.ObjectID `bson:"userId" json:"userId"`
	Type            ListingType        `bson:"type" json:"type"`
	Quantity        int                `bson:"quantity" json:"quantity"`
	Collection      string             `bson:"collection,omitempty" json:"collection,omitempty"`
	Notes           string             `bson:"notes,omitempty" json:"notes,omitempty"`
	Status          ListingStatus      `bson:"status" json:"status"`
	FulfilledBy     primitive.ObjectID `bson:"fulfilledBy,omitempty" json:"fulfilledBy,omitempty"`
	FulfilledAt     *time.Time         `bson:"fulfilledAt,omitempty" json:"fulfilledAt,omitempty"`
	ValidatedBy     primitive.ObjectID `bson:"validatedBy,omitempty" json:"validatedBy,omitempty"`
	ValidatedAt     *time.Time         `bson:"validatedAt,omitempty" json:"validatedAt,omitempty"`
	RejectionReason string             `bson:"rejectionReason,omitempty" json:"rejectionReason,omitempty"`
	ExpiresAt       time.Time          `bson:"expiresAt" json:"expiresAt"`
	CreatedAt       time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt       time.Time          `bson:"updatedAt" json:"updatedAt"`

	// User is the owner's profile summary, populated on read paths that
	// join against the profiles collection.
	User *ProfileSummary `bson:"user,omitempty" json:"user,omitempty"`
}

// CreateListingRequest defines the structure for listing creation requests
type CreateListingRequest struct {
	Type       ListingType `json:"type" binding:"required,oneof=offer request"`
	Quantity   int         `json:"quantity" binding:"required,gt=0"`
	Collection string      `json:"collection,omitempty"`
	Notes      string      `json:"notes,omitempty"`
}

// ApproveOfferRequest carries the optional admin-adjusted quantity.
type ApproveOfferRequest struct {
	Quantity int `json:"quantity,omitempty" binding:"omitempty,gt=0"`
}

// RejectOfferRequest carries the optional rejection reason.
type RejectOfferRequest struct {
	Reason string `json:"reason,omitempty"`
}

// ListingResponse wraps a listing for API responses.
type ListingResponse struct {
	Listing *StampListing `json:"listing"`
}

// ApproveOfferResponse reports the approval outcome, including whether the
// admin adjusted the quantity away from what the owner declared.
type ApproveOfferResponse struct {
	Offer            *StampListing `json:"offer"`
	QuantityAdjusted bool          `json:"quantityAdjusted"`
	OriginalQuantity int           `json:"originalQuantity"`
}
