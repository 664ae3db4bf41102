package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// StampCollection is a catalog of redeemable items tied to a campaign window.
type StampCollection struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Name        string             `bson:"name" json:"name"`
	Description string             `bson:"description,omitempty" json:"description,omitempty"`
	ImageURL    string             `bson:"imageUrl,omitempty" json:"imageUrl,omitempty"`
	StartsAt    time.Time          `bson:"startsAt" json:"startsAt"`
	EndsAt      time.Time          `bson:"endsAt" json:"endsAt"`
	IsActive    bool               `bson:"isActive" json:"isActive"`
	SortOrder   int                `bson:"sortOrder" json:"sortOrder"`
	CreatedBy   primitive.ObjectID `bson:"createdBy,omitempty" json:"createdBy,omitempty"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt" json:"updatedAt"`

	Items []*CollectionItem `bson:"items,omitempty" json:"items,omitempty"`
}

// CollectionItem is a single redeemable product inside a collection.
type CollectionItem struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	CollectionID primitive.ObjectID `bson:"collectionId" json:"collectionId"`
	Name         string             `bson:"name" json:"name"`
	Subtitle     string             `bson:"subtitle,omitempty" json:"subtitle,omitempty"`
	ImageURL     string             `bson:"imageUrl,omitempty" json:"imageUrl,omitempty"`
	SortOrder    int                `bson:"sortOrder" json:"sortOrder"`
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time          `bson:"updatedAt" json:"updatedAt"`

	Options []*RedemptionOption `bson:"options,omitempty" json:"options,omitempty"`
}

// RedemptionOption is one way to redeem an item: a stamp count plus an
// optional euro fee.
type RedemptionOption struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	ItemID         primitive.ObjectID `bson:"itemId" json:"itemId"`
	StampsRequired int                `bson:"stampsRequired" json:"stampsRequired"`
	FeeEuros       float64            `bson:"feeEuros" json:"feeEuros"`
	Label          string             `bson:"label,omitempty" json:"label,omitempty"`
	SortOrder      int                `bson:"sortOrder" json:"sortOrder"`
	CreatedAt      time.Time          `bson:"createdAt" json:"createdAt"`
}

// CreateCollectionRequest defines the structure for collection create/update requests
type CreateCollectionRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description,omitempty"`
	ImageURL    string `json:"imageUrl,omitempty"`
	StartsAt    string `json:"startsAt" binding:"required"`
	EndsAt      string `json:"endsAt" binding:"required"`
	IsActive    *bool  `json:"isActive,omitempty"`
	SortOrder   int    `json:"sortOrder,omitempty"`
}

// UpdateCollectionRequest is the partial form of CreateCollectionRequest.
type UpdateCollectionRequest struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
	ImageURL    *string `json:"imageUrl,omitempty"`
	StartsAt    *string `json:"startsAt,omitempty"`
	EndsAt      *string `json:"endsAt,omitempty"`
	IsActive    *bool   `json:"isActive,omitempty"`
	SortOrder   *int    `json:"sortOrder,omitempty"`
}

// CreateCollectionItemRequest defines the structure for item create/update requests
type CreateCollectionItemRequest struct {
	Name      string `json:"name" binding:"required"`
	Subtitle  string `json:"subtitle,omitempty"`
	ImageURL  string `json:"imageUrl,omitempty"`
	SortOrder int    `json:"sortOrder,omitempty"`
}

// UpdateCollectionItemRequest is the partial form of CreateCollectionItemRequest.
type UpdateCollectionItemRequest struct {
	Name      *string `json:"name,omitempty"`
	Subtitle  *string `json:"subtitle,omitempty"`
	ImageURL  *string `json:"imageUrl,omitempty"`
	SortOrder *int    `json:"sortOrder,omitempty"`
}

// CreateRedemptionOptionRequest defines the structure for option creation requests
type CreateRedemptionOptionRequest struct {
	StampsRequired int     `json:"stampsRequired" binding:"required,gt=0"`
	FeeEuros       float64 `json:"feeEuros,omitempty" binding:"omitempty,gte=0"`
	Label          string  `json:"label,omitempty"`
	SortOrder      int     `json:"sortOrder,omitempty"`
}
