package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// StampTransaction is an immutable ledger record of a completed exchange.
// Created exactly once per fulfillment; never mutated or deleted.
type StampTransaction struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	FromUserID primitive.ObjectID `bson:"fromUserId" json:"fromUserId"`
	ToUserID   primitive.ObjectID `bson:"toUserId" json:"toUserId"`
	ListingID  primitive.ObjectID `bson:"listingId" json:"listingId"`
	Type       ListingType        `bson:"type" json:"type"`
	Quantity   int                `bson:"quantity" json:"quantity"`
	PointsFrom int                `bson:"pointsFrom" json:"pointsFrom"`
	PointsTo   int                `bson:"pointsTo" json:"pointsTo"`
	CreatedAt  time.Time          `bson:"createdAt" json:"createdAt"`
}
