package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AuditAction identifies the admin or lifecycle action being recorded.
type AuditAction string

const (
	AuditListingCreated          AuditAction = "listing_created"
	AuditListingCancelled        AuditAction = "listing_cancelled"
	AuditListingApproved         AuditAction = "listing_approved"
	AuditListingQuantityAdjusted AuditAction = "listing_quantity_adjusted"
	AuditListingRejected         AuditAction = "listing_rejected"
	AuditListingFulfilled        AuditAction = "listing_fulfilled"
)

// AuditLog is an append-only record of admin actions. Write-only from the
// core's perspective.
type AuditLog struct {
	ID           primitive.ObjectID     `bson:"_id,omitempty" json:"id,omitempty"`
	Action       AuditAction            `bson:"action" json:"action"`
	EntityType   string                 `bson:"entityType" json:"entityType"`
	EntityID     primitive.ObjectID     `bson:"entityId" json:"entityId"`
	ActorID      primitive.ObjectID     `bson:"actorId,omitempty" json:"actorId,omitempty"`
	TargetUserID primitive.ObjectID     `bson:"targetUserId,omitempty" json:"targetUserId,omitempty"`
	OldValue     map[string]interface{} `bson:"oldValue,omitempty" json:"oldValue,omitempty"`
	NewValue     map[string]interface{} `bson:"newValue,omitempty" json:"newValue,omitempty"`
	Metadata     map[string]interface{} `bson:"metadata,omitempty" json:"metadata,omitempty"`
	IPAddress    string                 `bson:"ipAddress,omitempty" json:"ipAddress,omitempty"`
	UserAgent    string                 `bson:"userAgent,omitempty" json:"userAgent,omitempty"`
	CreatedAt    time.Time              `bson:"createdAt" json:"createdAt"`
}
