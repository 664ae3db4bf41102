package services

import (
	"context"
	"time"

	"github.com/selotroca/selotroca-backend/internal/models"
	"github.com/selotroca/selotroca-backend/internal/repositories"
	"golang.org/x/exp/slog"
)

// Compile-time check to ensure AuditServiceImpl implements AuditService
var _ AuditService = (*AuditServiceImpl)(nil)

// AuditService records listing lifecycle events in the append-only audit
// trail. Recording failures are logged and swallowed so an audit outage
// never blocks the transition itself.
type AuditService interface {
	ListingCreated(ctx context.Context, listing *models.StampListing, audit AuditContext)
	ListingCancelled(ctx context.Context, listing *models.StampListing, audit AuditContext)
	OfferApproved(ctx context.Context, listing *models.StampListing, originalQuantity, approvedQuantity int, audit AuditContext)
	OfferRejected(ctx context.Context, listing *models.StampListing, reason string, audit AuditContext)
	ListingFulfilled(ctx context.Context, listing *models.StampListing, audit AuditContext)
}

type AuditServiceImpl struct {
	auditRepo repositories.AuditLogRepository
}

func NewAuditService(auditRepo repositories.AuditLogRepository) *AuditServiceImpl {
	return &AuditServiceImpl{auditRepo: auditRepo}
}

func (s *AuditServiceImpl) record(ctx context.Context, entry *models.AuditLog, audit AuditContext) {
	entry.ActorID = audit.ActorID
	entry.IPAddress = audit.IPAddress
	entry.UserAgent = audit.UserAgent
	entry.CreatedAt = time.Now()

	if err := s.auditRepo.Create(ctx, entry); err != nil {
		slog.Error("Failed to write audit log entry", "error", err,
			"action", entry.Action, "entityId", entry.EntityID.Hex())
	}
}

func (s *AuditServiceImpl) ListingCreated(ctx context.Context, listing *models.StampListing, audit AuditContext) {
	s.record(ctx, &models.AuditLog{
		Action:       models.AuditListingCreated,
		EntityType:   "listing",
		EntityID:     listing.ID,
		TargetUserID: listing.UserID,
		NewValue: map[string]interface{}{
			"type":     listing.Type,
			"quantity": listing.Quantity,
		},
	}, audit)
}

func (s *AuditServiceImpl) ListingCancelled(ctx context.Context, listing *models.StampListing, audit AuditContext) {
	s.record(ctx, &models.AuditLog{
		Action:       models.AuditListingCancelled,
		EntityType:   "listing",
		EntityID:     listing.ID,
		TargetUserID: listing.UserID,
		Metadata: map[string]interface{}{
			"type":     listing.Type,
			"quantity": listing.Quantity,
		},
	}, audit)
}

// OfferApproved records an approval; a quantity change is recorded under a
// distinct action so the back office can filter for adjustments.
func (s *AuditServiceImpl) OfferApproved(ctx context.Context, listing *models.StampListing, originalQuantity, approvedQuantity int, audit AuditContext) {
	action := models.AuditListingApproved
	wasAdjusted := originalQuantity != approvedQuantity
	if wasAdjusted {
		action = models.AuditListingQuantityAdjusted
	}

	s.record(ctx, &models.AuditLog{
		Action:       action,
		EntityType:   "listing",
		EntityID:     listing.ID,
		TargetUserID: listing.UserID,
		OldValue:     map[string]interface{}{"quantity": originalQuantity},
		NewValue:     map[string]interface{}{"quantity": approvedQuantity},
		Metadata:     map[string]interface{}{"wasAdjusted": wasAdjusted},
	}, audit)
}

func (s *AuditServiceImpl) OfferRejected(ctx context.Context, listing *models.StampListing, reason string, audit AuditContext) {
	s.record(ctx, &models.AuditLog{
		Action:       models.AuditListingRejected,
		EntityType:   "listing",
		EntityID:     listing.ID,
		TargetUserID: listing.UserID,
		Metadata:     map[string]interface{}{"reason": reason},
	}, audit)
}

func (s *AuditServiceImpl) ListingFulfilled(ctx context.Context, listing *models.StampListing, audit AuditContext) {
	s.record(ctx, &models.AuditLog{
		Action:       models.AuditListingFulfilled,
		EntityType:   "listing",
		EntityID:     listing.ID,
		TargetUserID: listing.UserID,
		Metadata:     map[string]interface{}{"quantity": listing.Quantity},
	}, audit)
}
