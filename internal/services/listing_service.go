package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/selotroca/selotroca-backend/internal/models"
	"github.com/selotroca/selotroca-backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/exp/slog"
)

// Compile-time check to ensure ListingServiceImpl implements ListingService
var _ ListingService = (*ListingServiceImpl)(nil)

// listingLifetime is how long a listing stays open before the sweeper
// expires it.
const listingLifetime = 7 * 24 * time.Hour

type ListingServiceImpl struct {
	listingRepo repositories.ListingRepository
	profileRepo repositories.ProfileRepository
	ledger      LedgerService
	audit       AuditService
}

func NewListingService(listingRepo repositories.ListingRepository, profileRepo repositories.ProfileRepository, ledger LedgerService, audit AuditService) *ListingServiceImpl {
	return &ListingServiceImpl{
		listingRepo: listingRepo,
		profileRepo: profileRepo,
		ledger:      ledger,
		audit:       audit,
	}
}

// Create posts a new listing. Offers start at pending_send and earn nothing
// until an admin validates the stamps; requests go straight to active and
// consume the owner's weekly quota up front.
func (s *ListingServiceImpl) Create(ctx context.Context, ownerID primitive.ObjectID, req *models.CreateListingRequest, audit AuditContext) (*models.StampListing, error) {
	// Advisory pre-check so the common conflict case fails before any quota
	// is consumed; the unique index remains the authority under races.
	existing, err := s.listingRepo.FindNonTerminalByUser(ctx, ownerID)
	if err != nil && !errors.Is(err, repositories.ErrNotFound) {
		return nil, fmt.Errorf("failed to check for open listings: %w", err)
	}
	if existing != nil {
		return nil, NewDomainError(CodeConflictingListing,
			"you already have an open %s listing", existing.Type)
	}

	now := time.Now()
	status := models.StatusPendingSend
	if req.Type == models.ListingTypeRequest {
		status = models.StatusActive
		if _, err := s.ledger.ConsumeWeeklyQuota(ctx, ownerID, req.Quantity); err != nil {
			return nil, err
		}
	}

	listing := &models.StampListing{
		UserID:     ownerID,
		Type:       req.Type,
		Quantity:   req.Quantity,
		Collection: req.Collection,
		Notes:      req.Notes,
		Status:     status,
		ExpiresAt:  now.Add(listingLifetime),
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := s.listingRepo.Create(ctx, listing); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return nil, NewDomainError(CodeConflictingListing, "you already have an open listing")
		}
		return nil, fmt.Errorf("failed to create listing: %w", err)
	}

	s.audit.ListingCreated(ctx, listing, audit)
	slog.Info("Listing created", "listingId", listing.ID.Hex(),
		"userId", ownerID.Hex(), "type", listing.Type, "quantity", listing.Quantity)
	return listing, nil
}

func (s *ListingServiceImpl) GetByID(ctx context.Context, id primitive.ObjectID) (*models.StampListing, error) {
	listing, err := s.listingRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrNotFound("listing")
		}
		return nil, fmt.Errorf("failed to fetch listing: %w", err)
	}
	s.attachOwners(ctx, []*models.StampListing{listing}, false)
	return listing, nil
}

// attachOwners joins each listing with its owner's public profile summary.
// Missing owners leave the summary nil rather than failing the read.
func (s *ListingServiceImpl) attachOwners(ctx context.Context, listings []*models.StampListing, withPhone bool) {
	cache := make(map[primitive.ObjectID]*models.ProfileSummary)
	for _, listing := range listings {
		if summary, ok := cache[listing.UserID]; ok {
			listing.User = summary
			continue
		}
		owner, err := s.profileRepo.FindByID(ctx, listing.UserID)
		if err != nil {
			slog.Warn("Listing owner not found", "listingId", listing.ID.Hex(), "userId", listing.UserID.Hex())
			continue
		}
		summary := owner.Summary(withPhone)
		cache[listing.UserID] = summary
		listing.User = summary
	}
}

// ListActive returns the marketplace view: active listings, optionally
// narrowed to one type, newest first.
func (s *ListingServiceImpl) ListActive(ctx context.Context, listingType models.ListingType) ([]*models.StampListing, error) {
	listings, err := s.listingRepo.FindAll(ctx, repositories.ListingFilter{
		Type:   listingType,
		Status: models.StatusActive,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list active listings: %w", err)
	}
	s.attachOwners(ctx, listings, false)
	return listings, nil
}

func (s *ListingServiceImpl) ListByUser(ctx context.Context, userID primitive.ObjectID) ([]*models.StampListing, error) {
	listings, err := s.listingRepo.FindAll(ctx, repositories.ListingFilter{UserID: userID})
	if err != nil {
		return nil, fmt.Errorf("failed to list user listings: %w", err)
	}
	s.attachOwners(ctx, listings, false)
	return listings, nil
}

// ConfirmSent is the owner's declaration that the offered stamps are in the
// mail, moving the offer into the admin validation queue.
func (s *ListingServiceImpl) ConfirmSent(ctx context.Context, id, actorID primitive.ObjectID) (*models.StampListing, error) {
	listing, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if listing.UserID != actorID {
		return nil, ErrForbidden("not your listing")
	}
	if listing.Status != models.StatusPendingSend {
		return nil, ErrInvalidTransition("listing is not awaiting a send confirmation")
	}

	ok, err := s.listingRepo.TransitionStatus(ctx, id,
		[]models.ListingStatus{models.StatusPendingSend},
		repositories.ListingPatch{Status: models.StatusPendingValidation})
	if err != nil {
		return nil, fmt.Errorf("failed to confirm listing as sent: %w", err)
	}
	if !ok {
		return nil, ErrInvalidTransition("listing is not awaiting a send confirmation")
	}
	return s.GetByID(ctx, id)
}

// Cancel closes the owner's own listing. An offer that already went through
// approval had its balance awarded, so cancelling it from active reverses
// the award; pre-approval offers and requests reverse nothing.
func (s *ListingServiceImpl) Cancel(ctx context.Context, id, actorID primitive.ObjectID, audit AuditContext) (*models.StampListing, error) {
	listing, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if listing.UserID != actorID {
		return nil, ErrForbidden("not your listing")
	}
	if listing.Status.IsTerminal() {
		return nil, ErrInvalidTransition("listing cannot be cancelled in its current status")
	}

	// Claim the transition from active first so the reversal decision is
	// made on the status that actually held at cancellation time.
	wasActive, err := s.listingRepo.TransitionStatus(ctx, id,
		[]models.ListingStatus{models.StatusActive},
		repositories.ListingPatch{Status: models.StatusCancelled})
	if err != nil {
		return nil, fmt.Errorf("failed to cancel listing: %w", err)
	}
	if !wasActive {
		ok, err := s.listingRepo.TransitionStatus(ctx, id,
			[]models.ListingStatus{models.StatusPendingSend, models.StatusPendingValidation},
			repositories.ListingPatch{Status: models.StatusCancelled})
		if err != nil {
			return nil, fmt.Errorf("failed to cancel listing: %w", err)
		}
		if !ok {
			return nil, ErrInvalidTransition("listing cannot be cancelled in its current status")
		}
	}

	if wasActive && listing.Type == models.ListingTypeOffer {
		if _, err := s.ledger.ReverseOfferBalance(ctx, listing.UserID, listing.Quantity); err != nil {
			return nil, err
		}
	}

	s.audit.ListingCancelled(ctx, listing, audit)
	slog.Info("Listing cancelled", "listingId", id.Hex(), "userId", actorID.Hex())
	return s.GetByID(ctx, id)
}

// Fulfill completes an active listing on behalf of a counter-party.
func (s *ListingServiceImpl) Fulfill(ctx context.Context, id, fulfillerID primitive.ObjectID, audit AuditContext) (*models.StampListing, error) {
	listing, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if listing.UserID == fulfillerID {
		return nil, ErrForbidden("cannot fulfill your own listing")
	}
	if listing.Status != models.StatusActive {
		return nil, ErrInvalidTransition("listing is not active")
	}

	now := time.Now()
	ok, err := s.listingRepo.TransitionStatus(ctx, id,
		[]models.ListingStatus{models.StatusActive},
		repositories.ListingPatch{
			Status:      models.StatusFulfilled,
			FulfilledBy: &fulfillerID,
			FulfilledAt: &now,
		})
	if err != nil {
		return nil, fmt.Errorf("failed to fulfill listing: %w", err)
	}
	if !ok {
		return nil, ErrInvalidTransition("listing is not active")
	}

	if _, err := s.ledger.CompleteListingPoints(ctx, listing, fulfillerID); err != nil {
		return nil, err
	}

	s.audit.ListingFulfilled(ctx, listing, audit)
	return s.GetByID(ctx, id)
}

// ListPendingValidation returns the admin validation queue, oldest first.
func (s *ListingServiceImpl) ListPendingValidation(ctx context.Context) ([]*models.StampListing, error) {
	listings, err := s.listingRepo.FindAll(ctx, repositories.ListingFilter{
		Type:        models.ListingTypeOffer,
		Status:      models.StatusPendingValidation,
		OldestFirst: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list pending offers: %w", err)
	}
	// Admins see the owner's phone to match incoming envelopes to offers.
	s.attachOwners(ctx, listings, true)
	return listings, nil
}

// ListActiveRequests returns the admin dispatch queue of active requests,
// oldest first.
func (s *ListingServiceImpl) ListActiveRequests(ctx context.Context) ([]*models.StampListing, error) {
	listings, err := s.listingRepo.FindAll(ctx, repositories.ListingFilter{
		Type:        models.ListingTypeRequest,
		Status:      models.StatusActive,
		OldestFirst: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list active requests: %w", err)
	}
	// Admins see the requester's phone to address outgoing envelopes.
	s.attachOwners(ctx, listings, true)
	return listings, nil
}

// ApproveOffer validates a received offer and credits the owner. The admin
// may override the quantity when the received stamps differ from what the
// owner declared; the award uses the approved quantity.
func (s *ListingServiceImpl) ApproveOffer(ctx context.Context, id primitive.ObjectID, req *models.ApproveOfferRequest, audit AuditContext) (*models.ApproveOfferResponse, error) {
	listing, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if listing.Type != models.ListingTypeOffer {
		return nil, ErrInvalidTransition("only offers can be approved")
	}
	if listing.Status != models.StatusPendingValidation {
		return nil, ErrInvalidTransition("offer is not pending validation")
	}

	finalQuantity := listing.Quantity
	if req != nil && req.Quantity > 0 {
		finalQuantity = req.Quantity
	}

	now := time.Now()
	ok, err := s.listingRepo.TransitionStatus(ctx, id,
		[]models.ListingStatus{models.StatusPendingValidation},
		repositories.ListingPatch{
			Status:      models.StatusFulfilled,
			Quantity:    &finalQuantity,
			ValidatedBy: &audit.ActorID,
			ValidatedAt: &now,
		})
	if err != nil {
		return nil, fmt.Errorf("failed to approve offer: %w", err)
	}
	if !ok {
		return nil, ErrInvalidTransition("offer is not pending validation")
	}

	if _, err := s.ledger.AwardOfferBalance(ctx, listing.UserID, finalQuantity); err != nil {
		return nil, err
	}

	s.audit.OfferApproved(ctx, listing, listing.Quantity, finalQuantity, audit)

	updated, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return &models.ApproveOfferResponse{
		Offer:            updated,
		QuantityAdjusted: finalQuantity != listing.Quantity,
		OriginalQuantity: listing.Quantity,
	}, nil
}

// RejectOffer declines a received offer, recording the reason. No balance
// was awarded yet, so nothing is reversed.
func (s *ListingServiceImpl) RejectOffer(ctx context.Context, id primitive.ObjectID, req *models.RejectOfferRequest, audit AuditContext) (*models.StampListing, error) {
	listing, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if listing.Type != models.ListingTypeOffer {
		return nil, ErrInvalidTransition("only offers can be rejected")
	}
	if listing.Status != models.StatusPendingValidation {
		return nil, ErrInvalidTransition("offer is not pending validation")
	}

	reason := ""
	if req != nil {
		reason = req.Reason
	}

	ok, err := s.listingRepo.TransitionStatus(ctx, id,
		[]models.ListingStatus{models.StatusPendingValidation},
		repositories.ListingPatch{
			Status:          models.StatusRejected,
			RejectionReason: &reason,
		})
	if err != nil {
		return nil, fmt.Errorf("failed to reject offer: %w", err)
	}
	if !ok {
		return nil, ErrInvalidTransition("offer is not pending validation")
	}

	s.audit.OfferRejected(ctx, listing, reason, audit)
	return s.GetByID(ctx, id)
}

// AdminFulfillRequest completes an active request from the back office,
// typically after stamps were dispatched from the platform's own pool.
func (s *ListingServiceImpl) AdminFulfillRequest(ctx context.Context, id primitive.ObjectID, audit AuditContext) (*models.StampListing, error) {
	listing, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if listing.Type != models.ListingTypeRequest {
		return nil, ErrInvalidTransition("only requests can be fulfilled by an admin")
	}
	if listing.Status != models.StatusActive {
		return nil, ErrInvalidTransition("request is not active")
	}

	now := time.Now()
	ok, err := s.listingRepo.TransitionStatus(ctx, id,
		[]models.ListingStatus{models.StatusActive},
		repositories.ListingPatch{
			Status:      models.StatusFulfilled,
			FulfilledBy: &audit.ActorID,
			FulfilledAt: &now,
		})
	if err != nil {
		return nil, fmt.Errorf("failed to fulfill request: %w", err)
	}
	if !ok {
		return nil, ErrInvalidTransition("request is not active")
	}

	if _, err := s.ledger.AdminFulfillRequestPoints(ctx, listing, audit.ActorID); err != nil {
		return nil, err
	}

	s.audit.ListingFulfilled(ctx, listing, audit)
	return s.GetByID(ctx, id)
}

// ExpireStale sweeps listings past their expiry into the expired state.
func (s *ListingServiceImpl) ExpireStale(ctx context.Context) (int64, error) {
	swept, err := s.listingRepo.ExpireStale(ctx, time.Now())
	if err != nil {
		return 0, fmt.Errorf("failed to expire stale listings: %w", err)
	}
	if swept > 0 {
		slog.Info("Expired stale listings", "count", swept)
	}
	return swept, nil
}
