package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/selotroca/selotroca-backend/internal/gamification"
	"github.com/selotroca/selotroca-backend/internal/models"
	"github.com/selotroca/selotroca-backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/exp/slog"
)

// Compile-time check to ensure LedgerServiceImpl implements LedgerService
var _ LedgerService = (*LedgerServiceImpl)(nil)

// maxLedgerRetries bounds the compare-and-swap retry loop on profile writes.
const maxLedgerRetries = 5

// weeklyQuotaWindow is the length of the rolling request-quota window.
const weeklyQuotaWindow = 7 * 24 * time.Hour

type LedgerServiceImpl struct {
	profileRepo     repositories.ProfileRepository
	transactionRepo repositories.TransactionRepository
}

func NewLedgerService(profileRepo repositories.ProfileRepository, transactionRepo repositories.TransactionRepository) *LedgerServiceImpl {
	return &LedgerServiceImpl{
		profileRepo:     profileRepo,
		transactionRepo: transactionRepo,
	}
}

// mutateProfile runs a read-compute-write cycle under a compare-and-swap
// guard on the points column, retrying on contention. The mutate callback
// receives the freshly read profile and returns the patch to apply, or a
// business error that aborts the loop.
func (s *LedgerServiceImpl) mutateProfile(ctx context.Context, userID primitive.ObjectID, mutate func(p *models.Profile) (repositories.LedgerPatch, error)) (*models.Profile, error) {
	for attempt := 1; attempt <= maxLedgerRetries; attempt++ {
		profile, err := s.profileRepo.FindByID(ctx, userID)
		if err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return nil, ErrNotFound("profile")
			}
			return nil, fmt.Errorf("failed to read profile: %w", err)
		}

		patch, err := mutate(profile)
		if err != nil {
			return nil, err
		}

		ok, err := s.profileRepo.ApplyLedgerPatch(ctx, userID, profile.Points, patch)
		if err != nil {
			return nil, fmt.Errorf("failed to write ledger patch: %w", err)
		}
		if ok {
			updated, err := s.profileRepo.FindByID(ctx, userID)
			if err != nil {
				return nil, fmt.Errorf("failed to re-read profile after ledger write: %w", err)
			}
			return updated, nil
		}

		slog.Warn("Ledger write lost the compare-and-swap race, retrying",
			"userId", userID.Hex(), "attempt", attempt)
	}
	return nil, fmt.Errorf("ledger write for profile %s did not settle after %d attempts", userID.Hex(), maxLedgerRetries)
}

// AwardOfferBalance credits the owner of an approved offer: the stamps enter
// their balance and each stamp earns offer points.
func (s *LedgerServiceImpl) AwardOfferBalance(ctx context.Context, userID primitive.ObjectID, quantity int) (*models.Profile, error) {
	profile, err := s.mutateProfile(ctx, userID, func(p *models.Profile) (repositories.LedgerPatch, error) {
		points := p.Points + quantity*gamification.PointsPerOfferedStamp
		level := gamification.CalculateLevel(points)
		return repositories.LedgerPatch{
			Points:            points,
			Level:             level,
			Tier:              gamification.CalculateTier(level),
			StampBalanceDelta: quantity,
			TotalOfferedDelta: 1,
		}, nil
	})
	if err != nil {
		return nil, err
	}
	slog.Info("Awarded offer balance", "userId", userID.Hex(), "quantity", quantity, "points", profile.Points)
	return profile, nil
}

// ReverseOfferBalance undoes an earlier award when an active offer is
// cancelled. Points are floored at zero; the state machine guarantees this
// runs at most once per listing.
func (s *LedgerServiceImpl) ReverseOfferBalance(ctx context.Context, userID primitive.ObjectID, quantity int) (*models.Profile, error) {
	profile, err := s.mutateProfile(ctx, userID, func(p *models.Profile) (repositories.LedgerPatch, error) {
		points := p.Points - quantity*gamification.PointsPerOfferedStamp
		if points < 0 {
			points = 0
		}
		level := gamification.CalculateLevel(points)
		return repositories.LedgerPatch{
			Points:            points,
			Level:             level,
			Tier:              gamification.CalculateTier(level),
			StampBalanceDelta: -quantity,
			TotalOfferedDelta: -1,
		}, nil
	})
	if err != nil {
		return nil, err
	}
	slog.Info("Reversed offer balance", "userId", userID.Hex(), "quantity", quantity, "points", profile.Points)
	return profile, nil
}

// ConsumeWeeklyQuota validates a request's quantity against the remaining
// weekly allowance and consumes it in the same write. A lapsed window is
// reset here: the counter restarts at the requested quantity and the next
// reset moves one week out.
func (s *LedgerServiceImpl) ConsumeWeeklyQuota(ctx context.Context, userID primitive.ObjectID, quantity int) (*models.Profile, error) {
	now := time.Now()
	return s.mutateProfile(ctx, userID, func(p *models.Profile) (repositories.LedgerPatch, error) {
		if quantity > gamification.MaxWeeklyRequest {
			return repositories.LedgerPatch{}, NewDomainError(CodeQuotaExceeded,
				"quantity %d exceeds the per-request ceiling of %d stamps", quantity, gamification.MaxWeeklyRequest)
		}

		remaining := gamification.AvailableRequestQuota(gamification.QuotaProfile{
			Tier:                  p.Tier,
			WeeklyStampsRequested: p.WeeklyStampsRequested,
			StampBalance:          p.StampBalance,
			WeeklyResetAt:         p.WeeklyResetAt,
		}, now)
		if quantity > remaining {
			return repositories.LedgerPatch{}, NewDomainError(CodeQuotaExceeded,
				"quantity %d exceeds the remaining weekly quota of %d stamps", quantity, remaining)
		}

		requested := p.WeeklyStampsRequested + quantity
		resetAt := p.WeeklyResetAt
		if now.After(p.WeeklyResetAt) {
			requested = quantity
			resetAt = now.Add(weeklyQuotaWindow)
		}

		return repositories.LedgerPatch{
			Points:                p.Points,
			Level:                 p.Level,
			Tier:                  p.Tier,
			WeeklyStampsRequested: &requested,
			WeeklyResetAt:         &resetAt,
		}, nil
	})
}

// CompleteListingPoints settles a peer fulfillment. For an offer the owner
// was already credited at approval time, so only the fulfiller earns request
// points while the owner's balance drops by the transferred stamps. For a
// request both sides earn points: the requester as receiver, the fulfiller
// as supplier.
func (s *LedgerServiceImpl) CompleteListingPoints(ctx context.Context, listing *models.StampListing, fulfillerID primitive.ObjectID) (*models.StampTransaction, error) {
	tx := &models.StampTransaction{
		ListingID: listing.ID,
		Type:      listing.Type,
		Quantity:  listing.Quantity,
		CreatedAt: time.Now(),
	}

	switch listing.Type {
	case models.ListingTypeOffer:
		// Stamps flow owner -> fulfiller.
		tx.FromUserID = listing.UserID
		tx.ToUserID = fulfillerID
		tx.PointsFrom = 0
		tx.PointsTo = listing.Quantity * gamification.PointsPerRequest

		if _, err := s.mutateProfile(ctx, fulfillerID, func(p *models.Profile) (repositories.LedgerPatch, error) {
			points := p.Points + tx.PointsTo
			level := gamification.CalculateLevel(points)
			return repositories.LedgerPatch{
				Points:              points,
				Level:               level,
				Tier:                gamification.CalculateTier(level),
				TotalRequestedDelta: 1,
			}, nil
		}); err != nil {
			return nil, err
		}
		if _, err := s.mutateProfile(ctx, listing.UserID, func(p *models.Profile) (repositories.LedgerPatch, error) {
			return repositories.LedgerPatch{
				Points:            p.Points,
				Level:             p.Level,
				Tier:              p.Tier,
				StampBalanceDelta: -listing.Quantity,
			}, nil
		}); err != nil {
			return nil, err
		}

	case models.ListingTypeRequest:
		// Stamps flow fulfiller -> owner.
		tx.FromUserID = fulfillerID
		tx.ToUserID = listing.UserID
		tx.PointsFrom = listing.Quantity * gamification.PointsPerOfferedStamp
		tx.PointsTo = listing.Quantity * gamification.PointsPerRequest

		if _, err := s.mutateProfile(ctx, listing.UserID, func(p *models.Profile) (repositories.LedgerPatch, error) {
			points := p.Points + tx.PointsTo
			level := gamification.CalculateLevel(points)
			return repositories.LedgerPatch{
				Points:              points,
				Level:               level,
				Tier:                gamification.CalculateTier(level),
				TotalRequestedDelta: 1,
			}, nil
		}); err != nil {
			return nil, err
		}
		if _, err := s.mutateProfile(ctx, fulfillerID, func(p *models.Profile) (repositories.LedgerPatch, error) {
			points := p.Points + tx.PointsFrom
			level := gamification.CalculateLevel(points)
			return repositories.LedgerPatch{
				Points:            points,
				Level:             level,
				Tier:              gamification.CalculateTier(level),
				TotalOfferedDelta: 1,
			}, nil
		}); err != nil {
			return nil, err
		}

	default:
		return nil, fmt.Errorf("unknown listing type %q", listing.Type)
	}

	if err := s.transactionRepo.Create(ctx, tx); err != nil {
		return nil, fmt.Errorf("failed to record stamp transaction: %w", err)
	}
	slog.Info("Completed listing points", "listingId", listing.ID.Hex(),
		"type", listing.Type, "quantity", listing.Quantity,
		"fromUserId", tx.FromUserID.Hex(), "toUserId", tx.ToUserID.Hex())
	return tx, nil
}

// AdminFulfillRequestPoints settles a request the back office fulfils
// directly. Only the requester earns points; the admin is recorded as the
// supplying party with no point award.
func (s *LedgerServiceImpl) AdminFulfillRequestPoints(ctx context.Context, listing *models.StampListing, adminID primitive.ObjectID) (*models.StampTransaction, error) {
	if listing.Type != models.ListingTypeRequest {
		return nil, ErrInvalidTransition("only requests can be fulfilled by an admin")
	}

	tx := &models.StampTransaction{
		FromUserID: adminID,
		ToUserID:   listing.UserID,
		ListingID:  listing.ID,
		Type:       listing.Type,
		Quantity:   listing.Quantity,
		PointsFrom: 0,
		PointsTo:   listing.Quantity * gamification.PointsPerRequest,
		CreatedAt:  time.Now(),
	}

	if _, err := s.mutateProfile(ctx, listing.UserID, func(p *models.Profile) (repositories.LedgerPatch, error) {
		points := p.Points + tx.PointsTo
		level := gamification.CalculateLevel(points)
		return repositories.LedgerPatch{
			Points:              points,
			Level:               level,
			Tier:                gamification.CalculateTier(level),
			TotalRequestedDelta: 1,
		}, nil
	}); err != nil {
		return nil, err
	}

	if err := s.transactionRepo.Create(ctx, tx); err != nil {
		return nil, fmt.Errorf("failed to record stamp transaction: %w", err)
	}
	slog.Info("Admin fulfilled request", "listingId", listing.ID.Hex(),
		"requesterId", listing.UserID.Hex(), "adminId", adminID.Hex())
	return tx, nil
}
