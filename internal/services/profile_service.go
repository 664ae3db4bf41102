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
)

// Compile-time check to ensure ProfileServiceImpl implements ProfileService
var _ ProfileService = (*ProfileServiceImpl)(nil)

// leaderboardSize caps the public leaderboard.
const leaderboardSize = 50

type ProfileServiceImpl struct {
	profileRepo     repositories.ProfileRepository
	transactionRepo repositories.TransactionRepository
}

func NewProfileService(profileRepo repositories.ProfileRepository, transactionRepo repositories.TransactionRepository) *ProfileServiceImpl {
	return &ProfileServiceImpl{
		profileRepo:     profileRepo,
		transactionRepo: transactionRepo,
	}
}

func (s *ProfileServiceImpl) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Profile, error) {
	profile, err := s.profileRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrNotFound("profile")
		}
		return nil, fmt.Errorf("failed to fetch profile: %w", err)
	}
	return profile, nil
}

// Update applies a partial profile update. Only fields present in the
// request are touched; points, balances and counters are never writable
// through this path.
func (s *ProfileServiceImpl) Update(ctx context.Context, id primitive.ObjectID, req *models.UpdateProfileRequest) (*models.Profile, error) {
	profile, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.DisplayName != nil {
		profile.DisplayName = *req.DisplayName
	}
	if req.Email != nil {
		profile.Email = *req.Email
	}
	if req.District != nil {
		profile.District = *req.District
	}
	if req.RegistrationComplete != nil {
		profile.RegistrationComplete = *req.RegistrationComplete
	}
	profile.UpdatedAt = time.Now()

	if err := s.profileRepo.Update(ctx, profile); err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}
	return profile, nil
}

// QuotaStatus reports how much of the weekly request allowance remains.
func (s *ProfileServiceImpl) QuotaStatus(ctx context.Context, id primitive.ObjectID) (*models.QuotaStatus, error) {
	profile, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	allowance := gamification.WeeklyAllowanceFromTier(profile.Tier)
	remaining := gamification.AvailableRequestQuota(gamification.QuotaProfile{
		Tier:                  profile.Tier,
		WeeklyStampsRequested: profile.WeeklyStampsRequested,
		StampBalance:          profile.StampBalance,
		WeeklyResetAt:         profile.WeeklyResetAt,
	}, now)

	used := profile.WeeklyStampsRequested
	if now.After(profile.WeeklyResetAt) {
		used = 0
	}

	return &models.QuotaStatus{
		Allowance:     allowance,
		Used:          used,
		Remaining:     remaining,
		ResetAt:       profile.WeeklyResetAt,
		MaxPerRequest: gamification.MaxWeeklyRequest,
	}, nil
}

func (s *ProfileServiceImpl) Leaderboard(ctx context.Context) ([]*models.LeaderboardEntry, error) {
	entries, err := s.profileRepo.Leaderboard(ctx, leaderboardSize)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch leaderboard: %w", err)
	}
	return entries, nil
}

func (s *ProfileServiceImpl) Transactions(ctx context.Context, id primitive.ObjectID) ([]*models.StampTransaction, error) {
	txs, err := s.transactionRepo.FindByUserID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch transactions: %w", err)
	}
	return txs, nil
}
