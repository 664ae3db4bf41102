package services

import (
	"context"
	"testing"
	"time"

	"github.com/selotroca/selotroca-backend/internal/models"
	"github.com/stretchr/testify/require"
)

func seedProfile(t *testing.T, repo *fakeProfileRepo, phone string) *models.Profile {
	t.Helper()
	now := time.Now()
	p := &models.Profile{
		Phone:         phone,
		Points:        0,
		Level:         1,
		Tier:          1,
		WeeklyResetAt: now.Add(weeklyQuotaWindow),
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	require.NoError(t, repo.Create(context.Background(), p))
	return p
}

func requireDomainCode(t *testing.T, err error, code ErrorCode) {
	t.Helper()
	require.Error(t, err)
	domainErr, ok := AsDomainError(err)
	require.True(t, ok, "expected a domain error, got %v", err)
	require.Equal(t, code, domainErr.Code)
}

func TestAwardOfferBalance(t *testing.T) {
	profiles := newFakeProfileRepo()
	ledger := NewLedgerService(profiles, newFakeTransactionRepo())
	owner := seedProfile(t, profiles, "351912000001")

	updated, err := ledger.AwardOfferBalance(context.Background(), owner.ID, 10)
	require.NoError(t, err)

	require.Equal(t, 20, updated.Points)
	require.Equal(t, 1, updated.Level)
	require.Equal(t, 1, updated.Tier)
	require.Equal(t, 10, updated.StampBalance)
	require.Equal(t, 1, updated.TotalOffered)
}

func TestAwardOfferBalanceLevelsUp(t *testing.T) {
	profiles := newFakeProfileRepo()
	ledger := NewLedgerService(profiles, newFakeTransactionRepo())
	owner := seedProfile(t, profiles, "351912000002")

	// 20 stamps earn 40 points, crossing the 25-point level threshold.
	updated, err := ledger.AwardOfferBalance(context.Background(), owner.ID, 20)
	require.NoError(t, err)

	require.Equal(t, 40, updated.Points)
	require.Equal(t, 2, updated.Level)
	require.Equal(t, 1, updated.Tier)
}

func TestReverseOfferBalanceRoundTrip(t *testing.T) {
	profiles := newFakeProfileRepo()
	ledger := NewLedgerService(profiles, newFakeTransactionRepo())
	owner := seedProfile(t, profiles, "351912000003")
	ctx := context.Background()

	_, err := ledger.AwardOfferBalance(ctx, owner.ID, 10)
	require.NoError(t, err)

	updated, err := ledger.ReverseOfferBalance(ctx, owner.ID, 10)
	require.NoError(t, err)

	require.Equal(t, 0, updated.Points)
	require.Equal(t, 1, updated.Level)
	require.Equal(t, 0, updated.StampBalance)
	require.Equal(t, 0, updated.TotalOffered)
}

func TestReverseOfferBalanceFloorsPointsAtZero(t *testing.T) {
	profiles := newFakeProfileRepo()
	ledger := NewLedgerService(profiles, newFakeTransactionRepo())
	owner := seedProfile(t, profiles, "351912000004")
	ctx := context.Background()

	// Points were partially spent elsewhere; the reversal must not go negative.
	owner.Points = 5
	owner.StampBalance = 10
	owner.TotalOffered = 1
	require.NoError(t, profiles.Update(ctx, owner))

	updated, err := ledger.ReverseOfferBalance(ctx, owner.ID, 10)
	require.NoError(t, err)

	require.Equal(t, 0, updated.Points)
	require.Equal(t, 0, updated.StampBalance)
	require.Equal(t, 0, updated.TotalOffered)
}

func TestLedgerRetriesOnContention(t *testing.T) {
	profiles := newFakeProfileRepo()
	ledger := NewLedgerService(profiles, newFakeTransactionRepo())
	owner := seedProfile(t, profiles, "351912000005")

	profiles.casFailures = 2

	updated, err := ledger.AwardOfferBalance(context.Background(), owner.ID, 5)
	require.NoError(t, err)
	require.Equal(t, 10, updated.Points)
	require.Equal(t, 5, updated.StampBalance)
}

func TestLedgerGivesUpAfterMaxRetries(t *testing.T) {
	profiles := newFakeProfileRepo()
	ledger := NewLedgerService(profiles, newFakeTransactionRepo())
	owner := seedProfile(t, profiles, "351912000006")

	profiles.casFailures = maxLedgerRetries

	_, err := ledger.AwardOfferBalance(context.Background(), owner.ID, 5)
	require.Error(t, err)
	require.Contains(t, err.Error(), "did not settle")
}

func TestConsumeWeeklyQuota(t *testing.T) {
	profiles := newFakeProfileRepo()
	ledger := NewLedgerService(profiles, newFakeTransactionRepo())
	owner := seedProfile(t, profiles, "351912000007")
	ctx := context.Background()

	// Tier 1 allows 5 stamps per week.
	updated, err := ledger.ConsumeWeeklyQuota(ctx, owner.ID, 5)
	require.NoError(t, err)
	require.Equal(t, 5, updated.WeeklyStampsRequested)

	_, err = ledger.ConsumeWeeklyQuota(ctx, owner.ID, 1)
	requireDomainCode(t, err, CodeQuotaExceeded)
}

func TestConsumeWeeklyQuotaPerRequestCeiling(t *testing.T) {
	profiles := newFakeProfileRepo()
	ledger := NewLedgerService(profiles, newFakeTransactionRepo())
	owner := seedProfile(t, profiles, "351912000008")

	_, err := ledger.ConsumeWeeklyQuota(context.Background(), owner.ID, 50)
	requireDomainCode(t, err, CodeQuotaExceeded)
}

func TestConsumeWeeklyQuotaLapsedWindowResets(t *testing.T) {
	profiles := newFakeProfileRepo()
	ledger := NewLedgerService(profiles, newFakeTransactionRepo())
	owner := seedProfile(t, profiles, "351912000009")
	ctx := context.Background()

	// Exhausted counter from a window that already ended.
	owner.WeeklyStampsRequested = 5
	owner.WeeklyResetAt = time.Now().Add(-time.Hour)
	require.NoError(t, profiles.Update(ctx, owner))

	updated, err := ledger.ConsumeWeeklyQuota(ctx, owner.ID, 3)
	require.NoError(t, err)
	require.Equal(t, 3, updated.WeeklyStampsRequested)
	require.True(t, updated.WeeklyResetAt.After(time.Now()))
}

func TestAdminFulfillRequestPointsRejectsOffers(t *testing.T) {
	profiles := newFakeProfileRepo()
	ledger := NewLedgerService(profiles, newFakeTransactionRepo())
	owner := seedProfile(t, profiles, "351912000010")

	offer := &models.StampListing{UserID: owner.ID, Type: models.ListingTypeOffer, Quantity: 3}
	_, err := ledger.AdminFulfillRequestPoints(context.Background(), offer, owner.ID)
	requireDomainCode(t, err, CodeInvalidStateTransition)
}
