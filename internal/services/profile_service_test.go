package services

import (
	"context"
	"testing"
	"time"

	"github.com/selotroca/selotroca-backend/internal/models"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestProfileUpdatePartialFields(t *testing.T) {
	profiles := newFakeProfileRepo()
	service := NewProfileService(profiles, newFakeTransactionRepo())
	owner := seedProfile(t, profiles, "351913000001")
	ctx := context.Background()

	name := "Maria"
	district := "Porto"
	updated, err := service.Update(ctx, owner.ID, &models.UpdateProfileRequest{
		DisplayName: &name,
		District:    &district,
	})
	require.NoError(t, err)
	require.Equal(t, "Maria", updated.DisplayName)
	require.Equal(t, "Porto", updated.District)
	require.Empty(t, updated.Email)

	// Omitted fields keep their values on a later partial update.
	complete := true
	updated, err = service.Update(ctx, owner.ID, &models.UpdateProfileRequest{
		RegistrationComplete: &complete,
	})
	require.NoError(t, err)
	require.Equal(t, "Maria", updated.DisplayName)
	require.True(t, updated.RegistrationComplete)
}

func TestProfileUpdateNotFound(t *testing.T) {
	service := NewProfileService(newFakeProfileRepo(), newFakeTransactionRepo())

	name := "Maria"
	_, err := service.Update(context.Background(), primitive.NewObjectID(),
		&models.UpdateProfileRequest{DisplayName: &name})
	requireDomainCode(t, err, CodeNotFound)
}

func TestProfileQuotaStatus(t *testing.T) {
	profiles := newFakeProfileRepo()
	service := NewProfileService(profiles, newFakeTransactionRepo())
	owner := seedProfile(t, profiles, "351913000002")
	ctx := context.Background()

	owner.WeeklyStampsRequested = 3
	require.NoError(t, profiles.Update(ctx, owner))

	status, err := service.QuotaStatus(ctx, owner.ID)
	require.NoError(t, err)
	require.Equal(t, 5, status.Allowance)
	require.Equal(t, 3, status.Used)
	require.Equal(t, 2, status.Remaining)
	require.Equal(t, 40, status.MaxPerRequest)
}

func TestProfileQuotaStatusLapsedWindow(t *testing.T) {
	profiles := newFakeProfileRepo()
	service := NewProfileService(profiles, newFakeTransactionRepo())
	owner := seedProfile(t, profiles, "351913000003")
	ctx := context.Background()

	owner.WeeklyStampsRequested = 5
	owner.WeeklyResetAt = time.Now().Add(-time.Hour)
	require.NoError(t, profiles.Update(ctx, owner))

	status, err := service.QuotaStatus(ctx, owner.ID)
	require.NoError(t, err)
	require.Equal(t, 0, status.Used)
	require.Equal(t, 5, status.Remaining)
}

func TestLeaderboardOrdersByPoints(t *testing.T) {
	profiles := newFakeProfileRepo()
	service := NewProfileService(profiles, newFakeTransactionRepo())
	ctx := context.Background()

	low := seedProfile(t, profiles, "351913000004")
	high := seedProfile(t, profiles, "351913000005")
	high.Points = 100
	require.NoError(t, profiles.Update(ctx, high))
	low.Points = 10
	require.NoError(t, profiles.Update(ctx, low))

	entries, err := service.Leaderboard(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	require.Equal(t, high.ID, entries[0].ID)
	require.Equal(t, low.ID, entries[1].ID)
}
