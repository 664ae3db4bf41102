package services

import (
	"context"
	"testing"
	"time"

	"github.com/selotroca/selotroca-backend/internal/config"
	"github.com/selotroca/selotroca-backend/internal/models"
	"github.com/stretchr/testify/require"
)

type backofficeEnv struct {
	admins   *fakeAdminUserRepo
	settings *fakeSettingsRepo
	audit    *fakeAuditRepo
	profiles *fakeProfileRepo
	listings *fakeListingRepo
	service  *BackofficeServiceImpl
}

func newBackofficeEnv() *backofficeEnv {
	cfg := &config.Config{
		JWT: config.JWTConfig{Secret: "test-secret", ExpiresIn: 3600},
	}
	admins := newFakeAdminUserRepo()
	settings := newFakeSettingsRepo()
	audit := newFakeAuditRepo()
	profiles := newFakeProfileRepo()
	listings := newFakeListingRepo()
	service := NewBackofficeService(admins, settings, audit, profiles, listings, cfg)
	return &backofficeEnv{
		admins:   admins,
		settings: settings,
		audit:    audit,
		profiles: profiles,
		listings: listings,
		service:  service,
	}
}

func createOperator(t *testing.T, env *backofficeEnv, email, password string) *models.AdminUser {
	t.Helper()
	user, err := env.service.CreateAdminUser(context.Background(), &models.CreateAdminUserRequest{
		Name:     "Operator",
		Email:    email,
		Password: password,
	})
	require.NoError(t, err)
	return user
}

func TestBackofficeLoginAndValidateToken(t *testing.T) {
	env := newBackofficeEnv()
	ctx := context.Background()
	created := createOperator(t, env, "ops@selotroca.pt", "correct-horse-battery")
	require.Equal(t, "operator", created.Role)

	token, user, err := env.service.Login(ctx, "ops@selotroca.pt", "correct-horse-battery")
	require.NoError(t, err)
	require.NotEmpty(t, token)
	require.Equal(t, created.ID, user.ID)
	require.NotNil(t, user.LastLoginAt)

	resolved, err := env.service.ValidateToken(ctx, token)
	require.NoError(t, err)
	require.Equal(t, created.ID, resolved.ID)
	require.Equal(t, "operator", resolved.Role)
}

func TestBackofficeLoginWrongPassword(t *testing.T) {
	env := newBackofficeEnv()
	createOperator(t, env, "ops@selotroca.pt", "correct-horse-battery")

	_, _, err := env.service.Login(context.Background(), "ops@selotroca.pt", "wrong")
	requireDomainCode(t, err, CodeInvalidCredentials)
}

func TestBackofficeLoginUnknownEmail(t *testing.T) {
	env := newBackofficeEnv()

	_, _, err := env.service.Login(context.Background(), "nobody@selotroca.pt", "whatever")
	requireDomainCode(t, err, CodeInvalidCredentials)
}

func TestBackofficeDeactivatedAccountCannotLogin(t *testing.T) {
	env := newBackofficeEnv()
	ctx := context.Background()
	created := createOperator(t, env, "ops@selotroca.pt", "correct-horse-battery")

	token, _, err := env.service.Login(ctx, "ops@selotroca.pt", "correct-horse-battery")
	require.NoError(t, err)

	require.NoError(t, env.service.DeactivateAdminUser(ctx, created.ID))

	_, _, err = env.service.Login(ctx, "ops@selotroca.pt", "correct-horse-battery")
	requireDomainCode(t, err, CodeInvalidCredentials)

	// Tokens issued before deactivation stop working too.
	_, err = env.service.ValidateToken(ctx, token)
	requireDomainCode(t, err, CodeUnauthorized)
}

func TestBackofficeValidateGarbageToken(t *testing.T) {
	env := newBackofficeEnv()

	_, err := env.service.ValidateToken(context.Background(), "not-a-jwt")
	requireDomainCode(t, err, CodeUnauthorized)
}

func TestCreateAdminUserDuplicateEmail(t *testing.T) {
	env := newBackofficeEnv()
	createOperator(t, env, "ops@selotroca.pt", "correct-horse-battery")

	_, err := env.service.CreateAdminUser(context.Background(), &models.CreateAdminUserRequest{
		Name:     "Other",
		Email:    "ops@selotroca.pt",
		Password: "another-password",
	})
	requireDomainCode(t, err, CodeValidation)
}

func TestSettingsDefaultAndUpdate(t *testing.T) {
	env := newBackofficeEnv()
	ctx := context.Background()

	settings, err := env.service.GetSettings(ctx)
	require.NoError(t, err)
	require.Equal(t, models.AppSettingsID, settings.ID)
	require.Empty(t, settings.AdminDevicePhone)

	updated, err := env.service.UpdateSettings(ctx,
		&models.UpdateSettingsRequest{AdminDevicePhone: "351912345678"}, "ops@selotroca.pt")
	require.NoError(t, err)
	require.Equal(t, "351912345678", updated.AdminDevicePhone)
	require.Equal(t, "ops@selotroca.pt", updated.UpdatedBy)

	settings, err = env.service.GetSettings(ctx)
	require.NoError(t, err)
	require.Equal(t, "351912345678", settings.AdminDevicePhone)
}

func TestBackofficeOverview(t *testing.T) {
	env := newBackofficeEnv()
	ctx := context.Background()

	for i, phone := range []string{"351911000001", "351911000002", "351911000003"} {
		profile := seedProfile(t, env.profiles, phone)
		now := time.Now()
		listing := &models.StampListing{
			UserID:    profile.ID,
			Quantity:  2,
			ExpiresAt: now.Add(time.Hour),
			CreatedAt: now,
			UpdatedAt: now,
		}
		switch i {
		case 0:
			listing.Type = models.ListingTypeOffer
			listing.Status = models.StatusActive
		case 1:
			listing.Type = models.ListingTypeRequest
			listing.Status = models.StatusActive
		case 2:
			listing.Type = models.ListingTypeOffer
			listing.Status = models.StatusPendingValidation
		}
		require.NoError(t, env.listings.Create(ctx, listing))
	}

	overview, err := env.service.Overview(ctx, time.Now())
	require.NoError(t, err)
	require.Equal(t, int64(3), overview.TotalProfiles)
	require.Equal(t, 1, overview.ActiveOffers)
	require.Equal(t, 1, overview.ActiveRequests)
	require.Equal(t, 1, overview.PendingValidation)
}
