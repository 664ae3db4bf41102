package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/selotroca/selotroca-backend/internal/config"
	"github.com/selotroca/selotroca-backend/internal/models"
	"github.com/selotroca/selotroca-backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/exp/slog"
)

// Compile-time check to ensure BackofficeServiceImpl implements BackofficeService
var _ BackofficeService = (*BackofficeServiceImpl)(nil)

type BackofficeServiceImpl struct {
	adminRepo    repositories.AdminUserRepository
	settingsRepo repositories.SettingsRepository
	auditRepo    repositories.AuditLogRepository
	profileRepo  repositories.ProfileRepository
	listingRepo  repositories.ListingRepository

	jwtSecret []byte
	tokenTTL  time.Duration
}

func NewBackofficeService(adminRepo repositories.AdminUserRepository, settingsRepo repositories.SettingsRepository, auditRepo repositories.AuditLogRepository, profileRepo repositories.ProfileRepository, listingRepo repositories.ListingRepository, cfg *config.Config) *BackofficeServiceImpl {
	return &BackofficeServiceImpl{
		adminRepo:    adminRepo,
		settingsRepo: settingsRepo,
		auditRepo:    auditRepo,
		profileRepo:  profileRepo,
		listingRepo:  listingRepo,
		jwtSecret:    []byte(cfg.JWT.Secret),
		tokenTTL:     time.Duration(cfg.JWT.ExpiresIn) * time.Second,
	}
}

type backofficeClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// Login verifies back-office credentials and issues a signed token.
func (s *BackofficeServiceImpl) Login(ctx context.Context, email, password string) (string, *models.AdminUser, error) {
	user, err := s.adminRepo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return "", nil, NewDomainError(CodeInvalidCredentials, "invalid credentials")
		}
		return "", nil, fmt.Errorf("failed to look up account: %w", err)
	}
	if !user.IsActive {
		return "", nil, NewDomainError(CodeInvalidCredentials, "account is inactive")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", nil, NewDomainError(CodeInvalidCredentials, "invalid credentials")
	}

	now := time.Now()
	claims := backofficeClaims{
		Role: user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.Hex(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.jwtSecret)
	if err != nil {
		return "", nil, fmt.Errorf("failed to sign token: %w", err)
	}

	lastLogin := now
	user.LastLoginAt = &lastLogin
	user.UpdatedAt = now
	if err := s.adminRepo.Update(ctx, user); err != nil {
		slog.Error("Failed to record last login", "error", err, "email", email)
	}

	slog.Info("Back-office login", "email", email, "role", user.Role)
	return token, user, nil
}

// ValidateToken parses a back-office token and resolves its account.
func (s *BackofficeServiceImpl) ValidateToken(ctx context.Context, tokenString string) (*models.AdminUser, error) {
	claims := &backofficeClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil || !token.Valid {
		return nil, NewDomainError(CodeUnauthorized, "invalid or expired token")
	}

	id, err := primitive.ObjectIDFromHex(claims.Subject)
	if err != nil {
		return nil, NewDomainError(CodeUnauthorized, "invalid token subject")
	}

	user, err := s.adminRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, NewDomainError(CodeUnauthorized, "account not found")
		}
		return nil, fmt.Errorf("failed to look up account: %w", err)
	}
	if !user.IsActive {
		return nil, NewDomainError(CodeUnauthorized, "account is inactive")
	}
	return user, nil
}

// CreateAdminUser registers a back-office account with a bcrypt-hashed
// password.
func (s *BackofficeServiceImpl) CreateAdminUser(ctx context.Context, req *models.CreateAdminUserRequest) (*models.AdminUser, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	role := req.Role
	if role == "" {
		role = "operator"
	}

	now := time.Now()
	user := &models.AdminUser{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: string(hash),
		Role:         role,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.adminRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return nil, NewDomainError(CodeValidation, "an account with this email already exists")
		}
		return nil, fmt.Errorf("failed to create account: %w", err)
	}
	return user, nil
}

func (s *BackofficeServiceImpl) ListAdminUsers(ctx context.Context) ([]*models.AdminUser, error) {
	users, err := s.adminRepo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	return users, nil
}

func (s *BackofficeServiceImpl) DeactivateAdminUser(ctx context.Context, id primitive.ObjectID) error {
	user, err := s.adminRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrNotFound("account")
		}
		return fmt.Errorf("failed to look up account: %w", err)
	}

	user.IsActive = false
	user.UpdatedAt = time.Now()
	if err := s.adminRepo.Update(ctx, user); err != nil {
		return fmt.Errorf("failed to deactivate account: %w", err)
	}
	return nil
}

// GetSettings returns the global settings document, defaulting to an empty
// one when none was saved yet.
func (s *BackofficeServiceImpl) GetSettings(ctx context.Context) (*models.AppSettings, error) {
	settings, err := s.settingsRepo.Get(ctx)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return &models.AppSettings{ID: models.AppSettingsID}, nil
		}
		return nil, fmt.Errorf("failed to fetch settings: %w", err)
	}
	return settings, nil
}

func (s *BackofficeServiceImpl) UpdateSettings(ctx context.Context, req *models.UpdateSettingsRequest, updatedBy string) (*models.AppSettings, error) {
	settings := &models.AppSettings{
		ID:               models.AppSettingsID,
		AdminDevicePhone: req.AdminDevicePhone,
		UpdatedBy:        updatedBy,
		UpdatedAt:        time.Now(),
	}
	if err := s.settingsRepo.Upsert(ctx, settings); err != nil {
		return nil, fmt.Errorf("failed to save settings: %w", err)
	}
	return settings, nil
}

func (s *BackofficeServiceImpl) RecentAuditLogs(ctx context.Context, limit int64) ([]*models.AuditLog, error) {
	entries, err := s.auditRepo.FindRecent(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch audit logs: %w", err)
	}
	return entries, nil
}

// Overview aggregates the dashboard counters.
func (s *BackofficeServiceImpl) Overview(ctx context.Context, now time.Time) (*models.BackofficeOverview, error) {
	totalProfiles, err := s.profileRepo.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count profiles: %w", err)
	}

	activeOffers, err := s.listingRepo.FindAll(ctx, repositories.ListingFilter{
		Type:   models.ListingTypeOffer,
		Status: models.StatusActive,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to count active offers: %w", err)
	}
	activeRequests, err := s.listingRepo.FindAll(ctx, repositories.ListingFilter{
		Type:   models.ListingTypeRequest,
		Status: models.StatusActive,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to count active requests: %w", err)
	}
	pending, err := s.listingRepo.FindAll(ctx, repositories.ListingFilter{
		Status: models.StatusPendingValidation,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to count pending offers: %w", err)
	}

	return &models.BackofficeOverview{
		TotalProfiles:     totalProfiles,
		ActiveOffers:      len(activeOffers),
		ActiveRequests:    len(activeRequests),
		PendingValidation: len(pending),
	}, nil
}
