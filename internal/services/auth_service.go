package services

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/google/uuid"
	"github.com/selotroca/selotroca-backend/internal/config"
	"github.com/selotroca/selotroca-backend/internal/models"
	"github.com/selotroca/selotroca-backend/internal/repositories"
	"github.com/selotroca/selotroca-backend/internal/utils"
	"github.com/selotroca/selotroca-backend/pkg/smsgateway"
	"golang.org/x/exp/slog"
)

// Compile-time check to ensure AuthServiceImpl implements AuthService
var _ AuthService = (*AuthServiceImpl)(nil)

type AuthServiceImpl struct {
	profileRepo repositories.ProfileRepository
	sessionRepo repositories.SessionRepository
	otpRepo     repositories.OtpRepository
	sms         smsgateway.Gateway

	otpExpiry     time.Duration
	maxAttempts   int
	sessionTTL    time.Duration
	exposeDevCode bool
}

func NewAuthService(profileRepo repositories.ProfileRepository, sessionRepo repositories.SessionRepository, otpRepo repositories.OtpRepository, sms smsgateway.Gateway, cfg *config.Config) *AuthServiceImpl {
	return &AuthServiceImpl{
		profileRepo:   profileRepo,
		sessionRepo:   sessionRepo,
		otpRepo:       otpRepo,
		sms:           sms,
		otpExpiry:     time.Duration(cfg.Otp.ExpiryMinutes) * time.Minute,
		maxAttempts:   cfg.Otp.MaxAttempts,
		sessionTTL:    time.Duration(cfg.Session.TTLHours) * time.Hour,
		exposeDevCode: cfg.SMS.Provider == "mock",
	}
}

// generateOtp returns a random 6-digit code.
func generateOtp() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", fmt.Errorf("failed to generate code: %w", err)
	}
	return fmt.Sprintf("%06d", n.Int64()+100000), nil
}

// SendOtp issues a fresh one-time code for a phone, invalidating any code
// still outstanding for it, and delivers it through the SMS gateway.
func (s *AuthServiceImpl) SendOtp(ctx context.Context, rawPhone string) (*models.SendOtpResponse, error) {
	phone := utils.NormalizePhone(rawPhone)
	if len(phone) < 9 {
		return nil, NewDomainError(CodeValidation, "invalid phone number")
	}

	code, err := generateOtp()
	if err != nil {
		return nil, err
	}

	if err := s.otpRepo.InvalidateByPhone(ctx, phone); err != nil {
		return nil, fmt.Errorf("failed to invalidate previous codes: %w", err)
	}

	now := time.Now()
	otp := &models.OtpCode{
		Phone:     phone,
		Code:      code,
		ExpiresAt: now.Add(s.otpExpiry),
		CreatedAt: now,
	}
	if err := s.otpRepo.Create(ctx, otp); err != nil {
		return nil, fmt.Errorf("failed to store code: %w", err)
	}

	message := fmt.Sprintf("O teu codigo SeloTroca e: %s", code)
	if _, err := s.sms.SendSMS(utils.FormatPhoneForSms(phone), message); err != nil {
		slog.Error("Failed to deliver verification SMS", "error", err, "phone", phone)
		return nil, fmt.Errorf("failed to send verification SMS: %w", err)
	}

	resp := &models.SendOtpResponse{Success: true, Phone: phone}
	if s.exposeDevCode {
		resp.DevCode = code
	}
	return resp, nil
}

// VerifyOtp checks a submitted code, creating the profile on first login
// and opening a session on success.
func (s *AuthServiceImpl) VerifyOtp(ctx context.Context, rawPhone, code, userAgent, ipAddress string) (*models.VerifyOtpResponse, error) {
	phone := utils.NormalizePhone(rawPhone)
	now := time.Now()

	otp, err := s.otpRepo.FindActiveByPhone(ctx, phone, now)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, NewDomainError(CodeOtpExpired, "code expired or was never sent")
		}
		return nil, fmt.Errorf("failed to look up code: %w", err)
	}

	if otp.Attempts >= s.maxAttempts {
		if err := s.otpRepo.MarkUsed(ctx, otp.ID); err != nil {
			slog.Error("Failed to burn exhausted code", "error", err, "phone", phone)
		}
		return nil, NewDomainError(CodeTooManyAttempts, "too many attempts, request a new code")
	}

	if err := s.otpRepo.IncrementAttempts(ctx, otp.ID); err != nil {
		return nil, fmt.Errorf("failed to count attempt: %w", err)
	}

	if otp.Code != code {
		return nil, NewDomainError(CodeInvalidOtp, "incorrect code")
	}

	if err := s.otpRepo.MarkUsed(ctx, otp.ID); err != nil {
		return nil, fmt.Errorf("failed to consume code: %w", err)
	}

	profile, err := s.profileRepo.FindByPhone(ctx, phone)
	isNewUser := false
	if err != nil {
		if !errors.Is(err, repositories.ErrNotFound) {
			return nil, fmt.Errorf("failed to look up profile: %w", err)
		}
		isNewUser = true
		profile = &models.Profile{
			Phone:         phone,
			Points:        0,
			Level:         1,
			Tier:          1,
			WeeklyResetAt: now.Add(weeklyQuotaWindow),
			CreatedAt:     now,
			UpdatedAt:     now,
		}
		if err := s.profileRepo.Create(ctx, profile); err != nil {
			return nil, fmt.Errorf("failed to create profile: %w", err)
		}
		slog.Info("New profile registered", "userId", profile.ID.Hex(), "phone", phone)
	}

	session := &models.Session{
		UserID:       profile.ID,
		Token:        uuid.NewString(),
		ExpiresAt:    now.Add(s.sessionTTL),
		UserAgent:    userAgent,
		IPAddress:    ipAddress,
		LastActiveAt: now,
		CreatedAt:    now,
	}
	if err := s.sessionRepo.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	return &models.VerifyOtpResponse{
		Success:   true,
		IsNewUser: isNewUser,
		Token:     session.Token,
		ExpiresAt: session.ExpiresAt,
		Profile:   profile,
	}, nil
}

// ValidateSession resolves a bearer token to its profile, touching the
// session's last-active timestamp. Expired sessions are removed on sight.
func (s *AuthServiceImpl) ValidateSession(ctx context.Context, token string) (*models.Profile, *models.Session, error) {
	session, err := s.sessionRepo.FindByToken(ctx, token)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, nil, NewDomainError(CodeSessionExpired, "session expired")
		}
		return nil, nil, fmt.Errorf("failed to look up session: %w", err)
	}

	if session.IsExpired() {
		if err := s.sessionRepo.DeleteByID(ctx, session.ID); err != nil {
			slog.Error("Failed to remove expired session", "error", err, "sessionId", session.ID.Hex())
		}
		return nil, nil, NewDomainError(CodeSessionExpired, "session expired")
	}

	if err := s.sessionRepo.TouchLastActive(ctx, session.ID); err != nil {
		slog.Error("Failed to touch session", "error", err, "sessionId", session.ID.Hex())
	}

	profile, err := s.profileRepo.FindByID(ctx, session.UserID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, nil, NewDomainError(CodeUnauthorized, "profile not found")
		}
		return nil, nil, fmt.Errorf("failed to look up profile: %w", err)
	}

	return profile, session, nil
}

// Logout removes the session behind a token. Unknown tokens are not an
// error; logout is idempotent.
func (s *AuthServiceImpl) Logout(ctx context.Context, token string) error {
	if err := s.sessionRepo.DeleteByToken(ctx, token); err != nil && !errors.Is(err, repositories.ErrNotFound) {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}
