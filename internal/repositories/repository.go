package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/selotroca/selotroca-backend/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ErrNotFound is returned when a referenced record does not exist.
var ErrNotFound = errors.New("record not found")

// ErrDuplicate is returned when an insert violates a unique constraint,
// e.g. the one-non-terminal-listing-per-user index.
var ErrDuplicate = errors.New("duplicate record")

// LedgerPatch is the result of a ledger computation applied to a profile in
// a single compare-and-swap write. Points, Level and Tier are absolute
// values; the deltas are applied with $inc semantics in the same write.
type LedgerPatch struct {
	Points              int
	Level               int
	Tier                int
	StampBalanceDelta   int
	TotalOfferedDelta   int
	TotalRequestedDelta int

	// Weekly quota bookkeeping, set only at request-creation time.
	WeeklyStampsRequested *int
	WeeklyResetAt         *time.Time
}

// ListingPatch carries the fields written during a status transition.
type ListingPatch struct {
	Status          models.ListingStatus
	Quantity        *int
	ValidatedBy     *primitive.ObjectID
	ValidatedAt     *time.Time
	FulfilledBy     *primitive.ObjectID
	FulfilledAt     *time.Time
	RejectionReason *string
}

// ListingFilter selects listings on the read path. Zero values mean
// "no constraint".
type ListingFilter struct {
	Type        models.ListingType
	Status      models.ListingStatus
	UserID      primitive.ObjectID
	Limit       int64
	OldestFirst bool
}

// ProfileRepository defines the interface for profile data operations
type ProfileRepository interface {
	Create(ctx context.Context, profile *models.Profile) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Profile, error)
	FindByPhone(ctx context.Context, phone string) (*models.Profile, error)
	Update(ctx context.Context, profile *models.Profile) error
	// ApplyLedgerPatch writes a ledger mutation if and only if the profile's
	// points still equal expectedPoints; returns false when the guard failed
	// and the caller must re-read and retry.
	ApplyLedgerPatch(ctx context.Context, id primitive.ObjectID, expectedPoints int, patch LedgerPatch) (bool, error)
	Leaderboard(ctx context.Context, limit int64) ([]*models.LeaderboardEntry, error)
	Count(ctx context.Context) (int64, error)
}

// ListingRepository defines the interface for stamp listing operations
type ListingRepository interface {
	// Create inserts a listing; returns ErrDuplicate when the owner already
	// holds a non-terminal listing (partial unique index).
	Create(ctx context.Context, listing *models.StampListing) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.StampListing, error)
	FindAll(ctx context.Context, filter ListingFilter) ([]*models.StampListing, error)
	FindNonTerminalByUser(ctx context.Context, userID primitive.ObjectID) (*models.StampListing, error)
	// TransitionStatus performs a check-and-set: the patch is applied only if
	// the listing is currently in one of the expected statuses. Returns false
	// when the precondition no longer holds.
	TransitionStatus(ctx context.Context, id primitive.ObjectID, from []models.ListingStatus, patch ListingPatch) (bool, error)
	// ExpireStale transitions non-terminal listings whose expiry has passed
	// to expired; returns the number of listings swept.
	ExpireStale(ctx context.Context, now time.Time) (int64, error)
	EnsureIndexes(ctx context.Context) error
}

// TransactionRepository defines the interface for stamp transaction operations
type TransactionRepository interface {
	Create(ctx context.Context, tx *models.StampTransaction) error
	FindByUserID(ctx context.Context, userID primitive.ObjectID) ([]*models.StampTransaction, error)
}

// AuditLogRepository defines the interface for audit log operations.
// Append-only: entries are never updated or deleted.
type AuditLogRepository interface {
	Create(ctx context.Context, entry *models.AuditLog) error
	FindRecent(ctx context.Context, limit int64) ([]*models.AuditLog, error)
}

// SessionRepository defines the interface for session data operations
type SessionRepository interface {
	Create(ctx context.Context, session *models.Session) error
	FindByToken(ctx context.Context, token string) (*models.Session, error)
	TouchLastActive(ctx context.Context, id primitive.ObjectID) error
	DeleteByToken(ctx context.Context, token string) error
	DeleteByID(ctx context.Context, id primitive.ObjectID) error
}

// OtpRepository defines the interface for one-time code operations
type OtpRepository interface {
	Create(ctx context.Context, otp *models.OtpCode) error
	// FindActiveByPhone returns the newest unused, unexpired code for a phone.
	FindActiveByPhone(ctx context.Context, phone string, now time.Time) (*models.OtpCode, error)
	InvalidateByPhone(ctx context.Context, phone string) error
	IncrementAttempts(ctx context.Context, id primitive.ObjectID) error
	MarkUsed(ctx context.Context, id primitive.ObjectID) error
}

// CollectionRepository defines the interface for catalog data operations
type CollectionRepository interface {
	CreateCollection(ctx context.Context, collection *models.StampCollection) error
	FindCollectionByID(ctx context.Context, id primitive.ObjectID) (*models.StampCollection, error)
	FindAllCollections(ctx context.Context, onlyActive bool) ([]*models.StampCollection, error)
	UpdateCollection(ctx context.Context, collection *models.StampCollection) error
	DeleteCollection(ctx context.Context, id primitive.ObjectID) error

	CreateItem(ctx context.Context, item *models.CollectionItem) error
	FindItem(ctx context.Context, collectionID, itemID primitive.ObjectID) (*models.CollectionItem, error)
	UpdateItem(ctx context.Context, item *models.CollectionItem) error
	DeleteItem(ctx context.Context, id primitive.ObjectID) error

	CreateOption(ctx context.Context, option *models.RedemptionOption) error
	FindOption(ctx context.Context, itemID, optionID primitive.ObjectID) (*models.RedemptionOption, error)
	DeleteOption(ctx context.Context, id primitive.ObjectID) error
}

// SettingsRepository defines the interface for app settings operations
type SettingsRepository interface {
	Get(ctx context.Context) (*models.AppSettings, error)
	Upsert(ctx context.Context, settings *models.AppSettings) error
}

// AdminUserRepository defines the interface for back-office account operations
type AdminUserRepository interface {
	Create(ctx context.Context, user *models.AdminUser) error
	FindByEmail(ctx context.Context, email string) (*models.AdminUser, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.AdminUser, error)
	FindAll(ctx context.Context) ([]*models.AdminUser, error)
	Update(ctx context.Context, user *models.AdminUser) error
}
