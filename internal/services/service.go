package services

import (
	"context"
	"time"

	"github.com/selotroca/selotroca-backend/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// LedgerService defines the interface for profile balance operations.
// Every method recomputes level and tier from the resulting points total
// and writes the mutation with a compare-and-swap guard.
type LedgerService interface {
	// AwardOfferBalance credits an owner for an approved offer.
	AwardOfferBalance(ctx context.Context, userID primitive.ObjectID, quantity int) (*models.Profile, error)

	// ReverseOfferBalance undoes an earlier award when an active offer is
	// cancelled. Points are floored at zero.
	ReverseOfferBalance(ctx context.Context, userID primitive.ObjectID, quantity int) (*models.Profile, error)

	// ConsumeWeeklyQuota checks and eagerly consumes the weekly request quota
	// at request-creation time, resetting the window if it has lapsed.
	ConsumeWeeklyQuota(ctx context.Context, userID primitive.ObjectID, quantity int) (*models.Profile, error)

	// CompleteListingPoints awards completion points to both parties of a
	// fulfilled listing and records the exchange in the transaction ledger.
	CompleteListingPoints(ctx context.Context, listing *models.StampListing, fulfillerID primitive.ObjectID) (*models.StampTransaction, error)

	// AdminFulfillRequestPoints awards completion points to a requester when
	// an admin fulfils their request out of band.
	AdminFulfillRequestPoints(ctx context.Context, listing *models.StampListing, adminID primitive.ObjectID) (*models.StampTransaction, error)
}

// AuditContext carries the request metadata recorded with admin actions.
type AuditContext struct {
	ActorID   primitive.ObjectID
	IPAddress string
	UserAgent string
}

// ListingService defines the interface for the listing lifecycle.
type ListingService interface {
	Create(ctx context.Context, ownerID primitive.ObjectID, req *models.CreateListingRequest, audit AuditContext) (*models.StampListing, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.StampListing, error)
	ListActive(ctx context.Context, listingType models.ListingType) ([]*models.StampListing, error)
	ListByUser(ctx context.Context, userID primitive.ObjectID) ([]*models.StampListing, error)
	ConfirmSent(ctx context.Context, id, actorID primitive.ObjectID) (*models.StampListing, error)
	Cancel(ctx context.Context, id, actorID primitive.ObjectID, audit AuditContext) (*models.StampListing, error)
	Fulfill(ctx context.Context, id, fulfillerID primitive.ObjectID, audit AuditContext) (*models.StampListing, error)

	// Admin transitions.
	ListPendingValidation(ctx context.Context) ([]*models.StampListing, error)
	ListActiveRequests(ctx context.Context) ([]*models.StampListing, error)
	ApproveOffer(ctx context.Context, id primitive.ObjectID, req *models.ApproveOfferRequest, audit AuditContext) (*models.ApproveOfferResponse, error)
	RejectOffer(ctx context.Context, id primitive.ObjectID, req *models.RejectOfferRequest, audit AuditContext) (*models.StampListing, error)
	AdminFulfillRequest(ctx context.Context, id primitive.ObjectID, audit AuditContext) (*models.StampListing, error)

	// ExpireStale sweeps listings whose expiry has passed into the expired
	// state. Invoked periodically, not by request handlers.
	ExpireStale(ctx context.Context) (int64, error)
}

// AuthService defines the interface for OTP login and session management.
type AuthService interface {
	SendOtp(ctx context.Context, rawPhone string) (*models.SendOtpResponse, error)
	VerifyOtp(ctx context.Context, rawPhone, code, userAgent, ipAddress string) (*models.VerifyOtpResponse, error)
	ValidateSession(ctx context.Context, token string) (*models.Profile, *models.Session, error)
	Logout(ctx context.Context, token string) error
}

// ProfileService defines the interface for profile reads and updates.
type ProfileService interface {
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Profile, error)
	Update(ctx context.Context, id primitive.ObjectID, req *models.UpdateProfileRequest) (*models.Profile, error)
	QuotaStatus(ctx context.Context, id primitive.ObjectID) (*models.QuotaStatus, error)
	Leaderboard(ctx context.Context) ([]*models.LeaderboardEntry, error)
	Transactions(ctx context.Context, id primitive.ObjectID) ([]*models.StampTransaction, error)
}

// CatalogService defines the interface for the stamp collection catalog.
type CatalogService interface {
	ListCollections(ctx context.Context, onlyActive bool) ([]*models.StampCollection, error)
	GetCollection(ctx context.Context, id primitive.ObjectID) (*models.StampCollection, error)
	CreateCollection(ctx context.Context, req *models.CreateCollectionRequest) (*models.StampCollection, error)
	UpdateCollection(ctx context.Context, id primitive.ObjectID, req *models.UpdateCollectionRequest) (*models.StampCollection, error)
	DeleteCollection(ctx context.Context, id primitive.ObjectID) error

	AddItem(ctx context.Context, collectionID primitive.ObjectID, req *models.CreateCollectionItemRequest) (*models.CollectionItem, error)
	UpdateItem(ctx context.Context, collectionID, itemID primitive.ObjectID, req *models.UpdateCollectionItemRequest) (*models.CollectionItem, error)
	DeleteItem(ctx context.Context, collectionID, itemID primitive.ObjectID) error

	AddOption(ctx context.Context, collectionID, itemID primitive.ObjectID, req *models.CreateRedemptionOptionRequest) (*models.RedemptionOption, error)
	DeleteOption(ctx context.Context, collectionID, itemID, optionID primitive.ObjectID) error
}

// BackofficeService defines the interface for back-office accounts, app
// settings and audit views.
type BackofficeService interface {
	Login(ctx context.Context, email, password string) (string, *models.AdminUser, error)
	ValidateToken(ctx context.Context, token string) (*models.AdminUser, error)
	CreateAdminUser(ctx context.Context, req *models.CreateAdminUserRequest) (*models.AdminUser, error)
	ListAdminUsers(ctx context.Context) ([]*models.AdminUser, error)
	DeactivateAdminUser(ctx context.Context, id primitive.ObjectID) error

	GetSettings(ctx context.Context) (*models.AppSettings, error)
	UpdateSettings(ctx context.Context, req *models.UpdateSettingsRequest, updatedBy string) (*models.AppSettings, error)

	RecentAuditLogs(ctx context.Context, limit int64) ([]*models.AuditLog, error)
	Overview(ctx context.Context, now time.Time) (*models.BackofficeOverview, error)
}
