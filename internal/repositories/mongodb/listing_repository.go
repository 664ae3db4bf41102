package mongodb

import (
	"context"
	"errors"
	"time"

	"github.com/selotroca/selotroca-backend/internal/models"
	"github.com/selotroca/selotroca-backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Compile-time check to ensure ListingRepository implements the interface
var _ repositories.ListingRepository = (*ListingRepository)(nil)

// ListingRepository handles MongoDB operations for StampListing
type ListingRepository struct {
	collection *mongo.Collection
}

// NewListingRepository creates a new ListingRepository
func NewListingRepository(db *mongo.Database) *ListingRepository {
	return &ListingRepository{
		collection: db.Collection("stamp_listings"),
	}
}

// EnsureIndexes creates the partial unique index backing the
// one-non-terminal-listing-per-user invariant. Creation of a second
// non-terminal listing fails at the storage layer even when two requests
// pass the advisory check concurrently.
func (r *ListingRepository) EnsureIndexes(ctx context.Context) error {
	model := mongo.IndexModel{
		Keys: bson.D{{Key: "userId", Value: 1}},
		Options: options.Index().
			SetUnique(true).
			SetName("one_non_terminal_listing_per_user").
			SetPartialFilterExpression(bson.M{
				"status": bson.M{"$in": nonTerminalStatusStrings()},
			}),
	}
	_, err := r.collection.Indexes().CreateOne(ctx, model)
	return err
}

func nonTerminalStatusStrings() []string {
	statuses := make([]string, 0, len(models.NonTerminalStatuses))
	for _, s := range models.NonTerminalStatuses {
		statuses = append(statuses, string(s))
	}
	return statuses
}

// Create inserts a new listing
func (r *ListingRepository) Create(ctx context.Context, listing *models.StampListing) error {
	listing.ID = primitive.NewObjectID()
	listing.CreatedAt = time.Now()
	listing.UpdatedAt = time.Now()
	_, err := r.collection.InsertOne(ctx, listing)
	if mongo.IsDuplicateKeyError(err) {
		return repositories.ErrDuplicate
	}
	return err
}

// FindByID finds a listing by ID
func (r *ListingRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.StampListing, error) {
	var listing models.StampListing
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&listing)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, repositories.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &listing, nil
}

// FindAll retrieves listings matching the filter
func (r *ListingRepository) FindAll(ctx context.Context, filter repositories.ListingFilter) ([]*models.StampListing, error) {
	query := bson.M{}
	if filter.Type != "" {
		query["type"] = filter.Type
	}
	if filter.Status != "" {
		query["status"] = filter.Status
	}
	if !filter.UserID.IsZero() {
		query["userId"] = filter.UserID
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}
	sortDir := -1
	if filter.OldestFirst {
		sortDir = 1
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: sortDir}}).
		SetLimit(limit)

	cursor, err := r.collection.Find(ctx, query, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var listings []*models.StampListing
	if err = cursor.All(ctx, &listings); err != nil {
		return nil, err
	}
	if listings == nil {
		listings = []*models.StampListing{}
	}
	return listings, nil
}

// FindNonTerminalByUser finds the user's listing in a non-terminal status,
// if any
func (r *ListingRepository) FindNonTerminalByUser(ctx context.Context, userID primitive.ObjectID) (*models.StampListing, error) {
	var listing models.StampListing
	filter := bson.M{
		"userId": userID,
		"status": bson.M{"$in": nonTerminalStatusStrings()},
	}
	err := r.collection.FindOne(ctx, filter).Decode(&listing)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, repositories.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &listing, nil
}

// TransitionStatus applies a patch only when the listing is still in one of
// the expected statuses, making check-then-act atomic against concurrent
// double transitions.
func (r *ListingRepository) TransitionStatus(ctx context.Context, id primitive.ObjectID, from []models.ListingStatus, patch repositories.ListingPatch) (bool, error) {
	set := bson.M{
		"status":    patch.Status,
		"updatedAt": time.Now(),
	}
	if patch.Quantity != nil {
		set["quantity"] = *patch.Quantity
	}
	if patch.ValidatedBy != nil {
		set["validatedBy"] = *patch.ValidatedBy
	}
	if patch.ValidatedAt != nil {
		set["validatedAt"] = *patch.ValidatedAt
	}
	if patch.FulfilledBy != nil {
		set["fulfilledBy"] = *patch.FulfilledBy
	}
	if patch.FulfilledAt != nil {
		set["fulfilledAt"] = *patch.FulfilledAt
	}
	if patch.RejectionReason != nil {
		set["rejectionReason"] = *patch.RejectionReason
	}

	fromStatuses := make([]string, 0, len(from))
	for _, s := range from {
		fromStatuses = append(fromStatuses, string(s))
	}

	filter := bson.M{"_id": id, "status": bson.M{"$in": fromStatuses}}
	result, err := r.collection.UpdateOne(ctx, filter, bson.M{"$set": set})
	if err != nil {
		return false, err
	}
	return result.MatchedCount == 1, nil
}

// ExpireStale sweeps non-terminal listings past their expiry into the
// expired terminal state
func (r *ListingRepository) ExpireStale(ctx context.Context, now time.Time) (int64, error) {
	filter := bson.M{
		"status":    bson.M{"$in": nonTerminalStatusStrings()},
		"expiresAt": bson.M{"$lt": now},
	}
	update := bson.M{"$set": bson.M{
		"status":    models.StatusExpired,
		"updatedAt": now,
	}}
	result, err := r.collection.UpdateMany(ctx, filter, update)
	if err != nil {
		return 0, err
	}
	return result.ModifiedCount, nil
}
