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

// Compile-time check to ensure ProfileRepository implements the interface
var _ repositories.ProfileRepository = (*ProfileRepository)(nil)

// ProfileRepository handles MongoDB operations for Profile
type ProfileRepository struct {
	collection *mongo.Collection
}

// NewProfileRepository creates a new ProfileRepository
func NewProfileRepository(db *mongo.Database) *ProfileRepository {
	return &ProfileRepository{
		collection: db.Collection("profiles"),
	}
}

// Create inserts a new profile
func (r *ProfileRepository) Create(ctx context.Context, profile *models.Profile) error {
	profile.ID = primitive.NewObjectID()
	profile.CreatedAt = time.Now()
	profile.UpdatedAt = time.Now()
	_, err := r.collection.InsertOne(ctx, profile)
	if mongo.IsDuplicateKeyError(err) {
		return repositories.ErrDuplicate
	}
	return err
}

// FindByID finds a profile by ID
func (r *ProfileRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Profile, error) {
	var profile models.Profile
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&profile)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, repositories.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

// FindByPhone finds a profile by normalized phone number
func (r *ProfileRepository) FindByPhone(ctx context.Context, phone string) (*models.Profile, error) {
	var profile models.Profile
	err := r.collection.FindOne(ctx, bson.M{"phone": phone}).Decode(&profile)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, repositories.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

// Update updates an existing profile
func (r *ProfileRepository) Update(ctx context.Context, profile *models.Profile) error {
	profile.UpdatedAt = time.Now()
	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": profile.ID}, bson.M{"$set": profile})
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repositories.ErrNotFound
	}
	return nil
}

// ApplyLedgerPatch rewrites the gamification fields of a profile guarded by
// the current points value. The filter on points makes the read-compute-write
// cycle a compare-and-swap: a concurrent ledger mutation changes points and
// invalidates this write, which reports false so the caller can retry.
func (r *ProfileRepository) ApplyLedgerPatch(ctx context.Context, id primitive.ObjectID, expectedPoints int, patch repositories.LedgerPatch) (bool, error) {
	set := bson.M{
		"points":    patch.Points,
		"level":     patch.Level,
		"tier":      patch.Tier,
		"updatedAt": time.Now(),
	}
	if patch.WeeklyStampsRequested != nil {
		set["weeklyStampsRequested"] = *patch.WeeklyStampsRequested
	}
	if patch.WeeklyResetAt != nil {
		set["weeklyResetAt"] = *patch.WeeklyResetAt
	}

	update := bson.M{"$set": set}
	inc := bson.M{}
	if patch.StampBalanceDelta != 0 {
		inc["stampBalance"] = patch.StampBalanceDelta
	}
	if patch.TotalOfferedDelta != 0 {
		inc["totalOffered"] = patch.TotalOfferedDelta
	}
	if patch.TotalRequestedDelta != 0 {
		inc["totalRequested"] = patch.TotalRequestedDelta
	}
	if len(inc) > 0 {
		update["$inc"] = inc
	}

	filter := bson.M{"_id": id, "points": expectedPoints}
	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, err
	}
	return result.MatchedCount == 1, nil
}

// Leaderboard returns the top profiles ordered by points descending
func (r *ProfileRepository) Leaderboard(ctx context.Context, limit int64) ([]*models.LeaderboardEntry, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "points", Value: -1}}).
		SetLimit(limit).
		SetProjection(bson.M{
			"displayName":    1,
			"district":       1,
			"points":         1,
			"level":          1,
			"tier":           1,
			"totalOffered":   1,
			"totalRequested": 1,
		})

	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var entries []*models.LeaderboardEntry
	if err = cursor.All(ctx, &entries); err != nil {
		return nil, err
	}
	if entries == nil {
		entries = []*models.LeaderboardEntry{}
	}
	return entries, nil
}

// Count returns the total number of profiles
func (r *ProfileRepository) Count(ctx context.Context) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{})
}
