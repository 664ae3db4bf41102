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

// Compile-time check to ensure OtpRepository implements the interface
var _ repositories.OtpRepository = (*OtpRepository)(nil)

// OtpRepository handles MongoDB operations for OtpCode
type OtpRepository struct {
	collection *mongo.Collection
}

// NewOtpRepository creates a new OtpRepository
func NewOtpRepository(db *mongo.Database) *OtpRepository {
	return &OtpRepository{
		collection: db.Collection("otp_codes"),
	}
}

// Create inserts a new one-time code
func (r *OtpRepository) Create(ctx context.Context, otp *models.OtpCode) error {
	otp.ID = primitive.NewObjectID()
	otp.CreatedAt = time.Now()
	_, err := r.collection.InsertOne(ctx, otp)
	return err
}

// FindActiveByPhone returns the most recent unused, unexpired code for a phone
func (r *OtpRepository) FindActiveByPhone(ctx context.Context, phone string, now time.Time) (*models.OtpCode, error) {
	filter := bson.M{
		"phone":     phone,
		"used":      false,
		"expiresAt": bson.M{"$gt": now},
	}
	opts := options.FindOne().SetSort(bson.D{{Key: "createdAt", Value: -1}})

	var otp models.OtpCode
	err := r.collection.FindOne(ctx, filter, opts).Decode(&otp)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, repositories.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &otp, nil
}

// InvalidateByPhone marks all unused codes for a phone as used
func (r *OtpRepository) InvalidateByPhone(ctx context.Context, phone string) error {
	_, err := r.collection.UpdateMany(ctx,
		bson.M{"phone": phone, "used": false},
		bson.M{"$set": bson.M{"used": true}},
	)
	return err
}

// IncrementAttempts bumps the attempt counter on a code
func (r *OtpRepository) IncrementAttempts(ctx context.Context, id primitive.ObjectID) error {
	_, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$inc": bson.M{"attempts": 1}},
	)
	return err
}

// MarkUsed consumes a code
func (r *OtpRepository) MarkUsed(ctx context.Context, id primitive.ObjectID) error {
	_, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"used": true}},
	)
	return err
}
