package mongodb

import (
	"context"
	"errors"
	"time"

	"github.com/selotroca/selotroca-backend/internal/models"
	"github.com/selotroca/selotroca-backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Compile-time check to ensure SettingsRepository implements the interface
var _ repositories.SettingsRepository = (*SettingsRepository)(nil)

// SettingsRepository handles MongoDB operations for the global AppSettings
// document
type SettingsRepository struct {
	collection *mongo.Collection
}

// NewSettingsRepository creates a new SettingsRepository
func NewSettingsRepository(db *mongo.Database) *SettingsRepository {
	return &SettingsRepository{
		collection: db.Collection("app_settings"),
	}
}

// Get returns the global settings document, creating it on first access
func (r *SettingsRepository) Get(ctx context.Context) (*models.AppSettings, error) {
	var settings models.AppSettings
	err := r.collection.FindOne(ctx, bson.M{"_id": models.AppSettingsID}).Decode(&settings)
	if errors.Is(err, mongo.ErrNoDocuments) {
		settings = models.AppSettings{ID: models.AppSettingsID, UpdatedAt: time.Now()}
		if _, insErr := r.collection.InsertOne(ctx, &settings); insErr != nil && !mongo.IsDuplicateKeyError(insErr) {
			return nil, insErr
		}
		return &settings, nil
	}
	if err != nil {
		return nil, err
	}
	return &settings, nil
}

// Upsert writes the global settings document
func (r *SettingsRepository) Upsert(ctx context.Context, settings *models.AppSettings) error {
	settings.ID = models.AppSettingsID
	settings.UpdatedAt = time.Now()
	opts := options.Replace().SetUpsert(true)
	_, err := r.collection.ReplaceOne(ctx, bson.M{"_id": models.AppSettingsID}, settings, opts)
	return err
}
