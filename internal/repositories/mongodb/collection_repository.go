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

// Compile-time check to ensure CollectionRepository implements the interface
var _ repositories.CollectionRepository = (*CollectionRepository)(nil)

// CollectionRepository handles MongoDB operations for the catalog:
// collections, their items and redemption options live in three flat
// collections and are assembled on read.
type CollectionRepository struct {
	collections *mongo.Collection
	items       *mongo.Collection
	options     *mongo.Collection
}

// NewCollectionRepository creates a new CollectionRepository
func NewCollectionRepository(db *mongo.Database) *CollectionRepository {
	return &CollectionRepository{
		collections: db.Collection("stamp_collections"),
		items:       db.Collection("collection_items"),
		options:     db.Collection("redemption_options"),
	}
}

var itemSortOrder = options.Find().SetSort(bson.D{{Key: "sortOrder", Value: 1}})

// CreateCollection inserts a new collection
func (r *CollectionRepository) CreateCollection(ctx context.Context, collection *models.StampCollection) error {
	collection.ID = primitive.NewObjectID()
	collection.CreatedAt = time.Now()
	collection.UpdatedAt = time.Now()
	_, err := r.collections.InsertOne(ctx, collection)
	return err
}

// FindCollectionByID finds a collection with its items and options
func (r *CollectionRepository) FindCollectionByID(ctx context.Context, id primitive.ObjectID) (*models.StampCollection, error) {
	var collection models.StampCollection
	err := r.collections.FindOne(ctx, bson.M{"_id": id}).Decode(&collection)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, repositories.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if err := r.populateItems(ctx, &collection); err != nil {
		return nil, err
	}
	return &collection, nil
}

// FindAllCollections returns collections ordered by sortOrder, optionally
// restricted to active ones
func (r *CollectionRepository) FindAllCollections(ctx context.Context, onlyActive bool) ([]*models.StampCollection, error) {
	filter := bson.M{}
	if onlyActive {
		filter["isActive"] = true
	}

	cursor, err := r.collections.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "sortOrder", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var collections []*models.StampCollection
	if err = cursor.All(ctx, &collections); err != nil {
		return nil, err
	}
	if collections == nil {
		collections = []*models.StampCollection{}
	}

	for _, collection := range collections {
		if err := r.populateItems(ctx, collection); err != nil {
			return nil, err
		}
	}
	return collections, nil
}

func (r *CollectionRepository) populateItems(ctx context.Context, collection *models.StampCollection) error {
	cursor, err := r.items.Find(ctx, bson.M{"collectionId": collection.ID}, itemSortOrder)
	if err != nil {
		return err
	}
	defer cursor.Close(ctx)

	var items []*models.CollectionItem
	if err = cursor.All(ctx, &items); err != nil {
		return err
	}
	if items == nil {
		items = []*models.CollectionItem{}
	}

	for _, item := range items {
		optCursor, err := r.options.Find(ctx, bson.M{"itemId": item.ID}, itemSortOrder)
		if err != nil {
			return err
		}
		var opts []*models.RedemptionOption
		if err = optCursor.All(ctx, &opts); err != nil {
			return err
		}
		if opts == nil {
			opts = []*models.RedemptionOption{}
		}
		item.Options = opts
	}

	collection.Items = items
	return nil
}

// UpdateCollection updates an existing collection
func (r *CollectionRepository) UpdateCollection(ctx context.Context, collection *models.StampCollection) error {
	collection.UpdatedAt = time.Now()
	update := bson.M{"$set": bson.M{
		"name":        collection.Name,
		"description": collection.Description,
		"imageUrl":    collection.ImageURL,
		"startsAt":    collection.StartsAt,
		"endsAt":      collection.EndsAt,
		"isActive":    collection.IsActive,
		"sortOrder":   collection.SortOrder,
		"updatedAt":   collection.UpdatedAt,
	}}
	result, err := r.collections.UpdateOne(ctx, bson.M{"_id": collection.ID}, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repositories.ErrNotFound
	}
	return nil
}

// DeleteCollection removes a collection and cascades to items and options
func (r *CollectionRepository) DeleteCollection(ctx context.Context, id primitive.ObjectID) error {
	cursor, err := r.items.Find(ctx, bson.M{"collectionId": id})
	if err != nil {
		return err
	}
	var items []*models.CollectionItem
	if err = cursor.All(ctx, &items); err != nil {
		return err
	}
	for _, item := range items {
		if _, err := r.options.DeleteMany(ctx, bson.M{"itemId": item.ID}); err != nil {
			return err
		}
	}
	if _, err := r.items.DeleteMany(ctx, bson.M{"collectionId": id}); err != nil {
		return err
	}
	result, err := r.collections.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return repositories.ErrNotFound
	}
	return nil
}

// CreateItem inserts a new collection item
func (r *CollectionRepository) CreateItem(ctx context.Context, item *models.CollectionItem) error {
	item.ID = primitive.NewObjectID()
	item.CreatedAt = time.Now()
	item.UpdatedAt = time.Now()
	_, err := r.items.InsertOne(ctx, item)
	return err
}

// FindItem finds an item scoped to its collection
func (r *CollectionRepository) FindItem(ctx context.Context, collectionID, itemID primitive.ObjectID) (*models.CollectionItem, error) {
	var item models.CollectionItem
	err := r.items.FindOne(ctx, bson.M{"_id": itemID, "collectionId": collectionID}).Decode(&item)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, repositories.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	optCursor, err := r.options.Find(ctx, bson.M{"itemId": item.ID}, itemSortOrder)
	if err != nil {
		return nil, err
	}
	var opts []*models.RedemptionOption
	if err = optCursor.All(ctx, &opts); err != nil {
		return nil, err
	}
	if opts == nil {
		opts = []*models.RedemptionOption{}
	}
	item.Options = opts
	return &item, nil
}

// UpdateItem updates an existing item
func (r *CollectionRepository) UpdateItem(ctx context.Context, item *models.CollectionItem) error {
	item.UpdatedAt = time.Now()
	update := bson.M{"$set": bson.M{
		"name":      item.Name,
		"subtitle":  item.Subtitle,
		"imageUrl":  item.ImageURL,
		"sortOrder": item.SortOrder,
		"updatedAt": item.UpdatedAt,
	}}
	result, err := r.items.UpdateOne(ctx, bson.M{"_id": item.ID}, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repositories.ErrNotFound
	}
	return nil
}

// DeleteItem removes an item and cascades to its options
func (r *CollectionRepository) DeleteItem(ctx context.Context, id primitive.ObjectID) error {
	if _, err := r.options.DeleteMany(ctx, bson.M{"itemId": id}); err != nil {
		return err
	}
	result, err := r.items.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return repositories.ErrNotFound
	}
	return nil
}

// CreateOption inserts a new redemption option
func (r *CollectionRepository) CreateOption(ctx context.Context, option *models.RedemptionOption) error {
	option.ID = primitive.NewObjectID()
	option.CreatedAt = time.Now()
	_, err := r.options.InsertOne(ctx, option)
	return err
}

// FindOption finds an option scoped to its item
func (r *CollectionRepository) FindOption(ctx context.Context, itemID, optionID primitive.ObjectID) (*models.RedemptionOption, error) {
	var option models.RedemptionOption
	err := r.options.FindOne(ctx, bson.M{"_id": optionID, "itemId": itemID}).Decode(&option)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, repositories.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &option, nil
}

// DeleteOption removes a redemption option
func (r *CollectionRepository) DeleteOption(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.options.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return repositories.ErrNotFound
	}
	return nil
}
