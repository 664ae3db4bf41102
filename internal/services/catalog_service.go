package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/selotroca/selotroca-backend/internal/models"
	"github.com/selotroca/selotroca-backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Compile-time check to ensure CatalogServiceImpl implements CatalogService
var _ CatalogService = (*CatalogServiceImpl)(nil)

type CatalogServiceImpl struct {
	collectionRepo repositories.CollectionRepository
}

func NewCatalogService(collectionRepo repositories.CollectionRepository) *CatalogServiceImpl {
	return &CatalogServiceImpl{collectionRepo: collectionRepo}
}

// parseCatalogDate accepts the date formats the back office sends.
func parseCatalogDate(value string) (time.Time, error) {
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, NewDomainError(CodeValidation, "invalid date %q", value)
}

func (s *CatalogServiceImpl) ListCollections(ctx context.Context, onlyActive bool) ([]*models.StampCollection, error) {
	collections, err := s.collectionRepo.FindAllCollections(ctx, onlyActive)
	if err != nil {
		return nil, fmt.Errorf("failed to list collections: %w", err)
	}
	return collections, nil
}

func (s *CatalogServiceImpl) GetCollection(ctx context.Context, id primitive.ObjectID) (*models.StampCollection, error) {
	collection, err := s.collectionRepo.FindCollectionByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrNotFound("collection")
		}
		return nil, fmt.Errorf("failed to fetch collection: %w", err)
	}
	return collection, nil
}

func (s *CatalogServiceImpl) CreateCollection(ctx context.Context, req *models.CreateCollectionRequest) (*models.StampCollection, error) {
	startsAt, err := parseCatalogDate(req.StartsAt)
	if err != nil {
		return nil, err
	}
	endsAt, err := parseCatalogDate(req.EndsAt)
	if err != nil {
		return nil, err
	}
	if !endsAt.After(startsAt) {
		return nil, NewDomainError(CodeValidation, "collection must end after it starts")
	}

	now := time.Now()
	collection := &models.StampCollection{
		Name:        req.Name,
		Description: req.Description,
		ImageURL:    req.ImageURL,
		StartsAt:    startsAt,
		EndsAt:      endsAt,
		IsActive:    true,
		SortOrder:   req.SortOrder,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if req.IsActive != nil {
		collection.IsActive = *req.IsActive
	}

	if err := s.collectionRepo.CreateCollection(ctx, collection); err != nil {
		return nil, fmt.Errorf("failed to create collection: %w", err)
	}
	return collection, nil
}

func (s *CatalogServiceImpl) UpdateCollection(ctx context.Context, id primitive.ObjectID, req *models.UpdateCollectionRequest) (*models.StampCollection, error) {
	collection, err := s.GetCollection(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		collection.Name = *req.Name
	}
	if req.Description != nil {
		collection.Description = *req.Description
	}
	if req.ImageURL != nil {
		collection.ImageURL = *req.ImageURL
	}
	if req.StartsAt != nil {
		startsAt, err := parseCatalogDate(*req.StartsAt)
		if err != nil {
			return nil, err
		}
		collection.StartsAt = startsAt
	}
	if req.EndsAt != nil {
		endsAt, err := parseCatalogDate(*req.EndsAt)
		if err != nil {
			return nil, err
		}
		collection.EndsAt = endsAt
	}
	if req.IsActive != nil {
		collection.IsActive = *req.IsActive
	}
	if req.SortOrder != nil {
		collection.SortOrder = *req.SortOrder
	}
	collection.UpdatedAt = time.Now()

	if err := s.collectionRepo.UpdateCollection(ctx, collection); err != nil {
		return nil, fmt.Errorf("failed to update collection: %w", err)
	}
	return collection, nil
}

func (s *CatalogServiceImpl) DeleteCollection(ctx context.Context, id primitive.ObjectID) error {
	if _, err := s.GetCollection(ctx, id); err != nil {
		return err
	}
	if err := s.collectionRepo.DeleteCollection(ctx, id); err != nil {
		return fmt.Errorf("failed to delete collection: %w", err)
	}
	return nil
}

func (s *CatalogServiceImpl) AddItem(ctx context.Context, collectionID primitive.ObjectID, req *models.CreateCollectionItemRequest) (*models.CollectionItem, error) {
	if _, err := s.GetCollection(ctx, collectionID); err != nil {
		return nil, err
	}

	now := time.Now()
	item := &models.CollectionItem{
		CollectionID: collectionID,
		Name:         req.Name,
		Subtitle:     req.Subtitle,
		ImageURL:     req.ImageURL,
		SortOrder:    req.SortOrder,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.collectionRepo.CreateItem(ctx, item); err != nil {
		return nil, fmt.Errorf("failed to create item: %w", err)
	}
	return item, nil
}

func (s *CatalogServiceImpl) UpdateItem(ctx context.Context, collectionID, itemID primitive.ObjectID, req *models.UpdateCollectionItemRequest) (*models.CollectionItem, error) {
	item, err := s.collectionRepo.FindItem(ctx, collectionID, itemID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrNotFound("item")
		}
		return nil, fmt.Errorf("failed to fetch item: %w", err)
	}

	if req.Name != nil {
		item.Name = *req.Name
	}
	if req.Subtitle != nil {
		item.Subtitle = *req.Subtitle
	}
	if req.ImageURL != nil {
		item.ImageURL = *req.ImageURL
	}
	if req.SortOrder != nil {
		item.SortOrder = *req.SortOrder
	}
	item.UpdatedAt = time.Now()

	if err := s.collectionRepo.UpdateItem(ctx, item); err != nil {
		return nil, fmt.Errorf("failed to update item: %w", err)
	}
	return item, nil
}

func (s *CatalogServiceImpl) DeleteItem(ctx context.Context, collectionID, itemID primitive.ObjectID) error {
	if _, err := s.collectionRepo.FindItem(ctx, collectionID, itemID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrNotFound("item")
		}
		return fmt.Errorf("failed to fetch item: %w", err)
	}
	if err := s.collectionRepo.DeleteItem(ctx, itemID); err != nil {
		return fmt.Errorf("failed to delete item: %w", err)
	}
	return nil
}

func (s *CatalogServiceImpl) AddOption(ctx context.Context, collectionID, itemID primitive.ObjectID, req *models.CreateRedemptionOptionRequest) (*models.RedemptionOption, error) {
	if _, err := s.collectionRepo.FindItem(ctx, collectionID, itemID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrNotFound("item")
		}
		return nil, fmt.Errorf("failed to fetch item: %w", err)
	}

	option := &models.RedemptionOption{
		ItemID:         itemID,
		StampsRequired: req.StampsRequired,
		FeeEuros:       req.FeeEuros,
		Label:          req.Label,
		SortOrder:      req.SortOrder,
		CreatedAt:      time.Now(),
	}
	if err := s.collectionRepo.CreateOption(ctx, option); err != nil {
		return nil, fmt.Errorf("failed to create option: %w", err)
	}
	return option, nil
}

func (s *CatalogServiceImpl) DeleteOption(ctx context.Context, collectionID, itemID, optionID primitive.ObjectID) error {
	if _, err := s.collectionRepo.FindOption(ctx, itemID, optionID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrNotFound("option")
		}
		return fmt.Errorf("failed to fetch option: %w", err)
	}
	if err := s.collectionRepo.DeleteOption(ctx, optionID); err != nil {
		return fmt.Errorf("failed to delete option: %w", err)
	}
	return nil
}
