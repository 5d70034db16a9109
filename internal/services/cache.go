package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Henryk91/get-company-info/internal/database"
	"github.com/Henryk91/get-company-info/internal/models"
	"gorm.io/gorm"
)

// PlaceStore owns search queries and the places cached under them
type PlaceStore struct {
	db *database.DB
}

func NewPlaceStore(db *database.DB) *PlaceStore {
	return &PlaceStore{db: db}
}

func orderedPlaces(db *gorm.DB) *gorm.DB {
	return db.Order("places.id ASC")
}

// FindCachedQuery returns the user's query for (city, category) with its
// places, or ErrNotFound. Keys must already be normalized.
func (s *PlaceStore) FindCachedQuery(ctx context.Context, userID uint, city, category string) (*models.SearchQuery, error) {
	var query models.SearchQuery
	err := s.db.WithContext(ctx).
		Preload("Places", orderedPlaces).
		Where("user_id = ? AND city = ? AND category = ?", userID, city, category).
		First(&query).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &query, nil
}

// CreateQuery inserts a query row. When a concurrent request already
// created the same key, the existing row is returned with created=false.
func (s *PlaceStore) CreateQuery(ctx context.Context, userID uint, city, category string) (*models.SearchQuery, bool, error) {
	query := models.SearchQuery{City: city, Category: category, UserID: userID}
	err := s.db.WithContext(ctx).Create(&query).Error
	if err == nil {
		return &query, true, nil
	}
	if !database.IsUniqueViolation(err) {
		return nil, false, fmt.Errorf("failed to create search query: %w", err)
	}

	existing, findErr := s.FindCachedQuery(ctx, userID, city, category)
	if findErr != nil {
		return nil, false, findErr
	}
	return existing, false, nil
}

// GetQuery loads one of the user's queries with its places
func (s *PlaceStore) GetQuery(ctx context.Context, userID, queryID uint) (*models.SearchQuery, error) {
	var query models.SearchQuery
	err := s.db.WithContext(ctx).
		Preload("Places", orderedPlaces).
		Where("id = ? AND user_id = ?", queryID, userID).
		First(&query).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &query, nil
}

// ListQueries returns the user's queries, newest first, with places
func (s *PlaceStore) ListQueries(ctx context.Context, userID uint) ([]models.SearchQuery, error) {
	var queries []models.SearchQuery
	err := s.db.WithContext(ctx).
		Preload("Places", orderedPlaces).
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Find(&queries).Error
	if err != nil {
		return nil, err
	}
	return queries, nil
}

// ListPlaces returns the places of one of the user's queries
func (s *PlaceStore) ListPlaces(ctx context.Context, userID, queryID uint) ([]models.Place, error) {
	if err := s.ensureOwned(ctx, userID, queryID); err != nil {
		return nil, err
	}

	var places []models.Place
	err := s.db.WithContext(ctx).
		Where("search_query_id = ?", queryID).
		Order("id ASC").
		Find(&places).Error
	if err != nil {
		return nil, err
	}
	return places, nil
}

// DeleteQuery removes one of the user's queries and its places
func (s *PlaceStore) DeleteQuery(ctx context.Context, userID, queryID uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var query models.SearchQuery
		if err := tx.Where("id = ? AND user_id = ?", queryID, userID).First(&query).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		return deleteQueryRows(tx, query.ID)
	})
}

// discardQuery drops a query created by a search that failed midway
func (s *PlaceStore) discardQuery(ctx context.Context, queryID uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return deleteQueryRows(tx, queryID)
	})
}

func deleteQueryRows(tx *gorm.DB, queryID uint) error {
	if err := tx.Where("search_query_id = ?", queryID).Delete(&models.Place{}).Error; err != nil {
		return err
	}
	return tx.Delete(&models.SearchQuery{}, queryID).Error
}

// Touch bumps the query's updated_at
func (s *PlaceStore) Touch(ctx context.Context, queryID uint) error {
	return s.db.WithContext(ctx).
		Model(&models.SearchQuery{}).
		Where("id = ?", queryID).
		Update("updated_at", time.Now()).Error
}

// UpsertPlace merges rec into the user's row for its place id, creating
// it if needed, and assigns it to query.
func (s *PlaceStore) UpsertPlace(ctx context.Context, query *models.SearchQuery, rec PlaceRecord) (*models.Place, error) {
	var place *models.Place
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		place, err = upsertPlace(tx, query, rec)
		return err
	})
	if err != nil {
		return nil, err
	}
	return place, nil
}

// UpsertPlaces merges a batch of records in a single transaction
func (s *PlaceStore) UpsertPlaces(ctx context.Context, query *models.SearchQuery, recs []PlaceRecord) error {
	if len(recs) == 0 {
		return nil
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, rec := range recs {
			if _, err := upsertPlace(tx, query, rec); err != nil {
				return err
			}
		}
		return nil
	})
}

// ReplacePlaces deletes every place of query, then upserts recs. Places
// come back without details and must be enriched again.
func (s *PlaceStore) ReplacePlaces(ctx context.Context, query *models.SearchQuery, recs []PlaceRecord) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("search_query_id = ?", query.ID).Delete(&models.Place{}).Error; err != nil {
			return fmt.Errorf("failed to remove places: %w", err)
		}

		for _, rec := range recs {
			if _, err := upsertPlace(tx, query, rec); err != nil {
				return err
			}
		}
		return nil
	})
}

// pendingDetails returns up to limit places of the query without details,
// in insertion order
func (s *PlaceStore) pendingDetails(ctx context.Context, queryID uint, limit int) ([]models.Place, error) {
	var places []models.Place
	err := s.db.WithContext(ctx).
		Where("search_query_id = ? AND has_details = ?", queryID, false).
		Order("id ASC").
		Limit(limit).
		Find(&places).Error
	return places, err
}

func (s *PlaceStore) countPendingDetails(ctx context.Context, queryID uint) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).
		Model(&models.Place{}).
		Where("search_query_id = ? AND has_details = ?", queryID, false).
		Count(&count).Error
	return count, err
}

// applyDetails merges detail records into existing rows by primary key,
// all in one transaction. Rows removed since the fetch are skipped.
func (s *PlaceStore) applyDetails(ctx context.Context, updates map[uint]PlaceRecord) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for id, rec := range updates {
			var place models.Place
			if err := tx.First(&place, id).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					continue
				}
				return err
			}
			rec.ApplyTo(&place)
			if err := tx.Save(&place).Error; err != nil {
				return fmt.Errorf("failed to save details for %s: %w", place.PlaceID, err)
			}
		}
		return nil
	})
}

func (s *PlaceStore) ensureOwned(ctx context.Context, userID, queryID uint) error {
	var count int64
	err := s.db.WithContext(ctx).
		Model(&models.SearchQuery{}).
		Where("id = ? AND user_id = ?", queryID, userID).
		Count(&count).Error
	if err != nil {
		return err
	}
	if count == 0 {
		return ErrNotFound
	}
	return nil
}

func upsertPlace(tx *gorm.DB, query *models.SearchQuery, rec PlaceRecord) (*models.Place, error) {
	if rec.PlaceID == "" {
		return nil, fmt.Errorf("%w: place id is required", ErrInvalidInput)
	}

	var existing models.Place
	err := tx.Where("user_id = ? AND place_id = ?", query.UserID, rec.PlaceID).First(&existing).Error
	switch {
	case err == nil:
		return mergeInto(tx, &existing, query, rec)
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return nil, err
	}

	place := rec.NewPlace(query.UserID, query.ID)
	// savepoint, so a lost insert race does not abort the outer transaction
	err = tx.Transaction(func(inner *gorm.DB) error {
		return inner.Create(place).Error
	})
	if err == nil {
		return place, nil
	}
	if !database.IsUniqueViolation(err) {
		return nil, fmt.Errorf("failed to insert place %s: %w", rec.PlaceID, err)
	}

	if err := tx.Where("user_id = ? AND place_id = ?", query.UserID, rec.PlaceID).First(&existing).Error; err != nil {
		return nil, err
	}
	return mergeInto(tx, &existing, query, rec)
}

func mergeInto(tx *gorm.DB, place *models.Place, query *models.SearchQuery, rec PlaceRecord) (*models.Place, error) {
	rec.ApplyTo(place)
	place.SearchQueryID = query.ID
	if err := tx.Save(place).Error; err != nil {
		return nil, fmt.Errorf("failed to update place %s: %w", rec.PlaceID, err)
	}
	return place, nil
}
