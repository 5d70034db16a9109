package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Henryk91/get-company-info/internal/config"
	"github.com/Henryk91/get-company-info/internal/database"
	"github.com/Henryk91/get-company-info/internal/logger"
	"github.com/Henryk91/get-company-info/internal/models"
	"github.com/Henryk91/get-company-info/internal/telemetry"
	"github.com/Henryk91/get-company-info/pkg/googleplaces"
	"go.opentelemetry.io/otel/attribute"
)

type PlacesService struct {
	store      *PlaceStore
	enricher   *Enricher
	policy     *AccessPolicy
	provider   PlacesProvider
	normalizer Normalizer
}

func NewPlacesService(db *database.DB, cfg *config.Config, provider PlacesProvider) *PlacesService {
	store := NewPlaceStore(db)
	normalizer := Normalizer{PhotoBaseURL: cfg.GooglePlacesBaseURL}
	return &PlacesService{
		store:      store,
		enricher:   NewEnricher(store, provider, normalizer),
		policy:     NewAccessPolicy(cfg.FetchAllowedUsers),
		provider:   provider,
		normalizer: normalizer,
	}
}

type SearchRequest struct {
	City       string `json:"city"`
	Category   string `json:"category"`
	MaxDetails *int   `json:"max_details,omitempty"`
}

type RefreshRequest struct {
	SearchQueryID     uint `json:"search_query_id"`
	RefreshTextSearch bool `json:"refresh_text_search"`
	RefreshDetails    bool `json:"refresh_details"`
	// nil enriches every place still lacking details
	MaxDetails *int `json:"max_details,omitempty"`
}

// Search returns the caller's cached results for (city, category), or
// fetches them from the provider on a miss. Cache hits never touch the
// provider and skip the fetch permission check. A provider failure status
// yields an empty, uncached result.
func (s *PlacesService) Search(ctx context.Context, id *Identity, req *SearchRequest) (*models.SearchQuery, error) {
	city := NormalizeKey(req.City)
	category := NormalizeKey(req.Category)
	if city == "" || category == "" {
		return nil, fmt.Errorf("%w: city and category are required", ErrInvalidInput)
	}
	maxDetails := 0
	if req.MaxDetails != nil {
		if *req.MaxDetails < 0 {
			return nil, fmt.Errorf("%w: max_details must not be negative", ErrInvalidInput)
		}
		maxDetails = *req.MaxDetails
	}

	log := logger.GetLogger("places")

	cached, err := s.store.FindCachedQuery(ctx, id.UserID, city, category)
	if err == nil {
		searchCacheTotal.WithLabelValues("hit").Inc()
		log.Debugw("search cache hit", "user_id", id.UserID, "city", city, "category", category)
		return cached, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, err
	}
	searchCacheTotal.WithLabelValues("miss").Inc()

	if !s.policy.IsFetchAllowed(id) {
		return nil, ErrPermissionDenied
	}

	ctx, span := telemetry.StartSpan(ctx, "places.search")
	defer span.End()
	span.SetAttributes(
		attribute.String("search.city", city),
		attribute.String("search.category", category),
	)

	query, created, err := s.store.CreateQuery(ctx, id.UserID, city, category)
	if err != nil {
		return nil, err
	}
	if !created {
		// a concurrent search for the same key won
		return query, nil
	}

	records, ok, err := s.fetchSummaries(ctx, city, category)
	if err != nil {
		s.discard(ctx, query.ID)
		return nil, err
	}
	if !ok {
		// nothing is cached, so the next search asks the provider again
		s.discard(ctx, query.ID)
		return &models.SearchQuery{
			City:     city,
			Category: category,
			UserID:   id.UserID,
			Places:   []models.Place{},
		}, nil
	}

	if err := s.store.UpsertPlaces(ctx, query, records); err != nil {
		s.discard(ctx, query.ID)
		return nil, fmt.Errorf("failed to store places: %w", err)
	}

	if maxDetails > 0 {
		if _, err := s.enricher.EnrichBatch(ctx, query.ID, maxDetails); err != nil {
			log.Errorw("detail enrichment failed", "search_query_id", query.ID, "error", err)
		}
	}

	log.Infow("search fetched",
		"user_id", id.UserID,
		"search_query_id", query.ID,
		"places", len(records),
	)
	return s.store.GetQuery(ctx, id.UserID, query.ID)
}

// Refresh re-runs the text search and/or detail enrichment for an
// existing query. With neither flag set it only returns the query.
func (s *PlacesService) Refresh(ctx context.Context, id *Identity, req *RefreshRequest) (*models.SearchQuery, error) {
	if req.MaxDetails != nil && *req.MaxDetails < 0 {
		return nil, fmt.Errorf("%w: max_details must not be negative", ErrInvalidInput)
	}

	query, err := s.store.GetQuery(ctx, id.UserID, req.SearchQueryID)
	if err != nil {
		return nil, err
	}
	if !req.RefreshTextSearch && !req.RefreshDetails {
		return query, nil
	}
	if !s.policy.IsFetchAllowed(id) {
		return nil, ErrPermissionDenied
	}

	ctx, span := telemetry.StartSpan(ctx, "places.refresh")
	defer span.End()
	span.SetAttributes(
		attribute.Int("search_query.id", int(query.ID)),
		attribute.Bool("refresh.text_search", req.RefreshTextSearch),
		attribute.Bool("refresh.details", req.RefreshDetails),
	)

	log := logger.GetLogger("places")

	if req.RefreshTextSearch {
		records, ok, err := s.fetchSummaries(ctx, query.City, query.Category)
		if err != nil {
			return nil, err
		}
		if ok {
			if err := s.store.ReplacePlaces(ctx, query, records); err != nil {
				return nil, fmt.Errorf("failed to replace places: %w", err)
			}
		}
	}

	if req.RefreshDetails {
		limit := 0
		if req.MaxDetails != nil {
			limit = *req.MaxDetails
		} else {
			pending, err := s.store.countPendingDetails(ctx, query.ID)
			if err != nil {
				return nil, err
			}
			limit = int(pending)
		}
		if _, err := s.enricher.EnrichBatch(ctx, query.ID, limit); err != nil {
			return nil, err
		}
	}

	if err := s.store.Touch(ctx, query.ID); err != nil {
		log.Warnw("failed to touch search query", "search_query_id", query.ID, "error", err)
	}
	return s.store.GetQuery(ctx, id.UserID, query.ID)
}

func (s *PlacesService) ListQueries(ctx context.Context, userID uint) ([]models.SearchQuery, error) {
	return s.store.ListQueries(ctx, userID)
}

func (s *PlacesService) GetQuery(ctx context.Context, userID, queryID uint) (*models.SearchQuery, error) {
	return s.store.GetQuery(ctx, userID, queryID)
}

func (s *PlacesService) ListPlaces(ctx context.Context, userID, queryID uint) ([]models.Place, error) {
	return s.store.ListPlaces(ctx, userID, queryID)
}

func (s *PlacesService) DeleteQuery(ctx context.Context, userID, queryID uint) error {
	return s.store.DeleteQuery(ctx, userID, queryID)
}

// fetchSummaries runs the text search and normalizes its results. ok is
// false when the provider answered with a failure status; those are
// logged, not returned. Transport failures return ErrProviderUnavailable.
func (s *PlacesService) fetchSummaries(ctx context.Context, city, category string) ([]PlaceRecord, bool, error) {
	start := time.Now()
	resp, err := s.provider.TextSearch(ctx, SearchText(category, city), "")
	if err != nil {
		providerRequestsTotal.WithLabelValues("textsearch", "error").Inc()
		telemetry.RecordProviderCall(ctx, "textsearch", "error", time.Since(start))
		return nil, false, fmt.Errorf("%w: %v", ErrProviderUnavailable, err)
	}
	providerRequestsTotal.WithLabelValues("textsearch", resp.Status).Inc()
	telemetry.RecordProviderCall(ctx, "textsearch", resp.Status, time.Since(start))

	switch resp.Status {
	case googleplaces.StatusOK:
	case googleplaces.StatusZeroResults:
		return nil, true, nil
	default:
		logger.GetLogger("places").Warnw("text search returned failure status",
			"status", resp.Status,
			"error_message", resp.ErrorMessage,
			"city", city,
			"category", category,
		)
		return nil, false, nil
	}

	records := make([]PlaceRecord, 0, len(resp.Results))
	for _, result := range resp.Results {
		rec, ok := s.normalizer.Summary(result, city, category)
		if !ok {
			continue
		}
		records = append(records, rec)
	}
	return records, true, nil
}

// discard removes a query left behind by a failed search. It runs even if
// the request context was cancelled.
func (s *PlacesService) discard(ctx context.Context, queryID uint) {
	if err := s.store.discardQuery(context.WithoutCancel(ctx), queryID); err != nil {
		logger.GetLogger("places").Errorw("failed to discard search query", "search_query_id", queryID, "error", err)
	}
}
