package services

import (
	"context"
	"fmt"
	"time"

	"github.com/Henryk91/get-company-info/internal/logger"
	"github.com/Henryk91/get-company-info/internal/telemetry"
	"github.com/Henryk91/get-company-info/pkg/googleplaces"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// PlacesProvider is the subset of the places client used by the services
type PlacesProvider interface {
	TextSearch(ctx context.Context, query, location string) (*googleplaces.TextSearchResponse, error)
	PlaceDetails(ctx context.Context, placeID string) (*googleplaces.DetailsResponse, error)
}

// PlaceResult is the outcome for one enrichment candidate
type PlaceResult struct {
	PlaceID string
	Err     error
}

// BatchSummary reports an enrichment run. Succeeded + Failed always equals
// the number of candidates.
type BatchSummary struct {
	Succeeded int
	Failed    int
	Results   []PlaceResult
}

// Enricher fetches details for places that lack them
type Enricher struct {
	store      *PlaceStore
	provider   PlacesProvider
	normalizer Normalizer
}

func NewEnricher(store *PlaceStore, provider PlacesProvider, normalizer Normalizer) *Enricher {
	return &Enricher{store: store, provider: provider, normalizer: normalizer}
}

// EnrichBatch fetches details for up to maxDetails places of the query
// lacking them, oldest first. Per-place failures are recorded in the
// summary. Successful records are committed together once all fetches are
// done; the returned error covers only the candidate lookup and that
// commit.
func (e *Enricher) EnrichBatch(ctx context.Context, queryID uint, maxDetails int) (*BatchSummary, error) {
	summary := &BatchSummary{}
	if maxDetails <= 0 {
		return summary, nil
	}

	ctx, span := telemetry.StartSpan(ctx, "places.enrich_batch")
	defer span.End()
	span.SetAttributes(
		attribute.Int("search_query.id", int(queryID)),
		attribute.Int("enrich.max_details", maxDetails),
	)

	candidates, err := e.store.pendingDetails(ctx, queryID, maxDetails)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to load enrichment candidates: %w", err)
	}

	log := logger.GetLogger("enricher")
	updates := make(map[uint]PlaceRecord, len(candidates))
	successIdx := make([]int, 0, len(candidates))

	for _, place := range candidates {
		rec, err := e.fetchDetail(ctx, place.PlaceID)
		summary.Results = append(summary.Results, PlaceResult{PlaceID: place.PlaceID, Err: err})
		if err != nil {
			log.Warnw("detail fetch failed", "place_id", place.PlaceID, "error", err)
			continue
		}
		updates[place.ID] = rec
		successIdx = append(successIdx, len(summary.Results)-1)
	}

	if len(updates) > 0 {
		if err := e.store.applyDetails(ctx, updates); err != nil {
			// nothing was committed; report every fetched place as failed
			for _, i := range successIdx {
				summary.Results[i].Err = err
			}
			summary.tally()
			span.RecordError(err)
			span.SetStatus(codes.Error, "commit failed")
			return summary, fmt.Errorf("failed to store place details: %w", err)
		}
	}

	summary.tally()
	span.SetAttributes(
		attribute.Int("enrich.succeeded", summary.Succeeded),
		attribute.Int("enrich.failed", summary.Failed),
	)
	log.Infow("enrichment finished",
		"search_query_id", queryID,
		"succeeded", summary.Succeeded,
		"failed", summary.Failed,
	)
	return summary, nil
}

func (e *Enricher) fetchDetail(ctx context.Context, placeID string) (PlaceRecord, error) {
	ctx, span := telemetry.StartSpan(ctx, "places.details")
	defer span.End()
	span.SetAttributes(attribute.String("place.id", placeID))

	start := time.Now()
	resp, err := e.provider.PlaceDetails(ctx, placeID)
	if err != nil {
		providerRequestsTotal.WithLabelValues("details", "error").Inc()
		telemetry.RecordProviderCall(ctx, "details", "error", time.Since(start))
		span.RecordError(err)
		return PlaceRecord{}, err
	}
	providerRequestsTotal.WithLabelValues("details", resp.Status).Inc()
	telemetry.RecordProviderCall(ctx, "details", resp.Status, time.Since(start))

	if resp.Status != googleplaces.StatusOK {
		return PlaceRecord{}, fmt.Errorf("details status %s", resp.Status)
	}
	if resp.Result == nil {
		return PlaceRecord{}, fmt.Errorf("details response for %s has no result", placeID)
	}
	return e.normalizer.Detail(placeID, resp.Result), nil
}

func (s *BatchSummary) tally() {
	s.Succeeded, s.Failed = 0, 0
	for _, r := range s.Results {
		if r.Err != nil {
			s.Failed++
		} else {
			s.Succeeded++
		}
	}
	enrichmentPlacesTotal.WithLabelValues("success").Add(float64(s.Succeeded))
	enrichmentPlacesTotal.WithLabelValues("failure").Add(float64(s.Failed))
}
