package services

import (
	"context"
	"errors"
	"testing"

	"github.com/Henryk91/get-company-info/internal/models"
	"github.com/Henryk91/get-company-info/pkg/googleplaces"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedQuery(t *testing.T, store *PlaceStore, userID uint, ids ...string) *models.SearchQuery {
	t.Helper()
	ctx := context.Background()
	query, _, err := store.CreateQuery(ctx, userID, "boston", "pizza")
	require.NoError(t, err)

	recs := make([]PlaceRecord, 0, len(ids))
	for _, id := range ids {
		recs = append(recs, PlaceRecord{PlaceID: id, Name: strPtr(id)})
	}
	require.NoError(t, store.UpsertPlaces(ctx, query, recs))
	return query
}

func TestEnrichBatch_CountsEveryCandidate(t *testing.T) {
	db := setupTestDB(t)
	alice := createUser(t, db, "alice")
	store := NewPlaceStore(db)
	query := seedQuery(t, store, alice.UserID, "p1", "p2", "p3", "p4")

	provider := newFakeProvider()
	provider.detailErrs["p2"] = errors.New("timeout")
	provider.detailCodes["p3"] = googleplaces.StatusNotFound
	enricher := NewEnricher(store, provider, Normalizer{})

	summary, err := enricher.EnrichBatch(context.Background(), query.ID, 10)

	require.NoError(t, err)
	assert.Equal(t, 2, summary.Succeeded)
	assert.Equal(t, 2, summary.Failed)
	require.Len(t, summary.Results, 4)
	assert.Equal(t, "p1", summary.Results[0].PlaceID)
	assert.NoError(t, summary.Results[0].Err)
	assert.Error(t, summary.Results[1].Err)
	assert.Error(t, summary.Results[2].Err)

	places, err := store.ListPlaces(context.Background(), alice.UserID, query.ID)
	require.NoError(t, err)
	got := map[string]bool{}
	for _, p := range places {
		got[p.PlaceID] = p.HasDetails
	}
	assert.Equal(t, map[string]bool{"p1": true, "p2": false, "p3": false, "p4": true}, got)
}

func TestEnrichBatch_SkipsEnrichedPlaces(t *testing.T) {
	db := setupTestDB(t)
	alice := createUser(t, db, "alice")
	store := NewPlaceStore(db)
	query := seedQuery(t, store, alice.UserID, "p1", "p2", "p3")
	provider := newFakeProvider()
	enricher := NewEnricher(store, provider, Normalizer{})
	ctx := context.Background()

	_, err := enricher.EnrichBatch(ctx, query.ID, 1)
	require.NoError(t, err)
	summary, err := enricher.EnrichBatch(ctx, query.ID, 5)
	require.NoError(t, err)

	assert.Equal(t, 2, summary.Succeeded)
	_, detailCalls := provider.calls()
	assert.Equal(t, []string{"p1", "p2", "p3"}, detailCalls)
}

func TestEnrichBatch_NonPositiveLimit(t *testing.T) {
	db := setupTestDB(t)
	alice := createUser(t, db, "alice")
	store := NewPlaceStore(db)
	query := seedQuery(t, store, alice.UserID, "p1")
	provider := newFakeProvider()
	enricher := NewEnricher(store, provider, Normalizer{})

	for _, limit := range []int{0, -3} {
		summary, err := enricher.EnrichBatch(context.Background(), query.ID, limit)
		require.NoError(t, err)
		assert.Zero(t, summary.Succeeded+summary.Failed)
	}
	_, detailCalls := provider.calls()
	assert.Empty(t, detailCalls)
}
