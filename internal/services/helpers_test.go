package services

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/Henryk91/get-company-info/internal/config"
	"github.com/Henryk91/get-company-info/internal/database"
	"github.com/Henryk91/get-company-info/internal/models"
	"github.com/Henryk91/get-company-info/pkg/googleplaces"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	gormlogger "gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *database.DB {
	t.Helper()
	db, err := database.Open(sqlite.Open(":memory:"), gormlogger.Silent)
	require.NoError(t, err, "Failed to create test database")

	sqlDB, err := db.DB.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, database.Migrate(db), "Failed to migrate schema")
	return db
}

func testConfig(allowed ...string) *config.Config {
	return &config.Config{
		JWTSecretKey:            "test-secret",
		JWTAccessTokenExpireMin: 30,
		GooglePlacesBaseURL:     "https://places.test/api/place",
		FetchAllowedUsers:       allowed,
	}
}

func createUser(t *testing.T, db *database.DB, username string) *Identity {
	t.Helper()
	user := models.User{
		Username:       username,
		Email:          username + "@example.com",
		HashedPassword: "x",
		IsActive:       true,
	}
	require.NoError(t, db.Create(&user).Error)
	return &Identity{UserID: user.ID, Username: user.Username, Email: user.Email, IsActive: true}
}

func strPtr(s string) *string { return &s }

func intPtr(i int) *int { return &i }

func floatPtr(f float64) *float64 { return &f }

// fakeProvider serves canned responses and records calls
type fakeProvider struct {
	mu sync.Mutex

	textStatus  string
	textPlaces  []string
	textErr     error
	detailErrs  map[string]error
	detailCodes map[string]string

	textCalls   int
	detailCalls []string
}

func newFakeProvider(placeIDs ...string) *fakeProvider {
	return &fakeProvider{
		textStatus:  googleplaces.StatusOK,
		textPlaces:  placeIDs,
		detailErrs:  map[string]error{},
		detailCodes: map[string]string{},
	}
}

func (f *fakeProvider) TextSearch(_ context.Context, query, _ string) (*googleplaces.TextSearchResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.textCalls++

	if f.textErr != nil {
		return nil, f.textErr
	}
	resp := &googleplaces.TextSearchResponse{Status: f.textStatus}
	for i, id := range f.textPlaces {
		resp.Results = append(resp.Results, googleplaces.SearchResult{
			PlaceID:          id,
			Name:             strPtr("Place " + id),
			FormattedAddress: strPtr(fmt.Sprintf("%d Main St", i+1)),
			Geometry: &googleplaces.Geometry{
				Location: &googleplaces.LatLng{Lat: floatPtr(42.36), Lng: floatPtr(-71.06)},
			},
			Rating: floatPtr(4.0),
			Types:  []string{"cafe"},
		})
	}
	return resp, nil
}

func (f *fakeProvider) PlaceDetails(_ context.Context, placeID string) (*googleplaces.DetailsResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.detailCalls = append(f.detailCalls, placeID)

	if err := f.detailErrs[placeID]; err != nil {
		return nil, err
	}
	if code, ok := f.detailCodes[placeID]; ok {
		return &googleplaces.DetailsResponse{Status: code}, nil
	}
	return &googleplaces.DetailsResponse{
		Status: googleplaces.StatusOK,
		Result: &googleplaces.PlaceDetails{
			FormattedPhoneNumber: strPtr("555-" + placeID),
			Website:              strPtr("https://" + placeID + ".example.com"),
			OpeningHours:         &googleplaces.OpeningHours{WeekdayText: []string{"Monday: 9AM-5PM"}},
		},
	}, nil
}

func (f *fakeProvider) calls() (int, []string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.textCalls, append([]string(nil), f.detailCalls...)
}

func countRows(t *testing.T, db *database.DB, model any) int64 {
	t.Helper()
	var count int64
	require.NoError(t, db.Model(model).Count(&count).Error)
	return count
}
