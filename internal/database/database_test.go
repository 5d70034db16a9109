package database

import (
	"errors"
	"testing"

	"github.com/Henryk91/get-company-info/internal/models"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(sqlite.Open(sqliteDSN(":memory:")), gormlogger.Silent)
	require.NoError(t, err, "Failed to create test database")

	sqlDB, err := db.DB.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, Migrate(db), "Failed to migrate schema")
	return db
}

func TestSQLiteDSN(t *testing.T) {
	assert.Equal(t, "company_info.db?_foreign_keys=1", sqliteDSN("company_info.db"))
	assert.Equal(t, "file:test.db?cache=shared&_foreign_keys=1", sqliteDSN("file:test.db?cache=shared"))
	assert.Equal(t, "x.db?_fk=1", sqliteDSN("x.db?_fk=1"))
}

func TestIsUniqueViolation(t *testing.T) {
	assert.False(t, IsUniqueViolation(nil))
	assert.False(t, IsUniqueViolation(errors.New("boom")))
	assert.True(t, IsUniqueViolation(gorm.ErrDuplicatedKey))
	assert.True(t, IsUniqueViolation(&pgconn.PgError{Code: "23505"}))
	assert.False(t, IsUniqueViolation(&pgconn.PgError{Code: "23503"}))
}

func TestSearchQueryUniquePerUser(t *testing.T) {
	db := setupTestDB(t)

	user := models.User{Username: "alice", Email: "alice@example.com", HashedPassword: "x", IsActive: true}
	require.NoError(t, db.Create(&user).Error)

	first := models.SearchQuery{City: "boston", Category: "coffee shop", UserID: user.ID}
	require.NoError(t, db.Create(&first).Error)

	dup := models.SearchQuery{City: "boston", Category: "coffee shop", UserID: user.ID}
	err := db.Create(&dup).Error
	require.Error(t, err)
	assert.True(t, IsUniqueViolation(err), "expected unique violation, got %v", err)
}

func TestPlacesCascadeWithQuery(t *testing.T) {
	db := setupTestDB(t)

	user := models.User{Username: "bob", Email: "bob@example.com", HashedPassword: "x", IsActive: true}
	require.NoError(t, db.Create(&user).Error)

	query := models.SearchQuery{City: "austin", Category: "bakery", UserID: user.ID}
	require.NoError(t, db.Create(&query).Error)

	for _, id := range []string{"p1", "p2"} {
		place := models.Place{PlaceID: id, UserID: user.ID, Name: id, SearchQueryID: query.ID}
		require.NoError(t, db.Create(&place).Error)
	}

	require.NoError(t, db.Delete(&models.SearchQuery{}, query.ID).Error)

	var count int64
	require.NoError(t, db.Model(&models.Place{}).Count(&count).Error)
	assert.Zero(t, count, "places should be deleted with their search query")
}

func TestPing(t *testing.T) {
	db := setupTestDB(t)
	assert.NoError(t, db.Ping())
}
