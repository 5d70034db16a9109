package database

import (
	"errors"
	"strings"
	"time"

	"github.com/Henryk91/get-company-info/internal/config"
	"github.com/Henryk91/get-company-info/internal/logger"
	"github.com/Henryk91/get-company-info/internal/models"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

type DB struct {
	*gorm.DB
}

// Connect opens PostgreSQL or SQLite depending on cfg.DatabaseType
func Connect(cfg *config.Config) (*DB, error) {
	log := logger.GetLogger("database")

	logLevel := gormlogger.Silent
	if cfg.IsDevelopment() {
		logLevel = gormlogger.Info
	}

	var dialector gorm.Dialector
	switch cfg.DatabaseType {
	case "postgres":
		dialector = postgres.Open(cfg.DatabaseURL)
	default:
		dialector = sqlite.Open(sqliteDSN(cfg.DatabaseURL))
	}

	db, err := Open(dialector, logLevel)
	if err != nil {
		return nil, err
	}

	// Configure connection pool
	sqlDB, err := db.DB.DB()
	if err == nil {
		if cfg.DatabaseType == "sqlite" {
			// SQLite allows a single writer
			sqlDB.SetMaxOpenConns(1)
		} else {
			sqlDB.SetMaxOpenConns(25)
			sqlDB.SetMaxIdleConns(5)
		}
		sqlDB.SetConnMaxLifetime(5 * time.Minute)
		log.Infow("Database connection pool configured", "type", cfg.DatabaseType)
	}

	return db, nil
}

// Open wraps gorm.Open with the settings every dialect shares and registers
// the metrics plugin.
func Open(dialector gorm.Dialector, logLevel gormlogger.LogLevel) (*DB, error) {
	log := logger.GetLogger("database")

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         gormlogger.Default.LogMode(logLevel),
		TranslateError: true,
	})
	if err != nil {
		return nil, err
	}

	if err := db.Use(&MetricsPlugin{}); err != nil {
		log.Warnf("Failed to register metrics plugin: %v", err)
	}

	return &DB{db}, nil
}

// Migrate creates or updates the users, search_queries and places tables
func Migrate(db *DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.SearchQuery{},
		&models.Place{},
	)
}

// Ping checks the underlying connection
func (db *DB) Ping() error {
	sqlDB, err := db.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}

// IsUniqueViolation reports whether err came from a unique index
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// sqliteDSN turns on foreign keys so place rows cascade with their query
func sqliteDSN(dsn string) string {
	if strings.Contains(dsn, "_foreign_keys") || strings.Contains(dsn, "_fk") {
		return dsn
	}
	if strings.Contains(dsn, "?") {
		return dsn + "&_foreign_keys=1"
	}
	return dsn + "?_foreign_keys=1"
}
