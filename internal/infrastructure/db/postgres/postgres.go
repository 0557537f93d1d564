package postgres

import (
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

const defaultTimeout = 10 * time.Second

// Open establishes a GORM connection to Postgres. Errors are translated so
// driver-level uniqueness violations surface as gorm.ErrDuplicatedKey.
func Open(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("postgres open: %w", err)
	}
	return db, nil
}

// Migrate creates or updates the schema. The obituaries table carries an
// enforced foreign key from creator_id to users, so ownership is referential
// integrity rather than an unchecked string comparison.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&roleModel{},
		&userModel{},
		&obituaryModel{},
	)
}
