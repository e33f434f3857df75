package postgres

import (
	"log"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"gridwalk/internal/model"
)

// Init opens the database connection and migrates the intersection schema.
// The intersection graph is an optional capability, so failures are
// returned to the caller instead of aborting the process.
func Init(url string) (*gorm.DB, error) {
	// Configure GORM logger with higher slow SQL threshold
	gormLogger := logger.New(
		log.New(log.Writer(), "\r\n", log.LstdFlags), // io writer
		logger.Config{
			SlowThreshold: time.Millisecond * 500,
		},
	)

	db, err := gorm.Open(postgres.Open(url), &gorm.Config{
		Logger: gormLogger,
	})
	if err != nil {
		return nil, err
	}

	// AutoMigrate models
	if err := db.AutoMigrate(&model.IntersectionPG{}); err != nil {
		return nil, err
	}

	return db, nil
}
