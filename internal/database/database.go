package database

import (
	"fmt"

	"github.com/MinhPhatVilla/WebVilla-sub000/internal/config"
	"github.com/MinhPhatVilla/WebVilla-sub000/internal/models"
	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func Connect(cfg *config.Config) *gorm.DB {
	var dialector gorm.Dialector
	switch cfg.DatabaseDriver {
	case "postgres":
		dialector = postgres.Open(cfg.DatabaseURL)
	case "sqlite", "":
		dialector = sqlite.Open(cfg.DatabasePath)
	default:
		logrus.Fatalf("Unsupported DATABASE_DRIVER %q", cfg.DatabaseDriver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{Logger: logger.Default.LogMode(logger.Warn)})
	if err != nil {
		logrus.Fatalf("Failed to connect to database: %v", err)
	}

	if err := Migrate(db); err != nil {
		logrus.Fatalf("Failed to auto migrate: %v", err)
	}

	return db
}

func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.User{},
		&models.APIKey{},
		&models.Property{},
		&models.DateOverride{},
		&models.Booking{},
		&models.BookingHistory{},
	)
	if err != nil {
		return err
	}

	if db.Dialector.Name() == "postgres" {
		return addOverlapConstraint(db)
	}
	return nil
}

// addOverlapConstraint makes postgres reject two active bookings of the same
// property with overlapping [check_in, check_out) ranges, even when they are
// inserted by different server instances.
func addOverlapConstraint(db *gorm.DB) error {
	var exists bool
	err := db.Raw(`SELECT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'bookings_no_overlap')`).Scan(&exists).Error
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	statements := []string{
		`CREATE EXTENSION IF NOT EXISTS btree_gist`,
		`ALTER TABLE bookings ADD CONSTRAINT bookings_no_overlap EXCLUDE USING gist (
			property_id WITH =,
			daterange(check_in, check_out, '[)') WITH &&
		) WHERE (status IN ('pending', 'confirmed', 'checked_in') AND deleted_at IS NULL)`,
	}
	for _, stmt := range statements {
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("overlap constraint: %w", err)
		}
	}
	logrus.Info("Created bookings_no_overlap exclusion constraint")
	return nil
}
