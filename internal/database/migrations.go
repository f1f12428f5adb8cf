package database

import (
	"github.com/chachabrian/transitly-backend/internal/models"
	"gorm.io/gorm"
)

func RunMigrations(db *gorm.DB) error {
	// Create tables if they don't exist
	err := db.AutoMigrate(
		&models.User{},
		&models.Route{},
		&models.Vehicle{},
		&models.Schedule{},
		&models.Booking{},
		&models.VoiceCommand{},
	)
	if err != nil {
		return err
	}

	// Update users table for installs that predate user roles
	if db.Migrator().HasTable(&models.User{}) {
		columns := []string{
			"ADD COLUMN IF NOT EXISTS phone_number text DEFAULT ''",
			"ADD COLUMN IF NOT EXISTS user_type text DEFAULT 'passenger'",
		}

		for _, column := range columns {
			if err := db.Exec("ALTER TABLE users " + column).Error; err != nil {
				return err
			}
		}

		// Update constraint
		db.Exec(`ALTER TABLE users DROP CONSTRAINT IF EXISTS users_user_type_check`)
		db.Exec(`ALTER TABLE users ADD CONSTRAINT users_user_type_check CHECK (user_type IN ('passenger', 'admin'))`)
	}

	// Seat counters must never go negative or past the vehicle capacity,
	// the guarded decrement in the booking service relies on this floor.
	if db.Migrator().HasTable(&models.Schedule{}) {
		db.Exec(`ALTER TABLE schedules DROP CONSTRAINT IF EXISTS schedules_available_seats_check`)
		if err := db.Exec(`ALTER TABLE schedules ADD CONSTRAINT schedules_available_seats_check CHECK (available_seats >= 0)`).Error; err != nil {
			return err
		}
	}

	return nil
}
