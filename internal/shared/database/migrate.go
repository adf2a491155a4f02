package database

import (
	"tourly/internal/bookings"
	"tourly/internal/policies"
	"tourly/internal/refunds"
	"tourly/internal/users"

	"gorm.io/gorm"
)

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&users.User{},
		&bookings.Booking{},
		&policies.RefundPolicy{},
		&refunds.RefundRequest{},
	)
}
