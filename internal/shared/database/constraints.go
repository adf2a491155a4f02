package database

import (
	"gorm.io/gorm"
)

// MigrateConstraints adds database constraints the refund engine depends on
// for correctness under concurrency
func MigrateConstraints(db *gorm.DB) error {
	// One refund request per booking, enforced at the storage layer so
	// concurrent submissions cannot both win.
	err := db.Exec(`
		CREATE UNIQUE INDEX IF NOT EXISTS idx_refund_requests_booking
		ON refund_requests (booking_id);
	`).Error
	if err != nil {
		return err
	}

	// Covering index for policy resolution lookups.
	err = db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_refund_policies_lookup
		ON refund_policies (refund_type, is_enabled, priority);
	`).Error
	if err != nil {
		return err
	}

	// Day-range scans during overlap validation.
	err = db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_refund_policies_day_range
		ON refund_policies (refund_type, min_days_before_event, max_days_before_event);
	`).Error
	if err != nil {
		return err
	}

	// Admin dashboard filters on status and submission time.
	err = db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_refund_requests_status_requested
		ON refund_requests (status, requested_at);
	`).Error
	if err != nil {
		return err
	}

	// Per-admin processing history.
	err = db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_refund_requests_admin
		ON refund_requests (processed_by_admin_id, processed_at);
	`).Error
	if err != nil {
		return err
	}

	return nil
}
