package bookings

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Booking is the slice of the tour booking aggregate the refund engine needs:
// who booked, what it cost, when the tour departs and whether the booking is
// still cancellable.
type Booking struct {
	ID         uuid.UUID       `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	CustomerID uuid.UUID       `gorm:"type:uuid;index;not null" json:"customer_id"`
	TourID     uuid.UUID       `gorm:"type:uuid;index;not null" json:"tour_id"`
	TourDate   time.Time       `gorm:"not null" json:"tour_date"`
	TotalPrice decimal.Decimal `gorm:"type:decimal(14,0);not null" json:"total_price"`
	Status     string          `gorm:"type:varchar(20);check:status IN ('CONFIRMED', 'CANCELLED');default:'CONFIRMED'" json:"status"`
	BookingRef string          `gorm:"unique;not null" json:"booking_ref"`

	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	CancelledAt *time.Time `json:"cancelled_at,omitempty"`
}

// TableName sets the table name for Booking
func (Booking) TableName() string {
	return "bookings"
}

func (b *Booking) IsConfirmed() bool {
	return b.Status == string(StatusConfirmed)
}

func (b *Booking) IsCancelled() bool {
	return b.Status == string(StatusCancelled)
}
