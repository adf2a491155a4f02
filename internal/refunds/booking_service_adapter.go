package refunds

import (
	"context"

	"github.com/google/uuid"

	"tourly/internal/bookings"
)

// BookingServiceAdapter implements the BookingService interface on top of the
// bookings package so the refund engine never depends on its internals.
type BookingServiceAdapter struct {
	bookingService bookings.Service
}

// NewBookingServiceAdapter creates a new adapter around the bookings service
func NewBookingServiceAdapter(bookingService bookings.Service) *BookingServiceAdapter {
	return &BookingServiceAdapter{bookingService: bookingService}
}

// GetBooking implements the BookingService interface
func (a *BookingServiceAdapter) GetBooking(ctx context.Context, bookingID uuid.UUID) (BookingInfo, error) {
	booking, err := a.bookingService.GetBooking(ctx, bookingID)
	if err != nil {
		return BookingInfo{}, err
	}
	return BookingInfo{
		ID:         booking.ID,
		CustomerID: booking.CustomerID,
		TourID:     booking.TourID,
		TourDate:   booking.TourDate,
		TotalPrice: booking.TotalPrice,
		Status:     booking.Status,
		BookingRef: booking.BookingRef,
	}, nil
}
