package bookings

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Service interface defines the contract for booking operations the refund
// engine depends on. Booking creation and tour management live elsewhere;
// this surface only supplies refund inputs and records cancellations.
type Service interface {
	GetBooking(ctx context.Context, bookingID uuid.UUID) (*Booking, error)
	CancelBooking(ctx context.Context, bookingID uuid.UUID, customerID uuid.UUID, asOf time.Time) (*Booking, error)

	// CancelBookingInternal cancels without ownership verification, for
	// company- or system-initiated cancellations.
	CancelBookingInternal(ctx context.Context, bookingID uuid.UUID, asOf time.Time) (*Booking, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) GetBooking(ctx context.Context, bookingID uuid.UUID) (*Booking, error) {
	return s.repo.GetByID(ctx, bookingID)
}

func (s *service) CancelBooking(ctx context.Context, bookingID uuid.UUID, customerID uuid.UUID, asOf time.Time) (*Booking, error) {
	booking, err := s.repo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	if booking.CustomerID != customerID {
		return nil, fmt.Errorf("unauthorized: booking does not belong to customer")
	}

	return s.cancel(ctx, booking, asOf)
}

func (s *service) CancelBookingInternal(ctx context.Context, bookingID uuid.UUID, asOf time.Time) (*Booking, error) {
	booking, err := s.repo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	return s.cancel(ctx, booking, asOf)
}

func (s *service) cancel(ctx context.Context, booking *Booking, asOf time.Time) (*Booking, error) {
	if !Status(booking.Status).CanBeCancelled() {
		return nil, fmt.Errorf("booking %s cannot be cancelled in status %s", booking.ID, booking.Status)
	}

	if err := s.repo.UpdateStatus(ctx, booking.ID, StatusCancelled, &asOf); err != nil {
		return nil, err
	}

	booking.Status = string(StatusCancelled)
	booking.CancelledAt = &asOf
	return booking, nil
}
