package refunds

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"tourly/internal/policies"
	"tourly/internal/shared/config"
	"tourly/pkg/logger"
)

// Service interface defines the contract for refund request business logic
type Service interface {
	CreateRequest(ctx context.Context, customerID uuid.UUID, req SubmitRefundRequest, asOf time.Time) (*RefundRequest, error)
	GetRequest(ctx context.Context, id uuid.UUID) (*RefundRequest, error)
	GetRequestByBooking(ctx context.Context, bookingID uuid.UUID) (*RefundRequest, error)
	ListRequests(ctx context.Context, query RequestListQuery) ([]RefundRequest, int64, error)
	PreviewRefund(ctx context.Context, bookingID uuid.UUID, refundType policies.RefundType, asOf time.Time) (*RefundPreview, error)

	ApproveRequest(ctx context.Context, id, adminID uuid.UUID, req ProcessRefundRequest, asOf time.Time) (*RefundRequest, error)
	RejectRequest(ctx context.Context, id, adminID uuid.UUID, req ProcessRefundRequest, asOf time.Time) (*RefundRequest, error)
	CompleteRequest(ctx context.Context, id uuid.UUID, req CompleteRefundRequest, asOf time.Time) (*RefundRequest, error)
	CancelRequest(ctx context.Context, id, customerID uuid.UUID, asOf time.Time) (*RefundRequest, error)
}

// BookingService interface for booking-related operations (to avoid circular dependency)
type BookingService interface {
	GetBooking(ctx context.Context, bookingID uuid.UUID) (BookingInfo, error)
}

// BookingInfo represents booking information for refund calculations
type BookingInfo struct {
	ID         uuid.UUID       `json:"id"`
	CustomerID uuid.UUID       `json:"customer_id"`
	TourID     uuid.UUID       `json:"tour_id"`
	TourDate   time.Time       `json:"tour_date"`
	TotalPrice decimal.Decimal `json:"total_price"`
	Status     string          `json:"status"`
	BookingRef string          `json:"booking_ref"`
}

func (b BookingInfo) isCancelled() bool {
	return b.Status == "CANCELLED"
}

// NotificationPublisher pushes customer-facing refund lifecycle notifications.
// Delivery is best effort; failures are logged, never surfaced to the caller.
type NotificationPublisher interface {
	PublishRefundNotification(ctx context.Context, n RefundNotification) error
}

// RefundNotification is the payload handed to the notification pipeline.
type RefundNotification struct {
	Type            string          `json:"type"`
	RefundRequestID uuid.UUID       `json:"refund_request_id"`
	BookingID       uuid.UUID       `json:"booking_id"`
	CustomerID      uuid.UUID       `json:"customer_id"`
	Amount          decimal.Decimal `json:"amount"`
	Reason          string          `json:"reason,omitempty"`
}

// Notification type values carried on the wire.
const (
	NotificationRefundRequested = "REFUND_REQUESTED"
	NotificationRefundApproved  = "REFUND_APPROVED"
	NotificationRefundRejected  = "REFUND_REJECTED"
	NotificationRefundCompleted = "REFUND_COMPLETED"
	NotificationRefundCancelled = "REFUND_CANCELLED"
)

// LedgerPublisher signals the financial ledger that a payout happened.
// Exactly one event is emitted per completed request.
type LedgerPublisher interface {
	PublishRefundCompleted(ctx context.Context, event RefundCompletedEvent) error
}

// RefundCompletedEvent is the ledger record for a finished payout.
type RefundCompletedEvent struct {
	RefundRequestID      uuid.UUID       `json:"refund_request_id"`
	BookingID            uuid.UUID       `json:"booking_id"`
	CustomerID           uuid.UUID       `json:"customer_id"`
	NetRefundAmount      decimal.Decimal `json:"net_refund_amount"`
	ProcessingFee        decimal.Decimal `json:"processing_fee"`
	TransactionReference string          `json:"transaction_reference"`
	CompletedAt          time.Time       `json:"completed_at"`
}

// RefundPreview shows what a refund request would look like without creating one.
type RefundPreview struct {
	BookingID        uuid.UUID           `json:"booking_id"`
	RefundType       policies.RefundType `json:"refund_type"`
	DaysBeforeTour   int                 `json:"days_before_tour"`
	PolicyID         *uuid.UUID          `json:"policy_id"`
	PolicyName       string              `json:"policy_name,omitempty"`
	OriginalAmount   decimal.Decimal     `json:"original_amount"`
	RefundPercentage decimal.Decimal     `json:"refund_percentage"`
	ProcessingFee    decimal.Decimal     `json:"processing_fee"`
	RefundAmount     decimal.Decimal     `json:"refund_amount"`
}

// service implements the Service interface
type service struct {
	repo           Repository
	policyService  policies.Service
	bookingService BookingService
	notifier       NotificationPublisher
	ledger         LedgerPublisher
	fallback       string
	log            *logger.Logger
}

// NewService creates a new refund request service instance. notifier and
// ledger may be nil in deployments without Kafka (tests, local dev).
func NewService(repo Repository, policyService policies.Service, bookingService BookingService,
	notifier NotificationPublisher, ledger LedgerPublisher, cfg config.RefundConfig) Service {
	return &service{
		repo:           repo,
		policyService:  policyService,
		bookingService: bookingService,
		notifier:       notifier,
		ledger:         ledger,
		fallback:       cfg.NoPolicyFallback,
		log:            logger.GetDefault(),
	}
}

// CreateRequest opens a refund request for a cancelled booking. The matched
// policy's terms and the computed amounts are frozen onto the request; later
// policy edits do not touch it.
func (s *service) CreateRequest(ctx context.Context, customerID uuid.UUID, req SubmitRefundRequest, asOf time.Time) (*RefundRequest, error) {
	booking, err := s.bookingService.GetBooking(ctx, req.BookingID)
	if err != nil {
		return nil, fmt.Errorf("failed to get booking: %w", err)
	}
	if customerID != uuid.Nil && booking.CustomerID != customerID {
		return nil, ErrNotRequestOwner
	}
	if !booking.isCancelled() {
		return nil, ErrBookingNotRefundable
	}

	// Friendlier duplicate check up front; the unique index on booking_id
	// closes the race for concurrent submissions.
	if _, err := s.repo.GetByBookingID(ctx, req.BookingID); err == nil {
		return nil, ErrRequestExists
	} else if !errors.Is(err, ErrRequestNotFound) {
		return nil, err
	}

	refundType := policies.RefundType(req.RefundType)
	days := DaysBeforeTour(booking.TourDate, asOf)

	policy, err := s.policyService.ResolvePolicy(ctx, refundType, days, asOf)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve refund policy: %w", err)
	}

	request := &RefundRequest{
		ID:                    uuid.New(),
		BookingID:             booking.ID,
		CustomerID:            booking.CustomerID,
		RefundType:            refundType,
		RefundReason:          req.Reason,
		OriginalAmount:        booking.TotalPrice,
		DaysBeforeTour:        days,
		Status:                StatusPending,
		RequestedAt:           asOf,
		CustomerBankName:      req.BankName,
		CustomerAccountNumber: req.AccountNumber,
		CustomerAccountHolder: req.AccountHolder,
		CustomerNotes:         req.CustomerNotes,
	}

	switch {
	case policy != nil:
		request.RefundPercentage = policy.RefundPercentage
		request.ProcessingFee = TotalProcessingFee(policy, booking.TotalPrice)
		request.RequestedAmount = RefundAmount(policy, booking.TotalPrice)
	case s.fallback == config.NoPolicyZero:
		request.RefundPercentage = decimal.Zero
		request.ProcessingFee = decimal.Zero
		request.RequestedAmount = decimal.Zero
	default:
		return nil, ErrNoApplicablePolicy
	}

	if err := s.repo.Create(ctx, request); err != nil {
		return nil, err
	}

	s.notify(ctx, RefundNotification{
		Type:            NotificationRefundRequested,
		RefundRequestID: request.ID,
		BookingID:       request.BookingID,
		CustomerID:      request.CustomerID,
		Amount:          request.RequestedAmount,
		Reason:          request.RefundReason,
	})
	return request, nil
}

func (s *service) GetRequest(ctx context.Context, id uuid.UUID) (*RefundRequest, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) GetRequestByBooking(ctx context.Context, bookingID uuid.UUID) (*RefundRequest, error) {
	return s.repo.GetByBookingID(ctx, bookingID)
}

func (s *service) ListRequests(ctx context.Context, query RequestListQuery) ([]RefundRequest, int64, error) {
	return s.repo.List(ctx, query)
}

// PreviewRefund resolves the policy and computes amounts for a booking
// without persisting anything.
func (s *service) PreviewRefund(ctx context.Context, bookingID uuid.UUID, refundType policies.RefundType, asOf time.Time) (*RefundPreview, error) {
	booking, err := s.bookingService.GetBooking(ctx, bookingID)
	if err != nil {
		return nil, fmt.Errorf("failed to get booking: %w", err)
	}

	days := DaysBeforeTour(booking.TourDate, asOf)
	preview := &RefundPreview{
		BookingID:      booking.ID,
		RefundType:     refundType,
		DaysBeforeTour: days,
		OriginalAmount: booking.TotalPrice,
	}

	policy, err := s.policyService.ResolvePolicy(ctx, refundType, days, asOf)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve refund policy: %w", err)
	}
	if policy == nil {
		if s.fallback == config.NoPolicyZero {
			return preview, nil
		}
		return nil, ErrNoApplicablePolicy
	}

	id := policy.ID
	preview.PolicyID = &id
	preview.PolicyName = policy.Description
	preview.RefundPercentage = policy.RefundPercentage
	preview.ProcessingFee = TotalProcessingFee(policy, booking.TotalPrice)
	preview.RefundAmount = RefundAmount(policy, booking.TotalPrice)
	return preview, nil
}

// ApproveRequest moves a pending request to APPROVED. The approved amount
// defaults to the requested amount when the admin does not override it;
// overrides may only lower it.
func (s *service) ApproveRequest(ctx context.Context, id, adminID uuid.UUID, req ProcessRefundRequest, asOf time.Time) (*RefundRequest, error) {
	request, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	amount := request.RequestedAmount
	if req.ApprovedAmount != nil {
		amount, err = decimal.NewFromString(*req.ApprovedAmount)
		if err != nil {
			return nil, fmt.Errorf("invalid approved amount: %w", err)
		}
	}
	if err := request.Approve(amount, adminID, req.AdminNotes, asOf); err != nil {
		return nil, err
	}

	updates := map[string]interface{}{
		"status":                StatusApproved,
		"approved_amount":       amount,
		"processed_at":          asOf,
		"processed_by_admin_id": adminID,
		"admin_notes":           request.AdminNotes,
		"updated_at":            asOf,
	}
	if err := s.transitionFrom(ctx, id, StatusPending, updates); err != nil {
		return nil, err
	}

	s.notify(ctx, RefundNotification{
		Type:            NotificationRefundApproved,
		RefundRequestID: request.ID,
		BookingID:       request.BookingID,
		CustomerID:      request.CustomerID,
		Amount:          request.NetRefundAmount(),
	})
	return request, nil
}

// RejectRequest moves a pending request to REJECTED with a mandatory reason.
func (s *service) RejectRequest(ctx context.Context, id, adminID uuid.UUID, req ProcessRefundRequest, asOf time.Time) (*RefundRequest, error) {
	request, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := request.Reject(adminID, req.AdminNotes, asOf); err != nil {
		return nil, err
	}

	updates := map[string]interface{}{
		"status":                StatusRejected,
		"processed_at":          asOf,
		"processed_by_admin_id": adminID,
		"admin_notes":           req.AdminNotes,
		"updated_at":            asOf,
	}
	if err := s.transitionFrom(ctx, id, StatusPending, updates); err != nil {
		return nil, err
	}

	s.notify(ctx, RefundNotification{
		Type:            NotificationRefundRejected,
		RefundRequestID: request.ID,
		BookingID:       request.BookingID,
		CustomerID:      request.CustomerID,
		Amount:          decimal.Zero,
		Reason:          req.AdminNotes,
	})
	return request, nil
}

// CompleteRequest records the payout of an approved request. Completing an
// already completed request is a no-op that returns the stored request and
// does not emit a second ledger event, so operators can safely retry.
func (s *service) CompleteRequest(ctx context.Context, id uuid.UUID, req CompleteRefundRequest, asOf time.Time) (*RefundRequest, error) {
	request, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	alreadyCompleted, err := request.Complete(req.TransactionReference, asOf)
	if err != nil {
		return nil, err
	}
	if alreadyCompleted {
		return request, nil
	}

	updates := map[string]interface{}{
		"status":                StatusCompleted,
		"completed_at":          asOf,
		"transaction_reference": req.TransactionReference,
		"updated_at":            asOf,
	}
	rows, err := s.repo.UpdateStatusCAS(ctx, id, StatusApproved, updates)
	if err != nil {
		return nil, err
	}
	if rows == 0 {
		// Lost the race. If another writer completed it first this call is
		// still a success and the ledger event was already emitted by the
		// winner.
		current, err := s.repo.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if current.Status == StatusCompleted {
			return current, nil
		}
		return nil, ErrStatusConflict
	}

	event := RefundCompletedEvent{
		RefundRequestID:      request.ID,
		BookingID:            request.BookingID,
		CustomerID:           request.CustomerID,
		NetRefundAmount:      request.NetRefundAmount(),
		ProcessingFee:        request.ProcessingFee,
		TransactionReference: req.TransactionReference,
		CompletedAt:          asOf,
	}
	if s.ledger != nil {
		if err := s.ledger.PublishRefundCompleted(ctx, event); err != nil {
			// The payout is recorded either way; surface the signal failure
			// so operators can replay the ledger event.
			s.log.WithError(err).Error("refund completed but ledger signal failed",
				"refund_request_id", request.ID, "booking_id", request.BookingID)
			return request, fmt.Errorf("refund completed but ledger signal failed: %w", err)
		}
	}

	s.notify(ctx, RefundNotification{
		Type:            NotificationRefundCompleted,
		RefundRequestID: request.ID,
		BookingID:       request.BookingID,
		CustomerID:      request.CustomerID,
		Amount:          request.NetRefundAmount(),
	})
	return request, nil
}

// CancelRequest lets the owning customer withdraw a request that is still
// pending.
func (s *service) CancelRequest(ctx context.Context, id, customerID uuid.UUID, asOf time.Time) (*RefundRequest, error) {
	request, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if customerID != uuid.Nil && request.CustomerID != customerID {
		return nil, ErrNotRequestOwner
	}
	if err := request.Cancel(asOf); err != nil {
		return nil, err
	}

	updates := map[string]interface{}{
		"status":       StatusCancelled,
		"processed_at": asOf,
		"updated_at":   asOf,
	}
	if err := s.transitionFrom(ctx, id, StatusPending, updates); err != nil {
		return nil, err
	}

	s.notify(ctx, RefundNotification{
		Type:            NotificationRefundCancelled,
		RefundRequestID: request.ID,
		BookingID:       request.BookingID,
		CustomerID:      request.CustomerID,
		Amount:          decimal.Zero,
	})
	return request, nil
}

// transitionFrom runs the compare-and-set update and maps a zero row count
// onto the right error for the caller.
func (s *service) transitionFrom(ctx context.Context, id uuid.UUID, from Status, updates map[string]interface{}) error {
	rows, err := s.repo.UpdateStatusCAS(ctx, id, from, updates)
	if err != nil {
		return err
	}
	if rows == 0 {
		if _, err := s.repo.GetByID(ctx, id); err != nil {
			return err
		}
		return ErrStatusConflict
	}
	return nil
}

func (s *service) notify(ctx context.Context, n RefundNotification) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.PublishRefundNotification(ctx, n); err != nil {
		s.log.WithError(err).Warn("failed to publish refund notification",
			"type", n.Type, "refund_request_id", n.RefundRequestID)
	}
}
