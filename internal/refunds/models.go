package refunds

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"tourly/internal/policies"
)

// RefundRequest tracks a refund for a cancelled booking from submission to
// payout. There is at most one request per booking, enforced by a unique
// index on booking_id. All monetary amounts and the matched policy terms are
// snapshotted at creation so later policy edits never change an open request.
type RefundRequest struct {
	ID         uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	BookingID  uuid.UUID `json:"booking_id" gorm:"type:uuid;uniqueIndex:idx_refund_requests_booking;not null"`
	CustomerID uuid.UUID `json:"customer_id" gorm:"type:uuid;not null;index"`

	RefundType   policies.RefundType `json:"refund_type" gorm:"type:varchar(30);not null"`
	RefundReason string              `json:"refund_reason" gorm:"type:text"`

	// Amount snapshot, all in whole VND.
	OriginalAmount   decimal.Decimal  `json:"original_amount" gorm:"type:decimal(14,0);not null"`
	RequestedAmount  decimal.Decimal  `json:"requested_amount" gorm:"type:decimal(14,0);not null"`
	ApprovedAmount   *decimal.Decimal `json:"approved_amount" gorm:"type:decimal(14,0)"`
	ProcessingFee    decimal.Decimal  `json:"processing_fee" gorm:"type:decimal(14,0);not null"`
	RefundPercentage decimal.Decimal  `json:"refund_percentage" gorm:"type:decimal(5,2);not null"`
	DaysBeforeTour   int              `json:"days_before_tour" gorm:"not null"`

	Status      Status    `json:"status" gorm:"type:varchar(20);not null;default:'PENDING';index:idx_refund_requests_status_requested"`
	RequestedAt time.Time `json:"requested_at" gorm:"not null;index:idx_refund_requests_status_requested"`

	ProcessedAt        *time.Time `json:"processed_at"`
	CompletedAt        *time.Time `json:"completed_at"`
	ProcessedByAdminID *uuid.UUID `json:"processed_by_admin_id" gorm:"type:uuid;index"`

	CustomerBankName      string `json:"customer_bank_name" gorm:"type:varchar(100)"`
	CustomerAccountNumber string `json:"customer_account_number" gorm:"type:varchar(50)"`
	CustomerAccountHolder string `json:"customer_account_holder" gorm:"type:varchar(100)"`

	TransactionReference string `json:"transaction_reference" gorm:"type:varchar(100)"`
	AdminNotes           string `json:"admin_notes" gorm:"type:text"`
	CustomerNotes        string `json:"customer_notes" gorm:"type:text"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (RefundRequest) TableName() string {
	return "refund_requests"
}

// NetRefundAmount is the amount actually paid out: approved amount minus the
// processing fee, never below zero. It is always derived, never stored.
func (r *RefundRequest) NetRefundAmount() decimal.Decimal {
	if r.ApprovedAmount == nil {
		return decimal.Zero
	}
	net := r.ApprovedAmount.Sub(r.ProcessingFee)
	if net.IsNegative() {
		return decimal.Zero
	}
	return net
}

// Approve moves a pending request to APPROVED with the amount the admin
// granted. The amount may be anything from zero up to the requested amount.
func (r *RefundRequest) Approve(amount decimal.Decimal, adminID uuid.UUID, notes string, now time.Time) error {
	if !r.Status.CanTransitionTo(StatusApproved) {
		return ErrInvalidTransition
	}
	if amount.IsNegative() {
		return ErrNegativeAmount
	}
	if amount.GreaterThan(r.RequestedAmount) {
		return ErrAmountExceedsRequested
	}
	r.Status = StatusApproved
	r.ApprovedAmount = &amount
	r.ProcessedAt = &now
	r.ProcessedByAdminID = &adminID
	if notes != "" {
		r.AdminNotes = notes
	}
	return nil
}

// Reject moves a pending request to REJECTED. Notes are mandatory so the
// customer always sees a reason.
func (r *RefundRequest) Reject(adminID uuid.UUID, notes string, now time.Time) error {
	if !r.Status.CanTransitionTo(StatusRejected) {
		return ErrInvalidTransition
	}
	if notes == "" {
		return ErrAdminNotesRequired
	}
	r.Status = StatusRejected
	r.ProcessedAt = &now
	r.ProcessedByAdminID = &adminID
	r.AdminNotes = notes
	return nil
}

// Cancel withdraws a pending request at the customer's initiative.
func (r *RefundRequest) Cancel(now time.Time) error {
	if !r.Status.CanTransitionTo(StatusCancelled) {
		return ErrInvalidTransition
	}
	r.Status = StatusCancelled
	r.ProcessedAt = &now
	return nil
}

// Complete records the payout of an approved request. Completing an already
// completed request is a no-op, reported through the first return value so
// callers can skip side effects.
func (r *RefundRequest) Complete(transactionRef string, now time.Time) (alreadyCompleted bool, err error) {
	if r.Status == StatusCompleted {
		return true, nil
	}
	if !r.Status.CanTransitionTo(StatusCompleted) {
		return false, ErrInvalidTransition
	}
	if transactionRef == "" {
		return false, ErrTransactionRefRequired
	}
	r.Status = StatusCompleted
	r.CompletedAt = &now
	r.TransactionReference = transactionRef
	return false, nil
}

func (r *RefundRequest) IsPending() bool {
	return r.Status == StatusPending
}

func (r *RefundRequest) IsCompleted() bool {
	return r.Status == StatusCompleted
}
