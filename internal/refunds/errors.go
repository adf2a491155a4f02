package refunds

import "errors"

var (
	ErrRequestNotFound        = errors.New("refund request not found")
	ErrRequestExists          = errors.New("a refund request already exists for this booking")
	ErrNoApplicablePolicy     = errors.New("no applicable refund policy for this booking")
	ErrBookingNotRefundable   = errors.New("booking is not eligible for a refund")
	ErrNotRequestOwner        = errors.New("refund request does not belong to this customer")
	ErrInvalidTransition      = errors.New("refund request status does not allow this operation")
	ErrStatusConflict         = errors.New("refund request was modified concurrently, reload and retry")
	ErrAmountExceedsRequested = errors.New("approved amount cannot exceed the requested amount")
	ErrNegativeAmount         = errors.New("approved amount cannot be negative")
	ErrAdminNotesRequired     = errors.New("admin notes are required when rejecting a refund request")
	ErrTransactionRefRequired = errors.New("transaction reference is required to complete a refund")
)
