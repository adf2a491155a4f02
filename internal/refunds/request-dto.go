package refunds

import "github.com/google/uuid"

// SubmitRefundRequest is the customer payload opening a refund request.
type SubmitRefundRequest struct {
	BookingID     uuid.UUID `json:"booking_id" binding:"required"`
	RefundType    string    `json:"refund_type" binding:"required,oneof=COMPANY_CANCELLATION AUTO_CANCELLATION USER_CANCELLATION"`
	Reason        string    `json:"reason" binding:"required,min=10,max=500"`
	BankName      string    `json:"bank_name" binding:"required,max=100"`
	AccountNumber string    `json:"account_number" binding:"required,max=50"`
	AccountHolder string    `json:"account_holder" binding:"required,max=100"`
	CustomerNotes string    `json:"customer_notes" binding:"max=1000"`
}

// ProcessRefundRequest is the admin payload for approve and reject decisions.
// ApprovedAmount is a decimal string; when omitted on approval the requested
// amount is granted in full. Rejections require notes.
type ProcessRefundRequest struct {
	ApprovedAmount *string `json:"approved_amount"`
	AdminNotes     string  `json:"admin_notes" binding:"max=1000"`
}

// CompleteRefundRequest records the payout reference from the payment rail.
type CompleteRefundRequest struct {
	TransactionReference string `json:"transaction_reference" binding:"required,max=100"`
}
