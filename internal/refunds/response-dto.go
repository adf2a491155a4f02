package refunds

import (
	"time"

	"github.com/google/uuid"
)

// RefundRequestResponse is the API rendering of a refund request. Monetary
// fields are whole-VND decimal strings; the net amount is derived on the way
// out, never read from storage.
type RefundRequestResponse struct {
	ID             uuid.UUID `json:"id"`
	BookingID      uuid.UUID `json:"booking_id"`
	CustomerID     uuid.UUID `json:"customer_id"`
	RefundType     string    `json:"refund_type"`
	RefundTypeCode int       `json:"refund_type_code"`
	RefundReason   string    `json:"refund_reason"`

	OriginalAmount   string  `json:"original_amount"`
	RequestedAmount  string  `json:"requested_amount"`
	ApprovedAmount   *string `json:"approved_amount"`
	ProcessingFee    string  `json:"processing_fee"`
	NetRefundAmount  string  `json:"net_refund_amount"`
	RefundPercentage string  `json:"refund_percentage"`
	DaysBeforeTour   int     `json:"days_before_tour"`

	Status     string `json:"status"`
	StatusCode int    `json:"status_code"`

	RequestedAt        time.Time  `json:"requested_at"`
	ProcessedAt        *time.Time `json:"processed_at"`
	CompletedAt        *time.Time `json:"completed_at"`
	ProcessedByAdminID *uuid.UUID `json:"processed_by_admin_id,omitempty"`

	CustomerBankName      string `json:"customer_bank_name"`
	CustomerAccountNumber string `json:"customer_account_number"`
	CustomerAccountHolder string `json:"customer_account_holder"`

	TransactionReference string `json:"transaction_reference,omitempty"`
	AdminNotes           string `json:"admin_notes,omitempty"`
	CustomerNotes        string `json:"customer_notes,omitempty"`
}

func toRefundRequestResponse(r *RefundRequest) RefundRequestResponse {
	resp := RefundRequestResponse{
		ID:                    r.ID,
		BookingID:             r.BookingID,
		CustomerID:            r.CustomerID,
		RefundType:            r.RefundType.String(),
		RefundTypeCode:        r.RefundType.Code(),
		RefundReason:          r.RefundReason,
		OriginalAmount:        r.OriginalAmount.StringFixed(0),
		RequestedAmount:       r.RequestedAmount.StringFixed(0),
		ProcessingFee:         r.ProcessingFee.StringFixed(0),
		NetRefundAmount:       r.NetRefundAmount().StringFixed(0),
		RefundPercentage:      r.RefundPercentage.StringFixed(2),
		DaysBeforeTour:        r.DaysBeforeTour,
		Status:                r.Status.String(),
		StatusCode:            r.Status.Code(),
		RequestedAt:           r.RequestedAt,
		ProcessedAt:           r.ProcessedAt,
		CompletedAt:           r.CompletedAt,
		ProcessedByAdminID:    r.ProcessedByAdminID,
		CustomerBankName:      r.CustomerBankName,
		CustomerAccountNumber: r.CustomerAccountNumber,
		CustomerAccountHolder: r.CustomerAccountHolder,
		TransactionReference:  r.TransactionReference,
		AdminNotes:            r.AdminNotes,
		CustomerNotes:         r.CustomerNotes,
	}
	if r.ApprovedAmount != nil {
		approved := r.ApprovedAmount.StringFixed(0)
		resp.ApprovedAmount = &approved
	}
	return resp
}

// RefundRequestListResponse wraps a paginated admin listing.
type RefundRequestListResponse struct {
	Requests   []RefundRequestResponse `json:"requests"`
	TotalCount int64                   `json:"total_count"`
	Page       int                     `json:"page"`
	Limit      int                     `json:"limit"`
}

func toRefundRequestListResponse(requests []RefundRequest, total int64, page, limit int) RefundRequestListResponse {
	out := make([]RefundRequestResponse, 0, len(requests))
	for i := range requests {
		out = append(out, toRefundRequestResponse(&requests[i]))
	}
	return RefundRequestListResponse{
		Requests:   out,
		TotalCount: total,
		Page:       page,
		Limit:      limit,
	}
}

// RefundPreviewResponse renders a dry-run calculation.
type RefundPreviewResponse struct {
	BookingID        uuid.UUID  `json:"booking_id"`
	RefundType       string     `json:"refund_type"`
	DaysBeforeTour   int        `json:"days_before_tour"`
	PolicyID         *uuid.UUID `json:"policy_id"`
	PolicyName       string     `json:"policy_name,omitempty"`
	OriginalAmount   string     `json:"original_amount"`
	RefundPercentage string     `json:"refund_percentage"`
	ProcessingFee    string     `json:"processing_fee"`
	RefundAmount     string     `json:"refund_amount"`
}

func toRefundPreviewResponse(p *RefundPreview) RefundPreviewResponse {
	return RefundPreviewResponse{
		BookingID:        p.BookingID,
		RefundType:       p.RefundType.String(),
		DaysBeforeTour:   p.DaysBeforeTour,
		PolicyID:         p.PolicyID,
		PolicyName:       p.PolicyName,
		OriginalAmount:   p.OriginalAmount.StringFixed(0),
		RefundPercentage: p.RefundPercentage.StringFixed(2),
		ProcessingFee:    p.ProcessingFee.StringFixed(0),
		RefundAmount:     p.RefundAmount.StringFixed(0),
	}
}
