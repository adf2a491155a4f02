package policies

import "time"

// PolicyResponse is the API shape of a refund policy. Decimal fields are
// rendered as strings.
type PolicyResponse struct {
	ID                      string     `json:"id"`
	RefundType              string     `json:"refund_type"`
	RefundTypeCode          int        `json:"refund_type_code"`
	MinDaysBeforeEvent      int        `json:"min_days_before_event"`
	MaxDaysBeforeEvent      *int       `json:"max_days_before_event,omitempty"`
	RefundPercentage        string     `json:"refund_percentage"`
	ProcessingFee           string     `json:"processing_fee"`
	ProcessingFeePercentage string     `json:"processing_fee_percentage"`
	Priority                int        `json:"priority"`
	IsEnabled               bool       `json:"is_enabled"`
	EffectiveFrom           time.Time  `json:"effective_from"`
	EffectiveTo             *time.Time `json:"effective_to,omitempty"`
	Description             string     `json:"description,omitempty"`
	InternalNotes           string     `json:"internal_notes,omitempty"`
	CreatedAt               time.Time  `json:"created_at"`
	UpdatedAt               time.Time  `json:"updated_at"`
}

func toPolicyResponse(p *RefundPolicy) PolicyResponse {
	return PolicyResponse{
		ID:                      p.ID.String(),
		RefundType:              p.RefundType.String(),
		RefundTypeCode:          p.RefundType.Code(),
		MinDaysBeforeEvent:      p.MinDaysBeforeEvent,
		MaxDaysBeforeEvent:      p.MaxDaysBeforeEvent,
		RefundPercentage:        p.RefundPercentage.StringFixed(2),
		ProcessingFee:           p.ProcessingFee.StringFixed(0),
		ProcessingFeePercentage: p.ProcessingFeePercentage.StringFixed(2),
		Priority:                p.Priority,
		IsEnabled:               p.IsEnabled,
		EffectiveFrom:           p.EffectiveFrom,
		EffectiveTo:             p.EffectiveTo,
		Description:             p.Description,
		InternalNotes:           p.InternalNotes,
		CreatedAt:               p.CreatedAt,
		UpdatedAt:               p.UpdatedAt,
	}
}

// PolicyListResponse wraps a paginated policy listing
type PolicyListResponse struct {
	Policies   []PolicyResponse `json:"policies"`
	TotalCount int64            `json:"total_count"`
	Page       int              `json:"page"`
	Limit      int              `json:"limit"`
}
