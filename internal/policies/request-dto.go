package policies

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// PolicyRequest represents an admin request to create or update a refund
// policy. Monetary and percentage fields travel as decimal strings to avoid
// binary float drift.
type PolicyRequest struct {
	RefundType              string `json:"refund_type" binding:"required,oneof=COMPANY_CANCELLATION AUTO_CANCELLATION USER_CANCELLATION"`
	MinDaysBeforeEvent      int    `json:"min_days_before_event" binding:"min=0"`
	MaxDaysBeforeEvent      *int   `json:"max_days_before_event"`
	RefundPercentage        string `json:"refund_percentage" binding:"required"`
	ProcessingFee           string `json:"processing_fee"`
	ProcessingFeePercentage string `json:"processing_fee_percentage"`
	Priority                int    `json:"priority" binding:"required,min=1,max=100"`
	IsEnabled               *bool  `json:"is_enabled"`
	EffectiveFrom           string `json:"effective_from" binding:"required"` // RFC 3339
	EffectiveTo             string `json:"effective_to"`                      // RFC 3339, empty = unbounded
	Description             string `json:"description" binding:"max=1000"`
	InternalNotes           string `json:"internal_notes" binding:"max=2000"`
}

// toPolicy converts the request into a RefundPolicy ready for Validate().
func (req *PolicyRequest) toPolicy() (*RefundPolicy, error) {
	refundPct, err := decimal.NewFromString(req.RefundPercentage)
	if err != nil {
		return nil, fmt.Errorf("invalid refund_percentage: %w", err)
	}

	fee := decimal.Zero
	if req.ProcessingFee != "" {
		fee, err = decimal.NewFromString(req.ProcessingFee)
		if err != nil {
			return nil, fmt.Errorf("invalid processing_fee: %w", err)
		}
	}

	feePct := decimal.Zero
	if req.ProcessingFeePercentage != "" {
		feePct, err = decimal.NewFromString(req.ProcessingFeePercentage)
		if err != nil {
			return nil, fmt.Errorf("invalid processing_fee_percentage: %w", err)
		}
	}

	effectiveFrom, err := time.Parse(time.RFC3339, req.EffectiveFrom)
	if err != nil {
		return nil, fmt.Errorf("invalid effective_from (expected RFC 3339): %w", err)
	}

	var effectiveTo *time.Time
	if req.EffectiveTo != "" {
		t, err := time.Parse(time.RFC3339, req.EffectiveTo)
		if err != nil {
			return nil, fmt.Errorf("invalid effective_to (expected RFC 3339): %w", err)
		}
		effectiveTo = &t
	}

	enabled := true
	if req.IsEnabled != nil {
		enabled = *req.IsEnabled
	}

	return &RefundPolicy{
		RefundType:              RefundType(req.RefundType),
		MinDaysBeforeEvent:      req.MinDaysBeforeEvent,
		MaxDaysBeforeEvent:      req.MaxDaysBeforeEvent,
		RefundPercentage:        refundPct,
		ProcessingFee:           fee,
		ProcessingFeePercentage: feePct,
		Priority:                req.Priority,
		IsEnabled:               enabled,
		EffectiveFrom:           effectiveFrom,
		EffectiveTo:             effectiveTo,
		Description:             req.Description,
		InternalNotes:           req.InternalNotes,
	}, nil
}
