package policies

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Priority bounds. Lower number means higher precedence.
const (
	PriorityMin = 1
	PriorityMax = 100
)

// RefundPolicy defines a time-windowed refund rule for one refund type.
// The day range [MinDaysBeforeEvent, MaxDaysBeforeEvent] is inclusive on both
// ends; a nil MaxDaysBeforeEvent means unbounded. Policies are never deleted
// physically: IsDeleted marks soft deletion, IsEnabled marks business
// activation, two separate concerns.
type RefundPolicy struct {
	ID                 uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	RefundType         RefundType `gorm:"type:varchar(30);not null;index:idx_refund_policies_lookup,priority:1" json:"refund_type"`
	MinDaysBeforeEvent int        `gorm:"not null;default:0" json:"min_days_before_event"`
	MaxDaysBeforeEvent *int       `json:"max_days_before_event,omitempty"`

	RefundPercentage        decimal.Decimal `gorm:"type:decimal(5,2);not null" json:"refund_percentage"`
	ProcessingFee           decimal.Decimal `gorm:"type:decimal(14,0);not null;default:0" json:"processing_fee"`
	ProcessingFeePercentage decimal.Decimal `gorm:"type:decimal(5,2);not null;default:0" json:"processing_fee_percentage"`

	Priority  int  `gorm:"not null;index:idx_refund_policies_lookup,priority:3" json:"priority"`
	IsEnabled bool `gorm:"not null;default:true;index:idx_refund_policies_lookup,priority:2" json:"is_enabled"`
	IsDeleted bool `gorm:"not null;default:false" json:"-"`

	EffectiveFrom time.Time  `gorm:"not null" json:"effective_from"`
	EffectiveTo   *time.Time `json:"effective_to,omitempty"`

	Description   string `gorm:"type:text" json:"description"`
	InternalNotes string `gorm:"type:text" json:"internal_notes,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName sets the table name for RefundPolicy
func (RefundPolicy) TableName() string {
	return "refund_policies"
}

var (
	percentFloor = decimal.Zero
	percentCeil  = decimal.NewFromInt(100)
)

// Validate checks the policy's field invariants. It returns a
// *ValidationError listing every violated field, or nil.
func (p *RefundPolicy) Validate() error {
	ve := newValidationError()

	if !p.RefundType.IsValid() {
		ve.Fields["refund_type"] = "unknown refund type"
	}

	if p.MinDaysBeforeEvent < 0 {
		ve.Fields["min_days_before_event"] = "must be >= 0"
	}
	if p.MaxDaysBeforeEvent != nil && *p.MaxDaysBeforeEvent < p.MinDaysBeforeEvent {
		ve.Fields["max_days_before_event"] = "must be >= min_days_before_event"
	}

	if p.RefundPercentage.LessThan(percentFloor) || p.RefundPercentage.GreaterThan(percentCeil) {
		ve.Fields["refund_percentage"] = "must be between 0 and 100"
	}
	if p.ProcessingFee.IsNegative() {
		ve.Fields["processing_fee"] = "must be >= 0"
	}
	if p.ProcessingFeePercentage.LessThan(percentFloor) || p.ProcessingFeePercentage.GreaterThan(percentCeil) {
		ve.Fields["processing_fee_percentage"] = "must be between 0 and 100"
	}

	if p.Priority < PriorityMin || p.Priority > PriorityMax {
		ve.Fields["priority"] = "must be between 1 and 100"
	}

	if p.EffectiveFrom.IsZero() {
		ve.Fields["effective_from"] = "is required"
	}
	if p.EffectiveTo != nil && !p.EffectiveTo.After(p.EffectiveFrom) {
		ve.Fields["effective_to"] = "must be strictly after effective_from"
	}

	if len(ve.Fields) > 0 {
		return ve
	}
	return nil
}

// MatchesDays reports whether daysBeforeEvent falls inside the policy's
// inclusive day range.
func (p *RefundPolicy) MatchesDays(daysBeforeEvent int) bool {
	if daysBeforeEvent < p.MinDaysBeforeEvent {
		return false
	}
	return p.MaxDaysBeforeEvent == nil || daysBeforeEvent <= *p.MaxDaysBeforeEvent
}

// IsEffectiveAt reports whether the policy's validity window covers asOf.
// The window is half-open: effective_from <= asOf < effective_to.
func (p *RefundPolicy) IsEffectiveAt(asOf time.Time) bool {
	if asOf.Before(p.EffectiveFrom) {
		return false
	}
	return p.EffectiveTo == nil || asOf.Before(*p.EffectiveTo)
}

// DayRangeWidth returns max-min for tie-breaking; unbounded ranges count as
// maximally wide.
func (p *RefundPolicy) DayRangeWidth() int {
	if p.MaxDaysBeforeEvent == nil {
		return int(^uint(0) >> 1) // max int
	}
	return *p.MaxDaysBeforeEvent - p.MinDaysBeforeEvent
}

// IsResolvable reports whether the policy participates in resolution at all
// (enabled and not soft-deleted).
func (p *RefundPolicy) IsResolvable() bool {
	return p.IsEnabled && !p.IsDeleted
}
