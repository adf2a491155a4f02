package policies

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRefundPolicy_ValidateAcceptsValidPolicy(t *testing.T) {
	p := testPolicy(0, intPtr(6), 2)
	assert.NoError(t, p.Validate())

	unbounded := testPolicy(7, nil, 1)
	assert.NoError(t, unbounded.Validate())
}

func TestRefundPolicy_ValidateCollectsAllFieldErrors(t *testing.T) {
	p := RefundPolicy{
		RefundType:              RefundType("BOGUS"),
		MinDaysBeforeEvent:      -1,
		RefundPercentage:        decimal.NewFromInt(150),
		ProcessingFee:           decimal.NewFromInt(-1),
		ProcessingFeePercentage: decimal.NewFromInt(-5),
		Priority:                0,
	}

	err := p.Validate()
	require.Error(t, err)

	ve, ok := AsValidationError(err)
	require.True(t, ok)
	assert.Contains(t, ve.Fields, "refund_type")
	assert.Contains(t, ve.Fields, "min_days_before_event")
	assert.Contains(t, ve.Fields, "refund_percentage")
	assert.Contains(t, ve.Fields, "processing_fee")
	assert.Contains(t, ve.Fields, "processing_fee_percentage")
	assert.Contains(t, ve.Fields, "priority")
	assert.Contains(t, ve.Fields, "effective_from")
}

func TestRefundPolicy_ValidateDayRangeOrdering(t *testing.T) {
	p := testPolicy(10, intPtr(5), 1)

	err := p.Validate()
	require.Error(t, err)

	ve, ok := AsValidationError(err)
	require.True(t, ok)
	assert.Contains(t, ve.Fields, "max_days_before_event")
}

func TestRefundPolicy_ValidatePriorityBounds(t *testing.T) {
	low := testPolicy(0, nil, 0)
	require.Error(t, low.Validate())

	high := testPolicy(0, nil, 101)
	require.Error(t, high.Validate())

	edge := testPolicy(0, nil, 100)
	assert.NoError(t, edge.Validate())
}

func TestRefundPolicy_ValidateEffectiveWindow(t *testing.T) {
	p := testPolicy(0, nil, 1)
	to := p.EffectiveFrom // not strictly after
	p.EffectiveTo = &to

	err := p.Validate()
	require.Error(t, err)

	ve, ok := AsValidationError(err)
	require.True(t, ok)
	assert.Contains(t, ve.Fields, "effective_to")
}

func TestRefundPolicy_MatchesDays(t *testing.T) {
	bounded := testPolicy(0, intPtr(6), 1)
	assert.True(t, bounded.MatchesDays(0))
	assert.True(t, bounded.MatchesDays(6))
	assert.False(t, bounded.MatchesDays(7))

	unbounded := testPolicy(7, nil, 1)
	assert.False(t, unbounded.MatchesDays(6))
	assert.True(t, unbounded.MatchesDays(7))
	assert.True(t, unbounded.MatchesDays(10000))
}

func TestRefundPolicy_DayRangeWidth(t *testing.T) {
	bounded := testPolicy(2, intPtr(6), 1)
	assert.Equal(t, 4, bounded.DayRangeWidth())

	unbounded := testPolicy(7, nil, 1)
	wide := testPolicy(0, intPtr(100000), 1)
	assert.Greater(t, unbounded.DayRangeWidth(), wide.DayRangeWidth())
}

func TestRefundPolicy_IsResolvable(t *testing.T) {
	p := testPolicy(0, nil, 1)
	assert.True(t, p.IsResolvable())

	p.IsEnabled = false
	assert.False(t, p.IsResolvable())

	p.IsEnabled = true
	p.IsDeleted = true
	assert.False(t, p.IsResolvable())
}

func TestRefundPolicy_IsEffectiveAt(t *testing.T) {
	p := testPolicy(0, nil, 1)
	to := p.EffectiveFrom.AddDate(1, 0, 0)
	p.EffectiveTo = &to

	assert.False(t, p.IsEffectiveAt(p.EffectiveFrom.Add(-time.Second)))
	assert.True(t, p.IsEffectiveAt(p.EffectiveFrom))
	assert.True(t, p.IsEffectiveAt(to.Add(-time.Second)))
	assert.False(t, p.IsEffectiveAt(to))
}
