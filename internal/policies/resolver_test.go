package policies

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int { return &v }

func pct(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

// testPolicy builds an enabled user-cancellation policy effective since 2025.
func testPolicy(minDays int, maxDays *int, priority int) RefundPolicy {
	return RefundPolicy{
		ID:                 uuid.New(),
		RefundType:         RefundTypeUserCancellation,
		MinDaysBeforeEvent: minDays,
		MaxDaysBeforeEvent: maxDays,
		RefundPercentage:   pct("50"),
		ProcessingFee:      decimal.NewFromInt(50000),
		Priority:           priority,
		IsEnabled:          true,
		EffectiveFrom:      time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func TestSelectPolicy_PicksByDayRange(t *testing.T) {
	early := testPolicy(7, nil, 1)
	early.RefundPercentage = pct("90")
	late := testPolicy(0, intPtr(6), 2)
	late.RefundPercentage = pct("50")
	catalog := []RefundPolicy{late, early}

	asOf := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	got := SelectPolicy(catalog, RefundTypeUserCancellation, 10, asOf)
	require.NotNil(t, got)
	assert.True(t, got.RefundPercentage.Equal(pct("90")))

	got = SelectPolicy(catalog, RefundTypeUserCancellation, 3, asOf)
	require.NotNil(t, got)
	assert.True(t, got.RefundPercentage.Equal(pct("50")))
}

func TestSelectPolicy_BoundaryDayBelongsToUpperPolicy(t *testing.T) {
	early := testPolicy(7, nil, 1)
	early.RefundPercentage = pct("90")
	late := testPolicy(0, intPtr(6), 2)
	catalog := []RefundPolicy{late, early}

	asOf := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	// Exactly 7 days before departure matches min=7, not the 0-6 band.
	got := SelectPolicy(catalog, RefundTypeUserCancellation, 7, asOf)
	require.NotNil(t, got)
	assert.True(t, got.RefundPercentage.Equal(pct("90")))

	got = SelectPolicy(catalog, RefundTypeUserCancellation, 6, asOf)
	require.NotNil(t, got)
	assert.True(t, got.RefundPercentage.Equal(pct("50")))
}

func TestSelectPolicy_LowerPriorityWins(t *testing.T) {
	broad := testPolicy(0, nil, 10)
	exception := testPolicy(0, intPtr(3), 1)
	exception.RefundPercentage = pct("100")
	catalog := []RefundPolicy{broad, exception}

	asOf := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	got := SelectPolicy(catalog, RefundTypeUserCancellation, 2, asOf)
	require.NotNil(t, got)
	assert.Equal(t, exception.ID, got.ID)

	// Outside the exception's band the broad policy applies.
	got = SelectPolicy(catalog, RefundTypeUserCancellation, 5, asOf)
	require.NotNil(t, got)
	assert.Equal(t, broad.ID, got.ID)
}

func TestSelectPolicy_NarrowerRangeBreaksPriorityTie(t *testing.T) {
	wide := testPolicy(0, intPtr(30), 5)
	narrow := testPolicy(0, intPtr(10), 5)
	unbounded := testPolicy(0, nil, 5)
	catalog := []RefundPolicy{wide, unbounded, narrow}

	asOf := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	got := SelectPolicy(catalog, RefundTypeUserCancellation, 5, asOf)
	require.NotNil(t, got)
	assert.Equal(t, narrow.ID, got.ID)
}

func TestSelectPolicy_LatestEffectiveFromBreaksWidthTie(t *testing.T) {
	older := testPolicy(0, intPtr(10), 5)
	older.EffectiveFrom = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	newer := testPolicy(0, intPtr(10), 5)
	newer.EffectiveFrom = time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	catalog := []RefundPolicy{older, newer}

	asOf := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	got := SelectPolicy(catalog, RefundTypeUserCancellation, 5, asOf)
	require.NotNil(t, got)
	assert.Equal(t, newer.ID, got.ID)
}

func TestSelectPolicy_StableIDBreaksFinalTie(t *testing.T) {
	a := testPolicy(0, intPtr(10), 5)
	b := testPolicy(0, intPtr(10), 5)
	b.EffectiveFrom = a.EffectiveFrom

	expected := a.ID
	if b.ID.String() < a.ID.String() {
		expected = b.ID
	}

	asOf := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	// Same result regardless of input order.
	got1 := SelectPolicy([]RefundPolicy{a, b}, RefundTypeUserCancellation, 5, asOf)
	got2 := SelectPolicy([]RefundPolicy{b, a}, RefundTypeUserCancellation, 5, asOf)
	require.NotNil(t, got1)
	require.NotNil(t, got2)
	assert.Equal(t, expected, got1.ID)
	assert.Equal(t, got1.ID, got2.ID)
}

func TestSelectPolicy_FiltersTypeEnabledAndWindow(t *testing.T) {
	asOf := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	wrongType := testPolicy(0, nil, 1)
	wrongType.RefundType = RefundTypeCompanyCancellation

	disabled := testPolicy(0, nil, 2)
	disabled.IsEnabled = false

	deleted := testPolicy(0, nil, 3)
	deleted.IsDeleted = true

	notYetEffective := testPolicy(0, nil, 4)
	notYetEffective.EffectiveFrom = asOf.Add(24 * time.Hour)

	expired := testPolicy(0, nil, 5)
	expiredTo := asOf.Add(-time.Hour)
	expired.EffectiveTo = &expiredTo

	catalog := []RefundPolicy{wrongType, disabled, deleted, notYetEffective, expired}
	assert.Nil(t, SelectPolicy(catalog, RefundTypeUserCancellation, 5, asOf))
}

func TestSelectPolicy_EffectiveWindowIsHalfOpen(t *testing.T) {
	p := testPolicy(0, nil, 1)
	to := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	p.EffectiveTo = &to
	catalog := []RefundPolicy{p}

	// Effective at the lower bound, not at the upper.
	require.NotNil(t, SelectPolicy(catalog, RefundTypeUserCancellation, 5, p.EffectiveFrom))
	assert.Nil(t, SelectPolicy(catalog, RefundTypeUserCancellation, 5, to))
	require.NotNil(t, SelectPolicy(catalog, RefundTypeUserCancellation, 5, to.Add(-time.Second)))
}

func TestSelectPolicy_NoMatchReturnsNil(t *testing.T) {
	catalog := []RefundPolicy{testPolicy(10, intPtr(20), 1)}
	asOf := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	assert.Nil(t, SelectPolicy(catalog, RefundTypeUserCancellation, 5, asOf))
	assert.Nil(t, SelectPolicy(nil, RefundTypeUserCancellation, 5, asOf))
}
