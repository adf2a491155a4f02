package policies

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildOverlapReport_SamePriorityOverlapConflicts(t *testing.T) {
	existing := testPolicy(0, intPtr(10), 5)
	candidate := testPolicy(5, intPtr(15), 5)

	report := BuildOverlapReport(&candidate, []RefundPolicy{existing}, nil)

	assert.True(t, report.HasConflict())
	require.Len(t, report.SamePriority, 1)
	assert.Equal(t, existing.ID, report.SamePriority[0].ID)
}

func TestBuildOverlapReport_CrossPriorityOverlapAllowed(t *testing.T) {
	broad := testPolicy(0, nil, 10)
	exception := testPolicy(0, intPtr(3), 1)

	report := BuildOverlapReport(&exception, []RefundPolicy{broad}, nil)

	assert.False(t, report.HasConflict())
	require.Len(t, report.OtherPriority, 1)
	assert.Equal(t, broad.ID, report.OtherPriority[0].ID)
}

func TestBuildOverlapReport_DisjointRangesNoOverlap(t *testing.T) {
	existing := testPolicy(0, intPtr(6), 5)
	candidate := testPolicy(7, nil, 5)

	report := BuildOverlapReport(&candidate, []RefundPolicy{existing}, nil)

	assert.False(t, report.HasConflict())
	assert.Empty(t, report.OtherPriority)
}

func TestBuildOverlapReport_SharedBoundaryDayOverlaps(t *testing.T) {
	// Inclusive ranges: [0, 7] and [7, inf) both contain day 7.
	existing := testPolicy(0, intPtr(7), 5)
	candidate := testPolicy(7, nil, 5)

	report := BuildOverlapReport(&candidate, []RefundPolicy{existing}, nil)
	assert.True(t, report.HasConflict())
}

func TestBuildOverlapReport_UnboundedRangesAlwaysOverlap(t *testing.T) {
	existing := testPolicy(0, nil, 5)
	candidate := testPolicy(100, nil, 5)

	report := BuildOverlapReport(&candidate, []RefundPolicy{existing}, nil)
	assert.True(t, report.HasConflict())
}

func TestBuildOverlapReport_IgnoresOtherTypesAndDisabled(t *testing.T) {
	otherType := testPolicy(0, nil, 5)
	otherType.RefundType = RefundTypeCompanyCancellation

	disabled := testPolicy(0, nil, 5)
	disabled.IsEnabled = false

	deleted := testPolicy(0, nil, 5)
	deleted.IsDeleted = true

	candidate := testPolicy(0, nil, 5)
	report := BuildOverlapReport(&candidate, []RefundPolicy{otherType, disabled, deleted}, nil)

	assert.False(t, report.HasConflict())
	assert.Empty(t, report.OtherPriority)
}

func TestBuildOverlapReport_ExcludesSelfOnUpdate(t *testing.T) {
	existing := testPolicy(0, intPtr(10), 5)

	// Updating a policy must not report the stored version of itself.
	updated := existing
	updated.MaxDaysBeforeEvent = intPtr(12)

	report := BuildOverlapReport(&updated, []RefundPolicy{existing}, &existing.ID)
	assert.False(t, report.HasConflict())
}

func TestRangesOverlap(t *testing.T) {
	tests := []struct {
		name string
		aMin int
		aMax *int
		bMin int
		bMax *int
		want bool
	}{
		{"disjoint below", 0, intPtr(6), 7, nil, false},
		{"disjoint above", 7, nil, 0, intPtr(6), false},
		{"touching at boundary", 0, intPtr(7), 7, intPtr(30), true},
		{"nested", 0, nil, 5, intPtr(10), true},
		{"both unbounded", 0, nil, 50, nil, true},
		{"identical", 3, intPtr(9), 3, intPtr(9), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, rangesOverlap(tt.aMin, tt.aMax, tt.bMin, tt.bMax))
		})
	}
}
