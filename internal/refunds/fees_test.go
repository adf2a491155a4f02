package refunds

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"tourly/internal/policies"
)

func money(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func feePolicy(refundPct, fixedFee, feePct string) *policies.RefundPolicy {
	return &policies.RefundPolicy{
		RefundPercentage:        decimal.RequireFromString(refundPct),
		ProcessingFee:           decimal.RequireFromString(fixedFee),
		ProcessingFeePercentage: decimal.RequireFromString(feePct),
	}
}

func TestRefundAmount_NinetyPercentBand(t *testing.T) {
	p := feePolicy("90", "50000", "0")

	got := RefundAmount(p, money(1000000))
	assert.True(t, money(850000).Equal(got), "got %s", got)
}

func TestRefundAmount_FiftyPercentBand(t *testing.T) {
	p := feePolicy("50", "50000", "0")

	got := RefundAmount(p, money(1000000))
	assert.True(t, money(450000).Equal(got), "got %s", got)
}

func TestRefundAmount_ClampsAtZero(t *testing.T) {
	// Fee exceeds the refundable share on a cheap booking.
	p := feePolicy("50", "50000", "0")

	got := RefundAmount(p, money(40000))
	assert.True(t, got.IsZero(), "got %s", got)
}

func TestRefundAmount_ZeroOriginal(t *testing.T) {
	p := feePolicy("90", "0", "0")
	assert.True(t, RefundAmount(p, decimal.Zero).IsZero())
}

func TestRefundAmount_FullRefundNoFee(t *testing.T) {
	p := feePolicy("100", "0", "0")

	got := RefundAmount(p, money(1000000))
	assert.True(t, money(1000000).Equal(got))
}

func TestTotalProcessingFee_FixedPlusPercentage(t *testing.T) {
	p := feePolicy("90", "50000", "2")

	// 50,000 + 2% of 1,000,000.
	got := TotalProcessingFee(p, money(1000000))
	assert.True(t, money(70000).Equal(got), "got %s", got)
}

func TestTotalProcessingFee_RoundsHalfUpOnce(t *testing.T) {
	p := feePolicy("90", "0", "50")

	// 50% of 1,001 is 500.5, rounds up to 501.
	got := TotalProcessingFee(p, money(1001))
	assert.True(t, money(501).Equal(got), "got %s", got)

	// 2.5% of 333,333 is 8,333.325, rounds down to 8,333.
	p = feePolicy("90", "0", "2.5")
	got = TotalProcessingFee(p, money(333333))
	assert.True(t, money(8333).Equal(got), "got %s", got)
}

func TestDaysBeforeTour_TruncatesPartialDays(t *testing.T) {
	asOf := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	// 6 days and 19 hours counts as 6.
	tour := asOf.Add(6*24*time.Hour + 19*time.Hour)
	assert.Equal(t, 6, DaysBeforeTour(tour, asOf))

	tour = asOf.Add(7 * 24 * time.Hour)
	assert.Equal(t, 7, DaysBeforeTour(tour, asOf))
}

func TestDaysBeforeTour_PastTourClampsToZero(t *testing.T) {
	asOf := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	assert.Equal(t, 0, DaysBeforeTour(asOf.Add(-48*time.Hour), asOf))
}
