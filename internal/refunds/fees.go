package refunds

import (
	"time"

	"github.com/shopspring/decimal"

	"tourly/internal/policies"
)

var hundred = decimal.NewFromInt(100)

// TotalProcessingFee is the fixed fee plus the percentage fee over the
// original booking amount, rounded half up to whole VND once at the end.
func TotalProcessingFee(policy *policies.RefundPolicy, originalAmount decimal.Decimal) decimal.Decimal {
	pctFee := originalAmount.Mul(policy.ProcessingFeePercentage).Div(hundred)
	return policy.ProcessingFee.Add(pctFee).Round(0)
}

// RefundAmount is the payout the policy yields for the original amount: the
// refundable share minus the total processing fee, rounded half up to whole
// VND and clamped at zero. Intermediate values keep full precision; rounding
// happens once at the end.
func RefundAmount(policy *policies.RefundPolicy, originalAmount decimal.Decimal) decimal.Decimal {
	gross := originalAmount.Mul(policy.RefundPercentage).Div(hundred)
	net := gross.Sub(TotalProcessingFee(policy, originalAmount)).Round(0)
	if net.IsNegative() {
		return decimal.Zero
	}
	return net
}

// DaysBeforeTour counts whole days between asOf and the tour date, truncating
// partial days. A tour 6.8 days away counts as 6. Past tour dates clamp to
// zero so late requests match same-day policies instead of failing outright.
func DaysBeforeTour(tourDate, asOf time.Time) int {
	days := int(tourDate.Sub(asOf).Hours() / 24)
	if days < 0 {
		return 0
	}
	return days
}
