package performance

import (
	"github.com/shopspring/decimal"

	"github.com/cmlabs-hris/hris-performance-go/internal/domain/revenue"
)

type RevenueMetrics struct {
	TotalRevenueGenerated decimal.Decimal
	RevenueTarget         decimal.Decimal
	RevenueAchievement    float64
}

// AggregateRevenue sums the approved claims whose transaction was paid inside
// the period. Targets are not known to the engine and stay zero.
func AggregateRevenue(claims []revenue.Claim, cal Calendar) RevenueMetrics {
	total := decimal.Zero
	for _, c := range claims {
		if c.Status != revenue.ClaimStatusApproved {
			continue
		}
		if c.PaymentDate == nil || !cal.Contains(*c.PaymentDate) {
			continue
		}
		total = total.Add(c.ClaimAmount)
	}
	return RevenueMetrics{
		TotalRevenueGenerated: total,
		RevenueTarget:         decimal.Zero,
	}
}
