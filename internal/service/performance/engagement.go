package performance

import (
	"math"

	"github.com/cmlabs-hris/hris-performance-go/internal/domain/engagement"
)

const (
	managerRatingBlend     = 0.6
	evaluationQualityBlend = 0.4
)

type EngagementMetrics struct {
	TotalPointsEarned    float64
	ReportsSubmitted     int
	ReportsExpected      int
	ReportSubmissionRate float64
	AverageSelfRating    float64
	AverageManagerRating float64
	EvaluationQuality    float64
	TaskQualityScore     float64
	TasksCompleted       int
	TasksAssigned        int
	TaskCompletionRate   float64
}

// AggregateEngagement reduces point ledger entries and work reports dated
// inside the calendar month. Reports are validated first; one malformed report
// fails the whole aggregation.
func AggregateEngagement(points []engagement.PointLog, reports []engagement.WorkReport, cal Calendar) (EngagementMetrics, error) {
	reports = reportsInPeriod(reports, cal)
	for _, r := range reports {
		if err := r.Validate(); err != nil {
			return EngagementMetrics{}, err
		}
	}

	var m EngagementMetrics
	for _, p := range points {
		if !cal.Contains(p.Date) {
			continue
		}
		m.TotalPointsEarned += p.Points
	}

	m.ReportsSubmitted = len(reports)
	m.ReportsExpected = cal.TotalWorkingDays()
	m.ReportSubmissionRate = percentage(m.ReportsSubmitted, m.ReportsExpected)

	var selfSum, managerSum, evalSum float64
	var selfCount, managerCount, evalCount int
	for _, r := range reports {
		if r.SelfRating != nil {
			selfSum += *r.SelfRating
			selfCount++
		}
		if r.ManagerRating != nil {
			managerSum += *r.ManagerRating
			managerCount++
		}
		if r.Evaluation != nil {
			if r.Evaluation.WorkQuality != nil {
				evalSum += *r.Evaluation.WorkQuality
				evalCount++
			}
			if r.Evaluation.Efficiency != nil {
				evalSum += *r.Evaluation.Efficiency
				evalCount++
			}
		}
		m.TasksCompleted += r.TasksCompleted
		m.TasksAssigned += len(r.TasksSnapshot)
	}

	m.AverageSelfRating = mean(selfSum, selfCount)
	m.AverageManagerRating = mean(managerSum, managerCount)
	if evalCount > 0 {
		m.EvaluationQuality = normalizeEvaluation(evalSum/float64(evalCount), 10)
	}

	if m.AverageManagerRating > 0 {
		m.TaskQualityScore = managerRatingBlend*m.AverageManagerRating + evaluationQualityBlend*m.EvaluationQuality
	} else {
		m.TaskQualityScore = m.EvaluationQuality
	}

	m.TaskCompletionRate = percentage(m.TasksCompleted, m.TasksAssigned)

	return m, nil
}

func reportsInPeriod(reports []engagement.WorkReport, cal Calendar) []engagement.WorkReport {
	inPeriod := make([]engagement.WorkReport, 0, len(reports))
	for _, r := range reports {
		if cal.Contains(r.Date) {
			inPeriod = append(inPeriod, r)
		}
	}
	return inPeriod
}

// normalizeEvaluation maps an evaluation average in [-3, 3] linearly onto
// [0, scale].
func normalizeEvaluation(avg float64, scale float64) float64 {
	return (avg - engagement.MinEvaluationScore) * scale / (engagement.MaxEvaluationScore - engagement.MinEvaluationScore)
}

// percentage returns part/whole*100 bounded to [0, 100], or 0 when whole is 0.
func percentage(part, whole int) float64 {
	if whole <= 0 {
		return 0
	}
	return clamp(float64(part)/float64(whole)*100, 0, 100)
}

func mean(sum float64, n int) float64 {
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
