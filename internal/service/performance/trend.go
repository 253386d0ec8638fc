package performance

import (
	"github.com/cmlabs-hris/hris-performance-go/internal/domain/performance"
)

const (
	trendThreshold = 5.0

	needsAttentionOverall   = 60.0
	topPerformerOverall     = 90.0
	lowAttendanceScore      = 70.0
	poorReportingRate       = 60.0
	frequentLateRatio       = 0.3
	lowManagerRatingAverage = 5.0
)

type TrendResult struct {
	Trend            performance.Trend
	ImprovementScore float64
}

// ClassifyTrend compares the overall score with the previous month's
// snapshot. Without one the trend is stable.
func ClassifyTrend(overall float64, previous *performance.Snapshot) TrendResult {
	if previous == nil {
		return TrendResult{Trend: performance.TrendStable}
	}

	delta := overall - previous.OverallScore
	result := TrendResult{Trend: performance.TrendStable, ImprovementScore: delta}
	switch {
	case delta > trendThreshold:
		result.Trend = performance.TrendImproving
	case delta < -trendThreshold:
		result.Trend = performance.TrendDeclining
	}
	return result
}

type Flags struct {
	NeedsAttention bool
	IsTopPerformer bool
	// WarningFlags is nil when no warning applies.
	WarningFlags []string
}

// DeriveFlags evaluates the independent attention, top-performer and warning
// conditions.
func DeriveFlags(overall float64, att AttendanceMetrics, eng EngagementMetrics, workingDays int) Flags {
	f := Flags{
		NeedsAttention: overall < needsAttentionOverall ||
			att.Score < lowAttendanceScore ||
			eng.ReportSubmissionRate < poorReportingRate,
		IsTopPerformer: overall >= topPerformerOverall,
	}

	if att.Score < lowAttendanceScore {
		f.WarningFlags = append(f.WarningFlags, performance.FlagLowAttendance)
	}
	if eng.ReportSubmissionRate < poorReportingRate {
		f.WarningFlags = append(f.WarningFlags, performance.FlagPoorReporting)
	}
	if float64(att.DaysLate) > float64(workingDays)*frequentLateRatio {
		f.WarningFlags = append(f.WarningFlags, performance.FlagFrequentLate)
	}
	if eng.AverageManagerRating < lowManagerRatingAverage {
		f.WarningFlags = append(f.WarningFlags, performance.FlagLowManagerRating)
	}

	return f
}
