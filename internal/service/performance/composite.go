package performance

import (
	"math"

	"github.com/cmlabs-hris/hris-performance-go/internal/domain/performance"
)

// Composite weights. They sum to 1.0 so that the overall score of bounded
// sub-scores stays in [0, 100].
const (
	WeightAttendance       = 0.25
	WeightPoints           = 0.25
	WeightReportSubmission = 0.15
	WeightManagerRating    = 0.15
	WeightTaskCompletion   = 0.10
	WeightCommunication    = 0.10
)

const pointsPerScorePoint = 10.0

// OverallScore combines the sub-scores into the composite performance score.
func OverallScore(att AttendanceMetrics, eng EngagementMetrics, comm CommunicationMetrics) float64 {
	pointsScore := math.Min(100, eng.TotalPointsEarned/pointsPerScorePoint)
	managerScore := eng.AverageManagerRating * 10

	score := WeightAttendance*att.Score +
		WeightPoints*pointsScore +
		WeightReportSubmission*eng.ReportSubmissionRate +
		WeightManagerRating*managerScore +
		WeightTaskCompletion*eng.TaskCompletionRate +
		WeightCommunication*comm.Score

	return clamp(score, 0, 100)
}

var gradeBands = []struct {
	min   float64
	grade performance.Grade
}{
	{95, performance.GradeAPlus},
	{90, performance.GradeA},
	{85, performance.GradeBPlus},
	{80, performance.GradeB},
	{70, performance.GradeC},
	{60, performance.GradeD},
}

// GradeFor maps a score to its letter grade. Bands include their lower bound.
func GradeFor(score float64) performance.Grade {
	for _, band := range gradeBands {
		if score >= band.min {
			return band.grade
		}
	}
	return performance.GradeF
}
