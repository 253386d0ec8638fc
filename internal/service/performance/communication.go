package performance

import (
	"github.com/cmlabs-hris/hris-performance-go/internal/domain/engagement"
)

// interactionsPerPoint converts raw follow-ups plus chats into score points
// when no evaluation is available.
const interactionsPerPoint = 10.0

type CommunicationMetrics struct {
	TotalFollowUps int
	TotalChats     int
	Score          float64
}

// ScoreCommunication prefers the evaluated communication score and falls back
// to activity counters. Reports outside the calendar month are ignored.
func ScoreCommunication(reports []engagement.WorkReport, cal Calendar) CommunicationMetrics {
	var m CommunicationMetrics
	var evalSum float64
	var evalCount int

	for _, r := range reports {
		if !cal.Contains(r.Date) {
			continue
		}
		m.TotalFollowUps += r.FollowUpsCompleted
		m.TotalChats += r.ChatsHandled
		if r.Evaluation != nil && r.Evaluation.Communication != nil {
			evalSum += *r.Evaluation.Communication
			evalCount++
		}
	}

	if evalCount > 0 {
		m.Score = normalizeEvaluation(evalSum/float64(evalCount), 100)
	} else {
		m.Score = float64(m.TotalFollowUps+m.TotalChats) / interactionsPerPoint
	}
	m.Score = clamp(m.Score, 0, 100)

	return m
}
