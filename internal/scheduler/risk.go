package scheduler

import (
	"time"

	"github.com/alexanderramin/taskgraph/internal/domain"
)

type RiskInput struct {
	Now        time.Time
	Status     domain.TaskStatus
	PlannedEnd time.Time
	SlackDays  int
	IsCritical bool
	// AtRiskSlackDays is the slack at or below which a non-critical task is
	// flagged at risk.
	AtRiskSlackDays int
}

type RiskResult struct {
	Level    domain.RiskLevel
	DaysLeft int
	Overdue  bool
}

// ComputeRisk classifies one task. Finished and cancelled tasks are always
// on track; unfinished tasks past their planned end are critical regardless
// of slack.
func ComputeRisk(input RiskInput) RiskResult {
	daysLeft := domain.DaysBetween(input.Now, input.PlannedEnd)
	result := RiskResult{DaysLeft: daysLeft}

	if input.Status == domain.StatusCompleted || input.Status == domain.StatusCancelled {
		result.Level = domain.RiskOnTrack
		return result
	}

	// Past due
	if !input.Now.IsZero() && daysLeft < 0 {
		result.Level = domain.RiskCritical
		result.Overdue = true
		return result
	}

	switch {
	case input.IsCritical || input.SlackDays == 0:
		result.Level = domain.RiskCritical
	case input.SlackDays <= input.AtRiskSlackDays:
		result.Level = domain.RiskAtRisk
	default:
		result.Level = domain.RiskOnTrack
	}
	return result
}
