package scheduler

import (
	"testing"
	"time"

	"github.com/alexanderramin/taskgraph/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestComputeRisk_ZeroSlackIsCritical(t *testing.T) {
	result := ComputeRisk(RiskInput{
		Now:             jan(1),
		Status:          domain.StatusInProgress,
		PlannedEnd:      jan(10),
		SlackDays:       0,
		AtRiskSlackDays: 2,
	})
	assert.Equal(t, domain.RiskCritical, result.Level)
	assert.Equal(t, 9, result.DaysLeft)
	assert.False(t, result.Overdue)
}

func TestComputeRisk_SlackThresholds(t *testing.T) {
	tests := []struct {
		slack    int
		expected domain.RiskLevel
	}{
		{1, domain.RiskAtRisk},
		{2, domain.RiskAtRisk},
		{3, domain.RiskOnTrack},
		{30, domain.RiskOnTrack},
	}
	for _, tt := range tests {
		result := ComputeRisk(RiskInput{
			Now:             jan(1),
			Status:          domain.StatusNotStarted,
			PlannedEnd:      jan(20),
			SlackDays:       tt.slack,
			AtRiskSlackDays: 2,
		})
		assert.Equal(t, tt.expected, result.Level, "slack %d", tt.slack)
	}
}

func TestComputeRisk_PastDue(t *testing.T) {
	result := ComputeRisk(RiskInput{
		Now:             time.Date(2025, 3, 15, 12, 0, 0, 0, time.UTC),
		Status:          domain.StatusInProgress,
		PlannedEnd:      domain.Date(2025, 3, 14),
		SlackDays:       10,
		AtRiskSlackDays: 2,
	})
	assert.Equal(t, domain.RiskCritical, result.Level)
	assert.True(t, result.Overdue)
	assert.Equal(t, -1, result.DaysLeft)
}

func TestComputeRisk_FinishedTasksOnTrack(t *testing.T) {
	for _, status := range []domain.TaskStatus{domain.StatusCompleted, domain.StatusCancelled} {
		result := ComputeRisk(RiskInput{
			Now:        jan(20),
			Status:     status,
			PlannedEnd: jan(5),
			IsCritical: true,
		})
		assert.Equal(t, domain.RiskOnTrack, result.Level, string(status))
	}
}

func TestComputeRisk_ZeroNowSkipsOverdue(t *testing.T) {
	result := ComputeRisk(RiskInput{
		Status:          domain.StatusNotStarted,
		PlannedEnd:      jan(5),
		SlackDays:       5,
		AtRiskSlackDays: 2,
	})
	assert.Equal(t, domain.RiskOnTrack, result.Level)
}
