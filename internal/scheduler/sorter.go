package scheduler

import (
	"sort"
	"time"

	"github.com/alexanderramin/taskgraph/internal/domain"
	"github.com/alexanderramin/taskgraph/internal/graph"
)

// ScheduleRow is one task as presented in a schedule report.
type ScheduleRow struct {
	Task   *domain.Task
	Timing Timing
	Risk   RiskResult
}

// RiskPriority returns a sort priority (lower = more urgent).
func RiskPriority(r domain.RiskLevel) int {
	switch r {
	case domain.RiskCritical:
		return 0
	case domain.RiskAtRisk:
		return 1
	default:
		return 2
	}
}

// BuildScheduleRows turns the non-container tasks of g into report rows,
// classified against now.
func BuildScheduleRows(g *graph.ProjectGraph, timings map[string]Timing, now time.Time, atRiskSlackDays int) []ScheduleRow {
	var rows []ScheduleRow
	for _, t := range g.Tasks() {
		if t.Kind.IsContainer() {
			continue
		}
		rows = append(rows, ScheduleRow{
			Task:   t,
			Timing: timings[t.ID],
			Risk: ComputeRisk(RiskInput{
				Now:             now,
				Status:          t.Status,
				PlannedEnd:      t.PlannedEnd,
				SlackDays:       t.SlackDays,
				IsCritical:      t.IsCritical,
				AtRiskSlackDays: atRiskSlackDays,
			}),
		})
	}
	return rows
}

// CanonicalSort sorts schedule rows by the deterministic canonical rules:
// 1. Risk: critical > at_risk > on_track
// 2. Planned start: earliest first
// 3. Slack: smaller first
// 4. Title: lexical ascending
// 5. Task ID: lexical ascending
func CanonicalSort(rows []ScheduleRow) {
	sort.SliceStable(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]

		riskA, riskB := RiskPriority(a.Risk.Level), RiskPriority(b.Risk.Level)
		if riskA != riskB {
			return riskA < riskB
		}

		if !a.Task.PlannedStart.Equal(b.Task.PlannedStart) {
			return a.Task.PlannedStart.Before(b.Task.PlannedStart)
		}

		if a.Task.SlackDays != b.Task.SlackDays {
			return a.Task.SlackDays < b.Task.SlackDays
		}

		if a.Task.Title != b.Task.Title {
			return a.Task.Title < b.Task.Title
		}

		return a.Task.ID < b.Task.ID
	})
}
