package domain

import "time"

// Task is one schedulable unit. Group and Subgroup tasks are containers whose
// planned range and progress are derived from their children.
type Task struct {
	ID        string
	ProjectID string
	ParentID  *string
	Title     string
	Kind      TaskKind
	Status    TaskStatus
	Priority  TaskPriority

	PlannedStart time.Time
	PlannedEnd   time.Time
	ProgressPct  float64

	// Derived by the critical path calculator.
	IsCritical bool
	SlackDays  int

	CreatedAt time.Time
	UpdatedAt time.Time
}

// DurationDays is end - start in whole days; milestones are always zero.
func (t *Task) DurationDays() int {
	if t.Kind == KindMilestone {
		return 0
	}
	return DaysBetween(t.PlannedStart, t.PlannedEnd)
}

// HasParent reports whether the task sits under a container.
func (t *Task) HasParent() bool {
	return t.ParentID != nil && *t.ParentID != ""
}

// Parent returns the parent id or "" for roots.
func (t *Task) Parent() string {
	if !t.HasParent() {
		return ""
	}
	return *t.ParentID
}

// Validate checks the record-level invariants that do not need the rest of
// the project: required fields, enum values, date ordering and progress range.
func (t *Task) Validate() error {
	if t.ID == "" {
		return Validationf("task id is required")
	}
	if !ValidTaskKinds[t.Kind] {
		return Validationf("task %q: invalid kind %q", t.ID, t.Kind)
	}
	if t.Status != "" && !ValidTaskStatuses[t.Status] {
		return Validationf("task %q: invalid status %q", t.ID, t.Status)
	}
	if t.Priority != "" && !ValidTaskPriorities[t.Priority] {
		return Validationf("task %q: invalid priority %q", t.ID, t.Priority)
	}
	if t.PlannedStart.IsZero() {
		return Validationf("task %q: planned start is required", t.ID)
	}
	if t.PlannedEnd.IsZero() {
		return Validationf("task %q: planned end is required", t.ID)
	}
	if t.Kind == KindMilestone && !Day(t.PlannedEnd).Equal(Day(t.PlannedStart)) {
		return Validationf("milestone %q: planned end must equal planned start", t.ID)
	}
	if Day(t.PlannedEnd).Before(Day(t.PlannedStart)) {
		return Validationf("task %q: planned end %s is before planned start %s",
			t.ID, t.PlannedEnd.Format(DateLayout), t.PlannedStart.Format(DateLayout))
	}
	if t.ProgressPct < 0 || t.ProgressPct > 100 {
		return Validationf("task %q: progress %.1f outside 0-100", t.ID, t.ProgressPct)
	}
	if t.ParentID != nil && *t.ParentID == t.ID {
		return Validationf("task %q cannot be its own parent", t.ID)
	}
	return nil
}

// Normalize truncates planned dates to calendar days and fills enum defaults.
func (t *Task) Normalize() {
	t.PlannedStart = Day(t.PlannedStart)
	t.PlannedEnd = Day(t.PlannedEnd)
	if t.Kind == KindMilestone {
		t.PlannedEnd = t.PlannedStart
	}
	if t.Status == "" {
		t.Status = StatusNotStarted
	}
	if t.Priority == "" {
		t.Priority = PriorityMedium
	}
	if t.ParentID != nil && *t.ParentID == "" {
		t.ParentID = nil
	}
}

// Clone returns a deep copy of the task.
func (t *Task) Clone() *Task {
	c := *t
	if t.ParentID != nil {
		pid := *t.ParentID
		c.ParentID = &pid
	}
	return &c
}

// SetProgress records progress and moves the status along with it:
// 100% completes the task, any progress starts it, 0% on a started task
// returns it to not started.
func (t *Task) SetProgress(pct float64, now time.Time) error {
	if pct < 0 || pct > 100 {
		return Validationf("task %q: progress %.1f outside 0-100", t.ID, pct)
	}
	t.ProgressPct = pct
	switch {
	case pct == 100:
		t.Status = StatusCompleted
	case pct > 0 && (t.Status == StatusNotStarted || t.Status == StatusCompleted || t.Status == ""):
		t.Status = StatusInProgress
	case pct == 0 && t.Status == StatusInProgress:
		t.Status = StatusNotStarted
	}
	t.UpdatedAt = now
	return nil
}
