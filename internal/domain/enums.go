package domain

type RiskLevel string

const (
	RiskOnTrack  RiskLevel = "on_track"
	RiskAtRisk   RiskLevel = "at_risk"
	RiskCritical RiskLevel = "critical"
)

type ProjectStatus string

const (
	ProjectActive   ProjectStatus = "active"
	ProjectArchived ProjectStatus = "archived"
)

type TaskKind string

const (
	KindGroup     TaskKind = "group"
	KindSubgroup  TaskKind = "subgroup"
	KindTask      TaskKind = "task"
	KindMilestone TaskKind = "milestone"
)

// IsContainer reports whether tasks of this kind derive their dates from children.
func (k TaskKind) IsContainer() bool {
	return k == KindGroup || k == KindSubgroup
}

type TaskStatus string

const (
	StatusNotStarted TaskStatus = "not_started"
	StatusInProgress TaskStatus = "in_progress"
	StatusCompleted  TaskStatus = "completed"
	StatusOnHold     TaskStatus = "on_hold"
	StatusCancelled  TaskStatus = "cancelled"
)

type TaskPriority string

const (
	PriorityLow    TaskPriority = "low"
	PriorityMedium TaskPriority = "medium"
	PriorityHigh   TaskPriority = "high"
	PriorityUrgent TaskPriority = "urgent"
)

// DependencyType is the precedence relation between a predecessor and a successor.
type DependencyType string

const (
	FinishToStart  DependencyType = "FS"
	StartToStart   DependencyType = "SS"
	FinishToFinish DependencyType = "FF"
	StartToFinish  DependencyType = "SF"
)

// ValidTaskKinds is the canonical set of accepted task kind strings.
var ValidTaskKinds = map[TaskKind]bool{
	KindGroup: true, KindSubgroup: true, KindTask: true, KindMilestone: true,
}

// ValidTaskStatuses is the canonical set of accepted task status strings.
var ValidTaskStatuses = map[TaskStatus]bool{
	StatusNotStarted: true, StatusInProgress: true, StatusCompleted: true,
	StatusOnHold: true, StatusCancelled: true,
}

// ValidTaskPriorities is the canonical set of accepted priority strings.
var ValidTaskPriorities = map[TaskPriority]bool{
	PriorityLow: true, PriorityMedium: true, PriorityHigh: true, PriorityUrgent: true,
}

// ValidDependencyTypes is the canonical set of accepted dependency types.
var ValidDependencyTypes = map[DependencyType]bool{
	FinishToStart: true, StartToStart: true, FinishToFinish: true, StartToFinish: true,
}

// ParseDependencyType accepts both the short ("FS") and long
// ("finish_to_start") spellings.
func ParseDependencyType(s string) (DependencyType, bool) {
	switch s {
	case "FS", "fs", "finish_to_start", "FinishToStart":
		return FinishToStart, true
	case "SS", "ss", "start_to_start", "StartToStart":
		return StartToStart, true
	case "FF", "ff", "finish_to_finish", "FinishToFinish":
		return FinishToFinish, true
	case "SF", "sf", "start_to_finish", "StartToFinish":
		return StartToFinish, true
	default:
		return "", false
	}
}
