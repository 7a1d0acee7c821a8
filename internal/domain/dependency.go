package domain

import "time"

// Dependency is a directed typed precedence edge between two tasks.
// LagDays may be negative (lead time).
type Dependency struct {
	ID            string
	ProjectID     string
	PredecessorID string
	SuccessorID   string
	Type          DependencyType
	LagDays       int
	CreatedAt     time.Time
}

// Validate checks the record-level invariants of a dependency.
func (d *Dependency) Validate() error {
	if d.PredecessorID == "" || d.SuccessorID == "" {
		return Validationf("dependency requires both predecessor and successor ids")
	}
	if d.PredecessorID == d.SuccessorID {
		return Validationf("self-dependency on task %q", d.PredecessorID)
	}
	if !ValidDependencyTypes[d.Type] {
		return Validationf("invalid dependency type %q", d.Type)
	}
	return nil
}
