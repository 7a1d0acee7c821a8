package domain

import (
	"strings"
	"time"
)

type Project struct {
	ID        string
	Name      string
	StartDate time.Time
	Status    ProjectStatus
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Validate checks that a project has a name and a start date.
func (p *Project) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return Validationf("project name is required")
	}
	if p.StartDate.IsZero() {
		return Validationf("project start date is required")
	}
	return nil
}

// DisplayID returns the best short identifier for display.
// It truncates ID to 8 characters.
func (p *Project) DisplayID() string {
	if len(p.ID) >= 8 {
		return p.ID[:8]
	}
	return p.ID
}
