package domain

import "time"

// ProjectStatus enumerates lifecycle states for client projects.
type ProjectStatus string

const (
	ProjectStatusPending    ProjectStatus = "pending"
	ProjectStatusInProgress ProjectStatus = "in_progress"
	ProjectStatusCompleted  ProjectStatus = "completed"
)

// ValidProjectStatus reports whether s is a known status value.
func ValidProjectStatus(s ProjectStatus) bool {
	switch s {
	case ProjectStatusPending, ProjectStatusInProgress, ProjectStatusCompleted:
		return true
	}
	return false
}

// Project is an engagement tracked for a client.
type Project struct {
	ID          string
	ClientID    string
	Title       string
	Description string
	Status      ProjectStatus
	StartDate   time.Time
	EndDate     *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
