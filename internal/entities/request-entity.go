package entities

import (
	"time"

	"github.com/google/uuid"
)

type RequestStatus string

const (
	StatusNew        RequestStatus = "new"
	StatusInProgress RequestStatus = "in_progress"
	StatusRepaired   RequestStatus = "repaired"
	StatusScrap      RequestStatus = "scrap"
)

func (s RequestStatus) Valid() bool {
	switch s {
	case StatusNew, StatusInProgress, StatusRepaired, StatusScrap:
		return true
	}
	return false
}

// Terminal statuses are never exited.
func (s RequestStatus) Terminal() bool {
	return s == StatusRepaired || s == StatusScrap
}

// CanTransitionTo reports whether the lifecycle allows moving from s to
// target. Any valid status is reachable from any non-terminal status; there is
// no enforced linear ordering.
func (s RequestStatus) CanTransitionTo(target RequestStatus) bool {
	return s.Valid() && target.Valid() && !s.Terminal()
}

type RequestType string

const (
	TypeCorrective RequestType = "corrective"
	TypePreventive RequestType = "preventive"
)

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// MaintenanceRequest carries creation-time snapshots of the equipment's
// category, team and default technician. Later equipment edits do not change
// existing requests.
type MaintenanceRequest struct {
	ID                   uuid.UUID     `json:"id"`
	Subject              string        `json:"subject"`
	Description          *string       `json:"description,omitempty"`
	EquipmentID          uuid.UUID     `json:"equipment_id"`
	Category             *string       `json:"category,omitempty"`
	TeamID               *uuid.UUID    `json:"team_id,omitempty"`
	AssignedTechnicianID *uuid.UUID    `json:"assigned_technician_id,omitempty"`
	RequestType          RequestType   `json:"request_type"`
	Priority             Priority      `json:"priority"`
	Status               RequestStatus `json:"status"`
	ScheduledDate        *time.Time    `json:"scheduled_date,omitempty"`
	HoursSpent           *float64      `json:"hours_spent,omitempty"`
	CompletedDate        *time.Time    `json:"completed_date,omitempty"`
	CreatedAt            time.Time     `json:"created_at"`
	UpdatedAt            time.Time     `json:"updated_at"`

	// Expanded relations, not columns.
	EquipmentName  *string `json:"equipment_name,omitempty" db:"-"`
	TeamName       *string `json:"team_name,omitempty" db:"-"`
	TechnicianName *string `json:"technician_name,omitempty" db:"-"`
}

func (r *MaintenanceRequest) Open() bool {
	return r.Status == StatusNew || r.Status == StatusInProgress
}
