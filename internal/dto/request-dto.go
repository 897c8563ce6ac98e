package dto

import (
	"github.com/aarondl/null/v8"

	"gearguard/internal/entities"
)

type CreateMaintenanceRequestDTO struct {
	Subject              string      `json:"subject" validate:"required"`
	Description          null.String `json:"description"`
	EquipmentID          string      `json:"equipment_id" validate:"required,uuid"`
	AssignedTechnicianID null.String `json:"assigned_technician_id"`
	RequestType          string      `json:"request_type" validate:"required,oneof=corrective preventive"`
	Priority             string      `json:"priority" validate:"omitempty,oneof=low medium high"`
	ScheduledDate        null.String `json:"scheduled_date"`
}

type UpdateRequestStatusDTO struct {
	Status string `json:"status" validate:"required,oneof=new in_progress repaired scrap"`
	// Only consulted when Status is "repaired" and the request has no hours
	// recorded yet.
	HoursSpent null.Float64 `json:"hours_spent"`
}

type CompleteRequestDTO struct {
	HoursSpent float64 `json:"hours_spent" validate:"required,gt=0"`
}

type ReassignRequestDTO struct {
	AssignedTechnicianID string `json:"assigned_technician_id" validate:"required,uuid"`
}

// CalendarBucketDTO groups preventive requests scheduled on one calendar day.
type CalendarBucketDTO struct {
	Date     string                        `json:"date"`
	Count    int                           `json:"count"`
	Requests []entities.MaintenanceRequest `json:"requests"`
}
