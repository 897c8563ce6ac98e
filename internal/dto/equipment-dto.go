package dto

import (
	"github.com/aarondl/null/v8"
	"github.com/google/uuid"

	"gearguard/internal/entities"
)

type CreateEquipmentDTO struct {
	Name                string      `json:"name" validate:"required"`
	SerialNumber        string      `json:"serial_number" validate:"required"`
	Category            string      `json:"category" validate:"required"`
	Department          null.String `json:"department"`
	Location            null.String `json:"location"`
	OwnerEmployeeID     null.String `json:"owner_employee_id"`
	TeamID              null.String `json:"team_id"`
	DefaultTechnicianID null.String `json:"default_technician_id"`
	PurchaseDate        null.String `json:"purchase_date"`
	WarrantyEnd         null.String `json:"warranty_end"`
}

// UpdateEquipmentDTO deliberately has no status field: scrapping happens only
// through the request lifecycle.
type UpdateEquipmentDTO struct {
	Name                null.String `json:"name"`
	SerialNumber        null.String `json:"serial_number"`
	Category            null.String `json:"category"`
	Department          null.String `json:"department"`
	Location            null.String `json:"location"`
	OwnerEmployeeID     null.String `json:"owner_employee_id"`
	TeamID              null.String `json:"team_id"`
	DefaultTechnicianID null.String `json:"default_technician_id"`
	PurchaseDate        null.String `json:"purchase_date"`
	WarrantyEnd         null.String `json:"warranty_end"`
}

// EquipmentAutofillDTO is the derivation payload for the request form:
// everything the client needs to pre-populate category, team and technician
// after an equipment is selected.
type EquipmentAutofillDTO struct {
	Category            string          `json:"category"`
	TeamID              *uuid.UUID      `json:"team_id,omitempty"`
	DefaultTechnicianID *uuid.UUID      `json:"default_technician_id,omitempty"`
	Team                *entities.Team  `json:"team,omitempty"`
	DefaultTechnician   *entities.User  `json:"default_technician,omitempty"`
	TeamMembers         []entities.User `json:"team_members"`
}

type EquipmentOpenCountDTO struct {
	EquipmentID uuid.UUID `json:"equipment_id"`
	OpenCount   int64     `json:"open_count"`
}
