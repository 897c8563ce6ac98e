package entities

import (
	"time"

	"github.com/google/uuid"
)

type EquipmentStatus string

const (
	EquipmentStatusActive   EquipmentStatus = "active"
	EquipmentStatusScrapped EquipmentStatus = "scrapped"
)

// Equipment is a registry asset. Status is never edited directly: only the
// request lifecycle's scrap side effect moves it to scrapped.
type Equipment struct {
	ID                  uuid.UUID       `json:"id"`
	Name                string          `json:"name"`
	SerialNumber        string          `json:"serial_number"`
	Category            string          `json:"category"`
	Department          *string         `json:"department,omitempty"`
	Location            *string         `json:"location,omitempty"`
	OwnerEmployeeID     *uuid.UUID      `json:"owner_employee_id,omitempty"`
	TeamID              *uuid.UUID      `json:"team_id,omitempty"`
	DefaultTechnicianID *uuid.UUID      `json:"default_technician_id,omitempty"`
	Status              EquipmentStatus `json:"status"`
	PurchaseDate        *time.Time      `json:"purchase_date,omitempty"`
	WarrantyEnd         *time.Time      `json:"warranty_end,omitempty"`
	CreatedAt           time.Time       `json:"created_at"`
	UpdatedAt           time.Time       `json:"updated_at"`

	// Expanded relations, not columns.
	Team              *Team `json:"team,omitempty" db:"-"`
	DefaultTechnician *User `json:"default_technician,omitempty" db:"-"`
}

func (e *Equipment) IsScrapped() bool {
	return e.Status == EquipmentStatusScrapped
}
