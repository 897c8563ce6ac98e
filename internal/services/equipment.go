package services

import (
	"context"
	"errors"
	"time"

	"github.com/aarondl/null/v8"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"gearguard/internal/dto"
	"gearguard/internal/entities"
	"gearguard/internal/repositories"
	apperrors "gearguard/pkg/errors"
	"gearguard/pkg/types"
	"gearguard/pkg/utils"
)

type EquipmentServiceInterface interface {
	GetEquipments(ctx context.Context, filter types.Filter) ([]entities.Equipment, uint64, error)
	FindEquipment(ctx context.Context, id uuid.UUID) (*entities.Equipment, error)
	GetAutofill(ctx context.Context, id uuid.UUID) (*dto.EquipmentAutofillDTO, error)
	CreateEquipment(ctx context.Context, payload dto.CreateEquipmentDTO) (*entities.Equipment, error)
	UpdateEquipment(ctx context.Context, id uuid.UUID, payload dto.UpdateEquipmentDTO) (*entities.Equipment, error)
	GetOpenCount(ctx context.Context, id uuid.UUID) (*dto.EquipmentOpenCountDTO, error)
}

type EquipmentService struct {
	equipmentRepo repositories.EquipmentRepositoryInterface
	teamRepo      repositories.TeamRepositoryInterface
	userRepo      repositories.UserRepositoryInterface
	requestRepo   repositories.MaintenanceRequestRepositoryInterface
	logger        *zap.Logger
}

func NewEquipmentService(
	equipmentRepo repositories.EquipmentRepositoryInterface,
	teamRepo repositories.TeamRepositoryInterface,
	userRepo repositories.UserRepositoryInterface,
	requestRepo repositories.MaintenanceRequestRepositoryInterface,
	logger *zap.Logger,
) *EquipmentService {
	return &EquipmentService{
		equipmentRepo: equipmentRepo,
		teamRepo:      teamRepo,
		userRepo:      userRepo,
		requestRepo:   requestRepo,
		logger:        logger,
	}
}

func (s *EquipmentService) GetEquipments(ctx context.Context, filter types.Filter) ([]entities.Equipment, uint64, error) {
	return s.equipmentRepo.GetEquipments(ctx, filter)
}

// FindEquipment expands the owning team and default technician for display.
func (s *EquipmentService) FindEquipment(ctx context.Context, id uuid.UUID) (*entities.Equipment, error) {
	eq, err := s.equipmentRepo.FindEquipment(ctx, id)
	if err != nil {
		return nil, err
	}

	if eq.TeamID != nil {
		team, err := s.teamRepo.FindTeam(ctx, *eq.TeamID)
		if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
			return nil, err
		}
		eq.Team = team
	}

	if eq.DefaultTechnicianID != nil {
		tech, err := s.userRepo.FindUser(ctx, *eq.DefaultTechnicianID)
		if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
			return nil, err
		}
		eq.DefaultTechnician = tech
	}

	return eq, nil
}

// GetAutofill derives the dependent request-form fields from an equipment
// selection. Scrapped equipment yields ErrEquipmentScrapped and no fields.
func (s *EquipmentService) GetAutofill(ctx context.Context, id uuid.UUID) (*dto.EquipmentAutofillDTO, error) {
	eq, err := s.equipmentRepo.FindEquipment(ctx, id)
	if err != nil {
		return nil, err
	}
	if eq.IsScrapped() {
		return nil, apperrors.ErrEquipmentScrapped
	}

	autofill := &dto.EquipmentAutofillDTO{
		Category:            eq.Category,
		TeamID:              eq.TeamID,
		DefaultTechnicianID: eq.DefaultTechnicianID,
		TeamMembers:         []entities.User{},
	}

	if eq.TeamID != nil {
		team, err := s.teamRepo.FindTeam(ctx, *eq.TeamID)
		if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
			return nil, err
		}
		autofill.Team = team

		members, err := s.teamRepo.GetTeamMembers(ctx, *eq.TeamID)
		if err != nil {
			return nil, err
		}
		if members != nil {
			autofill.TeamMembers = members
		}
	}

	if eq.DefaultTechnicianID != nil {
		tech, err := s.userRepo.FindUser(ctx, *eq.DefaultTechnicianID)
		if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
			return nil, err
		}
		autofill.DefaultTechnician = tech
	}

	return autofill, nil
}

func (s *EquipmentService) CreateEquipment(ctx context.Context, payload dto.CreateEquipmentDTO) (*entities.Equipment, error) {
	ownerID, err := parseUUIDPtr(payload.OwnerEmployeeID, "owner_employee_id")
	if err != nil {
		return nil, err
	}
	teamID, err := parseUUIDPtr(payload.TeamID, "team_id")
	if err != nil {
		return nil, err
	}
	technicianID, err := parseUUIDPtr(payload.DefaultTechnicianID, "default_technician_id")
	if err != nil {
		return nil, err
	}
	purchaseDate, err := parseDatePtr(payload.PurchaseDate, "purchase_date")
	if err != nil {
		return nil, err
	}
	warrantyEnd, err := parseDatePtr(payload.WarrantyEnd, "warranty_end")
	if err != nil {
		return nil, err
	}

	eq := &entities.Equipment{
		Name:                payload.Name,
		SerialNumber:        payload.SerialNumber,
		Category:            payload.Category,
		Department:          payload.Department.Ptr(),
		Location:            payload.Location.Ptr(),
		OwnerEmployeeID:     ownerID,
		TeamID:              teamID,
		DefaultTechnicianID: technicianID,
		Status:              entities.EquipmentStatusActive,
		PurchaseDate:        purchaseDate,
		WarrantyEnd:         warrantyEnd,
	}

	if err := s.equipmentRepo.CreateEquipment(ctx, eq); err != nil {
		s.logger.Error("failed to create equipment", zap.Error(err))
		return nil, err
	}

	s.logger.Info("equipment created", zap.String("id", eq.ID.String()), zap.String("name", eq.Name))
	return eq, nil
}

func (s *EquipmentService) UpdateEquipment(ctx context.Context, id uuid.UUID, payload dto.UpdateEquipmentDTO) (*entities.Equipment, error) {
	for _, field := range []struct {
		name  string
		value null.String
	}{
		{"owner_employee_id", payload.OwnerEmployeeID},
		{"team_id", payload.TeamID},
		{"default_technician_id", payload.DefaultTechnicianID},
	} {
		if _, err := parseUUIDPtr(field.value, field.name); err != nil {
			return nil, err
		}
	}
	for _, field := range []struct {
		name  string
		value null.String
	}{
		{"purchase_date", payload.PurchaseDate},
		{"warranty_end", payload.WarrantyEnd},
	} {
		if _, err := parseDatePtr(field.value, field.name); err != nil {
			return nil, err
		}
	}

	return s.equipmentRepo.UpdateEquipment(ctx, id, payload)
}

func (s *EquipmentService) GetOpenCount(ctx context.Context, id uuid.UUID) (*dto.EquipmentOpenCountDTO, error) {
	if _, err := s.equipmentRepo.FindEquipment(ctx, id); err != nil {
		return nil, err
	}

	count, err := s.requestRepo.CountOpenByEquipment(ctx, id)
	if err != nil {
		return nil, err
	}

	return &dto.EquipmentOpenCountDTO{EquipmentID: id, OpenCount: count}, nil
}

func parseUUIDPtr(value null.String, field string) (*uuid.UUID, error) {
	if !value.Valid || value.String == "" {
		return nil, nil
	}
	id, err := uuid.Parse(value.String)
	if err != nil {
		return nil, apperrors.NewInvalidInputError("%s is not a valid UUID", field)
	}
	return &id, nil
}

func parseDatePtr(value null.String, field string) (*time.Time, error) {
	if !value.Valid || value.String == "" {
		return nil, nil
	}
	d, err := utils.ParseDate(value.String)
	if err != nil {
		return nil, apperrors.NewInvalidInputError("%s must be a yyyy-mm-dd date", field)
	}
	return &d, nil
}
