package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"gearguard/internal/dto"
	"gearguard/internal/entities"
	"gearguard/internal/repositories"
	apperrors "gearguard/pkg/errors"
	"gearguard/pkg/types"
	"gearguard/pkg/utils"
)

type MaintenanceRequestServiceInterface interface {
	GetRequests(ctx context.Context, filter types.Filter) ([]entities.MaintenanceRequest, uint64, error)
	FindRequest(ctx context.Context, id uuid.UUID) (*entities.MaintenanceRequest, error)
	CreateRequest(ctx context.Context, payload dto.CreateMaintenanceRequestDTO) (*entities.MaintenanceRequest, error)
	Transition(ctx context.Context, id uuid.UUID, payload dto.UpdateRequestStatusDTO) (*entities.MaintenanceRequest, error)
	Complete(ctx context.Context, id uuid.UUID, payload dto.CompleteRequestDTO) (*entities.MaintenanceRequest, error)
	Reassign(ctx context.Context, id uuid.UUID, payload dto.ReassignRequestDTO) (*entities.MaintenanceRequest, error)
	GetCalendar(ctx context.Context, fromStr, toStr string) ([]dto.CalendarBucketDTO, error)
}

type MaintenanceRequestService struct {
	requestRepo   repositories.MaintenanceRequestRepositoryInterface
	equipmentRepo repositories.EquipmentRepositoryInterface
	userRepo      repositories.UserRepositoryInterface
	cache         repositories.CacheRepositoryInterface
	logger        *zap.Logger
}

func NewMaintenanceRequestService(
	requestRepo repositories.MaintenanceRequestRepositoryInterface,
	equipmentRepo repositories.EquipmentRepositoryInterface,
	userRepo repositories.UserRepositoryInterface,
	cache repositories.CacheRepositoryInterface,
	logger *zap.Logger,
) *MaintenanceRequestService {
	return &MaintenanceRequestService{
		requestRepo:   requestRepo,
		equipmentRepo: equipmentRepo,
		userRepo:      userRepo,
		cache:         cache,
		logger:        logger,
	}
}

func (s *MaintenanceRequestService) GetRequests(ctx context.Context, filter types.Filter) ([]entities.MaintenanceRequest, uint64, error) {
	return s.requestRepo.GetRequests(ctx, filter)
}

func (s *MaintenanceRequestService) FindRequest(ctx context.Context, id uuid.UUID) (*entities.MaintenanceRequest, error) {
	return s.requestRepo.FindRequest(ctx, id)
}

// CreateRequest validates the payload, re-checks the scrap lock against the
// current equipment record and snapshots category, team and default technician
// onto the new request. Nothing is persisted when any check fails.
func (s *MaintenanceRequestService) CreateRequest(ctx context.Context, payload dto.CreateMaintenanceRequestDTO) (*entities.MaintenanceRequest, error) {
	equipmentID, err := uuid.Parse(payload.EquipmentID)
	if err != nil {
		return nil, apperrors.NewInvalidInputError("equipment_id is not a valid UUID")
	}

	requestType := entities.RequestType(payload.RequestType)

	var scheduledDate *time.Time
	if requestType == entities.TypePreventive {
		if !payload.ScheduledDate.Valid || payload.ScheduledDate.String == "" {
			return nil, apperrors.ErrScheduledDateRequired
		}
		d, err := utils.ParseDate(payload.ScheduledDate.String)
		if err != nil {
			return nil, apperrors.NewInvalidInputError("scheduled_date must be a yyyy-mm-dd date")
		}
		scheduledDate = &d
	}

	// Scrap lock: the equipment may have been scrapped between selection and
	// submission, so its current status is always re-fetched here.
	eq, err := s.equipmentRepo.FindEquipment(ctx, equipmentID)
	if err != nil {
		return nil, err
	}
	if eq.IsScrapped() {
		return nil, apperrors.ErrEquipmentScrapped
	}

	technicianID := eq.DefaultTechnicianID
	if payload.AssignedTechnicianID.Valid && payload.AssignedTechnicianID.String != "" {
		id, err := uuid.Parse(payload.AssignedTechnicianID.String)
		if err != nil {
			return nil, apperrors.NewInvalidInputError("assigned_technician_id is not a valid UUID")
		}
		technicianID = &id
	}

	priority := entities.Priority(payload.Priority)
	if priority == "" {
		priority = entities.PriorityMedium
	}

	category := eq.Category
	req := &entities.MaintenanceRequest{
		Subject:              payload.Subject,
		Description:          payload.Description.Ptr(),
		EquipmentID:          equipmentID,
		Category:             &category,
		TeamID:               eq.TeamID,
		AssignedTechnicianID: technicianID,
		RequestType:          requestType,
		Priority:             priority,
		Status:               entities.StatusNew,
		ScheduledDate:        scheduledDate,
	}

	if err := s.requestRepo.CreateRequest(ctx, req); err != nil {
		s.logger.Error("failed to create maintenance request", zap.Error(err))
		return nil, err
	}

	s.invalidateDashboard(ctx)
	s.logger.Info("maintenance request created",
		zap.String("id", req.ID.String()),
		zap.String("equipment_id", equipmentID.String()),
		zap.String("type", string(requestType)),
	)

	return s.requestRepo.FindRequest(ctx, req.ID)
}

// Transition moves a request to the target status. Terminal states are never
// exited; entering repaired demands an hours value; entering scrap scraps the
// equipment before the status change commits.
func (s *MaintenanceRequestService) Transition(ctx context.Context, id uuid.UUID, payload dto.UpdateRequestStatusDTO) (*entities.MaintenanceRequest, error) {
	target := entities.RequestStatus(payload.Status)
	if !target.Valid() {
		return nil, apperrors.ErrInvalidStatus
	}

	req, err := s.requestRepo.FindRequest(ctx, id)
	if err != nil {
		return nil, err
	}
	if !req.Status.CanTransitionTo(target) {
		return nil, apperrors.ErrInvalidTransition
	}

	var updated *entities.MaintenanceRequest
	switch target {
	case entities.StatusRepaired:
		hours := req.HoursSpent
		if hours == nil {
			if !payload.HoursSpent.Valid || payload.HoursSpent.Float64 <= 0 {
				return nil, apperrors.ErrHoursRequired
			}
			hours = &payload.HoursSpent.Float64
		}
		updated, err = s.requestRepo.UpdateRequestStatus(ctx, id, target, hours, utils.DatePtr(time.Now()))
	case entities.StatusScrap:
		updated, err = s.requestRepo.TransitionToScrap(ctx, id)
	default:
		updated, err = s.requestRepo.UpdateRequestStatus(ctx, id, target, nil, nil)
	}
	if err != nil {
		return nil, err
	}

	s.invalidateDashboard(ctx)
	s.logger.Info("request status changed",
		zap.String("id", id.String()),
		zap.String("from", string(req.Status)),
		zap.String("to", string(target)),
	)

	return updated, nil
}

// Complete records the technician's hours and moves the request to repaired.
func (s *MaintenanceRequestService) Complete(ctx context.Context, id uuid.UUID, payload dto.CompleteRequestDTO) (*entities.MaintenanceRequest, error) {
	if payload.HoursSpent <= 0 {
		return nil, apperrors.ErrHoursRequired
	}

	req, err := s.requestRepo.FindRequest(ctx, id)
	if err != nil {
		return nil, err
	}
	if !req.Status.CanTransitionTo(entities.StatusRepaired) {
		return nil, apperrors.ErrInvalidTransition
	}

	hours := payload.HoursSpent
	updated, err := s.requestRepo.UpdateRequestStatus(ctx, id, entities.StatusRepaired, &hours, utils.DatePtr(time.Now()))
	if err != nil {
		return nil, err
	}

	s.invalidateDashboard(ctx)
	return updated, nil
}

// Reassign changes the assigned technician. The technician must belong to the
// request's snapshotted team when the request has one.
func (s *MaintenanceRequestService) Reassign(ctx context.Context, id uuid.UUID, payload dto.ReassignRequestDTO) (*entities.MaintenanceRequest, error) {
	technicianID, err := uuid.Parse(payload.AssignedTechnicianID)
	if err != nil {
		return nil, apperrors.NewInvalidInputError("assigned_technician_id is not a valid UUID")
	}

	req, err := s.requestRepo.FindRequest(ctx, id)
	if err != nil {
		return nil, err
	}

	technician, err := s.userRepo.FindUser(ctx, technicianID)
	if err != nil {
		return nil, err
	}

	if req.TeamID != nil {
		if technician.TeamID == nil || *technician.TeamID != *req.TeamID {
			return nil, apperrors.ErrTechnicianNotInTeam
		}
	}

	return s.requestRepo.ReassignTechnician(ctx, id, technicianID)
}

// GetCalendar buckets preventive requests by scheduled day. Defaults to the
// current calendar month.
func (s *MaintenanceRequestService) GetCalendar(ctx context.Context, fromStr, toStr string) ([]dto.CalendarBucketDTO, error) {
	now := time.Now()
	from := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	to := from.AddDate(0, 1, -1)

	if fromStr != "" {
		d, err := utils.ParseDate(fromStr)
		if err != nil {
			return nil, apperrors.NewInvalidInputError("from must be a yyyy-mm-dd date")
		}
		from = d
	}
	if toStr != "" {
		d, err := utils.ParseDate(toStr)
		if err != nil {
			return nil, apperrors.NewInvalidInputError("to must be a yyyy-mm-dd date")
		}
		to = d
	}
	if to.Before(from) {
		return nil, apperrors.NewInvalidInputError("to must not be before from")
	}

	requests, err := s.requestRepo.ListPreventiveBetween(ctx, from, to)
	if err != nil {
		return nil, err
	}

	buckets := []dto.CalendarBucketDTO{}
	index := make(map[string]int)
	for _, req := range requests {
		if req.ScheduledDate == nil {
			continue
		}
		day := utils.FormatDate(*req.ScheduledDate)
		i, ok := index[day]
		if !ok {
			i = len(buckets)
			index[day] = i
			buckets = append(buckets, dto.CalendarBucketDTO{Date: day})
		}
		buckets[i].Requests = append(buckets[i].Requests, req)
		buckets[i].Count++
	}

	return buckets, nil
}

func (s *MaintenanceRequestService) invalidateDashboard(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Del(ctx, dashboardCacheKey); err != nil {
		s.logger.Warn("failed to invalidate dashboard cache", zap.Error(err))
	}
}
