package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"gearguard/internal/dto"
	"gearguard/internal/entities"
	apperrors "gearguard/pkg/errors"
	"gearguard/pkg/types"
)

// In-memory repository fakes shared by the service tests.

type fakeEquipmentRepo struct {
	equipment map[uuid.UUID]*entities.Equipment
}

func newFakeEquipmentRepo() *fakeEquipmentRepo {
	return &fakeEquipmentRepo{equipment: make(map[uuid.UUID]*entities.Equipment)}
}

func (f *fakeEquipmentRepo) add(eq *entities.Equipment) *entities.Equipment {
	if eq.ID == uuid.Nil {
		eq.ID = uuid.New()
	}
	f.equipment[eq.ID] = eq
	return eq
}

func (f *fakeEquipmentRepo) GetEquipments(_ context.Context, _ types.Filter) ([]entities.Equipment, uint64, error) {
	var list []entities.Equipment
	for _, eq := range f.equipment {
		list = append(list, *eq)
	}
	return list, uint64(len(list)), nil
}

func (f *fakeEquipmentRepo) FindEquipment(_ context.Context, id uuid.UUID) (*entities.Equipment, error) {
	eq, ok := f.equipment[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	copied := *eq
	return &copied, nil
}

func (f *fakeEquipmentRepo) CreateEquipment(_ context.Context, eq *entities.Equipment) error {
	eq.ID = uuid.New()
	eq.CreatedAt = time.Now()
	eq.UpdatedAt = eq.CreatedAt
	f.equipment[eq.ID] = eq
	return nil
}

func (f *fakeEquipmentRepo) UpdateEquipment(_ context.Context, id uuid.UUID, payload dto.UpdateEquipmentDTO) (*entities.Equipment, error) {
	eq, ok := f.equipment[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	if payload.Name.Valid {
		eq.Name = payload.Name.String
	}
	if payload.Category.Valid {
		eq.Category = payload.Category.String
	}
	copied := *eq
	return &copied, nil
}

type fakeRequestRepo struct {
	requests      map[uuid.UUID]*entities.MaintenanceRequest
	equipmentRepo *fakeEquipmentRepo
	created       int
	// staleFindStatus, when set, is the status FindRequest reports regardless
	// of the stored row, mimicking a write that lands between a caller's read
	// and its update.
	staleFindStatus *entities.RequestStatus
}

func newFakeRequestRepo(equipmentRepo *fakeEquipmentRepo) *fakeRequestRepo {
	return &fakeRequestRepo{
		requests:      make(map[uuid.UUID]*entities.MaintenanceRequest),
		equipmentRepo: equipmentRepo,
	}
}

func (f *fakeRequestRepo) add(req *entities.MaintenanceRequest) *entities.MaintenanceRequest {
	if req.ID == uuid.Nil {
		req.ID = uuid.New()
	}
	f.requests[req.ID] = req
	return req
}

func (f *fakeRequestRepo) GetRequests(_ context.Context, _ types.Filter) ([]entities.MaintenanceRequest, uint64, error) {
	var list []entities.MaintenanceRequest
	for _, req := range f.requests {
		list = append(list, *req)
	}
	return list, uint64(len(list)), nil
}

func (f *fakeRequestRepo) FindRequest(_ context.Context, id uuid.UUID) (*entities.MaintenanceRequest, error) {
	req, ok := f.requests[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	copied := *req
	if f.staleFindStatus != nil {
		copied.Status = *f.staleFindStatus
	}
	return &copied, nil
}

func (f *fakeRequestRepo) CreateRequest(_ context.Context, req *entities.MaintenanceRequest) error {
	req.ID = uuid.New()
	req.CreatedAt = time.Now()
	req.UpdatedAt = req.CreatedAt
	f.requests[req.ID] = req
	f.created++
	return nil
}

func (f *fakeRequestRepo) UpdateRequestStatus(ctx context.Context, id uuid.UUID, status entities.RequestStatus, hoursSpent *float64, completedDate *time.Time) (*entities.MaintenanceRequest, error) {
	req, ok := f.requests[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	req.Status = status
	if hoursSpent != nil {
		req.HoursSpent = hoursSpent
	}
	if completedDate != nil {
		req.CompletedDate = completedDate
	}
	return f.FindRequest(ctx, id)
}

func (f *fakeRequestRepo) TransitionToScrap(ctx context.Context, id uuid.UUID) (*entities.MaintenanceRequest, error) {
	req, ok := f.requests[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	if req.Status.Terminal() {
		return nil, apperrors.ErrInvalidTransition
	}
	if f.equipmentRepo != nil {
		if eq, ok := f.equipmentRepo.equipment[req.EquipmentID]; ok {
			eq.Status = entities.EquipmentStatusScrapped
		}
	}
	req.Status = entities.StatusScrap
	return f.FindRequest(ctx, id)
}

func (f *fakeRequestRepo) ReassignTechnician(ctx context.Context, id uuid.UUID, technicianID uuid.UUID) (*entities.MaintenanceRequest, error) {
	req, ok := f.requests[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	req.AssignedTechnicianID = &technicianID
	return f.FindRequest(ctx, id)
}

func (f *fakeRequestRepo) ListPreventiveBetween(_ context.Context, from, to time.Time) ([]entities.MaintenanceRequest, error) {
	var list []entities.MaintenanceRequest
	for _, req := range f.requests {
		if req.RequestType != entities.TypePreventive || req.ScheduledDate == nil {
			continue
		}
		if req.ScheduledDate.Before(from) || req.ScheduledDate.After(to) {
			continue
		}
		list = append(list, *req)
	}
	return list, nil
}

func (f *fakeRequestRepo) CountOpenByEquipment(_ context.Context, equipmentID uuid.UUID) (int64, error) {
	var count int64
	for _, req := range f.requests {
		if req.EquipmentID == equipmentID && req.Open() {
			count++
		}
	}
	return count, nil
}

type fakeTeamRepo struct {
	teams   map[uuid.UUID]*entities.Team
	members map[uuid.UUID][]entities.User
}

func newFakeTeamRepo() *fakeTeamRepo {
	return &fakeTeamRepo{
		teams:   make(map[uuid.UUID]*entities.Team),
		members: make(map[uuid.UUID][]entities.User),
	}
}

func (f *fakeTeamRepo) add(team *entities.Team) *entities.Team {
	if team.ID == uuid.Nil {
		team.ID = uuid.New()
	}
	f.teams[team.ID] = team
	return team
}

func (f *fakeTeamRepo) GetTeams(_ context.Context) ([]entities.Team, error) {
	var list []entities.Team
	for _, team := range f.teams {
		list = append(list, *team)
	}
	return list, nil
}

func (f *fakeTeamRepo) FindTeam(_ context.Context, id uuid.UUID) (*entities.Team, error) {
	team, ok := f.teams[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	copied := *team
	return &copied, nil
}

func (f *fakeTeamRepo) CreateTeam(_ context.Context, team *entities.Team) error {
	team.ID = uuid.New()
	f.teams[team.ID] = team
	return nil
}

func (f *fakeTeamRepo) GetTeamMembers(_ context.Context, teamID uuid.UUID) ([]entities.User, error) {
	return f.members[teamID], nil
}

type fakeUserRepo struct {
	users map[uuid.UUID]*entities.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[uuid.UUID]*entities.User)}
}

func (f *fakeUserRepo) add(user *entities.User) *entities.User {
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	f.users[user.ID] = user
	return user
}

func (f *fakeUserRepo) GetUsers(_ context.Context) ([]entities.User, error) {
	var list []entities.User
	for _, user := range f.users {
		list = append(list, *user)
	}
	return list, nil
}

func (f *fakeUserRepo) FindUser(_ context.Context, id uuid.UUID) (*entities.User, error) {
	user, ok := f.users[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	copied := *user
	return &copied, nil
}

func (f *fakeUserRepo) CreateUser(_ context.Context, user *entities.User) error {
	user.ID = uuid.New()
	f.users[user.ID] = user
	return nil
}

type fakeCache struct {
	values map[string]string
	dels   int
}

func newFakeCache() *fakeCache {
	return &fakeCache{values: make(map[string]string)}
}

func (f *fakeCache) Set(_ context.Context, key string, value interface{}, _ time.Duration) error {
	switch v := value.(type) {
	case string:
		f.values[key] = v
	case []byte:
		f.values[key] = string(v)
	}
	return nil
}

func (f *fakeCache) Get(_ context.Context, key string) (string, error) {
	return f.values[key], nil
}

func (f *fakeCache) Del(_ context.Context, keys ...string) error {
	for _, key := range keys {
		delete(f.values, key)
	}
	f.dels++
	return nil
}
