package services

import (
	"context"
	"testing"
	"time"

	"github.com/aarondl/null/v8"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"gearguard/internal/dto"
	"gearguard/internal/entities"
	apperrors "gearguard/pkg/errors"
	"gearguard/pkg/utils"
)

type requestServiceFixture struct {
	service       *MaintenanceRequestService
	equipmentRepo *fakeEquipmentRepo
	requestRepo   *fakeRequestRepo
	userRepo      *fakeUserRepo
	cache         *fakeCache
}

func newRequestServiceFixture() *requestServiceFixture {
	equipmentRepo := newFakeEquipmentRepo()
	requestRepo := newFakeRequestRepo(equipmentRepo)
	userRepo := newFakeUserRepo()
	cache := newFakeCache()

	return &requestServiceFixture{
		service:       NewMaintenanceRequestService(requestRepo, equipmentRepo, userRepo, cache, zap.NewNop()),
		equipmentRepo: equipmentRepo,
		requestRepo:   requestRepo,
		userRepo:      userRepo,
		cache:         cache,
	}
}

func TestCreateRequestSnapshotsEquipmentFields(t *testing.T) {
	fx := newRequestServiceFixture()

	teamID := uuid.New()
	technicianID := uuid.New()
	eq := fx.equipmentRepo.add(&entities.Equipment{
		Name:                "CNC Mill",
		Category:            "CNC",
		TeamID:              &teamID,
		DefaultTechnicianID: &technicianID,
		Status:              entities.EquipmentStatusActive,
	})

	req, err := fx.service.CreateRequest(context.Background(), dto.CreateMaintenanceRequestDTO{
		Subject:     "Leaking Oil",
		EquipmentID: eq.ID.String(),
		RequestType: "corrective",
	})
	require.NoError(t, err)

	assert.Equal(t, "Leaking Oil", req.Subject)
	assert.Equal(t, entities.StatusNew, req.Status)
	assert.Equal(t, entities.PriorityMedium, req.Priority)
	require.NotNil(t, req.Category)
	assert.Equal(t, "CNC", *req.Category)
	require.NotNil(t, req.TeamID)
	assert.Equal(t, teamID, *req.TeamID)
	require.NotNil(t, req.AssignedTechnicianID)
	assert.Equal(t, technicianID, *req.AssignedTechnicianID)
}

func TestCreateRequestTechnicianOverride(t *testing.T) {
	fx := newRequestServiceFixture()

	defaultTech := uuid.New()
	override := uuid.New()
	eq := fx.equipmentRepo.add(&entities.Equipment{
		Name:                "Press",
		DefaultTechnicianID: &defaultTech,
		Status:              entities.EquipmentStatusActive,
	})

	req, err := fx.service.CreateRequest(context.Background(), dto.CreateMaintenanceRequestDTO{
		Subject:              "Noise",
		EquipmentID:          eq.ID.String(),
		RequestType:          "corrective",
		AssignedTechnicianID: null.StringFrom(override.String()),
	})
	require.NoError(t, err)

	require.NotNil(t, req.AssignedTechnicianID)
	assert.Equal(t, override, *req.AssignedTechnicianID)
}

func TestCreateRequestPreventiveRequiresScheduledDate(t *testing.T) {
	fx := newRequestServiceFixture()
	eq := fx.equipmentRepo.add(&entities.Equipment{Name: "Conveyor", Status: entities.EquipmentStatusActive})

	_, err := fx.service.CreateRequest(context.Background(), dto.CreateMaintenanceRequestDTO{
		Subject:     "Monthly check",
		EquipmentID: eq.ID.String(),
		RequestType: "preventive",
	})

	assert.ErrorIs(t, err, apperrors.ErrScheduledDateRequired)
	assert.Zero(t, fx.requestRepo.created)
}

func TestCreateRequestScrapLock(t *testing.T) {
	fx := newRequestServiceFixture()
	eq := fx.equipmentRepo.add(&entities.Equipment{
		Name:   "Old Lathe",
		Status: entities.EquipmentStatusScrapped,
	})

	_, err := fx.service.CreateRequest(context.Background(), dto.CreateMaintenanceRequestDTO{
		Subject:     "Please fix",
		EquipmentID: eq.ID.String(),
		RequestType: "corrective",
	})

	assert.ErrorIs(t, err, apperrors.ErrEquipmentScrapped)
	assert.Zero(t, fx.requestRepo.created)
}

func TestCreateRequestUnknownEquipment(t *testing.T) {
	fx := newRequestServiceFixture()

	_, err := fx.service.CreateRequest(context.Background(), dto.CreateMaintenanceRequestDTO{
		Subject:     "Ghost",
		EquipmentID: uuid.New().String(),
		RequestType: "corrective",
	})

	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestCreateRequestInvalidatesDashboardCache(t *testing.T) {
	fx := newRequestServiceFixture()
	fx.cache.values[dashboardCacheKey] = `{"total":1}`
	eq := fx.equipmentRepo.add(&entities.Equipment{Name: "Pump", Status: entities.EquipmentStatusActive})

	_, err := fx.service.CreateRequest(context.Background(), dto.CreateMaintenanceRequestDTO{
		Subject:     "Vibration",
		EquipmentID: eq.ID.String(),
		RequestType: "corrective",
	})
	require.NoError(t, err)

	assert.NotContains(t, fx.cache.values, dashboardCacheKey)
}

func TestTransitionToRepairedRequiresHours(t *testing.T) {
	fx := newRequestServiceFixture()
	req := fx.requestRepo.add(&entities.MaintenanceRequest{
		Subject: "No hours yet",
		Status:  entities.StatusInProgress,
	})

	_, err := fx.service.Transition(context.Background(), req.ID, dto.UpdateRequestStatusDTO{Status: "repaired"})

	assert.ErrorIs(t, err, apperrors.ErrHoursRequired)
	assert.Equal(t, entities.StatusInProgress, fx.requestRepo.requests[req.ID].Status)
}

func TestTransitionToRepairedWithHoursInPayload(t *testing.T) {
	fx := newRequestServiceFixture()
	req := fx.requestRepo.add(&entities.MaintenanceRequest{
		Subject: "Fixable",
		Status:  entities.StatusInProgress,
	})

	updated, err := fx.service.Transition(context.Background(), req.ID, dto.UpdateRequestStatusDTO{
		Status:     "repaired",
		HoursSpent: null.Float64From(2.5),
	})
	require.NoError(t, err)

	assert.Equal(t, entities.StatusRepaired, updated.Status)
	require.NotNil(t, updated.HoursSpent)
	assert.Equal(t, 2.5, *updated.HoursSpent)
	require.NotNil(t, updated.CompletedDate)
	assert.Equal(t, utils.StartOfDay(time.Now()), *updated.CompletedDate)
}

func TestTransitionToRepairedKeepsRecordedHours(t *testing.T) {
	fx := newRequestServiceFixture()
	recorded := 4.0
	req := fx.requestRepo.add(&entities.MaintenanceRequest{
		Subject:    "Hours already logged",
		Status:     entities.StatusInProgress,
		HoursSpent: &recorded,
	})

	updated, err := fx.service.Transition(context.Background(), req.ID, dto.UpdateRequestStatusDTO{Status: "repaired"})
	require.NoError(t, err)

	require.NotNil(t, updated.HoursSpent)
	assert.Equal(t, 4.0, *updated.HoursSpent)
}

func TestTransitionToScrapScrapsEquipment(t *testing.T) {
	fx := newRequestServiceFixture()
	eq := fx.equipmentRepo.add(&entities.Equipment{Name: "Doomed", Status: entities.EquipmentStatusActive})
	req := fx.requestRepo.add(&entities.MaintenanceRequest{
		Subject:     "Beyond repair",
		EquipmentID: eq.ID,
		Status:      entities.StatusInProgress,
	})

	updated, err := fx.service.Transition(context.Background(), req.ID, dto.UpdateRequestStatusDTO{Status: "scrap"})
	require.NoError(t, err)

	assert.Equal(t, entities.StatusScrap, updated.Status)
	assert.Equal(t, entities.EquipmentStatusScrapped, fx.equipmentRepo.equipment[eq.ID].Status)
}

func TestTransitionToScrapRejectsConcurrentlyCompletedRequest(t *testing.T) {
	fx := newRequestServiceFixture()
	eq := fx.equipmentRepo.add(&entities.Equipment{Name: "Contested", Status: entities.EquipmentStatusActive})
	req := fx.requestRepo.add(&entities.MaintenanceRequest{
		Subject:     "Completed elsewhere",
		EquipmentID: eq.ID,
		Status:      entities.StatusRepaired,
	})

	// The caller's read still sees in_progress; the stored row was completed
	// in between. The guarded write refuses to overwrite the terminal state.
	stale := entities.StatusInProgress
	fx.requestRepo.staleFindStatus = &stale

	_, err := fx.service.Transition(context.Background(), req.ID, dto.UpdateRequestStatusDTO{Status: "scrap"})

	assert.ErrorIs(t, err, apperrors.ErrInvalidTransition)
	assert.Equal(t, entities.StatusRepaired, fx.requestRepo.requests[req.ID].Status)
	assert.Equal(t, entities.EquipmentStatusActive, fx.equipmentRepo.equipment[eq.ID].Status)
}

func TestTransitionOutOfTerminalStatusRejected(t *testing.T) {
	fx := newRequestServiceFixture()

	for _, status := range []entities.RequestStatus{entities.StatusRepaired, entities.StatusScrap} {
		req := fx.requestRepo.add(&entities.MaintenanceRequest{
			Subject: "Done",
			Status:  status,
		})

		_, err := fx.service.Transition(context.Background(), req.ID, dto.UpdateRequestStatusDTO{Status: "in_progress"})
		assert.ErrorIs(t, err, apperrors.ErrInvalidTransition, "from %s", status)
	}
}

func TestTransitionUnknownStatusRejected(t *testing.T) {
	fx := newRequestServiceFixture()
	req := fx.requestRepo.add(&entities.MaintenanceRequest{Subject: "X", Status: entities.StatusNew})

	_, err := fx.service.Transition(context.Background(), req.ID, dto.UpdateRequestStatusDTO{Status: "paused"})

	assert.ErrorIs(t, err, apperrors.ErrInvalidStatus)
}

func TestCompleteOverwritesHours(t *testing.T) {
	fx := newRequestServiceFixture()
	old := 1.0
	req := fx.requestRepo.add(&entities.MaintenanceRequest{
		Subject:    "Redo",
		Status:     entities.StatusInProgress,
		HoursSpent: &old,
	})

	updated, err := fx.service.Complete(context.Background(), req.ID, dto.CompleteRequestDTO{HoursSpent: 3.5})
	require.NoError(t, err)

	assert.Equal(t, entities.StatusRepaired, updated.Status)
	require.NotNil(t, updated.HoursSpent)
	assert.Equal(t, 3.5, *updated.HoursSpent)
}

func TestCompleteRejectsNonPositiveHours(t *testing.T) {
	fx := newRequestServiceFixture()
	req := fx.requestRepo.add(&entities.MaintenanceRequest{Subject: "X", Status: entities.StatusNew})

	_, err := fx.service.Complete(context.Background(), req.ID, dto.CompleteRequestDTO{HoursSpent: 0})

	assert.ErrorIs(t, err, apperrors.ErrHoursRequired)
}

func TestReassignRejectsTechnicianFromAnotherTeam(t *testing.T) {
	fx := newRequestServiceFixture()

	teamID := uuid.New()
	otherTeamID := uuid.New()
	outsider := fx.userRepo.add(&entities.User{FullName: "Outsider", TeamID: &otherTeamID})
	req := fx.requestRepo.add(&entities.MaintenanceRequest{
		Subject: "Team bound",
		Status:  entities.StatusNew,
		TeamID:  &teamID,
	})

	_, err := fx.service.Reassign(context.Background(), req.ID, dto.ReassignRequestDTO{
		AssignedTechnicianID: outsider.ID.String(),
	})

	assert.ErrorIs(t, err, apperrors.ErrTechnicianNotInTeam)
}

func TestReassignWithinTeam(t *testing.T) {
	fx := newRequestServiceFixture()

	teamID := uuid.New()
	tech := fx.userRepo.add(&entities.User{FullName: "Tech", TeamID: &teamID})
	req := fx.requestRepo.add(&entities.MaintenanceRequest{
		Subject: "Team bound",
		Status:  entities.StatusNew,
		TeamID:  &teamID,
	})

	updated, err := fx.service.Reassign(context.Background(), req.ID, dto.ReassignRequestDTO{
		AssignedTechnicianID: tech.ID.String(),
	})
	require.NoError(t, err)

	require.NotNil(t, updated.AssignedTechnicianID)
	assert.Equal(t, tech.ID, *updated.AssignedTechnicianID)
}

func TestReassignWithoutTeamAllowsAnyone(t *testing.T) {
	fx := newRequestServiceFixture()

	someTeam := uuid.New()
	tech := fx.userRepo.add(&entities.User{FullName: "Tech", TeamID: &someTeam})
	req := fx.requestRepo.add(&entities.MaintenanceRequest{
		Subject: "Unassigned team",
		Status:  entities.StatusNew,
	})

	_, err := fx.service.Reassign(context.Background(), req.ID, dto.ReassignRequestDTO{
		AssignedTechnicianID: tech.ID.String(),
	})

	assert.NoError(t, err)
}

func TestGetCalendarBucketsByDay(t *testing.T) {
	fx := newRequestServiceFixture()

	day1, _ := utils.ParseDate("2026-04-10")
	day2, _ := utils.ParseDate("2026-04-12")
	fx.requestRepo.add(&entities.MaintenanceRequest{
		Subject: "A", RequestType: entities.TypePreventive,
		Status: entities.StatusNew, ScheduledDate: &day1,
	})
	fx.requestRepo.add(&entities.MaintenanceRequest{
		Subject: "B", RequestType: entities.TypePreventive,
		Status: entities.StatusNew, ScheduledDate: &day1,
	})
	fx.requestRepo.add(&entities.MaintenanceRequest{
		Subject: "C", RequestType: entities.TypePreventive,
		Status: entities.StatusNew, ScheduledDate: &day2,
	})
	fx.requestRepo.add(&entities.MaintenanceRequest{
		Subject: "corrective is excluded", RequestType: entities.TypeCorrective,
		Status: entities.StatusNew, ScheduledDate: &day1,
	})

	buckets, err := fx.service.GetCalendar(context.Background(), "2026-04-01", "2026-04-30")
	require.NoError(t, err)

	require.Len(t, buckets, 2)
	byDate := map[string]int{}
	for _, b := range buckets {
		byDate[b.Date] = b.Count
		assert.Len(t, b.Requests, b.Count)
	}
	assert.Equal(t, 2, byDate["2026-04-10"])
	assert.Equal(t, 1, byDate["2026-04-12"])
}

func TestGetCalendarRejectsInvertedRange(t *testing.T) {
	fx := newRequestServiceFixture()

	_, err := fx.service.GetCalendar(context.Background(), "2026-04-30", "2026-04-01")

	var invalid *apperrors.InvalidInputError
	assert.ErrorAs(t, err, &invalid)
}
