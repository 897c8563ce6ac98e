package services

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"gearguard/internal/dto"
	"gearguard/internal/entities"
	"gearguard/internal/repositories"
)

type TeamServiceInterface interface {
	GetTeams(ctx context.Context) ([]entities.Team, error)
	FindTeam(ctx context.Context, id uuid.UUID) (*entities.Team, error)
	CreateTeam(ctx context.Context, payload dto.CreateTeamDTO) (*entities.Team, error)
	GetTeamMembers(ctx context.Context, id uuid.UUID) ([]entities.User, error)
}

type TeamService struct {
	teamRepo repositories.TeamRepositoryInterface
	logger   *zap.Logger
}

func NewTeamService(teamRepo repositories.TeamRepositoryInterface, logger *zap.Logger) *TeamService {
	return &TeamService{teamRepo: teamRepo, logger: logger}
}

func (s *TeamService) GetTeams(ctx context.Context) ([]entities.Team, error) {
	return s.teamRepo.GetTeams(ctx)
}

func (s *TeamService) FindTeam(ctx context.Context, id uuid.UUID) (*entities.Team, error) {
	return s.teamRepo.FindTeam(ctx, id)
}

func (s *TeamService) CreateTeam(ctx context.Context, payload dto.CreateTeamDTO) (*entities.Team, error) {
	team := &entities.Team{
		Name:      payload.Name,
		Specialty: payload.Specialty.Ptr(),
	}
	if err := s.teamRepo.CreateTeam(ctx, team); err != nil {
		s.logger.Error("failed to create team", zap.Error(err))
		return nil, err
	}
	return team, nil
}

// GetTeamMembers checks the team exists so an unknown id is a 404, not an
// empty list.
func (s *TeamService) GetTeamMembers(ctx context.Context, id uuid.UUID) ([]entities.User, error) {
	if _, err := s.teamRepo.FindTeam(ctx, id); err != nil {
		return nil, err
	}
	return s.teamRepo.GetTeamMembers(ctx, id)
}
