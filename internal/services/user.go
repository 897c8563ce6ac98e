package services

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"gearguard/internal/dto"
	"gearguard/internal/entities"
	"gearguard/internal/repositories"
)

type UserServiceInterface interface {
	GetUsers(ctx context.Context) ([]entities.User, error)
	FindUser(ctx context.Context, id uuid.UUID) (*entities.User, error)
	CreateUser(ctx context.Context, payload dto.CreateUserDTO) (*entities.User, error)
}

type UserService struct {
	userRepo repositories.UserRepositoryInterface
	logger   *zap.Logger
}

func NewUserService(userRepo repositories.UserRepositoryInterface, logger *zap.Logger) *UserService {
	return &UserService{userRepo: userRepo, logger: logger}
}

func (s *UserService) GetUsers(ctx context.Context) ([]entities.User, error) {
	return s.userRepo.GetUsers(ctx)
}

func (s *UserService) FindUser(ctx context.Context, id uuid.UUID) (*entities.User, error) {
	return s.userRepo.FindUser(ctx, id)
}

func (s *UserService) CreateUser(ctx context.Context, payload dto.CreateUserDTO) (*entities.User, error) {
	teamID, err := parseUUIDPtr(payload.TeamID, "team_id")
	if err != nil {
		return nil, err
	}

	user := &entities.User{
		FullName:  payload.FullName,
		Email:     payload.Email,
		AvatarURL: payload.AvatarURL.Ptr(),
		TeamID:    teamID,
	}
	if err := s.userRepo.CreateUser(ctx, user); err != nil {
		s.logger.Error("failed to create user", zap.Error(err))
		return nil, err
	}
	return user, nil
}
