package repositories

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"gearguard/internal/entities"
	apperrors "gearguard/pkg/errors"
)

type TeamRepositoryInterface interface {
	GetTeams(ctx context.Context) ([]entities.Team, error)
	FindTeam(ctx context.Context, id uuid.UUID) (*entities.Team, error)
	CreateTeam(ctx context.Context, team *entities.Team) error
	GetTeamMembers(ctx context.Context, teamID uuid.UUID) ([]entities.User, error)
}

type TeamRepository struct {
	storage *pgxpool.Pool
}

func NewTeamRepository(storage *pgxpool.Pool) TeamRepositoryInterface {
	return &TeamRepository{storage: storage}
}

func (r *TeamRepository) GetTeams(ctx context.Context) ([]entities.Team, error) {
	rows, err := r.storage.Query(ctx, `
		SELECT id, name, specialty, created_at
		FROM teams
		ORDER BY name ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []entities.Team
	for rows.Next() {
		var t entities.Team
		if err := rows.Scan(&t.ID, &t.Name, &t.Specialty, &t.CreatedAt); err != nil {
			return nil, err
		}
		list = append(list, t)
	}
	return list, rows.Err()
}

func (r *TeamRepository) FindTeam(ctx context.Context, id uuid.UUID) (*entities.Team, error) {
	var t entities.Team
	err := r.storage.QueryRow(ctx, `
		SELECT id, name, specialty, created_at
		FROM teams
		WHERE id = $1
	`, id).Scan(&t.ID, &t.Name, &t.Specialty, &t.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &t, nil
}

func (r *TeamRepository) CreateTeam(ctx context.Context, team *entities.Team) error {
	return r.storage.QueryRow(ctx, `
		INSERT INTO teams (name, specialty)
		VALUES ($1, $2)
		RETURNING id, created_at
	`, team.Name, team.Specialty).Scan(&team.ID, &team.CreatedAt)
}

func (r *TeamRepository) GetTeamMembers(ctx context.Context, teamID uuid.UUID) ([]entities.User, error) {
	rows, err := r.storage.Query(ctx, `
		SELECT id, full_name, email, avatar_url, team_id, created_at
		FROM users
		WHERE team_id = $1
		ORDER BY full_name ASC
	`, teamID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []entities.User
	for rows.Next() {
		var u entities.User
		if err := rows.Scan(&u.ID, &u.FullName, &u.Email, &u.AvatarURL, &u.TeamID, &u.CreatedAt); err != nil {
			return nil, err
		}
		list = append(list, u)
	}
	return list, rows.Err()
}
