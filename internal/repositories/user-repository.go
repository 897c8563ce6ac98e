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

type UserRepositoryInterface interface {
	GetUsers(ctx context.Context) ([]entities.User, error)
	FindUser(ctx context.Context, id uuid.UUID) (*entities.User, error)
	CreateUser(ctx context.Context, user *entities.User) error
}

type UserRepository struct {
	storage *pgxpool.Pool
}

func NewUserRepository(storage *pgxpool.Pool) UserRepositoryInterface {
	return &UserRepository{storage: storage}
}

func (r *UserRepository) GetUsers(ctx context.Context) ([]entities.User, error) {
	rows, err := r.storage.Query(ctx, `
		SELECT id, full_name, email, avatar_url, team_id, created_at
		FROM users
		ORDER BY full_name ASC
	`)
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

func (r *UserRepository) FindUser(ctx context.Context, id uuid.UUID) (*entities.User, error) {
	var u entities.User
	err := r.storage.QueryRow(ctx, `
		SELECT id, full_name, email, avatar_url, team_id, created_at
		FROM users
		WHERE id = $1
	`, id).Scan(&u.ID, &u.FullName, &u.Email, &u.AvatarURL, &u.TeamID, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

func (r *UserRepository) CreateUser(ctx context.Context, user *entities.User) error {
	return r.storage.QueryRow(ctx, `
		INSERT INTO users (full_name, email, avatar_url, team_id)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`, user.FullName, user.Email, user.AvatarURL, user.TeamID).Scan(&user.ID, &user.CreatedAt)
}
