package repositories

import (
	"context"
	"errors"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"gearguard/internal/entities"
	apperrors "gearguard/pkg/errors"
	"gearguard/pkg/types"
)

const requestTable = "maintenance_requests"
const requestFields = `r.id, r.subject, r.description, r.equipment_id, r.category, r.team_id, r.assigned_technician_id,
	r.request_type, r.priority, r.status, r.scheduled_date, r.hours_spent, r.completed_date, r.created_at, r.updated_at,
	e.name AS equipment_name, t.name AS team_name, u.full_name AS technician_name`
const requestJoins = `
	FROM maintenance_requests r
	LEFT JOIN equipment e ON r.equipment_id = e.id
	LEFT JOIN teams t ON r.team_id = t.id
	LEFT JOIN users u ON r.assigned_technician_id = u.id`

type MaintenanceRequestRepositoryInterface interface {
	GetRequests(ctx context.Context, filter types.Filter) ([]entities.MaintenanceRequest, uint64, error)
	FindRequest(ctx context.Context, id uuid.UUID) (*entities.MaintenanceRequest, error)
	CreateRequest(ctx context.Context, req *entities.MaintenanceRequest) error
	UpdateRequestStatus(ctx context.Context, id uuid.UUID, status entities.RequestStatus, hoursSpent *float64, completedDate *time.Time) (*entities.MaintenanceRequest, error)
	TransitionToScrap(ctx context.Context, id uuid.UUID) (*entities.MaintenanceRequest, error)
	ReassignTechnician(ctx context.Context, id uuid.UUID, technicianID uuid.UUID) (*entities.MaintenanceRequest, error)
	ListPreventiveBetween(ctx context.Context, from, to time.Time) ([]entities.MaintenanceRequest, error)
	CountOpenByEquipment(ctx context.Context, equipmentID uuid.UUID) (int64, error)
}

type MaintenanceRequestRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewMaintenanceRequestRepository(storage *pgxpool.Pool, logger *zap.Logger) MaintenanceRequestRepositoryInterface {
	return &MaintenanceRequestRepository{storage: storage, logger: logger}
}

var requestFilterColumns = map[string]string{
	"equipment_id": "r.equipment_id",
	"request_type": "r.request_type",
	"status":       "r.status",
	"team_id":      "r.team_id",
	"priority":     "r.priority",
}

func (r *MaintenanceRequestRepository) GetRequests(ctx context.Context, filter types.Filter) ([]entities.MaintenanceRequest, uint64, error) {
	base := sq.Select(requestFields).
		From(requestTable + " r").
		LeftJoin("equipment e ON r.equipment_id = e.id").
		LeftJoin("teams t ON r.team_id = t.id").
		LeftJoin("users u ON r.assigned_technician_id = u.id").
		OrderBy("r.created_at DESC").
		PlaceholderFormat(sq.Dollar)

	countQ := sq.Select("COUNT(*)").From(requestTable + " r").PlaceholderFormat(sq.Dollar)

	for key, val := range filter.Filter {
		col, ok := requestFilterColumns[key]
		if !ok {
			continue
		}
		base = base.Where(sq.Eq{col: val})
		countQ = countQ.Where(sq.Eq{col: val})
	}

	if filter.Search != "" {
		like := sq.ILike{"r.subject": "%" + filter.Search + "%"}
		base = base.Where(like)
		countQ = countQ.Where(like)
	}

	if filter.Limit > 0 {
		base = base.Limit(uint64(filter.Limit)).Offset(uint64(filter.Offset))
	}

	query, args, err := base.ToSql()
	if err != nil {
		return nil, 0, err
	}

	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var list []entities.MaintenanceRequest
	for rows.Next() {
		var req entities.MaintenanceRequest
		if err := scanRequest(rows, &req); err != nil {
			return nil, 0, err
		}
		list = append(list, req)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	countSQL, countArgs, err := countQ.ToSql()
	if err != nil {
		return nil, 0, err
	}
	var total uint64
	if err := r.storage.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, 0, err
	}

	return list, total, nil
}

func (r *MaintenanceRequestRepository) FindRequest(ctx context.Context, id uuid.UUID) (*entities.MaintenanceRequest, error) {
	query := `SELECT ` + requestFields + requestJoins + ` WHERE r.id = $1`

	var req entities.MaintenanceRequest
	row := r.storage.QueryRow(ctx, query, id)
	if err := scanRequest(row, &req); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}

	return &req, nil
}

func (r *MaintenanceRequestRepository) CreateRequest(ctx context.Context, req *entities.MaintenanceRequest) error {
	query := `
		INSERT INTO ` + requestTable + ` (subject, description, equipment_id, category, team_id, assigned_technician_id, request_type, priority, status, scheduled_date, hours_spent)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id, created_at, updated_at
	`

	return r.storage.QueryRow(ctx, query,
		req.Subject,
		req.Description,
		req.EquipmentID,
		req.Category,
		req.TeamID,
		req.AssignedTechnicianID,
		req.RequestType,
		req.Priority,
		req.Status,
		req.ScheduledDate,
		req.HoursSpent,
	).Scan(&req.ID, &req.CreatedAt, &req.UpdatedAt)
}

func (r *MaintenanceRequestRepository) UpdateRequestStatus(ctx context.Context, id uuid.UUID, status entities.RequestStatus, hoursSpent *float64, completedDate *time.Time) (*entities.MaintenanceRequest, error) {
	update := sq.Update(requestTable).
		Set("status", status).
		Set("updated_at", sq.Expr("NOW()")).
		Where(sq.Eq{"id": id}).
		PlaceholderFormat(sq.Dollar)

	if hoursSpent != nil {
		update = update.Set("hours_spent", *hoursSpent)
	}
	if completedDate != nil {
		update = update.Set("completed_date", *completedDate)
	}

	query, args, err := update.ToSql()
	if err != nil {
		return nil, err
	}

	result, err := r.storage.Exec(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	if result.RowsAffected() == 0 {
		return nil, apperrors.ErrNotFound
	}

	return r.FindRequest(ctx, id)
}

// TransitionToScrap performs the scrap side effect and the status change in one
// transaction, equipment first. A failure on either write leaves both rows
// untouched.
func (r *MaintenanceRequestRepository) TransitionToScrap(ctx context.Context, id uuid.UUID) (*entities.MaintenanceRequest, error) {
	err := WithTx(ctx, r.storage, func(tx pgx.Tx) error {
		var equipmentID uuid.UUID
		var status entities.RequestStatus
		err := tx.QueryRow(ctx, `
			SELECT equipment_id, status FROM `+requestTable+` WHERE id = $1 FOR UPDATE
		`, id).Scan(&equipmentID, &status)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return apperrors.ErrNotFound
			}
			return err
		}
		// Re-checked under the row lock: a concurrent completion between the
		// caller's read and this transaction must not be overwritten.
		if status.Terminal() {
			return apperrors.ErrInvalidTransition
		}

		if _, err := tx.Exec(ctx, `
			UPDATE equipment SET status = $1, updated_at = NOW() WHERE id = $2
		`, entities.EquipmentStatusScrapped, equipmentID); err != nil {
			return err
		}

		if _, err := tx.Exec(ctx, `
			UPDATE `+requestTable+` SET status = $1, updated_at = NOW() WHERE id = $2
		`, entities.StatusScrap, id); err != nil {
			return err
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return r.FindRequest(ctx, id)
}

func (r *MaintenanceRequestRepository) ReassignTechnician(ctx context.Context, id uuid.UUID, technicianID uuid.UUID) (*entities.MaintenanceRequest, error) {
	result, err := r.storage.Exec(ctx, `
		UPDATE `+requestTable+` SET assigned_technician_id = $1, updated_at = NOW() WHERE id = $2
	`, technicianID, id)
	if err != nil {
		return nil, err
	}
	if result.RowsAffected() == 0 {
		return nil, apperrors.ErrNotFound
	}

	return r.FindRequest(ctx, id)
}

func (r *MaintenanceRequestRepository) ListPreventiveBetween(ctx context.Context, from, to time.Time) ([]entities.MaintenanceRequest, error) {
	query := `SELECT ` + requestFields + requestJoins + `
		WHERE r.request_type = $1 AND r.scheduled_date >= $2 AND r.scheduled_date <= $3
		ORDER BY r.scheduled_date ASC, r.created_at DESC`

	rows, err := r.storage.Query(ctx, query, entities.TypePreventive, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []entities.MaintenanceRequest
	for rows.Next() {
		var req entities.MaintenanceRequest
		if err := scanRequest(rows, &req); err != nil {
			return nil, err
		}
		list = append(list, req)
	}
	return list, rows.Err()
}

func (r *MaintenanceRequestRepository) CountOpenByEquipment(ctx context.Context, equipmentID uuid.UUID) (int64, error) {
	var count int64
	err := r.storage.QueryRow(ctx, `
		SELECT COUNT(*) FROM `+requestTable+`
		WHERE equipment_id = $1 AND status IN ($2, $3)
	`, equipmentID, entities.StatusNew, entities.StatusInProgress).Scan(&count)
	return count, err
}

func scanRequest(row pgx.Row, req *entities.MaintenanceRequest) error {
	return row.Scan(
		&req.ID,
		&req.Subject,
		&req.Description,
		&req.EquipmentID,
		&req.Category,
		&req.TeamID,
		&req.AssignedTechnicianID,
		&req.RequestType,
		&req.Priority,
		&req.Status,
		&req.ScheduledDate,
		&req.HoursSpent,
		&req.CompletedDate,
		&req.CreatedAt,
		&req.UpdatedAt,
		&req.EquipmentName,
		&req.TeamName,
		&req.TechnicianName,
	)
}
