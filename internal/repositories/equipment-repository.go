package repositories

import (
	"context"
	"errors"

	sq "github.com/Masterminds/squirrel"
	"github.com/aarondl/null/v8"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"gearguard/internal/dto"
	"gearguard/internal/entities"
	apperrors "gearguard/pkg/errors"
	"gearguard/pkg/types"
)

const equipmentTable = "equipment"
const equipmentFields = "e.id, e.name, e.serial_number, e.category, e.department, e.location, e.owner_employee_id, e.team_id, e.default_technician_id, e.status, e.purchase_date, e.warranty_end, e.created_at, e.updated_at"

type EquipmentRepositoryInterface interface {
	GetEquipments(ctx context.Context, filter types.Filter) ([]entities.Equipment, uint64, error)
	FindEquipment(ctx context.Context, id uuid.UUID) (*entities.Equipment, error)
	CreateEquipment(ctx context.Context, eq *entities.Equipment) error
	UpdateEquipment(ctx context.Context, id uuid.UUID, payload dto.UpdateEquipmentDTO) (*entities.Equipment, error)
}

type EquipmentRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewEquipmentRepository(storage *pgxpool.Pool, logger *zap.Logger) EquipmentRepositoryInterface {
	return &EquipmentRepository{storage: storage, logger: logger}
}

// equipmentFilterColumns whitelists ?filter[...] keys the list endpoint
// accepts.
var equipmentFilterColumns = map[string]string{
	"department":        "e.department",
	"owner_employee_id": "e.owner_employee_id",
	"team_id":           "e.team_id",
	"status":            "e.status",
	"category":          "e.category",
}

func (r *EquipmentRepository) GetEquipments(ctx context.Context, filter types.Filter) ([]entities.Equipment, uint64, error) {
	base := sq.Select(equipmentFields).
		From(equipmentTable + " e").
		OrderBy("e.name ASC").
		PlaceholderFormat(sq.Dollar)

	countQ := sq.Select("COUNT(*)").From(equipmentTable + " e").PlaceholderFormat(sq.Dollar)

	for key, val := range filter.Filter {
		col, ok := equipmentFilterColumns[key]
		if !ok {
			continue
		}
		base = base.Where(sq.Eq{col: val})
		countQ = countQ.Where(sq.Eq{col: val})
	}

	if filter.Search != "" {
		like := sq.ILike{"e.name": filter.Search + "%"}
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

	var list []entities.Equipment
	for rows.Next() {
		var e entities.Equipment
		if err := scanEquipment(rows, &e); err != nil {
			return nil, 0, err
		}
		list = append(list, e)
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

func (r *EquipmentRepository) FindEquipment(ctx context.Context, id uuid.UUID) (*entities.Equipment, error) {
	query := `
		SELECT ` + equipmentFields + `
		FROM ` + equipmentTable + ` e
		WHERE e.id = $1
	`

	var e entities.Equipment
	row := r.storage.QueryRow(ctx, query, id)
	if err := scanEquipment(row, &e); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}

	return &e, nil
}

func (r *EquipmentRepository) CreateEquipment(ctx context.Context, eq *entities.Equipment) error {
	query := `
		INSERT INTO ` + equipmentTable + ` (name, serial_number, category, department, location, owner_employee_id, team_id, default_technician_id, status, purchase_date, warranty_end)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id, created_at, updated_at
	`

	return r.storage.QueryRow(ctx, query,
		eq.Name,
		eq.SerialNumber,
		eq.Category,
		eq.Department,
		eq.Location,
		eq.OwnerEmployeeID,
		eq.TeamID,
		eq.DefaultTechnicianID,
		eq.Status,
		eq.PurchaseDate,
		eq.WarrantyEnd,
	).Scan(&eq.ID, &eq.CreatedAt, &eq.UpdatedAt)
}

// buildEquipmentPatch assembles the partial UPDATE. Text columns take the
// value as-is; reference and date columns clear to NULL on an empty string so
// "" never reaches Postgres as an uncastable uuid/date literal.
func buildEquipmentPatch(id uuid.UUID, payload dto.UpdateEquipmentDTO) (string, []interface{}, bool, error) {
	update := sq.Update(equipmentTable).
		Set("updated_at", sq.Expr("NOW()")).
		Where(sq.Eq{"id": id}).
		PlaceholderFormat(sq.Dollar)

	changed := false
	setText := func(col string, v null.String) {
		if v.Valid {
			update = update.Set(col, v.String)
			changed = true
		}
	}
	setNullable := func(col string, v null.String) {
		if !v.Valid {
			return
		}
		if v.String == "" {
			update = update.Set(col, nil)
		} else {
			update = update.Set(col, v.String)
		}
		changed = true
	}

	setText("name", payload.Name)
	setText("serial_number", payload.SerialNumber)
	setText("category", payload.Category)
	setNullable("department", payload.Department)
	setNullable("location", payload.Location)
	setNullable("owner_employee_id", payload.OwnerEmployeeID)
	setNullable("team_id", payload.TeamID)
	setNullable("default_technician_id", payload.DefaultTechnicianID)
	setNullable("purchase_date", payload.PurchaseDate)
	setNullable("warranty_end", payload.WarrantyEnd)

	if !changed {
		return "", nil, false, nil
	}

	query, args, err := update.ToSql()
	return query, args, true, err
}

// UpdateEquipment applies a partial patch. Status is intentionally not
// settable here.
func (r *EquipmentRepository) UpdateEquipment(ctx context.Context, id uuid.UUID, payload dto.UpdateEquipmentDTO) (*entities.Equipment, error) {
	query, args, changed, err := buildEquipmentPatch(id, payload)
	if err != nil {
		return nil, err
	}
	if !changed {
		return r.FindEquipment(ctx, id)
	}

	result, err := r.storage.Exec(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	if result.RowsAffected() == 0 {
		return nil, apperrors.ErrNotFound
	}

	return r.FindEquipment(ctx, id)
}

func scanEquipment(row pgx.Row, e *entities.Equipment) error {
	return row.Scan(
		&e.ID,
		&e.Name,
		&e.SerialNumber,
		&e.Category,
		&e.Department,
		&e.Location,
		&e.OwnerEmployeeID,
		&e.TeamID,
		&e.DefaultTechnicianID,
		&e.Status,
		&e.PurchaseDate,
		&e.WarrantyEnd,
		&e.CreatedAt,
		&e.UpdatedAt,
	)
}
