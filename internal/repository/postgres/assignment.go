package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"asset-ledger-backend/internal/domain"
)

type assignmentRepository struct {
	q dbtx
}

const assignmentColumns = `id, asset_lot_id, base_id, assigned_to_id, assigned_on, expected_return_date, purpose, status, return_condition, notes, created_by, version, created_on, updated_on`

func scanAssignment(row interface{ Scan(...any) error }) (*domain.Assignment, error) {
	a := &domain.Assignment{}
	var returnCondition sql.NullString
	err := row.Scan(&a.ID, &a.AssetLotID, &a.BaseID, &a.AssignedToID, &a.AssignedOn,
		&a.ExpectedReturnDate, &a.Purpose, &a.Status, &returnCondition, &a.Notes,
		&a.CreatedBy, &a.Version, &a.CreatedOn, &a.UpdatedOn)
	if err != nil {
		return nil, err
	}
	a.ReturnCondition = domain.AssetCondition(returnCondition.String)
	return a, nil
}

func (r *assignmentRepository) Create(ctx context.Context, a *domain.Assignment) error {
	query := `INSERT INTO assignments (asset_lot_id, base_id, assigned_to_id, assigned_on, expected_return_date, purpose, status, notes, created_by, version, created_on, updated_on)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, 1, $10, $10) RETURNING id, version`
	now := time.Now()
	a.CreatedOn, a.UpdatedOn = now, now
	return r.q.QueryRowContext(ctx, query, a.AssetLotID, a.BaseID, a.AssignedToID, a.AssignedOn,
		a.ExpectedReturnDate, a.Purpose, a.Status, a.Notes, a.CreatedBy, now).
		Scan(&a.ID, &a.Version)
}

func (r *assignmentRepository) GetByID(ctx context.Context, id int64) (*domain.Assignment, error) {
	query := `SELECT ` + assignmentColumns + ` FROM assignments WHERE id = $1`
	a, err := scanAssignment(r.q.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.InvalidReference("assignment", id)
	}
	return a, err
}

func (r *assignmentRepository) CASUpdate(ctx context.Context, a *domain.Assignment) error {
	query := `UPDATE assignments
	          SET status = $1, return_condition = NULLIF($2, ''), notes = $3, version = version + 1, updated_on = $4
	          WHERE id = $5 AND version = $6`
	a.UpdatedOn = time.Now()
	res, err := r.q.ExecContext(ctx, query, a.Status, string(a.ReturnCondition), a.Notes,
		a.UpdatedOn, a.ID, a.Version)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		var exists bool
		if err := r.q.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM assignments WHERE id = $1)`, a.ID).Scan(&exists); err != nil {
			return err
		}
		if !exists {
			return domain.InvalidReference("assignment", a.ID)
		}
		return domain.Conflict("assignment", a.ID)
	}
	a.Version++
	return nil
}

func (r *assignmentRepository) GetActiveByLot(ctx context.Context, lotID int64) (*domain.Assignment, error) {
	query := `SELECT ` + assignmentColumns + ` FROM assignments
	          WHERE asset_lot_id = $1 AND status = $2 ORDER BY id DESC LIMIT 1`
	a, err := scanAssignment(r.q.QueryRowContext(ctx, query, lotID, domain.AssignmentStatusActive))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return a, err
}

func (r *assignmentRepository) ListByBase(ctx context.Context, baseID int64, status domain.AssignmentStatus) ([]domain.Assignment, error) {
	query := `SELECT ` + assignmentColumns + ` FROM assignments
	          WHERE base_id = $1 AND ($2::text = '' OR status = $2) ORDER BY id DESC`
	rows, err := r.q.QueryContext(ctx, query, baseID, string(status))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Assignment
	for rows.Next() {
		a, err := scanAssignment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *a)
	}
	return out, rows.Err()
}

func (r *assignmentRepository) ListOverdue(ctx context.Context, asOf time.Time) ([]domain.Assignment, error) {
	query := `SELECT ` + assignmentColumns + ` FROM assignments
	          WHERE status = $1 AND expected_return_date IS NOT NULL AND expected_return_date < $2
	          ORDER BY expected_return_date`
	rows, err := r.q.QueryContext(ctx, query, domain.AssignmentStatusActive, asOf)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Assignment
	for rows.Next() {
		a, err := scanAssignment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *a)
	}
	return out, rows.Err()
}
