package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"asset-ledger-backend/internal/domain"
)

type expenditureRepository struct {
	q dbtx
}

const expenditureColumns = `id, asset_lot_id, base_id, quantity, reason, status, operation_name, notes, cancel_reason, created_by, approved_by, completed_by, version, created_on, updated_on`

func scanExpenditure(row interface{ Scan(...any) error }) (*domain.Expenditure, error) {
	e := &domain.Expenditure{}
	err := row.Scan(&e.ID, &e.AssetLotID, &e.BaseID, &e.Quantity, &e.Reason, &e.Status,
		&e.OperationName, &e.Notes, &e.CancelReason, &e.CreatedBy, &e.ApprovedBy,
		&e.CompletedBy, &e.Version, &e.CreatedOn, &e.UpdatedOn)
	if err != nil {
		return nil, err
	}
	return e, nil
}

func (r *expenditureRepository) Create(ctx context.Context, e *domain.Expenditure) error {
	query := `INSERT INTO expenditures (asset_lot_id, base_id, quantity, reason, status, operation_name, notes, cancel_reason, created_by, version, created_on, updated_on)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, '', $8, 1, $9, $9) RETURNING id, version`
	now := time.Now()
	e.CreatedOn, e.UpdatedOn = now, now
	return r.q.QueryRowContext(ctx, query, e.AssetLotID, e.BaseID, e.Quantity, e.Reason,
		e.Status, e.OperationName, e.Notes, e.CreatedBy, now).Scan(&e.ID, &e.Version)
}

func (r *expenditureRepository) GetByID(ctx context.Context, id int64) (*domain.Expenditure, error) {
	query := `SELECT ` + expenditureColumns + ` FROM expenditures WHERE id = $1`
	e, err := scanExpenditure(r.q.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.InvalidReference("expenditure", id)
	}
	return e, err
}

func (r *expenditureRepository) CASUpdate(ctx context.Context, e *domain.Expenditure) error {
	query := `UPDATE expenditures
	          SET status = $1, notes = $2, cancel_reason = $3, approved_by = $4, completed_by = $5, version = version + 1, updated_on = $6
	          WHERE id = $7 AND version = $8`
	e.UpdatedOn = time.Now()
	res, err := r.q.ExecContext(ctx, query, e.Status, e.Notes, e.CancelReason,
		e.ApprovedBy, e.CompletedBy, e.UpdatedOn, e.ID, e.Version)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		var exists bool
		if err := r.q.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM expenditures WHERE id = $1)`, e.ID).Scan(&exists); err != nil {
			return err
		}
		if !exists {
			return domain.InvalidReference("expenditure", e.ID)
		}
		return domain.Conflict("expenditure", e.ID)
	}
	e.Version++
	return nil
}

func (r *expenditureRepository) ListByBase(ctx context.Context, baseID int64, status domain.ExpenditureStatus) ([]domain.Expenditure, error) {
	query := `SELECT ` + expenditureColumns + ` FROM expenditures
	          WHERE base_id = $1 AND ($2::text = '' OR status = $2) ORDER BY id DESC`
	rows, err := r.q.QueryContext(ctx, query, baseID, string(status))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Expenditure
	for rows.Next() {
		e, err := scanExpenditure(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *e)
	}
	return out, rows.Err()
}
