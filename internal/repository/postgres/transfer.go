package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"asset-ledger-backend/internal/domain"
)

type transferRepository struct {
	q dbtx
}

const transferColumns = `id, source_base_id, dest_base_id, equipment_type_id, asset_lot_id, quantity, condition, status, transport_details, notes, initiated_by, approved_by, completed_by, version, created_on, updated_on`

func scanTransfer(row interface{ Scan(...any) error }) (*domain.Transfer, error) {
	t := &domain.Transfer{}
	err := row.Scan(&t.ID, &t.SourceBaseID, &t.DestBaseID, &t.EquipmentTypeID, &t.AssetLotID,
		&t.Quantity, &t.Condition, &t.Status, &t.TransportDetails, &t.Notes,
		&t.InitiatedBy, &t.ApprovedBy, &t.CompletedBy, &t.Version, &t.CreatedOn, &t.UpdatedOn)
	if err != nil {
		return nil, err
	}
	return t, nil
}

func (r *transferRepository) Create(ctx context.Context, t *domain.Transfer) error {
	query := `INSERT INTO transfers (source_base_id, dest_base_id, equipment_type_id, asset_lot_id, quantity, condition, status, transport_details, notes, initiated_by, version, created_on, updated_on)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, 1, $11, $11) RETURNING id, version`
	now := time.Now()
	t.CreatedOn, t.UpdatedOn = now, now
	return r.q.QueryRowContext(ctx, query, t.SourceBaseID, t.DestBaseID, t.EquipmentTypeID,
		t.AssetLotID, t.Quantity, t.Condition, t.Status, t.TransportDetails, t.Notes,
		t.InitiatedBy, now).Scan(&t.ID, &t.Version)
}

func (r *transferRepository) GetByID(ctx context.Context, id int64) (*domain.Transfer, error) {
	query := `SELECT ` + transferColumns + ` FROM transfers WHERE id = $1`
	t, err := scanTransfer(r.q.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.InvalidReference("transfer", id)
	}
	return t, err
}

func (r *transferRepository) CASUpdate(ctx context.Context, t *domain.Transfer) error {
	query := `UPDATE transfers
	          SET status = $1, transport_details = $2, notes = $3, approved_by = $4, completed_by = $5, version = version + 1, updated_on = $6
	          WHERE id = $7 AND version = $8`
	t.UpdatedOn = time.Now()
	res, err := r.q.ExecContext(ctx, query, t.Status, t.TransportDetails, t.Notes,
		t.ApprovedBy, t.CompletedBy, t.UpdatedOn, t.ID, t.Version)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		var exists bool
		if err := r.q.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM transfers WHERE id = $1)`, t.ID).Scan(&exists); err != nil {
			return err
		}
		if !exists {
			return domain.InvalidReference("transfer", t.ID)
		}
		return domain.Conflict("transfer", t.ID)
	}
	t.Version++
	return nil
}

func (r *transferRepository) ListByBase(ctx context.Context, baseID int64, status domain.TransferStatus) ([]domain.Transfer, error) {
	query := `SELECT ` + transferColumns + ` FROM transfers
	          WHERE (source_base_id = $1 OR dest_base_id = $1) AND ($2::text = '' OR status = $2)
	          ORDER BY id DESC`
	rows, err := r.q.QueryContext(ctx, query, baseID, string(status))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Transfer
	for rows.Next() {
		t, err := scanTransfer(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *t)
	}
	return out, rows.Err()
}
