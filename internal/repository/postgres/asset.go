package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"asset-ledger-backend/internal/domain"
	"asset-ledger-backend/internal/repository"
)

type assetRepository struct {
	q dbtx
}

const assetColumns = `id, serial_number, equipment_type_id, base_id, purchase_id, quantity, status, condition, version, created_on, updated_on`

func scanAssetLot(row interface{ Scan(...any) error }) (*domain.AssetLot, error) {
	l := &domain.AssetLot{}
	err := row.Scan(&l.ID, &l.SerialNumber, &l.EquipmentTypeID, &l.BaseID, &l.PurchaseID,
		&l.Quantity, &l.Status, &l.Condition, &l.Version, &l.CreatedOn, &l.UpdatedOn)
	if err != nil {
		return nil, err
	}
	return l, nil
}

func (r *assetRepository) Create(ctx context.Context, lot *domain.AssetLot) error {
	query := `INSERT INTO asset_lots (serial_number, equipment_type_id, base_id, purchase_id, quantity, status, condition, version, created_on, updated_on)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, 1, $8, $8) RETURNING id, version`
	now := time.Now()
	lot.CreatedOn, lot.UpdatedOn = now, now
	return r.q.QueryRowContext(ctx, query, lot.SerialNumber, lot.EquipmentTypeID, lot.BaseID,
		lot.PurchaseID, lot.Quantity, lot.Status, lot.Condition, now).Scan(&lot.ID, &lot.Version)
}

func (r *assetRepository) GetByID(ctx context.Context, id int64) (*domain.AssetLot, error) {
	query := `SELECT ` + assetColumns + ` FROM asset_lots WHERE id = $1`
	lot, err := scanAssetLot(r.q.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.InvalidReference("asset lot", id)
	}
	return lot, err
}

// CASUpdate writes the lot only when the caller's version still matches the
// stored row, bumping the version on success. Zero rows affected means either
// a concurrent writer won or the lot is gone; a re-read tells the two apart.
func (r *assetRepository) CASUpdate(ctx context.Context, lot *domain.AssetLot) error {
	query := `UPDATE asset_lots
	          SET quantity = $1, status = $2, condition = $3, base_id = $4, version = version + 1, updated_on = $5
	          WHERE id = $6 AND version = $7`
	lot.UpdatedOn = time.Now()
	res, err := r.q.ExecContext(ctx, query, lot.Quantity, lot.Status, lot.Condition,
		lot.BaseID, lot.UpdatedOn, lot.ID, lot.Version)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		var exists bool
		if err := r.q.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM asset_lots WHERE id = $1)`, lot.ID).Scan(&exists); err != nil {
			return err
		}
		if !exists {
			return domain.InvalidReference("asset lot", lot.ID)
		}
		return domain.Conflict("asset lot", lot.ID)
	}
	lot.Version++
	return nil
}

func (r *assetRepository) FindMatch(ctx context.Context, baseID, equipmentTypeID int64, condition domain.AssetCondition) (*domain.AssetLot, error) {
	query := `SELECT ` + assetColumns + ` FROM asset_lots
	          WHERE base_id = $1 AND equipment_type_id = $2 AND condition = $3 AND status = $4
	          ORDER BY id LIMIT 1`
	lot, err := scanAssetLot(r.q.QueryRowContext(ctx, query, baseID, equipmentTypeID, condition, domain.AssetStatusAvailable))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return lot, err
}

func (r *assetRepository) List(ctx context.Context, filter repository.AssetFilter) ([]domain.AssetLot, error) {
	query := `SELECT ` + assetColumns + ` FROM asset_lots
	          WHERE ($1::bigint IS NULL OR base_id = $1)
	            AND ($2::bigint IS NULL OR equipment_type_id = $2)
	            AND ($3::text = '' OR status = $3)
	          ORDER BY id`
	rows, err := r.q.QueryContext(ctx, query, filter.BaseID, filter.EquipmentTypeID, string(filter.Status))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var lots []domain.AssetLot
	for rows.Next() {
		lot, err := scanAssetLot(rows)
		if err != nil {
			return nil, err
		}
		lots = append(lots, *lot)
	}
	return lots, rows.Err()
}

func (r *assetRepository) BaseSummary(ctx context.Context, baseID int64) ([]domain.BaseSummary, error) {
	query := `
		SELECT l.equipment_type_id,
		       COALESCE(SUM(l.quantity) FILTER (WHERE l.status = 'AVAILABLE'), 0),
		       COALESCE(SUM(l.quantity) FILTER (WHERE l.status = 'ASSIGNED'), 0),
		       COALESCE(SUM(l.quantity) FILTER (WHERE l.status = 'MAINTENANCE'), 0),
		       COALESCE(SUM(l.quantity) FILTER (WHERE l.status = 'EXPENDED'), 0),
		       COALESCE((SELECT SUM(t.quantity) FROM transfers t
		                 WHERE t.dest_base_id = $1 AND t.equipment_type_id = l.equipment_type_id
		                   AND t.status IN ('INITIATED', 'IN_TRANSIT')), 0),
		       COALESCE((SELECT SUM(t.quantity) FROM transfers t
		                 WHERE t.source_base_id = $1 AND t.equipment_type_id = l.equipment_type_id
		                   AND t.status IN ('INITIATED', 'IN_TRANSIT')), 0)
		FROM asset_lots l
		WHERE l.base_id = $1
		GROUP BY l.equipment_type_id
		ORDER BY l.equipment_type_id`
	rows, err := r.q.QueryContext(ctx, query, baseID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.BaseSummary
	for rows.Next() {
		var s domain.BaseSummary
		if err := rows.Scan(&s.EquipmentTypeID, &s.AvailableQty, &s.AssignedQty,
			&s.MaintenanceQty, &s.ExpendedQty, &s.InboundTransit, &s.OutboundTransit); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}
