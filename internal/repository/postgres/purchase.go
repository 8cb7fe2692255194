package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"asset-ledger-backend/internal/domain"
)

type purchaseRepository struct {
	q dbtx
}

const purchaseColumns = `id, equipment_type_id, base_id, quantity, unit_price, total_amount, order_date, delivery_date, status, supplier, notes, created_by, version, created_on, updated_on`

func scanPurchase(row interface{ Scan(...any) error }) (*domain.Purchase, error) {
	p := &domain.Purchase{}
	err := row.Scan(&p.ID, &p.EquipmentTypeID, &p.BaseID, &p.Quantity, &p.UnitPrice, &p.TotalAmount,
		&p.OrderDate, &p.DeliveryDate, &p.Status, &p.Supplier, &p.Notes, &p.CreatedBy,
		&p.Version, &p.CreatedOn, &p.UpdatedOn)
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (r *purchaseRepository) Create(ctx context.Context, p *domain.Purchase) error {
	query := `INSERT INTO purchases (equipment_type_id, base_id, quantity, unit_price, total_amount, order_date, delivery_date, status, supplier, notes, created_by, version, created_on, updated_on)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, 1, $12, $12) RETURNING id, version`
	now := time.Now()
	p.CreatedOn, p.UpdatedOn = now, now
	return r.q.QueryRowContext(ctx, query, p.EquipmentTypeID, p.BaseID, p.Quantity, p.UnitPrice,
		p.TotalAmount, p.OrderDate, p.DeliveryDate, p.Status, p.Supplier, p.Notes, p.CreatedBy, now).
		Scan(&p.ID, &p.Version)
}

func (r *purchaseRepository) GetByID(ctx context.Context, id int64) (*domain.Purchase, error) {
	query := `SELECT ` + purchaseColumns + ` FROM purchases WHERE id = $1`
	p, err := scanPurchase(r.q.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.InvalidReference("purchase", id)
	}
	return p, err
}

func (r *purchaseRepository) CASUpdate(ctx context.Context, p *domain.Purchase) error {
	query := `UPDATE purchases
	          SET quantity = $1, unit_price = $2, total_amount = $3, delivery_date = $4, status = $5, notes = $6, version = version + 1, updated_on = $7
	          WHERE id = $8 AND version = $9`
	p.UpdatedOn = time.Now()
	res, err := r.q.ExecContext(ctx, query, p.Quantity, p.UnitPrice, p.TotalAmount,
		p.DeliveryDate, p.Status, p.Notes, p.UpdatedOn, p.ID, p.Version)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		var exists bool
		if err := r.q.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM purchases WHERE id = $1)`, p.ID).Scan(&exists); err != nil {
			return err
		}
		if !exists {
			return domain.InvalidReference("purchase", p.ID)
		}
		return domain.Conflict("purchase", p.ID)
	}
	p.Version++
	return nil
}

func (r *purchaseRepository) ListByBase(ctx context.Context, baseID int64, status domain.PurchaseStatus) ([]domain.Purchase, error) {
	query := `SELECT ` + purchaseColumns + ` FROM purchases
	          WHERE base_id = $1 AND ($2::text = '' OR status = $2) ORDER BY id DESC`
	rows, err := r.q.QueryContext(ctx, query, baseID, string(status))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Purchase
	for rows.Next() {
		p, err := scanPurchase(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	return out, rows.Err()
}
