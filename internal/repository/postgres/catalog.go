package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"asset-ledger-backend/internal/domain"
)

type baseRepository struct {
	q dbtx
}

func (r *baseRepository) Create(ctx context.Context, b *domain.Base) error {
	query := `INSERT INTO bases (name, location, commander_id, created_on)
	          VALUES ($1, $2, $3, $4) RETURNING id`
	b.CreatedOn = time.Now()
	return r.q.QueryRowContext(ctx, query, b.Name, b.Location, b.CommanderID, b.CreatedOn).Scan(&b.ID)
}

func (r *baseRepository) GetByID(ctx context.Context, id int64) (*domain.Base, error) {
	b := &domain.Base{}
	query := `SELECT id, name, location, commander_id, created_on FROM bases WHERE id = $1`
	err := r.q.QueryRowContext(ctx, query, id).Scan(&b.ID, &b.Name, &b.Location, &b.CommanderID, &b.CreatedOn)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.InvalidReference("base", id)
	}
	if err != nil {
		return nil, err
	}
	return b, nil
}

func (r *baseRepository) List(ctx context.Context) ([]domain.Base, error) {
	query := `SELECT id, name, location, commander_id, created_on FROM bases ORDER BY id`
	rows, err := r.q.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Base
	for rows.Next() {
		var b domain.Base
		if err := rows.Scan(&b.ID, &b.Name, &b.Location, &b.CommanderID, &b.CreatedOn); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

type equipmentTypeRepository struct {
	q dbtx
}

func (r *equipmentTypeRepository) Create(ctx context.Context, t *domain.EquipmentType) error {
	query := `INSERT INTO equipment_types (code, name, category, created_on)
	          VALUES ($1, $2, $3, $4) RETURNING id`
	t.CreatedOn = time.Now()
	return r.q.QueryRowContext(ctx, query, t.Code, t.Name, t.Category, t.CreatedOn).Scan(&t.ID)
}

func (r *equipmentTypeRepository) GetByID(ctx context.Context, id int64) (*domain.EquipmentType, error) {
	t := &domain.EquipmentType{}
	query := `SELECT id, code, name, category, created_on FROM equipment_types WHERE id = $1`
	err := r.q.QueryRowContext(ctx, query, id).Scan(&t.ID, &t.Code, &t.Name, &t.Category, &t.CreatedOn)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.InvalidReference("equipment type", id)
	}
	if err != nil {
		return nil, err
	}
	return t, nil
}

func (r *equipmentTypeRepository) List(ctx context.Context) ([]domain.EquipmentType, error) {
	query := `SELECT id, code, name, category, created_on FROM equipment_types ORDER BY id`
	rows, err := r.q.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.EquipmentType
	for rows.Next() {
		var t domain.EquipmentType
		if err := rows.Scan(&t.ID, &t.Code, &t.Name, &t.Category, &t.CreatedOn); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}
