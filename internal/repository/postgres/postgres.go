package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"asset-ledger-backend/internal/repository"

	_ "github.com/lib/pq"
)

// dbtx is the subset of database/sql shared by *sql.DB and *sql.Tx, so every
// repository works both standalone and inside a transaction.
type dbtx interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Store implements repository.Store on PostgreSQL.
type Store struct {
	db *sql.DB // nil inside a transaction
	q  dbtx
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db, q: db}
}

func (s *Store) Assets() repository.AssetRepository             { return &assetRepository{q: s.q} }
func (s *Store) Purchases() repository.PurchaseRepository       { return &purchaseRepository{q: s.q} }
func (s *Store) Transfers() repository.TransferRepository       { return &transferRepository{q: s.q} }
func (s *Store) Assignments() repository.AssignmentRepository   { return &assignmentRepository{q: s.q} }
func (s *Store) Expenditures() repository.ExpenditureRepository { return &expenditureRepository{q: s.q} }
func (s *Store) Bases() repository.BaseRepository               { return &baseRepository{q: s.q} }
func (s *Store) EquipmentTypes() repository.EquipmentTypeRepository {
	return &equipmentTypeRepository{q: s.q}
}
func (s *Store) Notifications() repository.NotificationRepository {
	return &notificationRepository{q: s.q}
}

// WithinTransaction runs fn against a Store bound to a single database
// transaction. The transaction commits only when fn returns nil; a panic or
// error rolls it back, so workflow mutations are applied all-or-nothing.
// Called on a Store that is already transactional, it reuses the open
// transaction.
func (s *Store) WithinTransaction(ctx context.Context, fn func(repository.Store) error) (err error) {
	if s.db == nil {
		return fn(s)
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
		if err != nil {
			_ = tx.Rollback()
			return
		}
		if cerr := tx.Commit(); cerr != nil {
			err = fmt.Errorf("commit transaction: %w", cerr)
		}
	}()
	err = fn(&Store{q: tx})
	return err
}

var _ repository.Store = (*Store)(nil)
