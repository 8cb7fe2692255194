package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"asset-ledger-backend/internal/domain"
	"asset-ledger-backend/internal/repository"
)

func newMockStore(t *testing.T) (*Store, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewStore(db), mock
}

func assetRows(lot *domain.AssetLot) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "serial_number", "equipment_type_id", "base_id", "purchase_id",
		"quantity", "status", "condition", "version", "created_on", "updated_on"}).
		AddRow(lot.ID, lot.SerialNumber, lot.EquipmentTypeID, lot.BaseID, lot.PurchaseID,
			lot.Quantity, lot.Status, lot.Condition, lot.Version, time.Now(), time.Now())
}

func TestAssetRepository_GetByID(t *testing.T) {
	store, mock := newMockStore(t)
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		want := &domain.AssetLot{
			ID: 1, SerialNumber: "SN-1", EquipmentTypeID: 2, BaseID: 3,
			Quantity: 10, Status: domain.AssetStatusAvailable, Condition: domain.AssetConditionNew, Version: 1,
		}
		mock.ExpectQuery("SELECT (.+) FROM asset_lots WHERE id = \\$1").
			WithArgs(int64(1)).
			WillReturnRows(assetRows(want))

		lot, err := store.Assets().GetByID(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, int64(1), lot.ID)
		assert.Equal(t, int64(10), lot.Quantity)
		assert.Equal(t, domain.AssetStatusAvailable, lot.Status)
	})

	t.Run("NotFound", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM asset_lots WHERE id = \\$1").
			WithArgs(int64(42)).
			WillReturnRows(sqlmock.NewRows([]string{"id"}))

		_, err := store.Assets().GetByID(ctx, 42)
		assert.True(t, domain.IsCode(err, domain.ErrCodeInvalidReference))
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAssetRepository_Create(t *testing.T) {
	store, mock := newMockStore(t)
	ctx := context.Background()

	lot := &domain.AssetLot{
		SerialNumber:    "SN-9",
		EquipmentTypeID: 2,
		BaseID:          3,
		Quantity:        5,
		Status:          domain.AssetStatusAvailable,
		Condition:       domain.AssetConditionNew,
	}

	mock.ExpectQuery("INSERT INTO asset_lots").
		WithArgs(lot.SerialNumber, lot.EquipmentTypeID, lot.BaseID, lot.PurchaseID,
			lot.Quantity, lot.Status, lot.Condition, sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id", "version"}).AddRow(7, 1))

	require.NoError(t, store.Assets().Create(ctx, lot))
	assert.Equal(t, int64(7), lot.ID)
	assert.Equal(t, int64(1), lot.Version)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAssetRepository_CASUpdate(t *testing.T) {
	ctx := context.Background()

	lot := func() *domain.AssetLot {
		return &domain.AssetLot{
			ID: 1, BaseID: 3, Quantity: 4,
			Status: domain.AssetStatusAvailable, Condition: domain.AssetConditionGood, Version: 2,
		}
	}

	t.Run("Success", func(t *testing.T) {
		store, mock := newMockStore(t)
		l := lot()
		mock.ExpectExec("UPDATE asset_lots").
			WithArgs(l.Quantity, l.Status, l.Condition, l.BaseID, sqlmock.AnyArg(), l.ID, int64(2)).
			WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, store.Assets().CASUpdate(ctx, l))
		assert.Equal(t, int64(3), l.Version, "version bumps on success")
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("StaleVersionConflict", func(t *testing.T) {
		store, mock := newMockStore(t)
		l := lot()
		mock.ExpectExec("UPDATE asset_lots").
			WithArgs(l.Quantity, l.Status, l.Condition, l.BaseID, sqlmock.AnyArg(), l.ID, int64(2)).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery("SELECT EXISTS").
			WithArgs(l.ID).
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

		err := store.Assets().CASUpdate(ctx, l)
		assert.True(t, domain.IsCode(err, domain.ErrCodeConflict))
		assert.Equal(t, int64(2), l.Version, "version unchanged on conflict")
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("RowGone", func(t *testing.T) {
		store, mock := newMockStore(t)
		l := lot()
		mock.ExpectExec("UPDATE asset_lots").
			WithArgs(l.Quantity, l.Status, l.Condition, l.BaseID, sqlmock.AnyArg(), l.ID, int64(2)).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery("SELECT EXISTS").
			WithArgs(l.ID).
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))

		err := store.Assets().CASUpdate(ctx, l)
		assert.True(t, domain.IsCode(err, domain.ErrCodeInvalidReference))
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestAssetRepository_FindMatch(t *testing.T) {
	store, mock := newMockStore(t)
	ctx := context.Background()

	t.Run("Match", func(t *testing.T) {
		want := &domain.AssetLot{
			ID: 5, SerialNumber: "SN-5", EquipmentTypeID: 2, BaseID: 3,
			Quantity: 8, Status: domain.AssetStatusAvailable, Condition: domain.AssetConditionNew, Version: 1,
		}
		mock.ExpectQuery("SELECT (.+) FROM asset_lots").
			WithArgs(int64(3), int64(2), domain.AssetConditionNew, domain.AssetStatusAvailable).
			WillReturnRows(assetRows(want))

		lot, err := store.Assets().FindMatch(ctx, 3, 2, domain.AssetConditionNew)
		require.NoError(t, err)
		require.NotNil(t, lot)
		assert.Equal(t, int64(5), lot.ID)
	})

	t.Run("NoMatchIsNil", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM asset_lots").
			WithArgs(int64(3), int64(2), domain.AssetConditionPoor, domain.AssetStatusAvailable).
			WillReturnRows(sqlmock.NewRows([]string{"id"}))

		lot, err := store.Assets().FindMatch(ctx, 3, 2, domain.AssetConditionPoor)
		require.NoError(t, err)
		assert.Nil(t, lot)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAssetRepository_List(t *testing.T) {
	store, mock := newMockStore(t)
	ctx := context.Background()

	baseID := int64(3)
	want := &domain.AssetLot{
		ID: 1, SerialNumber: "SN-1", EquipmentTypeID: 2, BaseID: baseID,
		Quantity: 10, Status: domain.AssetStatusAvailable, Condition: domain.AssetConditionNew, Version: 1,
	}
	mock.ExpectQuery("SELECT (.+) FROM asset_lots").
		WithArgs(&baseID, (*int64)(nil), string(domain.AssetStatusAvailable)).
		WillReturnRows(assetRows(want))

	lots, err := store.Assets().List(ctx, repository.AssetFilter{
		BaseID: &baseID, Status: domain.AssetStatusAvailable,
	})
	require.NoError(t, err)
	require.Len(t, lots, 1)
	assert.Equal(t, baseID, lots[0].BaseID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStoreWithinTransaction(t *testing.T) {
	ctx := context.Background()

	t.Run("CommitOnSuccess", func(t *testing.T) {
		store, mock := newMockStore(t)
		mock.ExpectBegin()
		mock.ExpectExec("UPDATE asset_lots").
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		err := store.WithinTransaction(ctx, func(st repository.Store) error {
			return st.Assets().CASUpdate(ctx, &domain.AssetLot{ID: 1, Version: 1})
		})
		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("RollbackOnError", func(t *testing.T) {
		store, mock := newMockStore(t)
		mock.ExpectBegin()
		mock.ExpectRollback()

		wantErr := domain.Errorf(domain.ErrCodeValidation, "boom")
		err := store.WithinTransaction(ctx, func(repository.Store) error {
			return wantErr
		})
		assert.Equal(t, wantErr, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
