package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"asset-ledger-backend/internal/domain"
)

func TestTransferRepository_Create(t *testing.T) {
	store, mock := newMockStore(t)
	ctx := context.Background()

	tr := &domain.Transfer{
		SourceBaseID:    1,
		DestBaseID:      2,
		EquipmentTypeID: 3,
		AssetLotID:      4,
		Quantity:        5,
		Condition:       domain.AssetConditionGood,
		Status:          domain.TransferStatusInitiated,
		InitiatedBy:     9,
	}

	mock.ExpectQuery("INSERT INTO transfers").
		WithArgs(tr.SourceBaseID, tr.DestBaseID, tr.EquipmentTypeID, tr.AssetLotID, tr.Quantity,
			tr.Condition, tr.Status, tr.TransportDetails, tr.Notes, tr.InitiatedBy, sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id", "version"}).AddRow(11, 1))

	require.NoError(t, store.Transfers().Create(ctx, tr))
	assert.Equal(t, int64(11), tr.ID)
	assert.Equal(t, int64(1), tr.Version)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTransferRepository_GetByID(t *testing.T) {
	store, mock := newMockStore(t)
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		rows := sqlmock.NewRows([]string{"id", "source_base_id", "dest_base_id", "equipment_type_id",
			"asset_lot_id", "quantity", "condition", "status", "transport_details", "notes",
			"initiated_by", "approved_by", "completed_by", "version", "created_on", "updated_on"}).
			AddRow(11, 1, 2, 3, 4, 5, "GOOD", "IN_TRANSIT", "convoy 7", "", 9, 10, nil, 2, time.Now(), time.Now())

		mock.ExpectQuery("SELECT (.+) FROM transfers WHERE id = \\$1").
			WithArgs(int64(11)).
			WillReturnRows(rows)

		tr, err := store.Transfers().GetByID(ctx, 11)
		require.NoError(t, err)
		assert.Equal(t, domain.TransferStatusInTransit, tr.Status)
		require.NotNil(t, tr.ApprovedBy)
		assert.Equal(t, int64(10), *tr.ApprovedBy)
		assert.Nil(t, tr.CompletedBy)
	})

	t.Run("NotFound", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM transfers WHERE id = \\$1").
			WithArgs(int64(99)).
			WillReturnRows(sqlmock.NewRows([]string{"id"}))

		_, err := store.Transfers().GetByID(ctx, 99)
		assert.True(t, domain.IsCode(err, domain.ErrCodeInvalidReference))
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTransferRepository_CASUpdateConflict(t *testing.T) {
	store, mock := newMockStore(t)
	ctx := context.Background()

	tr := &domain.Transfer{ID: 11, Status: domain.TransferStatusInTransit, Version: 1}

	mock.ExpectExec("UPDATE transfers").
		WithArgs(tr.Status, tr.TransportDetails, tr.Notes, tr.ApprovedBy, tr.CompletedBy,
			sqlmock.AnyArg(), tr.ID, int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("SELECT EXISTS").
		WithArgs(tr.ID).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	err := store.Transfers().CASUpdate(ctx, tr)
	assert.True(t, domain.IsCode(err, domain.ErrCodeConflict))
	assert.NoError(t, mock.ExpectationsWereMet())
}
