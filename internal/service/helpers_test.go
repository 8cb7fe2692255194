package service

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"asset-ledger-backend/internal/authz"
	"asset-ledger-backend/internal/domain"
	"asset-ledger-backend/internal/repository"
	"asset-ledger-backend/internal/repository/memory"
)

// testEnv wires the full service stack against the in-memory store with two
// bases and one equipment type, plus one actor per role.
type testEnv struct {
	store        repository.Store
	purchases    PurchaseService
	transfers    TransferService
	assignments  AssignmentService
	expenditures ExpenditureService
	assets       AssetService
	catalog      CatalogService

	base1, base2 int64
	radioType    int64

	admin      *domain.Actor
	logistics  *domain.Actor
	commander1 *domain.Actor
	commander2 *domain.Actor
	user       *domain.Actor
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	ctx := context.Background()
	store := memory.NewStore()
	gate := authz.NewGate()

	env := &testEnv{
		store:        store,
		purchases:    NewPurchaseService(store, gate),
		transfers:    NewTransferService(store, gate, nil),
		assignments:  NewAssignmentService(store, gate),
		expenditures: NewExpenditureService(store, gate),
		assets:       NewAssetService(store, gate),
		catalog:      NewCatalogService(store, gate),
	}

	commander1ID, commander2ID := int64(101), int64(102)
	base1 := &domain.Base{Name: "Fort Alpha", Location: "North", CommanderID: &commander1ID}
	require.NoError(t, store.Bases().Create(ctx, base1))
	base2 := &domain.Base{Name: "Fort Bravo", Location: "South", CommanderID: &commander2ID}
	require.NoError(t, store.Bases().Create(ctx, base2))
	env.base1, env.base2 = base1.ID, base2.ID

	radio := &domain.EquipmentType{Code: "RADIO-MK3", Name: "Field Radio", Category: "COMMS"}
	require.NoError(t, store.EquipmentTypes().Create(ctx, radio))
	env.radioType = radio.ID

	env.admin = &domain.Actor{UserID: 1, Role: domain.RoleAdmin, Active: true}
	env.logistics = &domain.Actor{UserID: 2, Role: domain.RoleLogisticsOfficer, Active: true}
	env.commander1 = &domain.Actor{UserID: commander1ID, Role: domain.RoleBaseCommander, BaseID: &env.base1, Active: true}
	env.commander2 = &domain.Actor{UserID: commander2ID, Role: domain.RoleBaseCommander, BaseID: &env.base2, Active: true}
	env.user = &domain.Actor{UserID: 200, Role: domain.RoleUser, Active: true}

	return env
}

// deliverLot books quantity into baseID through a full purchase cycle and
// returns the resulting AVAILABLE lot.
func (env *testEnv) deliverLot(t *testing.T, baseID, quantity int64) *domain.AssetLot {
	t.Helper()
	ctx := context.Background()

	p, err := env.purchases.Create(ctx, env.admin, CreatePurchaseInput{
		EquipmentTypeID: env.radioType,
		BaseID:          baseID,
		Quantity:        quantity,
		UnitPrice:       decimal.NewFromInt(250),
		Supplier:        "Acme Defense",
	})
	require.NoError(t, err)
	_, err = env.purchases.MarkDelivered(ctx, env.admin, p.ID)
	require.NoError(t, err)

	lots, err := env.store.Assets().List(ctx, repository.AssetFilter{
		BaseID: &baseID, Status: domain.AssetStatusAvailable,
	})
	require.NoError(t, err)
	require.NotEmpty(t, lots)
	return &lots[len(lots)-1]
}

func (env *testEnv) lot(t *testing.T, id int64) *domain.AssetLot {
	t.Helper()
	lot, err := env.store.Assets().GetByID(context.Background(), id)
	require.NoError(t, err)
	return lot
}
