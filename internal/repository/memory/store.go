// Package memory implements repository.Store with mutex-guarded maps. It
// backs the "memory" database driver for local development and gives the
// service tests a real compare-and-swap substrate without a database.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"asset-ledger-backend/internal/domain"
	"asset-ledger-backend/internal/repository"
)

type state struct {
	seq           int64
	assets        map[int64]domain.AssetLot
	purchases     map[int64]domain.Purchase
	transfers     map[int64]domain.Transfer
	assignments   map[int64]domain.Assignment
	expenditures  map[int64]domain.Expenditure
	bases         map[int64]domain.Base
	types         map[int64]domain.EquipmentType
	notifications map[int64]domain.Notification
}

func (st *state) nextID() int64 {
	st.seq++
	return st.seq
}

func (st *state) clone() state {
	cp := *st
	cp.assets = cloneMap(st.assets)
	cp.purchases = cloneMap(st.purchases)
	cp.transfers = cloneMap(st.transfers)
	cp.assignments = cloneMap(st.assignments)
	cp.expenditures = cloneMap(st.expenditures)
	cp.bases = cloneMap(st.bases)
	cp.types = cloneMap(st.types)
	cp.notifications = cloneMap(st.notifications)
	return cp
}

func cloneMap[V any](m map[int64]V) map[int64]V {
	cp := make(map[int64]V, len(m))
	for k, v := range m {
		cp[k] = v
	}
	return cp
}

// Store is the in-memory implementation of repository.Store. A single mutex
// serializes writes; WithinTransaction snapshots the state up front and
// restores it when the callback fails, so partial mutations are never
// observable. Transactions must not be nested.
type Store struct {
	mu sync.Mutex
	st state
	storeView
}

func NewStore() *Store {
	s := &Store{
		st: state{
			assets:        map[int64]domain.AssetLot{},
			purchases:     map[int64]domain.Purchase{},
			transfers:     map[int64]domain.Transfer{},
			assignments:   map[int64]domain.Assignment{},
			expenditures:  map[int64]domain.Expenditure{},
			bases:         map[int64]domain.Base{},
			types:         map[int64]domain.EquipmentType{},
			notifications: map[int64]domain.Notification{},
		},
	}
	s.storeView = storeView{s: s}
	return s
}

// storeView is the Store seen either from outside (each call locks) or from
// inside a transaction (the transaction already holds the lock).
type storeView struct {
	s    *Store
	inTx bool
}

func (v storeView) do(fn func(st *state) error) error {
	if !v.inTx {
		v.s.mu.Lock()
		defer v.s.mu.Unlock()
	}
	return fn(&v.s.st)
}

func (v storeView) Assets() repository.AssetRepository             { return assetRepo{v} }
func (v storeView) Purchases() repository.PurchaseRepository       { return purchaseRepo{v} }
func (v storeView) Transfers() repository.TransferRepository       { return transferRepo{v} }
func (v storeView) Assignments() repository.AssignmentRepository   { return assignmentRepo{v} }
func (v storeView) Expenditures() repository.ExpenditureRepository { return expenditureRepo{v} }
func (v storeView) Bases() repository.BaseRepository               { return baseRepo{v} }
func (v storeView) EquipmentTypes() repository.EquipmentTypeRepository {
	return equipmentTypeRepo{v}
}
func (v storeView) Notifications() repository.NotificationRepository { return notificationRepo{v} }

func (v storeView) WithinTransaction(ctx context.Context, fn func(repository.Store) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if v.inTx {
		return fn(v)
	}
	v.s.mu.Lock()
	defer v.s.mu.Unlock()
	snapshot := v.s.st.clone()
	if err := fn(storeView{s: v.s, inTx: true}); err != nil {
		v.s.st = snapshot
		return err
	}
	return nil
}

// --- assets ---

type assetRepo struct{ v storeView }

func (r assetRepo) Create(ctx context.Context, lot *domain.AssetLot) error {
	return r.v.do(func(st *state) error {
		lot.ID = st.nextID()
		lot.Version = 1
		now := time.Now()
		lot.CreatedOn, lot.UpdatedOn = now, now
		st.assets[lot.ID] = *lot
		return nil
	})
}

func (r assetRepo) GetByID(ctx context.Context, id int64) (*domain.AssetLot, error) {
	var out *domain.AssetLot
	err := r.v.do(func(st *state) error {
		lot, ok := st.assets[id]
		if !ok {
			return domain.InvalidReference("asset lot", id)
		}
		out = &lot
		return nil
	})
	return out, err
}

func (r assetRepo) CASUpdate(ctx context.Context, lot *domain.AssetLot) error {
	return r.v.do(func(st *state) error {
		cur, ok := st.assets[lot.ID]
		if !ok {
			return domain.InvalidReference("asset lot", lot.ID)
		}
		if cur.Version != lot.Version {
			return domain.Conflict("asset lot", lot.ID)
		}
		lot.Version++
		lot.UpdatedOn = time.Now()
		st.assets[lot.ID] = *lot
		return nil
	})
}

func (r assetRepo) FindMatch(ctx context.Context, baseID, equipmentTypeID int64, condition domain.AssetCondition) (*domain.AssetLot, error) {
	var out *domain.AssetLot
	err := r.v.do(func(st *state) error {
		var ids []int64
		for id := range st.assets {
			ids = append(ids, id)
		}
		sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
		for _, id := range ids {
			lot := st.assets[id]
			if lot.BaseID == baseID && lot.EquipmentTypeID == equipmentTypeID &&
				lot.Condition == condition && lot.Status == domain.AssetStatusAvailable {
				out = &lot
				return nil
			}
		}
		return nil
	})
	return out, err
}

func (r assetRepo) List(ctx context.Context, filter repository.AssetFilter) ([]domain.AssetLot, error) {
	var out []domain.AssetLot
	err := r.v.do(func(st *state) error {
		for _, lot := range st.assets {
			if filter.BaseID != nil && lot.BaseID != *filter.BaseID {
				continue
			}
			if filter.EquipmentTypeID != nil && lot.EquipmentTypeID != *filter.EquipmentTypeID {
				continue
			}
			if filter.Status != "" && lot.Status != filter.Status {
				continue
			}
			out = append(out, lot)
		}
		sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
		return nil
	})
	return out, err
}

func (r assetRepo) BaseSummary(ctx context.Context, baseID int64) ([]domain.BaseSummary, error) {
	byType := map[int64]*domain.BaseSummary{}
	get := func(typeID int64) *domain.BaseSummary {
		if s, ok := byType[typeID]; ok {
			return s
		}
		s := &domain.BaseSummary{EquipmentTypeID: typeID}
		byType[typeID] = s
		return s
	}
	err := r.v.do(func(st *state) error {
		for _, lot := range st.assets {
			if lot.BaseID != baseID {
				continue
			}
			s := get(lot.EquipmentTypeID)
			switch lot.Status {
			case domain.AssetStatusAvailable:
				s.AvailableQty += lot.Quantity
			case domain.AssetStatusAssigned:
				s.AssignedQty += lot.Quantity
			case domain.AssetStatusMaintenance:
				s.MaintenanceQty += lot.Quantity
			case domain.AssetStatusExpended:
				s.ExpendedQty += lot.Quantity
			}
		}
		for _, t := range st.transfers {
			if t.Status != domain.TransferStatusInitiated && t.Status != domain.TransferStatusInTransit {
				continue
			}
			if t.DestBaseID == baseID {
				get(t.EquipmentTypeID).InboundTransit += t.Quantity
			}
			if t.SourceBaseID == baseID {
				get(t.EquipmentTypeID).OutboundTransit += t.Quantity
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	var out []domain.BaseSummary
	for _, s := range byType {
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].EquipmentTypeID < out[j].EquipmentTypeID })
	return out, nil
}

// --- purchases ---

type purchaseRepo struct{ v storeView }

func (r purchaseRepo) Create(ctx context.Context, p *domain.Purchase) error {
	return r.v.do(func(st *state) error {
		p.ID = st.nextID()
		p.Version = 1
		now := time.Now()
		p.CreatedOn, p.UpdatedOn = now, now
		st.purchases[p.ID] = *p
		return nil
	})
}

func (r purchaseRepo) GetByID(ctx context.Context, id int64) (*domain.Purchase, error) {
	var out *domain.Purchase
	err := r.v.do(func(st *state) error {
		p, ok := st.purchases[id]
		if !ok {
			return domain.InvalidReference("purchase", id)
		}
		out = &p
		return nil
	})
	return out, err
}

func (r purchaseRepo) CASUpdate(ctx context.Context, p *domain.Purchase) error {
	return r.v.do(func(st *state) error {
		cur, ok := st.purchases[p.ID]
		if !ok {
			return domain.InvalidReference("purchase", p.ID)
		}
		if cur.Version != p.Version {
			return domain.Conflict("purchase", p.ID)
		}
		p.Version++
		p.UpdatedOn = time.Now()
		st.purchases[p.ID] = *p
		return nil
	})
}

func (r purchaseRepo) ListByBase(ctx context.Context, baseID int64, status domain.PurchaseStatus) ([]domain.Purchase, error) {
	var out []domain.Purchase
	err := r.v.do(func(st *state) error {
		for _, p := range st.purchases {
			if p.BaseID != baseID {
				continue
			}
			if status != "" && p.Status != status {
				continue
			}
			out = append(out, p)
		}
		sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
		return nil
	})
	return out, err
}

// --- transfers ---

type transferRepo struct{ v storeView }

func (r transferRepo) Create(ctx context.Context, t *domain.Transfer) error {
	return r.v.do(func(st *state) error {
		t.ID = st.nextID()
		t.Version = 1
		now := time.Now()
		t.CreatedOn, t.UpdatedOn = now, now
		st.transfers[t.ID] = *t
		return nil
	})
}

func (r transferRepo) GetByID(ctx context.Context, id int64) (*domain.Transfer, error) {
	var out *domain.Transfer
	err := r.v.do(func(st *state) error {
		t, ok := st.transfers[id]
		if !ok {
			return domain.InvalidReference("transfer", id)
		}
		out = &t
		return nil
	})
	return out, err
}

func (r transferRepo) CASUpdate(ctx context.Context, t *domain.Transfer) error {
	return r.v.do(func(st *state) error {
		cur, ok := st.transfers[t.ID]
		if !ok {
			return domain.InvalidReference("transfer", t.ID)
		}
		if cur.Version != t.Version {
			return domain.Conflict("transfer", t.ID)
		}
		t.Version++
		t.UpdatedOn = time.Now()
		st.transfers[t.ID] = *t
		return nil
	})
}

func (r transferRepo) ListByBase(ctx context.Context, baseID int64, status domain.TransferStatus) ([]domain.Transfer, error) {
	var out []domain.Transfer
	err := r.v.do(func(st *state) error {
		for _, t := range st.transfers {
			if t.SourceBaseID != baseID && t.DestBaseID != baseID {
				continue
			}
			if status != "" && t.Status != status {
				continue
			}
			out = append(out, t)
		}
		sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
		return nil
	})
	return out, err
}

// --- assignments ---

type assignmentRepo struct{ v storeView }

func (r assignmentRepo) Create(ctx context.Context, a *domain.Assignment) error {
	return r.v.do(func(st *state) error {
		a.ID = st.nextID()
		a.Version = 1
		now := time.Now()
		a.CreatedOn, a.UpdatedOn = now, now
		st.assignments[a.ID] = *a
		return nil
	})
}

func (r assignmentRepo) GetByID(ctx context.Context, id int64) (*domain.Assignment, error) {
	var out *domain.Assignment
	err := r.v.do(func(st *state) error {
		a, ok := st.assignments[id]
		if !ok {
			return domain.InvalidReference("assignment", id)
		}
		out = &a
		return nil
	})
	return out, err
}

func (r assignmentRepo) CASUpdate(ctx context.Context, a *domain.Assignment) error {
	return r.v.do(func(st *state) error {
		cur, ok := st.assignments[a.ID]
		if !ok {
			return domain.InvalidReference("assignment", a.ID)
		}
		if cur.Version != a.Version {
			return domain.Conflict("assignment", a.ID)
		}
		a.Version++
		a.UpdatedOn = time.Now()
		st.assignments[a.ID] = *a
		return nil
	})
}

func (r assignmentRepo) GetActiveByLot(ctx context.Context, lotID int64) (*domain.Assignment, error) {
	var out *domain.Assignment
	err := r.v.do(func(st *state) error {
		for _, a := range st.assignments {
			if a.AssetLotID == lotID && a.Status == domain.AssignmentStatusActive {
				cp := a
				out = &cp
				return nil
			}
		}
		return nil
	})
	return out, err
}

func (r assignmentRepo) ListByBase(ctx context.Context, baseID int64, status domain.AssignmentStatus) ([]domain.Assignment, error) {
	var out []domain.Assignment
	err := r.v.do(func(st *state) error {
		for _, a := range st.assignments {
			if a.BaseID != baseID {
				continue
			}
			if status != "" && a.Status != status {
				continue
			}
			out = append(out, a)
		}
		sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
		return nil
	})
	return out, err
}

func (r assignmentRepo) ListOverdue(ctx context.Context, asOf time.Time) ([]domain.Assignment, error) {
	var out []domain.Assignment
	err := r.v.do(func(st *state) error {
		for _, a := range st.assignments {
			if a.Status != domain.AssignmentStatusActive || a.ExpectedReturnDate == nil {
				continue
			}
			if a.ExpectedReturnDate.Before(asOf) {
				out = append(out, a)
			}
		}
		sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
		return nil
	})
	return out, err
}

// --- expenditures ---

type expenditureRepo struct{ v storeView }

func (r expenditureRepo) Create(ctx context.Context, e *domain.Expenditure) error {
	return r.v.do(func(st *state) error {
		e.ID = st.nextID()
		e.Version = 1
		now := time.Now()
		e.CreatedOn, e.UpdatedOn = now, now
		st.expenditures[e.ID] = *e
		return nil
	})
}

func (r expenditureRepo) GetByID(ctx context.Context, id int64) (*domain.Expenditure, error) {
	var out *domain.Expenditure
	err := r.v.do(func(st *state) error {
		e, ok := st.expenditures[id]
		if !ok {
			return domain.InvalidReference("expenditure", id)
		}
		out = &e
		return nil
	})
	return out, err
}

func (r expenditureRepo) CASUpdate(ctx context.Context, e *domain.Expenditure) error {
	return r.v.do(func(st *state) error {
		cur, ok := st.expenditures[e.ID]
		if !ok {
			return domain.InvalidReference("expenditure", e.ID)
		}
		if cur.Version != e.Version {
			return domain.Conflict("expenditure", e.ID)
		}
		e.Version++
		e.UpdatedOn = time.Now()
		st.expenditures[e.ID] = *e
		return nil
	})
}

func (r expenditureRepo) ListByBase(ctx context.Context, baseID int64, status domain.ExpenditureStatus) ([]domain.Expenditure, error) {
	var out []domain.Expenditure
	err := r.v.do(func(st *state) error {
		for _, e := range st.expenditures {
			if e.BaseID != baseID {
				continue
			}
			if status != "" && e.Status != status {
				continue
			}
			out = append(out, e)
		}
		sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
		return nil
	})
	return out, err
}

// --- bases / equipment types ---

type baseRepo struct{ v storeView }

func (r baseRepo) Create(ctx context.Context, b *domain.Base) error {
	return r.v.do(func(st *state) error {
		b.ID = st.nextID()
		b.CreatedOn = time.Now()
		st.bases[b.ID] = *b
		return nil
	})
}

func (r baseRepo) GetByID(ctx context.Context, id int64) (*domain.Base, error) {
	var out *domain.Base
	err := r.v.do(func(st *state) error {
		b, ok := st.bases[id]
		if !ok {
			return domain.InvalidReference("base", id)
		}
		out = &b
		return nil
	})
	return out, err
}

func (r baseRepo) List(ctx context.Context) ([]domain.Base, error) {
	var out []domain.Base
	err := r.v.do(func(st *state) error {
		for _, b := range st.bases {
			out = append(out, b)
		}
		sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
		return nil
	})
	return out, err
}

type equipmentTypeRepo struct{ v storeView }

func (r equipmentTypeRepo) Create(ctx context.Context, t *domain.EquipmentType) error {
	return r.v.do(func(st *state) error {
		t.ID = st.nextID()
		t.CreatedOn = time.Now()
		st.types[t.ID] = *t
		return nil
	})
}

func (r equipmentTypeRepo) GetByID(ctx context.Context, id int64) (*domain.EquipmentType, error) {
	var out *domain.EquipmentType
	err := r.v.do(func(st *state) error {
		t, ok := st.types[id]
		if !ok {
			return domain.InvalidReference("equipment type", id)
		}
		out = &t
		return nil
	})
	return out, err
}

func (r equipmentTypeRepo) List(ctx context.Context) ([]domain.EquipmentType, error) {
	var out []domain.EquipmentType
	err := r.v.do(func(st *state) error {
		for _, t := range st.types {
			out = append(out, t)
		}
		sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
		return nil
	})
	return out, err
}

// --- notifications ---

type notificationRepo struct{ v storeView }

func (r notificationRepo) Create(ctx context.Context, n *domain.Notification) error {
	return r.v.do(func(st *state) error {
		n.ID = st.nextID()
		n.CreatedOn = time.Now()
		st.notifications[n.ID] = *n
		return nil
	})
}

func (r notificationRepo) ListByUser(ctx context.Context, userID int64, limit, offset int64) ([]domain.Notification, error) {
	var all []domain.Notification
	err := r.v.do(func(st *state) error {
		for _, n := range st.notifications {
			if n.UserID == userID {
				all = append(all, n)
			}
		}
		sort.Slice(all, func(i, j int) bool { return all[i].ID > all[j].ID })
		return nil
	})
	if err != nil {
		return nil, err
	}
	if offset >= int64(len(all)) {
		return nil, nil
	}
	all = all[offset:]
	if limit > 0 && limit < int64(len(all)) {
		all = all[:limit]
	}
	return all, nil
}

func (r notificationRepo) MarkRead(ctx context.Context, id, userID int64) error {
	return r.v.do(func(st *state) error {
		n, ok := st.notifications[id]
		if !ok || n.UserID != userID {
			return domain.InvalidReference("notification", id)
		}
		n.IsRead = true
		st.notifications[id] = n
		return nil
	})
}

var _ repository.Store = (*Store)(nil)
