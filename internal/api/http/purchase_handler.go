package http

import (
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"asset-ledger-backend/internal/domain"
	"asset-ledger-backend/internal/service"
)

type PurchaseHandler struct {
	purchases service.PurchaseService
}

func NewPurchaseHandler(purchases service.PurchaseService) *PurchaseHandler {
	return &PurchaseHandler{purchases: purchases}
}

type createPurchaseRequest struct {
	EquipmentTypeID int64     `json:"equipment_type_id" validate:"required,gt=0"`
	BaseID          int64     `json:"base_id" validate:"gte=0"`
	Quantity        int64     `json:"quantity" validate:"required,gt=0"`
	UnitPrice       string    `json:"unit_price" validate:"required"`
	OrderDate       time.Time `json:"order_date"`
	Supplier        string    `json:"supplier" validate:"required,max=200"`
	Notes           string    `json:"notes" validate:"max=2000"`
}

func (h *PurchaseHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createPurchaseRequest
	if err := decodeAndValidate(r, &req); err != nil {
		writeError(w, err)
		return
	}
	price, err := decimal.NewFromString(req.UnitPrice)
	if err != nil {
		writeError(w, domain.Errorf(domain.ErrCodeValidation, "invalid unit_price %q", req.UnitPrice))
		return
	}
	orderDate := req.OrderDate
	if orderDate.IsZero() {
		orderDate = time.Now().UTC()
	}

	purchase, err := h.purchases.Create(r.Context(), actorFromContext(r.Context()), service.CreatePurchaseInput{
		EquipmentTypeID: req.EquipmentTypeID,
		BaseID:          req.BaseID,
		Quantity:        req.Quantity,
		UnitPrice:       price,
		OrderDate:       orderDate,
		Supplier:        req.Supplier,
		Notes:           req.Notes,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, purchase)
}

func (h *PurchaseHandler) MarkDelivered(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	purchase, err := h.purchases.MarkDelivered(r.Context(), actorFromContext(r.Context()), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, purchase)
}

func (h *PurchaseHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	purchase, err := h.purchases.Cancel(r.Context(), actorFromContext(r.Context()), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, purchase)
}

func (h *PurchaseHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	purchase, err := h.purchases.Get(r.Context(), actorFromContext(r.Context()), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, purchase)
}

func (h *PurchaseHandler) List(w http.ResponseWriter, r *http.Request) {
	baseID := queryInt64(r, "base_id", 0)
	status := domain.PurchaseStatus(r.URL.Query().Get("status"))
	purchases, err := h.purchases.List(r.Context(), actorFromContext(r.Context()), baseID, status)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, purchases)
}
