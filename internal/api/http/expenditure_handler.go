package http

import (
	"net/http"

	"asset-ledger-backend/internal/domain"
	"asset-ledger-backend/internal/service"
)

type ExpenditureHandler struct {
	expenditures service.ExpenditureService
}

func NewExpenditureHandler(expenditures service.ExpenditureService) *ExpenditureHandler {
	return &ExpenditureHandler{expenditures: expenditures}
}

type createExpenditureRequest struct {
	AssetLotID    int64  `json:"asset_lot_id" validate:"required,gt=0"`
	Quantity      int64  `json:"quantity" validate:"required,gt=0"`
	Reason        string `json:"reason" validate:"required"`
	OperationName string `json:"operation_name" validate:"max=200"`
	Notes         string `json:"notes" validate:"max=2000"`
}

func (h *ExpenditureHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createExpenditureRequest
	if err := decodeAndValidate(r, &req); err != nil {
		writeError(w, err)
		return
	}
	expenditure, err := h.expenditures.Create(r.Context(), actorFromContext(r.Context()), service.CreateExpenditureInput{
		AssetLotID:    req.AssetLotID,
		Quantity:      req.Quantity,
		Reason:        domain.ExpenditureReason(req.Reason),
		OperationName: req.OperationName,
		Notes:         req.Notes,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, expenditure)
}

func (h *ExpenditureHandler) Approve(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	expenditure, err := h.expenditures.Approve(r.Context(), actorFromContext(r.Context()), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, expenditure)
}

func (h *ExpenditureHandler) Complete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	expenditure, err := h.expenditures.Complete(r.Context(), actorFromContext(r.Context()), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, expenditure)
}

func (h *ExpenditureHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	var req cancelRequest
	if err := decodeAndValidate(r, &req); err != nil {
		writeError(w, err)
		return
	}
	expenditure, err := h.expenditures.Cancel(r.Context(), actorFromContext(r.Context()), id, req.Reason)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, expenditure)
}

func (h *ExpenditureHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	expenditure, err := h.expenditures.Get(r.Context(), actorFromContext(r.Context()), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, expenditure)
}

func (h *ExpenditureHandler) List(w http.ResponseWriter, r *http.Request) {
	baseID := queryInt64(r, "base_id", 0)
	status := domain.ExpenditureStatus(r.URL.Query().Get("status"))
	expenditures, err := h.expenditures.List(r.Context(), actorFromContext(r.Context()), baseID, status)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, expenditures)
}
