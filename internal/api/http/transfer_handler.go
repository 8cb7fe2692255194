package http

import (
	"net/http"

	"asset-ledger-backend/internal/domain"
	"asset-ledger-backend/internal/service"
)

type TransferHandler struct {
	transfers service.TransferService
}

func NewTransferHandler(transfers service.TransferService) *TransferHandler {
	return &TransferHandler{transfers: transfers}
}

type initiateTransferRequest struct {
	AssetLotID       int64  `json:"asset_lot_id" validate:"required,gt=0"`
	DestBaseID       int64  `json:"dest_base_id" validate:"required,gt=0"`
	Quantity         int64  `json:"quantity" validate:"required,gt=0"`
	TransportDetails string `json:"transport_details" validate:"max=2000"`
	Notes            string `json:"notes" validate:"max=2000"`
}

type cancelRequest struct {
	Reason string `json:"reason" validate:"max=2000"`
}

func (h *TransferHandler) Initiate(w http.ResponseWriter, r *http.Request) {
	var req initiateTransferRequest
	if err := decodeAndValidate(r, &req); err != nil {
		writeError(w, err)
		return
	}
	transfer, err := h.transfers.Initiate(r.Context(), actorFromContext(r.Context()), service.InitiateTransferInput{
		AssetLotID:       req.AssetLotID,
		DestBaseID:       req.DestBaseID,
		Quantity:         req.Quantity,
		TransportDetails: req.TransportDetails,
		Notes:            req.Notes,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, transfer)
}

func (h *TransferHandler) Approve(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	transfer, err := h.transfers.Approve(r.Context(), actorFromContext(r.Context()), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, transfer)
}

func (h *TransferHandler) Complete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	transfer, err := h.transfers.Complete(r.Context(), actorFromContext(r.Context()), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, transfer)
}

func (h *TransferHandler) Cancel(w http.ResponseWriter, r *http.Request) {
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
	transfer, err := h.transfers.Cancel(r.Context(), actorFromContext(r.Context()), id, req.Reason)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, transfer)
}

func (h *TransferHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	transfer, err := h.transfers.Get(r.Context(), actorFromContext(r.Context()), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, transfer)
}

func (h *TransferHandler) List(w http.ResponseWriter, r *http.Request) {
	baseID := queryInt64(r, "base_id", 0)
	status := domain.TransferStatus(r.URL.Query().Get("status"))
	transfers, err := h.transfers.List(r.Context(), actorFromContext(r.Context()), baseID, status)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, transfers)
}
