package http

import (
	"net/http"

	"asset-ledger-backend/internal/domain"
	"asset-ledger-backend/internal/repository"
	"asset-ledger-backend/internal/service"
)

type AssetHandler struct {
	assets service.AssetService
}

func NewAssetHandler(assets service.AssetService) *AssetHandler {
	return &AssetHandler{assets: assets}
}

func (h *AssetHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	lot, err := h.assets.Get(r.Context(), actorFromContext(r.Context()), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, lot)
}

func (h *AssetHandler) List(w http.ResponseWriter, r *http.Request) {
	filter := repository.AssetFilter{
		BaseID:          queryInt64Ptr(r, "base_id"),
		EquipmentTypeID: queryInt64Ptr(r, "equipment_type_id"),
		Status:          domain.AssetStatus(r.URL.Query().Get("status")),
	}
	lots, err := h.assets.List(r.Context(), actorFromContext(r.Context()), filter)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, lots)
}

func (h *AssetHandler) AvailableQuantity(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	qty, err := h.assets.AvailableQuantity(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int64{"asset_lot_id": id, "available_quantity": qty})
}

func (h *AssetHandler) SetMaintenance(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	lot, err := h.assets.SetMaintenance(r.Context(), actorFromContext(r.Context()), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, lot)
}

func (h *AssetHandler) ReturnToService(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	lot, err := h.assets.ReturnToService(r.Context(), actorFromContext(r.Context()), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, lot)
}

func (h *AssetHandler) BaseSummary(w http.ResponseWriter, r *http.Request) {
	baseID, err := pathID(r, "baseID")
	if err != nil {
		writeError(w, err)
		return
	}
	summary, err := h.assets.BaseSummary(r.Context(), actorFromContext(r.Context()), baseID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}
