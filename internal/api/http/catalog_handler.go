package http

import (
	"net/http"

	"asset-ledger-backend/internal/domain"
	"asset-ledger-backend/internal/service"
)

type CatalogHandler struct {
	catalog service.CatalogService
}

func NewCatalogHandler(catalog service.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalog: catalog}
}

type createBaseRequest struct {
	Name        string `json:"name" validate:"required,max=200"`
	Location    string `json:"location" validate:"max=500"`
	CommanderID *int64 `json:"commander_id,omitempty"`
}

type createEquipmentTypeRequest struct {
	Code     string `json:"code" validate:"required,max=50"`
	Name     string `json:"name" validate:"required,max=200"`
	Category string `json:"category" validate:"required,max=100"`
}

func (h *CatalogHandler) CreateBase(w http.ResponseWriter, r *http.Request) {
	var req createBaseRequest
	if err := decodeAndValidate(r, &req); err != nil {
		writeError(w, err)
		return
	}
	base := &domain.Base{
		Name:        req.Name,
		Location:    req.Location,
		CommanderID: req.CommanderID,
	}
	if err := h.catalog.CreateBase(r.Context(), actorFromContext(r.Context()), base); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, base)
}

func (h *CatalogHandler) GetBase(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	base, err := h.catalog.GetBase(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, base)
}

func (h *CatalogHandler) ListBases(w http.ResponseWriter, r *http.Request) {
	bases, err := h.catalog.ListBases(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, bases)
}

func (h *CatalogHandler) CreateEquipmentType(w http.ResponseWriter, r *http.Request) {
	var req createEquipmentTypeRequest
	if err := decodeAndValidate(r, &req); err != nil {
		writeError(w, err)
		return
	}
	equipmentType := &domain.EquipmentType{
		Code:     req.Code,
		Name:     req.Name,
		Category: req.Category,
	}
	if err := h.catalog.CreateEquipmentType(r.Context(), actorFromContext(r.Context()), equipmentType); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, equipmentType)
}

func (h *CatalogHandler) GetEquipmentType(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	equipmentType, err := h.catalog.GetEquipmentType(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, equipmentType)
}

func (h *CatalogHandler) ListEquipmentTypes(w http.ResponseWriter, r *http.Request) {
	types, err := h.catalog.ListEquipmentTypes(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, types)
}
