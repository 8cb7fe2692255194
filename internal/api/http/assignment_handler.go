package http

import (
	"net/http"
	"time"

	"asset-ledger-backend/internal/domain"
	"asset-ledger-backend/internal/service"
)

type AssignmentHandler struct {
	assignments service.AssignmentService
}

func NewAssignmentHandler(assignments service.AssignmentService) *AssignmentHandler {
	return &AssignmentHandler{assignments: assignments}
}

type createAssignmentRequest struct {
	AssetLotID         int64      `json:"asset_lot_id" validate:"required,gt=0"`
	AssignedToID       int64      `json:"assigned_to_id" validate:"required,gt=0"`
	ExpectedReturnDate *time.Time `json:"expected_return_date,omitempty"`
	Purpose            string     `json:"purpose" validate:"max=2000"`
	Notes              string     `json:"notes" validate:"max=2000"`
}

type returnAssignmentRequest struct {
	Condition string `json:"condition" validate:"required"`
}

type lostOrDamagedRequest struct {
	Status string `json:"status" validate:"required,oneof=LOST DAMAGED"`
	Notes  string `json:"notes" validate:"max=2000"`
}

func (h *AssignmentHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createAssignmentRequest
	if err := decodeAndValidate(r, &req); err != nil {
		writeError(w, err)
		return
	}
	assignment, err := h.assignments.Create(r.Context(), actorFromContext(r.Context()), service.CreateAssignmentInput{
		AssetLotID:         req.AssetLotID,
		AssignedToID:       req.AssignedToID,
		ExpectedReturnDate: req.ExpectedReturnDate,
		Purpose:            req.Purpose,
		Notes:              req.Notes,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, assignment)
}

func (h *AssignmentHandler) Return(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	var req returnAssignmentRequest
	if err := decodeAndValidate(r, &req); err != nil {
		writeError(w, err)
		return
	}
	assignment, err := h.assignments.Return(r.Context(), actorFromContext(r.Context()), id, domain.AssetCondition(req.Condition))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, assignment)
}

func (h *AssignmentHandler) MarkLostOrDamaged(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	var req lostOrDamagedRequest
	if err := decodeAndValidate(r, &req); err != nil {
		writeError(w, err)
		return
	}
	assignment, err := h.assignments.MarkLostOrDamaged(r.Context(), actorFromContext(r.Context()), id, domain.AssignmentStatus(req.Status), req.Notes)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, assignment)
}

func (h *AssignmentHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	assignment, err := h.assignments.Get(r.Context(), actorFromContext(r.Context()), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, assignment)
}

func (h *AssignmentHandler) List(w http.ResponseWriter, r *http.Request) {
	baseID := queryInt64(r, "base_id", 0)
	status := domain.AssignmentStatus(r.URL.Query().Get("status"))
	assignments, err := h.assignments.List(r.Context(), actorFromContext(r.Context()), baseID, status)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, assignments)
}
