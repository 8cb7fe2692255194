// Package http exposes the ledger over REST. Handlers decode and validate
// request bodies, delegate to the service layer, and translate the service
// error taxonomy into HTTP status codes.
package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"

	"asset-ledger-backend/internal/domain"
	"asset-ledger-backend/internal/logger"
)

var validate = validator.New()

type errorBody struct {
	Error domain.Error `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if body != nil {
		if err := json.NewEncoder(w).Encode(body); err != nil {
			logger.Error("Failed to encode response", "error", err)
		}
	}
}

// writeError maps the ledger error codes onto HTTP statuses. Anything
// without a code is an internal failure and is not echoed to the client.
func writeError(w http.ResponseWriter, err error) {
	var derr *domain.Error
	if !errors.As(err, &derr) {
		logger.Error("Unhandled internal error", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorBody{Error: domain.Error{
			Code:    "internal",
			Message: "internal server error",
		}})
		return
	}

	status := http.StatusInternalServerError
	switch derr.Code {
	case domain.ErrCodeValidation:
		status = http.StatusBadRequest
	case domain.ErrCodeForbidden:
		status = http.StatusForbidden
	case domain.ErrCodeInvalidReference:
		status = http.StatusNotFound
	case domain.ErrCodeInvalidStateTransition, domain.ErrCodeConflict:
		status = http.StatusConflict
	case domain.ErrCodeInsufficientQuantity:
		status = http.StatusUnprocessableEntity
	}
	writeJSON(w, status, errorBody{Error: *derr})
}

// decodeAndValidate decodes the JSON body into dst and runs the struct
// validation tags. Violations come back as a validation_error so the client
// sees the same taxonomy for body problems and business problems.
func decodeAndValidate(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return domain.Errorf(domain.ErrCodeValidation, "malformed request body: %v", err)
	}
	if err := validate.Struct(dst); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			f := verrs[0]
			return domain.Errorf(domain.ErrCodeValidation, "field %s failed %s validation", f.Field(), f.Tag())
		}
		return domain.Errorf(domain.ErrCodeValidation, "invalid request body")
	}
	return nil
}

// pathID extracts the numeric {id}-style path variable named by key.
func pathID(r *http.Request, key string) (int64, error) {
	raw := mux.Vars(r)[key]
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, domain.Errorf(domain.ErrCodeValidation, "invalid %s %q", key, raw)
	}
	return id, nil
}

func queryInt64(r *http.Request, key string, fallback int64) int64 {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return fallback
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return fallback
	}
	return v
}

func queryInt64Ptr(r *http.Request, key string) *int64 {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil
	}
	return &v
}
