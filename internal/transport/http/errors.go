package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/KentJhon/itrack-backend/internal/domain"
)

const (
	codeMethodNotAllowed   = "method_not_allowed"
	codeNotFound           = "not_found"
	codeInvalidRequestBody = "invalid_request_body"
	codeInvalidID          = "invalid_id"
	codeInvalidQuantity    = "invalid_quantity"
	codeInvalidMonth       = "invalid_month"
	codeNoItems            = "no_items"
	codeItemNotFound       = "item_not_found"
	codeOrderNotFound      = "order_not_found"
	codeUserNotFound       = "user_not_found"
	codeRoleNotFound       = "role_not_found"
	codeNotJobOrder        = "not_job_order"
	codeNothingToUpdate    = "nothing_to_update"
	codeWeakPassword       = "weak_password"
	codeDuplicateReceipt   = "duplicate_receipt"
	codeDuplicateEmail     = "duplicate_email"
	codeInsufficientStock  = "insufficient_stock"
	codeLockTimeout        = "lock_timeout"
	codeInvalidCredentials = "invalid_credentials"
	codeUnauthorized       = "unauthorized"
	codeForbidden          = "forbidden"
	codeInternalError      = "internal_error"
)

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

func writeError(w http.ResponseWriter, status int, code, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	payload, err := json.Marshal(errorResponse{
		Error: msg,
		Code:  code,
	})
	if err != nil {
		_, _ = w.Write([]byte(`{"error":"internal error","code":"internal_error"}`))
		return
	}
	_, _ = w.Write(payload)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// writeDomainError maps service errors onto HTTP statuses and stable error
// codes. Unknown errors become 500 and are logged with the request context.
func writeDomainError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrItemNotFound):
		writeError(w, http.StatusNotFound, codeItemNotFound, err.Error())
	case errors.Is(err, domain.ErrOrderNotFound):
		writeError(w, http.StatusNotFound, codeOrderNotFound, err.Error())
	case errors.Is(err, domain.ErrUserNotFound):
		writeError(w, http.StatusNotFound, codeUserNotFound, err.Error())
	case errors.Is(err, domain.ErrRoleNotFound):
		writeError(w, http.StatusBadRequest, codeRoleNotFound, err.Error())
	case errors.Is(err, domain.ErrNoItems):
		writeError(w, http.StatusBadRequest, codeNoItems, err.Error())
	case errors.Is(err, domain.ErrInvalidQuantity):
		writeError(w, http.StatusBadRequest, codeInvalidQuantity, err.Error())
	case errors.Is(err, domain.ErrInvalidMonth):
		writeError(w, http.StatusBadRequest, codeInvalidMonth, err.Error())
	case errors.Is(err, domain.ErrInvalidID):
		writeError(w, http.StatusBadRequest, codeInvalidID, err.Error())
	case errors.Is(err, domain.ErrNotJobOrder):
		writeError(w, http.StatusBadRequest, codeNotJobOrder, err.Error())
	case errors.Is(err, domain.ErrNothingToUpdate):
		writeError(w, http.StatusBadRequest, codeNothingToUpdate, err.Error())
	case errors.Is(err, domain.ErrWeakPassword):
		writeError(w, http.StatusBadRequest, codeWeakPassword, err.Error())
	case errors.Is(err, domain.ErrDuplicateReceipt):
		writeError(w, http.StatusConflict, codeDuplicateReceipt, err.Error())
	case errors.Is(err, domain.ErrDuplicateEmail):
		writeError(w, http.StatusConflict, codeDuplicateEmail, err.Error())
	case errors.Is(err, domain.ErrInsufficientStock):
		writeError(w, http.StatusConflict, codeInsufficientStock, err.Error())
	case errors.Is(err, domain.ErrLockTimeout):
		writeError(w, http.StatusConflict, codeLockTimeout, err.Error())
	case errors.Is(err, domain.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, codeInvalidCredentials, err.Error())
	default:
		zerolog.Ctx(r.Context()).Error().Err(err).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Msg("unhandled service error")
		writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
	}
}
