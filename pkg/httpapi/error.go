package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/taskwall/taskwall/pkg/ordering"
	"github.com/taskwall/taskwall/pkg/serrors"
	"github.com/taskwall/taskwall/pkg/tenancy"
	"github.com/taskwall/taskwall/pkg/txn"
)

// ErrorEnvelope standardizes JSON error responses for API namespaces.
type ErrorEnvelope struct {
	Message string            `json:"message"`
	Code    string            `json:"code"`
	Meta    map[string]string `json:"meta,omitempty"`
}

func WriteJSON(w http.ResponseWriter, status int, payload any) error {
	if w == nil {
		return nil
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return nil
	}
	return json.NewEncoder(w).Encode(payload)
}

func WriteError(w http.ResponseWriter, status int, code, message string, meta map[string]string) error {
	return WriteJSON(w, status, &ErrorEnvelope{
		Code:    code,
		Message: message,
		Meta:    meta,
	})
}

// WriteDomainError maps the error taxonomy to HTTP. Internal query text never
// leaks: unknown errors collapse to a generic 500 envelope.
func WriteDomainError(w http.ResponseWriter, err error) error {
	switch {
	case errors.Is(err, tenancy.ErrTenantNotReady):
		return WriteError(w, http.StatusServiceUnavailable, "TENANT_NOT_READY", "tenant database is not ready, retry later", nil)
	case errors.Is(err, ordering.ErrItemNotFound):
		return WriteError(w, http.StatusNotFound, "ITEM_NOT_FOUND", "item not found in the expected scope", nil)
	case errors.Is(err, ordering.ErrInvalidTarget):
		return WriteError(w, http.StatusUnprocessableEntity, "INVALID_TARGET_POSITION", "target position out of range", nil)
	case errors.Is(err, txn.ErrUpstreamTimeout):
		return WriteError(w, http.StatusGatewayTimeout, "UPSTREAM_TIMEOUT", "upstream service deadline exceeded", nil)
	case errors.Is(err, txn.ErrTransactionAborted):
		return WriteError(w, http.StatusInternalServerError, "TRANSACTION_ABORTED", "operation could not be applied atomically", nil)
	}

	var typed *serrors.Base
	if errors.As(err, &typed) {
		return WriteError(w, http.StatusInternalServerError, typed.Code, typed.Message, nil)
	}
	return WriteError(w, http.StatusInternalServerError, "INTERNAL_SERVER_ERROR", "internal server error", nil)
}
