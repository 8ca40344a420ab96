// Package controllers exposes the kanban REST surface. Controllers decode
// JSON, delegate to services and map domain errors to the HTTP taxonomy.
package controllers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/taskwall/taskwall/modules/kanban/infrastructure/persistence"
	"github.com/taskwall/taskwall/pkg/httpapi"
)

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		_ = httpapi.WriteError(w, http.StatusBadRequest, "MALFORMED_BODY", "request body is not valid JSON", nil)
		return false
	}
	return true
}

func pathUUID(w http.ResponseWriter, r *http.Request, key string) (uuid.UUID, bool) {
	id, err := uuid.Parse(mux.Vars(r)[key])
	if err != nil {
		_ = httpapi.WriteError(w, http.StatusBadRequest, "MALFORMED_ID", "path id is not a valid uuid", nil)
		return uuid.Nil, false
	}
	return id, true
}

// writeError maps repository sentinels to 404 before falling back to the
// shared taxonomy.
func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, persistence.ErrBoardNotFound):
		_ = httpapi.WriteError(w, http.StatusNotFound, "BOARD_NOT_FOUND", "board not found", nil)
	case errors.Is(err, persistence.ErrColumnNotFound):
		_ = httpapi.WriteError(w, http.StatusNotFound, "COLUMN_NOT_FOUND", "column not found", nil)
	case errors.Is(err, persistence.ErrTaskNotFound):
		_ = httpapi.WriteError(w, http.StatusNotFound, "TASK_NOT_FOUND", "task not found", nil)
	case errors.Is(err, persistence.ErrTagNotFound):
		_ = httpapi.WriteError(w, http.StatusNotFound, "TAG_NOT_FOUND", "tag not found", nil)
	default:
		_ = httpapi.WriteDomainError(w, err)
	}
}

func writeAck(w http.ResponseWriter) {
	_ = httpapi.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
