package controllers

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/taskwall/taskwall/modules/kanban/services"
	"github.com/taskwall/taskwall/pkg/application"
	"github.com/taskwall/taskwall/pkg/httpapi"
)

type ColumnsController struct {
	columns *services.ColumnService
}

func NewColumnsController(columns *services.ColumnService) application.Controller {
	return &ColumnsController{columns: columns}
}

func (c *ColumnsController) Key() string { return "/columns" }

func (c *ColumnsController) Register(r *mux.Router) {
	r.HandleFunc("/boards/{boardId}/columns", c.ListByBoard).Methods(http.MethodGet)
	r.HandleFunc("/boards/{boardId}/columns", c.Create).Methods(http.MethodPost)

	router := r.PathPrefix("/columns").Subrouter()
	router.HandleFunc("/reorder", c.Reorder).Methods(http.MethodPost)
	router.HandleFunc("/{id}", c.Get).Methods(http.MethodGet)
	router.HandleFunc("/{id}", c.Update).Methods(http.MethodPut)
	router.HandleFunc("/{id}", c.Delete).Methods(http.MethodDelete)
}

func (c *ColumnsController) ListByBoard(w http.ResponseWriter, r *http.Request) {
	boardID, ok := pathUUID(w, r, "boardId")
	if !ok {
		return
	}
	columns, err := c.columns.GetByBoard(r.Context(), boardID)
	if err != nil {
		writeError(w, err)
		return
	}
	out := make([]ColumnResponse, len(columns))
	for i := range columns {
		out[i] = toColumnResponse(&columns[i])
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, out)
}

func (c *ColumnsController) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	column, err := c.columns.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, toColumnResponse(column))
}

func (c *ColumnsController) Create(w http.ResponseWriter, r *http.Request) {
	boardID, ok := pathUUID(w, r, "boardId")
	if !ok {
		return
	}
	var req ColumnRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Name == "" {
		_ = httpapi.WriteError(w, http.StatusUnprocessableEntity, "NAME_REQUIRED", "column name is required", nil)
		return
	}
	column, err := c.columns.Create(r.Context(), boardID, req.Name, req.Color)
	if err != nil {
		writeError(w, err)
		return
	}
	_ = httpapi.WriteJSON(w, http.StatusCreated, toColumnResponse(column))
}

func (c *ColumnsController) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	var req ColumnRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	column, err := c.columns.Update(r.Context(), id, req.Name, req.Color)
	if err != nil {
		writeError(w, err)
		return
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, toColumnResponse(column))
}

func (c *ColumnsController) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	if err := c.columns.Delete(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	writeAck(w)
}

func (c *ColumnsController) Reorder(w http.ResponseWriter, r *http.Request) {
	var req ReorderRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	movingID, err := uuid.Parse(req.MovingID)
	if err != nil {
		_ = httpapi.WriteError(w, http.StatusBadRequest, "MALFORMED_ID", "movingId is not a valid uuid", nil)
		return
	}
	if err := c.columns.Reorder(r.Context(), movingID, req.TargetPosition); err != nil {
		writeError(w, err)
		return
	}
	writeAck(w)
}
