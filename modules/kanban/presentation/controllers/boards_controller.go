package controllers

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/taskwall/taskwall/modules/kanban/services"
	"github.com/taskwall/taskwall/pkg/application"
	"github.com/taskwall/taskwall/pkg/httpapi"
)

type BoardsController struct {
	boards *services.BoardService
}

func NewBoardsController(boards *services.BoardService) application.Controller {
	return &BoardsController{boards: boards}
}

func (c *BoardsController) Key() string { return "/boards" }

func (c *BoardsController) Register(r *mux.Router) {
	router := r.PathPrefix("/boards").Subrouter()
	router.HandleFunc("", c.List).Methods(http.MethodGet)
	router.HandleFunc("", c.Create).Methods(http.MethodPost)
	router.HandleFunc("/reorder", c.Reorder).Methods(http.MethodPost)
	router.HandleFunc("/{id}", c.Get).Methods(http.MethodGet)
	router.HandleFunc("/{id}", c.Update).Methods(http.MethodPut)
	router.HandleFunc("/{id}", c.Delete).Methods(http.MethodDelete)
}

func (c *BoardsController) List(w http.ResponseWriter, r *http.Request) {
	boards, err := c.boards.GetAll(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	out := make([]BoardResponse, len(boards))
	for i := range boards {
		out[i] = toBoardResponse(&boards[i])
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, out)
}

func (c *BoardsController) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	board, err := c.boards.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, toBoardResponse(board))
}

func (c *BoardsController) Create(w http.ResponseWriter, r *http.Request) {
	var req BoardRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Name == "" {
		_ = httpapi.WriteError(w, http.StatusUnprocessableEntity, "NAME_REQUIRED", "board name is required", nil)
		return
	}
	board, err := c.boards.Create(r.Context(), req.Name)
	if err != nil {
		writeError(w, err)
		return
	}
	_ = httpapi.WriteJSON(w, http.StatusCreated, toBoardResponse(board))
}

func (c *BoardsController) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	var req BoardRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	board, err := c.boards.Update(r.Context(), id, req.Name)
	if err != nil {
		writeError(w, err)
		return
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, toBoardResponse(board))
}

func (c *BoardsController) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	if err := c.boards.Delete(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	writeAck(w)
}

func (c *BoardsController) Reorder(w http.ResponseWriter, r *http.Request) {
	var req ReorderRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	movingID, err := uuid.Parse(req.MovingID)
	if err != nil {
		_ = httpapi.WriteError(w, http.StatusBadRequest, "MALFORMED_ID", "movingId is not a valid uuid", nil)
		return
	}
	if err := c.boards.Reorder(r.Context(), movingID, req.TargetPosition); err != nil {
		writeError(w, err)
		return
	}
	writeAck(w)
}
