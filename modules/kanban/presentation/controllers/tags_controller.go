package controllers

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/taskwall/taskwall/modules/kanban/services"
	"github.com/taskwall/taskwall/pkg/application"
	"github.com/taskwall/taskwall/pkg/httpapi"
)

type TagsController struct {
	tags *services.TagService
}

func NewTagsController(tags *services.TagService) application.Controller {
	return &TagsController{tags: tags}
}

func (c *TagsController) Key() string { return "/tags" }

func (c *TagsController) Register(r *mux.Router) {
	router := r.PathPrefix("/tags").Subrouter()
	router.HandleFunc("", c.List).Methods(http.MethodGet)
	router.HandleFunc("", c.Create).Methods(http.MethodPost)
	router.HandleFunc("/{id}", c.Update).Methods(http.MethodPut)
	router.HandleFunc("/{id}", c.Delete).Methods(http.MethodDelete)
}

func (c *TagsController) List(w http.ResponseWriter, r *http.Request) {
	tags, err := c.tags.GetAll(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	out := make([]TagResponse, len(tags))
	for i := range tags {
		out[i] = toTagResponse(&tags[i])
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, out)
}

func (c *TagsController) Create(w http.ResponseWriter, r *http.Request) {
	var req TagRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Name == "" {
		_ = httpapi.WriteError(w, http.StatusUnprocessableEntity, "NAME_REQUIRED", "tag name is required", nil)
		return
	}
	tag, err := c.tags.Create(r.Context(), req.Name, req.Color)
	if err != nil {
		writeError(w, err)
		return
	}
	_ = httpapi.WriteJSON(w, http.StatusCreated, toTagResponse(tag))
}

func (c *TagsController) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	var req TagRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	tag, err := c.tags.Update(r.Context(), id, req.Name, req.Color)
	if err != nil {
		writeError(w, err)
		return
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, toTagResponse(tag))
}

func (c *TagsController) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	if err := c.tags.Delete(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	writeAck(w)
}
