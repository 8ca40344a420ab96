package controllers

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/taskwall/taskwall/modules/kanban/services"
	"github.com/taskwall/taskwall/pkg/application"
	"github.com/taskwall/taskwall/pkg/httpapi"
)

type PriorityResponse struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Weight int    `json:"weight"`
	Color  string `json:"color,omitempty"`
}

type PrioritiesController struct {
	priorities *services.PriorityService
}

func NewPrioritiesController(priorities *services.PriorityService) application.Controller {
	return &PrioritiesController{priorities: priorities}
}

func (c *PrioritiesController) Key() string { return "/priorities" }

func (c *PrioritiesController) Register(r *mux.Router) {
	r.HandleFunc("/priorities", c.List).Methods(http.MethodGet)
}

func (c *PrioritiesController) List(w http.ResponseWriter, r *http.Request) {
	priorities, err := c.priorities.GetAll(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	out := make([]PriorityResponse, len(priorities))
	for i, p := range priorities {
		out[i] = PriorityResponse{ID: p.ID.String(), Name: p.Name, Weight: p.Weight, Color: p.Color}
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, out)
}
