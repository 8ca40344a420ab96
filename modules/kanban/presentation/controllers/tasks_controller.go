package controllers

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/taskwall/taskwall/modules/kanban/services"
	"github.com/taskwall/taskwall/pkg/application"
	"github.com/taskwall/taskwall/pkg/httpapi"
)

type TasksController struct {
	tasks   *services.TaskService
	columns *services.ColumnService
	tags    *services.TagService
}

func NewTasksController(tasks *services.TaskService, columns *services.ColumnService, tags *services.TagService) application.Controller {
	return &TasksController{tasks: tasks, columns: columns, tags: tags}
}

func (c *TasksController) Key() string { return "/tasks" }

func (c *TasksController) Register(r *mux.Router) {
	r.HandleFunc("/columns/{columnId}/tasks", c.ListByColumn).Methods(http.MethodGet)
	r.HandleFunc("/columns/{columnId}/tasks", c.Create).Methods(http.MethodPost)

	router := r.PathPrefix("/tasks").Subrouter()
	router.HandleFunc("/reorder", c.Reorder).Methods(http.MethodPost)
	router.HandleFunc("/{id}", c.Get).Methods(http.MethodGet)
	router.HandleFunc("/{id}", c.Update).Methods(http.MethodPut)
	router.HandleFunc("/{id}", c.Delete).Methods(http.MethodDelete)
	router.HandleFunc("/{id}/assignee", c.Assign).Methods(http.MethodPost)
	router.HandleFunc("/{id}/tags", c.ListTags).Methods(http.MethodGet)
	router.HandleFunc("/{id}/tags/{tagId}", c.AttachTag).Methods(http.MethodPost)
	router.HandleFunc("/{id}/tags/{tagId}", c.DetachTag).Methods(http.MethodDelete)
}

func (c *TasksController) ListByColumn(w http.ResponseWriter, r *http.Request) {
	columnID, ok := pathUUID(w, r, "columnId")
	if !ok {
		return
	}
	tasks, err := c.tasks.GetByColumn(r.Context(), columnID)
	if err != nil {
		writeError(w, err)
		return
	}
	out := make([]TaskResponse, len(tasks))
	for i := range tasks {
		out[i] = toTaskResponse(&tasks[i])
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, out)
}

func (c *TasksController) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	task, err := c.tasks.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, toTaskResponse(task))
}

func (c *TasksController) Create(w http.ResponseWriter, r *http.Request) {
	columnID, ok := pathUUID(w, r, "columnId")
	if !ok {
		return
	}
	var req TaskRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Title == "" {
		_ = httpapi.WriteError(w, http.StatusUnprocessableEntity, "TITLE_REQUIRED", "task title is required", nil)
		return
	}

	// The board scope rides on the column.
	column, err := c.columns.GetByID(r.Context(), columnID)
	if err != nil {
		writeError(w, err)
		return
	}

	params := services.CreateTaskParams{
		BoardID:     column.BoardID,
		ColumnID:    columnID,
		Title:       req.Title,
		Description: req.Description,
		DueDate:     req.DueDate,
	}
	if params.PriorityID, ok = optionalUUID(w, req.PriorityID, "priorityId"); !ok {
		return
	}
	if params.AssigneeID, ok = optionalUUID(w, req.AssigneeID, "assigneeId"); !ok {
		return
	}

	task, err := c.tasks.Create(r.Context(), params)
	if err != nil {
		writeError(w, err)
		return
	}
	_ = httpapi.WriteJSON(w, http.StatusCreated, toTaskResponse(task))
}

func (c *TasksController) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	var req TaskRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	params := services.UpdateTaskParams{
		Title:       req.Title,
		Description: req.Description,
		DueDate:     req.DueDate,
	}
	if params.PriorityID, ok = optionalUUID(w, req.PriorityID, "priorityId"); !ok {
		return
	}
	task, err := c.tasks.Update(r.Context(), id, params)
	if err != nil {
		writeError(w, err)
		return
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, toTaskResponse(task))
}

func (c *TasksController) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	if err := c.tasks.Delete(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	writeAck(w)
}

// Reorder moves a task; scopeId selects the destination column and defaults
// to the task's current column.
func (c *TasksController) Reorder(w http.ResponseWriter, r *http.Request) {
	var req ReorderRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	movingID, err := uuid.Parse(req.MovingID)
	if err != nil {
		_ = httpapi.WriteError(w, http.StatusBadRequest, "MALFORMED_ID", "movingId is not a valid uuid", nil)
		return
	}

	var columnID uuid.UUID
	if req.ScopeID != "" {
		columnID, err = uuid.Parse(req.ScopeID)
		if err != nil {
			_ = httpapi.WriteError(w, http.StatusBadRequest, "MALFORMED_ID", "scopeId is not a valid uuid", nil)
			return
		}
	} else {
		task, err := c.tasks.GetByID(r.Context(), movingID)
		if err != nil {
			writeError(w, err)
			return
		}
		columnID = task.ColumnID
	}

	if err := c.tasks.Move(r.Context(), movingID, columnID, req.TargetPosition); err != nil {
		writeError(w, err)
		return
	}
	writeAck(w)
}

func (c *TasksController) Assign(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	var req AssignRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	assigneeID, err := uuid.Parse(req.AssigneeID)
	if err != nil {
		_ = httpapi.WriteError(w, http.StatusBadRequest, "MALFORMED_ID", "assigneeId is not a valid uuid", nil)
		return
	}
	task, err := c.tasks.Assign(r.Context(), id, assigneeID)
	if err != nil {
		writeError(w, err)
		return
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, toTaskResponse(task))
}

func (c *TasksController) ListTags(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	tags, err := c.tags.GetByTask(r.Context(), id)
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

func (c *TasksController) AttachTag(w http.ResponseWriter, r *http.Request) {
	taskID, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	tagID, ok := pathUUID(w, r, "tagId")
	if !ok {
		return
	}
	if err := c.tags.Attach(r.Context(), taskID, tagID); err != nil {
		writeError(w, err)
		return
	}
	writeAck(w)
}

func (c *TasksController) DetachTag(w http.ResponseWriter, r *http.Request) {
	taskID, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	tagID, ok := pathUUID(w, r, "tagId")
	if !ok {
		return
	}
	if err := c.tags.Detach(r.Context(), taskID, tagID); err != nil {
		writeError(w, err)
		return
	}
	writeAck(w)
}

func optionalUUID(w http.ResponseWriter, raw *string, field string) (*uuid.UUID, bool) {
	if raw == nil || *raw == "" {
		return nil, true
	}
	id, err := uuid.Parse(*raw)
	if err != nil {
		_ = httpapi.WriteError(w, http.StatusBadRequest, "MALFORMED_ID", field+" is not a valid uuid", nil)
		return nil, false
	}
	return &id, true
}
