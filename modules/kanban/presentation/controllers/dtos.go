package controllers

import (
	"time"

	"github.com/taskwall/taskwall/modules/kanban/domain"
)

// ReorderRequest is the shared wire shape for drag-and-drop position changes.
// ScopeID names the destination scope; for tasks it selects the destination
// column and may differ from the current one.
type ReorderRequest struct {
	MovingID       string `json:"movingId"`
	TargetPosition int    `json:"targetPosition"`
	ScopeID        string `json:"scopeId,omitempty"`
}

type BoardRequest struct {
	Name string `json:"name"`
}

type BoardResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Position  int    `json:"position"`
	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt"`
}

type ColumnRequest struct {
	Name  string `json:"name"`
	Color string `json:"color,omitempty"`
}

type ColumnResponse struct {
	ID        string `json:"id"`
	BoardID   string `json:"boardId"`
	Name      string `json:"name"`
	Color     string `json:"color,omitempty"`
	Position  int    `json:"position"`
	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt"`
}

type TaskRequest struct {
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	PriorityID  *string    `json:"priorityId,omitempty"`
	AssigneeID  *string    `json:"assigneeId,omitempty"`
	DueDate     *time.Time `json:"dueDate,omitempty"`
}

type TaskResponse struct {
	ID          string     `json:"id"`
	BoardID     string     `json:"boardId"`
	ColumnID    string     `json:"columnId"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	PriorityID  *string    `json:"priorityId,omitempty"`
	AssigneeID  *string    `json:"assigneeId,omitempty"`
	DueDate     *time.Time `json:"dueDate,omitempty"`
	Position    int        `json:"position"`
	CreatedAt   string     `json:"createdAt"`
	UpdatedAt   string     `json:"updatedAt"`
}

type AssignRequest struct {
	AssigneeID string `json:"assigneeId"`
}

type TagRequest struct {
	Name  string `json:"name"`
	Color string `json:"color,omitempty"`
}

type TagResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color,omitempty"`
}

type NotificationResponse struct {
	ID        string `json:"id"`
	TaskID    string `json:"taskId"`
	Message   string `json:"message"`
	Read      bool   `json:"read"`
	CreatedAt string `json:"createdAt"`
}

type MarkReadRequest struct {
	IDs []string `json:"ids"`
}

func toBoardResponse(b *domain.Board) BoardResponse {
	return BoardResponse{
		ID:        b.ID.String(),
		Name:      b.Name,
		Position:  b.Position,
		CreatedAt: b.CreatedAt.Format(time.RFC3339),
		UpdatedAt: b.UpdatedAt.Format(time.RFC3339),
	}
}

func toColumnResponse(c *domain.Column) ColumnResponse {
	return ColumnResponse{
		ID:        c.ID.String(),
		BoardID:   c.BoardID.String(),
		Name:      c.Name,
		Color:     c.Color,
		Position:  c.Position,
		CreatedAt: c.CreatedAt.Format(time.RFC3339),
		UpdatedAt: c.UpdatedAt.Format(time.RFC3339),
	}
}

func toTaskResponse(t *domain.Task) TaskResponse {
	resp := TaskResponse{
		ID:          t.ID.String(),
		BoardID:     t.BoardID.String(),
		ColumnID:    t.ColumnID.String(),
		Title:       t.Title,
		Description: t.Description,
		DueDate:     t.DueDate,
		Position:    t.Position,
		CreatedAt:   t.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   t.UpdatedAt.Format(time.RFC3339),
	}
	if t.PriorityID != nil {
		v := t.PriorityID.String()
		resp.PriorityID = &v
	}
	if t.AssigneeID != nil {
		v := t.AssigneeID.String()
		resp.AssigneeID = &v
	}
	return resp
}

func toTagResponse(t *domain.Tag) TagResponse {
	return TagResponse{ID: t.ID.String(), Name: t.Name, Color: t.Color}
}

func toNotificationResponse(n *domain.Notification) NotificationResponse {
	return NotificationResponse{
		ID:        n.ID.String(),
		TaskID:    n.TaskID.String(),
		Message:   n.Message,
		Read:      n.Read,
		CreatedAt: n.CreatedAt.Format(time.RFC3339),
	}
}
