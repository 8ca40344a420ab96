package domain

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/taskwall/taskwall/pkg/ordering"
	"github.com/taskwall/taskwall/pkg/txn"
)

type Task struct {
	ID          uuid.UUID
	BoardID     uuid.UUID
	ColumnID    uuid.UUID
	Title       string
	Description string
	PriorityID  *uuid.UUID
	AssigneeID  *uuid.UUID
	DueDate     *time.Time
	Position    int
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type TaskRepository interface {
	GetByColumn(ctx context.Context, columnID uuid.UUID) ([]Task, error)
	GetByBoard(ctx context.Context, boardID uuid.UUID) ([]Task, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Task, error)
	Create(ctx context.Context, task *Task) error
	Update(ctx context.Context, task *Task) error
	Delete(ctx context.Context, s txn.Scope, id uuid.UUID) error
	CountByColumn(ctx context.Context, columnID uuid.UUID) (int, error)
	UpdatePositions(ctx context.Context, s txn.Scope, updates []ordering.Update) error
	// MoveToColumn reassigns the task's column and position through the
	// transaction scope; the sibling shifts ride in the same scope.
	MoveToColumn(ctx context.Context, s txn.Scope, taskID, columnID uuid.UUID, position int) error
}

const (
	EventTaskCreated   = "task.created"
	EventTaskUpdated   = "task.updated"
	EventTaskDeleted   = "task.deleted"
	EventTaskMoved     = "task.moved"
	EventTaskReordered = "task.reordered"
	EventTaskAssigned  = "task.assigned"
)

type TaskEventPayload struct {
	ID           string `json:"id"`
	BoardID      string `json:"boardId"`
	ColumnID     string `json:"columnId"`
	FromColumnID string `json:"fromColumnId,omitempty"`
	Title        string `json:"title,omitempty"`
}

// TaskAssigned is the in-process event consumed by the notification handler.
type TaskAssigned struct {
	TaskID     uuid.UUID
	BoardID    uuid.UUID
	AssigneeID uuid.UUID
	Title      string
}

func TaskOrderingItems(tasks []Task) []ordering.Item {
	items := make([]ordering.Item, len(tasks))
	for i, t := range tasks {
		items[i] = ordering.Item{ID: t.ID.String(), Position: t.Position, SortKey: t.ID.String()}
	}
	return items
}
