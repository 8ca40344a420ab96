package domain

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/taskwall/taskwall/pkg/ordering"
	"github.com/taskwall/taskwall/pkg/txn"
)

type Column struct {
	ID        uuid.UUID
	BoardID   uuid.UUID
	Name      string
	Color     string
	Position  int
	CreatedAt time.Time
	UpdatedAt time.Time
}

type ColumnRepository interface {
	GetByBoard(ctx context.Context, boardID uuid.UUID) ([]Column, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Column, error)
	Create(ctx context.Context, column *Column) error
	Update(ctx context.Context, column *Column) error
	Delete(ctx context.Context, s txn.Scope, id uuid.UUID) error
	CountByBoard(ctx context.Context, boardID uuid.UUID) (int, error)
	UpdatePositions(ctx context.Context, s txn.Scope, updates []ordering.Update) error
}

const (
	EventColumnCreated   = "column.created"
	EventColumnUpdated   = "column.updated"
	EventColumnDeleted   = "column.deleted"
	EventColumnReordered = "column.reordered"
)

// ColumnEventPayload carries the parent board id so subscribers can filter
// without re-fetching.
type ColumnEventPayload struct {
	ID      string `json:"id"`
	BoardID string `json:"boardId"`
	Name    string `json:"name,omitempty"`
}

func ColumnOrderingItems(columns []Column) []ordering.Item {
	items := make([]ordering.Item, len(columns))
	for i, c := range columns {
		items[i] = ordering.Item{ID: c.ID.String(), Position: c.Position, SortKey: c.ID.String()}
	}
	return items
}
