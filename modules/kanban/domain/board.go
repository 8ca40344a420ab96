// Package domain defines the kanban entities and their repository contracts.
// Boards, columns and tasks are orderable: each carries a dense zero-based
// position within its scope (boards globally, columns per board, tasks per
// column).
package domain

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/taskwall/taskwall/pkg/ordering"
	"github.com/taskwall/taskwall/pkg/txn"
)

type Board struct {
	ID        uuid.UUID
	Name      string
	Position  int
	CreatedAt time.Time
	UpdatedAt time.Time
}

type BoardRepository interface {
	GetAll(ctx context.Context) ([]Board, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Board, error)
	Create(ctx context.Context, board *Board) error
	Update(ctx context.Context, board *Board) error
	// Delete removes the board through the transaction scope so the
	// companion renumber commits or rolls back with it.
	Delete(ctx context.Context, s txn.Scope, id uuid.UUID) error
	Count(ctx context.Context) (int, error)
	// UpdatePositions applies position assignments through the given
	// transaction scope so the whole reorder commits or rolls back as one.
	UpdatePositions(ctx context.Context, s txn.Scope, updates []ordering.Update) error
}

// Event names published on the realtime channel.
const (
	EventBoardCreated   = "board.created"
	EventBoardUpdated   = "board.updated"
	EventBoardDeleted   = "board.deleted"
	EventBoardReordered = "board.reordered"
)

// BoardEventPayload is the wire payload for board events.
type BoardEventPayload struct {
	ID   string `json:"id"`
	Name string `json:"name,omitempty"`
}

// OrderingItems adapts boards to the ordering engine; the id doubles as the
// stable tie-break key.
func OrderingItems(boards []Board) []ordering.Item {
	items := make([]ordering.Item, len(boards))
	for i, b := range boards {
		items[i] = ordering.Item{ID: b.ID.String(), Position: b.Position, SortKey: b.ID.String()}
	}
	return items
}
