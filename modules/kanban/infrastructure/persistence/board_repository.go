package persistence

import (
	"context"
	"fmt"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/taskwall/taskwall/modules/kanban/domain"
	"github.com/taskwall/taskwall/modules/kanban/infrastructure/persistence/models"
	"github.com/taskwall/taskwall/pkg/composables"
	"github.com/taskwall/taskwall/pkg/ordering"
	"github.com/taskwall/taskwall/pkg/txn"
)

var ErrBoardNotFound = fmt.Errorf("board not found")

const (
	boardFindQuery = `SELECT id, name, position, created_at, updated_at FROM boards`

	boardUpdatePositionQuery = `UPDATE boards SET position = $1, updated_at = now() WHERE id = $2`
)

type BoardRepository struct{}

func NewBoardRepository() domain.BoardRepository {
	return &BoardRepository{}
}

func (r *BoardRepository) GetAll(ctx context.Context) ([]domain.Board, error) {
	return r.queryBoards(ctx, boardFindQuery+" ORDER BY position, id")
}

func (r *BoardRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Board, error) {
	boards, err := r.queryBoards(ctx, boardFindQuery+" WHERE id = $1", id.String())
	if err != nil {
		return nil, err
	}
	if len(boards) == 0 {
		return nil, ErrBoardNotFound
	}
	return &boards[0], nil
}

func (r *BoardRepository) Create(ctx context.Context, board *domain.Board) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}
	_, err = tx.Exec(
		ctx,
		`INSERT INTO boards (id, name, position, created_at, updated_at) VALUES ($1, $2, $3, $4, $5)`,
		board.ID.String(),
		board.Name,
		board.Position,
		board.CreatedAt,
		board.UpdatedAt,
	)
	return errors.Wrap(err, "insert board")
}

func (r *BoardRepository) Update(ctx context.Context, board *domain.Board) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}
	tag, err := tx.Exec(
		ctx,
		`UPDATE boards SET name = $1, updated_at = now() WHERE id = $2`,
		board.Name,
		board.ID.String(),
	)
	if err != nil {
		return errors.Wrap(err, "update board")
	}
	if tag.RowsAffected() == 0 {
		return ErrBoardNotFound
	}
	return nil
}

// Delete issues through the scope; existence is the caller's check since the
// scope reports no row counts.
func (r *BoardRepository) Delete(ctx context.Context, s txn.Scope, id uuid.UUID) error {
	return errors.Wrap(s.Exec(ctx, `DELETE FROM boards WHERE id = $1`, id.String()), "delete board")
}

func (r *BoardRepository) Count(ctx context.Context) (int, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return 0, err
	}
	var count int
	if err := tx.QueryRow(ctx, `SELECT COUNT(*) FROM boards`).Scan(&count); err != nil {
		return 0, errors.Wrap(err, "count boards")
	}
	return count, nil
}

func (r *BoardRepository) UpdatePositions(ctx context.Context, s txn.Scope, updates []ordering.Update) error {
	for _, u := range updates {
		if err := s.Exec(ctx, boardUpdatePositionQuery, u.NewPosition, u.ID); err != nil {
			return errors.Wrap(err, "update board position")
		}
	}
	return nil
}

func (r *BoardRepository) queryBoards(ctx context.Context, query string, args ...any) ([]domain.Board, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := tx.Query(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "query boards")
	}
	defer rows.Close()

	var boards []domain.Board
	for rows.Next() {
		var m models.Board
		if err := rows.Scan(&m.ID, &m.Name, &m.Position, &m.CreatedAt, &m.UpdatedAt); err != nil {
			return nil, errors.Wrap(err, "scan board")
		}
		b, err := toDomainBoard(&m)
		if err != nil {
			return nil, err
		}
		boards = append(boards, *b)
	}
	if err := rows.Err(); err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}
	return boards, nil
}
