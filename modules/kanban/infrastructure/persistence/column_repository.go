package persistence

import (
	"context"
	"fmt"

	"github.com/go-faster/errors"
	"github.com/google/uuid"

	"github.com/taskwall/taskwall/modules/kanban/domain"
	"github.com/taskwall/taskwall/modules/kanban/infrastructure/persistence/models"
	"github.com/taskwall/taskwall/pkg/composables"
	"github.com/taskwall/taskwall/pkg/ordering"
	"github.com/taskwall/taskwall/pkg/txn"
)

var ErrColumnNotFound = fmt.Errorf("column not found")

const (
	columnFindQuery = `SELECT id, board_id, name, color, position, created_at, updated_at FROM columns`

	columnUpdatePositionQuery = `UPDATE columns SET position = $1, updated_at = now() WHERE id = $2`
)

type ColumnRepository struct{}

func NewColumnRepository() domain.ColumnRepository {
	return &ColumnRepository{}
}

func (r *ColumnRepository) GetByBoard(ctx context.Context, boardID uuid.UUID) ([]domain.Column, error) {
	return r.queryColumns(ctx, columnFindQuery+" WHERE board_id = $1 ORDER BY position, id", boardID.String())
}

func (r *ColumnRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Column, error) {
	columns, err := r.queryColumns(ctx, columnFindQuery+" WHERE id = $1", id.String())
	if err != nil {
		return nil, err
	}
	if len(columns) == 0 {
		return nil, ErrColumnNotFound
	}
	return &columns[0], nil
}

func (r *ColumnRepository) Create(ctx context.Context, column *domain.Column) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}
	_, err = tx.Exec(
		ctx,
		`INSERT INTO columns (id, board_id, name, color, position, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		column.ID.String(),
		column.BoardID.String(),
		column.Name,
		nullString(column.Color),
		column.Position,
		column.CreatedAt,
		column.UpdatedAt,
	)
	return errors.Wrap(err, "insert column")
}

func (r *ColumnRepository) Update(ctx context.Context, column *domain.Column) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}
	tag, err := tx.Exec(
		ctx,
		`UPDATE columns SET name = $1, color = $2, updated_at = now() WHERE id = $3`,
		column.Name,
		nullString(column.Color),
		column.ID.String(),
	)
	if err != nil {
		return errors.Wrap(err, "update column")
	}
	if tag.RowsAffected() == 0 {
		return ErrColumnNotFound
	}
	return nil
}

func (r *ColumnRepository) Delete(ctx context.Context, s txn.Scope, id uuid.UUID) error {
	return errors.Wrap(s.Exec(ctx, `DELETE FROM columns WHERE id = $1`, id.String()), "delete column")
}

func (r *ColumnRepository) CountByBoard(ctx context.Context, boardID uuid.UUID) (int, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return 0, err
	}
	var count int
	if err := tx.QueryRow(ctx, `SELECT COUNT(*) FROM columns WHERE board_id = $1`, boardID.String()).Scan(&count); err != nil {
		return 0, errors.Wrap(err, "count columns")
	}
	return count, nil
}

func (r *ColumnRepository) UpdatePositions(ctx context.Context, s txn.Scope, updates []ordering.Update) error {
	for _, u := range updates {
		if err := s.Exec(ctx, columnUpdatePositionQuery, u.NewPosition, u.ID); err != nil {
			return errors.Wrap(err, "update column position")
		}
	}
	return nil
}

func (r *ColumnRepository) queryColumns(ctx context.Context, query string, args ...any) ([]domain.Column, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := tx.Query(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "query columns")
	}
	defer rows.Close()

	var columns []domain.Column
	for rows.Next() {
		var m models.Column
		if err := rows.Scan(&m.ID, &m.BoardID, &m.Name, &m.Color, &m.Position, &m.CreatedAt, &m.UpdatedAt); err != nil {
			return nil, errors.Wrap(err, "scan column")
		}
		c, err := toDomainColumn(&m)
		if err != nil {
			return nil, err
		}
		columns = append(columns, *c)
	}
	return columns, rows.Err()
}
