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

var ErrTaskNotFound = fmt.Errorf("task not found")

const (
	taskFindQuery = `SELECT id, board_id, column_id, title, description, priority_id, assignee_id, due_date, position, created_at, updated_at FROM tasks`

	taskUpdatePositionQuery = `UPDATE tasks SET position = $1, updated_at = now() WHERE id = $2`

	taskMoveQuery = `UPDATE tasks SET column_id = $1, position = $2, updated_at = now() WHERE id = $3`
)

type TaskRepository struct{}

func NewTaskRepository() domain.TaskRepository {
	return &TaskRepository{}
}

func (r *TaskRepository) GetByColumn(ctx context.Context, columnID uuid.UUID) ([]domain.Task, error) {
	return r.queryTasks(ctx, taskFindQuery+" WHERE column_id = $1 ORDER BY position, id", columnID.String())
}

func (r *TaskRepository) GetByBoard(ctx context.Context, boardID uuid.UUID) ([]domain.Task, error) {
	return r.queryTasks(ctx, taskFindQuery+" WHERE board_id = $1 ORDER BY column_id, position, id", boardID.String())
}

func (r *TaskRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
	tasks, err := r.queryTasks(ctx, taskFindQuery+" WHERE id = $1", id.String())
	if err != nil {
		return nil, err
	}
	if len(tasks) == 0 {
		return nil, ErrTaskNotFound
	}
	return &tasks[0], nil
}

func (r *TaskRepository) Create(ctx context.Context, task *domain.Task) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}
	var due any
	if task.DueDate != nil {
		due = *task.DueDate
	}
	_, err = tx.Exec(
		ctx,
		`INSERT INTO tasks (id, board_id, column_id, title, description, priority_id, assignee_id, due_date, position, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		task.ID.String(),
		task.BoardID.String(),
		task.ColumnID.String(),
		task.Title,
		nullString(task.Description),
		nullUUID(task.PriorityID),
		nullUUID(task.AssigneeID),
		due,
		task.Position,
		task.CreatedAt,
		task.UpdatedAt,
	)
	return errors.Wrap(err, "insert task")
}

func (r *TaskRepository) Update(ctx context.Context, task *domain.Task) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}
	var due any
	if task.DueDate != nil {
		due = *task.DueDate
	}
	tag, err := tx.Exec(
		ctx,
		`UPDATE tasks SET title = $1, description = $2, priority_id = $3, assignee_id = $4, due_date = $5, updated_at = now()
		 WHERE id = $6`,
		task.Title,
		nullString(task.Description),
		nullUUID(task.PriorityID),
		nullUUID(task.AssigneeID),
		due,
		task.ID.String(),
	)
	if err != nil {
		return errors.Wrap(err, "update task")
	}
	if tag.RowsAffected() == 0 {
		return ErrTaskNotFound
	}
	return nil
}

func (r *TaskRepository) Delete(ctx context.Context, s txn.Scope, id uuid.UUID) error {
	return errors.Wrap(s.Exec(ctx, `DELETE FROM tasks WHERE id = $1`, id.String()), "delete task")
}

func (r *TaskRepository) CountByColumn(ctx context.Context, columnID uuid.UUID) (int, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return 0, err
	}
	var count int
	if err := tx.QueryRow(ctx, `SELECT COUNT(*) FROM tasks WHERE column_id = $1`, columnID.String()).Scan(&count); err != nil {
		return 0, errors.Wrap(err, "count tasks")
	}
	return count, nil
}

func (r *TaskRepository) UpdatePositions(ctx context.Context, s txn.Scope, updates []ordering.Update) error {
	for _, u := range updates {
		if err := s.Exec(ctx, taskUpdatePositionQuery, u.NewPosition, u.ID); err != nil {
			return errors.Wrap(err, "update task position")
		}
	}
	return nil
}

func (r *TaskRepository) MoveToColumn(ctx context.Context, s txn.Scope, taskID, columnID uuid.UUID, position int) error {
	if err := s.Exec(ctx, taskMoveQuery, columnID.String(), position, taskID.String()); err != nil {
		return errors.Wrap(err, "move task")
	}
	return nil
}

func (r *TaskRepository) queryTasks(ctx context.Context, query string, args ...any) ([]domain.Task, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := tx.Query(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "query tasks")
	}
	defer rows.Close()

	var tasks []domain.Task
	for rows.Next() {
		var m models.Task
		if err := rows.Scan(
			&m.ID, &m.BoardID, &m.ColumnID, &m.Title, &m.Description,
			&m.PriorityID, &m.AssigneeID, &m.DueDate, &m.Position,
			&m.CreatedAt, &m.UpdatedAt,
		); err != nil {
			return nil, errors.Wrap(err, "scan task")
		}
		t, err := toDomainTask(&m)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, *t)
	}
	return tasks, rows.Err()
}
