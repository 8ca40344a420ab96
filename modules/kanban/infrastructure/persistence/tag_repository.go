package persistence

import (
	"context"
	"fmt"

	"github.com/go-faster/errors"
	"github.com/google/uuid"

	"github.com/taskwall/taskwall/modules/kanban/domain"
	"github.com/taskwall/taskwall/modules/kanban/infrastructure/persistence/models"
	"github.com/taskwall/taskwall/pkg/composables"
)

var (
	ErrTagNotFound      = fmt.Errorf("tag not found")
	ErrPriorityNotFound = fmt.Errorf("priority not found")
)

const tagFindQuery = `SELECT t.id, t.name, t.color, t.created_at FROM tags t`

type TagRepository struct{}

func NewTagRepository() domain.TagRepository {
	return &TagRepository{}
}

func (r *TagRepository) GetAll(ctx context.Context) ([]domain.Tag, error) {
	return r.queryTags(ctx, tagFindQuery+" ORDER BY t.name")
}

func (r *TagRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Tag, error) {
	tags, err := r.queryTags(ctx, tagFindQuery+" WHERE t.id = $1", id.String())
	if err != nil {
		return nil, err
	}
	if len(tags) == 0 {
		return nil, ErrTagNotFound
	}
	return &tags[0], nil
}

func (r *TagRepository) GetByTask(ctx context.Context, taskID uuid.UUID) ([]domain.Tag, error) {
	return r.queryTags(
		ctx,
		tagFindQuery+" JOIN task_tags tt ON tt.tag_id = t.id WHERE tt.task_id = $1 ORDER BY t.name",
		taskID.String(),
	)
}

func (r *TagRepository) Create(ctx context.Context, tag *domain.Tag) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}
	_, err = tx.Exec(
		ctx,
		`INSERT INTO tags (id, name, color, created_at) VALUES ($1, $2, $3, $4)`,
		tag.ID.String(),
		tag.Name,
		nullString(tag.Color),
		tag.CreatedAt,
	)
	return errors.Wrap(err, "insert tag")
}

func (r *TagRepository) Update(ctx context.Context, tag *domain.Tag) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}
	res, err := tx.Exec(
		ctx,
		`UPDATE tags SET name = $1, color = $2 WHERE id = $3`,
		tag.Name,
		nullString(tag.Color),
		tag.ID.String(),
	)
	if err != nil {
		return errors.Wrap(err, "update tag")
	}
	if res.RowsAffected() == 0 {
		return ErrTagNotFound
	}
	return nil
}

func (r *TagRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}
	res, err := tx.Exec(ctx, `DELETE FROM tags WHERE id = $1`, id.String())
	if err != nil {
		return errors.Wrap(err, "delete tag")
	}
	if res.RowsAffected() == 0 {
		return ErrTagNotFound
	}
	return nil
}

func (r *TagRepository) Attach(ctx context.Context, taskID, tagID uuid.UUID) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}
	_, err = tx.Exec(
		ctx,
		`INSERT INTO task_tags (task_id, tag_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`,
		taskID.String(),
		tagID.String(),
	)
	return errors.Wrap(err, "attach tag")
}

func (r *TagRepository) Detach(ctx context.Context, taskID, tagID uuid.UUID) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}
	_, err = tx.Exec(
		ctx,
		`DELETE FROM task_tags WHERE task_id = $1 AND tag_id = $2`,
		taskID.String(),
		tagID.String(),
	)
	return errors.Wrap(err, "detach tag")
}

func (r *TagRepository) queryTags(ctx context.Context, query string, args ...any) ([]domain.Tag, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := tx.Query(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "query tags")
	}
	defer rows.Close()

	var tags []domain.Tag
	for rows.Next() {
		var m models.Tag
		if err := rows.Scan(&m.ID, &m.Name, &m.Color, &m.CreatedAt); err != nil {
			return nil, errors.Wrap(err, "scan tag")
		}
		tag, err := toDomainTag(&m)
		if err != nil {
			return nil, err
		}
		tags = append(tags, *tag)
	}
	return tags, rows.Err()
}
