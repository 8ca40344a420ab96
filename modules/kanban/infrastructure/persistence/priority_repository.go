package persistence

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/google/uuid"

	"github.com/taskwall/taskwall/modules/kanban/domain"
	"github.com/taskwall/taskwall/modules/kanban/infrastructure/persistence/models"
	"github.com/taskwall/taskwall/pkg/composables"
)

type PriorityRepository struct{}

func NewPriorityRepository() domain.PriorityRepository {
	return &PriorityRepository{}
}

func (r *PriorityRepository) GetAll(ctx context.Context) ([]domain.Priority, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := tx.Query(ctx, `SELECT id, name, weight, color FROM priorities ORDER BY weight`)
	if err != nil {
		return nil, errors.Wrap(err, "query priorities")
	}
	defer rows.Close()

	var priorities []domain.Priority
	for rows.Next() {
		var m models.Priority
		if err := rows.Scan(&m.ID, &m.Name, &m.Weight, &m.Color); err != nil {
			return nil, errors.Wrap(err, "scan priority")
		}
		id, err := uuid.Parse(m.ID)
		if err != nil {
			return nil, err
		}
		priorities = append(priorities, domain.Priority{
			ID:     id,
			Name:   m.Name,
			Weight: m.Weight,
			Color:  m.Color.String,
		})
	}
	return priorities, rows.Err()
}

func (r *PriorityRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Priority, error) {
	priorities, err := r.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	for _, p := range priorities {
		if p.ID == id {
			return &p, nil
		}
	}
	return nil, ErrPriorityNotFound
}
