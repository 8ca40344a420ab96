package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/taskwall/taskwall/modules/kanban/domain"
	"github.com/taskwall/taskwall/pkg/composables"
	"github.com/taskwall/taskwall/pkg/metrics"
	"github.com/taskwall/taskwall/pkg/ordering"
	"github.com/taskwall/taskwall/pkg/realtime"
	"github.com/taskwall/taskwall/pkg/txn"
)

type ColumnService struct {
	repo   domain.ColumnRepository
	runner txn.Runner
	rt     realtime.Publisher
}

func NewColumnService(repo domain.ColumnRepository, runner txn.Runner, rt realtime.Publisher) *ColumnService {
	return &ColumnService{repo: repo, runner: runner, rt: rt}
}

func (s *ColumnService) GetByBoard(ctx context.Context, boardID uuid.UUID) ([]domain.Column, error) {
	return s.repo.GetByBoard(ctx, boardID)
}

func (s *ColumnService) GetByID(ctx context.Context, id uuid.UUID) (*domain.Column, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *ColumnService) Create(ctx context.Context, boardID uuid.UUID, name, color string) (*domain.Column, error) {
	column, err := composables.InTxResult(ctx, func(txCtx context.Context) (*domain.Column, error) {
		count, err := s.repo.CountByBoard(txCtx, boardID)
		if err != nil {
			return nil, err
		}
		now := time.Now().UTC()
		c := &domain.Column{
			ID:        uuid.New(),
			BoardID:   boardID,
			Name:      name,
			Color:     color,
			Position:  count,
			CreatedAt: now,
			UpdatedAt: now,
		}
		return c, s.repo.Create(txCtx, c)
	})
	if err != nil {
		return nil, err
	}
	realtime.FireAndForget(ctx, s.rt, realtime.NewEvent(
		domain.EventColumnCreated,
		domain.ColumnEventPayload{ID: column.ID.String(), BoardID: column.BoardID.String(), Name: column.Name},
		tenantID(ctx),
	))
	return column, nil
}

func (s *ColumnService) Update(ctx context.Context, id uuid.UUID, name, color string) (*domain.Column, error) {
	column, err := composables.InTxResult(ctx, func(txCtx context.Context) (*domain.Column, error) {
		c, err := s.repo.GetByID(txCtx, id)
		if err != nil {
			return nil, err
		}
		c.Name = name
		c.Color = color
		return c, s.repo.Update(txCtx, c)
	})
	if err != nil {
		return nil, err
	}
	realtime.FireAndForget(ctx, s.rt, realtime.NewEvent(
		domain.EventColumnUpdated,
		domain.ColumnEventPayload{ID: column.ID.String(), BoardID: column.BoardID.String(), Name: column.Name},
		tenantID(ctx),
	))
	return column, nil
}

// Delete removes the column and renumbers its board's remaining columns in
// the same runner unit.
func (s *ColumnService) Delete(ctx context.Context, id uuid.UUID) error {
	column, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	siblings, err := s.repo.GetByBoard(ctx, column.BoardID)
	if err != nil {
		return err
	}
	remaining := make([]domain.Column, 0, len(siblings))
	for _, c := range siblings {
		if c.ID != id {
			remaining = append(remaining, c)
		}
	}
	updates := ordering.Renumber(domain.ColumnOrderingItems(remaining))
	err = s.runner.RunTx(ctx, func(c context.Context, sc txn.Scope) error {
		if err := s.repo.Delete(c, sc, id); err != nil {
			return err
		}
		return s.repo.UpdatePositions(c, sc, updates)
	})
	if err != nil {
		return err
	}
	realtime.FireAndForget(ctx, s.rt, realtime.NewEvent(
		domain.EventColumnDeleted,
		domain.ColumnEventPayload{ID: id.String(), BoardID: column.BoardID.String()},
		tenantID(ctx),
	))
	return nil
}

// Reorder moves a column within its board.
func (s *ColumnService) Reorder(ctx context.Context, movingID uuid.UUID, target int) error {
	column, err := s.repo.GetByID(ctx, movingID)
	if err != nil {
		return err
	}
	siblings, err := s.repo.GetByBoard(ctx, column.BoardID)
	if err != nil {
		return err
	}
	updates, err := ordering.ComputeReorder(domain.ColumnOrderingItems(siblings), movingID.String(), target)
	if err != nil {
		return err
	}
	if len(updates) == 0 {
		return nil
	}
	err = s.runner.RunTx(ctx, func(c context.Context, sc txn.Scope) error {
		return s.repo.UpdatePositions(c, sc, updates)
	})
	if err != nil {
		return err
	}
	metrics.Reorders.WithLabelValues("column").Inc()
	realtime.FireAndForget(ctx, s.rt, realtime.NewEvent(
		domain.EventColumnReordered,
		domain.ColumnEventPayload{ID: movingID.String(), BoardID: column.BoardID.String()},
		tenantID(ctx),
	))
	return nil
}
