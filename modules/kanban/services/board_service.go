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

type BoardService struct {
	repo   domain.BoardRepository
	runner txn.Runner
	rt     realtime.Publisher
}

func NewBoardService(repo domain.BoardRepository, runner txn.Runner, rt realtime.Publisher) *BoardService {
	return &BoardService{repo: repo, runner: runner, rt: rt}
}

func (s *BoardService) GetAll(ctx context.Context) ([]domain.Board, error) {
	return s.repo.GetAll(ctx)
}

func (s *BoardService) GetByID(ctx context.Context, id uuid.UUID) (*domain.Board, error) {
	return s.repo.GetByID(ctx, id)
}

// Create appends the board at the end of the list.
func (s *BoardService) Create(ctx context.Context, name string) (*domain.Board, error) {
	board, err := composables.InTxResult(ctx, func(txCtx context.Context) (*domain.Board, error) {
		count, err := s.repo.Count(txCtx)
		if err != nil {
			return nil, err
		}
		now := time.Now().UTC()
		b := &domain.Board{
			ID:        uuid.New(),
			Name:      name,
			Position:  count,
			CreatedAt: now,
			UpdatedAt: now,
		}
		return b, s.repo.Create(txCtx, b)
	})
	if err != nil {
		return nil, err
	}
	realtime.FireAndForget(ctx, s.rt, realtime.NewEvent(
		domain.EventBoardCreated,
		domain.BoardEventPayload{ID: board.ID.String(), Name: board.Name},
		tenantID(ctx),
	))
	return board, nil
}

func (s *BoardService) Update(ctx context.Context, id uuid.UUID, name string) (*domain.Board, error) {
	board, err := composables.InTxResult(ctx, func(txCtx context.Context) (*domain.Board, error) {
		b, err := s.repo.GetByID(txCtx, id)
		if err != nil {
			return nil, err
		}
		b.Name = name
		return b, s.repo.Update(txCtx, b)
	})
	if err != nil {
		return nil, err
	}
	realtime.FireAndForget(ctx, s.rt, realtime.NewEvent(
		domain.EventBoardUpdated,
		domain.BoardEventPayload{ID: board.ID.String(), Name: board.Name},
		tenantID(ctx),
	))
	return board, nil
}

// Delete removes the board and renumbers the remaining ones so positions stay
// dense. Both writes ride one runner unit and commit or fail together.
func (s *BoardService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return err
	}
	boards, err := s.repo.GetAll(ctx)
	if err != nil {
		return err
	}
	remaining := make([]domain.Board, 0, len(boards))
	for _, b := range boards {
		if b.ID != id {
			remaining = append(remaining, b)
		}
	}
	updates := ordering.Renumber(domain.OrderingItems(remaining))
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
		domain.EventBoardDeleted,
		domain.BoardEventPayload{ID: id.String()},
		tenantID(ctx),
	))
	return nil
}

// Reorder moves a board to the target position. A move to the current
// position writes nothing and publishes nothing.
func (s *BoardService) Reorder(ctx context.Context, movingID uuid.UUID, target int) error {
	boards, err := s.repo.GetAll(ctx)
	if err != nil {
		return err
	}
	updates, err := ordering.ComputeReorder(domain.OrderingItems(boards), movingID.String(), target)
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
	metrics.Reorders.WithLabelValues("board").Inc()
	realtime.FireAndForget(ctx, s.rt, realtime.NewEvent(
		domain.EventBoardReordered,
		domain.BoardEventPayload{ID: movingID.String()},
		tenantID(ctx),
	))
	return nil
}
