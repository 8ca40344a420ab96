package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/taskwall/taskwall/modules/kanban/domain"
	"github.com/taskwall/taskwall/pkg/composables"
	"github.com/taskwall/taskwall/pkg/eventbus"
	"github.com/taskwall/taskwall/pkg/metrics"
	"github.com/taskwall/taskwall/pkg/ordering"
	"github.com/taskwall/taskwall/pkg/realtime"
	"github.com/taskwall/taskwall/pkg/txn"
)

// CreateTaskParams is the service-level input for new tasks; position is
// assigned by the service.
type CreateTaskParams struct {
	BoardID     uuid.UUID
	ColumnID    uuid.UUID
	Title       string
	Description string
	PriorityID  *uuid.UUID
	AssigneeID  *uuid.UUID
	DueDate     *time.Time
}

// UpdateTaskParams carries the mutable task fields.
type UpdateTaskParams struct {
	Title       string
	Description string
	PriorityID  *uuid.UUID
	DueDate     *time.Time
}

type TaskService struct {
	repo   domain.TaskRepository
	runner txn.Runner
	rt     realtime.Publisher
	bus    eventbus.EventBus
}

func NewTaskService(repo domain.TaskRepository, runner txn.Runner, rt realtime.Publisher, bus eventbus.EventBus) *TaskService {
	return &TaskService{repo: repo, runner: runner, rt: rt, bus: bus}
}

func (s *TaskService) GetByColumn(ctx context.Context, columnID uuid.UUID) ([]domain.Task, error) {
	return s.repo.GetByColumn(ctx, columnID)
}

func (s *TaskService) GetByBoard(ctx context.Context, boardID uuid.UUID) ([]domain.Task, error) {
	return s.repo.GetByBoard(ctx, boardID)
}

func (s *TaskService) GetByID(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *TaskService) Create(ctx context.Context, params CreateTaskParams) (*domain.Task, error) {
	task, err := composables.InTxResult(ctx, func(txCtx context.Context) (*domain.Task, error) {
		count, err := s.repo.CountByColumn(txCtx, params.ColumnID)
		if err != nil {
			return nil, err
		}
		now := time.Now().UTC()
		t := &domain.Task{
			ID:          uuid.New(),
			BoardID:     params.BoardID,
			ColumnID:    params.ColumnID,
			Title:       params.Title,
			Description: params.Description,
			PriorityID:  params.PriorityID,
			AssigneeID:  params.AssigneeID,
			DueDate:     params.DueDate,
			Position:    count,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		return t, s.repo.Create(txCtx, t)
	})
	if err != nil {
		return nil, err
	}
	realtime.FireAndForget(ctx, s.rt, realtime.NewEvent(
		domain.EventTaskCreated,
		taskPayload(task),
		tenantID(ctx),
	))
	if task.AssigneeID != nil {
		s.notifyAssigned(ctx, task)
	}
	return task, nil
}

func (s *TaskService) Update(ctx context.Context, id uuid.UUID, params UpdateTaskParams) (*domain.Task, error) {
	task, err := composables.InTxResult(ctx, func(txCtx context.Context) (*domain.Task, error) {
		t, err := s.repo.GetByID(txCtx, id)
		if err != nil {
			return nil, err
		}
		t.Title = params.Title
		t.Description = params.Description
		t.PriorityID = params.PriorityID
		t.DueDate = params.DueDate
		return t, s.repo.Update(txCtx, t)
	})
	if err != nil {
		return nil, err
	}
	realtime.FireAndForget(ctx, s.rt, realtime.NewEvent(
		domain.EventTaskUpdated,
		taskPayload(task),
		tenantID(ctx),
	))
	return task, nil
}

// Assign sets the assignee and raises the in-process assignment event that
// the notification handler consumes.
func (s *TaskService) Assign(ctx context.Context, id, assigneeID uuid.UUID) (*domain.Task, error) {
	task, err := composables.InTxResult(ctx, func(txCtx context.Context) (*domain.Task, error) {
		t, err := s.repo.GetByID(txCtx, id)
		if err != nil {
			return nil, err
		}
		t.AssigneeID = &assigneeID
		return t, s.repo.Update(txCtx, t)
	})
	if err != nil {
		return nil, err
	}
	realtime.FireAndForget(ctx, s.rt, realtime.NewEvent(
		domain.EventTaskAssigned,
		taskPayload(task),
		tenantID(ctx),
	))
	s.notifyAssigned(ctx, task)
	return task, nil
}

// Delete removes the task and renumbers its column's remaining tasks in the
// same runner unit.
func (s *TaskService) Delete(ctx context.Context, id uuid.UUID) error {
	task, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	siblings, err := s.repo.GetByColumn(ctx, task.ColumnID)
	if err != nil {
		return err
	}
	remaining := make([]domain.Task, 0, len(siblings))
	for _, t := range siblings {
		if t.ID != id {
			remaining = append(remaining, t)
		}
	}
	updates := ordering.Renumber(domain.TaskOrderingItems(remaining))
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
		domain.EventTaskDeleted,
		taskPayload(task),
		tenantID(ctx),
	))
	return nil
}

// Move places the task at target within columnID. Within the current column
// this is a reorder; across columns the destination siblings shift up, the
// source siblings are renumbered, and all writes commit as one unit.
func (s *TaskService) Move(ctx context.Context, taskID, columnID uuid.UUID, target int) error {
	task, err := s.repo.GetByID(ctx, taskID)
	if err != nil {
		return err
	}
	if task.ColumnID == columnID {
		return s.reorderWithin(ctx, task, target)
	}

	dest, err := s.repo.GetByColumn(ctx, columnID)
	if err != nil {
		return err
	}
	destUpdates, err := ordering.ComputeInsert(domain.TaskOrderingItems(dest), target)
	if err != nil {
		return err
	}
	siblings, err := s.repo.GetByColumn(ctx, task.ColumnID)
	if err != nil {
		return err
	}
	remaining := make([]domain.Task, 0, len(siblings))
	for _, t := range siblings {
		if t.ID != task.ID {
			remaining = append(remaining, t)
		}
	}
	srcUpdates := ordering.Renumber(domain.TaskOrderingItems(remaining))

	err = s.runner.RunTx(ctx, func(c context.Context, sc txn.Scope) error {
		if err := s.repo.MoveToColumn(c, sc, task.ID, columnID, target); err != nil {
			return err
		}
		if err := s.repo.UpdatePositions(c, sc, destUpdates); err != nil {
			return err
		}
		return s.repo.UpdatePositions(c, sc, srcUpdates)
	})
	if err != nil {
		return err
	}
	metrics.Reorders.WithLabelValues("task").Inc()
	realtime.FireAndForget(ctx, s.rt, realtime.NewEvent(
		domain.EventTaskMoved,
		domain.TaskEventPayload{
			ID:           task.ID.String(),
			BoardID:      task.BoardID.String(),
			ColumnID:     columnID.String(),
			FromColumnID: task.ColumnID.String(),
			Title:        task.Title,
		},
		tenantID(ctx),
	))
	return nil
}

func (s *TaskService) reorderWithin(ctx context.Context, task *domain.Task, target int) error {
	siblings, err := s.repo.GetByColumn(ctx, task.ColumnID)
	if err != nil {
		return err
	}
	updates, err := ordering.ComputeReorder(domain.TaskOrderingItems(siblings), task.ID.String(), target)
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
	metrics.Reorders.WithLabelValues("task").Inc()
	realtime.FireAndForget(ctx, s.rt, realtime.NewEvent(
		domain.EventTaskReordered,
		taskPayload(task),
		tenantID(ctx),
	))
	return nil
}

func (s *TaskService) notifyAssigned(ctx context.Context, task *domain.Task) {
	if s.bus == nil || task.AssigneeID == nil {
		return
	}
	s.bus.Publish(ctx, domain.TaskAssigned{
		TaskID:     task.ID,
		BoardID:    task.BoardID,
		AssigneeID: *task.AssigneeID,
		Title:      task.Title,
	})
}

func taskPayload(t *domain.Task) domain.TaskEventPayload {
	return domain.TaskEventPayload{
		ID:       t.ID.String(),
		BoardID:  t.BoardID.String(),
		ColumnID: t.ColumnID.String(),
		Title:    t.Title,
	}
}
