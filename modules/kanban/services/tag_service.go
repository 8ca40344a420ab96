package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/taskwall/taskwall/modules/kanban/domain"
	"github.com/taskwall/taskwall/pkg/composables"
	"github.com/taskwall/taskwall/pkg/realtime"
)

type TagService struct {
	repo domain.TagRepository
	rt   realtime.Publisher
}

func NewTagService(repo domain.TagRepository, rt realtime.Publisher) *TagService {
	return &TagService{repo: repo, rt: rt}
}

func (s *TagService) GetAll(ctx context.Context) ([]domain.Tag, error) {
	return s.repo.GetAll(ctx)
}

func (s *TagService) GetByTask(ctx context.Context, taskID uuid.UUID) ([]domain.Tag, error) {
	return s.repo.GetByTask(ctx, taskID)
}

func (s *TagService) Create(ctx context.Context, name, color string) (*domain.Tag, error) {
	tag := &domain.Tag{
		ID:        uuid.New(),
		Name:      name,
		Color:     color,
		CreatedAt: time.Now().UTC(),
	}
	err := composables.InTx(ctx, func(txCtx context.Context) error {
		return s.repo.Create(txCtx, tag)
	})
	if err != nil {
		return nil, err
	}
	realtime.FireAndForget(ctx, s.rt, realtime.NewEvent(
		domain.EventTagCreated,
		map[string]string{"id": tag.ID.String(), "name": tag.Name},
		tenantID(ctx),
	))
	return tag, nil
}

func (s *TagService) Update(ctx context.Context, id uuid.UUID, name, color string) (*domain.Tag, error) {
	return composables.InTxResult(ctx, func(txCtx context.Context) (*domain.Tag, error) {
		tag, err := s.repo.GetByID(txCtx, id)
		if err != nil {
			return nil, err
		}
		tag.Name = name
		tag.Color = color
		return tag, s.repo.Update(txCtx, tag)
	})
}

func (s *TagService) Delete(ctx context.Context, id uuid.UUID) error {
	err := composables.InTx(ctx, func(txCtx context.Context) error {
		return s.repo.Delete(txCtx, id)
	})
	if err != nil {
		return err
	}
	realtime.FireAndForget(ctx, s.rt, realtime.NewEvent(
		domain.EventTagDeleted,
		map[string]string{"id": id.String()},
		tenantID(ctx),
	))
	return nil
}

func (s *TagService) Attach(ctx context.Context, taskID, tagID uuid.UUID) error {
	return composables.InTx(ctx, func(txCtx context.Context) error {
		return s.repo.Attach(txCtx, taskID, tagID)
	})
}

func (s *TagService) Detach(ctx context.Context, taskID, tagID uuid.UUID) error {
	return composables.InTx(ctx, func(txCtx context.Context) error {
		return s.repo.Detach(txCtx, taskID, tagID)
	})
}
