package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/taskwall/taskwall/modules/kanban/domain"
)

// PriorityService reads the seeded priority lookup.
type PriorityService struct {
	repo domain.PriorityRepository
}

func NewPriorityService(repo domain.PriorityRepository) *PriorityService {
	return &PriorityService{repo: repo}
}

func (s *PriorityService) GetAll(ctx context.Context) ([]domain.Priority, error) {
	return s.repo.GetAll(ctx)
}

func (s *PriorityService) GetByID(ctx context.Context, id uuid.UUID) (*domain.Priority, error) {
	return s.repo.GetByID(ctx, id)
}
