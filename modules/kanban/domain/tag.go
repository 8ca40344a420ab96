package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type Tag struct {
	ID        uuid.UUID
	Name      string
	Color     string
	CreatedAt time.Time
}

type TagRepository interface {
	GetAll(ctx context.Context) ([]Tag, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Tag, error)
	GetByTask(ctx context.Context, taskID uuid.UUID) ([]Tag, error)
	Create(ctx context.Context, tag *Tag) error
	Update(ctx context.Context, tag *Tag) error
	Delete(ctx context.Context, id uuid.UUID) error
	Attach(ctx context.Context, taskID, tagID uuid.UUID) error
	Detach(ctx context.Context, taskID, tagID uuid.UUID) error
}

// Priority is a fixed, seeded lookup; tasks reference it by id.
type Priority struct {
	ID     uuid.UUID
	Name   string
	Weight int
	Color  string
}

type PriorityRepository interface {
	GetAll(ctx context.Context) ([]Priority, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Priority, error)
}

const (
	EventTagCreated = "tag.created"
	EventTagDeleted = "tag.deleted"
)
