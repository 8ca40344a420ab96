package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type Notification struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	TaskID    uuid.UUID
	Message   string
	Read      bool
	CreatedAt time.Time
}

type NotificationRepository interface {
	GetByUser(ctx context.Context, userID uuid.UUID, unreadOnly bool) ([]Notification, error)
	Create(ctx context.Context, n *Notification) error
	MarkRead(ctx context.Context, userID uuid.UUID, ids []uuid.UUID) error
}

const EventNotificationCreated = "notification.created"

type NotificationEventPayload struct {
	ID     string `json:"id"`
	UserID string `json:"userId"`
	TaskID string `json:"taskId"`
}
