package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/taskwall/taskwall/modules/kanban/domain"
	"github.com/taskwall/taskwall/pkg/composables"
	"github.com/taskwall/taskwall/pkg/eventbus"
	"github.com/taskwall/taskwall/pkg/realtime"
)

type NotificationService struct {
	repo domain.NotificationRepository
	rt   realtime.Publisher
}

func NewNotificationService(repo domain.NotificationRepository, rt realtime.Publisher) *NotificationService {
	return &NotificationService{repo: repo, rt: rt}
}

// Register subscribes the assignment handler on the in-process bus.
func (s *NotificationService) Register(bus eventbus.EventBus) {
	bus.Subscribe(s.onTaskAssigned)
}

func (s *NotificationService) GetByUser(ctx context.Context, userID uuid.UUID, unreadOnly bool) ([]domain.Notification, error) {
	return s.repo.GetByUser(ctx, userID, unreadOnly)
}

func (s *NotificationService) MarkRead(ctx context.Context, userID uuid.UUID, ids []uuid.UUID) error {
	return composables.InTx(ctx, func(txCtx context.Context) error {
		return s.repo.MarkRead(txCtx, userID, ids)
	})
}

// onTaskAssigned records an unread notification for the assignee. The
// assignment itself is already committed, so failures here are logged and
// never surfaced to the request.
func (s *NotificationService) onTaskAssigned(ctx context.Context, e domain.TaskAssigned) {
	n := &domain.Notification{
		ID:        uuid.New(),
		UserID:    e.AssigneeID,
		TaskID:    e.TaskID,
		Message:   fmt.Sprintf("You were assigned to %q", e.Title),
		CreatedAt: time.Now().UTC(),
	}
	err := composables.InTx(ctx, func(txCtx context.Context) error {
		return s.repo.Create(txCtx, n)
	})
	if err != nil {
		composables.UseLogger(ctx).WithError(err).Error("record assignment notification")
		return
	}
	realtime.FireAndForget(ctx, s.rt, realtime.NewEvent(
		domain.EventNotificationCreated,
		domain.NotificationEventPayload{
			ID:     n.ID.String(),
			UserID: n.UserID.String(),
			TaskID: n.TaskID.String(),
		},
		tenantID(ctx),
	))
}
