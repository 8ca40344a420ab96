package persistence

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/google/uuid"

	"github.com/taskwall/taskwall/modules/kanban/domain"
	"github.com/taskwall/taskwall/modules/kanban/infrastructure/persistence/models"
	"github.com/taskwall/taskwall/pkg/composables"
)

type NotificationRepository struct{}

func NewNotificationRepository() domain.NotificationRepository {
	return &NotificationRepository{}
}

func (r *NotificationRepository) GetByUser(ctx context.Context, userID uuid.UUID, unreadOnly bool) ([]domain.Notification, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	query := `SELECT id, user_id, task_id, message, read, created_at FROM notifications WHERE user_id = $1`
	if unreadOnly {
		query += ` AND read = false`
	}
	query += ` ORDER BY created_at DESC`

	rows, err := tx.Query(ctx, query, userID.String())
	if err != nil {
		return nil, errors.Wrap(err, "query notifications")
	}
	defer rows.Close()

	var notifications []domain.Notification
	for rows.Next() {
		var m models.Notification
		if err := rows.Scan(&m.ID, &m.UserID, &m.TaskID, &m.Message, &m.Read, &m.CreatedAt); err != nil {
			return nil, errors.Wrap(err, "scan notification")
		}
		id, err := uuid.Parse(m.ID)
		if err != nil {
			return nil, err
		}
		uid, err := uuid.Parse(m.UserID)
		if err != nil {
			return nil, err
		}
		tid, err := uuid.Parse(m.TaskID)
		if err != nil {
			return nil, err
		}
		notifications = append(notifications, domain.Notification{
			ID:        id,
			UserID:    uid,
			TaskID:    tid,
			Message:   m.Message,
			Read:      m.Read,
			CreatedAt: m.CreatedAt,
		})
	}
	return notifications, rows.Err()
}

func (r *NotificationRepository) Create(ctx context.Context, n *domain.Notification) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}
	_, err = tx.Exec(
		ctx,
		`INSERT INTO notifications (id, user_id, task_id, message, read, created_at) VALUES ($1, $2, $3, $4, $5, $6)`,
		n.ID.String(),
		n.UserID.String(),
		n.TaskID.String(),
		n.Message,
		n.Read,
		n.CreatedAt,
	)
	return errors.Wrap(err, "insert notification")
}

func (r *NotificationRepository) MarkRead(ctx context.Context, userID uuid.UUID, ids []uuid.UUID) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}
	idStrs := make([]string, len(ids))
	for i, id := range ids {
		idStrs[i] = id.String()
	}
	_, err = tx.Exec(
		ctx,
		`UPDATE notifications SET read = true WHERE user_id = $1 AND id = ANY($2)`,
		userID.String(),
		idStrs,
	)
	return errors.Wrap(err, "mark notifications read")
}
