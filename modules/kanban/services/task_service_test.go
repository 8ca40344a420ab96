package services_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskwall/taskwall/modules/kanban/domain"
	"github.com/taskwall/taskwall/modules/kanban/services"
	"github.com/taskwall/taskwall/modules/kanban/testkit"
	"github.com/taskwall/taskwall/pkg/eventbus"
	"github.com/taskwall/taskwall/pkg/ordering"
)

func seedTasks(repo *testkit.TaskRepo, boardID, columnID uuid.UUID, n int) []uuid.UUID {
	now := time.Now().UTC()
	ids := make([]uuid.UUID, n)
	for i := 0; i < n; i++ {
		id := uuid.New()
		ids[i] = id
		repo.Tasks = append(repo.Tasks, domain.Task{
			ID:        id,
			BoardID:   boardID,
			ColumnID:  columnID,
			Title:     "task",
			Position:  i,
			CreatedAt: now,
			UpdatedAt: now,
		})
	}
	return ids
}

func TestTaskService_Move_WithinColumn(t *testing.T) {
	repo := &testkit.TaskRepo{}
	boardID, columnID := uuid.New(), uuid.New()
	ids := seedTasks(repo, boardID, columnID, 5)
	runner := &testkit.Runner{}
	pub := &testkit.Publisher{}
	svc := services.NewTaskService(repo, runner, pub, nil)

	require.NoError(t, svc.Move(testkit.TxContext(), ids[1], columnID, 3))

	tasks, err := repo.GetByColumn(testkit.TxContext(), columnID)
	require.NoError(t, err)
	want := []uuid.UUID{ids[0], ids[2], ids[3], ids[1], ids[4]}
	for i, task := range tasks {
		assert.Equal(t, want[i], task.ID)
		assert.Equal(t, i, task.Position)
	}
	assert.Equal(t, []string{domain.EventTaskReordered}, pub.Names())
}

func TestTaskService_Move_AcrossColumns(t *testing.T) {
	repo := &testkit.TaskRepo{}
	boardID := uuid.New()
	src, dst := uuid.New(), uuid.New()
	srcIDs := seedTasks(repo, boardID, src, 3)
	dstIDs := seedTasks(repo, boardID, dst, 2)
	runner := &testkit.Runner{}
	pub := &testkit.Publisher{}
	svc := services.NewTaskService(repo, runner, pub, nil)

	require.NoError(t, svc.Move(testkit.TxContext(), srcIDs[0], dst, 1))

	// All writes rode a single atomic unit.
	assert.Equal(t, 1, runner.Calls)

	remaining, err := repo.GetByColumn(testkit.TxContext(), src)
	require.NoError(t, err)
	require.Len(t, remaining, 2)
	for i, task := range remaining {
		assert.Equal(t, i, task.Position)
	}

	dest, err := repo.GetByColumn(testkit.TxContext(), dst)
	require.NoError(t, err)
	require.Len(t, dest, 3)
	want := []uuid.UUID{dstIDs[0], srcIDs[0], dstIDs[1]}
	for i, task := range dest {
		assert.Equal(t, want[i], task.ID)
		assert.Equal(t, i, task.Position)
	}

	require.Len(t, pub.Events, 1)
	event := pub.Events[0]
	assert.Equal(t, domain.EventTaskMoved, event.Name)
	payload, ok := event.Payload.(domain.TaskEventPayload)
	require.True(t, ok)
	assert.Equal(t, src.String(), payload.FromColumnID)
	assert.Equal(t, dst.String(), payload.ColumnID)
}

func TestTaskService_Move_ToEndOfOtherColumn(t *testing.T) {
	repo := &testkit.TaskRepo{}
	boardID := uuid.New()
	src, dst := uuid.New(), uuid.New()
	srcIDs := seedTasks(repo, boardID, src, 2)
	seedTasks(repo, boardID, dst, 2)
	svc := services.NewTaskService(repo, &testkit.Runner{}, &testkit.Publisher{}, nil)

	// Appending after the last destination task is a valid target.
	require.NoError(t, svc.Move(testkit.TxContext(), srcIDs[1], dst, 2))

	dest, err := repo.GetByColumn(testkit.TxContext(), dst)
	require.NoError(t, err)
	require.Len(t, dest, 3)
	assert.Equal(t, srcIDs[1], dest[2].ID)
}

func TestTaskService_Move_InvalidTarget(t *testing.T) {
	repo := &testkit.TaskRepo{}
	boardID := uuid.New()
	src, dst := uuid.New(), uuid.New()
	srcIDs := seedTasks(repo, boardID, src, 2)
	seedTasks(repo, boardID, dst, 2)
	svc := services.NewTaskService(repo, &testkit.Runner{}, &testkit.Publisher{}, nil)

	assert.ErrorIs(t, svc.Move(testkit.TxContext(), srcIDs[0], dst, 3), ordering.ErrInvalidTarget)
	assert.ErrorIs(t, svc.Move(testkit.TxContext(), srcIDs[0], src, 2), ordering.ErrInvalidTarget)
}

func TestTaskService_Create_AppendsInColumn(t *testing.T) {
	repo := &testkit.TaskRepo{}
	boardID, columnID := uuid.New(), uuid.New()
	seedTasks(repo, boardID, columnID, 2)
	pub := &testkit.Publisher{}
	svc := services.NewTaskService(repo, &testkit.Runner{}, pub, nil)

	task, err := svc.Create(testkit.TxContext(), services.CreateTaskParams{
		BoardID:  boardID,
		ColumnID: columnID,
		Title:    "write release notes",
	})
	require.NoError(t, err)
	assert.Equal(t, 2, task.Position)
	assert.Equal(t, []string{domain.EventTaskCreated}, pub.Names())
}

func TestTaskService_Delete_RenumbersColumn(t *testing.T) {
	repo := &testkit.TaskRepo{}
	boardID, columnID := uuid.New(), uuid.New()
	ids := seedTasks(repo, boardID, columnID, 4)
	runner := &testkit.Runner{}
	pub := &testkit.Publisher{}
	svc := services.NewTaskService(repo, runner, pub, nil)

	require.NoError(t, svc.Delete(testkit.TxContext(), ids[1]))

	tasks, err := repo.GetByColumn(testkit.TxContext(), columnID)
	require.NoError(t, err)
	require.Len(t, tasks, 3)
	for i, task := range tasks {
		assert.Equal(t, i, task.Position)
	}
	assert.Equal(t, 1, runner.Calls)
}

func TestTaskService_Assign_NotifiesAssignee(t *testing.T) {
	taskRepo := &testkit.TaskRepo{}
	boardID, columnID := uuid.New(), uuid.New()
	ids := seedTasks(taskRepo, boardID, columnID, 1)

	bus := eventbus.NewEventPublisher(logrus.New())
	pub := &testkit.Publisher{}
	notificationRepo := &testkit.NotificationRepo{}
	services.NewNotificationService(notificationRepo, pub).Register(bus)
	svc := services.NewTaskService(taskRepo, &testkit.Runner{}, pub, bus)

	assignee := uuid.New()
	task, err := svc.Assign(testkit.TxContext(), ids[0], assignee)
	require.NoError(t, err)
	require.NotNil(t, task.AssigneeID)
	assert.Equal(t, assignee, *task.AssigneeID)

	unread, err := notificationRepo.GetByUser(testkit.TxContext(), assignee, true)
	require.NoError(t, err)
	require.Len(t, unread, 1)
	assert.Equal(t, ids[0], unread[0].TaskID)

	assert.Equal(t, []string{domain.EventTaskAssigned, domain.EventNotificationCreated}, pub.Names())
}

func TestNotificationService_MarkRead(t *testing.T) {
	repo := &testkit.NotificationRepo{}
	svc := services.NewNotificationService(repo, &testkit.Publisher{})

	userID, taskID := uuid.New(), uuid.New()
	n := &domain.Notification{ID: uuid.New(), UserID: userID, TaskID: taskID, Message: "assigned", CreatedAt: time.Now().UTC()}
	require.NoError(t, repo.Create(testkit.TxContext(), n))

	require.NoError(t, svc.MarkRead(testkit.TxContext(), userID, []uuid.UUID{n.ID}))

	unread, err := svc.GetByUser(testkit.TxContext(), userID, true)
	require.NoError(t, err)
	assert.Empty(t, unread)
}
