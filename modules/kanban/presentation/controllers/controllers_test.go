package controllers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskwall/taskwall/modules/kanban/domain"
	"github.com/taskwall/taskwall/modules/kanban/presentation/controllers"
	"github.com/taskwall/taskwall/modules/kanban/services"
	"github.com/taskwall/taskwall/modules/kanban/testkit"
	"github.com/taskwall/taskwall/pkg/application"
	"github.com/taskwall/taskwall/pkg/composables"
)

func newHandler(cs ...application.Controller) http.Handler {
	router := mux.NewRouter()
	for _, c := range cs {
		c.Register(router)
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := composables.WithTx(r.Context(), &testkit.StubTx{})
		router.ServeHTTP(w, r.WithContext(ctx))
	})
}

func doJSON(t *testing.T, handler http.Handler, method, path string, body any, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func seedBoardRepo(n int) *testkit.BoardRepo {
	repo := &testkit.BoardRepo{}
	now := time.Now().UTC()
	for i := 0; i < n; i++ {
		repo.Boards = append(repo.Boards, domain.Board{
			ID: uuid.New(), Name: "board", Position: i, CreatedAt: now, UpdatedAt: now,
		})
	}
	return repo
}

func TestBoardsController_CRUD(t *testing.T) {
	repo := seedBoardRepo(2)
	svc := services.NewBoardService(repo, &testkit.Runner{}, &testkit.Publisher{})
	handler := newHandler(controllers.NewBoardsController(svc))

	rec := doJSON(t, handler, http.MethodGet, "/boards", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var list []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	assert.Len(t, list, 2)

	rec = doJSON(t, handler, http.MethodPost, "/boards", map[string]string{"name": "roadmap"}, nil)
	require.Equal(t, http.StatusCreated, rec.Code)
	var created map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.Equal(t, "roadmap", created["name"])
	assert.EqualValues(t, 2, created["position"])

	rec = doJSON(t, handler, http.MethodPost, "/boards", map[string]string{}, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = doJSON(t, handler, http.MethodGet, "/boards/"+uuid.NewString(), nil, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestBoardsController_Reorder(t *testing.T) {
	repo := seedBoardRepo(4)
	svc := services.NewBoardService(repo, &testkit.Runner{}, &testkit.Publisher{})
	handler := newHandler(controllers.NewBoardsController(svc))

	moving := repo.Boards[3].ID.String()
	rec := doJSON(t, handler, http.MethodPost, "/boards/reorder", controllers.ReorderRequest{
		MovingID: moving, TargetPosition: 0,
	}, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	boards, err := repo.GetAll(testkit.TxContext())
	require.NoError(t, err)
	assert.Equal(t, moving, boards[0].ID.String())
}

func TestBoardsController_Reorder_Errors(t *testing.T) {
	repo := seedBoardRepo(3)
	svc := services.NewBoardService(repo, &testkit.Runner{}, &testkit.Publisher{})
	handler := newHandler(controllers.NewBoardsController(svc))

	rec := doJSON(t, handler, http.MethodPost, "/boards/reorder", controllers.ReorderRequest{
		MovingID: uuid.NewString(), TargetPosition: 0,
	}, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = doJSON(t, handler, http.MethodPost, "/boards/reorder", controllers.ReorderRequest{
		MovingID: repo.Boards[0].ID.String(), TargetPosition: 99,
	}, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = doJSON(t, handler, http.MethodPost, "/boards/reorder", controllers.ReorderRequest{
		MovingID: "not-a-uuid", TargetPosition: 0,
	}, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestTasksController_ReorderAcrossColumns(t *testing.T) {
	boardID := uuid.New()
	src, dst := uuid.New(), uuid.New()
	taskRepo := &testkit.TaskRepo{}
	now := time.Now().UTC()
	var srcIDs []uuid.UUID
	for i := 0; i < 3; i++ {
		id := uuid.New()
		srcIDs = append(srcIDs, id)
		taskRepo.Tasks = append(taskRepo.Tasks, domain.Task{
			ID: id, BoardID: boardID, ColumnID: src, Title: "task", Position: i, CreatedAt: now, UpdatedAt: now,
		})
	}

	columnRepo := &testkit.ColumnRepo{Columns: []domain.Column{
		{ID: src, BoardID: boardID, Name: "todo", CreatedAt: now, UpdatedAt: now},
		{ID: dst, BoardID: boardID, Name: "doing", Position: 1, CreatedAt: now, UpdatedAt: now},
	}}

	taskSvc := services.NewTaskService(taskRepo, &testkit.Runner{}, &testkit.Publisher{}, nil)
	columnSvc := services.NewColumnService(columnRepo, &testkit.Runner{}, &testkit.Publisher{})
	tagSvc := services.NewTagService(&testkit.TagRepo{}, &testkit.Publisher{})
	handler := newHandler(controllers.NewTasksController(taskSvc, columnSvc, tagSvc))

	rec := doJSON(t, handler, http.MethodPost, "/tasks/reorder", controllers.ReorderRequest{
		MovingID: srcIDs[0].String(), TargetPosition: 0, ScopeID: dst.String(),
	}, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	moved, err := taskRepo.GetByID(testkit.TxContext(), srcIDs[0])
	require.NoError(t, err)
	assert.Equal(t, dst, moved.ColumnID)
	assert.Zero(t, moved.Position)
}

func TestTasksController_CreateDerivesBoard(t *testing.T) {
	boardID, columnID := uuid.New(), uuid.New()
	now := time.Now().UTC()
	columnRepo := &testkit.ColumnRepo{Columns: []domain.Column{
		{ID: columnID, BoardID: boardID, Name: "todo", CreatedAt: now, UpdatedAt: now},
	}}
	taskRepo := &testkit.TaskRepo{}

	taskSvc := services.NewTaskService(taskRepo, &testkit.Runner{}, &testkit.Publisher{}, nil)
	columnSvc := services.NewColumnService(columnRepo, &testkit.Runner{}, &testkit.Publisher{})
	tagSvc := services.NewTagService(&testkit.TagRepo{}, &testkit.Publisher{})
	handler := newHandler(controllers.NewTasksController(taskSvc, columnSvc, tagSvc))

	rec := doJSON(t, handler, http.MethodPost, "/columns/"+columnID.String()+"/tasks", map[string]string{
		"title": "ship it",
	}, nil)
	require.Equal(t, http.StatusCreated, rec.Code)

	var created map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.Equal(t, boardID.String(), created["boardId"])

	rec = doJSON(t, handler, http.MethodPost, "/columns/"+uuid.NewString()+"/tasks", map[string]string{
		"title": "orphan",
	}, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestNotificationsController_RequiresUser(t *testing.T) {
	svc := services.NewNotificationService(&testkit.NotificationRepo{}, &testkit.Publisher{})
	handler := newHandler(controllers.NewNotificationsController(svc))

	rec := doJSON(t, handler, http.MethodGet, "/notifications", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	userID := uuid.New()
	rec = doJSON(t, handler, http.MethodGet, "/notifications?unread=true", nil, map[string]string{
		controllers.UserIDHeader: userID.String(),
	})
	require.Equal(t, http.StatusOK, rec.Code)
}
