// Package testkit provides in-memory repository and transport fakes for the
// kanban service and controller tests. State mutations ignore the
// transaction scope: the fakes model a store that always applies what it is
// told, while the Runner fake models the atomic unit around it.
package testkit

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/taskwall/taskwall/modules/kanban/domain"
	"github.com/taskwall/taskwall/modules/kanban/infrastructure/persistence"
	"github.com/taskwall/taskwall/pkg/composables"
	"github.com/taskwall/taskwall/pkg/ordering"
	"github.com/taskwall/taskwall/pkg/realtime"
	"github.com/taskwall/taskwall/pkg/txn"
)

// StubTx satisfies pgx.Tx so composables.InTx joins it instead of dialing a
// database.
type StubTx struct{}

func (t *StubTx) Begin(ctx context.Context) (pgx.Tx, error) { return t, nil }
func (t *StubTx) Commit(ctx context.Context) error          { return nil }
func (t *StubTx) Rollback(ctx context.Context) error        { return nil }
func (t *StubTx) CopyFrom(ctx context.Context, tableName pgx.Identifier, columnNames []string, rowSrc pgx.CopyFromSource) (int64, error) {
	return 0, nil
}
func (t *StubTx) SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults { return nil }
func (t *StubTx) LargeObjects() pgx.LargeObjects                               { return pgx.LargeObjects{} }
func (t *StubTx) Prepare(ctx context.Context, name, sql string) (*pgconn.StatementDescription, error) {
	return nil, nil
}
func (t *StubTx) Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error) {
	return pgconn.CommandTag{}, nil
}
func (t *StubTx) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	return nil, nil
}
func (t *StubTx) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row { return nil }
func (t *StubTx) Conn() *pgx.Conn                                               { return nil }

// TxContext returns a context carrying a joinable stub transaction.
func TxContext() context.Context {
	return composables.WithTx(context.Background(), &StubTx{})
}

type NopScope struct{}

func (NopScope) Exec(ctx context.Context, query string, args ...any) error { return nil }

// Runner invokes the work callback directly. A configured failure simulates
// an aborted unit: the work never runs, so nothing is applied.
type Runner struct {
	Calls    int
	FailWith error
}

func (r *Runner) RunTx(ctx context.Context, work func(ctx context.Context, s txn.Scope) error) error {
	if r.FailWith != nil {
		return r.FailWith
	}
	r.Calls++
	return work(ctx, NopScope{})
}

type Publisher struct {
	mu     sync.Mutex
	Events []realtime.Event
	Err    error
}

func (p *Publisher) Publish(ctx context.Context, event realtime.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.Err != nil {
		return p.Err
	}
	p.Events = append(p.Events, event)
	return nil
}

func (p *Publisher) Names() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.Events))
	for i, e := range p.Events {
		out[i] = e.Name
	}
	return out
}

type BoardRepo struct {
	Boards []domain.Board
}

func (r *BoardRepo) GetAll(ctx context.Context) ([]domain.Board, error) {
	out := make([]domain.Board, len(r.Boards))
	copy(out, r.Boards)
	sort.Slice(out, func(i, j int) bool {
		if out[i].Position != out[j].Position {
			return out[i].Position < out[j].Position
		}
		return out[i].ID.String() < out[j].ID.String()
	})
	return out, nil
}

func (r *BoardRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Board, error) {
	for i := range r.Boards {
		if r.Boards[i].ID == id {
			b := r.Boards[i]
			return &b, nil
		}
	}
	return nil, persistence.ErrBoardNotFound
}

func (r *BoardRepo) Create(ctx context.Context, board *domain.Board) error {
	r.Boards = append(r.Boards, *board)
	return nil
}

func (r *BoardRepo) Update(ctx context.Context, board *domain.Board) error {
	for i := range r.Boards {
		if r.Boards[i].ID == board.ID {
			r.Boards[i] = *board
			return nil
		}
	}
	return persistence.ErrBoardNotFound
}

func (r *BoardRepo) Delete(ctx context.Context, s txn.Scope, id uuid.UUID) error {
	for i := range r.Boards {
		if r.Boards[i].ID == id {
			r.Boards = append(r.Boards[:i], r.Boards[i+1:]...)
			return nil
		}
	}
	return persistence.ErrBoardNotFound
}

func (r *BoardRepo) Count(ctx context.Context) (int, error) {
	return len(r.Boards), nil
}

func (r *BoardRepo) UpdatePositions(ctx context.Context, s txn.Scope, updates []ordering.Update) error {
	for _, u := range updates {
		for i := range r.Boards {
			if r.Boards[i].ID.String() == u.ID {
				r.Boards[i].Position = u.NewPosition
			}
		}
	}
	return nil
}

func (r *BoardRepo) Positions() map[string]int {
	out := make(map[string]int, len(r.Boards))
	for _, b := range r.Boards {
		out[b.ID.String()] = b.Position
	}
	return out
}

type ColumnRepo struct {
	Columns []domain.Column
}

func (r *ColumnRepo) GetByBoard(ctx context.Context, boardID uuid.UUID) ([]domain.Column, error) {
	var out []domain.Column
	for _, c := range r.Columns {
		if c.BoardID == boardID {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Position != out[j].Position {
			return out[i].Position < out[j].Position
		}
		return out[i].ID.String() < out[j].ID.String()
	})
	return out, nil
}

func (r *ColumnRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Column, error) {
	for i := range r.Columns {
		if r.Columns[i].ID == id {
			c := r.Columns[i]
			return &c, nil
		}
	}
	return nil, persistence.ErrColumnNotFound
}

func (r *ColumnRepo) Create(ctx context.Context, column *domain.Column) error {
	r.Columns = append(r.Columns, *column)
	return nil
}

func (r *ColumnRepo) Update(ctx context.Context, column *domain.Column) error {
	for i := range r.Columns {
		if r.Columns[i].ID == column.ID {
			r.Columns[i] = *column
			return nil
		}
	}
	return persistence.ErrColumnNotFound
}

func (r *ColumnRepo) Delete(ctx context.Context, s txn.Scope, id uuid.UUID) error {
	for i := range r.Columns {
		if r.Columns[i].ID == id {
			r.Columns = append(r.Columns[:i], r.Columns[i+1:]...)
			return nil
		}
	}
	return persistence.ErrColumnNotFound
}

func (r *ColumnRepo) CountByBoard(ctx context.Context, boardID uuid.UUID) (int, error) {
	count := 0
	for _, c := range r.Columns {
		if c.BoardID == boardID {
			count++
		}
	}
	return count, nil
}

func (r *ColumnRepo) UpdatePositions(ctx context.Context, s txn.Scope, updates []ordering.Update) error {
	for _, u := range updates {
		for i := range r.Columns {
			if r.Columns[i].ID.String() == u.ID {
				r.Columns[i].Position = u.NewPosition
			}
		}
	}
	return nil
}

type TaskRepo struct {
	Tasks []domain.Task
}

func (r *TaskRepo) GetByColumn(ctx context.Context, columnID uuid.UUID) ([]domain.Task, error) {
	var out []domain.Task
	for _, t := range r.Tasks {
		if t.ColumnID == columnID {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Position != out[j].Position {
			return out[i].Position < out[j].Position
		}
		return out[i].ID.String() < out[j].ID.String()
	})
	return out, nil
}

func (r *TaskRepo) GetByBoard(ctx context.Context, boardID uuid.UUID) ([]domain.Task, error) {
	var out []domain.Task
	for _, t := range r.Tasks {
		if t.BoardID == boardID {
			out = append(out, t)
		}
	}
	return out, nil
}

func (r *TaskRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
	for i := range r.Tasks {
		if r.Tasks[i].ID == id {
			t := r.Tasks[i]
			return &t, nil
		}
	}
	return nil, persistence.ErrTaskNotFound
}

func (r *TaskRepo) Create(ctx context.Context, task *domain.Task) error {
	r.Tasks = append(r.Tasks, *task)
	return nil
}

func (r *TaskRepo) Update(ctx context.Context, task *domain.Task) error {
	for i := range r.Tasks {
		if r.Tasks[i].ID == task.ID {
			r.Tasks[i] = *task
			return nil
		}
	}
	return persistence.ErrTaskNotFound
}

func (r *TaskRepo) Delete(ctx context.Context, s txn.Scope, id uuid.UUID) error {
	for i := range r.Tasks {
		if r.Tasks[i].ID == id {
			r.Tasks = append(r.Tasks[:i], r.Tasks[i+1:]...)
			return nil
		}
	}
	return persistence.ErrTaskNotFound
}

func (r *TaskRepo) CountByColumn(ctx context.Context, columnID uuid.UUID) (int, error) {
	count := 0
	for _, t := range r.Tasks {
		if t.ColumnID == columnID {
			count++
		}
	}
	return count, nil
}

func (r *TaskRepo) UpdatePositions(ctx context.Context, s txn.Scope, updates []ordering.Update) error {
	for _, u := range updates {
		for i := range r.Tasks {
			if r.Tasks[i].ID.String() == u.ID {
				r.Tasks[i].Position = u.NewPosition
			}
		}
	}
	return nil
}

func (r *TaskRepo) MoveToColumn(ctx context.Context, s txn.Scope, taskID, columnID uuid.UUID, position int) error {
	for i := range r.Tasks {
		if r.Tasks[i].ID == taskID {
			r.Tasks[i].ColumnID = columnID
			r.Tasks[i].Position = position
			return nil
		}
	}
	return persistence.ErrTaskNotFound
}

type TagRepo struct {
	Tags     []domain.Tag
	Attached map[uuid.UUID][]uuid.UUID
}

func (r *TagRepo) GetAll(ctx context.Context) ([]domain.Tag, error) {
	out := make([]domain.Tag, len(r.Tags))
	copy(out, r.Tags)
	return out, nil
}

func (r *TagRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Tag, error) {
	for i := range r.Tags {
		if r.Tags[i].ID == id {
			t := r.Tags[i]
			return &t, nil
		}
	}
	return nil, persistence.ErrTagNotFound
}

func (r *TagRepo) GetByTask(ctx context.Context, taskID uuid.UUID) ([]domain.Tag, error) {
	var out []domain.Tag
	for _, tagID := range r.Attached[taskID] {
		if tag, err := r.GetByID(ctx, tagID); err == nil {
			out = append(out, *tag)
		}
	}
	return out, nil
}

func (r *TagRepo) Create(ctx context.Context, tag *domain.Tag) error {
	r.Tags = append(r.Tags, *tag)
	return nil
}

func (r *TagRepo) Update(ctx context.Context, tag *domain.Tag) error {
	for i := range r.Tags {
		if r.Tags[i].ID == tag.ID {
			r.Tags[i] = *tag
			return nil
		}
	}
	return persistence.ErrTagNotFound
}

func (r *TagRepo) Delete(ctx context.Context, id uuid.UUID) error {
	for i := range r.Tags {
		if r.Tags[i].ID == id {
			r.Tags = append(r.Tags[:i], r.Tags[i+1:]...)
			return nil
		}
	}
	return persistence.ErrTagNotFound
}

func (r *TagRepo) Attach(ctx context.Context, taskID, tagID uuid.UUID) error {
	if r.Attached == nil {
		r.Attached = make(map[uuid.UUID][]uuid.UUID)
	}
	for _, existing := range r.Attached[taskID] {
		if existing == tagID {
			return nil
		}
	}
	r.Attached[taskID] = append(r.Attached[taskID], tagID)
	return nil
}

func (r *TagRepo) Detach(ctx context.Context, taskID, tagID uuid.UUID) error {
	attached := r.Attached[taskID]
	for i, existing := range attached {
		if existing == tagID {
			r.Attached[taskID] = append(attached[:i], attached[i+1:]...)
			return nil
		}
	}
	return nil
}

type NotificationRepo struct {
	Notifications []domain.Notification
}

func (r *NotificationRepo) GetByUser(ctx context.Context, userID uuid.UUID, unreadOnly bool) ([]domain.Notification, error) {
	var out []domain.Notification
	for _, n := range r.Notifications {
		if n.UserID != userID {
			continue
		}
		if unreadOnly && n.Read {
			continue
		}
		out = append(out, n)
	}
	return out, nil
}

func (r *NotificationRepo) Create(ctx context.Context, n *domain.Notification) error {
	r.Notifications = append(r.Notifications, *n)
	return nil
}

func (r *NotificationRepo) MarkRead(ctx context.Context, userID uuid.UUID, ids []uuid.UUID) error {
	for _, id := range ids {
		for i := range r.Notifications {
			if r.Notifications[i].UserID == userID && r.Notifications[i].ID == id {
				r.Notifications[i].Read = true
			}
		}
	}
	return nil
}
