package data

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	httpClient "github.com/iudanet/famboard/internal/client/api"
	"github.com/iudanet/famboard/internal/client/storage"
	"github.com/iudanet/famboard/internal/client/storage/boltdb"
	"github.com/iudanet/famboard/internal/models"
	"github.com/iudanet/famboard/pkg/api"
)

type notifierSpy struct {
	count int
}

func (n *notifierSpy) NotifyLocalChange() { n.count++ }

func newServiceFixture(t *testing.T, apiMock *httpClient.ClientAPIMock) (*Service, *boltdb.Storage, *notifierSpy) {
	t.Helper()

	store, err := boltdb.New(context.Background(), filepath.Join(t.TempDir(), "testdb.db"))
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, store.Close())
	})

	notifier := &notifierSpy{}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := NewService(store, store, apiMock, notifier, logger)

	return svc, store, notifier
}

func TestCreateTask(t *testing.T) {
	svc, store, notifier := newServiceFixture(t, &httpClient.ClientAPIMock{})
	ctx := context.Background()

	record, err := svc.CreateTask(ctx, &models.Task{Title: "Take out trash", Assignee: "kid1"})
	require.NoError(t, err)
	assert.NotEmpty(t, record.ID)
	assert.Equal(t, int64(1), record.Version)
	assert.True(t, record.Dirty)

	// Статус по умолчанию - open
	task, err := svc.GetTask(ctx, record.ID)
	require.NoError(t, err)
	assert.Equal(t, models.TaskStatusOpen, task.Status)

	// Операция встала в очередь, уведомление отправлено
	ops, err := store.Load(ctx)
	require.NoError(t, err)
	require.Len(t, ops, 1)
	assert.Equal(t, models.OperationCreate, ops[0].Kind)
	assert.Equal(t, record.ID, ops[0].EntityID)
	assert.Equal(t, 1, notifier.count)
}

func TestUpdateTask_CapturesBase(t *testing.T) {
	svc, store, _ := newServiceFixture(t, &httpClient.ClientAPIMock{})
	ctx := context.Background()

	record, err := svc.CreateTask(ctx, &models.Task{Title: "Old title"})
	require.NoError(t, err)

	// Имитируем завершенную синхронизацию: запись clean
	_, err = store.MarkClean(ctx, models.EntityTypeTask, record.ID, record.UpdatedAt)
	require.NoError(t, err)

	task, err := svc.GetTask(ctx, record.ID)
	require.NoError(t, err)
	task.Title = "New title"
	require.NoError(t, svc.UpdateTask(ctx, task))

	// Базовый снимок зафиксирован при переходе clean -> dirty
	updated, err := store.Get(ctx, models.EntityTypeTask, record.ID)
	require.NoError(t, err)
	assert.True(t, updated.Dirty)
	assert.Equal(t, "New title", updated.Fields["title"])
	assert.Equal(t, "Old title", updated.BaseFields["title"])
}

func TestUpdateTask_NotFound(t *testing.T) {
	svc, _, _ := newServiceFixture(t, &httpClient.ClientAPIMock{})

	err := svc.UpdateTask(context.Background(), &models.Task{ID: "missing", Title: "X"})
	assert.ErrorIs(t, err, storage.ErrRecordNotFound)
}

func TestCompleteTask(t *testing.T) {
	svc, _, _ := newServiceFixture(t, &httpClient.ClientAPIMock{})
	ctx := context.Background()

	record, err := svc.CreateTask(ctx, &models.Task{Title: "Homework"})
	require.NoError(t, err)

	require.NoError(t, svc.CompleteTask(ctx, record.ID))

	task, err := svc.GetTask(ctx, record.ID)
	require.NoError(t, err)
	assert.Equal(t, models.TaskStatusDone, task.Status)
}

func TestDelete_SyncedRecord(t *testing.T) {
	svc, store, _ := newServiceFixture(t, &httpClient.ClientAPIMock{})
	ctx := context.Background()

	record, err := svc.CreateTask(ctx, &models.Task{Title: "Homework"})
	require.NoError(t, err)

	// Имитируем завершенную синхронизацию: запись clean, очередь пуста
	_, err = store.MarkClean(ctx, models.EntityTypeTask, record.ID, record.UpdatedAt)
	require.NoError(t, err)
	require.NoError(t, store.Clear(ctx))

	require.NoError(t, svc.Delete(ctx, models.EntityTypeTask, record.ID))

	// Soft delete: запись осталась с пометкой, в очереди delete операция
	deleted, err := store.Get(ctx, models.EntityTypeTask, record.ID)
	require.NoError(t, err)
	assert.True(t, deleted.Deleted)
	assert.True(t, deleted.Dirty)

	ops, err := store.Load(ctx)
	require.NoError(t, err)
	require.Len(t, ops, 1)
	assert.Equal(t, models.OperationDelete, ops[0].Kind)
	assert.Equal(t, true, ops[0].Fields[models.FieldDeleted])
}

func TestDelete_CancelsUnsyncedCreate(t *testing.T) {
	svc, store, _ := newServiceFixture(t, &httpClient.ClientAPIMock{})
	ctx := context.Background()

	record, err := svc.CreateTask(ctx, &models.Task{Title: "Oops"})
	require.NoError(t, err)

	// Create еще не улетал: delete аннулирует обе операции и запись
	require.NoError(t, svc.Delete(ctx, models.EntityTypeTask, record.ID))

	count, err := store.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, count)

	_, err = store.Get(ctx, models.EntityTypeTask, record.ID)
	assert.ErrorIs(t, err, storage.ErrRecordNotFound)
}

func TestGetTask_DeletedHidden(t *testing.T) {
	svc, store, _ := newServiceFixture(t, &httpClient.ClientAPIMock{})
	ctx := context.Background()

	record, err := svc.CreateTask(ctx, &models.Task{Title: "Homework"})
	require.NoError(t, err)

	_, err = store.MarkClean(ctx, models.EntityTypeTask, record.ID, record.UpdatedAt)
	require.NoError(t, err)
	require.NoError(t, svc.Delete(ctx, models.EntityTypeTask, record.ID))

	_, err = svc.GetTask(ctx, record.ID)
	assert.ErrorIs(t, err, storage.ErrRecordNotFound)
}

func TestListTasksByStatus(t *testing.T) {
	svc, _, _ := newServiceFixture(t, &httpClient.ClientAPIMock{})
	ctx := context.Background()

	_, err := svc.CreateTask(ctx, &models.Task{Title: "A"})
	require.NoError(t, err)
	done, err := svc.CreateTask(ctx, &models.Task{Title: "B"})
	require.NoError(t, err)
	require.NoError(t, svc.CompleteTask(ctx, done.ID))

	tasks, err := svc.ListTasksByStatus(ctx, models.TaskStatusDone)
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, "B", tasks[0].Title)
}

func TestCreateEventAndPoints(t *testing.T) {
	svc, _, _ := newServiceFixture(t, &httpClient.ClientAPIMock{})
	ctx := context.Background()

	_, err := svc.CreateEvent(ctx, &models.Event{Title: "Dentist", Location: "Main St"})
	require.NoError(t, err)

	_, err = svc.AddPoints(ctx, &models.PointTransaction{MemberID: "kid1", Amount: 5, Reason: "Trash duty"})
	require.NoError(t, err)

	events, err := svc.ListEvents(ctx)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "Dentist", events[0].Title)

	txns, err := svc.ListPointTransactions(ctx)
	require.NoError(t, err)
	require.Len(t, txns, 1)
	assert.Equal(t, int64(5), txns[0].Amount)
	// GrantedAt проставляется при создании
	assert.False(t, txns[0].GrantedAt.IsZero())
}

func TestRefresh(t *testing.T) {
	apiMock := &httpClient.ClientAPIMock{
		GetEntityFunc: func(ctx context.Context, entityType models.EntityType, id string) (*api.EntityResponse, error) {
			return &api.EntityResponse{
				Data:     map[string]any{"id": id, "title": "Server title", "status": "open"},
				EntityID: id,
				Version:  4,
			}, nil
		},
	}
	svc, store, _ := newServiceFixture(t, apiMock)
	ctx := context.Background()

	require.NoError(t, svc.Refresh(ctx, models.EntityTypeTask, "task-1"))

	record, err := store.Get(ctx, models.EntityTypeTask, "task-1")
	require.NoError(t, err)
	assert.Equal(t, "Server title", record.Fields["title"])
	assert.Equal(t, int64(4), record.Version)
	assert.False(t, record.Dirty)
}

func TestRefresh_NeverClobbersDirty(t *testing.T) {
	apiMock := &httpClient.ClientAPIMock{
		GetEntityFunc: func(ctx context.Context, entityType models.EntityType, id string) (*api.EntityResponse, error) {
			return &api.EntityResponse{
				Data:     map[string]any{"id": id, "title": "Server title"},
				EntityID: id,
				Version:  4,
			}, nil
		},
	}
	svc, store, _ := newServiceFixture(t, apiMock)
	ctx := context.Background()

	record, err := svc.CreateTask(ctx, &models.Task{Title: "Local title"})
	require.NoError(t, err)

	require.NoError(t, svc.Refresh(ctx, models.EntityTypeTask, record.ID))

	// Dirty запись не перезаписывается разовым обновлением
	got, err := store.Get(ctx, models.EntityTypeTask, record.ID)
	require.NoError(t, err)
	assert.True(t, got.Dirty)
	assert.Equal(t, "Local title", got.Fields["title"])
}
