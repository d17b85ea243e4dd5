package boltdb

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/famboard/internal/client/storage"
	"github.com/iudanet/famboard/internal/models"
)

// testRecord создает запись задачи с заданными полями
func testRecord(id string, dirty bool, fields map[string]any) *models.Record {
	if fields == nil {
		fields = map[string]any{
			"id":     id,
			"title":  "Take out trash",
			"status": "open",
		}
	}
	return &models.Record{
		UpdatedAt: time.Now().UTC(),
		Fields:    fields,
		ID:        id,
		Type:      models.EntityTypeTask,
		Version:   1,
		Dirty:     dirty,
	}
}

func TestPutGet(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	record := testRecord("task-1", true, nil)
	require.NoError(t, store.Put(ctx, record))

	got, err := store.Get(ctx, models.EntityTypeTask, "task-1")
	require.NoError(t, err)
	assert.Equal(t, "task-1", got.ID)
	assert.Equal(t, models.EntityTypeTask, got.Type)
	assert.Equal(t, int64(1), got.Version)
	assert.True(t, got.Dirty)
	assert.Equal(t, "Take out trash", got.Fields["title"])
}

func TestGet_NotFound(t *testing.T) {
	store := newTestStorage(t)

	_, err := store.Get(context.Background(), models.EntityTypeTask, "missing")
	assert.ErrorIs(t, err, storage.ErrRecordNotFound)
}

func TestGetAll_SkipsDeleted(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, testRecord("task-1", false, nil)))
	require.NoError(t, store.Put(ctx, testRecord("task-2", false, nil)))
	require.NoError(t, store.Delete(ctx, models.EntityTypeTask, "task-2"))

	records, err := store.GetAll(ctx, models.EntityTypeTask)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "task-1", records[0].ID)
}

func TestGetByStatus(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, testRecord("task-1", false, map[string]any{
		"id": "task-1", "title": "A", "status": "open",
	})))
	require.NoError(t, store.Put(ctx, testRecord("task-2", false, map[string]any{
		"id": "task-2", "title": "B", "status": "done",
	})))

	records, err := store.GetByStatus(ctx, models.EntityTypeTask, "done")
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "task-2", records[0].ID)
}

func TestGetByAssignee(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, testRecord("task-1", false, map[string]any{
		"id": "task-1", "title": "A", "status": "open", "assignee": "kid1",
	})))
	require.NoError(t, store.Put(ctx, testRecord("task-2", false, map[string]any{
		"id": "task-2", "title": "B", "status": "open", "assignee": "kid2",
	})))

	records, err := store.GetByAssignee(ctx, models.EntityTypeTask, "kid1")
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "task-1", records[0].ID)
}

func TestGetDirty_IncludesSoftDeleted(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, testRecord("task-1", false, nil)))
	require.NoError(t, store.Put(ctx, testRecord("task-2", true, nil)))
	require.NoError(t, store.Delete(ctx, models.EntityTypeTask, "task-1"))

	// task-1 стал dirty через soft delete, task-2 dirty изначально
	records, err := store.GetDirty(ctx, models.EntityTypeTask)
	require.NoError(t, err)
	assert.Len(t, records, 2)
}

func TestDelete_SoftDeleteCapturesBase(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, testRecord("task-1", false, nil)))
	require.NoError(t, store.Delete(ctx, models.EntityTypeTask, "task-1"))

	got, err := store.Get(ctx, models.EntityTypeTask, "task-1")
	require.NoError(t, err)
	assert.True(t, got.Deleted)
	assert.True(t, got.Dirty)
	// Базовый снимок зафиксирован при переходе clean -> dirty
	assert.Equal(t, "Take out trash", got.BaseFields["title"])
}

func TestDelete_NotFound(t *testing.T) {
	store := newTestStorage(t)

	err := store.Delete(context.Background(), models.EntityTypeTask, "missing")
	assert.ErrorIs(t, err, storage.ErrRecordNotFound)
}

func TestHardDelete(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, testRecord("task-1", true, nil)))
	require.NoError(t, store.HardDelete(ctx, models.EntityTypeTask, "task-1"))

	_, err := store.Get(ctx, models.EntityTypeTask, "task-1")
	assert.ErrorIs(t, err, storage.ErrRecordNotFound)

	// Повторное удаление - no-op
	assert.NoError(t, store.HardDelete(ctx, models.EntityTypeTask, "task-1"))
}

func TestMarkClean(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	record := testRecord("task-1", true, nil)
	record.BaseFields = map[string]any{"title": "old"}
	require.NoError(t, store.Put(ctx, record))

	cleaned, err := store.MarkClean(ctx, models.EntityTypeTask, "task-1", time.Now().UTC())
	require.NoError(t, err)
	assert.True(t, cleaned)

	got, err := store.Get(ctx, models.EntityTypeTask, "task-1")
	require.NoError(t, err)
	assert.False(t, got.Dirty)
	assert.Nil(t, got.BaseFields)
}

func TestMarkClean_PreservesNewerEdit(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	// Запись правилась ПОСЛЕ снимка батча: dirty флаг должен сохраниться,
	// иначе правка, сделанная во время полета запроса, потеряется
	asOf := time.Now().UTC()
	record := testRecord("task-1", true, nil)
	record.UpdatedAt = asOf.Add(time.Second)
	require.NoError(t, store.Put(ctx, record))

	cleaned, err := store.MarkClean(ctx, models.EntityTypeTask, "task-1", asOf)
	require.NoError(t, err)
	assert.False(t, cleaned)

	got, err := store.Get(ctx, models.EntityTypeTask, "task-1")
	require.NoError(t, err)
	assert.True(t, got.Dirty)
}

func TestMarkClean_MissingRecord(t *testing.T) {
	store := newTestStorage(t)

	cleaned, err := store.MarkClean(context.Background(), models.EntityTypeTask, "missing", time.Now().UTC())
	require.NoError(t, err)
	assert.False(t, cleaned)
}

func TestMarkCleanBatch(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	asOf := time.Now().UTC()

	older := testRecord("task-1", true, nil)
	older.UpdatedAt = asOf.Add(-time.Second)
	require.NoError(t, store.Put(ctx, older))

	newer := testRecord("task-2", true, nil)
	newer.UpdatedAt = asOf.Add(time.Second)
	require.NoError(t, store.Put(ctx, newer))

	cleaned, err := store.MarkCleanBatch(ctx, []storage.CleanMark{
		{AsOf: asOf, Type: models.EntityTypeTask, ID: "task-1"},
		{AsOf: asOf, Type: models.EntityTypeTask, ID: "task-2"},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, cleaned)
}

func TestApplyServerChange(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	server := testRecord("task-1", false, map[string]any{
		"id": "task-1", "title": "Server title", "status": "open",
	})
	server.Version = 3

	applied, err := store.ApplyServerChange(ctx, server, time.Now().UTC())
	require.NoError(t, err)
	assert.True(t, applied)

	got, err := store.Get(ctx, models.EntityTypeTask, "task-1")
	require.NoError(t, err)
	assert.Equal(t, int64(3), got.Version)
	assert.False(t, got.Dirty)
	assert.Equal(t, "Server title", got.Fields["title"])
}

func TestApplyServerChange_Idempotent(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	server := testRecord("task-1", false, nil)
	server.Version = 3

	for i := 0; i < 2; i++ {
		applied, err := store.ApplyServerChange(ctx, server, time.Now().UTC())
		require.NoError(t, err)
		assert.True(t, applied)
	}

	got, err := store.Get(ctx, models.EntityTypeTask, "task-1")
	require.NoError(t, err)
	assert.Equal(t, int64(3), got.Version)
}

func TestApplyServerChange_SkipsDirtyNewer(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	snapshotAt := time.Now().UTC()

	local := testRecord("task-1", true, map[string]any{
		"id": "task-1", "title": "Local edit", "status": "open",
	})
	local.UpdatedAt = snapshotAt.Add(time.Second)
	require.NoError(t, store.Put(ctx, local))

	server := testRecord("task-1", false, map[string]any{
		"id": "task-1", "title": "Server title", "status": "open",
	})
	server.Version = 5

	applied, err := store.ApplyServerChange(ctx, server, snapshotAt)
	require.NoError(t, err)
	assert.False(t, applied)

	// Локальная правка не тронута
	got, err := store.Get(ctx, models.EntityTypeTask, "task-1")
	require.NoError(t, err)
	assert.True(t, got.Dirty)
	assert.Equal(t, "Local edit", got.Fields["title"])
}

func TestApplyServerDelete(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, testRecord("task-1", false, nil)))

	applied, err := store.ApplyServerDelete(ctx, models.EntityTypeTask, "task-1", time.Now().UTC())
	require.NoError(t, err)
	assert.True(t, applied)

	_, err = store.Get(ctx, models.EntityTypeTask, "task-1")
	assert.ErrorIs(t, err, storage.ErrRecordNotFound)
}

func TestApplyServerDelete_AbsentRecord(t *testing.T) {
	store := newTestStorage(t)

	// Записи уже нет - удаление считается примененным
	applied, err := store.ApplyServerDelete(context.Background(), models.EntityTypeTask, "missing", time.Now().UTC())
	require.NoError(t, err)
	assert.True(t, applied)
}

func TestApplyServerDelete_SkipsDirtyNewer(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	snapshotAt := time.Now().UTC()

	local := testRecord("task-1", true, nil)
	local.UpdatedAt = snapshotAt.Add(time.Second)
	require.NoError(t, store.Put(ctx, local))

	applied, err := store.ApplyServerDelete(ctx, models.EntityTypeTask, "task-1", snapshotAt)
	require.NoError(t, err)
	assert.False(t, applied)

	_, err = store.Get(ctx, models.EntityTypeTask, "task-1")
	assert.NoError(t, err)
}

func TestEntities_ClosedStorage(t *testing.T) {
	store := newTestStorage(t)
	require.NoError(t, store.Close())

	ctx := context.Background()

	assert.ErrorIs(t, store.Put(ctx, testRecord("task-1", true, nil)), storage.ErrStorageClosed)

	_, err := store.Get(ctx, models.EntityTypeTask, "task-1")
	assert.ErrorIs(t, err, storage.ErrStorageClosed)

	_, err = store.GetAll(ctx, models.EntityTypeTask)
	assert.ErrorIs(t, err, storage.ErrStorageClosed)
}
