package conflict

import (
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/famboard/internal/models"
)

func testResolver() *Resolver {
	return NewResolver(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func taskConflict(client, server, base map[string]any) *models.ConflictRecord {
	return NewRecord(models.EntityTypeTask, "task-1", 5, 6, client, server, base)
}

func TestResolve_EqualSidesTakeServer(t *testing.T) {
	fields := map[string]any{"id": "task-1", "title": "A", "status": "open"}

	resolution := testResolver().Resolve(taskConflict(fields, fields, nil))

	assert.Equal(t, models.ResolutionAutoMerged, resolution.Outcome)
	assert.Equal(t, int64(6), resolution.Version)
	assert.Equal(t, fields, resolution.Fields)
}

func TestResolve_FieldMergeDisjointChanges(t *testing.T) {
	base := map[string]any{"id": "task-1", "title": "A", "status": "open", "notes": "", "assignee": "kid1"}
	// Клиент поменял notes, сервер поменял assignee - изменения независимы
	client := map[string]any{"id": "task-1", "title": "A", "status": "open", "notes": "bring bags", "assignee": "kid1"}
	server := map[string]any{"id": "task-1", "title": "A", "status": "open", "notes": "", "assignee": "kid2"}

	resolution := testResolver().Resolve(taskConflict(client, server, base))

	require.Equal(t, models.ResolutionAutoMerged, resolution.Outcome)
	assert.Equal(t, "bring bags", resolution.Fields["notes"])
	assert.Equal(t, "kid2", resolution.Fields["assignee"])
	assert.Equal(t, int64(6), resolution.Version)
}

func TestResolve_SameFieldBothChangedGoesManual(t *testing.T) {
	base := map[string]any{"id": "task-1", "title": "A", "notes": "old"}
	client := map[string]any{"id": "task-1", "title": "A", "notes": "mine"}
	server := map[string]any{"id": "task-1", "title": "A", "notes": "theirs"}

	conflict := taskConflict(client, server, base)
	resolution := testResolver().Resolve(conflict)

	assert.Equal(t, models.ResolutionManual, resolution.Outcome)
	// Обе стороны сохранены для ручного разрешения
	assert.Equal(t, "mine", conflict.ClientFields["notes"])
	assert.Equal(t, "theirs", conflict.ServerFields["notes"])
}

func TestResolve_NonAllowListedFieldBlocksMerge(t *testing.T) {
	base := map[string]any{"id": "task-1", "title": "A", "notes": ""}
	// title не входит в allow-list - слияние не применяется
	client := map[string]any{"id": "task-1", "title": "B", "notes": ""}
	server := map[string]any{"id": "task-1", "title": "A", "notes": "theirs"}

	resolution := testResolver().Resolve(taskConflict(client, server, base))

	assert.Equal(t, models.ResolutionManual, resolution.Outcome)
}

func TestResolve_NoBaseSkipsFieldMerge(t *testing.T) {
	// Без базового снимка нельзя определить, кто менял поле
	client := map[string]any{"id": "task-1", "title": "A", "notes": "mine", "status": "open"}
	server := map[string]any{"id": "task-1", "title": "A", "notes": "theirs", "status": "open"}

	resolution := testResolver().Resolve(taskConflict(client, server, nil))

	assert.Equal(t, models.ResolutionManual, resolution.Outcome)
}

func TestResolve_DoneWinsOnClientSide(t *testing.T) {
	client := map[string]any{"id": "task-1", "title": "Local title", "status": "done"}
	server := map[string]any{"id": "task-1", "title": "Server title", "status": "open"}

	resolution := testResolver().Resolve(taskConflict(client, server, nil))

	require.Equal(t, models.ResolutionPrecedence, resolution.Outcome)
	// Завершение побеждает всей записью, не только статусом
	assert.Equal(t, "done", resolution.Fields["status"])
	assert.Equal(t, "Local title", resolution.Fields["title"])
	// Версию назначает только сервер
	assert.Equal(t, int64(6), resolution.Version)
}

func TestResolve_DoneWinsOnServerSide(t *testing.T) {
	client := map[string]any{"id": "task-1", "title": "Local title", "status": "in_progress"}
	server := map[string]any{"id": "task-1", "title": "Server title", "status": "done"}

	resolution := testResolver().Resolve(taskConflict(client, server, nil))

	require.Equal(t, models.ResolutionPrecedence, resolution.Outcome)
	assert.Equal(t, "done", resolution.Fields["status"])
	assert.Equal(t, "Server title", resolution.Fields["title"])
}

func TestResolve_BothDoneNoPrecedence(t *testing.T) {
	// done с обеих сторон - правило приоритета не различает стороны
	client := map[string]any{"id": "task-1", "title": "Local", "status": "done"}
	server := map[string]any{"id": "task-1", "title": "Server", "status": "done"}

	resolution := testResolver().Resolve(taskConflict(client, server, nil))

	assert.Equal(t, models.ResolutionManual, resolution.Outcome)
}

func TestResolve_EventMergeLocationAndNotes(t *testing.T) {
	base := map[string]any{"id": "event-1", "title": "Dentist", "location": "", "notes": ""}
	client := map[string]any{"id": "event-1", "title": "Dentist", "location": "Main St 5", "notes": ""}
	server := map[string]any{"id": "event-1", "title": "Dentist", "location": "", "notes": "bring card"}

	conflict := NewRecord(models.EntityTypeEvent, "event-1", 2, 3, client, server, base)
	resolution := testResolver().Resolve(conflict)

	require.Equal(t, models.ResolutionAutoMerged, resolution.Outcome)
	assert.Equal(t, "Main St 5", resolution.Fields["location"])
	assert.Equal(t, "bring card", resolution.Fields["notes"])
}

func TestResolve_PointsNeverAutoMerged(t *testing.T) {
	// У транзакций баллов нет allow-list: любое расхождение - ручное
	base := map[string]any{"id": "pt-1", "amount": float64(5)}
	client := map[string]any{"id": "pt-1", "amount": float64(10)}
	server := map[string]any{"id": "pt-1", "amount": float64(5)}

	conflict := NewRecord(models.EntityTypePoints, "pt-1", 1, 2, client, server, base)
	resolution := testResolver().Resolve(conflict)

	assert.Equal(t, models.ResolutionManual, resolution.Outcome)
}

func TestResolveAll_Summary(t *testing.T) {
	fields := map[string]any{"id": "task-1", "title": "A"}
	conflicts := []*models.ConflictRecord{
		taskConflict(fields, fields, nil), // стороны равны - auto
		taskConflict(
			map[string]any{"id": "task-2", "title": "mine"},
			map[string]any{"id": "task-2", "title": "theirs"},
			nil,
		), // расхождение без базы - manual
	}

	resolutions, summary := testResolver().ResolveAll(conflicts)

	require.Len(t, resolutions, 2)
	assert.Equal(t, 1, summary.AutoResolved)
	assert.Equal(t, 1, summary.NeedsReview)
	assert.True(t, resolutions[0].Auto())
	assert.False(t, resolutions[1].Auto())
}
