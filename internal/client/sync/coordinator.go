// Package sync drives the delta-sync cycle against the remote service:
// gather dirty state, transmit, apply server changes, resolve conflicts,
// advance checkpoints. One coordinator instance exists per device.
package sync

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	gosync "sync"
	"sync/atomic"
	"time"

	"github.com/cenkalti/backoff/v4"

	httpClient "github.com/iudanet/famboard/internal/client/api"
	"github.com/iudanet/famboard/internal/client/conflict"
	"github.com/iudanet/famboard/internal/client/storage"
	"github.com/iudanet/famboard/internal/models"
	"github.com/iudanet/famboard/pkg/api"
)

// ErrSyncInProgress indicates that a sync cycle is already running.
// Callers treat it as a no-op: cycles are strictly serialized.
var ErrSyncInProgress = errors.New("sync cycle already in progress")

// Trigger определяет, что запустило цикл синхронизации
type Trigger string

// Триггеры синхронизации
const (
	TriggerManual       Trigger = "manual"       // pull-to-refresh, команда sync
	TriggerConnectivity Trigger = "connectivity" // восстановление сети (с backoff)
	TriggerMutation     Trigger = "mutation"     // после локальной правки (с debounce)
	TriggerForeground   Trigger = "foreground"   // возврат приложения на передний план
)

// Config holds the coordinator's timing knobs
type Config struct {
	Debounce       time.Duration // пауза после последней правки перед фоновым циклом
	BackoffInitial time.Duration // стартовый интервал повторов
	BackoffMax     time.Duration // потолок интервала повторов
	BackoffElapsed time.Duration // суммарный лимит повторов одной попытки
}

// DefaultConfig returns the recommended timing configuration
func DefaultConfig() Config {
	return Config{
		Debounce:       2 * time.Second,
		BackoffInitial: 1 * time.Second,
		BackoffMax:     60 * time.Second,
		BackoffElapsed: 5 * time.Minute,
	}
}

// Result contains the outcome of one sync cycle, returned to the caller
// instead of completion callbacks
type Result struct {
	SyncedAt     time.Time // новый чекпоинт
	Pushed       int       // отправлено отложенных операций
	Applied      int       // применено серверных изменений
	AutoResolved int       // конфликтов разрешено автоматически
	NeedsReview  int       // конфликтов отложено на ручное разрешение
	Cleaned      int       // записей помечено clean
}

// Coordinator orchestrates sync cycles over the local store, the operation
// queue and the remote delta endpoint
type Coordinator struct {
	lastSyncedAt time.Time
	apiClient    httpClient.ClientAPI
	entities     storage.EntityStorage
	queue        storage.QueueStorage
	metadata     storage.MetadataStorage
	conflicts    storage.ConflictStorage
	resolver     *conflict.Resolver
	logger       *slog.Logger
	debounce     *time.Timer
	cfg          Config
	debounceMu   gosync.Mutex
	lastMu       gosync.RWMutex
	busy         atomic.Bool
}

// NewCoordinator creates a new sync coordinator
func NewCoordinator(
	apiClient httpClient.ClientAPI,
	entities storage.EntityStorage,
	queue storage.QueueStorage,
	metadata storage.MetadataStorage,
	conflicts storage.ConflictStorage,
	resolver *conflict.Resolver,
	cfg Config,
	logger *slog.Logger,
) *Coordinator {
	return &Coordinator{
		apiClient: apiClient,
		entities:  entities,
		queue:     queue,
		metadata:  metadata,
		conflicts: conflicts,
		resolver:  resolver,
		cfg:       cfg,
		logger:    logger,
	}
}

// Sync runs one complete sync cycle. A concurrent call while a cycle is in
// flight returns ErrSyncInProgress without touching anything. A transport
// failure aborts the cycle with local state exactly as it was.
func (c *Coordinator) Sync(ctx context.Context, trigger Trigger) (*Result, error) {
	// Циклы строго последовательны: второй одновременный вызов - no-op
	if !c.busy.CompareAndSwap(false, true) {
		return nil, ErrSyncInProgress
	}
	defer c.busy.Store(false)

	c.logger.Info("Starting sync cycle", "trigger", trigger)

	// Снимок: очередь, dirty записи и чекпоинты. Правки, сделанные во время
	// передачи, в этот цикл не попадают и уйдут в следующем.
	if err := c.reconcile(ctx); err != nil {
		return nil, err
	}

	ops, err := c.queue.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load operation queue: %w", err)
	}

	// Снятые операции помечаются in-flight: с этого момента сервер может
	// узнать о сущности, поэтому отмена create коалесцированием запрещена
	seqs := make([]uint64, 0, len(ops))
	for _, op := range ops {
		seqs = append(seqs, op.Seq)
	}
	c.queue.Claim(seqs)
	defer c.queue.Release(seqs)

	checkpoints, err := c.metadata.GetLastSyncTimestamps(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load checkpoints: %w", err)
	}

	snapshotAt := time.Now().UTC()
	req := buildRequest(ops, checkpoints)

	// Передача. Любой транспортный сбой или нечитаемый ответ обрывает цикл
	// до каких-либо локальных изменений.
	resp, err := c.apiClient.DeltaSync(ctx, req)
	if err != nil {
		c.logger.Warn("Sync transmission failed", "error", err)
		return nil, fmt.Errorf("sync transmission failed: %w", err)
	}

	result := &Result{Pushed: len(ops), SyncedAt: resp.SyncTimestamp}

	// Применяем серверные изменения. Повторное применение идемпотентно,
	// поэтому сорвавшийся на середине цикл безопасно повторить целиком.
	if err := c.applyServerChanges(ctx, resp.ServerChanges, snapshotAt, result); err != nil {
		return nil, err
	}

	conflictKeys, err := c.resolveConflicts(ctx, resp.Conflicts, snapshotAt, result)
	if err != nil {
		return nil, err
	}

	if err := c.acknowledge(ctx, ops, conflictKeys, result); err != nil {
		return nil, err
	}

	// Чекпоинты продвигаются последними, одним значением для всех типов
	if err := c.metadata.UpdateLastSyncTimestamps(ctx, models.AllEntityTypes, resp.SyncTimestamp); err != nil {
		return nil, fmt.Errorf("failed to advance checkpoints: %w", err)
	}

	c.lastMu.Lock()
	c.lastSyncedAt = resp.SyncTimestamp
	c.lastMu.Unlock()

	c.logger.Info("Sync cycle completed",
		"pushed", result.Pushed,
		"applied", result.Applied,
		"auto_resolved", result.AutoResolved,
		"needs_review", result.NeedsReview,
		"cleaned", result.Cleaned)

	return result, nil
}

// SyncWithRetry runs sync cycles with exponential backoff, for the
// connectivity-regained trigger. Only unavailability is retried;
// everything else fails immediately. User-initiated syncs bypass this path.
func (c *Coordinator) SyncWithRetry(ctx context.Context) (*Result, error) {
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = c.cfg.BackoffInitial
	bo.MaxInterval = c.cfg.BackoffMax
	bo.MaxElapsedTime = c.cfg.BackoffElapsed

	var result *Result

	operation := func() error {
		res, err := c.Sync(ctx, TriggerConnectivity)
		if err != nil {
			if errors.Is(err, httpClient.ErrServerUnavailable) || errors.Is(err, httpClient.ErrMalformedResponse) {
				return err
			}
			return backoff.Permanent(err)
		}
		result = res
		return nil
	}

	if err := backoff.Retry(operation, backoff.WithContext(bo, ctx)); err != nil {
		return nil, err
	}

	return result, nil
}

// NotifyLocalChange schedules a debounced background cycle after a local
// mutation. Rapid consecutive edits collapse into one cycle.
func (c *Coordinator) NotifyLocalChange() {
	c.debounceMu.Lock()
	defer c.debounceMu.Unlock()

	if c.debounce != nil {
		c.debounce.Stop()
	}

	c.debounce = time.AfterFunc(c.cfg.Debounce, func() {
		if _, err := c.Sync(context.Background(), TriggerMutation); err != nil && !errors.Is(err, ErrSyncInProgress) {
			c.logger.Debug("Background sync failed", "error", err)
		}
	})
}

// LastSyncedAt returns the newest checkpoint of a completed cycle,
// zero if none completed yet
func (c *Coordinator) LastSyncedAt() time.Time {
	c.lastMu.RLock()
	defer c.lastMu.RUnlock()
	return c.lastSyncedAt
}

// PendingCount returns the number of operations awaiting sync
func (c *Coordinator) PendingCount(ctx context.Context) (int, error) {
	return c.queue.Count(ctx)
}

// reconcile восстанавливает инвариант "dirty запись <-> отложенная операция"
// после возможного сбоя между локальной записью и постановкой в очередь
func (c *Coordinator) reconcile(ctx context.Context) error {
	ops, err := c.queue.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to load operation queue: %w", err)
	}

	queued := make(map[string]bool, len(ops))
	for _, op := range ops {
		queued[entityKey(op.Type, op.EntityID)] = true
	}

	// Сущности с конфликтом на ручном разрешении dirty намеренно: их
	// операция уже подтверждена, пересылка идет через сервис разрешения.
	// Повторная постановка в очередь слала бы устаревшую версию каждый цикл.
	pending, err := c.conflicts.ListConflicts(ctx)
	if err != nil {
		return fmt.Errorf("failed to load pending conflicts: %w", err)
	}

	conflicted := make(map[string]bool, len(pending))
	for _, item := range pending {
		conflicted[entityKey(item.Type, item.EntityID)] = true
	}

	for _, entityType := range models.AllEntityTypes {
		dirty, err := c.entities.GetDirty(ctx, entityType)
		if err != nil {
			return fmt.Errorf("failed to load dirty records: %w", err)
		}

		for _, record := range dirty {
			key := entityKey(record.Type, record.ID)
			if queued[key] || conflicted[key] {
				continue
			}

			// Dirty запись без операции - восстанавливаем намерение
			kind := models.OperationUpdate
			switch {
			case record.Deleted:
				kind = models.OperationDelete
			case record.Version <= 1:
				kind = models.OperationCreate
			}

			fields := models.CloneFields(record.Fields)
			if kind == models.OperationDelete {
				fields[models.FieldDeleted] = true
			}

			op := &models.Operation{
				EnqueuedAt: time.Now().UTC(),
				UpdatedAt:  record.UpdatedAt,
				Fields:     fields,
				EntityID:   record.ID,
				Type:       record.Type,
				Kind:       kind,
				Version:    record.Version,
			}

			if _, err := c.queue.Enqueue(ctx, op); err != nil {
				return fmt.Errorf("failed to requeue dirty record: %w", err)
			}

			c.logger.Warn("Requeued dirty record without pending operation",
				"entity_type", record.Type,
				"entity_id", record.ID,
				"kind", kind)
		}
	}

	return nil
}

// buildRequest собирает батч в порядке постановки операций в очередь
func buildRequest(ops []*models.Operation, checkpoints map[models.EntityType]time.Time) api.SyncRequest {
	lastSync := make(map[string]time.Time, len(checkpoints))
	for entityType, ts := range checkpoints {
		lastSync[string(entityType)] = ts
	}

	changes := make([]api.PendingChange, 0, len(ops))
	for _, op := range ops {
		changes = append(changes, api.PendingChange{
			UpdatedAt:  op.UpdatedAt,
			Data:       op.Fields,
			EntityType: string(op.Type),
			Operation:  string(op.Kind),
			EntityID:   op.EntityID,
			Version:    op.Version,
		})
	}

	return api.SyncRequest{
		LastSyncTimestamps: lastSync,
		PendingChanges:     changes,
	}
}

// applyServerChanges применяет авторитетные изменения сервера.
// Записи с более свежей локальной правкой пропускаются - их конфликт
// обнаружится при следующем цикле.
func (c *Coordinator) applyServerChanges(ctx context.Context, changes []api.ServerChange, snapshotAt time.Time, result *Result) error {
	for _, change := range changes {
		entityType := models.EntityType(change.EntityType)
		if !entityType.Valid() {
			return fmt.Errorf("%w: unknown entity type %q", httpClient.ErrMalformedResponse, change.EntityType)
		}

		switch change.Operation {
		case api.OperationDelete:
			applied, err := c.entities.ApplyServerDelete(ctx, entityType, change.EntityID, snapshotAt)
			if err != nil {
				return fmt.Errorf("failed to apply server delete: %w", err)
			}
			if applied {
				result.Applied++
			}

		case api.OperationCreate, api.OperationUpdate:
			record := &models.Record{
				UpdatedAt: time.Now().UTC(),
				Fields:    change.Data,
				ID:        change.EntityID,
				Type:      entityType,
				Version:   change.Version,
			}

			applied, err := c.entities.ApplyServerChange(ctx, record, snapshotAt)
			if err != nil {
				return fmt.Errorf("failed to apply server change: %w", err)
			}
			if applied {
				result.Applied++
			}

		default:
			return fmt.Errorf("%w: unknown operation %q", httpClient.ErrMalformedResponse, change.Operation)
		}
	}

	return nil
}

// resolveConflicts прогоняет конфликты цикла через резолвер: автоматические
// исходы применяются сразу, остальные сохраняются на ручное разрешение
func (c *Coordinator) resolveConflicts(ctx context.Context, items []api.ConflictItem, snapshotAt time.Time, result *Result) (map[string]bool, error) {
	conflictKeys := make(map[string]bool, len(items))
	if len(items) == 0 {
		return conflictKeys, nil
	}

	records := make([]*models.ConflictRecord, 0, len(items))
	for _, item := range items {
		entityType := models.EntityType(item.EntityType)
		conflictKeys[entityKey(entityType, item.EntityID)] = true

		// Базовый снимок берем из локальной записи, если он еще хранится
		var baseFields map[string]any
		if local, err := c.entities.Get(ctx, entityType, item.EntityID); err == nil {
			baseFields = local.BaseFields
		} else if !errors.Is(err, storage.ErrRecordNotFound) {
			return nil, fmt.Errorf("failed to load local record: %w", err)
		}

		records = append(records, conflict.NewRecord(
			entityType,
			item.EntityID,
			item.ClientVersion,
			item.ServerVersion,
			item.ClientData,
			item.ServerData,
			baseFields,
		))
	}

	resolutions, summary := c.resolver.ResolveAll(records)
	result.AutoResolved = summary.AutoResolved
	result.NeedsReview = summary.NeedsReview

	for i, resolution := range resolutions {
		record := records[i]

		if !resolution.Auto() {
			if err := c.conflicts.SaveConflict(ctx, record); err != nil {
				return nil, fmt.Errorf("failed to persist conflict: %w", err)
			}
			continue
		}

		resolved := &models.Record{
			UpdatedAt: time.Now().UTC(),
			Fields:    resolution.Fields,
			ID:        record.EntityID,
			Type:      record.Type,
			Version:   resolution.Version,
		}

		// Условная запись: правка, сделанная после снимка цикла, выигрывает
		// и конфликт всплывет снова в следующем цикле
		if _, err := c.entities.ApplyServerChange(ctx, resolved, snapshotAt); err != nil {
			return nil, fmt.Errorf("failed to apply resolution: %w", err)
		}
	}

	return conflictKeys, nil
}

// acknowledge помечает принятые записи clean, подтверждает удаления и
// убирает обработанные операции из очереди
func (c *Coordinator) acknowledge(ctx context.Context, ops []*models.Operation, conflictKeys map[string]bool, result *Result) error {
	acked := make([]uint64, 0, len(ops))
	marks := make([]storage.CleanMark, 0, len(ops))

	for _, op := range ops {
		// Операция обработана в любом исходе: конфликтные сущности
		// пересылаются через сервис разрешения, а не через очередь
		acked = append(acked, op.Seq)

		if conflictKeys[entityKey(op.Type, op.EntityID)] {
			continue
		}

		if op.Kind == models.OperationDelete {
			// Сервер подтвердил удаление - можно удалять физически
			if err := c.entities.HardDelete(ctx, op.Type, op.EntityID); err != nil {
				return fmt.Errorf("failed to hard-delete confirmed record: %w", err)
			}
			continue
		}

		marks = append(marks, storage.CleanMark{
			AsOf: op.UpdatedAt,
			Type: op.Type,
			ID:   op.EntityID,
		})
	}

	cleaned, err := c.entities.MarkCleanBatch(ctx, marks)
	if err != nil {
		return fmt.Errorf("failed to mark records clean: %w", err)
	}
	result.Cleaned = cleaned

	if err := c.queue.Remove(ctx, acked); err != nil {
		return fmt.Errorf("failed to remove acknowledged operations: %w", err)
	}

	return nil
}

func entityKey(entityType models.EntityType, id string) string {
	return string(entityType) + "/" + id
}
