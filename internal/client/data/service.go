// Package data implements the local mutation API the UI layer calls.
// Every mutation is an optimistic local write plus a queued sync intent;
// no network I/O happens on this path.
package data

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	httpClient "github.com/iudanet/famboard/internal/client/api"
	"github.com/iudanet/famboard/internal/client/storage"
	"github.com/iudanet/famboard/internal/models"
)

// ChangeNotifier получает сигнал после каждой успешной локальной мутации.
// Координатор синхронизации дебаунсит эти сигналы в фоновый цикл.
type ChangeNotifier interface {
	NotifyLocalChange()
}

// Service provides typed mutation and query operations over the local store
type Service struct {
	entities  storage.EntityStorage
	queue     storage.QueueStorage
	apiClient httpClient.ClientAPI
	notifier  ChangeNotifier
	logger    *slog.Logger
}

// NewService creates a new data service. notifier may be nil.
func NewService(entities storage.EntityStorage, queue storage.QueueStorage, apiClient httpClient.ClientAPI, notifier ChangeNotifier, logger *slog.Logger) *Service {
	return &Service{
		entities:  entities,
		queue:     queue,
		apiClient: apiClient,
		notifier:  notifier,
		logger:    logger,
	}
}

// CreateTask stores a new task locally and queues it for sync.
// The id is generated client-side so creation works offline.
func (s *Service) CreateTask(ctx context.Context, task *models.Task) (*models.Record, error) {
	if task.ID == "" {
		task.ID = uuid.NewString()
	}
	if task.Status == "" {
		task.Status = models.TaskStatusOpen
	}

	fields, err := task.Fields()
	if err != nil {
		return nil, err
	}

	return s.create(ctx, models.EntityTypeTask, task.ID, fields)
}

// CreateEvent stores a new event locally and queues it for sync
func (s *Service) CreateEvent(ctx context.Context, event *models.Event) (*models.Record, error) {
	if event.ID == "" {
		event.ID = uuid.NewString()
	}

	fields, err := event.Fields()
	if err != nil {
		return nil, err
	}

	return s.create(ctx, models.EntityTypeEvent, event.ID, fields)
}

// AddPoints stores a new point transaction locally and queues it for sync
func (s *Service) AddPoints(ctx context.Context, txn *models.PointTransaction) (*models.Record, error) {
	if txn.ID == "" {
		txn.ID = uuid.NewString()
	}
	if txn.GrantedAt.IsZero() {
		txn.GrantedAt = time.Now().UTC()
	}

	fields, err := txn.Fields()
	if err != nil {
		return nil, err
	}

	return s.create(ctx, models.EntityTypePoints, txn.ID, fields)
}

// UpdateTask applies a full task update to the local store and queues it.
// Returns storage.ErrRecordNotFound when the task doesn't exist locally.
func (s *Service) UpdateTask(ctx context.Context, task *models.Task) error {
	fields, err := task.Fields()
	if err != nil {
		return err
	}
	return s.update(ctx, models.EntityTypeTask, task.ID, fields)
}

// CompleteTask marks a task done
func (s *Service) CompleteTask(ctx context.Context, id string) error {
	task, err := s.GetTask(ctx, id)
	if err != nil {
		return err
	}

	task.Status = models.TaskStatusDone
	return s.UpdateTask(ctx, task)
}

// UpdateEvent applies a full event update to the local store and queues it
func (s *Service) UpdateEvent(ctx context.Context, event *models.Event) error {
	fields, err := event.Fields()
	if err != nil {
		return err
	}
	return s.update(ctx, models.EntityTypeEvent, event.ID, fields)
}

// Delete soft-deletes an entity locally and queues the delete.
// When the delete cancels a never-sent create, the local record is removed
// immediately: the server has never heard of it.
func (s *Service) Delete(ctx context.Context, entityType models.EntityType, id string) error {
	if err := s.entities.Delete(ctx, entityType, id); err != nil {
		return err
	}

	record, err := s.entities.Get(ctx, entityType, id)
	if err != nil {
		return err
	}

	result, err := s.enqueue(ctx, record, models.OperationDelete)
	if err != nil {
		return err
	}

	if result == storage.EnqueueCancelled {
		if err := s.entities.HardDelete(ctx, entityType, id); err != nil {
			return fmt.Errorf("failed to drop cancelled create: %w", err)
		}
	}

	s.notify()
	return nil
}

// GetTask returns one task by id
func (s *Service) GetTask(ctx context.Context, id string) (*models.Task, error) {
	record, err := s.entities.Get(ctx, models.EntityTypeTask, id)
	if err != nil {
		return nil, err
	}
	if record.Deleted {
		return nil, storage.ErrRecordNotFound
	}
	return models.TaskFromFields(record.Fields)
}

// ListTasks returns all tasks
func (s *Service) ListTasks(ctx context.Context) ([]*models.Task, error) {
	records, err := s.entities.GetAll(ctx, models.EntityTypeTask)
	if err != nil {
		return nil, err
	}
	return decodeTasks(records)
}

// ListTasksByStatus returns tasks filtered by status
func (s *Service) ListTasksByStatus(ctx context.Context, status models.TaskStatus) ([]*models.Task, error) {
	records, err := s.entities.GetByStatus(ctx, models.EntityTypeTask, string(status))
	if err != nil {
		return nil, err
	}
	return decodeTasks(records)
}

// ListTasksByAssignee returns tasks filtered by assignee
func (s *Service) ListTasksByAssignee(ctx context.Context, assignee string) ([]*models.Task, error) {
	records, err := s.entities.GetByAssignee(ctx, models.EntityTypeTask, assignee)
	if err != nil {
		return nil, err
	}
	return decodeTasks(records)
}

// ListEvents returns all events
func (s *Service) ListEvents(ctx context.Context) ([]*models.Event, error) {
	records, err := s.entities.GetAll(ctx, models.EntityTypeEvent)
	if err != nil {
		return nil, err
	}

	events := make([]*models.Event, 0, len(records))
	for _, record := range records {
		event, err := models.EventFromFields(record.Fields)
		if err != nil {
			return nil, err
		}
		events = append(events, event)
	}
	return events, nil
}

// ListPointTransactions returns all point transactions
func (s *Service) ListPointTransactions(ctx context.Context) ([]*models.PointTransaction, error) {
	records, err := s.entities.GetAll(ctx, models.EntityTypePoints)
	if err != nil {
		return nil, err
	}

	txns := make([]*models.PointTransaction, 0, len(records))
	for _, record := range records {
		txn, err := models.PointTransactionFromFields(record.Fields)
		if err != nil {
			return nil, err
		}
		txns = append(txns, txn)
	}
	return txns, nil
}

// Refresh fetches the latest server state of one entity through the CRUD
// path and applies it locally. A dirty local record is never overwritten.
func (s *Service) Refresh(ctx context.Context, entityType models.EntityType, id string) error {
	resp, err := s.apiClient.GetEntity(ctx, entityType, id)
	if err != nil {
		return err
	}

	record := &models.Record{
		UpdatedAt: time.Now().UTC(),
		Fields:    resp.Data,
		ID:        id,
		Type:      entityType,
		Version:   resp.Version,
	}

	// Нулевой snapshotAt: любая dirty запись считается более новой
	if _, err := s.entities.ApplyServerChange(ctx, record, time.Time{}); err != nil {
		return err
	}

	return nil
}

// create выполняет оптимистичную локальную запись новой сущности
func (s *Service) create(ctx context.Context, entityType models.EntityType, id string, fields map[string]any) (*models.Record, error) {
	record := &models.Record{
		UpdatedAt: time.Now().UTC(),
		Fields:    fields,
		ID:        id,
		Type:      entityType,
		Version:   1,
		Dirty:     true,
	}

	// Сначала локальная запись: если хранилище отказало,
	// операция не должна молча встать в очередь
	if err := s.entities.Put(ctx, record); err != nil {
		return nil, err
	}

	if _, err := s.enqueue(ctx, record, models.OperationCreate); err != nil {
		return nil, err
	}

	s.notify()
	return record, nil
}

// update выполняет оптимистичную локальную правку существующей сущности
func (s *Service) update(ctx context.Context, entityType models.EntityType, id string, fields map[string]any) error {
	if id == "" {
		return storage.ErrRecordNotFound
	}

	record, err := s.entities.Get(ctx, entityType, id)
	if err != nil {
		return err
	}
	if record.Deleted {
		return storage.ErrRecordNotFound
	}

	// Фиксируем базовый снимок при переходе clean -> dirty:
	// он понадобится резолверу для трехстороннего слияния
	if !record.Dirty {
		record.BaseFields = models.CloneFields(record.Fields)
	}

	record.Fields = fields
	record.Dirty = true
	record.UpdatedAt = time.Now().UTC()

	if err := s.entities.Put(ctx, record); err != nil {
		return err
	}

	if _, err := s.enqueue(ctx, record, models.OperationUpdate); err != nil {
		return err
	}

	s.notify()
	return nil
}

func (s *Service) enqueue(ctx context.Context, record *models.Record, kind models.OperationKind) (storage.EnqueueResult, error) {
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

	result, err := s.queue.Enqueue(ctx, op)
	if err != nil {
		return "", fmt.Errorf("failed to enqueue operation: %w", err)
	}

	s.logger.Debug("Queued local mutation",
		"entity_type", record.Type,
		"entity_id", record.ID,
		"kind", kind,
		"result", result)

	return result, nil
}

func (s *Service) notify() {
	if s.notifier != nil {
		s.notifier.NotifyLocalChange()
	}
}

func decodeTasks(records []*models.Record) ([]*models.Task, error) {
	tasks := make([]*models.Task, 0, len(records))
	for _, record := range records {
		task, err := models.TaskFromFields(record.Fields)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, task)
	}
	return tasks, nil
}
