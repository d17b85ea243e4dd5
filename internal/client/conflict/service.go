package conflict

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	httpClient "github.com/iudanet/famboard/internal/client/api"
	"github.com/iudanet/famboard/internal/client/storage"
	"github.com/iudanet/famboard/internal/models"
)

// ErrConflictSuperseded indicates that the server state moved again while
// the conflict waited for the user: the stored conflict was refreshed with
// the new server side and must be resolved anew.
var ErrConflictSuperseded = errors.New("conflict superseded by newer server state")

//go:generate moq -out service_mock.go . ManualService

// ManualService определяет интерфейс ручного разрешения конфликтов
type ManualService interface {
	// ListPending возвращает конфликты, ожидающие решения пользователя
	ListPending(ctx context.Context) ([]*models.ConflictRecord, error)

	// AutoResolveAll повторно прогоняет автоматические правила по всем
	// отложенным конфликтам ("auto-resolve all" в UI)
	AutoResolveAll(ctx context.Context) (resolved, remaining int, err error)

	// ResolveManual применяет выбор пользователя к одному конфликту
	ResolveManual(ctx context.Context, entityType models.EntityType, id string, choice models.ManualChoice, customFields map[string]any) error
}

// service handles manual conflict resolution. A user's resolution is itself
// a versioned write: it goes through the If-Match CRUD path, and a fresh
// mismatch re-surfaces as a new pending conflict instead of overwriting.
type service struct {
	entities  storage.EntityStorage
	conflicts storage.ConflictStorage
	apiClient httpClient.ClientAPI
	resolver  *Resolver
	logger    *slog.Logger
}

// NewService creates a new manual resolution service
func NewService(entities storage.EntityStorage, conflicts storage.ConflictStorage, apiClient httpClient.ClientAPI, resolver *Resolver, logger *slog.Logger) ManualService {
	return &service{
		entities:  entities,
		conflicts: conflicts,
		apiClient: apiClient,
		resolver:  resolver,
		logger:    logger,
	}
}

// ListPending returns conflicts awaiting the user's decision
func (s *service) ListPending(ctx context.Context) ([]*models.ConflictRecord, error) {
	return s.conflicts.ListConflicts(ctx)
}

// AutoResolveAll re-runs the automatic rules over every pending conflict
func (s *service) AutoResolveAll(ctx context.Context) (int, int, error) {
	pending, err := s.conflicts.ListConflicts(ctx)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to list conflicts: %w", err)
	}

	var resolved, remaining int

	for _, conflict := range pending {
		resolution := s.resolver.Resolve(conflict)
		if !resolution.Auto() {
			remaining++
			continue
		}

		if err := s.applyResolved(ctx, conflict, resolution); err != nil {
			return resolved, remaining, err
		}
		resolved++
	}

	s.logger.Info("Bulk auto-resolve finished",
		"resolved", resolved,
		"remaining", remaining)

	return resolved, remaining, nil
}

// ResolveManual applies the user's choice to one pending conflict
func (s *service) ResolveManual(ctx context.Context, entityType models.EntityType, id string, choice models.ManualChoice, customFields map[string]any) error {
	conflict, err := s.conflicts.GetConflict(ctx, entityType, id)
	if err != nil {
		return err
	}

	switch choice {
	case models.ChoiceKeepTheirs:
		// Серверная сторона уже принята сервером - применяем локально
		resolution := &models.Resolution{
			Outcome: models.ResolutionManual,
			Fields:  models.CloneFields(conflict.ServerFields),
			Version: conflict.ServerVersion,
		}
		return s.applyResolved(ctx, conflict, resolution)

	case models.ChoiceKeepMine:
		return s.submit(ctx, conflict, conflict.ClientFields)

	case models.ChoiceMerge:
		if customFields == nil {
			return fmt.Errorf("merge choice requires custom fields")
		}
		return s.submit(ctx, conflict, customFields)

	default:
		return fmt.Errorf("unknown manual choice: %s", choice)
	}
}

// submit отправляет выбранное состояние как версионированную запись.
// Несовпадение версии означает, что сервер успел уйти дальше: обновляем
// сохраненный конфликт свежими серверными данными и возвращаем
// ErrConflictSuperseded, не перезаписывая ничего молча.
func (s *service) submit(ctx context.Context, conflict *models.ConflictRecord, fields map[string]any) error {
	// Клиент хотел удалить сущность - подтверждаем удаление через CRUD
	if deleted, _ := fields[models.FieldDeleted].(bool); deleted {
		err := s.apiClient.DeleteEntity(ctx, conflict.Type, conflict.EntityID, conflict.ServerVersion)
		if err != nil {
			return s.handleSubmitError(ctx, conflict, fields, err)
		}

		if err := s.entities.HardDelete(ctx, conflict.Type, conflict.EntityID); err != nil {
			return fmt.Errorf("failed to remove local record: %w", err)
		}
		return s.conflicts.DeleteConflict(ctx, conflict.Type, conflict.EntityID)
	}

	resp, err := s.apiClient.UpdateEntity(ctx, conflict.Type, conflict.EntityID, conflict.ServerVersion, fields)
	if err != nil {
		return s.handleSubmitError(ctx, conflict, fields, err)
	}

	resolution := &models.Resolution{
		Outcome: models.ResolutionManual,
		Fields:  models.CloneFields(fields),
		Version: resp.Version,
	}
	return s.applyResolved(ctx, conflict, resolution)
}

func (s *service) handleSubmitError(ctx context.Context, conflict *models.ConflictRecord, fields map[string]any, err error) error {
	var conflictErr *httpClient.ConflictError
	if !errors.As(err, &conflictErr) {
		return err
	}

	// Конфликт на разрешение конфликта: сервер изменился, пока пользователь
	// думал. Перезаписываем отложенный конфликт свежим состоянием.
	refreshed := NewRecord(
		conflict.Type,
		conflict.EntityID,
		conflict.ServerVersion,
		conflictErr.ServerVersion,
		fields,
		conflictErr.ServerData,
		nil,
	)
	if saveErr := s.conflicts.SaveConflict(ctx, refreshed); saveErr != nil {
		return fmt.Errorf("failed to refresh conflict: %w", saveErr)
	}

	s.logger.Warn("Conflict resolution superseded by newer server state",
		"entity_type", conflict.Type,
		"entity_id", conflict.EntityID,
		"server_version", conflictErr.ServerVersion)

	return ErrConflictSuperseded
}

// applyResolved записывает разрешенное состояние локально (clean, версия
// сервера) и убирает конфликт из отложенных
func (s *service) applyResolved(ctx context.Context, conflict *models.ConflictRecord, resolution *models.Resolution) error {
	record := &models.Record{
		UpdatedAt: time.Now().UTC(),
		Fields:    resolution.Fields,
		ID:        conflict.EntityID,
		Type:      conflict.Type,
		Version:   resolution.Version,
		Dirty:     false,
		Deleted:   false,
	}

	if err := s.entities.Put(ctx, record); err != nil {
		return fmt.Errorf("failed to store resolved record: %w", err)
	}

	if err := s.conflicts.DeleteConflict(ctx, conflict.Type, conflict.EntityID); err != nil && !errors.Is(err, storage.ErrConflictNotFound) {
		return fmt.Errorf("failed to drop resolved conflict: %w", err)
	}

	return nil
}
