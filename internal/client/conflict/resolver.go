// Package conflict decides what happens when the same entity was edited
// concurrently on two devices. All version reasoning of the engine lives
// here; no other component decides "which side is newer".
package conflict

import (
	"log/slog"
	"reflect"
	"time"

	"github.com/iudanet/famboard/internal/models"
)

// autoMergeAllowList перечисляет независимо изменяемые поля по типам.
// Только расхождения в этих полях могут быть слиты автоматически;
// встречные изменения одного и того же поля не сливаются никогда.
var autoMergeAllowList = map[models.EntityType]map[string]bool{
	models.EntityTypeTask: {
		"notes":    true,
		"status":   true,
		"assignee": true,
	},
	models.EntityTypeEvent: {
		"notes":    true,
		"location": true,
	},
}

// Resolver applies the resolution policy to version conflicts:
// field-level auto-merge, then deterministic precedence rules,
// then manual review.
type Resolver struct {
	logger *slog.Logger
}

// NewResolver creates a new conflict resolver
func NewResolver(logger *slog.Logger) *Resolver {
	return &Resolver{logger: logger}
}

// Summary reports the batch outcome of one sync cycle's conflicts
type Summary struct {
	AutoResolved int // разрешено без участия пользователя
	NeedsReview  int // отложено на ручное разрешение
}

// Resolve produces a resolution for one conflict. Automatic outcomes carry
// the server's version: only the server assigns versions, so the resolved
// record adopts it regardless of which side's fields won.
func (r *Resolver) Resolve(conflict *models.ConflictRecord) *models.Resolution {
	// Стороны совпали - расхождения нет, принимаем серверную версию
	if fieldsEqual(conflict.ClientFields, conflict.ServerFields) {
		return &models.Resolution{
			Outcome: models.ResolutionAutoMerged,
			Fields:  models.CloneFields(conflict.ServerFields),
			Version: conflict.ServerVersion,
		}
	}

	if merged, ok := r.tryFieldMerge(conflict); ok {
		r.logger.Debug("Conflict auto-merged field-by-field",
			"entity_type", conflict.Type,
			"entity_id", conflict.EntityID)
		return &models.Resolution{
			Outcome: models.ResolutionAutoMerged,
			Fields:  merged,
			Version: conflict.ServerVersion,
		}
	}

	if winner, ok := r.tryPrecedence(conflict); ok {
		r.logger.Debug("Conflict resolved by precedence rule",
			"entity_type", conflict.Type,
			"entity_id", conflict.EntityID)
		return &models.Resolution{
			Outcome: models.ResolutionPrecedence,
			Fields:  winner,
			Version: conflict.ServerVersion,
		}
	}

	return &models.Resolution{Outcome: models.ResolutionManual}
}

// ResolveAll processes all conflicts of a sync cycle in one pass.
// Resolutions are returned in the order of the input.
func (r *Resolver) ResolveAll(conflicts []*models.ConflictRecord) ([]*models.Resolution, Summary) {
	resolutions := make([]*models.Resolution, 0, len(conflicts))
	var summary Summary

	for _, conflict := range conflicts {
		resolution := r.Resolve(conflict)
		if resolution.Auto() {
			summary.AutoResolved++
		} else {
			summary.NeedsReview++
		}
		resolutions = append(resolutions, resolution)
	}

	return resolutions, summary
}

// tryFieldMerge выполняет трехстороннее слияние полей относительно базового
// снимка (последнее синхронизированное состояние). Без базы двусторонний
// diff не позволяет определить, кто именно изменил поле, и слияние полей
// не применяется вовсе.
func (r *Resolver) tryFieldMerge(conflict *models.ConflictRecord) (map[string]any, bool) {
	if conflict.BaseFields == nil {
		return nil, false
	}

	allowed := autoMergeAllowList[conflict.Type]
	merged := models.CloneFields(conflict.ServerFields)

	for _, key := range unionKeys(conflict.ClientFields, conflict.ServerFields) {
		clientVal := conflict.ClientFields[key]
		serverVal := conflict.ServerFields[key]

		if valueEqual(clientVal, serverVal) {
			continue
		}

		// Расхождение вне allow-list блокирует слияние целиком
		if !allowed[key] {
			return nil, false
		}

		baseVal := conflict.BaseFields[key]
		clientChanged := !valueEqual(clientVal, baseVal)
		serverChanged := !valueEqual(serverVal, baseVal)

		// Встречные изменения одного поля не сливаем
		if clientChanged && serverChanged {
			return nil, false
		}

		if clientChanged {
			merged[key] = clientVal
		} else {
			merged[key] = serverVal
		}
	}

	return merged, true
}

// tryPrecedence применяет детерминированные правила приоритета.
// Для задач завершение побеждает всегда: статус done на ровно одной из
// сторон отдает ей всю запись, независимо от версий и updatedAt.
func (r *Resolver) tryPrecedence(conflict *models.ConflictRecord) (map[string]any, bool) {
	if conflict.Type != models.EntityTypeTask {
		return nil, false
	}

	clientStatus, _ := conflict.ClientFields[models.FieldStatus].(string)
	serverStatus, _ := conflict.ServerFields[models.FieldStatus].(string)

	clientDone := clientStatus == string(models.TaskStatusDone)
	serverDone := serverStatus == string(models.TaskStatusDone)

	switch {
	case clientDone && !serverDone:
		return models.CloneFields(conflict.ClientFields), true
	case serverDone && !clientDone:
		return models.CloneFields(conflict.ServerFields), true
	default:
		return nil, false
	}
}

// NewRecord строит ConflictRecord по данным конфликта из ответа сервера,
// дополняя его базовым снимком локальной записи, если он еще есть
func NewRecord(entityType models.EntityType, entityID string, clientVersion, serverVersion int64, clientFields, serverFields, baseFields map[string]any) *models.ConflictRecord {
	return &models.ConflictRecord{
		DetectedAt:    time.Now().UTC(),
		ClientFields:  models.CloneFields(clientFields),
		ServerFields:  models.CloneFields(serverFields),
		BaseFields:    models.CloneFields(baseFields),
		EntityID:      entityID,
		Type:          entityType,
		ClientVersion: clientVersion,
		ServerVersion: serverVersion,
	}
}

func fieldsEqual(a, b map[string]any) bool {
	if len(a) != len(b) {
		return false
	}
	for _, key := range unionKeys(a, b) {
		if !valueEqual(a[key], b[key]) {
			return false
		}
	}
	return true
}

// valueEqual сравнивает значения полей после JSON-нормализации
func valueEqual(a, b any) bool {
	return reflect.DeepEqual(a, b)
}

func unionKeys(a, b map[string]any) []string {
	seen := make(map[string]bool, len(a)+len(b))
	keys := make([]string, 0, len(a)+len(b))
	for k := range a {
		if !seen[k] {
			seen[k] = true
			keys = append(keys, k)
		}
	}
	for k := range b {
		if !seen[k] {
			seen[k] = true
			keys = append(keys, k)
		}
	}
	return keys
}
