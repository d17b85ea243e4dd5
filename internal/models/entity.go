package models

import "time"

// EntityType определяет тип синхронизируемой сущности
type EntityType string

// Поддерживаемые типы сущностей
const (
	EntityTypeTask   EntityType = "task"   // задачи
	EntityTypeEvent  EntityType = "event"  // события календаря
	EntityTypePoints EntityType = "points" // транзакции баллов
)

// AllEntityTypes перечисляет все типы в стабильном порядке.
// Используется при инициализации хранилища и при сборке чекпоинтов.
var AllEntityTypes = []EntityType{EntityTypeTask, EntityTypeEvent, EntityTypePoints}

// Valid reports whether the entity type is one of the known types.
func (t EntityType) Valid() bool {
	switch t {
	case EntityTypeTask, EntityTypeEvent, EntityTypePoints:
		return true
	}
	return false
}

// Имена полей, известные движку синхронизации.
// Остальные поля сущностей для движка непрозрачны.
const (
	FieldStatus   = "status"
	FieldAssignee = "assignee"
	FieldDeleted  = "deleted"
)

// Record is the sync envelope stored locally for every entity.
// Fields holds the JSON-normalized entity payload and is opaque to the
// engine. BaseFields is a snapshot of the last synced (clean) state,
// captured when a clean record is re-dirtied; it enables a three-way diff
// during conflict resolution and is dropped when the record is marked clean.
type Record struct {
	UpdatedAt  time.Time      `json:"updated_at"`
	Fields     map[string]any `json:"fields"`
	BaseFields map[string]any `json:"base_fields,omitempty"`
	ID         string         `json:"id"`
	Type       EntityType     `json:"type"`
	Version    int64          `json:"version"`
	Dirty      bool           `json:"dirty"`
	Deleted    bool           `json:"deleted"`
}

// Clone создает глубокую копию записи
func (r *Record) Clone() *Record {
	return &Record{
		UpdatedAt:  r.UpdatedAt,
		Fields:     CloneFields(r.Fields),
		BaseFields: CloneFields(r.BaseFields),
		ID:         r.ID,
		Type:       r.Type,
		Version:    r.Version,
		Dirty:      r.Dirty,
		Deleted:    r.Deleted,
	}
}

// StringField returns a string-valued field, or "" when absent or not a string.
func (r *Record) StringField(name string) string {
	v, ok := r.Fields[name].(string)
	if !ok {
		return ""
	}
	return v
}

// CloneFields создает глубокую копию карты полей.
// Вложенные значения после JSON-нормализации могут быть только
// map[string]any, []any и скаляры.
func CloneFields(fields map[string]any) map[string]any {
	if fields == nil {
		return nil
	}
	out := make(map[string]any, len(fields))
	for k, v := range fields {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch val := v.(type) {
	case map[string]any:
		return CloneFields(val)
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = cloneValue(item)
		}
		return out
	default:
		return val
	}
}
