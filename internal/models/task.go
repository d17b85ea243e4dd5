package models

import (
	"encoding/json"
	"fmt"
	"time"
)

// TaskStatus определяет статус задачи
type TaskStatus string

// Статусы задач
const (
	TaskStatusOpen       TaskStatus = "open"
	TaskStatusInProgress TaskStatus = "in_progress"
	TaskStatusDone       TaskStatus = "done"
)

// Task представляет общую задачу семьи.
// Extra — произвольные дополнительные атрибуты (ключ-значение),
// которые движок синхронизации переносит как есть.
type Task struct {
	DueDate  *time.Time        `json:"due_date,omitempty"`
	Extra    map[string]string `json:"extra,omitempty"`
	ID       string            `json:"id"`
	Title    string            `json:"title"`
	Status   TaskStatus        `json:"status"`
	Notes    string            `json:"notes"`
	Assignee string            `json:"assignee"`
	Points   int64             `json:"points"`
}

// Event представляет событие общего календаря
type Event struct {
	StartsAt *time.Time        `json:"starts_at,omitempty"`
	EndsAt   *time.Time        `json:"ends_at,omitempty"`
	Extra    map[string]string `json:"extra,omitempty"`
	ID       string            `json:"id"`
	Title    string            `json:"title"`
	Location string            `json:"location"`
	Notes    string            `json:"notes"`
	Assignee string            `json:"assignee"`
}

// PointTransaction представляет начисление или списание баллов участнику
type PointTransaction struct {
	GrantedAt time.Time `json:"granted_at"`
	ID        string    `json:"id"`
	MemberID  string    `json:"member_id"`
	Reason    string    `json:"reason"`
	TaskID    string    `json:"task_id,omitempty"`
	Amount    int64     `json:"amount"`
}

// Fields converts the task to its normalized field map.
func (t *Task) Fields() (map[string]any, error) { return fieldsOf(t) }

// Fields converts the event to its normalized field map.
func (e *Event) Fields() (map[string]any, error) { return fieldsOf(e) }

// Fields converts the point transaction to its normalized field map.
func (p *PointTransaction) Fields() (map[string]any, error) { return fieldsOf(p) }

// TaskFromFields decodes a normalized field map into a Task.
func TaskFromFields(fields map[string]any) (*Task, error) {
	var t Task
	if err := fromFields(fields, &t); err != nil {
		return nil, err
	}
	return &t, nil
}

// EventFromFields decodes a normalized field map into an Event.
func EventFromFields(fields map[string]any) (*Event, error) {
	var e Event
	if err := fromFields(fields, &e); err != nil {
		return nil, err
	}
	return &e, nil
}

// PointTransactionFromFields decodes a normalized field map into a PointTransaction.
func PointTransactionFromFields(fields map[string]any) (*PointTransaction, error) {
	var p PointTransaction
	if err := fromFields(fields, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// fieldsOf нормализует структуру через JSON round-trip, чтобы карты полей
// с обеих сторон синхронизации имели одинаковое представление значений
// (числа как float64, вложенные карты как map[string]any).
func fieldsOf(v any) (map[string]any, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal entity: %w", err)
	}

	var fields map[string]any
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, fmt.Errorf("failed to normalize entity fields: %w", err)
	}
	return fields, nil
}

func fromFields(fields map[string]any, dst any) error {
	raw, err := json.Marshal(fields)
	if err != nil {
		return fmt.Errorf("failed to marshal fields: %w", err)
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("failed to decode entity fields: %w", err)
	}
	return nil
}
