package models

import "time"

// OperationKind определяет вид отложенной мутации
type OperationKind string

// Виды операций в очереди
const (
	OperationCreate OperationKind = "create"
	OperationUpdate OperationKind = "update"
	OperationDelete OperationKind = "delete"
)

// Operation represents one queued mutation intent awaiting transmission.
// Fields carries the full snapshot of the entity at enqueue time; Seq is
// the storage-assigned sequence number establishing submission order.
type Operation struct {
	EnqueuedAt time.Time      `json:"enqueued_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	Fields     map[string]any `json:"fields"`
	EntityID   string         `json:"entity_id"`
	Type       EntityType     `json:"type"`
	Kind       OperationKind  `json:"kind"`
	Seq        uint64         `json:"seq"`
	Version    int64          `json:"version"`
}

// Clone создает глубокую копию операции
func (o *Operation) Clone() *Operation {
	return &Operation{
		EnqueuedAt: o.EnqueuedAt,
		UpdatedAt:  o.UpdatedAt,
		Fields:     CloneFields(o.Fields),
		EntityID:   o.EntityID,
		Type:       o.Type,
		Kind:       o.Kind,
		Seq:        o.Seq,
		Version:    o.Version,
	}
}
