package storage

import (
	"context"

	"github.com/iudanet/famboard/internal/models"
)

// EnqueueResult описывает, как операция была учтена очередью
type EnqueueResult string

// Исходы постановки в очередь
const (
	// EnqueueAppended — операция добавлена в конец очереди
	EnqueueAppended EnqueueResult = "appended"
	// EnqueueReplaced — операция заместила отложенную операцию той же сущности
	EnqueueReplaced EnqueueResult = "replaced"
	// EnqueueCancelled — delete после неотправленного create: обе операции исчезли
	EnqueueCancelled EnqueueResult = "cancelled"
)

// QueueStorage defines the durable, ordered log of pending mutations.
// Operations survive process restarts; ordering is the enqueue order.
type QueueStorage interface {
	// Enqueue durably appends an operation, assigning op.Seq, and applies
	// the coalescing policy: an update after a pending create/update for the
	// same entity replaces the pending entry (a replaced create stays a
	// create) under a fresh sequence number; a delete after a pending create
	// removes the create entirely, unless the create is claimed in-flight;
	// a delete after a pending update replaces it. The fresh sequence number
	// on replacement is what keeps an in-flight cycle from acknowledging
	// away a newer edit.
	Enqueue(ctx context.Context, op *models.Operation) (EnqueueResult, error)

	// Load returns all pending operations in enqueue order
	Load(ctx context.Context) ([]*models.Operation, error)

	// Claim marks the given operations as in-flight for the duration of a
	// sync cycle. A claimed create is never cancelled by a later delete —
	// the server may already know the entity — so Enqueue falls back to
	// replacing it with the delete under a fresh sequence number. The claim
	// set lives in process memory only: after a crash every operation is
	// pending again and the durable queue alone decides.
	Claim(seqs []uint64)

	// Release returns claimed operations to pending after the cycle
	Release(seqs []uint64)

	// Remove deletes operations by sequence number after the server
	// acknowledged them. Sequence numbers that no longer exist (coalesced
	// away by a newer edit) are skipped silently.
	Remove(ctx context.Context, seqs []uint64) error

	// Count returns the number of pending operations
	Count(ctx context.Context) (int, error)

	// Clear removes all pending operations
	Clear(ctx context.Context) error
}
