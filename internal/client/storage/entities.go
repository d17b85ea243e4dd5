package storage

import (
	"context"
	"time"

	"github.com/iudanet/famboard/internal/models"
)

// CleanMark identifies one record to be conditionally marked clean after a
// successful sync cycle. AsOf is the UpdatedAt that went into the submitted
// batch: a record edited after that point must stay dirty.
type CleanMark struct {
	AsOf time.Time
	Type models.EntityType
	ID   string
}

// EntityStorage defines the durable store of the client's current view of
// every entity, keyed by (type, id), with dirty/version metadata.
type EntityStorage interface {
	// Put unconditionally upserts a record. Overwriting by id is what makes
	// reapplying server changes idempotent.
	Put(ctx context.Context, record *models.Record) error

	// Get retrieves a record by type and id.
	// Returns ErrRecordNotFound if the record doesn't exist.
	Get(ctx context.Context, entityType models.EntityType, id string) (*models.Record, error)

	// GetAll returns all non-deleted records of the given type in insertion order
	GetAll(ctx context.Context, entityType models.EntityType) ([]*models.Record, error)

	// GetByStatus returns non-deleted records whose "status" field matches
	GetByStatus(ctx context.Context, entityType models.EntityType, status string) ([]*models.Record, error)

	// GetByAssignee returns non-deleted records whose "assignee" field matches
	GetByAssignee(ctx context.Context, entityType models.EntityType, assignee string) ([]*models.Record, error)

	// Delete soft-deletes a record: marks it deleted and dirty, bumps UpdatedAt.
	// The record is retained until the server confirms the deletion.
	// Returns ErrRecordNotFound if the record doesn't exist.
	Delete(ctx context.Context, entityType models.EntityType, id string) error

	// HardDelete physically removes a record once the server confirmed the delete
	HardDelete(ctx context.Context, entityType models.EntityType, id string) error

	// GetDirty returns all records with unsynced local mutations
	GetDirty(ctx context.Context, entityType models.EntityType) ([]*models.Record, error)

	// MarkClean clears the dirty flag and drops the base snapshot, but only
	// if the record was not modified after asOf. Returns whether the flag
	// was actually cleared.
	MarkClean(ctx context.Context, entityType models.EntityType, id string, asOf time.Time) (bool, error)

	// MarkCleanBatch applies MarkClean to every mark in one transaction and
	// returns the number of records actually cleaned.
	MarkCleanBatch(ctx context.Context, marks []CleanMark) (int, error)

	// ApplyServerChange overwrites the local record with server-authoritative
	// state (clean), unless the local record is dirty and was modified after
	// snapshotAt — that edit will conflict on the next cycle instead.
	// Returns whether the change was applied.
	ApplyServerChange(ctx context.Context, record *models.Record, snapshotAt time.Time) (bool, error)

	// ApplyServerDelete hard-deletes the local record with the same
	// dirty-newer guard as ApplyServerChange.
	ApplyServerDelete(ctx context.Context, entityType models.EntityType, id string, snapshotAt time.Time) (bool, error)
}
