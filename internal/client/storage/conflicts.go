package storage

import (
	"context"

	"github.com/iudanet/famboard/internal/models"
)

// ConflictStorage defines the store of conflicts awaiting manual review.
// Auto-resolved conflicts are never persisted here.
type ConflictStorage interface {
	// SaveConflict stores or replaces the pending conflict for (type, id)
	SaveConflict(ctx context.Context, conflict *models.ConflictRecord) error

	// GetConflict retrieves the pending conflict for (type, id).
	// Returns ErrConflictNotFound if none is pending.
	GetConflict(ctx context.Context, entityType models.EntityType, id string) (*models.ConflictRecord, error)

	// ListConflicts returns all pending conflicts
	ListConflicts(ctx context.Context) ([]*models.ConflictRecord, error)

	// DeleteConflict removes the pending conflict for (type, id)
	DeleteConflict(ctx context.Context, entityType models.EntityType, id string) error
}
