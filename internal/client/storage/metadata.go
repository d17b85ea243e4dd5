package storage

import (
	"context"
	"time"

	"github.com/iudanet/famboard/internal/models"
)

// MetadataStorage defines the per-type sync checkpoint store
type MetadataStorage interface {
	// GetLastSyncTimestamps returns the last sync checkpoint per entity type.
	// Types never synced are absent from the map.
	GetLastSyncTimestamps(ctx context.Context) (map[models.EntityType]time.Time, error)

	// UpdateLastSyncTimestamps advances the checkpoint of every given type
	// to ts in one transaction.
	UpdateLastSyncTimestamps(ctx context.Context, types []models.EntityType, ts time.Time) error
}
