package boltdb

import (
	"context"
	"fmt"
	"time"

	"go.etcd.io/bbolt"

	"github.com/iudanet/famboard/internal/client/storage"
	"github.com/iudanet/famboard/internal/models"
)

const keyLastSyncPrefix = "last_sync_"

// GetLastSyncTimestamps returns the last sync checkpoint per entity type.
// Types never synced are absent from the map.
func (s *Storage) GetLastSyncTimestamps(ctx context.Context) (map[models.EntityType]time.Time, error) {
	if s.db == nil {
		return nil, storage.ErrStorageClosed
	}

	checkpoints := make(map[models.EntityType]time.Time)

	err := s.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketMetadata)
		if bucket == nil {
			return fmt.Errorf("metadata bucket not found")
		}

		for _, entityType := range models.AllEntityTypes {
			data := bucket.Get([]byte(keyLastSyncPrefix + string(entityType)))
			if data == nil {
				// Тип еще не синхронизировался
				continue
			}

			ts, err := time.Parse(time.RFC3339Nano, string(data))
			if err != nil {
				return fmt.Errorf("failed to parse checkpoint for %s: %w", entityType, err)
			}

			checkpoints[entityType] = ts
		}

		return nil
	})

	if err != nil {
		return nil, fmt.Errorf("failed to get last sync timestamps: %w", err)
	}

	return checkpoints, nil
}

// UpdateLastSyncTimestamps advances the checkpoint of every given type
// to ts in one transaction
func (s *Storage) UpdateLastSyncTimestamps(ctx context.Context, types []models.EntityType, ts time.Time) error {
	if s.db == nil {
		return storage.ErrStorageClosed
	}

	err := s.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketMetadata)
		if bucket == nil {
			return fmt.Errorf("metadata bucket not found")
		}

		encoded := []byte(ts.UTC().Format(time.RFC3339Nano))

		for _, entityType := range types {
			key := []byte(keyLastSyncPrefix + string(entityType))
			if err := bucket.Put(key, encoded); err != nil {
				return fmt.Errorf("failed to save checkpoint for %s: %w", entityType, err)
			}
		}

		return nil
	})

	if err != nil {
		return fmt.Errorf("failed to update last sync timestamps: %w", err)
	}

	return nil
}
