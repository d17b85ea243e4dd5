package boltdb

import (
	"context"
	"encoding/json"
	"fmt"

	"go.etcd.io/bbolt"

	"github.com/iudanet/famboard/internal/client/storage"
	"github.com/iudanet/famboard/internal/models"
)

// conflictKey строит ключ конфликта по типу и id сущности
func conflictKey(entityType models.EntityType, id string) []byte {
	return []byte(string(entityType) + "/" + id)
}

// SaveConflict stores or replaces the pending conflict for (type, id)
func (s *Storage) SaveConflict(ctx context.Context, conflict *models.ConflictRecord) error {
	if s.db == nil {
		return storage.ErrStorageClosed
	}

	data, err := json.Marshal(conflict)
	if err != nil {
		return fmt.Errorf("failed to marshal conflict: %w", err)
	}

	err = s.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketConflicts)
		if bucket == nil {
			return fmt.Errorf("conflicts bucket not found")
		}

		if err := bucket.Put(conflictKey(conflict.Type, conflict.EntityID), data); err != nil {
			return fmt.Errorf("failed to save conflict: %w", err)
		}

		return nil
	})

	if err != nil {
		return fmt.Errorf("save conflict transaction failed: %w", err)
	}

	return nil
}

// GetConflict retrieves the pending conflict for (type, id)
func (s *Storage) GetConflict(ctx context.Context, entityType models.EntityType, id string) (*models.ConflictRecord, error) {
	if s.db == nil {
		return nil, storage.ErrStorageClosed
	}

	var conflict *models.ConflictRecord

	err := s.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketConflicts)
		if bucket == nil {
			return storage.ErrConflictNotFound
		}

		data := bucket.Get(conflictKey(entityType, id))
		if data == nil {
			return storage.ErrConflictNotFound
		}

		conflict = &models.ConflictRecord{}
		if err := json.Unmarshal(data, conflict); err != nil {
			return fmt.Errorf("failed to unmarshal conflict: %w", err)
		}

		return nil
	})

	if err != nil {
		return nil, err
	}

	return conflict, nil
}

// ListConflicts returns all pending conflicts
func (s *Storage) ListConflicts(ctx context.Context) ([]*models.ConflictRecord, error) {
	if s.db == nil {
		return nil, storage.ErrStorageClosed
	}

	var conflicts []*models.ConflictRecord

	err := s.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketConflicts)
		if bucket == nil {
			return nil
		}

		return bucket.ForEach(func(k, v []byte) error {
			var conflict models.ConflictRecord
			if err := json.Unmarshal(v, &conflict); err != nil {
				return fmt.Errorf("failed to unmarshal conflict: %w", err)
			}
			conflicts = append(conflicts, &conflict)
			return nil
		})
	})

	if err != nil {
		return nil, fmt.Errorf("failed to list conflicts: %w", err)
	}

	return conflicts, nil
}

// DeleteConflict removes the pending conflict for (type, id)
func (s *Storage) DeleteConflict(ctx context.Context, entityType models.EntityType, id string) error {
	if s.db == nil {
		return storage.ErrStorageClosed
	}

	err := s.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketConflicts)
		if bucket == nil {
			return storage.ErrConflictNotFound
		}

		if bucket.Get(conflictKey(entityType, id)) == nil {
			return storage.ErrConflictNotFound
		}

		return bucket.Delete(conflictKey(entityType, id))
	})

	if err != nil {
		if err == storage.ErrConflictNotFound {
			return err
		}
		return fmt.Errorf("delete conflict transaction failed: %w", err)
	}

	return nil
}
