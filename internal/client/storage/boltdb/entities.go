package boltdb

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.etcd.io/bbolt"

	"github.com/iudanet/famboard/internal/client/storage"
	"github.com/iudanet/famboard/internal/models"
)

// Put unconditionally upserts a record, keyed by id
func (s *Storage) Put(ctx context.Context, record *models.Record) error {
	if s.db == nil {
		return storage.ErrStorageClosed
	}

	// Сериализуем запись в JSON
	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to marshal record: %w", err)
	}

	err = s.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(entityBucket(record.Type))
		if bucket == nil {
			return fmt.Errorf("bucket for %s not found", record.Type)
		}

		if err := bucket.Put([]byte(record.ID), data); err != nil {
			return fmt.Errorf("failed to save record: %w", err)
		}

		return nil
	})

	if err != nil {
		return fmt.Errorf("transaction failed: %w", err)
	}

	return nil
}

// Get retrieves a record by type and id
func (s *Storage) Get(ctx context.Context, entityType models.EntityType, id string) (*models.Record, error) {
	if s.db == nil {
		return nil, storage.ErrStorageClosed
	}

	var record *models.Record

	err := s.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(entityBucket(entityType))
		if bucket == nil {
			return storage.ErrRecordNotFound
		}

		data := bucket.Get([]byte(id))
		if data == nil {
			return storage.ErrRecordNotFound
		}

		record = &models.Record{}
		if err := json.Unmarshal(data, record); err != nil {
			return fmt.Errorf("failed to unmarshal record: %w", err)
		}

		return nil
	})

	if err != nil {
		return nil, err
	}

	return record, nil
}

// GetAll returns all non-deleted records of the given type
func (s *Storage) GetAll(ctx context.Context, entityType models.EntityType) ([]*models.Record, error) {
	return s.scan(entityType, func(record *models.Record) bool {
		return !record.Deleted
	})
}

// GetByStatus returns non-deleted records whose "status" field matches
func (s *Storage) GetByStatus(ctx context.Context, entityType models.EntityType, status string) ([]*models.Record, error) {
	return s.scan(entityType, func(record *models.Record) bool {
		return !record.Deleted && record.StringField(models.FieldStatus) == status
	})
}

// GetByAssignee returns non-deleted records whose "assignee" field matches
func (s *Storage) GetByAssignee(ctx context.Context, entityType models.EntityType, assignee string) ([]*models.Record, error) {
	return s.scan(entityType, func(record *models.Record) bool {
		return !record.Deleted && record.StringField(models.FieldAssignee) == assignee
	})
}

// GetDirty returns all records with unsynced local mutations,
// including soft-deleted ones awaiting delete confirmation
func (s *Storage) GetDirty(ctx context.Context, entityType models.EntityType) ([]*models.Record, error) {
	return s.scan(entityType, func(record *models.Record) bool {
		return record.Dirty
	})
}

// scan обходит bucket типа и возвращает записи, прошедшие фильтр
func (s *Storage) scan(entityType models.EntityType, keep func(*models.Record) bool) ([]*models.Record, error) {
	if s.db == nil {
		return nil, storage.ErrStorageClosed
	}

	var records []*models.Record

	err := s.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(entityBucket(entityType))
		if bucket == nil {
			// Нет bucket - возвращаем пустой результат
			return nil
		}

		return bucket.ForEach(func(k, v []byte) error {
			var record models.Record
			if err := json.Unmarshal(v, &record); err != nil {
				return fmt.Errorf("failed to unmarshal record: %w", err)
			}

			if keep(&record) {
				records = append(records, &record)
			}

			return nil
		})
	})

	if err != nil {
		return nil, fmt.Errorf("failed to scan records: %w", err)
	}

	return records, nil
}

// Delete soft-deletes a record: marks it deleted and dirty
func (s *Storage) Delete(ctx context.Context, entityType models.EntityType, id string) error {
	if s.db == nil {
		return storage.ErrStorageClosed
	}

	err := s.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(entityBucket(entityType))
		if bucket == nil {
			return storage.ErrRecordNotFound
		}

		data := bucket.Get([]byte(id))
		if data == nil {
			return storage.ErrRecordNotFound
		}

		var record models.Record
		if err := json.Unmarshal(data, &record); err != nil {
			return fmt.Errorf("failed to unmarshal record: %w", err)
		}

		// Фиксируем базовый снимок при переходе clean -> dirty
		if !record.Dirty {
			record.BaseFields = models.CloneFields(record.Fields)
		}

		record.Deleted = true
		record.Dirty = true
		record.UpdatedAt = time.Now().UTC()

		updated, err := json.Marshal(&record)
		if err != nil {
			return fmt.Errorf("failed to marshal record: %w", err)
		}

		if err := bucket.Put([]byte(id), updated); err != nil {
			return fmt.Errorf("failed to save deleted record: %w", err)
		}

		return nil
	})

	if err != nil {
		if err == storage.ErrRecordNotFound {
			return err
		}
		return fmt.Errorf("delete transaction failed: %w", err)
	}

	return nil
}

// HardDelete physically removes a record.
// Deleting an absent record is a no-op.
func (s *Storage) HardDelete(ctx context.Context, entityType models.EntityType, id string) error {
	if s.db == nil {
		return storage.ErrStorageClosed
	}

	err := s.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(entityBucket(entityType))
		if bucket == nil {
			return nil
		}
		return bucket.Delete([]byte(id))
	})

	if err != nil {
		return fmt.Errorf("hard delete transaction failed: %w", err)
	}

	return nil
}

// MarkClean clears the dirty flag if the record was not modified after asOf
func (s *Storage) MarkClean(ctx context.Context, entityType models.EntityType, id string, asOf time.Time) (bool, error) {
	if s.db == nil {
		return false, storage.ErrStorageClosed
	}

	var cleaned bool

	err := s.db.Update(func(tx *bbolt.Tx) error {
		var err error
		cleaned, err = markCleanTx(tx, entityType, id, asOf)
		return err
	})

	if err != nil {
		return false, fmt.Errorf("mark clean transaction failed: %w", err)
	}

	return cleaned, nil
}

// MarkCleanBatch applies MarkClean to every mark in one transaction
func (s *Storage) MarkCleanBatch(ctx context.Context, marks []storage.CleanMark) (int, error) {
	if s.db == nil {
		return 0, storage.ErrStorageClosed
	}

	var cleaned int

	err := s.db.Update(func(tx *bbolt.Tx) error {
		for _, mark := range marks {
			ok, err := markCleanTx(tx, mark.Type, mark.ID, mark.AsOf)
			if err != nil {
				return err
			}
			if ok {
				cleaned++
			}
		}
		return nil
	})

	if err != nil {
		return 0, fmt.Errorf("mark clean batch transaction failed: %w", err)
	}

	return cleaned, nil
}

// markCleanTx снимает dirty флаг внутри открытой транзакции.
// Запись, измененная после asOf, остается dirty — её новая правка
// уйдет в следующем цикле синхронизации.
func markCleanTx(tx *bbolt.Tx, entityType models.EntityType, id string, asOf time.Time) (bool, error) {
	bucket := tx.Bucket(entityBucket(entityType))
	if bucket == nil {
		return false, nil
	}

	data := bucket.Get([]byte(id))
	if data == nil {
		// Запись уже удалена - чистить нечего
		return false, nil
	}

	var record models.Record
	if err := json.Unmarshal(data, &record); err != nil {
		return false, fmt.Errorf("failed to unmarshal record: %w", err)
	}

	if record.UpdatedAt.After(asOf) {
		// Запись правилась после снимка батча - оставляем dirty
		return false, nil
	}

	record.Dirty = false
	record.BaseFields = nil

	updated, err := json.Marshal(&record)
	if err != nil {
		return false, fmt.Errorf("failed to marshal record: %w", err)
	}

	if err := bucket.Put([]byte(id), updated); err != nil {
		return false, fmt.Errorf("failed to save record: %w", err)
	}

	return true, nil
}

// ApplyServerChange overwrites the local record with server-authoritative
// state, unless a newer local edit exists
func (s *Storage) ApplyServerChange(ctx context.Context, record *models.Record, snapshotAt time.Time) (bool, error) {
	if s.db == nil {
		return false, storage.ErrStorageClosed
	}

	var applied bool

	err := s.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(entityBucket(record.Type))
		if bucket == nil {
			return fmt.Errorf("bucket for %s not found", record.Type)
		}

		if existing := bucket.Get([]byte(record.ID)); existing != nil {
			var current models.Record
			if err := json.Unmarshal(existing, &current); err != nil {
				return fmt.Errorf("failed to unmarshal record: %w", err)
			}

			// Локальная правка после снимка цикла: пропускаем, конфликт
			// обнаружится при следующей синхронизации
			if current.Dirty && current.UpdatedAt.After(snapshotAt) {
				return nil
			}
		}

		clean := record.Clone()
		clean.Dirty = false
		clean.Deleted = false
		clean.BaseFields = nil

		data, err := json.Marshal(clean)
		if err != nil {
			return fmt.Errorf("failed to marshal record: %w", err)
		}

		if err := bucket.Put([]byte(clean.ID), data); err != nil {
			return fmt.Errorf("failed to save record: %w", err)
		}

		applied = true
		return nil
	})

	if err != nil {
		return false, fmt.Errorf("apply server change failed: %w", err)
	}

	return applied, nil
}

// ApplyServerDelete hard-deletes the local record with the same
// dirty-newer guard as ApplyServerChange
func (s *Storage) ApplyServerDelete(ctx context.Context, entityType models.EntityType, id string, snapshotAt time.Time) (bool, error) {
	if s.db == nil {
		return false, storage.ErrStorageClosed
	}

	var applied bool

	err := s.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(entityBucket(entityType))
		if bucket == nil {
			return nil
		}

		data := bucket.Get([]byte(id))
		if data == nil {
			// Уже нет записи - считаем удаление примененным
			applied = true
			return nil
		}

		var current models.Record
		if err := json.Unmarshal(data, &current); err != nil {
			return fmt.Errorf("failed to unmarshal record: %w", err)
		}

		if current.Dirty && current.UpdatedAt.After(snapshotAt) {
			return nil
		}

		if err := bucket.Delete([]byte(id)); err != nil {
			return fmt.Errorf("failed to delete record: %w", err)
		}

		applied = true
		return nil
	})

	if err != nil {
		return false, fmt.Errorf("apply server delete failed: %w", err)
	}

	return applied, nil
}
