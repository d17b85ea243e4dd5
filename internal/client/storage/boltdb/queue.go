package boltdb

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"fmt"

	"go.etcd.io/bbolt"

	"github.com/iudanet/famboard/internal/client/storage"
	"github.com/iudanet/famboard/internal/models"
)

// seqKey кодирует sequence number в big-endian ключ,
// чтобы порядок ключей в bucket совпадал с порядком постановки
func seqKey(seq uint64) []byte {
	key := make([]byte, 8)
	binary.BigEndian.PutUint64(key, seq)
	return key
}

// Enqueue durably appends an operation, applying the coalescing policy
func (s *Storage) Enqueue(ctx context.Context, op *models.Operation) (storage.EnqueueResult, error) {
	if s.db == nil {
		return "", storage.ErrStorageClosed
	}

	var result storage.EnqueueResult

	err := s.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketQueue)
		if bucket == nil {
			return fmt.Errorf("queue bucket not found")
		}

		// Ищем отложенную операцию той же сущности.
		// По построению в очереди не больше одной на (type, id).
		pending, pendingKey, err := findPending(bucket, op.Type, op.EntityID)
		if err != nil {
			return err
		}

		if pending == nil {
			result = storage.EnqueueAppended
			return appendOp(bucket, op)
		}

		// delete после неотправленного create: сервер о сущности не знает,
		// обе операции можно выбросить. Create в полете отменять нельзя -
		// он мог уже дойти, такой delete замещает его обычным путем
		if op.Kind == models.OperationDelete && pending.Kind == models.OperationCreate && !s.claimed(pending.Seq) {
			if err := bucket.Delete(pendingKey); err != nil {
				return fmt.Errorf("failed to drop pending create: %w", err)
			}
			result = storage.EnqueueCancelled
			return nil
		}

		// Замещение: новая операция вытесняет отложенную. Create остается
		// create — сервер еще не видел сущность. Новый sequence number
		// гарантирует, что ack операции, ушедшей в полет, не удалит
		// более свежую правку.
		if pending.Kind == models.OperationCreate && op.Kind == models.OperationUpdate {
			op.Kind = models.OperationCreate
		}

		if err := bucket.Delete(pendingKey); err != nil {
			return fmt.Errorf("failed to drop superseded operation: %w", err)
		}

		result = storage.EnqueueReplaced
		return appendOp(bucket, op)
	})

	if err != nil {
		return "", fmt.Errorf("enqueue transaction failed: %w", err)
	}

	return result, nil
}

// findPending возвращает отложенную операцию сущности и её ключ
func findPending(bucket *bbolt.Bucket, entityType models.EntityType, entityID string) (*models.Operation, []byte, error) {
	var (
		found    *models.Operation
		foundKey []byte
	)

	err := bucket.ForEach(func(k, v []byte) error {
		var op models.Operation
		if err := json.Unmarshal(v, &op); err != nil {
			return fmt.Errorf("failed to unmarshal operation: %w", err)
		}

		if op.Type == entityType && op.EntityID == entityID {
			found = &op
			foundKey = append([]byte(nil), k...)
		}

		return nil
	})

	if err != nil {
		return nil, nil, err
	}

	return found, foundKey, nil
}

// appendOp назначает операции следующий sequence number и сохраняет её
func appendOp(bucket *bbolt.Bucket, op *models.Operation) error {
	seq, err := bucket.NextSequence()
	if err != nil {
		return fmt.Errorf("failed to get next sequence: %w", err)
	}
	op.Seq = seq

	data, err := json.Marshal(op)
	if err != nil {
		return fmt.Errorf("failed to marshal operation: %w", err)
	}

	if err := bucket.Put(seqKey(seq), data); err != nil {
		return fmt.Errorf("failed to save operation: %w", err)
	}

	return nil
}

// Claim marks operations as in-flight until Release.
// The claim set is process memory, not the bolt file: a crash mid-cycle
// returns every operation to pending.
func (s *Storage) Claim(seqs []uint64) {
	s.inFlightMu.Lock()
	defer s.inFlightMu.Unlock()
	for _, seq := range seqs {
		s.inFlight[seq] = true
	}
}

// Release returns claimed operations to pending
func (s *Storage) Release(seqs []uint64) {
	s.inFlightMu.Lock()
	defer s.inFlightMu.Unlock()
	for _, seq := range seqs {
		delete(s.inFlight, seq)
	}
}

func (s *Storage) claimed(seq uint64) bool {
	s.inFlightMu.Lock()
	defer s.inFlightMu.Unlock()
	return s.inFlight[seq]
}

// Load returns all pending operations in enqueue order
func (s *Storage) Load(ctx context.Context) ([]*models.Operation, error) {
	if s.db == nil {
		return nil, storage.ErrStorageClosed
	}

	var ops []*models.Operation

	err := s.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketQueue)
		if bucket == nil {
			return nil
		}

		// Big-endian ключи дают порядок постановки бесплатно
		return bucket.ForEach(func(k, v []byte) error {
			var op models.Operation
			if err := json.Unmarshal(v, &op); err != nil {
				return fmt.Errorf("failed to unmarshal operation: %w", err)
			}
			ops = append(ops, &op)
			return nil
		})
	})

	if err != nil {
		return nil, fmt.Errorf("failed to load queue: %w", err)
	}

	return ops, nil
}

// Remove deletes acknowledged operations by sequence number.
// Missing sequence numbers were coalesced away and are skipped silently.
func (s *Storage) Remove(ctx context.Context, seqs []uint64) error {
	if s.db == nil {
		return storage.ErrStorageClosed
	}

	err := s.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketQueue)
		if bucket == nil {
			return nil
		}

		for _, seq := range seqs {
			if err := bucket.Delete(seqKey(seq)); err != nil {
				return fmt.Errorf("failed to remove operation %d: %w", seq, err)
			}
		}

		return nil
	})

	if err != nil {
		return fmt.Errorf("remove transaction failed: %w", err)
	}

	return nil
}

// Count returns the number of pending operations
func (s *Storage) Count(ctx context.Context) (int, error) {
	if s.db == nil {
		return 0, storage.ErrStorageClosed
	}

	var count int

	err := s.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketQueue)
		if bucket == nil {
			return nil
		}
		count = bucket.Stats().KeyN
		return nil
	})

	if err != nil {
		return 0, fmt.Errorf("failed to count queue: %w", err)
	}

	return count, nil
}

// Clear removes all pending operations
func (s *Storage) Clear(ctx context.Context) error {
	if s.db == nil {
		return storage.ErrStorageClosed
	}

	err := s.db.Update(func(tx *bbolt.Tx) error {
		if err := tx.DeleteBucket(bucketQueue); err != nil && err != bbolt.ErrBucketNotFound {
			return fmt.Errorf("failed to delete queue bucket: %w", err)
		}

		if _, err := tx.CreateBucket(bucketQueue); err != nil {
			return fmt.Errorf("failed to recreate queue bucket: %w", err)
		}

		return nil
	})

	if err != nil {
		return fmt.Errorf("clear transaction failed: %w", err)
	}

	return nil
}
