package boltdb

import (
	"context"
	"fmt"
	"sync"

	"go.etcd.io/bbolt"

	"github.com/iudanet/famboard/internal/models"
)

var (
	// BoltDB bucket names
	bucketQueue     = []byte("queue")
	bucketMetadata  = []byte("metadata")
	bucketConflicts = []byte("conflicts")
)

// entityBucket возвращает имя bucket для записей данного типа сущности
func entityBucket(entityType models.EntityType) []byte {
	return []byte("entities_" + string(entityType))
}

// Storage represents BoltDB storage implementation for the client.
// It backs the entity store, the operation queue, the per-type sync
// checkpoints and the pending-conflict table.
type Storage struct {
	db *bbolt.DB

	// Операции, снятые активным циклом синхронизации. Только в памяти:
	// после рестарта все операции снова pending
	inFlight   map[uint64]bool
	inFlightMu sync.Mutex
}

// New creates a new BoltDB storage instance
// dbPath is the path to the BoltDB database file
func New(ctx context.Context, dbPath string) (*Storage, error) {
	// Открываем BoltDB
	db, err := bbolt.Open(dbPath, 0600, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to open boltdb: %w", err)
	}

	storage := &Storage{
		db:       db,
		inFlight: make(map[uint64]bool),
	}

	// Инициализируем buckets
	if err := storage.initBuckets(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize buckets: %w", err)
	}

	return storage, nil
}

// Close closes the database connection
func (s *Storage) Close() error {
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

// initBuckets создает необходимые buckets если они не существуют
func (s *Storage) initBuckets() error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		// Bucket записей на каждый тип сущности
		for _, entityType := range models.AllEntityTypes {
			if _, err := tx.CreateBucketIfNotExists(entityBucket(entityType)); err != nil {
				return fmt.Errorf("failed to create bucket for %s: %w", entityType, err)
			}
		}

		// Очередь операций
		if _, err := tx.CreateBucketIfNotExists(bucketQueue); err != nil {
			return fmt.Errorf("failed to create queue bucket: %w", err)
		}

		// Чекпоинты синхронизации
		if _, err := tx.CreateBucketIfNotExists(bucketMetadata); err != nil {
			return fmt.Errorf("failed to create metadata bucket: %w", err)
		}

		// Конфликты, ожидающие ручного разрешения
		if _, err := tx.CreateBucketIfNotExists(bucketConflicts); err != nil {
			return fmt.Errorf("failed to create conflicts bucket: %w", err)
		}

		return nil
	})
}
