package storage

import "errors"

// Common client storage errors
var (
	// ErrRecordNotFound indicates that no record exists for the given type and id
	ErrRecordNotFound = errors.New("record not found")

	// ErrConflictNotFound indicates that no pending conflict exists for the given type and id
	ErrConflictNotFound = errors.New("conflict not found")

	// ErrStorageClosed indicates that storage is closed
	ErrStorageClosed = errors.New("storage is closed")
)
