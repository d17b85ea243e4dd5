package api

import (
	"errors"
	"fmt"
)

// Ошибки транспортного уровня.
// Для вызывающего кода обе означают одно: цикл синхронизации прерывается,
// локальное состояние не трогаем, повтор при следующем триггере.
var (
	// ErrServerUnavailable indicates a transport failure: no connectivity,
	// timeout or a 5xx answer
	ErrServerUnavailable = errors.New("server unavailable")

	// ErrMalformedResponse indicates the server answered with a body that
	// doesn't match the expected schema
	ErrMalformedResponse = errors.New("malformed server response")
)

// ConflictError is the 409/412 answer of the per-entity CRUD endpoints:
// the submitted version didn't match, the server returns its current
// version and data for conflict resolution.
type ConflictError struct {
	ServerData    map[string]any
	EntityID      string
	ServerVersion int64
}

// Error implements the error interface.
func (e *ConflictError) Error() string {
	return fmt.Sprintf("version conflict on %s: server at version %d", e.EntityID, e.ServerVersion)
}
