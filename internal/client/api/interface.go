package api

import (
	"context"

	"github.com/iudanet/famboard/internal/models"
	"github.com/iudanet/famboard/pkg/api"
)

//go:generate moq -out client_mock.go . ClientAPI

// ClientAPI defines the remote service surface the sync engine consumes:
// one batched delta-sync endpoint plus per-entity CRUD with optimistic
// concurrency headers.
type ClientAPI interface {
	// DeltaSync submits pending changes and checkpoints, returning server
	// changes since the checkpoints plus detected version conflicts
	DeltaSync(ctx context.Context, req api.SyncRequest) (*api.SyncResponse, error)

	// CreateEntity creates a single entity immediately (non-batched path)
	CreateEntity(ctx context.Context, entityType models.EntityType, req api.EntityRequest) (*api.EntityResponse, error)

	// GetEntity fetches the latest server state of a single entity
	GetEntity(ctx context.Context, entityType models.EntityType, id string) (*api.EntityResponse, error)

	// UpdateEntity updates a single entity with If-Match semantics.
	// A version mismatch is returned as *ConflictError.
	UpdateEntity(ctx context.Context, entityType models.EntityType, id string, version int64, data map[string]any) (*api.EntityResponse, error)

	// DeleteEntity deletes a single entity with If-Match semantics.
	// A version mismatch is returned as *ConflictError.
	DeleteEntity(ctx context.Context, entityType models.EntityType, id string, version int64) error
}

// TokenSource supplies the bearer token attached to every request.
// Token storage and refresh are outside the sync engine.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// StaticToken is a TokenSource returning a fixed token
type StaticToken string

// Token implements TokenSource.
func (t StaticToken) Token(ctx context.Context) (string, error) {
	return string(t), nil
}
