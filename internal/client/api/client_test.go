package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/famboard/internal/models"
	"github.com/iudanet/famboard/pkg/api"
)

func newTestClient(handler http.HandlerFunc) (*Client, *httptest.Server) {
	server := httptest.NewServer(handler)
	client := NewClient(server.URL, StaticToken("test-token"), 5*time.Second)
	return client, server
}

func TestDeltaSync(t *testing.T) {
	syncTime := time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)

	client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/v1/sync", r.URL.Path)
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))

		var req api.SyncRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Len(t, req.PendingChanges, 1)

		resp := api.SyncResponse{
			SyncTimestamp: syncTime,
			ServerChanges: []api.ServerChange{
				{
					Data:       map[string]any{"id": "task-2", "title": "From server"},
					EntityID:   "task-2",
					EntityType: "task",
					Operation:  api.OperationUpdate,
					Version:    3,
				},
			},
		}
		w.Header().Set("Content-Type", "application/json")
		require.NoError(t, json.NewEncoder(w).Encode(resp))
	})
	defer server.Close()

	resp, err := client.DeltaSync(context.Background(), api.SyncRequest{
		PendingChanges: []api.PendingChange{
			{
				Data:       map[string]any{"id": "task-1", "title": "Local"},
				EntityID:   "task-1",
				EntityType: "task",
				Operation:  api.OperationCreate,
				Version:    1,
			},
		},
	})
	require.NoError(t, err)
	assert.True(t, resp.SyncTimestamp.Equal(syncTime))
	require.Len(t, resp.ServerChanges, 1)
	assert.Equal(t, "task-2", resp.ServerChanges[0].EntityID)
}

func TestUpdateEntity_SendsIfMatch(t *testing.T) {
	client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/api/v1/entities/task/task-1", r.URL.Path)
		assert.Equal(t, "5", r.Header.Get("If-Match"))

		w.Header().Set("Content-Type", "application/json")
		require.NoError(t, json.NewEncoder(w).Encode(api.EntityResponse{
			Data:     map[string]any{"id": "task-1"},
			EntityID: "task-1",
			Version:  6,
		}))
	})
	defer server.Close()

	resp, err := client.UpdateEntity(context.Background(), models.EntityTypeTask, "task-1", 5, map[string]any{"id": "task-1"})
	require.NoError(t, err)
	assert.Equal(t, int64(6), resp.Version)
}

func TestUpdateEntity_VersionMismatch(t *testing.T) {
	client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusConflict)
		require.NoError(t, json.NewEncoder(w).Encode(api.ConflictResponse{
			ServerData:    map[string]any{"id": "task-1", "title": "Server side"},
			EntityID:      "task-1",
			ServerVersion: 7,
		}))
	})
	defer server.Close()

	_, err := client.UpdateEntity(context.Background(), models.EntityTypeTask, "task-1", 5, map[string]any{"id": "task-1"})

	var conflictErr *ConflictError
	require.ErrorAs(t, err, &conflictErr)
	assert.Equal(t, "task-1", conflictErr.EntityID)
	assert.Equal(t, int64(7), conflictErr.ServerVersion)
	assert.Equal(t, "Server side", conflictErr.ServerData["title"])
}

func TestDeleteEntity_PreconditionFailed(t *testing.T) {
	// 412 раскладывается так же, как 409
	client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "3", r.Header.Get("If-Match"))

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusPreconditionFailed)
		require.NoError(t, json.NewEncoder(w).Encode(api.ConflictResponse{
			EntityID:      "task-1",
			ServerVersion: 4,
		}))
	})
	defer server.Close()

	err := client.DeleteEntity(context.Background(), models.EntityTypeTask, "task-1", 3)

	var conflictErr *ConflictError
	require.ErrorAs(t, err, &conflictErr)
	assert.Equal(t, int64(4), conflictErr.ServerVersion)
}

func TestDoRequest_ServerError(t *testing.T) {
	client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	defer server.Close()

	_, err := client.GetEntity(context.Background(), models.EntityTypeTask, "task-1")
	assert.ErrorIs(t, err, ErrServerUnavailable)
}

func TestDoRequest_ConnectionRefused(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // порт закрыт - соединение не установится

	client := NewClient(server.URL, nil, time.Second)

	_, err := client.GetEntity(context.Background(), models.EntityTypeTask, "task-1")
	assert.ErrorIs(t, err, ErrServerUnavailable)
}

func TestDoRequest_MalformedBody(t *testing.T) {
	client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("not json at all"))
	})
	defer server.Close()

	_, err := client.GetEntity(context.Background(), models.EntityTypeTask, "task-1")
	assert.ErrorIs(t, err, ErrMalformedResponse)
}

func TestDoRequest_ClientErrorMessage(t *testing.T) {
	client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		require.NoError(t, json.NewEncoder(w).Encode(api.ErrorResponse{
			Error:   "validation_failed",
			Message: "title is required",
		}))
	})
	defer server.Close()

	_, err := client.CreateEntity(context.Background(), models.EntityTypeTask, api.EntityRequest{EntityID: "task-1"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "title is required")
	// 4xx не относится к недоступности сервера
	assert.NotErrorIs(t, err, ErrServerUnavailable)
}
