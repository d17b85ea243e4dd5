package api

import "time"

// Операции над сущностями в протоколе синхронизации
const (
	OperationCreate = "create"
	OperationUpdate = "update"
	OperationDelete = "delete"
)

// PendingChange представляет одно локальное изменение, ожидающее отправки.
// Data содержит полный снимок полей сущности на момент постановки в очередь.
type PendingChange struct {
	UpdatedAt  time.Time      `json:"updated_at"`
	Data       map[string]any `json:"data"`
	EntityType string         `json:"entity_type"`
	Operation  string         `json:"operation"`
	EntityID   string         `json:"entity_id"`
	Version    int64          `json:"version"`
}

// SyncRequest представляет запрос на дельта-синхронизацию от клиента.
// LastSyncTimestamps содержит чекпоинт по каждому типу сущности.
type SyncRequest struct {
	LastSyncTimestamps map[string]time.Time `json:"last_sync_timestamps"`
	PendingChanges     []PendingChange      `json:"pending_changes"`
}

// ServerChange представляет изменение на сервере с момента чекпоинта клиента.
// Сервер включает сюда и принятые записи самого клиента с новыми версиями.
type ServerChange struct {
	Data       map[string]any `json:"data"`
	EntityType string         `json:"entity_type"`
	Operation  string         `json:"operation"`
	EntityID   string         `json:"entity_id"`
	Version    int64          `json:"version"`
}

// ConflictItem представляет конфликт версий, обнаруженный сервером:
// версия клиента не совпала с текущей версией сервера.
type ConflictItem struct {
	ClientData    map[string]any `json:"client_data"`
	ServerData    map[string]any `json:"server_data"`
	EntityType    string         `json:"entity_type"`
	EntityID      string         `json:"entity_id"`
	ClientVersion int64          `json:"client_version"`
	ServerVersion int64          `json:"server_version"`
}

// SyncResponse представляет ответ сервера на дельта-синхронизацию.
// SyncTimestamp — новый чекпоинт, применяется ко всем типам сразу.
type SyncResponse struct {
	SyncTimestamp time.Time      `json:"sync_timestamp"`
	ServerChanges []ServerChange `json:"server_changes"`
	Conflicts     []ConflictItem `json:"conflicts"`
}
