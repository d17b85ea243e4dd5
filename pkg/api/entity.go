package api

// EntityRequest представляет тело запроса create/update для одной сущности
type EntityRequest struct {
	Data     map[string]any `json:"data"`
	EntityID string         `json:"entity_id"`
}

// EntityResponse представляет ответ сервера на CRUD операцию.
// Version — версия, назначенная сервером после принятия записи.
type EntityResponse struct {
	Data     map[string]any `json:"data"`
	EntityID string         `json:"entity_id"`
	Version  int64          `json:"version"`
}

// ErrorResponse представляет ошибку от сервера
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// ConflictResponse представляет тело ответа 409/412 при несовпадении версии:
// текущая версия и данные на сервере для повторного разрешения конфликта.
type ConflictResponse struct {
	ServerData    map[string]any `json:"server_data"`
	EntityID      string         `json:"entity_id"`
	ServerVersion int64          `json:"server_version"`
}
